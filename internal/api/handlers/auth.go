package handlers

import (
	"errors"
	"net/http"

	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/api/middleware"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/api/request"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/api/response"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/apperrors"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/service"
)

// AuthHandler handles HTTP requests for account and session endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler with the provided service dependency.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// TokenResponse is the login response body.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register handles POST requests to create a new account.
//
// Endpoint: POST /auth/register
// Request Body: RegisterRequest (email, username, password)
// Response: 201 Created with the new user
// Error: 400 Bad Request if validation fails
// Error: 409 Conflict if the email or username is already taken
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.RegisterRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.authService.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrEmailTaken), errors.Is(err, apperrors.ErrUsernameTaken):
			response.RespondError(w, http.StatusConflict, err.Error(), "")
		case isValidationError(err):
			response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to register user", err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusCreated, user)
}

// Login handles POST requests to exchange credentials for a bearer token.
//
// Endpoint: POST /auth/login
// Request Body: LoginRequest (email, password)
// Response: 200 OK with TokenResponse
// Error: 400 Bad Request if validation fails
// Error: 401 Unauthorized if the credentials are wrong
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.LoginRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	token, err := h.authService.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			response.RespondError(w, http.StatusUnauthorized, err.Error(), "")
		case isValidationError(err):
			response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to log in", err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Me handles GET requests for the authenticated user's own account.
//
// Endpoint: GET /users/me
// Response: 200 OK with the user
// Error: 401 Unauthorized if not authenticated (enforced by middleware)
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.RespondError(w, http.StatusUnauthorized, "authentication required", "")
		return
	}

	response.RespondJSON(w, http.StatusOK, user)
}
