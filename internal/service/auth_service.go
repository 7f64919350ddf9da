package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/pbkdf2"

	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/apperrors"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/api/request"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/model"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/repository"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/validation"
)

const pbkdf2Iterations = 100_000

// AuthService handles account creation, credential verification and bearer
// token issuance. Tokens are fernet-encrypted, carry only the user ID and
// expire after the configured TTL; clients treat them as opaque.
type AuthService struct {
	userRepo *repository.UserRepository
	key      *fernet.Key
	tokenTTL time.Duration
}

// NewAuthService creates a new AuthService with the provided dependencies.
func NewAuthService(userRepo *repository.UserRepository, key *fernet.Key, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		key:      key,
		tokenTTL: tokenTTL,
	}
}

// Register creates a new account. Email and username must be unique.
func (s *AuthService) Register(ctx context.Context, req request.RegisterRequest) (model.User, error) {
	if err := validation.ValidateRegister(req); err != nil {
		return model.User{}, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.InsertUser(ctx, &user); err != nil {
		return model.User{}, err
	}

	return user, nil
}

// Login verifies the credentials and issues a bearer token. Unknown email and
// wrong password yield the same error.
func (s *AuthService) Login(ctx context.Context, req request.LoginRequest) (string, error) {
	if err := validation.ValidateLogin(req); err != nil {
		return "", err
	}

	user, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return "", apperrors.ErrInvalidCredentials
	}

	if !checkPassword(req.Password, user.PasswordHash) {
		return "", apperrors.ErrInvalidCredentials
	}

	token, err := fernet.EncryptAndSign([]byte(user.ID), s.key)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	return string(token), nil
}

// VerifyToken validates a bearer token and returns the authenticated user.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (model.User, error) {
	payload := fernet.VerifyAndDecrypt([]byte(token), s.tokenTTL, []*fernet.Key{s.key})
	if payload == nil {
		return model.User{}, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.GetUserByID(ctx, string(payload))
	if err != nil {
		return model.User{}, apperrors.ErrInvalidToken
	}

	return user, nil
}

// hashPassword derives a PBKDF2-SHA256 hash and returns it as "salt$hash"
// with both parts base64-encoded.
func hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	hash := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, 32, sha256.New)
	return base64.RawStdEncoding.EncodeToString(salt) + "$" + base64.RawStdEncoding.EncodeToString(hash), nil
}

// checkPassword verifies a plaintext password against a stored "salt$hash".
func checkPassword(password, stored string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 2 {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	hash := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, len(expected), sha256.New)
	return subtle.ConstantTimeCompare(hash, expected) == 1
}
