package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist
	// in the authenticated user's ledger.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrUserNotFound indicates that a user with the given ID or email does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrEmailTaken indicates that an account with the given email already exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUsernameTaken indicates that an account with the given username already exists.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials indicates a failed login attempt. The same error is
	// returned for an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken indicates that a bearer token is missing, malformed or expired.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrInvalidCSVHeaders indicates that an import file is missing one of the
	// required column headers.
	ErrInvalidCSVHeaders = errors.New("invalid CSV headers")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")
)

// Upstream errors represent failures of external collaborators. They degrade
// derived views but never block ledger operations.
var (
	// ErrPriceUnavailable indicates the price source could not be reached or
	// returned an unusable response.
	ErrPriceUnavailable = errors.New("bitcoin price unavailable")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data.
var (
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveSummary      = errors.New("failed to retrieve summary")
	ErrFailedToImportTransactions   = errors.New("failed to import transactions")
	ErrFailedToRetrieveUser         = errors.New("failed to retrieve user")
)
