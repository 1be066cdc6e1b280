// Package apperror defines a centralized system for application-specific errors.
// Every failure the API can report is an *AppError carrying a type, a short
// human-readable message for the client and, optionally, the underlying error
// that caused it. Handlers never build status codes by hand: they hand the
// error to WriteError-style helpers, which ask the error for its status code
// and its JSON body.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType is an enumeration of the categories of application errors.
type ErrorType int

const (
	// UnknownError is for unspecified errors
	UnknownError ErrorType = iota
	// DatabaseError represents an error originating from the credential store
	DatabaseError
	// ConfigError represents an error related to application configuration
	ConfigError
	// ValidationError represents missing or malformed input the client can fix
	ValidationError
	// DuplicateAccountError is returned when a username or email is already taken
	DuplicateAccountError
	// InvalidCredentialsError is the single, undifferentiated login failure
	InvalidCredentialsError
	// UnauthenticatedError means no credentials were supplied
	UnauthenticatedError
	// ForbiddenError means credentials were supplied but rejected
	ForbiddenError
	// NotFoundError represents a missing user or watchlist row
	NotFoundError
	// BadRequestError represents a request that could not be decoded
	BadRequestError
	// InternalError represents a generic internal server error
	InternalError
	// ExternalServiceError represents a failure of the catalog or intent APIs
	ExternalServiceError
	// MigrationError represents an error during database migrations
	MigrationError
)

// AppError is the application's error type. Message is what the client sees;
// Err is kept for logs and errors.Is/As and is never serialized.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error // Underlying error
}

// Error returns the string representation of the error, satisfying the `error` interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code appropriate for the error type.
//
// Duplicate accounts and bad credentials are reported as 400 rather than
// 409/401: the mobile client treats 401 as "log in again", and a failed login
// attempt is not that.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case DatabaseError, ConfigError, InternalError, MigrationError:
		return http.StatusInternalServerError
	case ValidationError, BadRequestError, DuplicateAccountError, InvalidCredentialsError:
		return http.StatusBadRequest
	case UnauthenticatedError:
		return http.StatusUnauthorized
	case ForbiddenError:
		return http.StatusForbidden
	case NotFoundError:
		return http.StatusNotFound
	case ExternalServiceError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError creates a new AppError. This is a generic constructor.
func NewAppError(errType ErrorType, message string, underlyingError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlyingError,
	}
}

// Constructor functions for specific error types.

// NewDatabaseError creates a new DatabaseError
func NewDatabaseError(message string, underlyingError error) *AppError {
	return NewAppError(DatabaseError, message, underlyingError)
}

// NewConfigError creates a new ConfigError
func NewConfigError(message string, underlyingError error) *AppError {
	return NewAppError(ConfigError, message, underlyingError)
}

// NewValidationError creates a new ValidationError
func NewValidationError(message string, underlyingError error) *AppError {
	return NewAppError(ValidationError, message, underlyingError)
}

// NewDuplicateAccountError creates a new DuplicateAccountError
func NewDuplicateAccountError(message string, underlyingError error) *AppError {
	return NewAppError(DuplicateAccountError, message, underlyingError)
}

// NewInvalidCredentialsError creates a new InvalidCredentialsError
func NewInvalidCredentialsError(message string, underlyingError error) *AppError {
	return NewAppError(InvalidCredentialsError, message, underlyingError)
}

// NewUnauthenticatedError creates a new UnauthenticatedError (no credentials supplied)
func NewUnauthenticatedError(message string, underlyingError error) *AppError {
	return NewAppError(UnauthenticatedError, message, underlyingError)
}

// NewForbiddenError creates a new ForbiddenError (credentials rejected)
func NewForbiddenError(message string, underlyingError error) *AppError {
	return NewAppError(ForbiddenError, message, underlyingError)
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(message string, underlyingError error) *AppError {
	return NewAppError(NotFoundError, message, underlyingError)
}

// NewBadRequestError creates a new BadRequestError
func NewBadRequestError(message string, underlyingError error) *AppError {
	return NewAppError(BadRequestError, message, underlyingError)
}

// NewInternalError creates a new InternalError
func NewInternalError(message string, underlyingError error) *AppError {
	return NewAppError(InternalError, message, underlyingError)
}

// NewExternalServiceError creates a new ExternalServiceError
func NewExternalServiceError(message string, underlyingError error) *AppError {
	return NewAppError(ExternalServiceError, message, underlyingError)
}

// NewMigrationError creates a new MigrationError
func NewMigrationError(message string, underlyingError error) *AppError {
	return NewAppError(MigrationError, message, underlyingError)
}

// ErrorResponse represents the error payload returned to API clients.
// The auth screens of the mobile client read `msg`, everything else reads
// `error`, so both carry the same message.
type ErrorResponse struct {
	Error string `json:"error" example:"Invalid credentials!"`
	Msg   string `json:"msg" example:"Invalid credentials!"`
}

// ToResponse converts an AppError to an ErrorResponse suitable for API responses.
// Only the user-facing Message is included, never the underlying Err.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message, Msg: e.Message}
}

// FromError attempts to convert a generic error to an *AppError.
// Wrapped AppErrors are found too.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Helper functions to check error types.

func isType(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool { return isType(err, NotFoundError) }

// IsValidationError checks if an error is a Validation error
func IsValidationError(err error) bool { return isType(err, ValidationError) }

// IsDuplicateAccount checks if an error is a DuplicateAccount error
func IsDuplicateAccount(err error) bool { return isType(err, DuplicateAccountError) }

// IsInvalidCredentials checks if an error is an InvalidCredentials error
func IsInvalidCredentials(err error) bool { return isType(err, InvalidCredentialsError) }

// IsUnauthenticated checks if an error is an Unauthenticated error
func IsUnauthenticated(err error) bool { return isType(err, UnauthenticatedError) }

// IsForbidden checks if an error is a Forbidden error
func IsForbidden(err error) bool { return isType(err, ForbiddenError) }

// IsInternal checks if an error is an Internal error
func IsInternal(err error) bool { return isType(err, InternalError) }
