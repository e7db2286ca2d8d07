package api

import (
	"errors"
	"net/http"

	"github.com/taskforge/taskforge-api/internal/domain"
	"github.com/taskforge/taskforge-api/internal/service/auth"
	"github.com/taskforge/taskforge-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients. Note that ownership mismatches never
// appear here as a distinct case: the store already reports them as
// not-found.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors; "exists but owned by someone else" arrives here too
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict-class errors surface as field errors in practice, but an
	// unhandled duplicate still must not become a 500
	case store.IsDuplicateError(err):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		isDomainValidationError(err):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken):
		return "Invalid refresh token"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case store.IsNotFoundError(err):
		return "Not found"

	case store.IsDuplicateError(err):
		return "Already exists"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		isDomainValidationError(err):
		return "Invalid input"

	default:
		return "An unexpected error occurred"
	}
}

// isDomainValidationError reports whether err is one of the domain's
// entity validation sentinels, which all indicate bad client input.
func isDomainValidationError(err error) bool {
	for _, sentinel := range []error{
		domain.ErrTaskTitleEmpty,
		domain.ErrTaskTitleShort,
		domain.ErrTaskTitleLong,
		domain.ErrEmptyUsername,
		domain.ErrUsernameTooShort,
		domain.ErrUsernameTooLong,
		domain.ErrInvalidUsername,
		domain.ErrEmptyEmail,
		domain.ErrInvalidEmail,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
