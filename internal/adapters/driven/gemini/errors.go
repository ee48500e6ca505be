package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/khalid0211/FileRAG/internal/core/domain"
)

// ErrMissingAPIKey indicates the client was built without credentials.
var ErrMissingAPIKey = fmt.Errorf("gemini: %w: no API key configured", domain.ErrUnauthorized)

// apiCode returns the HTTP status of a genai.APIError, or 0.
func apiCode(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code
	}
	return 0
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound) || apiCode(err) == http.StatusNotFound
}

// IsUnauthorized returns true if the API key was rejected.
func IsUnauthorized(err error) bool {
	if errors.Is(err, domain.ErrUnauthorized) {
		return true
	}
	code := apiCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return errors.Is(err, domain.ErrRateLimited) || apiCode(err) == http.StatusTooManyRequests
}

// WrapError converts a genai error into one that matches a domain sentinel.
// The original error stays in the chain.
func WrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}

	switch code := apiCode(err); {
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
	case code == http.StatusBadRequest:
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	default:
		if errors.Is(err, domain.ErrUnauthorized) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
}
