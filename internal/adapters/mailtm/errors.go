package mailtm

import (
	"fmt"

	"github.com/bnema/mailtm-mcp/internal/domain"
)

// APIError is an HTTP error response from the mail.tm API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("mail.tm API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("mail.tm API error %d", e.StatusCode)
}

// Is maps status codes onto the domain sentinel errors so callers can use
// errors.Is without inspecting status codes themselves.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case 401:
		return target == domain.ErrInvalidCredentials
	case 404:
		return target == domain.ErrNotFound
	case 422:
		return target == domain.ErrAddressTaken
	case 429:
		return target == domain.ErrRateLimited
	}
	return false
}
