package domain

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrConnectivity       = errors.New("cannot reach server")
	ErrNotFound           = errors.New("not found")
	ErrServer             = errors.New("server error")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// UserMessage renders err the way the front-end shows it. Validation errors
// carry their own detail; everything else gets a fixed message per category.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return err.Error()
	case errors.Is(err, ErrConnectivity):
		return "Unable to connect to server. Is the backend running?"
	case errors.Is(err, ErrNotFound):
		return "Order not found"
	case errors.Is(err, ErrInvalidTransition):
		return "This order can no longer move to that status"
	case errors.Is(err, ErrInvalidCredentials):
		return ErrInvalidCredentials.Error()
	case errors.Is(err, ErrUnauthorized):
		return "Your session has expired. Please log in again."
	default:
		return "Something went wrong. Please try again later."
	}
}
