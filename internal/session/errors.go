package session

import "fmt"

// SessionError represents a domain-specific error
type SessionError struct {
	Code    string
	Message string
	Cause   error
}

func (e *SessionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *SessionError) Unwrap() error {
	return e.Cause
}

// Error codes
const (
	ErrCodeInvalidRectangle = "INVALID_RECTANGLE"
	ErrCodeHostResolution   = "HOST_RESOLUTION"
	ErrCodeDisplayQuery     = "DISPLAY_QUERY"
	ErrCodeInvalidParams    = "INVALID_PARAMS"
	ErrCodeProcessFailed    = "PROCESS_FAILED"
)

// NewSessionError creates a new session error
func NewSessionError(code, message string, cause error) *SessionError {
	return &SessionError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
