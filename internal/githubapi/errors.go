package githubapi

import "fmt"

// APIError represents a failed call against the GitHub REST API.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	Message    string
	Cause      error
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("github api error: %s %s: %s: %v", e.Method, e.Path, e.Message, e.Cause)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("github api error: %s %s: %s (HTTP %d)", e.Method, e.Path, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("github api error: %s %s: %s", e.Method, e.Path, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}
