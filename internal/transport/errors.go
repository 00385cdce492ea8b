package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport indicates the exchange never produced an HTTP response.
	ErrTransport = errors.New("present transport failure")
	// ErrAPI indicates the API answered with a status above MaxSuccessStatus.
	ErrAPI = errors.New("present api error")
	// ErrPrerequisite indicates the request could not be built; no network call was made.
	ErrPrerequisite = errors.New("present request prerequisite not met")
	// ErrMalformedResponse indicates a success status whose body is not a JSON object.
	ErrMalformedResponse = errors.New("malformed present api response")
)

// TransportError wraps connection, DNS, timeout and body read failures.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// APIError carries the error document returned by the API, or the synthesised
// {"status":"ERROR","subject":<raw body>} document when the body was not JSON.
type APIError struct {
	Status   int
	Document Document
}

func (e *APIError) Error() string {
	if subject := e.Subject(); subject != "" {
		return fmt.Sprintf("present api: status %d: %s", e.Status, subject)
	}
	return fmt.Sprintf("present api: status %d", e.Status)
}

func (e *APIError) Is(target error) bool { return target == ErrAPI }

// Subject returns the human readable reason reported by the API, if any.
func (e *APIError) Subject() string {
	for _, key := range []string{"subject", "message", "error"} {
		if s, ok := e.Document[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// PrerequisiteError reports a request that was rejected before any network attempt.
type PrerequisiteError struct {
	Reason string
	Err    error
}

func (e *PrerequisiteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrPrerequisite, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrPrerequisite, e.Reason)
}

func (e *PrerequisiteError) Unwrap() error { return e.Err }

func (e *PrerequisiteError) Is(target error) bool { return target == ErrPrerequisite }
