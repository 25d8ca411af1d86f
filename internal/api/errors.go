package api

import "encoding/json"

// RequestError is the single error shape every backend call fails with.
// Message is the backend's structured message when one was sent, otherwise
// a generic fallback describing the operation.
type RequestError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string { return e.Message }

type backendError struct {
	Message string `json:"message"`
}

func normalizeError(op, fallback string, statusCode int, body []byte) *RequestError {
	message := fallback
	if len(body) > 0 {
		var parsed backendError
		if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
			message = parsed.Message
		}
	}
	return &RequestError{Op: op, StatusCode: statusCode, Message: message}
}
