// File: internal/services/pinecone/errors.go
package pinecone

import "fmt"

// StoreError represents a vector-store specific error.
type StoreError struct {
	Type    string
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pinecone %s error: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("pinecone %s error: %s", e.Type, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func NewConnectionError(message string, err error) *StoreError {
	return &StoreError{Type: "connection", Message: message, Err: err}
}

func NewOperationError(message string, err error) *StoreError {
	return &StoreError{Type: "operation", Message: message, Err: err}
}

func NewConfigError(message string) *StoreError {
	return &StoreError{Type: "config", Message: message}
}

func NewTimeoutError(message string, err error) *StoreError {
	return &StoreError{Type: "timeout", Message: message, Err: err}
}

func NewRetryError(message string, err error) *StoreError {
	return &StoreError{Type: "retry", Message: message, Err: err}
}
