package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrStorageWrite = errors.New("storage write failed")
	ErrStorageRead  = errors.New("storage read failed")
)

// StorageError is returned by every repository operation that fails. Op is
// ErrStorageWrite or ErrStorageRead, so callers can use errors.Is on either
// the kind or the wrapped cause.
type StorageError struct {
	Op      error
	Backend string
	// Payload is whatever diagnostic data the backend handed back
	// (an error object, a response body, ...). May be nil.
	Payload any
	Err     error
}

func (e *StorageError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Backend, e.Op)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Payload != nil {
		msg += ": " + describePayload(e.Payload)
	}
	return msg
}

func (e *StorageError) Unwrap() []error {
	errs := []error{e.Op}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func writeError(backend string, payload any, err error) error {
	return &StorageError{Op: ErrStorageWrite, Backend: backend, Payload: payload, Err: err}
}

func readError(backend string, payload any, err error) error {
	return &StorageError{Op: ErrStorageRead, Backend: backend, Payload: payload, Err: err}
}

func describePayload(p any) string {
	switch v := p.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case error:
		return v.Error()
	}
	if b, err := json.Marshal(p); err == nil {
		return string(b)
	}
	return fmt.Sprint(p)
}
