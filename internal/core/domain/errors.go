package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoDocument indicates an operation needs a loaded document.
	ErrNoDocument = errors.New("no document loaded")

	// ErrNoLayout indicates the current document has no extracted layout yet.
	ErrNoLayout = errors.New("no layout available")

	// ErrInputDisabled indicates chat input is gated (no document, request in flight,
	// or no handler wired).
	ErrInputDisabled = errors.New("input disabled")

	// ErrEmptyQuestion indicates a blank chat submission.
	ErrEmptyQuestion = errors.New("question is empty")

	// ErrDropInProgress indicates another drop is still being ingested or the
	// cooldown window has not elapsed.
	ErrDropInProgress = errors.New("drop in progress")

	// ErrUnsupportedFile indicates the file is not a PDF.
	ErrUnsupportedFile = errors.New("unsupported file format")

	// ErrFileTooLarge indicates the file exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrStaleEpoch indicates a completion arrived after the document changed.
	ErrStaleEpoch = errors.New("stale document epoch")

	// ErrNoImage indicates region extraction produced no image for an action that requires one.
	ErrNoImage = errors.New("could not extract image from block")
)

// NetworkError means the request was sent but no response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError means the backend answered with a non-2xx status.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (status %d): %s", e.Status, e.Message)
}

// RequestError means the request could not be built or sent.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request error: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ClipboardError wraps a failed clipboard write.
type ClipboardError struct {
	Err error
}

func (e *ClipboardError) Error() string {
	return fmt.Sprintf("clipboard: %v", e.Err)
}

func (e *ClipboardError) Unwrap() error { return e.Err }

// ValidationError reports a rejected input such as a non-PDF drop.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrInvalidInput
	}
	return e.Err
}

// Messages shown to the user for transport failures.
const (
	networkErrorMessage = "Network error. Please check your connection and try again."
)

// UserMessage maps an error to the text shown in the transcript and notifications.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return fmt.Sprintf("Error %d: %s", serverErr.Status, serverErr.Message)
	}

	var networkErr *NetworkError
	if errors.As(err, &networkErr) {
		return networkErrorMessage
	}

	var requestErr *RequestError
	if errors.As(err, &requestErr) {
		return fmt.Sprintf("Request error: %v", requestErr.Err)
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Reason
	}

	return err.Error()
}
