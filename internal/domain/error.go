package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidFormat   = errors.New("invalid format: expected Name;Type;Price;Description;Age")
	ErrNoPendingImage  = errors.New("no pending image for operator")
	ErrNoEditSession   = errors.New("no edit session for this reply")
	ErrUnauthorized    = errors.New("sender is not an operator")
	ErrInvalidCallback = errors.New("invalid callback payload")
	ErrPayloadTooLong  = errors.New("callback payload exceeds 64 bytes")
)

// UpstreamError reports a failed call to the image host or the catalog store.
// The message keeps the upstream detail so it can be shown to the operator as is.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Upstream wraps err as an UpstreamError for op. A nil err stays nil.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	return &UpstreamError{Op: op, Err: err}
}
