package chat

import "errors"

// Error kinds returned by Service. Causes are joined to the kind, so match
// with errors.Is and log the full error.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnknownPersona     = errors.New("unknown persona")
	ErrContextUnavailable = errors.New("context unavailable")
	ErrCompletionFailed   = errors.New("completion failed")
	ErrPersistenceFailed  = errors.New("persistence failed")
)
