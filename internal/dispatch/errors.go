package dispatch

import "errors"

// Sentinel error kinds (spec §7). Handlers and collaborators wrap these
// with fmt.Errorf("...: %w", Err...) so callers can classify with
// errors.Is while still carrying a human-readable message.
var (
	// ErrNotFound marks an unknown action, command, or text object.
	ErrNotFound = errors.New("not found")
	// ErrCapabilityDenied marks a missing capability.
	ErrCapabilityDenied = errors.New("capability denied")
	// ErrReadonlyDenied marks an edit attempt on a read-only buffer.
	ErrReadonlyDenied = errors.New("buffer is read-only")
	// ErrCommand marks a handler failure carrying a message.
	ErrCommand = errors.New("command error")
	// ErrIo marks a filesystem failure.
	ErrIo = errors.New("io error")
	// ErrParse marks a regex or config parse failure.
	ErrParse = errors.New("parse error")
	// ErrLspProtocol marks a malformed LSP message.
	ErrLspProtocol = errors.New("lsp protocol error")
	// ErrLspTimeout marks an LSP request that exceeded its deadline.
	ErrLspTimeout = errors.New("lsp timeout")
	// ErrLspTransport marks an LSP transport failure.
	ErrLspTransport = errors.New("lsp transport error")
	// ErrCancelled marks work cancelled by a newer request generation.
	ErrCancelled = errors.New("cancelled")
	// ErrInvariant marks an internal consistency failure: fatal in debug
	// builds, logged and recovered in release (spec §7).
	ErrInvariant = errors.New("invariant violation")
)

// NotifyLevel grades a user-visible notification.
type NotifyLevel uint8

const (
	NotifyInfo NotifyLevel = iota
	NotifyWarn
	NotifyError
)

// LevelFor maps an error kind to the notification level the dispatch layer
// surfaces it at.
func LevelFor(err error) NotifyLevel {
	switch {
	case errors.Is(err, ErrCancelled):
		return NotifyInfo
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrCapabilityDenied),
		errors.Is(err, ErrReadonlyDenied), errors.Is(err, ErrLspTimeout):
		return NotifyWarn
	default:
		return NotifyError
	}
}
