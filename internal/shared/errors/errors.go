package errors

import "errors"

// Configuration errors. The process does not start when one of these is returned.
var (
	ErrMissingBotToken      = errors.New("BOT_TOKEN environment variable is required")
	ErrMissingSourceChannel = errors.New("SOURCE_CHANNEL environment variable is required")
	ErrMissingTargetChannel = errors.New("TARGET_CHANNEL environment variable is required")
	ErrInvalidAlbumDelay    = errors.New("album delay must be greater than zero")
)

// Resolution errors. Reported and retried on the long cooldown.
var (
	ErrAccessDenied     = errors.New("access to channel denied")
	ErrInvalidReference = errors.New("invalid channel reference")
)

// Relay errors. The message is skipped and the mirror continues.
var (
	ErrPayloadUnsupported = errors.New("payload cannot be copied")
	ErrPermission         = errors.New("no permission to relay message")
)

// Stream errors. The pipeline restarts on the short cooldown.
var (
	ErrTransientConnection = errors.New("transient connection error")
	ErrStreamClosed        = errors.New("event stream closed unexpectedly")
)

// IsConfigurationFailure reports whether err denotes a resolution failure
// that only an external fix (bot re-added, reference corrected) can clear.
func IsConfigurationFailure(err error) bool {
	return errors.Is(err, ErrAccessDenied) || errors.Is(err, ErrInvalidReference)
}
