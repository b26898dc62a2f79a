package htm

import (
	"os"

	"github.com/rs/zerolog"
)

// log is the package-level structured logger for Tree lifecycle events
// (open and lock failures, successful opens), in the style of the corpus's
// zerolog.Logger-by-value helpers. By default it writes Warn and higher to
// stderr, so the Info-level "tree opened" event is dropped; callers
// embedding this package in a service should call SetLogger with their
// own configured logger.
var log zerolog.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.WarnLevel)

// SetLogger replaces the package-level logger used for Tree lifecycle
// events.
func SetLogger(l zerolog.Logger) {
	log = l
}
