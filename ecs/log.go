package ecs

import (
	"io"

	"github.com/rs/zerolog"
)

// Logger is the package-level debug logger for the storage core. It is
// silent by default (writes to io.Discard) so the hot entity-mutation
// path never pays for logging unless a caller opts in with SetLogger.
//
// Only one-time events are logged: component registration, and the
// creation of a new archetype together with the edge that reached it.
// Edges cached to an already existing archetype are not logged, and
// neither are per-entity moves, since they dominate runtime cost.
var Logger = zerolog.New(io.Discard).With().Timestamp().Logger()

// SetLogger redirects the core's debug logging to l.
func SetLogger(l zerolog.Logger) {
	Logger = l
}
