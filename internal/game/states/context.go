package states

import (
	"time"

	"github.com/rs/zerolog"
)

// SessionContext carries what states need to know about the running engine
type SessionContext struct {
	SessionID string
	Logger    zerolog.Logger

	// Turn is kept in step with the world's turn counter by the engine
	Turn int

	// Nations is the number of nations in the loaded world
	Nations int

	// ResolveStarted is set when PhaseResolving is entered
	ResolveStarted time.Time

	// LastResolve is the duration of the most recent resolution
	LastResolve time.Duration

	// Resolutions counts completed Resolving phases
	Resolutions int
}

// NewSessionContext creates a new session context
func NewSessionContext(sessionID string, logger zerolog.Logger) *SessionContext {
	return &SessionContext{
		SessionID: sessionID,
		Logger:    logger.With().Str("session_id", sessionID).Logger(),
		Turn:      1,
	}
}
