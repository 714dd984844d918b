package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/events"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}
	ls.eventTypeFilter = make(map[string]bool, len(eventTypes))
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables logging of the full event as JSON
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent logs the event with fields specific to its type
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	logEvent := ls.logger.WithLevel(ls.level()).
		Str("event_type", event.Type()).
		Str("session_id", event.SessionID()).
		Int("turn", event.Turn()).
		Time("timestamp", event.Timestamp())

	switch e := event.(type) {
	case *events.ActionEvent:
		logEvent.Str("action", e.Action).Str("dirty", e.Dirty)

	case *events.OrderRejectedEvent:
		logEvent.
			Str("unit_id", e.UnitID).
			Stringer("order", e.Kind).
			Stringer("from", e.From).
			Stringer("to", e.To).
			Str("reason", e.Reason)

	case *events.TurnStartedEvent:
		logEvent.Int("arrows", e.Arrows).Int("units", e.Units)

	case *events.TurnResolvedEvent:
		logEvent.
			Int("moved", e.Moved).
			Int("loaded", e.Loaded).
			Int("unloaded", e.Unloaded).
			Int("captured", e.Captured).
			Int("consumed", e.Consumed).
			Bool("no_op", e.NoOp).
			Dur("process_time", e.Duration)

	case *events.TurnAdvancedEvent:
		logEvent.Int("previous_turn", e.Previous).Int("reactivated", e.Reactivated)

	case *events.UnitMovedEvent:
		logEvent.
			Str("unit_id", e.UnitID).
			Str("nation", string(e.Nation)).
			Stringer("from", e.From).
			Stringer("to", e.To).
			Int("steps", e.Steps).
			Bool("partial", e.Partial)

	case *events.TerritoryCapturedEvent:
		logEvent.
			Stringer("at", e.At).
			Str("previous_owner", string(e.Previous)).
			Str("owner", string(e.Owner))

	case *events.VisibilityUpdatedEvent:
		logEvent.
			Str("viewer", string(e.Viewer)).
			Int("visible", e.Visible).
			Int("remembered", e.Remembered).
			Int("hidden", e.Hidden)

	case *events.StateTransitionEvent:
		logEvent.Str("from_phase", e.FromPhase).Str("to_phase", e.ToPhase).Str("reason", e.Reason)
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Engine event")
}

func (ls *LoggerSubscriber) level() zerolog.Level {
	switch ls.logLevel {
	case zerolog.DebugLevel, zerolog.InfoLevel, zerolog.WarnLevel, zerolog.ErrorLevel:
		return ls.logLevel
	default:
		return zerolog.InfoLevel
	}
}
