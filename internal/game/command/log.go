package command

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
)

// Log is the undo/redo history of a world. Every mutation of the world goes
// through Do so it can be reverted.
type Log struct {
	undo   []Action
	redo   []Action
	dirty  Dirty
	limit  int
	logger zerolog.Logger
}

// NewLog creates a log keeping at most limit undo entries (0 = unbounded).
func NewLog(logger zerolog.Logger, limit int) *Log {
	return &Log{
		limit:  limit,
		logger: logger.With().Str("component", "CommandLog").Logger(),
	}
}

// Do executes a, records it for undo and clears the redo stack.
func (l *Log) Do(w *core.World, a Action) {
	a.Execute(w)
	l.undo = append(l.undo, a)
	if l.limit > 0 && len(l.undo) > l.limit {
		l.undo = l.undo[len(l.undo)-l.limit:]
	}
	l.redo = nil
	l.dirty |= a.Dirty()
	l.logger.Debug().Str("action", a.Name()).Stringer("dirty", a.Dirty()).Msg("Action executed")
}

// Undo reverts the most recent action.
func (l *Log) Undo(w *core.World) (Action, error) {
	if len(l.undo) == 0 {
		return nil, core.ErrNothingToUndo
	}
	a := l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]
	a.Undo(w)
	l.redo = append(l.redo, a)
	l.dirty |= a.Dirty()
	l.logger.Debug().Str("action", a.Name()).Msg("Action undone")
	return a, nil
}

// Redo re-applies the most recently undone action.
func (l *Log) Redo(w *core.World) (Action, error) {
	if len(l.redo) == 0 {
		return nil, core.ErrNothingToRedo
	}
	a := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]
	a.Execute(w)
	l.undo = append(l.undo, a)
	l.dirty |= a.Dirty()
	l.logger.Debug().Str("action", a.Name()).Msg("Action redone")
	return a, nil
}

func (l *Log) CanUndo() bool { return len(l.undo) > 0 }
func (l *Log) CanRedo() bool { return len(l.redo) > 0 }
func (l *Log) UndoDepth() int { return len(l.undo) }
func (l *Log) RedoDepth() int { return len(l.redo) }

// Pending returns the accumulated dirty flags without clearing them.
func (l *Log) Pending() Dirty { return l.dirty }

// MarkDirty adds flags by hand, e.g. after loading a snapshot.
func (l *Log) MarkDirty(d Dirty) { l.dirty |= d }

// TakeDirty returns the accumulated dirty flags and clears them.
func (l *Log) TakeDirty() Dirty {
	d := l.dirty
	l.dirty = DirtyNone
	return d
}

// Clear forgets all history.
func (l *Log) Clear() {
	l.undo = nil
	l.redo = nil
}
