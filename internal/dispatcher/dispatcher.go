package dispatcher

import (
	"time"

	"vibelights/internal/config"
	"vibelights/internal/model"
)

// undoEntry is the snapshot taken immediately before a command (or run of
// coalesced commands) was applied.
type undoEntry struct {
	description   string
	sequenceIndex int
	snapshot      model.Sequence
	coalesceKey   string // "" if this entry does not participate in coalescing
}

// UndoState summarizes the dispatcher's history for a caller's UI.
type UndoState struct {
	CanUndo          bool
	CanRedo          bool
	UndoDescription  string
	RedoDescription  string
}

// Dispatcher executes EditCommands against a Show with snapshot-based
// undo/redo and time-windowed coalescing of per-field micro-edits.
type Dispatcher struct {
	cfg config.Config

	undoStack []undoEntry
	redoStack []undoEntry

	lastCoalesceKey  string
	lastCoalesceTime time.Time
	hasCoalesceState bool

	now func() time.Time // overridable for deterministic tests
}

// New constructs an empty Dispatcher bounded by config.Default().
func New() *Dispatcher {
	return NewWithConfig(config.Default())
}

// NewWithConfig constructs an empty Dispatcher whose undo depth and
// coalescing window come from cfg.
func NewWithConfig(cfg config.Config) *Dispatcher {
	return &Dispatcher{cfg: cfg, now: time.Now}
}

// Execute applies cmd to show. Consecutive commands sharing a coalesce
// key within the dispatcher's configured coalescing window collapse into
// the undo entry of the first command in the run; everything else pushes
// a fresh undo entry and clears the redo stack.
func (d *Dispatcher) Execute(show *model.Show, cmd EditCommand) (Result, error) {
	seqIdx := cmd.sequenceIndex()
	description := cmd.description()
	newKey := cmd.coalesceKey()

	now := d.now()
	coalesceIdx := -1
	if newKey != "" && d.hasCoalesceState && d.lastCoalesceKey == newKey &&
		now.Sub(d.lastCoalesceTime) < d.cfg.CoalesceWindow {
		for i := len(d.undoStack) - 1; i >= 0; i-- {
			if d.undoStack[i].coalesceKey == newKey {
				coalesceIdx = i
				break
			}
		}
	}

	if coalesceIdx >= 0 {
		result, err := apply(show, cmd)
		if err != nil {
			return Result{}, err
		}
		d.undoStack[coalesceIdx].description = description
		d.lastCoalesceTime = now
		d.redoStack = nil
		return result, nil
	}

	seq, err := show.SeqMut(seqIdx)
	if err != nil {
		return Result{}, err
	}
	snapshot := seq.Clone()

	result, err := apply(show, cmd)
	if err != nil {
		return Result{}, err
	}

	d.undoStack = append(d.undoStack, undoEntry{
		description:   description,
		sequenceIndex: seqIdx,
		snapshot:      snapshot,
		coalesceKey:   newKey,
	})
	if len(d.undoStack) > d.cfg.MaxUndoLevels {
		d.undoStack = d.undoStack[1:]
	}
	d.redoStack = nil

	if newKey != "" {
		d.lastCoalesceKey = newKey
		d.lastCoalesceTime = now
		d.hasCoalesceState = true
	}
	// Non-coalescing commands intentionally leave lastCoalesceKey/Time
	// untouched so interleaved non-coalescing edits don't break a chain.

	return result, nil
}

// Undo pops the most recent undo entry, restores its snapshot, and pushes
// the current state onto the redo stack. Fails if the undo stack is empty.
func (d *Dispatcher) Undo(show *model.Show) (string, error) {
	d.hasCoalesceState = false

	if len(d.undoStack) == 0 {
		return "", &model.ValidationError{Message: "Nothing to undo"}
	}
	entry := d.undoStack[len(d.undoStack)-1]
	d.undoStack = d.undoStack[:len(d.undoStack)-1]

	seq, err := show.SeqMut(entry.sequenceIndex)
	if err != nil {
		return "", err
	}
	current := seq.Clone()
	*seq = entry.snapshot

	d.redoStack = append(d.redoStack, undoEntry{
		description:   entry.description,
		sequenceIndex: entry.sequenceIndex,
		snapshot:      current,
	})
	return entry.description, nil
}

// Redo is the symmetric counterpart to Undo.
func (d *Dispatcher) Redo(show *model.Show) (string, error) {
	d.hasCoalesceState = false

	if len(d.redoStack) == 0 {
		return "", &model.ValidationError{Message: "Nothing to redo"}
	}
	entry := d.redoStack[len(d.redoStack)-1]
	d.redoStack = d.redoStack[:len(d.redoStack)-1]

	seq, err := show.SeqMut(entry.sequenceIndex)
	if err != nil {
		return "", err
	}
	current := seq.Clone()
	*seq = entry.snapshot

	d.undoStack = append(d.undoStack, undoEntry{
		description:   entry.description,
		sequenceIndex: entry.sequenceIndex,
		snapshot:      current,
	})
	return entry.description, nil
}

// State reports the current undo/redo availability and pending
// descriptions.
func (d *Dispatcher) State() UndoState {
	s := UndoState{
		CanUndo: len(d.undoStack) > 0,
		CanRedo: len(d.redoStack) > 0,
	}
	if s.CanUndo {
		s.UndoDescription = d.undoStack[len(d.undoStack)-1].description
	}
	if s.CanRedo {
		s.RedoDescription = d.redoStack[len(d.redoStack)-1].description
	}
	return s
}

// Clear discards all undo/redo history and coalescing state, e.g. when
// switching the active sequence.
func (d *Dispatcher) Clear() {
	d.undoStack = nil
	d.redoStack = nil
	d.hasCoalesceState = false
}
