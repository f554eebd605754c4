// Package dispatcher is the single mutator of a model.Show: it executes
// structured EditCommand values against a sequence, coalesces rapid
// micro-edits into one undo entry, and maintains bounded undo/redo stacks.
package dispatcher

import (
	"fmt"

	"vibelights/internal/model"
)

// EditCommand is the closed set of edit operations the dispatcher can
// apply. Each concrete type is a struct implementing the marker method,
// mirroring the DSL AST's closed-sum idiom.
type EditCommand interface {
	isEditCommand()
	description() string
	coalesceKey() string // "" means non-coalescing
	sequenceIndex() int

	// Meta reports static metadata about the command's kind, for any
	// transport (UI, scripting API, remote automation) that needs to
	// describe or filter commands without applying one.
	Meta() CommandInfo
}

// CommandCategory groups command kinds for menu/automation surfaces.
type CommandCategory string

const (
	CategoryEffect   CommandCategory = "effect"
	CategoryTrack    CommandCategory = "track"
	CategorySequence CommandCategory = "sequence"
	CategoryAsset    CommandCategory = "asset" // scripts, gradients, curves
	CategoryBatch    CommandCategory = "batch"
)

// CommandInfo is the metadata a transport needs to expose a command kind:
// a stable name, a human-readable description, a category for grouping,
// whether it participates in undo/redo, whether it should be hidden from
// automation surfaces (scripting APIs, remote control), and whether it
// may run asynchronously with respect to the caller.
type CommandInfo struct {
	Name        string
	Description string
	Category    CommandCategory
	Undoable    bool
	Hidden      bool
	Async       bool
}

// commandMeta is the single table backing every variant's Meta() method,
// keyed by the same name used as CommandInfo.Name.
var commandMeta = map[string]CommandInfo{
	"add_effect": {
		Name: "add_effect", Description: "Add an effect to a track",
		Category: CategoryEffect, Undoable: true,
	},
	"delete_effects": {
		Name: "delete_effects", Description: "Delete one or more effects",
		Category: CategoryEffect, Undoable: true,
	},
	"update_effect_param": {
		Name: "update_effect_param", Description: "Update a single effect parameter",
		Category: CategoryEffect, Undoable: true,
	},
	"update_effect_time_range": {
		Name: "update_effect_time_range", Description: "Update an effect's start/end time",
		Category: CategoryEffect, Undoable: true,
	},
	"move_effect_to_track": {
		Name: "move_effect_to_track", Description: "Move an effect to a different track",
		Category: CategoryEffect, Undoable: true,
	},
	"add_track": {
		Name: "add_track", Description: "Add a track to a sequence",
		Category: CategoryTrack, Undoable: true,
	},
	"delete_track": {
		Name: "delete_track", Description: "Delete a track and its effects",
		Category: CategoryTrack, Undoable: true,
	},
	"update_sequence_settings": {
		Name: "update_sequence_settings", Description: "Update sequence name, audio, duration, or frame rate",
		Category: CategorySequence, Undoable: true,
	},
	"batch": {
		Name: "batch", Description: "Apply several commands as one undo step",
		Category: CategoryBatch, Undoable: true, Hidden: true,
	},
	"set_script": {
		Name: "set_script", Description: "Create or replace a named script asset",
		Category: CategoryAsset, Undoable: true, Async: true,
	},
	"delete_script": {
		Name: "delete_script", Description: "Delete a named script asset",
		Category: CategoryAsset, Undoable: true,
	},
	"rename_script": {
		Name: "rename_script", Description: "Rename a script asset",
		Category: CategoryAsset, Undoable: true,
	},
	"set_gradient": {
		Name: "set_gradient", Description: "Create or replace a named gradient asset",
		Category: CategoryAsset, Undoable: true,
	},
	"delete_gradient": {
		Name: "delete_gradient", Description: "Delete a named gradient asset",
		Category: CategoryAsset, Undoable: true,
	},
	"rename_gradient": {
		Name: "rename_gradient", Description: "Rename a gradient asset",
		Category: CategoryAsset, Undoable: true,
	},
	"set_curve": {
		Name: "set_curve", Description: "Create or replace a named curve asset",
		Category: CategoryAsset, Undoable: true,
	},
	"delete_curve": {
		Name: "delete_curve", Description: "Delete a named curve asset",
		Category: CategoryAsset, Undoable: true,
	},
	"rename_curve": {
		Name: "rename_curve", Description: "Rename a curve asset",
		Category: CategoryAsset, Undoable: true,
	},
}

type AddEffect struct {
	SequenceIndex, TrackIndex int
	Kind                      model.EffectKind
	Start, End                float64
	BlendMode                 model.BlendMode
	Opacity                   float64
}

type DeleteEffects struct {
	SequenceIndex int
	Targets       [][2]int // (trackIndex, effectIndex) pairs
}

type UpdateEffectParam struct {
	SequenceIndex, TrackIndex, EffectIndex int
	Key                                    string
	Value                                  model.ParamValue
}

type UpdateEffectTimeRange struct {
	SequenceIndex, TrackIndex, EffectIndex int
	Start, End                             float64
}

type MoveEffectToTrack struct {
	SequenceIndex, FromTrack, EffectIndex, ToTrack int
}

type AddTrack struct {
	SequenceIndex int
	Name          string
	Target        model.EffectTarget
}

type DeleteTrack struct {
	SequenceIndex, TrackIndex int
}

// UpdateSequenceSettings applies each non-nil field independently.
type UpdateSequenceSettings struct {
	SequenceIndex int
	Name          *string
	AudioFile     **string // nil: leave unchanged; non-nil pointing at nil: clear
	Duration      *float64
	FrameRate     *float64
}

// Batch executes every sub-command sequentially under one undo entry.
type Batch struct {
	Description string
	Commands    []EditCommand
}

type SetScript struct {
	SequenceIndex int
	Name, Source  string
}

type DeleteScript struct {
	SequenceIndex int
	Name          string
}

type RenameScript struct {
	SequenceIndex      int
	OldName, NewName   string
}

type SetGradient struct {
	SequenceIndex int
	Name          string
	Gradient      model.ColorGradient
}

type DeleteGradient struct {
	SequenceIndex int
	Name          string
}

type RenameGradient struct {
	SequenceIndex    int
	OldName, NewName string
}

type SetCurve struct {
	SequenceIndex int
	Name          string
	Curve         model.Curve
}

type DeleteCurve struct {
	SequenceIndex int
	Name          string
}

type RenameCurve struct {
	SequenceIndex    int
	OldName, NewName string
}

func (*AddEffect) isEditCommand()              {}
func (*DeleteEffects) isEditCommand()           {}
func (*UpdateEffectParam) isEditCommand()       {}
func (*UpdateEffectTimeRange) isEditCommand()   {}
func (*MoveEffectToTrack) isEditCommand()       {}
func (*AddTrack) isEditCommand()                {}
func (*DeleteTrack) isEditCommand()             {}
func (*UpdateSequenceSettings) isEditCommand()  {}
func (*Batch) isEditCommand()                   {}
func (*SetScript) isEditCommand()               {}
func (*DeleteScript) isEditCommand()            {}
func (*RenameScript) isEditCommand()            {}
func (*SetGradient) isEditCommand()             {}
func (*DeleteGradient) isEditCommand()          {}
func (*RenameGradient) isEditCommand()          {}
func (*SetCurve) isEditCommand()                {}
func (*DeleteCurve) isEditCommand()             {}
func (*RenameCurve) isEditCommand()             {}

func (c *AddEffect) description() string {
	return fmt.Sprintf("Add %s effect", effectKindLabel(c.Kind))
}
func (c *DeleteEffects) description() string {
	n := len(c.Targets)
	if n == 1 {
		return "Delete effect"
	}
	return fmt.Sprintf("Delete %d effects", n)
}
func (c *UpdateEffectParam) description() string {
	return fmt.Sprintf("Update %s", c.Key)
}
func (c *UpdateEffectTimeRange) description() string { return "Update effect timing" }
func (c *MoveEffectToTrack) description() string     { return "Move effect to track" }
func (c *AddTrack) description() string              { return fmt.Sprintf("Add track %q", c.Name) }
func (c *DeleteTrack) description() string {
	return fmt.Sprintf("Delete track %d", c.TrackIndex)
}
func (c *UpdateSequenceSettings) description() string {
	if c.Name != nil {
		return fmt.Sprintf("Rename sequence to %q", *c.Name)
	}
	return "Update sequence settings"
}
func (c *Batch) description() string { return c.Description }
func (c *SetScript) description() string {
	return fmt.Sprintf("Set script %q", c.Name)
}
func (c *DeleteScript) description() string {
	return fmt.Sprintf("Delete script %q", c.Name)
}
func (c *RenameScript) description() string {
	return fmt.Sprintf("Rename script %q -> %q", c.OldName, c.NewName)
}
func (c *SetGradient) description() string {
	return fmt.Sprintf("Set gradient %q", c.Name)
}
func (c *DeleteGradient) description() string {
	return fmt.Sprintf("Delete gradient %q", c.Name)
}
func (c *RenameGradient) description() string {
	return fmt.Sprintf("Rename gradient %q -> %q", c.OldName, c.NewName)
}
func (c *SetCurve) description() string {
	return fmt.Sprintf("Set curve %q", c.Name)
}
func (c *DeleteCurve) description() string {
	return fmt.Sprintf("Delete curve %q", c.Name)
}
func (c *RenameCurve) description() string {
	return fmt.Sprintf("Rename curve %q -> %q", c.OldName, c.NewName)
}

func effectKindLabel(k model.EffectKind) string {
	if k.Builtin == model.EffectKindScript {
		return "script:" + k.Script
	}
	return string(k.Builtin)
}

// coalesceKey returns "" for every command except the two high-frequency
// per-field editors.
func (c *AddEffect) coalesceKey() string             { return "" }
func (c *DeleteEffects) coalesceKey() string          { return "" }
func (c *UpdateEffectParam) coalesceKey() string {
	return fmt.Sprintf("param:%d:%d:%d:%s", c.SequenceIndex, c.TrackIndex, c.EffectIndex, c.Key)
}
func (c *UpdateEffectTimeRange) coalesceKey() string {
	return fmt.Sprintf("time:%d:%d:%d", c.SequenceIndex, c.TrackIndex, c.EffectIndex)
}
func (c *MoveEffectToTrack) coalesceKey() string      { return "" }
func (c *AddTrack) coalesceKey() string               { return "" }
func (c *DeleteTrack) coalesceKey() string            { return "" }
func (c *UpdateSequenceSettings) coalesceKey() string { return "" }
func (c *Batch) coalesceKey() string                  { return "" }
func (c *SetScript) coalesceKey() string              { return "" }
func (c *DeleteScript) coalesceKey() string           { return "" }
func (c *RenameScript) coalesceKey() string           { return "" }
func (c *SetGradient) coalesceKey() string            { return "" }
func (c *DeleteGradient) coalesceKey() string         { return "" }
func (c *RenameGradient) coalesceKey() string         { return "" }
func (c *SetCurve) coalesceKey() string               { return "" }
func (c *DeleteCurve) coalesceKey() string            { return "" }
func (c *RenameCurve) coalesceKey() string            { return "" }

func (c *AddEffect) sequenceIndex() int              { return c.SequenceIndex }
func (c *DeleteEffects) sequenceIndex() int          { return c.SequenceIndex }
func (c *UpdateEffectParam) sequenceIndex() int      { return c.SequenceIndex }
func (c *UpdateEffectTimeRange) sequenceIndex() int  { return c.SequenceIndex }
func (c *MoveEffectToTrack) sequenceIndex() int      { return c.SequenceIndex }
func (c *AddTrack) sequenceIndex() int                { return c.SequenceIndex }
func (c *DeleteTrack) sequenceIndex() int             { return c.SequenceIndex }
func (c *UpdateSequenceSettings) sequenceIndex() int  { return c.SequenceIndex }
func (c *SetScript) sequenceIndex() int               { return c.SequenceIndex }
func (c *DeleteScript) sequenceIndex() int            { return c.SequenceIndex }
func (c *RenameScript) sequenceIndex() int            { return c.SequenceIndex }
func (c *SetGradient) sequenceIndex() int             { return c.SequenceIndex }
func (c *DeleteGradient) sequenceIndex() int          { return c.SequenceIndex }
func (c *RenameGradient) sequenceIndex() int          { return c.SequenceIndex }
func (c *SetCurve) sequenceIndex() int                { return c.SequenceIndex }
func (c *DeleteCurve) sequenceIndex() int             { return c.SequenceIndex }
func (c *RenameCurve) sequenceIndex() int             { return c.SequenceIndex }
func (c *Batch) sequenceIndex() int {
	if len(c.Commands) == 0 {
		return 0
	}
	return c.Commands[0].sequenceIndex()
}

func (c *AddEffect) Meta() CommandInfo              { return commandMeta["add_effect"] }
func (c *DeleteEffects) Meta() CommandInfo          { return commandMeta["delete_effects"] }
func (c *UpdateEffectParam) Meta() CommandInfo      { return commandMeta["update_effect_param"] }
func (c *UpdateEffectTimeRange) Meta() CommandInfo  { return commandMeta["update_effect_time_range"] }
func (c *MoveEffectToTrack) Meta() CommandInfo      { return commandMeta["move_effect_to_track"] }
func (c *AddTrack) Meta() CommandInfo               { return commandMeta["add_track"] }
func (c *DeleteTrack) Meta() CommandInfo            { return commandMeta["delete_track"] }
func (c *UpdateSequenceSettings) Meta() CommandInfo { return commandMeta["update_sequence_settings"] }
func (c *Batch) Meta() CommandInfo                  { return commandMeta["batch"] }
func (c *SetScript) Meta() CommandInfo              { return commandMeta["set_script"] }
func (c *DeleteScript) Meta() CommandInfo           { return commandMeta["delete_script"] }
func (c *RenameScript) Meta() CommandInfo           { return commandMeta["rename_script"] }
func (c *SetGradient) Meta() CommandInfo            { return commandMeta["set_gradient"] }
func (c *DeleteGradient) Meta() CommandInfo         { return commandMeta["delete_gradient"] }
func (c *RenameGradient) Meta() CommandInfo         { return commandMeta["rename_gradient"] }
func (c *SetCurve) Meta() CommandInfo               { return commandMeta["set_curve"] }
func (c *DeleteCurve) Meta() CommandInfo            { return commandMeta["delete_curve"] }
func (c *RenameCurve) Meta() CommandInfo            { return commandMeta["rename_curve"] }

// Result is the outcome of a successfully applied command.
type Result struct {
	Index int
	Bool  bool
}
