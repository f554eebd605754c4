package dispatcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEveryCommandVariantExposesNonEmptyMeta(t *testing.T) {
	cmds := []EditCommand{
		&AddEffect{},
		&DeleteEffects{},
		&UpdateEffectParam{},
		&UpdateEffectTimeRange{},
		&MoveEffectToTrack{},
		&AddTrack{},
		&DeleteTrack{},
		&UpdateSequenceSettings{},
		&Batch{},
		&SetScript{},
		&DeleteScript{},
		&RenameScript{},
		&SetGradient{},
		&DeleteGradient{},
		&RenameGradient{},
		&SetCurve{},
		&DeleteCurve{},
		&RenameCurve{},
	}
	seen := map[string]bool{}
	for _, cmd := range cmds {
		info := cmd.Meta()
		assert.NotEmpty(t, info.Name)
		assert.NotEmpty(t, info.Description)
		assert.NotEmpty(t, info.Category)
		assert.False(t, seen[info.Name], "duplicate command name %q", info.Name)
		seen[info.Name] = true
	}
}

func TestBatchMetaIsUndoableAndHiddenFromAutomation(t *testing.T) {
	info := (&Batch{}).Meta()
	assert.True(t, info.Undoable)
	assert.True(t, info.Hidden)
}

func TestSetScriptMetaIsAsync(t *testing.T) {
	assert.True(t, (&SetScript{}).Meta().Async)
}

func TestAddEffectMetaIsVisibleAutomationEligibleAndUndoable(t *testing.T) {
	info := (&AddEffect{}).Meta()
	assert.Equal(t, CategoryEffect, info.Category)
	assert.True(t, info.Undoable)
	assert.False(t, info.Hidden)
	assert.False(t, info.Async)
}
