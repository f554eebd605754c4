package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeRangeRejectsNonPositiveSpan(t *testing.T) {
	_, ok := NewTimeRange(5, 5)
	assert.False(t, ok)
	_, ok = NewTimeRange(5, 1)
	assert.False(t, ok)
}

func TestNewTimeRangeExposesStartAndEnd(t *testing.T) {
	r, ok := NewTimeRange(1.5, 3.0)
	require.True(t, ok)
	assert.Equal(t, 1.5, r.Start())
	assert.Equal(t, 3.0, r.End())
}

func TestEffectParamsSetReturnsUpdatedCopy(t *testing.T) {
	p := NewEffectParams().Set("speed", FloatValue(2.0))
	v, ok := p.Get("speed")
	require.True(t, ok)
	require.NotNil(t, v.Float)
	assert.Equal(t, 2.0, *v.Float)
}

func TestEffectParamsSetMutMutatesInPlace(t *testing.T) {
	p := NewEffectParams()
	p.SetMut("tint", ColorValue(RGB(255, 0, 0)))
	v, ok := p.Get("tint")
	require.True(t, ok)
	require.NotNil(t, v.Color)
	assert.Equal(t, RGB(255, 0, 0), *v.Color)
}

func TestEffectParamsCloneIsIndependent(t *testing.T) {
	orig := NewEffectParams().Set("speed", FloatValue(1.0))
	clone := orig.Clone()
	clone.SetMut("speed", FloatValue(9.0))

	origVal, _ := orig.Get("speed")
	cloneVal, _ := clone.Get("speed")
	assert.Equal(t, 1.0, *origVal.Float)
	assert.Equal(t, 9.0, *cloneVal.Float)
}

func TestEffectInstanceCloneDeepCopiesParams(t *testing.T) {
	tr, _ := NewTimeRange(0, 1)
	orig := EffectInstance{
		Kind:      Builtin(EffectKindSolid),
		Params:    NewEffectParams().Set("speed", FloatValue(1.0)),
		TimeRange: tr,
		BlendMode: BlendModeOverride,
		Opacity:   1.0,
	}
	clone := orig.Clone()
	clone.Params.SetMut("speed", FloatValue(5.0))

	origVal, _ := orig.Params.Get("speed")
	assert.Equal(t, 1.0, *origVal.Float)
}

func TestTrackCloneDeepCopiesEffects(t *testing.T) {
	tr, _ := NewTimeRange(0, 1)
	track := Track{
		Name:   "Track 1",
		Target: TargetAll(),
		Effects: []EffectInstance{
			{Kind: Builtin(EffectKindSolid), TimeRange: tr},
		},
	}
	clone := track.Clone()
	clone.Effects[0].TimeRange, _ = NewTimeRange(0, 2)

	assert.Equal(t, 1.0, track.Effects[0].TimeRange.End())
	assert.Equal(t, 2.0, clone.Effects[0].TimeRange.End())
}

func TestSequenceCloneDeepCopiesLibrariesAndTracks(t *testing.T) {
	seq := NewSequence("Show", 60, 30)
	seq.Scripts["fire"] = "rgb(1,0,0);"
	seq.GradientLibrary["sunset"] = Solid(RGB(255, 128, 0))

	clone := seq.Clone()
	clone.Scripts["fire"] = "rgb(0,1,0);"
	delete(clone.GradientLibrary, "sunset")

	assert.Equal(t, "rgb(1,0,0);", seq.Scripts["fire"])
	_, stillPresent := seq.GradientLibrary["sunset"]
	assert.True(t, stillPresent)
}

func TestTargetConstructorsTagExactlyOneField(t *testing.T) {
	all := TargetAll()
	assert.True(t, all.All)
	assert.Nil(t, all.Group)

	fixtures := TargetFixtures([]FixtureId{1, 2})
	assert.Len(t, fixtures.Fixtures, 2)
	assert.False(t, fixtures.All)

	group := TargetGroup(GroupId(4))
	require.NotNil(t, group.Group)
	assert.Equal(t, GroupId(4), *group.Group)
}

func TestShowSeqMutReportsInvalidIndexError(t *testing.T) {
	show := &Show{}
	_, err := show.SeqMut(0)
	require.Error(t, err)
	var idxErr *InvalidIndexError
	assert.ErrorAs(t, err, &idxErr)
	assert.Equal(t, "sequence", idxErr.What)
}

func TestShowTrackMutReportsInvalidIndexError(t *testing.T) {
	show := &Show{Sequences: []Sequence{NewSequence("s", 60, 30)}}
	_, err := show.TrackMut(0, 0)
	require.Error(t, err)
	var idxErr *InvalidIndexError
	require.ErrorAs(t, err, &idxErr)
	assert.Equal(t, "track", idxErr.What)
}

func TestShowEffectMutReportsInvalidIndexError(t *testing.T) {
	show := &Show{Sequences: []Sequence{NewSequence("s", 60, 30)}}
	show.Sequences[0].Tracks = []Track{{Name: "t"}}
	_, err := show.EffectMut(0, 0, 0)
	require.Error(t, err)
	var idxErr *InvalidIndexError
	require.ErrorAs(t, err, &idxErr)
	assert.Equal(t, "effect", idxErr.What)
}

func TestShowEffectMutReturnsMutablePointer(t *testing.T) {
	tr, _ := NewTimeRange(0, 1)
	show := &Show{Sequences: []Sequence{NewSequence("s", 60, 30)}}
	show.Sequences[0].Tracks = []Track{{
		Name:    "t",
		Effects: []EffectInstance{{Kind: Builtin(EffectKindSolid), TimeRange: tr}},
	}}

	effect, err := show.EffectMut(0, 0, 0)
	require.NoError(t, err)
	effect.Opacity = 0.5

	assert.Equal(t, 0.5, show.Sequences[0].Tracks[0].Effects[0].Opacity)
}
