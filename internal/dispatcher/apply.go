package dispatcher

import (
	"sort"

	"vibelights/internal/model"
)

// apply mutates show according to cmd and returns its result. It performs
// no undo bookkeeping; Dispatcher.Execute wraps it with snapshot/coalesce
// logic.
func apply(show *model.Show, cmd EditCommand) (Result, error) {
	switch c := cmd.(type) {
	case *AddEffect:
		return applyAddEffect(show, c)
	case *DeleteEffects:
		return applyDeleteEffects(show, c)
	case *UpdateEffectParam:
		return applyUpdateEffectParam(show, c)
	case *UpdateEffectTimeRange:
		return applyUpdateEffectTimeRange(show, c)
	case *MoveEffectToTrack:
		return applyMoveEffectToTrack(show, c)
	case *AddTrack:
		return applyAddTrack(show, c)
	case *DeleteTrack:
		return applyDeleteTrack(show, c)
	case *UpdateSequenceSettings:
		return applyUpdateSequenceSettings(show, c)
	case *SetScript:
		return applySetScript(show, c)
	case *DeleteScript:
		return applyDeleteScript(show, c)
	case *RenameScript:
		return applyRenameScript(show, c)
	case *SetGradient:
		return applySetGradient(show, c)
	case *DeleteGradient:
		return applyDeleteGradient(show, c)
	case *RenameGradient:
		return applyRenameGradient(show, c)
	case *SetCurve:
		return applySetCurve(show, c)
	case *DeleteCurve:
		return applyDeleteCurve(show, c)
	case *RenameCurve:
		return applyRenameCurve(show, c)
	case *Batch:
		return applyBatch(show, c)
	default:
		return Result{}, &model.ValidationError{Message: "unknown command type"}
	}
}

func applyAddEffect(show *model.Show, c *AddEffect) (Result, error) {
	timeRange, ok := model.NewTimeRange(c.Start, c.End)
	if !ok {
		return Result{}, &model.ValidationError{Message: "invalid time range"}
	}
	track, err := show.TrackMut(c.SequenceIndex, c.TrackIndex)
	if err != nil {
		return Result{}, err
	}
	effect := model.EffectInstance{
		Kind:      c.Kind,
		Params:    model.NewEffectParams(),
		TimeRange: timeRange,
		BlendMode: c.BlendMode,
		Opacity:   c.Opacity,
	}
	insertPos := partitionPoint(len(track.Effects), func(i int) bool {
		return track.Effects[i].TimeRange.Start() < timeRange.Start()
	})
	track.Effects = append(track.Effects, model.EffectInstance{})
	copy(track.Effects[insertPos+1:], track.Effects[insertPos:])
	track.Effects[insertPos] = effect
	return Result{Index: insertPos}, nil
}

// partitionPoint returns the first index in [0,n) for which pred is false,
// assuming pred is true then false (a stable partition), or n if pred is
// always true. Mirrors Rust's slice::partition_point.
func partitionPoint(n int, pred func(i int) bool) int {
	lo, hi := 0, n
	for lo < hi {
		mid := (lo + hi) / 2
		if pred(mid) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func applyDeleteEffects(show *model.Show, c *DeleteEffects) (Result, error) {
	seq, err := show.SeqMut(c.SequenceIndex)
	if err != nil {
		return Result{}, err
	}
	byTrack := make(map[int][]int)
	for _, t := range c.Targets {
		trackIdx, effectIdx := t[0], t[1]
		byTrack[trackIdx] = append(byTrack[trackIdx], effectIdx)
	}
	for trackIdx, effectIndices := range byTrack {
		if trackIdx < 0 || trackIdx >= len(seq.Tracks) {
			return Result{}, &model.InvalidIndexError{What: "track", Index: trackIdx}
		}
		track := &seq.Tracks[trackIdx]
		sort.Ints(effectIndices)
		effectIndices = dedupInts(effectIndices)
		for i := len(effectIndices) - 1; i >= 0; i-- {
			idx := effectIndices[i]
			if idx >= 0 && idx < len(track.Effects) {
				track.Effects = append(track.Effects[:idx], track.Effects[idx+1:]...)
			}
		}
	}
	return Result{}, nil
}

func dedupInts(sorted []int) []int {
	out := sorted[:0]
	var last int
	for i, v := range sorted {
		if i == 0 || v != last {
			out = append(out, v)
			last = v
		}
	}
	return out
}

func applyUpdateEffectParam(show *model.Show, c *UpdateEffectParam) (Result, error) {
	effect, err := show.EffectMut(c.SequenceIndex, c.TrackIndex, c.EffectIndex)
	if err != nil {
		return Result{}, err
	}
	effect.Params.SetMut(c.Key, c.Value)
	return Result{Bool: true}, nil
}

func applyUpdateEffectTimeRange(show *model.Show, c *UpdateEffectTimeRange) (Result, error) {
	timeRange, ok := model.NewTimeRange(c.Start, c.End)
	if !ok {
		return Result{}, &model.ValidationError{Message: "invalid time range"}
	}
	track, err := show.TrackMut(c.SequenceIndex, c.TrackIndex)
	if err != nil {
		return Result{}, err
	}
	if c.EffectIndex < 0 || c.EffectIndex >= len(track.Effects) {
		return Result{}, &model.InvalidIndexError{What: "effect", Index: c.EffectIndex}
	}
	track.Effects[c.EffectIndex].TimeRange = timeRange
	sort.SliceStable(track.Effects, func(i, j int) bool {
		return track.Effects[i].TimeRange.Start() < track.Effects[j].TimeRange.Start()
	})
	return Result{Bool: true}, nil
}

func applyMoveEffectToTrack(show *model.Show, c *MoveEffectToTrack) (Result, error) {
	seq, err := show.SeqMut(c.SequenceIndex)
	if err != nil {
		return Result{}, err
	}
	if c.FromTrack < 0 || c.FromTrack >= len(seq.Tracks) {
		return Result{}, &model.InvalidIndexError{What: "source track", Index: c.FromTrack}
	}
	from := &seq.Tracks[c.FromTrack]
	if c.EffectIndex < 0 || c.EffectIndex >= len(from.Effects) {
		return Result{}, &model.InvalidIndexError{What: "effect", Index: c.EffectIndex}
	}
	if c.ToTrack < 0 || c.ToTrack >= len(seq.Tracks) {
		return Result{}, &model.InvalidIndexError{What: "destination track", Index: c.ToTrack}
	}

	effect := from.Effects[c.EffectIndex]
	from.Effects = append(from.Effects[:c.EffectIndex], from.Effects[c.EffectIndex+1:]...)

	dest := &seq.Tracks[c.ToTrack]
	insertPos := partitionPoint(len(dest.Effects), func(i int) bool {
		return dest.Effects[i].TimeRange.Start() < effect.TimeRange.Start()
	})
	dest.Effects = append(dest.Effects, model.EffectInstance{})
	copy(dest.Effects[insertPos+1:], dest.Effects[insertPos:])
	dest.Effects[insertPos] = effect
	return Result{Index: insertPos}, nil
}

func applyAddTrack(show *model.Show, c *AddTrack) (Result, error) {
	seq, err := show.SeqMut(c.SequenceIndex)
	if err != nil {
		return Result{}, err
	}
	seq.Tracks = append(seq.Tracks, model.Track{Name: c.Name, Target: c.Target})
	return Result{Index: len(seq.Tracks) - 1}, nil
}

func applyDeleteTrack(show *model.Show, c *DeleteTrack) (Result, error) {
	seq, err := show.SeqMut(c.SequenceIndex)
	if err != nil {
		return Result{}, err
	}
	if c.TrackIndex < 0 || c.TrackIndex >= len(seq.Tracks) {
		return Result{}, &model.InvalidIndexError{What: "track", Index: c.TrackIndex}
	}
	seq.Tracks = append(seq.Tracks[:c.TrackIndex], seq.Tracks[c.TrackIndex+1:]...)
	return Result{}, nil
}

func applyUpdateSequenceSettings(show *model.Show, c *UpdateSequenceSettings) (Result, error) {
	seq, err := show.SeqMut(c.SequenceIndex)
	if err != nil {
		return Result{}, err
	}
	if c.Name != nil {
		seq.Name = *c.Name
	}
	if c.AudioFile != nil {
		seq.AudioFile = *c.AudioFile
	}
	if c.Duration != nil {
		if *c.Duration <= 0 {
			return Result{}, &model.ValidationError{Message: "Duration must be positive"}
		}
		seq.Duration = *c.Duration
	}
	if c.FrameRate != nil {
		if *c.FrameRate <= 0 {
			return Result{}, &model.ValidationError{Message: "Frame rate must be positive"}
		}
		seq.FrameRate = *c.FrameRate
	}
	return Result{}, nil
}

func applySetScript(show *model.Show, c *SetScript) (Result, error) {
	seq, err := show.SeqMut(c.SequenceIndex)
	if err != nil {
		return Result{}, err
	}
	seq.Scripts[c.Name] = c.Source
	return Result{}, nil
}

func applyDeleteScript(show *model.Show, c *DeleteScript) (Result, error) {
	seq, err := show.SeqMut(c.SequenceIndex)
	if err != nil {
		return Result{}, err
	}
	delete(seq.Scripts, c.Name)
	return Result{}, nil
}

func applyRenameScript(show *model.Show, c *RenameScript) (Result, error) {
	seq, err := show.SeqMut(c.SequenceIndex)
	if err != nil {
		return Result{}, err
	}
	source, ok := seq.Scripts[c.OldName]
	if !ok {
		return Result{}, nil
	}
	delete(seq.Scripts, c.OldName)
	seq.Scripts[c.NewName] = source
	for ti := range seq.Tracks {
		track := &seq.Tracks[ti]
		for ei := range track.Effects {
			k := &track.Effects[ei].Kind
			if k.Builtin == model.EffectKindScript && k.Script == c.OldName {
				k.Script = c.NewName
			}
		}
	}
	return Result{}, nil
}

func applySetGradient(show *model.Show, c *SetGradient) (Result, error) {
	seq, err := show.SeqMut(c.SequenceIndex)
	if err != nil {
		return Result{}, err
	}
	seq.GradientLibrary[c.Name] = c.Gradient
	return Result{}, nil
}

func applyDeleteGradient(show *model.Show, c *DeleteGradient) (Result, error) {
	seq, err := show.SeqMut(c.SequenceIndex)
	if err != nil {
		return Result{}, err
	}
	delete(seq.GradientLibrary, c.Name)
	return Result{}, nil
}

func applyRenameGradient(show *model.Show, c *RenameGradient) (Result, error) {
	seq, err := show.SeqMut(c.SequenceIndex)
	if err != nil {
		return Result{}, err
	}
	gradient, ok := seq.GradientLibrary[c.OldName]
	if !ok {
		return Result{}, nil
	}
	delete(seq.GradientLibrary, c.OldName)
	seq.GradientLibrary[c.NewName] = gradient
	renameParamRef(seq, func(v *model.ParamValue) bool {
		return v.GradientRef != nil && *v.GradientRef == c.OldName
	}, func(v *model.ParamValue) { *v.GradientRef = c.NewName })
	return Result{}, nil
}

func applySetCurve(show *model.Show, c *SetCurve) (Result, error) {
	seq, err := show.SeqMut(c.SequenceIndex)
	if err != nil {
		return Result{}, err
	}
	seq.CurveLibrary[c.Name] = c.Curve
	return Result{}, nil
}

func applyDeleteCurve(show *model.Show, c *DeleteCurve) (Result, error) {
	seq, err := show.SeqMut(c.SequenceIndex)
	if err != nil {
		return Result{}, err
	}
	delete(seq.CurveLibrary, c.Name)
	return Result{}, nil
}

func applyRenameCurve(show *model.Show, c *RenameCurve) (Result, error) {
	seq, err := show.SeqMut(c.SequenceIndex)
	if err != nil {
		return Result{}, err
	}
	curve, ok := seq.CurveLibrary[c.OldName]
	if !ok {
		return Result{}, nil
	}
	delete(seq.CurveLibrary, c.OldName)
	seq.CurveLibrary[c.NewName] = curve
	renameParamRef(seq, func(v *model.ParamValue) bool {
		return v.CurveRef != nil && *v.CurveRef == c.OldName
	}, func(v *model.ParamValue) { *v.CurveRef = c.NewName })
	return Result{}, nil
}

// renameParamRef rewrites every effect parameter value in seq matching
// match to newName via set, used by RenameGradient/RenameCurve to keep
// by-value library references consistent.
func renameParamRef(seq *model.Sequence, match func(*model.ParamValue) bool, set func(*model.ParamValue)) {
	for ti := range seq.Tracks {
		track := &seq.Tracks[ti]
		for ei := range track.Effects {
			for key, val := range track.Effects[ei].Params.Values() {
				v := val
				if match(&v) {
					set(&v)
					track.Effects[ei].Params.SetMut(key, v)
				}
			}
		}
	}
}

func applyBatch(show *model.Show, c *Batch) (Result, error) {
	var last Result
	for _, sub := range c.Commands {
		r, err := apply(show, sub)
		if err != nil {
			return Result{}, err
		}
		last = r
	}
	return last, nil
}
