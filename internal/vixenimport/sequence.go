package vixenimport

import (
	"encoding/xml"
	"io"
	"sort"
	"strconv"

	"vibelights/internal/config"
	"vibelights/internal/model"
)

// dataModelEntry is one parsed `_dataModels` entry, keyed by both an
// instance id (specific to one effect node) and a type id (shared by
// every node using the same effect class).
type dataModelEntry struct {
	instanceID string
	typeID     string
	effect     vixenEffect
}

// effectNodeSurrogate is one parsed `_effectNodeSurrogates` entry: an
// effect's placement in time plus which fixture nodes it targets.
type effectNodeSurrogate struct {
	startTime  float64
	duration   float64
	typeID     string
	instanceID string
	targets    []string
}

// parseSequence streams a .tim file and returns the synthesized Sequence.
// Depth-keyed section flags enable/disable text and attribute capture as
// a small state machine; an End event that brings depth below an
// entry's start depth finalizes that entry.
func (imp *Importer) parseSequence(name string, r io.Reader) (model.Sequence, error) {
	dec := xml.NewDecoder(r)

	var byInstance = map[string]*dataModelEntry{}
	var byType = map[string]*dataModelEntry{}
	var lastEntry *dataModelEntry
	var surrogates []effectNodeSurrogate
	var audioFile string

	inDataModels, inEffectNodes, inMedia := false, false, false
	var curEntry *dataModelEntry
	var curSurrogate *effectNodeSurrogate
	var curveTarget *[]curvePoint
	var gradientTarget *[]gradientStop
	var pendingStop gradientStop
	var pendingPoint curvePoint
	depth := 0
	entryDepth := 0

	finalizeDataModel := func() {
		if curEntry == nil {
			return
		}
		if curEntry.instanceID != "" {
			byInstance[curEntry.instanceID] = curEntry
		}
		if curEntry.typeID != "" {
			byType[curEntry.typeID] = curEntry
		}
		lastEntry = curEntry
		curEntry = nil
	}

	finalizeSurrogate := func() {
		if curSurrogate == nil {
			return
		}
		surrogates = append(surrogates, *curSurrogate)
		curSurrogate = nil
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return model.Sequence{}, xmlError(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			local := t.Name.Local
			switch local {
			case "_dataModels":
				inDataModels = true
			case "_effectNodeSurrogates":
				inEffectNodes = true
			case "_mediaSurrogates":
				inMedia = true
			case "DataModel":
				if inDataModels {
					curEntry = &dataModelEntry{
						instanceID: attrValue(t.Attr, "moduleInstanceId", "InstanceId"),
						typeID:     attrValue(t.Attr, "moduleTypeId", "TypeId"),
					}
					curEntry.effect.typeName = attrValue(t.Attr, "effectType", "TypeName")
					entryDepth = depth
				}
			case "EffectNode":
				if inEffectNodes {
					startSec, _ := strconv.ParseFloat(attrValue(t.Attr, "startTime", "StartTime"), 64)
					curSurrogate = &effectNodeSurrogate{
						startTime:  startSec,
						typeID:     attrValue(t.Attr, "typeId", "TypeId"),
						instanceID: attrValue(t.Attr, "instanceId", "InstanceId"),
					}
					if dur, ok := ParseISODuration(attrValue(t.Attr, "duration", "Duration")); ok {
						curSurrogate.duration = dur
					}
					entryDepth = depth
				}
			case "TargetNode":
				if curSurrogate != nil {
					if guid := attrValue(t.Attr, "id", "Id"); guid != "" {
						curSurrogate.targets = append(curSurrogate.targets, guid)
					}
				}
			case "MediaFile":
				if inMedia {
					audioFile = attrValue(t.Attr, "path", "Path")
				}
			case "MovementCurve":
				if curEntry != nil {
					curveTarget = &curEntry.effect.movementCurve
				}
			case "PulseCurve":
				if curEntry != nil {
					curveTarget = &curEntry.effect.pulseCurve
				}
			case "IntensityCurve", "LevelCurve":
				if curEntry != nil {
					curveTarget = &curEntry.effect.intensityCurve
				}
			case "GradientColors":
				if curEntry != nil {
					gradientTarget = &curEntry.effect.gradientColors
				}
			case "PointPair":
				x, _ := strconv.ParseFloat(attrValue(t.Attr, "x", "X"), 64)
				y, _ := strconv.ParseFloat(attrValue(t.Attr, "y", "Y"), 64)
				pendingPoint = curvePoint{x: x, y: y}
				if curveTarget != nil {
					*curveTarget = append(*curveTarget, pendingPoint)
				}
			case "ColorPoint":
				pos, _ := strconv.ParseFloat(attrValue(t.Attr, "position", "Position"), 64)
				pendingStop = gradientStop{pos: pos}
				if x, y, z, ok := parseXYZAttrs(t.Attr); ok {
					pendingStop.color = XYZToSRGB(x, y, z)
				} else if r8, g8, b8, ok := parseRGBAttrs(t.Attr); ok {
					pendingStop.color = model.FromFloat(r8, g8, b8)
				}
				if gradientTarget != nil {
					*gradientTarget = append(*gradientTarget, pendingStop)
				}
			case "Color", "DirectColor":
				if curEntry != nil {
					if x, y, z, ok := parseXYZAttrs(t.Attr); ok {
						c := XYZToSRGB(x, y, z)
						curEntry.effect.color = &c
					} else if r8, g8, b8, ok := parseRGBAttrs(t.Attr); ok {
						c := model.FromFloat(r8, g8, b8)
						curEntry.effect.color = &c
					}
				}
			case "ColorHandling":
				if curEntry != nil {
					curEntry.effect.colorHandling = attrValue(t.Attr, "value", "Value")
				}
			case "Level":
				if curEntry != nil {
					if v, err := strconv.ParseFloat(attrValue(t.Attr, "value", "Value"), 64); err == nil {
						curEntry.effect.level = &v
					}
				}
			case "SpinParams":
				if curEntry != nil {
					if v, err := strconv.ParseFloat(attrValue(t.Attr, "revolutionCount", "RevolutionCount"), 64); err == nil {
						curEntry.effect.revolutionCount = &v
					}
					if v, err := strconv.ParseFloat(attrValue(t.Attr, "pulsePercentage", "PulsePercentage"), 64); err == nil {
						curEntry.effect.pulsePercentage = &v
					}
					if v := attrValue(t.Attr, "reverse", "Reverse"); v != "" {
						b := v == "true" || v == "True"
						curEntry.effect.reverseSpin = &b
					}
				}
			}
		case xml.EndElement:
			local := t.Name.Local
			switch local {
			case "MovementCurve", "PulseCurve", "IntensityCurve", "LevelCurve":
				curveTarget = nil
			case "GradientColors":
				gradientTarget = nil
			case "_dataModels":
				inDataModels = false
			case "_effectNodeSurrogates":
				inEffectNodes = false
			case "_mediaSurrogates":
				inMedia = false
			}
			if curEntry != nil && depth <= entryDepth && local == "DataModel" {
				finalizeDataModel()
			}
			if curSurrogate != nil && depth <= entryDepth && local == "EffectNode" {
				finalizeSurrogate()
			}
			depth--
		}
	}
	finalizeDataModel()
	finalizeSurrogate()

	resolve := func(s effectNodeSurrogate) *vixenEffect {
		if e, ok := byInstance[s.instanceID]; ok {
			return &e.effect
		}
		if e, ok := byType[s.typeID]; ok {
			return &e.effect
		}
		if lastEntry != nil {
			return &lastEntry.effect
		}
		return nil
	}

	return imp.synthesizeTracks(name, surrogates, resolve, audioFile)
}

func parseXYZAttrs(attrs []xml.Attr) (x, y, z float64, ok bool) {
	xs, ys, zs := attrValue(attrs, "x", "X"), attrValue(attrs, "y", "Y"), attrValue(attrs, "z", "Z")
	if xs == "" && ys == "" && zs == "" {
		return 0, 0, 0, false
	}
	x, _ = strconv.ParseFloat(xs, 64)
	y, _ = strconv.ParseFloat(ys, 64)
	z, _ = strconv.ParseFloat(zs, 64)
	return x, y, z, true
}

func parseRGBAttrs(attrs []xml.Attr) (r, g, b float64, ok bool) {
	rs, gs, bs := attrValue(attrs, "r", "R"), attrValue(attrs, "g", "G"), attrValue(attrs, "b", "B")
	if rs == "" && gs == "" && bs == "" {
		return 0, 0, 0, false
	}
	r, _ = strconv.ParseFloat(rs, 64)
	g, _ = strconv.ParseFloat(gs, 64)
	b, _ = strconv.ParseFloat(bs, 64)
	return r, g, b, true
}

// placedEffect is one resolved, time-placed effect awaiting bucketing
// into per-target lanes.
type placedEffect struct {
	target   string
	start    float64
	end      float64
	typeName string
	color    model.Color
	kind     model.EffectKind
	params   model.EffectParams
}

// synthesizeTracks performs track/lane synthesis: bucket by primary
// target, merge adjacent near-identical events, sort, greedily assign
// to lanes, and cap the total effect count.
func (imp *Importer) synthesizeTracks(name string, surrogates []effectNodeSurrogate, resolve func(effectNodeSurrogate) *vixenEffect, audioFile string) (model.Sequence, error) {
	seq := model.NewSequence(name, 60, 30)
	if audioFile != "" {
		seq.AudioFile = &audioFile
	}

	maxEffects := imp.maxEffectCount
	if maxEffects <= 0 {
		maxEffects = config.Default().MaxEffectCount
	}

	byTarget := map[string][]placedEffect{}
	for _, s := range surrogates {
		eff := resolve(s)
		if eff == nil {
			imp.addWarning("effect node with no resolvable data model, skipped")
			continue
		}
		if skippedVixenEffectType(eff.typeName) {
			continue
		}
		kind, params := mapVixenEffect(eff)
		if kind.Builtin == model.EffectKindSolid && eff.typeName != "" {
			imp.addWarning("unmapped Vixen effect type \""+eff.typeName+"\", imported as gray Solid")
		}
		if len(s.targets) == 0 {
			imp.addWarning("effect node with no resolvable target, skipped")
			continue
		}
		primary := s.targets[0]
		if _, ok := imp.guidToID[primary]; !ok {
			if _, ok := imp.guidToGroup[primary]; !ok {
				imp.addWarning("effect node targets unknown node, skipped")
				continue
			}
		}
		color := model.White
		if eff.color != nil {
			color = *eff.color
		}
		byTarget[primary] = append(byTarget[primary], placedEffect{
			target: primary, start: s.startTime, end: s.startTime + s.duration,
			typeName: eff.typeName, color: color, kind: kind, params: params,
		})
	}

	total := 0
	targets := make([]string, 0, len(byTarget))
	for t := range byTarget {
		targets = append(targets, t)
	}
	sort.Strings(targets)

	for _, target := range targets {
		events := byTarget[target]
		sort.Slice(events, func(i, j int) bool { return events[i].start < events[j].start })
		events = mergeAdjacent(events)

		lanes := assignLanes(events)

		nodeName := target
		if n, ok := imp.nodes[target]; ok {
			nodeName = n.name
		}
		for li, lane := range lanes {
			laneName := nodeName
			if len(lanes) > 1 {
				laneName = nodeName + " (" + strconv.Itoa(li+1) + ")"
			}
			var instances []model.EffectInstance
			for _, e := range lane {
				if total >= maxEffects {
					imp.addWarning("effect import truncated at " + strconv.Itoa(maxEffects) + " effects")
					break
				}
				tr, ok := model.NewTimeRange(e.start, e.end)
				if !ok {
					continue
				}
				instances = append(instances, model.EffectInstance{
					Kind: e.kind, Params: e.params, TimeRange: tr,
					BlendMode: model.BlendModeOverride, Opacity: 1.0,
				})
				total++
			}
			if len(instances) == 0 {
				continue
			}
			sort.SliceStable(instances, func(i, j int) bool {
				return instances[i].TimeRange.Start() < instances[j].TimeRange.Start()
			})
			track := model.Track{Name: laneName, Target: resolveTarget(imp, target), Effects: instances}
			seq.Tracks = append(seq.Tracks, track)
		}
		if total >= maxEffects {
			break
		}
	}

	return seq, nil
}

func resolveTarget(imp *Importer, guid string) model.EffectTarget {
	if fixID, ok := imp.guidToID[guid]; ok {
		return model.TargetFixtures([]model.FixtureId{model.FixtureId(fixID)})
	}
	if grpID, ok := imp.guidToGroup[guid]; ok {
		return model.TargetGroup(model.GroupId(grpID))
	}
	return model.TargetAll()
}

// mergeAdjacent merges consecutive same-type, same-color events
// separated by a gap of 50ms or less into a single longer event.
func mergeAdjacent(events []placedEffect) []placedEffect {
	if len(events) == 0 {
		return events
	}
	out := []placedEffect{events[0]}
	for _, e := range events[1:] {
		last := &out[len(out)-1]
		if e.typeName == last.typeName && e.color == last.color && e.start-last.end <= 0.05 {
			if e.end > last.end {
				last.end = e.end
			}
			continue
		}
		out = append(out, e)
	}
	return out
}

// assignLanes greedily packs non-overlapping events into the fewest
// lanes: an event joins the first lane whose last event ends at or
// before the new start, else it opens a new lane.
func assignLanes(events []placedEffect) [][]placedEffect {
	var lanes [][]placedEffect
	for _, e := range events {
		placed := false
		for i := range lanes {
			lane := lanes[i]
			if lane[len(lane)-1].end <= e.start {
				lanes[i] = append(lanes[i], e)
				placed = true
				break
			}
		}
		if !placed {
			lanes = append(lanes, []placedEffect{e})
		}
	}
	return lanes
}
