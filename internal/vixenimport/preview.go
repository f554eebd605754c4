package vixenimport

import (
	"encoding/xml"
	"io"
	"math"
	"strconv"

	"vibelights/internal/model"
)

// displayItem is one parsed preview shape: a set of pixel node-ids plus
// either direct pixel coordinates or a polyline of control points that
// pixels are distributed along by arc length.
type displayItem struct {
	pixelNodeGUIDs []string
	pixelX, pixelY []float64 // parallel to pixelNodeGUIDs, when given directly
	polyline       []point2d
}

type point2d struct{ x, y float64 }

// previewSection groups the display items found inside one preview
// canvas; Vixen module data can embed more than one (alternative
// canvases), and only the richest one is used.
type previewSection struct {
	items []displayItem
}

// parsePreview streams the preview/layout XML and returns the
// FixtureLayout items for the single section with the most display
// items, normalizing pixel positions against the bounding box of every
// observed coordinate.
func (imp *Importer) parsePreview(r io.Reader) ([]model.FixtureLayout, error) {
	dec := xml.NewDecoder(r)

	var sections []previewSection
	var curSection *previewSection
	var curItem *displayItem

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, xmlError(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "VixenPreviewData", "PreviewSection", "Preview":
				sections = append(sections, previewSection{})
				curSection = &sections[len(sections)-1]
			case "DisplayItem", "Shape":
				if curSection != nil {
					curSection.items = append(curSection.items, displayItem{})
					curItem = &curSection.items[len(curSection.items)-1]
				}
			case "PixelNode", "Pixel":
				if curItem != nil {
					curItem.pixelNodeGUIDs = append(curItem.pixelNodeGUIDs, attrValue(t.Attr, "id", "NodeId"))
					if xs := attrValue(t.Attr, "x", "X"); xs != "" {
						x, _ := strconv.ParseFloat(xs, 64)
						y, _ := strconv.ParseFloat(attrValue(t.Attr, "y", "Y"), 64)
						curItem.pixelX = append(curItem.pixelX, x)
						curItem.pixelY = append(curItem.pixelY, y)
					}
				}
			case "ControlPoint":
				if curItem != nil {
					x, _ := strconv.ParseFloat(attrValue(t.Attr, "x", "X"), 64)
					y, _ := strconv.ParseFloat(attrValue(t.Attr, "y", "Y"), 64)
					curItem.polyline = append(curItem.polyline, point2d{x, y})
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "DisplayItem", "Shape":
				curItem = nil
			case "VixenPreviewData", "PreviewSection", "Preview":
				curSection = nil
			}
		}
	}

	if len(sections) == 0 {
		return nil, nil
	}

	best := sections[0]
	for _, s := range sections[1:] {
		if len(s.items) > len(best.items) {
			best = s
		}
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	observe := func(x, y float64) {
		if x < minX {
			minX = x
		}
		if y < minY {
			minY = y
		}
		if x > maxX {
			maxX = x
		}
		if y > maxY {
			maxY = y
		}
	}
	for _, item := range best.items {
		for i := range item.pixelX {
			observe(item.pixelX[i], item.pixelY[i])
		}
		for _, p := range item.polyline {
			observe(p.x, p.y)
		}
	}
	if math.IsInf(minX, 1) {
		return nil, nil
	}
	spanX, spanY := maxX-minX, maxY-minY
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}
	normalize := func(x, y float64) (float64, float64) {
		return (x - minX) / spanX, (y - minY) / spanY
	}

	var out []model.FixtureLayout
	for _, item := range best.items {
		if len(item.pixelX) > 0 {
			for i, guid := range item.pixelNodeGUIDs {
				if i >= len(item.pixelX) {
					break
				}
				fixID, pixelIdx, ok := imp.resolvePixel(guid)
				if !ok {
					imp.addWarning("preview pixel references unknown node, skipped")
					continue
				}
				nx, ny := normalize(item.pixelX[i], item.pixelY[i])
				out = append(out, model.FixtureLayout{FixtureId: fixID, PixelIdx: pixelIdx, X: nx, Y: ny})
			}
			continue
		}
		if len(item.polyline) >= 2 && len(item.pixelNodeGUIDs) > 0 {
			positions := distributeAlongPolyline(item.polyline, len(item.pixelNodeGUIDs))
			for i, guid := range item.pixelNodeGUIDs {
				fixID, pixelIdx, ok := imp.resolvePixel(guid)
				if !ok {
					imp.addWarning("preview pixel references unknown node, skipped")
					continue
				}
				nx, ny := normalize(positions[i].x, positions[i].y)
				out = append(out, model.FixtureLayout{FixtureId: fixID, PixelIdx: pixelIdx, X: nx, Y: ny})
			}
		}
	}
	return out, nil
}

// resolvePixel maps a preview pixel's node GUID to (fixtureId, pixelIdx).
// Because leaf-merging remaps every merged leaf GUID to the composite
// fixture's id, pixelIdx must be derived from the leaf's position among
// its merged siblings rather than always 0.
func (imp *Importer) resolvePixel(guid string) (model.FixtureId, uint32, bool) {
	fixIDRaw, ok := imp.guidToID[guid]
	if !ok {
		return 0, 0, false
	}
	fixID := model.FixtureId(fixIDRaw)
	if !imp.mergedFixtureIDs[fixIDRaw] {
		return fixID, 0, true
	}
	node, ok := imp.nodes[guid]
	if !ok {
		return fixID, 0, true
	}
	parent := imp.mergedParent[guid]
	if parent == nil {
		return fixID, 0, true
	}
	for i, childGUID := range parent.childrenGUIDs {
		if childGUID == node.guid {
			return fixID, uint32(i), true
		}
	}
	return fixID, 0, true
}

// distributeAlongPolyline places n points evenly spaced by arc length
// along the given control-point polyline.
func distributeAlongPolyline(poly []point2d, n int) []point2d {
	if n == 0 {
		return nil
	}
	segLens := make([]float64, len(poly)-1)
	total := 0.0
	for i := 1; i < len(poly); i++ {
		dx, dy := poly[i].x-poly[i-1].x, poly[i].y-poly[i-1].y
		l := math.Hypot(dx, dy)
		segLens[i-1] = l
		total += l
	}
	out := make([]point2d, n)
	if total == 0 {
		for i := range out {
			out[i] = poly[0]
		}
		return out
	}
	for i := 0; i < n; i++ {
		var target float64
		if n == 1 {
			target = 0
		} else {
			target = total * float64(i) / float64(n-1)
		}
		acc := 0.0
		for seg := 0; seg < len(segLens); seg++ {
			if acc+segLens[seg] >= target || seg == len(segLens)-1 {
				var frac float64
				if segLens[seg] > 0 {
					frac = (target - acc) / segLens[seg]
				}
				a, b := poly[seg], poly[seg+1]
				out[i] = point2d{a.x + (b.x-a.x)*frac, a.y + (b.y-a.y)*frac}
				break
			}
			acc += segLens[seg]
		}
	}
	return out
}
