package vixenimport

import (
	"encoding/xml"
	"io"

	"vibelights/internal/model"
)

// vixenNode is one entry of the SystemConfig node DAG: {name, guid,
// children_guids, channel_id}, recorded by a first streaming pass.
type vixenNode struct {
	name          string
	guid          string
	childrenGUIDs []string
	channelID     string
}

func attrValue(attrs []xml.Attr, names ...string) string {
	for _, a := range attrs {
		for _, n := range names {
			if a.Name.Local == n {
				return a.Value
			}
		}
	}
	return ""
}

// parseNodes streams SystemConfig.xml once and records every Node,
// ElementNode, or ChannelNode entry found inside a Nodes/SystemNodes
// section, using a stack to derive parent-child nesting.
func (imp *Importer) parseNodes(r io.Reader) error {
	dec := xml.NewDecoder(r)

	inNodes := false
	var stack []*vixenNode

	isNodeElem := func(name string) bool {
		return name == "Node" || name == "ElementNode" || name == "ChannelNode"
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return xmlError(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			if name == "Nodes" || name == "SystemNodes" {
				inNodes = true
				continue
			}
			if inNodes && isNodeElem(name) {
				n := &vixenNode{
					guid:      attrValue(t.Attr, "id", "Id"),
					name:      attrValue(t.Attr, "name", "Name"),
					channelID: attrValue(t.Attr, "channelId", "ChannelId"),
				}
				stack = append(stack, n)
			}
		case xml.EndElement:
			name := t.Name.Local
			if isNodeElem(name) && len(stack) > 0 {
				n := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if n.guid != "" {
					imp.nodes[n.guid] = n
					if len(stack) > 0 {
						parent := stack[len(stack)-1]
						parent.childrenGUIDs = append(parent.childrenGUIDs, n.guid)
					} else {
						imp.rootGUIDs = append(imp.rootGUIDs, n.guid)
					}
				}
				continue
			}
			if name == "Nodes" || name == "SystemNodes" {
				inNodes = false
			}
		}
	}
	return nil
}

func (imp *Importer) allocID() uint32 {
	id := imp.nextID
	imp.nextID++
	return id
}

// buildFixturesAndGroups converts the recorded node DAG into fixtures and
// groups per the leaf-merge rule: a leaf becomes a single-pixel fixture;
// an interior node whose direct children are all original (unmerged) leaf
// fixtures collapses into one multi-pixel fixture; any other interior
// node becomes a group of its recursively built children.
func (imp *Importer) buildFixturesAndGroups() {
	for _, guid := range imp.rootGUIDs {
		imp.buildNode(guid)
	}
}

// buildNode returns the id assigned to guid (a fixture id if it resolved
// to a fixture, a group id with the high bit conceptually separate — the
// two id spaces are tracked independently in guidToID/guidToGroup).
func (imp *Importer) buildNode(guid string) {
	if _, done := imp.guidToID[guid]; done {
		return
	}
	if _, done := imp.guidToGroup[guid]; done {
		return
	}

	node, ok := imp.nodes[guid]
	if !ok {
		return
	}

	if len(node.childrenGUIDs) == 0 {
		id := model.FixtureId(imp.allocID())
		imp.fixtures = append(imp.fixtures, model.FixtureDef{
			Id:           id,
			Name:         node.name,
			ColorModel:   model.ColorModelRGB,
			PixelCount:   1,
			PixelType:    model.PixelTypeLED,
			BulbShape:    model.BulbShapeStandard,
			ChannelOrder: model.ChannelOrderRGB,
		})
		imp.guidToID[guid] = uint32(id)
		return
	}

	allOriginalLeafFixtures := true
	for _, childGUID := range node.childrenGUIDs {
		imp.buildNode(childGUID)
		fixID, isFixture := imp.guidToID[childGUID]
		if !isFixture || imp.mergedFixtureIDs[fixID] {
			allOriginalLeafFixtures = false
			continue
		}
		childNode := imp.nodes[childGUID]
		if childNode != nil && len(childNode.childrenGUIDs) != 0 {
			allOriginalLeafFixtures = false
		}
	}

	if allOriginalLeafFixtures && len(node.childrenGUIDs) > 1 {
		mergedID := model.FixtureId(imp.allocID())
		imp.fixtures = append(imp.fixtures, model.FixtureDef{
			Id:           mergedID,
			Name:         node.name,
			ColorModel:   model.ColorModelRGB,
			PixelCount:   uint32(len(node.childrenGUIDs)),
			PixelType:    model.PixelTypeLED,
			BulbShape:    model.BulbShapeStandard,
			ChannelOrder: model.ChannelOrderRGB,
		})
		imp.mergedFixtureIDs[uint32(mergedID)] = true
		for _, childGUID := range node.childrenGUIDs {
			imp.guidToID[childGUID] = uint32(mergedID)
			imp.mergedParent[childGUID] = node
		}
		imp.guidToID[guid] = uint32(mergedID)
		return
	}

	groupID := model.GroupId(imp.allocID())
	var members []model.GroupMember
	for _, childGUID := range node.childrenGUIDs {
		if fixID, ok := imp.guidToID[childGUID]; ok {
			members = append(members, model.FixtureMember(model.FixtureId(fixID)))
		} else if grpID, ok := imp.guidToGroup[childGUID]; ok {
			members = append(members, model.GroupMemberOf(model.GroupId(grpID)))
		}
	}
	imp.groups = append(imp.groups, model.FixtureGroup{Id: groupID, Name: node.name, Members: members})
	imp.guidToGroup[guid] = uint32(groupID)
}
