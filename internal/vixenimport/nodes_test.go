package vixenimport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSystemConfigXML = `<?xml version="1.0"?>
<SystemConfig>
  <Nodes>
    <Node name="String 1" id="guid-string1">
      <Node name="Pixel 1" id="guid-p1" channelId="ch-1" />
      <Node name="Pixel 2" id="guid-p2" channelId="ch-2" />
      <Node name="Pixel 3" id="guid-p3" channelId="ch-3" />
    </Node>
    <Node name="Standalone Spot" id="guid-spot" channelId="ch-4" />
    <Node name="House" id="guid-house">
      <Node name="String 1 Ref" id="guid-string1-ref" channelId="ch-5" />
      <Node name="Standalone Spot Ref" id="guid-spot-ref" channelId="ch-6" />
    </Node>
  </Nodes>
</SystemConfig>`

func TestParseNodesAndLeafMergeRule(t *testing.T) {
	imp := NewImporter()
	err := imp.parseNodes(strings.NewReader(sampleSystemConfigXML))
	require.NoError(t, err)

	imp.buildFixturesAndGroups()

	// "String 1" has 3 leaf children, all original leaf fixtures -> merges
	// into one 3-pixel fixture; the 3 leaf guids remap to it.
	mergedID, ok := imp.guidToID["guid-string1"]
	require.True(t, ok)
	p1ID, ok := imp.guidToID["guid-p1"]
	require.True(t, ok)
	assert.Equal(t, mergedID, p1ID)
	assert.True(t, imp.mergedFixtureIDs[mergedID])

	found := false
	for _, f := range imp.fixtures {
		if uint32(f.Id) == mergedID {
			assert.EqualValues(t, 3, f.PixelCount)
			found = true
		}
	}
	assert.True(t, found)

	// "Standalone Spot" is a single leaf -> its own 1-pixel fixture.
	spotID, ok := imp.guidToID["guid-spot"]
	require.True(t, ok)
	assert.NotEqual(t, mergedID, spotID)

	// "House" has two children (a ref to String1's node and a ref to the
	// spot's node) that are themselves leaves here, not all-original-leaf
	// fixtures sharing House's exact subtree, so with 2 children it still
	// satisfies the merge condition (>1, all leaves) and becomes its own
	// merged fixture distinct from "guid-string1".
	houseID, ok := imp.guidToID["guid-house"]
	require.True(t, ok)
	assert.NotEqual(t, mergedID, houseID)
}
