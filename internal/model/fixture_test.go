package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixtureMemberWrapsFixtureId(t *testing.T) {
	m := FixtureMember(FixtureId(7))
	if assert.NotNil(t, m.Fixture) {
		assert.Equal(t, FixtureId(7), *m.Fixture)
	}
	assert.Nil(t, m.Group)
}

func TestGroupMemberOfWrapsGroupId(t *testing.T) {
	m := GroupMemberOf(GroupId(3))
	if assert.NotNil(t, m.Group) {
		assert.Equal(t, GroupId(3), *m.Group)
	}
	assert.Nil(t, m.Fixture)
}

func TestFixtureGroupCanNestGroupsAndFixtures(t *testing.T) {
	group := FixtureGroup{
		Id:   1,
		Name: "All Pixels",
		Members: []GroupMember{
			FixtureMember(1),
			GroupMemberOf(2),
		},
	}
	assert.Len(t, group.Members, 2)
	assert.NotNil(t, group.Members[0].Fixture)
	assert.NotNil(t, group.Members[1].Group)
}

func TestControllerOutputsCarryUniverseAddressing(t *testing.T) {
	c := Controller{
		Id:       1,
		Name:     "e1.31 bridge",
		Protocol: ControllerProtocolE131,
		Outputs: []ControllerOutput{
			{IP: "10.0.0.5", Universe: 1},
			{IP: "10.0.0.5", Universe: 2},
		},
	}
	assert.Len(t, c.Outputs, 2)
	assert.Equal(t, uint16(2), c.Outputs[1].Universe)
}

func TestLayoutHoldsPerPixelPositions(t *testing.T) {
	layout := Layout{
		Name: "Front Yard",
		Items: []FixtureLayout{
			{FixtureId: 1, PixelIdx: 0, X: 0, Y: 0},
			{FixtureId: 1, PixelIdx: 1, X: 1.5, Y: 0},
		},
	}
	assert.Len(t, layout.Items, 2)
	assert.Equal(t, 1.5, layout.Items[1].X)
}
