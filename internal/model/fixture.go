package model

// FixtureId, GroupId, and ControllerId are dense integer handles assigned
// during import or manual authoring; the importer allocates them counting
// up from 0.
type FixtureId uint32
type GroupId uint32
type ControllerId uint32

// ColorModel names the channel layout a fixture expects.
type ColorModel string

const (
	ColorModelRGB  ColorModel = "rgb"
	ColorModelRGBW ColorModel = "rgbw"
	ColorModelMono ColorModel = "mono"
)

// PixelType and BulbShape are presentation hints carried through from
// import; the core never interprets them beyond storage.
type PixelType string
type BulbShape string

const (
	PixelTypeLED     PixelType = "led"
	BulbShapeStandard BulbShape = "standard"
)

// ChannelOrder names the physical wiring order of color channels.
type ChannelOrder string

const ChannelOrderRGB ChannelOrder = "rgb"

// FixtureDef describes one addressable fixture (a single pixel or a
// multi-pixel strip produced by leaf-merging during import).
type FixtureDef struct {
	Id                     FixtureId
	Name                   string
	ColorModel             ColorModel
	PixelCount             uint32
	PixelType              PixelType
	BulbShape              BulbShape
	DisplayRadiusOverride  *float64
	ChannelOrder           ChannelOrder
}

// GroupMember is a tagged reference to either a fixture or a nested group.
type GroupMember struct {
	Fixture *FixtureId
	Group   *GroupId
}

// FixtureMember builds a GroupMember wrapping a fixture id.
func FixtureMember(id FixtureId) GroupMember { return GroupMember{Fixture: &id} }

// GroupMemberOf builds a GroupMember wrapping a nested group id.
func GroupMemberOf(id GroupId) GroupMember { return GroupMember{Group: &id} }

// FixtureGroup is a named collection of fixtures and/or nested groups.
type FixtureGroup struct {
	Id      GroupId
	Name    string
	Members []GroupMember
}

// ControllerProtocol names the output protocol a controller speaks.
type ControllerProtocol string

const (
	ControllerProtocolE131 ControllerProtocol = "e1.31"
	ControllerProtocolNone ControllerProtocol = "none"
)

// Controller describes one lighting output controller discovered during
// import, addressed by (IP, universe) pairs.
type Controller struct {
	Id       ControllerId
	Name     string
	Protocol ControllerProtocol
	Outputs  []ControllerOutput
}

// ControllerOutput is one (ip, universe) unicast/universe pairing.
type ControllerOutput struct {
	IP       string
	Universe uint16
}

// Patch maps a fixture's channels onto a controller's output address
// space. The core does not interpret patch data itself (real-time
// hardware output is a Non-goal); it is carried through import/export.
type Patch struct {
	FixtureId    FixtureId
	ControllerId ControllerId
	StartChannel uint32
}

// FixtureLayout places one fixture (or a single pixel within a merged
// fixture) at a 2-D display position, produced by preview/layout import.
type FixtureLayout struct {
	FixtureId FixtureId
	PixelIdx  uint32
	X, Y      float64
}

// Layout is a named collection of fixture layouts representing one preview
// canvas.
type Layout struct {
	Name  string
	Items []FixtureLayout
}
