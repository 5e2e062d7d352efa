package blocks

import (
	"math"

	"github.com/reusee/steina/steinavm"
)

const (
	// TiltThreshold is the tilt angle in degrees at which isTilted
	// fires.
	TiltThreshold = 15.0
	// CompassThreshold is the cardinal window width in degrees. North
	// uses half this width; the other cardinals use the full width.
	CompassThreshold = 20.0
)

// MotionBlocks reads the device-motion sample on the runtime. All of
// its primitives are read-only.
type MotionBlocks struct {
	runtime *steinavm.Runtime
}

func NewMotionBlocks(runtime *steinavm.Runtime) *MotionBlocks {
	return &MotionBlocks{
		runtime: runtime,
	}
}

func (b *MotionBlocks) tiltAngle(direction string) float64 {
	motion := b.runtime.Motion
	switch direction {
	case "forward":
		return motion.Pitch
	case "backward":
		return -motion.Pitch
	case "left":
		return -motion.Roll
	case "right":
		return motion.Roll
	}
	return 0
}

func (b *MotionBlocks) heading() float64 {
	h := math.Mod(b.runtime.Motion.Heading, 360)
	if h < 0 {
		h += 360
	}
	return h
}

func (b *MotionBlocks) isPointed(direction string) bool {
	h := b.heading()
	switch direction {
	case "north":
		// north keeps the historical half-width window
		return math.Min(h, 360-h) <= CompassThreshold/2
	case "south":
		return math.Abs(h-180) <= CompassThreshold
	case "east":
		return math.Abs(h-90) <= CompassThreshold
	case "west":
		return math.Abs(h-270) <= CompassThreshold
	}
	return false
}

func (b *MotionBlocks) GetTiltAngle(args Args, util *Util) any {
	return b.tiltAngle(toString(args["DIRECTION"]))
}

func (b *MotionBlocks) IsTilted(args Args, util *Util) any {
	return b.tiltAngle(toString(args["DIRECTION"])) >= TiltThreshold
}

func (b *MotionBlocks) WhenTilted(args Args, util *Util) any {
	return b.tiltAngle(toString(args["DIRECTION"])) >= TiltThreshold
}

func (b *MotionBlocks) GetCompassAngle(args Args, util *Util) any {
	return b.heading()
}

func (b *MotionBlocks) IsPointed(args Args, util *Util) any {
	return b.isPointed(toString(args["DIRECTION"]))
}

func (b *MotionBlocks) WhenPointed(args Args, util *Util) any {
	return b.isPointed(toString(args["DIRECTION"]))
}

func (b *MotionBlocks) Primitives() map[string]Primitive {
	return map[string]Primitive{
		"getTiltAngle":    b.GetTiltAngle,
		"isTilted":        b.IsTilted,
		"whenTilted":      b.WhenTilted,
		"getCompassAngle": b.GetCompassAngle,
		"isPointed":       b.IsPointed,
		"whenPointed":     b.WhenPointed,
	}
}

func (b *MotionBlocks) Info() ExtensionInfo {
	return ExtensionInfo{
		ID:   "steinaMotion",
		Name: "Motion",
		Blocks: []BlockDescriptor{
			{
				Opcode:    "whenTilted",
				BlockType: BlockTypeHat,
				Text:      "when tilted [DIRECTION]",
				Arguments: map[string]Argument{
					"DIRECTION": {Type: ArgTypeString, Menu: "tiltDirection", DefaultValue: "forward"},
				},
			},
			{
				Opcode:    "isTilted",
				BlockType: BlockTypeBoolean,
				Text:      "tilted [DIRECTION]?",
				Arguments: map[string]Argument{
					"DIRECTION": {Type: ArgTypeString, Menu: "tiltDirection", DefaultValue: "forward"},
				},
			},
			{
				Opcode:    "getTiltAngle",
				BlockType: BlockTypeReporter,
				Text:      "tilt angle [DIRECTION]",
				Arguments: map[string]Argument{
					"DIRECTION": {Type: ArgTypeString, Menu: "tiltDirection", DefaultValue: "forward"},
				},
			},
			{
				Opcode:    "whenPointed",
				BlockType: BlockTypeHat,
				Text:      "when pointed [DIRECTION]",
				Arguments: map[string]Argument{
					"DIRECTION": {Type: ArgTypeString, Menu: "compassDirection", DefaultValue: "north"},
				},
			},
			{
				Opcode:    "isPointed",
				BlockType: BlockTypeBoolean,
				Text:      "pointed [DIRECTION]?",
				Arguments: map[string]Argument{
					"DIRECTION": {Type: ArgTypeString, Menu: "compassDirection", DefaultValue: "north"},
				},
			},
			{
				Opcode:    "getCompassAngle",
				BlockType: BlockTypeReporter,
				Text:      "compass angle",
			},
		},
		Menus: map[string]Menu{
			"tiltDirection": {
				Items: []MenuItem{
					{Text: "forward", Value: "forward"},
					{Text: "backward", Value: "backward"},
					{Text: "left", Value: "left"},
					{Text: "right", Value: "right"},
				},
			},
			"compassDirection": {
				Items: []MenuItem{
					{Text: "north", Value: "north"},
					{Text: "south", Value: "south"},
					{Text: "east", Value: "east"},
					{Text: "west", Value: "west"},
				},
			},
		},
	}
}
