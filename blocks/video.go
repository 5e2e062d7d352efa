package blocks

import (
	"math"
	"strconv"

	"github.com/google/uuid"
	"github.com/reusee/steina/steinavm"
	"github.com/reusee/steina/targets"
)

// VideoBlocks is the video extension: playback over the play queue,
// seeking, effects, layering, and the tap/playhead hats. Script frame
// numbers are 1-indexed relative to the trim start; play bounds are
// stored normalized, Start at the backward-completion end and End at
// the forward one.
type VideoBlocks struct {
	runtime *steinavm.Runtime
}

func NewVideoBlocks(runtime *steinavm.Runtime) *VideoBlocks {
	return &VideoBlocks{
		runtime: runtime,
	}
}

func videoTarget(util *Util) *targets.VideoTarget {
	t, _ := util.Target.(*targets.VideoTarget)
	return t
}

// scriptFrame maps a 1-indexed script frame into the trim range.
func scriptFrame(target *targets.VideoTarget, f float64) float64 {
	frame := target.TrimStart() + f - 1
	return math.Max(target.TrimStart(), math.Min(frame, target.TrimEnd()))
}

// setRateDirection keeps the rate magnitude and forces its sign to the
// requested play direction.
func setRateDirection(target *targets.VideoTarget, forward bool) {
	rate := math.Abs(target.PlaybackRate())
	if !forward {
		rate = -rate
	}
	target.SetPlaybackRate(rate)
}

// playUntilDone is the two-call blocking template. The first entry
// queues the play and parks the thread; later entries park again until
// the play is gone or superseded.
func (b *VideoBlocks) playUntilDone(util *Util, target *targets.VideoTarget, bounds func() (start, end float64)) any {
	frame := util.StackFrame()
	if frame == nil {
		return nil
	}
	playing := b.runtime.VideoState.Playing
	if frame.PlayingID == "" {
		start, end := bounds()
		play := &steinavm.VideoPlay{
			ID:             uuid.NewString(),
			Start:          start,
			End:            end,
			ThreadTopBlock: util.Thread.TopBlock,
			Blocking:       true,
		}
		playing[target.TargetID()] = play
		frame.PlayingID = play.ID
		util.Thread.Status = steinavm.StatusYieldTick
		return nil
	}
	play, ok := playing[target.TargetID()]
	if !ok || play.ID != frame.PlayingID {
		frame.PlayingID = ""
		return nil
	}
	util.Thread.Status = steinavm.StatusYieldTick
	return nil
}

func (b *VideoBlocks) PlayEntireVideoUntilDone(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return nil
	}
	return b.playUntilDone(util, target, func() (float64, float64) {
		target.SetCurrentFrame(target.TrimStart())
		return target.TrimStart(), target.TrimEnd()
	})
}

func (b *VideoBlocks) PlayVideoFromAToB(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return nil
	}
	return b.playUntilDone(util, target, func() (float64, float64) {
		from := scriptFrame(target, toNumber(args["A"]))
		to := scriptFrame(target, toNumber(args["B"]))
		target.SetCurrentFrame(from)
		setRateDirection(target, to >= from)
		if to >= from {
			return from, to
		}
		return to, from
	})
}

func (b *VideoBlocks) PlayForwardReverseUntilDone(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return nil
	}
	return b.playDirectionUntilDone(util, target, toString(args["DIRECTION"]) != "reverse")
}

func (b *VideoBlocks) PlayForwardUntilDone(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return nil
	}
	return b.playDirectionUntilDone(util, target, true)
}

func (b *VideoBlocks) PlayBackwardUntilDone(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return nil
	}
	return b.playDirectionUntilDone(util, target, false)
}

func (b *VideoBlocks) playDirectionUntilDone(util *Util, target *targets.VideoTarget, forward bool) any {
	return b.playUntilDone(util, target, func() (float64, float64) {
		setRateDirection(target, forward)
		if forward {
			return target.CurrentFrame(), target.TrimEnd()
		}
		return target.TrimStart(), target.CurrentFrame()
	})
}

func (b *VideoBlocks) PlayNFrames(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return nil
	}
	return b.playUntilDone(util, target, func() (float64, float64) {
		current := target.CurrentFrame()
		end := math.Max(target.TrimStart(),
			math.Min(current+toNumber(args["N"]), target.TrimEnd()))
		util.StackFrame().TargetFrame = end
		setRateDirection(target, end >= current)
		if end >= current {
			return current, end
		}
		return end, current
	})
}

func (b *VideoBlocks) StartPlaying(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return nil
	}
	b.startPlaying(util, target, true)
	return nil
}

func (b *VideoBlocks) StartPlayingForwardReverse(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return nil
	}
	b.startPlaying(util, target, toString(args["DIRECTION"]) != "reverse")
	return nil
}

func (b *VideoBlocks) startPlaying(util *Util, target *targets.VideoTarget, forward bool) {
	setRateDirection(target, forward)
	var start, end float64
	if forward {
		start, end = target.CurrentFrame(), target.TrimEnd()
	} else {
		start, end = target.TrimStart(), target.CurrentFrame()
	}
	var topBlock string
	if util.Thread != nil {
		topBlock = util.Thread.TopBlock
	}
	b.runtime.VideoState.Playing[target.TargetID()] = &steinavm.VideoPlay{
		ID:             uuid.NewString(),
		Start:          start,
		End:            end,
		ThreadTopBlock: topBlock,
	}
}

func (b *VideoBlocks) StopPlaying(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return nil
	}
	delete(b.runtime.VideoState.Playing, target.TargetID())
	return nil
}

func (b *VideoBlocks) GoToFrame(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return nil
	}
	target.SetCurrentFrame(toNumber(args["FRAME"]) + target.TrimStart() - 1)
	return nil
}

func (b *VideoBlocks) NextFrame(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return nil
	}
	target.SetCurrentFrame(target.CurrentFrame() + 1)
	return nil
}

func (b *VideoBlocks) PreviousFrame(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return nil
	}
	target.SetCurrentFrame(target.CurrentFrame() - 1)
	return nil
}

func (b *VideoBlocks) SetEffectTo(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return nil
	}
	target.SetEffect(toString(args["EFFECT"]), toNumber(args["VALUE"]))
	return nil
}

func (b *VideoBlocks) ChangeEffectBy(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return nil
	}
	target.ChangeEffect(toString(args["EFFECT"]), toNumber(args["CHANGE"]))
	return nil
}

func (b *VideoBlocks) ClearVideoEffects(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return nil
	}
	target.ClearEffects()
	return nil
}

func (b *VideoBlocks) SetPlayRate(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return nil
	}
	target.SetPlaybackRate(toNumber(args["RATE"]))
	return nil
}

func (b *VideoBlocks) ChangePlayRateBy(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return nil
	}
	target.SetPlaybackRate(target.PlaybackRate() + toNumber(args["CHANGE"]))
	return nil
}

func (b *VideoBlocks) GoToFront(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return nil
	}
	b.runtime.MoveToFront(target.TargetID())
	return nil
}

func (b *VideoBlocks) GoToBack(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return nil
	}
	b.runtime.MoveToBack(target.TargetID())
	return nil
}

func (b *VideoBlocks) GoForwardLayers(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return nil
	}
	b.runtime.MoveForwardLayers(target.TargetID(), int(toNumber(args["NUM"])))
	return nil
}

func (b *VideoBlocks) GoBackwardLayers(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return nil
	}
	b.runtime.MoveBackwardLayers(target.TargetID(), int(toNumber(args["NUM"])))
	return nil
}

func (b *VideoBlocks) WhenPlayedToEnd(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return false
	}
	return target.CurrentFrame() == target.TrimEnd()
}

func (b *VideoBlocks) WhenPlayedToBeginning(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return false
	}
	return target.CurrentFrame() == target.TrimStart()
}

func (b *VideoBlocks) WhenReached(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return false
	}
	return toNumber(args["MARKER"]) == target.CurrentFrame()
}

func (b *VideoBlocks) WhenTapped(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return false
	}
	return target.ConsumeTap()
}

func (b *VideoBlocks) IsTapped(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return false
	}
	return target.Tapped()
}

func (b *VideoBlocks) GetCurrentFrame(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return float64(0)
	}
	return target.CurrentFrame() - target.TrimStart() + 1
}

func (b *VideoBlocks) GetTotalFrames(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return float64(0)
	}
	return target.TrimEnd() - target.TrimStart()
}

func (b *VideoBlocks) GetPlayRate(args Args, util *Util) any {
	target := videoTarget(util)
	if target == nil {
		return float64(0)
	}
	return target.PlaybackRate()
}

func (b *VideoBlocks) buildMarkersMenu(targetID string) []MenuItem {
	target, _ := b.runtime.TargetByID(targetID).(*targets.VideoTarget)
	if target == nil {
		return []MenuItem{{Text: "n/a", Value: "0"}}
	}
	items := []MenuItem{{
		Text:  "start",
		Value: formatNumber(target.TrimStart()),
	}}
	for i, marker := range target.Markers() {
		items = append(items, MenuItem{
			Text:  "marker " + strconv.Itoa(i+1),
			Value: strconv.Itoa(marker),
		})
	}
	items = append(items, MenuItem{
		Text:  "end",
		Value: formatNumber(target.TrimEnd()),
	})
	return items
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (b *VideoBlocks) Primitives() map[string]Primitive {
	return map[string]Primitive{
		"playEntireVideoUntilDone":    b.PlayEntireVideoUntilDone,
		"playVideoFromAToB":           b.PlayVideoFromAToB,
		"playForwardReverseUntilDone": b.PlayForwardReverseUntilDone,
		"playForwardUntilDone":        b.PlayForwardUntilDone,
		"playBackwardUntilDone":       b.PlayBackwardUntilDone,
		"playNFrames":                 b.PlayNFrames,
		"startPlaying":                b.StartPlaying,
		"startPlayingForwardReverse":  b.StartPlayingForwardReverse,
		"stopPlaying":                 b.StopPlaying,
		"goToFrame":                   b.GoToFrame,
		"nextFrame":                   b.NextFrame,
		"previousFrame":               b.PreviousFrame,
		"setEffectTo":                 b.SetEffectTo,
		"changeEffectBy":              b.ChangeEffectBy,
		"clearVideoEffects":           b.ClearVideoEffects,
		"setPlayRate":                 b.SetPlayRate,
		"changePlayRateBy":            b.ChangePlayRateBy,
		"goToFront":                   b.GoToFront,
		"goToBack":                    b.GoToBack,
		"goForwardLayers":             b.GoForwardLayers,
		"goBackwardLayers":            b.GoBackwardLayers,
		"whenPlayedToEnd":             b.WhenPlayedToEnd,
		"whenPlayedToBeginning":       b.WhenPlayedToBeginning,
		"whenReached":                 b.WhenReached,
		"whenTapped":                  b.WhenTapped,
		"isTapped":                    b.IsTapped,
		"getCurrentFrame":             b.GetCurrentFrame,
		"getTotalFrames":              b.GetTotalFrames,
		"getPlayRate":                 b.GetPlayRate,
	}
}

func (b *VideoBlocks) Info() ExtensionInfo {
	return ExtensionInfo{
		ID:   "steinaVideo",
		Name: "Video",
		Blocks: []BlockDescriptor{
			{
				Opcode:    "playEntireVideoUntilDone",
				BlockType: BlockTypeCommand,
				Text:      "play entire video until done",
			},
			{
				Opcode:    "playVideoFromAToB",
				BlockType: BlockTypeCommand,
				Text:      "play video from [A] to [B] until done",
				Arguments: map[string]Argument{
					"A": {Type: ArgTypeNumber, Menu: "markers", DefaultValue: 1},
					"B": {Type: ArgTypeNumber, Menu: "markers", DefaultValue: 2},
				},
			},
			{
				Opcode:    "playForwardReverseUntilDone",
				BlockType: BlockTypeCommand,
				Text:      "play video [DIRECTION] until done",
				Arguments: map[string]Argument{
					"DIRECTION": {Type: ArgTypeString, Menu: "direction", DefaultValue: "forward"},
				},
			},
			{
				Opcode:    "playNFrames",
				BlockType: BlockTypeCommand,
				Text:      "play [N] frames",
				Arguments: map[string]Argument{
					"N": {Type: ArgTypeNumber, DefaultValue: 30},
				},
			},
			{
				Opcode:    "startPlayingForwardReverse",
				BlockType: BlockTypeCommand,
				Text:      "start playing video [DIRECTION]",
				Arguments: map[string]Argument{
					"DIRECTION": {Type: ArgTypeString, Menu: "direction", DefaultValue: "forward"},
				},
			},
			{
				Opcode:    "stopPlaying",
				BlockType: BlockTypeCommand,
				Text:      "stop playing video",
			},
			{
				Opcode:    "goToFrame",
				BlockType: BlockTypeCommand,
				Text:      "go to frame [FRAME]",
				Arguments: map[string]Argument{
					"FRAME": {Type: ArgTypeNumber, Menu: "markers", DefaultValue: 1},
				},
			},
			{
				Opcode:    "nextFrame",
				BlockType: BlockTypeCommand,
				Text:      "go to next frame",
			},
			{
				Opcode:    "previousFrame",
				BlockType: BlockTypeCommand,
				Text:      "go to previous frame",
			},
			{
				Opcode:    "setEffectTo",
				BlockType: BlockTypeCommand,
				Text:      "set [EFFECT] effect to [VALUE]",
				Arguments: map[string]Argument{
					"EFFECT": {Type: ArgTypeString, Menu: "effect", DefaultValue: "ghost"},
					"VALUE":  {Type: ArgTypeNumber, DefaultValue: 0},
				},
			},
			{
				Opcode:    "changeEffectBy",
				BlockType: BlockTypeCommand,
				Text:      "change [EFFECT] effect by [CHANGE]",
				Arguments: map[string]Argument{
					"EFFECT": {Type: ArgTypeString, Menu: "effect", DefaultValue: "ghost"},
					"CHANGE": {Type: ArgTypeNumber, DefaultValue: 10},
				},
			},
			{
				Opcode:    "clearVideoEffects",
				BlockType: BlockTypeCommand,
				Text:      "clear video effects",
			},
			{
				Opcode:    "setPlayRate",
				BlockType: BlockTypeCommand,
				Text:      "set play rate to [RATE] %",
				Arguments: map[string]Argument{
					"RATE": {Type: ArgTypeNumber, DefaultValue: 100},
				},
			},
			{
				Opcode:    "changePlayRateBy",
				BlockType: BlockTypeCommand,
				Text:      "change play rate by [CHANGE]",
				Arguments: map[string]Argument{
					"CHANGE": {Type: ArgTypeNumber, DefaultValue: 10},
				},
			},
			{
				Opcode:    "goToFront",
				BlockType: BlockTypeCommand,
				Text:      "go to front",
			},
			{
				Opcode:    "goToBack",
				BlockType: BlockTypeCommand,
				Text:      "go to back",
			},
			{
				Opcode:    "goForwardLayers",
				BlockType: BlockTypeCommand,
				Text:      "go forward [NUM] layers",
				Arguments: map[string]Argument{
					"NUM": {Type: ArgTypeNumber, DefaultValue: 1},
				},
			},
			{
				Opcode:    "goBackwardLayers",
				BlockType: BlockTypeCommand,
				Text:      "go backward [NUM] layers",
				Arguments: map[string]Argument{
					"NUM": {Type: ArgTypeNumber, DefaultValue: 1},
				},
			},
			{
				Opcode:    "whenPlayedToEnd",
				BlockType: BlockTypeHat,
				Text:      "when played to end",
			},
			{
				Opcode:    "whenPlayedToBeginning",
				BlockType: BlockTypeHat,
				Text:      "when played to beginning",
			},
			{
				Opcode:    "whenReached",
				BlockType: BlockTypeHat,
				Text:      "when video reaches [MARKER]",
				Arguments: map[string]Argument{
					"MARKER": {Type: ArgTypeNumber, Menu: "markers", DefaultValue: 0},
				},
			},
			{
				Opcode:    "whenTapped",
				BlockType: BlockTypeHat,
				Text:      "when video tapped",
			},
			{
				Opcode:    "isTapped",
				BlockType: BlockTypeBoolean,
				Text:      "tapped?",
			},
			{
				Opcode:    "getCurrentFrame",
				BlockType: BlockTypeReporter,
				Text:      "current frame",
			},
			{
				Opcode:    "getTotalFrames",
				BlockType: BlockTypeReporter,
				Text:      "total frames",
			},
			{
				Opcode:    "getPlayRate",
				BlockType: BlockTypeReporter,
				Text:      "play rate",
			},
		},
		Menus: map[string]Menu{
			"direction": {
				Items: []MenuItem{
					{Text: "forward", Value: "forward"},
					{Text: "reverse", Value: "reverse"},
				},
			},
			"effect": {
				Items: []MenuItem{
					{Text: "color", Value: "color"},
					{Text: "whirl", Value: "whirl"},
					{Text: "brightness", Value: "brightness"},
					{Text: "ghost", Value: "ghost"},
				},
			},
			"markers": {
				Build: b.buildMarkersMenu,
			},
		},
	}
}
