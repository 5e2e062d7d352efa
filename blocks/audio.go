package blocks

import (
	"math"
	"strconv"

	"github.com/google/uuid"
	"github.com/reusee/steina/steinavm"
	"github.com/reusee/steina/targets"
)

// AudioBlocks is the sound extension. Non-blocking starts consume one
// of the target's slots and are silently dropped at zero; blocking
// plays follow the same two-call template as video, keyed by play id.
type AudioBlocks struct {
	runtime *steinavm.Runtime
}

func NewAudioBlocks(runtime *steinavm.Runtime) *AudioBlocks {
	return &AudioBlocks{
		runtime: runtime,
	}
}

func audioTarget(util *Util) *targets.AudioTarget {
	t, _ := util.Target.(*targets.AudioTarget)
	return t
}

func clampSample(target *targets.AudioTarget, sample float64) float64 {
	return math.Max(0, math.Min(sample, float64(target.TotalSamples()-1)))
}

func (b *AudioBlocks) queueSound(target *targets.AudioTarget, start, end float64, blocking bool) string {
	id := uuid.NewString()
	b.runtime.AudioState.Playing[id] = &steinavm.AudioPlay{
		TargetID:     target.TargetID(),
		SampleRate:   target.SampleRate(),
		Start:        start,
		End:          end,
		PlaybackRate: target.PlaybackRate(),
		PrevPlayhead: start,
		Playhead:     start,
		Blocking:     blocking,
	}
	return id
}

func (b *AudioBlocks) playUntilDone(util *Util, target *targets.AudioTarget, bounds func() (start, end float64)) any {
	frame := util.StackFrame()
	if frame == nil {
		return nil
	}
	if frame.PlayingID == "" {
		start, end := bounds()
		frame.PlayingID = b.queueSound(target, start, end, true)
		util.Thread.Status = steinavm.StatusYieldTick
		return nil
	}
	if _, ok := b.runtime.AudioState.Playing[frame.PlayingID]; !ok {
		frame.PlayingID = ""
		return nil
	}
	util.Thread.Status = steinavm.StatusYieldTick
	return nil
}

func soundRange(target *targets.AudioTarget, args Args) (float64, float64) {
	start := clampSample(target, toNumber(args["A"]))
	end := clampSample(target, toNumber(args["B"]))
	if end < start {
		end = start
	}
	return start, end
}

func (b *AudioBlocks) StartSound(args Args, util *Util) any {
	target := audioTarget(util)
	if target == nil {
		return nil
	}
	if !target.TakeNonblockingSlot() {
		// out of slots: drop the start silently
		return nil
	}
	b.queueSound(target, target.TrimStart(), target.TrimEnd(), false)
	return nil
}

func (b *AudioBlocks) StartSoundFromAToB(args Args, util *Util) any {
	target := audioTarget(util)
	if target == nil {
		return nil
	}
	if !target.TakeNonblockingSlot() {
		return nil
	}
	start, end := soundRange(target, args)
	b.queueSound(target, start, end, false)
	return nil
}

func (b *AudioBlocks) PlaySound(args Args, util *Util) any {
	target := audioTarget(util)
	if target == nil {
		return nil
	}
	return b.playUntilDone(util, target, func() (float64, float64) {
		return target.TrimStart(), target.TrimEnd()
	})
}

func (b *AudioBlocks) PlaySoundFromAToB(args Args, util *Util) any {
	target := audioTarget(util)
	if target == nil {
		return nil
	}
	return b.playUntilDone(util, target, func() (float64, float64) {
		return soundRange(target, args)
	})
}

func (b *AudioBlocks) SetPlayRate(args Args, util *Util) any {
	target := audioTarget(util)
	if target == nil {
		return nil
	}
	target.SetPlaybackRate(toNumber(args["RATE"]))
	return nil
}

func (b *AudioBlocks) ChangePlayRateBy(args Args, util *Util) any {
	target := audioTarget(util)
	if target == nil {
		return nil
	}
	target.SetPlaybackRate(target.PlaybackRate() + toNumber(args["CHANGE"]))
	return nil
}

func (b *AudioBlocks) SetVolumeTo(args Args, util *Util) any {
	target := audioTarget(util)
	if target == nil {
		return nil
	}
	target.SetVolume(toNumber(args["VOLUME"]))
	return nil
}

func (b *AudioBlocks) ChangeVolumeBy(args Args, util *Util) any {
	target := audioTarget(util)
	if target == nil {
		return nil
	}
	target.SetVolume(target.Volume() + toNumber(args["CHANGE"]))
	return nil
}

func (b *AudioBlocks) GetVolume(args Args, util *Util) any {
	target := audioTarget(util)
	if target == nil {
		return float64(0)
	}
	return target.Volume()
}

func (b *AudioBlocks) GetPlayRate(args Args, util *Util) any {
	target := audioTarget(util)
	if target == nil {
		return float64(0)
	}
	return target.PlaybackRate()
}

func (b *AudioBlocks) buildMarkersMenu(targetID string) []MenuItem {
	target, _ := b.runtime.TargetByID(targetID).(*targets.AudioTarget)
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

func (b *AudioBlocks) Primitives() map[string]Primitive {
	return map[string]Primitive{
		"startSound":         b.StartSound,
		"startSoundFromAToB": b.StartSoundFromAToB,
		"playSound":          b.PlaySound,
		"playSoundFromAToB":  b.PlaySoundFromAToB,
		"setPlayRate":        b.SetPlayRate,
		"changePlayRateBy":   b.ChangePlayRateBy,
		"setVolumeTo":        b.SetVolumeTo,
		"changeVolumeBy":     b.ChangeVolumeBy,
		"getVolume":          b.GetVolume,
		"getPlayRate":        b.GetPlayRate,
	}
}

func (b *AudioBlocks) Info() ExtensionInfo {
	return ExtensionInfo{
		ID:   "steinaAudio",
		Name: "Sound",
		Blocks: []BlockDescriptor{
			{
				Opcode:    "startSound",
				BlockType: BlockTypeCommand,
				Text:      "start sound",
			},
			{
				Opcode:    "startSoundFromAToB",
				BlockType: BlockTypeCommand,
				Text:      "start sound from [A] to [B]",
				Arguments: map[string]Argument{
					"A": {Type: ArgTypeNumber, Menu: "markers", DefaultValue: 0},
					"B": {Type: ArgTypeNumber, Menu: "markers", DefaultValue: 0},
				},
			},
			{
				Opcode:    "playSound",
				BlockType: BlockTypeCommand,
				Text:      "play sound until done",
			},
			{
				Opcode:    "playSoundFromAToB",
				BlockType: BlockTypeCommand,
				Text:      "play sound from [A] to [B] until done",
				Arguments: map[string]Argument{
					"A": {Type: ArgTypeNumber, Menu: "markers", DefaultValue: 0},
					"B": {Type: ArgTypeNumber, Menu: "markers", DefaultValue: 0},
				},
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
				Opcode:    "setVolumeTo",
				BlockType: BlockTypeCommand,
				Text:      "set volume to [VOLUME] %",
				Arguments: map[string]Argument{
					"VOLUME": {Type: ArgTypeNumber, DefaultValue: 100},
				},
			},
			{
				Opcode:    "changeVolumeBy",
				BlockType: BlockTypeCommand,
				Text:      "change volume by [CHANGE]",
				Arguments: map[string]Argument{
					"CHANGE": {Type: ArgTypeNumber, DefaultValue: 10},
				},
			},
			{
				Opcode:    "getVolume",
				BlockType: BlockTypeReporter,
				Text:      "volume",
			},
			{
				Opcode:    "getPlayRate",
				BlockType: BlockTypeReporter,
				Text:      "play rate",
			},
		},
		Menus: map[string]Menu{
			"markers": {
				Build: b.buildMarkersMenu,
			},
		},
	}
}
