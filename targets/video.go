package targets

import (
	"encoding/json"
	"math"

	"github.com/reusee/steina/steinavm"
)

const (
	VideoRateMin = -1000
	VideoRateMax = 1000
	SizeMin      = 1
	SizeMax      = 500
)

// Effects are the renderable video effects; unknown names are ignored
// by the setters.
type Effects struct {
	Color      float64 `json:"color"`
	Whirl      float64 `json:"whirl"`
	Brightness float64 `json:"brightness"`
	Ghost      float64 `json:"ghost"`
}

// VideoTarget is the per-video state: a clip of `frames` frames at
// `fps`, a playhead, a trim range bounding playback, and stage
// placement.
type VideoTarget struct {
	ID string

	X         float64
	Y         float64
	Size      float64
	Direction float64
	Visible   bool

	Blocks    json.RawMessage
	Variables json.RawMessage
	Lists     json.RawMessage

	fps          float64
	frames       int
	trimStart    float64
	trimEnd      float64
	currentFrame float64
	playbackRate float64
	effects      Effects
	markers      []int
	tapped       bool

	graph  steinavm.BlockGraph
	redraw func()
}

func NewVideoTarget(id string, fps float64, frames int) *VideoTarget {
	if frames < 1 {
		frames = 1
	}
	return &VideoTarget{
		ID:           id,
		Visible:      true,
		Size:         100,
		fps:          fps,
		frames:       frames,
		trimEnd:      float64(frames - 1),
		playbackRate: 100,
	}
}

func (t *VideoTarget) TargetID() string {
	return t.ID
}

func (t *VideoTarget) Graph() steinavm.BlockGraph {
	return t.graph
}

func (t *VideoTarget) SetGraph(graph steinavm.BlockGraph) {
	t.graph = graph
}

func (t *VideoTarget) SetRedrawHook(fn func()) {
	t.redraw = fn
}

func (t *VideoTarget) requestRedraw() {
	if t.redraw != nil {
		t.redraw()
	}
}

func (t *VideoTarget) FPS() float64 {
	return t.fps
}

func (t *VideoTarget) Frames() int {
	return t.frames
}

func (t *VideoTarget) TrimStart() float64 {
	return t.trimStart
}

func (t *VideoTarget) TrimEnd() float64 {
	return t.trimEnd
}

// SetTrim clamps both ends into [0, frames-1] and keeps start <= end.
func (t *VideoTarget) SetTrim(start, end float64) {
	start = t.clampFrame(start)
	end = t.clampFrame(end)
	if end < start {
		start, end = end, start
	}
	t.trimStart = start
	t.trimEnd = end
}

func (t *VideoTarget) clampFrame(frame float64) float64 {
	return math.Max(0, math.Min(frame, float64(t.frames-1)))
}

func (t *VideoTarget) CurrentFrame() float64 {
	return t.currentFrame
}

func (t *VideoTarget) SetCurrentFrame(frame float64) {
	t.currentFrame = t.clampFrame(frame)
	t.requestRedraw()
}

func (t *VideoTarget) PlaybackRate() float64 {
	return t.playbackRate
}

func (t *VideoTarget) SetPlaybackRate(rate float64) {
	t.playbackRate = math.Max(VideoRateMin, math.Min(rate, VideoRateMax))
}

func (t *VideoTarget) Effects() Effects {
	return t.effects
}

func (t *VideoTarget) Effect(name string) float64 {
	switch name {
	case "color":
		return t.effects.Color
	case "whirl":
		return t.effects.Whirl
	case "brightness":
		return t.effects.Brightness
	case "ghost":
		return t.effects.Ghost
	}
	return 0
}

// SetEffect ignores unknown effect names.
func (t *VideoTarget) SetEffect(name string, value float64) {
	switch name {
	case "color":
		t.effects.Color = value
	case "whirl":
		t.effects.Whirl = value
	case "brightness":
		t.effects.Brightness = value
	case "ghost":
		t.effects.Ghost = value
	default:
		return
	}
	t.requestRedraw()
}

func (t *VideoTarget) ChangeEffect(name string, delta float64) {
	t.SetEffect(name, t.Effect(name)+delta)
}

func (t *VideoTarget) ClearEffects() {
	t.effects = Effects{}
	t.requestRedraw()
}

func (t *VideoTarget) SetSize(size float64) {
	t.Size = math.Max(SizeMin, math.Min(size, SizeMax))
}

// SetDirection wraps into [-179, 181), so whole degrees land in
// [-179, 180].
func (t *VideoTarget) SetDirection(direction float64) {
	wrapped := math.Mod(direction+179, 360)
	if wrapped < 0 {
		wrapped += 360
	}
	t.Direction = wrapped - 179
}

func (t *VideoTarget) Markers() []int {
	return t.markers
}

func (t *VideoTarget) SetMarkers(markers []int) {
	t.markers = markers
}

func (t *VideoTarget) Tapped() bool {
	return t.tapped
}

// Tap latches until a hat consumes it.
func (t *VideoTarget) Tap() {
	t.tapped = true
}

func (t *VideoTarget) ConsumeTap() bool {
	tapped := t.tapped
	t.tapped = false
	return tapped
}

var _ steinavm.VideoPlayer = new(VideoTarget)
