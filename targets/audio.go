package targets

import (
	"encoding/json"
	"math"
	"slices"

	"github.com/google/uuid"
	"github.com/reusee/steina/steinavm"
)

const (
	// MaxNonblocking caps concurrent non-blocking sounds per target.
	MaxNonblocking = 25

	AudioRateMin      = 0
	AudioRateMax      = 1000
	VolumeMin         = 0
	VolumeMax         = 500
	DefaultSampleRate = 48000
)

// AudioTarget is the per-clip state: total samples at a sample rate, a
// trim range bounding playback, user-authored markers, and a capacity
// counter for non-blocking sounds.
type AudioTarget struct {
	ID string

	Blocks    json.RawMessage
	Variables json.RawMessage
	Lists     json.RawMessage

	totalSamples int
	sampleRate   float64
	trimStart    float64
	trimEnd      float64
	playbackRate float64
	volume       float64
	markers      []int

	nonblockingSoundsAvailable int

	graph steinavm.BlockGraph
}

func NewAudioTarget(id string, totalSamples int, sampleRate float64) *AudioTarget {
	if totalSamples < 1 {
		totalSamples = 1
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &AudioTarget{
		ID:                         id,
		totalSamples:               totalSamples,
		sampleRate:                 sampleRate,
		trimEnd:                    float64(totalSamples - 1),
		playbackRate:               100,
		volume:                     100,
		nonblockingSoundsAvailable: MaxNonblocking,
	}
}

func (t *AudioTarget) TargetID() string {
	return t.ID
}

func (t *AudioTarget) Graph() steinavm.BlockGraph {
	return t.graph
}

func (t *AudioTarget) SetGraph(graph steinavm.BlockGraph) {
	t.graph = graph
}

func (t *AudioTarget) TotalSamples() int {
	return t.totalSamples
}

func (t *AudioTarget) SampleRate() float64 {
	return t.sampleRate
}

func (t *AudioTarget) TrimStart() float64 {
	return t.trimStart
}

func (t *AudioTarget) TrimEnd() float64 {
	return t.trimEnd
}

func (t *AudioTarget) SetTrim(start, end float64) {
	start = t.clampSample(start)
	end = t.clampSample(end)
	if end < start {
		start, end = end, start
	}
	t.trimStart = start
	t.trimEnd = end
}

func (t *AudioTarget) clampSample(sample float64) float64 {
	return math.Max(0, math.Min(sample, float64(t.totalSamples-1)))
}

func (t *AudioTarget) PlaybackRate() float64 {
	return t.playbackRate
}

func (t *AudioTarget) SetPlaybackRate(rate float64) {
	t.playbackRate = math.Max(AudioRateMin, math.Min(rate, AudioRateMax))
}

func (t *AudioTarget) Volume() float64 {
	return t.volume
}

func (t *AudioTarget) SetVolume(volume float64) {
	t.volume = math.Max(VolumeMin, math.Min(volume, VolumeMax))
}

func (t *AudioTarget) Markers() []int {
	return t.markers
}

func (t *AudioTarget) SetMarkers(markers []int) {
	t.markers = markers
}

func (t *AudioTarget) NonblockingSoundsAvailable() int {
	return t.nonblockingSoundsAvailable
}

// TakeNonblockingSlot reports whether a slot was available.
func (t *AudioTarget) TakeNonblockingSlot() bool {
	if t.nonblockingSoundsAvailable <= 0 {
		return false
	}
	t.nonblockingSoundsAvailable--
	return true
}

func (t *AudioTarget) ReleaseNonblockingSlot() {
	if t.nonblockingSoundsAvailable < MaxNonblocking {
		t.nonblockingSoundsAvailable++
	}
}

func (t *AudioTarget) ResetNonblockingSlots() {
	t.nonblockingSoundsAvailable = MaxNonblocking
}

// Duplicate deep-copies the target under a fresh id; the caller
// overwrites the id as needed.
func (t *AudioTarget) Duplicate() *AudioTarget {
	dup := *t
	dup.ID = uuid.NewString()
	dup.markers = slices.Clone(t.markers)
	dup.Blocks = slices.Clone(t.Blocks)
	dup.Variables = slices.Clone(t.Variables)
	dup.Lists = slices.Clone(t.Lists)
	return &dup
}

var _ steinavm.AudioPlayer = new(AudioTarget)
