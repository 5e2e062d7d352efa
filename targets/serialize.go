package targets

import "encoding/json"

// Saved forms carry exactly the persisted fields.

type SavedVideoTarget struct {
	ID           string          `json:"id"`
	X            float64         `json:"x"`
	Y            float64         `json:"y"`
	Size         float64         `json:"size"`
	Direction    float64         `json:"direction"`
	Visible      bool            `json:"visible"`
	Effects      Effects         `json:"effects"`
	Blocks       json.RawMessage `json:"blocks,omitempty"`
	Variables    json.RawMessage `json:"variables,omitempty"`
	Lists        json.RawMessage `json:"lists,omitempty"`
	FPS          float64         `json:"fps"`
	Frames       int             `json:"frames"`
	CurrentFrame float64         `json:"currentFrame"`
	PlaybackRate float64         `json:"playbackRate"`
}

type SavedAudioTarget struct {
	ID           string          `json:"id"`
	Volume       float64         `json:"volume"`
	TotalSamples int             `json:"totalSamples"`
	SampleRate   float64         `json:"sampleRate"`
	Blocks       json.RawMessage `json:"blocks,omitempty"`
	Variables    json.RawMessage `json:"variables,omitempty"`
	Lists        json.RawMessage `json:"lists,omitempty"`
	Markers      []int           `json:"markers"`
	TrimStart    float64         `json:"trimStart"`
	TrimEnd      float64         `json:"trimEnd"`
	PlaybackRate float64         `json:"playbackRate"`
}

func (t *VideoTarget) Save() SavedVideoTarget {
	return SavedVideoTarget{
		ID:           t.ID,
		X:            t.X,
		Y:            t.Y,
		Size:         t.Size,
		Direction:    t.Direction,
		Visible:      t.Visible,
		Effects:      t.effects,
		Blocks:       t.Blocks,
		Variables:    t.Variables,
		Lists:        t.Lists,
		FPS:          t.fps,
		Frames:       t.frames,
		CurrentFrame: t.currentFrame,
		PlaybackRate: t.playbackRate,
	}
}

func LoadVideoTarget(saved SavedVideoTarget) *VideoTarget {
	t := NewVideoTarget(saved.ID, saved.FPS, saved.Frames)
	t.X = saved.X
	t.Y = saved.Y
	t.SetSize(saved.Size)
	t.SetDirection(saved.Direction)
	t.Visible = saved.Visible
	t.effects = saved.Effects
	t.Blocks = saved.Blocks
	t.Variables = saved.Variables
	t.Lists = saved.Lists
	t.SetCurrentFrame(saved.CurrentFrame)
	t.SetPlaybackRate(saved.PlaybackRate)
	return t
}

func (t *AudioTarget) Save() SavedAudioTarget {
	return SavedAudioTarget{
		ID:           t.ID,
		Volume:       t.volume,
		TotalSamples: t.totalSamples,
		SampleRate:   t.sampleRate,
		Blocks:       t.Blocks,
		Variables:    t.Variables,
		Lists:        t.Lists,
		Markers:      t.markers,
		TrimStart:    t.trimStart,
		TrimEnd:      t.trimEnd,
		PlaybackRate: t.playbackRate,
	}
}

func LoadAudioTarget(saved SavedAudioTarget) *AudioTarget {
	t := NewAudioTarget(saved.ID, saved.TotalSamples, saved.SampleRate)
	t.SetVolume(saved.Volume)
	t.Blocks = saved.Blocks
	t.Variables = saved.Variables
	t.Lists = saved.Lists
	t.markers = saved.Markers
	t.SetTrim(saved.TrimStart, saved.TrimEnd)
	t.SetPlaybackRate(saved.PlaybackRate)
	return t
}
