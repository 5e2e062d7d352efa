package steinavm

// Target is a script-owning entity registered with the runtime.
type Target interface {
	TargetID() string
	Graph() BlockGraph
}

// VideoPlayer is the view of a video target that play-queue advancement
// uses.
type VideoPlayer interface {
	Target
	CurrentFrame() float64
	SetCurrentFrame(frame float64)
	PlaybackRate() float64
	FPS() float64
}

// AudioPlayer is the view of an audio target that play-queue advancement
// uses.
type AudioPlayer interface {
	Target
	SampleRate() float64
	ReleaseNonblockingSlot()
	ResetNonblockingSlots()
}

type redrawHooker interface {
	SetRedrawHook(func())
}
