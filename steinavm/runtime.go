package steinavm

import (
	"iter"
	"log/slog"
	"slices"

	"github.com/reusee/steina/logs"
)

// ProjectStopAll cancels every active play and resets the non-blocking
// sound slots of every audio target.
const ProjectStopAll = "PROJECT_STOP_ALL"

// Motion is the latest device-motion sample, in degrees.
type Motion struct {
	Pitch   float64 `json:"pitch"`
	Roll    float64 `json:"roll"`
	Heading float64 `json:"heading"`
}

// ExecuteFunc runs one block on the given thread, mutating its stack
// and status. Block interpretation belongs to the host.
type ExecuteFunc func(*Sequencer, *Thread)

// Runtime owns all state shared by threads and primitives. It is
// single-owner: only the tick loop and the primitives running within it
// mutate the play queues, the draw order, and the slot counters. Other
// goroutines hand mutations to Post.
type Runtime struct {
	// CurrentStepTime is the nominal tick period in milliseconds.
	CurrentStepTime float64
	TurboMode       bool
	RedrawRequested bool

	Threads []*Thread

	VideoState *VideoState
	AudioState *AudioState

	Motion Motion

	Execute ExecuteFunc

	Logger   logs.Logger
	Profiler *Profiler

	targets  map[string]Target
	handlers map[string][]func()
	posted   chan func()
}

func NewRuntime(logger logs.Logger) *Runtime {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Runtime{
		CurrentStepTime: 1000.0 / 30,
		VideoState:      NewVideoState(),
		AudioState:      NewAudioState(),
		Logger:          logger,
		targets:         make(map[string]Target),
		handlers:        make(map[string][]func()),
		posted:          make(chan func(), 256),
	}
	r.On(ProjectStopAll, r.stopAll)
	return r
}

func (r *Runtime) AddTarget(target Target) {
	id := target.TargetID()
	r.targets[id] = target
	if _, ok := target.(VideoPlayer); ok {
		if !slices.Contains(r.VideoState.Order, id) {
			r.VideoState.Order = append(r.VideoState.Order, id)
		}
	}
	if h, ok := target.(redrawHooker); ok {
		h.SetRedrawHook(r.RequestRedraw)
	}
}

func (r *Runtime) RemoveTarget(id string) {
	delete(r.targets, id)
	if i := slices.Index(r.VideoState.Order, id); i >= 0 {
		r.VideoState.Order = slices.Delete(r.VideoState.Order, i, i+1)
	}
	delete(r.VideoState.Playing, id)
}

func (r *Runtime) TargetByID(id string) Target {
	return r.targets[id]
}

func (r *Runtime) Targets() iter.Seq[Target] {
	return func(yield func(Target) bool) {
		for _, target := range r.targets {
			if !yield(target) {
				return
			}
		}
	}
}

func (r *Runtime) RequestRedraw() {
	r.RedrawRequested = true
}

func (r *Runtime) On(name string, fn func()) {
	r.handlers[name] = append(r.handlers[name], fn)
}

func (r *Runtime) Emit(name string) {
	for _, fn := range r.handlers[name] {
		fn()
	}
}

// Post hands fn to the tick loop; it runs on the stepper goroutine
// before the next tick. A full inbox drops the command.
func (r *Runtime) Post(fn func()) {
	select {
	case r.posted <- fn:
	default:
		r.Logger.Warn("runtime inbox full, command dropped")
	}
}

func (r *Runtime) DrainPosted() {
	for {
		select {
		case fn := <-r.posted:
			fn()
		default:
			return
		}
	}
}

func (r *Runtime) stopAll() {
	clear(r.VideoState.Playing)
	clear(r.AudioState.Playing)
	for _, target := range r.targets {
		if a, ok := target.(AudioPlayer); ok {
			a.ResetNonblockingSlots()
		}
	}
	r.Logger.Debug("stop all")
}

// Snapshot is a plain-data view of the runtime for debug taps and the
// control surface.
func (r *Runtime) Snapshot() map[string]any {
	videoPlays := make(map[string]any, len(r.VideoState.Playing))
	for targetID, play := range r.VideoState.Playing {
		videoPlays[targetID] = *play
	}
	audioPlays := make(map[string]any, len(r.AudioState.Playing))
	for playID, play := range r.AudioState.Playing {
		audioPlays[playID] = *play
	}
	threads := make([]any, 0, len(r.Threads))
	for _, thread := range r.Threads {
		threads = append(threads, map[string]any{
			"topBlock": thread.TopBlock,
			"target":   thread.TargetID,
			"status":   thread.Status.String(),
			"depth":    len(thread.Stack),
		})
	}
	return map[string]any{
		"stepTime":   r.CurrentStepTime,
		"turbo":      r.TurboMode,
		"threads":    threads,
		"videoPlays": videoPlays,
		"audioPlays": audioPlays,
		"order":      slices.Clone(r.VideoState.Order),
		"motion":     r.Motion,
	}
}
