package steinavm

import (
	"time"
)

type testGraph struct {
	next     map[string]string
	branches map[string]string
	defs     map[string]string
	warp     map[string]bool
}

func (g *testGraph) NextBlock(id string) string {
	return g.next[id]
}

func (g *testGraph) Branch(id string, num int) string {
	return g.branches[id]
}

func (g *testGraph) ProcedureDefinition(code string) string {
	return g.defs[code]
}

func (g *testGraph) ProcedureIsWarp(code string) bool {
	return g.warp[code]
}

func chainGraph(ids ...string) *testGraph {
	g := &testGraph{
		next: make(map[string]string),
	}
	for i := 0; i+1 < len(ids); i++ {
		g.next[ids[i]] = ids[i+1]
	}
	return g
}

type testTarget struct {
	id    string
	graph BlockGraph
}

func (t *testTarget) TargetID() string {
	return t.id
}

func (t *testTarget) Graph() BlockGraph {
	return t.graph
}

type testVideoTarget struct {
	testTarget
	frame  float64
	rate   float64
	fps    float64
	frames float64
}

func (t *testVideoTarget) CurrentFrame() float64 {
	return t.frame
}

func (t *testVideoTarget) SetCurrentFrame(frame float64) {
	if frame < 0 {
		frame = 0
	}
	if frame > t.frames-1 {
		frame = t.frames - 1
	}
	t.frame = frame
}

func (t *testVideoTarget) PlaybackRate() float64 {
	return t.rate
}

func (t *testVideoTarget) FPS() float64 {
	return t.fps
}

type testAudioTarget struct {
	testTarget
	sampleRate float64
	slots      int
}

func (t *testAudioTarget) SampleRate() float64 {
	return t.sampleRate
}

func (t *testAudioTarget) ReleaseNonblockingSlot() {
	t.slots++
}

func (t *testAudioTarget) ResetNonblockingSlots() {
	t.slots = 25
}

// fakeClock advances on every read so budget loops always terminate.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func newTestSequencer(runtime *Runtime, stepPerCall time.Duration) (*Sequencer, *fakeClock) {
	s := NewSequencer(runtime)
	clock := &fakeClock{
		t:    time.Unix(0, 0),
		step: stepPerCall,
	}
	s.clock = clock.now
	return s, clock
}
