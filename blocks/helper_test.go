package blocks

import (
	"github.com/reusee/steina/steinavm"
	"github.com/reusee/steina/targets"
)

type testGraph struct {
	next map[string]string
}

func (g *testGraph) NextBlock(id string) string {
	return g.next[id]
}

func (g *testGraph) Branch(id string, num int) string {
	return ""
}

func (g *testGraph) ProcedureDefinition(code string) string {
	return ""
}

func (g *testGraph) ProcedureIsWarp(code string) bool {
	return false
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

// dispatcher runs block ids as primitives, the way the host's executor
// would.
type dispatcher struct {
	runtime    *steinavm.Runtime
	primitives map[string]Primitive
	args       map[string]Args
}

func (d *dispatcher) execute(s *steinavm.Sequencer, thread *steinavm.Thread) {
	op := thread.PeekStack()
	primitive, ok := d.primitives[op]
	if !ok {
		return
	}
	primitive(d.args[op], &Util{
		Runtime: d.runtime,
		Thread:  thread,
		Target:  d.runtime.TargetByID(thread.TargetID),
	})
}

func newVideoFixture(frames int) (*steinavm.Runtime, *steinavm.Sequencer, *targets.VideoTarget) {
	runtime := steinavm.NewRuntime(nil)
	runtime.CurrentStepTime = 1000.0 / 30
	target := targets.NewVideoTarget("v1", 30, frames)
	runtime.AddTarget(target)
	return runtime, steinavm.NewSequencer(runtime), target
}

func newAudioFixture(totalSamples int) (*steinavm.Runtime, *steinavm.Sequencer, *targets.AudioTarget) {
	runtime := steinavm.NewRuntime(nil)
	runtime.CurrentStepTime = 1000.0 / 30
	target := targets.NewAudioTarget("a1", totalSamples, 48000)
	runtime.AddTarget(target)
	return runtime, steinavm.NewSequencer(runtime), target
}

func targetWithID(id string) *targets.VideoTarget {
	return targets.NewVideoTarget(id, 30, 10)
}

func targetsAudio(runtime *steinavm.Runtime) *targets.AudioTarget {
	target := targets.NewAudioTarget("aX", 1000, 48000)
	runtime.AddTarget(target)
	return target
}

func utilFor(runtime *steinavm.Runtime, target steinavm.Target, blockID string) *Util {
	thread := steinavm.NewThread(blockID, target)
	return &Util{
		Runtime: runtime,
		Thread:  thread,
		Target:  target,
	}
}
