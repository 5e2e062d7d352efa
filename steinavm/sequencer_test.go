package steinavm

import (
	"testing"
	"time"
)

func TestStepThreadsRunsChainToDone(t *testing.T) {
	runtime := NewRuntime(nil)
	target := &testTarget{
		id:    "t1",
		graph: chainGraph("a", "b", "c"),
	}
	runtime.AddTarget(target)

	var executed []string
	runtime.Execute = func(s *Sequencer, thread *Thread) {
		executed = append(executed, thread.PeekStack())
	}

	thread := NewThread("a", target)
	runtime.Threads = append(runtime.Threads, thread)

	sequencer := NewSequencer(runtime)
	doneThreads := sequencer.StepThreads()

	if len(doneThreads) != 1 || doneThreads[0] != thread {
		t.Fatalf("got %v", doneThreads)
	}
	if len(runtime.Threads) != 0 {
		t.Fatal("thread not removed")
	}
	if thread.Status != StatusDone {
		t.Fatalf("got %v", thread.Status)
	}
	if len(executed) != 3 ||
		executed[0] != "a" || executed[1] != "b" || executed[2] != "c" {
		t.Fatalf("got %v", executed)
	}
}

func TestStepThreadsRetainsLiveThreads(t *testing.T) {
	runtime := NewRuntime(nil)
	target := &testTarget{
		id:    "t1",
		graph: chainGraph("a", "b"),
	}
	runtime.AddTarget(target)

	calls := 0
	runtime.Execute = func(s *Sequencer, thread *Thread) {
		calls++
		thread.Status = StatusYieldTick
	}

	thread := NewThread("a", target)
	runtime.Threads = append(runtime.Threads, thread)

	sequencer := NewSequencer(runtime)

	doneThreads := sequencer.StepThreads()
	if len(doneThreads) != 0 {
		t.Fatalf("got %v", doneThreads)
	}
	if calls != 1 {
		t.Fatalf("got %d calls", calls)
	}
	if thread.Status != StatusYieldTick {
		t.Fatalf("got %v", thread.Status)
	}

	// the next tick clears the single-tick yield before stepping
	sequencer.StepThreads()
	if calls != 2 {
		t.Fatalf("got %d calls", calls)
	}

	// S1: every retained thread is live
	for _, retained := range runtime.Threads {
		if len(retained.Stack) == 0 || retained.Status == StatusDone {
			t.Fatal("retained dead thread")
		}
	}
}

func TestStepThreadsNullTargetRetires(t *testing.T) {
	runtime := NewRuntime(nil)
	target := &testTarget{
		id:    "gone",
		graph: chainGraph("a"),
	}
	// target is never registered with the runtime

	runtime.Execute = func(s *Sequencer, thread *Thread) {
		t.Fatal("should not execute")
	}

	thread := NewThread("a", target)
	runtime.Threads = append(runtime.Threads, thread)

	sequencer := NewSequencer(runtime)
	doneThreads := sequencer.StepThreads()

	if len(doneThreads) != 1 {
		t.Fatalf("got %v", doneThreads)
	}
	if thread.Status != StatusDone {
		t.Fatalf("got %v", thread.Status)
	}
	if len(thread.Stack) != 0 {
		t.Fatal("stack not cleared")
	}
}

func TestStepThreadsKilledMidStep(t *testing.T) {
	runtime := NewRuntime(nil)
	target := &testTarget{
		id:    "t1",
		graph: chainGraph("a", "b"),
	}
	runtime.AddTarget(target)

	thread1 := NewThread("a", target)
	thread2 := NewThread("a", target)
	runtime.Threads = append(runtime.Threads, thread1, thread2)

	stepped2 := 0
	runtime.Execute = func(s *Sequencer, thread *Thread) {
		if thread == thread1 {
			// kill self: remove from the thread list mid-step
			runtime.Threads = runtime.Threads[1:]
			thread.Stack = nil
			thread.Frames = nil
			thread.Status = StatusDone
			return
		}
		stepped2++
		thread.Status = StatusYieldTick
	}

	sequencer := NewSequencer(runtime)
	sequencer.StepThreads()

	// thread2 must not be skipped after the kill shifts indices
	if stepped2 != 1 {
		t.Fatalf("thread2 stepped %d times", stepped2)
	}
	if len(runtime.Threads) != 1 || runtime.Threads[0] != thread2 {
		t.Fatalf("got %v", runtime.Threads)
	}
}

func TestWarpModeBurst(t *testing.T) {
	runtime := NewRuntime(nil)
	target := &testTarget{
		id:    "t1",
		graph: chainGraph("a"),
	}
	runtime.AddTarget(target)

	calls := 0
	runtime.Execute = func(s *Sequencer, thread *Thread) {
		calls++
		thread.Status = StatusYield
	}

	thread := NewThread("a", target)
	thread.PeekStackFrame().WarpMode = true
	runtime.Threads = append(runtime.Threads, thread)

	// each clock read advances 10ms, so the 500ms warp budget bounds the
	// burst at around fifty re-executions within a single pass
	sequencer, _ := newTestSequencer(runtime, 10*time.Millisecond)
	sequencer.StepThreads()

	if calls < 5 {
		t.Fatalf("warp burst did not re-execute, %d calls", calls)
	}
	if calls > 100 {
		t.Fatalf("warp burst did not stop, %d calls", calls)
	}
	if thread.WarpTimer != nil {
		t.Fatal("warp timer not cleared")
	}
}

func TestNonWarpYieldStopsBurst(t *testing.T) {
	runtime := NewRuntime(nil)
	target := &testTarget{
		id:    "t1",
		graph: chainGraph("a"),
	}
	runtime.AddTarget(target)

	calls := 0
	runtime.Execute = func(s *Sequencer, thread *Thread) {
		calls++
		thread.Status = StatusYield
	}

	thread := NewThread("a", target)
	runtime.Threads = append(runtime.Threads, thread)

	sequencer, _ := newTestSequencer(runtime, 10*time.Millisecond)
	sequencer.StepThreads()

	// without warp mode, a yield ends the step; the advancing clock then
	// exhausts the work budget
	if calls != 1 {
		t.Fatalf("got %d calls", calls)
	}
	if len(runtime.Threads) != 1 {
		t.Fatal("thread should be retained")
	}
}

func TestWorkBudgetStopsTick(t *testing.T) {
	runtime := NewRuntime(nil)
	target := &testTarget{
		id:    "t1",
		graph: chainGraph("a"),
	}
	runtime.AddTarget(target)

	runtime.Execute = func(s *Sequencer, thread *Thread) {
		thread.Status = StatusYield
	}

	for range 4 {
		runtime.Threads = append(runtime.Threads, NewThread("a", target))
	}

	sequencer, _ := newTestSequencer(runtime, 10*time.Millisecond)
	sequencer.StepThreads()

	// the tick must terminate with all threads retained
	if len(runtime.Threads) != 4 {
		t.Fatalf("got %d threads", len(runtime.Threads))
	}
}

func TestRedrawStopsTickUnlessTurbo(t *testing.T) {
	runtime := NewRuntime(nil)
	target := &testTarget{
		id:    "t1",
		graph: chainGraph("a"),
	}
	runtime.AddTarget(target)

	calls := 0
	runtime.Execute = func(s *Sequencer, thread *Thread) {
		calls++
		runtime.RequestRedraw()
		thread.Status = StatusYield
	}

	runtime.Threads = append(runtime.Threads, NewThread("a", target))
	sequencer := NewSequencer(runtime)
	sequencer.StepThreads()
	if calls != 1 {
		t.Fatalf("got %d calls", calls)
	}

	// turbo mode ignores the redraw request; the work budget still ends
	// the tick
	runtime.RedrawRequested = false
	runtime.TurboMode = true
	calls = 0
	sequencer2, _ := newTestSequencer(runtime, 2*time.Millisecond)
	sequencer2.StepThreads()
	if calls < 2 {
		t.Fatalf("got %d calls", calls)
	}
}

func TestStepToBranch(t *testing.T) {
	runtime := NewRuntime(nil)
	graph := chainGraph("loop")
	graph.branches = map[string]string{
		"loop": "inner",
	}
	target := &testTarget{
		id:    "t1",
		graph: graph,
	}
	runtime.AddTarget(target)

	thread := NewThread("loop", target)
	sequencer := NewSequencer(runtime)

	sequencer.StepToBranch(thread, 1, true)
	if thread.PeekStack() != "inner" {
		t.Fatalf("got %q", thread.PeekStack())
	}
	if !thread.Frames[0].IsLoop {
		t.Fatal("loop frame not marked")
	}

	// an empty branch pushes the null sentinel
	thread2 := NewThread("other", target)
	sequencer.StepToBranch(thread2, 1, false)
	if thread2.PeekStack() != "" {
		t.Fatalf("got %q", thread2.PeekStack())
	}
	if len(thread2.Stack) != 2 {
		t.Fatalf("got %d", len(thread2.Stack))
	}
}

func TestStepToProcedure(t *testing.T) {
	runtime := NewRuntime(nil)
	graph := chainGraph("call")
	graph.defs = map[string]string{
		"proc":     "def",
		"warpproc": "warpdef",
	}
	graph.warp = map[string]bool{
		"warpproc": true,
	}
	target := &testTarget{
		id:    "t1",
		graph: graph,
	}
	runtime.AddTarget(target)
	sequencer := NewSequencer(runtime)

	thread := NewThread("call", target)
	sequencer.StepToProcedure(thread, "proc")
	if thread.PeekStack() != "def" {
		t.Fatalf("got %q", thread.PeekStack())
	}
	if thread.Status != StatusRunning {
		t.Fatalf("got %v", thread.Status)
	}

	// warp procedures set warp mode on the pushed frame
	thread2 := NewThread("call", target)
	sequencer.StepToProcedure(thread2, "warpproc")
	if !thread2.PeekStackFrame().WarpMode {
		t.Fatal("warp mode not set")
	}

	// a recursive call in non-warp mode yields
	thread3 := NewThread("call", target)
	sequencer.StepToProcedure(thread3, "proc")
	sequencer.StepToProcedure(thread3, "proc")
	if thread3.Status != StatusYield {
		t.Fatalf("got %v", thread3.Status)
	}

	// unknown procedures are ignored
	thread4 := NewThread("call", target)
	sequencer.StepToProcedure(thread4, "nope")
	if len(thread4.Stack) != 1 {
		t.Fatal("stack changed")
	}
}

func TestLoopFrameYields(t *testing.T) {
	runtime := NewRuntime(nil)
	graph := chainGraph("loop")
	graph.branches = map[string]string{
		"loop": "inner",
	}
	target := &testTarget{
		id:    "t1",
		graph: graph,
	}
	runtime.AddTarget(target)

	loopExecutions := 0
	runtime.Execute = func(s *Sequencer, thread *Thread) {
		switch thread.PeekStack() {
		case "loop":
			loopExecutions++
			s.StepToBranch(thread, 1, true)
		case "inner":
			// a visible command ends the tick after this iteration
			runtime.RequestRedraw()
		}
	}

	thread := NewThread("loop", target)
	runtime.Threads = append(runtime.Threads, thread)

	sequencer := NewSequencer(runtime)
	sequencer.StepThreads()

	// the loop body ran once, then popping the loop frame yielded
	if loopExecutions != 1 {
		t.Fatalf("got %d loop executions", loopExecutions)
	}
	if len(runtime.Threads) != 1 {
		t.Fatal("thread should be retained")
	}
	if thread.PeekStack() != "loop" {
		t.Fatalf("got %q", thread.PeekStack())
	}
}

func BenchmarkStepThreads(b *testing.B) {
	runtime := NewRuntime(nil)
	target := &testTarget{
		id:    "t1",
		graph: chainGraph("a", "b", "c", "d"),
	}
	runtime.AddTarget(target)
	runtime.Execute = func(s *Sequencer, thread *Thread) {}
	sequencer := NewSequencer(runtime)

	b.ResetTimer()
	for range b.N {
		runtime.Threads = append(runtime.Threads[:0], NewThread("a", target))
		sequencer.StepThreads()
	}
}
