package steinavm

import (
	"math"
	"time"
)

const (
	// WorkTimeFraction of the step period may be spent stepping threads
	// in one tick.
	WorkTimeFraction = 0.33
	// WarpTimeMS bounds a single warp-mode burst.
	WarpTimeMS = 500.0
)

// Sequencer steps the runtime's threads cooperatively and advances the
// media play queues once per tick.
type Sequencer struct {
	runtime      *Runtime
	timer        *Timer
	activeThread *Thread
	clock        func() time.Time
}

func NewSequencer(runtime *Runtime) *Sequencer {
	s := &Sequencer{
		runtime: runtime,
		clock:   time.Now,
	}
	s.timer = NewTimerWithClock(func() time.Time {
		return s.clock()
	})
	return s
}

func (s *Sequencer) Runtime() *Runtime {
	return s.runtime
}

// StepThreads runs one tick: it steps threads until all yield or the
// work budget is exhausted, compacts finished threads, then advances
// the play queues. It returns the threads that finished this tick.
func (s *Sequencer) StepThreads() []*Thread {
	runtime := s.runtime
	workTime := WorkTimeFraction * runtime.CurrentStepTime
	s.timer.Start()

	if runtime.Profiler != nil {
		runtime.Profiler.Start("Sequencer.stepThreads")
		defer runtime.Profiler.Stop("Sequencer.stepThreads")
	}

	var doneThreads []*Thread
	done := make(map[*Thread]bool)
	ranFirstTick := false
	numActiveThreads := math.MaxInt32

	for len(runtime.Threads) > 0 &&
		numActiveThreads > 0 &&
		s.timer.ElapsedMS() < workTime &&
		(runtime.TurboMode || !runtime.RedrawRequested) {

		numActiveThreads = 0

		for i := 0; i < len(runtime.Threads); i++ {
			activeThread := runtime.Threads[i]
			s.activeThread = activeThread

			if len(activeThread.Stack) == 0 ||
				activeThread.Status == StatusDone {
				done[activeThread] = true
				continue
			}

			if activeThread.Status == StatusYieldTick && !ranFirstTick {
				// clear single-tick yields carried over from the
				// previous tick
				activeThread.Status = StatusRunning
			}

			if activeThread.Status == StatusRunning ||
				activeThread.Status == StatusYield {
				s.stepThread(activeThread)
				activeThread.WarpTimer = nil
				if i >= len(runtime.Threads) || runtime.Threads[i] != activeThread {
					// the thread was killed mid-step and indices
					// shifted; don't skip the next one
					i--
				}
			}

			if activeThread.Status == StatusRunning {
				numActiveThreads++
			}
		}

		ranFirstTick = true
	}

	s.activeThread = nil

	// finalization: keep only threads that are still live
	kept := runtime.Threads[:0]
	for _, thread := range runtime.Threads {
		if done[thread] ||
			len(thread.Stack) == 0 ||
			thread.Status == StatusDone {
			doneThreads = append(doneThreads, thread)
			continue
		}
		kept = append(kept, thread)
	}
	runtime.Threads = kept

	s.advancePlayQueues()

	return doneThreads
}

// stepThread runs blocks on the thread until it yields, waits, or runs
// out of stack.
func (s *Sequencer) stepThread(thread *Thread) {
	if thread.PeekStack() == "" {
		// null top block: pop the sentinel frame
		thread.PopStack()
		if len(thread.Stack) == 0 {
			thread.Status = StatusDone
			return
		}
	}

	for currentBlockID := thread.PeekStack(); currentBlockID != ""; currentBlockID = thread.PeekStack() {

		var isWarpMode bool
		if frame := thread.PeekStackFrame(); frame != nil {
			isWarpMode = frame.WarpMode
		}
		if isWarpMode && thread.WarpTimer == nil {
			thread.WarpTimer = NewTimerWithClock(s.clock)
		}

		if s.runtime.TargetByID(thread.TargetID) == nil {
			s.retireThread(thread)
			return
		}

		if s.runtime.Execute != nil {
			s.runtime.Execute(s, thread)
		}

		switch thread.Status {
		case StatusYield:
			thread.Status = StatusRunning
			if isWarpMode && thread.WarpTimer.ElapsedMS() <= WarpTimeMS {
				continue
			}
			return
		case StatusPromiseWait:
			// an external resolution resets to running
			return
		case StatusYieldTick:
			return
		}

		if thread.PeekStack() == currentBlockID {
			thread.GoToNextBlock()
		}

		for thread.PeekStack() == "" {
			thread.PopStack()
			if len(thread.Stack) == 0 {
				thread.Status = StatusDone
				return
			}
			frame := thread.PeekStackFrame()
			if frame.IsLoop {
				if !isWarpMode ||
					thread.WarpTimer == nil ||
					thread.WarpTimer.ElapsedMS() > WarpTimeMS {
					return
				}
			} else if frame.WaitingReporter {
				return
			}
		}
	}
}

func (s *Sequencer) retireThread(thread *Thread) {
	s.runtime.Logger.Debug("retire thread",
		"topBlock", thread.TopBlock,
		"target", thread.TargetID,
	)
	thread.Stack = nil
	thread.Frames = nil
	thread.Status = StatusDone
}

// StepToBranch pushes the first block of the numbered branch of the
// current block, marking the current frame as a loop frame when isLoop.
// An empty branch pushes the null sentinel so the frame still pops.
func (s *Sequencer) StepToBranch(thread *Thread, branchNum int, isLoop bool) {
	if branchNum < 1 {
		branchNum = 1
	}
	currentBlockID := thread.PeekStack()
	if frame := thread.PeekStackFrame(); frame != nil {
		frame.IsLoop = isLoop
	}
	branchID := ""
	if g := thread.Graph(); g != nil {
		branchID = g.Branch(currentBlockID, branchNum)
	}
	thread.PushStack(branchID)
}

// StepToProcedure pushes a procedure definition. Warp procedures set
// warp mode on the new frame; recursive calls in non-warp mode yield.
func (s *Sequencer) StepToProcedure(thread *Thread, code string) {
	g := thread.Graph()
	if g == nil {
		return
	}
	definition := g.ProcedureDefinition(code)
	if definition == "" {
		return
	}
	isRecursive := thread.isOnStack(definition)
	thread.PushStack(definition)
	frame := thread.PeekStackFrame()
	if frame.WarpMode &&
		thread.WarpTimer != nil &&
		thread.WarpTimer.ElapsedMS() > WarpTimeMS {
		thread.Status = StatusYield
		return
	}
	if g.ProcedureIsWarp(code) {
		frame.WarpMode = true
	} else if isRecursive {
		thread.Status = StatusYield
	}
}
