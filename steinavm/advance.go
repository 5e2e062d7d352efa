package steinavm

// Play-queue advancement. Runs once per tick after thread stepping, so
// every primitive this tick observed a stable view of the queues.

func (s *Sequencer) advancePlayQueues() {
	if s.runtime.Profiler != nil {
		s.runtime.Profiler.Start("Sequencer.advancePlayQueues")
		defer s.runtime.Profiler.Stop("Sequencer.advancePlayQueues")
	}
	s.advanceVideoPlays()
	s.advanceAudioPlays()
}

func (s *Sequencer) advanceVideoPlays() {
	runtime := s.runtime
	stepSeconds := runtime.CurrentStepTime / 1000

	var done []string
	for targetID, play := range runtime.VideoState.Playing {
		target, ok := runtime.TargetByID(targetID).(VideoPlayer)
		if !ok {
			done = append(done, targetID)
			continue
		}

		delta := stepSeconds * (target.PlaybackRate() / 100) * target.FPS()
		next := target.CurrentFrame() + delta

		switch {
		case next <= play.Start && (play.Start > play.End || delta < 0):
			target.SetCurrentFrame(play.Start)
			done = append(done, targetID)
		case next >= play.End && (play.End > play.Start || delta > 0):
			target.SetCurrentFrame(play.End)
			done = append(done, targetID)
		default:
			target.SetCurrentFrame(next)
		}
	}
	for _, targetID := range done {
		delete(runtime.VideoState.Playing, targetID)
	}
}

func (s *Sequencer) advanceAudioPlays() {
	runtime := s.runtime
	stepSeconds := runtime.CurrentStepTime / 1000

	var done []string
	for playID, play := range runtime.AudioState.Playing {
		if play.Playhead == play.End {
			done = append(done, playID)
			continue
		}
		deltaSamples := stepSeconds * play.SampleRate * (play.PlaybackRate / 100)
		next := min(play.Playhead+deltaSamples, play.End)
		play.PrevPlayhead = play.Playhead
		play.Playhead = next
	}
	for _, playID := range done {
		play := runtime.AudioState.Playing[playID]
		delete(runtime.AudioState.Playing, playID)
		if !play.Blocking {
			if target, ok := runtime.TargetByID(play.TargetID).(AudioPlayer); ok {
				target.ReleaseNonblockingSlot()
			}
		}
	}
}
