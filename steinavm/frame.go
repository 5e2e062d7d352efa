package steinavm

// Frame is one stack frame of a thread. The Playing fields are scratch
// slots owned by whichever media primitive is executing at this frame;
// they survive across the primitive's repeated entries while its block
// stays on top of the stack.
type Frame struct {
	WarpMode        bool
	IsLoop          bool
	WaitingReporter bool

	PlayingID   string
	Playing     bool
	TargetFrame float64
}

// reuse prepares the frame for the next block at the same stack depth.
// WarpMode is inherited, primitive scratch is cleared.
func (f *Frame) reuse() {
	f.IsLoop = false
	f.WaitingReporter = false
	f.PlayingID = ""
	f.Playing = false
	f.TargetFrame = 0
}
