package blocks

import (
	"github.com/reusee/steina/steinavm"
)

// Args carries a block's evaluated inputs, keyed by placeholder name.
type Args map[string]any

// Util is the per-invocation view a primitive gets of its surroundings.
type Util struct {
	Runtime *steinavm.Runtime
	Thread  *steinavm.Thread
	Target  steinavm.Target
}

func (u *Util) StackFrame() *steinavm.Frame {
	return u.Thread.PeekStackFrame()
}

// Primitive is one script-visible operation. Reporters return their
// value; commands return nil.
type Primitive func(args Args, util *Util) any

// Extension is a named set of primitives with editor metadata.
type Extension interface {
	Info() ExtensionInfo
	Primitives() map[string]Primitive
}
