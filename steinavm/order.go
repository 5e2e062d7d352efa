package steinavm

import "slices"

// Draw-order operations. The order sequence is shared by all video
// targets; index 0 is the back.

func (r *Runtime) orderIndex(id string) int {
	return slices.Index(r.VideoState.Order, id)
}

// MoveToLayer removes id from the draw order and reinserts it at index,
// clamped to the sequence bounds.
func (r *Runtime) MoveToLayer(id string, index int) {
	i := r.orderIndex(id)
	if i < 0 {
		r.Logger.Warn("target not in draw order", "id", id)
		return
	}
	order := slices.Delete(r.VideoState.Order, i, i+1)
	if index < 0 {
		index = 0
	}
	if index > len(order) {
		index = len(order)
	}
	r.VideoState.Order = slices.Insert(order, index, id)
	r.RequestRedraw()
}

func (r *Runtime) MoveToFront(id string) {
	r.MoveToLayer(id, len(r.VideoState.Order))
}

func (r *Runtime) MoveToBack(id string) {
	r.MoveToLayer(id, 0)
}

func (r *Runtime) MoveForwardLayers(id string, n int) {
	i := r.orderIndex(id)
	if i < 0 {
		r.Logger.Warn("target not in draw order", "id", id)
		return
	}
	r.MoveToLayer(id, i+n)
}

func (r *Runtime) MoveBackwardLayers(id string, n int) {
	r.MoveForwardLayers(id, -n)
}
