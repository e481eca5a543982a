package playback

// FrameID identifies one requested frame callback.
type FrameID uint64

// Scheduler is the display-refresh primitive: run fn on the next frame, or
// forget about it.
type Scheduler interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}

// FrameQueue is a Scheduler drained explicitly by the host loop. Callbacks
// requested while a Flush is running wait for the following Flush.
type FrameQueue struct {
	seq   FrameID
	order []FrameID
	fns   map[FrameID]func()
}

func NewFrameQueue() *FrameQueue {
	return &FrameQueue{fns: make(map[FrameID]func())}
}

func (q *FrameQueue) RequestFrame(fn func()) FrameID {
	q.seq++
	q.order = append(q.order, q.seq)
	q.fns[q.seq] = fn
	return q.seq
}

func (q *FrameQueue) CancelFrame(id FrameID) {
	delete(q.fns, id)
}

// Pending reports how many callbacks will run on the next Flush.
func (q *FrameQueue) Pending() int {
	return len(q.fns)
}

// Flush runs every callback requested before the call and returns how many
// ran.
func (q *FrameQueue) Flush() int {
	ids := q.order
	q.order = nil
	ran := 0
	for _, id := range ids {
		fn, ok := q.fns[id]
		if !ok {
			continue
		}
		delete(q.fns, id)
		fn()
		ran++
	}
	return ran
}
