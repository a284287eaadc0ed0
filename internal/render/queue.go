package render

import (
	"sync"

	"github.com/san-kum/fireworks/internal/grid"
)

// Frame is one completed grid handed from the simulation to the presenter.
// The grid must not be touched by the sender once pushed.
type Frame struct {
	Grid *grid.Grid
	// Force requests a full redraw, e.g. after a terminal resize.
	Force bool
}

// Queue is an unbounded FIFO of frames between one producer and one
// consumer. Push only waits for the internal pump, never for the consumer.
type Queue struct {
	in   chan Frame
	out  chan Frame
	once sync.Once
}

func NewQueue() *Queue {
	q := &Queue{
		in:  make(chan Frame),
		out: make(chan Frame),
	}
	go q.pump()
	return q
}

func (q *Queue) pump() {
	var pending []Frame
	in := q.in
	for in != nil || len(pending) > 0 {
		var out chan Frame
		var next Frame
		if len(pending) > 0 {
			out = q.out
			next = pending[0]
		}
		select {
		case f, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			pending = append(pending, f)
		case out <- next:
			pending[0] = Frame{}
			pending = pending[1:]
		}
	}
	close(q.out)
}

// Push enqueues f. It must not be called after Close.
func (q *Queue) Push(f Frame) { q.in <- f }

// Close ends input. Out is closed once every pushed frame was received.
func (q *Queue) Close() { q.once.Do(func() { close(q.in) }) }

func (q *Queue) Out() <-chan Frame { return q.out }
