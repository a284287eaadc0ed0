package control

import "sync"

// Scripted replays a fixed plan of actions keyed by poll number, starting
// at 0. It drives headless runs and tests.
type Scripted struct {
	mu    sync.Mutex
	plan  map[int][]Action
	polls int
	queue []Action
}

func NewScripted(plan map[int][]Action) *Scripted {
	if plan == nil {
		plan = make(map[int][]Action)
	}
	return &Scripted{plan: plan}
}

// Push queues actions for the next poll, like key presses arriving.
func (s *Scripted) Push(actions ...Action) {
	s.mu.Lock()
	s.queue = append(s.queue, actions...)
	s.mu.Unlock()
}

func (s *Scripted) Poll() []Action {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := append([]Action(nil), s.plan[s.polls]...)
	out = append(out, s.queue...)
	s.queue = s.queue[:0]
	s.polls++
	return out
}

// Polls reports how many times Poll was called.
func (s *Scripted) Polls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.polls
}

// Merge polls several sources in order as one.
type Merge []Source

func (m Merge) Poll() []Action {
	var out []Action
	for _, src := range m {
		out = append(out, src.Poll()...)
	}
	return out
}
