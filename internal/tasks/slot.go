package tasks

import "context"

// Slot tracks the most recent request of one kind.
//
// Begin cancels whatever the slot held before and hands out a new generation.
// Only outcomes carrying the current generation may touch state.
type Slot struct {
	gen    uint64
	cancel context.CancelFunc
}

// Begin cancels the previous request and returns a context and generation for a new one.
func (s *Slot) Begin(parent context.Context) (context.Context, uint64) {
	s.Cancel()
	s.gen++

	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	return ctx, s.gen
}

// Cancel aborts the in-flight request, if any. Its outcome will still be checked by generation.
func (s *Slot) Cancel() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Invalidate cancels the in-flight request and retires its generation.
func (s *Slot) Invalidate() {
	s.Cancel()
	s.gen++
}

// Current reports whether gen is the latest generation.
func (s *Slot) Current(gen uint64) bool {
	return gen == s.gen
}

// Finish releases the context of gen once its outcome is applied and retires the generation,
// so the same outcome cannot apply twice.
func (s *Slot) Finish(gen uint64) {
	if s.Current(gen) {
		s.Invalidate()
	}
}

// Pending reports whether a request is in flight.
func (s *Slot) Pending() bool {
	return s.cancel != nil
}
