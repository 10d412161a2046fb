package control

import (
	"go.uber.org/atomic"
)

// StopSignal is set at most once per run and never cleared.
type StopSignal struct {
	set    *atomic.Bool
	reason *atomic.String
	done   chan struct{}
}

func NewStopSignal() *StopSignal {
	return &StopSignal{
		set:    atomic.NewBool(false),
		reason: atomic.NewString(""),
		done:   make(chan struct{}),
	}
}

// Set raises the signal. It reports whether this call was the one that raised it;
// later calls keep the first reason.
func (s *StopSignal) Set(reason string) bool {
	if s.set.Swap(true) {
		return false
	}
	s.reason.Store(reason)
	close(s.done)
	return true
}

func (s *StopSignal) IsSet() bool {
	return s.set.Load()
}

// Done is closed once the signal is set.
func (s *StopSignal) Done() <-chan struct{} {
	return s.done
}

func (s *StopSignal) Reason() string {
	return s.reason.Load()
}
