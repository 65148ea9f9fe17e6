package generator

import (
	"errors"
	"sync/atomic"
)

// ErrBusy is returned when a generation run is already in progress.
var ErrBusy = errors.New("generation already in progress")

// Runner serialises generation runs. Front ends may fire Run from input
// handlers; only one run may touch the output directory at a time.
type Runner struct {
	busy atomic.Bool
	run  func() error
}

// NewRunner wraps a Generator.
func NewRunner(g *Generator) *Runner {
	return &Runner{run: g.Run}
}

// Run executes one generation, or returns ErrBusy if one is in flight.
func (r *Runner) Run() error {
	if !r.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer r.busy.Store(false)
	return r.run()
}
