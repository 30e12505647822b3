// Package timebudget paces repeated work so that each frame spends no more
// than a soft budget on it.
//
// A Limiter keeps an exponentially weighted moving average of how long one
// unit of the work takes. Before starting another unit it asks whether the
// predicted cost still fits before the frame's deadline; if not, the rest of
// the work waits for the next frame. The limit is soft: a unit that turns
// out slower than predicted is never interrupted, so a frame can overrun by
// at most one unit.
//
// One Limiter tracks one stream of homogeneous work. Feeding it tasks with
// wildly different costs makes the estimate meaningless.
//
// Typical use:
//
//	frame := limiter.BeginFrame(3 * time.Millisecond)
//	for frame.HaveTime() && len(pending) > 0 {
//		stop := frame.TimeTask()
//		doOne(&pending)
//		stop()
//	}
package timebudget

import (
	"fmt"
	"time"
)

// Defaults for New. Smoothing is the weight of the newest measurement;
// decay shrinks the estimate each frame so one pathological measurement
// cannot starve the work forever.
const (
	DefaultSmoothing = 0.1
	DefaultDecay     = 0.99
)

// Limiter predicts the cost of one work unit from past measurements.
type Limiter struct {
	estimate  float64 // seconds
	smoothing float64
	decay     float64
	now       func() time.Time // test hook; nil means time.Now
}

// New returns a Limiter with the default smoothing and decay rates.
func New() *Limiter {
	return WithRates(DefaultSmoothing, DefaultDecay)
}

// WithRates returns a Limiter with explicit rates. Both rates must lie
// strictly between 0 and 1.
func WithRates(smoothing, decay float64) *Limiter {
	if smoothing <= 0 || smoothing >= 1 {
		panic(fmt.Sprintf("timebudget: smoothing rate %v outside (0, 1)", smoothing))
	}
	if decay <= 0 || decay >= 1 {
		panic(fmt.Sprintf("timebudget: decay rate %v outside (0, 1)", decay))
	}
	return &Limiter{smoothing: smoothing, decay: decay}
}

// Estimate returns the current prediction for one work unit.
func (l *Limiter) Estimate() time.Duration {
	return time.Duration(l.estimate * float64(time.Second))
}

func (l *Limiter) clock() time.Time {
	if l.now != nil {
		return l.now()
	}
	return time.Now()
}

// BeginFrame opens a frame whose deadline is budget from now. The estimate
// decays first, so after a string of frames with no work the limiter becomes
// willing to try a unit again even if the last one measured was huge.
func (l *Limiter) BeginFrame(budget time.Duration) *Frame {
	l.estimate *= l.decay
	return &Frame{limiter: l, deadline: l.clock().Add(budget)}
}

// RepeatWithBudget opens a frame and runs task units until the predicted
// cost of one more unit no longer fits, or task reports that no work
// remains. Each unit's duration is measured even if task panics.
func (l *Limiter) RepeatWithBudget(budget time.Duration, task func() bool) {
	frame := l.BeginFrame(budget)
	for frame.HaveTime() {
		if !frame.run(task) {
			return
		}
	}
}

// Frame is one budgeting window. Frames are not retained across ticks;
// create a fresh one per frame via BeginFrame.
type Frame struct {
	limiter  *Limiter
	deadline time.Time
}

// HaveTime reports whether one more work unit is predicted to finish before
// the deadline. A zero estimate (nothing measured yet) always fits.
func (f *Frame) HaveTime() bool {
	l := f.limiter
	return l.clock().Add(l.Estimate()).Before(f.deadline)
}

// TimeTask starts measuring one work unit. The returned stop function folds
// the elapsed time into the estimate; call it exactly once, normally with
// defer so early returns are measured too.
func (f *Frame) TimeTask() func() {
	l := f.limiter
	start := l.clock()
	return func() {
		measured := l.clock().Sub(start).Seconds()
		l.estimate = l.estimate*(1-l.smoothing) + measured*l.smoothing
	}
}

func (f *Frame) run(task func() bool) bool {
	defer f.TimeTask()()
	return task()
}
