package main

import "time"

// Sleep alone overshoots by scheduler quanta at high caps; the limiter
// spins the last stretch of each frame for precision.
const spinMargin = 200 * time.Microsecond

// frameLimiter paces the loop to a frame-rate cap. It schedules frames
// against an absolute next-frame time rather than per-frame sleeps, so
// jitter does not accumulate.
type frameLimiter struct {
	next time.Time
}

// Wait blocks until the next frame is due. A limit of zero or less
// disarms the limiter and resets its schedule.
func (f *frameLimiter) Wait(limit int) {
	if limit <= 0 {
		f.next = time.Time{}
		return
	}

	target := time.Second / time.Duration(limit)
	if f.next.IsZero() {
		f.next = time.Now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := time.Until(f.next)
		if remaining <= 0 {
			break
		}
		if remaining > spinMargin {
			time.Sleep(remaining - spinMargin)
		}
	}

	// After a hitch, resync instead of rushing frames to catch up.
	if late := -time.Until(f.next); late > target {
		f.next = time.Now().Add(target)
	}
}
