package game

import "time"

// laneScheduler runs timer callbacks on a single lane. post hands a callback to
// the lane and returns false once the lane is gone.
type laneScheduler struct {
	post func(fn func()) bool
}

func newLaneScheduler(post func(fn func()) bool) *laneScheduler {
	return &laneScheduler{post: post}
}

// laneTimer fields are only touched from the lane, except t which the Go
// runtime fires on its own goroutine; the fired callback never reads it.
type laneTimer struct {
	t       *time.Timer
	stopped bool
}

func (lt *laneTimer) Stop() {
	lt.stopped = true
	if lt.t != nil {
		lt.t.Stop()
	}
}

func (s *laneScheduler) Now() time.Time {
	return time.Now()
}

func (s *laneScheduler) After(d time.Duration, fn func()) Timer {
	lt := &laneTimer{}
	fire := func() {
		if lt.stopped {
			return
		}
		lt.stopped = true
		fn()
	}
	lt.t = time.AfterFunc(d, func() { s.post(fire) })
	return lt
}

// Every fires immediately, then on every multiple of d after the first call.
func (s *laneScheduler) Every(d time.Duration, fn func()) Timer {
	lt := &laneTimer{}
	start := time.Now()
	n := 0

	var tick func()
	tick = func() {
		if lt.stopped {
			return
		}
		fn()
		if lt.stopped {
			return
		}
		n++
		next := start.Add(time.Duration(n) * d)
		lt.t = time.AfterFunc(time.Until(next), func() { s.post(tick) })
	}

	lt.t = time.AfterFunc(0, func() { s.post(tick) })
	return lt
}
