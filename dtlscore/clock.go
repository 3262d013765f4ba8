// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package dtlscore

import (
	"sync"
	"time"

	"github.com/hrissan/dtls12/intrusive"
)

type Timer struct {
	// intrusive, must not be changed except by clock, protected by clock mutex
	timerHeapIndex int
	// time.Time object is larger and also has complicated comparison,
	// which might be invalid as a heap predicate
	fireTimeUnixNano int64

	fireFunc func(timer *Timer)
}

// Clock is a schedule-once timer service: SetTimer arms (or re-arms)
// a timer, StopTimer removes it, the fire callback runs on the clock
// goroutine exactly once per arming.
type Clock struct {
	mu       sync.Mutex
	cond     chan struct{}
	shutdown bool

	timers *intrusive.Heap[Timer]
}

func timerHeapPred(a, b *Timer) bool {
	return a.fireTimeUnixNano < b.fireTimeUnixNano
}

func NewClock() *Clock {
	return &Clock{
		cond:   make(chan struct{}, 1),
		timers: intrusive.NewHeap(timerHeapPred, 0),
	}
}

func (cl *Clock) signal() {
	select {
	case cl.cond <- struct{}{}:
	default:
	}
}

func (cl *Clock) Close() {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.shutdown = true
	cl.signal()
}

// blocks until Close() called
func (cl *Clock) GoRun() {
	t := time.NewTimer(time.Hour)
	defer t.Stop()
	if t.Stop() {
		<-t.C
	}
	for {
		cl.mu.Lock()
		var fireDur time.Duration
		var timer *Timer
		if cl.timers.Len() != 0 {
			timer = cl.timers.Front()
			fireDur = time.Duration(timer.fireTimeUnixNano - time.Now().UnixNano())
			if fireDur <= 0 {
				timer.fireTimeUnixNano = 0
				cl.timers.PopFront()
			}
		}
		shutdown := cl.shutdown
		cl.mu.Unlock()
		if shutdown {
			return
		}
		if timer == nil {
			<-cl.cond
			continue
		}
		if fireDur <= 0 {
			timer.fireFunc(timer)
			continue
		}
		t.Reset(fireDur)
		select {
		case <-t.C:
		case <-cl.cond:
			if t.Stop() {
				<-t.C
			}
		}
	}
}

func (cl *Clock) StopTimer(timer *Timer) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.timers.Erase(timer, &timer.timerHeapIndex)
	timer.fireTimeUnixNano = 0
}

func (cl *Clock) SetTimer(timer *Timer, deadline time.Time) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.timers.Erase(timer, &timer.timerHeapIndex)
	timer.fireTimeUnixNano = deadline.UnixNano()
	cl.timers.Insert(timer, &timer.timerHeapIndex)
	if cl.timers.Front() == timer { // we do not care if it was in front position before erase
		cl.signal()
	}
}
