package canvas

import "sync"

// Loop is the cooperative event loop of a canvas. Work posted to it runs
// on the UI goroutine when the host drains it, once per frame.
type Loop struct {
	mu    sync.Mutex
	queue []func()
	wake  func()
}

// NewLoop returns a loop that calls wake, if set, whenever work is posted.
func NewLoop(wake func()) *Loop {
	return &Loop{wake: wake}
}

// SetWake replaces the wake callback.
func (l *Loop) SetWake(wake func()) {
	l.mu.Lock()
	l.wake = wake
	l.mu.Unlock()
}

// Post queues fn. It is safe to call from any goroutine.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	wake := l.wake
	l.mu.Unlock()
	if wake != nil {
		wake()
	}
}

// Pending returns the number of queued functions.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// RunPending runs the functions queued so far. Work they post runs on
// the next call.
func (l *Loop) RunPending() int {
	l.mu.Lock()
	batch := l.queue
	l.queue = nil
	l.mu.Unlock()
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// maxDrainRounds bounds Drain when posted work keeps posting more.
const maxDrainRounds = 64

// Drain runs queued work until the queue is empty.
func (l *Loop) Drain() {
	for i := 0; i < maxDrainRounds; i++ {
		if l.RunPending() == 0 {
			return
		}
	}
}
