package sync

import (
	stdsync "sync"
	"time"

	"list-app-go/pkg/logger"
)

// retryQueue re-attempts realtime events whose owning list has not been
// cached yet. Each event gets its own cancellable timer keyed by event
// identity, a fixed interval between attempts, and a bounded attempt count;
// exhausting the budget discards the event permanently.
type retryQueue struct {
	interval time.Duration
	attempts int
	log      logger.Logger

	mu     stdsync.Mutex
	timers map[string]*time.Timer
	closed bool
}

func newRetryQueue(interval time.Duration, attempts int, log logger.Logger) *retryQueue {
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	if attempts <= 0 {
		attempts = 3
	}
	return &retryQueue{
		interval: interval,
		attempts: attempts,
		log:      log,
		timers:   make(map[string]*time.Timer),
	}
}

// Enqueue schedules attempt to run after the interval, rescheduling on each
// false return until the attempt budget runs out. A key already queued is
// left alone so duplicate delivery cannot multiply timers.
func (q *retryQueue) Enqueue(key string, attempt func() bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	if _, exists := q.timers[key]; exists {
		return
	}

	q.schedule(key, attempt, q.attempts)
}

// schedule must be called with q.mu held.
func (q *retryQueue) schedule(key string, attempt func() bool, remaining int) {
	q.timers[key] = time.AfterFunc(q.interval, func() {
		resolved := attempt()

		q.mu.Lock()
		defer q.mu.Unlock()

		if _, exists := q.timers[key]; !exists {
			// cancelled while the attempt ran
			return
		}
		delete(q.timers, key)

		if resolved || q.closed {
			return
		}
		if remaining <= 1 {
			q.log.Warn("sync: event discarded after retries", "key", key, "attempts", q.attempts)
			return
		}
		q.schedule(key, attempt, remaining-1)
	})
}

// Cancel drops a pending event, e.g. when its target list is torn down
// mid-retry.
func (q *retryQueue) Cancel(key string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if timer, exists := q.timers[key]; exists {
		timer.Stop()
		delete(q.timers, key)
	}
}

// CancelAll stops every pending timer; used on teardown.
func (q *retryQueue) CancelAll() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for key, timer := range q.timers {
		timer.Stop()
		delete(q.timers, key)
	}
}

// Close stops all timers and rejects further enqueues.
func (q *retryQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	for key, timer := range q.timers {
		timer.Stop()
		delete(q.timers, key)
	}
}

func (q *retryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.timers)
}
