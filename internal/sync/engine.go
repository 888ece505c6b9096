package sync

import (
	"context"
	"errors"
	"math/rand"
	stdsync "sync"
	"time"

	"list-app-go/internal/cache"
	"list-app-go/internal/config"
	"list-app-go/internal/domain/item"
	"list-app-go/internal/domain/list"
	"list-app-go/internal/realtime"
	"list-app-go/internal/state"
	"list-app-go/pkg/logger"

	"github.com/oklog/ulid/v2"
)

// Subscriber is the realtime change feed, satisfied by realtime.Listener.
type Subscriber interface {
	Start(handler realtime.Handler) error
	Close() error
}

// Engine owns the local view of all lists: the state containers, the cache
// mirror, the per-type mutation pipelines, and the realtime reconciler.
type Engine struct {
	cfg        config.Config
	log        logger.Logger
	state      *state.State
	cache      *cache.Lists
	backend    Backend
	subscriber Subscriber
	broadcast  Broadcaster
	retry      *retryQueue
	dirty      *dirtySet

	grocery  *Pipeline[item.Grocery]
	todo     *Pipeline[item.Todo]
	bookmark *Pipeline[item.Bookmark]
	note     *Pipeline[item.Note]

	mu         stdsync.Mutex
	subscribed bool
}

func New(cfg config.Config, st *state.State, lists *cache.Lists, backend Backend, subscriber Subscriber, broadcast Broadcaster, log logger.Logger) *Engine {
	if broadcast == nil {
		broadcast = noopBroadcaster{}
	}

	e := &Engine{
		cfg:        cfg,
		log:        log,
		state:      st,
		cache:      lists,
		backend:    backend,
		subscriber: subscriber,
		broadcast:  broadcast,
		retry:      newRetryQueue(cfg.Sync.RetryInterval, cfg.Sync.RetryAttempts, log),
		dirty:      newDirtySet(),
	}

	e.grocery = newPipeline(e, st.Grocery, item.GroceryVariant)
	e.todo = newPipeline(e, st.Todo, item.TodoVariant)
	e.bookmark = newPipeline(e, st.Bookmark, item.BookmarkVariant)
	e.note = newPipeline(e, st.Note, item.NoteVariant)

	return e
}

func (e *Engine) Grocery() *Pipeline[item.Grocery]   { return e.grocery }
func (e *Engine) Todo() *Pipeline[item.Todo]         { return e.todo }
func (e *Engine) Bookmark() *Pipeline[item.Bookmark] { return e.bookmark }
func (e *Engine) Note() *Pipeline[item.Note]         { return e.note }

func (e *Engine) State() *state.State { return e.state }

// Dirty reports lists with known local/remote divergence and when it began.
func (e *Engine) Dirty() map[string]time.Time {
	return e.dirty.All()
}

// Subscribe opens the realtime channels and routes events into the
// reconciler. Re-subscribing while open is a no-op.
func (e *Engine) Subscribe() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.subscribed {
		return nil
	}
	if e.subscriber == nil {
		return nil
	}
	if err := e.subscriber.Start(e.dispatchEvent); err != nil {
		return err
	}
	e.subscribed = true
	return nil
}

// Teardown unsubscribes both channels and cancels pending event retries,
// after which Subscribe may be called again.
func (e *Engine) Teardown() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.retry.CancelAll()
	if !e.subscribed {
		return nil
	}
	e.subscribed = false
	if e.subscriber == nil {
		return nil
	}
	return e.subscriber.Close()
}

// SignOut tears the subscriptions down and clears every local trace of the
// session: containers, list collection, cache mirror, dirty markers.
func (e *Engine) SignOut() error {
	err := e.Teardown()

	e.state.Reset()
	e.dirty.ClearAll()
	if cacheErr := e.cache.Clear(); cacheErr != nil {
		e.log.Error("signout: cache clear failed", "err", cacheErr)
		if err == nil {
			err = cacheErr
		}
	}
	e.broadcast.Changed("session", "reset", "", "")
	return err
}

func (e *Engine) dispatchEvent(channel string, event realtime.Event) {
	switch channel {
	case e.cfg.Realtime.ListChannel:
		e.handleListEvent(event)
	case e.cfg.Realtime.ItemChannel:
		e.handleItemEvent(event)
	default:
		e.log.Warn("sync: event on unknown channel", "channel", channel)
	}
}

// persistAggregate writes the recomputed rollup to the remote list row and
// mirrors it into the cache and state. Failure marks the list dirty; the
// next successful mutation rewrites corrected values.
func (e *Engine) persistAggregate(ctx context.Context, userID string, rec list.List) {
	if err := e.backend.UpdateListAggregate(ctx, rec.ID, rec.ItemNumber, rec.Total); err != nil {
		e.log.Error("aggregate: remote persist failed", "list_id", rec.ID, "err", err)
		e.dirty.Mark(rec.ID)
		return
	}
	if err := e.cache.ReplaceItem(userID, rec.ID, rec); err != nil {
		e.log.Error("aggregate: cache mirror failed", "list_id", rec.ID, "err", err)
	}
	e.state.UpdateList(rec.ID, "", func(l list.List) list.List {
		l.ItemNumber = rec.ItemNumber
		l.Total = rec.Total
		return l
	})
	e.broadcast.Changed("list", "aggregate", rec.ID, "")
}

// join runs the given remote writes concurrently and waits for all of
// them; the combined error is non-nil if any write failed.
func join(fns ...func() error) error {
	var wg stdsync.WaitGroup
	errs := make([]error, len(fns))

	for i, fn := range fns {
		wg.Add(1)
		go func(i int, fn func() error) {
			defer wg.Done()
			errs[i] = fn()
		}(i, fn)
	}
	wg.Wait()

	return errors.Join(errs...)
}

var ulidEntropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
var ulidMu stdsync.Mutex

// newLocalID generates a sortable client-side id for records created in
// guest mode, where no server id will ever arrive.
func newLocalID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
}
