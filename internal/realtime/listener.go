package realtime

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"list-app-go/internal/config"
	"list-app-go/pkg/logger"

	"github.com/lib/pq"
)

type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// Event is the change payload published by the notify triggers: the
// operation plus post- and pre-images of the row. Old may be partial or
// absent on inserts.
type Event struct {
	Type EventType       `json:"eventType"`
	New  json.RawMessage `json:"new"`
	Old  json.RawMessage `json:"old"`
}

// Handler receives decoded events tagged with the channel they arrived on.
type Handler func(channel string, event Event)

// Listener subscribes to the list and item change channels over a single
// LISTEN/NOTIFY connection. At most one subscription pair exists per
// Listener; Start is idempotent and Close tears both channels down so a
// later Start can rebuild them.
type Listener struct {
	dsn string
	cfg config.RealtimeConfig
	log logger.Logger

	mu      sync.Mutex
	pq      *pq.Listener
	done    chan struct{}
	started bool
}

func New(dsn string, cfg config.RealtimeConfig, log logger.Logger) *Listener {
	return &Listener{dsn: dsn, cfg: cfg, log: log}
}

// Start opens the connection, joins both channels, and feeds handler from a
// background loop. Calling Start while already running is a no-op.
func (l *Listener) Start(handler Handler) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.started {
		return nil
	}

	listener := pq.NewListener(l.dsn, l.cfg.MinReconnect, l.cfg.MaxReconnect, l.connEvent)
	for _, channel := range []string{l.cfg.ListChannel, l.cfg.ItemChannel} {
		if err := listener.Listen(channel); err != nil {
			listener.Close()
			return fmt.Errorf("listen %s: %w", channel, err)
		}
	}

	l.pq = listener
	l.done = make(chan struct{})
	l.started = true

	go l.run(listener, l.done, handler)
	l.log.Info("realtime: subscribed", "channels", []string{l.cfg.ListChannel, l.cfg.ItemChannel})
	return nil
}

// Close unsubscribes and clears the singleton references. Safe to call
// when not started.
func (l *Listener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		return nil
	}

	close(l.done)
	err := l.pq.Close()
	l.pq = nil
	l.done = nil
	l.started = false
	l.log.Info("realtime: unsubscribed")
	return err
}

func (l *Listener) run(listener *pq.Listener, done chan struct{}, handler Handler) {
	ping := l.cfg.PingInterval
	if ping <= 0 {
		ping = 90 * time.Second
	}

	for {
		select {
		case notification := <-listener.Notify:
			if notification == nil {
				// nil signals a connection loss; pq reconnects on its own
				continue
			}

			var event Event
			if err := json.Unmarshal([]byte(notification.Extra), &event); err != nil {
				l.log.Error("realtime: malformed payload", "channel", notification.Channel, "err", err)
				continue
			}
			handler(notification.Channel, event)

		case <-time.After(ping):
			if err := listener.Ping(); err != nil {
				l.log.Warn("realtime: ping failed", "err", err)
			}

		case <-done:
			return
		}
	}
}

func (l *Listener) connEvent(event pq.ListenerEventType, err error) {
	if err != nil {
		l.log.Warn("realtime: connection event", "event", int(event), "err", err)
	}
}
