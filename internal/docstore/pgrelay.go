package docstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
)

const relayChannel = "docstore_changes"

// PGRelay carries collection change notices between processes that share one
// Postgres database, using LISTEN/NOTIFY.
type PGRelay struct {
	g        *Gorm
	listener *pq.Listener
	log      *slog.Logger
}

// ListenPostgres attaches a relay to g. dsn must be a lib/pq connection string
// for the same database g writes to.
func ListenPostgres(ctx context.Context, dsn string, g *Gorm, log *slog.Logger) (*PGRelay, error) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "pg_relay")

	l := pq.NewListener(dsn, 2*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Warn("pg_listener_event", "event", int(ev), "error", err)
		}
	})
	if err := l.Listen(relayChannel); err != nil {
		_ = l.Close()
		return nil, fmt.Errorf("listen %s: %w", relayChannel, err)
	}

	r := &PGRelay{g: g, listener: l, log: log}
	g.mu.Lock()
	g.relay = r
	g.mu.Unlock()

	go r.run(ctx)
	return r, nil
}

func (r *PGRelay) run(ctx context.Context) {
	ping := time.NewTicker(90 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-r.listener.Notify:
			if !ok {
				return
			}
			// nil after a reconnect: notices may have been missed
			if n == nil {
				r.g.notifyAll()
				continue
			}
			r.g.notify(n.Extra)
		case <-ping.C:
			if err := r.listener.Ping(); err != nil {
				r.log.Warn("pg_listener_ping_error", "error", err)
			}
		}
	}
}

func (r *PGRelay) publish(ctx context.Context, collection string) {
	err := r.g.DB.WithContext(ctx).Exec("SELECT pg_notify(?, ?)", relayChannel, collection).Error
	if err != nil {
		r.log.Warn("pg_notify_error", "collection", collection, "error", err)
	}
}

// Close detaches the relay and stops listening.
func (r *PGRelay) Close() error {
	r.g.mu.Lock()
	if r.g.relay == r {
		r.g.relay = nil
	}
	r.g.mu.Unlock()
	return r.listener.Close()
}
