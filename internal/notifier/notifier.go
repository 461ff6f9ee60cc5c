// Package notifier propagates store mutations to every observer. It
// subscribes to the persistent store's change channel and, for each
// event, loads a fresh snapshot and delivers it to all registered
// subscribers. Observers replace their previous snapshot outright
// (last-write-wins reconciliation); there is no incremental diffing.
package notifier

import (
	"context"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"github.com/marker-app/marker/internal/bookmarks"
	"github.com/marker-app/marker/internal/domain"
	"github.com/marker-app/marker/internal/logger"
	redisstore "github.com/marker-app/marker/internal/store/redis"
)

// Snapshot is one delivery to a subscriber: the full collection as of the
// change that triggered it.
type Snapshot struct {
	Records []domain.BookmarkRecord
}

// Notifier fans out collection changes to subscribed views.
type Notifier struct {
	client *goredis.Client
	store  *bookmarks.Store
	logger logger.Logger

	mu     sync.Mutex
	nextID int
	subs   map[int]chan Snapshot

	stopCh chan struct{}
	done   chan struct{}
}

// New creates a notifier reading change events from the store's pub/sub
// channel.
func New(client *goredis.Client, store *bookmarks.Store, log logger.Logger) *Notifier {
	return &Notifier{
		client: client,
		store:  store,
		logger: log,
		subs:   make(map[int]chan Snapshot),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Subscribe registers an observer. The returned channel receives a fresh
// snapshot after every store mutation; slow observers miss intermediate
// snapshots rather than block the fanout. Call the cancel func to
// unsubscribe.
func (n *Notifier) Subscribe() (<-chan Snapshot, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	ch := make(chan Snapshot, 1)
	n.subs[id] = ch

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if _, ok := n.subs[id]; ok {
			delete(n.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Start begins consuming change events until Stop or ctx cancellation.
func (n *Notifier) Start(ctx context.Context) error {
	pubsub := n.client.Subscribe(ctx, redisstore.ChangeChannel())

	// Force the subscription to be established before returning so no
	// event published after Start is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return err
	}

	go func() {
		defer close(n.done)
		defer func() { _ = pubsub.Close() }()

		events := pubsub.Channel()
		for {
			select {
			case _, ok := <-events:
				if !ok {
					return
				}
				n.broadcast(ctx)
			case <-n.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop shuts the notifier down and waits for the fanout goroutine.
func (n *Notifier) Stop() {
	close(n.stopCh)
	<-n.done
}

// broadcast loads the current collection and delivers it to every
// subscriber, dropping the stale pending snapshot of any that lag.
func (n *Notifier) broadcast(ctx context.Context) {
	records, err := n.store.List(ctx)
	if err != nil {
		n.logger.Warn("failed to load snapshot after change event",
			logger.Error(err))
		return
	}

	snap := Snapshot{Records: records}

	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- snap:
		default:
			// Drain the unread snapshot so the newest one wins.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}

	n.logger.Debug("broadcast snapshot to subscribers",
		logger.Int("subscribers", len(n.subs)),
		logger.Int("records", len(records)))
}

// SubscriberCount returns the number of active subscribers.
func (n *Notifier) SubscriberCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}
