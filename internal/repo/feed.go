package repo

import (
	"context"
	"sync"

	"github.com/Skotchmaster/crochet_store/internal/docstore"
	"github.com/Skotchmaster/crochet_store/internal/order"
)

// Feed streams the full order list, newest first, from the document store.
type Feed struct {
	repo *OrderRepo

	mu     sync.Mutex
	cancel func()
}

func (r *OrderRepo) Feed() *Feed {
	return &Feed{repo: r}
}

// Start replaces any running subscription.
func (f *Feed) Start(ctx context.Context, onData func([]order.Order), onError func(error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cancel != nil {
		f.cancel()
	}

	onChange := func(docs []docstore.Document) {
		orders, err := decodeOrders(docs)
		if err != nil {
			onError(err)
			return
		}
		onData(orders)
	}
	f.cancel = f.repo.Store.Subscribe(ctx, f.repo.listQuery(), onChange, onError)
	return nil
}

func (f *Feed) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}
