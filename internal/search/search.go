package search

import (
	"context"

	"github.com/Skotchmaster/crochet_store/internal/catalog"
)

type Searcher interface {
	Search(ctx context.Context, q string) ([]catalog.Product, error)
}

// CatalogSearcher matches product names in memory.
type CatalogSearcher struct {
	Store *catalog.Store
}

func (s CatalogSearcher) Search(_ context.Context, q string) ([]catalog.Product, error) {
	return s.Store.Search(q), nil
}
