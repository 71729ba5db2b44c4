package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/crochet_store/internal/catalog"
)

const maxHits = 50

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch info: %s: %s", res.Status(), body)
	}
	return client, nil
}

// ES runs full-text queries against an index of the catalog and resolves hits
// back to catalog products.
type ES struct {
	Client  *elasticsearch.Client
	Index   string
	Catalog *catalog.Store
}

func (s *ES) IndexProducts(ctx context.Context, products []catalog.Product) error {
	for _, p := range products {
		body, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode product %d: %w", p.ID, err)
		}

		res, err := s.Client.Index(
			s.Index,
			bytes.NewReader(body),
			s.Client.Index.WithContext(ctx),
			s.Client.Index.WithDocumentID(strconv.Itoa(p.ID)),
		)
		if err != nil {
			return fmt.Errorf("index product %d: %w", p.ID, err)
		}
		if res.IsError() {
			res.Body.Close()
			return fmt.Errorf("index product %d: %s", p.ID, res.Status())
		}
		res.Body.Close()
	}

	res, err := s.Client.Indices.Refresh(
		s.Client.Indices.Refresh.WithContext(ctx),
		s.Client.Indices.Refresh.WithIndex(s.Index),
	)
	if err != nil {
		return fmt.Errorf("refresh %s: %w", s.Index, err)
	}
	res.Body.Close()
	return nil
}

func queryBody(q string) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"name^2", "category", "description"},
				"fuzziness": "AUTO",
			},
		},
		"size": maxHits,
	}
}

func (s *ES) Search(ctx context.Context, q string) ([]catalog.Product, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(queryBody(q)); err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := s.Client.Search(
		s.Client.Search.WithContext(ctx),
		s.Client.Search.WithIndex(s.Index),
		s.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search: %s", res.Status())
	}

	return s.decodeHits(res.Body)
}

func (s *ES) decodeHits(r io.Reader) ([]catalog.Product, error) {
	var out struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode hits: %w", err)
	}

	products := make([]catalog.Product, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		id, err := strconv.Atoi(h.ID)
		if err != nil {
			continue
		}
		if p, ok := s.Catalog.Get(id); ok {
			products = append(products, p)
		}
	}
	return products, nil
}

// Fallback serves from Primary and switches to Secondary when Primary errors.
type Fallback struct {
	Primary   Searcher
	Secondary Searcher
	OnError   func(error)
}

func (f Fallback) Search(ctx context.Context, q string) ([]catalog.Product, error) {
	products, err := f.Primary.Search(ctx, q)
	if err == nil {
		return products, nil
	}
	if f.OnError != nil {
		f.OnError(err)
	}
	return f.Secondary.Search(ctx, q)
}
