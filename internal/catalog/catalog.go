package catalog

import (
	"strings"
)

type Product struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	Image       string   `json:"image"`
	Images      []string `json:"images,omitempty"`
	Category    string   `json:"category"`
	Description string   `json:"description,omitempty"`
}

// Store is a read-only view over a fixed product list. Safe for concurrent use.
type Store struct {
	products []Product
	byID     map[int]int
}

func NewStore(products []Product) *Store {
	s := &Store{
		products: make([]Product, len(products)),
		byID:     make(map[int]int, len(products)),
	}
	copy(s.products, products)
	for i, p := range s.products {
		s.byID[p.ID] = i
	}
	return s
}

func Default() *Store {
	return NewStore(Products)
}

func (s *Store) All() []Product {
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) Get(id int) (Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Product{}, false
	}
	return s.products[i], true
}

func (s *Store) ByCategory(category string) []Product {
	return InCategory(s.All(), category)
}

// InCategory keeps the products of category, ignoring case. An empty
// category keeps everything.
func InCategory(list []Product, category string) []Product {
	if category == "" {
		return list
	}
	out := make([]Product, 0)
	for _, p := range list {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns category names in order of first appearance.
func (s *Store) Categories() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range s.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// Search matches term against product names, case-insensitively.
func (s *Store) Search(term string) []Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return s.All()
	}
	out := make([]Product, 0)
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), term) {
			out = append(out, p)
		}
	}
	return out
}

// Page slices list for offset/limit pagination and reports the full length.
func Page(list []Product, offset, limit int) (int64, []Product) {
	total := int64(len(list))
	if offset < 0 || limit < 1 || offset >= len(list) {
		return total, []Product{}
	}
	end := len(list)
	if limit < end-offset {
		end = offset + limit
	}
	return total, list[offset:end]
}
