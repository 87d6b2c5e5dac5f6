// Package catalog exposes the product list the storefront renders:
// the raw catalog fetched from the backend, narrowed by a free-text
// search and a category filter. Only the filtered view is observable.
package catalog

import (
	"context"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/dummassdenzel/Mubu/internal/api"
	"github.com/dummassdenzel/Mubu/internal/domain"
	"github.com/dummassdenzel/Mubu/internal/reactive"
)

// AllCategories disables category narrowing.
const AllCategories = "All"

// Getter is the slice of the API client the catalog needs.
type Getter interface {
	Get(ctx context.Context, endpoint string) (*api.Envelope, error)
}

type Store struct {
	client   Getter
	products *reactive.Container[[]domain.Product]
	category *reactive.Container[string]
	search   *reactive.Container[string]
	filtered *reactive.Container[[]domain.Product]
	sfg      singleflight.Group // collapses concurrent catalog fetches
}

func New(client Getter) *Store {
	s := &Store{
		client:   client,
		products: reactive.New[[]domain.Product](nil),
		category: reactive.New(AllCategories),
		search:   reactive.New(""),
	}
	s.filtered = reactive.Derive3(s.products, s.category, s.search, filter)
	return s
}

// Subscribe observes the filtered product list. The raw catalog is
// deliberately not exposed.
func (s *Store) Subscribe(fn func([]domain.Product)) func() {
	return s.filtered.Subscribe(fn)
}

// Products returns the current filtered list.
func (s *Store) Products() []domain.Product {
	return s.filtered.Get()
}

func (s *Store) SetCategory(category string) {
	s.category.Set(category)
}

func (s *Store) SetSearchQuery(query string) {
	s.search.Set(query)
}

// FetchProducts replaces the catalog with the backend's product list.
// Concurrent calls share a single request. On any error the previous
// catalog is left untouched and the error is returned to the caller.
func (s *Store) FetchProducts(ctx context.Context) error {
	_, err, _ := s.sfg.Do("products", func() (interface{}, error) {
		env, err := s.client.Get(ctx, "products")
		if err != nil {
			return nil, err
		}
		var products []domain.Product
		if err := env.Bind(&products); err != nil {
			return nil, err
		}
		s.products.Set(products)
		return nil, nil
	})
	return err
}

// filter applies the search query first, then the category. The two
// narrow conjunctively; an empty query and the "All" category are
// pass-throughs.
func filter(products []domain.Product, category, query string) []domain.Product {
	filtered := products
	if query != "" {
		q := strings.ToLower(query)
		matched := make([]domain.Product, 0, len(filtered))
		for _, p := range filtered {
			if strings.Contains(strings.ToLower(p.Name), q) ||
				strings.Contains(strings.ToLower(p.Description), q) ||
				strings.Contains(strings.ToLower(p.Series), q) {
				matched = append(matched, p)
			}
		}
		filtered = matched
	}
	if category == AllCategories {
		return filtered
	}
	matched := make([]domain.Product, 0, len(filtered))
	for _, p := range filtered {
		if p.Category == category {
			matched = append(matched, p)
		}
	}
	return matched
}
