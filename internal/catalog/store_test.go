package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dummassdenzel/Mubu/internal/api"
	"github.com/dummassdenzel/Mubu/internal/domain"
)

type mockGetter struct {
	payload any
	err     error
	calls   int
}

func (m *mockGetter) Get(context.Context, string) (*api.Envelope, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	data, err := json.Marshal(m.payload)
	if err != nil {
		return nil, err
	}
	return &api.Envelope{
		Status:  api.Status{Remarks: "success", Code: 200},
		Payload: data,
	}, nil
}

func sampleCatalog() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "foo", Description: "plain tote", Series: "Classic", Category: "A"},
		{ID: 2, Name: "bar", Description: "mini bag", Series: "Mini", Category: "B"},
	}
}

func TestFetchProducts_ReplacesCatalog(t *testing.T) {
	sut := New(&mockGetter{payload: sampleCatalog()})

	require.NoError(t, sut.FetchProducts(context.Background()))

	products := sut.Products()
	require.Len(t, products, 2)
	assert.Equal(t, "foo", products[0].Name)
}

func TestFetchProducts_ErrorLeavesCatalogUntouched(t *testing.T) {
	getter := &mockGetter{payload: sampleCatalog()}
	sut := New(getter)
	require.NoError(t, sut.FetchProducts(context.Background()))

	getter.err = fmt.Errorf("backend down")
	err := sut.FetchProducts(context.Background())

	require.ErrorContains(t, err, "backend down")
	assert.Len(t, sut.Products(), 2)
}

func TestSetCategory_FiltersExactMatch(t *testing.T) {
	sut := New(&mockGetter{payload: sampleCatalog()})
	require.NoError(t, sut.FetchProducts(context.Background()))

	sut.SetCategory("A")

	products := sut.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "A", products[0].Category)
}

func TestSetSearchQuery_MatchesNameDescriptionOrSeries(t *testing.T) {
	cases := []struct {
		query string
		want  []int64
	}{
		{"bar", []int64{2}},     // name
		{"TOTE", []int64{1}},    // description, case-insensitive
		{"mini", []int64{2}},    // series and description, same product
		{"classic", []int64{1}}, // series
		{"", []int64{1, 2}},     // empty query passes everything through
		{"zzz", []int64{}},
	}

	for _, tc := range cases {
		sut := New(&mockGetter{payload: sampleCatalog()})
		require.NoError(t, sut.FetchProducts(context.Background()))

		sut.SetSearchQuery(tc.query)

		var got []int64
		for _, p := range sut.Products() {
			got = append(got, p.ID)
		}
		assert.ElementsMatch(t, tc.want, got, "query %q", tc.query)
	}
}

func TestFilters_AreConjunctive(t *testing.T) {
	sut := New(&mockGetter{payload: sampleCatalog()})
	require.NoError(t, sut.FetchProducts(context.Background()))

	// "bar" only exists in category B, so narrowing to A empties the view.
	sut.SetCategory("A")
	sut.SetSearchQuery("bar")
	assert.Empty(t, sut.Products())

	// resetting the category brings it back
	sut.SetCategory(AllCategories)
	products := sut.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "bar", products[0].Name)
}

func TestSubscribe_SeesFilteredViewOnly(t *testing.T) {
	sut := New(&mockGetter{payload: sampleCatalog()})
	require.NoError(t, sut.FetchProducts(context.Background()))

	var last []domain.Product
	unsubscribe := sut.Subscribe(func(products []domain.Product) { last = products })
	defer unsubscribe()

	require.Len(t, last, 2)

	sut.SetCategory("B")
	require.Len(t, last, 1)
	assert.Equal(t, "bar", last[0].Name)
}

func TestFetchProducts_RipplesThroughActiveFilters(t *testing.T) {
	getter := &mockGetter{payload: sampleCatalog()}
	sut := New(getter)
	sut.SetCategory("A")

	require.NoError(t, sut.FetchProducts(context.Background()))

	products := sut.Products()
	require.Len(t, products, 1)
	assert.Equal(t, int64(1), products[0].ID)
}
