package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Allan-Sanchez/storefront-client/internal/models"
)

// listAttempts bounds the retry of catalog reads. Reads are idempotent, so a
// flaky hop is retried instead of surfacing straight to the user.
const listAttempts = 3

type ProductsClient struct {
	c *Client
}

func NewProductsClient(baseURL string, tokens TokenSource) *ProductsClient {
	return &ProductsClient{c: NewClient(baseURL, tokens)}
}

type ProductQuery struct {
	Search        string
	Category      string
	MinPrice      *float64
	MaxPrice      *float64
	Page          int
	Size          int
	SortBy        string
	SortDirection string
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.MinPrice != nil {
		v.Set("minPrice", strconv.FormatFloat(*q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice != nil {
		v.Set("maxPrice", strconv.FormatFloat(*q.MaxPrice, 'f', -1, 64))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.SortDirection != "" {
		v.Set("sortDirection", q.SortDirection)
	}
	return v
}

func (p *ProductsClient) List(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	return call[[]models.Product](ctx, p.c, request{
		method:   http.MethodGet,
		path:     "api/products",
		query:    q.values(),
		attempts: listAttempts,
	})
}

func (p *ProductsClient) Get(ctx context.Context, id int64) (models.Product, error) {
	return call[models.Product](ctx, p.c, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("api/products/%d", id),
	})
}
