package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Allan-Sanchez/storefront-client/internal/models"
)

type OrdersClient struct {
	c *Client
}

func NewOrdersClient(baseURL string, tokens TokenSource) *OrdersClient {
	return &OrdersClient{c: NewClient(baseURL, tokens)}
}

// Create submits the order. The order service expects the acting user in
// X-User-Id / X-User-Email headers in addition to the bearer token.
func (o *OrdersClient) Create(ctx context.Context, req models.CreateOrderRequest, userID int64, userEmail string) (models.Order, error) {
	return call[models.Order](ctx, o.c, request{
		method: http.MethodPost,
		path:   "api/orders",
		body:   req,
		headers: map[string]string{
			"X-User-Id":    strconv.FormatInt(userID, 10),
			"X-User-Email": userEmail,
		},
	})
}

type OrderQuery struct {
	Page      int
	Size      int
	Status    string
	StartDate string
	EndDate   string
}

func (q OrderQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.StartDate != "" {
		v.Set("startDate", q.StartDate)
	}
	if q.EndDate != "" {
		v.Set("endDate", q.EndDate)
	}
	return v
}

func (o *OrdersClient) MyOrders(ctx context.Context, q OrderQuery) ([]models.Order, error) {
	return call[[]models.Order](ctx, o.c, request{
		method: http.MethodGet,
		path:   "api/orders/my-orders",
		query:  q.values(),
	})
}
