package management

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
)

// DefaultOrderSort is the sort applied to order listings when none is given.
const DefaultOrderSort = "order_number"

// OrderQuery filters an order listing.
type OrderQuery struct {
	Page
	Sort string
}

// OrderRequest is the body of a new order. Products entries are passed through
// untouched, e.g. {"productId": 1001, "quantity": 5}.
type OrderRequest struct {
	Products          []map[string]any `json:"products"`
	DeliveryAddress   map[string]any   `json:"delivery_address,omitempty"`
	CustomerReference string           `json:"customer_reference,omitempty"`
}

// Orders lists orders for the account, at most MaxOrdersPageSize per page.
func (c *Client) Orders(ctx context.Context, q OrderQuery) (json.RawMessage, error) {
	params := q.values(MaxOrdersPageSize)

	sort := q.Sort
	if sort == "" {
		sort = DefaultOrderSort
	}
	params.Set("sort", sort)

	return c.Do(ctx, http.MethodGet, "/v1/orders", params, nil)
}

// Order fetches a single order by its number.
func (c *Client) Order(ctx context.Context, number int) (json.RawMessage, error) {
	if number <= 0 {
		return nil, errors.New("management: order number must be positive")
	}

	return c.Do(ctx, http.MethodGet, "/v1/orders/"+strconv.Itoa(number), nil, nil)
}

// CreateOrder places a new order.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (json.RawMessage, error) {
	if len(req.Products) == 0 {
		return nil, errors.New("management: at least one product is required")
	}

	return c.Do(ctx, http.MethodPost, "/v1/orders", nil, req)
}
