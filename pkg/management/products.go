package management

import (
	"context"
	"encoding/json"
	"net/http"
)

// Products lists every product available to the account.
func (c *Client) Products(ctx context.Context) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, "/v1/products", nil, nil)
}
