package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Public storefront read routes on the content backend.
const (
	ProductsPath = "/wp-json/morty/v1/products"
	CoursesPath  = "/wp-json/morty/v1/courses"
)

// Fetch performs an unauthenticated GET against a public backend route and
// returns the raw JSON, leaving decoding to the caller.
func (c *Client) Fetch(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	body := readBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: backend returned %d", path, resp.StatusCode)
	}
	return json.RawMessage(body), nil
}
