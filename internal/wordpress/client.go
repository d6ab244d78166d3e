// Package wordpress is the REST client for the content backend: media
// uploads, the custom mail-dispatch route and the public catalog reads. Its
// job beyond plumbing is translating the backend's error vocabulary into
// messages a storefront visitor can act on.
package wordpress

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"bakery-storefront/internal/common/config"
	"bakery-storefront/internal/common/httpclient"
	"bakery-storefront/internal/common/logger"
)

type Client struct {
	baseURL     string
	username    string
	appPassword string
	http        *httpclient.Client
	logger      logger.Logger
}

func NewClient(cfg config.BackendConfig, log logger.Logger) *Client {
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		username:    cfg.Username,
		appPassword: cfg.AppPassword,
		http:        httpclient.NewClient(config.GetDuration(cfg.Timeout)),
		logger:      log.WithFields(map[string]interface{}{"component": "wordpress"}),
	}
}

// restError is the structured error body WordPress returns on failures.
type restError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Status int `json:"status"`
	} `json:"data"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.SetBasicAuth(c.username, c.appPassword)
	return req, nil
}

func readBody(resp *http.Response) []byte {
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil
	}
	return body
}
