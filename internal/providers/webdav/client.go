package webdav

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
)

// Client is the HTTP client used for WebDAV traffic. Sync operations
// are user-triggered and report failures immediately, so requests are
// not retried; a failed sync is retried by syncing again.
type Client struct {
	resty *resty.Client
}

// NewClient builds the WebDAV client.
func NewClient() *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil

	restyClient := resty.New().
		SetTimeout(60 * time.Second).
		SetRetryCount(0).
		SetHeader("User-Agent", "xTerm-Sync/1.0")
	restyClient.SetTransport(retryClient.HTTPClient.Transport)

	return &Client{resty: restyClient}
}

func (c *Client) request(ctx context.Context, username, password string) *resty.Request {
	req := c.resty.R().SetContext(ctx)
	if username != "" {
		req.SetBasicAuth(username, password)
	}
	return req
}

// Get fetches url with optional basic auth.
func (c *Client) Get(ctx context.Context, url, username, password string) (*resty.Response, error) {
	return c.request(ctx, username, password).Get(url)
}

// Put uploads body to url with optional basic auth.
func (c *Client) Put(ctx context.Context, url string, body []byte, username, password string) (*resty.Response, error) {
	return c.request(ctx, username, password).SetBody(body).Put(url)
}

// MkCol issues a WebDAV MKCOL for url with optional basic auth.
func (c *Client) MkCol(ctx context.Context, url, username, password string) (*resty.Response, error) {
	return c.request(ctx, username, password).Execute("MKCOL", url)
}
