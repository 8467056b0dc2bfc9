package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/phuslu/log"
	"golang.org/x/time/rate"

	"github.com/komsit37/sk/pkg/sk/issues"
)

const defaultTimeout = 20 * time.Second

// Finance endpoints reject default Go user agents, so every request
// carries browser-ish headers.
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept-Language": "en-US,en;q=0.9",
}

// Client is the shared rate-limited HTTP transport for all adapters.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient builds a client with the default timeout and a modest
// request rate that keeps the public endpoints happy.
func NewClient() *Client {
	return NewClientWithTimeout(defaultTimeout)
}

func NewClientWithTimeout(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(5), 5),
	}
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}
	log.Debug().Str("url", url).Msg("fetch")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &issues.StatusError{Code: resp.StatusCode, URL: url}
	}
	return io.ReadAll(resp.Body)
}

// getJSON fetches url and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// getHTML fetches url and parses the body as an HTML document.
func (c *Client) getHTML(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}
