package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"time"

	"github.com/komsit37/sk/pkg/sk/types"
)

const yahooFeedsURL = "https://feeds.finance.yahoo.com"

// Default news window and item cap.
const (
	NewsWindow = 14 * 24 * time.Hour
	NewsLimit  = 10
)

// RSS is the headline-feed fallback used when the primary news API is
// unavailable.
type RSS struct {
	c       *Client
	baseURL string
}

func NewRSS(c *Client) *RSS {
	return &RSS{c: c, baseURL: yahooFeedsURL}
}

// Headlines fetches up to limit recent headlines for a symbol.
func (r *RSS) Headlines(ctx context.Context, symbol string, limit int) ([]types.NewsItem, error) {
	u := fmt.Sprintf("%s/rss/2.0/headline?s=%s&region=US&lang=en-US", r.baseURL, url.QueryEscape(symbol))
	body, err := r.c.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("rss %s: %w", symbol, err)
	}
	var feed struct {
		Channel struct {
			Items []struct {
				Title       string `xml:"title"`
				Link        string `xml:"link"`
				PubDate     string `xml:"pubDate"`
				Description string `xml:"description"`
			} `xml:"item"`
		} `xml:"channel"`
	}
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("rss %s: %w", symbol, err)
	}
	items := make([]types.NewsItem, 0, limit)
	for _, it := range feed.Channel.Items {
		if len(items) >= limit {
			break
		}
		if it.Title == "" {
			continue
		}
		item := types.NewsItem{
			Headline: it.Title,
			Source:   "rss",
			URL:      it.Link,
			Summary:  it.Description,
		}
		if t, err := time.Parse(time.RFC1123, it.PubDate); err == nil {
			item.Date = t.UTC().Format("2006-01-02")
		} else if t, err := time.Parse(time.RFC1123Z, it.PubDate); err == nil {
			item.Date = t.UTC().Format("2006-01-02")
		}
		items = append(items, item)
	}
	return items, nil
}
