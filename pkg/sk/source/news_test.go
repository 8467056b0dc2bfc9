package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Yahoo! Finance: NVDA News</title>
    <item>
      <title>Chipmaker beats estimates</title>
      <link>https://example.com/a</link>
      <pubDate>Fri, 29 Aug 2025 14:30:00 +0000</pubDate>
      <description>Quarterly results came in ahead of consensus.</description>
    </item>
    <item>
      <title></title>
      <link>https://example.com/skip</link>
    </item>
    <item>
      <title>New accelerator announced</title>
      <link>https://example.com/b</link>
      <pubDate>Thu, 28 Aug 2025 09:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

func TestRSSHeadlines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/rss/2.0/headline")
		assert.Equal(t, "NVDA", r.URL.Query().Get("s"))
		_, _ = w.Write([]byte(rssFixture))
	}))
	defer srv.Close()

	rss := NewRSS(NewClient())
	rss.baseURL = srv.URL

	items, err := rss.Headlines(context.Background(), "NVDA", 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Chipmaker beats estimates", items[0].Headline)
	assert.Equal(t, "2025-08-29", items[0].Date)
	assert.Equal(t, "rss", items[0].Source)
	assert.Equal(t, "2025-08-28", items[1].Date)
}

func TestRSSHeadlinesLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(rssFixture))
	}))
	defer srv.Close()

	rss := NewRSS(NewClient())
	rss.baseURL = srv.URL

	items, err := rss.Headlines(context.Background(), "NVDA", 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestRSSMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>not a feed`))
	}))
	defer srv.Close()

	rss := NewRSS(NewClient())
	rss.baseURL = srv.URL

	_, err := rss.Headlines(context.Background(), "NVDA", 10)
	assert.Error(t, err)
}
