package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const yahooWebURL = "https://finance.yahoo.com"

// Scraper pulls display metrics off the finance portal's HTML pages.
// Scraped values are strings as shown on the page; the forecast builder
// parses and maps them.
type Scraper struct {
	c       *Client
	baseURL string
}

func NewScraper(c *Client) *Scraper {
	return &Scraper{c: c, baseURL: yahooWebURL}
}

// Valuation scrapes the key-statistics page into a label -> display
// value map covering the valuation ratio tables.
func (s *Scraper) Valuation(ctx context.Context, symbol string) (map[string]string, error) {
	u := fmt.Sprintf("%s/quote/%s/key-statistics", s.baseURL, url.PathEscape(symbol))
	doc, err := s.c.getHTML(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("key statistics %s: %w", symbol, err)
	}
	vals := scrapeLabelValueRows(doc)
	if len(vals) == 0 {
		return nil, fmt.Errorf("key statistics %s: no metric tables", symbol)
	}
	return vals, nil
}

// scrapeLabelValueRows collects every two-cell table row as a label and
// its first value column. Layouts change between page releases, so this
// stays structural rather than anchored to generated class names.
func scrapeLabelValueRows(doc *goquery.Document) map[string]string {
	vals := map[string]string{}
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		label := strings.TrimSpace(cells.First().Text())
		value := strings.TrimSpace(cells.Eq(1).Text())
		if label == "" || value == "" {
			return
		}
		if _, ok := vals[label]; !ok {
			vals[label] = value
		}
	})
	return vals
}
