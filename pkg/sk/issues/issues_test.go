package issues

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorFinishNilWhenClean(t *testing.T) {
	c := NewCollector()
	assert.Nil(t, c.Finish())
}

func TestCollectorDedupe(t *testing.T) {
	c := NewCollector()
	c.Record("yahoo", errors.New("timeout"))
	c.Record("yahoo", errors.New("timeout"))
	c.Record("finnhub", errors.New("timeout"))
	c.Recordf("yahoo", "no statement data")

	got := c.Finish()
	require.Len(t, got, 3)
	assert.Equal(t, "yahoo", got[0].Source)
	assert.Equal(t, "timeout", got[0].Message)
	assert.Equal(t, "finnhub", got[1].Source)
	assert.Equal(t, "no statement data", got[2].Message)
}

func TestCollectorStatusExtraction(t *testing.T) {
	c := NewCollector()
	err := fmt.Errorf("quote: %w", &StatusError{Code: 429, URL: "https://example.com/q"})
	c.Record("finnhub", err)

	got := c.Finish()
	require.Len(t, got, 1)
	assert.Equal(t, 429, got[0].StatusCode)
	assert.Contains(t, got[0].Message, "429")
}

func TestCollectorIgnoresNil(t *testing.T) {
	c := NewCollector()
	c.Record("yahoo", nil)
	assert.Nil(t, c.Finish())
}
