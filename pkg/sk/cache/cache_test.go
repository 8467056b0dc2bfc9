package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/sk/pkg/sk/num"
	"github.com/komsit37/sk/pkg/sk/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRoundTrip(t *testing.T) {
	s := openTestStore(t)

	fin := &types.FinancialSnapshot{
		Currency:     "USD",
		LatestPeriod: "2025-09-30",
		RevenueB:     num.Ptr(7.69),
		EPS:          num.Ptr(0.93),
	}
	ctx := &types.FinancialContext{
		Quarterly: []types.ContextRow{{PeriodEnd: "2025-09-30", RevenueB: num.Ptr(7.69)}},
	}
	require.NoError(t, s.Write("NVDA", fin, ctx))

	gotFin, gotCtx, ok := s.Read("NVDA", 12*time.Hour)
	require.True(t, ok)
	assert.Equal(t, fin, gotFin)
	assert.Equal(t, ctx, gotCtx)
}

func TestZeroTTLDisablesReads(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Write("NVDA", &types.FinancialSnapshot{Currency: "USD"}, nil))

	_, _, ok := s.Read("NVDA", 0)
	assert.False(t, ok)
	_, _, ok = s.Read("NVDA", -time.Hour)
	assert.False(t, ok)

	// The stored row survives a disabled read.
	_, _, ok = s.Read("NVDA", 12*time.Hour)
	assert.True(t, ok)
}

func TestMissOnAbsent(t *testing.T) {
	s := openTestStore(t)
	_, _, ok := s.Read("TSLA", 12*time.Hour)
	assert.False(t, ok)
}

func TestStaleEntryIsMiss(t *testing.T) {
	s := openTestStore(t)
	e := Entry{
		Symbol:        "NVDA",
		FinancialJSON: []byte(`{"currency":"USD"}`),
		UpdatedAt:     time.Now().UTC().Add(-13 * time.Hour).Format(time.RFC3339),
	}
	require.NoError(t, s.db.Upsert(e.Symbol, &e))

	_, _, ok := s.Read("NVDA", 12*time.Hour)
	assert.False(t, ok)
	_, _, ok = s.Read("NVDA", 14*time.Hour)
	assert.True(t, ok)
}

func TestMalformedEntryIsMiss(t *testing.T) {
	s := openTestStore(t)

	e := Entry{
		Symbol:        "NVDA",
		FinancialJSON: []byte(`{not json`),
		UpdatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	require.NoError(t, s.db.Upsert(e.Symbol, &e))
	_, _, ok := s.Read("NVDA", 12*time.Hour)
	assert.False(t, ok)

	e.FinancialJSON = []byte(`{"currency":"USD"}`)
	e.UpdatedAt = "not-a-timestamp"
	require.NoError(t, s.db.Upsert(e.Symbol, &e))
	_, _, ok = s.Read("NVDA", 12*time.Hour)
	assert.False(t, ok)
}

func TestWriteOverwrites(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Write("NVDA", &types.FinancialSnapshot{Currency: "USD"}, nil))
	require.NoError(t, s.Write("NVDA", &types.FinancialSnapshot{Currency: "HKD"}, nil))

	fin, _, ok := s.Read("NVDA", 12*time.Hour)
	require.True(t, ok)
	assert.Equal(t, "HKD", fin.Currency)
}
