package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/phuslu/log"
	"github.com/timshannon/badgerhold/v4"

	"github.com/komsit37/sk/pkg/sk/types"
)

// Entry is the persisted row per symbol. Payloads are stored as JSON so
// the schema can evolve without invalidating the whole store.
type Entry struct {
	Symbol        string `badgerhold:"key"`
	FinancialJSON []byte
	ContextJSON   []byte
	UpdatedAt     string // ISO-8601 UTC
}

// Store is the persistent TTL-bounded financial cache.
type Store struct {
	db *badgerhold.Store
}

// Open opens (or creates) the cache under dir.
func Open(dir string) (*Store, error) {
	options := badgerhold.DefaultOptions
	options.Dir = dir
	options.ValueDir = dir
	options.Logger = nil
	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// OpenMemory opens a throwaway in-memory store, used by tests.
func OpenMemory() (*Store, error) {
	options := badgerhold.DefaultOptions
	options.InMemory = true
	options.Logger = nil
	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open in-memory cache: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Read returns the cached snapshot and context for symbol when the entry
// is younger than ttl. A ttl of zero or less disables reads entirely
// without touching the stored row. Stale or malformed entries read as a
// miss.
func (s *Store) Read(symbol string, ttl time.Duration) (*types.FinancialSnapshot, *types.FinancialContext, bool) {
	if s == nil || s.db == nil || ttl <= 0 {
		return nil, nil, false
	}
	var e Entry
	if err := s.db.Get(symbol, &e); err != nil {
		if !errors.Is(err, badgerhold.ErrNotFound) {
			log.Warn().Str("symbol", symbol).Err(err).Msg("cache read failed")
		}
		return nil, nil, false
	}
	at, err := time.Parse(time.RFC3339, e.UpdatedAt)
	if err != nil || time.Since(at) > ttl {
		return nil, nil, false
	}
	var fin *types.FinancialSnapshot
	if len(e.FinancialJSON) > 0 {
		fin = &types.FinancialSnapshot{}
		if err := json.Unmarshal(e.FinancialJSON, fin); err != nil {
			return nil, nil, false
		}
	}
	var ctx *types.FinancialContext
	if len(e.ContextJSON) > 0 {
		ctx = &types.FinancialContext{}
		if err := json.Unmarshal(e.ContextJSON, ctx); err != nil {
			return nil, nil, false
		}
	}
	if fin == nil {
		return nil, nil, false
	}
	return fin, ctx, true
}

// Write upserts the entry for symbol, always overwriting.
func (s *Store) Write(symbol string, fin *types.FinancialSnapshot, ctx *types.FinancialContext) error {
	if s == nil || s.db == nil {
		return nil
	}
	e := Entry{
		Symbol:    symbol,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if fin != nil {
		b, err := json.Marshal(fin)
		if err != nil {
			return fmt.Errorf("encode financial: %w", err)
		}
		e.FinancialJSON = b
	}
	if ctx != nil {
		b, err := json.Marshal(ctx)
		if err != nil {
			return fmt.Errorf("encode context: %w", err)
		}
		e.ContextJSON = b
	}
	if err := s.db.Upsert(symbol, &e); err != nil {
		return fmt.Errorf("cache write %s: %w", symbol, err)
	}
	return nil
}
