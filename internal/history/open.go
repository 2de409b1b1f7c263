package history

import (
	"context"
	"io"

	// Database drivers selectable through Config.Driver.
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds the store selected by cfg. The returned closer releases any
// database handle and is never nil.
func New(ctx context.Context, cfg Config) (Store, io.Closer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	switch cfg.Driver {
	case DriverCSV:
		return CSVStore{Dir: cfg.Dir}, nopCloser{}, nil
	case DriverJSON:
		return JSONStore{Dir: cfg.Dir, Query: cfg.JSONQuery}, nopCloser{}, nil
	case DriverPostgres, DriverSQLite:
		store, err := Open(ctx, string(cfg.Driver), cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := Apply(ctx, store.DB()); err != nil {
			store.Close()
			return nil, nil, err
		}
		return store, store, nil
	default:
		return NewMemoryStore(), nopCloser{}, nil
	}
}
