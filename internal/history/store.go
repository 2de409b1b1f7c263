// Package history loads historical draws from the supported backends.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/R3E-Network/lotto_picker/internal/lottery"
)

// Store defines read access to historical draws.
type Store interface {
	// LoadDraws returns every recorded draw for the variant. Each draw has
	// been validated against the variant's main range.
	LoadDraws(ctx context.Context, variant lottery.Variant) ([]lottery.Draw, error)
}

// Writer is implemented by stores that accept imported draws.
type Writer interface {
	SaveDraws(ctx context.Context, variant lottery.Variant, records []Record) (int, error)
}

// Record is one draw row with its bookkeeping columns.
type Record struct {
	DrawNo  int64
	DrawnAt *time.Time
	Numbers lottery.Draw
}

// Driver names a backend.
type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverCSV      Driver = "csv"
	DriverJSON     Driver = "json"
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// Config selects and configures the history backend.
type Config struct {
	Driver Driver `yaml:"driver" env:"LOTTO_HISTORY_DRIVER"`
	// DSN is the database connection string for postgres and sqlite.
	DSN string `yaml:"dsn" env:"LOTTO_HISTORY_DSN"`
	// Dir holds <variant>.csv or <variant>.json files.
	Dir string `yaml:"dir" env:"LOTTO_HISTORY_DIR"`
	// JSONQuery is the gjson path yielding an array of number arrays.
	JSONQuery string `yaml:"json_query" env:"LOTTO_HISTORY_JSON_QUERY"`
}

// Errors
var (
	ErrUnknownDriver = errors.New("unknown history driver")
	ErrMissingSource = errors.New("history source not configured")
)

// Validate checks that the driver has what it needs.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverMemory:
		return nil
	case DriverCSV, DriverJSON:
		if strings.TrimSpace(c.Dir) == "" {
			return fmt.Errorf("%w: %s driver requires dir", ErrMissingSource, c.Driver)
		}
		return nil
	case DriverPostgres, DriverSQLite:
		if strings.TrimSpace(c.DSN) == "" {
			return fmt.Errorf("%w: %s driver requires dsn", ErrMissingSource, c.Driver)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Driver)
	}
}

func validateRows(variant lottery.Variant, rows [][]int) ([]lottery.Draw, error) {
	draws := make([]lottery.Draw, 0, len(rows))
	for i, row := range rows {
		d, err := lottery.NewDraw(row, variant.Main)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", variant.ID, i+1, err)
		}
		draws = append(draws, d)
	}
	return draws, nil
}
