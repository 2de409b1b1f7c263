package history

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/R3E-Network/lotto_picker/internal/lottery"
)

// ErrQueryNoMatch is returned when the configured path is absent from the document.
var ErrQueryNoMatch = errors.New("json query matched nothing")

// DefaultJSONQuery matches {"draws": [{"numbers": [..]}, ...]}.
const DefaultJSONQuery = "draws.#.numbers"

// JSONStore reads <Dir>/<variant>.json and extracts draws with a gjson path.
type JSONStore struct {
	Dir   string
	Query string
}

var _ Store = JSONStore{}

func (s JSONStore) LoadDraws(ctx context.Context, variant lottery.Variant) ([]lottery.Draw, error) {
	path := filepath.Join(s.Dir, string(variant.ID)+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read history json: %w", err)
	}
	draws, err := ParseJSON(data, s.Query, variant)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return draws, nil
}

// ParseJSON evaluates query against data. The result must be an array whose
// elements are arrays of numbers.
func ParseJSON(data []byte, query string, variant lottery.Variant) ([]lottery.Draw, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid json document")
	}
	if query == "" {
		query = DefaultJSONQuery
	}

	result := gjson.GetBytes(data, query)
	if !result.Exists() {
		return nil, fmt.Errorf("%w: %q", ErrQueryNoMatch, query)
	}
	if !result.IsArray() {
		return nil, fmt.Errorf("query %q did not yield an array", query)
	}

	var rows [][]int
	var parseErr error
	result.ForEach(func(_, value gjson.Result) bool {
		if !value.IsArray() {
			parseErr = fmt.Errorf("%w: draw %d is not an array", lottery.ErrInvalidDraw, len(rows)+1)
			return false
		}
		row := make([]int, 0, lottery.DrawSize)
		for _, n := range value.Array() {
			if n.Type != gjson.Number {
				parseErr = fmt.Errorf("%w: draw %d has non-numeric member %s", lottery.ErrInvalidDraw, len(rows)+1, n.Raw)
				return false
			}
			if n.Num != math.Trunc(n.Num) {
				parseErr = fmt.Errorf("%w: draw %d has non-integer member %s", lottery.ErrInvalidDraw, len(rows)+1, n.Raw)
				return false
			}
			row = append(row, int(n.Int()))
		}
		rows = append(rows, row)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return validateRows(variant, rows)
}
