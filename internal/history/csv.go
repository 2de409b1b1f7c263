package history

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/R3E-Network/lotto_picker/internal/lottery"
)

// Column headers recognised for the six main numbers. The first set matches
// the official export spreadsheets.
var numberHeaders = [][]string{
	{"獎號1", "獎號2", "獎號3", "獎號4", "獎號5", "獎號6"},
	{"n1", "n2", "n3", "n4", "n5", "n6"},
}

var (
	drawNoHeaders  = []string{"期別", "draw_no"}
	drawnAtHeaders = []string{"開獎日期", "drawn_at"}
)

// CSVStore reads <Dir>/<variant>.csv.
type CSVStore struct {
	Dir string
}

var _ Store = CSVStore{}

func (s CSVStore) LoadDraws(ctx context.Context, variant lottery.Variant) ([]lottery.Draw, error) {
	path := filepath.Join(s.Dir, string(variant.ID)+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open history csv: %w", err)
	}
	defer f.Close()

	records, err := ParseCSV(f, variant)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	draws := make([]lottery.Draw, len(records))
	for i, rec := range records {
		draws[i] = rec.Numbers
	}
	return draws, nil
}

// ParseCSV reads draw records from r. With a recognised header row the
// number, draw-number and date columns are located by name; without one the
// first six columns are the numbers and rows are numbered in file order.
func ParseCSV(r io.Reader, variant lottery.Variant) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	first, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	first[0] = strings.TrimPrefix(first[0], "\ufeff")

	layout, hasHeader := detectLayout(first)
	var records []Record
	line := 1
	if !hasHeader {
		rec, err := layout.record(first, variant, int64(line))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if isBlank(row) {
			continue
		}
		rec, err := layout.record(row, variant, int64(len(records)+1))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

type csvLayout struct {
	numbers [lottery.DrawSize]int
	drawNo  int
	drawnAt int
}

func detectLayout(header []string) (csvLayout, bool) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}

	for _, names := range numberHeaders {
		layout := csvLayout{drawNo: lookup(index, drawNoHeaders), drawnAt: lookup(index, drawnAtHeaders)}
		found := true
		for i, name := range names {
			col, ok := index[name]
			if !ok {
				found = false
				break
			}
			layout.numbers[i] = col
		}
		if found {
			return layout, true
		}
	}

	layout := csvLayout{drawNo: -1, drawnAt: -1}
	for i := range layout.numbers {
		layout.numbers[i] = i
	}
	return layout, false
}

func (l csvLayout) record(row []string, variant lottery.Variant, fallbackNo int64) (Record, error) {
	numbers := make([]int, lottery.DrawSize)
	for i, col := range l.numbers {
		if col >= len(row) {
			return Record{}, fmt.Errorf("%w: missing column %d", lottery.ErrInvalidDraw, col+1)
		}
		n, err := strconv.Atoi(strings.TrimSpace(row[col]))
		if err != nil {
			return Record{}, fmt.Errorf("%w: %q is not a number", lottery.ErrInvalidDraw, row[col])
		}
		numbers[i] = n
	}

	draw, err := lottery.NewDraw(numbers, variant.Main)
	if err != nil {
		return Record{}, err
	}
	rec := Record{DrawNo: fallbackNo, Numbers: draw}

	if l.drawNo >= 0 && l.drawNo < len(row) {
		if no, err := strconv.ParseInt(strings.TrimSpace(row[l.drawNo]), 10, 64); err == nil {
			rec.DrawNo = no
		}
	}
	if l.drawnAt >= 0 && l.drawnAt < len(row) {
		if at, ok := parseDate(row[l.drawnAt]); ok {
			rec.DrawnAt = &at
		}
	}
	return rec, nil
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"2006-01-02", "2006/01/02", "2006/1/2", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func lookup(index map[string]int, names []string) int {
	for _, name := range names {
		if col, ok := index[name]; ok {
			return col
		}
	}
	return -1
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
