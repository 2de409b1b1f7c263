package history

import (
	"context"
	"sort"
	"sync"

	"github.com/R3E-Network/lotto_picker/internal/lottery"
)

// MemoryStore keeps draws in memory. Used by tests and the memory driver.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[lottery.VariantID]map[int64]Record
}

var (
	_ Store  = (*MemoryStore)(nil)
	_ Writer = (*MemoryStore)(nil)
)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[lottery.VariantID]map[int64]Record)}
}

// Add appends draws for variant, numbering them after the existing ones.
func (s *MemoryStore) Add(variant lottery.VariantID, draws ...lottery.Draw) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byNo := s.bucket(variant)
	next := int64(len(byNo)) + 1
	for _, d := range draws {
		for byNo[next].DrawNo != 0 {
			next++
		}
		byNo[next] = Record{DrawNo: next, Numbers: d}
		next++
	}
}

func (s *MemoryStore) LoadDraws(ctx context.Context, variant lottery.Variant) ([]lottery.Draw, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byNo := s.records[variant.ID]
	keys := make([]int64, 0, len(byNo))
	for no := range byNo {
		keys = append(keys, no)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	rows := make([][]int, 0, len(keys))
	for _, no := range keys {
		d := byNo[no].Numbers
		rows = append(rows, d[:])
	}
	return validateRows(variant, rows)
}

// SaveDraws upserts records by draw number.
func (s *MemoryStore) SaveDraws(ctx context.Context, variant lottery.Variant, records []Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byNo := s.bucket(variant.ID)
	for _, rec := range records {
		byNo[rec.DrawNo] = rec
	}
	return len(records), nil
}

func (s *MemoryStore) bucket(variant lottery.VariantID) map[int64]Record {
	byNo, ok := s.records[variant]
	if !ok {
		byNo = make(map[int64]Record)
		s.records[variant] = byNo
	}
	return byNo
}
