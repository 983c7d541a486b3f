package service

import (
	"sort"
	"sync/atomic"
	"time"

	"stock-sniper/internal/entity"
)

// BaselineSnapshot is one complete baseline set. It never changes once built.
type BaselineSnapshot struct {
	byCode      map[string]entity.InstrumentBaseline
	codes       []string
	generatedAt time.Time
}

// Codes returns the deduplicated codes in ascending order.
func (b *BaselineSnapshot) Codes() []string {
	out := make([]string, len(b.codes))
	copy(out, b.codes)
	return out
}

// Get returns the baseline for code. A missing code is not an error.
func (b *BaselineSnapshot) Get(code string) (entity.InstrumentBaseline, bool) {
	v, ok := b.byCode[code]
	return v, ok
}

func (b *BaselineSnapshot) Len() int {
	return len(b.codes)
}

// BaselineStore holds the active baseline set. Readers see either the previous
// or the next complete set, never a mix.
type BaselineStore struct {
	snapshot atomic.Pointer[BaselineSnapshot]
}

// NewBaselineStore creates an empty store.
func NewBaselineStore() *BaselineStore {
	s := &BaselineStore{}
	s.snapshot.Store(&BaselineSnapshot{byCode: map[string]entity.InstrumentBaseline{}})
	return s
}

// Replace swaps in a new set. Later duplicates of a code win.
func (s *BaselineStore) Replace(baselines []entity.InstrumentBaseline, generatedAt time.Time) {
	byCode := make(map[string]entity.InstrumentBaseline, len(baselines))
	for _, b := range baselines {
		byCode[b.Code] = b
	}
	codes := make([]string, 0, len(byCode))
	for code := range byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	s.snapshot.Store(&BaselineSnapshot{
		byCode:      byCode,
		codes:       codes,
		generatedAt: generatedAt,
	})
}

// Snapshot returns the active set. Later Replace calls do not affect it.
func (s *BaselineStore) Snapshot() *BaselineSnapshot {
	return s.snapshot.Load()
}

// Universe returns the deduplicated codes in ascending order.
func (s *BaselineStore) Universe() []string {
	return s.snapshot.Load().Codes()
}

// Get returns the baseline for code. A missing code is not an error.
func (s *BaselineStore) Get(code string) (entity.InstrumentBaseline, bool) {
	return s.snapshot.Load().Get(code)
}

// All returns every baseline ordered by code.
func (s *BaselineStore) All() []entity.InstrumentBaseline {
	snap := s.snapshot.Load()
	out := make([]entity.InstrumentBaseline, 0, len(snap.codes))
	for _, code := range snap.codes {
		out = append(out, snap.byCode[code])
	}
	return out
}

func (s *BaselineStore) Len() int {
	return len(s.snapshot.Load().codes)
}

// GeneratedAt is the zero time until the first Replace.
func (s *BaselineStore) GeneratedAt() time.Time {
	return s.snapshot.Load().generatedAt
}
