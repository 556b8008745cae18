package scrape

import (
	"context"
	"fmt"
	"sync"
)

// RawRate is an unnormalized rate straight from a source. Buy and sell stay
// strings here; locale cleanup happens in the normalizer.
type RawRate struct {
	Label string
	Buy   string
	Sell  string
}

// BankInfo identifies the bank behind a source and seeds its reference row.
type BankInfo struct {
	Name      string
	ShortName string
	Website   string
}

// Source is one bank-specific scraping unit. Fetch returns zero or more raw
// rates or fails; it never writes to storage itself.
type Source interface {
	Bank() BankInfo
	Fetch(ctx context.Context) ([]RawRate, error)
}

// Registry holds sources in registration order. The aggregation pass walks
// them in that fixed order.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]Source
	ordered []Source
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Source)}
}

func (r *Registry) Register(s Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := s.Bank().Name
	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("source already registered: %s", name)
	}
	r.byName[name] = s
	r.ordered = append(r.ordered, s)
	return nil
}

func (r *Registry) Get(bankName string) (Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byName[bankName]
	return s, ok
}

// Sources returns the registered sources in registration order.
func (r *Registry) Sources() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Source, len(r.ordered))
	copy(out, r.ordered)
	return out
}
