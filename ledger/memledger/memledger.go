// Package memledger is an in-memory ledger for tests and local runs.
package memledger

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/jrsteele09/go-booking-sync/ledger"
)

var _ ledger.Ledger = (*Ledger)(nil)

// Write records one Update or Append.
type Write struct {
	Mode  ledger.Mode
	Range string
	Row   []string
}

type Ledger struct {
	mu     sync.RWMutex
	rows   [][]string // rows[0] is sheet row 1
	writes []Write
}

func New() *Ledger {
	return &Ledger{}
}

// Put places values at sheet row n, padding with empty rows.
func (l *Ledger) Put(n int, values ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.put(n, values)
}

func (l *Ledger) Lookup(_ context.Context, code string) (int, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for i, r := range l.rows {
		if len(r) > 0 && r[0] == code {
			return i + 1, true, nil
		}
	}
	return 0, false, nil
}

func (l *Ledger) Update(_ context.Context, rangeA1 string, row []string) error {
	var n int
	if _, err := fmt.Sscanf(rangeA1, "A%d:", &n); err != nil || n < 1 {
		return fmt.Errorf("unsupported range %q", rangeA1)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.put(n, row)
	l.writes = append(l.writes, Write{Mode: ledger.ModeUpdate, Range: rangeA1, Row: slices.Clone(row)})
	return nil
}

func (l *Ledger) Append(_ context.Context, row []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows = append(l.rows, slices.Clone(row))
	l.writes = append(l.writes, Write{Mode: ledger.ModeAppend, Row: slices.Clone(row)})
	return nil
}

// Writes returns every Update and Append in order.
func (l *Ledger) Writes() []Write {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.writes)
}

// Row returns sheet row n.
func (l *Ledger) Row(n int) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n < 1 || n > len(l.rows) {
		return nil
	}
	return slices.Clone(l.rows[n-1])
}

func (l *Ledger) put(n int, values []string) {
	for len(l.rows) < n {
		l.rows = append(l.rows, nil)
	}
	l.rows[n-1] = slices.Clone(values)
}
