package lista

import (
	"fmt"

	"github.com/albusdente/materiais/pkg/money"
)

// Entry is one priced line in an in-progress request form.
type Entry struct {
	UnitPrice int64
	Qty       int
}

// Aggregator accumulates the running total of a request form while it is
// being filled. One instance per in-progress form; it is not safe for
// concurrent use. Keys identify the form's line slots, so the same catalog
// material may appear under two keys and both count.
//
// The total is always derived by re-reducing every entry. Patching the total
// incrementally drifts the moment a slot swaps one material for another, so
// mutations never touch the cached total directly.
type Aggregator struct {
	entries map[string]Entry
	total   int64
}

func NewAggregator() *Aggregator {
	return &Aggregator{entries: make(map[string]Entry)}
}

// UpsertItem records the entry under key. When the slot previously held a
// different material, prevKey names it and that entry is dropped first, so a
// substitution never double-counts.
func (a *Aggregator) UpsertItem(key string, unitPrice int64, qty int, prevKey string) error {
	if key == "" {
		return fmt.Errorf("item key is required")
	}
	if qty < 1 {
		return fmt.Errorf("quantidade must be at least 1")
	}
	if unitPrice < 0 {
		return fmt.Errorf("preco must not be negative")
	}

	if prevKey != "" && prevKey != key {
		delete(a.entries, prevKey)
	}
	a.entries[key] = Entry{UnitPrice: unitPrice, Qty: qty}
	a.total = ComputeTotal(a.entries)
	return nil
}

// RemoveItem drops the entry under key. Removing an absent key is a no-op.
func (a *Aggregator) RemoveItem(key string) {
	if _, ok := a.entries[key]; !ok {
		return
	}
	delete(a.entries, key)
	a.total = ComputeTotal(a.entries)
}

// Total returns the current total in cents.
func (a *Aggregator) Total() int64 {
	return a.total
}

// FormattedTotal returns the total as a pt-BR currency string, e.g.
// "R$ 39,99".
func (a *Aggregator) FormattedTotal() string {
	return money.FormatBRL(a.total)
}

// Len returns the number of line entries.
func (a *Aggregator) Len() int {
	return len(a.entries)
}

// Reset clears all entries.
func (a *Aggregator) Reset() {
	a.entries = make(map[string]Entry)
	a.total = 0
}

// ComputeTotal reduces a full entry set to its total in cents.
func ComputeTotal(entries map[string]Entry) int64 {
	var total int64
	for _, e := range entries {
		total += e.UnitPrice * int64(e.Qty)
	}
	return total
}
