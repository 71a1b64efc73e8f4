package policy

import (
	"fmt"

	"frecfind/internal/domain"
)

// Table maps usage-event kinds to update weights. It is built once from the
// configuration snapshot and immutable for the lifetime of a session.
type Table struct {
	weights map[domain.EventKind]float64
}

// NewTable builds a weight table from configured kind -> weight entries.
// Negative weights are rejected.
func NewTable(weights map[string]float64) (*Table, error) {
	t := &Table{weights: make(map[domain.EventKind]float64, len(weights))}
	for kind, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("weight for %q must be non-negative, got %v", kind, w)
		}
		t.weights[domain.EventKind(kind)] = w
	}
	return t, nil
}

// WeightFor returns the weight for an event kind. An unmapped kind is a
// configuration error, reported so the caller can drop the event; it is
// never silently tracked at weight zero.
func (t *Table) WeightFor(kind domain.EventKind) (float64, error) {
	w, ok := t.weights[kind]
	if !ok {
		return 0, fmt.Errorf("no weight configured for event kind %q", kind)
	}
	return w, nil
}
