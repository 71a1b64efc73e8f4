package track

import (
	"context"
	"fmt"
	"time"

	"frecfind/internal/domain"
	"frecfind/internal/eventbus"
	"frecfind/internal/policy"
)

// Updater is the slice of the engine client the tracker needs.
type Updater interface {
	RecordUsage(ctx context.Context, path string, weight float64, category domain.Category)
}

// Tracker converts observed usage events into weighted engine updates.
// It subscribes to the bus; active-focus events are debounced so that
// rapid tab switching collapses into one trailing update.
type Tracker struct {
	table     *policy.Table
	updater   Updater
	bus       eventbus.EventBus
	debouncer *Debouncer
	unsub     func()
}

// New creates a tracker and subscribes it to usage events.
func New(bus eventbus.EventBus, table *policy.Table, updater Updater, debounce time.Duration) *Tracker {
	t := &Tracker{
		table:   table,
		updater: updater,
		bus:     bus,
	}
	t.debouncer = NewDebouncer(debounce, func(path string) {
		t.dispatch(path, domain.KindActive)
	})

	t.unsub = bus.Subscribe(eventbus.EventUsageObserved, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.UsageObservedEvent); ok {
			t.Observe(event.Event)
		}
	})

	return t
}

// Observe routes one usage event. Events whose origin scheme is not a real
// file are dropped here, at the observation boundary, before any filtering.
func (t *Tracker) Observe(ev domain.UsageEvent) {
	if ev.Scheme != domain.SchemeFile {
		return
	}

	if ev.Kind == domain.KindActive {
		t.debouncer.Call(ev.Path)
		return
	}

	t.dispatch(ev.Path, ev.Kind)
}

// Close cancels any pending debounced update and detaches from the bus.
func (t *Tracker) Close() {
	t.debouncer.Stop()
	if t.unsub != nil {
		t.unsub()
	}
}

// dispatch resolves the weight and hands the update to the engine.
// An unmapped kind is a configuration error: the event is dropped and a
// diagnostic is published, but nothing reaches the user.
func (t *Tracker) dispatch(path string, kind domain.EventKind) {
	weight, err := t.table.WeightFor(kind)
	if err != nil {
		t.bus.Publish(eventbus.ErrorEvent{
			Message: fmt.Sprintf("dropping usage event for %s", path),
			Err:     err,
		})
		return
	}

	category := domain.CategoryFiles
	if kind == domain.KindDirVisit {
		category = domain.CategoryDirs
	}

	go t.updater.RecordUsage(context.Background(), path, weight, category)
}
