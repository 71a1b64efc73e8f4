package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"frecfind/internal/domain"
	"frecfind/internal/eventbus"
)

type watchFixture struct {
	bus    eventbus.EventBus
	usage  chan domain.UsageEvent
	added  chan string
	root   string
	cancel context.CancelFunc
}

func startWatcher(t *testing.T) *watchFixture {
	t.Helper()

	bus := eventbus.New()
	f := &watchFixture{
		bus:   bus,
		usage: make(chan domain.UsageEvent, 16),
		added: make(chan string, 16),
		root:  t.TempDir(),
	}

	bus.Subscribe(eventbus.EventUsageObserved, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.UsageObservedEvent); ok {
			f.usage <- ev.Event
		}
	})
	bus.Subscribe(eventbus.EventWorkspaceAdded, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.WorkspaceAddedEvent); ok {
			f.added <- ev.Path
		}
	})

	w, err := New(bus, 50*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	go func() { _ = w.Run(ctx, []string{f.root}) }()
	t.Cleanup(func() {
		cancel()
		bus.Close()
	})

	// Give the watcher a moment to register the root.
	time.Sleep(100 * time.Millisecond)
	return f
}

func (f *watchFixture) nextUsage(t *testing.T) domain.UsageEvent {
	t.Helper()
	select {
	case ev := <-f.usage:
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for a usage event")
		return domain.UsageEvent{}
	}
}

func TestCreatedFileBecomesOpenEvent(t *testing.T) {
	f := startWatcher(t)

	path := filepath.Join(f.root, "new.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	ev := f.nextUsage(t)
	require.Equal(t, domain.KindOpen, ev.Kind)
	require.Equal(t, path, ev.Path)
	require.Equal(t, domain.SchemeFile, ev.Scheme)
}

func TestWriteBurstBecomesOneSaveEvent(t *testing.T) {
	f := startWatcher(t)

	path := filepath.Join(f.root, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0644))

	// Drain the create-open event.
	ev := f.nextUsage(t)
	require.Equal(t, domain.KindOpen, ev.Kind)

	// A burst of writes within the debounce window.
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("more"), 0644))
		time.Sleep(10 * time.Millisecond)
	}

	ev = f.nextUsage(t)
	require.Equal(t, domain.KindManualSave, ev.Kind)
	require.Equal(t, path, ev.Path)

	// The burst collapsed; nothing further arrives.
	select {
	case extra := <-f.usage:
		t.Fatalf("unexpected extra event: %+v", extra)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestInterleavedWritesToTwoFilesBothSave(t *testing.T) {
	f := startWatcher(t)

	one := filepath.Join(f.root, "one.txt")
	two := filepath.Join(f.root, "two.txt")
	require.NoError(t, os.WriteFile(one, []byte("v1"), 0644))
	require.NoError(t, os.WriteFile(two, []byte("v1"), 0644))

	// Drain the two create-open events.
	require.Equal(t, domain.KindOpen, f.nextUsage(t).Kind)
	require.Equal(t, domain.KindOpen, f.nextUsage(t).Kind)

	// Writes to both files interleave inside the debounce window. Each
	// file still gets its own save; one file's burst must not swallow the
	// other's.
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(one, []byte("more"), 0644))
		require.NoError(t, os.WriteFile(two, []byte("more"), 0644))
		time.Sleep(10 * time.Millisecond)
	}

	saved := map[string]int{}
	for i := 0; i < 2; i++ {
		ev := f.nextUsage(t)
		require.Equal(t, domain.KindManualSave, ev.Kind)
		saved[ev.Path]++
	}
	require.Equal(t, map[string]int{one: 1, two: 1}, saved)

	select {
	case extra := <-f.usage:
		t.Fatalf("unexpected extra event: %+v", extra)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestNewDirectoryJoinsWatchSet(t *testing.T) {
	f := startWatcher(t)

	sub := filepath.Join(f.root, "newdir")
	require.NoError(t, os.Mkdir(sub, 0755))

	select {
	case added := <-f.added:
		require.Equal(t, sub, added)
	case <-time.After(3 * time.Second):
		t.Fatal("new directory was not added to the watch set")
	}

	ev := f.nextUsage(t)
	require.Equal(t, domain.KindDirVisit, ev.Kind)

	// Files created inside the new directory are now observed too.
	inner := filepath.Join(sub, "inner.txt")
	require.NoError(t, os.WriteFile(inner, []byte("x"), 0644))

	ev = f.nextUsage(t)
	require.Equal(t, domain.KindOpen, ev.Kind)
	require.Equal(t, inner, ev.Path)
}

func TestHiddenDirectoriesAreSkipped(t *testing.T) {
	f := startWatcher(t)

	hidden := filepath.Join(f.root, ".git")
	require.NoError(t, os.Mkdir(hidden, 0755))

	select {
	case added := <-f.added:
		t.Fatalf("hidden directory should not join the watch set: %s", added)
	case <-time.After(300 * time.Millisecond):
	}
}
