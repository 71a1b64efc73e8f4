package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"frecfind/internal/domain"
	"frecfind/internal/eventbus"
	"frecfind/internal/pathfilter"
)

// writeScript creates an executable shell script standing in for the
// external engine binary.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-engine")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func newTestClient(t *testing.T, command string, opts Options) *Client {
	t.Helper()
	c, err := New(command, opts, pathfilter.New([]string{"**/.git/**"}), nil)
	require.NoError(t, err)
	return c
}

func TestFindReturnsEngineOrderVerbatim(t *testing.T) {
	bin := writeScript(t, `printf 'b\na\nc\n'`)
	c := newTestClient(t, bin, Options{})

	lines := c.Find(context.Background(), domain.CategoryFiles, "x")
	require.Equal(t, []string{"b", "a", "c"}, lines, "engine ordering is authoritative")
}

func TestFindFailureReturnsEmptyNotError(t *testing.T) {
	bin := writeScript(t, `exit 3`)
	c := newTestClient(t, bin, Options{})

	lines := c.Find(context.Background(), domain.CategoryFiles, "x")
	require.Empty(t, lines)
}

func TestFindMissingBinaryReturnsEmpty(t *testing.T) {
	c := newTestClient(t, "/nonexistent/frecd-missing", Options{})
	require.Empty(t, c.Find(context.Background(), domain.CategoryFiles, "x"))
}

func TestFindFailurePublishesDiagnostic(t *testing.T) {
	bin := writeScript(t, `exit 1`)
	bus := eventbus.New()
	defer bus.Close()

	failed := make(chan eventbus.QueryFailedEvent, 1)
	bus.Subscribe(eventbus.EventQueryFailed, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.QueryFailedEvent); ok {
			select {
			case failed <- ev:
			default:
			}
		}
	})

	c, err := New(bin, Options{}, pathfilter.New(nil), bus)
	require.NoError(t, err)

	require.Empty(t, c.Find(context.Background(), domain.CategoryFiles, "broken"))

	select {
	case ev := <-failed:
		require.Equal(t, "broken", ev.Query)
		require.Error(t, ev.Err)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a QueryFailed diagnostic event")
	}
}

func TestFindBuildsRequestFromOptions(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	bin := writeScript(t, `printf '%s\n' "$@" > `+argsFile)
	c := newTestClient(t, bin, Options{
		ResultCap: 10,
		Syntax:    domain.SyntaxFuzzy,
		Case:      domain.CaseInsensitive,
		HomeTilde: true,
		Relative:  true,
	})

	c.Find(context.Background(), domain.CategoryFiles, "readme")

	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	require.Equal(t,
		"find\n--type\nfiles\n--limit\n10\n--fuzzy\n--case-insensitive\n--tilde\n--relative\nreadme\n",
		string(data))
}

func TestFindDefaultModesEmitNoFlags(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	bin := writeScript(t, `printf '%s\n' "$@" > `+argsFile)
	c := newTestClient(t, bin, Options{})

	c.Find(context.Background(), domain.CategoryDirs, "")

	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	require.Equal(t, "find\n--type\ndirs\n", string(data))
}

func TestRecordUsageInvokesUpdate(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	bin := writeScript(t, `printf '%s\n' "$@" > `+argsFile)
	c := newTestClient(t, bin, Options{})

	c.RecordUsage(context.Background(), "/home/u/a.txt", 0.3, domain.CategoryFiles)

	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	require.Equal(t, "update\n--type\nfiles\n--weight\n0.3\n/home/u/a.txt\n", string(data))
}

func TestRecordUsageEmptyPathIsNoop(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	bin := writeScript(t, `printf '%s\n' "$@" > `+argsFile)
	c := newTestClient(t, bin, Options{})

	c.RecordUsage(context.Background(), "", 1.0, domain.CategoryFiles)

	_, err := os.Stat(argsFile)
	require.True(t, os.IsNotExist(err), "no engine invocation for an empty path")
}

func TestRecordUsageRespectsPathFilter(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	bin := writeScript(t, `printf '%s\n' "$@" > `+argsFile)
	c := newTestClient(t, bin, Options{})

	c.RecordUsage(context.Background(), "/home/u/p/.git/HEAD", 1.0, domain.CategoryFiles)
	c.RecordUsage(context.Background(), "scratch:buffer-1", 1.0, domain.CategoryFiles)

	_, err := os.Stat(argsFile)
	require.True(t, os.IsNotExist(err), "filtered paths are silently dropped")
}

func TestRecordUsageDirCategorySkipsFileFilter(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	bin := writeScript(t, `printf '%s\n' "$@" > `+argsFile)
	c := newTestClient(t, bin, Options{})

	c.RecordUsage(context.Background(), "/home/u/p/.git", 1.0, domain.CategoryDirs)

	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	require.Contains(t, string(data), "--type\ndirs\n")
}

func TestRecordUsageSwallowsFailure(t *testing.T) {
	bin := writeScript(t, `exit 1`)
	c := newTestClient(t, bin, Options{})

	// Must not panic or surface anything.
	c.RecordUsage(context.Background(), "/home/u/a.txt", 1.0, domain.CategoryFiles)
}

func TestInstalled(t *testing.T) {
	c := newTestClient(t, "sh", Options{})
	require.True(t, c.Installed())

	c = newTestClient(t, "frecd-definitely-not-installed", Options{})
	require.False(t, c.Installed())
}

func TestNewRejectsEmptyCommand(t *testing.T) {
	_, err := New("", Options{}, pathfilter.New(nil), nil)
	require.Error(t, err)
}
