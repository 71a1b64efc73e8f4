package pathfilter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRejectsEmptyPath(t *testing.T) {
	f := New(nil)
	require.False(t, f.IsTrackable(""))
}

func TestRejectsPathsWithColon(t *testing.T) {
	f := New(nil)
	// Colons mark virtual/scratch buffer identifiers, not real paths.
	require.False(t, f.IsTrackable("untitled:Untitled-1"))
	require.False(t, f.IsTrackable("/home/u/a:b.txt"))
}

func TestRejectsExcludedGlobs(t *testing.T) {
	f := New([]string{"**/.git/**", "**/node_modules/**"})
	require.False(t, f.IsTrackable("/home/u/project/.git/HEAD"))
	require.False(t, f.IsTrackable("/home/u/project/node_modules/x/index.js"))
	require.True(t, f.IsTrackable("/home/u/project/src/main.go"))
}

func TestAcceptsOrdinaryPaths(t *testing.T) {
	f := New([]string{"**/.git/**"})
	require.True(t, f.IsTrackable("/home/u/notes.md"))
}

func TestInvalidGlobIsIgnored(t *testing.T) {
	f := New([]string{"[", "**/.git/**"})
	require.True(t, f.IsTrackable("/home/u/notes.md"))
	require.False(t, f.IsTrackable("/home/u/.git/config"))
}
