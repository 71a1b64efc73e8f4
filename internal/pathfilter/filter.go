package pathfilter

import (
	"log"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter decides whether a filesystem path is eligible for tracking.
// It only inspects the path string; origin-scheme checks happen upstream
// at the event-observation boundary.
type Filter struct {
	exclude []string
}

// New creates a filter from configured exclusion globs. Invalid globs are
// dropped with a log entry rather than failing the session.
func New(exclude []string) *Filter {
	globs := make([]string, 0, len(exclude))
	for _, g := range exclude {
		if !doublestar.ValidatePattern(g) {
			log.Printf("Ignoring invalid exclusion glob %q", g)
			continue
		}
		globs = append(globs, g)
	}
	return &Filter{exclude: globs}
}

// IsTrackable reports whether a path may be recorded. Rules apply in
// order; any match rejects:
//   - empty path
//   - path containing a colon (virtual/scratch buffer identifiers)
//   - path matching a configured exclusion glob
func (f *Filter) IsTrackable(path string) bool {
	if path == "" {
		return false
	}
	if strings.Contains(path, ":") {
		return false
	}
	for _, g := range f.exclude {
		if ok, _ := doublestar.Match(g, path); ok {
			return false
		}
	}
	return true
}
