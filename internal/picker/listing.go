package picker

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"frecfind/internal/domain"
)

// ListDir produces the one-shot listing used by the nested directory pick:
// a recursive walk of dir, minus entries matching the exclusion glob,
// capped at max items. The listing is static; there is no incremental
// re-query against it.
func ListDir(dir, excludeGlob string, max int) ([]domain.ResultItem, error) {
	if max <= 0 {
		max = 500
	}

	var items []domain.ResultItem
	errStop := fmt.Errorf("listing cap reached")

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries, keep walking
		}
		if d.IsDir() {
			if path == dir {
				return nil
			}
			rel, _ := filepath.Rel(dir, path)
			if excluded(excludeGlob, rel) {
				return fs.SkipDir
			}
			return nil
		}

		rel, _ := filepath.Rel(dir, path)
		if excluded(excludeGlob, rel) {
			return nil
		}

		items = append(items, domain.ResultItem{
			Label:       d.Name(),
			Description: rel,
			Resolved:    path,
		})
		if len(items) >= max {
			return errStop
		}
		return nil
	})

	if err != nil && err != errStop {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	return items, nil
}

func excluded(glob, rel string) bool {
	if glob == "" {
		return false
	}
	ok, err := doublestar.Match(glob, rel)
	return err == nil && ok
}
