package engine

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"frecfind/internal/domain"
)

// ansiRE matches ANSI escape sequences:
//   - CSI sequences: ESC [ ... final_byte  (covers SGR like \x1b[31m)
//   - OSC sequences: ESC ] ... (ST | BEL)
//   - Charset and other two-byte escape sequences
var ansiRE = regexp.MustCompile(`\x1b(?:` +
	`\[[0-9;]*[A-Za-z]` +
	`|` +
	`\].*?(?:\x1b\\|\x07)` +
	`|` +
	`[()][A-B0-2]` +
	`|` +
	`[#()*+\-./][A-Za-z0-9]` +
	`)`)

// StripANSI removes ANSI escape sequences from a string.
func StripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

// CleanLines turns raw engine stdout into the ordered result list: each
// line trimmed and stripped of color escapes, empty lines removed. The
// engine's ordering is preserved exactly; no sorting, deduplication, or
// client-side filtering happens here or anywhere downstream.
func CleanLines(raw string) []string {
	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(StripANSI(line))
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// ExpandTilde resolves a leading "~" or "~/" against the user's home
// directory. Paths without a tilde pass through unchanged.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

// MakeItem prepares one engine result line for display. The description
// keeps whatever form the engine printed (tilde-preserving if the query
// asked for it); the resolved path is what filesystem operations use.
func MakeItem(line string) domain.ResultItem {
	resolved := ExpandTilde(line)
	return domain.ResultItem{
		Label:       filepath.Base(resolved),
		Description: line,
		Resolved:    resolved,
	}
}

// MakeItems maps engine result lines to display items, preserving order.
func MakeItems(lines []string) []domain.ResultItem {
	items := make([]domain.ResultItem, len(lines))
	for i, line := range lines {
		items[i] = MakeItem(line)
	}
	return items
}
