package domain

// Category selects which side of the ranked store an operation targets.
type Category string

const (
	CategoryFiles Category = "files"
	CategoryDirs  Category = "dirs"
)

// EventKind identifies the editor interaction that produced a usage event.
type EventKind string

const (
	KindOpen       EventKind = "open"
	KindManualSave EventKind = "manual-save"
	KindAutoSave   EventKind = "auto-save"
	KindActive     EventKind = "active-focus"
	KindDirVisit   EventKind = "directory-visit"
)

// SchemeFile is the only origin scheme whose paths are trackable.
const SchemeFile = "file"

// UsageEvent represents one observed interaction with a path.
// It is ephemeral: produced by an event source, consumed by the tracker,
// never persisted.
type UsageEvent struct {
	Path   string
	Kind   EventKind
	Scheme string // origin of the path; must be SchemeFile to be tracked
}

// ResultItem is one ranked entry returned by the engine, prepared for display.
type ResultItem struct {
	Label       string // basename
	Description string // displayed path, tilde-preserving if so configured
	Resolved    string // path with any home tilde expanded, for filesystem use
}

// SyntaxMode selects the engine's query syntax.
type SyntaxMode string

const (
	SyntaxExtended SyntaxMode = "extended"
	SyntaxFuzzy    SyntaxMode = "fuzzy"
)

// CaseMode selects the engine's case sensitivity handling.
type CaseMode string

const (
	CaseDefault     CaseMode = "default"
	CaseSensitive   CaseMode = "sensitive"
	CaseInsensitive CaseMode = "insensitive"
)
