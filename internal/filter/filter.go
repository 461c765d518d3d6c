// Package filter decides which scanned entries are shown and which may be
// selected. It never touches scan state; changing a Config only changes
// the result of the next Apply.
package filter

import (
	"sort"

	"filechooser/internal/config"
	"filechooser/internal/portal"
	"filechooser/pkg/types"

	"github.com/sahilm/fuzzy"
)

// Config is the set of view predicates.
type Config struct {
	ShowHidden    bool
	PreviewImages bool
	MatchKind     types.MatchKind

	// Search is a fuzzy name query; empty shows everything.
	Search string

	// Matcher restricts which files are shown. Directories are never
	// filtered by it. A nil Matcher matches all files.
	Matcher *portal.Matcher
}

// Default returns the configuration used before any options are applied.
func Default() Config {
	return Config{PreviewImages: true, MatchKind: types.FileOnly}
}

// FromConfig builds a Config from the browser section of the user config.
func FromConfig(c *config.Config) Config {
	cfg := Default()
	cfg.ShowHidden = c.Browser.ShowHidden
	cfg.PreviewImages = c.Browser.PreviewImages
	return cfg
}

// Visible reports whether e passes the hidden and file-type predicates.
// The search query is applied by Apply.
func (c Config) Visible(e types.Entry) bool {
	if !c.ShowHidden && e.IsHidden() {
		return false
	}
	if e.IsDir() {
		return true
	}
	return c.Matcher.Match(e.Name(), types.MimeTypesOf(e))
}

// Matches reports whether e has the kind the chooser is selecting.
func (c Config) Matches(e types.Entry) bool {
	switch c.MatchKind {
	case types.FileOnly:
		return !e.IsDir()
	case types.DirectoryOnly:
		return e.IsDir()
	}
	return true
}

// Eligible reports whether e may be toggled or activated: it must be
// readable and of the target kind.
func Eligible(e types.Entry, kind types.MatchKind, readable bool) bool {
	return readable && Config{MatchKind: kind}.Matches(e)
}

// Result is the outcome of Apply.
type Result struct {
	Entries   []types.Entry // at most cap entries, in scan order
	Matched   int           // entries that passed every predicate
	Truncated bool
}

// Apply filters entries, which must already be sorted, and keeps at most
// limit of them. A limit below one disables capping. Order is preserved
// even when a search query is active.
func Apply(entries []types.Entry, cfg Config, limit int) Result {
	visible := make([]types.Entry, 0, len(entries))
	for _, e := range entries {
		if cfg.Visible(e) {
			visible = append(visible, e)
		}
	}
	if cfg.Search != "" {
		visible = search(visible, cfg.Search)
	}

	res := Result{Entries: visible, Matched: len(visible)}
	if limit > 0 && len(visible) > limit {
		res.Entries = visible[:limit]
		res.Truncated = true
	}
	return res
}

type names []types.Entry

func (n names) String(i int) string { return n[i].Name() }
func (n names) Len() int { return len(n) }

func search(entries []types.Entry, query string) []types.Entry {
	matches := fuzzy.FindFrom(query, names(entries))
	idx := make([]int, len(matches))
	for i, m := range matches {
		idx[i] = m.Index
	}
	sort.Ints(idx)
	out := make([]types.Entry, len(idx))
	for i, j := range idx {
		out[i] = entries[j]
	}
	return out
}

// Search holds a query being typed and the query last committed. Only the
// committed query filters the view.
type Search struct {
	draft     string
	committed string
}

// SetDraft replaces the pending query.
func (s *Search) SetDraft(q string) { s.draft = q }

// Draft returns the pending query.
func (s *Search) Draft() string { return s.draft }

// Commit makes the pending query the active one and returns it.
func (s *Search) Commit() string {
	s.committed = s.draft
	return s.committed
}

// Query returns the committed query.
func (s *Search) Query() string { return s.committed }

// Reset clears both queries.
func (s *Search) Reset() {
	s.draft, s.committed = "", ""
}
