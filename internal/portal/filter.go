package portal

import (
	"encoding/json"
	"fmt"
	"strings"

	"filechooser/internal/errors"

	"github.com/gobwas/glob"
)

// PatternKind distinguishes glob patterns from MIME type patterns.
type PatternKind uint32

const (
	GlobPattern PatternKind = 0
	MimePattern PatternKind = 1
)

// Pattern is one (kind, value) pair of a FileFilter.
type Pattern struct {
	Kind  PatternKind
	Value string
}

// FileFilter is a labelled set of patterns; a file matches if any pattern
// matches.
type FileFilter struct {
	Label    string
	Patterns []Pattern
}

// DefaultFilter matches every file.
func DefaultFilter() FileFilter {
	return FileFilter{Label: "All files: (*)", Patterns: []Pattern{{Kind: GlobPattern, Value: "*"}}}
}

// NewGlobFilter builds a filter from glob patterns.
func NewGlobFilter(label string, globs ...string) FileFilter {
	f := FileFilter{Label: label}
	for _, g := range globs {
		f.Patterns = append(f.Patterns, Pattern{Kind: GlobPattern, Value: g})
	}
	return f
}

// NewMimeFilter builds a filter from MIME type patterns such as "image/*".
func NewMimeFilter(label string, mimes ...string) FileFilter {
	f := FileFilter{Label: label}
	for _, m := range mimes {
		f.Patterns = append(f.Patterns, Pattern{Kind: MimePattern, Value: m})
	}
	return f
}

// MarshalJSON encodes the filter in its tuple form:
// ["label", [[0, "*.png"], [1, "image/jpeg"]]].
func (f FileFilter) MarshalJSON() ([]byte, error) {
	pairs := make([][2]interface{}, len(f.Patterns))
	for i, p := range f.Patterns {
		pairs[i] = [2]interface{}{p.Kind, p.Value}
	}
	return json.Marshal([2]interface{}{f.Label, pairs})
}

// UnmarshalJSON decodes the tuple form produced by MarshalJSON.
func (f *FileFilter) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return errors.NewSerializationError("filter must be a [label, patterns] pair", "filter", err)
	}
	if len(tuple) != 2 {
		return errors.NewSerializationError(fmt.Sprintf("filter has %d members, want 2", len(tuple)), "filter", nil)
	}
	var label string
	if err := json.Unmarshal(tuple[0], &label); err != nil {
		return errors.NewSerializationError("filter label must be a string", "filter.label", err)
	}
	var raw [][]json.RawMessage
	if err := json.Unmarshal(tuple[1], &raw); err != nil {
		return errors.NewSerializationError("filter patterns must be a list of pairs", "filter.patterns", err)
	}
	patterns := make([]Pattern, 0, len(raw))
	for i, pair := range raw {
		if len(pair) != 2 {
			return errors.NewSerializationError(fmt.Sprintf("pattern %d is not a pair", i), "filter.patterns", nil)
		}
		var p Pattern
		if err := json.Unmarshal(pair[0], &p.Kind); err != nil {
			return errors.NewSerializationError(fmt.Sprintf("pattern %d kind", i), "filter.patterns", err)
		}
		if p.Kind != GlobPattern && p.Kind != MimePattern {
			return errors.NewSerializationError(fmt.Sprintf("pattern %d has unknown kind %d", i, p.Kind), "filter.patterns", nil)
		}
		if err := json.Unmarshal(pair[1], &p.Value); err != nil {
			return errors.NewSerializationError(fmt.Sprintf("pattern %d value", i), "filter.patterns", err)
		}
		patterns = append(patterns, p)
	}
	f.Label = label
	f.Patterns = patterns
	return nil
}

// Matcher is a compiled FileFilter.
type Matcher struct {
	label string
	globs []glob.Glob
	mimes []glob.Glob
}

// Compile prepares the filter for matching. Invalid glob syntax is a
// SerializationError.
func (f FileFilter) Compile() (*Matcher, error) {
	m := &Matcher{label: f.Label}
	for _, p := range f.Patterns {
		switch p.Kind {
		case GlobPattern:
			g, err := glob.Compile(p.Value)
			if err != nil {
				return nil, errors.NewSerializationError("invalid glob "+p.Value, "filter.patterns", err)
			}
			m.globs = append(m.globs, g)
		case MimePattern:
			g, err := glob.Compile(strings.ToLower(p.Value), '/')
			if err != nil {
				return nil, errors.NewSerializationError("invalid mime pattern "+p.Value, "filter.patterns", err)
			}
			m.mimes = append(m.mimes, g)
		}
	}
	return m, nil
}

// Label returns the filter label.
func (m *Matcher) Label() string {
	return m.label
}

// Match reports whether a file with the given name and MIME candidates
// passes the filter. A nil Matcher matches everything.
func (m *Matcher) Match(name string, mimes []string) bool {
	if m == nil {
		return true
	}
	for _, g := range m.globs {
		if g.Match(name) {
			return true
		}
	}
	for _, want := range m.mimes {
		for _, have := range mimes {
			if want.Match(strings.ToLower(have)) {
				return true
			}
		}
	}
	return false
}
