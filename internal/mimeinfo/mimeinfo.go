// Package mimeinfo guesses MIME types for file names and maps them to
// generic icon names, following the shared-mime-info conventions used by
// desktop icon themes.
package mimeinfo

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Sniffer guesses MIME types from names and maps them to generic icons.
type Sniffer interface {
	// TypesForName returns candidate MIME types in preference order.
	TypesForName(name string) []string
	// GenericIcon returns the icon name for a MIME type.
	GenericIcon(mimeType string) string
}

// Database is the default Sniffer. It consults a built-in glob table first
// and the platform's extension registry second.
type Database struct {
	byName map[string][]string
	byExt  map[string][]string
	icons  map[string]string
}

var _ Sniffer = (*Database)(nil)

// NewDatabase returns a Database populated with the built-in tables.
func NewDatabase() *Database {
	return &Database{
		byName: map[string][]string{
			"makefile":   {"text/x-makefile"},
			"dockerfile": {"text/x-dockerfile"},
			"readme":     {"text/x-readme", "text/plain"},
			"license":    {"text/plain"},
			"go.mod":     {"text/x-go-mod", "text/plain"},
		},
		byExt: builtinExtensions,
		icons: builtinIcons,
	}
}

// TypesForName returns the MIME candidates for name. Compound extensions
// such as ".tar.gz" take precedence over their last component. Matching is
// case-insensitive.
func (d *Database) TypesForName(name string) []string {
	lower := strings.ToLower(name)
	if types, ok := d.byName[lower]; ok {
		return append([]string(nil), types...)
	}

	var out []string
	seen := map[string]bool{}
	add := func(types ...string) {
		for _, t := range types {
			if t != "" && !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}

	trimmed := strings.TrimPrefix(lower, ".")
	if i := strings.Index(trimmed, "."); i >= 0 {
		for rest := trimmed[i:]; rest != ""; {
			if types, ok := d.byExt[rest]; ok {
				add(types...)
				break
			}
			j := strings.Index(rest[1:], ".")
			if j < 0 {
				break
			}
			rest = rest[j+1:]
		}
	}

	ext := filepath.Ext(lower)
	if ext == "" || ext == lower {
		return out
	}
	if types, ok := d.byExt[ext]; ok {
		add(types...)
	}
	if t := mime.TypeByExtension(ext); t != "" {
		add(stripParams(t))
	}
	return out
}

// GenericIcon maps a MIME type to an icon name. Types without an explicit
// entry use "<media>-x-generic".
func (d *Database) GenericIcon(mimeType string) string {
	mimeType = stripParams(strings.ToLower(mimeType))
	if icon, ok := d.icons[mimeType]; ok {
		return icon
	}
	media, _, _ := strings.Cut(mimeType, "/")
	switch media {
	case "text":
		return "text-x-generic"
	case "":
		return "text-plain"
	}
	return media + "-x-generic"
}

// DetectFile sniffs the content of path. It is the fallback for files
// whose name yields no candidate.
func (d *Database) DetectFile(path string) (string, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", err
	}
	return stripParams(mt.String()), nil
}

func stripParams(t string) string {
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}
