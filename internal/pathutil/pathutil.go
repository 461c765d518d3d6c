// Package pathutil answers path identity questions for the chooser.
package pathutil

import (
	"path/filepath"
	"strings"
)

// RootName is the display name of the filesystem root.
const RootName = "/"

// Canonical returns the absolute, symlink-free form of p.
func Canonical(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// SamePath reports whether a and b name the same filesystem object.
// It is false when either path cannot be canonicalised.
func SamePath(a, b string) bool {
	ca, err := Canonical(a)
	if err != nil {
		return false
	}
	cb, err := Canonical(b)
	if err != nil {
		return false
	}
	return ca == cb
}

// DisplayName returns the final path component, or RootName for the root.
func DisplayName(p string) string {
	clean := filepath.Clean(p)
	if clean == string(filepath.Separator) {
		return RootName
	}
	return filepath.Base(clean)
}

// Parent returns the directory containing p. The root has no parent.
func Parent(p string) (string, bool) {
	clean := filepath.Clean(p)
	if clean == string(filepath.Separator) || clean == "." {
		return "", false
	}
	return filepath.Dir(clean), true
}

// Breadcrumbs splits an absolute path into cumulative prefixes, root first:
// "/a/b" yields ["/", "/a", "/a/b"].
func Breadcrumbs(p string) []string {
	clean := filepath.Clean(p)
	if !filepath.IsAbs(clean) {
		if abs, err := filepath.Abs(clean); err == nil {
			clean = abs
		}
	}
	crumbs := []string{string(filepath.Separator)}
	if clean == string(filepath.Separator) {
		return crumbs
	}
	acc := ""
	for _, part := range strings.Split(strings.TrimPrefix(clean, string(filepath.Separator)), string(filepath.Separator)) {
		acc += string(filepath.Separator) + part
		crumbs = append(crumbs, acc)
	}
	return crumbs
}
