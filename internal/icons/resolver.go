// Package icons resolves display icons and preview handles for entries.
package icons

import (
	"filechooser/internal/mimeinfo"
	"filechooser/pkg/types"
)

// PreviewKind says how an entry should be drawn.
type PreviewKind int

const (
	// PreviewIcon draws the themed icon
	PreviewIcon PreviewKind = iota
	// PreviewVector draws the file itself as a vector image
	PreviewVector
	// PreviewRaster draws the file itself as a bitmap
	PreviewRaster
)

func (p PreviewKind) String() string {
	switch p {
	case PreviewVector:
		return "vector"
	case PreviewRaster:
		return "raster"
	}
	return "icon"
}

// Resolver maps entries to icon names and image handles.
type Resolver struct {
	mime  mimeinfo.Sniffer
	cache *Cache
	theme string
}

// NewResolver creates a resolver using sniffer for MIME lookups and cache
// for handles.
func NewResolver(sniffer mimeinfo.Sniffer, cache *Cache, theme string) *Resolver {
	return &Resolver{mime: sniffer, cache: cache, theme: theme}
}

// Theme returns the icon theme name.
func (r *Resolver) Theme() string {
	return r.theme
}

// Cache returns the handle cache.
func (r *Resolver) Cache() *Cache {
	return r.cache
}

// IconForName returns the generic icon of the first MIME candidate for a
// file name, together with all candidates. Names without candidates get
// the plain text icon.
func (r *Resolver) IconForName(name string) (string, []string) {
	mimes := r.mime.TypesForName(name)
	return r.IconForTypes(mimes), mimes
}

// IconForTypes returns the generic icon of the first candidate.
func (r *Resolver) IconForTypes(mimes []string) string {
	if len(mimes) == 0 {
		return types.TextIcon
	}
	return r.mime.GenericIcon(mimes[0])
}

// Resolve returns the icon name for an entry.
func (r *Resolver) Resolve(e types.Entry) string {
	if e.IsDir() {
		return types.DirectoryIcon
	}
	return e.Icon()
}

// Preview decides whether the entry is drawn from its own content.
// Vector images always preview; raster images only when previewImages is on.
func (r *Resolver) Preview(e types.Entry, previewImages bool) PreviewKind {
	f, ok := e.(*types.File)
	if !ok {
		return PreviewIcon
	}
	if f.IsSVG() {
		return PreviewVector
	}
	if previewImages && f.IsImage() {
		return PreviewRaster
	}
	return PreviewIcon
}

// Handle returns the image to draw for e: the file itself for previews,
// the themed icon otherwise.
func (r *Resolver) Handle(e types.Entry, previewImages bool) *Handle {
	if r.Preview(e, previewImages) != PreviewIcon {
		return r.cache.LoadPath(e.Path())
	}
	return r.cache.Load(r.theme, r.Resolve(e))
}

// BackHandle returns the handle for the parent-directory row.
func (r *Resolver) BackHandle() *Handle {
	return r.cache.Load(r.theme, types.BackIcon)
}
