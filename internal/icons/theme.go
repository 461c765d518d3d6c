package icons

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// ThemeLookup finds an icon file in an installed theme.
type ThemeLookup interface {
	Lookup(theme, name string) (string, bool)
}

// FallbackTheme is searched after the requested theme.
const FallbackTheme = "hicolor"

var (
	iconSizes    = []string{"scalable", "symbolic", "256x256", "128x128", "96x96", "64x64", "48x48", "32x32", "24x24", "22x22", "16x16"}
	iconContexts = []string{"mimetypes", "places", "actions", "status", "devices", "apps"}
	iconExts     = []string{".svg", ".png"}
)

// XDGLookup searches the XDG icon directories. Both the
// "<size>/<context>" and "<context>/<size>" theme layouts are accepted.
type XDGLookup struct {
	bases []string
}

// NewXDGLookup builds a lookup over the standard icon base directories,
// preceded by any extra directories. XDG_DATA_HOME and XDG_DATA_DIRS are
// read through the xdg package, so a caller that changes them must call
// xdg.Reload first.
func NewXDGLookup(extra ...string) *XDGLookup {
	bases := append([]string(nil), extra...)
	if xdg.Home != "" {
		bases = append(bases, filepath.Join(xdg.Home, ".icons"))
	}
	if xdg.DataHome != "" {
		bases = append(bases, filepath.Join(xdg.DataHome, "icons"))
	}
	for _, d := range xdg.DataDirs {
		if d != "" {
			bases = append(bases, filepath.Join(d, "icons"))
		}
	}
	bases = append(bases, "/usr/share/pixmaps")
	return &XDGLookup{bases: bases}
}

// Bases returns the directories searched, in order.
func (x *XDGLookup) Bases() []string {
	return append([]string(nil), x.bases...)
}

// Lookup returns the path of the best match for name in theme, falling
// back to the hicolor theme and then to unthemed pixmaps.
func (x *XDGLookup) Lookup(theme, name string) (string, bool) {
	themes := []string{theme}
	if theme != FallbackTheme {
		themes = append(themes, FallbackTheme)
	}
	candidates := []string{name}
	if !strings.HasSuffix(name, "-symbolic") {
		candidates = append(candidates, name+"-symbolic")
	}

	for _, th := range themes {
		for _, base := range x.bases {
			root := filepath.Join(base, th)
			if info, err := os.Stat(root); err != nil || !info.IsDir() {
				continue
			}
			for _, size := range iconSizes {
				for _, ctx := range iconContexts {
					for _, n := range candidates {
						for _, ext := range iconExts {
							if p := existing(filepath.Join(root, size, ctx, n+ext)); p != "" {
								return p, true
							}
							if p := existing(filepath.Join(root, ctx, size, n+ext)); p != "" {
								return p, true
							}
						}
					}
				}
			}
		}
	}

	for _, base := range x.bases {
		for _, ext := range iconExts {
			if p := existing(filepath.Join(base, name+ext)); p != "" {
				return p, true
			}
		}
	}
	return "", false
}

func existing(p string) string {
	if info, err := os.Stat(p); err == nil && !info.IsDir() {
		return p
	}
	return ""
}
