package icons

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"filechooser/internal/mimeinfo"
	"filechooser/pkg/types"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLookup struct {
	calls atomic.Int64
	found map[string]string
	gate  chan struct{}
}

func (l *countingLookup) Lookup(theme, name string) (string, bool) {
	l.calls.Add(1)
	if l.gate != nil {
		<-l.gate
	}
	p, ok := l.found[theme+"/"+name]
	return p, ok
}

func newFile(name string, r *Resolver) *types.File {
	icon, mimes := r.IconForName(name)
	return types.NewFile(types.Attrs{Name: name, Path: "/tmp/" + name}, icon, mimes)
}

func TestResolve(t *testing.T) {
	r := NewResolver(mimeinfo.NewDatabase(), NewCache(nil), "Adwaita")

	dir := types.NewDirectory(types.Attrs{Name: "docs", Path: "/tmp/docs"})
	assert.Equal(t, types.DirectoryIcon, r.Resolve(dir))

	assert.Equal(t, types.ImageIcon, r.Resolve(newFile("a.png", r)))
	assert.Equal(t, types.TextIcon, r.Resolve(newFile("README.unknownext", r)))
	assert.Equal(t, types.TextIcon, r.Resolve(newFile("noext", r)))
	assert.Equal(t, "audio-x-generic", r.Resolve(newFile("song.mp3", r)))
}

func TestPreview(t *testing.T) {
	r := NewResolver(mimeinfo.NewDatabase(), NewCache(nil), "Adwaita")

	svg := newFile("logo.svg", r)
	png := newFile("photo.png", r)
	txt := newFile("notes.txt", r)
	dir := types.NewDirectory(types.Attrs{Name: "d", Path: "/tmp/d"})

	assert.Equal(t, PreviewVector, r.Preview(svg, false))
	assert.Equal(t, PreviewVector, r.Preview(svg, true))
	assert.Equal(t, PreviewRaster, r.Preview(png, true))
	assert.Equal(t, PreviewIcon, r.Preview(png, false))
	assert.Equal(t, PreviewIcon, r.Preview(txt, true))
	assert.Equal(t, PreviewIcon, r.Preview(dir, true))

	h := r.Handle(png, true)
	assert.Equal(t, SourceFile, h.Source)
	assert.Equal(t, png.Path(), h.Path)

	h = r.Handle(png, false)
	assert.Equal(t, SourceBuiltin, h.Source)
}

func TestCacheLoadFallsBackToBuiltin(t *testing.T) {
	c := NewCache(&countingLookup{found: map[string]string{}})

	dirIcon := c.Load("Adwaita", types.DirectoryIcon)
	assert.Equal(t, SourceBuiltin, dirIcon.Source)
	assert.Equal(t, types.DirectoryIcon, dirIcon.Name)
	data, err := dirIcon.Data()
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	other := c.Load("Adwaita", "x-office-document")
	assert.Equal(t, types.TextIcon, other.Name)

	back := c.Load("Adwaita", types.BackIcon)
	assert.Equal(t, types.BackIcon, back.Name)
}

func TestCacheLoadUsesTheme(t *testing.T) {
	dir := t.TempDir()
	icon := filepath.Join(dir, "image-x-generic.svg")
	require.NoError(t, os.WriteFile(icon, []byte("<svg/>"), 0644))

	lookup := &countingLookup{found: map[string]string{"Adwaita/image-x-generic": icon}}
	c := NewCache(lookup)

	h := c.Load("Adwaita", "image-x-generic")
	assert.Equal(t, SourceTheme, h.Source)
	assert.Equal(t, icon, h.Path)
	data, err := h.Data()
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))

	// Second load is a hit.
	assert.Same(t, h, c.Load("Adwaita", "image-x-generic"))
	assert.Equal(t, int64(1), lookup.calls.Load())
	assert.Equal(t, int64(1), c.Resolutions())
	assert.Equal(t, 1, c.Len())
}

func TestCacheResolvesEachKeyOnceUnderContention(t *testing.T) {
	lookup := &countingLookup{found: map[string]string{}, gate: make(chan struct{})}
	c := NewCache(lookup)

	const readers = 32
	var wg sync.WaitGroup
	results := make([]*Handle, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Load("Adwaita", "text-plain")
		}(i)
	}
	close(lookup.gate)
	wg.Wait()

	for _, h := range results {
		require.NotNil(t, h)
		assert.Same(t, results[0], h)
	}
	assert.Equal(t, int64(1), lookup.calls.Load())
	assert.Equal(t, int64(1), c.Resolutions())
}

func TestCacheDistinctKeys(t *testing.T) {
	c := NewCache(nil)
	var wg sync.WaitGroup
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for _, n := range names {
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func(n string) {
				defer wg.Done()
				c.Load("Adwaita", n)
				c.LoadPath("/tmp/" + n + ".png")
			}(n)
		}
	}
	wg.Wait()
	assert.Equal(t, 2*len(names), c.Len())
	assert.Equal(t, int64(2*len(names)), c.Resolutions())
}

func TestXDGLookup(t *testing.T) {
	base := t.TempDir()
	sized := filepath.Join(base, "Adwaita", "scalable", "mimetypes")
	require.NoError(t, os.MkdirAll(sized, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sized, "text-x-generic.svg"), []byte("<svg/>"), 0644))

	contextFirst := filepath.Join(base, "hicolor", "places", "48x48")
	require.NoError(t, os.MkdirAll(contextFirst, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(contextFirst, "inode-directory.png"), []byte{1}, 0644))

	require.NoError(t, os.WriteFile(filepath.Join(base, "unthemed.png"), []byte{1}, 0644))

	x := &XDGLookup{bases: []string{base}}

	p, ok := x.Lookup("Adwaita", "text-x-generic")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(sized, "text-x-generic.svg"), p)

	p, ok = x.Lookup("Adwaita", "inode-directory")
	require.True(t, ok, "falls back to hicolor")
	assert.Equal(t, filepath.Join(contextFirst, "inode-directory.png"), p)

	p, ok = x.Lookup("Adwaita", "unthemed")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(base, "unthemed.png"), p)

	_, ok = x.Lookup("Adwaita", "missing-icon")
	assert.False(t, ok)

	assert.NotEmpty(t, NewXDGLookup("/opt/icons").Bases())
	assert.Equal(t, "/opt/icons", NewXDGLookup("/opt/icons").Bases()[0])
}

func TestXDGLookupBases(t *testing.T) {
	// Registered first so it runs after the environment is restored.
	t.Cleanup(xdg.Reload)
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	t.Setenv("XDG_DATA_DIRS", "/srv/share:/opt/share")
	xdg.Reload()

	assert.Equal(t, []string{
		"/opt/icons",
		filepath.Join(home, ".icons"),
		filepath.Join(home, "data", "icons"),
		"/srv/share/icons",
		"/opt/share/icons",
		"/usr/share/pixmaps",
	}, NewXDGLookup("/opt/icons").Bases())
}

func TestBackHandleAndTypes(t *testing.T) {
	r := NewResolver(mimeinfo.NewDatabase(), NewCache(nil), "Adwaita")

	h := r.BackHandle()
	require.NotNil(t, h)
	assert.Equal(t, SourceBuiltin, h.Source)
	assert.Same(t, h, r.BackHandle(), "handles are cached")

	assert.Equal(t, types.TextIcon, r.IconForTypes(nil))
	assert.Equal(t, types.ImageIcon, r.IconForTypes([]string{"image/png", "text/plain"}))
}
