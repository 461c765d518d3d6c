package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSamePath(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.txt")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0644))
	link := filepath.Join(dir, "link.txt")
	require.NoError(t, os.Symlink(target, link))
	other := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(other, []byte("y"), 0644))

	t.Run("identical", func(t *testing.T) {
		assert.True(t, SamePath(target, target))
	})
	t.Run("through symlink", func(t *testing.T) {
		assert.True(t, SamePath(target, link))
		assert.True(t, SamePath(link, target))
	})
	t.Run("non-canonical spelling", func(t *testing.T) {
		assert.True(t, SamePath(target, dir+"/./sub/../target.txt"))
		assert.True(t, SamePath(dir, dir+string(filepath.Separator)))
	})
	t.Run("different files", func(t *testing.T) {
		assert.False(t, SamePath(target, other))
	})
	t.Run("missing path is never equal", func(t *testing.T) {
		missing := filepath.Join(dir, "missing")
		assert.False(t, SamePath(missing, missing))
		assert.False(t, SamePath(target, missing))
	})
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, RootName, DisplayName("/"))
	assert.Equal(t, RootName, DisplayName("//"))
	assert.Equal(t, "b", DisplayName("/a/b"))
	assert.Equal(t, "b", DisplayName("/a/b/"))
}

func TestParent(t *testing.T) {
	p, ok := Parent("/a/b")
	assert.True(t, ok)
	assert.Equal(t, "/a", p)

	p, ok = Parent("/a")
	assert.True(t, ok)
	assert.Equal(t, "/", p)

	_, ok = Parent("/")
	assert.False(t, ok)
}

func TestBreadcrumbs(t *testing.T) {
	assert.Equal(t, []string{"/"}, Breadcrumbs("/"))
	assert.Equal(t, []string{"/", "/usr", "/usr/share", "/usr/share/icons"}, Breadcrumbs("/usr/share/icons/"))
}
