package testutils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"filechooser/internal/fsys"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

// TB is the subset of testing.TB used by the helpers.
type TB interface {
	Helper()
	require.TestingT
}

// CreateTestFilesWithContent creates test files with specific content
func CreateTestFilesWithContent(t TB, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// CreateTestFilesWithDefault creates test files with default content
func CreateTestFilesWithDefault(t TB, dir string) {
	t.Helper()
	files := map[string]string{
		"test1.txt": "test content 1",
		"test2.txt": "test content 2",
		"test3.jpg": "image content",
	}
	CreateTestFilesWithContent(t, dir, files)
}

// CreateNumberedFiles creates n empty files named file-00000.txt onwards.
func CreateNumberedFiles(t TB, dir string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("file-%05d.txt", i)), nil, 0644))
	}
}

// StripANSI removes ANSI escape sequences from a string
func StripANSI(str string) string {
	return ansi.Strip(str)
}

// MemFS is an in-memory fsys.FS for tests that need large or failing
// listings without touching the disk.
type MemFS struct {
	mu       sync.Mutex
	nodes    map[string]*memNode
	children map[string][]string
	// Broken names return an error from RawEntry.Info.
	Broken map[string]bool
	// Unopenable directories fail CanOpenDir and ReadDir.
	Unopenable map[string]bool
	reads      int
}

type memNode struct {
	name   string
	mode   fs.FileMode
	size   int64
	target string
}

// NewMemFS returns an empty MemFS containing only "/".
func NewMemFS() *MemFS {
	m := &MemFS{
		nodes:      map[string]*memNode{},
		children:   map[string][]string{},
		Broken:     map[string]bool{},
		Unopenable: map[string]bool{},
	}
	m.nodes["/"] = &memNode{name: "/", mode: fs.ModeDir | 0755}
	return m
}

func (m *MemFS) add(path string, n *memNode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	m.nodes[path] = n
	parent := filepath.Dir(path)
	m.children[parent] = append(m.children[parent], path)
}

// AddDir adds a directory.
func (m *MemFS) AddDir(path string) {
	m.add(path, &memNode{name: filepath.Base(path), mode: fs.ModeDir | 0755})
}

// AddFile adds a regular file with the given permission bits.
func (m *MemFS) AddFile(path string, perm fs.FileMode, size int64) {
	m.add(path, &memNode{name: filepath.Base(path), mode: perm, size: size})
}

// AddSymlink adds a symlink pointing at target.
func (m *MemFS) AddSymlink(path, target string) {
	m.add(path, &memNode{name: filepath.Base(path), mode: fs.ModeSymlink | 0777, target: target})
}

// Reads returns how many times ReadDir was called.
func (m *MemFS) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

func (m *MemFS) ReadDir(dir string) ([]fsys.RawEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dir = filepath.Clean(dir)
	m.reads++
	n, ok := m.nodes[dir]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: dir, Err: fs.ErrNotExist}
	}
	if !n.mode.IsDir() {
		return nil, &fs.PathError{Op: "readdirent", Path: dir, Err: fmt.Errorf("not a directory")}
	}
	if m.Unopenable[dir] {
		return nil, &fs.PathError{Op: "open", Path: dir, Err: fs.ErrPermission}
	}
	raw := make([]fsys.RawEntry, 0, len(m.children[dir]))
	for _, p := range m.children[dir] {
		p := p
		node := m.nodes[p]
		broken := m.Broken[node.name]
		raw = append(raw, fsys.RawEntry{
			Name: node.name,
			Path: p,
			Info: func() (fs.FileInfo, error) {
				if broken {
					return nil, &fs.PathError{Op: "lstat", Path: p, Err: fs.ErrNotExist}
				}
				return memInfo{node}, nil
			},
		})
	}
	return raw, nil
}

func (m *MemFS) resolve(path string, depth int) (*memNode, error) {
	n, ok := m.nodes[filepath.Clean(path)]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
	}
	if n.mode&fs.ModeSymlink == 0 {
		return n, nil
	}
	if depth > 8 {
		return nil, &fs.PathError{Op: "stat", Path: path, Err: fmt.Errorf("too many links")}
	}
	target := n.target
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return m.resolve(target, depth+1)
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, err := m.resolve(path, 0)
	if err != nil {
		return nil, err
	}
	return memInfo{n}, nil
}

func (m *MemFS) Readlink(path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[filepath.Clean(path)]
	if !ok || n.mode&fs.ModeSymlink == 0 {
		return "", &fs.PathError{Op: "readlink", Path: path, Err: fs.ErrInvalid}
	}
	return n.target, nil
}

func (m *MemFS) CanOpenDir(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, err := m.resolve(path, 0)
	return err == nil && n.mode.IsDir() && !m.Unopenable[filepath.Clean(path)]
}

type memInfo struct{ n *memNode }

func (i memInfo) Name() string { return i.n.name }
func (i memInfo) Size() int64 { return i.n.size }
func (i memInfo) Mode() fs.FileMode { return i.n.mode }
func (i memInfo) ModTime() time.Time { return time.Time{} }
func (i memInfo) IsDir() bool { return i.n.mode.IsDir() }
func (i memInfo) Sys() any { return nil }

var _ fsys.FS = (*MemFS)(nil)
