package icons

import (
	"embed"
	"os"
	"sync"
	"sync/atomic"

	"filechooser/pkg/types"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"
)

//go:embed resources/*.svg
var resources embed.FS

// Source records where a handle's image came from.
type Source int

const (
	SourceTheme Source = iota
	SourceFile
	SourceBuiltin
)

func (s Source) String() string {
	switch s {
	case SourceTheme:
		return "theme"
	case SourceFile:
		return "file"
	}
	return "builtin"
}

// Handle is a loaded icon or preview image. Handles are immutable and
// shared between all readers of the cache.
type Handle struct {
	Key    string
	Name   string
	Path   string // empty for builtin handles
	Source Source
	data   []byte
}

// Data returns the image bytes. Theme and file handles are read lazily
// from Path; builtin handles carry their bytes.
func (h *Handle) Data() ([]byte, error) {
	if h.data != nil {
		return h.data, nil
	}
	return os.ReadFile(h.Path)
}

const shardCount = 16

type shard struct {
	mu      sync.RWMutex
	handles map[string]*Handle
}

// Cache memoises icon handles. Entries are never evicted. Each key is
// resolved at most once; concurrent misses on the same key wait for the
// first resolution.
type Cache struct {
	lookup      ThemeLookup
	shards      [shardCount]shard
	group       singleflight.Group
	resolutions atomic.Int64
}

// NewCache creates an empty cache backed by lookup. A nil lookup resolves
// every themed icon to its builtin fallback.
func NewCache(lookup ThemeLookup) *Cache {
	c := &Cache{lookup: lookup}
	for i := range c.shards {
		c.shards[i].handles = make(map[string]*Handle)
	}
	return c
}

func (c *Cache) shardFor(key string) *shard {
	return &c.shards[xxhash.Sum64String(key)%shardCount]
}

func (c *Cache) get(key string) (*Handle, bool) {
	s := c.shardFor(key)
	s.mu.RLock()
	h, ok := s.handles[key]
	s.mu.RUnlock()
	return h, ok
}

func (c *Cache) load(key string, resolve func() *Handle) *Handle {
	if h, ok := c.get(key); ok {
		return h
	}
	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		if h, ok := c.get(key); ok {
			return h, nil
		}
		h := resolve()
		c.resolutions.Add(1)
		s := c.shardFor(key)
		s.mu.Lock()
		s.handles[key] = h
		s.mu.Unlock()
		return h, nil
	})
	return v.(*Handle)
}

// Load returns the handle for a themed icon: the theme's file when found,
// otherwise the builtin image for that icon.
func (c *Cache) Load(theme, name string) *Handle {
	key := "icon:" + theme + "/" + name
	return c.load(key, func() *Handle {
		if c.lookup != nil {
			if p, ok := c.lookup.Lookup(theme, name); ok {
				return &Handle{Key: key, Name: name, Path: p, Source: SourceTheme}
			}
		}
		return builtinHandle(key, name)
	})
}

// LoadPath returns a handle for an image file used as a preview.
func (c *Cache) LoadPath(path string) *Handle {
	key := "file:" + path
	return c.load(key, func() *Handle {
		return &Handle{Key: key, Name: path, Path: path, Source: SourceFile}
	})
}

// Len returns the number of cached handles.
func (c *Cache) Len() int {
	n := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.RLock()
		n += len(s.handles)
		s.mu.RUnlock()
	}
	return n
}

// Resolutions returns how many cache misses have been resolved.
func (c *Cache) Resolutions() int64 {
	return c.resolutions.Load()
}

func builtinHandle(key, name string) *Handle {
	file := types.TextIcon
	switch name {
	case types.DirectoryIcon, types.BackIcon:
		file = name
	}
	data, err := resources.ReadFile("resources/" + file + ".svg")
	if err != nil {
		data = []byte{}
	}
	return &Handle{Key: key, Name: file, Source: SourceBuiltin, data: data}
}
