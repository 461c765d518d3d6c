// Package selection tracks which paths the user has chosen and which entry
// is shown in the detail pane.
package selection

import (
	"os"
	"path/filepath"
	"slices"
	"sync"

	"filechooser/internal/pathutil"
	"filechooser/pkg/types"
)

// Manager holds the selected set and the active detail path. It has its own
// lock and never touches scan state.
//
// In SingleSelect mode the selected set holds at most one path, and when it
// is non-empty that path is also the active one.
type Manager struct {
	mu        sync.RWMutex
	mode      types.SelectionMode
	selected  []string
	active    string
	hasActive bool

	samePath func(a, b string) bool
	exists   func(path string) bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithSamePath overrides the path identity used by Activate.
func WithSamePath(fn func(a, b string) bool) Option {
	return func(m *Manager) { m.samePath = fn }
}

// WithExists overrides the probe used by Revalidate.
func WithExists(fn func(path string) bool) Option {
	return func(m *Manager) { m.exists = fn }
}

// NewManager creates an empty Manager in the given mode.
func NewManager(mode types.SelectionMode, opts ...Option) *Manager {
	m := &Manager{
		mode:     mode,
		samePath: pathutil.SamePath,
		exists: func(p string) bool {
			_, err := os.Stat(p)
			return err == nil
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Mode returns the selection mode.
func (m *Manager) Mode() types.SelectionMode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mode
}

// SetMode switches modes. Leaving multi-select keeps only the active path,
// or the first selected one when nothing is active.
func (m *Manager) SetMode(mode types.SelectionMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode == mode {
		return
	}
	m.mode = mode
	if mode != types.SingleSelect || len(m.selected) == 0 {
		return
	}
	keep := m.selected[0]
	if m.hasActive && m.indexOf(m.active) >= 0 {
		keep = m.active
	}
	m.selected = []string{keep}
	m.active, m.hasActive = keep, true
}

func (m *Manager) indexOf(path string) int {
	return slices.Index(m.selected, path)
}

// Toggle checks or unchecks path. Paths are compared after lexical
// cleaning. In single-select mode checking replaces the selection and makes
// path active; unchecking the active path clears it.
func (m *Manager) Toggle(path string, checked bool) {
	path = filepath.Clean(path)
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mode == types.SingleSelect {
		if checked {
			m.selected = []string{path}
			m.active, m.hasActive = path, true
			return
		}
		if i := m.indexOf(path); i >= 0 {
			m.selected = nil
			if m.hasActive && m.active == path {
				m.active, m.hasActive = "", false
			}
		}
		return
	}

	i := m.indexOf(path)
	switch {
	case checked && i < 0:
		m.selected = append(m.selected, path)
	case !checked && i >= 0:
		m.selected = slices.Delete(m.selected, i, i+1)
	}
}

// Activate shows path in the detail pane. Activating the active path again
// clears it; paths are compared with the samePath identity only, so a path
// that cannot be resolved never matches. In single-select mode the
// selection follows the active path.
func (m *Manager) Activate(path string) {
	path = filepath.Clean(path)

	for {
		// Canonicalisation touches the filesystem, so it runs unlocked.
		m.mu.RLock()
		active, has := m.active, m.hasActive
		m.mu.RUnlock()
		same := has && m.samePath(active, path)

		m.mu.Lock()
		if m.active != active || m.hasActive != has {
			// Changed while resolving; compare against the new state.
			m.mu.Unlock()
			continue
		}
		m.activateLocked(path, same)
		m.mu.Unlock()
		return
	}
}

func (m *Manager) activateLocked(path string, same bool) {
	if same {
		m.active, m.hasActive = "", false
		if m.mode == types.SingleSelect {
			m.selected = nil
		}
		return
	}
	m.active, m.hasActive = path, true
	if m.mode == types.SingleSelect {
		m.selected = []string{path}
	}
}

// Active returns the active detail path.
func (m *Manager) Active() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active, m.hasActive
}

// Selected returns the selected paths in the order they were checked.
func (m *Manager) Selected() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.selected)
}

// IsSelected reports whether path is in the selection.
func (m *Manager) IsSelected(path string) bool {
	path = filepath.Clean(path)
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.indexOf(path) >= 0
}

// Len returns the number of selected paths.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.selected)
}

// Clear empties the selection and the active path.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = nil
	m.active, m.hasActive = "", false
}

// Revalidate clears the active path if it no longer exists. The selection
// itself is kept. It reports whether the active path was cleared.
func (m *Manager) Revalidate() bool {
	m.mu.RLock()
	active, has := m.active, m.hasActive
	m.mu.RUnlock()
	if !has || m.exists(active) {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasActive || m.active != active {
		return false
	}
	m.active, m.hasActive = "", false
	if m.mode == types.SingleSelect {
		m.selected = nil
	}
	return true
}
