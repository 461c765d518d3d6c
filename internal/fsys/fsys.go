// Package fsys is the filesystem boundary of the chooser: directory
// enumeration, symlink resolution and readability probes.
package fsys

import (
	"io/fs"
	"os"
	"path/filepath"
)

// RawEntry is one unclassified name returned by a directory listing.
type RawEntry struct {
	Name string
	Path string
	// Info returns the entry's own metadata without following symlinks.
	Info func() (fs.FileInfo, error)
}

// FS is the set of filesystem services the scanner and classifier need.
type FS interface {
	// ReadDir returns the unsorted listing of dir. The directory handle is
	// released before ReadDir returns.
	ReadDir(dir string) ([]RawEntry, error)
	// Stat returns metadata following symlinks.
	Stat(path string) (fs.FileInfo, error)
	// Readlink returns the target of a symlink as stored.
	Readlink(path string) (string, error)
	// CanOpenDir reports whether path can be opened for enumeration.
	CanOpenDir(path string) bool
}

// OS implements FS on the host filesystem.
type OS struct{}

// ReadDir lists dir without sorting and without stat'ing each entry.
func (OS) ReadDir(dir string) ([]RawEntry, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dirents, err := f.ReadDir(-1)
	if err != nil && len(dirents) == 0 {
		return nil, err
	}

	raw := make([]RawEntry, 0, len(dirents))
	for _, d := range dirents {
		raw = append(raw, RawEntry{
			Name: d.Name(),
			Path: filepath.Join(dir, d.Name()),
			Info: d.Info,
		})
	}
	return raw, nil
}

func (OS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (OS) Readlink(path string) (string, error) {
	return os.Readlink(path)
}

// CanOpenDir opens and immediately closes path.
func (OS) CanOpenDir(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
