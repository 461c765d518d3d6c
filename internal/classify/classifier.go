// Package classify turns raw directory entries into typed chooser entries.
package classify

import (
	"io/fs"
	"path/filepath"
	"unicode/utf8"

	"filechooser/internal/errors"
	"filechooser/internal/fsys"
	"filechooser/internal/icons"
	"filechooser/internal/log"
	"filechooser/pkg/types"
)

// ContentDetector sniffs a file's MIME type from its bytes.
type ContentDetector interface {
	DetectFile(path string) (string, error)
}

// Classifier builds Entry values from RawEntry values.
type Classifier struct {
	fs       fsys.FS
	resolver *icons.Resolver
	detector ContentDetector
	logger   *log.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithContentDetector enables content sniffing for files whose name yields
// no MIME candidate.
func WithContentDetector(d ContentDetector) Option {
	return func(c *Classifier) { c.detector = d }
}

// WithLogger sets the logger used for skipped and degraded entries.
func WithLogger(l *log.Logger) Option {
	return func(c *Classifier) { c.logger = l }
}

// New creates a Classifier.
func New(filesystem fsys.FS, resolver *icons.Resolver, opts ...Option) *Classifier {
	c := &Classifier{fs: filesystem, resolver: resolver, logger: log.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify produces a File or Directory for raw.
//
// Names that are not valid UTF-8 fail with InvalidName and unreadable
// metadata fails with MetadataUnavailable. A symlink is classified by its
// target; if the target cannot be resolved the link's own metadata is used
// and the entry is still produced.
func (c *Classifier) Classify(raw fsys.RawEntry) (types.Entry, error) {
	if !utf8.ValidString(raw.Name) {
		return nil, errors.NewFileError("entry name is not valid text", raw.Path, errors.InvalidName, nil)
	}

	info, err := raw.Info()
	if err != nil {
		return nil, errors.NewFileError("cannot read entry metadata", raw.Path, errors.MetadataUnavailable, err)
	}

	attrs := types.Attrs{
		Path: raw.Path,
		Name: raw.Name,
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		target, err := c.fs.Readlink(raw.Path)
		if err == nil {
			if !filepath.IsAbs(target) {
				target = filepath.Join(filepath.Dir(raw.Path), target)
			}
			attrs.SymlinkTarget = target
		}
		resolved, err := c.fs.Stat(raw.Path)
		if err != nil {
			unresolved := errors.NewFileError("cannot resolve symlink", raw.Path, errors.SymlinkUnresolvable, err)
			c.logger.WithError(unresolved).Debug("using link metadata")
		} else {
			info = resolved
		}
	}

	attrs.Permissions = types.PermissionsFromMode(info.Mode())
	if info.IsDir() {
		return types.NewDirectory(attrs), nil
	}

	attrs.Size = info.Size()
	icon, mimes := c.resolver.IconForName(raw.Name)
	if len(mimes) == 0 && c.detector != nil && info.Mode().IsRegular() {
		if mt, err := c.detector.DetectFile(raw.Path); err == nil {
			mimes = []string{mt}
			icon = c.resolver.IconForTypes(mimes)
		}
	}
	return types.NewFile(attrs, icon, mimes), nil
}
