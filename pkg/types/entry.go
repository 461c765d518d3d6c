package types

import (
	"io/fs"
	"slices"
	"strings"
)

// Kind distinguishes the two entry variants.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

func (k Kind) String() string {
	if k == KindDirectory {
		return "directory"
	}
	return "file"
}

// Well-known icon names and MIME types.
const (
	DirectoryIcon = "inode-directory"
	TextIcon      = "text-plain"
	ImageIcon     = "image-x-generic"
	BackIcon      = "go-previous"
	SVGMimeType   = "image/svg+xml"
)

// Permissions holds the owner access bits of an entry together with the
// full mode it was derived from.
type Permissions struct {
	Read    bool
	Write   bool
	Execute bool
	Mode    fs.FileMode
}

// PermissionsFromMode extracts owner read/write/execute from mode.
func PermissionsFromMode(mode fs.FileMode) Permissions {
	perm := mode.Perm()
	return Permissions{
		Read:    perm&0o400 != 0,
		Write:   perm&0o200 != 0,
		Execute: perm&0o100 != 0,
		Mode:    mode,
	}
}

// String renders the nine permission bits, e.g. "rwxr-xr--".
func (p Permissions) String() string {
	const rwx = "rwxrwxrwx"
	perm := p.Mode.Perm()
	var sb strings.Builder
	for i := 0; i < 9; i++ {
		if perm&(1<<uint(8-i)) != 0 {
			sb.WriteByte(rwx[i])
		} else {
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

// Entry is one classified item in a directory listing. Entries are
// immutable once constructed.
type Entry interface {
	Name() string
	Path() string
	Kind() Kind
	IsDir() bool
	Permissions() Permissions
	SymlinkTarget() (string, bool)
	IsSymlink() bool
	IsHidden() bool
	Size() int64
	Icon() string
}

// Attrs are the attributes shared by both entry variants.
type Attrs struct {
	Path          string
	Name          string
	Permissions   Permissions
	SymlinkTarget string
	Size          int64
}

type base struct {
	attrs Attrs
}

func (b *base) Name() string { return b.attrs.Name }
func (b *base) Path() string { return b.attrs.Path }
func (b *base) Permissions() Permissions { return b.attrs.Permissions }
func (b *base) IsSymlink() bool { return b.attrs.SymlinkTarget != "" }
func (b *base) Size() int64 { return b.attrs.Size }
func (b *base) IsHidden() bool { return strings.HasPrefix(b.attrs.Name, ".") }
func (b *base) SymlinkTarget() (string, bool) { return b.attrs.SymlinkTarget, b.attrs.SymlinkTarget != "" }

// File is a non-directory entry. It carries the MIME candidates and icon
// name computed at classification.
type File struct {
	base
	icon  string
	mimes []string
}

// NewFile constructs a File. An empty icon falls back to TextIcon.
func NewFile(attrs Attrs, icon string, mimes []string) *File {
	if icon == "" {
		icon = TextIcon
	}
	return &File{base: base{attrs: attrs}, icon: icon, mimes: slices.Clone(mimes)}
}

func (f *File) Kind() Kind { return KindFile }
func (f *File) IsDir() bool { return false }
func (f *File) Icon() string { return f.icon }

// MimeTypes returns the MIME candidates in preference order.
func (f *File) MimeTypes() []string {
	return slices.Clone(f.mimes)
}

// MimeType returns the preferred MIME candidate, if any.
func (f *File) MimeType() string {
	if len(f.mimes) == 0 {
		return ""
	}
	return f.mimes[0]
}

// IsSVG reports whether any candidate is image/svg+xml.
func (f *File) IsSVG() bool {
	return slices.Contains(f.mimes, SVGMimeType)
}

// IsImage reports whether the file resolved to the generic image icon.
func (f *File) IsImage() bool {
	return f.icon == ImageIcon
}

// Directory is a directory entry, or a symlink that resolves to one.
type Directory struct {
	base
}

// NewDirectory constructs a Directory.
func NewDirectory(attrs Attrs) *Directory {
	return &Directory{base: base{attrs: attrs}}
}

func (d *Directory) Kind() Kind { return KindDirectory }
func (d *Directory) IsDir() bool { return true }
func (d *Directory) Icon() string { return DirectoryIcon }

// MimeTypesOf returns the MIME candidates of e, or nil for directories.
func MimeTypesOf(e Entry) []string {
	if f, ok := e.(*File); ok {
		return f.MimeTypes()
	}
	return nil
}
