// Package portal decodes the option payloads a desktop portal passes to a
// file chooser and encodes its response.
package portal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"path/filepath"

	"filechooser/internal/errors"
	"filechooser/pkg/types"
)

// RequestKind is the portal method being served.
type RequestKind string

const (
	OpenFile RequestKind = "open_file"
	SaveFile RequestKind = "save_file"
)

// FilePath is a NUL-terminated byte string path as carried on the wire.
type FilePath struct {
	path string
}

// NewFilePath wraps p.
func NewFilePath(p string) FilePath {
	return FilePath{path: p}
}

// String returns the path without its terminator.
func (p FilePath) String() string {
	return p.path
}

// Bytes returns the wire form including the trailing NUL.
func (p FilePath) Bytes() []byte {
	return append([]byte(p.path), 0)
}

// DecodeFilePath parses the wire form. The final byte must be NUL and no
// other NUL may appear.
func DecodeFilePath(b []byte) (FilePath, error) {
	if len(b) == 0 || b[len(b)-1] != 0 {
		return FilePath{}, errors.NewSerializationError("path is not NUL-terminated", "path", nil)
	}
	body := b[:len(b)-1]
	if bytes.IndexByte(body, 0) >= 0 {
		return FilePath{}, errors.NewSerializationError("path contains an interior NUL", "path", nil)
	}
	return FilePath{path: string(body)}, nil
}

// MarshalJSON encodes the path as an array of byte values.
func (p FilePath) MarshalJSON() ([]byte, error) {
	b := p.Bytes()
	ints := make([]int, len(b))
	for i, c := range b {
		ints[i] = int(c)
	}
	return json.Marshal(ints)
}

// UnmarshalJSON decodes an array of byte values.
func (p *FilePath) UnmarshalJSON(data []byte) error {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return errors.NewSerializationError("path must be a byte array", "path", err)
	}
	b := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return errors.NewSerializationError(fmt.Sprintf("byte %d out of range: %d", i, v), "path", nil)
		}
		b[i] = byte(v)
	}
	fp, err := DecodeFilePath(b)
	if err != nil {
		return err
	}
	*p = fp
	return nil
}

// Choice is an extra control shown by the chooser: a combo box when Pairs
// is non-empty, a checkbox otherwise (with Initial "true" or "false").
type Choice struct {
	ID      string
	Label   string
	Pairs   [][2]string
	Initial string
}

// IsCheckbox reports whether the choice has no options.
func (c Choice) IsCheckbox() bool {
	return len(c.Pairs) == 0
}

// MarshalJSON encodes ["id", "label", [["key", "label"]...], "initial"].
func (c Choice) MarshalJSON() ([]byte, error) {
	pairs := c.Pairs
	if pairs == nil {
		pairs = [][2]string{}
	}
	return json.Marshal([4]interface{}{c.ID, c.Label, pairs, c.Initial})
}

// UnmarshalJSON decodes the tuple form produced by MarshalJSON.
func (c *Choice) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return errors.NewSerializationError("choice must be a tuple", "choices", err)
	}
	if len(tuple) != 4 {
		return errors.NewSerializationError(fmt.Sprintf("choice has %d members, want 4", len(tuple)), "choices", nil)
	}
	var out Choice
	targets := []interface{}{&out.ID, &out.Label, &out.Pairs, &out.Initial}
	for i, target := range targets {
		if err := json.Unmarshal(tuple[i], target); err != nil {
			return errors.NewSerializationError(fmt.Sprintf("choice member %d", i), "choices", err)
		}
	}
	if out.ID == "" {
		return errors.NewSerializationError("choice id is empty", "choices", nil)
	}
	*c = out
	return nil
}

// Options are the parameters of an OpenFile or SaveFile request.
type Options struct {
	Kind          RequestKind  `json:"type"`
	HandleToken   string       `json:"handle_token,omitempty"`
	AcceptLabel   string       `json:"accept_label,omitempty"`
	Modal         bool         `json:"modal"`
	Multiple      bool         `json:"multiple"`
	Directory     bool         `json:"directory"`
	Filters       []FileFilter `json:"filters,omitempty"`
	CurrentFilter *FileFilter  `json:"current_filter,omitempty"`
	Choices       []Choice     `json:"choices,omitempty"`
	CurrentName   string       `json:"current_name,omitempty"`
	CurrentFolder *FilePath    `json:"current_folder,omitempty"`
	CurrentFile   *FilePath    `json:"current_file,omitempty"`
}

// DefaultOptions returns a modal single-file open request.
func DefaultOptions() Options {
	return Options{Kind: OpenFile, Modal: true}
}

// Decode parses a JSON options payload. Unknown members are rejected.
func Decode(data []byte) (Options, error) {
	opts := DefaultOptions()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		if errors.IsSerialization(err) {
			return Options{}, err
		}
		return Options{}, errors.NewSerializationError("malformed options", "", err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Encode renders opts as indented JSON.
func Encode(opts Options) ([]byte, error) {
	return json.MarshalIndent(opts, "", "  ")
}

// Validate checks cross-field constraints.
func (o Options) Validate() error {
	switch o.Kind {
	case OpenFile, SaveFile:
	default:
		return errors.NewSerializationError(fmt.Sprintf("unknown request type %q", o.Kind), "type", nil)
	}
	if o.Kind == SaveFile && (o.Multiple || o.Directory) {
		return errors.NewSerializationError("save requests select a single file", "multiple", nil)
	}
	for _, f := range o.AllFilters() {
		if _, err := f.Compile(); err != nil {
			return err
		}
	}
	seen := map[string]bool{}
	for _, c := range o.Choices {
		if seen[c.ID] {
			return errors.NewSerializationError("duplicate choice id "+c.ID, "choices", nil)
		}
		seen[c.ID] = true
	}
	return nil
}

// SelectionMode maps the multiple flag.
func (o Options) SelectionMode() types.SelectionMode {
	if o.Multiple {
		return types.MultiSelect
	}
	return types.SingleSelect
}

// MatchKind maps the directory flag.
func (o Options) MatchKind() types.MatchKind {
	if o.Directory {
		return types.DirectoryOnly
	}
	return types.FileOnly
}

// AllFilters returns the "All files" filter followed by the requested ones.
func (o Options) AllFilters() []FileFilter {
	return append([]FileFilter{DefaultFilter()}, o.Filters...)
}

// InitialFilter returns the filter to activate first.
func (o Options) InitialFilter() FileFilter {
	if o.CurrentFilter != nil {
		return *o.CurrentFilter
	}
	return DefaultFilter()
}

// StartFolder returns the folder to open: the current folder, else the
// directory of the current file, else fallback.
func (o Options) StartFolder(fallback string) string {
	if o.CurrentFolder != nil && o.CurrentFolder.String() != "" {
		return o.CurrentFolder.String()
	}
	if o.CurrentFile != nil && o.CurrentFile.String() != "" {
		return filepath.Dir(o.CurrentFile.String())
	}
	return fallback
}

// SuggestedName returns the file name proposed for a save request.
func (o Options) SuggestedName() string {
	if o.CurrentName != "" {
		return o.CurrentName
	}
	if o.CurrentFile != nil && o.CurrentFile.String() != "" {
		return filepath.Base(o.CurrentFile.String())
	}
	return ""
}

// Response is what the chooser hands back to the portal.
type Response struct {
	URIs          []string          `json:"uris"`
	Choices       map[string]string `json:"choices,omitempty"`
	CurrentFilter *FileFilter       `json:"current_filter,omitempty"`
}

// FileURI converts an absolute path to a file:// URI.
func FileURI(p string) string {
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}
