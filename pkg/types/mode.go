package types

import "fmt"

// SelectionMode controls how many paths may be selected at once.
type SelectionMode int

const (
	// SingleSelect keeps at most one selected path, mirroring the active entry
	SingleSelect SelectionMode = iota
	// MultiSelect keeps an ordered set of checked paths
	MultiSelect
)

func (m SelectionMode) String() string {
	if m == MultiSelect {
		return "multi"
	}
	return "single"
}

// MatchKind restricts which entries are eligible for selection.
type MatchKind int

const (
	FileOnly MatchKind = iota
	DirectoryOnly
	Any
)

func (k MatchKind) String() string {
	switch k {
	case FileOnly:
		return "file"
	case DirectoryOnly:
		return "directory"
	case Any:
		return "any"
	}
	return fmt.Sprintf("MatchKind(%d)", int(k))
}

// ParseMatchKind parses the String form of a MatchKind.
func ParseMatchKind(s string) (MatchKind, error) {
	switch s {
	case "file", "":
		return FileOnly, nil
	case "directory", "dir":
		return DirectoryOnly, nil
	case "any":
		return Any, nil
	}
	return FileOnly, fmt.Errorf("unknown match kind %q", s)
}

// Mode represents the current input mode of the terminal chooser
type Mode int

const (
	// Normal is the default mode for navigation and selection
	Normal Mode = iota
	// Search is the mode for typing a name filter
	Search
)
