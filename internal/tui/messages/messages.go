package messages

// UpdateMsg is sent when the chooser's view may have changed.
type UpdateMsg struct{}

type ErrorMsg struct {
	Err error
}

// DirectoryChangeMsg reports a completed navigation.
type DirectoryChangeMsg struct {
	Path string
}
