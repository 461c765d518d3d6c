// Package chooser is the control surface a front-end drives: it owns the
// current scan, the selection, the view predicates and the portal request,
// and publishes a signal whenever what the front-end shows may have changed.
package chooser

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"filechooser/internal/config"
	"filechooser/internal/errors"
	"filechooser/internal/filter"
	"filechooser/internal/fsys"
	"filechooser/internal/icons"
	"filechooser/internal/log"
	"filechooser/internal/pathutil"
	"filechooser/internal/portal"
	"filechooser/internal/scan"
	"filechooser/internal/selection"
	"filechooser/internal/watch"
	"filechooser/pkg/types"

	"golang.org/x/sync/errgroup"
)

var (
	ErrIneligible      = errors.New("entry cannot be selected")
	ErrNothingSelected = errors.New("nothing selected")
	ErrClosed          = errors.New("chooser closed")
)

// View is what a front-end renders.
type View struct {
	ScanID      string
	Dir         string
	Breadcrumbs []string
	Entries     []types.Entry // filtered, sorted, capped
	Complete    bool
	Scanned     int // entries classified so far
	Total       int // raw entries in the listing
	Matched     int // entries passing the filters, before capping
	Truncated   bool
}

// Detail describes the entry shown in the detail pane.
type Detail struct {
	Entry   types.Entry
	Preview icons.PreviewKind
	Handle  *icons.Handle
}

// Chooser is safe for concurrent use. Its lock is never held across
// filesystem calls.
type Chooser struct {
	fs        fsys.FS
	scanner   *scan.Scanner
	resolver  *icons.Resolver
	sel       *selection.Manager
	watcher   *watch.Watcher
	logger    *log.Logger
	renderCap int
	request   portal.Options
	filters   []portal.FileFilter
	selOpts   []selection.Option

	ctx    context.Context
	stop   context.CancelFunc
	group  errgroup.Group
	update chan struct{}

	mu        sync.RWMutex
	scan      *scan.Scan
	cancel    context.CancelFunc
	cfg       filter.Config
	filterIdx int
	search    filter.Search
	choices   map[string]string
	saveName  string
	closed    bool
}

// Option configures a Chooser.
type Option func(*Chooser)

// WithFS sets the filesystem used for readability checks.
func WithFS(filesystem fsys.FS) Option {
	return func(c *Chooser) { c.fs = filesystem }
}

// WithRequest applies a portal request: selection mode, target kind,
// filters, choices and suggested name.
func WithRequest(opts portal.Options) Option {
	return func(c *Chooser) { c.request = opts }
}

// WithFilter sets the initial view predicates. The request's target kind
// still overrides MatchKind.
func WithFilter(cfg filter.Config) Option {
	return func(c *Chooser) { c.cfg = cfg }
}

// WithRenderCap bounds how many entries View returns.
func WithRenderCap(n int) Option {
	return func(c *Chooser) { c.renderCap = n }
}

// WithWatcher refreshes the current directory when the watcher reports a
// change. The Chooser starts and stops it.
func WithWatcher(w *watch.Watcher) Option {
	return func(c *Chooser) { c.watcher = w }
}

// WithLogger sets the chooser's logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Chooser) { c.logger = l }
}

// WithSelectionOptions passes options to the selection manager.
func WithSelectionOptions(opts ...selection.Option) Option {
	return func(c *Chooser) { c.selOpts = append(c.selOpts, opts...) }
}

// New creates a Chooser. It shows nothing until Navigate succeeds.
func New(scanner *scan.Scanner, resolver *icons.Resolver, opts ...Option) *Chooser {
	c := &Chooser{
		fs:        fsys.OS{},
		scanner:   scanner,
		resolver:  resolver,
		logger:    log.Default(),
		renderCap: config.DefaultRenderCap,
		request:   portal.DefaultOptions(),
		cfg:       filter.Default(),
		update:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ctx, c.stop = context.WithCancel(context.Background())

	c.sel = selection.NewManager(c.request.SelectionMode(), c.selOpts...)
	c.cfg.MatchKind = c.request.MatchKind()
	c.filters = c.request.AllFilters()
	c.filterIdx = c.indexOfFilter(c.request.InitialFilter())
	c.cfg.Matcher = c.compileFilter(c.filterIdx)
	c.choices = make(map[string]string, len(c.request.Choices))
	for _, ch := range c.request.Choices {
		c.choices[ch.ID] = ch.Initial
	}
	c.saveName = c.request.SuggestedName()

	if c.watcher != nil {
		c.startWatching()
	}
	return c
}

func (c *Chooser) indexOfFilter(f portal.FileFilter) int {
	for i, have := range c.filters {
		if have.Label == f.Label {
			return i
		}
	}
	c.filters = append(c.filters, f)
	return len(c.filters) - 1
}

func (c *Chooser) compileFilter(i int) *portal.Matcher {
	m, err := c.filters[i].Compile()
	if err != nil {
		c.logger.WithError(err).With(log.F("filter", c.filters[i].Label)).Warn("ignoring invalid filter")
		return nil
	}
	return m
}

// Updates signals that View, Detail or the filter state may have changed.
// Signals are coalesced.
func (c *Chooser) Updates() <-chan struct{} {
	return c.update
}

func (c *Chooser) notify() {
	select {
	case c.update <- struct{}{}:
	default:
	}
}

// Request returns the portal request the chooser serves.
func (c *Chooser) Request() portal.Options {
	return c.request
}

// Navigate replaces the current scan with one of dir. If dir cannot be
// enumerated the current state is left untouched and a NotADirectory error
// is returned. Large directories keep scanning in the background.
func (c *Chooser) Navigate(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return errors.NewFileError("cannot navigate", dir, errors.NotADirectory, err)
	}
	if c.isClosed() {
		return ErrClosed
	}

	sc, err := c.scanner.Start(abs)
	if err != nil {
		c.logger.WithError(err).Debug("navigation refused")
		return err
	}

	ctx, cancel := context.WithCancel(c.ctx)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		cancel()
		return ErrClosed
	}
	if c.cancel != nil {
		c.cancel()
	}
	prev := c.scan
	c.scan, c.cancel = sc, cancel
	if prev == nil || prev.Dir() != abs {
		c.search.Reset()
		c.cfg.Search = ""
	}
	if !sc.Complete() {
		c.group.Go(func() error {
			c.drive(ctx, sc)
			return nil
		})
	}
	c.mu.Unlock()

	c.logger.With(log.F("dir", abs), log.F("scan_id", sc.ID()), log.F("complete", sc.Complete())).Debug("navigated")

	if c.sel.Revalidate() {
		c.logger.Debug("active entry vanished")
	}
	if c.watcher != nil {
		if err := c.watcher.Watch(abs); err != nil {
			c.logger.WithError(err).Warn("cannot watch directory")
		}
	}
	c.notify()
	return nil
}

// drive runs sc to completion, publishing progress only while sc is the
// current scan.
func (c *Chooser) drive(ctx context.Context, sc *scan.Scan) {
	err := sc.Run(ctx, func(s scan.Snapshot) {
		if c.isCurrent(s.ID) {
			c.notify()
		}
	})
	if err != nil {
		return
	}
	c.logger.With(log.F("scan_id", sc.ID()), log.F("entries", sc.Len()), log.F("skipped", sc.Skipped())).Debug("scan complete")
}

func (c *Chooser) isCurrent(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scan != nil && c.scan.ID() == id
}

func (c *Chooser) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *Chooser) current() *scan.Scan {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scan
}

// Dir returns the current directory, or "" before the first navigation.
func (c *Chooser) Dir() string {
	if sc := c.current(); sc != nil {
		return sc.Dir()
	}
	return ""
}

// Up navigates to the parent directory.
func (c *Chooser) Up() error {
	parent, ok := pathutil.Parent(c.Dir())
	if !ok {
		return errors.NewFileError("no parent", c.Dir(), errors.NotADirectory, nil)
	}
	return c.Navigate(parent)
}

// Enter navigates into e.
func (c *Chooser) Enter(e types.Entry) error {
	if !c.CanEnter(e) {
		return errors.NewFileError("cannot enter", e.Path(), errors.NotADirectory, nil)
	}
	return c.Navigate(e.Path())
}

// Refresh rescans the current directory from scratch.
func (c *Chooser) Refresh() error {
	dir := c.Dir()
	if dir == "" {
		return nil
	}
	return c.Navigate(dir)
}

// View returns the filtered, capped entries of the current scan.
func (c *Chooser) View() View {
	c.mu.RLock()
	sc, cfg := c.scan, c.cfg
	c.mu.RUnlock()
	if sc == nil {
		return View{}
	}

	snap := sc.Snapshot()
	res := filter.Apply(snap.Entries, cfg, c.renderCap)
	return View{
		ScanID:      snap.ID,
		Dir:         snap.Dir,
		Breadcrumbs: pathutil.Breadcrumbs(snap.Dir),
		Entries:     res.Entries,
		Complete:    snap.Complete,
		Scanned:     len(snap.Entries),
		Total:       snap.Total,
		Matched:     res.Matched,
		Truncated:   res.Truncated,
	}
}

// Readable reports whether e is accessible: a directory must open, a file
// must carry the owner read bit.
func (c *Chooser) Readable(e types.Entry) bool {
	if e.IsDir() {
		return c.fs.CanOpenDir(e.Path())
	}
	return e.Permissions().Read
}

// CanSelect reports whether e may be toggled or activated.
func (c *Chooser) CanSelect(e types.Entry) bool {
	return filter.Eligible(e, c.Filter().MatchKind, c.Readable(e))
}

// CanEnter reports whether e is a directory that can be navigated into.
func (c *Chooser) CanEnter(e types.Entry) bool {
	return e.IsDir() && c.fs.CanOpenDir(e.Path())
}

// Toggle checks or unchecks path without an eligibility check.
func (c *Chooser) Toggle(path string, checked bool) {
	c.sel.Toggle(path, checked)
	c.notify()
}

// Activate shows path in the detail pane without an eligibility check.
func (c *Chooser) Activate(path string) {
	c.sel.Activate(path)
	c.notify()
}

// ToggleEntry checks or unchecks e if it is eligible.
func (c *Chooser) ToggleEntry(e types.Entry, checked bool) error {
	if !c.CanSelect(e) {
		return errors.Wrapf(ErrIneligible, "toggle %s", e.Path())
	}
	c.Toggle(e.Path(), checked)
	return nil
}

// ActivateEntry activates e if it is eligible.
func (c *Chooser) ActivateEntry(e types.Entry) error {
	if !c.CanSelect(e) {
		return errors.Wrapf(ErrIneligible, "activate %s", e.Path())
	}
	c.Activate(e.Path())
	return nil
}

// IsSelected reports whether path is selected.
func (c *Chooser) IsSelected(path string) bool {
	return c.sel.IsSelected(path)
}

// Selected returns the selected paths in selection order.
func (c *Chooser) Selected() []string {
	return c.sel.Selected()
}

// ClearSelection empties the selection.
func (c *Chooser) ClearSelection() {
	c.sel.Clear()
	c.notify()
}

// SelectionMode returns the selection mode.
func (c *Chooser) SelectionMode() types.SelectionMode {
	return c.sel.Mode()
}

// Detail returns the active entry if it is part of the current scan.
func (c *Chooser) Detail() (Detail, bool) {
	active, ok := c.sel.Active()
	sc := c.current()
	if !ok || sc == nil {
		return Detail{}, false
	}
	for _, e := range sc.Snapshot().Entries {
		if e.Path() == active {
			preview := c.Filter().PreviewImages
			return Detail{
				Entry:   e,
				Preview: c.resolver.Preview(e, preview),
				Handle:  c.resolver.Handle(e, preview),
			}, true
		}
	}
	return Detail{}, false
}

// Filter returns the current view predicates.
func (c *Chooser) Filter() filter.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

func (c *Chooser) updateFilter(fn func(*filter.Config)) {
	c.mu.Lock()
	fn(&c.cfg)
	c.mu.Unlock()
	c.notify()
}

// SetShowHidden toggles dot-file visibility. The scan is not touched.
func (c *Chooser) SetShowHidden(show bool) {
	c.updateFilter(func(cfg *filter.Config) { cfg.ShowHidden = show })
}

// SetPreviewImages toggles raster previews in the detail pane.
func (c *Chooser) SetPreviewImages(preview bool) {
	c.updateFilter(func(cfg *filter.Config) { cfg.PreviewImages = preview })
}

// SetMatchKind changes which entry kind may be selected.
func (c *Chooser) SetMatchKind(kind types.MatchKind) {
	c.updateFilter(func(cfg *filter.Config) { cfg.MatchKind = kind })
}

// Filters returns the selectable file filters; the first is "All files".
func (c *Chooser) Filters() []portal.FileFilter {
	return append([]portal.FileFilter(nil), c.filters...)
}

// CurrentFilter returns the active file filter and its index.
func (c *Chooser) CurrentFilter() (portal.FileFilter, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filters[c.filterIdx], c.filterIdx
}

// SetFilter activates filter i.
func (c *Chooser) SetFilter(i int) error {
	if i < 0 || i >= len(c.filters) {
		return errors.Newf("filter index %d out of range", i)
	}
	m := c.compileFilter(i)
	c.mu.Lock()
	c.filterIdx = i
	c.cfg.Matcher = m
	c.mu.Unlock()
	c.notify()
	return nil
}

// CycleFilter activates the next filter, wrapping around.
func (c *Chooser) CycleFilter() {
	_, i := c.CurrentFilter()
	_ = c.SetFilter((i + 1) % len(c.filters))
}

// SetSearchDraft stages a search query without applying it.
func (c *Chooser) SetSearchDraft(q string) {
	c.mu.Lock()
	c.search.SetDraft(q)
	c.mu.Unlock()
}

// SearchDraft returns the staged query.
func (c *Chooser) SearchDraft() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.search.Draft()
}

// CommitSearch applies the staged query to the view.
func (c *Chooser) CommitSearch() {
	c.updateFilter(func(cfg *filter.Config) { cfg.Search = c.search.Commit() })
}

// ClearSearch removes any query.
func (c *Chooser) ClearSearch() {
	c.updateFilter(func(cfg *filter.Config) {
		c.search.Reset()
		cfg.Search = ""
	})
}

// Choices returns the current value of every choice.
func (c *Chooser) Choices() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.choices))
	for k, v := range c.choices {
		out[k] = v
	}
	return out
}

// SetChoice sets choice id to value. Checkboxes take "true" or "false";
// combo boxes take one of their keys.
func (c *Chooser) SetChoice(id, value string) error {
	var choice *portal.Choice
	for i := range c.request.Choices {
		if c.request.Choices[i].ID == id {
			choice = &c.request.Choices[i]
			break
		}
	}
	if choice == nil {
		return errors.Newf("unknown choice %q", id)
	}
	if !validChoice(*choice, value) {
		return errors.Newf("invalid value %q for choice %q", value, id)
	}
	c.mu.Lock()
	c.choices[id] = value
	c.mu.Unlock()
	c.notify()
	return nil
}

func validChoice(ch portal.Choice, value string) bool {
	if ch.IsCheckbox() {
		return value == "true" || value == "false"
	}
	for _, p := range ch.Pairs {
		if p[0] == value {
			return true
		}
	}
	return false
}

// SaveName returns the file name a save request will use.
func (c *Chooser) SaveName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.saveName
}

// SetSaveName sets the file name for a save request.
func (c *Chooser) SetSaveName(name string) {
	c.mu.Lock()
	c.saveName = name
	c.mu.Unlock()
	c.notify()
}

// Result builds the portal response. Open requests return the selection;
// save requests return the current directory joined with the save name.
func (c *Chooser) Result() (portal.Response, error) {
	f, _ := c.CurrentFilter()
	resp := portal.Response{Choices: c.Choices(), CurrentFilter: &f}

	if c.request.Kind == portal.SaveFile {
		name := c.SaveName()
		if name == "" || name == "." || name == ".." || strings.ContainsRune(name, filepath.Separator) {
			return portal.Response{}, errors.NewFileError("invalid file name", name, errors.InvalidName, nil)
		}
		dir := c.Dir()
		if dir == "" {
			return portal.Response{}, ErrNothingSelected
		}
		resp.URIs = []string{portal.FileURI(filepath.Join(dir, name))}
		return resp, nil
	}

	selected := c.sel.Selected()
	if len(selected) == 0 {
		return portal.Response{}, ErrNothingSelected
	}
	for _, p := range selected {
		resp.URIs = append(resp.URIs, portal.FileURI(p))
	}
	return resp, nil
}

func (c *Chooser) startWatching() {
	if err := c.watcher.Start(); err != nil {
		c.logger.WithError(err).Warn("directory watching disabled")
		return
	}
	changes := c.watcher.Changes()
	c.group.Go(func() error {
		for {
			select {
			case <-c.ctx.Done():
				return nil
			case ch, ok := <-changes:
				if !ok {
					return nil
				}
				if ch.Dir != c.Dir() {
					continue
				}
				c.logger.With(log.F("dir", ch.Dir), log.F("paths", len(ch.Paths))).Debug("directory changed")
				if err := c.Refresh(); err != nil && !errors.Is(err, ErrClosed) {
					c.logger.WithError(err).Warn("refresh failed")
				}
			}
		}
	})
}

// Close stops background scanning and watching and waits for it to exit.
func (c *Chooser) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()

	c.stop()
	if c.watcher != nil {
		c.watcher.Stop()
	}
	return c.group.Wait()
}
