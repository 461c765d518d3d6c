// Package scan enumerates a directory into a sorted, growing list of
// classified entries. Small directories are read in one pass; large ones
// are produced incrementally so a view can render partial results.
package scan

import (
	"context"
	"sort"
	"sync"

	"filechooser/internal/classify"
	"filechooser/internal/config"
	"filechooser/internal/errors"
	"filechooser/internal/fsys"
	"filechooser/internal/log"
	"filechooser/pkg/types"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Phase is the lifecycle state of a Scan.
type Phase int

const (
	// Idle is the zero value only; Start returns scans already Scanning.
	Idle Phase = iota
	Scanning
	Complete
)

func (p Phase) String() string {
	switch p {
	case Scanning:
		return "scanning"
	case Complete:
		return "complete"
	}
	return "idle"
}

// Outcome is the result kind of a single Step.
type Outcome int

const (
	// Produced means Entry was classified and inserted
	Produced Outcome = iota
	// Exhausted means the listing has no more entries
	Exhausted
)

// StepResult is returned by Step.
type StepResult struct {
	Outcome Outcome
	Entry   types.Entry
}

// Snapshot is a consistent copy of a scan's collection.
type Snapshot struct {
	ID       string
	Dir      string
	Entries  []types.Entry
	Complete bool
	Total    int // raw entries in the listing
	Skipped  int // raw entries that failed classification
	Rev      uint64
}

// Scanner starts scans. It is safe for concurrent use.
type Scanner struct {
	fs         fsys.FS
	classifier *classify.Classifier
	threshold  int
	batchSize  int
	workers    int
	logger     *log.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithSyncThreshold sets the listing size below which Start drains the
// whole directory before returning.
func WithSyncThreshold(n int) Option {
	return func(s *Scanner) { s.threshold = n }
}

// WithBatchSize sets how many raw entries StepBatch pulls by default.
func WithBatchSize(n int) Option {
	return func(s *Scanner) { s.batchSize = n }
}

// WithWorkers bounds parallel classification within one batch.
func WithWorkers(n int) Option {
	return func(s *Scanner) { s.workers = n }
}

// WithLogger sets the scanner's logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Scanner) { s.logger = l }
}

// NewScanner creates a Scanner.
func NewScanner(filesystem fsys.FS, classifier *classify.Classifier, opts ...Option) *Scanner {
	s := &Scanner{
		fs:         filesystem,
		classifier: classifier,
		threshold:  config.DefaultSyncThreshold,
		batchSize:  config.DefaultBatchSize,
		workers:    config.DefaultWorkers,
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.batchSize < 1 {
		s.batchSize = 1
	}
	if s.workers < 1 {
		s.workers = 1
	}
	return s
}

// Start validates dir, retrieves its listing and returns a new Scan.
// Listings smaller than the sync threshold are fully classified before
// Start returns. Start fails with NotADirectory if dir cannot be
// enumerated.
func (s *Scanner) Start(dir string) (*Scan, error) {
	info, err := s.fs.Stat(dir)
	if err != nil {
		return nil, errors.NewFileError("cannot scan", dir, errors.NotADirectory, err)
	}
	if !info.IsDir() {
		return nil, errors.NewFileError("cannot scan", dir, errors.NotADirectory, nil)
	}
	raw, err := s.fs.ReadDir(dir)
	if err != nil {
		return nil, errors.NewFileError("cannot scan", dir, errors.NotADirectory, err)
	}

	id := uuid.NewString()
	sc := &Scan{
		id:      id,
		dir:     dir,
		scanner: s,
		cursor:  &Cursor{raw: raw},
		total:   len(raw),
		phase:   Scanning,
		logger:  s.logger.With(log.F("scan_id", id), log.F("dir", dir)),
	}

	if len(raw) < s.threshold {
		for {
			if _, done := sc.StepBatch(s.batchSize); done {
				break
			}
		}
		sc.logger.With(log.F("entries", sc.Len()), log.F("skipped", sc.Skipped())).Debug("scanned synchronously")
	} else {
		sc.logger.With(log.F("total", len(raw))).Debug("scanning incrementally")
	}
	return sc, nil
}

// Cursor walks a retrieved listing. It holds no OS resources.
type Cursor struct {
	raw []fsys.RawEntry
	pos int
}

// Next returns the next raw entry.
func (c *Cursor) Next() (fsys.RawEntry, bool) {
	if c.pos >= len(c.raw) {
		return fsys.RawEntry{}, false
	}
	r := c.raw[c.pos]
	c.raw[c.pos] = fsys.RawEntry{}
	c.pos++
	return r, true
}

// Remaining returns how many raw entries have not been consumed.
func (c *Cursor) Remaining() int {
	return len(c.raw) - c.pos
}

// Scan is the state of one directory enumeration.
//
// Steps are serialised by stepMu; the collection is guarded by mu, which is
// only held while merging already-classified entries. Readers therefore
// never wait on filesystem calls.
type Scan struct {
	id      string
	dir     string
	total   int
	scanner *Scanner
	logger  *log.Logger

	stepMu sync.Mutex
	cursor *Cursor

	mu      sync.RWMutex
	entries []types.Entry
	phase   Phase
	skipped int
	rev     uint64
}

// ID identifies this scan.
func (sc *Scan) ID() string { return sc.id }

// Dir returns the scanned directory.
func (sc *Scan) Dir() string { return sc.dir }

// Total returns the number of raw entries in the listing.
func (sc *Scan) Total() int { return sc.total }

// Phase returns the current phase.
func (sc *Scan) Phase() Phase {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.phase
}

// Complete reports whether the listing has been fully consumed.
func (sc *Scan) Complete() bool {
	return sc.Phase() == Complete
}

// Len returns the number of entries produced so far.
func (sc *Scan) Len() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return len(sc.entries)
}

// Skipped returns how many raw entries failed classification.
func (sc *Scan) Skipped() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.skipped
}

// Snapshot returns a copy of the collection and its completion state.
func (sc *Scan) Snapshot() Snapshot {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	entries := make([]types.Entry, len(sc.entries))
	copy(entries, sc.entries)
	return Snapshot{
		ID:       sc.id,
		Dir:      sc.dir,
		Entries:  entries,
		Complete: sc.phase == Complete,
		Total:    sc.total,
		Skipped:  sc.skipped,
		Rev:      sc.rev,
	}
}

// Step classifies raw entries until one is produced or the listing is
// exhausted. Entries that fail classification are skipped.
func (sc *Scan) Step() StepResult {
	sc.stepMu.Lock()
	defer sc.stepMu.Unlock()

	for {
		raw, ok := sc.cursor.Next()
		if !ok {
			sc.finish()
			return StepResult{Outcome: Exhausted}
		}
		e, err := sc.scanner.classifier.Classify(raw)
		if err != nil {
			sc.skip(err)
			continue
		}
		sc.merge([]types.Entry{e})
		return StepResult{Outcome: Produced, Entry: e}
	}
}

// StepBatch pulls up to n raw entries, classifies them in parallel and
// merges the results in one update. It returns the number of entries
// produced and whether the scan is complete.
func (sc *Scan) StepBatch(n int) (int, bool) {
	if n < 1 {
		n = sc.scanner.batchSize
	}
	sc.stepMu.Lock()
	defer sc.stepMu.Unlock()

	if sc.Complete() {
		return 0, true
	}

	batch := make([]fsys.RawEntry, 0, n)
	for len(batch) < n {
		raw, ok := sc.cursor.Next()
		if !ok {
			break
		}
		batch = append(batch, raw)
	}

	results := make([]types.Entry, len(batch))
	failures := make([]error, len(batch))
	var g errgroup.Group
	g.SetLimit(sc.scanner.workers)
	for i := range batch {
		i := i
		g.Go(func() error {
			results[i], failures[i] = sc.scanner.classifier.Classify(batch[i])
			return nil
		})
	}
	_ = g.Wait()

	produced := make([]types.Entry, 0, len(batch))
	for i, e := range results {
		if failures[i] != nil {
			sc.skip(failures[i])
			continue
		}
		produced = append(produced, e)
	}
	sc.merge(produced)

	if sc.cursor.Remaining() == 0 {
		sc.finish()
		return len(produced), true
	}
	return len(produced), false
}

// Run steps the scan until it completes or ctx is cancelled, calling
// notify with a snapshot after every batch. notify may be nil.
func (sc *Scan) Run(ctx context.Context, notify func(Snapshot)) error {
	for {
		if err := ctx.Err(); err != nil {
			sc.logger.Debug("scan abandoned")
			return err
		}
		_, done := sc.StepBatch(sc.scanner.batchSize)
		if notify != nil {
			notify(sc.Snapshot())
		}
		if done {
			return nil
		}
	}
}

func (sc *Scan) skip(err error) {
	sc.logger.WithError(err).Debug("skipping entry")
	sc.mu.Lock()
	sc.skipped++
	sc.mu.Unlock()
}

// merge inserts entries keeping byte-wise name order. Equal names are
// placed after existing ones.
func (sc *Scan) merge(batch []types.Entry) {
	if len(batch) == 0 {
		return
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	for _, e := range batch {
		name := e.Name()
		i := sort.Search(len(sc.entries), func(j int) bool {
			return sc.entries[j].Name() > name
		})
		sc.entries = append(sc.entries, nil)
		copy(sc.entries[i+1:], sc.entries[i:])
		sc.entries[i] = e
	}
	sc.rev++
}

func (sc *Scan) finish() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.phase != Complete {
		sc.phase = Complete
		sc.rev++
	}
}
