package cleaner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"reaper-cleaner/internal/archiver"
	"reaper-cleaner/internal/filesystem"
	"reaper-cleaner/internal/locator"
	"reaper-cleaner/internal/logging"
	"reaper-cleaner/internal/metrics"
	"reaper-cleaner/internal/models"
	"reaper-cleaner/internal/rpp"
	"reaper-cleaner/internal/scanner"
	"reaper-cleaner/internal/usage"
)

// IndexScope selects which projects contribute references to the usage index.
type IndexScope string

const (
	// IndexScopeSelected indexes only included projects.
	IndexScopeSelected IndexScope = "selected"
	// IndexScopeAll indexes every located project, included or not. Media
	// referenced by an excluded project is then never reported as unused.
	IndexScopeAll IndexScope = "all"
)

// ErrUnknownItem is returned when a selection names a path the session
// does not hold.
var ErrUnknownItem = errors.New("unknown item")

// Options configures a Session.
type Options struct {
	ArchiveDirName   string
	Collision        archiver.Collision
	IndexScope       IndexScope
	Workers          int
	ResolveCacheSize int
	SkipHidden       bool
	Retry            filesystem.RetryConfig
}

// Analysis summarizes one FindUnused run.
type Analysis struct {
	ProjectsIndexed int
	References      int
	Used            int
	PossiblyUsed    int
	Unused          int
	UnusedBytes     int64
	ReadErrors      int
	Duration        time.Duration
}

// Session holds the records of one cleaning session and enforces the phase
// order locate, select, find unused, confirm, archive. A Session is not
// safe for concurrent use; the phases themselves run in parallel internally.
type Session struct {
	id   string
	root string
	opts Options

	projects   []models.ProjectRecord
	located    bool
	candidates []models.AudioCandidate
	analyzed   bool
}

// NewSession validates root and returns an empty session for it.
func NewSession(root string, opts Options) (*Session, error) {
	if strings.TrimSpace(root) == "" {
		return nil, models.ErrNoRoot
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrNoRoot, err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", models.ErrNoRoot, abs)
	}

	if opts.ArchiveDirName == "" {
		opts.ArchiveDirName = archiver.DefaultDirName
	}
	if opts.Collision == "" {
		opts.Collision = archiver.CollisionRename
	}
	if opts.IndexScope == "" {
		opts.IndexScope = IndexScopeSelected
	}
	if opts.Retry == (filesystem.RetryConfig{}) {
		opts.Retry = filesystem.DefaultRetryConfig()
	}

	return &Session{id: uuid.NewString(), root: abs, opts: opts}, nil
}

// ID identifies the session in logs and reports.
func (s *Session) ID() string { return s.id }

// Root returns the absolute scanned root.
func (s *Session) Root() string { return s.root }

// ArchiveRoot returns the directory candidates are moved into.
func (s *Session) ArchiveRoot() string {
	return archiver.Root(s.root, s.opts.ArchiveDirName)
}

// Locate finds every project file under the root. It resets any previous
// selection and analysis.
func (s *Session) Locate(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { metrics.ObservePhase("locate", start, err) }()

	if err := s.checkRunnable(ctx); err != nil {
		return err
	}

	res, err := locator.Locate(ctx, s.root, locator.Options{
		ExcludeDirs: []string{s.ArchiveRoot()},
		SkipHidden:  s.opts.SkipHidden,
		Retry:       s.opts.Retry,
	})
	if err != nil {
		return err
	}

	s.projects = res.Projects
	s.located = true
	s.candidates = nil
	s.analyzed = false
	return nil
}

// Projects returns a copy of the located projects.
func (s *Session) Projects() []models.ProjectRecord {
	return append([]models.ProjectRecord(nil), s.projects...)
}

// SetProjectIncluded changes whether a project takes part in the next
// analysis. Any previous analysis is discarded.
func (s *Session) SetProjectIncluded(path string, included bool) error {
	for i := range s.projects {
		if samePath(s.projects[i].Path, path) {
			if s.projects[i].Included != included {
				s.projects[i].Included = included
				s.candidates = nil
				s.analyzed = false
			}
			return nil
		}
	}
	return fmt.Errorf("project %s: %w", path, ErrUnknownItem)
}

// FindUnused builds the usage index from the selected projects, seals it,
// then scans their directories for unreferenced media.
func (s *Session) FindUnused(ctx context.Context) (a Analysis, err error) {
	start := time.Now()
	defer func() { metrics.ObservePhase("analyze", start, err) }()

	if !s.located {
		if err := s.Locate(ctx); err != nil {
			return Analysis{}, err
		}
	}

	selected := s.includedProjects()
	if len(selected) == 0 {
		return Analysis{}, models.ErrNothingSelected
	}
	if err := s.checkRunnable(ctx); err != nil {
		return Analysis{}, err
	}

	indexed := selected
	if s.opts.IndexScope == IndexScopeAll {
		indexed = s.Projects()
		sort.Slice(indexed, func(i, j int) bool { return indexed[i].Path < indexed[j].Path })
	}

	resolver, err := rpp.NewResolver(s.opts.ResolveCacheSize, s.opts.Retry)
	if err != nil {
		return Analysis{}, fmt.Errorf("creating resolver: %w", err)
	}

	indexStart := time.Now()
	report, err := usage.Build(ctx, indexed, resolver, usage.BuildOptions{
		Workers: s.opts.Workers,
		Retry:   s.opts.Retry,
	})
	metrics.ObservePhase("index", indexStart, err)
	if err != nil {
		return Analysis{}, err
	}

	if err := s.checkRunnable(ctx); err != nil {
		return Analysis{}, err
	}

	scanStart := time.Now()
	res, err := scanner.Scan(ctx, report.Index, selected, scanner.Options{
		ArchiveRoot: s.ArchiveRoot(),
		Workers:     s.opts.Workers,
		Retry:       s.opts.Retry,
	})
	metrics.ObservePhase("scan", scanStart, err)
	if err != nil {
		return Analysis{}, err
	}

	s.candidates = res.Candidates
	s.analyzed = true

	return Analysis{
		ProjectsIndexed: report.ProjectsRead,
		References:      report.References,
		Used:            res.Used,
		PossiblyUsed:    res.PossiblyUsed,
		Unused:          len(res.Candidates),
		UnusedBytes:     res.UnusedBytes,
		ReadErrors:      len(report.Errors) + len(res.Errors),
		Duration:        time.Since(start),
	}, nil
}

// Candidates returns a copy of the unused candidates from the last analysis.
func (s *Session) Candidates() []models.AudioCandidate {
	return append([]models.AudioCandidate(nil), s.candidates...)
}

// SetCandidateIncluded changes whether a candidate is part of the next
// archive batch.
func (s *Session) SetCandidateIncluded(path string, included bool) error {
	for i := range s.candidates {
		if samePath(s.candidates[i].Path, path) {
			s.candidates[i].Included = included
			return nil
		}
	}
	return fmt.Errorf("candidate %s: %w", path, ErrUnknownItem)
}

// Archive moves every included, not yet archived candidate into the archive.
// Per-item failures are reported in the outcome; the returned error is only
// set when nothing was attempted.
func (s *Session) Archive(ctx context.Context) (out models.ArchiveOutcome, err error) {
	start := time.Now()
	defer func() {
		if err == nil && out.Failed > 0 {
			metrics.ObservePhase("archive", start, errors.New("partial failure"))
			return
		}
		metrics.ObservePhase("archive", start, err)
	}()

	if !s.analyzed {
		return models.ArchiveOutcome{}, models.ErrNotAnalyzed
	}

	var batch []models.AudioCandidate
	for _, c := range s.candidates {
		if c.Included && c.State != models.StateArchived {
			batch = append(batch, c)
		}
	}
	if len(batch) == 0 {
		return models.ArchiveOutcome{}, models.ErrNothingSelected
	}
	if err := s.checkRunnable(ctx); err != nil {
		return models.ArchiveOutcome{}, err
	}

	out = archiver.Archive(ctx, s.root, batch, archiver.Options{
		DirName:   s.opts.ArchiveDirName,
		Collision: s.opts.Collision,
		Workers:   s.opts.Workers,
	})

	updated := make(map[string]models.AudioCandidate, len(out.Items))
	for _, item := range out.Items {
		updated[item.Path] = item
	}
	for i, c := range s.candidates {
		if u, ok := updated[c.Path]; ok {
			s.candidates[i] = u
		}
	}
	return out, nil
}

// checkRunnable is run between phases: it honours cancellation and fails
// hard if the root has disappeared.
func (s *Session) checkRunnable(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := filesystem.StatWithRetry(s.root, s.opts.Retry)
	if err != nil {
		logging.Error("Root directory %s is no longer available: %v", s.root, err)
		return fmt.Errorf("root directory %s: %w", s.root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root %s is not a directory", s.root)
	}
	return nil
}

// includedProjects returns the selected projects in path order, whatever
// display order the caller has sorted them into. Origin attribution follows
// this order.
func (s *Session) includedProjects() []models.ProjectRecord {
	var out []models.ProjectRecord
	for _, p := range s.projects {
		if p.Included {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func samePath(a, b string) bool {
	return strings.EqualFold(filepath.Clean(a), filepath.Clean(b))
}
