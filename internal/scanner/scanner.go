package scanner

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"reaper-cleaner/internal/filesystem"
	"reaper-cleaner/internal/locator"
	"reaper-cleaner/internal/logging"
	"reaper-cleaner/internal/mediatypes"
	"reaper-cleaner/internal/metrics"
	"reaper-cleaner/internal/models"
	"reaper-cleaner/internal/rpp"
	"reaper-cleaner/internal/usage"
	"reaper-cleaner/internal/workers"
)

// Options configures a scan.
type Options struct {
	// ArchiveRoot is never descended into.
	ArchiveRoot string
	// Workers bounds parallel directory walks; 0 uses workers.ForIO.
	Workers int
	Retry   filesystem.RetryConfig
}

// Result is the outcome of one scan. Candidates are in discovery order.
type Result struct {
	Candidates   []models.AudioCandidate
	Used         int
	PossiblyUsed int
	UnusedBytes  int64
	Errors       []*locator.ReadError
	Duration     time.Duration
}

// discovery is one media file seen by a walk, before classification.
type discovery struct {
	path    string
	key     string
	name    string
	size    int64
	modTime time.Time
}

// walk is the ordered output of walking one project directory.
type walk struct {
	project models.ProjectRecord
	files   []discovery
	errors  []*locator.ReadError
	err     error
}

// Scan walks the directory of every included project and classifies each
// media file against the sealed index. Walks run in parallel but are merged
// in project order, so a file reachable from several projects is attributed
// to the first project in that order whose walk finds it.
func Scan(ctx context.Context, index *usage.Index, projects []models.ProjectRecord, opts Options) (Result, error) {
	start := time.Now()
	if index == nil {
		return Result{}, models.ErrNotAnalyzed
	}

	walks := plan(projects)
	n := workers.Clamp(opts.Workers, len(walks))
	metrics.ParallelWorkers.WithLabelValues("scan").Set(float64(n))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(n)
	for i := range walks {
		w := &walks[i]
		g.Go(func() error {
			walkDir(gctx, w, opts)
			if w.err != nil && isCancel(w.err) {
				return w.err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := merge(index, walks)
	res.Duration = time.Since(start)

	metrics.ReadErrorsTotal.WithLabelValues("scan").Add(float64(len(res.Errors)))
	metrics.FilesClassifiedTotal.WithLabelValues(models.ClassUsed.String()).Add(float64(res.Used))
	metrics.FilesClassifiedTotal.WithLabelValues(models.ClassPossiblyUsed.String()).Add(float64(res.PossiblyUsed))
	metrics.FilesClassifiedTotal.WithLabelValues(models.ClassUnused.String()).Add(float64(len(res.Candidates)))
	metrics.UnusedBytes.Set(float64(res.UnusedBytes))

	logging.Info("Scan complete: %d used, %d possibly used, %d unused (%d bytes) in %v (errors: %d)",
		res.Used, res.PossiblyUsed, len(res.Candidates), res.UnusedBytes, res.Duration, len(res.Errors))
	return res, nil
}

// plan returns one walk per distinct directory among the included
// projects. A directory shared by several projects belongs to the first.
func plan(projects []models.ProjectRecord) []walk {
	seen := make(map[string]bool)
	var walks []walk
	for _, p := range projects {
		if !p.Included {
			continue
		}
		key := rpp.Canonical(p.Dir)
		if seen[key] {
			logging.Debug("Directory %s already scanned for an earlier project, skipping for %s", p.Dir, p.Name)
			continue
		}
		seen[key] = true
		walks = append(walks, walk{project: p})
	}
	return walks
}

func walkDir(ctx context.Context, w *walk, opts Options) {
	root := w.project.Dir
	w.err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			logging.Warn("Skipping unreadable path %s: %v", path, err)
			w.errors = append(w.errors, &locator.ReadError{Path: path, Err: err})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if opts.ArchiveRoot != "" && locator.IsUnder(path, opts.ArchiveRoot) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || !mediatypes.IsMediaFile(d.Name()) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			logging.Warn("Error getting info for %s: %v", path, err)
			w.errors = append(w.errors, &locator.ReadError{Path: path, Err: err})
			return nil
		}

		w.files = append(w.files, discovery{
			path:    path,
			key:     rpp.Canonical(path),
			name:    d.Name(),
			size:    fi.Size(),
			modTime: fi.ModTime(),
		})
		return nil
	})
}

// merge classifies discoveries in walk order, deduplicating by canonical key.
func merge(index *usage.Index, walks []walk) Result {
	var res Result
	seen := make(map[string]bool)

	for _, w := range walks {
		res.Errors = append(res.Errors, w.errors...)
		for _, f := range w.files {
			if seen[f.key] {
				continue
			}
			seen[f.key] = true

			switch index.Classify(f.key, f.name) {
			case models.ClassUsed:
				res.Used++
			case models.ClassPossiblyUsed:
				logging.Debug("Possibly used (filename match): %s", f.path)
				res.PossiblyUsed++
			case models.ClassUnused:
				res.UnusedBytes += f.size
				res.Candidates = append(res.Candidates, models.AudioCandidate{
					Path:         f.path,
					CanonicalKey: f.key,
					Name:         f.name,
					Size:         f.size,
					ModTime:      f.modTime,
					Origin:       w.project.Name,
					OriginPath:   w.project.Path,
					Included:     true,
					State:        models.StateDiscovered,
				})
			}
		}
	}
	return res
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
