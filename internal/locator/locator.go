package locator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"reaper-cleaner/internal/filesystem"
	"reaper-cleaner/internal/logging"
	"reaper-cleaner/internal/mediatypes"
	"reaper-cleaner/internal/metrics"
	"reaper-cleaner/internal/models"
)

// ReadError reports a directory or file that could not be read during the
// walk. The affected subtree is skipped and the walk continues.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() []error { return []error{models.ErrRead, e.Err} }

// Options configures a locate walk.
type Options struct {
	// ExcludeDirs are skipped entirely, typically the archive root.
	ExcludeDirs []string
	// SkipHidden skips files and directories starting with ".".
	SkipHidden bool
	Retry      filesystem.RetryConfig
}

// Result holds the projects found and the non-fatal errors met on the way.
type Result struct {
	Projects []models.ProjectRecord
	Errors   []*ReadError
	Duration time.Duration
}

// Locate walks root and returns every primary and backup project file,
// sorted by path. Each record starts with Included=true. Only a missing or
// unreadable root is a hard error.
func Locate(ctx context.Context, root string, opts Options) (Result, error) {
	start := time.Now()
	root = filepath.Clean(root)

	info, err := filesystem.StatWithRetry(root, opts.Retry)
	if err != nil {
		return Result{}, fmt.Errorf("root directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return Result{}, fmt.Errorf("root %s is not a directory", root)
	}

	excluded := cleanAll(opts.ExcludeDirs)
	var res Result

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			if path == root {
				return err
			}
			logging.Warn("Skipping unreadable path %s: %v", path, err)
			res.Errors = append(res.Errors, &ReadError{Path: path, Err: err})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && (isExcluded(path, excluded) || (opts.SkipHidden && strings.HasPrefix(d.Name(), "."))) {
				logging.Debug("Skipping directory %s", path)
				return filepath.SkipDir
			}
			return nil
		}

		if opts.SkipHidden && strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if !d.Type().IsRegular() || !mediatypes.IsProjectFile(d.Name()) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			logging.Warn("Error getting info for %s: %v", path, err)
			res.Errors = append(res.Errors, &ReadError{Path: path, Err: err})
			return nil
		}

		res.Projects = append(res.Projects, models.ProjectRecord{
			Path:     path,
			Name:     d.Name(),
			Dir:      filepath.Dir(path),
			Size:     fi.Size(),
			ModTime:  fi.ModTime(),
			Backup:   mediatypes.IsBackupProject(d.Name()),
			Included: true,
		})
		return nil
	})

	res.Duration = time.Since(start)
	metrics.ReadErrorsTotal.WithLabelValues("locate").Add(float64(len(res.Errors)))

	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return res, walkErr
		}
		return res, fmt.Errorf("walking root %s: %w", root, walkErr)
	}

	sort.Slice(res.Projects, func(i, j int) bool { return res.Projects[i].Path < res.Projects[j].Path })

	primary, backup := 0, 0
	for _, p := range res.Projects {
		if p.Backup {
			backup++
		} else {
			primary++
		}
	}
	metrics.ProjectsFound.WithLabelValues("primary").Set(float64(primary))
	metrics.ProjectsFound.WithLabelValues("backup").Set(float64(backup))

	logging.Info("Found %d project files (%d primary, %d backup) in %v (errors: %d)",
		len(res.Projects), primary, backup, res.Duration, len(res.Errors))
	return res, nil
}

func cleanAll(dirs []string) []string {
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if strings.TrimSpace(d) == "" {
			continue
		}
		if abs, err := filepath.Abs(d); err == nil {
			d = abs
		}
		out = append(out, strings.ToLower(filepath.Clean(d)))
	}
	return out
}

// IsUnder reports whether path equals base or lies beneath it, comparing
// case-insensitively.
func IsUnder(path, base string) bool {
	path = strings.ToLower(filepath.Clean(path))
	base = strings.ToLower(filepath.Clean(base))
	if path == base {
		return true
	}
	return strings.HasPrefix(path, base+string(filepath.Separator))
}

func isExcluded(path string, excluded []string) bool {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	for _, base := range excluded {
		if IsUnder(path, base) {
			return true
		}
	}
	return false
}
