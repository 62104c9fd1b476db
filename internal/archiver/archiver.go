package archiver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"reaper-cleaner/internal/filesystem"
	"reaper-cleaner/internal/logging"
	"reaper-cleaner/internal/mediatypes"
	"reaper-cleaner/internal/metrics"
	"reaper-cleaner/internal/models"
	"reaper-cleaner/internal/workers"
)

// DefaultDirName is the archive root created directly under the scanned root.
const DefaultDirName = "_Reaper_Cleanup_Archive"

// unattributed is used when a candidate carries no origin project.
const unattributed = "_unattributed"

// ErrDestinationExists is returned under CollisionFail when the archive
// already holds a file with the candidate's name.
var ErrDestinationExists = errors.New("destination already exists")

// Collision selects what happens when the destination name is taken.
type Collision string

const (
	// CollisionRename picks "name (1).ext", "name (2).ext" and so on.
	CollisionRename Collision = "rename"
	// CollisionFail reports the item as failed and leaves both files alone.
	CollisionFail Collision = "fail"
)

// ParseCollision converts a config or flag value into a Collision.
func ParseCollision(s string) (Collision, error) {
	switch Collision(strings.ToLower(strings.TrimSpace(s))) {
	case "", CollisionRename:
		return CollisionRename, nil
	case CollisionFail:
		return CollisionFail, nil
	default:
		return "", fmt.Errorf("invalid collision policy %q (want rename or fail)", s)
	}
}

// MoveError reports one candidate that could not be relocated.
type MoveError struct {
	Src string
	Dst string
	Err error
}

func (e *MoveError) Error() string {
	if e.Dst == "" {
		return fmt.Sprintf("archiving %s: %v", e.Src, e.Err)
	}
	return fmt.Sprintf("moving %s to %s: %v", e.Src, e.Dst, e.Err)
}

func (e *MoveError) Unwrap() []error { return []error{models.ErrMove, e.Err} }

// Options configures an archive batch.
type Options struct {
	// DirName overrides DefaultDirName.
	DirName   string
	Collision Collision
	// Workers bounds parallel destination groups; 0 uses workers.ForIO.
	Workers int
}

// Root returns the archive root for a scanned root.
func Root(root, dirName string) string {
	if dirName == "" {
		dirName = DefaultDirName
	}
	return filepath.Join(root, dirName)
}

// DestinationDir returns the per-project subdirectory for a candidate:
// the origin project file name with its extension stripped.
func DestinationDir(archiveRoot string, c models.AudioCandidate) string {
	base := mediatypes.ProjectBaseName(c.Origin)
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = unattributed
	}
	return filepath.Join(archiveRoot, base)
}

// group holds the indexes of items sharing one destination directory.
type group struct {
	dir   string
	items []int
}

// Archive moves every given candidate into the archive under root. Each
// item fails on its own; nothing already moved is rolled back. Items
// bound for the same destination directory are moved one at a time, so a
// collision check and its rename never race.
func Archive(ctx context.Context, root string, candidates []models.AudioCandidate, opts Options) models.ArchiveOutcome {
	start := time.Now()
	archiveRoot := Root(root, opts.DirName)
	if opts.Collision == "" {
		opts.Collision = CollisionRename
	}

	out := models.ArchiveOutcome{
		ArchiveRoot: archiveRoot,
		Items:       make([]models.AudioCandidate, len(candidates)),
	}
	copy(out.Items, candidates)

	errs := make([]error, len(out.Items))
	var groups []*group
	byDir := make(map[string]*group)

	for i := range out.Items {
		item := &out.Items[i]
		if err := item.Transition(models.StateArchivePending); err != nil {
			errs[i] = &MoveError{Src: item.Path, Err: err}
			continue
		}
		dir := DestinationDir(archiveRoot, *item)
		key := strings.ToLower(dir)
		g, ok := byDir[key]
		if !ok {
			g = &group{dir: dir}
			byDir[key] = g
			groups = append(groups, g)
		}
		g.items = append(g.items, i)
	}

	if len(groups) > 0 {
		if err := filesystem.EnsureDir(archiveRoot); err != nil {
			logging.Error("Failed to create archive root %s: %v", archiveRoot, err)
			for _, g := range groups {
				for _, i := range g.items {
					errs[i] = &MoveError{Src: out.Items[i].Path, Err: err}
				}
			}
			groups = nil
		}
	}

	n := workers.Clamp(opts.Workers, len(groups))
	metrics.ParallelWorkers.WithLabelValues("archive").Set(float64(n))

	var eg errgroup.Group
	eg.SetLimit(n)
	var mu sync.Mutex
	var moved int64

	for _, g := range groups {
		eg.Go(func() error {
			if err := filesystem.EnsureDir(g.dir); err != nil {
				for _, i := range g.items {
					errs[i] = &MoveError{Src: out.Items[i].Path, Dst: g.dir, Err: err}
				}
				return nil
			}
			for _, i := range g.items {
				item := &out.Items[i]
				if err := ctx.Err(); err != nil {
					errs[i] = &MoveError{Src: item.Path, Err: err}
					continue
				}
				dst, err := moveOne(item.Path, g.dir, opts.Collision)
				if err != nil {
					errs[i] = err
					continue
				}
				item.ArchivedTo = dst
				mu.Lock()
				moved += item.Size
				mu.Unlock()
			}
			return nil
		})
	}
	_ = eg.Wait()

	for i := range out.Items {
		item := &out.Items[i]
		if errs[i] == nil {
			_ = item.Transition(models.StateArchived)
			out.Succeeded++
			metrics.ArchiveMovesTotal.WithLabelValues("success").Inc()
			logging.Debug("Archived %s -> %s", item.Path, item.ArchivedTo)
			continue
		}
		if item.State == models.StateArchivePending {
			_ = item.Transition(models.StateArchiveFailed)
		}
		out.Failed++
		out.Failures = append(out.Failures, models.ArchiveFailure{
			Item:   *item,
			Reason: errs[i].Error(),
			Err:    errs[i],
		})
		metrics.ArchiveMovesTotal.WithLabelValues("error").Inc()
		logging.Warn("Failed to archive %s: %v", item.Path, errs[i])
	}
	metrics.ArchivedBytesTotal.Add(float64(moved))

	logging.Info("Archive complete: %d moved, %d failed into %s in %v",
		out.Succeeded, out.Failed, archiveRoot, time.Since(start))
	return out
}

// moveOne relocates src into dir and returns the final destination path.
func moveOne(src, dir string, collision Collision) (string, error) {
	dst := filepath.Join(dir, filepath.Base(src))

	if exists(dst) {
		if collision == CollisionFail {
			return "", &MoveError{Src: src, Dst: dst, Err: ErrDestinationExists}
		}
		next, err := freeName(dst)
		if err != nil {
			return "", &MoveError{Src: src, Dst: dst, Err: err}
		}
		logging.Debug("Destination %s exists, using %s", dst, next)
		dst = next
	}

	if err := filesystem.Rename(src, dst); err != nil {
		return "", &MoveError{Src: src, Dst: dst, Err: err}
	}
	return dst, nil
}

// maxRenameAttempts bounds the search for a free "name (n).ext".
const maxRenameAttempts = 10000

func freeName(dst string) (string, error) {
	dir := filepath.Dir(dst)
	ext := filepath.Ext(dst)
	stem := strings.TrimSuffix(filepath.Base(dst), ext)
	for n := 1; n <= maxRenameAttempts; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
		if !exists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free name for %s after %d attempts: %w", dst, maxRenameAttempts, ErrDestinationExists)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
