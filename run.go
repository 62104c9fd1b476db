package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"reaper-cleaner/internal/archiver"
	"reaper-cleaner/internal/cleaner"
	"reaper-cleaner/internal/filesystem"
	"reaper-cleaner/internal/handlers"
	"reaper-cleaner/internal/logging"
	"reaper-cleaner/internal/mediatypes"
	"reaper-cleaner/internal/metrics"
	"reaper-cleaner/internal/startup"
)

// run is one configured cleaning session plus the optional metrics server.
type run struct {
	cfg     *startup.Config
	session *cleaner.Session
	status  *handlers.Status
	stop    func()
}

func newRun(g *globalFlags, o startup.Overrides) (*run, error) {
	cfg, err := startup.LoadConfig(o)
	if err != nil {
		return nil, err
	}
	if g.metrics {
		cfg.MetricsEnabled = true
	}
	if logging.IsDebugEnabled() {
		startup.LogStartup()
	}

	filesystem.SetObserver(metrics.NewFilesystemObserver())
	filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(map[string]string{
		"root":    cfg.Root,
		"archive": cfg.ArchiveRoot,
	}))
	metrics.InitializeMetrics()
	info := startup.GetBuildInfo()
	metrics.AppInfo.WithLabelValues(info.Version, info.Commit, info.GoVersion).Set(1)

	collision, err := archiver.ParseCollision(cfg.Collision)
	if err != nil {
		return nil, err
	}

	session, err := cleaner.NewSession(cfg.Root, cleaner.Options{
		ArchiveDirName:   cfg.ArchiveDirName,
		Collision:        collision,
		IndexScope:       cleaner.IndexScope(cfg.IndexScope),
		Workers:          cfg.Workers,
		ResolveCacheSize: cfg.ResolveCacheSize,
		SkipHidden:       cfg.SkipHidden,
		Retry:            filesystem.DefaultRetryConfig(),
	})
	if err != nil {
		return nil, err
	}

	logging.Debug("Session %s for %s", session.ID(), session.Root())
	r := &run{cfg: cfg, session: session, status: handlers.NewStatus(), stop: func() {}}
	r.status.SetRunID(session.ID())
	if cfg.MetricsEnabled {
		r.stop = startMetricsServer(cfg.MetricsPort, r.status)
	}
	return r, nil
}

// close stops the metrics server and records the run's final state.
func (r *run) close(err error) {
	if err != nil {
		r.status.Fail(err)
	} else {
		r.status.Finish()
	}
	r.stop()
}

// phase runs fn framed by lifecycle logging and status updates.
func (r *run) phase(name string, fn func() (string, error)) error {
	r.status.SetPhase(name)
	startup.LogPhaseStart(name)
	start := time.Now()
	detail, err := fn()
	if err != nil {
		startup.LogPhaseFailed(name, err)
		return err
	}
	startup.LogPhaseComplete(name, time.Since(start), "%s", detail)
	return nil
}

func (r *run) locate(ctx context.Context) error {
	return r.phase("locate", func() (string, error) {
		if err := r.session.Locate(ctx); err != nil {
			return "", err
		}
		return fmt.Sprintf("%d project files", len(r.session.Projects())), nil
	})
}

// exclude deselects every project matched by one of refs. A ref matches a
// project by path, by file name or by file name without extension.
func (r *run) exclude(refs []string) error {
	for _, ref := range refs {
		matched := 0
		for _, p := range r.session.Projects() {
			if matchesProject(p.Path, p.Name, ref) {
				if err := r.session.SetProjectIncluded(p.Path, false); err != nil {
					return err
				}
				matched++
			}
		}
		if matched == 0 {
			logging.Warn("--exclude %q matched no project", ref)
		} else {
			logging.Debug("--exclude %q deselected %d project(s)", ref, matched)
		}
	}
	return nil
}

func matchesProject(path, name, ref string) bool {
	if strings.EqualFold(name, ref) || strings.EqualFold(mediatypes.ProjectBaseName(name), ref) {
		return true
	}
	if abs, err := filepath.Abs(ref); err == nil && strings.EqualFold(filepath.Clean(path), abs) {
		return true
	}
	return false
}

func (r *run) analyze(ctx context.Context) (cleaner.Analysis, error) {
	var a cleaner.Analysis
	err := r.phase("analyze", func() (string, error) {
		var err error
		a, err = r.session.FindUnused(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d used, %d possibly used, %d unused (%s)",
			a.Used, a.PossiblyUsed, a.Unused, formatBytes(a.UnusedBytes)), nil
	})
	return a, err
}

// skipCandidates keeps every candidate matched by one of refs in place. A
// ref matches a candidate by path or by file name.
func skipCandidates(r *run, refs []string) error {
	for _, ref := range refs {
		matched := 0
		abs, _ := filepath.Abs(ref)
		for _, c := range r.session.Candidates() {
			if strings.EqualFold(c.Name, ref) || strings.EqualFold(filepath.Clean(c.Path), abs) {
				if err := r.session.SetCandidateIncluded(c.Path, false); err != nil {
					return err
				}
				matched++
			}
		}
		if matched == 0 {
			logging.Warn("--skip %q matched no unused file", ref)
		}
	}
	return nil
}
