package usage

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"reaper-cleaner/internal/filesystem"
	"reaper-cleaner/internal/logging"
	"reaper-cleaner/internal/metrics"
	"reaper-cleaner/internal/models"
	"reaper-cleaner/internal/rpp"
	"reaper-cleaner/internal/workers"
)

// BuildOptions configures Build.
type BuildOptions struct {
	// Workers bounds parallel project reads; 0 uses workers.ForIO.
	Workers int
	Retry   filesystem.RetryConfig
}

// BuildReport describes one index build.
type BuildReport struct {
	Index        *Index
	ProjectsRead int
	References   int
	Specific     int
	Fallback     int
	Errors       []error
	Duration     time.Duration
}

// Build reads every given project, resolves its references and returns a
// sealed Index. Unreadable projects are logged and recorded in the report;
// they still count as read. Only cancellation aborts the build.
func Build(ctx context.Context, projects []models.ProjectRecord, resolver *rpp.Resolver, opts BuildOptions) (BuildReport, error) {
	start := time.Now()
	builder := NewBuilder()
	n := workers.Clamp(opts.Workers, len(projects))
	metrics.ParallelWorkers.WithLabelValues("index").Set(float64(n))

	var (
		mu     sync.Mutex
		report BuildReport
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(n)

	for _, p := range projects {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			refs, err := rpp.ExtractFile(p.Path, opts.Retry)
			if err != nil {
				logging.Warn("Error reading %s: %v", p.Path, err)
				metrics.ReadErrorsTotal.WithLabelValues("index").Inc()
				mu.Lock()
				report.ProjectsRead++
				report.Errors = append(report.Errors, err)
				mu.Unlock()
				return nil
			}

			resolved := make([]models.ResolvedUsage, 0, len(refs))
			specific, fallback := 0, 0
			for _, ref := range refs {
				u := resolver.Resolve(ref.Raw, p.Dir)
				if u.Kind == models.UsageSpecific {
					specific++
				} else {
					fallback++
				}
				resolved = append(resolved, u)
			}
			if err := builder.AddAll(resolved); err != nil {
				return err
			}

			metrics.ReferencesTotal.WithLabelValues("specific").Add(float64(specific))
			metrics.ReferencesTotal.WithLabelValues("fallback").Add(float64(fallback))
			logging.Debug("%s: %d references (%d resolved, %d by filename)", p.Name, len(refs), specific, fallback)

			mu.Lock()
			report.ProjectsRead++
			report.References += len(refs)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	report.Index = builder.Seal()
	report.Specific, report.Fallback = report.Index.Counts()
	report.Duration = time.Since(start)

	metrics.UsageIndexSize.WithLabelValues("specific").Set(float64(report.Specific))
	metrics.UsageIndexSize.WithLabelValues("fallback").Set(float64(report.Fallback))
	logging.Info("Usage index: %d specific paths, %d fallback names from %d projects (%d references) in %v",
		report.Specific, report.Fallback, report.ProjectsRead, report.References, report.Duration)
	return report, nil
}
