// Package metrics provides Prometheus instrumentation for reaper-cleaner.
//
// All metrics are prefixed with "reaper_cleaner_". They are registered with
// the default registry through promauto and are only exported when the
// command runs with METRICS_ENABLED=true, which is mostly useful while
// scanning very large libraries on network storage.
//
// # Metric Categories
//
// ## Phase Metrics
//   - PhaseDuration: Histogram of phase duration (locate, index, scan, archive)
//   - PhaseRunsTotal: Counter of phase runs by outcome
//   - ParallelWorkers: Gauge of workers used per phase
//
// ## Reference Metrics
//   - ProjectsFound: Gauge of project files by variant (primary, backup)
//   - ReadErrorsTotal: Counter of unreadable directories and project files
//   - ReferencesTotal: Counter of references by resolution kind
//   - UsageIndexSize: Gauge of sealed index entries per set
//   - ResolverCacheHits / ResolverCacheMisses: resolver existence cache
//
// ## Classification and Archive Metrics
//   - FilesClassifiedTotal: Counter of media files by verdict
//   - UnusedBytes: Gauge of bytes eligible for archiving
//   - ArchiveMovesTotal: Counter of moves by outcome
//   - ArchivedBytesTotal: Counter of bytes relocated
//
// ## Filesystem Metrics
//
// Recorded through the filesystem.Observer returned by NewFilesystemObserver,
// labeled by volume ("root", "archive", "external"):
//   - FilesystemOperationDuration / FilesystemOperationErrors
//   - FilesystemRetryAttempts / FilesystemRetrySuccess / FilesystemRetryFailures
//   - FilesystemRetryDuration / FilesystemStaleErrors
//
// # Usage
//
//	filesystem.SetObserver(metrics.NewFilesystemObserver())
//	metrics.InitializeMetrics()
//
//	start := time.Now()
//	err := runPhase()
//	metrics.ObservePhase("scan", start, err)
//
// To expose them, mount promhttp.Handler() on a router:
//
//	import "github.com/prometheus/client_golang/prometheus/promhttp"
//
//	r.Handle("/metrics", promhttp.Handler())
package metrics
