package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Phase metrics
var (
	PhaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reaper_cleaner_phase_duration_seconds",
			Help:    "Duration of each cleaning phase in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
		},
		[]string{"phase"}, // "locate", "index", "scan", "archive"
	)

	PhaseRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reaper_cleaner_phase_runs_total",
			Help: "Total number of phase runs by outcome",
		},
		[]string{"phase", "status"},
	)

	ParallelWorkers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reaper_cleaner_parallel_workers",
			Help: "Number of workers used by the last run of each phase",
		},
		[]string{"phase"},
	)
)

// Locator metrics
var (
	ProjectsFound = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reaper_cleaner_projects_found",
			Help: "Number of project files found by the last locate",
		},
		[]string{"variant"}, // "primary", "backup"
	)

	ReadErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reaper_cleaner_read_errors_total",
			Help: "Total number of unreadable directories and project files",
		},
		[]string{"phase"},
	)
)

// Usage index metrics
var (
	ReferencesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reaper_cleaner_references_total",
			Help: "Total number of project references by resolution kind",
		},
		[]string{"kind"}, // "specific", "fallback"
	)

	UsageIndexSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reaper_cleaner_usage_index_entries",
			Help: "Number of entries in the last sealed usage index",
		},
		[]string{"set"}, // "specific", "fallback"
	)

	ResolverCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reaper_cleaner_resolver_cache_hits_total",
			Help: "Total number of resolver existence checks served from cache",
		},
	)

	ResolverCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reaper_cleaner_resolver_cache_misses_total",
			Help: "Total number of resolver existence checks that hit the filesystem",
		},
	)
)

// Scanner metrics
var (
	FilesClassifiedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reaper_cleaner_files_classified_total",
			Help: "Total number of media files classified by verdict",
		},
		[]string{"class"}, // "used", "possibly_used", "unused"
	)

	UnusedBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reaper_cleaner_unused_bytes",
			Help: "Total size of unused candidates found by the last scan",
		},
	)
)

// Archiver metrics
var (
	ArchiveMovesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reaper_cleaner_archive_moves_total",
			Help: "Total number of archive moves by outcome",
		},
		[]string{"status"}, // "success", "error"
	)

	ArchivedBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reaper_cleaner_archived_bytes_total",
			Help: "Total bytes relocated into the archive",
		},
	)
)

// Filesystem metrics
var (
	FilesystemOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reaper_cleaner_filesystem_operation_duration_seconds",
			Help:    "Duration of filesystem operations by volume and operation",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"volume", "operation"},
	)

	FilesystemOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reaper_cleaner_filesystem_operation_errors_total",
			Help: "Total number of failed filesystem operations",
		},
		[]string{"volume", "operation"},
	)

	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reaper_cleaner_filesystem_retry_attempts_total",
			Help: "Total number of retries after stale file handle errors",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reaper_cleaner_filesystem_retry_success_total",
			Help: "Total number of operations that succeeded after retrying",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reaper_cleaner_filesystem_retry_failures_total",
			Help: "Total number of operations that failed after all retries",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reaper_cleaner_filesystem_retry_duration_seconds",
			Help:    "Total time spent in operations that needed retries",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation", "volume"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reaper_cleaner_filesystem_stale_errors_total",
			Help: "Total number of stale file handle errors",
		},
		[]string{"operation", "volume"},
	)
)

// HTTP metrics for the optional metrics server
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reaper_cleaner_http_requests_total",
			Help: "Total number of HTTP requests served by the metrics server",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reaper_cleaner_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// AppInfo exposes build information as labels.
var AppInfo = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "reaper_cleaner_app_info",
		Help: "Application build information",
	},
	[]string{"version", "commit", "go_version"},
)
