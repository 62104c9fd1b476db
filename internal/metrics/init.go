package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
func InitializeMetrics() {
	phases := []string{"locate", "index", "scan", "archive"}
	for _, p := range phases {
		PhaseDuration.WithLabelValues(p)
		PhaseRunsTotal.WithLabelValues(p, "success")
		PhaseRunsTotal.WithLabelValues(p, "error")
		ParallelWorkers.WithLabelValues(p)
		ReadErrorsTotal.WithLabelValues(p)
	}
	PhaseDuration.WithLabelValues("analyze")
	PhaseRunsTotal.WithLabelValues("analyze", "success")
	PhaseRunsTotal.WithLabelValues("analyze", "error")

	for _, v := range []string{"primary", "backup"} {
		ProjectsFound.WithLabelValues(v)
	}

	for _, k := range []string{"specific", "fallback"} {
		ReferencesTotal.WithLabelValues(k)
		UsageIndexSize.WithLabelValues(k)
	}

	for _, c := range []string{"used", "possibly_used", "unused"} {
		FilesClassifiedTotal.WithLabelValues(c)
	}

	ArchiveMovesTotal.WithLabelValues("success")
	ArchiveMovesTotal.WithLabelValues("error")

	volumes := []string{"root", "archive", "external", "unknown"}
	for _, vol := range volumes {
		for _, op := range []string{"stat", "read", "readdir", "rename", "mkdir"} {
			FilesystemOperationDuration.WithLabelValues(vol, op)
			FilesystemOperationErrors.WithLabelValues(vol, op)
		}
		for _, op := range []string{"stat", "read", "readdir"} {
			FilesystemRetryAttempts.WithLabelValues(op, vol)
			FilesystemRetrySuccess.WithLabelValues(op, vol)
			FilesystemRetryFailures.WithLabelValues(op, vol)
			FilesystemStaleErrors.WithLabelValues(op, vol)
			FilesystemRetryDuration.WithLabelValues(op, vol)
		}
	}
}
