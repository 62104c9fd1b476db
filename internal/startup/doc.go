// Package startup handles configuration loading, build information and
// the lifecycle logging of a cleaning run.
//
// # Configuration
//
// Configuration is read by [LoadConfig] from an optional .env file
// (github.com/joho/godotenv), then the environment, then command line
// overrides, and is validated with github.com/go-playground/validator/v10.
//
//   - ARCHIVE_DIR_NAME: archive root under the scanned root (default: _Reaper_Cleanup_Archive)
//   - ARCHIVE_COLLISION: rename or fail when an archived name is taken (default: rename)
//   - INDEX_SCOPE: selected or all projects contribute references (default: selected)
//   - SCAN_WORKERS: parallel workers for reads, walks and moves (default: 2 per CPU)
//   - RESOLVE_CACHE_SIZE: existence checks remembered per run (default: 4096)
//   - SKIP_HIDDEN: skip dot files and directories while locating (default: false)
//   - METRICS_ENABLED: serve /metrics, /healthz and /version during a run (default: false)
//   - METRICS_PORT: port of the metrics server (default: 9090)
//   - LOG_LEVEL: debug, info, warn or error (default: info)
//
// # Lifecycle logging
//
// Each phase is framed by [LogPhaseStart] and [LogPhaseComplete] or
// [LogPhaseFailed], using the same section headers as the banner and
// system information printed by [LogStartup].
package startup
