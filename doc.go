// Command reaper-cleaner finds audio and MIDI files under a tree of REAPER
// projects that no project references, and moves them into an archive
// folder instead of deleting them.
//
// Usage:
//
//	reaper-cleaner projects <root>            list .rpp and .rpp-bak files
//	reaper-cleaner scan <root>                list unused media, move nothing
//	reaper-cleaner archive <root> [--yes]     move unused media to the archive
//	reaper-cleaner version
//
// A file is kept when a selected project references its exact path, or
// when a project references a file of the same name that could not be found
// (the sample library may simply be unmounted). Everything else under the
// selected projects' folders is a candidate. Archived files land in
// <root>/_Reaper_Cleanup_Archive/<project name>/.
//
// Configuration comes from ./.env (or --env-file), then the environment,
// then flags:
//
//	ARCHIVE_DIR_NAME    archive folder name under root (default _Reaper_Cleanup_Archive)
//	ARCHIVE_COLLISION   rename or fail when the archive already holds a name (default rename)
//	INDEX_SCOPE         selected or all: which projects protect media (default selected)
//	SCAN_WORKERS        parallel reads, walks and moves (default derived from CPU count)
//	RESOLVE_CACHE_SIZE  cached reference resolutions (default 4096)
//	SKIP_HIDDEN         skip dot files and directories (default false)
//	METRICS_ENABLED     serve Prometheus metrics while running (default false)
//	METRICS_PORT        metrics listen port (default 9090)
//	LOG_LEVEL           debug, info, warn or error (default info)
//
// The exit status is 0 on success and 1 when anything was not done.
package main
