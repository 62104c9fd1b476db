/*
Package workers sizes the worker pools used by the cleaner phases.

Reading project files, walking project directories and moving files are all
I/O-bound, so the phases use ForIO. GOMAXPROCS is used instead of
runtime.NumCPU so container CPU limits are respected.

	n := workers.ForIO(16)          // 2 per CPU, at most 16
	n = workers.Clamp(n, len(jobs)) // never more workers than jobs

Set SCAN_WORKERS to pin the count, for example SCAN_WORKERS=1 to force the
strictly sequential behavior on slow network shares.
*/
package workers
