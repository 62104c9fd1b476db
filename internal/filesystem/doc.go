/*
Package filesystem provides the filesystem primitives used by the cleaner:
stat, read and readdir with retry on NFS stale file handles, plus rename and
mkdir helpers for the archiver.

# Retry Behavior

Project roots and shared sample libraries often live on network storage.
Only ESTALE (stale file handle) triggers a retry, with exponential backoff:
  - MaxRetries: 3 attempts
  - InitialBackoff: 50ms
  - MaxBackoff: 500ms

All other errors, including not-exist, fail immediately.

	info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig())
	data, err := filesystem.ReadFileWithRetry(projectPath, filesystem.DefaultRetryConfig())

# Moving Files

Rename wraps os.Rename. A cross-device rename (EXDEV) is reported as a
CrossDeviceError; the package never falls back to copy+delete, so a failed
move leaves the source untouched.

# Metrics

Operations are reported to a package-level Observer set with SetObserver.
The metrics package provides the Prometheus-backed implementation. Volumes
are labeled through a VolumeResolver ("root", "archive", "external").
*/
package filesystem
