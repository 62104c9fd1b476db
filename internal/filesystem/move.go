package filesystem

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// renameFunc is swapped in tests to simulate EXDEV and permission failures.
var renameFunc = os.Rename

// CrossDeviceError reports a rename that failed because source and
// destination live on different filesystems. Files are never copied and
// deleted implicitly; the caller reports the item as failed.
type CrossDeviceError struct {
	Src string
	Dst string
	Err error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("cross-device move %q -> %q: source and archive must be on the same filesystem: %v", e.Src, e.Dst, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

// IsCrossDevice reports whether err is a CrossDeviceError.
func IsCrossDevice(err error) bool {
	var e *CrossDeviceError
	return errors.As(err, &e)
}

// Rename wraps os.Rename and marks EXDEV failures as CrossDeviceError.
func Rename(src, dst string) error {
	start := time.Now()
	err := renameFunc(src, dst)
	if obs := observe(); obs != nil {
		obs.ObserveOperation(defaultResolver.Resolve(dst), "rename", time.Since(start).Seconds(), err)
	}
	if err != nil {
		if isEXDEV(err) {
			return &CrossDeviceError{Src: src, Dst: dst, Err: err}
		}
		return err
	}
	return nil
}

// EnsureDir creates dir and any missing parents. Existing directories are
// accepted; an existing non-directory is an error.
func EnsureDir(dir string) error {
	start := time.Now()
	err := os.MkdirAll(dir, 0o755)
	if obs := observe(); obs != nil {
		obs.ObserveOperation(defaultResolver.Resolve(dir), "mkdir", time.Since(start).Seconds(), err)
	}
	return err
}
