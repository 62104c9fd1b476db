//go:build !unix && !windows

package filesystem

func isEXDEV(error) bool { return false }
