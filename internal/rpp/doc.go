// Package rpp reads media references out of REAPER project files and
// resolves them against the filesystem.
//
// Only one token is recognised:
//
//	FILE "Audio/kick.wav"
//
// Resolution follows two tiers. Absolute references (POSIX, drive letter or
// UNC, either separator) are checked as-is; relative references are joined
// to the directory of the project file. If the target exists the result is
// Specific with the canonical, case-folded absolute path. Otherwise only the
// lower-cased filename is kept as a Fallback, which protects every file of
// that name in the tree.
package rpp
