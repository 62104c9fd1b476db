// Package locator finds REAPER project files (.rpp and .rpp-bak) under a
// root directory.
//
// Unreadable subdirectories are reported as ReadError values in the Result
// and skipped; the walk continues. Excluded directories, such as the
// archive root, are never entered.
package locator
