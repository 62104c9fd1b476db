// Package usage folds the references of every selected project into the
// two sets that drive classification:
//
//   - Specific: canonical, case-folded paths of referenced files that exist
//   - Fallback: lower-cased filenames of references that could not be found
//
// Projects are read in parallel and merged into a Builder under a mutex.
// Seal turns the Builder into a read-only Index; the scanner only accepts
// an Index, which keeps classification behind the build barrier.
package usage
