// Package cleaner ties the locator, usage index, scanner and archiver into
// one Session with an enforced phase order:
//
//	s, err := cleaner.NewSession(root, opts)
//	err = s.Locate(ctx)
//	err = s.SetProjectIncluded(path, false)
//	analysis, err := s.FindUnused(ctx)
//	err = s.SetCandidateIncluded(path, false)
//	outcome, err := s.Archive(ctx)
//
// Each phase checks for cancellation and for the root directory before it
// starts. Selections are pushed in through explicit calls; the Session owns
// its records and hands out copies.
package cleaner
