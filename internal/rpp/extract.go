package rpp

import (
	"fmt"
	"regexp"
	"strings"

	"reaper-cleaner/internal/filesystem"
	"reaper-cleaner/internal/models"
)

// fileToken matches the single reference token that matters to the cleaner:
// the FILE keyword followed by a quoted path. The rest of the project
// grammar is ignored. Matches from unrelated chunks only add entries to the
// used side, which is the safe direction.
var fileToken = regexp.MustCompile(`FILE "(.*?)"`)

// ReadError reports a project file that could not be read. The file still
// counts as scanned but contributes no references.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading project %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() []error { return []error{models.ErrRead, e.Err} }

// Extract returns the raw reference strings found in one project file's
// content, in document order. Invalid UTF-8 sequences are dropped before
// matching.
func Extract(content []byte) []string {
	text := strings.ToValidUTF8(string(content), "")

	matches := fileToken.FindAllStringSubmatch(text, -1)
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		if strings.TrimSpace(m[1]) == "" {
			continue
		}
		refs = append(refs, m[1])
	}
	return refs
}

// ExtractFile reads a project file and extracts its references.
func ExtractFile(path string, config filesystem.RetryConfig) ([]models.Reference, error) {
	data, err := filesystem.ReadFileWithRetry(path, config)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	raw := Extract(data)
	refs := make([]models.Reference, len(raw))
	for i, r := range raw {
		refs[i] = models.Reference{Raw: r, Project: path}
	}
	return refs, nil
}
