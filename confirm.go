package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"reaper-cleaner/internal/cleaner"
	"reaper-cleaner/internal/models"
)

// isTerminal is swapped in tests to simulate an interactive session.
var isTerminal = func(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// confirm asks the user to approve the archive batch. Without a terminal
// there is nobody to ask, so the batch needs --yes.
func confirm(in io.Reader, out io.Writer, sum cleaner.Summary, archiveRoot string) error {
	if !isTerminal(in) {
		return &models.PreconditionError{Reason: "archive not confirmed (stdin is not a terminal; pass --yes)"}
	}

	fmt.Fprintf(out, "Move %d file(s) (%s) into %s? [yes/no]: ",
		sum.IncludedCandidates, formatBytes(sum.IncludedBytes), archiveRoot)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return models.ErrNotConfirmed
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return nil
	default:
		return models.ErrNotConfirmed
	}
}
