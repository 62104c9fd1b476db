package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"reaper-cleaner/internal/cleaner"
	"reaper-cleaner/internal/models"
	"reaper-cleaner/internal/startup"
)

type projectsReport struct {
	Root     string                 `json:"root"`
	Projects []models.ProjectRecord `json:"projects"`
	Summary  cleaner.Summary        `json:"summary"`
}

type scanReport struct {
	Root         string                  `json:"root"`
	ArchiveRoot  string                  `json:"archiveRoot"`
	Used         int                     `json:"used"`
	PossiblyUsed int                     `json:"possiblyUsed"`
	Unused       int                     `json:"unused"`
	UnusedBytes  int64                   `json:"unusedBytes"`
	ReadErrors   int                     `json:"readErrors"`
	Candidates   []models.AudioCandidate `json:"candidates"`
	Summary      cleaner.Summary         `json:"summary"`
}

type archiveReport struct {
	scanReport
	Outcome archiveOutcomeJSON `json:"outcome"`
}

type archiveOutcomeJSON struct {
	ArchiveRoot string        `json:"archiveRoot"`
	Succeeded   int           `json:"succeeded"`
	Failed      int           `json:"failed"`
	Failures    []failureJSON `json:"failures"`
}

type failureJSON struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printProjects(w io.Writer, asJSON bool, s *cleaner.Session) error {
	projects := s.Projects()
	if asJSON {
		return writeJSON(w, projectsReport{Root: s.Root(), Projects: projects, Summary: s.Summary()})
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROJECT\tSIZE\tMODIFIED\tPATH")
	for _, p := range projects {
		name := p.Name
		if p.Backup {
			name += " (backup)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, formatBytes(p.Size), p.ModTime.Format(time.DateTime), relPath(s.Root(), p.Path))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d project files under %s\n", len(projects), s.Root())
	return nil
}

func newScanReport(s *cleaner.Session, a cleaner.Analysis) scanReport {
	candidates := s.Candidates()
	if candidates == nil {
		candidates = []models.AudioCandidate{}
	}
	return scanReport{
		Root:         s.Root(),
		ArchiveRoot:  s.ArchiveRoot(),
		Used:         a.Used,
		PossiblyUsed: a.PossiblyUsed,
		Unused:       a.Unused,
		UnusedBytes:  a.UnusedBytes,
		ReadErrors:   a.ReadErrors,
		Candidates:   candidates,
		Summary:      s.Summary(),
	}
}

func printScan(w io.Writer, asJSON bool, s *cleaner.Session, a cleaner.Analysis) error {
	if asJSON {
		return writeJSON(w, newScanReport(s, a))
	}

	candidates := s.Candidates()
	if len(candidates) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "FILE\tSIZE\tPROJECT\tPATH")
		for _, c := range candidates {
			name := c.Name
			if !c.Included {
				name += " (skipped)"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, formatBytes(c.Size), c.Origin, relPath(s.Root(), c.Path))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Used: %d  Possibly used: %d  Unused: %d (%s)\n",
		a.Used, a.PossiblyUsed, a.Unused, formatBytes(a.UnusedBytes))
	if a.ReadErrors > 0 {
		fmt.Fprintf(w, "Unreadable paths skipped: %d (run with --verbose for details)\n", a.ReadErrors)
	}
	return nil
}

func printNothingToArchive(w io.Writer, asJSON bool, s *cleaner.Session, a cleaner.Analysis) error {
	if asJSON {
		return writeJSON(w, archiveReport{
			scanReport: newScanReport(s, a),
			Outcome:    archiveOutcomeJSON{ArchiveRoot: s.ArchiveRoot(), Failures: []failureJSON{}},
		})
	}
	fmt.Fprintln(w, "Nothing to archive.")
	return nil
}

func printArchive(w io.Writer, asJSON bool, s *cleaner.Session, a cleaner.Analysis, out models.ArchiveOutcome) error {
	if asJSON {
		report := archiveReport{
			scanReport: newScanReport(s, a),
			Outcome: archiveOutcomeJSON{
				ArchiveRoot: out.ArchiveRoot,
				Succeeded:   out.Succeeded,
				Failed:      out.Failed,
				Failures:    make([]failureJSON, 0, len(out.Failures)),
			},
		}
		for _, f := range out.Failures {
			report.Outcome.Failures = append(report.Outcome.Failures, failureJSON{Path: f.Item.Path, Reason: f.Reason})
		}
		return writeJSON(w, report)
	}

	fmt.Fprintf(w, "\nArchived: %d  Failed: %d  Archive: %s\n", out.Succeeded, out.Failed, out.ArchiveRoot)
	for _, f := range out.Failures {
		fmt.Fprintf(w, "  FAILED %s: %s\n", relPath(s.Root(), f.Item.Path), f.Reason)
	}
	return nil
}

func printVersion(w io.Writer, asJSON bool, info startup.BuildInfo) error {
	if asJSON {
		return writeJSON(w, info)
	}
	fmt.Fprintf(w, "reaper-cleaner %s (commit %s, built %s, %s %s/%s)\n",
		info.Version, info.Commit, info.BuildTime, info.GoVersion, info.OS, info.Arch)
	return nil
}

// relPath shows p relative to root when it lies beneath it.
func relPath(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return p
	}
	return rel
}

// formatBytes formats bytes into human-readable string
func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatFloat(float64(b)/float64(div), 'f', 1, 64) + " " + string("KMGTPE"[exp]) + "iB"
}
