package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"reaper-cleaner/internal/cleaner"
	"reaper-cleaner/internal/models"
	"reaper-cleaner/internal/startup"
)

// errArchiveIncomplete is returned when at least one candidate could not
// be archived. Failures are listed in the printed summary.
var errArchiveIncomplete = errors.New("archive incomplete")

type sortFlags struct {
	field string
	order string
}

func (s *sortFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.field, "sort", "name", "Sort by name, size or date")
	cmd.Flags().StringVar(&s.order, "order", "asc", "Sort order: asc or desc")
}

func newProjectsCmd(g *globalFlags) *cobra.Command {
	var sf sortFlags
	cmd := &cobra.Command{
		Use:   "projects <root>",
		Short: "List the project files under root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			field, order, err := cleaner.ParseSort(sf.field, sf.order)
			if err != nil {
				return err
			}
			r, err := newRun(g, g.overrides(args[0]))
			if err != nil {
				return err
			}
			defer func() { r.close(err) }()

			if err := r.locate(cmd.Context()); err != nil {
				return err
			}
			r.session.SortProjects(field, order)
			return printProjects(cmd.OutOrStdout(), g.jsonOutput, r.session)
		},
	}
	sf.register(cmd)
	return cmd
}

type analyzeFlags struct {
	exclude  []string
	indexAll bool
	sort     sortFlags
}

func (a *analyzeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&a.exclude, "exclude", nil, "Deselect a project by path, file name or name without extension (repeatable)")
	cmd.Flags().BoolVar(&a.indexAll, "index-all", false, "Let excluded projects still protect the media they reference")
	a.sort.register(cmd)
}

// prepare locates, applies exclusions and finds unused media.
func (a *analyzeFlags) prepare(ctx context.Context, g *globalFlags, root, collision string) (*run, cleaner.Analysis, error) {
	field, order, err := cleaner.ParseSort(a.sort.field, a.sort.order)
	if err != nil {
		return nil, cleaner.Analysis{}, err
	}

	o := g.overrides(root)
	o.IndexAll = a.indexAll
	o.Collision = collision
	r, err := newRun(g, o)
	if err != nil {
		return nil, cleaner.Analysis{}, err
	}

	if err := r.locate(ctx); err != nil {
		return r, cleaner.Analysis{}, err
	}
	if err := r.exclude(a.exclude); err != nil {
		return r, cleaner.Analysis{}, err
	}
	analysis, err := r.analyze(ctx)
	if err != nil {
		return r, cleaner.Analysis{}, err
	}
	r.session.SortCandidates(field, order)
	return r, analysis, nil
}

func newScanCmd(g *globalFlags) *cobra.Command {
	var af analyzeFlags
	cmd := &cobra.Command{
		Use:   "scan <root>",
		Short: "List media files no selected project references",
		Long: `scan reads every selected project, resolves its media references and lists
the audio and MIDI files under the project folders that none of them use.
Files whose name matches a reference that could not be found are kept as
possibly used. Nothing is moved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			r, analysis, err := af.prepare(cmd.Context(), g, args[0], "")
			if r != nil {
				defer func() { r.close(err) }()
			}
			if err != nil {
				return err
			}
			return printScan(cmd.OutOrStdout(), g.jsonOutput, r.session, analysis)
		},
	}
	af.register(cmd)
	return cmd
}

func newArchiveCmd(g *globalFlags) *cobra.Command {
	var (
		af        analyzeFlags
		skip      []string
		yes       bool
		collision string
	)
	cmd := &cobra.Command{
		Use:   "archive <root>",
		Short: "Move unused media into the archive folder under root",
		Long: `archive runs the same analysis as scan, then moves every unused file that is
not skipped into <root>/_Reaper_Cleanup_Archive/<project>/. Each file is moved
on its own: a failure is reported and the rest continue. Nothing is deleted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			r, analysis, err := af.prepare(cmd.Context(), g, args[0], collision)
			if r != nil {
				defer func() { r.close(err) }()
			}
			if err != nil {
				return err
			}

			if err := skipCandidates(r, skip); err != nil {
				return err
			}
			if !g.jsonOutput {
				if err := printScan(cmd.OutOrStdout(), false, r.session, analysis); err != nil {
					return err
				}
			}

			sum := r.session.Summary()
			if sum.IncludedCandidates == 0 {
				return printNothingToArchive(cmd.OutOrStdout(), g.jsonOutput, r.session, analysis)
			}
			if !yes {
				if err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), sum, r.session.ArchiveRoot()); err != nil {
					return err
				}
			}

			var outcome models.ArchiveOutcome
			err = r.phase("archive", func() (string, error) {
				var err error
				outcome, err = r.session.Archive(cmd.Context())
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%d moved, %d failed", outcome.Succeeded, outcome.Failed), nil
			})
			if err != nil {
				return err
			}
			if err := printArchive(cmd.OutOrStdout(), g.jsonOutput, r.session, analysis, outcome); err != nil {
				return err
			}
			if outcome.Failed > 0 {
				return errArchiveIncomplete
			}
			return nil
		},
	}
	af.register(cmd)
	cmd.Flags().StringArrayVar(&skip, "skip", nil, "Keep an unused file in place, by path or file name (repeatable)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Archive without asking for confirmation")
	cmd.Flags().StringVar(&collision, "collision", "", "When the archive already holds the name: rename or fail (overrides ARCHIVE_COLLISION)")
	return cmd
}

func newVersionCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printVersion(cmd.OutOrStdout(), g.jsonOutput, startup.GetBuildInfo())
		},
	}
}
