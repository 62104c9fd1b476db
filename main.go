package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"reaper-cleaner/internal/logging"
	"reaper-cleaner/internal/models"
	"reaper-cleaner/internal/startup"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	verbose    bool
	quiet      bool
	jsonOutput bool
	envFile    string
	workers    int
	skipHidden bool
	metrics    bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "reaper-cleaner",
		Short: "Find and archive media no REAPER project references",
		Long: `reaper-cleaner scans a directory tree of REAPER projects (.rpp and .rpp-bak),
collects every media file the selected projects reference, and lists the audio
and MIDI files under their folders that nothing references. The archive command
moves those files into _Reaper_Cleanup_Archive/<project> under the root instead
of deleting them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			configureLogging(g, cmd.ErrOrStderr())
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "Log debug output")
	pf.BoolVarP(&g.quiet, "quiet", "q", false, "Only log warnings and errors")
	pf.BoolVar(&g.jsonOutput, "json", false, "Print results as JSON")
	pf.StringVar(&g.envFile, "env-file", "", "Load configuration from this file instead of ./.env")
	pf.IntVar(&g.workers, "workers", 0, "Parallel workers for reads, walks and moves (overrides SCAN_WORKERS)")
	pf.BoolVar(&g.skipHidden, "skip-hidden", false, "Skip dot files and directories while locating projects")
	pf.BoolVar(&g.metrics, "metrics", false, "Serve Prometheus metrics while running (overrides METRICS_ENABLED)")

	root.AddCommand(
		newProjectsCmd(g),
		newScanCmd(g),
		newArchiveCmd(g),
		newVersionCmd(g),
	)
	return root
}

func configureLogging(g *globalFlags, w io.Writer) {
	logging.SetOutput(w)
	switch {
	case g.verbose:
		logging.SetLevel(logging.LevelDebug)
	case g.quiet:
		logging.SetLevel(logging.LevelWarn)
	}
}

// overrides turns global flags and the root argument into config overrides.
func (g *globalFlags) overrides(root string) startup.Overrides {
	return startup.Overrides{
		Root:       root,
		Workers:    g.workers,
		SkipHidden: g.skipHidden,
		EnvFile:    g.envFile,
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			startup.LogShutdownInitiated(sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

func main() {
	ctx, cancel := signalContext()
	err := newRootCmd().ExecuteContext(ctx)
	cancel()
	os.Exit(exitCode(err, os.Stderr))
}

// exitCode reports err and maps it to the process exit status.
func exitCode(err error, w io.Writer) int {
	if err == nil {
		return 0
	}
	switch {
	case models.IsPrecondition(err):
		fmt.Fprintf(w, "Nothing done: %v\n", err)
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(w, "Interrupted")
	case errors.Is(err, errArchiveIncomplete):
		// the summary already listed every failure
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
	return 1
}
