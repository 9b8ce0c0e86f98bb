package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coft",
		Short: "coft - practice coding problems against a local test harness",
		Long: `coft runs your solutions through the problem-builds harness, explains
what went wrong, and keeps a mistake notebook with the concepts you keep
tripping over.

Point it at a problem-builds directory once with --problem-builds-dir; the
location is remembered in the paths file.`,
		Version:      version,
		SilenceUsage: true,
	}

	opts := &globalOptions{}
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.buildsDir, "problem-builds-dir", "", "Problem-builds directory (remembered for later runs)")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if opts.debug {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newCustomCommand(opts))
	cmd.AddCommand(newWatchCommand(opts))
	cmd.AddCommand(newProblemsCommand(opts))
	cmd.AddCommand(newProblemCommand(opts))
	cmd.AddCommand(newNoteCommand(opts))
	cmd.AddCommand(newConceptsCommand(opts))
	cmd.AddCommand(newCurriculumCommand(opts))
	cmd.AddCommand(newGenerateCommand(opts))

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
