package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/coft-dev/coft/internal/models"
	"github.com/coft-dev/coft/internal/watch"
)

func newWatchCommand(opts *globalOptions) *cobra.Command {
	var testcase string

	cmd := &cobra.Command{
		Use:   "watch <problem>",
		Short: "Rerun the tests every time the solution is saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			problemID := args[0]
			if err := a.session.Select(problemID); err != nil {
				return err
			}
			cat, err := a.session.Catalog()
			if err != nil {
				return err
			}
			solution := cat.Layout.SolutionFile(problemID, a.cfg.Harness.Language)
			attachSpinner(a.runner, cmd.ErrOrStderr())

			out := cmd.OutOrStdout()
			onChange := func(ctx context.Context, path string) {
				fmt.Fprintf(out, "\n--- %s changed ---\n", path) //nolint:errcheck
				report, err := a.session.Run(ctx, models.RunRequest{TestcaseFilter: testcase})
				if err != nil {
					slog.Error("Run failed", "problem", problemID, "error", err)
					return
				}
				printRunReport(out, report)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w, err := watch.NewSolutionWatcher([]string{solution}, onChange)
			if err != nil {
				return err
			}
			if err := w.Start(ctx); err != nil {
				return err
			}
			defer w.Stop()

			fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", solution) //nolint:errcheck
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().StringVarP(&testcase, "testcase", "t", models.FilterAll, "Testcase to run")
	return cmd
}

