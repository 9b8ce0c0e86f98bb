package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/coft-dev/coft/internal/ai"
	"github.com/coft-dev/coft/internal/models"
	"github.com/coft-dev/coft/internal/reporting"
)

func newRunCommand(opts *globalOptions) *cobra.Command {
	var (
		testcase     string
		expectedOnly bool
		codeFile     string
		junitPath    string
		analyze      bool
	)

	cmd := &cobra.Command{
		Use:   "run <problem>",
		Short: "Build and test a solution",
		Long: `Build and test the solution of a problem with the harness.

Without --file the solution file inside the problem-builds directory is
tested as it is. Any outcome other than a full pass is recorded as a
mistake note. Use generated:<id> to run a generated problem; those are
judged by the AI service.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readCode(codeFile, cmd.InOrStdin())
			if err != nil {
				return err
			}

			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			attachSpinner(a.runner, cmd.ErrOrStderr())

			req := models.RunRequest{
				ProblemID:       args[0],
				Language:        a.cfg.Harness.Language,
				TestcaseFilter:  testcase,
				RunExpectedOnly: expectedOnly,
				Code:            code,
			}
			start := time.Now()
			report, err := a.session.Run(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printRunReport(out, report)
			fmt.Fprintf(out, "\nFinished in %s\n", formatDuration(time.Since(start))) //nolint:errcheck

			if junitPath != "" {
				if err := reporting.WriteJUnitXML(report.ProblemID, req.Lang(), report.Outcome, start, junitPath); err != nil {
					return fmt.Errorf("writing JUnit report: %w", err)
				}
				fmt.Fprintf(out, "JUnit report written to %s\n", junitPath) //nolint:errcheck
			}

			if analyze && report.Note != nil {
				analyzeAfterRun(cmd.Context(), a, report.Note.Timestamp, out)
			}
			return runFailure(report)
		},
	}

	cmd.Flags().StringVarP(&testcase, "testcase", "t", models.FilterAll, "Testcase to run")
	cmd.Flags().BoolVar(&expectedOnly, "expected-only", false, "Run the reference solution instead of yours")
	cmd.Flags().StringVarP(&codeFile, "file", "f", "", "Read the solution from this file (\"-\" for stdin) and save it before running")
	cmd.Flags().StringVar(&junitPath, "junit", "", "Write a JUnit XML report to this path")
	cmd.Flags().BoolVar(&analyze, "analyze", false, "Ask the AI service to analyse the mistake")

	return cmd
}

func analyzeAfterRun(ctx context.Context, a *app, ts time.Time, out io.Writer) {
	note, err := a.session.AnalyzeNote(ctx, ts)
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			fmt.Fprintf(out, "\nAI analysis skipped: set %s to enable it.\n", a.cfg.AI.APIKeyEnv) //nolint:errcheck
			return
		}
		slog.Warn("AI analysis failed; retry with 'coft note analyze'", "error", err)
		return
	}
	printAnalysis(out, note.AIAnalysis)
}

func newCustomCommand(opts *globalOptions) *cobra.Command {
	var (
		input     string
		inputFile string
		codeFile  string
	)

	cmd := &cobra.Command{
		Use:   "custom <problem>",
		Short: "Run a solution on your own input",
		Long: `Run your solution on ad-hoc input and compare it with the reference
solution's answer. Custom runs are never recorded as mistakes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputFile != "" {
				data, err := readCode(inputFile, cmd.InOrStdin())
				if err != nil {
					return err
				}
				input = data
			}
			if input == "" {
				return errors.New("provide the testcase with --input or --input-file")
			}
			code, err := readCode(codeFile, cmd.InOrStdin())
			if err != nil {
				return err
			}

			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			attachSpinner(a.runner, cmd.ErrOrStderr())

			res, err := a.session.RunCustom(cmd.Context(), args[0], input, code)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if _, ok := res.Outcome.(models.StructuredResult); !ok {
				fmt.Fprint(out, reporting.FormatOutcome(res.Outcome, nil)) //nolint:errcheck
				return nil
			}
			fmt.Fprintf(out, "Your answer:     %s\n", jsonText(res.Actual))   //nolint:errcheck
			fmt.Fprintf(out, "Expected answer: %s\n", jsonText(res.Expected)) //nolint:errcheck
			if res.Stdout != "" {
				fmt.Fprintf(out, "\nStdout:\n%s\n", res.Stdout) //nolint:errcheck
			}
			if res.Stderr != "" {
				fmt.Fprintf(out, "\nStderr:\n%s\n", res.Stderr) //nolint:errcheck
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Testcase input")
	cmd.Flags().StringVar(&inputFile, "input-file", "", "Read the testcase input from this file (\"-\" for stdin)")
	cmd.Flags().StringVarP(&codeFile, "file", "f", "", "Read the solution from this file and save it before running")

	return cmd
}
