package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/coft-dev/coft/internal/models"
)

func newGenerateCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create and practise AI-generated problems",
		Long: `Generated problems have no harness testcases. Runs of a generated problem
are judged by the AI service, and failed attempts are recorded as mistake
notes under generated:<id> like any other problem.`,
	}
	cmd.AddCommand(newGenerateNewCommand(opts))
	cmd.AddCommand(newGenerateListCommand(opts))
	cmd.AddCommand(newGenerateDeleteCommand(opts))
	cmd.AddCommand(newGenerateVerifyCommand(opts))
	return cmd
}

func newGenerateNewCommand(opts *globalOptions) *cobra.Command {
	var difficulty string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a new practice problem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			p, err := a.session.GenerateProblem(cmd.Context(), difficulty)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s: %s (%s)\n", p.Ref(), p.Title, p.Difficulty) //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", "medium", "Difficulty: easy, medium or hard")
	return cmd
}

func newGenerateListCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List generated problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			problems := a.store.GeneratedProblems()
			if len(problems) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No generated problems yet.") //nolint:errcheck
				return nil
			}
			t := newTable("REF", "DIFFICULTY", "CREATED", "TITLE")
			for _, p := range problems {
				t.add(p.Ref(), p.Difficulty, p.Timestamp.Local().Format(time.DateTime), p.Title)
			}
			t.write(cmd.OutOrStdout())
			return nil
		},
	}
}

func newGenerateDeleteCommand(opts *globalOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a generated problem",
		Long: `Delete a generated problem. Its mistake notes are kept, but no longer
count towards weak concepts or the curriculum.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			id := generatedID(args[0])
			p, err := a.store.GeneratedProblem(id)
			if err != nil {
				return err
			}
			if !yes && !promptConfirm(cmd.InOrStdin(), cmd.ErrOrStderr(), fmt.Sprintf("Delete %q?", p.Title)) {
				return errors.New("not deleted: confirm interactively or pass --yes")
			}
			if err := a.store.DeleteGeneratedProblem(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", p.Ref()) //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")
	return cmd
}

func newGenerateVerifyCommand(opts *globalOptions) *cobra.Command {
	var codeFile string

	cmd := &cobra.Command{
		Use:   "verify <id>",
		Short: "Have the AI service judge a solution to a generated problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readCode(codeFile, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if code == "" {
				return errors.New("provide the solution with --file")
			}
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			report, err := a.session.Run(cmd.Context(), models.RunRequest{
				ProblemID: models.GeneratedRef(generatedID(args[0])),
				Code:      code,
			})
			if err != nil {
				return err
			}
			printRunReport(cmd.OutOrStdout(), report)
			return runFailure(report)
		},
	}

	cmd.Flags().StringVarP(&codeFile, "file", "f", "", "Read the solution from this file (\"-\" for stdin)")
	return cmd
}

// generatedID accepts either a bare ID or a generated:<id> ref.
func generatedID(arg string) string {
	if id, ok := models.ParseGeneratedRef(arg); ok {
		return id
	}
	return arg
}
