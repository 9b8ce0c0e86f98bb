package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coft-dev/coft/internal/models"
)

func newProblemsCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "problems",
		Short: "List the problems in the problem-builds directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			cat, err := a.session.Catalog()
			if err != nil {
				return err
			}

			t := newTable("PROBLEM", "DIFFICULTY", "NOTES", "TITLE")
			for _, p := range cat.Problems {
				meta, _ := cat.Metadata(p)
				t.add(p, meta.Difficulty, fmt.Sprint(len(a.store.Notes(p))), meta.Title)
			}
			for _, g := range a.store.GeneratedProblems() {
				t.add(g.Ref(), g.Difficulty, fmt.Sprint(len(a.store.Notes(g.Ref()))), g.Title)
			}
			t.write(cmd.OutOrStdout())
			return nil
		},
	}
}

func newProblemCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "problem",
		Short: "Show a problem and AI insights about it",
	}
	cmd.AddCommand(newProblemShowCommand(opts))
	cmd.AddCommand(newProblemInsightsCommand(opts))
	return cmd
}

func newProblemShowCommand(opts *globalOptions) *cobra.Command {
	var (
		asHTML   bool
		solution bool
	)

	cmd := &cobra.Command{
		Use:   "show <problem>",
		Short: "Print a problem description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			problemID := args[0]

			if id, generated := models.ParseGeneratedRef(problemID); generated {
				p, err := a.store.GeneratedProblem(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s (%s)\n\n%s\n", p.Title, p.Difficulty, p.HTMLContent) //nolint:errcheck
				if solution {
					fmt.Fprintf(out, "\nStarter code:\n%s\n", p.StarterCode) //nolint:errcheck
				}
				return nil
			}

			cat, err := a.session.Catalog()
			if err != nil {
				return err
			}
			var text string
			switch {
			case solution:
				text, err = cat.ReferenceSolution(problemID, a.cfg.Harness.Language)
			case asHTML:
				text, err = cat.Description(problemID)
			default:
				text, err = cat.DescriptionMarkdown(problemID)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, strings.TrimRight(text, "\n")) //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().BoolVar(&asHTML, "html", false, "Render the description as HTML")
	cmd.Flags().BoolVar(&solution, "solution", false, "Show the reference solution write-up instead")
	return cmd
}

func newProblemInsightsCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "insights <problem>",
		Short: "Explain the concepts behind a problem and suggest related ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			insights, err := a.session.ProblemInsights(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Concepts:\n%s\n\nRelated problems:\n%s\n", insights.Concepts, insights.Related) //nolint:errcheck
			return nil
		},
	}
}
