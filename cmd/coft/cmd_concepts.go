package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coft-dev/coft/internal/concepts"
	"github.com/coft-dev/coft/internal/models"
	"github.com/coft-dev/coft/internal/workbench"
)

func newConceptsCommand(opts *globalOptions) *cobra.Command {
	var (
		ignore   string
		unignore string
		top      int
		tips     bool
	)

	cmd := &cobra.Command{
		Use:   "concepts",
		Short: "Show the concepts your analysed mistakes point at",
		Long: `Show weak concepts aggregated from the AI analyses of your mistake notes,
most frequent first. Concepts can be hidden with --ignore; "Hash Map" and
"Hash Map (data structure)" count as the same concept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ignore != "" && unignore != "" {
				return errors.New("--ignore and --unignore cannot be combined")
			}
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch {
			case ignore != "":
				if err := a.store.IgnoreConcept(ignore); err != nil {
					return err
				}
				fmt.Fprintf(out, "Ignoring %q\n", ignore) //nolint:errcheck
				return nil
			case unignore != "":
				if err := a.store.UnignoreConcept(unignore); err != nil {
					return err
				}
				fmt.Fprintf(out, "No longer ignoring %q\n", unignore) //nolint:errcheck
				return nil
			}

			weak := concepts.Top(a.session.WeakConcepts(), top)
			if len(weak) == 0 {
				fmt.Fprintln(out, "No weak concepts yet. Analyse some notes with 'coft note analyze'.") //nolint:errcheck
				return nil
			}
			printWeakConcepts(out, a.session, weak, tips)
			return nil
		},
	}

	cmd.Flags().StringVar(&ignore, "ignore", "", "Hide a concept from the list")
	cmd.Flags().StringVar(&unignore, "unignore", "", "Show an ignored concept again")
	cmd.Flags().IntVarP(&top, "top", "n", 0, "Show only the n most frequent concepts")
	cmd.Flags().BoolVar(&tips, "tips", false, "Show the collected tips for each concept")
	return cmd
}

func printWeakConcepts(out io.Writer, s *workbench.Session, weak []models.WeakConcept, withTips bool) {
	t := newTable("CONCEPT", "COUNT")
	for _, c := range weak {
		t.add(c.Name, fmt.Sprint(c.Count))
	}
	t.write(out)

	if ignored := s.Store().IgnoredConcepts(); len(ignored) > 0 {
		fmt.Fprintf(out, "\nIgnored: %s\n", strings.Join(ignored, ", ")) //nolint:errcheck
	}
	if !withTips {
		return
	}
	for _, c := range weak {
		fmt.Fprintf(out, "\n%s\n", c.Name) //nolint:errcheck
		for _, tip := range c.Tips {
			fmt.Fprintf(out, "  - %s\n", tip) //nolint:errcheck
		}
	}
}

func newCurriculumCommand(opts *globalOptions) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "curriculum",
		Short: "Plan study around your weakest concepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			plan, weak, err := a.session.Curriculum(cmd.Context(), top)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			names := make([]string, len(weak))
			for i, c := range weak {
				names[i] = c.Name
			}
			fmt.Fprintf(out, "Focus: %s\n\n%s\n", strings.Join(names, ", "), plan) //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().IntVarP(&top, "top", "n", 5, "Number of weak concepts to plan around")
	return cmd
}
