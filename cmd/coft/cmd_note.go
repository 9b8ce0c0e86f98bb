package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/coft-dev/coft/internal/models"
)

func newNoteCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Manage mistake notes",
		Long: `Mistake notes are recorded for every run that does not fully pass.
Notes are addressed by their key, the timestamp shown by 'coft note list'.`,
	}
	cmd.AddCommand(newNoteListCommand(opts))
	cmd.AddCommand(newNoteShowCommand(opts))
	cmd.AddCommand(newNoteAddCommand(opts))
	cmd.AddCommand(newNoteDeleteCommand(opts))
	cmd.AddCommand(newNoteAnalyzeCommand(opts))
	cmd.AddCommand(newNoteExportCommand(opts))
	cmd.AddCommand(newNoteImportCommand(opts))
	return cmd
}

func newNoteListCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list [problem]",
		Short: "List mistake notes, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}

			var notes []models.Note
			if len(args) == 1 {
				notes = a.store.Notes(args[0])
			} else {
				notes = a.store.AllNotes()
				slices.SortFunc(notes, func(x, y models.Note) int { return y.Timestamp.Compare(x.Timestamp) })
			}
			if len(notes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No mistake notes yet.") //nolint:errcheck
				return nil
			}

			t := newTable("KEY", "PROBLEM", "STATUS", "ANALYZED", "FIRST FAILURE")
			for _, n := range notes {
				t.add(n.Key(), n.ProblemID, noteStatus(n), analyzedMark(n), truncateName(firstFailure(n), 60))
			}
			t.write(cmd.OutOrStdout())
			return nil
		},
	}
}

func newNoteShowCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <key>",
		Short: "Show a mistake note with its code and analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := models.ParseNoteKey(args[0])
			if err != nil {
				return fmt.Errorf("invalid note key %q: %w", args[0], err)
			}
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			n, err := a.store.Note(ts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Problem: %s\nRecorded: %s\nStatus: %s\n", n.ProblemID, n.Timestamp.Local().Format(time.DateTime), noteStatus(n)) //nolint:errcheck
			if f := firstFailure(n); f != "" {
				fmt.Fprintf(out, "First failure: %s\n", f) //nolint:errcheck
			}
			fmt.Fprintf(out, "\nCode:\n%s\n", strings.TrimRight(n.Code, "\n")) //nolint:errcheck
			if n.AIAnalysis != nil {
				printAnalysis(out, n.AIAnalysis)
			}
			return nil
		},
	}
}

func newNoteAddCommand(opts *globalOptions) *cobra.Command {
	var codeFile string

	cmd := &cobra.Command{
		Use:   "add <problem>",
		Short: "Save a solution as a mistake note without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			code, err := readCode(codeFile, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if codeFile == "" {
				cat, err := a.session.Catalog()
				if err != nil {
					return err
				}
				if code, err = cat.ReadSolution(args[0], a.cfg.Harness.Language); err != nil {
					return err
				}
			}

			n, err := a.session.SaveManual(args[0], code)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded mistake note %s\n", n.Key()) //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().StringVarP(&codeFile, "file", "f", "", "Read the code from this file (\"-\" for stdin) instead of the solution file")
	return cmd
}

func newNoteDeleteCommand(opts *globalOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete a mistake note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := models.ParseNoteKey(args[0])
			if err != nil {
				return fmt.Errorf("invalid note key %q: %w", args[0], err)
			}
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			n, err := a.store.Note(ts)
			if err != nil {
				return err
			}

			if !yes && !promptConfirm(cmd.InOrStdin(), cmd.ErrOrStderr(), fmt.Sprintf("Delete the note for %s from %s?", n.ProblemID, n.Key())) {
				return errors.New("not deleted: confirm interactively or pass --yes")
			}
			if err := a.store.DeleteNote(ts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %s\n", n.Key()) //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")
	return cmd
}

func newNoteAnalyzeCommand(opts *globalOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "analyze [key]",
		Short: "Ask the AI service why an attempt failed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 1) {
				return errors.New("pass either a note key or --all")
			}
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if all {
				n, err := a.session.AnalyzePending(cmd.Context())
				fmt.Fprintf(out, "Analysed %d note(s)\n", n) //nolint:errcheck
				return err
			}

			ts, err := models.ParseNoteKey(args[0])
			if err != nil {
				return fmt.Errorf("invalid note key %q: %w", args[0], err)
			}
			note, err := a.session.AnalyzeNote(cmd.Context(), ts)
			if err != nil {
				return err
			}
			printAnalysis(out, note.AIAnalysis)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Analyse every note that has no analysis yet")
	return cmd
}

func newNoteExportCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Export notes, ignored concepts and generated problems to an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("creating archive: %w", err)
			}
			if err := a.store.Export(f); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing archive: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", args[0]) //nolint:errcheck
			return nil
		},
	}
}

func newNoteImportCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge an archive created by 'coft note export'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening archive: %w", err)
			}
			defer f.Close() //nolint:errcheck

			stats, err := a.store.Import(f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d note(s), %d ignored concept(s), %d generated problem(s)\n", //nolint:errcheck
				stats.Notes, stats.IgnoredConcepts, stats.GeneratedProblems)
			return nil
		},
	}
}

func printAnalysis(w io.Writer, a *models.AIAnalysis) {
	if a == nil {
		return
	}
	fmt.Fprintf(w, "\nWhy it failed:\n%s\n", strings.TrimSpace(a.ReasonAnalysis)) //nolint:errcheck
	if p := strings.TrimSpace(a.PatternAnalysis); p != "" {
		fmt.Fprintf(w, "\nPattern:\n%s\n", p) //nolint:errcheck
	}
	if len(a.ConceptSummary.Concepts) == 0 {
		return
	}
	fmt.Fprintln(w, "\nConcepts to review:") //nolint:errcheck
	for _, c := range a.ConceptSummary.Concepts {
		fmt.Fprintf(w, "  - %s: %s\n", c.Name, c.Tip) //nolint:errcheck
	}
}

func noteStatus(n models.Note) string {
	if n.Results == nil {
		return ""
	}
	return n.Results.Status
}

func firstFailure(n models.Note) string {
	if n.Results == nil {
		return ""
	}
	f := n.Results.FirstFailure()
	if f == nil {
		return ""
	}
	if f.Reason != "" {
		return fmt.Sprintf("%s: %s", f.TestcaseName, firstLine(f.Reason))
	}
	return fmt.Sprintf("%s: %s", f.TestcaseName, f.Status)
}

func analyzedMark(n models.Note) string {
	if n.AIAnalysis != nil {
		return "yes"
	}
	return "no"
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// jsonText renders a harness value the way it appears in result files.
func jsonText(v any) string {
	if v == nil {
		return "(none)"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
