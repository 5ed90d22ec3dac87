package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"kyoto-kentei/internal/infra/bank"
	pgstore "kyoto-kentei/internal/infra/postgres"
)

// NewBankCmd groups question bank maintenance commands.
func NewBankCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Inspect and import the question bank",
	}
	cmd.AddCommand(newBankCheckCmd())
	cmd.AddCommand(newBankImportCmd(configPath))
	return cmd
}

func newBankCheckCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Report duplicates and invalid entries in a question bank file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := bank.NewFileLoader(args[0]).LoadDocument()
			if err != nil {
				return err
			}
			report := bank.Check(doc)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				printCheckReport(cmd.OutOrStdout(), report)
			}
			if !report.OK() {
				return fmt.Errorf("question bank %s has problems", args[0])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func printCheckReport(w io.Writer, r bank.CheckReport) {
	fmt.Fprintf(w, "questions: %d\n", r.Total)

	levels := make([]string, 0, len(r.ByLevel))
	for level := range r.ByLevel {
		levels = append(levels, level)
	}
	sort.Strings(levels)
	for _, level := range levels {
		fmt.Fprintf(w, "  %s: %d\n", level, r.ByLevel[level])
	}

	fmt.Fprintln(w, "categories:")
	for _, name := range r.Categories() {
		fmt.Fprintf(w, "  %s: %d\n", name, r.ByCategory[name])
	}

	for _, d := range r.DuplicateIDs {
		fmt.Fprintf(w, "duplicate id %q: entries %d and %d\n", d.Key, d.First.Index, d.Duplicate.Index)
	}
	for _, d := range r.DuplicateTexts {
		fmt.Fprintf(w, "duplicate question text: %s (entry %d) and %s (entry %d)\n",
			d.First.ID, d.First.Index, d.Duplicate.ID, d.Duplicate.Index)
	}
	for _, inv := range r.Invalid {
		fmt.Fprintf(w, "invalid entry %d (%s): %s\n", inv.Index, inv.ID, inv.Reason)
	}
	if r.OK() {
		fmt.Fprintln(w, "ok")
	}
}

func newBankImportCmd(configPath *string) *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load a question bank file into Postgres",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := openRuntime(ctx, *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()
			if rt.pool == nil {
				return fmt.Errorf("bank import requires postgres.url")
			}
			if err := runMigrations(ctx, rt.cfg.Postgres.URL, rt.logger); err != nil {
				return err
			}

			doc, err := bank.NewFileLoader(args[0]).LoadDocument()
			if err != nil {
				return err
			}
			n, err := pgstore.ImportQuestions(ctx, rt.pool, doc, replace)
			if err != nil {
				return err
			}
			rt.logger.Info("questions imported",
				zap.String("file", args[0]),
				zap.Int("count", n),
				zap.Bool("replace", replace),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d questions\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "delete questions missing from the file")
	return cmd
}
