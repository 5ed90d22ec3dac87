package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"kyoto-kentei/internal/app"
	"kyoto-kentei/internal/domain"
)

// NewHistoryCmd groups commands over saved quiz results.
func NewHistoryCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear saved quiz results",
	}

	var level string
	show := &cobra.Command{
		Use:   "show",
		Short: "List saved results, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter domain.Level
			if level != "" {
				parsed, err := domain.ParseLevel(level)
				if err != nil {
					return err
				}
				filter = parsed
			}
			rt, err := openRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()
			history, _ := rt.stores()
			return printHistory(cmd.OutOrStdout(), findHistory(cmd.Context(), history, filter))
		},
	}
	show.Flags().StringVar(&level, "level", "", "only show results for this level")

	summary := &cobra.Command{
		Use:   "summary",
		Short: "Print cumulative statistics over saved results",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()
			history, _ := rt.stores()
			return printSummary(cmd.OutOrStdout(), domain.SummarizeHistory(history.FindAll(cmd.Context())))
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved result",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()
			history, _ := rt.stores()
			history.Clear(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
			return nil
		},
	}

	cmd.AddCommand(show, summary, clearCmd)
	return cmd
}

// levelHistory is implemented by stores that can filter by level themselves.
type levelHistory interface {
	FindByLevel(ctx context.Context, level domain.Level) []domain.ResultRecord
}

// findHistory returns every record, or only those of level when it is set.
func findHistory(ctx context.Context, history app.HistoryRepository, level domain.Level) []domain.ResultRecord {
	if level == "" {
		return history.FindAll(ctx)
	}
	if byLevel, ok := history.(levelHistory); ok {
		return byLevel.FindByLevel(ctx, level)
	}
	all := history.FindAll(ctx)
	out := make([]domain.ResultRecord, 0, len(all))
	for _, rec := range all {
		if rec.Level == level.String() {
			out = append(out, rec)
		}
	}
	return out
}

func printHistory(w io.Writer, records []domain.ResultRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "no results")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COMPLETED\tLEVEL\tSCORE\tACCURACY\tQUIZ")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%d%%\t%s\n",
			rec.CompletedAt.Local().Format(time.DateTime),
			rec.Level,
			rec.CorrectCount,
			rec.TotalQuestions,
			rec.Accuracy,
			rec.QuizID,
		)
	}
	return tw.Flush()
}

func printSummary(w io.Writer, summary domain.HistorySummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(summary)
}
