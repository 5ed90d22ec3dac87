package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"kyoto-kentei/internal/app"
)

// NewReportsCmd groups commands over question reports.
func NewReportsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List or clear reported questions",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List reported questions, most reported first",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()
			_, reports := rt.stores()
			return printReports(cmd.OutOrStdout(), app.NewGetQuestionReports(reports).Execute(cmd.Context()))
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every question report",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()
			_, reports := rt.stores()
			reports.Clear(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "reports cleared")
			return nil
		},
	}

	cmd.AddCommand(list, clearCmd)
	return cmd
}

func printReports(w io.Writer, views []app.ReportView) error {
	if len(views) == 0 {
		_, err := fmt.Fprintln(w, "no reports")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "QUESTION\tCOUNT\tFIRST\tLAST")
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", v.QuestionID, v.ReportCount, v.FirstReportedAt, v.LastReportedAt)
	}
	return tw.Flush()
}
