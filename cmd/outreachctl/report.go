package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/AngelCh415/outreach-analytics/internal/analytics"
	"github.com/AngelCh415/outreach-analytics/internal/models"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print totals, trend, forecast and insights",
	Long: `Run one analytics pass over the records file and print a summary.

Examples:
  outreachctl report -f records.json
  outreachctl report -f records.json --from 2024-01-01 --agent alice,bob
  outreachctl report -f records.json --json`,
	RunE: runReport,
}

var (
	reportJSON     bool
	reportPeriods  int
	reportWarnings bool
)

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Print the full result as JSON")
	reportCmd.Flags().IntVarP(&reportPeriods, "periods", "p", 4, "Weeks to forecast")
	reportCmd.Flags().BoolVar(&reportWarnings, "warnings", false, "List values coerced to 0")
}

func runReport(cmd *cobra.Command, args []string) error {
	recs, err := loadRecords(recordsFile)
	if err != nil {
		return err
	}
	opt := analytics.DefaultOptions()
	opt.ForecastPeriods = reportPeriods
	opt.Diagnostics = reportWarnings
	res := analytics.Compute(recs, filters(), opt)

	out := cmd.OutOrStdout()
	if res == nil {
		fmt.Fprintln(out, "No records match the filters.")
		return nil
	}
	if reportJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printReport(out, res, reportWarnings)
	return nil
}

func printReport(w io.Writer, r *models.AnalyticsResult, warnings bool) {
	t := r.Totals
	fmt.Fprintf(w, "Outreach Report (benchmark %s)\n", r.BenchmarkVersion)
	fmt.Fprintf(w, "  Records: %d  Agents: %d  Campaigns: %d  Weeks: %d\n", t.Records, t.Agents, t.Campaigns, t.Weeks)
	fmt.Fprintf(w, "  Invited: %.0f  Accepted: %.0f  Messaged: %.0f  Replies: %.0f\n", t.Invited, t.Accepted, t.Messaged, t.Replies)
	fmt.Fprintf(w, "  Acceptance: %.2f%%  Reply: %.2f%%  Tier: %s\n", r.AcceptanceRate, r.ReplyRate, r.PerformanceTier)
	fmt.Fprintf(w, "  Trend: %s (slope %.2f, r² %.2f)\n", r.AcceptanceTrend.Direction, r.AcceptanceTrend.Slope, r.AcceptanceTrend.R2)

	if len(r.AcceptanceForecast) > 0 {
		fmt.Fprintln(w, "\nAcceptance Forecast")
		for _, p := range r.AcceptanceForecast {
			fmt.Fprintf(w, "  %-12s %6.2f%%  [%.2f - %.2f]\n", p.Period, p.PredictedValue, p.LowerBound, p.UpperBound)
		}
	}

	if len(r.AgentScores) > 0 {
		fmt.Fprintln(w, "\nAgents")
		for _, a := range r.AgentScores {
			fmt.Fprintf(w, "  %-20s score %3d  %6.2f%%  %s\n", a.Agent, a.Score, a.AcceptanceRate, a.Tier)
		}
	}

	if len(r.Insights) > 0 {
		fmt.Fprintln(w, "\nInsights")
		for _, in := range r.Insights {
			fmt.Fprintf(w, "  [%s] %s: %s\n", in.Priority, in.Title, in.Description)
		}
	}

	if warnings && len(r.Warnings) > 0 {
		fmt.Fprintln(w, "\nCoerced Values")
		for _, cw := range r.Warnings {
			fmt.Fprintf(w, "  %s\n", cw)
		}
	}
}
