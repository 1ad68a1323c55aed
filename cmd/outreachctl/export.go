package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AngelCh415/outreach-analytics/internal/analytics"
	"github.com/AngelCh415/outreach-analytics/internal/metrics"
	"github.com/AngelCh415/outreach-analytics/internal/models"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write one dimension table as CSV",
	Long: `Aggregate the records file along one dimension and write CSV to stdout.

Dimensions: week, month, agent, campaign, location, audience.

Examples:
  outreachctl export -f records.json --dimension agent > agents.csv`,
	RunE: runExport,
}

var exportDimension string

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportDimension, "dimension", "d", "week", "Dimension to aggregate by")
}

func runExport(cmd *cobra.Command, args []string) error {
	dim := models.Dimension(exportDimension)
	if !dim.Valid() {
		return fmt.Errorf("unknown dimension %q", exportDimension)
	}
	recs, err := loadRecords(recordsFile)
	if err != nil {
		return err
	}
	rows := analytics.Ordered(analytics.Aggregate(analytics.Filter(recs, filters()), dim), dim)
	return metrics.WriteBucketsCSV(cmd.OutOrStdout(), rows)
}
