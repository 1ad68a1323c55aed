package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AngelCh415/outreach-analytics/internal/ingest"
	"github.com/AngelCh415/outreach-analytics/internal/models"
)

var rootCmd = &cobra.Command{
	Use:           "outreachctl",
	Short:         "Offline outreach analytics over a records file",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	recordsFile string
	fromDate    string
	toDate      string
	agents      []string
	campaigns   []string
	locations   []string
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&recordsFile, "file", "f", "", "JSON array of weekly records (required)")
	pf.StringVar(&fromDate, "from", "", "First week-end date, YYYY-MM-DD")
	pf.StringVar(&toDate, "to", "", "Last week-end date, YYYY-MM-DD")
	pf.StringSliceVar(&agents, "agent", nil, "Restrict to these agents")
	pf.StringSliceVar(&campaigns, "campaign", nil, "Restrict to these campaigns")
	pf.StringSliceVar(&locations, "location", nil, "Restrict to these locations")
	_ = rootCmd.MarkPersistentFlagRequired("file")
}

func filters() models.Filters {
	return models.Filters{
		DateRange: models.DateRange{Start: fromDate, End: toDate},
		Agents:    agents,
		Campaigns: campaigns,
		Locations: locations,
	}
}

func loadRecords(path string) ([]models.RawMetricRecord, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	var recs []models.RawMetricRecord
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, fmt.Errorf("parse records: %w", err)
	}
	return ingest.Dedupe(recs), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
