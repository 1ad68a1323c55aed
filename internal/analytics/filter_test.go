package analytics

import (
	"testing"

	"github.com/AngelCh415/outreach-analytics/internal/models"
)

func rec(agent, campaign, location, week string) models.RawMetricRecord {
	r := models.RawMetricRecord{
		Agent:    models.C(agent),
		Campaign: models.C(campaign),
		Location: models.C(location),
	}
	if week != "" {
		r.WeekEnd = models.C(week)
	}
	return r
}

func TestFilterAndSemantics(t *testing.T) {
	recs := []models.RawMetricRecord{
		rec("A", "X", "NY", "2024-01-07"),
		rec("A", "Y", "NY", "2024-01-14"),
		rec("B", "X", "LA", "2024-01-14"),
		rec("B", "Y", "LA", "2024-01-21"),
		rec("A", "Y", "LA", "2024-01-28"),
	}
	got := Filter(recs, models.Filters{Agents: []string{"A"}, Campaigns: []string{"Y"}})
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	for _, r := range got {
		if r.Agent.Raw != "A" || r.Campaign.Raw != "Y" {
			t.Fatalf("record leaked through filter: %+v", r)
		}
	}
	// orden de entrada preservado
	if got[0].WeekEnd.Raw != "2024-01-14" || got[1].WeekEnd.Raw != "2024-01-28" {
		t.Fatalf("order not preserved: %s, %s", got[0].WeekEnd.Raw, got[1].WeekEnd.Raw)
	}
}

func TestFilterEmptyCriteriaKeepsAll(t *testing.T) {
	recs := []models.RawMetricRecord{rec("A", "X", "NY", ""), rec("B", "Y", "LA", "2024-01-14")}
	got := Filter(recs, models.Filters{Agents: []string{}, Campaigns: []string{" "}})
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
}

func TestFilterDateRange(t *testing.T) {
	recs := []models.RawMetricRecord{
		rec("A", "X", "NY", "2024-01-07"),
		rec("A", "X", "NY", "2024-01-14"),
		rec("A", "X", "NY", ""),
		rec("A", "X", "NY", "2024-02-04"),
	}
	got := Filter(recs, models.Filters{DateRange: models.DateRange{Start: "2024-01-10", End: "2024-01-31"}})
	if len(got) != 1 || got[0].WeekEnd.Raw != "2024-01-14" {
		t.Fatalf("unexpected date filter result: %+v", got)
	}

	// fecha faltante solo falla contra filtros de fecha
	got = Filter(recs, models.Filters{Locations: []string{"ny"}})
	if len(got) != 4 {
		t.Fatalf("expected 4 records, got %d", len(got))
	}
	got = Filter(recs, models.Filters{DateRange: models.DateRange{End: "2024-12-31"}})
	if len(got) != 3 {
		t.Fatalf("expected 3 dated records, got %d", len(got))
	}
}

func TestFilterCaseInsensitive(t *testing.T) {
	recs := []models.RawMetricRecord{rec("Alice", "Spring", "NY", "2024-01-07")}
	if got := Filter(recs, models.Filters{Agents: []string{" alice "}}); len(got) != 1 {
		t.Fatalf("expected case-insensitive match, got %d", len(got))
	}
}
