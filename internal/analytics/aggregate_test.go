package analytics

import (
	"math"
	"testing"

	"github.com/AngelCh415/outreach-analytics/internal/models"
)

func weekly(agent, campaign, audience, week string, invited, accepted, messaged, replies string) models.RawMetricRecord {
	return models.RawMetricRecord{
		Agent:         models.C(agent),
		Campaign:      models.C(campaign),
		Audience:      models.C(audience),
		WeekEnd:       models.C(week),
		TotalInvited:  models.C(invited),
		TotalAccepted: models.C(accepted),
		TotalMessaged: models.C(messaged),
		Replies:       models.C(replies),
	}
}

func TestAggregateSafeDivision(t *testing.T) {
	recs := []models.RawMetricRecord{weekly("A", "X", "CTO", "2024-01-07", "0", "5", "", "3")}
	b := Aggregate(recs, models.DimAgent)["A"]
	if b == nil {
		t.Fatal("expected bucket for A")
	}
	if b.AcceptanceRate != 0 || math.IsNaN(b.AcceptanceRate) {
		t.Fatalf("acceptance rate = %v, want 0", b.AcceptanceRate)
	}
	if b.ReplyRate != 0 || math.IsNaN(b.ReplyRate) {
		t.Fatalf("reply rate = %v, want 0", b.ReplyRate)
	}
}

func TestAggregateSumInvariant(t *testing.T) {
	recs := []models.RawMetricRecord{
		weekly("A", "X", "CTO", "2024-01-07", "1,000", "300", "100", "10"),
		weekly("B", "X", "CFO", "2024-01-07", "250", "50", "40", "4"),
		weekly("A", "Y", "CTO", "2024-01-14", "abc", "10", "10", "1"),
		weekly("C", "Y", "CEO", "2024-01-21", "75%", "20", "5", "0"),
	}
	var want float64
	for _, r := range recs {
		want += NormalizeNumber(r.TotalInvited.Raw)
	}
	var got float64
	for _, b := range Aggregate(recs, models.DimAgent) {
		got += b.Invited
	}
	if got != want {
		t.Fatalf("sum invited = %v, want %v", got, want)
	}
}

func TestAggregateAgentDistinctCounts(t *testing.T) {
	recs := []models.RawMetricRecord{
		weekly("A", "X", "CTO", "2024-01-07", "100", "10", "10", "1"),
		weekly("A", "Y", "CTO", "2024-01-07", "100", "10", "10", "1"),
		weekly("A", "Y", "CTO", "2024-01-14", "100", "10", "10", "1"),
	}
	b := Aggregate(recs, models.DimAgent)["A"]
	if b.Campaigns != 2 || b.Weeks != 2 || b.Records != 3 {
		t.Fatalf("unexpected counts: campaigns=%d weeks=%d records=%d", b.Campaigns, b.Weeks, b.Records)
	}
}

func TestAggregateMonthAndSparseKeys(t *testing.T) {
	recs := []models.RawMetricRecord{
		weekly("A", "X", "CTO", "2024-01-07", "100", "10", "10", "1"),
		weekly("A", "X", "CTO", "2024-01-28", "100", "30", "10", "1"),
		weekly("A", "X", "CTO", "2024-03-03", "100", "20", "10", "1"),
		weekly("A", "X", "CTO", "", "100", "20", "10", "1"),
	}
	months := Aggregate(recs, models.DimMonth)
	if len(months) != 2 {
		t.Fatalf("expected 2 months (no zero-filled February), got %d", len(months))
	}
	jan := months["2024-01"]
	if jan == nil || jan.Invited != 200 || jan.AcceptanceRate != 20 {
		t.Fatalf("unexpected January bucket: %+v", jan)
	}
}

func TestAggregateFoldsCase(t *testing.T) {
	recs := []models.RawMetricRecord{
		weekly("A", "X", "CTO", "2024-01-07", "100", "10", "10", "1"),
		weekly(" a", "x", "CTO", "2024-01-14", "60", "6", "10", "1"),
	}
	agents := Aggregate(recs, models.DimAgent)
	if len(agents) != 1 {
		t.Fatalf("expected 1 agent bucket, got %d", len(agents))
	}
	b := agents["A"]
	if b == nil || b.Invited != 160 || b.Records != 2 || b.Campaigns != 1 {
		t.Fatalf("unexpected bucket %+v", b)
	}
}

func TestAggregateBlankCategoryIsUnknown(t *testing.T) {
	recs := []models.RawMetricRecord{weekly("", "X", "", "2024-01-07", "10", "1", "1", "0")}
	if _, ok := Aggregate(recs, models.DimAudience)["Unknown"]; !ok {
		t.Fatal("expected Unknown audience bucket")
	}
}

func TestAggregateUnknownDimension(t *testing.T) {
	recs := []models.RawMetricRecord{weekly("A", "X", "CTO", "2024-01-07", "10", "1", "1", "0")}
	if got := Aggregate(recs, models.Dimension("color")); len(got) != 0 {
		t.Fatalf("expected empty map, got %d buckets", len(got))
	}
}

func TestOrdered(t *testing.T) {
	recs := []models.RawMetricRecord{
		weekly("A", "X", "CTO", "2024-01-21", "100", "10", "10", "1"),
		weekly("B", "X", "CTO", "2024-01-07", "200", "80", "10", "1"),
		weekly("C", "X", "CTO", "2024-01-14", "300", "30", "10", "1"),
	}
	weeks := Ordered(Aggregate(recs, models.DimWeek), models.DimWeek)
	if weeks[0].Key != "2024-01-07" || weeks[2].Key != "2024-01-21" {
		t.Fatalf("weeks not ascending: %v", []string{weeks[0].Key, weeks[1].Key, weeks[2].Key})
	}
	agents := Ordered(Aggregate(recs, models.DimAgent), models.DimAgent)
	if agents[0].Key != "B" || agents[1].Key != "C" || agents[2].Key != "A" {
		t.Fatalf("agents not ranked by acceptance: %s %s %s", agents[0].Key, agents[1].Key, agents[2].Key)
	}
}
