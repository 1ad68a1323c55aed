package store

import (
	"testing"
	"time"

	"github.com/AngelCh415/outreach-analytics/internal/models"
)

func TestReplaceRecordsBumpsVersion(t *testing.T) {
	st := NewMemoryStore()
	if _, v := st.Snapshot(); v != 0 {
		t.Fatalf("expected version 0, got %d", v)
	}
	in := []models.RawMetricRecord{{Agent: models.C("A")}}
	if v := st.ReplaceRecords(in); v != 1 {
		t.Fatalf("expected version 1, got %d", v)
	}
	in[0].Agent = models.C("mutated")
	recs, v := st.Snapshot()
	if v != 1 || recs[0].Agent.Raw != "A" {
		t.Fatalf("snapshot must not alias caller slice: %+v", recs)
	}
	if st.LoadedAt().IsZero() {
		t.Fatal("expected load time")
	}
	if v := st.ReplaceRecords(nil); v != 2 {
		t.Fatalf("expected version 2, got %d", v)
	}
}

func TestGoals(t *testing.T) {
	st := NewMemoryStore()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	second := st.AddGoal(models.Goal{Metric: "invited", Target: 10, CreatedAt: t0.Add(time.Hour)})
	first := st.AddGoal(models.Goal{Metric: "replyRate", Target: 5, CreatedAt: t0})
	if first.ID == "" || second.ID == "" || first.ID == second.ID {
		t.Fatalf("expected distinct ids, got %q %q", first.ID, second.ID)
	}
	goals := st.Goals()
	if len(goals) != 2 || goals[0].ID != first.ID {
		t.Fatalf("goals not ordered by creation: %+v", goals)
	}
	if !st.DeleteGoal(first.ID) || st.DeleteGoal(first.ID) {
		t.Fatal("delete must succeed once")
	}
	if len(st.Goals()) != 1 {
		t.Fatal("expected one goal left")
	}
}
