package analytics

import (
	"strings"

	"github.com/AngelCh415/outreach-analytics/internal/models"
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func toSet(vals []string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, v := range vals {
		v = norm(v)
		if v != "" {
			out[v] = struct{}{}
		}
	}
	return out
}

// weekKey is the YYYY-MM-DD prefix of the week-end field.
func weekKey(r models.RawMetricRecord) string {
	s := strings.TrimSpace(r.WeekEnd.Raw)
	if len(s) > 10 {
		s = s[:10]
	}
	return s
}

func monthKey(r models.RawMetricRecord) string {
	s := weekKey(r)
	if len(s) > 7 {
		s = s[:7]
	}
	return s
}

// Filter keeps the records matching every supplied criterion, in input order.
func Filter(records []models.RawMetricRecord, f models.Filters) []models.RawMetricRecord {
	start := strings.TrimSpace(f.DateRange.Start)
	end := strings.TrimSpace(f.DateRange.End)
	campaigns := toSet(f.Campaigns)
	locations := toSet(f.Locations)
	agents := toSet(f.Agents)

	out := make([]models.RawMetricRecord, 0, len(records))
	for _, r := range records {
		if start != "" || end != "" {
			wk := weekKey(r)
			if wk == "" {
				continue
			}
			// ISO dates compare lexicographically
			if start != "" && wk < start {
				continue
			}
			if end != "" && wk > end {
				continue
			}
		}
		if !inSet(campaigns, r.Campaign.Raw) || !inSet(locations, r.Location.Raw) || !inSet(agents, r.Agent.Raw) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func inSet(set map[string]struct{}, v string) bool {
	if len(set) == 0 {
		return true
	}
	_, ok := set[norm(v)]
	return ok
}
