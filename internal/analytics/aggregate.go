package analytics

import (
	"sort"
	"strings"

	"github.com/AngelCh415/outreach-analytics/internal/models"
)

const unknownKey = "Unknown"

// Aggregate groups records by one dimension. Buckets only exist for keys that
// received at least one record; an unsupported dimension yields an empty map.
// Categorical keys match ignoring case and surrounding spaces, the same way
// Filter does, and each bucket is labeled with the first spelling seen.
func Aggregate(records []models.RawMetricRecord, dim models.Dimension) map[string]*models.Bucket {
	return aggregate(nil, records, dim)
}

func aggregate(n *Normalizer, records []models.RawMetricRecord, dim models.Dimension) map[string]*models.Bucket {
	out := map[string]*models.Bucket{}
	if !dim.Valid() {
		return out
	}
	campaigns := map[string]map[string]struct{}{}
	weeks := map[string]map[string]struct{}{}

	// nombres que solo difieren en mayúsculas caen en el mismo bucket
	byCanon := map[string]*models.Bucket{}
	for i, r := range records {
		label := bucketKey(r, dim)
		if label == "" {
			continue
		}
		b, ok := byCanon[norm(label)]
		if !ok {
			b = &models.Bucket{Key: label}
			byCanon[norm(label)] = b
			out[label] = b
		}
		key := b.Key
		c := n.counters(i, r)
		b.Invited += c.invited
		b.Accepted += c.accepted
		b.Messaged += c.messaged
		b.Replies += c.replies
		b.NetNew += c.netNew
		b.Actions += c.actions
		b.Records++

		if dim == models.DimAgent {
			addDistinct(campaigns, key, norm(r.Campaign.Raw))
			addDistinct(weeks, key, weekKey(r))
		}
	}

	// tasas derivadas, solo con sumas finales
	for key, b := range out {
		finalize(b)
		if dim == models.DimAgent {
			b.Campaigns = len(campaigns[key])
			b.Weeks = len(weeks[key])
		}
	}
	return out
}

func bucketKey(r models.RawMetricRecord, dim models.Dimension) string {
	switch dim {
	case models.DimWeek:
		return weekKey(r)
	case models.DimMonth:
		return monthKey(r)
	case models.DimAgent:
		return coalesce(r.Agent.Raw, unknownKey)
	case models.DimCampaign:
		return coalesce(r.Campaign.Raw, unknownKey)
	case models.DimLocation:
		return coalesce(r.Location.Raw, unknownKey)
	case models.DimAudience:
		return coalesce(r.Audience.Raw, unknownKey)
	}
	return ""
}

func addDistinct(m map[string]map[string]struct{}, key, v string) {
	if v == "" {
		return
	}
	s, ok := m[key]
	if !ok {
		s = map[string]struct{}{}
		m[key] = s
	}
	s[v] = struct{}{}
}

func finalize(b *models.Bucket) {
	b.AcceptanceRate = safeRate(b.Accepted, b.Invited)
	b.ReplyRate = safeRate(b.Replies, b.Messaged)
}

// safeRate is num/den as a percentage, 0 when den is 0.
func safeRate(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num * 100 / den
}

func safeDivF(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func coalesce(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

// Ordered flattens buckets in the order consumers rely on: ascending key for
// time dimensions, descending ranking metric for categorical ones.
func Ordered(buckets map[string]*models.Bucket, dim models.Dimension) []models.Bucket {
	out := make([]models.Bucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	switch {
	case dim.IsTime():
		sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	case dim == models.DimLocation:
		sort.Slice(out, func(i, j int) bool {
			if out[i].Invited != out[j].Invited {
				return out[i].Invited > out[j].Invited
			}
			if out[i].AcceptanceRate != out[j].AcceptanceRate {
				return out[i].AcceptanceRate > out[j].AcceptanceRate
			}
			return out[i].Key < out[j].Key
		})
	default:
		sort.Slice(out, func(i, j int) bool {
			if out[i].AcceptanceRate != out[j].AcceptanceRate {
				return out[i].AcceptanceRate > out[j].AcceptanceRate
			}
			if out[i].Invited != out[j].Invited {
				return out[i].Invited > out[j].Invited
			}
			return out[i].Key < out[j].Key
		})
	}
	return out
}

// totalsOf sums every record; a bucket over the whole set.
func totalsOf(n *Normalizer, records []models.RawMetricRecord) (models.Totals, models.Bucket) {
	var all models.Bucket
	agents := map[string]struct{}{}
	campaigns := map[string]struct{}{}
	weeks := map[string]struct{}{}
	for i, r := range records {
		c := n.counters(i, r)
		all.Invited += c.invited
		all.Accepted += c.accepted
		all.Messaged += c.messaged
		all.Replies += c.replies
		all.NetNew += c.netNew
		all.Actions += c.actions
		all.Records++
		if a := norm(r.Agent.Raw); a != "" {
			agents[a] = struct{}{}
		}
		if cp := norm(r.Campaign.Raw); cp != "" {
			campaigns[cp] = struct{}{}
		}
		if wk := weekKey(r); wk != "" {
			weeks[wk] = struct{}{}
		}
	}
	finalize(&all)
	return models.Totals{
		Records:   all.Records,
		Invited:   all.Invited,
		Accepted:  all.Accepted,
		Messaged:  all.Messaged,
		Replies:   all.Replies,
		NetNew:    all.NetNew,
		Actions:   all.Actions,
		Agents:    len(agents),
		Campaigns: len(campaigns),
		Weeks:     len(weeks),
	}, all
}
