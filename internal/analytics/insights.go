package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AngelCh415/outreach-analytics/internal/models"
)

// Thresholds used by the insight rules.
const (
	strongAcceptanceRatio = 1.3
	weakAcceptanceRatio   = 0.7
	trendSlope            = 0.5
	trendMinR2            = 0.5
	agentGapPoints        = 15.0
	minAudienceInvites    = 100.0
	minCampaignInvites    = 100.0
	volumeDropRatio       = 0.8
)

type rule func(r *models.AnalyticsResult, b models.Benchmark) (models.Insight, bool)

var rules = []rule{
	strongAcceptance,
	weakAcceptance,
	positiveTrend,
	decliningTrend,
	agentGap,
	bestAudience,
	lowReplyRate,
	weakCampaigns,
	volumeSlowdown,
	personalization,
}

// GenerateInsights runs the rule table in order and returns the findings
// stable-sorted high, medium, low.
func GenerateInsights(r *models.AnalyticsResult, b models.Benchmark) []models.Insight {
	out := []models.Insight{}
	if r == nil {
		return out
	}
	for _, fn := range rules {
		if in, ok := fn(r, b); ok {
			out = append(out, in)
		}
	}
	SortInsights(out)
	return out
}

func SortInsights(in []models.Insight) {
	sort.SliceStable(in, func(i, j int) bool { return in[i].Priority.Rank() < in[j].Priority.Rank() })
}

func strongAcceptance(r *models.AnalyticsResult, b models.Benchmark) (models.Insight, bool) {
	if r.Totals.Invited == 0 || r.AcceptanceRate < b.Acceptance.Good*strongAcceptanceRatio {
		return models.Insight{}, false
	}
	return models.Insight{
		Type:        models.InsightSuccess,
		Title:       "Acceptance rate well above benchmark",
		Description: fmt.Sprintf("Acceptance rate of %.1f%% is %.1fx the %.2f%% industry benchmark.", r.AcceptanceRate, r.AcceptanceRate/b.Acceptance.Good, b.Acceptance.Good),
		Action:      "Document the targeting and messaging behind these campaigns and reuse them.",
		Metric:      fmt.Sprintf("%.1f%%", r.AcceptanceRate),
		Priority:    models.PriorityMedium,
	}, true
}

func weakAcceptance(r *models.AnalyticsResult, b models.Benchmark) (models.Insight, bool) {
	if r.Totals.Invited == 0 || r.AcceptanceRate >= b.Acceptance.Good*weakAcceptanceRatio {
		return models.Insight{}, false
	}
	return models.Insight{
		Type:        models.InsightDanger,
		Title:       "Acceptance rate far below benchmark",
		Description: fmt.Sprintf("Acceptance rate of %.1f%% is under 70%% of the %.2f%% industry benchmark.", r.AcceptanceRate, b.Acceptance.Good),
		Action:      "Review audience targeting and connection request copy.",
		Metric:      fmt.Sprintf("%.1f%%", r.AcceptanceRate),
		Priority:    models.PriorityHigh,
	}, true
}

func positiveTrend(r *models.AnalyticsResult, _ models.Benchmark) (models.Insight, bool) {
	t := r.AcceptanceTrend
	if t.Slope <= trendSlope || t.R2 <= trendMinR2 {
		return models.Insight{}, false
	}
	return models.Insight{
		Type:        models.InsightSuccess,
		Title:       "Positive acceptance trend",
		Description: fmt.Sprintf("Acceptance rate is rising by %.1f points per week (r² %.2f).", t.Slope, t.R2),
		Metric:      fmt.Sprintf("+%.1f/wk", t.Slope),
		Priority:    models.PriorityLow,
	}, true
}

func decliningTrend(r *models.AnalyticsResult, _ models.Benchmark) (models.Insight, bool) {
	t := r.AcceptanceTrend
	if t.Slope >= -trendSlope || t.R2 <= trendMinR2 {
		return models.Insight{}, false
	}
	return models.Insight{
		Type:        models.InsightWarning,
		Title:       "Acceptance rate declining",
		Description: fmt.Sprintf("Acceptance rate is falling by %.1f points per week (r² %.2f).", -t.Slope, t.R2),
		Action:      "Refresh messaging and check for audience fatigue.",
		Metric:      fmt.Sprintf("%.1f/wk", t.Slope),
		Priority:    models.PriorityHigh,
	}, true
}

func agentGap(r *models.AnalyticsResult, _ models.Benchmark) (models.Insight, bool) {
	agents := named(r.Agents)
	if len(agents) < 2 {
		return models.Insight{}, false
	}
	// Agents ya viene ordenado por tasa de aceptación desc
	top, bottom := agents[0], agents[len(agents)-1]
	gap := top.AcceptanceRate - bottom.AcceptanceRate
	if gap <= agentGapPoints {
		return models.Insight{}, false
	}
	return models.Insight{
		Type:        models.InsightInfo,
		Title:       "Large performance gap between agents",
		Description: fmt.Sprintf("%s converts at %.1f%% while %s converts at %.1f%%.", top.Key, top.AcceptanceRate, bottom.Key, bottom.AcceptanceRate),
		Action:      fmt.Sprintf("Pair %s with %s to share what works.", bottom.Key, top.Key),
		Metric:      fmt.Sprintf("%.1f pts", gap),
		Priority:    models.PriorityMedium,
	}, true
}

func bestAudience(r *models.AnalyticsResult, _ models.Benchmark) (models.Insight, bool) {
	for _, a := range r.Audiences {
		if a.Key == unknownKey || a.Invited < minAudienceInvites {
			continue
		}
		return models.Insight{
			Type:        models.InsightInfo,
			Title:       "Best performing audience",
			Description: fmt.Sprintf("%s accepts at %.1f%% across %.0f invites.", a.Key, a.AcceptanceRate, a.Invited),
			Action:      "Shift more invite volume toward this audience.",
			Metric:      fmt.Sprintf("%.1f%%", a.AcceptanceRate),
			Priority:    models.PriorityMedium,
		}, true
	}
	return models.Insight{}, false
}

func lowReplyRate(r *models.AnalyticsResult, b models.Benchmark) (models.Insight, bool) {
	if r.Totals.Messaged == 0 || r.ReplyRate >= b.Reply.Good {
		return models.Insight{}, false
	}
	return models.Insight{
		Type:        models.InsightWarning,
		Title:       "Reply rate below benchmark",
		Description: fmt.Sprintf("Reply rate of %.1f%% is under the %.1f%% benchmark.", r.ReplyRate, b.Reply.Good),
		Action:      "Shorten follow-up messages and lead with a specific question.",
		Metric:      fmt.Sprintf("%.1f%%", r.ReplyRate),
		Priority:    models.PriorityHigh,
	}, true
}

func weakCampaigns(r *models.AnalyticsResult, b models.Benchmark) (models.Insight, bool) {
	var names []string
	for _, c := range r.Campaigns {
		if c.Invited >= minCampaignInvites && c.AcceptanceRate < b.Acceptance.Average {
			names = append(names, c.Key)
		}
	}
	if len(names) == 0 {
		return models.Insight{}, false
	}
	return models.Insight{
		Type:        models.InsightWarning,
		Title:       "Underperforming campaigns",
		Description: fmt.Sprintf("%s below the %.0f%% acceptance floor: %s.", plural(len(names), "campaign is", "campaigns are"), b.Acceptance.Average, strings.Join(names, ", ")),
		Action:      "Pause or rework these campaigns.",
		Metric:      fmt.Sprintf("%d", len(names)),
		Priority:    models.PriorityMedium,
	}, true
}

func volumeSlowdown(r *models.AnalyticsResult, _ models.Benchmark) (models.Insight, bool) {
	if len(r.VolumeForecast) == 0 || len(r.Weekly) < 2 {
		return models.Insight{}, false
	}
	var mean float64
	for _, w := range r.Weekly {
		mean += w.Invited
	}
	mean /= float64(len(r.Weekly))
	next := r.VolumeForecast[0].PredictedValue
	if mean == 0 || next >= mean*volumeDropRatio {
		return models.Insight{}, false
	}
	return models.Insight{
		Type:        models.InsightInfo,
		Title:       "Invite volume slowing",
		Description: fmt.Sprintf("Next week is projected at %.0f invites against a %.0f weekly average.", next, mean),
		Metric:      fmt.Sprintf("%.0f", next),
		Priority:    models.PriorityLow,
	}, true
}

func personalization(_ *models.AnalyticsResult, b models.Benchmark) (models.Insight, bool) {
	return models.Insight{
		Type:        models.InsightInfo,
		Title:       "Personalization opportunity",
		Description: fmt.Sprintf("Personalized requests reach %.0f%% acceptance versus %.2f%% for generic ones, with %.0f%% more replies.", b.PersonalizedAcceptance, b.GenericAcceptance, b.PersonalizedReplyLift),
		Action:      "Reference a shared connection or recent post in the first line.",
		Priority:    models.PriorityMedium,
	}, true
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}

// named drops the bucket holding records with a blank category.
func named(in []models.Bucket) []models.Bucket {
	out := make([]models.Bucket, 0, len(in))
	for _, b := range in {
		if b.Key != unknownKey {
			out = append(out, b)
		}
	}
	return out
}
