package analytics

import (
	"math"
	"sort"

	"github.com/AngelCh415/outreach-analytics/internal/models"
)

// DefaultBenchmark holds industry reference rates, in percent.
var DefaultBenchmark = models.Benchmark{
	Version:                "2024.1",
	Acceptance:             models.Tiers{Elite: 50, Excellent: 40, Good: 29.61, Average: 20},
	Reply:                  models.Tiers{Elite: 30, Excellent: 20, Good: 10.3, Average: 5},
	PersonalizedAcceptance: 40,
	GenericAcceptance:      29.61,
	PersonalizedReplyLift:  32,
}

// Composite score weights; they sum to 1.
const (
	WeightAcceptance  = 0.35
	WeightReply       = 0.30
	WeightVolume      = 0.20
	WeightConsistency = 0.15
)

// Values at which each score component saturates.
const (
	AcceptanceCeiling = 50.0
	ReplyCeiling      = 30.0
	VolumeCeiling     = 1000.0
	ConsistencyWeeks  = 12.0
)

const (
	TierElite            = "Elite"
	TierExcellent        = "Excellent"
	TierAboveBenchmark   = "Above Benchmark"
	TierAverage          = "Average"
	TierNeedsImprovement = "Needs Improvement"
)

func component(v, ceiling float64) float64 {
	return math.Max(0, math.Min(100, v/ceiling*100))
}

// Score combines rates, volume and consistency into 0..100.
func Score(acceptanceRate, replyRate, invited float64, weeksActive int) int {
	s := component(acceptanceRate, AcceptanceCeiling)*WeightAcceptance +
		component(replyRate, ReplyCeiling)*WeightReply +
		component(invited, VolumeCeiling)*WeightVolume +
		component(float64(weeksActive), ConsistencyWeeks)*WeightConsistency
	return int(math.Round(s))
}

// PerformanceTier places an acceptance rate on the default benchmark ladder.
func PerformanceTier(acceptanceRate float64) string {
	return TierFor(DefaultBenchmark, acceptanceRate)
}

// TierFor walks the ladder high to low; first match wins. Tiers are always
// derived from acceptance rate, never from the composite score.
func TierFor(b models.Benchmark, acceptanceRate float64) string {
	switch {
	case acceptanceRate >= b.Acceptance.Elite:
		return TierElite
	case acceptanceRate >= b.Acceptance.Excellent:
		return TierExcellent
	case acceptanceRate >= b.Acceptance.Good:
		return TierAboveBenchmark
	case acceptanceRate >= b.Acceptance.Average:
		return TierAverage
	}
	return TierNeedsImprovement
}

// ScoreAgents scores every named agent bucket, best first. Records without an
// agent are not ranked.
func ScoreAgents(agents []models.Bucket, b models.Benchmark) []models.AgentScore {
	agents = named(agents)
	out := make([]models.AgentScore, 0, len(agents))
	for _, a := range agents {
		out = append(out, models.AgentScore{
			Agent:          a.Key,
			AcceptanceRate: a.AcceptanceRate,
			ReplyRate:      a.ReplyRate,
			Invited:        a.Invited,
			WeeksActive:    a.Weeks,
			Score:          Score(a.AcceptanceRate, a.ReplyRate, a.Invited, a.Weeks),
			Tier:           TierFor(b, a.AcceptanceRate),
			VsBenchmark:    a.AcceptanceRate - b.Acceptance.Good,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].AcceptanceRate != out[j].AcceptanceRate {
			return out[i].AcceptanceRate > out[j].AcceptanceRate
		}
		return out[i].Agent < out[j].Agent
	})
	return out
}
