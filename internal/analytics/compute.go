package analytics

import "github.com/AngelCh415/outreach-analytics/internal/models"

type Options struct {
	Benchmark       models.Benchmark
	ForecastPeriods int
	Confidence      float64
	// Diagnostics fills AnalyticsResult.Warnings with values coerced to 0.
	Diagnostics bool
}

func DefaultOptions() Options {
	return Options{Benchmark: DefaultBenchmark, ForecastPeriods: 4, Confidence: 0.95}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Benchmark.Version == "" {
		o.Benchmark = d.Benchmark
	}
	if o.ForecastPeriods <= 0 {
		o.ForecastPeriods = d.ForecastPeriods
	}
	if o.Confidence <= 0 {
		o.Confidence = d.Confidence
	}
	return o
}

// Compute runs one full pass over the records. It returns nil when no record
// survives the filters.
func Compute(records []models.RawMetricRecord, f models.Filters, opt Options) *models.AnalyticsResult {
	opt = opt.withDefaults()
	rs := Filter(records, f)
	if len(rs) == 0 {
		return nil
	}

	n := NewNormalizer(opt.Diagnostics)
	totals, all := totalsOf(n, rs)

	res := &models.AnalyticsResult{
		Totals:           totals,
		AcceptanceRate:   all.AcceptanceRate,
		ReplyRate:        all.ReplyRate,
		PerformanceTier:  TierFor(opt.Benchmark, all.AcceptanceRate),
		Weekly:           Ordered(Aggregate(rs, models.DimWeek), models.DimWeek),
		Monthly:          Ordered(Aggregate(rs, models.DimMonth), models.DimMonth),
		Agents:           Ordered(Aggregate(rs, models.DimAgent), models.DimAgent),
		Campaigns:        Ordered(Aggregate(rs, models.DimCampaign), models.DimCampaign),
		Locations:        Ordered(Aggregate(rs, models.DimLocation), models.DimLocation),
		Audiences:        Ordered(Aggregate(rs, models.DimAudience), models.DimAudience),
		Warnings:         n.Warnings(),
		BenchmarkVersion: opt.Benchmark.Version,
	}
	res.AgentScores = ScoreAgents(res.Agents, opt.Benchmark)

	acceptance := make([]float64, 0, len(res.Weekly))
	volume := make([]float64, 0, len(res.Weekly))
	for _, w := range res.Weekly {
		acceptance = append(acceptance, w.AcceptanceRate)
		volume = append(volume, w.Invited)
	}
	last := ""
	if len(res.Weekly) > 0 {
		last = res.Weekly[len(res.Weekly)-1].Key
	}
	res.AcceptanceTrend = LinearRegression(acceptance)
	res.VolumeTrend = LinearRegression(volume)
	res.AcceptanceInterval = ConfidenceIntervalOf(acceptance, opt.Confidence)
	res.AcceptanceForecast = Forecast(acceptance, opt.ForecastPeriods, opt.Confidence, last)
	res.VolumeForecast = Forecast(volume, opt.ForecastPeriods, opt.Confidence, last)

	res.Insights = GenerateInsights(res, opt.Benchmark)
	return res
}

// Goal metric names.
const (
	MetricAcceptanceRate = "acceptanceRate"
	MetricReplyRate      = "replyRate"
	MetricInvited        = "invited"
	MetricAccepted       = "accepted"
	MetricMessaged       = "messaged"
	MetricReplies        = "replies"
	MetricNetNew         = "netNew"
	MetricActions        = "actions"
	MetricScore          = "score"
)

func KnownMetric(m string) bool {
	switch m {
	case MetricAcceptanceRate, MetricReplyRate, MetricInvited, MetricAccepted, MetricMessaged,
		MetricReplies, MetricNetNew, MetricActions, MetricScore:
		return true
	}
	return false
}

// GoalProgressOf compares a goal's target with the current computed value.
// Unknown metrics or agents, a nil result or a non-positive target give zero progress.
func GoalProgressOf(g models.Goal, r *models.AnalyticsResult) models.GoalProgress {
	p := models.GoalProgress{Goal: g}
	if r == nil || g.Target <= 0 {
		return p
	}
	b, ok := goalBucket(g, r)
	if !ok {
		return p
	}
	switch g.Metric {
	case MetricAcceptanceRate:
		p.Current = b.AcceptanceRate
	case MetricReplyRate:
		p.Current = b.ReplyRate
	case MetricInvited:
		p.Current = b.Invited
	case MetricAccepted:
		p.Current = b.Accepted
	case MetricMessaged:
		p.Current = b.Messaged
	case MetricReplies:
		p.Current = b.Replies
	case MetricNetNew:
		p.Current = b.NetNew
	case MetricActions:
		p.Current = b.Actions
	case MetricScore:
		p.Current = float64(Score(b.AcceptanceRate, b.ReplyRate, b.Invited, b.Weeks))
	default:
		return p
	}
	p.Percent = safeDivF(p.Current, g.Target) * 100
	p.Achieved = p.Current >= g.Target
	return p
}

func goalBucket(g models.Goal, r *models.AnalyticsResult) (models.Bucket, bool) {
	name := norm(g.AgentName)
	if name == "" {
		t := r.Totals
		return models.Bucket{
			Key:            "all",
			Invited:        t.Invited,
			Accepted:       t.Accepted,
			Messaged:       t.Messaged,
			Replies:        t.Replies,
			NetNew:         t.NetNew,
			Actions:        t.Actions,
			Weeks:          t.Weeks,
			AcceptanceRate: r.AcceptanceRate,
			ReplyRate:      r.ReplyRate,
		}, true
	}
	for _, a := range r.Agents {
		if norm(a.Key) == name {
			return a, true
		}
	}
	return models.Bucket{}, false
}
