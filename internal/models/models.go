package models

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Cell is one spreadsheet value. Present is false when the field was absent or null.
type Cell struct {
	Raw     string
	Present bool
}

// C builds a present cell.
func C(s string) Cell { return Cell{Raw: s, Present: true} }

func (c Cell) String() string { return c.Raw }

func (c *Cell) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*c = Cell{}
		return nil
	}
	if s[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*c = C(v)
		return nil
	}
	// números y booleanos de la hoja llegan sin comillas
	*c = C(s)
	return nil
}

func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.Present {
		return []byte("null"), nil
	}
	return json.Marshal(c.Raw)
}

type RawMetricRecord struct {
	Status   Cell `json:"status"`
	Campaign Cell `json:"campaign"`
	Message  Cell `json:"message"`
	Audience Cell `json:"audience"`
	Agent    Cell `json:"agent"`
	Location Cell `json:"location"`
	Queue    Cell `json:"queue"`
	AlgoType Cell `json:"algoType"`
	DefyLead Cell `json:"defyLead"`
	Target   Cell `json:"target"`
	WeekEnd  Cell `json:"weekEnd"`

	AcceptanceRate    Cell `json:"acceptanceRate"`
	Replies           Cell `json:"replies"`
	ReplyPercent      Cell `json:"replyPercent"`
	TotalInvited      Cell `json:"totalInvited"`
	TotalAccepted     Cell `json:"totalAccepted"`
	NetNewConnects    Cell `json:"netNewConnects"`
	StartingConnects  Cell `json:"startingConnects"`
	EndingConnections Cell `json:"endingConnections"`
	TotalMessaged     Cell `json:"totalMessaged"`
	TotalActions      Cell `json:"totalActions"`
}

type DateRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

type Filters struct {
	DateRange DateRange `json:"dateRange"`
	Campaigns []string  `json:"campaigns,omitempty"`
	Locations []string  `json:"locations,omitempty"`
	Agents    []string  `json:"agents,omitempty"`
}

// Key is a canonical representation used for memoization; set order and case do not matter.
func (f Filters) Key() string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(f.DateRange.Start))
	b.WriteByte('|')
	b.WriteString(strings.TrimSpace(f.DateRange.End))
	for _, set := range [][]string{f.Campaigns, f.Locations, f.Agents} {
		b.WriteByte('|')
		b.WriteString(strings.Join(canonSet(set), ","))
	}
	return b.String()
}

func canonSet(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

type Dimension string

const (
	DimWeek     Dimension = "week"
	DimMonth    Dimension = "month"
	DimAgent    Dimension = "agent"
	DimCampaign Dimension = "campaign"
	DimLocation Dimension = "location"
	DimAudience Dimension = "audience"
)

func (d Dimension) IsTime() bool { return d == DimWeek || d == DimMonth }

func (d Dimension) Valid() bool {
	switch d {
	case DimWeek, DimMonth, DimAgent, DimCampaign, DimLocation, DimAudience:
		return true
	}
	return false
}

type Bucket struct {
	Key            string  `json:"key"`
	Invited        float64 `json:"invited"`
	Accepted       float64 `json:"accepted"`
	Messaged       float64 `json:"messaged"`
	Replies        float64 `json:"replies"`
	NetNew         float64 `json:"netNew"`
	Actions        float64 `json:"actions"`
	Records        int     `json:"records"`
	Campaigns      int     `json:"campaigns,omitempty"`
	Weeks          int     `json:"weeks,omitempty"`
	AcceptanceRate float64 `json:"acceptanceRate"`
	ReplyRate      float64 `json:"replyRate"`
}

type Direction string

const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStable Direction = "stable"
)

type TrendModel struct {
	Slope     float64   `json:"slope"`
	Intercept float64   `json:"intercept"`
	R2        float64   `json:"r2"`
	Direction Direction `json:"direction"`
}

type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Mean  float64 `json:"mean"`
}

type ForecastPoint struct {
	Period         string  `json:"period"`
	PredictedValue float64 `json:"predictedValue"`
	LowerBound     float64 `json:"lowerBound"`
	UpperBound     float64 `json:"upperBound"`
}

type AgentScore struct {
	Agent          string  `json:"agent"`
	AcceptanceRate float64 `json:"acceptanceRate"`
	ReplyRate      float64 `json:"replyRate"`
	Invited        float64 `json:"invited"`
	WeeksActive    int     `json:"weeksActive"`
	Score          int     `json:"score"`
	Tier           string  `json:"tier"`
	VsBenchmark    float64 `json:"vsBenchmark"`
}

type InsightType string

const (
	InsightSuccess InsightType = "success"
	InsightWarning InsightType = "warning"
	InsightInfo    InsightType = "info"
	InsightDanger  InsightType = "danger"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank orders priorities high→low; unknown priorities sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

type Insight struct {
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Action      string      `json:"action,omitempty"`
	Metric      string      `json:"metric,omitempty"`
	Priority    Priority    `json:"priority"`
}

type Tiers struct {
	Elite     float64 `json:"elite"`
	Excellent float64 `json:"excellent"`
	Good      float64 `json:"good"`
	Average   float64 `json:"average"`
}

type Benchmark struct {
	Version                string  `json:"version"`
	Acceptance             Tiers   `json:"acceptance"`
	Reply                  Tiers   `json:"reply"`
	PersonalizedAcceptance float64 `json:"personalizedAcceptance"`
	GenericAcceptance      float64 `json:"genericAcceptance"`
	PersonalizedReplyLift  float64 `json:"personalizedReplyLift"`
}

type Goal struct {
	ID        string    `json:"id"`
	AgentName string    `json:"agentName,omitempty"`
	Metric    string    `json:"metric"`
	Target    float64   `json:"target"`
	CreatedAt time.Time `json:"createdAt"`
}

type GoalProgress struct {
	Goal     Goal    `json:"goal"`
	Current  float64 `json:"current"`
	Percent  float64 `json:"percent"`
	Achieved bool    `json:"achieved"`
}

// CoercionWarning records a non-empty raw value that normalized to 0.
type CoercionWarning struct {
	Index int    `json:"index"`
	Field string `json:"field"`
	Raw   string `json:"raw"`
}

func (w CoercionWarning) String() string {
	return "record " + strconv.Itoa(w.Index) + ": " + w.Field + "=" + strconv.Quote(w.Raw)
}

type Totals struct {
	Records   int     `json:"records"`
	Invited   float64 `json:"invited"`
	Accepted  float64 `json:"accepted"`
	Messaged  float64 `json:"messaged"`
	Replies   float64 `json:"replies"`
	NetNew    float64 `json:"netNew"`
	Actions   float64 `json:"actions"`
	Agents    int     `json:"agents"`
	Campaigns int     `json:"campaigns"`
	Weeks     int     `json:"weeks"`
}

type AnalyticsResult struct {
	Totals             Totals             `json:"totals"`
	AcceptanceRate     float64            `json:"acceptanceRate"`
	ReplyRate          float64            `json:"replyRate"`
	PerformanceTier    string             `json:"performanceTier"`
	Weekly             []Bucket           `json:"weekly"`
	Monthly            []Bucket           `json:"monthly"`
	Agents             []Bucket           `json:"agents"`
	Campaigns          []Bucket           `json:"campaigns"`
	Locations          []Bucket           `json:"locations"`
	Audiences          []Bucket           `json:"audiences"`
	AgentScores        []AgentScore       `json:"agentScores"`
	AcceptanceTrend    TrendModel         `json:"acceptanceTrend"`
	VolumeTrend        TrendModel         `json:"volumeTrend"`
	AcceptanceInterval ConfidenceInterval `json:"acceptanceInterval"`
	AcceptanceForecast []ForecastPoint    `json:"acceptanceForecast"`
	VolumeForecast     []ForecastPoint    `json:"volumeForecast"`
	Insights           []Insight          `json:"insights"`
	Warnings           []CoercionWarning  `json:"warnings,omitempty"`
	BenchmarkVersion   string             `json:"benchmarkVersion"`
}

// Table returns the ordered buckets for a dimension, nil for unknown ones.
func (r *AnalyticsResult) Table(d Dimension) []Bucket {
	if r == nil {
		return nil
	}
	switch d {
	case DimWeek:
		return r.Weekly
	case DimMonth:
		return r.Monthly
	case DimAgent:
		return r.Agents
	case DimCampaign:
		return r.Campaigns
	case DimLocation:
		return r.Locations
	case DimAudience:
		return r.Audiences
	}
	return nil
}
