package metrics

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AngelCh415/outreach-analytics/internal/analytics"
	"github.com/AngelCh415/outreach-analytics/internal/models"
	"github.com/AngelCh415/outreach-analytics/internal/store"
)

var (
	ErrBadDate          = errors.New("bad date (YYYY-MM-DD)")
	ErrUnknownDimension = errors.New("unknown dimension")
)

type Service struct {
	st   *store.MemoryStore
	memo *analytics.Memo
	opt  analytics.Options
	log  *slog.Logger
	m    *collectors
}

// NewService wires the query layer. reg may be nil, in which case the
// collectors are kept but not exported.
func NewService(st *store.MemoryStore, log *slog.Logger, opt analytics.Options, cacheEntries int, reg prometheus.Registerer) *Service {
	return &Service{
		st:   st,
		memo: analytics.NewMemo(cacheEntries),
		opt:  opt,
		log:  log,
		m:    newCollectors(reg),
	}
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func csvList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FiltersFromQuery reads from, to, agent, campaign and location.
func FiltersFromQuery(v url.Values) (models.Filters, error) {
	f := models.Filters{
		DateRange: models.DateRange{Start: strings.TrimSpace(v.Get("from")), End: strings.TrimSpace(v.Get("to"))},
		Agents:    csvList(v.Get("agent")),
		Campaigns: csvList(v.Get("campaign")),
		Locations: csvList(v.Get("location")),
	}
	for _, d := range []string{f.DateRange.Start, f.DateRange.End} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return models.Filters{}, fmt.Errorf("%w: %q", ErrBadDate, d)
		}
	}
	return f, nil
}

// Result runs one pass for the current snapshot, through the memo cache.
func (s *Service) Result(f models.Filters) *models.AnalyticsResult {
	recs, version := s.st.Snapshot()
	if r, ok := s.memo.Get(version, f); ok {
		s.m.cacheHits.Inc()
		s.log.Debug("analytics cache hit", slog.Uint64("version", version), slog.String("filters", f.Key()))
		return r
	}
	start := time.Now()
	r := analytics.Compute(recs, f, s.opt)
	elapsed := time.Since(start)

	s.m.passes.Inc()
	s.m.passDuration.Observe(elapsed.Seconds())
	s.m.records.Set(float64(len(recs)))
	if r != nil {
		for _, in := range r.Insights {
			s.m.insights.WithLabelValues(string(in.Priority)).Inc()
		}
		if len(r.Warnings) > 0 {
			s.log.Debug("coerced values", slog.Int("count", len(r.Warnings)), slog.String("first", r.Warnings[0].String()))
		}
	}
	s.memo.Put(version, f, r)
	s.log.Debug("analytics pass", slog.Uint64("version", version), slog.Int("records", len(recs)), slog.Duration("elapsed", elapsed))
	return r
}

func (s *Service) Analytics(v url.Values) (*models.AnalyticsResult, error) {
	f, err := FiltersFromQuery(v)
	if err != nil {
		return nil, err
	}
	return s.Result(f), nil
}

// Dimension returns one ordered bucket table, paginated by limit/offset.
func (s *Service) Dimension(v url.Values, dim string) ([]models.Bucket, error) {
	d := models.Dimension(norm(dim))
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDimension, dim)
	}
	r, err := s.Analytics(v)
	if err != nil {
		return nil, err
	}
	rows := r.Table(d)
	limit, offset := clampLimitOffset(atoiDef(v.Get("limit"), 100), atoiDef(v.Get("offset"), 0), len(rows))
	return paginate(rows, limit, offset), nil
}

func (s *Service) Insights(v url.Values) ([]models.Insight, error) {
	r, err := s.Analytics(v)
	if err != nil || r == nil {
		return []models.Insight{}, err
	}
	return r.Insights, nil
}

func (s *Service) Scores(v url.Values) ([]models.AgentScore, error) {
	r, err := s.Analytics(v)
	if err != nil || r == nil {
		return []models.AgentScore{}, err
	}
	return r.AgentScores, nil
}

type ForecastView struct {
	AcceptanceTrend    models.TrendModel         `json:"acceptanceTrend"`
	VolumeTrend        models.TrendModel         `json:"volumeTrend"`
	AcceptanceInterval models.ConfidenceInterval `json:"acceptanceInterval"`
	Acceptance         []models.ForecastPoint    `json:"acceptance"`
	Volume             []models.ForecastPoint    `json:"volume"`
}

func (s *Service) Forecast(v url.Values) (ForecastView, error) {
	r, err := s.Analytics(v)
	if err != nil || r == nil {
		return ForecastView{Acceptance: []models.ForecastPoint{}, Volume: []models.ForecastPoint{}}, err
	}
	return ForecastView{
		AcceptanceTrend:    r.AcceptanceTrend,
		VolumeTrend:        r.VolumeTrend,
		AcceptanceInterval: r.AcceptanceInterval,
		Acceptance:         r.AcceptanceForecast,
		Volume:             r.VolumeForecast,
	}, nil
}

// GoalProgress evaluates every stored goal against the filtered result.
func (s *Service) GoalProgress(v url.Values) ([]models.GoalProgress, error) {
	r, err := s.Analytics(v)
	if err != nil {
		return nil, err
	}
	goals := s.st.Goals()
	out := make([]models.GoalProgress, 0, len(goals))
	for _, g := range goals {
		out = append(out, analytics.GoalProgressOf(g, r))
	}
	return out, nil
}

var csvHeader = []string{"key", "records", "invited", "accepted", "messaged", "replies", "net_new", "actions", "acceptance_rate", "reply_rate"}

// WriteCSV writes one dimension table as rows, header first.
func (s *Service) WriteCSV(w io.Writer, v url.Values, dim string) error {
	d := models.Dimension(norm(dim))
	if !d.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDimension, dim)
	}
	r, err := s.Analytics(v)
	if err != nil {
		return err
	}
	return WriteBucketsCSV(w, r.Table(d))
}

func WriteBucketsCSV(w io.Writer, rows []models.Bucket) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, b := range rows {
		rec := []string{
			b.Key,
			strconv.Itoa(b.Records),
			ftoa(b.Invited),
			ftoa(b.Accepted),
			ftoa(b.Messaged),
			ftoa(b.Replies),
			ftoa(b.NetNew),
			ftoa(b.Actions),
			ftoa(round2(b.AcceptanceRate)),
			ftoa(round2(b.ReplyRate)),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// InvalidateCache drops memoized passes; the snapshot version also does this on reload.
func (s *Service) InvalidateCache() { s.memo.Invalidate() }

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func paginate[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

func clampLimitOffset(limit, offset, n int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = n
	}
	if limit > 1000 {
		limit = 1000
	} // tope sano
	if offset > n {
		offset = n
	}
	return limit, offset
}

func round2(f float64) float64 {
	if f < 0 {
		return -round2(-f)
	}
	return float64(int64(f*100+0.5)) / 100
}
