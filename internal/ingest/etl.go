package ingest

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/AngelCh415/outreach-analytics/internal/analytics"
	"github.com/AngelCh415/outreach-analytics/internal/config"
	"github.com/AngelCh415/outreach-analytics/internal/models"
	"github.com/AngelCh415/outreach-analytics/internal/store"
)

var (
	ErrSourceNotConfigured = errors.New("source not configured")
	ErrSinkNotConfigured   = errors.New("sink not configured")
)

type ETL struct {
	c   HTTPClient
	st  *store.MemoryStore
	log *slog.Logger
	cfg config.Config
}

func NewETL(c HTTPClient, st *store.MemoryStore, log *slog.Logger, cfg config.Config) *ETL {
	return &ETL{c: c, st: st, log: log, cfg: cfg}
}

type LoadStats struct {
	Fetched    int    `json:"fetched"`
	Kept       int    `json:"kept"`
	Duplicates int    `json:"duplicates"`
	Version    uint64 `json:"version"`
}

// Run pulls the full record set from the source and installs it as the new snapshot.
func (e *ETL) Run(ctx context.Context) (LoadStats, error) {
	if e.cfg.SourceURL == "" {
		return LoadStats{}, ErrSourceNotConfigured
	}
	var recs []models.RawMetricRecord
	if err := GetJSONWithRetry(ctx, e.c, e.cfg.SourceURL, &recs); err != nil {
		return LoadStats{}, fmt.Errorf("fetch records: %w", err)
	}
	kept := Dedupe(recs)
	stats := LoadStats{Fetched: len(recs), Kept: len(kept), Duplicates: len(recs) - len(kept)}
	stats.Version = e.st.ReplaceRecords(kept)

	e.log.Info("ingest complete",
		slog.Int("fetched", stats.Fetched),
		slog.Int("kept", stats.Kept),
		slog.Int("duplicates", stats.Duplicates),
		slog.Uint64("version", stats.Version))
	return stats, nil
}

// Dedupe drops records that repeat an earlier one field for field. Rows that
// differ in any cell, even only in message or letter case, are all kept.
func Dedupe(recs []models.RawMetricRecord) []models.RawMetricRecord {
	seen := make(map[models.RawMetricRecord]struct{}, len(recs))
	out := make([]models.RawMetricRecord, 0, len(recs))
	for _, r := range recs {
		if _, ok := seen[r]; ok {
			continue
		} // idempotencia
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// ExportWeeks posts the filtered weekly buckets to the sink, signed with
// HMAC-SHA256 in X-Signature.
func (e *ETL) ExportWeeks(ctx context.Context, f models.Filters) (int, error) {
	if e.cfg.SinkURL == "" || e.cfg.SinkSecret == "" {
		return 0, ErrSinkNotConfigured
	}
	recs, _ := e.st.Snapshot()
	rows := analytics.Ordered(analytics.Aggregate(analytics.Filter(recs, f), models.DimWeek), models.DimWeek)
	if len(rows) == 0 {
		return 0, nil
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.SinkURL, bytes.NewReader(b))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", Sign(e.cfg.SinkSecret, b))
	resp, err := e.c.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, &StatusError{Code: resp.StatusCode}
	}
	e.log.Info("export complete", slog.Int("rows", len(rows)))
	return len(rows), nil
}

func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
