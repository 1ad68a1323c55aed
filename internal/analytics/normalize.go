package analytics

import (
	"math"
	"strconv"
	"strings"

	"github.com/AngelCh415/outreach-analytics/internal/models"
)

var numberCleaner = strings.NewReplacer("%", "", ",", "")

// NormalizeNumber never fails: anything that does not parse as a finite decimal is 0.
func NormalizeNumber(raw string) float64 {
	v, ok := parseNumber(raw)
	if !ok {
		return 0
	}
	return v
}

// NumberOf normalizes a cell; absent cells are 0.
func NumberOf(c models.Cell) float64 {
	if !c.Present {
		return 0
	}
	return NormalizeNumber(c.Raw)
}

func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(numberCleaner.Replace(raw))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Normalizer coerces like NumberOf and keeps a record of non-empty values that
// fell back to 0. The zero value discards warnings.
type Normalizer struct {
	collect  bool
	warnings []models.CoercionWarning
}

func NewNormalizer(collect bool) *Normalizer { return &Normalizer{collect: collect} }

func (n *Normalizer) Number(idx int, field string, c models.Cell) float64 {
	if !c.Present {
		return 0
	}
	v, ok := parseNumber(c.Raw)
	if !ok {
		if n != nil && n.collect && strings.TrimSpace(c.Raw) != "" {
			n.warnings = append(n.warnings, models.CoercionWarning{Index: idx, Field: field, Raw: c.Raw})
		}
		return 0
	}
	return v
}

func (n *Normalizer) Warnings() []models.CoercionWarning {
	if n == nil {
		return nil
	}
	return n.warnings
}

// counters are the summed numeric fields of one record.
type counters struct {
	invited, accepted, messaged, replies, netNew, actions float64
}

func (n *Normalizer) counters(idx int, r models.RawMetricRecord) counters {
	return counters{
		invited:  n.Number(idx, "totalInvited", r.TotalInvited),
		accepted: n.Number(idx, "totalAccepted", r.TotalAccepted),
		messaged: n.Number(idx, "totalMessaged", r.TotalMessaged),
		replies:  n.Number(idx, "replies", r.Replies),
		netNew:   n.Number(idx, "netNewConnects", r.NetNewConnects),
		actions:  n.Number(idx, "totalActions", r.TotalActions),
	}
}
