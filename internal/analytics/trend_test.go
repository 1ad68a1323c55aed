package analytics

import (
	"math"
	"testing"

	"github.com/AngelCh415/outreach-analytics/internal/models"
)

func floatEquals(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestLinearRegressionSign(t *testing.T) {
	if m := LinearRegression([]float64{10, 20, 30, 40}); m.Slope <= 0 || m.Direction != models.DirectionUp {
		t.Fatalf("expected rising slope, got %+v", m)
	}
	if m := LinearRegression([]float64{40, 30, 20, 10}); m.Slope >= 0 || m.Direction != models.DirectionDown {
		t.Fatalf("expected falling slope, got %+v", m)
	}
	m := LinearRegression([]float64{5, 5, 5, 5})
	if m.Slope != 0 || m.R2 != 0 || m.Intercept != 5 || m.Direction != models.DirectionStable {
		t.Fatalf("expected flat model, got %+v", m)
	}
}

func TestLinearRegressionDegenerate(t *testing.T) {
	if m := LinearRegression(nil); m.Slope != 0 || m.Intercept != 0 || m.R2 != 0 {
		t.Fatalf("empty series: %+v", m)
	}
	if m := LinearRegression([]float64{7}); m.Slope != 0 || m.Intercept != 7 || m.R2 != 0 {
		t.Fatalf("single point: %+v", m)
	}
}

func TestLinearRegressionExactFit(t *testing.T) {
	m := LinearRegression([]float64{20, 30, 40})
	if !floatEquals(m.Slope, 10) || !floatEquals(m.Intercept, 20) || !floatEquals(m.R2, 1) {
		t.Fatalf("unexpected fit %+v", m)
	}
}

func TestDirectionStableBand(t *testing.T) {
	if d := Direction(models.TrendModel{Slope: 0.49, R2: 1}); d != models.DirectionStable {
		t.Fatalf("got %s, want stable", d)
	}
	if d := Direction(models.TrendModel{Slope: -0.5, R2: 0}); d != models.DirectionDown {
		t.Fatalf("got %s, want down", d)
	}
}

func TestPredictFutureFloor(t *testing.T) {
	got := PredictFuture([]float64{10, 5, 0}, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 points, got %d", len(got))
	}
	for i, v := range got {
		if v < 0 {
			t.Fatalf("point %d negative: %v", i, v)
		}
	}
	if got := PredictFuture([]float64{1, 2}, 0); len(got) != 0 {
		t.Fatalf("expected no points, got %v", got)
	}
}

func TestConfidenceIntervalOrdering(t *testing.T) {
	series := [][]float64{{1}, {3, 3, 3}, {10, 0, 25, 7}, {-5, 5}}
	for _, s := range series {
		ci := ConfidenceIntervalOf(s, 0.95)
		if !(ci.Lower <= ci.Mean && ci.Mean <= ci.Upper) {
			t.Fatalf("bad ordering for %v: %+v", s, ci)
		}
	}
}

func TestConfidenceIntervalZ(t *testing.T) {
	// media 15, desviación poblacional 5, n 2
	s := []float64{10, 20}
	margin := 5 / math.Sqrt(2)
	cases := map[float64]float64{0.95: 1.96, 0.99: 2.576, 0.9: 1.645}
	for conf, z := range cases {
		ci := ConfidenceIntervalOf(s, conf)
		if !floatEquals(ci.Mean, 15) || !floatEquals(ci.Upper-ci.Mean, z*margin) {
			t.Fatalf("confidence %v: %+v", conf, ci)
		}
	}
	if ci := ConfidenceIntervalOf(nil, 0.95); ci != (models.ConfidenceInterval{}) {
		t.Fatalf("empty series: %+v", ci)
	}
}

func TestForecastLabelsAndBounds(t *testing.T) {
	pts := Forecast([]float64{20, 30, 40}, 2, 0.95, "2024-01-21")
	if len(pts) != 2 {
		t.Fatalf("expected 2 points, got %d", len(pts))
	}
	if pts[0].Period != "2024-01-28" || pts[1].Period != "2024-02-04" {
		t.Fatalf("unexpected periods %s, %s", pts[0].Period, pts[1].Period)
	}
	if !floatEquals(pts[0].PredictedValue, 50) {
		t.Fatalf("predicted %v, want 50", pts[0].PredictedValue)
	}
	for _, p := range pts {
		if p.LowerBound > p.PredictedValue || p.UpperBound < p.PredictedValue || p.LowerBound < 0 {
			t.Fatalf("bad bounds %+v", p)
		}
	}
	if pts := Forecast([]float64{1, 2}, 1, 0.95, "2024-W03"); pts[0].Period != "+1" {
		t.Fatalf("expected relative label, got %s", pts[0].Period)
	}
}
