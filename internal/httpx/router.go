package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AngelCh415/outreach-analytics/internal/analytics"
	"github.com/AngelCh415/outreach-analytics/internal/ingest"
	"github.com/AngelCh415/outreach-analytics/internal/metrics"
	"github.com/AngelCh415/outreach-analytics/internal/models"
	"github.com/AngelCh415/outreach-analytics/internal/store"
	"github.com/AngelCh415/outreach-analytics/internal/utils"
)

func NewRouter(log *slog.Logger, etl *ingest.ETL, mSvc *metrics.Service, st *store.MemoryStore, gatherer prometheus.Gatherer) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if _, v := st.Snapshot(); v == 0 {
			http.Error(w, "no records loaded", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
		w.Write([]byte("ready"))
	})
	if gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	mux.Post("/ingest/run", func(w http.ResponseWriter, r *http.Request) {
		stats, err := etl.Run(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 502)
			return
		}
		writeJSON(w, stats)
	})

	mux.Post("/export/run", func(w http.ResponseWriter, r *http.Request) {
		f, err := metrics.FiltersFromQuery(r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		n, err := etl.ExportWeeks(r.Context(), f)
		if err != nil {
			http.Error(w, err.Error(), 502)
			return
		}
		writeJSON(w, map[string]any{"exported": n})
	})

	mux.Route("/analytics", func(ar chi.Router) {
		ar.Get("/", func(w http.ResponseWriter, r *http.Request) {
			res, err := mSvc.Analytics(r.URL.Query())
			if err != nil {
				http.Error(w, err.Error(), 400)
				return
			}
			if res == nil {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			writeJSON(w, res)
		})
		ar.Get("/dimensions/{dimension}", func(w http.ResponseWriter, r *http.Request) {
			rows, err := mSvc.Dimension(r.URL.Query(), chi.URLParam(r, "dimension"))
			if err != nil {
				http.Error(w, err.Error(), 400)
				return
			}
			writeJSON(w, rows)
		})
		ar.Get("/insights", func(w http.ResponseWriter, r *http.Request) {
			rows, err := mSvc.Insights(r.URL.Query())
			if err != nil {
				http.Error(w, err.Error(), 400)
				return
			}
			writeJSON(w, rows)
		})
		ar.Get("/scores", func(w http.ResponseWriter, r *http.Request) {
			rows, err := mSvc.Scores(r.URL.Query())
			if err != nil {
				http.Error(w, err.Error(), 400)
				return
			}
			writeJSON(w, rows)
		})
		ar.Get("/forecast", func(w http.ResponseWriter, r *http.Request) {
			fc, err := mSvc.Forecast(r.URL.Query())
			if err != nil {
				http.Error(w, err.Error(), 400)
				return
			}
			writeJSON(w, fc)
		})
		ar.Get("/export.csv", func(w http.ResponseWriter, r *http.Request) {
			dim := r.URL.Query().Get("dimension")
			if dim == "" {
				dim = string(models.DimWeek)
			}
			if !models.Dimension(strings.ToLower(strings.TrimSpace(dim))).Valid() {
				http.Error(w, metrics.ErrUnknownDimension.Error(), 400)
				return
			}
			if _, err := metrics.FiltersFromQuery(r.URL.Query()); err != nil {
				http.Error(w, err.Error(), 400)
				return
			}
			w.Header().Set("Content-Type", "text/csv")
			w.Header().Set("Content-Disposition", `attachment; filename="`+dim+`.csv"`)
			if err := mSvc.WriteCSV(w, r.URL.Query(), dim); err != nil {
				log.Error("csv export", slog.String("err", err.Error()), slog.String("rid", utils.RID(r.Context())))
			}
		})
	})

	mux.Route("/goals", func(gr chi.Router) {
		gr.Get("/", func(w http.ResponseWriter, r *http.Request) { writeJSON(w, st.Goals()) })
		gr.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var g models.Goal
			if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
				http.Error(w, "bad goal json", 400)
				return
			}
			if !analytics.KnownMetric(g.Metric) {
				http.Error(w, "unknown metric", 400)
				return
			}
			if g.Target <= 0 {
				http.Error(w, "target must be positive", 400)
				return
			}
			g.ID = ""
			writeJSONStatus(w, http.StatusCreated, st.AddGoal(g))
		})
		gr.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			if !st.DeleteGoal(chi.URLParam(r, "id")) {
				http.Error(w, "goal not found", 404)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
		gr.Get("/progress", func(w http.ResponseWriter, r *http.Request) {
			rows, err := mSvc.GoalProgress(r.URL.Query())
			if err != nil {
				status := 500
				if errors.Is(err, metrics.ErrBadDate) {
					status = 400
				}
				http.Error(w, err.Error(), status)
				return
			}
			writeJSON(w, rows)
		})
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) { writeJSONStatus(w, http.StatusOK, v) }

func writeJSONStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
