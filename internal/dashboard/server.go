// Package dashboard serves an interactive HTML view of the happiness
// analysis: overview tables, the composite index with adjustable weights,
// insights, and charts rendered on the fly.
//
// Every request runs the pipeline on an independent copy of the loaded
// table, so concurrent requests with different weight configurations never
// share intermediate state.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/hbarrett/happidex/internal/analyze"
	"github.com/hbarrett/happidex/internal/chart"
	"github.com/hbarrett/happidex/internal/index"
	"github.com/hbarrett/happidex/internal/insight"
)

// Server hosts the dashboard over plain HTTP.
type Server struct {
	addr   string
	log    *slog.Logger
	df     dataframe.DataFrame
	cfg    index.Config
	th     insight.Thresholds
	topN   int
	mux    *http.ServeMux
	source string
}

// Config carries the server's inputs.
type Config struct {
	Addr       string
	Logger     *slog.Logger
	Data       dataframe.DataFrame
	Index      index.Config
	Thresholds insight.Thresholds
	TopN       int
	Source     string
}

// New builds a Server and registers its routes.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.TopN <= 0 {
		cfg.TopN = 10
	}
	s := &Server{
		addr:   cfg.Addr,
		log:    cfg.Logger,
		df:     cfg.Data,
		cfg:    cfg.Index,
		th:     cfg.Thresholds,
		topN:   cfg.TopN,
		mux:    http.NewServeMux(),
		source: cfg.Source,
	}
	s.mux.HandleFunc("/", s.handleOverview)
	s.mux.HandleFunc("/composite", s.handleComposite)
	s.mux.HandleFunc("/insights", s.handleInsights)
	s.mux.HandleFunc("/charts/", s.handleChart)
	return s
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.logged(s.mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
		close(done)
	}()
	s.log.Info("dashboard listening", "addr", s.addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		<-done
		return nil
	}
	return err
}

func (s *Server) logged(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start))
	})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	df := s.df.Copy()
	top, err := analyze.TopCountries(df, s.topN)
	if err != nil {
		s.fail(w, err)
		return
	}
	bottom, _ := analyze.BottomCountries(df, s.topN)
	regional, _ := analyze.RegionalSummary(df)

	s.render(w, "overview", overviewData{
		Source:   s.source,
		Rows:     df.Nrow(),
		Top:      top,
		Bottom:   bottom,
		Regional: regional,
	})
}

func (s *Server) handleComposite(w http.ResponseWriter, r *http.Request) {
	cfg := s.cfg
	if weights, ok := parseWeightQuery(r, cfg.Indicators); ok {
		cfg = cfg.SetWeights(weights)
	}
	df := index.Run(s.df.Copy(), cfg)
	table, err := index.Compare(df)
	if err != nil {
		s.fail(w, err)
		return
	}
	stats := index.Statistics(df)
	s.render(w, "composite", compositeData{
		Source:     s.source,
		Indicators: cfg.Indicators,
		Weights:    cfg.Weights,
		Table:      &table,
		Stats:      &stats,
	})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	findings := insight.All(s.df.Copy(), s.th, insight.IQR)
	s.render(w, "insights", insightsData{Source: s.source, Findings: findings})
}

// handleChart streams one chart as PNG; the name selects the renderer.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/charts/"), ".png")
	df := s.df.Copy()

	var (
		p   *plot.Plot
		err error
	)
	switch name {
	case "countries":
		p, err = chart.CountryBarPlot(df, s.topN)
	case "regions":
		p, err = chart.RegionBarPlot(df)
	case "gdp":
		p, err = chart.GDPScatterPlot(df)
	case "heatmap":
		p, err = chart.HeatmapPlot(df)
	case "top_bottom":
		p, err = chart.TopBottomPlot(df, s.topN, s.topN)
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.fail(w, err)
		return
	}
	if p == nil {
		http.Error(w, "chart unavailable for this dataset", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := chart.WritePNG(p, 10*vg.Inch, 6*vg.Inch, w); err != nil {
		s.log.Error("render chart", "name", name, "err", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.log.Error("handler error", "err", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// parseWeightQuery reads weight overrides from query parameters of the form
// w.<indicator>=<value>. Indicator keys match either the full column name
// or a case-insensitive substring of it.
func parseWeightQuery(r *http.Request, indicators []string) (map[string]float64, bool) {
	out := make(map[string]float64)
	for key, vals := range r.URL.Query() {
		if !strings.HasPrefix(key, "w.") || len(vals) == 0 {
			continue
		}
		v, err := strconv.ParseFloat(vals[0], 64)
		if err != nil || v < 0 {
			continue
		}
		if col, ok := index.MatchIndicator(key[2:], indicators); ok {
			out[col] = v
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}
