package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/GizzLda/Excel/internal/format"
	"github.com/GizzLda/Excel/internal/margin"
	"github.com/GizzLda/Excel/internal/scenario"
	"github.com/GizzLda/Excel/internal/summary"
)

type server struct {
	logger    *slog.Logger
	scenarios *scenario.Store
}

func newServer(logger *slog.Logger, scenarios *scenario.Store) *server {
	return &server{logger: logger, scenarios: scenarios}
}

// display carries the formatted strings the UI shows next to a result.
type display struct {
	MarginVAT      string `json:"margin_vat"`
	CreditCost     string `json:"credit_cost"`
	NetSaleRevenue string `json:"net_sale_revenue"`
	Margin         string `json:"margin"`
	MarginPercent  string `json:"margin_percent"`
}

type marginResponse struct {
	Result  margin.Result `json:"result"`
	Display display       `json:"display"`
}

type solveResponse struct {
	Outcome margin.Outcome `json:"outcome"`
	Result  *margin.Result `json:"result,omitempty"`
	Display *display       `json:"display,omitempty"`
}

type scenarioResponse struct {
	Preset scenario.Preset `json:"preset"`
	marginResponse
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/margin", s.handleMargin)
		r.Post("/solve", s.handleSolve)
		r.Post("/summary", s.handleSummary)
		r.Get("/scenarios", s.handleScenarioList)
		r.Get("/scenarios/{slug}", s.handleScenarioDetail)
	})
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *server) handleMargin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	f, err := parseMarginForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := margin.Evaluate(f.SalePrice, f.PurchasePrice, f.SaleType, f.IncludeCreditCost)
	writeJSON(w, http.StatusOK, newMarginResponse(result))
}

func (s *server) handleSolve(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	params, err := parseSolveForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome, result := solve(params)
	s.logger.Debug("solver finished",
		"status", outcome.Status,
		"iterations", outcome.Iterations,
		"sale_price", params.SalePrice,
		"target_kind", params.TargetKind,
		"target_value", params.TargetValue,
	)

	resp := solveResponse{Outcome: outcome}
	if result != nil {
		mr := newMarginResponse(*result)
		resp.Result = &mr.Result
		resp.Display = &mr.Display
	}
	writeJSON(w, solveStatusCode(outcome), resp)
}

func (s *server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	var text string
	switch mode := strings.ToLower(strings.TrimSpace(r.FormValue("mode"))); mode {
	case "", "margin":
		f, err := parseMarginForm(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		result := margin.Evaluate(f.SalePrice, f.PurchasePrice, f.SaleType, f.IncludeCreditCost)
		text = summary.Margin(f.SalePrice, f.PurchasePrice, f.SaleType, result)
	case "solver":
		params, err := parseSolveForm(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		outcome, result := solve(params)
		text = summary.Solver(params, outcome, result)
	default:
		writeError(w, http.StatusBadRequest, "mode must be margin or solver")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text + "\n"))
}

func (s *server) handleScenarioList(w http.ResponseWriter, r *http.Request) {
	presets, err := s.scenarios.List(r.Context())
	if err != nil {
		s.logger.Error("failed to load scenario presets", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load scenarios")
		return
	}

	writeJSON(w, http.StatusOK, presets)
}

func (s *server) handleScenarioDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	preset, err := s.scenarios.Get(r.Context(), slug)
	if errors.Is(err, scenario.ErrNotFound) {
		writeError(w, http.StatusNotFound, "scenario not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to load scenario preset", "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load scenario")
		return
	}

	writeJSON(w, http.StatusOK, scenarioResponse{
		Preset:         preset,
		marginResponse: newMarginResponse(preset.Evaluate()),
	})
}

// solve runs the solver and, on success, evaluates the margin at the price found.
func solve(params margin.SolveParams) (margin.Outcome, *margin.Result) {
	outcome := margin.Solve(params)
	if !outcome.Success || outcome.MaxPurchasePrice == nil {
		return outcome, nil
	}
	result := margin.Evaluate(params.SalePrice, *outcome.MaxPurchasePrice, params.SaleType, params.IncludeCreditCost)
	return outcome, &result
}

func solveStatusCode(o margin.Outcome) int {
	switch o.Status {
	case margin.StatusConverged, margin.StatusApproximate:
		return http.StatusOK
	case margin.StatusInvalidParameters:
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

func newMarginResponse(r margin.Result) marginResponse {
	rounded := r.Rounded()
	return marginResponse{
		Result: rounded,
		Display: display{
			MarginVAT:      format.Amount(rounded.MarginVAT),
			CreditCost:     format.Amount(rounded.CreditCost),
			NetSaleRevenue: format.Amount(rounded.NetSaleRevenue),
			Margin:         format.Amount(rounded.Margin),
			MarginPercent:  format.Percent(rounded.MarginPercent),
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			s.logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
