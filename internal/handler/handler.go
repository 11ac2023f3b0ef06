package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Dan9191/finhealth/internal/engine/amortization"
	"github.com/Dan9191/finhealth/internal/engine/anomaly"
	"github.com/Dan9191/finhealth/internal/engine/budget"
	"github.com/Dan9191/finhealth/internal/engine/credit"
	"github.com/Dan9191/finhealth/internal/engine/forecast"
	"github.com/Dan9191/finhealth/internal/engine/health"
	"github.com/Dan9191/finhealth/internal/engine/planning"
	"github.com/Dan9191/finhealth/internal/repository"
	"github.com/Dan9191/finhealth/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Analyzer is the part of the service the handlers depend on
type Analyzer interface {
	Report(ctx context.Context, userID int64, month time.Time) (*service.Report, error)
	LoanSchedules(ctx context.Context, userID int64) ([]service.LoanSchedule, error)
	Schedule(ctx context.Context, principal, annualRate float64, months int, start time.Time, emi float64) (amortization.Schedule, service.RateSource)
	KeyRate(ctx context.Context) (float64, error)
	RefreshAnomalyFlags(ctx context.Context, month time.Time) (int, error)
	Protected() budget.ProtectedRegistry
}

type Handler struct {
	svc Analyzer
	log *logrus.Logger
	now func() time.Time
}

func NewHandler(svc Analyzer, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log, now: time.Now}
}

// Register mounts every route on r
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/health", h.Ping).Methods(http.MethodGet)
	r.HandleFunc("/key-rate", h.KeyRate).Methods(http.MethodGet)

	r.HandleFunc("/users/{id:[0-9]+}/report", h.Report).Methods(http.MethodGet)
	r.HandleFunc("/users/{id:[0-9]+}/loans", h.LoanSchedules).Methods(http.MethodGet)
	r.HandleFunc("/anomalies/refresh", h.RefreshAnomalies).Methods(http.MethodPost)

	r.HandleFunc("/loans/schedule", h.Schedule).Methods(http.MethodPost)
	r.HandleFunc("/loans/interest-rate", h.InterestRate).Methods(http.MethodPost)
	r.HandleFunc("/forecast", h.Forecast).Methods(http.MethodPost)
	r.HandleFunc("/credit/score", h.CreditScore).Methods(http.MethodPost)
	r.HandleFunc("/credit/utilization", h.Utilization).Methods(http.MethodPost)
	r.HandleFunc("/credit/dti", h.DTI).Methods(http.MethodPost)
	r.HandleFunc("/anomalies/detect", h.DetectAnomalies).Methods(http.MethodPost)
	r.HandleFunc("/health/score", h.HealthScore).Methods(http.MethodPost)
	r.HandleFunc("/health/dimensions", h.HealthDimensions).Methods(http.MethodPost)
	r.HandleFunc("/budgets/suggestions", h.BudgetSuggestions).Methods(http.MethodPost)
	r.HandleFunc("/budgets/rebalance", h.Rebalance).Methods(http.MethodPost)
	r.HandleFunc("/planning/cash-flow", h.CashFlow).Methods(http.MethodPost)
	r.HandleFunc("/planning/goal", h.Goal).Methods(http.MethodPost)
	r.HandleFunc("/planning/freedom", h.Freedom).Methods(http.MethodPost)
	r.HandleFunc("/planning/stress-test", h.StressTest).Methods(http.MethodPost)
	r.HandleFunc("/planning/what-if", h.WhatIf).Methods(http.MethodPost)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.WithError(err).Error("Failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		h.log.WithError(err).Error("Request failed")
	}
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

var errBadRequest = errors.New("bad request")

type requestError struct {
	msg string
}

func (e requestError) Error() string { return e.msg }
func (e requestError) Unwrap() error { return errBadRequest }

func badRequest(msg string) error {
	return requestError{msg: msg}
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("invalid request body: " + err.Error())
	}
	return nil
}

func userID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, badRequest("invalid user id")
	}
	return id, nil
}

func checkTerm(months int) error {
	if months < 1 || months > amortization.MaxTermMonths {
		return badRequest("months must be between 1 and " + strconv.Itoa(amortization.MaxTermMonths))
	}
	return nil
}

// month parses ?month=YYYY-MM, defaulting to the current month
func (h *Handler) month(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		now := h.now()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	}
	m, err := time.Parse("2006-01", raw)
	if err != nil {
		return time.Time{}, badRequest("month must be YYYY-MM")
	}
	return m, nil
}

// Ping reports liveness
func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// KeyRate returns the reference lending rate
func (h *Handler) KeyRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.svc.KeyRate(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]float64{"key_rate": rate})
}

// Report returns the full monthly analysis for a user
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	month, err := h.month(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	report, err := h.svc.Report(r.Context(), id, month)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

// LoanSchedules returns amortization schedules for a user's loans
func (h *Handler) LoanSchedules(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	schedules, err := h.svc.LoanSchedules(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, schedules)
}

// RefreshAnomalies recomputes anomaly flags for every user
func (h *Handler) RefreshAnomalies(w http.ResponseWriter, r *http.Request) {
	month, err := h.month(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	processed, err := h.svc.RefreshAnomalyFlags(r.Context(), month)
	resp := map[string]any{"processed": processed}
	if err != nil {
		h.log.WithError(err).Warn("Anomaly refresh finished with errors")
		resp["error"] = err.Error()
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// Schedule amortizes an ad-hoc loan
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if err := checkTerm(req.Months); err != nil {
		h.writeError(w, err)
		return
	}
	start := req.StartDate
	if start.IsZero() {
		start = h.now()
	}
	sch, source := h.svc.Schedule(r.Context(), req.Principal.Float(), req.AnnualRate.Float(), req.Months, start, req.EMI.Float())
	h.writeJSON(w, http.StatusOK, map[string]any{"rate_source": source, "amortization": sch})
}

// InterestRate infers the annual rate from an installment
func (h *Handler) InterestRate(w http.ResponseWriter, r *http.Request) {
	var req interestRateRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if err := checkTerm(req.Months); err != nil {
		h.writeError(w, err)
		return
	}
	rate := amortization.CalculateInterestRate(req.Principal.Float(), req.EMI.Float(), req.Months)
	h.writeJSON(w, http.StatusOK, map[string]float64{"annual_rate": rate})
}

// Forecast predicts the next value of a series with a confidence band
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	var req forecastRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	values := floats(req.Values)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"point":    forecast.PredictNext(values),
		"interval": forecast.PredictWithConfidence(values, req.ConfidenceLevel),
	})
}

// CreditScore estimates the credit score proxy
func (h *Handler) CreditScore(w http.ResponseWriter, r *http.Request) {
	var req creditScoreRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, credit.CalculateScore(req.input()))
}

// Utilization forecasts end-of-cycle card utilization
func (h *Handler) Utilization(w http.ResponseWriter, r *http.Request) {
	var req utilizationRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, credit.ForecastUtilization(req.CreditLimit.Float(), req.Balance.Float(), req.DaysElapsed, req.CycleDays))
}

// DTI classifies debt-to-income
func (h *Handler) DTI(w http.ResponseWriter, r *http.Request) {
	var req dtiRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, credit.DebtToIncome(req.MonthlyDebt.Float(), req.MonthlyIncome.Float()))
}

// DetectAnomalies flags categories out of line with their history
func (h *Handler) DetectAnomalies(w http.ResponseWriter, r *http.Request) {
	var req anomalyRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	found := anomaly.Detect(seriesMap(req.History), floatMap(req.Current))
	if found == nil {
		found = []anomaly.Anomaly{}
	}
	h.writeJSON(w, http.StatusOK, found)
}

// HealthScore returns the composite health score
func (h *Handler) HealthScore(w http.ResponseWriter, r *http.Request) {
	var req healthRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, health.Calculate(req.input()))
}

// HealthDimensions returns the five-axis health score
func (h *Handler) HealthDimensions(w http.ResponseWriter, r *http.Request) {
	var req dimensionsRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, health.CalculateDimensions(req.input()))
}

// BudgetSuggestions suggests limits from monthly history
func (h *Handler) BudgetSuggestions(w http.ResponseWriter, r *http.Request) {
	var req budgetSuggestionRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, budget.SuggestAll(seriesMap(req.History), floatMap(req.Limits)))
}

// Rebalance proposes moving allowance between budgets
func (h *Handler) Rebalance(w http.ResponseWriter, r *http.Request) {
	var req rebalanceRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	registry := h.svc.Protected().With(req.Protected...)
	h.writeJSON(w, http.StatusOK, budget.Rebalance(usages(req.Budgets), registry))
}

// CashFlow simulates month-by-month balances
func (h *Handler) CashFlow(w http.ResponseWriter, r *http.Request) {
	var req cashFlowRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.Months < 1 || req.Months > planning.MaxSimulationMonths {
		h.writeError(w, badRequest("months must be between 1 and "+strconv.Itoa(planning.MaxSimulationMonths)))
		return
	}
	h.writeJSON(w, http.StatusOK, planning.SimulateCashFlow(req.input()))
}

// Goal projects a savings goal timeline
func (h *Handler) Goal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, planning.Timeline(req.goal(), h.now()))
}

// Freedom estimates the financial freedom date
func (h *Handler) Freedom(w http.ResponseWriter, r *http.Request) {
	var req freedomRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, planning.CalculateFreedomDate(req.input(h.now())))
}

// StressTest measures emergency fund survival after an income shock
func (h *Handler) StressTest(w http.ResponseWriter, r *http.Request) {
	var req stressRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, planning.StressTest(req.input()))
}

// WhatIf estimates the effect of a budget change
func (h *Handler) WhatIf(w http.ResponseWriter, r *http.Request) {
	var req whatIfRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, planning.WhatIf(req.input()))
}
