package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dan9191/finhealth/internal/engine/amortization"
	"github.com/Dan9191/finhealth/internal/engine/budget"
	"github.com/Dan9191/finhealth/internal/repository"
	"github.com/Dan9191/finhealth/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type fakeAnalyzer struct {
	report    *service.Report
	reportErr error
	month     time.Time
	keyRate   float64
	rateErr   error
	refreshed int
	protected budget.ProtectedRegistry
}

func (f *fakeAnalyzer) Report(_ context.Context, userID int64, month time.Time) (*service.Report, error) {
	f.month = month
	if f.reportErr != nil {
		return nil, f.reportErr
	}
	return f.report, nil
}

func (f *fakeAnalyzer) LoanSchedules(context.Context, int64) ([]service.LoanSchedule, error) {
	return []service.LoanSchedule{}, nil
}

func (f *fakeAnalyzer) Schedule(_ context.Context, principal, annualRate float64, months int, start time.Time, emi float64) (amortization.Schedule, service.RateSource) {
	return amortization.CalculateAmortizationSchedule(principal, annualRate, months, start, emi), service.RateRecorded
}

func (f *fakeAnalyzer) KeyRate(context.Context) (float64, error) {
	return f.keyRate, f.rateErr
}

func (f *fakeAnalyzer) RefreshAnomalyFlags(context.Context, time.Time) (int, error) {
	return f.refreshed, nil
}

func (f *fakeAnalyzer) Protected() budget.ProtectedRegistry {
	return f.protected
}

func newTestRouter(f *fakeAnalyzer) *mux.Router {
	log := logrus.New()
	log.SetOutput(io.Discard)
	h := NewHandler(f, log)
	h.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	r := mux.NewRouter()
	h.Register(r)
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestReport(t *testing.T) {
	f := &fakeAnalyzer{report: &service.Report{UserID: 7}}
	r := newTestRouter(f)

	rec := do(t, r, http.MethodGet, "/users/7/report?month=2024-03", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !f.month.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected month %v", f.month)
	}

	rec = do(t, r, http.MethodGet, "/users/7/report", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if f.month.Month() != time.June || f.month.Day() != 1 {
		t.Errorf("expected current month, got %v", f.month)
	}
}

func TestReportErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		path   string
		status int
	}{
		{"bad month", nil, "/users/7/report?month=March", http.StatusBadRequest},
		{"not found", fmt.Errorf("load: %w", repository.ErrNotFound), "/users/7/report", http.StatusNotFound},
		{"store failure", errors.New("connection refused"), "/users/7/report", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&fakeAnalyzer{reportErr: tt.err, report: &service.Report{}})
			rec := do(t, r, http.MethodGet, tt.path, "")
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			var body map[string]string
			decodeBody(t, rec, &body)
			if body["error"] == "" {
				t.Error("expected error message")
			}
		})
	}
}

func TestKeyRate(t *testing.T) {
	rec := do(t, newTestRouter(&fakeAnalyzer{keyRate: 21}), http.MethodGet, "/key-rate", "")
	var body map[string]float64
	decodeBody(t, rec, &body)
	if body["key_rate"] != 21 {
		t.Errorf("expected 21, got %v", body["key_rate"])
	}

	rec = do(t, newTestRouter(&fakeAnalyzer{rateErr: errors.New("timeout")}), http.MethodGet, "/key-rate", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestInvalidBody(t *testing.T) {
	rec := do(t, newTestRouter(&fakeAnalyzer{}), http.MethodPost, "/health/score", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestSchedule(t *testing.T) {
	rec := do(t, newTestRouter(&fakeAnalyzer{}), http.MethodPost, "/loans/schedule",
		`{"principal": "100000", "annual_rate": 12, "months": 12, "start_date": "2024-01-01T00:00:00Z"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		RateSource   string                `json:"rate_source"`
		Amortization amortization.Schedule `json:"amortization"`
	}
	decodeBody(t, rec, &body)
	if body.RateSource != string(service.RateRecorded) {
		t.Errorf("unexpected rate source %q", body.RateSource)
	}
	if body.Amortization.EMI != 8884.88 {
		t.Errorf("expected EMI 8884.88, got %v", body.Amortization.EMI)
	}
	if len(body.Amortization.Rows) != 12 {
		t.Errorf("expected 12 rows, got %d", len(body.Amortization.Rows))
	}
}

func TestHealthScoreNormalizesAmounts(t *testing.T) {
	rec := do(t, newTestRouter(&fakeAnalyzer{}), http.MethodPost, "/health/score",
		`{"income": "100000", "fixed_expenses": 30000, "variable_expenses": "abc", "emi": null}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Score   float64 `json:"score"`
		Savings float64 `json:"savings"`
	}
	decodeBody(t, rec, &body)
	if body.Savings != 70000 {
		t.Errorf("expected savings 70000, got %v", body.Savings)
	}
	if body.Score < 0 || body.Score > 100 {
		t.Errorf("score out of range: %v", body.Score)
	}
}

func TestDetectAnomalies(t *testing.T) {
	rec := do(t, newTestRouter(&fakeAnalyzer{}), http.MethodPost, "/anomalies/detect",
		`{"history": {"Food": [5000, 5200, 4800, 5100, 4900]}, "current": {"Food": 15000}}`)
	var body []map[string]any
	decodeBody(t, rec, &body)
	if len(body) != 1 || body[0]["category"] != "Food" {
		t.Fatalf("expected one Food anomaly, got %v", body)
	}

	rec = do(t, newTestRouter(&fakeAnalyzer{}), http.MethodPost, "/anomalies/detect", `{"history": {}, "current": {}}`)
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("expected empty list, got %s", rec.Body.String())
	}
}

func TestRebalanceExtendsProtected(t *testing.T) {
	f := &fakeAnalyzer{protected: budget.NewProtectedRegistry("rent")}
	rec := do(t, newTestRouter(f), http.MethodPost, "/budgets/rebalance", `{
		"budgets": [
			{"category": "Rent", "limit": 20000, "spent": 5000},
			{"category": "Gym", "limit": 3000, "spent": 500},
			{"category": "Dining", "limit": 5000, "spent": 8000}
		],
		"protected": ["gym"]
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Protected []string `json:"protected"`
	}
	decodeBody(t, rec, &body)
	if len(body.Protected) != 2 {
		t.Errorf("expected Rent and Gym protected, got %v", body.Protected)
	}
}

func TestCashFlowMonthsBounds(t *testing.T) {
	r := newTestRouter(&fakeAnalyzer{})
	rec := do(t, r, http.MethodPost, "/planning/cash-flow", `{"income": 1000, "months": 0}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	rec = do(t, r, http.MethodPost, "/planning/cash-flow", `{"income": 1000, "fixed_expenses": 400, "months": 3}`)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRefreshAnomalies(t *testing.T) {
	rec := do(t, newTestRouter(&fakeAnalyzer{refreshed: 4}), http.MethodPost, "/anomalies/refresh?month=2024-05", "")
	var body map[string]any
	decodeBody(t, rec, &body)
	if body["processed"] != float64(4) {
		t.Errorf("expected 4 processed, got %v", body["processed"])
	}
}

func TestLoanTermBounds(t *testing.T) {
	r := newTestRouter(&fakeAnalyzer{})
	tests := []struct {
		path string
		body string
	}{
		{"/loans/schedule", `{"principal": 1000, "annual_rate": 10, "months": 1000000000}`},
		{"/loans/schedule", `{"principal": 1000, "annual_rate": 10, "months": 0}`},
		{"/loans/interest-rate", `{"principal": 1000, "emi": 20, "months": 100000}`},
		{"/loans/interest-rate", `{"principal": 1000, "emi": 20, "months": -3}`},
	}
	for _, tt := range tests {
		rec := do(t, r, http.MethodPost, tt.path, tt.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s %s: expected 400, got %d", tt.path, tt.body, rec.Code)
		}
	}

	rec := do(t, r, http.MethodPost, "/loans/interest-rate", `{"principal": 100000, "emi": 9000, "months": 12}`)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestCashFlowAcceptsStringAmounts(t *testing.T) {
	rec := do(t, newTestRouter(&fakeAnalyzer{}), http.MethodPost, "/planning/cash-flow", `{
		"income": 1000,
		"fixed_expenses": 400,
		"months": 3,
		"planned_expenses": [{"month": 2, "amount": "1,000", "description": "repair"}],
		"income_changes": [{"month": 3, "income": "2,000"}],
		"overrides": [{"month": 1, "income": "900", "expenses": null}]
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		FinalBalance   float64 `json:"final_balance"`
		NegativeMonths int     `json:"negative_months"`
	}
	decodeBody(t, rec, &body)
	// 900 - 0, then 1000 - 1400, then 2000 - 400
	if body.FinalBalance != 2100 || body.NegativeMonths != 1 {
		t.Errorf("final balance %v with %d negative months, want 2100 and 1", body.FinalBalance, body.NegativeMonths)
	}
}

func TestStressTestShock(t *testing.T) {
	r := newTestRouter(&fakeAnalyzer{})
	tests := []struct {
		name  string
		shock string
		want  float64
	}{
		{"absent uses default", ``, 30},
		{"explicit zero", `, "shock_percent": 0`, 0},
		{"string percent", `, "shock_percent": "50"`, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, r, http.MethodPost, "/planning/stress-test",
				`{"income": 50000, "fixed_expenses": 20000, "emergency_fund": 10000`+tt.shock+`}`)
			var body struct {
				ShockPercent float64 `json:"shock_percent"`
			}
			decodeBody(t, rec, &body)
			if body.ShockPercent != tt.want {
				t.Errorf("shock_percent = %v, want %v", body.ShockPercent, tt.want)
			}
		})
	}
}
