package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/Dan9191/finhealth/internal/config"
	"github.com/Dan9191/finhealth/internal/engine/anomaly"
	"github.com/Dan9191/finhealth/internal/engine/budget"
	"github.com/Dan9191/finhealth/internal/engine/health"
	"github.com/Dan9191/finhealth/internal/models"
	"github.com/sirupsen/logrus"
	"go.uber.org/mock/gomock"
)

var (
	testNow   = time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)
	testMonth = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
)

func date(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func newTestService(t *testing.T, store SnapshotStore, rates KeyRateProvider) *Service {
	t.Helper()
	cache, err := NewCache()
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	t.Cleanup(cache.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)

	svc := NewService(store, rates, cache, &config.Config{KeyRateTTL: time.Hour}, log)
	svc.now = func() time.Time { return testNow }
	return svc
}

func testSnapshot(userID int64) *models.Snapshot {
	onTime := true
	s := &models.Snapshot{
		UserID:       userID,
		Month:        testMonth,
		LiquidAssets: 150000,
		Incomes:      []models.IncomeEntry{{Amount: 80000, Date: date(5, 1)}},
		FixedExpenses: []models.FixedExpense{
			{Amount: 20000, Category: "Rent"},
		},
		Loans: []models.Loan{
			{ID: 7, Type: models.LoanTypeSecured, Principal: 240000, EMI: ptr(11000.0), TermMonths: 24, PaidMonths: 4, StartDate: date(1, 1)},
		},
		Cards: []models.CreditCard{{
			ID:          3,
			CreditLimit: 50000,
			BillingDay:  10,
			OpenedAt:    time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
			Transactions: []models.CreditTransaction{
				{Type: models.CreditSpend, Amount: 5000, Date: date(5, 12)},
				{Type: models.CreditPayment, Amount: 3000, Date: date(5, 2), OnTime: &onTime},
			},
		}},
		Budgets: []models.Budget{
			{Category: "Dining", MonthlyLimit: 3000},
			{Category: "Clothing", MonthlyLimit: 10000},
			{Category: "Groceries", MonthlyLimit: 8000},
		},
		Goals: []models.SavingsGoal{{Name: "Car", TargetAmount: 300000, CurrentAmount: 60000, Monthly: 20000}},
	}
	for m := time.January; m <= time.April; m++ {
		s.Expenses = append(s.Expenses,
			models.ExpenseEntry{Amount: 2000, Date: date(m, 5), Category: "Dining"},
			models.ExpenseEntry{Amount: 6000, Date: date(m, 8), Category: "Groceries"},
		)
	}
	s.Expenses = append(s.Expenses,
		models.ExpenseEntry{Amount: 6000, Date: date(5, 3), Category: "Dining"},
		models.ExpenseEntry{Amount: 1000, Date: date(5, 6), Category: "Clothing"},
		models.ExpenseEntry{Amount: 2000, Date: date(5, 9), Category: "Groceries"},
	)
	return s
}

func TestReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockSnapshotStore(ctrl)
	svc := newTestService(t, store, NewMockKeyRateProvider(ctrl))

	store.EXPECT().LoadSnapshot(gomock.Any(), int64(1), testMonth).Return(testSnapshot(1), nil)

	r, err := svc.Report(context.Background(), 1, testMonth)
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if r.Month != "2025-05" {
		t.Errorf("Month = %s", r.Month)
	}
	if r.Totals.Income != 80000 || r.Totals.Variable != 9000 || r.Totals.EMI != 11000 {
		t.Errorf("Totals = %+v", r.Totals)
	}
	if len(r.Anomalies) != 1 || r.Anomalies[0].Category != "Dining" || r.Anomalies[0].Method != anomaly.MethodAverage {
		t.Errorf("Anomalies = %+v, want Dining via the average fallback", r.Anomalies)
	}

	var overspend bool
	for _, sg := range r.Health.Suggestions {
		if sg.Type == health.SuggestionOverspend && len(sg.Categories) == 1 && sg.Categories[0] == "Dining" {
			overspend = true
		}
	}
	if !overspend {
		t.Errorf("expected an overspend suggestion for Dining, got %+v", r.Health.Suggestions)
	}

	// on day 20 Groceries projects to 3100 of 8000 and stays protected; Clothing
	// donates and Dining receives
	if len(r.Rebalance.Protected) != 1 || r.Rebalance.Protected[0] != "Groceries" {
		t.Errorf("Protected = %v, want [Groceries]", r.Rebalance.Protected)
	}
	if len(r.Rebalance.Actions) != 2 {
		t.Fatalf("Rebalance actions = %+v, want 2", r.Rebalance.Actions)
	}
	if r.Rebalance.Actions[0].Category != "Clothing" || r.Rebalance.Actions[1].Category != "Dining" {
		t.Errorf("Rebalance actions = %+v", r.Rebalance.Actions)
	}

	if len(r.Utilization) != 1 || r.Utilization[0].CardID != 3 {
		t.Errorf("Utilization = %+v", r.Utilization)
	}
	if len(r.Goals) != 1 || r.Goals[0].MonthsRemaining != 12 {
		t.Errorf("Goals = %+v", r.Goals)
	}
	if r.SpendingForecast.DataPoints != 4 || r.SpendingForecast.InsufficientData {
		t.Errorf("SpendingForecast = %+v", r.SpendingForecast)
	}
	if len(r.Alerts) == 0 {
		t.Error("expected alerts for the over-budget category and the anomaly")
	}
	if r.Credit.Score < 300 || r.Credit.Score > 900 {
		t.Errorf("Credit.Score = %d out of range", r.Credit.Score)
	}
}

func TestBuildMatchesBudgetsAndProjectsSpend(t *testing.T) {
	snap := models.Snapshot{
		UserID: 2,
		Month:  testMonth,
		Budgets: []models.Budget{
			{Category: " food", MonthlyLimit: 1000},
			{Category: "Dining", MonthlyLimit: 1000},
		},
		Expenses: []models.ExpenseEntry{
			{Amount: 400, Date: date(5, 2), Category: "Food"},
			{Amount: 100, Date: date(5, 2), Category: "Dining"},
		},
	}
	r := Build(snap, date(5, 5), budget.DefaultProtectedRegistry())

	if r.Budgets[0].Spent != 400 {
		t.Errorf("budget %q spent = %v, want 400 from Food", r.Budgets[0].Category, r.Budgets[0].Spent)
	}
	if r.Budgets[1].Spent != 100 {
		t.Errorf("Dining spent = %v, want month-to-date 100", r.Budgets[1].Spent)
	}

	// 100 by day 5 of 31 projects to 620, so Dining is not offered up for cuts
	if len(r.Rebalance.Underused) != 0 {
		t.Errorf("Underused = %v, want none on projected spend", r.Rebalance.Underused)
	}
	if len(r.Rebalance.Overused) != 1 || r.Rebalance.Overused[0] != " food" {
		t.Errorf("Overused = %v, want the food budget", r.Rebalance.Overused)
	}
}

func TestReportNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockSnapshotStore(ctrl)
	svc := newTestService(t, store, NewMockKeyRateProvider(ctrl))

	notFound := errors.New("not found")
	store.EXPECT().LoadSnapshot(gomock.Any(), int64(9), testMonth).Return(nil, notFound)

	if _, err := svc.Report(context.Background(), 9, testMonth); !errors.Is(err, notFound) {
		t.Errorf("Report() error = %v, want wrapped not found", err)
	}
}

func TestKeyRateCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	rates := NewMockKeyRateProvider(ctrl)
	svc := newTestService(t, NewMockSnapshotStore(ctrl), rates)

	rates.EXPECT().GetKeyRate(gomock.Any()).Return(26.0, nil).Times(1)

	for i := 0; i < 3; i++ {
		rate, err := svc.KeyRate(context.Background())
		if err != nil {
			t.Fatalf("KeyRate() error = %v", err)
		}
		if rate != 26 {
			t.Errorf("KeyRate() = %v, want 26", rate)
		}
	}
}

func TestLoanSchedules(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockSnapshotStore(ctrl)
	rates := NewMockKeyRateProvider(ctrl)
	svc := newTestService(t, store, rates)

	store.EXPECT().LoadSnapshot(gomock.Any(), int64(1), gomock.Any()).Return(&models.Snapshot{
		Loans: []models.Loan{
			{ID: 1, Principal: 100000, InterestRate: ptr(12.0), TermMonths: 12, StartDate: date(1, 1)},
			{ID: 2, Principal: 120000, EMI: ptr(11000.0), TermMonths: 12, StartDate: date(1, 1), PaidMonths: 12},
			{ID: 3, Principal: 60000, TermMonths: 12, StartDate: date(1, 1)},
		},
	}, nil)
	rates.EXPECT().GetKeyRate(gomock.Any()).Return(26.0, nil)

	got, err := svc.LoanSchedules(context.Background(), 1)
	if err != nil {
		t.Fatalf("LoanSchedules() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d schedules, want 3", len(got))
	}
	if got[0].RateSource != RateRecorded || got[0].Schedule.EMI != 8884.88 {
		t.Errorf("recorded loan = %s EMI %v", got[0].RateSource, got[0].Schedule.EMI)
	}
	if got[1].RateSource != RateInferred || got[1].Schedule.TotalInterest != 12000 || got[1].Outstanding != 0 {
		t.Errorf("inferred loan = %+v", got[1])
	}
	if got[2].RateSource != RateKeyRate || got[2].Schedule.AnnualRate != 26 {
		t.Errorf("key rate loan = %s at %v", got[2].RateSource, got[2].Schedule.AnnualRate)
	}
}

func TestScheduleWithoutKeyRate(t *testing.T) {
	ctrl := gomock.NewController(t)
	rates := NewMockKeyRateProvider(ctrl)
	svc := newTestService(t, NewMockSnapshotStore(ctrl), rates)

	rates.EXPECT().GetKeyRate(gomock.Any()).Return(0.0, errors.New("timeout"))

	sch, source := svc.Schedule(context.Background(), 12000, 0, 12, date(1, 1), 0)
	if source != RateNone {
		t.Errorf("source = %s, want NONE", source)
	}
	if sch.EMI != 1000 || sch.TotalInterest != 0 {
		t.Errorf("straight-line schedule = EMI %v interest %v", sch.EMI, sch.TotalInterest)
	}
}

func TestRefreshAnomalyFlags(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockSnapshotStore(ctrl)
	svc := newTestService(t, store, NewMockKeyRateProvider(ctrl))

	loadErr := errors.New("connection reset")
	store.EXPECT().UserIDs(gomock.Any()).Return([]int64{1, 2}, nil)
	store.EXPECT().LoadSnapshot(gomock.Any(), int64(1), testMonth).Return(testSnapshot(1), nil)
	store.EXPECT().MarkAnomalies(gomock.Any(), int64(1), testMonth, []string{"Dining"}).Return(int64(1), nil)
	store.EXPECT().LoadSnapshot(gomock.Any(), int64(2), testMonth).Return(nil, loadErr)

	processed, err := svc.RefreshAnomalyFlags(context.Background(), testMonth)
	if processed != 1 {
		t.Errorf("processed = %d, want 1", processed)
	}
	if !errors.Is(err, loadErr) {
		t.Errorf("error = %v, want the user 2 failure", err)
	}
}

func TestProtectedRegistry(t *testing.T) {
	r := ProtectedRegistry(&config.Config{ExtraProtected: []string{"pets"}})
	if !r.IsProtected("Rent") || !r.IsProtected("Pets") {
		t.Error("defaults plus env list expected")
	}
	r = ProtectedRegistry(&config.Config{ProtectedCategories: []string{"school"}})
	if r.IsProtected("Rent") || !r.IsProtected("School fees") {
		t.Error("file list should replace the defaults")
	}
}

func TestReferenceTime(t *testing.T) {
	svc := &Service{now: func() time.Time { return testNow }}
	if got := svc.referenceTime(testMonth); !got.Equal(testNow) {
		t.Errorf("current month = %v, want now", got)
	}
	if got := svc.referenceTime(date(3, 1)); got.Month() != time.March || got.Day() != 31 {
		t.Errorf("past month = %v, want the last day of March", got)
	}
	if got := svc.referenceTime(date(8, 1)); !got.Equal(date(8, 1)) {
		t.Errorf("future month = %v, want its first day", got)
	}
}
