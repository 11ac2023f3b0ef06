package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/finhealth/internal/models"
	"github.com/Dan9191/finhealth/internal/utils"
	"github.com/lib/pq"
)

// HistoryMonths is how far back expenses are loaded for forecasting and anomaly detection
const HistoryMonths = 12

// ErrNotFound is returned when the user has no financial profile
var ErrNotFound = errors.New("not found")

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// UserIDs returns every user with a financial profile
func (r *Repository) UserIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id FROM finhealth.profiles ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// LoadSnapshot assembles a user's records for the month containing month, with
// HistoryMonths of expense history before it
func (r *Repository) LoadSnapshot(ctx context.Context, userID int64, month time.Time) (*models.Snapshot, error) {
	start := utils.MonthStart(month)
	end := start.AddDate(0, 1, 0)
	historyStart := start.AddDate(0, -HistoryMonths, 0)

	s := &models.Snapshot{UserID: userID, Month: start}
	err := r.db.QueryRowContext(ctx, `
		SELECT liquid_assets, pending_borrowed, credit_inquiries
		FROM finhealth.profiles
		WHERE user_id = $1`, userID).
		Scan(&s.LiquidAssets, &s.PendingBorrowed, &s.CreditInquiries)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	if s.Incomes, err = r.incomes(ctx, userID, start, end); err != nil {
		return nil, err
	}
	if s.Expenses, err = r.expenses(ctx, userID, historyStart, end); err != nil {
		return nil, err
	}
	if s.FixedExpenses, err = r.fixedExpenses(ctx, userID); err != nil {
		return nil, err
	}
	if s.Loans, err = r.loans(ctx, userID); err != nil {
		return nil, err
	}
	if s.Cards, err = r.cards(ctx, userID, historyStart, end); err != nil {
		return nil, err
	}
	if s.Budgets, err = r.budgets(ctx, userID); err != nil {
		return nil, err
	}
	if s.Goals, err = r.goals(ctx, userID); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *Repository) incomes(ctx context.Context, userID int64, from, to time.Time) ([]models.IncomeEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, amount, date, source
		FROM finhealth.incomes
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY date`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load incomes: %w", err)
	}
	defer rows.Close()

	var out []models.IncomeEntry
	for rows.Next() {
		var e models.IncomeEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Date, &e.Source); err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) expenses(ctx context.Context, userID int64, from, to time.Time) ([]models.ExpenseEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, amount, date, category, payment_method, is_anomaly
		FROM finhealth.expenses
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY date`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	defer rows.Close()

	var out []models.ExpenseEntry
	for rows.Next() {
		var e models.ExpenseEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Date, &e.Category, &e.PaymentMethod, &e.IsAnomaly); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) fixedExpenses(ctx context.Context, userID int64) ([]models.FixedExpense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, amount, day_of_month, category, description
		FROM finhealth.fixed_expenses
		WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixed expenses: %w", err)
	}
	defer rows.Close()

	var out []models.FixedExpense
	for rows.Next() {
		var f models.FixedExpense
		if err := rows.Scan(&f.ID, &f.UserID, &f.Amount, &f.DayOfMonth, &f.Category, &f.Description); err != nil {
			return nil, fmt.Errorf("failed to scan fixed expense: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *Repository) loans(ctx context.Context, userID int64) ([]models.Loan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, lender, type, principal, interest_rate, term_months, emi, start_date, paid_months
		FROM finhealth.loans
		WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load loans: %w", err)
	}
	defer rows.Close()

	var out []models.Loan
	for rows.Next() {
		var (
			l         models.Loan
			rate, emi sql.NullFloat64
		)
		if err := rows.Scan(&l.ID, &l.UserID, &l.Lender, &l.Type, &l.Principal, &rate, &l.TermMonths, &emi, &l.StartDate, &l.PaidMonths); err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		if rate.Valid {
			l.InterestRate = &rate.Float64
		}
		if emi.Valid {
			l.EMI = &emi.Float64
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repository) cards(ctx context.Context, userID int64, from, to time.Time) ([]models.CreditCard, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, credit_limit, billing_day, opened_at
		FROM finhealth.credit_cards
		WHERE user_id = $1
		ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cards: %w", err)
	}
	defer rows.Close()

	var out []models.CreditCard
	index := map[int64]int{}
	for rows.Next() {
		var c models.CreditCard
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.CreditLimit, &c.BillingDay, &c.OpenedAt); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		index[c.ID] = len(out)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	txRows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.card_id, t.type, t.amount, t.date, t.on_time
		FROM finhealth.credit_transactions t
		JOIN finhealth.credit_cards c ON c.id = t.card_id
		WHERE c.user_id = $1 AND t.date >= $2 AND t.date < $3
		ORDER BY t.date`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load card transactions: %w", err)
	}
	defer txRows.Close()

	for txRows.Next() {
		var (
			tx     models.CreditTransaction
			onTime sql.NullBool
		)
		if err := txRows.Scan(&tx.ID, &tx.CardID, &tx.Type, &tx.Amount, &tx.Date, &onTime); err != nil {
			return nil, fmt.Errorf("failed to scan card transaction: %w", err)
		}
		if onTime.Valid {
			tx.OnTime = &onTime.Bool
		}
		if i, ok := index[tx.CardID]; ok {
			out[i].Transactions = append(out[i].Transactions, tx)
		}
	}
	return out, txRows.Err()
}

func (r *Repository) budgets(ctx context.Context, userID int64) ([]models.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, category, monthly_limit, alert_threshold
		FROM finhealth.budgets
		WHERE user_id = $1
		ORDER BY category`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load budgets: %w", err)
	}
	defer rows.Close()

	var out []models.Budget
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.MonthlyLimit, &b.AlertThreshold); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repository) goals(ctx context.Context, userID int64) ([]models.SavingsGoal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, target_amount, current_amount, target_date, monthly_contribution
		FROM finhealth.savings_goals
		WHERE user_id = $1
		ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load savings goals: %w", err)
	}
	defer rows.Close()

	var out []models.SavingsGoal
	for rows.Next() {
		var (
			g      models.SavingsGoal
			target sql.NullTime
		)
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &target, &g.Monthly); err != nil {
			return nil, fmt.Errorf("failed to scan savings goal: %w", err)
		}
		if target.Valid {
			g.TargetDate = &target.Time
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// MarkAnomalies sets is_anomaly on the user's expenses for the month: true for the
// flagged categories, false for everything else
func (r *Repository) MarkAnomalies(ctx context.Context, userID int64, month time.Time, categories []string) (int64, error) {
	start := utils.MonthStart(month)
	end := start.AddDate(0, 1, 0)
	if categories == nil {
		categories = []string{}
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE finhealth.expenses
		SET is_anomaly = (COALESCE(NULLIF(TRIM(category), ''), 'Uncategorized') = ANY($4))
		WHERE user_id = $1 AND date >= $2 AND date < $3`,
		userID, start, end, pq.Array(categories))
	if err != nil {
		return 0, fmt.Errorf("failed to mark anomalies: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count marked expenses: %w", err)
	}
	return n, nil
}
