package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

const payrollColumns = `id, staff_id, period_month, period_year,
	total_sessions, attended_sessions, late_sessions,
	base_salary, attendance_bonus, gross_salary, deductions, net_salary,
	status, notes, approved_at, approved_by, paid_at, paid_by, created_at, updated_at`

func scanPayroll(row pgx.Row) (payroll.Payroll, error) {
	var p payroll.Payroll
	err := row.Scan(
		&p.ID,
		&p.StaffID,
		&p.PeriodMonth,
		&p.PeriodYear,
		&p.TotalSessions,
		&p.AttendedSessions,
		&p.LateSessions,
		&p.BaseSalary,
		&p.AttendanceBonus,
		&p.GrossSalary,
		&p.Deductions,
		&p.NetSalary,
		&p.Status,
		&p.Notes,
		&p.ApprovedAt,
		&p.ApprovedBy,
		&p.PaidAt,
		&p.PaidBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func (r *payrollRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	return r.getOne(ctx, `SELECT `+payrollColumns+` FROM payrolls WHERE id = $1`, id)
}

func (r *payrollRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (payroll.Payroll, error) {
	return r.getOne(ctx, `SELECT `+payrollColumns+` FROM payrolls WHERE id = $1 FOR UPDATE`, id)
}

func (r *payrollRepositoryImpl) GetByStaffPeriodForUpdate(ctx context.Context, staffID string, month, year int) (payroll.Payroll, error) {
	query := `
		SELECT ` + payrollColumns + `
		FROM payrolls
		WHERE staff_id = $1 AND period_month = $2 AND period_year = $3
		FOR UPDATE
	`
	return r.getOne(ctx, query, staffID, month, year)
}

func (r *payrollRepositoryImpl) getOne(ctx context.Context, query string, args ...interface{}) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPayroll(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll: %w", err)
	}
	return p, nil
}

func (r *payrollRepositoryImpl) UpsertDraft(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	if p.ID == "" {
		p.ID = newID()
	}
	query := `
		INSERT INTO payrolls (
			id, staff_id, period_month, period_year,
			total_sessions, attended_sessions, late_sessions,
			base_salary, attendance_bonus, gross_salary, deductions, net_salary,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 'DRAFT', NOW(), NOW())
		ON CONFLICT (staff_id, period_month, period_year) DO UPDATE SET
			total_sessions    = EXCLUDED.total_sessions,
			attended_sessions = EXCLUDED.attended_sessions,
			late_sessions     = EXCLUDED.late_sessions,
			base_salary       = EXCLUDED.base_salary,
			attendance_bonus  = EXCLUDED.attendance_bonus,
			gross_salary      = EXCLUDED.gross_salary,
			deductions        = EXCLUDED.deductions,
			net_salary        = EXCLUDED.net_salary,
			updated_at        = NOW()
		WHERE payrolls.status = 'DRAFT'
		RETURNING ` + payrollColumns

	saved, err := scanPayroll(q.QueryRow(ctx, query,
		p.ID, p.StaffID, p.PeriodMonth, p.PeriodYear,
		p.TotalSessions, p.AttendedSessions, p.LateSessions,
		p.BaseSalary, p.AttendanceBonus, p.GrossSalary, p.Deductions, p.NetSalary,
	))
	if err != nil {
		// The conflict target exists but is no longer a draft.
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrPayrollNotDraft
		}
		return payroll.Payroll{}, fmt.Errorf("failed to upsert payroll: %w", err)
	}
	return saved, nil
}

func (r *payrollRepositoryImpl) UpdateDraft(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls
		SET deductions = $2, net_salary = $3, notes = $4, updated_at = NOW()
		WHERE id = $1 AND status = 'DRAFT'
		RETURNING ` + payrollColumns

	saved, err := scanPayroll(q.QueryRow(ctx, query, p.ID, p.Deductions, p.NetSalary, p.Notes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrPayrollNotDraft
		}
		return payroll.Payroll{}, fmt.Errorf("failed to update payroll: %w", err)
	}
	return saved, nil
}

func (r *payrollRepositoryImpl) ApplyTransition(ctx context.Context, id string, t payroll.Transition) (payroll.Payroll, error) {
	if !payroll.CanTransition(t.From, t.To) {
		return payroll.Payroll{}, payroll.ErrInvalidTransition
	}
	q := GetQuerier(ctx, r.db)

	var query string
	switch t.To {
	case payroll.PayrollStatusApproved:
		query = `UPDATE payrolls SET status = $2, approved_at = $4, approved_by = $5, updated_at = NOW()
			WHERE id = $1 AND status = $3 RETURNING ` + payrollColumns
	default:
		query = `UPDATE payrolls SET status = $2, paid_at = $4, paid_by = $5, updated_at = NOW()
			WHERE id = $1 AND status = $3 RETURNING ` + payrollColumns
	}

	saved, err := scanPayroll(q.QueryRow(ctx, query, id, t.To, t.From, t.At, t.By))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrInvalidTransition
		}
		return payroll.Payroll{}, fmt.Errorf("failed to transition payroll: %w", err)
	}
	return saved, nil
}

func (r *payrollRepositoryImpl) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.Payroll, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := " WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.StaffID != nil {
		where += fmt.Sprintf(" AND staff_id = $%d", argIdx)
		args = append(args, *filter.StaffID)
		argIdx++
	}
	if filter.PeriodMonth != nil {
		where += fmt.Sprintf(" AND period_month = $%d", argIdx)
		args = append(args, *filter.PeriodMonth)
		argIdx++
	}
	if filter.PeriodYear != nil {
		where += fmt.Sprintf(" AND period_year = $%d", argIdx)
		args = append(args, *filter.PeriodYear)
		argIdx++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM payrolls"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payrolls: %w", err)
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	query := fmt.Sprintf("SELECT %s FROM payrolls%s ORDER BY period_year DESC, period_month DESC, staff_id LIMIT $%d OFFSET $%d",
		payrollColumns, where, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payrolls: %w", err)
	}
	defer rows.Close()

	var payrolls []payroll.Payroll
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll: %w", err)
		}
		payrolls = append(payrolls, p)
	}
	return payrolls, total, rows.Err()
}

const salaryPaymentColumns = `id, payroll_id, staff_id, amount, payment_method, payment_date,
	reference_number, finance_transaction_id, paid_by, created_at`

func scanSalaryPayment(row pgx.Row) (payroll.SalaryPayment, error) {
	var sp payroll.SalaryPayment
	err := row.Scan(
		&sp.ID,
		&sp.PayrollID,
		&sp.StaffID,
		&sp.Amount,
		&sp.PaymentMethod,
		&sp.PaymentDate,
		&sp.ReferenceNumber,
		&sp.FinanceTransactionID,
		&sp.PaidBy,
		&sp.CreatedAt,
	)
	return sp, err
}

func (r *payrollRepositoryImpl) CreateSalaryPayment(ctx context.Context, sp payroll.SalaryPayment) (payroll.SalaryPayment, error) {
	q := GetQuerier(ctx, r.db)

	if sp.ID == "" {
		sp.ID = newID()
	}
	query := `
		INSERT INTO salary_payments (
			id, payroll_id, staff_id, amount, payment_method, payment_date,
			reference_number, finance_transaction_id, paid_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING ` + salaryPaymentColumns

	created, err := scanSalaryPayment(q.QueryRow(ctx, query,
		sp.ID, sp.PayrollID, sp.StaffID, sp.Amount, sp.PaymentMethod, sp.PaymentDate,
		sp.ReferenceNumber, sp.FinanceTransactionID, sp.PaidBy,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return payroll.SalaryPayment{}, payroll.ErrSalaryPaymentExists
		}
		return payroll.SalaryPayment{}, fmt.Errorf("failed to create salary payment: %w", err)
	}
	return created, nil
}

func (r *payrollRepositoryImpl) GetSalaryPaymentByPayrollID(ctx context.Context, payrollID string) (payroll.SalaryPayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryPaymentColumns + ` FROM salary_payments WHERE payroll_id = $1`
	sp, err := scanSalaryPayment(q.QueryRow(ctx, query, payrollID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalaryPayment{}, payroll.ErrSalaryPaymentNotFound
		}
		return payroll.SalaryPayment{}, fmt.Errorf("failed to get salary payment: %w", err)
	}
	return sp, nil
}
