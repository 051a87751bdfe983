package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/earning"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type earningRepositoryImpl struct {
	db *database.DB
}

func NewEarningRepository(db *database.DB) earning.EarningRepository {
	return &earningRepositoryImpl{db: db}
}

const earningColumns = `id, staff_id, attendance_id, calculation_type, rate, session_duration_minutes,
	amount, status, period_month, period_year, created_at, decided_at, decided_by`

func scanEarning(row pgx.Row) (earning.Earning, error) {
	var e earning.Earning
	err := row.Scan(
		&e.ID,
		&e.StaffID,
		&e.AttendanceID,
		&e.CalculationType,
		&e.Rate,
		&e.SessionDurationMinutes,
		&e.Amount,
		&e.Status,
		&e.PeriodMonth,
		&e.PeriodYear,
		&e.CreatedAt,
		&e.DecidedAt,
		&e.DecidedBy,
	)
	return e, err
}

func (r *earningRepositoryImpl) Create(ctx context.Context, e earning.Earning) (earning.Earning, error) {
	q := GetQuerier(ctx, r.db)

	if e.ID == "" {
		e.ID = newID()
	}
	query := `
		INSERT INTO earnings (
			id, staff_id, attendance_id, calculation_type, rate, session_duration_minutes,
			amount, status, period_month, period_year, created_at, decided_at, decided_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), $11, $12)
		RETURNING ` + earningColumns

	created, err := scanEarning(q.QueryRow(ctx, query,
		e.ID, e.StaffID, e.AttendanceID, e.CalculationType, e.Rate, e.SessionDurationMinutes,
		e.Amount, e.Status, e.PeriodMonth, e.PeriodYear, e.DecidedAt, e.DecidedBy,
	))
	if err != nil {
		return earning.Earning{}, fmt.Errorf("failed to create earning: %w", err)
	}
	return created, nil
}

func (r *earningRepositoryImpl) GetByID(ctx context.Context, id string) (earning.Earning, error) {
	return r.get(ctx, id, "")
}

func (r *earningRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (earning.Earning, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *earningRepositoryImpl) get(ctx context.Context, id, lock string) (earning.Earning, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + earningColumns + ` FROM earnings WHERE id = $1` + lock
	e, err := scanEarning(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return earning.Earning{}, earning.ErrEarningNotFound
		}
		return earning.Earning{}, fmt.Errorf("failed to get earning: %w", err)
	}
	return e, nil
}

func (r *earningRepositoryImpl) GetByAttendanceID(ctx context.Context, attendanceID string) (earning.Earning, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + earningColumns + `
		FROM earnings
		WHERE attendance_id = $1 AND status <> 'REJECTED'
		FOR UPDATE
	`
	e, err := scanEarning(q.QueryRow(ctx, query, attendanceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return earning.Earning{}, earning.ErrEarningNotFound
		}
		return earning.Earning{}, fmt.Errorf("failed to get earning by attendance: %w", err)
	}
	return e, nil
}

func (r *earningRepositoryImpl) UpdateStatus(ctx context.Context, id string, change earning.StatusChange) (earning.Earning, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE earnings
		SET status = $2, decided_at = $3, decided_by = $4
		WHERE id = $1 AND status = 'PENDING'
		RETURNING ` + earningColumns

	e, err := scanEarning(q.QueryRow(ctx, query, id, change.Status, change.DecidedAt, change.DecidedBy))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return earning.Earning{}, earning.ErrEarningNotPending
		}
		return earning.Earning{}, fmt.Errorf("failed to update earning status: %w", err)
	}
	return e, nil
}

func (r *earningRepositoryImpl) ListPendingForPeriodForUpdate(ctx context.Context, staffID string, month, year int) ([]earning.Earning, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + earningColumns + `
		FROM earnings
		WHERE staff_id = $1 AND period_month = $2 AND period_year = $3 AND status = 'PENDING'
		ORDER BY created_at
		FOR UPDATE
	`
	rows, err := q.Query(ctx, query, staffID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending earnings: %w", err)
	}
	defer rows.Close()

	var earnings []earning.Earning
	for rows.Next() {
		e, err := scanEarning(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan earning: %w", err)
		}
		earnings = append(earnings, e)
	}
	return earnings, rows.Err()
}

func (r *earningRepositoryImpl) SumForPeriod(ctx context.Context, staffID string, month, year int) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM earnings
		WHERE staff_id = $1 AND period_month = $2 AND period_year = $3 AND status <> 'REJECTED'
	`
	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, staffID, month, year).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum earnings: %w", err)
	}
	return total, nil
}

func (r *earningRepositoryImpl) List(ctx context.Context, filter earning.Filter) ([]earning.Earning, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := " WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.StaffID != nil {
		where += fmt.Sprintf(" AND staff_id = $%d", argIdx)
		args = append(args, *filter.StaffID)
		argIdx++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
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

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM earnings"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count earnings: %w", err)
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	query := fmt.Sprintf("SELECT %s FROM earnings%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		earningColumns, where, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list earnings: %w", err)
	}
	defer rows.Close()

	var earnings []earning.Earning
	for rows.Next() {
		e, err := scanEarning(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan earning: %w", err)
		}
		earnings = append(earnings, e)
	}
	return earnings, total, rows.Err()
}

type salaryRateProviderImpl struct {
	db *database.DB
}

// NewSalaryRateProvider looks rates up by the role stored on the staff table.
func NewSalaryRateProvider(db *database.DB) earning.RateProvider {
	return &salaryRateProviderImpl{db: db}
}

func (p *salaryRateProviderImpl) ActiveRateForStaff(ctx context.Context, staffID string, on time.Time) (earning.SalaryRate, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT sr.id, sr.role, sr.calculation_type, sr.rate, sr.effective_from
		FROM salary_rates sr
		INNER JOIN staff s ON s.role = sr.role
		WHERE s.id = $1 AND sr.is_active AND sr.effective_from <= $2
		ORDER BY sr.effective_from DESC
		LIMIT 1
	`
	var rate earning.SalaryRate
	err := q.QueryRow(ctx, query, staffID, on).Scan(
		&rate.ID,
		&rate.Role,
		&rate.CalculationType,
		&rate.Rate,
		&rate.EffectiveFrom,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return earning.SalaryRate{}, earning.ErrRateNotConfigured
		}
		return earning.SalaryRate{}, fmt.Errorf("failed to get salary rate: %w", err)
	}
	return rate, nil
}
