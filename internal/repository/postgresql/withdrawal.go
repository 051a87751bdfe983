package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/withdrawal"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type withdrawalRepositoryImpl struct {
	db *database.DB
}

func NewWithdrawalRepository(db *database.DB) withdrawal.WithdrawalRepository {
	return &withdrawalRepositoryImpl{db: db}
}

const withdrawalColumns = `id, staff_id, amount, bank_name, bank_account, account_holder, notes, status,
	requested_at, approved_at, approved_by, completed_at, completed_by,
	rejected_at, rejected_by, rejection_reason, updated_at`

func scanWithdrawal(row pgx.Row) (withdrawal.Withdrawal, error) {
	var w withdrawal.Withdrawal
	err := row.Scan(
		&w.ID,
		&w.StaffID,
		&w.Amount,
		&w.BankName,
		&w.BankAccount,
		&w.AccountHolder,
		&w.Notes,
		&w.Status,
		&w.RequestedAt,
		&w.ApprovedAt,
		&w.ApprovedBy,
		&w.CompletedAt,
		&w.CompletedBy,
		&w.RejectedAt,
		&w.RejectedBy,
		&w.RejectionReason,
		&w.UpdatedAt,
	)
	return w, err
}

func (r *withdrawalRepositoryImpl) Create(ctx context.Context, w withdrawal.Withdrawal) (withdrawal.Withdrawal, error) {
	q := GetQuerier(ctx, r.db)

	if w.ID == "" {
		w.ID = newID()
	}
	query := `
		INSERT INTO withdrawals (
			id, staff_id, amount, bank_name, bank_account, account_holder, notes,
			status, requested_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 'PENDING', NOW(), NOW())
		RETURNING ` + withdrawalColumns

	created, err := scanWithdrawal(q.QueryRow(ctx, query,
		w.ID, w.StaffID, w.Amount, w.BankName, w.BankAccount, w.AccountHolder, w.Notes,
	))
	if err != nil {
		return withdrawal.Withdrawal{}, fmt.Errorf("failed to create withdrawal: %w", err)
	}
	return created, nil
}

func (r *withdrawalRepositoryImpl) GetByID(ctx context.Context, id string) (withdrawal.Withdrawal, error) {
	return r.get(ctx, id, "")
}

func (r *withdrawalRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (withdrawal.Withdrawal, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *withdrawalRepositoryImpl) get(ctx context.Context, id, lock string) (withdrawal.Withdrawal, error) {
	q := GetQuerier(ctx, r.db)

	w, err := scanWithdrawal(q.QueryRow(ctx, `SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1`+lock, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return withdrawal.Withdrawal{}, withdrawal.ErrWithdrawalNotFound
		}
		return withdrawal.Withdrawal{}, fmt.Errorf("failed to get withdrawal: %w", err)
	}
	return w, nil
}

func (r *withdrawalRepositoryImpl) ApplyTransition(ctx context.Context, id string, t withdrawal.Transition) (withdrawal.Withdrawal, error) {
	if !withdrawal.CanTransition(t.From, t.To) {
		return withdrawal.Withdrawal{}, withdrawal.ErrInvalidTransition
	}
	q := GetQuerier(ctx, r.db)

	var set string
	switch t.To {
	case withdrawal.StatusApproved:
		set = "approved_at = $4, approved_by = $5"
	case withdrawal.StatusCompleted:
		set = "completed_at = $4, completed_by = $5"
	default:
		set = "rejected_at = $4, rejected_by = $5, rejection_reason = $6"
	}
	args := []interface{}{id, t.To, t.From, t.At, t.By}
	if t.To == withdrawal.StatusRejected {
		args = append(args, t.Reason)
	}

	query := fmt.Sprintf(`
		UPDATE withdrawals SET status = $2, %s, updated_at = NOW()
		WHERE id = $1 AND status = $3
		RETURNING %s`, set, withdrawalColumns)

	w, err := scanWithdrawal(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return withdrawal.Withdrawal{}, withdrawal.ErrInvalidTransition
		}
		return withdrawal.Withdrawal{}, fmt.Errorf("failed to transition withdrawal: %w", err)
	}
	return w, nil
}

func (r *withdrawalRepositoryImpl) List(ctx context.Context, filter withdrawal.WithdrawalFilter) ([]withdrawal.Withdrawal, int64, error) {
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

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM withdrawals"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count withdrawals: %w", err)
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	query := fmt.Sprintf("SELECT %s FROM withdrawals%s ORDER BY requested_at DESC LIMIT $%d OFFSET $%d",
		withdrawalColumns, where, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list withdrawals: %w", err)
	}
	defer rows.Close()

	var withdrawals []withdrawal.Withdrawal
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan withdrawal: %w", err)
		}
		withdrawals = append(withdrawals, w)
	}
	return withdrawals, total, rows.Err()
}
