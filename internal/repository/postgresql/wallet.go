package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/wallet"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type walletRepositoryImpl struct {
	db *database.DB
}

func NewWalletRepository(db *database.DB) wallet.WalletRepository {
	return &walletRepositoryImpl{db: db}
}

func (r *walletRepositoryImpl) Get(ctx context.Context, staffID string) (wallet.Wallet, error) {
	q := GetQuerier(ctx, r.db)

	var w wallet.Wallet
	err := q.QueryRow(ctx, `SELECT staff_id, balance, updated_at FROM wallets WHERE staff_id = $1`, staffID).
		Scan(&w.StaffID, &w.Balance, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return wallet.Wallet{}, wallet.ErrWalletNotFound
		}
		return wallet.Wallet{}, fmt.Errorf("failed to get wallet: %w", err)
	}
	return w, nil
}

func (r *walletRepositoryImpl) LockForUpdate(ctx context.Context, staffID string) (wallet.Wallet, error) {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO wallets (staff_id, balance, updated_at)
		VALUES ($1, 0, NOW())
		ON CONFLICT (staff_id) DO NOTHING
	`, staffID)
	if err != nil {
		return wallet.Wallet{}, fmt.Errorf("failed to create wallet: %w", err)
	}

	var w wallet.Wallet
	err = q.QueryRow(ctx, `SELECT staff_id, balance, updated_at FROM wallets WHERE staff_id = $1 FOR UPDATE`, staffID).
		Scan(&w.StaffID, &w.Balance, &w.UpdatedAt)
	if err != nil {
		return wallet.Wallet{}, fmt.Errorf("failed to lock wallet: %w", err)
	}
	return w, nil
}

func (r *walletRepositoryImpl) SetBalance(ctx context.Context, staffID string, balance decimal.Decimal) (wallet.Wallet, error) {
	if balance.IsNegative() {
		return wallet.Wallet{}, wallet.ErrNegativeBalance
	}
	q := GetQuerier(ctx, r.db)

	var w wallet.Wallet
	err := q.QueryRow(ctx, `
		UPDATE wallets SET balance = $2, updated_at = NOW()
		WHERE staff_id = $1
		RETURNING staff_id, balance, updated_at
	`, staffID, balance).Scan(&w.StaffID, &w.Balance, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return wallet.Wallet{}, wallet.ErrWalletNotFound
		}
		return wallet.Wallet{}, fmt.Errorf("failed to set wallet balance: %w", err)
	}
	return w, nil
}

func (r *walletRepositoryImpl) ReplayBalance(ctx context.Context, staffID string) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			(SELECT COALESCE(SUM(amount), 0) FROM earnings WHERE staff_id = $1 AND status = 'APPROVED')
			-
			(SELECT COALESCE(SUM(amount), 0) FROM withdrawals WHERE staff_id = $1 AND status = 'COMPLETED')
	`
	var balance decimal.Decimal
	if err := q.QueryRow(ctx, query, staffID).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("failed to replay wallet balance: %w", err)
	}
	return balance, nil
}

func (r *walletRepositoryImpl) ListStaffIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT staff_id FROM wallets
		UNION
		SELECT staff_id FROM earnings WHERE status = 'APPROVED'
		ORDER BY staff_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet owners: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan wallet owner: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *walletRepositoryImpl) History(ctx context.Context, staffID string, limit int) ([]wallet.Entry, error) {
	q := GetQuerier(ctx, r.db)

	_, limit = normalizePage(1, limit)
	query := `
		SELECT kind, source_id, amount, occurred_at FROM (
			SELECT 'EARNING' AS kind, id AS source_id, amount, COALESCE(decided_at, created_at) AS occurred_at
			FROM earnings
			WHERE staff_id = $1 AND status = 'APPROVED'
			UNION ALL
			SELECT 'WITHDRAWAL', id, -amount, completed_at
			FROM withdrawals
			WHERE staff_id = $1 AND status = 'COMPLETED'
		) movements
		ORDER BY occurred_at DESC
		LIMIT $2
	`
	rows, err := q.Query(ctx, query, staffID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet history: %w", err)
	}
	defer rows.Close()

	var entries []wallet.Entry
	for rows.Next() {
		var e wallet.Entry
		if err := rows.Scan(&e.Kind, &e.SourceID, &e.Amount, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan wallet entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
