package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/finance"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type financeRepositoryImpl struct {
	db *database.DB
}

func NewFinanceRepository(db *database.DB) finance.Repository {
	return &financeRepositoryImpl{db: db}
}

const financeColumns = `id, type, category, description, amount, date, reference, source_kind, source_id, metadata, created_at`

func scanFinanceTransaction(row pgx.Row) (finance.Transaction, error) {
	var t finance.Transaction
	var metadata []byte
	err := row.Scan(
		&t.ID,
		&t.Type,
		&t.Category,
		&t.Description,
		&t.Amount,
		&t.Date,
		&t.Reference,
		&t.SourceKind,
		&t.SourceID,
		&metadata,
		&t.CreatedAt,
	)
	if err != nil {
		return finance.Transaction{}, err
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &t.Metadata); err != nil {
			return finance.Transaction{}, fmt.Errorf("failed to decode metadata: %w", err)
		}
	}
	return t, nil
}

// Insert runs inside a savepoint when a transaction is active, so a missing
// table does not abort the caller's transaction.
func (r *financeRepositoryImpl) Insert(ctx context.Context, t finance.Transaction) (finance.Transaction, error) {
	if t.ID == "" {
		t.ID = newID()
	}
	metadata := []byte("{}")
	if len(t.Metadata) > 0 {
		encoded, err := json.Marshal(t.Metadata)
		if err != nil {
			return finance.Transaction{}, fmt.Errorf("failed to encode metadata: %w", err)
		}
		metadata = encoded
	}

	query := `
		INSERT INTO finance_transactions (
			id, type, category, description, amount, date, reference, source_kind, source_id, metadata, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING ` + financeColumns

	var created finance.Transaction
	err := r.withSavepoint(ctx, func(q database.Querier) error {
		var err error
		created, err = scanFinanceTransaction(q.QueryRow(ctx, query,
			t.ID, t.Type, t.Category, t.Description, t.Amount, t.Date, t.Reference, t.SourceKind, t.SourceID, metadata,
		))
		return err
	})
	if err != nil {
		if isUndefinedTable(err) {
			return finance.Transaction{}, finance.ErrLedgerTableMissing
		}
		return finance.Transaction{}, fmt.Errorf("failed to insert finance transaction: %w", err)
	}
	return created, nil
}

// withSavepoint isolates fn from the surrounding transaction. A failing
// statement rolls back to the savepoint only.
func (r *financeRepositoryImpl) withSavepoint(ctx context.Context, fn func(q database.Querier) error) error {
	tx, ok := currentTx(ctx)
	if !ok {
		return fn(r.db.Pool)
	}

	savepoint, err := tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("open savepoint: %w", err)
	}
	if err := fn(savepoint); err != nil {
		if rbErr := savepoint.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback savepoint: %v (original error: %w)", rbErr, err)
		}
		return err
	}
	if err := savepoint.Commit(ctx); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	return nil
}

func (r *financeRepositoryImpl) FindBySource(ctx context.Context, kind finance.PaymentKind, sourceID string) (finance.Transaction, error) {
	query := `SELECT ` + financeColumns + ` FROM finance_transactions WHERE source_kind = $1 AND source_id = $2`

	var found finance.Transaction
	err := r.withSavepoint(ctx, func(q database.Querier) error {
		var err error
		found, err = scanFinanceTransaction(q.QueryRow(ctx, query, kind, sourceID))
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return finance.Transaction{}, finance.ErrTransactionNotFound
		}
		if isUndefinedTable(err) {
			return finance.Transaction{}, finance.ErrLedgerTableMissing
		}
		return finance.Transaction{}, fmt.Errorf("failed to find finance transaction: %w", err)
	}
	return found, nil
}

func (r *financeRepositoryImpl) ProvisionSchema(ctx context.Context) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, financeSchema); err != nil {
		return fmt.Errorf("failed to provision finance ledger: %w", err)
	}
	return nil
}

func (r *financeRepositoryImpl) List(ctx context.Context, filter finance.TransactionFilter) ([]finance.Transaction, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := " WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.Type != nil {
		where += fmt.Sprintf(" AND type = $%d", argIdx)
		args = append(args, *filter.Type)
		argIdx++
	}
	if filter.SourceKind != nil {
		where += fmt.Sprintf(" AND source_kind = $%d", argIdx)
		args = append(args, *filter.SourceKind)
		argIdx++
	}
	if filter.From != nil {
		where += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		where += fmt.Sprintf(" AND date <= $%d", argIdx)
		args = append(args, *filter.To)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM finance_transactions"+where, args...).Scan(&total); err != nil {
		if isUndefinedTable(err) {
			return nil, 0, finance.ErrLedgerTableMissing
		}
		return nil, 0, fmt.Errorf("failed to count finance transactions: %w", err)
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	query := fmt.Sprintf("SELECT %s FROM finance_transactions%s ORDER BY date DESC, created_at DESC LIMIT $%d OFFSET $%d",
		financeColumns, where, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list finance transactions: %w", err)
	}
	defer rows.Close()

	var transactions []finance.Transaction
	for rows.Next() {
		t, err := scanFinanceTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan finance transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	return transactions, total, rows.Err()
}
