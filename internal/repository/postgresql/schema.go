package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/database"
)

// financeSchema is shared by startup bootstrap and the bridge's lazy provisioning.
const financeSchema = `
CREATE TABLE IF NOT EXISTS finance_transactions (
	id          TEXT PRIMARY KEY,
	type        TEXT NOT NULL CHECK (type IN ('INCOME', 'EXPENSE')),
	category    TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	amount      NUMERIC(14,2) NOT NULL CHECK (amount >= 0),
	date        DATE NOT NULL,
	reference   TEXT NOT NULL DEFAULT '',
	source_kind TEXT NOT NULL,
	source_id   TEXT NOT NULL,
	metadata    JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS finance_transactions_source_idx
	ON finance_transactions (source_kind, source_id);
CREATE INDEX IF NOT EXISTS finance_transactions_date_idx
	ON finance_transactions (date DESC);
`

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS staff (
		id         TEXT PRIMARY KEY,
		full_name  TEXT NOT NULL DEFAULT '',
		role       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS salary_rates (
		id               TEXT PRIMARY KEY,
		role             TEXT NOT NULL,
		calculation_type TEXT NOT NULL CHECK (calculation_type IN ('PER_SESSION', 'PER_HOUR')),
		rate             NUMERIC(14,2) NOT NULL CHECK (rate >= 0),
		effective_from   DATE NOT NULL,
		is_active        BOOLEAN NOT NULL DEFAULT TRUE,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS salary_rates_role_idx ON salary_rates (role, effective_from DESC)`,
	`CREATE TABLE IF NOT EXISTS attendances (
		id             TEXT PRIMARY KEY,
		staff_id       TEXT NOT NULL,
		halaqah_id     TEXT NOT NULL,
		date           DATE NOT NULL,
		status         TEXT NOT NULL CHECK (status IN ('PRESENT', 'LATE', 'ABSENT', 'SICK', 'PERMISSION')),
		check_in_time  TIMESTAMPTZ,
		check_out_time TIMESTAMPTZ,
		session_type   TEXT NOT NULL DEFAULT 'REGULAR',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (staff_id, halaqah_id, date, session_type)
	)`,
	`CREATE INDEX IF NOT EXISTS attendances_period_idx ON attendances (staff_id, date)`,
	`CREATE TABLE IF NOT EXISTS earnings (
		id                       TEXT PRIMARY KEY,
		staff_id                 TEXT NOT NULL,
		attendance_id            TEXT,
		calculation_type         TEXT NOT NULL,
		rate                     NUMERIC(14,2) NOT NULL,
		session_duration_minutes INTEGER NOT NULL DEFAULT 0,
		amount                   NUMERIC(14,2) NOT NULL CHECK (amount >= 0),
		status                   TEXT NOT NULL CHECK (status IN ('PENDING', 'APPROVED', 'REJECTED')),
		period_month             INTEGER NOT NULL,
		period_year              INTEGER NOT NULL,
		created_at               TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		decided_at               TIMESTAMPTZ,
		decided_by               TEXT
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS earnings_attendance_idx ON earnings (attendance_id) WHERE status <> 'REJECTED'`,
	`CREATE INDEX IF NOT EXISTS earnings_period_idx ON earnings (staff_id, period_year, period_month)`,
	`CREATE TABLE IF NOT EXISTS wallets (
		staff_id   TEXT PRIMARY KEY,
		balance    NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS payrolls (
		id                TEXT PRIMARY KEY,
		staff_id          TEXT NOT NULL,
		period_month      INTEGER NOT NULL CHECK (period_month BETWEEN 1 AND 12),
		period_year       INTEGER NOT NULL,
		total_sessions    INTEGER NOT NULL DEFAULT 0,
		attended_sessions INTEGER NOT NULL DEFAULT 0,
		late_sessions     INTEGER NOT NULL DEFAULT 0,
		base_salary       NUMERIC(14,2) NOT NULL DEFAULT 0,
		attendance_bonus  NUMERIC(14,2) NOT NULL DEFAULT 0,
		gross_salary      NUMERIC(14,2) NOT NULL DEFAULT 0,
		deductions        NUMERIC(14,2) NOT NULL DEFAULT 0,
		net_salary        NUMERIC(14,2) NOT NULL DEFAULT 0,
		status            TEXT NOT NULL DEFAULT 'DRAFT' CHECK (status IN ('DRAFT', 'APPROVED', 'PAID')),
		notes             TEXT,
		approved_at       TIMESTAMPTZ,
		approved_by       TEXT,
		paid_at           TIMESTAMPTZ,
		paid_by           TEXT,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (staff_id, period_month, period_year)
	)`,
	`CREATE TABLE IF NOT EXISTS salary_payments (
		id                     TEXT PRIMARY KEY,
		payroll_id             TEXT NOT NULL UNIQUE REFERENCES payrolls (id),
		staff_id               TEXT NOT NULL,
		amount                 NUMERIC(14,2) NOT NULL,
		payment_method         TEXT NOT NULL,
		payment_date           DATE NOT NULL,
		reference_number       TEXT NOT NULL DEFAULT '',
		finance_transaction_id TEXT NOT NULL,
		paid_by                TEXT NOT NULL,
		created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS withdrawals (
		id               TEXT PRIMARY KEY,
		staff_id         TEXT NOT NULL,
		amount           NUMERIC(14,2) NOT NULL CHECK (amount > 0),
		bank_name        TEXT NOT NULL,
		bank_account     TEXT NOT NULL,
		account_holder   TEXT NOT NULL,
		notes            TEXT,
		status           TEXT NOT NULL CHECK (status IN ('PENDING', 'APPROVED', 'REJECTED', 'COMPLETED')),
		requested_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		approved_at      TIMESTAMPTZ,
		approved_by      TEXT,
		completed_at     TIMESTAMPTZ,
		completed_by     TEXT,
		rejected_at      TIMESTAMPTZ,
		rejected_by      TEXT,
		rejection_reason TEXT,
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS withdrawals_staff_idx ON withdrawals (staff_id, status)`,
	financeSchema,
}

// EnsureSchema creates every table the pipeline needs. All statements are idempotent.
func EnsureSchema(ctx context.Context, db *database.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
