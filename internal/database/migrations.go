package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

func RunMigrations(pool *pgxpool.Pool) error {
	logrus.Info("running database migrations")

	ctx := context.Background()

	migrations := []string{
		migrationCreateExtensions,
		migrationCreateUsers,
		migrationCreateRefreshTokens,
		migrationCreateCategories,
		migrationCreateInstruments,
		migrationCreatePeriods,
		migrationCreatePeriodBalances,
		migrationCreateTransactions,
		migrationCreateRecurringExpenses,
		migrationCreateRecurringPayments,
		migrationCreatePeriodSummaries,
		migrationCreateIndexes,
		migrationInsertDefaultCategories,
	}

	for i, migration := range migrations {
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	logrus.Info("migrations completed")
	return nil
}

const migrationCreateExtensions = `
CREATE EXTENSION IF NOT EXISTS "uuid-ossp";
`

const migrationCreateUsers = `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(255) NOT NULL,
    first_name VARCHAR(100) NOT NULL,
    last_name VARCHAR(100),
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    deleted_at TIMESTAMP WITH TIME ZONE
);
`

const migrationCreateRefreshTokens = `
CREATE TABLE IF NOT EXISTS refresh_tokens (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    token_hash VARCHAR(64) NOT NULL UNIQUE,
    expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    revoked_at TIMESTAMP WITH TIME ZONE
);
`

const migrationCreateCategories = `
CREATE TABLE IF NOT EXISTS categories (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    user_id UUID REFERENCES users(id) ON DELETE CASCADE,
    name VARCHAR(100) NOT NULL,
    type VARCHAR(20) NOT NULL,
    icon VARCHAR(10),
    color VARCHAR(7),
    is_system BOOLEAN DEFAULT false,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);
`

const migrationCreateInstruments = `
CREATE TABLE IF NOT EXISTS instruments (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name VARCHAR(100) NOT NULL,
    type VARCHAR(20) NOT NULL,
    icon VARCHAR(10),
    color VARCHAR(7),
    is_active BOOLEAN DEFAULT true,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    deleted_at TIMESTAMP WITH TIME ZONE
);
`

const migrationCreatePeriods = `
CREATE TABLE IF NOT EXISTS periods (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    year INTEGER NOT NULL,
    month VARCHAR(12) NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    deleted_at TIMESTAMP WITH TIME ZONE
);

CREATE UNIQUE INDEX IF NOT EXISTS uq_periods_user_year_month
    ON periods(user_id, year, month) WHERE deleted_at IS NULL;
`

const migrationCreatePeriodBalances = `
CREATE TABLE IF NOT EXISTS period_balances (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    period_id UUID NOT NULL REFERENCES periods(id) ON DELETE CASCADE,
    instrument_id UUID NOT NULL REFERENCES instruments(id),
    starting_amount DECIMAL(18, 2) NOT NULL DEFAULT 0 CHECK (starting_amount >= 0),
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    deleted_at TIMESTAMP WITH TIME ZONE
);

CREATE UNIQUE INDEX IF NOT EXISTS uq_period_balances_period_instrument
    ON period_balances(period_id, instrument_id) WHERE deleted_at IS NULL;
`

const migrationCreateTransactions = `
CREATE TABLE IF NOT EXISTS transactions (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    period_id UUID NOT NULL REFERENCES periods(id),
    category_id UUID NOT NULL REFERENCES categories(id),
    instrument_id UUID NOT NULL REFERENCES instruments(id),
    kind VARCHAR(10) NOT NULL,
    amount DECIMAL(18, 2) NOT NULL CHECK (amount > 0),
    date TIMESTAMP WITH TIME ZONE NOT NULL,
    description TEXT,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    deleted_at TIMESTAMP WITH TIME ZONE
);
`

const migrationCreateRecurringExpenses = `
CREATE TABLE IF NOT EXISTS recurring_expenses (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name VARCHAR(100) NOT NULL,
    fixed_amount DECIMAL(18, 2),
    is_active BOOLEAN DEFAULT true,
    is_auto_debit BOOLEAN DEFAULT false,
    instrument_id UUID REFERENCES instruments(id),
    category_id UUID NOT NULL REFERENCES categories(id),
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    deleted_at TIMESTAMP WITH TIME ZONE
);

CREATE UNIQUE INDEX IF NOT EXISTS uq_recurring_expenses_user_name
    ON recurring_expenses(user_id, LOWER(name)) WHERE deleted_at IS NULL;
`

const migrationCreateRecurringPayments = `
CREATE TABLE IF NOT EXISTS recurring_payments (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    expense_id UUID NOT NULL REFERENCES recurring_expenses(id) ON DELETE CASCADE,
    period_id UUID NOT NULL REFERENCES periods(id) ON DELETE CASCADE,
    amount_paid DECIMAL(18, 2) NOT NULL DEFAULT 0,
    paid BOOLEAN NOT NULL DEFAULT false,
    instrument_id UUID REFERENCES instruments(id),
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    CONSTRAINT uq_recurring_payments_expense_period UNIQUE (expense_id, period_id)
);
`

const migrationCreatePeriodSummaries = `
CREATE TABLE IF NOT EXISTS period_summaries (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    period_id UUID NOT NULL UNIQUE REFERENCES periods(id) ON DELETE CASCADE,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    total_amount DECIMAL(18, 2) NOT NULL DEFAULT 0,
    total_paid DECIMAL(18, 2) NOT NULL DEFAULT 0,
    count_total INTEGER NOT NULL DEFAULT 0,
    count_paid INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);
`

const migrationCreateIndexes = `
CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user_id ON refresh_tokens(user_id);
CREATE INDEX IF NOT EXISTS idx_instruments_user_id ON instruments(user_id);
CREATE INDEX IF NOT EXISTS idx_periods_user_id ON periods(user_id);
CREATE INDEX IF NOT EXISTS idx_period_balances_period_id ON period_balances(period_id);
CREATE INDEX IF NOT EXISTS idx_transactions_period_id ON transactions(period_id);
CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions(user_id);
CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
CREATE INDEX IF NOT EXISTS idx_recurring_expenses_user_id ON recurring_expenses(user_id);
CREATE INDEX IF NOT EXISTS idx_recurring_payments_period_id ON recurring_payments(period_id);
`

const migrationInsertDefaultCategories = `
INSERT INTO categories (name, type, icon, color, is_system)
SELECT v.name, v.type, v.icon, v.color, true
FROM (VALUES
    ('Sueldo', 'INCOME', '💵', '#4CAF50'),
    ('Freelance', 'INCOME', '💻', '#8BC34A'),
    ('Otros ingresos', 'INCOME', '💰', '#2196F3'),
    ('Supermercado', 'EXPENSE', '🛒', '#FF5722'),
    ('Transporte', 'EXPENSE', '🚗', '#FFC107'),
    ('Vivienda', 'EXPENSE', '🏠', '#795548'),
    ('Servicios', 'EXPENSE', '💡', '#607D8B'),
    ('Salud', 'EXPENSE', '🏥', '#E91E63'),
    ('Ocio', 'EXPENSE', '🎬', '#9C27B0'),
    ('Otros gastos', 'EXPENSE', '📋', '#9E9E9E'),
    ('Transferencia', 'EXPENSE', '💳', '#607D8B')
) AS v(name, type, icon, color)
WHERE NOT EXISTS (
    SELECT 1 FROM categories c WHERE c.is_system = true AND c.name = v.name
);
`
