package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxManager управляет транзакциями БД
type TxManager interface {
	// WithTx выполняет fn внутри транзакции: ошибка - откат, успех - коммит
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// DBTX единый интерфейс для работы с бд, его реализуют и pool, и tx
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type txManager struct {
	pool *pgxpool.Pool
}

func NewTxManager(pool *pgxpool.Pool) TxManager {
	return &txManager{pool: pool}
}

// txKey ключ для транзакции в контексте
type txKey struct{}

func (m *txManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	// вложенный WithTx переиспользует уже открытую транзакцию
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}

	txCtx := context.WithValue(ctx, txKey{}, tx)

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}

// GetTxOrPool возвращает tx из контекста либо pool
func GetTxOrPool(ctx context.Context, pool *pgxpool.Pool) DBTX {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return pool
}
