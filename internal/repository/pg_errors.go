package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation проверяет что ошибка - нарушение уникального индекса.
// Гонки на вставку (дубль периода за месяц) решает констрейнт, а не
// check-then-insert в приложении
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
