package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicateSlot нарушение уникальности (lecture_id, date, start_time, end_time)
	ErrDuplicateSlot = errors.New("repository: duplicate slot interval")
	// ErrDuplicateBooking нарушение частичного уникального индекса активных записей
	ErrDuplicateBooking = errors.New("repository: duplicate active booking")
)

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
