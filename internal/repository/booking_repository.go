package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Freeeeeet/lecture_booking/internal/model"
)

type BookingRepository struct {
	db Querier
}

func NewBookingRepository(db Querier) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, user_id, lecture_id, date, start_time, end_time, status, is_expired, created_at`

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.LectureID,
		&b.Date,
		&b.StartTime,
		&b.EndTime,
		&b.Status,
		&b.IsExpired,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create создаёт запись; вторая активная запись на тот же интервал
// упирается в частичный уникальный индекс и возвращает ErrDuplicateBooking
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO lecture_bookings (user_id, lecture_id, date, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		booking.UserID,
		booking.LectureID,
		booking.Date,
		booking.StartTime,
		booking.EndTime,
		booking.Status,
	).Scan(&booking.ID, &booking.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateBooking
		}
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByID получает запись по ID, nil если записи нет
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM lecture_bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return booking, nil
}

// List получает записи по фильтру, упорядоченные по дате и времени начала
func (r *BookingRepository) List(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM lecture_bookings WHERE TRUE`
	var args []any

	if filter.UserID != 0 {
		args = append(args, filter.UserID)
		query += fmt.Sprintf(` AND user_id = $%d`, len(args))
	}
	if filter.LectureID != 0 {
		args = append(args, filter.LectureID)
		query += fmt.Sprintf(` AND lecture_id = $%d`, len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	query += ` ORDER BY date ASC, start_time ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// FindActiveByInterval ищет pending/confirmed запись на точный интервал лекции
func (r *BookingRepository) FindActiveByInterval(ctx context.Context, lectureID int64, iv model.DayInterval) (*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM lecture_bookings
		WHERE lecture_id = $1 AND date = $2 AND start_time = $3 AND end_time = $4
		  AND status IN ('pending', 'confirmed')
	`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, lectureID, iv.Date, iv.Start, iv.End))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find active booking: %w", err)
	}

	return booking, nil
}

// UpdateStatus переводит статус условно: false, если запись уже не в статусе from
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, from, to model.BookingStatus) (bool, error) {
	query := `UPDATE lecture_bookings SET status = $1 WHERE id = $2 AND status = $3`

	tag, err := r.db.Exec(ctx, query, to, id, from)
	if err != nil {
		return false, fmt.Errorf("update booking status: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// CountByStatus возвращает количество записей в каждом статусе
func (r *BookingRepository) CountByStatus(ctx context.Context) (map[model.BookingStatus]int64, error) {
	query := `SELECT status, COUNT(*) FROM lecture_bookings GROUP BY status`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count bookings by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.BookingStatus]int64)
	for rows.Next() {
		var status model.BookingStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan booking count: %w", err)
		}
		counts[status] = count
	}

	return counts, rows.Err()
}
