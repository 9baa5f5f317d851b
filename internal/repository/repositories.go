package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Freeeeeet/lecture_booking/internal/model"
)

// Querier общий интерфейс к *pgxpool.Pool и pgx.Tx: репозитории не знают,
// работают ли они внутри транзакции.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type SlotStore interface {
	Create(ctx context.Context, slot *model.Slot) error
	GetByID(ctx context.Context, id int64) (*model.Slot, error)
	List(ctx context.Context, filter model.SlotFilter) ([]*model.Slot, error)
	ListByLecture(ctx context.Context, lectureID int64, includeExpired bool) ([]*model.Slot, error)
	FindByInterval(ctx context.Context, lectureID int64, iv model.DayInterval) (*model.Slot, error)
	MarkExpired(ctx context.Context, id int64) error
	LockLecture(ctx context.Context, lectureID int64) error
}

type BookingStore interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	List(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error)
	FindActiveByInterval(ctx context.Context, lectureID int64, iv model.DayInterval) (*model.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from, to model.BookingStatus) (bool, error)
	CountByStatus(ctx context.Context) (map[model.BookingStatus]int64, error)
}

type LectureStore interface {
	GetByID(ctx context.Context, id int64) (*model.Lecture, error)
}

// Stores набор репозиториев над одним Querier
type Stores struct {
	Slots    SlotStore
	Bookings BookingStore
	Lectures LectureStore
}

// NewStores создаёт репозитории над пулом или транзакцией
func NewStores(q Querier) Stores {
	return Stores{
		Slots:    NewSlotRepository(q),
		Bookings: NewBookingRepository(q),
		Lectures: NewLectureRepository(q),
	}
}
