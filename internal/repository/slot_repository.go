package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Freeeeeet/lecture_booking/internal/model"
)

type SlotRepository struct {
	db Querier
}

func NewSlotRepository(db Querier) *SlotRepository {
	return &SlotRepository{db: db}
}

const slotColumns = `id, lecture_id, date, start_time, end_time, is_expired, created_at`

func scanSlot(row pgx.Row) (*model.Slot, error) {
	var slot model.Slot
	err := row.Scan(
		&slot.ID,
		&slot.LectureID,
		&slot.Date,
		&slot.StartTime,
		&slot.EndTime,
		&slot.IsExpired,
		&slot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// Create создаёт новый слот; дубликат интервала возвращает ErrDuplicateSlot
func (r *SlotRepository) Create(ctx context.Context, slot *model.Slot) error {
	query := `
		INSERT INTO lecture_slots (lecture_id, date, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		slot.LectureID,
		slot.Date,
		slot.StartTime,
		slot.EndTime,
	).Scan(&slot.ID, &slot.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSlot
		}
		return fmt.Errorf("create slot: %w", err)
	}

	return nil
}

// GetByID получает слот по ID, nil если слота нет
func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM lecture_slots WHERE id = $1`

	slot, err := scanSlot(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return slot, nil
}

// List получает слоты по фильтру, упорядоченные по дате и времени начала
func (r *SlotRepository) List(ctx context.Context, filter model.SlotFilter) ([]*model.Slot, error) {
	query := `
		SELECT s.id, s.lecture_id, s.date, s.start_time, s.end_time, s.is_expired, s.created_at
		FROM lecture_slots s
		JOIN lectures l ON l.id = s.lecture_id
		WHERE NOT l.is_deleted
	`
	var args []any

	if !filter.IncludeExpired {
		query += ` AND NOT s.is_expired`
	}
	if filter.LectureID != 0 {
		args = append(args, filter.LectureID)
		query += fmt.Sprintf(` AND s.lecture_id = $%d`, len(args))
	}
	if filter.TeacherID != 0 {
		args = append(args, filter.TeacherID)
		query += fmt.Sprintf(` AND (l.teacher_id = $%d OR EXISTS (
			SELECT 1 FROM lecture_teachers lt
			WHERE lt.lecture_id = l.id AND lt.teacher_id = $%d
		))`, len(args), len(args))
	}
	query += ` ORDER BY s.date ASC, s.start_time ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var slots []*model.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}

	return slots, rows.Err()
}

// ListByLecture получает слоты лекции для проверки конфликтов
func (r *SlotRepository) ListByLecture(ctx context.Context, lectureID int64, includeExpired bool) ([]*model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM lecture_slots WHERE lecture_id = $1`
	if !includeExpired {
		query += ` AND NOT is_expired`
	}
	query += ` ORDER BY date ASC, start_time ASC`

	rows, err := r.db.Query(ctx, query, lectureID)
	if err != nil {
		return nil, fmt.Errorf("list slots by lecture: %w", err)
	}
	defer rows.Close()

	var slots []*model.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}

	return slots, rows.Err()
}

// FindByInterval ищет слот с точно совпадающим интервалом, включая погашенные
func (r *SlotRepository) FindByInterval(ctx context.Context, lectureID int64, iv model.DayInterval) (*model.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM lecture_slots
		WHERE lecture_id = $1 AND date = $2 AND start_time = $3 AND end_time = $4
	`

	slot, err := scanSlot(r.db.QueryRow(ctx, query, lectureID, iv.Date, iv.Start, iv.End))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find slot by interval: %w", err)
	}

	return slot, nil
}

// MarkExpired логически удаляет слот
func (r *SlotRepository) MarkExpired(ctx context.Context, id int64) error {
	query := `UPDATE lecture_slots SET is_expired = TRUE WHERE id = $1 AND NOT is_expired`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark slot expired: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("mark slot expired: slot %d not found or already expired", id)
	}

	return nil
}

// LockLecture берёт эксклюзивную блокировку лекции до конца транзакции.
// Сериализует проверку конфликтов и вставку между конкурентными запросами.
func (r *SlotRepository) LockLecture(ctx context.Context, lectureID int64) error {
	if _, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, lectureID); err != nil {
		return fmt.Errorf("lock lecture %d: %w", lectureID, err)
	}
	return nil
}
