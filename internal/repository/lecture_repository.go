package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Freeeeeet/lecture_booking/internal/model"
)

type LectureRepository struct {
	db Querier
}

func NewLectureRepository(db Querier) *LectureRepository {
	return &LectureRepository{db: db}
}

// GetByID получает лекцию вместе с со-преподавателями и чатом основного
// преподавателя; nil если лекции нет или она удалена
func (r *LectureRepository) GetByID(ctx context.Context, id int64) (*model.Lecture, error) {
	query := `
		SELECT l.id, l.title, l.teacher_id, l.is_deleted, l.created_at, t.telegram_chat_id
		FROM lectures l
		LEFT JOIN teachers t ON t.id = l.teacher_id
		WHERE l.id = $1 AND NOT l.is_deleted
	`

	var lecture model.Lecture
	err := r.db.QueryRow(ctx, query, id).Scan(
		&lecture.ID,
		&lecture.Title,
		&lecture.TeacherID,
		&lecture.IsDeleted,
		&lecture.CreatedAt,
		&lecture.TeacherChatID,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get lecture by id: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT teacher_id FROM lecture_teachers WHERE lecture_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get lecture co-teachers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var teacherID int64
		if err := rows.Scan(&teacherID); err != nil {
			return nil, fmt.Errorf("scan co-teacher: %w", err)
		}
		lecture.CoTeacherIDs = append(lecture.CoTeacherIDs, teacherID)
	}

	return &lecture, rows.Err()
}
