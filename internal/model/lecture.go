package model

import "time"

// Lecture проекция внешней сущности "лекция": ядру нужны только
// идентификатор и владельцы для проверки прав.
type Lecture struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	TeacherID    int64     `json:"teacher_id"`
	CoTeacherIDs []int64   `json:"co_teacher_ids"`
	IsDeleted    bool      `json:"is_deleted"`
	CreatedAt    time.Time `json:"created_at"`

	// TelegramChatID чат основного преподавателя для уведомлений, может быть nil
	TeacherChatID *int64 `json:"-"`
}

// IsTaughtBy проверяет, ведёт ли пользователь лекцию (основной или со-преподаватель)
func (l *Lecture) IsTaughtBy(userID int64) bool {
	if l.TeacherID == userID {
		return true
	}
	for _, id := range l.CoTeacherIDs {
		if id == userID {
			return true
		}
	}
	return false
}
