package model

import "time"

// Slot опубликованный интервал времени, доступный для записи на лекцию.
// Физически не удаляется: "удаление" выставляет IsExpired.
type Slot struct {
	ID        int64     `json:"id"`
	LectureID int64     `json:"lecture_id"`
	Date      time.Time `json:"date"`
	StartTime TimeOfDay `json:"start_time"`
	EndTime   TimeOfDay `json:"end_time"`
	IsExpired bool      `json:"is_expired"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Slot) Interval() DayInterval {
	return DayInterval{Date: NormalizeDate(s.Date), Start: s.StartTime, End: s.EndTime}
}

// SlotFilter условия выборки слотов; нулевые ID означают "без фильтра"
type SlotFilter struct {
	LectureID      int64
	TeacherID      int64
	IncludeExpired bool
}
