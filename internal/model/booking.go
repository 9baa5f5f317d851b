package model

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"   // Ожидает подтверждения
	BookingStatusConfirmed BookingStatus = "confirmed" // Подтверждено
	BookingStatusCancelled BookingStatus = "cancelled" // Отменено, терминальный статус
)

// допустимые переходы статусов
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCancelled},
	BookingStatusCancelled: {},
}

// CanTransitionTo проверяет допустимость перехода статуса
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsActive активные статусы блокируют повторную запись на тот же интервал
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// Booking запись студента на слот. Дата и время копируются из слота в момент
// записи, поэтому запись переживает логическое удаление слота.
type Booking struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"user_id"`
	LectureID int64         `json:"lecture_id"`
	Date      time.Time     `json:"date"`
	StartTime TimeOfDay     `json:"start_time"`
	EndTime   TimeOfDay     `json:"end_time"`
	Status    BookingStatus `json:"status"`
	IsExpired bool          `json:"is_expired"`
	CreatedAt time.Time     `json:"created_at"`
}

func (b *Booking) Interval() DayInterval {
	return DayInterval{Date: NormalizeDate(b.Date), Start: b.StartTime, End: b.EndTime}
}

// BookingFilter условия выборки записей; нулевые значения означают "без фильтра"
type BookingFilter struct {
	UserID    int64
	LectureID int64
	Status    BookingStatus
}
