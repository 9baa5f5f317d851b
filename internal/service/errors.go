package service

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/lecture_booking/internal/model"
)

var (
	ErrPastDate        = errors.New("date is in the past")
	ErrLectureNotFound = errors.New("lecture not found")
	ErrSlotNotFound    = errors.New("slot not found")
	ErrSlotExpired     = errors.New("slot is expired")
	ErrAlreadyExpired  = errors.New("slot is already expired")
	ErrAlreadyBooked   = errors.New("slot is already booked")
	ErrBookingNotFound = errors.New("booking not found")

	// ErrScheduleConflict мишень для errors.Is; сами ошибки несут
	// идентификатор конфликтующего слота через ScheduleConflictError
	ErrScheduleConflict = errors.New("schedule conflict")

	// ErrInvalidTransition мишень для errors.Is; детали в TransitionError
	ErrInvalidTransition = errors.New("invalid booking status transition")
)

// ScheduleConflictError пересечение с существующим слотом. SlotID равен нулю,
// когда конфликт пойман уникальным индексом после гонки и строка недоступна.
type ScheduleConflictError struct {
	SlotID int64
}

func (e *ScheduleConflictError) Error() string {
	if e.SlotID == 0 {
		return "schedule conflict with an existing slot"
	}
	return fmt.Sprintf("schedule conflict with slot %d", e.SlotID)
}

func (e *ScheduleConflictError) Is(target error) bool {
	return target == ErrScheduleConflict
}

// TransitionError недопустимый переход статуса записи
type TransitionError struct {
	BookingID int64
	Current   model.BookingStatus
	Requested model.BookingStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("booking %d: cannot transition from %s to %s", e.BookingID, e.Current, e.Requested)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
