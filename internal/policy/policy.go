// Package policy реализует проверку прав доступа: чистая функция от
// (актор, действие, факты владения), без обращений к хранилищу.
package policy

import (
	"errors"

	"github.com/Freeeeeet/lecture_booking/internal/model"
)

var ErrForbidden = errors.New("forbidden")

type Action string

const (
	ActionManageSchedule Action = "manage-schedule"
	ActionDeleteSchedule Action = "delete-schedule"
	ActionBook           Action = "book"
	ActionConfirmBooking Action = "confirm-booking"
	ActionCancelBooking  Action = "cancel-booking"
	ActionViewBookings   Action = "view-bookings"
	ActionViewStats      Action = "view-stats"
)

// Ownership факты владения ресурсом, которые собирает вызывающая сторона
type Ownership struct {
	Lecture       *model.Lecture
	BookingUserID int64
}

// Authorize решает, разрешено ли актору действие. Администратор проходит
// любую проверку, преподаватель — только для своих лекций, студент — только
// запись и отмену собственных записей.
func Authorize(actor model.Actor, action Action, own Ownership) error {
	if actor.Role == model.RoleAdmin {
		return nil
	}

	switch actor.Role {
	case model.RoleTeacher:
		switch action {
		case ActionManageSchedule, ActionDeleteSchedule, ActionConfirmBooking, ActionCancelBooking, ActionViewBookings:
			if own.Lecture != nil && own.Lecture.IsTaughtBy(actor.ID) {
				return nil
			}
		}
	case model.RoleStudent:
		switch action {
		case ActionBook, ActionViewBookings:
			return nil
		case ActionCancelBooking:
			if own.BookingUserID == actor.ID {
				return nil
			}
		}
	}

	return ErrForbidden
}
