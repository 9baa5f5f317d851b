// Package notify уведомляет преподавателя о событиях записи. Канал доставки
// скрыт за интерфейсом: ядро не зависит от конкретного мессенджера.
package notify

import (
	"context"

	"github.com/Freeeeeet/lecture_booking/internal/model"
)

type Notifier interface {
	BookingCreated(ctx context.Context, booking *model.Booking, lecture *model.Lecture) error
	BookingConfirmed(ctx context.Context, booking *model.Booking, lecture *model.Lecture) error
	BookingCancelled(ctx context.Context, booking *model.Booking, lecture *model.Lecture) error
}

// Nop используется, когда канал уведомлений не настроен
type Nop struct{}

func (Nop) BookingCreated(ctx context.Context, booking *model.Booking, lecture *model.Lecture) error {
	return nil
}

func (Nop) BookingConfirmed(ctx context.Context, booking *model.Booking, lecture *model.Lecture) error {
	return nil
}

func (Nop) BookingCancelled(ctx context.Context, booking *model.Booking, lecture *model.Lecture) error {
	return nil
}
