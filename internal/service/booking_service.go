package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/lecture_booking/internal/model"
	"github.com/Freeeeeet/lecture_booking/internal/notify"
	"github.com/Freeeeeet/lecture_booking/internal/policy"
	"github.com/Freeeeeet/lecture_booking/internal/repository"
)

// BookingService владеет жизненным циклом записей: создание со снимком
// интервала слота, подтверждение, отмена, выборки. Не более одной активной
// (pending/confirmed) записи на интервал лекции — проверка и вставка идут
// в одной транзакции, гонку страхует частичный уникальный индекс.
type BookingService struct {
	tx       repository.TxManager
	stores   repository.Stores
	notifier notify.Notifier
	logger   *zap.Logger
	clock    func() time.Time
}

func NewBookingService(tx repository.TxManager, stores repository.Stores, notifier notify.Notifier, logger *zap.Logger) *BookingService {
	return &BookingService{
		tx:       tx,
		stores:   stores,
		notifier: notifier,
		logger:   logger,
		clock:    time.Now,
	}
}

// BookSlot записывает студента на активный слот с точно совпадающим
// интервалом. Дата и время копируются в запись, статус pending.
func (s *BookingService) BookSlot(ctx context.Context, actor model.Actor, lectureID int64, date time.Time, start, end model.TimeOfDay) (*model.Booking, error) {
	if err := policy.Authorize(actor, policy.ActionBook, policy.Ownership{}); err != nil {
		return nil, err
	}

	iv, err := model.NewDayInterval(date, start, end)
	if err != nil {
		return nil, err
	}
	if iv.Date.Before(model.NormalizeDate(s.clock())) {
		return nil, ErrPastDate
	}

	var (
		booking *model.Booking
		lecture *model.Lecture
	)

	err = s.tx.WithTx(ctx, func(ctx context.Context, st repository.Stores) error {
		lecture, err = st.Lectures.GetByID(ctx, lectureID)
		if err != nil {
			return fmt.Errorf("get lecture: %w", err)
		}
		if lecture == nil {
			return ErrLectureNotFound
		}

		slot, err := st.Slots.FindByInterval(ctx, lectureID, iv)
		if err != nil {
			return fmt.Errorf("find slot: %w", err)
		}
		if slot == nil {
			return ErrSlotNotFound
		}
		if slot.IsExpired {
			return ErrSlotExpired
		}

		existing, err := st.Bookings.FindActiveByInterval(ctx, lectureID, iv)
		if err != nil {
			return fmt.Errorf("find active booking: %w", err)
		}
		if existing != nil {
			return ErrAlreadyBooked
		}

		booking = &model.Booking{
			UserID:    actor.ID,
			LectureID: lectureID,
			Date:      iv.Date,
			StartTime: iv.Start,
			EndTime:   iv.End,
			Status:    model.BookingStatusPending,
		}

		if err := st.Bookings.Create(ctx, booking); err != nil {
			// конкурент успел вставить активную запись на тот же интервал
			if errors.Is(err, repository.ErrDuplicateBooking) {
				return ErrAlreadyBooked
			}
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Slot booked",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("user_id", actor.ID),
		zap.Int64("lecture_id", lectureID),
		zap.String("interval", booking.Interval().String()),
	)

	s.notifyBooking(ctx, s.notifier.BookingCreated, booking, lecture)

	return booking, nil
}

// ConfirmBooking подтверждает запись: pending -> confirmed
func (s *BookingService) ConfirmBooking(ctx context.Context, actor model.Actor, bookingID int64) (*model.Booking, error) {
	booking, lecture, err := s.transition(ctx, actor, bookingID, model.BookingStatusConfirmed, policy.ActionConfirmBooking)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking confirmed",
		zap.Int64("booking_id", bookingID),
		zap.Int64("actor_id", actor.ID),
	)

	s.notifyBooking(ctx, s.notifier.BookingConfirmed, booking, lecture)

	return booking, nil
}

// CancelBooking отменяет запись из pending или confirmed; cancelled терминален
func (s *BookingService) CancelBooking(ctx context.Context, actor model.Actor, bookingID int64) (*model.Booking, error) {
	booking, lecture, err := s.transition(ctx, actor, bookingID, model.BookingStatusCancelled, policy.ActionCancelBooking)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking cancelled",
		zap.Int64("booking_id", bookingID),
		zap.Int64("actor_id", actor.ID),
	)

	s.notifyBooking(ctx, s.notifier.BookingCancelled, booking, lecture)

	return booking, nil
}

func (s *BookingService) transition(ctx context.Context, actor model.Actor, bookingID int64, target model.BookingStatus, action policy.Action) (*model.Booking, *model.Lecture, error) {
	var (
		booking *model.Booking
		lecture *model.Lecture
	)

	err := s.tx.WithTx(ctx, func(ctx context.Context, st repository.Stores) error {
		var err error
		booking, err = st.Bookings.GetByID(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("get booking: %w", err)
		}
		if booking == nil {
			return ErrBookingNotFound
		}

		lecture, err = st.Lectures.GetByID(ctx, booking.LectureID)
		if err != nil {
			return fmt.Errorf("get lecture: %w", err)
		}

		own := policy.Ownership{Lecture: lecture, BookingUserID: booking.UserID}
		if err := policy.Authorize(actor, action, own); err != nil {
			return err
		}

		if !booking.Status.CanTransitionTo(target) {
			return &TransitionError{BookingID: bookingID, Current: booking.Status, Requested: target}
		}

		updated, err := st.Bookings.UpdateStatus(ctx, bookingID, booking.Status, target)
		if err != nil {
			return err
		}
		if !updated {
			// статус сменили между чтением и обновлением
			return &TransitionError{BookingID: bookingID, Current: booking.Status, Requested: target}
		}

		booking.Status = target
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return booking, lecture, nil
}

// ListBookings возвращает записи по фильтру. Студент видит только свои,
// преподаватель — записи своих лекций, администратор — любые.
func (s *BookingService) ListBookings(ctx context.Context, actor model.Actor, filter model.BookingFilter) ([]*model.Booking, error) {
	if actor.Role == model.RoleStudent {
		filter.UserID = actor.ID
	} else if actor.Role != model.RoleAdmin {
		var lecture *model.Lecture
		if filter.LectureID != 0 {
			var err error
			lecture, err = s.stores.Lectures.GetByID(ctx, filter.LectureID)
			if err != nil {
				return nil, fmt.Errorf("get lecture: %w", err)
			}
		}
		if err := policy.Authorize(actor, policy.ActionViewBookings, policy.Ownership{Lecture: lecture}); err != nil {
			return nil, err
		}
	}

	return s.stores.Bookings.List(ctx, filter)
}

// Stats возвращает количество записей по статусам, только для администратора
func (s *BookingService) Stats(ctx context.Context, actor model.Actor) (map[model.BookingStatus]int64, error) {
	if err := policy.Authorize(actor, policy.ActionViewStats, policy.Ownership{}); err != nil {
		return nil, err
	}
	return s.stores.Bookings.CountByStatus(ctx)
}

// notifyBooking отправляет уведомление после коммита; сбой доставки не
// влияет на результат операции
func (s *BookingService) notifyBooking(ctx context.Context, send func(context.Context, *model.Booking, *model.Lecture) error, booking *model.Booking, lecture *model.Lecture) {
	if lecture == nil {
		return
	}
	if err := send(ctx, booking, lecture); err != nil {
		s.logger.Warn("Failed to send booking notification",
			zap.Int64("booking_id", booking.ID),
			zap.Error(err),
		)
	}
}
