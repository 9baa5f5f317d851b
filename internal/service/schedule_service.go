package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/lecture_booking/internal/model"
	"github.com/Freeeeeet/lecture_booking/internal/policy"
	"github.com/Freeeeeet/lecture_booking/internal/repository"
)

// ScheduleService владеет жизненным циклом слотов: создание с проверкой
// пересечений, логическое удаление, выборки. Проверка конфликтов и вставка
// выполняются в одной транзакции под эксклюзивной блокировкой лекции, поэтому
// конкурентные создатели пересекающихся слотов сериализуются.
type ScheduleService struct {
	tx       repository.TxManager
	stores   repository.Stores
	detector ConflictDetector
	logger   *zap.Logger
	clock    func() time.Time
}

func NewScheduleService(tx repository.TxManager, stores repository.Stores, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{
		tx:       tx,
		stores:   stores,
		detector: NewConflictDetector(),
		logger:   logger,
		clock:    time.Now,
	}
}

// SlotInput один элемент пакетного создания слотов
type SlotInput struct {
	LectureID int64
	Date      time.Time
	Start     model.TimeOfDay
	End       model.TimeOfDay
}

// CreateSlot создаёт слот лекции. Пересечение с непогашенным слотом той же
// лекции возвращает ScheduleConflictError с id конфликтующего слота.
func (s *ScheduleService) CreateSlot(ctx context.Context, actor model.Actor, lectureID int64, date time.Time, start, end model.TimeOfDay) (*model.Slot, error) {
	var created *model.Slot

	err := s.tx.WithTx(ctx, func(ctx context.Context, st repository.Stores) error {
		slot, err := s.createSlotInTx(ctx, st, actor, SlotInput{LectureID: lectureID, Date: date, Start: start, End: end})
		if err != nil {
			return err
		}
		created = slot
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Slot created",
		zap.Int64("slot_id", created.ID),
		zap.Int64("lecture_id", lectureID),
		zap.String("interval", created.Interval().String()),
		zap.Int64("actor_id", actor.ID),
	)

	return created, nil
}

// CreateSlotsBatch создаёт несколько слотов в одной транзакции: ошибка любого
// элемента (включая пересечение с более ранним элементом пакета) откатывает
// весь пакет. Возвращает количество созданных слотов.
func (s *ScheduleService) CreateSlotsBatch(ctx context.Context, actor model.Actor, items []SlotInput) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context, st repository.Stores) error {
		for i, item := range items {
			if _, err := s.createSlotInTx(ctx, st, actor, item); err != nil {
				return fmt.Errorf("batch item %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Slot batch created",
		zap.Int("count", len(items)),
		zap.Int64("actor_id", actor.ID),
	)

	return len(items), nil
}

func (s *ScheduleService) createSlotInTx(ctx context.Context, st repository.Stores, actor model.Actor, in SlotInput) (*model.Slot, error) {
	lecture, err := st.Lectures.GetByID(ctx, in.LectureID)
	if err != nil {
		return nil, fmt.Errorf("get lecture: %w", err)
	}
	if lecture == nil {
		return nil, ErrLectureNotFound
	}

	if err := policy.Authorize(actor, policy.ActionManageSchedule, policy.Ownership{Lecture: lecture}); err != nil {
		return nil, err
	}

	iv, err := model.NewDayInterval(in.Date, in.Start, in.End)
	if err != nil {
		return nil, err
	}
	if iv.Date.Before(model.NormalizeDate(s.clock())) {
		return nil, ErrPastDate
	}

	// сериализуем проверку и вставку по лекции
	if err := st.Slots.LockLecture(ctx, in.LectureID); err != nil {
		return nil, err
	}

	// точный дубликат запрещён даже с погашенным слотом
	exact, err := st.Slots.FindByInterval(ctx, in.LectureID, iv)
	if err != nil {
		return nil, fmt.Errorf("find exact interval: %w", err)
	}
	if exact != nil {
		return nil, &ScheduleConflictError{SlotID: exact.ID}
	}

	existing, err := st.Slots.ListByLecture(ctx, in.LectureID, false)
	if err != nil {
		return nil, fmt.Errorf("list active slots: %w", err)
	}
	if conflict := s.detector.FindConflict(iv, existing, 0); conflict != nil {
		return nil, &ScheduleConflictError{SlotID: conflict.ID}
	}

	slot := &model.Slot{
		LectureID: in.LectureID,
		Date:      iv.Date,
		StartTime: iv.Start,
		EndTime:   iv.End,
	}

	if err := st.Slots.Create(ctx, slot); err != nil {
		// гонка, проскочившая мимо блокировки, гасится уникальным индексом
		if errors.Is(err, repository.ErrDuplicateSlot) {
			return nil, &ScheduleConflictError{}
		}
		return nil, err
	}

	return slot, nil
}

// DeleteSlot логически удаляет слот: строка остаётся, IsExpired взводится.
// Повторное удаление возвращает ErrAlreadyExpired.
func (s *ScheduleService) DeleteSlot(ctx context.Context, actor model.Actor, slotID int64) error {
	err := s.tx.WithTx(ctx, func(ctx context.Context, st repository.Stores) error {
		slot, err := st.Slots.GetByID(ctx, slotID)
		if err != nil {
			return fmt.Errorf("get slot: %w", err)
		}
		if slot == nil {
			return ErrSlotNotFound
		}

		lecture, err := st.Lectures.GetByID(ctx, slot.LectureID)
		if err != nil {
			return fmt.Errorf("get lecture: %w", err)
		}
		if lecture == nil {
			return ErrLectureNotFound
		}

		if err := policy.Authorize(actor, policy.ActionDeleteSchedule, policy.Ownership{Lecture: lecture}); err != nil {
			return err
		}

		if slot.IsExpired {
			return ErrAlreadyExpired
		}

		return st.Slots.MarkExpired(ctx, slotID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Slot expired",
		zap.Int64("slot_id", slotID),
		zap.Int64("actor_id", actor.ID),
	)

	return nil
}

// ListSlots возвращает слоты по фильтру, упорядоченные по дате и началу
func (s *ScheduleService) ListSlots(ctx context.Context, filter model.SlotFilter) ([]*model.Slot, error) {
	return s.stores.Slots.List(ctx, filter)
}

// GetSlot получает слот по ID
func (s *ScheduleService) GetSlot(ctx context.Context, slotID int64) (*model.Slot, error) {
	slot, err := s.stores.Slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}
	return slot, nil
}
