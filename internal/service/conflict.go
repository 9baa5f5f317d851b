package service

import "github.com/Freeeeeet/lecture_booking/internal/model"

// ConflictDetector ищет пересечение кандидата с существующими слотами.
// Линейный проход достаточен при реальном числе слотов одной лекции;
// интерфейс позволяет заменить реализацию, не трогая вызывающих.
type ConflictDetector interface {
	// FindConflict возвращает первый непогашенный слот, пересекающийся с
	// кандидатом, или nil. Слот с id excludeID пропускается (ноль — никого
	// не исключать). Вход не модифицируется.
	FindConflict(candidate model.DayInterval, slots []*model.Slot, excludeID int64) *model.Slot
}

type linearConflictDetector struct{}

func NewConflictDetector() ConflictDetector {
	return linearConflictDetector{}
}

func (linearConflictDetector) FindConflict(candidate model.DayInterval, slots []*model.Slot, excludeID int64) *model.Slot {
	for _, slot := range slots {
		if slot.IsExpired || (excludeID != 0 && slot.ID == excludeID) {
			continue
		}
		if slot.Interval().Overlaps(candidate) {
			return slot
		}
	}
	return nil
}
