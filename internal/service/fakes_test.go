package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/lecture_booking/internal/model"
	"github.com/Freeeeeet/lecture_booking/internal/repository"
)

// fakeData разделяемое состояние in-memory хранилищ. Репозитории работают
// под общим мьютексом, транзакции сериализуются fakeTxManager.
type fakeData struct {
	mu sync.Mutex

	slots    map[int64]*model.Slot
	bookings map[int64]*model.Booking
	lectures map[int64]*model.Lecture

	nextSlotID    int64
	nextBookingID int64
}

func newFakeData() *fakeData {
	return &fakeData{
		slots:    make(map[int64]*model.Slot),
		bookings: make(map[int64]*model.Booking),
		lectures: make(map[int64]*model.Lecture),
	}
}

func (d *fakeData) addLecture(l *model.Lecture) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cp := *l
	d.lectures[l.ID] = &cp
}

func (d *fakeData) snapshot() *fakeData {
	d.mu.Lock()
	defer d.mu.Unlock()

	cp := newFakeData()
	cp.nextSlotID = d.nextSlotID
	cp.nextBookingID = d.nextBookingID
	for id, s := range d.slots {
		c := *s
		cp.slots[id] = &c
	}
	for id, b := range d.bookings {
		c := *b
		cp.bookings[id] = &c
	}
	for id, l := range d.lectures {
		c := *l
		cp.lectures[id] = &c
	}
	return cp
}

func (d *fakeData) restore(snap *fakeData) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slots = snap.slots
	d.bookings = snap.bookings
	d.lectures = snap.lectures
	d.nextSlotID = snap.nextSlotID
	d.nextBookingID = snap.nextBookingID
}

func newFakeStores(d *fakeData) repository.Stores {
	return repository.Stores{
		Slots:    &fakeSlotStore{data: d},
		Bookings: &fakeBookingStore{data: d},
		Lectures: &fakeLectureStore{data: d},
	}
}

// fakeTxManager сериализует транзакции и откатывает изменения данных,
// если функция вернула ошибку.
type fakeTxManager struct {
	txMu sync.Mutex
	data *fakeData
}

func (m *fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, stores repository.Stores) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	snap := m.data.snapshot()
	if err := fn(ctx, newFakeStores(m.data)); err != nil {
		m.data.restore(snap)
		return err
	}
	return nil
}

type fakeSlotStore struct {
	data *fakeData
}

func (f *fakeSlotStore) Create(ctx context.Context, slot *model.Slot) error {
	f.data.mu.Lock()
	defer f.data.mu.Unlock()

	for _, s := range f.data.slots {
		if s.LectureID == slot.LectureID && s.Date.Equal(slot.Date) &&
			s.StartTime == slot.StartTime && s.EndTime == slot.EndTime {
			return repository.ErrDuplicateSlot
		}
	}

	f.data.nextSlotID++
	slot.ID = f.data.nextSlotID
	slot.CreatedAt = time.Now()
	cp := *slot
	f.data.slots[slot.ID] = &cp
	return nil
}

func (f *fakeSlotStore) GetByID(ctx context.Context, id int64) (*model.Slot, error) {
	f.data.mu.Lock()
	defer f.data.mu.Unlock()

	s, ok := f.data.slots[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSlotStore) List(ctx context.Context, filter model.SlotFilter) ([]*model.Slot, error) {
	f.data.mu.Lock()
	defer f.data.mu.Unlock()

	var out []*model.Slot
	for _, s := range f.data.slots {
		lecture, ok := f.data.lectures[s.LectureID]
		if !ok || lecture.IsDeleted {
			continue
		}
		if !filter.IncludeExpired && s.IsExpired {
			continue
		}
		if filter.LectureID != 0 && s.LectureID != filter.LectureID {
			continue
		}
		if filter.TeacherID != 0 && !lecture.IsTaughtBy(filter.TeacherID) {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sortSlots(out)
	return out, nil
}

func (f *fakeSlotStore) ListByLecture(ctx context.Context, lectureID int64, includeExpired bool) ([]*model.Slot, error) {
	f.data.mu.Lock()
	defer f.data.mu.Unlock()

	var out []*model.Slot
	for _, s := range f.data.slots {
		if s.LectureID != lectureID {
			continue
		}
		if !includeExpired && s.IsExpired {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sortSlots(out)
	return out, nil
}

func (f *fakeSlotStore) FindByInterval(ctx context.Context, lectureID int64, iv model.DayInterval) (*model.Slot, error) {
	f.data.mu.Lock()
	defer f.data.mu.Unlock()

	for _, s := range f.data.slots {
		if s.LectureID == lectureID && s.Date.Equal(iv.Date) &&
			s.StartTime == iv.Start && s.EndTime == iv.End {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSlotStore) MarkExpired(ctx context.Context, id int64) error {
	f.data.mu.Lock()
	defer f.data.mu.Unlock()

	s, ok := f.data.slots[id]
	if !ok || s.IsExpired {
		return errors.New("slot not found or already expired")
	}
	s.IsExpired = true
	return nil
}

func (f *fakeSlotStore) LockLecture(ctx context.Context, lectureID int64) error {
	// транзакции и так сериализованы fakeTxManager
	return nil
}

func sortSlots(slots []*model.Slot) {
	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].Date.Equal(slots[j].Date) {
			return slots[i].Date.Before(slots[j].Date)
		}
		return slots[i].StartTime < slots[j].StartTime
	})
}

type fakeBookingStore struct {
	data *fakeData
}

func (f *fakeBookingStore) Create(ctx context.Context, booking *model.Booking) error {
	f.data.mu.Lock()
	defer f.data.mu.Unlock()

	for _, b := range f.data.bookings {
		if b.Status.IsActive() && b.LectureID == booking.LectureID && b.Date.Equal(booking.Date) &&
			b.StartTime == booking.StartTime && b.EndTime == booking.EndTime {
			return repository.ErrDuplicateBooking
		}
	}

	f.data.nextBookingID++
	booking.ID = f.data.nextBookingID
	booking.CreatedAt = time.Now()
	cp := *booking
	f.data.bookings[booking.ID] = &cp
	return nil
}

func (f *fakeBookingStore) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	f.data.mu.Lock()
	defer f.data.mu.Unlock()

	b, ok := f.data.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingStore) List(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error) {
	f.data.mu.Lock()
	defer f.data.mu.Unlock()

	var out []*model.Booking
	for _, b := range f.data.bookings {
		if filter.UserID != 0 && b.UserID != filter.UserID {
			continue
		}
		if filter.LectureID != 0 && b.LectureID != filter.LectureID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (f *fakeBookingStore) FindActiveByInterval(ctx context.Context, lectureID int64, iv model.DayInterval) (*model.Booking, error) {
	f.data.mu.Lock()
	defer f.data.mu.Unlock()

	for _, b := range f.data.bookings {
		if b.Status.IsActive() && b.LectureID == lectureID && b.Date.Equal(iv.Date) &&
			b.StartTime == iv.Start && b.EndTime == iv.End {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingStore) UpdateStatus(ctx context.Context, id int64, from, to model.BookingStatus) (bool, error) {
	f.data.mu.Lock()
	defer f.data.mu.Unlock()

	b, ok := f.data.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	return true, nil
}

func (f *fakeBookingStore) CountByStatus(ctx context.Context) (map[model.BookingStatus]int64, error) {
	f.data.mu.Lock()
	defer f.data.mu.Unlock()

	out := make(map[model.BookingStatus]int64)
	for _, b := range f.data.bookings {
		out[b.Status]++
	}
	return out, nil
}

type fakeLectureStore struct {
	data *fakeData
}

func (f *fakeLectureStore) GetByID(ctx context.Context, id int64) (*model.Lecture, error) {
	f.data.mu.Lock()
	defer f.data.mu.Unlock()

	l, ok := f.data.lectures[id]
	if !ok || l.IsDeleted {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}
