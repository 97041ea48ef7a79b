package engine

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/escape-room-reservation/internal/model"
	"github.com/iliyamo/escape-room-reservation/internal/repository"
)

// fakeStore is an in-memory implementation of ReservationStore,
// WaitingStore and ScheduleDirectory with the same error contract as
// the MySQL repositories. The engines are exercised against it so the
// tests cover the business rules without a database.
type fakeStore struct {
	mu           sync.Mutex
	nextResID    uint64
	nextEntryID  uint64
	seq          map[uint64]uint64
	schedules    map[uint64]model.Schedule
	reservations map[uint64]*model.Reservation
	entries      map[uint64]*model.WaitingEntry
}

func newFakeStore(scheduleIDs ...uint64) *fakeStore {
	s := &fakeStore{
		seq:          make(map[uint64]uint64),
		schedules:    make(map[uint64]model.Schedule),
		reservations: make(map[uint64]*model.Reservation),
		entries:      make(map[uint64]*model.WaitingEntry),
	}
	for _, id := range scheduleIDs {
		s.schedules[id] = model.Schedule{ID: id, ThemeID: 1, Date: "2026-09-01", Time: "13:00"}
	}
	return s
}

func (s *fakeStore) GetSchedule(_ context.Context, id uint64) (model.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.schedules[id]
	if !ok {
		return model.Schedule{}, repository.ErrNotFound
	}
	return sc, nil
}

func (s *fakeStore) CreateActive(_ context.Context, scheduleID, memberID uint64) (model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reservations {
		if r.ScheduleID == scheduleID && r.Status == model.ReservationActive {
			return model.Reservation{}, repository.ErrConflict
		}
	}
	s.nextResID++
	r := &model.Reservation{
		ID:         s.nextResID,
		ScheduleID: scheduleID,
		MemberID:   memberID,
		Status:     model.ReservationActive,
		CreatedAt:  time.Now(),
	}
	s.reservations[r.ID] = r
	return *r, nil
}

func (s *fakeStore) Get(_ context.Context, id uint64) (model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok {
		return model.Reservation{}, repository.ErrNotFound
	}
	return *r, nil
}

func (s *fakeStore) ActiveBySchedule(_ context.Context, scheduleID uint64) (model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reservations {
		if r.ScheduleID == scheduleID && r.Status == model.ReservationActive {
			return *r, nil
		}
	}
	return model.Reservation{}, repository.ErrNotFound
}

func (s *fakeStore) Cancel(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok || r.Status != model.ReservationActive {
		return repository.ErrNotFound
	}
	r.Status = model.ReservationCancelled
	return nil
}

func (s *fakeStore) Approve(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.Approved = true
	return nil
}

func (s *fakeStore) ListBySlot(_ context.Context, themeID uint64, _ string) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Reservation
	for _, r := range s.reservations {
		sc, ok := s.schedules[r.ScheduleID]
		if ok && sc.ThemeID == themeID && r.Status == model.ReservationActive {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) ListByMember(_ context.Context, memberID uint64) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Reservation
	for _, r := range s.reservations {
		if r.MemberID == memberID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *fakeStore) Append(_ context.Context, scheduleID, memberID uint64) (model.WaitingEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schedules[scheduleID]; !ok {
		return model.WaitingEntry{}, repository.ErrNotFound
	}
	for _, e := range s.entries {
		if e.ScheduleID == scheduleID && e.MemberID == memberID {
			return model.WaitingEntry{}, repository.ErrConflict
		}
	}
	s.seq[scheduleID]++
	s.nextEntryID++
	e := &model.WaitingEntry{
		ID:         s.nextEntryID,
		ScheduleID: scheduleID,
		MemberID:   memberID,
		SeqNo:      s.seq[scheduleID],
		CreatedAt:  time.Now(),
	}
	s.entries[e.ID] = e
	return *e, nil
}

func (s *fakeStore) GetEntry(ctx context.Context, id uint64) (model.WaitingEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return model.WaitingEntry{}, repository.ErrNotFound
	}
	return *e, nil
}

func (s *fakeStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *fakeStore) Head(_ context.Context, scheduleID uint64) (model.WaitingEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var head *model.WaitingEntry
	for _, e := range s.entries {
		if e.ScheduleID != scheduleID {
			continue
		}
		if head == nil || e.SeqNo < head.SeqNo {
			head = e
		}
	}
	if head == nil {
		return model.WaitingEntry{}, repository.ErrNotFound
	}
	return *head, nil
}

func (s *fakeStore) ListEntriesByMember(_ context.Context, memberID uint64) ([]model.WaitingEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.WaitingEntry
	for _, e := range s.entries {
		if e.MemberID != memberID {
			continue
		}
		entry := *e
		var rank uint64
		for _, other := range s.entries {
			if other.ScheduleID == entry.ScheduleID && other.SeqNo <= entry.SeqNo {
				rank++
			}
		}
		entry.Rank = rank
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// waitingView adapts fakeStore's entry methods to the WaitingStore
// names, which collide with the reservation methods on the shared
// struct.
type waitingView struct{ s *fakeStore }

func (v waitingView) Append(ctx context.Context, scheduleID, memberID uint64) (model.WaitingEntry, error) {
	return v.s.Append(ctx, scheduleID, memberID)
}
func (v waitingView) Get(ctx context.Context, id uint64) (model.WaitingEntry, error) {
	return v.s.GetEntry(ctx, id)
}
func (v waitingView) Delete(ctx context.Context, id uint64) error { return v.s.Delete(ctx, id) }
func (v waitingView) Head(ctx context.Context, scheduleID uint64) (model.WaitingEntry, error) {
	return v.s.Head(ctx, scheduleID)
}
func (v waitingView) ListByMember(ctx context.Context, memberID uint64) ([]model.WaitingEntry, error) {
	return v.s.ListEntriesByMember(ctx, memberID)
}

type fixture struct {
	store   *fakeStore
	res     *ReservationEngine
	waiting *WaitingEngine
}

func newFixture(scheduleIDs ...uint64) *fixture {
	store := newFakeStore(scheduleIDs...)
	re, we := New(store, waitingView{store}, store)
	return &fixture{store: store, res: re, waiting: we}
}

var (
	alice = model.Member{ID: 1, Role: model.RoleUser}
	bob   = model.Member{ID: 2, Role: model.RoleUser}
	carol = model.Member{ID: 3, Role: model.RoleUser}
	admin = model.Member{ID: 9, Role: model.RoleAdmin}
	nobody model.Member
)
