package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dormhop/backend/internal/model"
	"dormhop/backend/internal/repository"
	pkgerrors "dormhop/backend/pkg/errors"
)

// ── in-memory store shared by the mock repositories ──

// memStore keeps rows by value so a snapshot can roll a unit of work back
type memStore struct {
	mu     sync.Mutex
	users  map[string]model.User
	rooms  map[string]model.Room
	knocks map[string]model.Knock
	saved  map[string]model.SavedRoom

	// failures injects an error into the named operation, e.g. "knock.MarkAccepted"
	failures map[string]error
	// lockedPairs records LockPair keys in call order
	lockedPairs []string
}

type memSnapshot struct {
	users  map[string]model.User
	rooms  map[string]model.Room
	knocks map[string]model.Knock
	saved  map[string]model.SavedRoom
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]model.User),
		rooms:    make(map[string]model.Room),
		knocks:   make(map[string]model.Knock),
		saved:    make(map[string]model.SavedRoom),
		failures: make(map[string]error),
	}
}

func (s *memStore) fail(op string) error {
	return s.failures[op]
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memSnapshot{
		users:  copyMap(s.users),
		rooms:  copyMap(s.rooms),
		knocks: copyMap(s.knocks),
		saved:  copyMap(s.saved),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users, s.rooms, s.knocks, s.saved = snap.users, snap.rooms, snap.knocks, snap.saved
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// the with* helpers must be called with s.mu held

func (s *memStore) withRoom(u model.User) *model.User {
	for _, r := range s.rooms {
		if r.OwnerID == u.UserID {
			room := r
			u.Room = &room
			break
		}
	}
	return &u
}

func (s *memStore) withOwner(r model.Room) *model.Room {
	if u, ok := s.users[r.OwnerID]; ok {
		r.Owner = &u
	}
	return &r
}

func (s *memStore) withParties(k model.Knock) *model.Knock {
	if u, ok := s.users[k.FromUserID]; ok {
		k.FromUser = &u
	}
	if r, ok := s.rooms[k.ToRoomID]; ok {
		k.ToRoom = s.withOwner(r)
	}
	return &k
}

func newRepository(store *memStore) *repository.Repository {
	repo := &repository.Repository{
		User:      &mockUserRepo{store: store},
		Room:      &mockRoomRepo{store: store},
		Knock:     &mockKnockRepo{store: store},
		SavedRoom: &mockSavedRoomRepo{store: store},
	}
	repo.Tx = &mockTransactor{store: store, repo: repo}
	return repo
}

// ── Mock Transactor ──

// mockTransactor serializes units of work and restores the store when fn fails
type mockTransactor struct {
	txMu  sync.Mutex
	store *memStore
	repo  *repository.Repository
}

func (t *mockTransactor) Transaction(_ context.Context, fn func(tx *repository.Repository) error) error {
	t.txMu.Lock()
	defer t.txMu.Unlock()

	snap := t.store.snapshot()
	if err := fn(t.repo); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	store *memStore
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if err := m.store.fail("user.Create"); err != nil {
		return err
	}
	for _, u := range m.store.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		user.UserID = uuid.NewString()
	}
	row := *user
	row.Room = nil
	m.store.users[user.UserID] = row
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	u, ok := m.store.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m.store.withRoom(u), nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, u := range m.store.users {
		if u.Email == email {
			return m.store.withRoom(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) SetRoomListed(_ context.Context, id string, listed bool) (time.Time, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	u, ok := m.store.users[id]
	if !ok {
		return time.Time{}, gorm.ErrRecordNotFound
	}
	u.IsRoomListed = listed
	u.UpdatedAt = time.Now()
	m.store.users[id] = u
	return u.UpdatedAt, nil
}

// Delete cascades like the foreign keys do
func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if _, ok := m.store.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.store.users, id)
	for rid, r := range m.store.rooms {
		if r.OwnerID == id {
			delete(m.store.rooms, rid)
			for kid, k := range m.store.knocks {
				if k.ToRoomID == rid {
					delete(m.store.knocks, kid)
				}
			}
		}
	}
	for kid, k := range m.store.knocks {
		if k.FromUserID == id {
			delete(m.store.knocks, kid)
		}
	}
	for key, sr := range m.store.saved {
		if sr.UserID == id {
			delete(m.store.saved, key)
		}
	}
	return nil
}

// ── Mock RoomRepository ──

type mockRoomRepo struct {
	store *memStore
}

func (m *mockRoomRepo) Create(_ context.Context, room *model.Room) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, r := range m.store.rooms {
		if r.OwnerID == room.OwnerID {
			return gorm.ErrDuplicatedKey
		}
	}
	if room.RoomID == "" {
		room.RoomID = uuid.NewString()
	}
	row := *room
	row.Owner = nil
	m.store.rooms[room.RoomID] = row
	return nil
}

func (m *mockRoomRepo) GetByID(_ context.Context, id string) (*model.Room, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	r, ok := m.store.rooms[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m.store.withOwner(r), nil
}

func (m *mockRoomRepo) GetByOwner(_ context.Context, ownerID string) (*model.Room, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, r := range m.store.rooms {
		if r.OwnerID == ownerID {
			room := r
			return &room, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) Replace(_ context.Context, room *model.Room) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if _, ok := m.store.rooms[room.RoomID]; !ok {
		return gorm.ErrRecordNotFound
	}
	row := *room
	row.Owner = nil
	m.store.rooms[room.RoomID] = row
	return nil
}

func (m *mockRoomRepo) ListListed(_ context.Context, excludeOwnerID, dorm string) ([]model.Room, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var result []model.Room
	for _, r := range m.store.rooms {
		owner, ok := m.store.users[r.OwnerID]
		if !ok || !owner.IsRoomListed || r.OwnerID == excludeOwnerID {
			continue
		}
		if dorm != "" && r.Dorm != dorm {
			continue
		}
		result = append(result, *m.store.withOwner(r))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].RoomID < result[j].RoomID
	})
	return result, nil
}

// ── Mock KnockRepository ──

type mockKnockRepo struct {
	store *memStore
}

func (m *mockKnockRepo) LockPair(_ context.Context, userA, userB string) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if err := m.store.fail("knock.LockPair"); err != nil {
		return err
	}
	m.store.lockedPairs = append(m.store.lockedPairs, repository.PairKey(userA, userB))
	return nil
}

func (m *mockKnockRepo) Create(_ context.Context, knock *model.Knock) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, k := range m.store.knocks {
		if k.FromUserID == knock.FromUserID && k.ToRoomID == knock.ToRoomID {
			return gorm.ErrDuplicatedKey
		}
	}
	if knock.KnockID == "" {
		knock.KnockID = uuid.NewString()
	}
	row := *knock
	row.FromUser, row.ToRoom = nil, nil
	m.store.knocks[knock.KnockID] = row
	return nil
}

func (m *mockKnockRepo) GetByID(_ context.Context, id string) (*model.Knock, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	k, ok := m.store.knocks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m.store.withParties(k), nil
}

func (m *mockKnockRepo) GetByIDForUpdate(_ context.Context, id string) (*model.Knock, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	k, ok := m.store.knocks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &k, nil
}

func (m *mockKnockRepo) FindByPair(_ context.Context, fromUserID, toRoomID string) (*model.Knock, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, k := range m.store.knocks {
		if k.FromUserID == fromUserID && k.ToRoomID == toRoomID {
			knock := k
			return &knock, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockKnockRepo) MarkAccepted(_ context.Context, ids []string, at time.Time) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if err := m.store.fail("knock.MarkAccepted"); err != nil {
		return err
	}
	updated := 0
	for _, id := range ids {
		k, ok := m.store.knocks[id]
		if !ok || k.Status != model.KnockPending {
			continue
		}
		k.Status = model.KnockAccepted
		accepted := at
		k.AcceptedAt = &accepted
		m.store.knocks[id] = k
		updated++
	}
	if updated != len(ids) {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (m *mockKnockRepo) Delete(_ context.Context, id string) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if _, ok := m.store.knocks[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.store.knocks, id)
	return nil
}

func (m *mockKnockRepo) ListSent(_ context.Context, fromUserID string) ([]model.Knock, error) {
	return m.list(func(k model.Knock) bool { return k.FromUserID == fromUserID }), nil
}

func (m *mockKnockRepo) ListReceived(_ context.Context, toRoomID string) ([]model.Knock, error) {
	return m.list(func(k model.Knock) bool { return k.ToRoomID == toRoomID }), nil
}

func (m *mockKnockRepo) list(match func(model.Knock) bool) []model.Knock {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var result []model.Knock
	for _, k := range m.store.knocks {
		if match(k) {
			result = append(result, *m.store.withParties(k))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].KnockID > result[j].KnockID
	})
	return result
}

// ── Mock SavedRoomRepository ──

type mockSavedRoomRepo struct {
	store *memStore
}

func savedKey(userID, roomID string) string { return userID + "/" + roomID }

func (m *mockSavedRoomRepo) Create(_ context.Context, saved *model.SavedRoom) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	key := savedKey(saved.UserID, saved.RoomID)
	if _, ok := m.store.saved[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	row := *saved
	row.Room = nil
	m.store.saved[key] = row
	return nil
}

func (m *mockSavedRoomRepo) Delete(_ context.Context, userID, roomID string) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	key := savedKey(userID, roomID)
	if _, ok := m.store.saved[key]; !ok {
		return false, nil
	}
	delete(m.store.saved, key)
	return true, nil
}

func (m *mockSavedRoomRepo) ListByUser(_ context.Context, userID string) ([]model.SavedRoom, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var result []model.SavedRoom
	for _, sr := range m.store.saved {
		if sr.UserID != userID {
			continue
		}
		if r, ok := m.store.rooms[sr.RoomID]; ok {
			sr.Room = m.store.withOwner(r)
		}
		result = append(result, sr)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
