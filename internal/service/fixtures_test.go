package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"dormhop/backend/config"
	"dormhop/backend/internal/model"
	"dormhop/backend/internal/notify"
	"dormhop/backend/internal/repository"
	"dormhop/backend/pkg/clock"
)

// ── test helpers ──

type fixture struct {
	store    *memStore
	repo     *repository.Repository
	clock    *clock.Fake
	cfg      *config.Config
	notifier *recordingNotifier
}

func newFixture() *fixture {
	store := newMemStore()
	return &fixture{
		store: store,
		repo:  newRepository(store),
		clock: clock.NewFake(time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)),
		cfg: &config.Config{
			Auth: config.AuthConfig{
				JWTSecret:          "test-secret-at-least-16",
				AccessTokenTTL:     time.Hour,
				AllowedEmailDomain: "cornell.edu",
			},
			Policy: config.PolicyConfig{RoomGenderMustMatch: true},
		},
		notifier: &recordingNotifier{},
	}
}

// addUser inserts a user directly into the store
func (f *fixture) addUser(netID string, listed bool) *model.User {
	now := f.clock.Now()
	u := model.User{
		UserID:       uuid.NewString(),
		Email:        netID + "@cornell.edu",
		FullName:     "User " + netID,
		ClassYear:    2026,
		IsRoomListed: listed,
		BaseModel:    model.BaseModel{CreatedAt: now, UpdatedAt: now},
	}
	f.store.mu.Lock()
	f.store.users[u.UserID] = u
	f.store.mu.Unlock()
	return &u
}

// addRoom inserts a room owned by owner; each call is one second newer
func (f *fixture) addRoom(owner *model.User, occupancy int, amenities ...string) *model.Room {
	now := f.clock.Now()
	f.clock.Advance(time.Second)
	if amenities == nil {
		amenities = []string{}
	}
	r := model.Room{
		RoomID:     uuid.NewString(),
		OwnerID:    owner.UserID,
		Dorm:       "Mews Hall",
		RoomNumber: "101",
		Occupancy:  occupancy,
		Amenities:  amenities,
		BaseModel:  model.BaseModel{CreatedAt: now, UpdatedAt: now},
	}
	f.store.mu.Lock()
	f.store.rooms[r.RoomID] = r
	f.store.mu.Unlock()
	return &r
}

func (f *fixture) knock(id string) (model.Knock, bool) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	k, ok := f.store.knocks[id]
	return k, ok
}

func (f *fixture) knockCount() int {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return len(f.store.knocks)
}

// recordingNotifier captures published events
type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	userID string
	event  notify.Event
}

func (n *recordingNotifier) Publish(userID string, ev notify.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{userID: userID, event: ev})
}

func (n *recordingNotifier) eventsFor(userID string) []notify.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notify.Event
	for _, e := range n.events {
		if e.userID == userID {
			out = append(out, e.event)
		}
	}
	return out
}
