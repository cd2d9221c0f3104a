// Package gatewaytest provides an in-memory gateway.Client for tests.
package gatewaytest

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/showcase/internal/common"
	"github.com/dmitrijs2005/showcase/internal/server/models"
	"github.com/google/uuid"
)

// Memory keeps profiles in a map and records every call in order.
// LookupErr and CreateErr, when set, are returned instead of touching the map.
type Memory struct {
	mu       sync.Mutex
	profiles map[string]models.UserProfile
	calls    []string

	LookupErr error
	CreateErr error

	// BeforeLookup, if set, runs at the start of every LookupUser.
	BeforeLookup func(ctx context.Context, email string)
}

func NewMemory(profiles ...models.UserProfile) *Memory {
	m := &Memory{profiles: make(map[string]models.UserProfile)}
	for _, p := range profiles {
		m.profiles[p.Email] = p
	}
	return m
}

func (m *Memory) LookupUser(ctx context.Context, email string) (*models.UserProfile, error) {
	if m.BeforeLookup != nil {
		m.BeforeLookup(ctx, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, "lookup:"+email)

	if m.LookupErr != nil {
		return nil, m.LookupErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, ok := m.profiles[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &p, nil
}

// CreateUser always inserts, like the real service does; a second profile
// for the same email replaces the first and is counted by Creates.
func (m *Memory) CreateUser(ctx context.Context, name, email, avatarURL string) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, "create:"+email)

	if m.CreateErr != nil {
		return nil, m.CreateErr
	}

	p := models.UserProfile{ID: uuid.NewString(), Name: name, Email: email, AvatarURL: avatarURL}
	m.profiles[email] = p
	return &p, nil
}

// Calls returns the recorded calls, e.g. "lookup:a@x.com", "create:a@x.com".
func (m *Memory) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Creates counts CreateUser calls for email.
func (m *Memory) Creates(email string) int {
	n := 0
	for _, c := range m.Calls() {
		if c == "create:"+email {
			n++
		}
	}
	return n
}
