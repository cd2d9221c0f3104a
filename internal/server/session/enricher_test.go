package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/showcase/internal/common"
	"github.com/dmitrijs2005/showcase/internal/logging"
	"github.com/dmitrijs2005/showcase/internal/server/gateway/gatewaytest"
	"github.com/dmitrijs2005/showcase/internal/server/models"
	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
)

var expires = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func baseSession() models.Session {
	return models.Session{
		User: map[string]any{
			"name":  "Alice",
			"email": "a@x.com",
			"image": "https://img/a.png",
		},
		Expires: expires,
	}
}

func strPtr(s string) *string { return &s }

func TestEnrich_MergesProfile(t *testing.T) {
	gw := gatewaytest.NewMemory(models.UserProfile{ID: "u1", Email: "a@x.com", AvatarURL: "x"})
	e := NewEnricher(gw, logging.NopLogger{})

	got := e.Enrich(context.Background(), baseSession())

	want := models.Session{
		User: map[string]any{
			"name":      "Alice",
			"email":     "a@x.com",
			"image":     "https://img/a.png",
			"id":        "u1",
			"avatarUrl": "x",
		},
		Expires: expires,
	}
	if diff := deep.Equal(got, want); diff != nil {
		t.Error(diff)
	}
}

func TestEnrich_ProfileWinsOnCollision(t *testing.T) {
	gw := gatewaytest.NewMemory(models.UserProfile{
		ID:          "u1",
		Name:        "Alice Liddell",
		Email:       "a@x.com",
		Description: strPtr("explorer"),
		GithubURL:   strPtr("https://github.com/alice"),
	})
	e := NewEnricher(gw, logging.NopLogger{})

	got := e.Enrich(context.Background(), baseSession())

	assert.Equal(t, "Alice Liddell", got.User["name"])
	assert.Equal(t, "explorer", got.User["description"])
	assert.Equal(t, "https://github.com/alice", got.User["githubUrl"])
	assert.NotContains(t, got.User, "linkedInUrl")
	assert.Equal(t, expires, got.Expires)
}

func TestEnrich_DoesNotModifyBase(t *testing.T) {
	gw := gatewaytest.NewMemory(models.UserProfile{ID: "u1", Email: "a@x.com"})
	e := NewEnricher(gw, logging.NopLogger{})

	base := baseSession()
	_ = e.Enrich(context.Background(), base)

	if diff := deep.Equal(base, baseSession()); diff != nil {
		t.Error(diff)
	}
}

func TestEnrich_FailsOpen(t *testing.T) {
	tests := []struct {
		name      string
		gw        *gatewaytest.Memory
		base      models.Session
		wantCalls int
	}{
		{
			name:      "no profile",
			gw:        gatewaytest.NewMemory(),
			base:      baseSession(),
			wantCalls: 1,
		},
		{
			name: "gateway failure",
			gw: func() *gatewaytest.Memory {
				m := gatewaytest.NewMemory(models.UserProfile{ID: "u1", Email: "a@x.com"})
				m.LookupErr = errors.Join(common.ErrGateway, errors.New("timeout"))
				return m
			}(),
			base:      baseSession(),
			wantCalls: 1,
		},
		{
			name:      "no email",
			gw:        gatewaytest.NewMemory(),
			base:      models.Session{User: map[string]any{"name": "Alice"}, Expires: expires},
			wantCalls: 0,
		},
		{
			name:      "email not a string",
			gw:        gatewaytest.NewMemory(),
			base:      models.Session{User: map[string]any{"email": 42}, Expires: expires},
			wantCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEnricher(tt.gw, logging.NopLogger{})

			got := e.Enrich(context.Background(), tt.base)

			if diff := deep.Equal(got, tt.base); diff != nil {
				t.Error(diff)
			}
			assert.Len(t, tt.gw.Calls(), tt.wantCalls)
		})
	}
}

func TestEnrich_QueriesEveryTime(t *testing.T) {
	gw := gatewaytest.NewMemory(models.UserProfile{ID: "u1", Email: "a@x.com"})
	e := NewEnricher(gw, logging.NopLogger{})

	e.Enrich(context.Background(), baseSession())
	e.Enrich(context.Background(), baseSession())

	assert.Equal(t, []string{"lookup:a@x.com", "lookup:a@x.com"}, gw.Calls())
}
