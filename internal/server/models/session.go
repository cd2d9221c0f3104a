package models

import (
	"maps"
	"time"
)

// Session is the externally visible session object. User starts with the
// provider-asserted name, email and image and gains profile fields once
// enriched.
type Session struct {
	User    map[string]any `json:"user"`
	Expires time.Time      `json:"expires"`
}

// Clone returns a copy whose User map can be modified freely.
func (s Session) Clone() Session {
	return Session{User: maps.Clone(s.User), Expires: s.Expires}
}

// Email returns user.email, or "" when it is missing or not a string.
func (s Session) Email() string {
	email, _ := s.User["email"].(string)
	return email
}

// AsMap renders the session as plain JSON-like values, with Expires in RFC 3339.
func (s Session) AsMap() map[string]any {
	user := make(map[string]any, len(s.User))
	maps.Copy(user, s.User)

	out := map[string]any{"user": user}
	if !s.Expires.IsZero() {
		out["expires"] = s.Expires.UTC().Format(time.RFC3339)
	}
	return out
}
