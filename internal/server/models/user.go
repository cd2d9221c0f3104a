// Package models holds the data shapes shared by the session core:
// external identities, user profiles and session views.
package models

// ExternalIdentity is what the identity provider asserts at sign-in time.
// Email is the natural key for every internal lookup.
type ExternalIdentity struct {
	Name      string
	Email     string
	AvatarURL string
}

// UserProfile is owned by the user-data service. The core only reads and
// creates it through the gateway.
type UserProfile struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Description *string `json:"description"`
	AvatarURL   string  `json:"avatarUrl"`
	GithubURL   *string `json:"githubUrl"`
	LinkedInURL *string `json:"linkedInUrl"`
}

// Fields returns the profile as session attributes. Empty and absent values
// are left out so they never shadow what the provider asserted.
func (p *UserProfile) Fields() map[string]any {
	fields := make(map[string]any, 7)

	put := func(key, value string) {
		if value != "" {
			fields[key] = value
		}
	}
	putOpt := func(key string, value *string) {
		if value != nil {
			put(key, *value)
		}
	}

	put("id", p.ID)
	put("name", p.Name)
	put("email", p.Email)
	putOpt("description", p.Description)
	put("avatarUrl", p.AvatarURL)
	putOpt("githubUrl", p.GithubURL)
	putOpt("linkedInUrl", p.LinkedInURL)

	return fields
}
