// Package model defines domain entities for the application.
package model

import "time"

// Credentials holds the Marketing Cloud API credentials supplied by the
// caller. They are held only for the duration of a token request and are
// never persisted or logged in full.
type Credentials struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	Subdomain    string `json:"subdomain"`
	AccountMID   string `json:"accountMID"`
}

// MissingFields returns the names of required fields that are empty.
func (c Credentials) MissingFields() []string {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "clientId")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "clientSecret")
	}
	if c.Subdomain == "" {
		missing = append(missing, "subdomain")
	}
	if c.AccountMID == "" {
		missing = append(missing, "accountMID")
	}
	return missing
}

// RedactedClientID returns a loggable prefix of the client ID.
func (c Credentials) RedactedClientID() string {
	if len(c.ClientID) <= 5 {
		return "..."
	}
	return c.ClientID[:5] + "..."
}

// Token is a bearer token scoped to one subdomain. Expiry is explicit:
// the service does not refresh tokens, callers re-authenticate after
// ExpiresAt.
type Token struct {
	AccessToken string    `json:"accessToken"`
	Subdomain   string    `json:"subdomain"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Expired reports whether the token is past its expiry. A zero ExpiresAt
// means the upstream did not report a lifetime and the token is assumed
// live.
func (t Token) Expired() bool {
	return !t.ExpiresAt.IsZero() && time.Now().After(t.ExpiresAt)
}
