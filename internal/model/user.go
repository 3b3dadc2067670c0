package model

// UnknownUser is the creator placeholder used when a user lookup misses.
const UnknownUser = "Unknown"

// User is an account user retrieved from the SOAP AccountUser object.
type User struct {
	ID            string   `json:"userId"`
	Email         string   `json:"email"`
	ActiveFlag    bool     `json:"activeFlag"`
	CreatedDate   string   `json:"createdDate"`
	IsAPIUser     bool     `json:"isApiUser"`
	LastLogin     string   `json:"lastLogin"`
	BusinessUnits []string `json:"businessUnits"`
}

// UserDirectory is a read-only lookup table from user ID to user record.
// It is built once per extraction request and shared across concurrent
// enrichment tasks without locking.
type UserDirectory map[string]User

// NewUserDirectory indexes users by ID. Users without an ID are skipped.
func NewUserDirectory(users []User) UserDirectory {
	dir := make(UserDirectory, len(users))
	for _, u := range users {
		if u.ID == "" {
			continue
		}
		dir[u.ID] = u
	}
	return dir
}

// EmailFor resolves a user ID to an email address. Unset IDs, missing
// users, and users without an email all resolve to UnknownUser, so the
// result is always a non-empty string.
func (d UserDirectory) EmailFor(userID string) string {
	if userID == "" {
		return UnknownUser
	}
	u, ok := d[userID]
	if !ok || u.Email == "" {
		return UnknownUser
	}
	return u.Email
}
