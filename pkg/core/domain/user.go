package domain

import "time"

// User is the persisted account record. It carries the password hash and
// must never be encoded to a client; use NewUserView for that.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	IsAdmin      bool
	IsPro        bool
	CreatedAt    time.Time
	Links        []Link // Populated by FindByID
}

// Owner is the reduced user projection attached to a link.
type Owner struct {
	ID       string
	Username string
	IsAdmin  bool
	IsPro    bool
}

// Owner returns the user's projection without credentials.
func (u *User) Owner() Owner {
	return Owner{
		ID:       u.ID,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
		IsPro:    u.IsPro,
	}
}
