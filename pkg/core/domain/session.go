package domain

// SessionUser is the identity stored in a session after login.
type SessionUser struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	IsPro    bool   `json:"isPro"`
	IsAdmin  bool   `json:"isAdmin"`
}

// Session is the per-request view of the caller's session. Handlers receive
// it by value; only login and logout replace what the store holds.
type Session struct {
	IsLoggedIn        bool        `json:"isLoggedIn"`
	AuthenticatedUser SessionUser `json:"authenticatedUser"`
}

// Anonymous is the session of a caller without a valid session cookie.
func Anonymous() Session {
	return Session{}
}

// NewSession builds the logged in session for u.
func NewSession(u *User) Session {
	return Session{
		IsLoggedIn: true,
		AuthenticatedUser: SessionUser{
			UserID:   u.ID,
			Username: u.Username,
			IsPro:    u.IsPro,
			IsAdmin:  u.IsAdmin,
		},
	}
}

func (s Session) Authenticated() bool {
	return s.IsLoggedIn && s.AuthenticatedUser.UserID != ""
}

func (s Session) UserID() string {
	if !s.Authenticated() {
		return ""
	}
	return s.AuthenticatedUser.UserID
}
