package domain

import "time"

// ViewMode selects how much of a link is exposed to the caller.
type ViewMode int

const (
	ViewRestricted ViewMode = iota
	ViewFull
)

func (m ViewMode) String() string {
	if m == ViewFull {
		return "full"
	}
	return "restricted"
}

// UserView is the public shape of an account.
type UserView struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	IsPro    bool   `json:"isPro"`
}

func NewUserView(u *User) UserView {
	return UserView{
		UserID:   u.ID,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
		IsPro:    u.IsPro,
	}
}

// OwnerView is the owner embedded in a link view. IsPro is only set in the
// full view.
type OwnerView struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	IsPro    *bool  `json:"isPro,omitempty"`
}

// LinkView is the public shape of a link. The counters are nil in the
// restricted view so they are left out of the JSON entirely.
type LinkView struct {
	LinkID         string     `json:"linkId"`
	OriginalURL    string     `json:"originalUrl"`
	NumHits        *int64     `json:"numHits,omitempty"`
	LastAccessedOn *time.Time `json:"lastAccessedOn,omitempty"`
	User           OwnerView  `json:"user"`
}

// ProjectLink is the only conversion from a Link record to what clients see.
func ProjectLink(l Link, mode ViewMode) LinkView {
	v := LinkView{
		LinkID:      l.ID,
		OriginalURL: l.OriginalURL,
		User: OwnerView{
			UserID:   l.Owner.ID,
			Username: l.Owner.Username,
			IsAdmin:  l.Owner.IsAdmin,
		},
	}
	if mode == ViewFull {
		hits := l.NumHits
		accessed := l.LastAccessedOn
		isPro := l.Owner.IsPro
		v.NumHits = &hits
		v.LastAccessedOn = &accessed
		v.User.IsPro = &isPro
	}
	return v
}

func ProjectLinks(links []Link, mode ViewMode) []LinkView {
	views := make([]LinkView, 0, len(links))
	for _, l := range links {
		views = append(views, ProjectLink(l, mode))
	}
	return views
}
