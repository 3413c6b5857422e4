package postgres

import (
	"time"

	"github.com/wadjakorntonsri/shrink-ray/pkg/core/domain"
)

type UserModel struct {
	UserID       string      `gorm:"primaryKey;size:36"`
	Username     string      `gorm:"uniqueIndex;not null"`
	PasswordHash string      `gorm:"not null"`
	IsAdmin      bool        `gorm:"not null;default:false"`
	IsPro        bool        `gorm:"not null;default:false"`
	CreatedAt    time.Time
	Links        []LinkModel `gorm:"foreignKey:UserID;references:UserID"`
}

func (UserModel) TableName() string {
	return "users"
}

type LinkModel struct {
	LinkID         string    `gorm:"primaryKey"`
	OriginalURL    string    `gorm:"type:text;not null"`
	NumHits        int64     `gorm:"not null;default:0;check:num_hits_non_negative,num_hits >= 0"`
	LastAccessedOn time.Time `gorm:"not null"`
	UserID         string    `gorm:"size:36;not null;index"`
	User           UserModel `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE"`
}

func (LinkModel) TableName() string {
	return "links"
}

func (m *UserModel) toEntity() *domain.User {
	u := &domain.User{
		ID:           m.UserID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		IsAdmin:      m.IsAdmin,
		IsPro:        m.IsPro,
		CreatedAt:    m.CreatedAt,
	}
	if m.Links != nil {
		owner := u.Owner()
		u.Links = make([]domain.Link, 0, len(m.Links))
		for i := range m.Links {
			u.Links = append(u.Links, m.Links[i].toEntity(owner))
		}
	}
	return u
}

func (m *LinkModel) toEntity(owner domain.Owner) domain.Link {
	return domain.Link{
		ID:             m.LinkID,
		OriginalURL:    m.OriginalURL,
		Owner:          owner,
		NumHits:        m.NumHits,
		LastAccessedOn: m.LastAccessedOn,
	}
}

// ownerOf projects the preloaded user of a link.
func (m *LinkModel) ownerOf() domain.Owner {
	return domain.Owner{
		ID:       m.User.UserID,
		Username: m.User.Username,
		IsAdmin:  m.User.IsAdmin,
		IsPro:    m.User.IsPro,
	}
}
