// Package policy decides what a caller may do. Every function is pure over
// the caller's session and the target resource.
package policy

import "github.com/wadjakorntonsri/shrink-ray/pkg/core/domain"

// LinkQuota is the number of links an account without admin or pro may own.
const LinkQuota = 5

// RequireSession rejects anonymous callers.
func RequireSession(s domain.Session) error {
	if !s.Authenticated() {
		return domain.ErrUnauthorized
	}
	return nil
}

// CheckQuota rejects a new link when a regular account already owns LinkQuota links.
func CheckQuota(s domain.Session, existing int) error {
	u := s.AuthenticatedUser
	if u.IsAdmin || u.IsPro {
		return nil
	}
	if existing >= LinkQuota {
		return domain.ErrQuotaExceeded
	}
	return nil
}

// LinkListView returns the full view only to the owner of the listed links.
func LinkListView(s domain.Session, targetUserID string) domain.ViewMode {
	if s.Authenticated() && s.AuthenticatedUser.UserID == targetUserID {
		return domain.ViewFull
	}
	return domain.ViewRestricted
}

// CanDeleteLink allows the link's owner and admins.
func CanDeleteLink(s domain.Session, link domain.Link) error {
	if err := RequireSession(s); err != nil {
		return err
	}
	if s.AuthenticatedUser.IsAdmin || s.AuthenticatedUser.UserID == link.Owner.ID {
		return nil
	}
	return domain.ErrForbidden
}
