package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wadjakorntonsri/shrink-ray/pkg/core/domain"
	"github.com/wadjakorntonsri/shrink-ray/pkg/ports"
)

// CookieName is shared by every store.
const CookieName = "session"

var ErrInvalidSession = errors.New("invalid session")

type claims struct {
	IsLoggedIn        bool               `json:"isLoggedIn"`
	AuthenticatedUser domain.SessionUser `json:"authenticatedUser"`
	jwt.RegisteredClaims
}

// CookieStore keeps the whole session in an HS256-signed JWT cookie.
type CookieStore struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewCookieStore(secret string, ttl time.Duration, secure bool) *CookieStore {
	return &CookieStore{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
	}
}

// Load returns the anonymous session when no cookie is present. A cookie that
// fails verification also yields the anonymous session, along with an error.
func (s *CookieStore) Load(r *http.Request) (domain.Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return domain.Anonymous(), nil
	}

	c := &claims{}
	token, err := jwt.ParseWithClaims(cookie.Value, c, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return domain.Anonymous(), fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	return domain.Session{
		IsLoggedIn:        c.IsLoggedIn,
		AuthenticatedUser: c.AuthenticatedUser,
	}, nil
}

func (s *CookieStore) Save(w http.ResponseWriter, r *http.Request, session domain.Session) error {
	now := time.Now()
	expirationTime := now.Add(s.ttl)

	c := &claims{
		IsLoggedIn:        session.IsLoggedIn,
		AuthenticatedUser: session.AuthenticatedUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.AuthenticatedUser.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return err
	}

	setCookie(w, tokenString, expirationTime, s.secure)
	return nil
}

func (s *CookieStore) Clear(w http.ResponseWriter, r *http.Request) error {
	clearCookie(w, s.secure)
	return nil
}

func setCookie(w http.ResponseWriter, value string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Expires:  time.Now().Add(-1 * time.Hour),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

var _ ports.SessionStore = (*CookieStore)(nil)
