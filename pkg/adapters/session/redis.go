package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/wadjakorntonsri/shrink-ray/pkg/core/domain"
	"github.com/wadjakorntonsri/shrink-ray/pkg/ports"
)

const keyPrefix = "session:"

// RedisStore keeps sessions server side. The cookie only holds a random id.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

func NewRedisStore(client *redis.Client, ttl time.Duration, secure bool) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, secure: secure}
}

// NewRedisClient connects to redisURL, e.g. redis://localhost:6379/0.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opt), nil
}

func (s *RedisStore) Load(r *http.Request) (domain.Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return domain.Anonymous(), nil
	}

	data, err := s.client.Get(r.Context(), keyPrefix+cookie.Value).Bytes()
	if errors.Is(err, redis.Nil) {
		// Expired or cleared
		return domain.Anonymous(), nil
	}
	if err != nil {
		return domain.Anonymous(), err
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return domain.Anonymous(), fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	return session, nil
}

// Save drops the request's previous session before storing the new one under
// a fresh id.
func (s *RedisStore) Save(w http.ResponseWriter, r *http.Request, session domain.Session) error {
	ctx := r.Context()

	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		if err := s.client.Del(ctx, keyPrefix+cookie.Value).Err(); err != nil {
			return err
		}
	}

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	id := uuid.NewString()
	if err := s.client.Set(ctx, keyPrefix+id, data, s.ttl).Err(); err != nil {
		return err
	}

	setCookie(w, id, time.Now().Add(s.ttl), s.secure)
	return nil
}

func (s *RedisStore) Clear(w http.ResponseWriter, r *http.Request) error {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		if err := s.client.Del(r.Context(), keyPrefix+cookie.Value).Err(); err != nil {
			return err
		}
	}
	clearCookie(w, s.secure)
	return nil
}

var _ ports.SessionStore = (*RedisStore)(nil)
