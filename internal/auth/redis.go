package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// RedisStore keeps an opaque token in the cookie and the user id in Redis,
// so logging out revokes the session everywhere.
type RedisStore struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	secure bool
}

// NewRedisStore returns a store backed by rdb. A zero ttl means 14 days.
func NewRedisStore(rdb redis.Cmdable, ttl time.Duration, secure bool) *RedisStore {
	if ttl <= 0 {
		ttl = 14 * 24 * time.Hour
	}
	return &RedisStore{rdb: rdb, ttl: ttl, secure: secure}
}

// NewRedisClient connects and pings the server.
func NewRedisClient(ctx context.Context, addr, password string, db, poolSize int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		PoolSize: poolSize,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func (s *RedisStore) Create(ctx context.Context, w http.ResponseWriter, userID uint) error {
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, redisKeyPrefix+token, strconv.FormatUint(uint64(userID), 10), s.ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(s.ttl),
	})
	return nil
}

func (s *RedisStore) Lookup(ctx context.Context, r *http.Request) (uint, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return 0, false
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return 0, false
	}
	val, err := s.rdb.Get(ctx, redisKeyPrefix+c.Value).Result()
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (s *RedisStore) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	clearCookie(w, s.secure)
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	if err := s.rdb.Del(ctx, redisKeyPrefix+c.Value).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
