package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	refreshKeyPrefix  = "auth:refresh:"
	denylistKeyPrefix = "auth:denylist:"
)

// Store keeps refresh tokens and the access-token revocation list in Redis.
// One refresh token per account; storing a new one supersedes the old.
type Store struct {
	rdb *redis.Client
}

// NewStore returns a new token store.
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// StoreRefreshToken overwrites any refresh token stored for userID.
func (s *Store) StoreRefreshToken(ctx context.Context, userID int64, token string, ttl time.Duration) error {
	return s.rdb.Set(ctx, refreshKey(userID), token, ttl).Err()
}

// ValidateRefreshToken reports whether token exactly matches the stored one,
// and how long the stored one has left to live.
func (s *Store) ValidateRefreshToken(ctx context.Context, userID int64, token string) (bool, time.Duration, error) {
	stored, err := s.rdb.Get(ctx, refreshKey(userID)).Result()
	if err == redis.Nil {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	if stored != token {
		return false, 0, nil
	}
	remaining, err := s.rdb.TTL(ctx, refreshKey(userID)).Result()
	if err != nil {
		return true, 0, nil
	}
	return true, remaining, nil
}

// DeleteRefreshToken drops the stored refresh token for userID.
func (s *Store) DeleteRefreshToken(ctx context.Context, userID int64) error {
	return s.rdb.Del(ctx, refreshKey(userID)).Err()
}

// BlacklistAccessToken revokes an access token until its natural expiry.
// An already-expired token is a no-op.
func (s *Store) BlacklistAccessToken(ctx context.Context, token string, expiresAt time.Time) error {
	remaining := time.Until(expiresAt)
	if remaining <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, denylistKey(token), "1", remaining).Err()
}

// IsBlacklisted reports whether the access token has been revoked.
func (s *Store) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := s.rdb.Exists(ctx, denylistKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func refreshKey(userID int64) string {
	return refreshKeyPrefix + strconv.FormatInt(userID, 10)
}

// denylistKey hashes the raw token so JWTs never appear in the Redis keyspace.
func denylistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return denylistKeyPrefix + hex.EncodeToString(sum[:])
}
