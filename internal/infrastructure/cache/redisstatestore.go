package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ezpsa-inc/ezpsa/internal/shared/biztime"
)

// ErrStateNotFound is returned when a login state is unknown, expired or
// already consumed.
var ErrStateNotFound = errors.New("state not found or expired")

// LoginState is what the login redirect leaves behind for the callback.
type LoginState struct {
	CodeVerifier string    `json:"code_verifier"`
	NextURL      string    `json:"next_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// RedisStateStore keeps OAuth login states in Redis until the callback
// consumes them.
type RedisStateStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStateStore creates a state store. Keys are prefix+state and expire
// after ttl.
func NewRedisStateStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Save stores the PKCE verifier and post-login redirect for state.
func (s *RedisStateStore) Save(ctx context.Context, state, codeVerifier, nextURL string) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	if codeVerifier == "" {
		return errors.New("code_verifier cannot be empty")
	}

	data, err := json.Marshal(LoginState{
		CodeVerifier: codeVerifier,
		NextURL:      nextURL,
		CreatedAt:    biztime.NowUTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal login state: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+state, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store state in redis: %w", err)
	}
	return nil
}

// Consume returns the login state and deletes it, so a state is usable once.
func (s *RedisStateStore) Consume(ctx context.Context, state string) (*LoginState, error) {
	if state == "" {
		return nil, ErrStateNotFound
	}

	// GETDEL: get and delete in one round trip
	data, err := s.client.GetDel(ctx, s.prefix+state).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to retrieve state from redis: %w", err)
	}

	var ls LoginState
	if err := json.Unmarshal([]byte(data), &ls); err != nil {
		return nil, fmt.Errorf("failed to unmarshal login state: %w", err)
	}
	return &ls, nil
}
