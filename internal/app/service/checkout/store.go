package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DraftStore keeps at most one draft per user.
type DraftStore interface {
	Save(ctx context.Context, userID string, d *Draft) error
	// Load returns ErrNoDraft when the user has no draft.
	Load(ctx context.Context, userID string) (*Draft, error)
	Delete(ctx context.Context, userID string) error
}

const draftKeyPrefix = "storetis:draft:"

type RedisDraftStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisDraftStore(client redis.Cmdable, ttl time.Duration) *RedisDraftStore {
	return &RedisDraftStore{client: client, ttl: ttl}
}

func draftKey(userID string) string {
	return draftKeyPrefix + userID
}

func (r *RedisDraftStore) Save(ctx context.Context, userID string, d *Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := r.client.Set(ctx, draftKey(userID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (r *RedisDraftStore) Load(ctx context.Context, userID string) (*Draft, error) {
	data, err := r.client.Get(ctx, draftKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoDraft
		}
		return nil, fmt.Errorf("load draft: %w", err)
	}
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &d, nil
}

func (r *RedisDraftStore) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, draftKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
