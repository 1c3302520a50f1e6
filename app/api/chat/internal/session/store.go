// Package session keeps live conversation state in redis, keyed by
// conversation id and bounded by a TTL.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"StyleMuse/app/common/consts/biz"
	"StyleMuse/app/stylist/dialogue"

	"github.com/zeromicro/go-zero/core/stores/redis"
)

const keyPrefix = "chat:session:"

type Store struct {
	rds *redis.Redis
	ttl time.Duration
}

func NewStore(rds *redis.Redis, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = biz.DefaultSessionTTL
	}
	return &Store{rds: rds, ttl: ttl}
}

// Load returns (nil, nil) when the session is unknown or expired.
func (s *Store) Load(ctx context.Context, conversationID int64) (*dialogue.State, error) {
	raw, err := s.rds.GetCtx(ctx, key(conversationID))
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var st dialogue.State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Store) Save(ctx context.Context, st *dialogue.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.rds.SetexCtx(ctx, key(st.ConversationID), string(raw), int(s.ttl.Seconds()))
}

func (s *Store) Drop(ctx context.Context, conversationID int64) error {
	_, err := s.rds.DelCtx(ctx, key(conversationID))
	return err
}

func key(conversationID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, conversationID)
}
