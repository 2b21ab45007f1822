package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// JSONStore keeps values of type T as JSON under "<prefix>:<id>". Writes
// may also maintain a set index (for example all sessions of one user) in
// the same MULTI/EXEC transaction.
type JSONStore[T any] struct {
	rdb    *goredis.Client
	prefix string
}

// NewJSONStore creates a store on client under prefix.
func NewJSONStore[T any](client *Client, prefix string) *JSONStore[T] {
	s := &JSONStore[T]{prefix: prefix}
	if client != nil {
		s.rdb = client.rdb
	}
	return s
}

// Key returns the redis key for id.
func (s *JSONStore[T]) Key(id string) string {
	if s.prefix == "" {
		return id
	}
	return s.prefix + ":" + id
}

// Load returns the value for id, or (nil, nil) when it does not exist.
func (s *JSONStore[T]) Load(ctx context.Context, id string) (*T, error) {
	raw, err := s.rdb.Get(ctx, s.Key(id)).Result()
	if IsNil(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", id, err)
	}
	return decode[T](id, raw)
}

// LoadMany fetches ids with one MGET. The result is aligned with ids and
// holds nil for missing keys.
func (s *JSONStore[T]) LoadMany(ctx context.Context, ids []string) ([]*T, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.Key(id)
	}
	raws, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load many: %w", err)
	}

	out := make([]*T, len(ids))
	for i, raw := range raws {
		str, ok := raw.(string)
		if !ok {
			continue
		}
		v, err := decode[T](ids[i], str)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Save writes v with ttl (0 never expires) and adds id to the set at index
// when index is not empty.
func (s *JSONStore[T]) Save(ctx context.Context, id string, v *T, ttl time.Duration, index string) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", id, err)
	}
	_, err = s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, s.Key(id), data, ttl)
		if index != "" {
			pipe.SAdd(ctx, s.Key(index), id)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save %q: %w", id, err)
	}
	return nil
}

// Delete removes id and drops it from the set at index when index is not
// empty. Deleting a missing id is not an error.
func (s *JSONStore[T]) Delete(ctx context.Context, id, index string) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, s.Key(id))
		if index != "" {
			pipe.SRem(ctx, s.Key(index), id)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete %q: %w", id, err)
	}
	return nil
}

// Members lists the ids in the set at index.
func (s *JSONStore[T]) Members(ctx context.Context, index string) ([]string, error) {
	ids, err := s.rdb.SMembers(ctx, s.Key(index)).Result()
	if err != nil {
		return nil, fmt.Errorf("index %q: %w", index, err)
	}
	return ids, nil
}

// Unindex removes ids from the set at index without touching the values.
func (s *JSONStore[T]) Unindex(ctx context.Context, index string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	members := make([]interface{}, len(ids))
	for i, id := range ids {
		members[i] = id
	}
	if err := s.rdb.SRem(ctx, s.Key(index), members...).Err(); err != nil {
		return fmt.Errorf("unindex %q: %w", index, err)
	}
	return nil
}

func decode[T any](id, raw string) (*T, error) {
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("decode %q: %w", id, err)
	}
	return &v, nil
}
