package session

import (
	"context"
	"time"

	"github.com/kbukum/sessionauth/logger"
	"github.com/kbukum/sessionauth/redis"
)

// RedisRegistry stores each record as JSON under "<prefix>:<session id>"
// and keeps a per-user set "<prefix>:user:<user id>" for lookups by user.
type RedisRegistry struct {
	store *redis.JSONStore[Record]
	ttl   time.Duration
	now   func() time.Time
	log   *logger.Logger
}

var _ Registry = (*RedisRegistry)(nil)

// RedisOption configures a RedisRegistry.
type RedisOption func(*RedisRegistry)

// WithTTL lets redis evict records after ttl. Zero keeps them until deleted.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *RedisRegistry) { r.ttl = ttl }
}

// WithLogger sets the logger used for best-effort index cleanup.
func WithLogger(log *logger.Logger) RedisOption {
	return func(r *RedisRegistry) { r.log = log }
}

// NewRedisRegistry creates a registry on client using keys under prefix.
func NewRedisRegistry(client *redis.Client, prefix string, opts ...RedisOption) *RedisRegistry {
	r := &RedisRegistry{
		store: redis.NewJSONStore[Record](client, prefix),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.WithComponent("session.redis")
	return r
}

func userIndex(userID string) string {
	if userID == "" {
		return ""
	}
	return "user:" + userID
}

func (r *RedisRegistry) Put(ctx context.Context, sessionID string, rec Record) error {
	rec = prepare(sessionID, rec, r.now)
	return r.store.Save(ctx, sessionID, &rec, r.ttl, userIndex(rec.UserID))
}

func (r *RedisRegistry) Get(ctx context.Context, sessionID string) (*Record, error) {
	return r.store.Load(ctx, sessionID)
}

func (r *RedisRegistry) Delete(ctx context.Context, sessionID string) error {
	rec, err := r.store.Load(ctx, sessionID)
	if err != nil || rec == nil {
		return err
	}
	return r.store.Delete(ctx, sessionID, userIndex(rec.UserID))
}

func (r *RedisRegistry) FindByField(ctx context.Context, field, value string) ([]Record, error) {
	if err := checkField(field); err != nil {
		return nil, err
	}
	if field == FieldSessionID {
		rec, err := r.store.Load(ctx, value)
		if err != nil || rec == nil {
			return nil, err
		}
		return []Record{*rec}, nil
	}

	index := userIndex(value)
	if index == "" {
		return nil, nil
	}
	ids, err := r.store.Members(ctx, index)
	if err != nil {
		return nil, err
	}
	recs, err := r.store.LoadMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	var out []Record
	var stale []string
	for i, rec := range recs {
		if rec == nil {
			stale = append(stale, ids[i])
			continue
		}
		out = append(out, *rec)
	}
	// expired by TTL; drop the dangling index entries
	if err := r.store.Unindex(ctx, index, stale...); err != nil {
		r.log.Debug("stale index cleanup failed", logger.ErrorFields("unindex", err))
	}
	return out, nil
}
