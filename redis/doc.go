// Package redis connects to the redis server that backs the session
// registry when auth.session_store is "redis".
//
// JSONStore keeps JSON values under a key prefix and can maintain a set
// index next to them:
//
//	store := redis.NewJSONStore[session.Record](client, "session")
//	err := store.Save(ctx, id, &rec, ttl, "user:"+rec.UserID)
//	recs, err := store.LoadMany(ctx, ids) // nil entries for missing ids
package redis
