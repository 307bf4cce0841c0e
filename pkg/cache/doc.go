// Package cache holds rendered documents and fetched includes.
//
// Memory is a process-local cache with expiry and optional LRU bounds.
// Redis shares entries between server processes:
//
//	client, _ := redis.Open(ctx, os.Getenv("REDIS_URL"))
//	rendered := cache.NewRedis[[]byte](client, cache.Raw{}, cache.WithPrefix("lingua:render"))
//
// GetOrSet computes a missing entry once even when many requests miss at the
// same time:
//
//	body, err := cache.GetOrSet(ctx, c, url, func(ctx context.Context) (string, time.Duration, error) {
//		s, err := fetch(ctx, url)
//		return s, 10 * time.Minute, err
//	})
//
// Get reports a miss with ErrNotFound.
package cache
