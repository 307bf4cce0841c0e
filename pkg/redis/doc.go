// Package redis opens the Redis connection lingua uses to share the
// translation catalog and the render cache between server processes.
//
//	client, err := redis.Open(ctx, os.Getenv("REDIS_URL"), redis.WithRetry(5, time.Second))
//	if err != nil {
//		return err
//	}
//	defer client.Close()
package redis
