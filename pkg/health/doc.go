// Package health serves the liveness and readiness endpoints of
// "lingua serve".
//
// Readiness runs one probe per configured backend (PostgreSQL, Redis, the
// S3 bucket, the XSLT processor) concurrently under a shared timeout:
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//		"postgres": db.Healthcheck(pool),
//		"redis":    redis.Healthcheck(client),
//	}, health.WithLogger(log)))
package health
