// Package ratelimit covers both sides of the provider quota.
//
// Limiter throttles outgoing requests on the client side. TokenBucket is
// backed by golang.org/x/time/rate:
//
//	limiter := ratelimit.NewPerMinute(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.BurstSize)
//	if err := limiter.Wait(ctx); err != nil {
//	    return err
//	}
//
// Info reads the quota the provider reports in its X-RateLimit-All-* response
// headers and renders it for diagnostics:
//
//	info := ratelimit.FromHeaders(resp.Header)
//	info.Summary(time.Now(), loc) // "37 of 500 until 2024-03-01 12:00:00+01:00"
package ratelimit
