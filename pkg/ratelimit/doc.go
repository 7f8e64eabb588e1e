// Package ratelimit paces requests to the emote site.
//
// One Limiter is shared by every request in a run: the index page, each
// detail page and each image download. A rate of zero disables pacing.
//
//	limiter := ratelimit.New(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.BurstSize)
//	if err := limiter.Wait(ctx); err != nil {
//	    return err
//	}
package ratelimit
