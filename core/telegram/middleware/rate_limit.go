package middleware

import (
	"sync"
	"time"

	"campusbot/core/logger"
	"golang.org/x/time/rate"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// RateLimitOptions configures behaviour of the rate limit middleware.
type RateLimitOptions struct {
	// PerSecond is the sustained allowance per user; Burst tops it up for
	// short button-mashing sequences.
	PerSecond float64
	Burst     int
	Exclude   map[string]struct{}
	OnLimited tele.HandlerFunc
}

const limiterIdleTTL = 10 * time.Minute

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware returns a middleware that enforces a per-user token
// bucket across all update kinds not excluded by configuration. Limited
// updates are dropped, not queued; menus tolerate a skipped press.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	var (
		users   = make(map[int64]*userLimiter)
		usersMu sync.Mutex
		lastGC  time.Time
	)
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.PerSecond <= 0 {
				return next(c)
			}

			// Determine update kind and apply configured exclusions
			upd := c.Update()
			kind := "other"
			switch {
			case upd.Callback != nil:
				kind = "callback"
			case upd.Message != nil:
				kind = "message"
			}
			if _, skip := opts.Exclude[kind]; skip {
				return next(c)
			}

			now := time.Now()

			usersMu.Lock()
			if now.Sub(lastGC) > limiterIdleTTL {
				for id, ul := range users {
					if now.Sub(ul.lastSeen) > limiterIdleTTL {
						delete(users, id)
					}
				}
				lastGC = now
			}
			ul, ok := users[user.ID]
			if !ok {
				burst := opts.Burst
				if burst < 1 {
					burst = 1
				}
				ul = &userLimiter{limiter: rate.NewLimiter(rate.Limit(opts.PerSecond), burst)}
				users[user.ID] = ul
			}
			ul.lastSeen = now
			allowed := ul.limiter.Allow()
			usersMu.Unlock()

			if !allowed {
				attrs := []slog.Attr{
					slog.Int64("user_id", user.ID),
					slog.Bool("rate_limited", true),
				}
				if chat := c.Chat(); chat != nil {
					attrs = append(attrs, slog.Int64("chat_id", chat.ID))
				}
				logger.LogEvent(logger.Background(), logger.TG, slog.LevelWarn, "tg.rate_limit", attrs...)
				if opts.OnLimited != nil {
					_ = opts.OnLimited(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
