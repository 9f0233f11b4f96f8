package ratelimit

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-food/internal/common"
	"github.com/noah-isme/backend-food/internal/obs"
)

// NewStore returns a Redis-backed limiter store, or an in-process one when rdb is nil.
func NewStore(rdb *redis.Client) (limiter.Store, error) {
	if rdb == nil {
		return memory.NewStore(), nil
	}
	return limiterredis.NewStoreWithOptions(rdb, limiter.StoreOptions{Prefix: "food:ratelimit"})
}

// PerClient throttles requests per client IP, or per authenticated user when one is present.
// A non-positive perMinute disables throttling.
func PerClient(store limiter.Store, perMinute int64) func(http.Handler) http.Handler {
	if store == nil || perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	lim := limiter.New(store, limiter.Rate{Period: time.Minute, Limit: perMinute})
	mw := stdlib.NewMiddleware(lim,
		stdlib.WithKeyGetter(clientKey),
		stdlib.WithLimitReachedHandler(limitReached),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("rate limiter store")
			common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "rate limiter unavailable", nil)
		}),
	)
	return mw.Handler
}

func clientKey(r *http.Request) string {
	if id, ok := common.UserID(r.Context()); ok && strings.TrimSpace(id) != "" {
		return "user:" + id
	}
	return "ip:" + common.ClientIP(r)
}

func limitReached(w http.ResponseWriter, r *http.Request) {
	obs.Inc(obs.RateLimitedTotal, obs.Audience(r.URL.Path))
	if reset, err := strconv.ParseInt(w.Header().Get("X-RateLimit-Reset"), 10, 64); err == nil {
		retry := time.Until(time.Unix(reset, 0)).Seconds()
		if retry < 0 {
			retry = 0
		}
		w.Header().Set("Retry-After", strconv.Itoa(int(retry)))
	}
	common.JSONError(w, http.StatusTooManyRequests, common.CodeRateLimited, "Too many requests. Please slow down.", nil)
}
