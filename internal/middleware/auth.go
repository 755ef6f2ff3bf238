package middleware

import (
	"context"
	"crypto/subtle"
	"math"
	"net/http"
	"strconv"
	"sync"

	"github.com/2beens/gympro/internal/telemetry/tracing"

	"github.com/go-redis/redis_rate/v9"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const (
	TokenHeader = "X-GymPro-Token"

	FailedAuthKeyPrefix = "gympro:auth-fail:"
)

type AuthMiddlewareHandler struct {
	apiToken     string
	allowedPaths map[string]bool

	limiter      RequestRateLimiter
	failedPerMin int
	// clients over the failed attempts limit
	limited sync.Map
}

type AuthOption func(*AuthMiddlewareHandler)

// WithFailedAttemptsLimit answers 429 to a client after allowedPerMin failed
// token checks within a minute. A limited client gets 429 for every request,
// valid token or not, until the limiter admits it again.
func WithFailedAttemptsLimit(limiter RequestRateLimiter, allowedPerMin int) AuthOption {
	return func(h *AuthMiddlewareHandler) {
		if limiter == nil || allowedPerMin <= 0 {
			return
		}
		h.limiter = limiter
		h.failedPerMin = allowedPerMin
	}
}

// NewAuthMiddlewareHandler guards the API with a shared token. An empty
// token disables the check (local use).
func NewAuthMiddlewareHandler(apiToken string, opts ...AuthOption) *AuthMiddlewareHandler {
	h := &AuthMiddlewareHandler{
		apiToken: apiToken,
		allowedPaths: map[string]bool{
			"/":        true,
			"/version": true,
			"/health":  true,
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if h.apiToken == "" || r.Method == http.MethodOptions || h.allowedPaths[r.URL.Path] {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			token := r.Header.Get(TokenHeader)
			tokenOK := token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(h.apiToken)) == 1

			if h.limiter != nil && (!tokenOK || h.isLimited(r)) {
				if !h.admit(ctx, w, r) {
					log.Tracef("[rate limited] unauthorized => %s", r.URL.Path)
					span.SetStatus(codes.Error, "rate-limited")
					return
				}
			}

			if token == "" {
				log.Tracef("[missing token] unauthorized => %s", r.URL.Path)
				span.SetStatus(codes.Error, "missing-token")
				http.Error(w, "no can do", http.StatusUnauthorized)
				return
			}
			if !tokenOK {
				log.Tracef("[invalid token] unauthorized => %s", r.URL.Path)
				span.SetStatus(codes.Error, "invalid-token")
				http.Error(w, "no can do", http.StatusUnauthorized)
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (h *AuthMiddlewareHandler) isLimited(r *http.Request) bool {
	_, limited := h.limited.Load(clientIP(r))
	return limited
}

// admit counts one failed attempt for the client and answers 429 when the
// client is over the limit. A limiter error lets the request through.
func (h *AuthMiddlewareHandler) admit(ctx context.Context, w http.ResponseWriter, r *http.Request) bool {
	client := clientIP(r)
	res, err := h.limiter.Allow(ctx, FailedAuthKeyPrefix+client, redis_rate.PerMinute(h.failedPerMin))
	if err != nil {
		log.Errorf("auth rate limit [%s]: %s", client, err)
		return true
	}

	if res.Allowed > 0 {
		h.limited.Delete(client)
		return true
	}

	h.limited.Store(client, struct{}{})
	retryAfter := max(int(math.Ceil(res.RetryAfter.Seconds())), 1)
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	http.Error(w, "too many failed attempts", http.StatusTooManyRequests)
	return false
}
