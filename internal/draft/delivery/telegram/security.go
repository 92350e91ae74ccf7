package telegram

import (
	"crypto/hmac"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// secretTokenHeader is echoed by Telegram on every webhook delivery when
// a secret_token was registered with setWebhook.
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// securityValidator authenticates webhook deliveries and throttles
// per-chat traffic.
type securityValidator struct {
	config      SecurityConfig
	rateLimiter *rateLimiter
}

func newSecurityValidator(config SecurityConfig) *securityValidator {
	return &securityValidator{
		config:      config,
		rateLimiter: newRateLimiter(config.RateLimitPerMin),
	}
}

// ValidateSecretToken verifies the Telegram secret token header.
func (v *securityValidator) ValidateSecretToken(r *http.Request) error {
	if v.config.WebhookSecret == "" {
		return nil // not configured, accept
	}

	got := r.Header.Get(secretTokenHeader)
	if !hmac.Equal([]byte(got), []byte(v.config.WebhookSecret)) {
		return fmt.Errorf("secret token verification failed")
	}
	return nil
}

// CheckRateLimit enforces per-chat rate limiting.
func (v *securityValidator) CheckRateLimit(chatID int64) error {
	if v.config.RateLimitPerMin <= 0 {
		return nil
	}
	return v.rateLimiter.Allow(fmt.Sprintf("chat_%d", chatID))
}

// rateLimiter keeps one token bucket per source with auto-cleanup of
// idle entries.
type rateLimiter struct {
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

func newRateLimiter(requestsPerMin int) *rateLimiter {
	if requestsPerMin <= 0 {
		requestsPerMin = 60
	}
	burst := requestsPerMin / 10
	if burst < 1 {
		burst = 1
	}
	return &rateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](
			1000,
			nil,
			time.Minute*5,
		),
		rate:  rate.Limit(float64(requestsPerMin) / 60.0),
		burst: burst,
	}
}

func (rl *rateLimiter) Allow(key string) error {
	limiter, ok := rl.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Add(key, limiter)
	}

	if !limiter.Allow() {
		return fmt.Errorf("rate limit exceeded for %s", key)
	}
	return nil
}
