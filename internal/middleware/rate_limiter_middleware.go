package middleware

import (
	"strings"
	"time"

	"github.com/fadilmartias/resume-parser/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

var statusPollPrefixes = []string{"/parsing-status/", "/job-analysis-status/"}

// IsStatusPoll matches the GET routes clients poll while a job runs.
func IsStatusPoll(c *fiber.Ctx) bool {
	if c.Method() != fiber.MethodGet {
		return false
	}
	path := c.Path()
	for _, p := range statusPollPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// RateLimiter allows max requests per client IP within a sliding window of
// expiration. Zero values fall back to 50 per minute. Requests matched by any
// skip func are not counted.
func RateLimiter(max int, expiration time.Duration, skip ...func(*fiber.Ctx) bool) fiber.Handler {
	if max <= 0 {
		max = 50
	}
	if expiration <= 0 {
		expiration = time.Minute
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: expiration,
		Next: func(c *fiber.Ctx) bool {
			for _, s := range skip {
				if s(c) {
					return true
				}
			}
			return false
		},
		LimitReached: func(c *fiber.Ctx) error {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:      fiber.StatusTooManyRequests,
				Message:   "too many requests, slow down",
				ErrorCode: "rate_limited",
				Retryable: true,
			})
		},
		LimiterMiddleware: limiter.SlidingWindow{},
	})
}
