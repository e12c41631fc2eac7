package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"
	"github.com/steadystreamtv/storefront/internal/pkg/config"
)

// CheckoutRateLimiter throttles checkout-session creation per client IP,
// backed by the shared Redis instance so limits hold across replicas.
func CheckoutRateLimiter(cfg config.CacheConfig) fiber.Handler {
	port, err := strconv.Atoi(cfg.Port)
	if err != nil {
		port = 6379
	}
	store := redisstorage.New(redisstorage.Config{
		Host: cfg.Host,
		Port: port,
	})

	return limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Minute,
		Storage:    store,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too_many_requests",
			})
		},
	})
}
