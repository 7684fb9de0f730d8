package api

import (
	"crypto/subtle"
	"encoding/base64"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// AdminRequired guards the admin and data pages with HTTP basic auth. With
// no ADMIN_PASSWORD_HASH configured the pages are open.
func (handler *Handler) AdminRequired(c *fiber.Ctx) error {
	if len(handler.adminPasswordHash) == 0 {
		return c.Next()
	}

	key := requestLimiterKey(c)
	now := time.Now()
	if handler.adminLimiter.blocked(key, now) {
		return apiError(c, fiber.StatusTooManyRequests, "Too many failed sign-in attempts. Try again later.")
	}

	username, password, ok := parseBasicAuth(c.Get(fiber.HeaderAuthorization))
	if ok && handler.adminCredentialsMatch(username, password) {
		handler.adminLimiter.reset(key)
		return c.Next()
	}
	if ok {
		handler.adminLimiter.recordFailure(key, now)
		handler.logger.WarnContext(c.UserContext(), "admin authentication failed", "ip", key)
	}

	c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="onboardly admin", charset="UTF-8"`)
	return apiError(c, fiber.StatusUnauthorized, "Authentication required.")
}

func (handler *Handler) adminCredentialsMatch(username string, password string) bool {
	userMatches := subtle.ConstantTimeCompare([]byte(username), []byte(handler.adminUser)) == 1
	passwordMatches := bcrypt.CompareHashAndPassword(handler.adminPasswordHash, []byte(password)) == nil
	return userMatches && passwordMatches
}

func parseBasicAuth(header string) (string, string, bool) {
	const prefix = "basic "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(header[len(prefix):]))
	if err != nil {
		return "", "", false
	}
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return "", "", false
	}
	return username, password, true
}
