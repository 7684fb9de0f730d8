package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	sessionCookieName  = "onboardly_session"
	languageCookieName = "onboardly_lang"
	flashCookieName    = "onboardly_flash"
	contextLanguageKey = "current_language"
	contextMessagesKey = "current_messages"
)

// sessionUserID returns the user id carried by a valid session cookie, or
// "" when there is none.
func (handler *Handler) sessionUserID(c *fiber.Ctx) string {
	raw := strings.TrimSpace(c.Cookies(sessionCookieName))
	if raw == "" {
		return ""
	}
	userID, err := handler.parseSessionToken(raw)
	if err != nil {
		return ""
	}
	return userID
}
