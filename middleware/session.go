package middleware

import (
	"time"

	"main/repository"

	"github.com/gin-gonic/gin"
)

// Sessions with no activity for this long are treated as dead even if their
// expiry has not passed.
const inactivityTimeout = 48 * time.Hour

// SessionMiddleware resolves the Session-Id header into a session record and
// bumps its last-activity timestamp. Requests without a session pass through
// untouched; token auth is handled separately.
func SessionMiddleware(sessionRepo *repository.SessionRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessionRepo == nil {
			c.Next()
			return
		}

		sessionID := c.GetHeader("Session-Id")
		if sessionID == "" {
			c.Next()
			return
		}

		session, err := sessionRepo.GetSession(sessionID)
		if err != nil || session == nil || !session.IsActive {
			c.Next()
			return
		}

		if time.Since(session.LastActivityAt) > inactivityTimeout ||
			time.Now().After(session.ExpiresAt) {
			sessionRepo.EndSession(sessionID)
			c.Next()
			return
		}

		sessionRepo.UpdateLastActivity(sessionID)
		c.Set("session", session)
		c.Next()
	}
}
