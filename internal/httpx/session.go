package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionHeader = "X-Session-Key"
	sessionCookie = "session_key"
	sessionKey    = "session"
)

// Session assigns every request a cart session key, taken from the
// X-Session-Key header or cookie and minted when absent.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(SessionHeader)
		if key == "" {
			key, _ = c.Cookie(sessionCookie)
		}
		if _, err := uuid.Parse(key); err != nil {
			key = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, key, 30*24*3600, "/", "", false, true)
		}
		c.Set(sessionKey, key)
		c.Writer.Header().Set(SessionHeader, key)
		c.Next()
	}
}

func SessionKey(c *gin.Context) string {
	return c.GetString(sessionKey)
}
