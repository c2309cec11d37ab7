package middleware

import (
	"runtime/debug"
	"strings"
	"time"

	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"artfoundation/internal/auth"
	"artfoundation/internal/dto"
)

const artistIDKey = "artist_id"

type TokenParser interface {
	Parse(raw string) (*auth.Claims, error)
}

func LoggingMiddleware() ginext.HandlerFunc {
	return func(c *ginext.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := zlog.Logger.Info()
		if status >= 500 {
			event = zlog.Logger.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request handled")
	}
}

func Recovery() ginext.HandlerFunc {
	return func(c *ginext.Context) {
		defer func() {
			if err := recover(); err != nil {
				zlog.Logger.Error().
					Interface("error", err).
					Str("stack", string(debug.Stack())).
					Str("path", c.Request.URL.Path).
					Msg("panic recovered")
				dto.InternalServerError(c)
			}
		}()

		c.Next()
	}
}

// Auth requires a valid bearer session token and stores the artist id for
// downstream handlers.
func Auth(parser TokenParser) ginext.HandlerFunc {
	return func(c *ginext.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			dto.UnauthorizedError(c, "Missing bearer token")
			return
		}

		claims, err := parser.Parse(strings.TrimSpace(raw))
		if err != nil {
			dto.UnauthorizedError(c, "Invalid or expired session token")
			return
		}

		c.Set(artistIDKey, claims.ArtistID)
		c.Next()
	}
}

// ArtistID returns the id stored by Auth.
func ArtistID(c *ginext.Context) (int64, bool) {
	v, ok := c.Get(artistIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
