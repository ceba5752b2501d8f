package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ezpsa-inc/ezpsa/internal/shared/logger"
)

// CustomLogger logs one line per request. Ticket routes carry the board or
// ticket they act on; the query string is not logged since /login and /auth
// carry OAuth codes and return URLs in it.
func CustomLogger(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		args := []any{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"body_size", c.Writer.Size(),
		}

		if board := c.Query("board"); board != "" {
			args = append(args, "board", board)
		}
		if ticketID := c.Query("ticketId"); ticketID != "" {
			args = append(args, "ticket_id", ticketID)
		}
		if email, ok := c.Get(ContextKeyUserEmail); ok {
			args = append(args, "user_email", email)
		}
		if len(c.Errors) > 0 {
			args = append(args, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Errorw("request failed", args...)
		case status >= 400:
			log.Warnw("request rejected", args...)
		default:
			log.Debugw("request served", args...)
		}
	}
}
