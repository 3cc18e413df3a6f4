package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/teris-io/shortid"
)

const RequestIDHeader = "X-Request-ID"

// NewLogger returns a JSON zerolog logger. Unknown levels fall back to info.
func NewLogger(w io.Writer, level, service string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.DurationFieldUnit = time.Millisecond
	zerolog.DurationFieldInteger = true

	return zerolog.New(w).Level(lvl).With().
		Timestamp().
		Str("service", service).
		Logger()
}

// hashIP keeps client addresses out of the logs while still allowing correlation.
func hashIP(ip string) string {
	h := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(h[:])[:12]
}

func requestID(c *gin.Context) string {
	if id := c.GetHeader(RequestIDHeader); id != "" && len(id) <= 64 {
		return id
	}
	id, err := shortid.Generate()
	if err != nil {
		return ""
	}
	return id
}

// RequestLogger logs one line per request. The route template is logged
// instead of the raw path, and the request id is echoed in X-Request-ID.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := requestID(c)
		if id != "" {
			c.Header(RequestIDHeader, id)
			c.Set("request_id", id)
		}

		c.Next()

		status := c.Writer.Status()
		evt := logger.Info()
		if status >= 500 {
			evt = logger.Error()
		} else if status >= 400 {
			evt = logger.Warn()
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		evt.
			Str("request_id", id).
			Str("method", c.Request.Method).
			Str("route", route).
			Int("status", status).
			Dur("duration_ms", time.Since(start)).
			Str("ip_hash", hashIP(c.ClientIP())).
			Int("bytes_sent", c.Writer.Size()).
			Msg("request")
	}
}
