package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
)

type cachingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *cachingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// CacheResponse serves public GET responses from the cache when present and
// stores successful JSON responses on miss. Cache failures degrade to a
// normal pass-through.
func CacheResponse(cache port.Cache, ttl time.Duration, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		if cache == nil || ttl <= 0 || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.URL.RequestURI()

		if payload, ok, err := cache.Get(c.Request.Context(), key); err != nil {
			logger.Warn("response cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
			c.Abort()
			return
		}

		writer := &cachingWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Header("X-Cache", "MISS")

		c.Next()

		if c.Writer.Status() != http.StatusOK || writer.body.Len() == 0 {
			return
		}

		if err := cache.Set(c.Request.Context(), key, writer.body.Bytes(), ttl); err != nil {
			logger.Warn("response cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
}
