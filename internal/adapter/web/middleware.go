package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"zerde-web/internal/adapter/api"
)

const (
	SessionCookie   = "zerde_session"
	RequestIDHeader = "X-Request-ID"

	ctxRequestID = "request_id"
	ctxSession   = "session"
)

// requestID 复用上游传入的 X-Request-ID，没有则生成
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(api.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func accessLog(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"latency":    time.Since(start),
			"client_ip":  c.ClientIP(),
			"request_id": c.GetString(ctxRequestID),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("HTTP request")
			return
		}
		entry.Info("HTTP request")
	}
}

func recovery(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.WithFields(logrus.Fields{
					"error":      err,
					"method":     c.Request.Method,
					"path":       c.Request.URL.Path,
					"request_id": c.GetString(ctxRequestID),
				}).Error("💥 请求处理 panic")
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

// session 保证每个浏览器带有 zerde_session，搜索状态与交接都按它隔离
func session(ttl time.Duration) gin.HandlerFunc {
	maxAge := int(ttl.Seconds())
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
		}
		// 每次请求续期
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, maxAge, "/", "", false, true)
		c.Set(ctxSession, id)
		c.Next()
	}
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}
