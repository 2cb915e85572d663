package apicsim

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yaroslav/dpmigrate/internal/logging"
	"github.com/yaroslav/dpmigrate/internal/metrics"
	"github.com/yaroslav/dpmigrate/pkg/token"
)

const (
	contextKeyLogger    = "logger"
	contextKeyRequestID = "request_id"
	contextKeyUser      = "user"
)

// RequestLogger logs every request with a request-scoped logger. The logger
// is stored in both the Gin context and the request context.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		start := time.Now()

		requestLogger := logger.With(
			zap.String(logging.FieldRequestID, requestID),
			zap.String(logging.FieldMethod, c.Request.Method),
			zap.String(logging.FieldPath, c.Request.URL.Path),
			zap.String(logging.FieldRemoteAddr, c.ClientIP()),
		)

		c.Set(contextKeyLogger, requestLogger)
		c.Set(contextKeyRequestID, requestID)
		c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), requestLogger))

		requestLogger.Debug("request started")

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int(logging.FieldStatusCode, status),
			zap.Int64(logging.FieldDuration, time.Since(start).Milliseconds()),
		}
		if user := c.GetString(contextKeyUser); user != "" {
			fields = append(fields, zap.String("user", user))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.String()))
		}

		switch {
		case status >= 500:
			requestLogger.Error("request completed with server error", fields...)
		case status >= 400:
			requestLogger.Warn("request completed with client error", fields...)
		default:
			requestLogger.Info("request completed", fields...)
		}
	}
}

// GetLogger retrieves the request-scoped logger from Gin context.
// Falls back to the request context logger.
func GetLogger(c *gin.Context) *zap.Logger {
	if logger, exists := c.Get(contextKeyLogger); exists {
		if l, ok := logger.(*zap.Logger); ok {
			return l
		}
	}
	return logging.FromContext(c.Request.Context())
}

// MetricsMiddleware counts requests and measures their duration.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		status := strconv.Itoa(c.Writer.Status())
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// requireSession rejects requests without a live session cookie, the way
// the APIC answers an expired token.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(CookieName)
		if err != nil {
			respondError(c, http.StatusForbidden, "403", "Token was invalid (Error: Token timeout)")
			c.Abort()
			return
		}

		user, err := s.issuer.Check(cookie)
		if err != nil {
			text := "Token was invalid (Error: Token timeout)"
			if errors.Is(err, token.ErrInvalidToken) {
				text = "Token was invalid"
			}
			respondError(c, http.StatusForbidden, "403", text)
			c.Abort()
			return
		}

		c.Set(contextKeyUser, user)
		c.Next()
	}
}
