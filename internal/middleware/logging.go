package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs every HTTP request with the request-scoped identifiers
// filled in by the auth and org-context middleware.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		ctx := context.WithValue(c.Request.Context(), "request_id", requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-ID", requestID)

		c.Next()

		latency := time.Since(startTime)

		fields := logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    latency,
			"client_ip":  c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
		}

		if userID, exists := c.Get("user_id"); exists {
			fields["user_id"] = userID
		}
		if orgID, exists := c.Get("organization_id"); exists {
			fields["organization_id"] = orgID
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch {
		case c.Writer.Status() >= 500:
			logger.WithFields(fields).Error("HTTP Request")
		case c.Writer.Status() >= 400:
			logger.WithFields(fields).Warn("HTTP Request")
		default:
			logger.WithFields(fields).Info("HTTP Request")
		}
	}
}

// SecurityLogger logs denied requests. Denials carry a uniform public
// message, so this is where the operator-visible detail lands.
func SecurityLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status != 401 && status != 403 && status != 429 {
			return
		}

		event := "unauthorized_access"
		switch status {
		case 403:
			event = "forbidden_access"
		case 429:
			event = "rate_limit_exceeded"
		}

		fields := logrus.Fields{
			"event":      event,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"client_ip":  c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
		}

		if requestID, exists := c.Get("request_id"); exists {
			fields["request_id"] = requestID
		}
		if userID, exists := c.Get("user_id"); exists {
			fields["user_id"] = userID
		}
		if orgID, exists := c.Get("organization_id"); exists {
			fields["organization_id"] = orgID
		}

		logger.WithFields(fields).Warn("Access denied")
	}
}
