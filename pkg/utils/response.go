package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Error     interface{} `json:"error,omitempty"`
	Code      string      `json:"code,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// SuccessResponse represents a structured success response
type SuccessResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// PaginationMeta represents pagination metadata
type PaginationMeta struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// SendErrorResponse sends a structured error response. The message is the
// only caller-visible text; internal error details are never attached here.
func SendErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, &ErrorResponse{
		Success:   false,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// SendSuccessResponse sends a 200 with data
func SendSuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, &SuccessResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// SendCreatedResponse sends a 201 with data
func SendCreatedResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, &SuccessResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// SendMessageResponse sends a 200 with just a message
func SendMessageResponse(c *gin.Context, message string) {
	c.JSON(http.StatusOK, &SuccessResponse{
		Success:   true,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Paginated sends a list response with pagination metadata
func Paginated(c *gin.Context, data interface{}, page, limit, total int) {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"meta": PaginationMeta{
			Page:        page,
			Limit:       limit,
			Total:       total,
			TotalPages:  totalPages,
			HasNext:     page < totalPages,
			HasPrevious: page > 1,
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// SetSecurityHeaders sets common security headers
func SetSecurityHeaders(c *gin.Context) {
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("X-Frame-Options", "DENY")
	c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
}
