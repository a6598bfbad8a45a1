package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	UserIDHeader = "X-User-Id"
	userIDKey    = "user_id"
)

// RequireUserID reads the seller id the gateway forwards in X-User-Id.
func RequireUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if raw == "" {
			respondValidation(c, map[string]string{UserIDHeader: "header is required"})
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			respondValidation(c, map[string]string{UserIDHeader: "must be a positive integer"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func userIDFromContext(c *gin.Context) (int64, bool) {
	value, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := value.(int64)
	return userID, ok
}

func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondValidation(c, map[string]string{"id": "must be a positive integer"})
		return 0, false
	}
	return id, true
}
