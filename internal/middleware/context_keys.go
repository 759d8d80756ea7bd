package middleware

import "github.com/gin-gonic/gin"

// userIDKey is the key used to store the authenticated user's ID.
const userIDKey = contextKey("userID")

// userRoleKey is the key used to store the authenticated user's role.
const userRoleKey = contextKey("userRole")

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userIDVal, exists := c.Get(string(userIDKey)); exists {
		userID, ok := userIDVal.(string)
		return userID, ok
	}
	// check in the request context as well
	if userIDVal := c.Request.Context().Value(userIDKey); userIDVal != nil {
		userID, ok := userIDVal.(string)
		return userID, ok
	}
	return "", false
}

// GetUserRoleFromContext retrieves the authenticated user's role from the Gin
// context.
func GetUserRoleFromContext(c *gin.Context) (string, bool) {
	if roleVal, exists := c.Get(string(userRoleKey)); exists {
		role, ok := roleVal.(string)
		return role, ok
	}
	if roleVal := c.Request.Context().Value(userRoleKey); roleVal != nil {
		role, ok := roleVal.(string)
		return role, ok
	}
	return "", false
}

// IsAdminFromContext reports whether the authenticated caller holds the admin
// role.
func IsAdminFromContext(c *gin.Context) bool {
	role, ok := GetUserRoleFromContext(c)
	return ok && role == "admin"
}
