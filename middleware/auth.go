package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"snapnet/utils"
)

const (
	// SessionCookieName is the HTTP-only cookie carrying the session token.
	SessionCookieName = "token"
	// ContextUserIDKey is the key used to store the authenticated user ID
	// in the Gin context.
	ContextUserIDKey = "user_id"
)

// AuthRequired ensures the request carries a valid session cookie. All
// failure modes answer 401.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie(SessionCookieName)
		if err != nil || strings.TrimSpace(token) == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authentication cookie missing")
			ctx.Abort()
			return
		}
		token = strings.TrimSpace(token)

		if utils.IsTokenBlacklisted(token) {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "token revoked")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40103, "invalid token")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Next()
	}
}

// UserID extracts the authenticated user id placed by AuthRequired.
func UserID(ctx *gin.Context) (uint, bool) {
	v, exists := ctx.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
