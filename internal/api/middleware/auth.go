package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"dormhop/backend/pkg/jwt"
	"dormhop/backend/pkg/response"
)

// TokenChecker reports revoked tokens
type TokenChecker interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// JWTAuth validates the Authorization: Bearer <token> header.
// A nil checker skips the revocation check, as does a checker error.
func JWTAuth(jwtMgr *jwt.Manager, checker TokenChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "malformed authorization header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "token is invalid or expired")
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "invalid token type")
			c.Abort()
			return
		}

		if checker != nil && claims.ID != "" {
			revoked, err := checker.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && revoked {
				response.Unauthorized(c, 10002, "token has been revoked")
				c.Abort()
				return
			}
		}

		c.Set("user_id", claims.UserID)
		c.Set("token_jti", claims.ID)
		if claims.ExpiresAt != nil {
			c.Set("token_exp", claims.ExpiresAt.Time)
		} else {
			c.Set("token_exp", time.Time{})
		}

		c.Next()
	}
}

// QueryToken promotes ?token= to a bearer header. Browsers cannot set
// headers on a websocket handshake, so only the notification route uses it.
func QueryToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			if tok := c.Query("token"); tok != "" {
				c.Request.Header.Set("Authorization", "Bearer "+tok)
			}
		}
		c.Next()
	}
}
