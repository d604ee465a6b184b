package middleware

import (
	"Slipboard/internal/pkg/response"
	"Slipboard/internal/pkg/security"
	"errors"
	log "log/slog"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 负责验证 JWT 并将用户身份信息注入 Context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := security.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			if errors.Is(err, security.ErrBlacklistUnavailable) {
				log.ErrorContext(c.Request.Context(), "auth blacklist check failed", "err", err)
				response.Fail(c, response.InternalServerError, "未知错误")
			} else {
				response.Fail(c, response.Unauthorized, "Token 无效或已过期")
			}
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Next()
	}
}
