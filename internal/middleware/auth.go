package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sarfraz-web/bechdo.in/internal/errors"
	"github.com/sarfraz-web/bechdo.in/internal/service"
	"github.com/sarfraz-web/bechdo.in/internal/util"
)

// AuthMiddleware 验证请求令牌并把 user_id 写入上下文
// 下游处理器信任这里提供的身份，不再重复校验凭证
func AuthMiddleware(userService service.UserServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "需要认证"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "无效的认证格式"))
			c.Abort()
			return
		}

		if userService.IsTokenBlacklisted(parts[1]) {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "令牌已被撤销"))
			c.Abort()
			return
		}

		userID, err := util.ValidateToken(parts[1])
		if err != nil {
			errors.HandleError(c, errors.Wrap(errors.ErrUnauthorized, "无效或过期的令牌", err))
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("token", parts[1])
		c.Next()
	}
}
