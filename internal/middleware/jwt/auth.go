package jwt

import (
	"strings"

	"ReviewHub/pkg/back"
	"ReviewHub/pkg/util/myjwt"
	"ReviewHub/pkg/xerr"

	"github.com/gin-gonic/gin"
)

// Auth 校验 Bearer token，把用户 uuid 写入上下文供 handler 读取
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			back.Abort(c, xerr.ErrUnauthorized)
			return
		}

		claims, err := myjwt.ParseToken(strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")))
		if err != nil {
			back.Abort(c, xerr.ErrUnauthorized)
			return
		}

		c.Set("uuid", claims.Uuid)
		c.Set("username", claims.Username)
		c.Next()
	}
}
