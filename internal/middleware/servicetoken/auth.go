package servicetoken

import (
	"crypto/subtle"

	"ReviewHub/pkg/back"
	"ReviewHub/pkg/xerr"

	"github.com/gin-gonic/gin"
)

const HeaderName = "X-Service-Token"

// Auth 校验服务间调用的共享令牌；未配置令牌时拒绝所有请求
func Auth(token string) gin.HandlerFunc {
	expected := []byte(token)
	return func(c *gin.Context) {
		got := []byte(c.GetHeader(HeaderName))
		if len(expected) == 0 || subtle.ConstantTimeCompare(got, expected) != 1 {
			back.Abort(c, xerr.ErrUnauthorized)
			return
		}
		c.Next()
	}
}
