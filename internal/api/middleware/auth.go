package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/pkg/logger"
	"github.com/d60-Lab/foodgram/pkg/response"
)

const (
	ctxUserKey  = "foodgram.user"
	ctxTokenKey = "foodgram.token"
)

// Authenticator 由 service.AuthService 实现
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*model.User, error)
}

// BearerToken 解析 "Token <jwt>" 或 "Bearer <jwt>"
func BearerToken(header string) (string, bool) {
	scheme, raw, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return "", false
	}
	if !strings.EqualFold(scheme, "token") && !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

// Auth 解析请求头中的令牌。令牌缺失时匿名放行，令牌无效时返回 401
func Auth(auth Authenticator, unauthorized error) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		raw, ok := BearerToken(header)
		if !ok {
			response.Unauthorized(c, "Invalid token header.")
			return
		}
		u, err := auth.Authenticate(c.Request.Context(), raw)
		if err != nil {
			if !errors.Is(err, unauthorized) {
				logger.Warn("authenticate failed", zap.Error(err))
			}
			response.Unauthorized(c, "Invalid token.")
			return
		}
		c.Set(ctxUserKey, u)
		c.Set(ctxTokenKey, raw)
		c.Next()
	}
}

// RequireAuth 要求已认证用户
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			response.Unauthorized(c, "Authentication credentials were not provided.")
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*model.User)
	return u, ok && u != nil
}

// ViewerID 匿名访问时为 0
func ViewerID(c *gin.Context) uint {
	if u, ok := CurrentUser(c); ok {
		return u.ID
	}
	return 0
}

// RawToken 返回当前请求携带的令牌
func RawToken(c *gin.Context) string {
	return c.GetString(ctxTokenKey)
}
