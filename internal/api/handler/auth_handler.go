package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/foodgram/internal/api/middleware"
	"github.com/d60-Lab/foodgram/internal/service"
	"github.com/d60-Lab/foodgram/pkg/response"
)

// Login 获取令牌
// @Summary 登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "邮箱与密码"
// @Success 200 {object} response.Response{data=map[string]string}
// @Failure 400 {object} response.Response
// @Router /api/auth/token/login/ [post]
func (h *Handler) Login(c *gin.Context) {
	var req service.LoginInput
	if !bind(c, &req) {
		return
	}
	tok, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"auth_token": tok})
}

// Logout 注销当前令牌
// @Summary 注销
// @Tags 认证
// @Security TokenAuth
// @Success 204
// @Failure 401 {object} response.Response
// @Router /api/auth/token/logout/ [post]
func (h *Handler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.RawToken(c)); err != nil {
		h.fail(c, err)
		return
	}
	response.NoContent(c)
}
