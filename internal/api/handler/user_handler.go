package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/foodgram/internal/api/middleware"
	"github.com/d60-Lab/foodgram/internal/service"
	"github.com/d60-Lab/foodgram/pkg/response"
)

type avatarRequest struct {
	Avatar string `json:"avatar"`
}

// Register 注册用户
// @Summary 注册
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "用户信息"
// @Success 201 {object} response.Response{data=service.UserView}
// @Failure 400 {object} response.Response
// @Router /api/users/ [post]
func (h *Handler) Register(c *gin.Context) {
	var req service.RegisterInput
	if !bind(c, &req) {
		return
	}
	u, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, u)
}

// ListUsers 用户列表
// @Summary 用户列表
// @Tags 用户
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量"
// @Success 200 {object} response.Response{data=response.Page}
// @Router /api/users/ [get]
func (h *Handler) ListUsers(c *gin.Context) {
	page, err := h.userService.List(c.Request.Context(), middleware.ViewerID(c), h.pageRequest(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	writePage(h, c, page)
}

// GetUser 用户资料
// @Summary 用户资料
// @Tags 用户
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=service.UserView}
// @Failure 404 {object} response.Response
// @Router /api/users/{id}/ [get]
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	u, err := h.userService.Get(c.Request.Context(), middleware.ViewerID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, u)
}

// Me 当前用户
// @Summary 当前用户
// @Tags 用户
// @Security TokenAuth
// @Produce json
// @Success 200 {object} response.Response{data=service.UserView}
// @Router /api/users/me/ [get]
func (h *Handler) Me(c *gin.Context) {
	uid := middleware.ViewerID(c)
	u, err := h.userService.Get(c.Request.Context(), uid, uid)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, u)
}

// SetPassword 修改密码
// @Summary 修改密码
// @Tags 用户
// @Security TokenAuth
// @Accept json
// @Param request body service.SetPasswordInput true "新旧密码"
// @Success 204
// @Failure 400 {object} response.Response
// @Router /api/users/set_password/ [post]
func (h *Handler) SetPassword(c *gin.Context) {
	var req service.SetPasswordInput
	if !bind(c, &req) {
		return
	}
	if err := h.userService.SetPassword(c.Request.Context(), middleware.ViewerID(c), req); err != nil {
		h.fail(c, err)
		return
	}
	response.NoContent(c)
}

// SetAvatar 上传头像（base64）
// @Summary 上传头像
// @Tags 用户
// @Security TokenAuth
// @Accept json
// @Produce json
// @Param request body avatarRequest true "base64 图片"
// @Success 200 {object} response.Response{data=map[string]string}
// @Failure 400 {object} response.Response
// @Router /api/users/me/avatar/ [put]
func (h *Handler) SetAvatar(c *gin.Context) {
	var req avatarRequest
	if !bind(c, &req) {
		return
	}
	url, err := h.userService.SetAvatar(c.Request.Context(), middleware.ViewerID(c), req.Avatar)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"avatar": url})
}

// DeleteAvatar 删除头像
// @Summary 删除头像
// @Tags 用户
// @Security TokenAuth
// @Success 204
// @Router /api/users/me/avatar/ [delete]
func (h *Handler) DeleteAvatar(c *gin.Context) {
	if err := h.userService.DeleteAvatar(c.Request.Context(), middleware.ViewerID(c)); err != nil {
		h.fail(c, err)
		return
	}
	response.NoContent(c)
}
