package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/foodgram/internal/api/middleware"
	"github.com/d60-Lab/foodgram/pkg/response"
)

// Subscribe 关注作者
// @Summary 关注作者
// @Tags 关系链
// @Security TokenAuth
// @Produce json
// @Param id path int true "作者ID"
// @Param recipes_limit query int false "返回的菜谱数量上限"
// @Success 201 {object} response.Response{data=service.SubscriptionView}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/users/{id}/subscribe/ [post]
func (h *Handler) Subscribe(c *gin.Context) {
	authorID, ok := idParam(c, "id")
	if !ok {
		return
	}
	sub, err := h.relService.Subscribe(c.Request.Context(), middleware.ViewerID(c), authorID, h.recipesLimit(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, sub)
}

// Unsubscribe 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Security TokenAuth
// @Param id path int true "作者ID"
// @Success 204
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/users/{id}/subscribe/ [delete]
func (h *Handler) Unsubscribe(c *gin.Context) {
	authorID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.relService.Unsubscribe(c.Request.Context(), middleware.ViewerID(c), authorID); err != nil {
		h.fail(c, err)
		return
	}
	response.NoContent(c)
}

// ListSubscriptions 当前用户关注的作者
// @Summary 我的关注
// @Tags 关系链
// @Security TokenAuth
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量"
// @Param recipes_limit query int false "每位作者返回的菜谱数量上限"
// @Success 200 {object} response.Response{data=response.Page}
// @Router /api/users/subscriptions/ [get]
func (h *Handler) ListSubscriptions(c *gin.Context) {
	page, err := h.relService.ListSubscriptions(c.Request.Context(), middleware.ViewerID(c), h.pageRequest(c), h.recipesLimit(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	writePage(h, c, page)
}
