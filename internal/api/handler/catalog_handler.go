package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/pkg/response"
)

// ListTags 全部标签（不分页）
// @Summary 标签列表
// @Tags 目录
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Tag}
// @Router /api/tags/ [get]
func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.catalogService.Tags(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if tags == nil {
		tags = []*model.Tag{}
	}
	response.Success(c, tags)
}

// @Summary 标签详情
// @Tags 目录
// @Produce json
// @Param id path int true "标签ID"
// @Success 200 {object} response.Response{data=model.Tag}
// @Failure 404 {object} response.Response
// @Router /api/tags/{id}/ [get]
func (h *Handler) GetTag(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	tag, err := h.catalogService.Tag(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, tag)
}

// ListIngredients 按名称前缀搜索食材（不分页）
// @Summary 食材列表
// @Tags 目录
// @Produce json
// @Param name query string false "名称前缀"
// @Success 200 {object} response.Response{data=[]model.Ingredient}
// @Router /api/ingredients/ [get]
func (h *Handler) ListIngredients(c *gin.Context) {
	list, err := h.catalogService.Ingredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if list == nil {
		list = []*model.Ingredient{}
	}
	response.Success(c, list)
}

// @Summary 食材详情
// @Tags 目录
// @Produce json
// @Param id path int true "食材ID"
// @Success 200 {object} response.Response{data=model.Ingredient}
// @Failure 404 {object} response.Response
// @Router /api/ingredients/{id}/ [get]
func (h *Handler) GetIngredient(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ing, err := h.catalogService.Ingredient(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, ing)
}
