package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/foodgram/internal/api/middleware"
	"github.com/d60-Lab/foodgram/internal/service"
	"github.com/d60-Lab/foodgram/pkg/response"
)

const shoppingListFilename = "shopping_list.txt"

// ListRecipes 菜谱列表，新的在前
// @Summary 菜谱列表
// @Tags 菜谱
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量"
// @Param author query int false "作者ID"
// @Param tags query []string false "标签 slug，可重复" collectionFormat(multi)
// @Param is_favorited query int false "仅收藏（1）"
// @Param is_in_shopping_cart query int false "仅购物车（1）"
// @Success 200 {object} response.Response{data=response.Page}
// @Router /api/recipes/ [get]
func (h *Handler) ListRecipes(c *gin.Context) {
	q := service.RecipeQuery{
		TagSlugs:  c.QueryArray("tags"),
		Favorited: truthy(c.Query("is_favorited")),
		InCart:    truthy(c.Query("is_in_shopping_cart")),
	}
	if v := c.Query("author"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			response.ValidationFailed(c, map[string][]string{"author": {"A valid integer is required."}})
			return
		}
		q.AuthorID = uint(id)
	}
	page, err := h.recipeService.List(c.Request.Context(), middleware.ViewerID(c), q, h.pageRequest(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	writePage(h, c, page)
}

// GetRecipe 菜谱详情
// @Summary 菜谱详情
// @Tags 菜谱
// @Produce json
// @Param id path int true "菜谱ID"
// @Success 200 {object} response.Response{data=service.RecipeView}
// @Failure 404 {object} response.Response
// @Router /api/recipes/{id}/ [get]
func (h *Handler) GetRecipe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	rec, err := h.recipeService.Get(c.Request.Context(), middleware.ViewerID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, rec)
}

// CreateRecipe 创建菜谱
// @Summary 创建菜谱
// @Tags 菜谱
// @Security TokenAuth
// @Accept json
// @Produce json
// @Param request body service.RecipeInput true "菜谱"
// @Success 201 {object} response.Response{data=service.RecipeView}
// @Failure 400 {object} response.Response
// @Router /api/recipes/ [post]
func (h *Handler) CreateRecipe(c *gin.Context) {
	var req service.RecipeInput
	if !bind(c, &req) {
		return
	}
	rec, err := h.recipeService.Create(c.Request.Context(), middleware.ViewerID(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, rec)
}

// UpdateRecipe 仅作者可修改；image 可省略
// @Summary 修改菜谱
// @Tags 菜谱
// @Security TokenAuth
// @Accept json
// @Produce json
// @Param id path int true "菜谱ID"
// @Param request body service.RecipeInput true "菜谱"
// @Success 200 {object} response.Response{data=service.RecipeView}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/recipes/{id}/ [patch]
func (h *Handler) UpdateRecipe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req service.RecipeInput
	if !bind(c, &req) {
		return
	}
	rec, err := h.recipeService.Update(c.Request.Context(), middleware.ViewerID(c), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, rec)
}

// DeleteRecipe 仅作者可删除
// @Summary 删除菜谱
// @Tags 菜谱
// @Security TokenAuth
// @Param id path int true "菜谱ID"
// @Success 204
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/recipes/{id}/ [delete]
func (h *Handler) DeleteRecipe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.recipeService.Delete(c.Request.Context(), middleware.ViewerID(c), id); err != nil {
		h.fail(c, err)
		return
	}
	response.NoContent(c)
}

// @Summary 加入收藏
// @Tags 菜谱
// @Security TokenAuth
// @Produce json
// @Param id path int true "菜谱ID"
// @Success 201 {object} response.Response{data=service.ShortRecipeView}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/recipes/{id}/favorite/ [post]
func (h *Handler) AddFavorite(c *gin.Context) {
	h.addMember(c, h.recipeService.AddFavorite)
}

// @Summary 取消收藏
// @Tags 菜谱
// @Security TokenAuth
// @Param id path int true "菜谱ID"
// @Success 204
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/recipes/{id}/favorite/ [delete]
func (h *Handler) RemoveFavorite(c *gin.Context) {
	h.removeMember(c, h.recipeService.RemoveFavorite)
}

// @Summary 加入购物车
// @Tags 菜谱
// @Security TokenAuth
// @Produce json
// @Param id path int true "菜谱ID"
// @Success 201 {object} response.Response{data=service.ShortRecipeView}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/recipes/{id}/shopping_cart/ [post]
func (h *Handler) AddToCart(c *gin.Context) {
	h.addMember(c, h.recipeService.AddToCart)
}

// @Summary 移出购物车
// @Tags 菜谱
// @Security TokenAuth
// @Param id path int true "菜谱ID"
// @Success 204
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/recipes/{id}/shopping_cart/ [delete]
func (h *Handler) RemoveFromCart(c *gin.Context) {
	h.removeMember(c, h.recipeService.RemoveFromCart)
}

type (
	memberAdder   func(ctx context.Context, userID, recipeID uint) (*service.ShortRecipeView, error)
	memberRemover func(ctx context.Context, userID, recipeID uint) error
)

func (h *Handler) addMember(c *gin.Context, add memberAdder) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	short, err := add(c.Request.Context(), middleware.ViewerID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, short)
}

func (h *Handler) removeMember(c *gin.Context, remove memberRemover) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := remove(c.Request.Context(), middleware.ViewerID(c), id); err != nil {
		h.fail(c, err)
		return
	}
	response.NoContent(c)
}

// DownloadShoppingCart 以纯文本附件下载购物清单
// @Summary 下载购物清单
// @Tags 菜谱
// @Security TokenAuth
// @Produce plain
// @Success 200 {string} string "name - amount (unit)"
// @Router /api/recipes/download_shopping_cart/ [get]
func (h *Handler) DownloadShoppingCart(c *gin.Context) {
	text, err := h.recipeService.ShoppingList(c.Request.Context(), middleware.ViewerID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", shoppingListFilename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

// GetLink 菜谱短链
// @Summary 获取短链
// @Tags 菜谱
// @Produce json
// @Param id path int true "菜谱ID"
// @Success 200 {object} response.Response{data=map[string]string}
// @Failure 404 {object} response.Response
// @Router /api/recipes/{id}/get-link/ [get]
func (h *Handler) GetLink(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	link, err := h.recipeService.ShortLink(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"short-link": link})
}

// ShortLinkRedirect 短链跳转到前端菜谱页
// @Summary 短链跳转
// @Tags 菜谱
// @Param id path int true "菜谱ID"
// @Success 302
// @Failure 404 {object} response.Response
// @Router /s/{id}/ [get]
func (h *Handler) ShortLinkRedirect(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	exists, err := h.recipeService.Exists(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !exists {
		response.NotFound(c, "Not found.")
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/recipes/%d/", id))
}
