package handler

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/foodgram/internal/service"
	"github.com/d60-Lab/foodgram/internal/validation"
	"github.com/d60-Lab/foodgram/pkg/response"
)

// Options 影响响应形态的配置
type Options struct {
	BaseURL     string
	PageSize    int
	MaxPageSize int
}

// Handler 聚合各业务服务的 HTTP 入口
type Handler struct {
	authService    service.AuthService
	userService    service.UserService
	relService     service.RelationshipService
	recipeService  service.RecipeService
	catalogService service.CatalogService
	baseURL        string
	pageSize       int
	maxPageSize    int
}

func NewHandler(svcs *service.Services, opts Options) *Handler {
	if opts.PageSize < 1 {
		opts.PageSize = 6
	}
	if opts.MaxPageSize < opts.PageSize {
		opts.MaxPageSize = opts.PageSize
	}
	return &Handler{
		authService:    svcs.Auth,
		userService:    svcs.Users,
		relService:     svcs.Relationships,
		recipeService:  svcs.Recipes,
		catalogService: svcs.Catalog,
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		pageSize:       opts.PageSize,
		maxPageSize:    opts.MaxPageSize,
	}
}

// fail 把服务层错误映射为 HTTP 状态
func (h *Handler) fail(c *gin.Context, err error) {
	if ve, ok := validation.As(err); ok {
		response.ValidationFailed(c, ve.Fields())
		return
	}
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, "Not found.")
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, "You do not have permission to perform this action.")
	case errors.Is(err, service.ErrUnauthorized):
		response.Unauthorized(c, "Invalid token.")
	default:
		response.InternalError(c, err)
	}
}

// bind 解析 JSON 请求体；格式错误时直接写 400
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.ValidationFailed(c, map[string][]string{validation.NonField: {"JSON parse error: " + err.Error()}})
		return false
	}
	return true
}

// idParam 非法 id 一律视为 404
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.NotFound(c, "Not found.")
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) pageRequest(c *gin.Context) service.PageRequest {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = h.pageSize
	}
	if limit > h.maxPageSize {
		limit = h.maxPageSize
	}
	return service.PageRequest{Page: page, Limit: limit}
}

// recipesLimit 缺省或非法时取默认页大小
func (h *Handler) recipesLimit(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || n < 0 {
		return h.pageSize
	}
	return n
}

// writePage 越过最后一页时返回 404
func writePage[T any](h *Handler, c *gin.Context, p service.Page[T]) {
	if p.OutOfRange() {
		response.NotFound(c, "Invalid page.")
		return
	}
	response.Success(c, paginate(h, c, p))
}

func paginate[T any](h *Handler, c *gin.Context, p service.Page[T]) response.Page {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	out := response.Page{Count: p.Total, Results: items}
	if p.HasNext() {
		next := h.pageURL(c, p.Page+1)
		out.Next = &next
	}
	if p.HasPrevious() {
		prev := h.pageURL(c, p.Page-1)
		out.Previous = &prev
	}
	return out
}

// pageURL 保留其它查询参数，仅替换 page；第一页省略 page
func (h *Handler) pageURL(c *gin.Context, page int) string {
	q := url.Values{}
	for k, v := range c.Request.URL.Query() {
		q[k] = v
	}
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u := h.baseURL + c.Request.URL.Path
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

func truthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true
	}
	return false
}
