package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/foodgram/internal/api/handler"
	"github.com/d60-Lab/foodgram/internal/api/middleware"
	"github.com/d60-Lab/foodgram/pkg/response"
)

// RouterOptions 路由与中间件链的依赖
type RouterOptions struct {
	Handler       *handler.Handler
	Authenticator middleware.Authenticator
	// Unauthorized 认证失败的哨兵错误，其余错误会被记录
	Unauthorized error
	Limiter      *middleware.RateLimiter

	MediaRoot string
	MediaURL  string

	Sentry      bool
	Tracing     bool
	ServiceName string
	Swagger     bool

	Ping func(ctx context.Context) error
}

// NewRouter 构建 gin 引擎
func NewRouter(opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if opts.Sentry {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if opts.Tracing {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}
	r.Use(
		middleware.Logger(),
		middleware.Metrics(),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})),
	)
	if opts.Limiter != nil {
		r.Use(opts.Limiter.Middleware())
	}

	r.GET("/healthz", func(c *gin.Context) {
		if opts.Ping != nil {
			if err := opts.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, response.Response{Code: http.StatusServiceUnavailable, Message: err.Error()})
				return
			}
		}
		response.Success(c, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if opts.MediaRoot != "" {
		r.Static(mediaPath(opts.MediaURL), opts.MediaRoot)
	}

	h := opts.Handler
	authed := r.Group("")
	authed.Use(middleware.Auth(opts.Authenticator, opts.Unauthorized))
	authed.GET("/s/:id/", h.ShortLinkRedirect)

	api := authed.Group("/api")
	required := middleware.RequireAuth()

	api.POST("/auth/token/login/", h.Login)
	api.POST("/auth/token/logout/", required, h.Logout)

	users := api.Group("/users")
	{
		users.GET("/", h.ListUsers)
		users.POST("/", h.Register)
		users.GET("/me/", required, h.Me)
		users.PUT("/me/avatar/", required, h.SetAvatar)
		users.DELETE("/me/avatar/", required, h.DeleteAvatar)
		users.POST("/set_password/", required, h.SetPassword)
		users.GET("/subscriptions/", required, h.ListSubscriptions)
		users.GET("/:id/", h.GetUser)
		users.POST("/:id/subscribe/", required, h.Subscribe)
		users.DELETE("/:id/subscribe/", required, h.Unsubscribe)
	}

	recipes := api.Group("/recipes")
	{
		recipes.GET("/", h.ListRecipes)
		recipes.POST("/", required, h.CreateRecipe)
		recipes.GET("/download_shopping_cart/", required, h.DownloadShoppingCart)
		recipes.GET("/:id/", h.GetRecipe)
		recipes.PATCH("/:id/", required, h.UpdateRecipe)
		recipes.DELETE("/:id/", required, h.DeleteRecipe)
		recipes.GET("/:id/get-link/", h.GetLink)
		recipes.POST("/:id/favorite/", required, h.AddFavorite)
		recipes.DELETE("/:id/favorite/", required, h.RemoveFavorite)
		recipes.POST("/:id/shopping_cart/", required, h.AddToCart)
		recipes.DELETE("/:id/shopping_cart/", required, h.RemoveFromCart)
	}

	api.GET("/tags/", h.ListTags)
	api.GET("/tags/:id/", h.GetTag)
	api.GET("/ingredients/", h.ListIngredients)
	api.GET("/ingredients/:id/", h.GetIngredient)

	return r
}

// mediaPath 取媒体 URL 的路径部分，"http://host/media/" -> "/media"
func mediaPath(mediaURL string) string {
	p := mediaURL
	if u, err := url.Parse(mediaURL); err == nil && u.Path != "" {
		p = u.Path
	}
	p = "/" + strings.Trim(p, "/")
	if p == "/" {
		return "/media"
	}
	return p
}
