package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Metrics())

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/signin", h.Signin)
		auth.DELETE("/signin", h.Signout)
		auth.GET("/me", h.Me)
		auth.GET("/google", h.GoogleStart)
		auth.GET("/google/callback", h.GoogleCallback)
	}

	profile := api.Group("/profile", h.AuthRequired())
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.PATCH("", h.PatchProfile)
		profile.POST("/password", h.ChangePassword)
		profile.DELETE("/delete", h.DeleteAccount)
	}

	scans := api.Group("/scans", h.AuthRequired())
	{
		scans.GET("", h.ListScans)
		scans.POST("", h.CreateScan)
	}

	api.POST("/predict", h.AuthRequired(), h.Predict)
	api.GET("/predict/health", h.PredictHealth)

	return r
}

func (h *Handler) Healthz(c *gin.Context) {
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
