package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/studylog/internal/config"
	"github.com/studylog/internal/db"
	"github.com/studylog/internal/handler"
)

// SetupRouter configures the gin engine and the route table.
func SetupRouter(cfg config.AppConfig) *gin.Engine {
	r := gin.New()
	r.Use(handler.RequestLogger(), gin.Recovery())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("studylog_session", store))

	r.Use(handler.ErrorTranslator())

	// Unknown routes get the same envelope as every other error.
	r.NoRoute(handler.NoRoute)

	api := handler.NewAPI(db.DB, cfg.UploadDir, cfg.UploadURLPath)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Uploaded cover images are served as static files.
	r.Static(cfg.UploadURLPath, cfg.UploadDir)

	auth := r.Group("/api/auth")
	{
		auth.POST("/login", handler.Login)
		auth.POST("/logout", handler.Logout)
	}

	blogs := r.Group("/api/blogs")
	{
		blogs.GET("", api.ListBlogs)
		// Registered before /:slug so the static segment wins.
		blogs.GET("/admin/all", handler.AuthRequired(), api.ListAllBlogs)
		blogs.GET("/:slug", api.GetBlogBySlug)

		admin := blogs.Group("")
		admin.Use(handler.AuthRequired())
		{
			admin.POST("", api.CreateBlog)
			admin.PUT("/:id", api.UpdateBlog)
			admin.DELETE("/:id", api.DeleteBlog)
		}
	}

	r.POST("/api/uploads", handler.AuthRequired(), api.UploadImage)

	return r
}
