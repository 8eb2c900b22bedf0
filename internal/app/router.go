package app

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"curiolearn_backend/docs"
	"curiolearn_backend/internal/config"
	"curiolearn_backend/internal/middleware"
	"curiolearn_backend/pkg/monitoring"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.Health)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.Profile)

		courses := authGroup.Group("/courses")
		{
			courses.POST("", c.course.CreateCourse)
			courses.GET("/available", c.course.AvailableCourses)
			courses.GET("/enrolled", c.course.EnrolledCourses)
			courses.POST("/enroll", c.course.Enroll)

			courses.GET("/learn/:courseId", c.learning.Learn)
			courses.POST("/finish-content", c.learning.FinishContent)
			courses.DELETE("/:courseId/progress", c.learning.ResetProgress)
			courses.GET("/:courseId/hierarchy", c.learning.Hierarchy)
		}
	}
}
