package app

import (
	"biokuiz/docs"
	"biokuiz/internal/middleware"
	"biokuiz/internal/model"
	"biokuiz/pkg/monitoring"
	"biokuiz/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cookie *security.SessionCookie) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(a.services.auth, cookie))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.POST("/logout", c.auth.Logout)
		public.POST("/password/forgot", c.auth.ForgotPassword)
		public.GET("/password/reset/:token", c.auth.VerifyResetToken)
		public.POST("/password/reset/:token", c.auth.ResetPassword)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.profile.GetProfile)
	rg.PUT("/profile/password", c.profile.ChangePassword)
	rg.GET("/dashboard", c.profile.GetDashboard)
	rg.GET("/materials", c.profile.GetMaterials)

	rg.GET("/quiz", c.quiz.GetQuiz)
	rg.POST("/quiz", c.quiz.SubmitQuiz)
	rg.GET("/leaderboard", c.report.GetLeaderboard)
}

// registerAdminRoutes mounts the teacher-only group. The capability check
// runs before every handler below it.
func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.CapabilityMiddleware(model.CapabilityAdminister))
	{
		admin.GET("", c.report.GetAdminDashboard)
		admin.GET("/report", c.report.GetStudentReport)
		admin.GET("/export", c.report.ExportReport)

		admin.GET("/materials", c.content.ListMaterials)
		admin.POST("/materials", c.content.CreateMaterial)
		admin.GET("/materials/:id", c.content.GetMaterial)
		admin.PUT("/materials/:id", c.content.UpdateMaterial)
		admin.DELETE("/materials/:id", c.content.DeleteMaterial)
		admin.POST("/materials/:id/image", c.content.UploadMaterialImage)

		admin.GET("/questions", c.content.ListQuestions)
		admin.POST("/questions", c.content.CreateQuestion)
		admin.GET("/questions/raw", c.quiz.GetAnswerKeys)
		admin.GET("/questions/:id", c.content.GetQuestion)
		admin.PUT("/questions/:id", c.content.UpdateQuestion)
		admin.DELETE("/questions/:id", c.content.DeleteQuestion)
	}
}
