package router

import (
	"time"

	"github.com/anjan-ust/task-weaver-main/db"
	"github.com/anjan-ust/task-weaver-main/internal/handlers"
	"github.com/anjan-ust/task-weaver-main/internal/middleware"
	"github.com/anjan-ust/task-weaver-main/internal/types"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func NewRouter(conn *gorm.DB, store *db.Mongo) *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authHandler := &handlers.AuthHandler{DB: conn}
	employeeHandler := &handlers.EmployeeHandler{DB: conn}
	userHandler := &handlers.UserHandler{DB: conn}
	taskHandler := &handlers.TaskHandler{DB: conn}
	remarkHandler := &handlers.RemarkHandler{DB: conn, Remarks: store.Remarks, Files: store.Files}
	fileHandler := &handlers.FileHandler{Files: store.Files}

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.AuthMiddleware(conn), authHandler.Me)
		}

		protected := api.Group("", middleware.AuthMiddleware(conn))

		employees := protected.Group("/employees")
		{
			employees.POST("", employeeHandler.Create)
			employees.GET("", employeeHandler.List)
			employees.GET("/:id", employeeHandler.Get)
			employees.PUT("/:id", employeeHandler.Update)
			employees.DELETE("/:id", employeeHandler.Delete)
		}

		users := protected.Group("/users")
		{
			users.GET("", userHandler.List)
			users.GET("/by-role", userHandler.ListByRole)
			users.POST("", userHandler.Create)
			users.GET("/:id", userHandler.Get)
			users.PUT("/:id", userHandler.Update)
			users.DELETE("/:id", userHandler.Delete)
		}

		tasks := protected.Group("/tasks")
		{
			tasks.POST("", taskHandler.Create)
			tasks.GET("", taskHandler.List)
			tasks.GET("/:id", taskHandler.Get)
			tasks.PUT("/:id", taskHandler.Update)
			tasks.PATCH("/:id/status", taskHandler.PatchStatus)
			tasks.PATCH("/:id/priority", taskHandler.PatchPriority)
			tasks.DELETE("/:id", taskHandler.Delete)

			// Remark endpoints scoped to a task
			tasks.POST("/:id/remarks", remarkHandler.Create)
			tasks.GET("/:id/remarks", remarkHandler.ListByTask)
		}

		remarks := protected.Group("/remarks")
		{
			remarks.PUT("/:id", remarkHandler.Update)
			remarks.DELETE("/:id", remarkHandler.Delete)
		}

		protected.GET("/files/:id", fileHandler.Download)
	}

	return r
}
