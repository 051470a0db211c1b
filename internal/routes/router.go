package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"todo-services/internal/controller"
	"todo-services/internal/middleware"
)

func newEngine() *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.RequestLogger(), gin.CustomRecovery(controller.Recovery))
	router.NoRoute(controller.NotFound)
	return router
}

// UserRouter serves registration and login.
func UserRouter(auth controller.Authenticator, checks ...controller.Check) *gin.Engine {
	router := newEngine()

	// Health for load balancers and K8s probes
	router.GET("/health", controller.Health("user-service"))
	router.GET("/ready", controller.Ready(checks...))

	ac := controller.NewAuthController(auth)
	api := router.Group("/api/auth")
	{
		api.POST("/register", ac.Register)
		api.POST("/login", ac.Login)
	}
	return router
}

// TodoRouter serves the todo API. Every /api/todos route requires a valid token.
func TodoRouter(todos controller.TodoService, jwtSecret string, now func() time.Time, checks ...controller.Check) *gin.Engine {
	router := newEngine()

	router.GET("/health", controller.Health("todo-service"))
	router.GET("/ready", controller.Ready(checks...))

	tc := controller.NewTodoController(todos)
	api := router.Group("/api/todos")
	api.Use(middleware.AuthMiddleware(jwtSecret, now))
	{
		api.POST("", tc.CreateTodo)
		api.GET("", tc.GetTodos)
		api.GET("/:id", tc.GetTodo)
		api.PUT("/:id", tc.UpdateTodo)
		api.DELETE("/:id", tc.DeleteTodo)
	}
	return router
}
