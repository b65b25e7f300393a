package api

import (
	"github.com/gin-gonic/gin"

	"github.com/tubebrief/tubebrief/internal/api/handler"
	"github.com/tubebrief/tubebrief/internal/api/middleware"
	"github.com/tubebrief/tubebrief/internal/repository"
	"github.com/tubebrief/tubebrief/internal/service"
)

// RouterDeps carries the repositories and services the routes need.
type RouterDeps struct {
	Users   *repository.UserRepository
	Blogs   *repository.BlogRepository
	Jobs    *repository.JobRepository
	Answers *service.AnswerService
	CORS    middleware.CORSConfig
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(deps RouterDeps, mode string) *gin.Engine {
	// Set Gin mode
	switch mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORS(deps.CORS))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	userHandler := handler.NewUserHandler(deps.Users)
	blogHandler := handler.NewBlogHandler(deps.Blogs)
	ingestHandler := handler.NewIngestHandler(deps.Users, deps.Blogs, deps.Jobs)
	askHandler := handler.NewAskHandler(deps.Answers)

	// Health check
	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Users
		v1.POST("/users", userHandler.CreateUser)
		v1.GET("/users/:id", userHandler.GetUser)

		// Video processing
		v1.POST("/process-video", ingestHandler.ProcessVideo)
		v1.GET("/tasks/:id", ingestHandler.GetTask)

		// Blogs
		v1.GET("/blogs/:user_id", blogHandler.ListBlogs)
		v1.GET("/blog/:blog_id", blogHandler.GetBlog)

		// Question answering
		v1.POST("/ask", askHandler.Ask)
	}

	return r
}
