package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"github.com/BhargaviBandaru98/VNR-Wall/internal/handler"
	"github.com/BhargaviBandaru98/VNR-Wall/internal/middleware"
	"github.com/BhargaviBandaru98/VNR-Wall/internal/pipeline"
	"github.com/BhargaviBandaru98/VNR-Wall/internal/repository"
	"github.com/BhargaviBandaru98/VNR-Wall/internal/service"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	log    *logrus.Logger
}

// Deps carries the already-constructed collaborators the routes need.
type Deps struct {
	SubmissionRepo   repository.SubmissionRepository
	Queue            pipeline.Enqueuer
	Notifier         handler.VerdictNotifier
	RenotifyOnChange bool
	Logger           *zap.Logger
}

func NewServer(db *sqlx.DB, deps Deps, log *logrus.Logger) *Server {
	router := gin.Default()

	s := &Server{
		router: router,
		db:     db,
		log:    log,
	}

	s.setupRoutes(deps)
	return s
}

func (s *Server) setupRoutes(deps Deps) {
	authRepo := repository.NewAuthRepository(s.db, s.log)
	authService := service.NewAuthService(authRepo, deps.Logger)
	authHandler := handler.NewAuthHandler(authService, s.log)

	submissionHandler := handler.NewSubmissionHandler(
		deps.SubmissionRepo, deps.Queue, deps.Notifier, deps.RenotifyOnChange, deps.Logger)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	authGroup := s.router.Group("/api/auth")
	authGroup.POST("/register", authHandler.RegisterAdmin)
	authGroup.POST("/login", authHandler.Login)

	api := s.router.Group("/api")
	api.POST("/submissions", submissionHandler.Create)
	api.GET("/submissions", submissionHandler.GetAll)
	api.GET("/submissions/:id", submissionHandler.GetByID)
	api.POST("/submissions/:id/notify", submissionHandler.OptInNotify)

	// Admin override requires a valid JWT.
	adminGroup := s.router.Group("/api")
	adminGroup.Use(middleware.AuthMiddleware(deps.Logger))
	adminGroup.PUT("/submissions/:id/status", submissionHandler.UpdateStatus)
}

func (s *Server) Run(addr string) {
	s.log.Infof("Server starting on port %s...", addr)
	if err := s.router.Run(addr); err != nil {
		s.log.Fatalf("Server failed to start: %v", err)
	}
}
