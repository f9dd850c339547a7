package server

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	"github.com/ybolat/filevault/internal/auth"
	"github.com/ybolat/filevault/internal/config"
	"github.com/ybolat/filevault/internal/directory"
	"github.com/ybolat/filevault/internal/file"
	"github.com/ybolat/filevault/internal/logger"
	"github.com/ybolat/filevault/internal/metrics"
)

// Dependencies groups the services required by the HTTP router.
type Dependencies struct {
	Config           config.Config
	DB               *pgxpool.Pool
	ObjectStore      *minio.Client // nil when the local blob backend is active
	AuthService      *auth.Service
	DirectoryService *directory.Service
	FileService      *file.Service
}

// NewRouter builds a Gin engine with foundational middleware and routes.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.Middleware())
	router.Use(metrics.Middleware())

	registerHealthRoutes(router, deps)
	metrics.Register(router, deps.Config.Metrics.PrometheusPath)

	api := router.Group("/v1")
	if deps.AuthService != nil {
		auth.RegisterRoutes(api, deps.AuthService)

		protected := api.Group("/")
		protected.Use(auth.Middleware(deps.AuthService))

		if deps.DirectoryService != nil {
			directory.RegisterRoutes(protected, deps.DirectoryService)
		}
		if deps.FileService != nil {
			file.RegisterRoutes(protected, deps.FileService)
		}
	}

	return router
}
