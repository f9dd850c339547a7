package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/ybolat/filevault/internal/auth"
	"github.com/ybolat/filevault/internal/blob"
	"github.com/ybolat/filevault/internal/config"
	"github.com/ybolat/filevault/internal/directory"
	"github.com/ybolat/filevault/internal/file"
	"github.com/ybolat/filevault/internal/logger"
	"github.com/ybolat/filevault/internal/server"
	"github.com/ybolat/filevault/internal/storage"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logg, err := logger.Init()
	if err != nil {
		panic("init logger: " + err.Error())
	}
	defer logg.Sync()

	cfg, err := config.Load()
	if err != nil {
		logg.Fatal("load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := storage.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logg.Fatal("connect postgres", zap.Error(err))
	}
	defer dbPool.Close()

	if err := storage.RunMigrations(ctx, cfg.Postgres); err != nil {
		logg.Fatal("run migrations", zap.Error(err))
	}

	var (
		blobStore   blob.Store
		minioClient *minio.Client
	)
	switch cfg.Blob.Backend {
	case config.BlobBackendMinIO:
		minioClient, err = storage.NewMinIOClient(cfg.MinIO)
		if err != nil {
			logg.Fatal("connect minio", zap.Error(err))
		}
		if err := storage.EnsureBucket(ctx, minioClient, cfg.MinIO.Bucket, cfg.MinIO.Region); err != nil {
			logg.Fatal("ensure bucket", zap.Error(err))
		}
		blobStore = blob.NewMinIO(minioClient, cfg.MinIO.Bucket)
	default:
		blobStore, err = blob.NewLocal(cfg.Blob.LocalDir)
		if err != nil {
			logg.Fatal("init local blob store", zap.Error(err))
		}
	}

	authRepo := auth.NewRepository(dbPool)
	authService := auth.NewService(authRepo, cfg.Auth)

	directoryRepo := directory.NewRepository(dbPool)
	directoryService := directory.NewService(directoryRepo)

	fileRepo := file.NewRepository(dbPool)
	fileService := file.NewService(fileRepo, directoryRepo, blobStore, cfg.Blob.SpoolDir)

	router := server.NewRouter(server.Dependencies{
		Config:           cfg,
		DB:               dbPool,
		ObjectStore:      minioClient,
		AuthService:      authService,
		DirectoryService: directoryService,
		FileService:      fileService,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logg.Info("FileVault API listening", zap.String("address", cfg.Server.Address()))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logg.Info("shutting down gracefully")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logg.Error("shutdown error", zap.Error(err))
	}
}
