package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/classcover/classcover-api/api/swagger"
	"github.com/classcover/classcover-api/internal/handler"
	"github.com/classcover/classcover-api/internal/middleware"
	"github.com/classcover/classcover-api/internal/service"
	"github.com/classcover/classcover-api/internal/snapshot"
	"github.com/classcover/classcover-api/internal/store"
	"github.com/classcover/classcover-api/pkg/cache"
	"github.com/classcover/classcover-api/pkg/config"
	"github.com/classcover/classcover-api/pkg/database"
	"github.com/classcover/classcover-api/pkg/logger"
	corsmiddleware "github.com/classcover/classcover-api/pkg/middleware/cors"
	reqidmiddleware "github.com/classcover/classcover-api/pkg/middleware/requestid"
	"github.com/classcover/classcover-api/pkg/storage"
)

// @title ClassCover API
// @version 0.1.0
// @description Substitute teacher arrangement service
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st := store.New()

	local, err := newLocalStore(cfg)
	if err != nil {
		logr.Fatal("snapshot store init failed", zap.String("driver", cfg.Snapshot.Driver), zap.Error(err))
	}

	var remote snapshot.RemoteStore
	if cfg.Remote.Enabled {
		client, err := cache.NewRedis(cfg.Remote)
		if err != nil {
			logr.Warn("remote store unreachable, running local-only", zap.Error(err))
		} else {
			defer client.Close() //nolint:errcheck
			remote = snapshot.NewRedisStore(client, cfg.Remote.SnapshotKey)
		}
	}

	metrics := service.NewMetricsService()
	syncSvc := service.NewSyncService(st, local, remote, cfg.Sync.Debounce, metrics, logr)
	syncSvc.Start(ctx)
	syncSvc.Bootstrap(ctx)

	validate := validator.New()
	timetableSvc := service.NewTimetableService(st, syncSvc, cfg.School.TotalPeriods, logr)
	availabilitySvc := service.NewAvailabilityService(st, timetableSvc, cfg.School.CoreSubjects, metrics, logr)
	assignmentSvc := service.NewAssignmentService(st, syncSvc, validate, logr)
	rosterSvc := service.NewRosterService(st, syncSvc, validate, logr)
	importSvc := service.NewImportService(st, timetableSvc, syncSvc, logr)
	exportSvc := service.NewExportService(st, syncSvc, logr)

	teacherHandler := handler.NewTeacherHandler(rosterSvc, timetableSvc)
	substitutionHandler := handler.NewSubstitutionHandler(availabilitySvc, assignmentSvc)
	transferHandler := handler.NewTransferHandler(importSvc, exportSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	if cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		teachers := api.Group("/teachers")
		teachers.GET("", teacherHandler.List)
		teachers.POST("", teacherHandler.Create)
		teachers.POST("/free-periods/refresh", teacherHandler.RefreshFreePeriods)
		teachers.GET("/:id", teacherHandler.Get)
		teachers.DELETE("/:id", teacherHandler.Delete)
		teachers.PATCH("/:id/free-periods", teacherHandler.ToggleFreePeriod)

		subs := api.Group("/substitutions")
		subs.GET("/candidates", substitutionHandler.Candidates)
		subs.POST("", substitutionHandler.Apply)
		subs.GET("/daily", substitutionHandler.DailyLog)
		subs.GET("/log", substitutionHandler.FullLog)
		subs.DELETE("/:id", substitutionHandler.Rollback)

		api.POST("/imports/stats", transferHandler.ImportStats)
		api.POST("/imports/timetable", transferHandler.ImportTimetable)
		api.GET("/exports/stats.csv", transferHandler.ExportStats)
		api.GET("/exports/timetable-template.csv", transferHandler.TimetableTemplate)
		api.GET("/exports/announcement.pdf", transferHandler.Announcement)
		api.GET("/exports/backup.json", transferHandler.Backup)
		api.POST("/backup/restore", transferHandler.Restore)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "snapshot_driver", cfg.Snapshot.Driver, "remote_sync", remote != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("server shutdown", zap.Error(err))
	}
	syncSvc.Stop()
}

// newLocalStore selects the snapshot persistence backend.
func newLocalStore(cfg *config.Config) (snapshot.LocalStore, error) {
	switch cfg.Snapshot.Driver {
	case config.SnapshotDriverPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		return snapshot.NewPostgresStore(db), nil
	case config.SnapshotDriverFile:
		files, err := storage.NewLocalStorage(cfg.Snapshot.Dir)
		if err != nil {
			return nil, err
		}
		return snapshot.NewFileStore(files), nil
	default:
		return nil, fmt.Errorf("unknown snapshot driver %q", cfg.Snapshot.Driver)
	}
}
