package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/schedulecore/masterschedule/api/swagger"
	internalhandler "github.com/schedulecore/masterschedule/internal/handler"
	internalmiddleware "github.com/schedulecore/masterschedule/internal/middleware"
	"github.com/schedulecore/masterschedule/internal/repository"
	"github.com/schedulecore/masterschedule/internal/scheduling/fitness"
	"github.com/schedulecore/masterschedule/internal/scheduling/problem"
	"github.com/schedulecore/masterschedule/internal/service"
	"github.com/schedulecore/masterschedule/pkg/cache"
	"github.com/schedulecore/masterschedule/pkg/config"
	"github.com/schedulecore/masterschedule/pkg/database"
	"github.com/schedulecore/masterschedule/pkg/jobs"
	"github.com/schedulecore/masterschedule/pkg/logger"
	corsmiddleware "github.com/schedulecore/masterschedule/pkg/middleware/cors"
	reqidmiddleware "github.com/schedulecore/masterschedule/pkg/middleware/requestid"
)

// @title Master Schedule API
// @version 0.1.0
// @description Domain model, solver and HTTP surface for the K-12 master schedule generator.
// @BasePath /
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()
	metricsHandler := internalhandler.NewMetricsHandler(metricsSvc)

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise database", "error", err)
	}
	defer db.Close()

	var compatCache *repository.CacheRepository
	if cfg.Solver.CompatCacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("compatibility cache disabled", "error", err)
		} else {
			compatCache = repository.NewCacheRepository(redisClient, logr)
			defer compatCache.Close() //nolint:errcheck
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	validate := validator.New()

	teacherRepo := repository.NewTeacherRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	eventRepo := repository.NewEventRepository(db)
	conditionRepo := repository.NewSpecialConditionRepository(db)
	lunchWaveRepo := repository.NewLunchWaveRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	conflictRepo := repository.NewConflictRepository(db)

	teacherSvc := service.NewTeacherService(teacherRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, validate, logr)
	roomSvc := service.NewRoomService(roomRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, validate, logr)
	eventSvc := service.NewEventService(eventRepo, logr)
	conditionSvc := service.NewSpecialConditionService(conditionRepo, logr)
	lunchWaveSvc := service.NewLunchWaveService(lunchWaveRepo, studentRepo, teacherRepo, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, conflictRepo, validate, logr)

	entityPool := service.NewRepositoryEntityPool(teacherRepo, roomRepo, courseRepo, studentRepo, conditionRepo, lunchWaveRepo)

	var compatCacheIface problem.CompatCache
	if compatCache != nil {
		compatCacheIface = compatCache
	}

	generatorSvc := service.NewScheduleGeneratorService(
		entityPool,
		scheduleRepo,
		conflictRepo,
		compatCacheIface,
		cfg.Solver,
		fitness.DefaultWeights(),
		validate,
		logr,
	)

	teacherHandler := internalhandler.NewTeacherHandler(teacherSvc)
	studentHandler := internalhandler.NewStudentHandler(studentSvc)
	roomHandler := internalhandler.NewRoomHandler(roomSvc)
	courseHandler := internalhandler.NewCourseHandler(courseSvc)
	eventHandler := internalhandler.NewEventHandler(eventSvc)
	conditionHandler := internalhandler.NewSpecialConditionHandler(conditionSvc)
	lunchWaveHandler := internalhandler.NewLunchWaveHandler(lunchWaveSvc)
	scheduleHandler := internalhandler.NewScheduleHandler(scheduleSvc)
	generatorHandler := internalhandler.NewScheduleGeneratorHandler(generatorSvc)

	api := r.Group(cfg.APIPrefix)

	teachers := api.Group("/teachers")
	teachers.GET("", teacherHandler.List)
	teachers.POST("", teacherHandler.Create)
	teachers.GET("/:id", teacherHandler.Get)
	teachers.PUT("/:id", teacherHandler.Update)
	teachers.DELETE("/:id", teacherHandler.Delete)

	students := api.Group("/students")
	students.GET("", studentHandler.List)
	students.POST("", studentHandler.Create)
	students.GET("/:id", studentHandler.Get)
	students.PUT("/:id", studentHandler.Update)
	students.PUT("/:id/lunch-wave", studentHandler.AssignLunchWave)
	students.DELETE("/:id", studentHandler.Delete)

	rooms := api.Group("/rooms")
	rooms.GET("", roomHandler.List)
	rooms.POST("", roomHandler.Create)
	rooms.GET("/:id", roomHandler.Get)
	rooms.PUT("/:id", roomHandler.Update)
	rooms.DELETE("/:id", roomHandler.Delete)

	courses := api.Group("/courses")
	courses.GET("", courseHandler.List)
	courses.POST("", courseHandler.Create)
	courses.GET("/:id", courseHandler.Get)
	courses.PUT("/:id", courseHandler.Update)
	courses.DELETE("/:id", courseHandler.Delete)

	events := api.Group("/events")
	events.GET("", eventHandler.List)

	conditions := api.Group("/special-conditions")
	conditions.GET("", conditionHandler.List)
	conditions.GET("/by-target", conditionHandler.ListByTarget)

	lunchWaves := api.Group("/lunch-waves")
	lunchWaves.GET("", lunchWaveHandler.List)
	lunchWaves.POST("", lunchWaveHandler.Create)
	lunchWaves.POST("/assign", lunchWaveHandler.RunAssignment)

	schedules := api.Group("/schedules")
	schedules.GET("", scheduleHandler.List)
	schedules.POST("", scheduleHandler.Create)
	schedules.GET("/:id", scheduleHandler.Get)
	schedules.DELETE("/:id", scheduleHandler.Delete)
	schedules.POST("/generate", generatorHandler.Generate)
	schedules.POST("/analyze", generatorHandler.Analyze)
	schedules.GET("/:id/audit", generatorHandler.Audit)

	auditWorker := service.NewAuditWorker(generatorSvc, scheduleRepo, logr)
	auditQueue := jobs.NewQueue("schedule-audit", auditWorker.Handle, jobs.QueueConfig{
		Workers:    2,
		BufferSize: 16,
		Logger:     logr,
	})
	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	auditQueue.Start(sweepCtx)
	go auditWorker.Run(sweepCtx, auditQueue, 15*time.Minute)
	defer func() {
		cancelSweep()
		auditQueue.Stop()
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
