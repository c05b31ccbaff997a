package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/academic-ledger-api/api/swagger"
	"github.com/noah-isme/academic-ledger-api/internal/handler"
	"github.com/noah-isme/academic-ledger-api/internal/middleware"
	"github.com/noah-isme/academic-ledger-api/internal/repository"
	"github.com/noah-isme/academic-ledger-api/internal/service"
	"github.com/noah-isme/academic-ledger-api/pkg/cache"
	"github.com/noah-isme/academic-ledger-api/pkg/config"
	"github.com/noah-isme/academic-ledger-api/pkg/database"
	"github.com/noah-isme/academic-ledger-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/academic-ledger-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/academic-ledger-api/pkg/middleware/requestid"
)

// @title Academic Ledger API
// @version 0.1.0
// @description Academic and billing ledger service
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	retry := database.RetryPolicy{
		Attempts: cfg.TxRetry.Attempts,
		Backoff:  cfg.TxRetry.Backoff,
		OnRetry:  metricsSvc.RecordTxRetry,
	}

	var cacheSvc *service.CacheService
	if cfg.Catalog.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect redis", "error", err)
		}
		defer redisClient.Close()
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.CacheTTL, logr, true)
	} else {
		cacheSvc = service.NewCacheService(nil, metricsSvc, 0, logr, false)
	}

	studentRepo := repository.NewStudentRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	scoreRepo := repository.NewAssignmentScoreRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	aidRepo := repository.NewFinancialAidRepository(db)
	financeRepo := repository.NewFinanceRepository(db)

	catalogSvc := service.NewCatalogService(subjectRepo, cacheSvc, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, subjectRepo, studentRepo, scoreRepo, validate, logr)
	gpaSvc := service.NewGPAService(enrollmentRepo, studentRepo, logr)
	billingSvc := service.NewBillingService(db, retry, studentRepo, invoiceRepo, validate, logr)
	paymentSvc := service.NewPaymentService(db, retry, transactionRepo, invoiceRepo, validate, logr)
	aidSvc := service.NewFinancialAidService(db, retry, aidRepo, invoiceRepo, paymentSvc, validate, logr)
	financeSvc := service.NewFinanceService(financeRepo, metricsSvc, logr)

	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc, gpaSvc)
	billingHandler := handler.NewBillingHandler(billingSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc, aidSvc)
	financeHandler := handler.NewFinanceHandler(financeSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/subjects", catalogHandler.List)
		api.POST("/subjects", catalogHandler.Create)
		api.GET("/subjects/:id", catalogHandler.Get)
		api.PUT("/subjects/:id", catalogHandler.Update)
		api.GET("/subjects/:id/prerequisites", catalogHandler.Prerequisites)
		api.PUT("/subjects/:id/prerequisites", catalogHandler.SetPrerequisites)
		api.GET("/subjects/:id/enrollments", enrollmentHandler.ListBySubject)

		api.POST("/enrollments", enrollmentHandler.Enroll)
		api.PUT("/enrollments/:id/grade", enrollmentHandler.RecordGrade)
		api.GET("/enrollments/:id/scores", enrollmentHandler.ListScores)
		api.POST("/enrollments/:id/scores", enrollmentHandler.AddScore)
		api.PUT("/scores/:id", enrollmentHandler.UpdateScore)
		api.DELETE("/scores/:id", enrollmentHandler.DeleteScore)

		api.GET("/students/:id/enrollments", enrollmentHandler.ListByStudent)
		api.POST("/students/:id/gpa", enrollmentHandler.RecalculateGPA)
		api.GET("/students/:id/invoices", billingHandler.ListByStudent)
		api.GET("/students/:id/payments", paymentHandler.ListByStudent)
		api.GET("/students/:id/financial-aid", paymentHandler.ListAidByStudent)
		api.GET("/students/:id/finance", financeHandler.StudentSummary)

		api.POST("/invoices/generate", billingHandler.Generate)
		api.GET("/invoices/:id", billingHandler.Get)
		api.GET("/invoices/:id/payments", paymentHandler.ListByInvoice)

		api.POST("/payments", paymentHandler.AddPayment)
		api.POST("/financial-aid", paymentHandler.AddAid)

		api.GET("/finance/summaries", financeHandler.Summaries)
		api.GET("/finance/report", financeHandler.Report)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
