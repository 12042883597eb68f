package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stayhub/hotel-booking/internal/di"
	"github.com/stayhub/hotel-booking/internal/repository"
	"github.com/stayhub/hotel-booking/internal/service"
	"github.com/stayhub/hotel-booking/pkg/config"
	"github.com/stayhub/hotel-booking/pkg/database"
	"github.com/stayhub/hotel-booking/pkg/logger"
	"github.com/stayhub/hotel-booking/pkg/middleware"
	pkgredis "github.com/stayhub/hotel-booking/pkg/redis"
	"github.com/stayhub/hotel-booking/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logCfg := logger.Config{
		Level:       cfg.App.LogLevel,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting hotel booking service",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	ctx := context.Background()

	// Initialize tracing
	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
	}); err != nil {
		appLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			appLog.Warn("Failed to shut down telemetry", zap.Error(err))
		}
	}()

	// Initialize storage
	var (
		db          *database.PostgresDB
		roomRepo    repository.RoomRepository
		bookingRepo repository.BookingRepository
	)
	if cfg.Database.UsesPostgres() {
		dbCfg := &database.PostgresConfig{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			Database:        cfg.Database.DBName,
			SSLMode:         cfg.Database.SSLMode,
			MaxConns:        int32(cfg.Database.MaxConns),
			MinConns:        int32(cfg.Database.MinConns),
			MaxConnLifetime: cfg.Database.ConnMaxLifetime,
			MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
			ConnectTimeout:  10 * time.Second,
			MaxRetries:      3,
			RetryInterval:   2 * time.Second,
			EnableTracing:   cfg.OTel.Enabled,
		}
		db, err = database.NewPostgres(ctx, dbCfg)
		if err != nil {
			appLog.Fatal("Database connection failed", zap.Error(err))
		}
		defer db.Close()
		appLog.Info("Database connected",
			zap.Int32("min_conns", dbCfg.MinConns),
			zap.Int32("max_conns", dbCfg.MaxConns),
		)

		roomRepo = repository.NewPostgresRoomRepository(db.Pool())
		bookingRepo = repository.NewPostgresBookingRepository(db.Pool())
	} else {
		appLog.Info("Using in-memory repositories")
		roomRepo = repository.NewMemoryRoomRepository()
		bookingRepo = repository.NewMemoryBookingRepository()
	}

	// Initialize Redis (used for idempotency and readiness checks)
	var redisClient *pkgredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(ctx, &pkgredis.Config{
			Host:          cfg.Redis.Host,
			Port:          cfg.Redis.Port,
			Password:      cfg.Redis.Password,
			DB:            cfg.Redis.DB,
			PoolSize:      cfg.Redis.PoolSize,
			MinIdleConns:  cfg.Redis.MinIdleConns,
			DialTimeout:   cfg.Redis.DialTimeout,
			ReadTimeout:   cfg.Redis.ReadTimeout,
			WriteTimeout:  cfg.Redis.WriteTimeout,
			MaxRetries:    3,
			RetryInterval: time.Second,
		})
		if err != nil {
			appLog.Fatal("Redis connection failed", zap.Error(err))
		}
		defer redisClient.Close()
		appLog.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// Initialize Kafka event publisher
	var eventPublisher service.EventPublisher = service.NewNoOpEventPublisher()
	if cfg.Kafka.Enabled {
		publisher, err := service.NewKafkaEventPublisher(ctx, &service.EventPublisherConfig{
			Brokers:     cfg.Kafka.Brokers,
			Topic:       cfg.Kafka.Topic,
			ServiceName: cfg.App.Name,
			ClientID:    cfg.Kafka.ClientID,
		})
		if err != nil {
			appLog.Warn("Kafka connection failed, using no-op publisher", zap.Error(err))
		} else {
			eventPublisher = publisher
			appLog.Info("Kafka event publisher connected", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	}
	defer eventPublisher.Close()

	// Build dependency injection container
	container := di.NewContainer(&di.ContainerConfig{
		DB:             db,
		Redis:          redisClient,
		RoomRepo:       roomRepo,
		BookingRepo:    bookingRepo,
		EventPublisher: eventPublisher,
	})

	router := setupRouter(cfg, container, redisClient)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		appLog.Info("Hotel booking service listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal("Server forced to shutdown", zap.Error(err))
	}

	appLog.Info("Server exited gracefully")
}

func setupRouter(cfg *config.Config, container *di.Container, redisClient *pkgredis.Client) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		gin.DisableConsoleColor()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware())
	}

	// Health check endpoints
	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)

	v1 := router.Group("/api/v1")

	// Room catalog, reads are public
	rooms := v1.Group("/rooms")
	{
		rooms.GET("", container.RoomHandler.ListRooms)
		rooms.GET("/:id", container.RoomHandler.GetRoom)
	}

	// Room management
	adminRooms := v1.Group("/admin/rooms")
	{
		adminRooms.POST("", container.RoomHandler.CreateRoom)
		adminRooms.PUT("/:id", container.RoomHandler.UpdateRoom)
		adminRooms.DELETE("/:id", container.RoomHandler.DeleteRoom)
	}

	// Booking routes, identity comes from the X-User-ID header
	bookings := v1.Group("/bookings")
	bookings.Use(middleware.UserIdentity())

	// Idempotency protection for write operations when Redis is available
	idem := func(c *gin.Context) { c.Next() }
	if redisClient != nil {
		idem = middleware.Idempotency(middleware.DefaultIdempotencyConfig(redisClient))
	}

	{
		bookings.POST("", idem, container.BookingHandler.CreateBooking)
		bookings.POST("/:id/cancel", idem, container.BookingHandler.CancelBooking)
		bookings.DELETE("/:id", idem, container.BookingHandler.CancelBooking)

		bookings.GET("", container.BookingHandler.GetMyBookings)
		bookings.GET("/all", container.BookingHandler.GetAllBookings)
		bookings.GET("/availability", container.BookingHandler.CheckAvailability)
		bookings.GET("/:id", container.BookingHandler.GetBooking)
	}

	return router
}
