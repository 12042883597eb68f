package di

import (
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/stayhub/hotel-booking/internal/handler"
	"github.com/stayhub/hotel-booking/internal/repository"
	"github.com/stayhub/hotel-booking/internal/service"
	"github.com/stayhub/hotel-booking/pkg/database"
	"github.com/stayhub/hotel-booking/pkg/redis"
)

// Container holds all dependencies for the booking service
type Container struct {
	// Infrastructure
	DB    *database.PostgresDB
	Redis *redis.Client

	// Repositories
	RoomRepo    repository.RoomRepository
	BookingRepo repository.BookingRepository

	// Publishers
	EventPublisher service.EventPublisher

	// Services
	RoomService    service.RoomService
	BookingService service.BookingService

	// Handlers
	HealthHandler  *handler.HealthHandler
	RoomHandler    *handler.RoomHandler
	BookingHandler *handler.BookingHandler
}

// ContainerConfig contains configuration for building the container.
// DB and Redis may be nil when the memory driver is in use.
type ContainerConfig struct {
	DB             *database.PostgresDB
	Redis          *redis.Client
	RoomRepo       repository.RoomRepository
	BookingRepo    repository.BookingRepository
	EventPublisher service.EventPublisher
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:             cfg.DB,
		Redis:          cfg.Redis,
		RoomRepo:       cfg.RoomRepo,
		BookingRepo:    cfg.BookingRepo,
		EventPublisher: cfg.EventPublisher,
	}

	// Initialize services
	c.RoomService = service.NewRoomService(c.RoomRepo)
	c.BookingService = service.NewBookingService(
		c.BookingRepo,
		c.RoomRepo,
		c.EventPublisher,
	)

	// Initialize handlers
	c.HealthHandler = handler.NewHealthHandler(healthPool(cfg.DB), healthRedis(cfg.Redis))
	c.RoomHandler = handler.NewRoomHandler(c.RoomService)
	c.BookingHandler = handler.NewBookingHandler(c.BookingService)

	return c
}

func healthPool(db *database.PostgresDB) *pgxpool.Pool {
	if db == nil {
		return nil
	}
	return db.Pool()
}

func healthRedis(client *redis.Client) *goredis.Client {
	if client == nil {
		return nil
	}
	return client.Client()
}
