package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"edunews-backend/internal/config"
	postHandler "edunews-backend/internal/domains/post/handler"
	postRepo "edunews-backend/internal/domains/post/repository"
	postService "edunews-backend/internal/domains/post/service"
	infraCache "edunews-backend/internal/infrastructure/cache"
	"edunews-backend/internal/infrastructure/database"
	"edunews-backend/internal/infrastructure/storage"
	"edunews-backend/pkg/cache"
	"edunews-backend/pkg/jwt"
	"edunews-backend/pkg/logger"
)

// Container holds every shared dependency of the application. All fields
// are singletons wired once at startup; handlers and services are stateless.
type Container struct {
	// Infrastructure
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager
	Storage    *storage.MinIOStorage
	Processor  *storage.ImageProcessor

	// Data access
	PostRepo postRepo.PostRepository

	// Business logic
	PostService postService.PostService

	// HTTP
	PostHandler *postHandler.PostHandler
}

// NewContainer builds the dependency graph in order: config, then
// infrastructure, then repositories, services and handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Init(cfg.App.Environment)
	log.Printf("[Container] Config loaded (environment: %s)", cfg.App.Environment)

	db := database.NewPostgresDB(cfg.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Println("[Container] Database connected")

	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err := redisCache.Ping(context.Background()); err != nil {
		// Cache misses are tolerated everywhere, so a dead Redis only
		// costs performance.
		log.Printf("[Container] Redis connection failed (non-critical): %v", err)
	} else {
		log.Println("[Container] Redis connected")
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Storage = minioStorage
	c.Processor = storage.NewImageProcessor()
	log.Println("[Container] Object storage ready")

	c.PostRepo = postRepo.NewPostgresRepository(db.Pool)
	c.PostService = postService.NewService(
		c.PostRepo,
		c.Storage,
		c.Storage,
		c.Processor,
		c.Cache,
	)
	c.PostHandler = postHandler.NewPostHandler(c.PostService)

	log.Println("[Container] Initialized")
	return c, nil
}

// Cleanup releases held connections. Safe to call once on shutdown.
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
	}
	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Printf("[Container] Redis close: %v", err)
		}
	}
	log.Println("[Container] Cleaned up")
}
