package di

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"pinstack/internal/auth"
	authconfig "pinstack/internal/auth/config"
	"pinstack/internal/boards"
	"pinstack/internal/pins"
	pinsconfig "pinstack/internal/pins/config"
	"pinstack/internal/shared/eventbus"
	"pinstack/internal/shared/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container is the dependency injection container with lifecycle management.
// Modules initialize in order: auth, pins, boards. Boards depends on the pin
// client the pins module exposes.
type Container struct {
	mu        sync.RWMutex
	services  map[reflect.Type]interface{}
	factories map[reflect.Type]func() (interface{}, error)

	AuthModule  *auth.AuthModule
	PinModule   *pins.PinModule
	BoardModule *boards.BoardModule

	MongoDB *mongo.Database
	Redis   *redis.Client

	AuthConfig *authconfig.Config
	PinsConfig *pinsconfig.Config

	EventBus *eventbus.EventBus
	Logger   logger.Logger
}

// NewContainer creates a new DI container.
func NewContainer() *Container {
	return &Container{
		services:  make(map[reflect.Type]interface{}),
		factories: make(map[reflect.Type]func() (interface{}, error)),
	}
}

// InitializeAuth initializes the authentication module.
func (c *Container) InitializeAuth(mongoDB *mongo.Database, authConfig *authconfig.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.MongoDB = mongoDB
	c.AuthConfig = authConfig

	if c.Logger == nil {
		c.Logger = logger.NewLogger()
	}
	if c.EventBus == nil {
		c.EventBus = eventbus.NewEventBus(c.Logger)
	}

	authModule, err := auth.NewAuthModule(mongoDB, authConfig)
	if err != nil {
		return fmt.Errorf("failed to create auth module: %w", err)
	}

	c.AuthModule = authModule
	return nil
}

// InitializePins initializes the pins module with its Redis-backed vote
// broadcaster.
func (c *Container) InitializePins(redisClient *redis.Client, pinsConfig *pinsconfig.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.MongoDB == nil {
		return fmt.Errorf("MongoDB must be initialized before the pins module")
	}

	c.Redis = redisClient
	c.PinsConfig = pinsConfig

	pinModule, err := pins.NewPinModule(c.MongoDB, redisClient, c.EventBus, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create pins module: %w", err)
	}

	c.PinModule = pinModule
	return nil
}

// InitializeBoards initializes the boards module, wiring it to the pins module
// through the pin client adapter.
func (c *Container) InitializeBoards() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.PinModule == nil {
		return fmt.Errorf("pins module must be initialized before the boards module")
	}

	boardModule, err := boards.NewBoardModule(c.MongoDB, c.PinModule.GetBoardClient(), c.EventBus, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create boards module: %w", err)
	}

	c.BoardModule = boardModule
	return nil
}

// Register registers a service instance.
func (c *Container) Register(service interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	serviceType := reflect.TypeOf(service)
	if serviceType.Kind() == reflect.Ptr {
		serviceType = serviceType.Elem()
	}

	c.services[serviceType] = service
	return nil
}

// RegisterFactory registers a factory function for a service.
func (c *Container) RegisterFactory(serviceType reflect.Type, factory func() (interface{}, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.factories[serviceType] = factory
	return nil
}

// Resolve resolves a service by type, creating it lazily from a factory when
// one is registered.
func (c *Container) Resolve(serviceType reflect.Type) (interface{}, error) {
	c.mu.RLock()

	if service, exists := c.services[serviceType]; exists {
		c.mu.RUnlock()
		return service, nil
	}

	if factory, exists := c.factories[serviceType]; exists {
		c.mu.RUnlock()

		service, err := factory()
		if err != nil {
			return nil, fmt.Errorf("failed to create service: %w", err)
		}

		c.mu.Lock()
		c.services[serviceType] = service
		c.mu.Unlock()

		return service, nil
	}

	c.mu.RUnlock()
	return nil, fmt.Errorf("service of type %v not registered", serviceType)
}

// GetService is a generic helper for resolving services.
func GetService[T any](c *Container) (T, error) {
	var zero T
	serviceType := reflect.TypeOf(zero)

	service, err := c.Resolve(serviceType)
	if err != nil {
		return zero, err
	}

	if typedService, ok := service.(T); ok {
		return typedService, nil
	}

	return zero, fmt.Errorf("service is not of expected type %T", zero)
}

// GetAuthModule returns the auth module instance.
func (c *Container) GetAuthModule() *auth.AuthModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.AuthModule
}

// GetPinModule returns the pins module instance.
func (c *Container) GetPinModule() *pins.PinModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.PinModule
}

// GetBoardModule returns the boards module instance.
func (c *Container) GetBoardModule() *boards.BoardModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.BoardModule
}

// HealthCheck pings every backing service.
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.MongoDB != nil {
		if err := c.MongoDB.Client().Ping(ctx, nil); err != nil {
			return fmt.Errorf("MongoDB health check failed: %w", err)
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis health check failed: %w", err)
		}
	}

	return nil
}

// Cleanup shuts modules down in reverse initialization order.
func (c *Container) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	if c.BoardModule != nil {
		if err := c.BoardModule.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop boards module: %w", err))
		}
		c.BoardModule = nil
	}

	if c.PinModule != nil {
		if err := c.PinModule.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop pins module: %w", err))
		}
		c.PinModule = nil
	}

	if c.AuthModule != nil {
		if err := c.AuthModule.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop auth module: %w", err))
		}
		c.AuthModule = nil
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis client: %w", err))
		}
		c.Redis = nil
	}

	for _, service := range c.services {
		if cleaner, ok := service.(interface{ Cleanup(context.Context) error }); ok {
			if err := cleaner.Cleanup(ctx); err != nil {
				errs = append(errs, fmt.Errorf("failed to cleanup service: %w", err))
			}
		}
	}

	c.services = make(map[reflect.Type]interface{})
	c.factories = make(map[reflect.Type]func() (interface{}, error))

	if len(errs) > 0 {
		return fmt.Errorf("cleanup errors: %v", errs)
	}
	return nil
}

// Close gracefully shuts down the container with a timeout.
func (c *Container) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return c.Cleanup(ctx)
}
