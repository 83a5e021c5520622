package container

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/arasfeld/rent-app/internal/domain/services"
	"github.com/arasfeld/rent-app/internal/infrastructure/config"
	"github.com/arasfeld/rent-app/internal/infrastructure/storage"
	"github.com/arasfeld/rent-app/pkg/logger"
)

// ServiceContainer wires every service once and hands them out by name
type ServiceContainer struct {
	db      *gorm.DB
	config  *config.Config
	storage storage.Storage

	// infrastructure services
	jwtService   services.InterfaceJWTService
	cacheService services.InterfaceCacheService
	eventService services.InterfaceEventService
	mailService  services.InterfaceMailService

	// domain services
	authService      services.InterfaceAuthService
	propertyService  services.InterfacePropertyService
	tenantService    services.InterfaceTenantService
	leaseService     services.InterfaceLeaseService
	paymentService   services.InterfacePaymentService
	dashboardService services.InterfaceDashboardService
	documentService  services.InterfaceDocumentService

	mu sync.RWMutex
}

// NewServiceContainer creates the container. Redis and MQTT are optional;
// when they are unreachable the service keeps running without them.
func NewServiceContainer(db *gorm.DB, cfg *config.Config, store storage.Storage) *ServiceContainer {
	if db == nil {
		panic("database connection is nil")
	}
	if cfg == nil {
		panic("config is nil")
	}

	container := &ServiceContainer{
		db:      db,
		config:  cfg,
		storage: store,
	}
	container.initializeServices()
	return container
}

func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.jwtService = services.NewJWTService(c.config)

	c.cacheService = services.NewCacheService(c.config)
	if c.config.RedisEnabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.cacheService.Ping(ctx); err != nil {
			logger.Warning("redis ping failed: %v, caching disabled", err)
			_ = c.cacheService.Close()
			c.cacheService = services.NoopCacheService{}
		}
	}

	c.eventService = services.NewEventService(c.config)
	if err := c.eventService.Connect(); err != nil {
		logger.Warning("mqtt connect failed: %v, events will be dropped until the broker is reachable", err)
	}

	c.mailService = services.NewMailService(c.config)

	c.authService = services.NewAuthService(c.db, c.config, c.jwtService)
	c.propertyService = services.NewPropertyService(c.db, c.config, c.cacheService)
	c.tenantService = services.NewTenantService(c.db, c.config, c.cacheService)
	c.leaseService = services.NewLeaseService(c.db, c.config, c.cacheService, c.eventService)
	c.paymentService = services.NewPaymentService(c.db, c.config, c.cacheService, c.eventService, c.mailService)
	c.dashboardService = services.NewDashboardService(c.db, c.config, c.cacheService)
	if c.storage != nil {
		c.documentService = services.NewDocumentService(c.db, c.config, c.storage)
	}
}

// GetService returns the service registered under name, or nil
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "cache":
		return c.cacheService
	case "event":
		return c.eventService
	case "mail":
		return c.mailService
	case "auth":
		return c.authService
	case "property":
		return c.propertyService
	case "tenant":
		return c.tenantService
	case "lease":
		return c.leaseService
	case "payment":
		return c.paymentService
	case "dashboard":
		return c.dashboardService
	case "document":
		return c.documentService
	default:
		return nil
	}
}

// GetDB returns the database connection
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// Close releases broker and cache connections
func (c *ServiceContainer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.eventService.Disconnect()
	if err := c.cacheService.Close(); err != nil {
		logger.Warning("close cache: %v", err)
	}
}
