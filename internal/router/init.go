package router

import (
	"time"

	userapp "github.com/oksasatya/user-accounts-api/internal/application"
	"github.com/oksasatya/user-accounts-api/internal/container"
	repouser "github.com/oksasatya/user-accounts-api/internal/domain/repository"
	"github.com/oksasatya/user-accounts-api/internal/infrastructure/cache"
	pginfra "github.com/oksasatya/user-accounts-api/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/user-accounts-api/internal/interface/http"
	"github.com/oksasatya/user-accounts-api/internal/interface/middleware"
	"github.com/oksasatya/user-accounts-api/internal/router/modules"
	"github.com/oksasatya/user-accounts-api/pkg/health"
	"github.com/oksasatya/user-accounts-api/pkg/health/checkers"
	"github.com/oksasatya/user-accounts-api/pkg/helpers"
)

func buildUserHandler() *handlers.UserHandler {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	var repo repouser.UserRepository = pginfra.NewUserRepository(container.GetPGPool())
	if cfg.CacheEnabled && container.GetRedis() != nil {
		repo = cache.NewUserRepository(repo, container.GetRedis(), cfg.UserCacheTTL, logger)
	}

	service := userapp.NewService(repo, helpers.BcryptHasher{}, container.GetEventPublisher(), logger)
	return handlers.NewUserHandler(service, logger)
}

func buildHealthHandler() *handlers.HealthHandler {
	var deps []health.Checker
	if container.GetPGPool() != nil {
		deps = append(deps, checkers.NewPostgresChecker(container.GetPGPool()))
	}
	if container.GetRedis() != nil {
		deps = append(deps, checkers.NewRedisChecker(container.GetRedis()))
	}
	return handlers.NewHealthHandler(health.NewService(deps...), container.GetLogger())
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	r.Add(modules.NewUserModule(buildUserHandler()))
	r.Add(modules.NewHealthModule(buildHealthHandler()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())))
	}
}
