package http

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	notificationUsecases "lucerna/internal/application/notification/usecases"
	portalUsecases "lucerna/internal/application/portal/usecases"
	"lucerna/internal/application/report"
	domainAuth "lucerna/internal/domain/auth"
	"lucerna/internal/domain/notification"
	"lucerna/internal/domain/user"
	infraAuth "lucerna/internal/infrastructure/auth"
	"lucerna/internal/infrastructure/config"
	"lucerna/internal/infrastructure/email"
	"lucerna/internal/infrastructure/ratelimit"
	"lucerna/internal/infrastructure/reporter"
	"lucerna/internal/infrastructure/repository"
	"lucerna/internal/infrastructure/token"
	"lucerna/internal/interfaces/http/handlers"
	"lucerna/internal/interfaces/http/middleware"
	"lucerna/internal/interfaces/http/routes"
	"lucerna/internal/shared/logger"
)

// Container wires repositories, use cases, handlers, and routes together.
type Container struct {
	engine *gin.Engine
	cfg    *config.Config
	log    logger.Interface

	userRepo         user.Repository
	loginTokenRepo   domainAuth.LoginTokenRepository
	settingsRepo     notification.SettingsRepository
	notificationRepo notification.NotificationRepository

	tokenGenerator token.Generator
	sessionService *infraAuth.SessionTokenService
	configCache    *email.ConfigCache
	dispatcher     *email.Dispatcher
	reportRouter   *report.Router
	rateLimiter    ratelimit.RateLimiter

	authMiddleware *middleware.AuthMiddleware

	portalHandler            *handlers.PortalHandler
	emailNotificationHandler *handlers.EmailNotificationHandler
}

// NewContainer builds the full dependency graph. The redis client may be nil,
// in which case the magic-link endpoint runs without rate limiting.
func NewContainer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Container {
	c := &Container{
		engine: gin.New(),
		cfg:    cfg,
		log:    log,
	}

	c.initRepositories(db)
	c.initServices(redisClient)
	c.initHandlers()
	c.initMiddleware()

	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.userRepo = repository.NewUserRepository(db, c.log)
	c.loginTokenRepo = repository.NewLoginTokenRepository(db, c.log)
	c.settingsRepo = repository.NewEmailSettingRepository(db, c.log)
	c.notificationRepo = repository.NewNotificationRepository(db, c.log)
}

func (c *Container) initServices(redisClient *redis.Client) {
	c.tokenGenerator = token.NewGenerator()
	c.sessionService = infraAuth.NewSessionTokenService(
		c.cfg.Auth.Session.Secret,
		c.cfg.Auth.Session.ExpireMinutes,
	)

	c.configCache = email.NewConfigCache(c.settingsRepo, c.log)
	c.dispatcher = email.NewDispatcher(c.configCache, c.log)

	var reporters []reporter.Reporter
	if tg := reporter.NewTelegramReporter(c.cfg.Telegram); tg.Enabled() {
		reporters = append(reporters, tg)
	}
	if dc := reporter.NewDiscordReporter(c.cfg.Discord); dc.Enabled() {
		reporters = append(reporters, dc)
	}
	c.reportRouter = report.NewRouter(c.notificationRepo, c.dispatcher, reporters, c.cfg.Notify, c.log)

	if redisClient != nil {
		c.rateLimiter = ratelimit.NewRedisRateLimiter(redisClient)
	}
}

func (c *Container) initHandlers() {
	requestMagicLink := portalUsecases.NewRequestMagicLinkUseCase(
		c.userRepo,
		c.loginTokenRepo,
		c.tokenGenerator,
		c.dispatcher,
		c.cfg.Server.BaseURL,
		c.cfg.Auth.LoginToken.ExpireMinutes,
		c.log,
	)
	verifyMagicLink := portalUsecases.NewVerifyMagicLinkUseCase(
		c.userRepo,
		c.loginTokenRepo,
		c.tokenGenerator,
		c.log,
	)
	getProfile := portalUsecases.NewGetProfileUseCase(c.userRepo, c.cfg.Server.BaseURL, c.log)

	c.portalHandler = handlers.NewPortalHandler(
		requestMagicLink,
		verifyMagicLink,
		getProfile,
		c.sessionService,
		c.reportRouter,
		c.cfg.Auth.Cookie,
		c.log,
	)

	c.emailNotificationHandler = handlers.NewEmailNotificationHandler(
		notificationUsecases.NewGetConfigUseCase(c.settingsRepo, c.log),
		notificationUsecases.NewUpdateConfigUseCase(c.settingsRepo, c.configCache, c.log),
		c.log,
	)
}

func (c *Container) initMiddleware() {
	c.authMiddleware = middleware.NewAuthMiddleware(c.sessionService, c.userRepo, c.log)
}

// SetupRoutes registers global middleware and every route group.
func (c *Container) SetupRoutes() {
	c.engine.Use(gin.Recovery())
	c.engine.Use(middleware.RequestLogger(c.log))

	routes.SetupPortalRoutes(c.engine, &routes.PortalRouteConfig{
		PortalHandler:      c.portalHandler,
		AuthMiddleware:     c.authMiddleware,
		MagicLinkRateLimit: c.magicLinkRateLimit(),
	})

	routes.SetupNotificationRoutes(c.engine, &routes.NotificationRouteConfig{
		EmailNotificationHandler: c.emailNotificationHandler,
		AuthMiddleware:           c.authMiddleware,
	})
}

func (c *Container) magicLinkRateLimit() gin.HandlerFunc {
	if c.rateLimiter == nil {
		c.log.Warnw("redis unavailable, magic-link rate limiting disabled")
		return func(ctx *gin.Context) { ctx.Next() }
	}
	return middleware.MagicLinkRateLimit(c.rateLimiter, ratelimit.Config{
		RequestsPerMinute: c.cfg.RateLimit.MagicLinkPerMinute,
		RequestsPerHour:   c.cfg.RateLimit.MagicLinkPerHour,
	}, c.log)
}

// Engine returns the configured gin engine.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}
