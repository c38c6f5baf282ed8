package transport

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/apperrors"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/config"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/policy"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/ratelimit"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/service"
)

const (
	principalKey = "principal"

	rateLimitIdle = 10 * time.Minute
)

var Module = fx.Options(
	fx.Provide(NewHTTPServer),
	fx.Invoke(func(*HTTPServer) {}),
)

type (
	Services struct {
		fx.In

		Markers  *service.Markers
		Tags     *service.Tags
		Comments *service.Comments
		Auth     *service.Auth
		Users    *service.Users
		Reports  *service.Reports
	}

	HTTPServer struct {
		app     *fiber.App
		svc     Services
		limiter *ratelimit.KeyedRateLimiter
		logger  *zap.SugaredLogger
	}
)

func NewHTTPServer(lc fx.Lifecycle, cfg *config.Config, svc Services, logger *zap.SugaredLogger) *HTTPServer {
	instance := New(cfg, svc, logger)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				listen := cfg.Host + ":" + cfg.Port
				logger.Infow("Starting HTTP server.", "address", listen)
				if err := instance.app.Listen(listen); err != nil && err != http.ErrServerClosed {
					logger.Errorw("HTTP server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server.")
			instance.limiter.Stop()
			return instance.app.ShutdownWithContext(ctx)
		},
	})

	return instance
}

// New builds the fiber app with every route registered. It does not listen.
func New(cfg *config.Config, svc Services, logger *zap.SugaredLogger) *HTTPServer {
	instance := &HTTPServer{
		svc:     svc,
		limiter: ratelimit.New(cfg.AuthRateLimit, cfg.AuthRateBurst, rateLimitIdle),
		logger:  logger,
	}

	app := fiber.New(fiber.Config{
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler:          instance.ErrorHandler,
		DisableStartupMessage: true,
	})
	instance.app = app

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	app.Use(instance.RequestLogger)

	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	if cfg.MetricsEnabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	api := app.Group("/api", instance.AuthMiddleware)

	authG := api.Group("/auth")
	authG.Post("/register", instance.RateLimit, instance.Register)
	authG.Post("/login", instance.RateLimit, instance.Login)
	authG.Post("/refresh", instance.RateLimit, instance.Refresh)
	authG.Get("/me", RequireAuth, instance.Me)

	markerG := api.Group("/markers")
	markerG.Get("/public", instance.MarkerListPublic)
	markerG.Get("/user/:userId", instance.MarkerListByOwner)
	markerG.Get("", instance.MarkerListVisible)
	markerG.Get("/:id", instance.MarkerGet)
	markerG.Post("", RequireAuth, instance.MarkerCreate)
	markerG.Put("/:id", RequireAuth, instance.MarkerUpdate)
	markerG.Delete("/:id", RequireAuth, instance.MarkerDelete)

	tagG := api.Group("/tags")
	tagG.Get("/public", instance.TagListPublic)
	tagG.Get("/user/:userId", instance.TagListByOwner)
	tagG.Get("", instance.TagListVisible)
	tagG.Post("", RequireAuth, instance.TagCreate)
	tagG.Put("/:id", RequireAuth, instance.TagUpdate)
	tagG.Delete("/:id", RequireAuth, instance.TagDelete)

	commentG := api.Group("/comments")
	commentG.Get("/marker/:markerId", instance.CommentList)
	commentG.Post("", RequireAuth, instance.CommentCreate)
	commentG.Delete("/:id", RequireAuth, instance.CommentDelete)

	userG := api.Group("/users", RequireAuth)
	userG.Get("", RequireAdmin, instance.UserList)
	userG.Get("/:id", instance.UserGet)
	userG.Put("/:id", instance.UserUpdate)
	userG.Delete("/:id", instance.UserDelete)

	reportG := api.Group("/reports")
	reportG.Get("/trending", instance.ReportTrending)
	reportG.Get("/admin-summary", RequireAdmin, instance.ReportSummary)
	reportG.Get("/users/:id", RequireAuth, instance.ReportUser)

	app.Use(func(c *fiber.Ctx) error {
		return apperrors.NotFound("route not found")
	})

	return instance
}

// App exposes the fiber app, mainly for app.Test.
func (s *HTTPServer) App() *fiber.App {
	return s.app
}

////////

func BindBody(c *fiber.Ctx, v interface{}) error {
	if err := c.BodyParser(v); err != nil {
		return apperrors.Validation("invalid request body").WithCause(err)
	}
	return nil
}

func GetPrincipal(c *fiber.Ctx) policy.Principal {
	p, ok := c.Locals(principalKey).(policy.Principal)
	if !ok {
		return policy.Anonymous
	}
	return p
}

func GetAndParseParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	v := c.Params(name)
	if v == "" {
		return uuid.Nil, apperrors.Validation("missing path param '" + name + "'")
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, apperrors.ValidationWithDetails("invalid path param", map[string]string{
			name: "must be a valid UUID",
		})
	}
	return id, nil
}

// tagFilter reads ?tags=a,b into labels.
func tagFilter(c *fiber.Ctx) []string {
	raw := c.Query("tags")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
