package router

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"mesto/internal/config"
	apperrors "mesto/internal/errors"
	"mesto/internal/handler"
	"mesto/internal/logger"
	"mesto/internal/service"
	"mesto/internal/validation"
)

const bodyLimit = "1M"

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log *zap.Logger,
	limiterStore middleware.RateLimiterStore,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	cardHandler *handler.CardHandler,
) {
	e.HideBanner = true
	// Clients are keyed by the socket address; forwarding headers are client controlled.
	e.IPExtractor = echo.ExtractIPDirect()
	e.HTTPErrorHandler = handler.NewErrorHandler(log)
	e.Validator = validation.NewEchoValidator(validation.New())

	e.Use(middleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.BodyLimit(bodyLimit))
	e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: limiterStore,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return apperrors.Internal(err)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return apperrors.TooManyRequests(apperrors.MsgTooManyRequests)
		},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	requireAuth := authMiddleware(authService)

	// Public routes
	e.POST("/signup", authHandler.Signup)
	e.POST("/signin", authHandler.Signin)

	// Secured routes (require JWT authentication)
	e.POST("/signout", authHandler.Signout, requireAuth)

	users := e.Group("/users", requireAuth)
	users.GET("", userHandler.ListUsers)
	users.GET("/me", userHandler.GetCurrentUser)
	users.PATCH("/me", userHandler.UpdateProfile)
	users.PATCH("/me/avatar", userHandler.UpdateAvatar)

	cards := e.Group("/cards", requireAuth)
	cards.GET("", cardHandler.ListCards)
	cards.POST("", cardHandler.CreateCard)
	cards.DELETE("/:id", cardHandler.DeleteCard)
	cards.PUT("/:id/likes", cardHandler.LikeCard)
	cards.DELETE("/:id/likes", cardHandler.UnlikeCard)

	if cfg.SwaggerHost != "" {
		log.Info("swagger ui enabled", zap.String("url", cfg.SwaggerHost+"/swagger/index.html"))
	}
}

// authMiddleware validates the bearer token through authService, so revoked
// tokens are rejected too. Claims and the user id land in the echo context.
func authMiddleware(authService service.AuthService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: handler.ClaimsKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := authService.Authenticate(c.Request().Context(), token)
			if err != nil {
				return nil, err
			}
			c.Set(handler.UserIDKey, claims.UserID)
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if apperrors.IsKind(err, apperrors.KindInternal) {
				return err
			}
			return apperrors.Unauthorized(apperrors.MsgAuthRequired, err)
		},
	})
}

// requestLogger logs one line per request into zap and puts a request scoped
// logger into the request context.
func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	logValues := middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("request_id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				log.Warn("request", fields...)
				return nil
			}
			log.Info("request", fields...)
			return nil
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		withLogger := func(c echo.Context) error {
			reqLog := log.With(zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)))
			req := c.Request()
			c.SetRequest(req.WithContext(logger.NewContext(req.Context(), reqLog)))
			return next(c)
		}
		return logValues(withLogger)
	}
}
