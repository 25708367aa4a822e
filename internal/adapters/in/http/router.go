package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RequestObserver records served requests.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// RouterOptions configures NewRouter. A zero RateLimitRPS disables rate limiting.
type RouterOptions struct {
	RateLimitRPS   float64
	RateLimitBurst int
	Gatherer       prometheus.Gatherer
	Observer       RequestObserver
	Logger         *zap.Logger
}

// NewRouter builds the echo instance serving /health, /metrics and the /api/v1 routes.
func NewRouter(server *Server, opts RouterOptions) *echo.Echo {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.ERROR)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(accessLog(logger.With(zap.String("component", "http_access"))))
	if opts.Observer != nil {
		e.Use(observe(opts.Observer))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	if opts.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	api := e.Group("/api/v1")
	if opts.RateLimitRPS > 0 {
		api.Use(rateLimit(opts.RateLimitRPS, opts.RateLimitBurst))
	}

	api.POST("/dispatch/orders/:orderId", server.DispatchOrder)
	api.GET("/dispatch/orders/:orderId", server.GetDispatchStatus)
	api.POST("/dispatch/offers/:offerId/response", server.RespondToOffer)

	api.GET("/partners/nearby", server.GetNearbyPartners)
	api.PUT("/partners/:partnerId/location", server.UpdatePartnerLocation)
	api.PUT("/partners/:partnerId/availability", server.SetPartnerAvailability)

	api.GET("/buyers/:buyerId/trust-score", server.GetTrustScore)
	api.POST("/buyers/:buyerId/trust-score/refresh", server.RefreshTrustScore)
	api.GET("/buyers/:buyerId/payment-methods", server.GetPaymentMethods)

	api.GET("/pincodes/:pincode/risk", server.GetPincodeRisk)
	api.POST("/orders/:orderId/outcome", server.RecordOrderOutcome)
	api.POST("/checkouts/screen", server.DetectSuspiciousCheckout)

	return e
}

// rateLimit allows rps requests per second per client IP with the given burst.
func rateLimit(rps float64, burst int) echo.MiddlewareFunc {
	if burst <= 0 {
		burst = int(rps) + 1
	}
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(rps),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, _ error) error {
			return c.JSON(http.StatusForbidden, Error{Code: http.StatusForbidden, Message: "client not identified"})
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(http.StatusTooManyRequests, Error{Code: http.StatusTooManyRequests, Message: "rate limit exceeded"})
		},
	})
}

func accessLog(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				logger.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Debug("request", fields...)
			return nil
		},
	})
}

func observe(observer RequestObserver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			var httpErr *echo.HTTPError
			switch {
			case errors.As(err, &httpErr):
				status = httpErr.Code
			case err != nil && !c.Response().Committed:
				status = http.StatusInternalServerError
			}
			observer.ObserveRequest(c.Request().Method, c.Path(), status, time.Since(start))
			return err
		}
	}
}
