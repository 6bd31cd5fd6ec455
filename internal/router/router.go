package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // the Echo web framework used for routing
	"github.com/redis/go-redis/v9"

	"github.com/showbookie/movie-booking/internal/config"
	"github.com/showbookie/movie-booking/internal/handler"
	"github.com/showbookie/movie-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the registration and login endpoints under
// /v1/auth, plus the protected /v1/me endpoint.  The rate limiter is
// applied to the unauthenticated routes to slow credential stuffing.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1/auth", middleware.RateLimit(rlCfg, rdb))
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterCatalog registers the unauthenticated browse endpoints.  The
// handler serves sanitized, cacheable reference data for guests picking
// a movie before logging in.
func RegisterCatalog(e *echo.Echo, cat *handler.CatalogHandler) {
	e.GET("/v1/movies", cat.ListMovies)
	e.GET("/v1/theaters", cat.ListTheaters)
	e.GET("/v1/theaters/:id/screens", cat.ListScreens)
	e.GET("/v1/shows", cat.ListShows)
}

// RegisterBooking registers the booking endpoints under /v1.  All routes
// require a valid JWT; creation is additionally rate limited because it
// opens a database transaction per request.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	g.POST("/bookings", b.Create, middleware.RateLimit(rlCfg, rdb))
	g.GET("/bookings", b.List)
}
