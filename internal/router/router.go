package router // registers the HTTP routes for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/event-booking/internal/config"
	"github.com/iliyamo/event-booking/internal/handler"
	"github.com/iliyamo/event-booking/internal/middleware"
	"github.com/iliyamo/event-booking/internal/model"
)

// RegisterRoutes registers the unauthenticated infrastructure routes:
// the health check and the prometheus metrics endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers registration, login and the profile endpoints.
// Register and login are open; the /api/me group requires a valid
// access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	e.POST("/api/register/", a.Register)
	e.POST("/api/login/", a.Login)

	me := e.Group("/api/me", middleware.JWTAuth(jwtSecret))
	me.GET("/", a.Me)
	me.PUT("/update/", a.UpdateMe)
}

// RegisterEvents registers event browsing and lifecycle routes. The
// listing is public with optional identity (created_by=me needs the
// caller's email) and sits behind the Redis response cache; everything
// else requires authentication, and reconcile additionally requires the
// admin role.
func RegisterEvents(e *echo.Echo, h *handler.EventHandler, jwtSecret string, rdb *redis.Client, cacheCfg config.CacheConfig) {
	e.GET("/api/events/", h.List,
		middleware.OptionalJWTAuth(jwtSecret),
		middleware.ResponseCache(cacheCfg, rdb))

	e.POST("/api/events/create/", h.Create, middleware.JWTAuth(jwtSecret))
	e.DELETE("/api/events/delete/:id/", h.Delete, middleware.JWTAuth(jwtSecret))
	e.GET("/api/events/:id/reserved-seats/", h.ReservedSeats, middleware.JWTAuth(jwtSecret))
	e.POST("/api/events/:id/reconcile/", h.Reconcile,
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin))
}

// RegisterBookings registers the booking routes. All of them require
// authentication; the admin listing additionally requires the admin
// role.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/api/bookings", middleware.JWTAuth(jwtSecret))
	g.POST("/", h.Create)
	g.GET("/get/", h.MyBookings)
	g.GET("/list/", h.ListAll, middleware.RequireRole(model.RoleAdmin))
	g.GET("/:id/", h.Get)
	g.PUT("/:id/", h.Update)
}

// RegisterUpload registers the authenticated image upload route.
func RegisterUpload(e *echo.Echo, h *handler.UploadHandler, jwtSecret string) {
	e.POST("/api/upload/", h.Upload, middleware.JWTAuth(jwtSecret))
}
