package router // package router defines how the ops HTTP routes are registered

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/the-umedov/moviebot/internal/handler" // import the handlers that implement the ops endpoints
)

// RegisterRoutes registers the ops endpoints on the provided Echo instance.
// The surface is intentionally small: a health check for monitoring and a
// read-only movie listing for operators.  The bot itself never goes through
// HTTP; it talks to Telegram over long polling.
func RegisterRoutes(e *echo.Echo, m *handler.MovieHandler) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by monitoring systems to verify that the
	// service is up and running.
	e.GET("/healthz", handler.Health)
	// Read-only catalogue listing, same ordering as the bot's list view.
	e.GET("/v1/movies", m.ListMovies)
}
