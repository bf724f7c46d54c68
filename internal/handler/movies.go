package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/the-umedov/moviebot/internal/model"
)

// MovieLister is the read-only slice of the movie store the ops surface
// needs.  repository.MovieRepo satisfies it.
type MovieLister interface {
	ListAll(ctx context.Context) ([]model.Movie, error)
}

// MovieHandler exposes the stored catalogue to operators.  It is read-only
// on purpose: content enters the system through the bot's submission wizard
// only.
type MovieHandler struct {
	store MovieLister
}

// NewMovieHandler constructs a MovieHandler over the given store.
func NewMovieHandler(store MovieLister) *MovieHandler {
	return &MovieHandler{store: store}
}

// movieItem is the JSON shape of one catalogue entry.  Payload is omitted:
// the listing exists for inventory checks, not for content access.
type movieItem struct {
	Code      string `json:"code"`
	Title     string `json:"title"`
	Kind      string `json:"kind"`
	CreatedAt string `json:"created_at"`
}

// ListMovies returns every stored movie ordered by code ascending, the same
// ordering the bot's "all movies" listing uses.
func (h *MovieHandler) ListMovies(c echo.Context) error {
	movies, err := h.store.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal"})
	}
	items := make([]movieItem, 0, len(movies))
	for _, m := range movies {
		items = append(items, movieItem{
			Code:      m.Code,
			Title:     m.Title,
			Kind:      string(m.Kind),
			CreatedAt: m.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		})
	}
	return c.JSON(http.StatusOK, items)
}
