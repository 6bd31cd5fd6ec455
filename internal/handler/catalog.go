package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/showbookie/movie-booking/internal/config"
	"github.com/showbookie/movie-booking/internal/repository"
)

// CatalogHandler serves the read-only browse endpoints: movies, theaters
// and the show schedule. Listings are cached in Redis with a TTL since
// the catalog changes rarely and never through this service; when Redis
// is unavailable every request reads straight from the database.
type CatalogHandler struct {
	Movies   *repository.MovieRepo
	Theaters *repository.TheaterRepo
	Shows    *repository.ShowRepo
	Cache    *redis.Client // may be nil
	CacheCfg config.CacheConfig
}

// NewCatalogHandler constructs a CatalogHandler. The repositories must
// be non-nil; the cache client may be nil.
func NewCatalogHandler(movies *repository.MovieRepo, theaters *repository.TheaterRepo, shows *repository.ShowRepo, cache *redis.Client, cacheCfg config.CacheConfig) *CatalogHandler {
	if movies == nil || theaters == nil || shows == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{Movies: movies, Theaters: theaters, Shows: shows, Cache: cache, CacheCfg: cacheCfg}
}

// ListMovies handles GET /v1/movies.
func (h *CatalogHandler) ListMovies(c echo.Context) error {
	return h.serveCached(c, "movies", func(ctx context.Context) (any, error) {
		return h.Movies.List(ctx)
	})
}

// ListTheaters handles GET /v1/theaters.
func (h *CatalogHandler) ListTheaters(c echo.Context) error {
	return h.serveCached(c, "theaters", func(ctx context.Context) (any, error) {
		return h.Theaters.List(ctx)
	})
}

// ListScreens handles GET /v1/theaters/:id/screens.
func (h *CatalogHandler) ListScreens(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
	}
	return h.serveCached(c, "screens:"+c.Param("id"), func(ctx context.Context) (any, error) {
		return h.Theaters.ListScreens(ctx, id)
	})
}

// ListShows handles GET /v1/shows.
func (h *CatalogHandler) ListShows(c echo.Context) error {
	return h.serveCached(c, "shows", func(ctx context.Context) (any, error) {
		return h.Shows.List(ctx)
	})
}

// serveCached answers from the Redis cache when possible, otherwise
// loads from the database and stores the JSON for the configured TTL.
// Cache failures are treated as misses; the database is the source of
// truth.
func (h *CatalogHandler) serveCached(c echo.Context, name string, load func(ctx context.Context) (any, error)) error {
	ctx := c.Request().Context()
	key := h.CacheCfg.Prefix + ":" + name

	if h.cacheEnabled() {
		if body, err := h.Cache.Get(ctx, key).Bytes(); err == nil {
			return c.JSONBlob(http.StatusOK, body)
		}
	}

	loadCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	items, err := load(loadCtx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch " + name})
	}
	body, err := json.Marshal(items)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch " + name})
	}
	if h.cacheEnabled() {
		_ = h.Cache.Set(ctx, key, body, h.CacheCfg.TTL).Err()
	}
	return c.JSONBlob(http.StatusOK, body)
}

func (h *CatalogHandler) cacheEnabled() bool {
	return h.Cache != nil && h.CacheCfg.Enabled
}
