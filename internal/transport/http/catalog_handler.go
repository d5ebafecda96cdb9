package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/light-bringer/procat-browse/internal/app/catalog/selection"
	"github.com/light-bringer/procat-browse/internal/app/catalog/session"
)

// CatalogHandler serves the catalog view and its filter interactions.
// Every interaction responds with the re-rendered view.
type CatalogHandler struct {
	registry    *session.Registry
	idleTimeout time.Duration
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(registry *session.Registry, idleTimeout time.Duration) *CatalogHandler {
	return &CatalogHandler{
		registry:    registry,
		idleTimeout: idleTimeout,
	}
}

// SearchRequest is the body of PUT /session/search.
type SearchRequest struct {
	Search string `json:"search" form:"search" query:"search"`
}

// Register mounts the catalog routes on g.
func (h *CatalogHandler) Register(g *echo.Group) {
	g.GET("/products", h.ListProducts)
	g.GET("/brands", h.ListBrands)
	g.GET("/categories", h.ListCategories)

	g.PUT("/session/search", h.SetSearch)
	g.POST("/session/categories/:id/toggle", h.ToggleCategory)
	g.POST("/session/brands/:id/toggle", h.ToggleBrand)
	g.DELETE("/session/categories", h.ClearCategories)
	g.DELETE("/session/brands", h.ClearBrands)
	g.DELETE("/session/filters", h.ClearFilters)
	g.PUT("/session/page/:page", h.SetPage)
	g.DELETE("/session", h.ResetSession)
}

// ListProducts handles GET /products. The URL query is the source of truth
// for the filter state: it replaces whatever the session held.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	s := acquireSession(c, h.registry, h.idleTimeout)
	s.Hydrate(c.QueryParams())
	return h.render(c, s)
}

// ListBrands handles GET /brands.
func (h *CatalogHandler) ListBrands(c echo.Context) error {
	s := acquireSession(c, h.registry, h.idleTimeout)
	brands, err := s.Brands(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, brands)
}

// ListCategories handles GET /categories.
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	s := acquireSession(c, h.registry, h.idleTimeout)
	categories, err := s.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

// SetSearch handles PUT /session/search. An empty value clears the search.
func (h *CatalogHandler) SetSearch(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid search request")
	}
	return h.update(c, func(state *selection.State) {
		state.SetSearch(req.Search)
	})
}

// ToggleCategory handles POST /session/categories/:id/toggle.
func (h *CatalogHandler) ToggleCategory(c echo.Context) error {
	id := c.Param("id")
	return h.update(c, func(state *selection.State) {
		state.ToggleCategory(id)
	})
}

// ToggleBrand handles POST /session/brands/:id/toggle.
func (h *CatalogHandler) ToggleBrand(c echo.Context) error {
	id := c.Param("id")
	return h.update(c, func(state *selection.State) {
		state.ToggleBrand(id)
	})
}

// ClearCategories handles DELETE /session/categories.
func (h *CatalogHandler) ClearCategories(c echo.Context) error {
	return h.update(c, (*selection.State).ClearCategoryFilter)
}

// ClearBrands handles DELETE /session/brands.
func (h *CatalogHandler) ClearBrands(c echo.Context) error {
	return h.update(c, (*selection.State).ClearBrandFilter)
}

// ClearFilters handles DELETE /session/filters.
func (h *CatalogHandler) ClearFilters(c echo.Context) error {
	return h.update(c, (*selection.State).ClearAllFilters)
}

// SetPage handles PUT /session/page/:page.
func (h *CatalogHandler) SetPage(c echo.Context) error {
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "page must be a number")
	}
	return h.update(c, func(state *selection.State) {
		state.SetPage(page)
	})
}

// ResetSession handles DELETE /session.
func (h *CatalogHandler) ResetSession(c echo.Context) error {
	s := acquireSession(c, h.registry, h.idleTimeout)
	s.Reset()
	return h.render(c, s)
}

func (h *CatalogHandler) update(c echo.Context, fn func(*selection.State)) error {
	s := acquireSession(c, h.registry, h.idleTimeout)
	s.Update(fn)
	return h.render(c, s)
}

func (h *CatalogHandler) render(c echo.Context, s *session.Session) error {
	view, err := s.Render(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}
