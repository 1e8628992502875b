package material

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/albusdente/materiais/internal/platform/auth"
	"github.com/albusdente/materiais/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// The catalog is readable by every authenticated user; writes are
	// admin-only.
	api.GET("/materials", h.ListMaterials)
	api.GET("/materials/:id", h.GetMaterial)

	writeGroup := api.Group("", auth.RequireAdmin())
	writeGroup.POST("/materials", h.CreateMaterial)
	writeGroup.PUT("/materials/:id", h.UpdateMaterial)
	writeGroup.DELETE("/materials/:id", h.DeleteMaterial)
}

func (h *Handler) CreateMaterial(c echo.Context) error {
	var m Material
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateMaterial(c.Request().Context(), &m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) GetMaterial(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	m, err := h.svc.GetMaterial(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "material not found")
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) ListMaterials(c echo.Context) error {
	pg := pagination.FromContext(c)

	if name := c.QueryParam("q"); name != "" {
		mats, total, err := h.svc.SearchMaterials(c.Request().Context(), name, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(mats, total, pg.Limit, pg.Offset))
	}

	mats, total, err := h.svc.ListMaterials(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(mats, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateMaterial(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var m Material
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m.ID = id
	if err := h.svc.UpdateMaterial(c.Request().Context(), &m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) DeleteMaterial(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteMaterial(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
