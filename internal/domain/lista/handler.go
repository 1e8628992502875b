package lista

import (
	"errors"
	"net/http"
	"strconv"

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
	api.GET("/lists", h.SearchListas)
	api.GET("/lists/:id", h.GetLista)
	api.GET("/lists/:id/items", h.ListItems)
	api.POST("/lists/:id/fill", h.FillLista)

	adminGroup := api.Group("", auth.RequireAdmin())
	adminGroup.POST("/lists/create-monthly", h.CreateMonthly)
}

func (h *Handler) CreateMonthly(c echo.Context) error {
	var body struct {
		Month string `json:"month"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	created, err := h.svc.CreateMonthly(c.Request().Context(), body.Month)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]int{"created": created})
}

// loadOwned fetches the lista and enforces that professionals only access
// their own lists. Admins pass through.
func (h *Handler) loadOwned(c echo.Context, id uuid.UUID) (*ListaDetail, error) {
	ctx := c.Request().Context()
	l, err := h.svc.GetLista(ctx, id)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "lista not found")
	}
	if auth.RoleFromContext(ctx) == auth.RoleProfessional &&
		l.ProfissionalID.String() != auth.UserIDFromContext(ctx) {
		return nil, echo.NewHTTPError(http.StatusForbidden, "not your lista")
	}
	return l, nil
}

func (h *Handler) GetLista(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	l, err := h.loadOwned(c, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, l)
}

func (h *Handler) SearchListas(c echo.Context) error {
	pg := pagination.FromContext(c)

	params := SearchParams{
		Status: c.QueryParam("status"),
		Month:  c.QueryParam("month"),
	}
	if v := c.QueryParam("clinic_id"); v != "" {
		clinicID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid clinic_id")
		}
		params.ClinicaID = clinicID
	}
	if v := c.QueryParam("professional_id"); v != "" {
		pid, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid professional_id")
		}
		params.ProfissionalID = pid
	}

	// Professionals only see their own lists.
	ctx := c.Request().Context()
	if auth.RoleFromContext(ctx) == auth.RoleProfessional {
		own, err := uuid.Parse(auth.UserIDFromContext(ctx))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
		}
		params.ProfissionalID = own
	}

	listas, total, err := h.svc.SearchListas(ctx, params, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(listas, total, pg.Limit, pg.Offset))
}

func (h *Handler) FillLista(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Items []FillItem `json:"items"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()

	if _, err := h.loadOwned(c, id); err != nil {
		return err
	}

	l, err := h.svc.Fill(ctx, id, body.Items)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "lista not found")
		case errors.Is(err, ErrAlreadyFilled):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusOK, l)
}

func (h *Handler) ListItems(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if _, err := h.loadOwned(c, id); err != nil {
		return err
	}
	items, err := h.svc.ListItems(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "lista not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}
