package report

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/albusdente/materiais/internal/platform/auth"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	adminGroup := api.Group("/reports", auth.RequireAdmin())
	adminGroup.GET("/stats", h.Stats)
	adminGroup.GET("/monthly-trends", h.MonthlyTrends)
	adminGroup.GET("/clinic-distribution", h.ClinicDistribution)
	adminGroup.GET("/recent-lists", h.RecentLists)
	adminGroup.GET("/monthly", h.Monthly)
	adminGroup.GET("/lists/:id/export", h.ExportListXLSX)
	adminGroup.GET("/export", h.ExportListsCSV)
}

func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "loading dashboard stats failed")
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) MonthlyTrends(c echo.Context) error {
	months, _ := strconv.Atoi(c.QueryParam("months"))
	trends, err := h.service.MonthlyTrends(c.Request().Context(), months)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "loading monthly trends failed")
	}
	return c.JSON(http.StatusOK, trends)
}

func (h *Handler) ClinicDistribution(c echo.Context) error {
	dist, err := h.service.ClinicDistribution(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "loading clinic distribution failed")
	}
	return c.JSON(http.StatusOK, dist)
}

func (h *Handler) RecentLists(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	lists, err := h.service.RecentLists(c.Request().Context(), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "loading recent lists failed")
	}
	return c.JSON(http.StatusOK, lists)
}

func (h *Handler) Monthly(c echo.Context) error {
	rep, err := h.service.Monthly(c.Request().Context(), c.QueryParam("start"), c.QueryParam("end"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *Handler) ExportListXLSX(c echo.Context) error {
	listaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid lista id")
	}

	content, filename, err := h.service.ExportListXLSX(c.Request().Context(), listaID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

func (h *Handler) ExportListsCSV(c echo.Context) error {
	content, filename, err := h.service.ExportListsCSV(c.Request().Context(), c.QueryParam("month"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "text/csv", content)
}
