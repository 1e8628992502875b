package delivery

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/albusdente/materiais/internal/platform/auth"
	"github.com/albusdente/materiais/internal/platform/blobstore"
	"github.com/albusdente/materiais/pkg/pagination"
)

type Handler struct {
	service *Service
	store   blobstore.Store
}

func NewHandler(service *Service, store blobstore.Store) *Handler {
	return &Handler{service: service, store: store}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	adminGroup := api.Group("/delivery", auth.RequireAdmin())
	adminGroup.POST("/confirm", h.ConfirmList)
	adminGroup.POST("/confirm-clinic", h.ConfirmClinic)
	adminGroup.POST("/upload", h.UploadPhoto)
	adminGroup.GET("/confirmations", h.ListConfirmations)
	adminGroup.GET("/clinic-confirmations", h.ListClinicConfirmations)
}

func actorFromContext(c echo.Context) Actor {
	id, _ := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	return Actor{ID: id, Role: auth.RoleFromContext(c.Request().Context())}
}

func (h *Handler) ConfirmList(c echo.Context) error {
	var in ConfirmListInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	conf, err := h.service.ConfirmList(c.Request().Context(), in, actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrForbidden):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		case errors.Is(err, ErrNotDeliverable):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, ErrPersistence):
			return echo.NewHTTPError(http.StatusInternalServerError, "confirming delivery failed")
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusOK, conf)
}

func (h *Handler) ConfirmClinic(c echo.Context) error {
	var in ConfirmClinicInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.ConfirmClinic(c.Request().Context(), in, actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrForbidden):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		case errors.Is(err, ErrNothingToDeliver):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrPersistence):
			return echo.NewHTTPError(http.StatusInternalServerError, "confirming delivery failed")
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusOK, result)
}

// UploadPhoto stores a delivery photo and, when a lista id accompanies it,
// records a stub confirmation so the evidence is linked even if the admin
// never completes the confirm form.
func (h *Handler) UploadPhoto(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read uploaded file")
	}
	defer file.Close()

	listaID, err := uuid.Parse(c.FormValue("listaId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "listaId is required")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	key := blobstore.PhotoKey(listaID.String(), fileHeader.Filename)

	obj, err := h.store.Put(c.Request().Context(), key, contentType, file)
	if err != nil {
		switch {
		case errors.Is(err, blobstore.ErrInvalidContentType):
			return echo.NewHTTPError(http.StatusUnsupportedMediaType, err.Error())
		case errors.Is(err, blobstore.ErrFileTooLarge):
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "storing photo failed")
		}
	}

	h.service.RecordUploadStub(c.Request().Context(), listaID, obj.URL, actorFromContext(c))

	return c.JSON(http.StatusOK, map[string]string{"photoUrl": obj.URL})
}

func (h *Handler) ListConfirmations(c echo.Context) error {
	pg := pagination.FromContext(c)
	confs, total, err := h.service.ListConfirmations(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "listing confirmations failed")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(confs, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListClinicConfirmations(c echo.Context) error {
	pg := pagination.FromContext(c)
	confs, total, err := h.service.ListClinicConfirmations(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "listing clinic confirmations failed")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(confs, total, pg.Limit, pg.Offset))
}
