package client

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
	"github.com/clinicdesk/clinicdesk/pkg/pagination"
	"github.com/clinicdesk/clinicdesk/pkg/respond"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("admin", "billing", "front_desk"))
	read.GET("/clients", h.List)
	read.GET("/clients/:id", h.Get)
	read.GET("/clients/:id/contact-history", h.ListContactHistory)

	write := api.Group("", auth.RequireRole("admin", "front_desk"))
	write.POST("/clients", h.Create)
	write.PUT("/clients/:id", h.Update)
	write.DELETE("/clients/:id", h.Delete)
	write.POST("/clients/:id/contact-history", h.AddContactEntry)
	write.POST("/clients/contact-history/bulk-status", h.BulkUpdateContactStatus)
}

func mapErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return respond.NewError(http.StatusNotFound, respond.CodeNotFound, "client record not found")
	}
	return err
}

func (h *Handler) Create(c echo.Context) error {
	var cl Client
	if err := c.Bind(&cl); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &cl); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.JSON(c, http.StatusCreated, cl)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	cl, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return mapErr(err)
	}
	return respond.JSON(c, http.StatusOK, cl)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var cl Client
	if err := c.Bind(&cl); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cl.ID = id
	if err := h.svc.Update(c.Request().Context(), &cl); err != nil {
		return mapErr(err)
	}
	return respond.JSON(c, http.StatusOK, cl)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return mapErr(err)
	}
	return respond.Message(c, http.StatusOK, nil, "client deleted")
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	activeOnly := c.QueryParam("active") == "true"
	items, total, err := h.svc.List(c.Request().Context(), activeOnly, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return respond.JSON(c, http.StatusOK, pagination.NewPage(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) AddContactEntry(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var e ContactEntry
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e.ClientID = id
	if err := h.svc.AddContactEntry(c.Request().Context(), &e); err != nil {
		if apiErr := mapErr(err); apiErr != err {
			return apiErr
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.JSON(c, http.StatusCreated, e)
}

func (h *Handler) ListContactHistory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListContactHistory(c.Request().Context(), id, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return respond.JSON(c, http.StatusOK, pagination.NewPage(items, total, pg.Limit, pg.Offset))
}

type bulkStatusRequest struct {
	EntryIDs []uuid.UUID   `json:"entry_ids"`
	Status   ContactStatus `json:"status"`
}

type bulkStatusResponse struct {
	ModifiedCount int `json:"modified_count"`
}

func (h *Handler) BulkUpdateContactStatus(c echo.Context) error {
	var req bulkStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.EntryIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "entry_ids is required")
	}
	modified, err := h.svc.BulkUpdateContactStatus(c.Request().Context(), req.EntryIDs, req.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.JSON(c, http.StatusOK, bulkStatusResponse{ModifiedCount: modified})
}
