package insurance

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
	read.GET("/insurance/payers", h.ListPayers)
	read.GET("/insurance/payers/:id", h.GetPayer)
	read.GET("/insurance/plans", h.ListPlans)
	read.GET("/insurance/plans/:id", h.GetPlan)

	write := api.Group("", auth.RequireRole("admin", "billing"))
	write.POST("/insurance/payers", h.CreatePayer)
	write.PUT("/insurance/payers/:id", h.UpdatePayer)
	write.DELETE("/insurance/payers/:id", h.DeletePayer)
	write.POST("/insurance/plans", h.CreatePlan)
	write.PUT("/insurance/plans/:id", h.UpdatePlan)
	write.DELETE("/insurance/plans/:id", h.DeletePlan)
}

func mapErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return respond.NewError(http.StatusNotFound, respond.CodeNotFound, "insurance record not found")
	}
	return err
}

// -- Payers --

func (h *Handler) CreatePayer(c echo.Context) error {
	var p Payer
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreatePayer(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.JSON(c, http.StatusCreated, p)
}

func (h *Handler) GetPayer(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.GetPayer(c.Request().Context(), id)
	if err != nil {
		return mapErr(err)
	}
	return respond.JSON(c, http.StatusOK, p)
}

func (h *Handler) UpdatePayer(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var p Payer
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	if err := h.svc.UpdatePayer(c.Request().Context(), &p); err != nil {
		return mapErr(err)
	}
	return respond.JSON(c, http.StatusOK, p)
}

func (h *Handler) DeletePayer(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeletePayer(c.Request().Context(), id); err != nil {
		return mapErr(err)
	}
	return respond.Message(c, http.StatusOK, nil, "payer deleted")
}

func (h *Handler) ListPayers(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListPayers(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return respond.JSON(c, http.StatusOK, pagination.NewPage(items, total, pg.Limit, pg.Offset))
}

// -- Plans --

func (h *Handler) CreatePlan(c echo.Context) error {
	var p Plan
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreatePlan(c.Request().Context(), &p); err != nil {
		if apiErr := mapErr(err); apiErr != err {
			return apiErr
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.JSON(c, http.StatusCreated, p)
}

func (h *Handler) GetPlan(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.GetPlan(c.Request().Context(), id)
	if err != nil {
		return mapErr(err)
	}
	return respond.JSON(c, http.StatusOK, p)
}

func (h *Handler) UpdatePlan(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var p Plan
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	if err := h.svc.UpdatePlan(c.Request().Context(), &p); err != nil {
		if apiErr := mapErr(err); apiErr != err {
			return apiErr
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.JSON(c, http.StatusOK, p)
}

func (h *Handler) DeletePlan(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeletePlan(c.Request().Context(), id); err != nil {
		return mapErr(err)
	}
	return respond.Message(c, http.StatusOK, nil, "plan deleted")
}

func (h *Handler) ListPlans(c echo.Context) error {
	pg := pagination.FromContext(c)
	var payerID *uuid.UUID
	if v := c.QueryParam("payer_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payer_id")
		}
		payerID = &id
	}
	items, total, err := h.svc.ListPlans(c.Request().Context(), payerID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return respond.JSON(c, http.StatusOK, pagination.NewPage(items, total, pg.Limit, pg.Offset))
}
