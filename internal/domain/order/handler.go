package order

import (
	"errors"
	"net/http"
	"time"

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
	read.GET("/orders", h.List)
	read.GET("/orders/ready-for-billing", h.ListReadyForBilling)
	read.GET("/orders/:id", h.Get)

	write := api.Group("", auth.RequireRole("admin", "billing"))
	write.POST("/orders", h.Create)
	write.PUT("/orders/:id/status", h.UpdateStatus)
	write.PUT("/orders/:id/billing/ready", h.MarkReadyForBilling)
	write.POST("/orders/:id/payment", h.ProcessPayment)
	write.PUT("/orders/:id/cancel", h.Cancel)
	write.PUT("/orders/:id/items", h.ReplaceItems)
	write.POST("/orders/bulk/ready-for-billing", h.BulkReadyForBilling)
}

// toAPIError maps the service's sentinel errors onto the response taxonomy.
// Anything unrecognized falls through as a logged 500.
func toAPIError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return respond.NewError(http.StatusNotFound, respond.CodeNotFound, "order not found")
	case errors.Is(err, ErrInvalidTransition):
		return respond.NewError(http.StatusBadRequest, respond.CodeInvalidTransition, err.Error())
	case errors.Is(err, ErrNotCompleted):
		return respond.NewError(http.StatusBadRequest, respond.CodeNotCompleted, err.Error())
	case errors.Is(err, ErrInvalidAmount):
		return respond.NewError(http.StatusBadRequest, respond.CodeInvalidAmount, err.Error())
	case errors.Is(err, ErrVersionConflict):
		return respond.NewError(http.StatusConflict, respond.CodeConflict, err.Error())
	default:
		return err
	}
}

func parseUUIDParam(v string) (*uuid.UUID, error) {
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (h *Handler) Create(c echo.Context) error {
	var o Order
	if err := c.Bind(&o); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &o); err != nil {
		if apiErr := toAPIError(err); apiErr != err {
			return apiErr
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.JSON(c, http.StatusCreated, o)
}

func (h *Handler) Get(c echo.Context) error {
	o, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toAPIError(err)
	}
	return respond.JSON(c, http.StatusOK, o)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	filter := ListFilter{}
	if v := c.QueryParam("client_id"); v != "" {
		id, err := parseUUIDParam(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid client_id")
		}
		filter.ClientID = id
	}
	if v := c.QueryParam("status"); v != "" {
		st := OrderStatus(v)
		if !st.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		filter.Status = &st
	}
	items, total, err := h.svc.List(c.Request().Context(), filter, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return respond.JSON(c, http.StatusOK, pagination.NewPage(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListReadyForBilling(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListReadyForBilling(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return respond.JSON(c, http.StatusOK, pagination.NewPage(items, total, pg.Limit, pg.Offset))
}

type updateStatusRequest struct {
	Status OrderStatus `json:"status"`
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "status is required")
	}
	o, err := h.svc.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return toAPIError(err)
	}
	return respond.JSON(c, http.StatusOK, o)
}

func (h *Handler) MarkReadyForBilling(c echo.Context) error {
	o, err := h.svc.MarkReadyForBilling(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toAPIError(err)
	}
	return respond.JSON(c, http.StatusOK, o)
}

type paymentRequest struct {
	Amount      float64    `json:"amount"`
	PaymentDate *time.Time `json:"payment_date"`
}

func (h *Handler) ProcessPayment(c echo.Context) error {
	var req paymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	o, err := h.svc.ProcessPayment(c.Request().Context(), c.Param("id"), req.Amount, req.PaymentDate)
	if err != nil {
		return toAPIError(err)
	}
	return respond.JSON(c, http.StatusOK, o)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) Cancel(c echo.Context) error {
	var req cancelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	o, err := h.svc.Cancel(c.Request().Context(), c.Param("id"), req.Reason)
	if err != nil {
		return toAPIError(err)
	}
	return respond.JSON(c, http.StatusOK, o)
}

type replaceItemsRequest struct {
	Items []OrderItem `json:"items"`
}

func (h *Handler) ReplaceItems(c echo.Context) error {
	var req replaceItemsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	o, err := h.svc.ReplaceItems(c.Request().Context(), c.Param("id"), req.Items)
	if err != nil {
		if apiErr := toAPIError(err); apiErr != err {
			return apiErr
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.JSON(c, http.StatusOK, o)
}

type bulkReadyRequest struct {
	OrderIDs []string `json:"order_ids"`
}

type bulkReadyResponse struct {
	ModifiedCount int `json:"modified_count"`
}

func (h *Handler) BulkReadyForBilling(c echo.Context) error {
	var req bulkReadyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.OrderIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "order_ids is required")
	}
	modified := h.svc.BulkMarkReadyForBilling(c.Request().Context(), req.OrderIDs)
	return respond.JSON(c, http.StatusOK, bulkReadyResponse{ModifiedCount: modified})
}
