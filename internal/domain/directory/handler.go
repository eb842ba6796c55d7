package directory

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
	read.GET("/clinics", h.ListClinics)
	read.GET("/clinics/normalize", h.NormalizeClinic)
	read.GET("/clinics/:id", h.GetClinic)
	read.GET("/practitioners", h.ListPractitioners)
	read.GET("/practitioners/:id", h.GetPractitioner)
	read.GET("/services", h.ListCatalog)
	read.GET("/services/:id", h.GetCatalogItem)

	write := api.Group("", auth.RequireRole("admin"))
	write.POST("/clinics", h.CreateClinic)
	write.PUT("/clinics/:id", h.UpdateClinic)
	write.DELETE("/clinics/:id", h.DeleteClinic)
	write.POST("/practitioners", h.CreatePractitioner)
	write.PUT("/practitioners/:id", h.UpdatePractitioner)
	write.DELETE("/practitioners/:id", h.DeletePractitioner)
	write.POST("/services", h.CreateCatalogItem)
	write.PUT("/services/:id", h.UpdateCatalogItem)
	write.DELETE("/services/:id", h.DeleteCatalogItem)
}

func mapErr(err error, what string) error {
	if errors.Is(err, ErrNotFound) {
		return respond.NewError(http.StatusNotFound, respond.CodeNotFound, what+" not found")
	}
	return err
}

// -- Clinics --

func (h *Handler) CreateClinic(c echo.Context) error {
	var clinic Clinic
	if err := c.Bind(&clinic); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateClinic(c.Request().Context(), &clinic); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.JSON(c, http.StatusCreated, clinic)
}

func (h *Handler) GetClinic(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	clinic, err := h.svc.GetClinic(c.Request().Context(), id)
	if err != nil {
		return mapErr(err, "clinic")
	}
	return respond.JSON(c, http.StatusOK, clinic)
}

type normalizeResponse struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// NormalizeClinic maps ?slug= to the canonical clinic name.
func (h *Handler) NormalizeClinic(c echo.Context) error {
	slug := c.QueryParam("slug")
	if slug == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "slug is required")
	}
	name, err := h.svc.ResolveClinicName(c.Request().Context(), slug)
	if err != nil {
		return mapErr(err, "clinic")
	}
	return respond.JSON(c, http.StatusOK, normalizeResponse{Slug: NormalizeSlug(slug), Name: name})
}

func (h *Handler) UpdateClinic(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var clinic Clinic
	if err := c.Bind(&clinic); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	clinic.ID = id
	if err := h.svc.UpdateClinic(c.Request().Context(), &clinic); err != nil {
		return mapErr(err, "clinic")
	}
	return respond.JSON(c, http.StatusOK, clinic)
}

func (h *Handler) DeleteClinic(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteClinic(c.Request().Context(), id); err != nil {
		return mapErr(err, "clinic")
	}
	return respond.Message(c, http.StatusOK, nil, "clinic deleted")
}

func (h *Handler) ListClinics(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListClinics(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return respond.JSON(c, http.StatusOK, pagination.NewPage(items, total, pg.Limit, pg.Offset))
}

// -- Practitioners --

func (h *Handler) CreatePractitioner(c echo.Context) error {
	var p Practitioner
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreatePractitioner(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.JSON(c, http.StatusCreated, p)
}

func (h *Handler) GetPractitioner(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.GetPractitioner(c.Request().Context(), id)
	if err != nil {
		return mapErr(err, "practitioner")
	}
	return respond.JSON(c, http.StatusOK, p)
}

func (h *Handler) UpdatePractitioner(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var p Practitioner
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	if err := h.svc.UpdatePractitioner(c.Request().Context(), &p); err != nil {
		return mapErr(err, "practitioner")
	}
	return respond.JSON(c, http.StatusOK, p)
}

func (h *Handler) DeletePractitioner(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeletePractitioner(c.Request().Context(), id); err != nil {
		return mapErr(err, "practitioner")
	}
	return respond.Message(c, http.StatusOK, nil, "practitioner deleted")
}

func (h *Handler) ListPractitioners(c echo.Context) error {
	pg := pagination.FromContext(c)
	var clinicID *uuid.UUID
	if v := c.QueryParam("clinic_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid clinic_id")
		}
		clinicID = &id
	}
	activeOnly := c.QueryParam("active") == "true"
	items, total, err := h.svc.ListPractitioners(c.Request().Context(), clinicID, activeOnly, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return respond.JSON(c, http.StatusOK, pagination.NewPage(items, total, pg.Limit, pg.Offset))
}

// -- Catalog --

func (h *Handler) CreateCatalogItem(c echo.Context) error {
	var item CatalogItem
	if err := c.Bind(&item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateCatalogItem(c.Request().Context(), &item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.JSON(c, http.StatusCreated, item)
}

func (h *Handler) GetCatalogItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	item, err := h.svc.GetCatalogItem(c.Request().Context(), id)
	if err != nil {
		return mapErr(err, "service")
	}
	return respond.JSON(c, http.StatusOK, item)
}

func (h *Handler) UpdateCatalogItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var item CatalogItem
	if err := c.Bind(&item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	item.ID = id
	if err := h.svc.UpdateCatalogItem(c.Request().Context(), &item); err != nil {
		return mapErr(err, "service")
	}
	return respond.JSON(c, http.StatusOK, item)
}

func (h *Handler) DeleteCatalogItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteCatalogItem(c.Request().Context(), id); err != nil {
		return mapErr(err, "service")
	}
	return respond.Message(c, http.StatusOK, nil, "service deleted")
}

func (h *Handler) ListCatalog(c echo.Context) error {
	pg := pagination.FromContext(c)
	activeOnly := c.QueryParam("active") == "true"
	items, total, err := h.svc.ListCatalog(c.Request().Context(), activeOnly, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return respond.JSON(c, http.StatusOK, pagination.NewPage(items, total, pg.Limit, pg.Offset))
}
