package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/clinicdesk/pkg/respond"
)

func newTestHandler() (*Handler, *echo.Echo) {
	return NewHandler(newTestService()), echo.New()
}

func TestHandler_NormalizeClinic(t *testing.T) {
	h, e := newTestHandler()
	if err := h.svc.CreateClinic(context.Background(), &Clinic{Name: "Downtown Clinic"}); err != nil {
		t.Fatalf("seed clinic: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/?slug=Downtown%20Clinic", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.NormalizeClinic(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var env respond.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	data := env.Data.(map[string]interface{})
	if data["slug"] != "downtown-clinic" || data["name"] != "Downtown Clinic" {
		t.Errorf("unexpected normalization: %v", data)
	}
}

func TestHandler_NormalizeClinic_MissingSlug(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.NormalizeClinic(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_NormalizeClinic_Unknown(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/?slug=nowhere", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.NormalizeClinic(c)
	apiErr, ok := err.(*respond.APIError)
	if !ok || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404 APIError, got %v", err)
	}
}

func TestHandler_CreateCatalogItem(t *testing.T) {
	h, e := newTestHandler()
	body := `{"key":"massage-60","name":"Massage 60min","unit_price":50,"duration_minutes":60,"active":true}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateCatalogItem(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestHandler_GetClinic_InvalidID(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.GetClinic(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
