package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/domain/order"
)

type Service struct {
	clinics       ClinicRepository
	practitioners PractitionerRepository
	catalog       CatalogRepository
}

func NewService(clinics ClinicRepository, practitioners PractitionerRepository, catalog CatalogRepository) *Service {
	return &Service{clinics: clinics, practitioners: practitioners, catalog: catalog}
}

// NormalizeSlug canonicalizes a raw clinic slug: trimmed, lowercased, spaces
// collapsed to hyphens.
func NormalizeSlug(raw string) string {
	slug := strings.ToLower(strings.TrimSpace(raw))
	return strings.Join(strings.Fields(slug), "-")
}

// -- Clinics --

func (s *Service) CreateClinic(ctx context.Context, c *Clinic) error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.Slug == "" {
		c.Slug = NormalizeSlug(c.Name)
	} else {
		c.Slug = NormalizeSlug(c.Slug)
	}
	return s.clinics.Create(ctx, c)
}

func (s *Service) GetClinic(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	return s.clinics.GetByID(ctx, id)
}

// ResolveClinicName maps a slug to the clinic's canonical display name.
func (s *Service) ResolveClinicName(ctx context.Context, slug string) (string, error) {
	c, err := s.clinics.GetBySlug(ctx, NormalizeSlug(slug))
	if err != nil {
		return "", err
	}
	return c.Name, nil
}

func (s *Service) UpdateClinic(ctx context.Context, c *Clinic) error {
	if c.Slug != "" {
		c.Slug = NormalizeSlug(c.Slug)
	}
	return s.clinics.Update(ctx, c)
}

func (s *Service) DeleteClinic(ctx context.Context, id uuid.UUID) error {
	return s.clinics.Delete(ctx, id)
}

func (s *Service) ListClinics(ctx context.Context, limit, offset int) ([]*Clinic, int, error) {
	return s.clinics.List(ctx, limit, offset)
}

// -- Practitioners --

func (s *Service) CreatePractitioner(ctx context.Context, p *Practitioner) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Role == "" {
		p.Role = "practitioner"
	}
	return s.practitioners.Create(ctx, p)
}

func (s *Service) GetPractitioner(ctx context.Context, id uuid.UUID) (*Practitioner, error) {
	return s.practitioners.GetByID(ctx, id)
}

func (s *Service) UpdatePractitioner(ctx context.Context, p *Practitioner) error {
	return s.practitioners.Update(ctx, p)
}

func (s *Service) DeletePractitioner(ctx context.Context, id uuid.UUID) error {
	return s.practitioners.Delete(ctx, id)
}

func (s *Service) ListPractitioners(ctx context.Context, clinicID *uuid.UUID, activeOnly bool, limit, offset int) ([]*Practitioner, int, error) {
	return s.practitioners.List(ctx, clinicID, activeOnly, limit, offset)
}

// -- Catalog --

func (s *Service) CreateCatalogItem(ctx context.Context, item *CatalogItem) error {
	if item.Key == "" {
		return fmt.Errorf("key is required")
	}
	if item.Name == "" {
		return fmt.Errorf("name is required")
	}
	if item.UnitPrice < 0 {
		return fmt.Errorf("unit price must not be negative")
	}
	return s.catalog.Create(ctx, item)
}

func (s *Service) GetCatalogItem(ctx context.Context, id uuid.UUID) (*CatalogItem, error) {
	return s.catalog.GetByID(ctx, id)
}

func (s *Service) UpdateCatalogItem(ctx context.Context, item *CatalogItem) error {
	if item.UnitPrice < 0 {
		return fmt.Errorf("unit price must not be negative")
	}
	return s.catalog.Update(ctx, item)
}

func (s *Service) DeleteCatalogItem(ctx context.Context, id uuid.UUID) error {
	return s.catalog.Delete(ctx, id)
}

func (s *Service) ListCatalog(ctx context.Context, activeOnly bool, limit, offset int) ([]*CatalogItem, int, error) {
	return s.catalog.List(ctx, activeOnly, limit, offset)
}

// Product resolves an active catalog item for order line-item enrichment.
func (s *Service) Product(ctx context.Context, key string) (*order.Product, error) {
	item, err := s.catalog.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if !item.Active {
		return nil, fmt.Errorf("product %q is inactive", key)
	}
	return &order.Product{
		Key:             item.Key,
		Name:            item.Name,
		UnitPrice:       item.UnitPrice,
		DurationMinutes: item.DurationMinutes,
	}, nil
}
