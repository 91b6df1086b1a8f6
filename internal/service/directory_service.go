package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-backoffice/internal/model"
)

// DirectoryService manages owners and properties.
type DirectoryService struct {
	Owners     OwnerStore
	Properties PropertyStore
}

func NewDirectoryService(o OwnerStore, p PropertyStore) *DirectoryService {
	return &DirectoryService{Owners: o, Properties: p}
}

func (s *DirectoryService) ListOwners(ctx context.Context) ([]model.Owner, error) {
	return s.Owners.List(ctx)
}

// CreateOwner stores an owner.  A commission rate, when given, must be a
// fraction between 0 and 1.
func (s *DirectoryService) CreateOwner(ctx context.Context, o model.Owner) (model.Owner, error) {
	o.Name = strings.TrimSpace(o.Name)
	if o.Name == "" {
		return model.Owner{}, invalid("name", "is required")
	}
	if r := o.CommissionRate; r != nil && (r.IsNegative() || r.GreaterThan(decimal.NewFromInt(1))) {
		return model.Owner{}, invalid("commission_rate", "must be between 0 and 1")
	}
	if err := s.Owners.Create(ctx, &o); err != nil {
		return model.Owner{}, err
	}
	return o, nil
}

func (s *DirectoryService) ListProperties(ctx context.Context) ([]model.Property, error) {
	return s.Properties.List(ctx)
}

// CreateProperty stores a property.  The timezone must be an IANA name.
func (s *DirectoryService) CreateProperty(ctx context.Context, p model.Property) (model.Property, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return model.Property{}, invalid("name", "is required")
	}
	if p.Timezone == "" {
		p.Timezone = "UTC"
	}
	if _, err := time.LoadLocation(p.Timezone); err != nil {
		return model.Property{}, invalid("timezone", "unknown timezone "+p.Timezone)
	}
	if err := s.Properties.Create(ctx, &p); err != nil {
		return model.Property{}, err
	}
	return p, nil
}
