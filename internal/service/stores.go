package service

import (
	"context"

	"github.com/iliyamo/hotel-backoffice/internal/finance"
	"github.com/iliyamo/hotel-backoffice/internal/model"
	"github.com/iliyamo/hotel-backoffice/internal/queue"
	"github.com/iliyamo/hotel-backoffice/internal/repository"
)

// BookingStore is implemented by repository.BookingRepo.
type BookingStore interface {
	GetByID(ctx context.Context, id uint64) (model.Booking, error)
	List(ctx context.Context, f model.BookingFilter) ([]model.Booking, error)
	CreateChecked(ctx context.Context, b *model.Booking, check repository.OverlapCheck) error
	UpdateChecked(ctx context.Context, b *model.Booking, check repository.OverlapCheck) error
	UpdateStatus(ctx context.Context, id uint64, status model.BookingStatus, payment model.PaymentStatus) error
}

// RoomStore is implemented by repository.RoomRepo.
type RoomStore interface {
	GetByID(ctx context.Context, id uint64) (model.Room, error)
	ListByProperty(ctx context.Context, propertyID uint64) ([]model.Room, error)
	CountByProperty(ctx context.Context, propertyID uint64) (int, error)
	Create(ctx context.Context, r *model.Room) error
	UpdateStatus(ctx context.Context, id uint64, status model.RoomStatus) error
}

// OwnerStore is implemented by repository.OwnerRepo.
type OwnerStore interface {
	GetByID(ctx context.Context, id uint64) (model.Owner, error)
	List(ctx context.Context) ([]model.Owner, error)
	Create(ctx context.Context, o *model.Owner) error
}

// PropertyStore is implemented by repository.PropertyRepo.
type PropertyStore interface {
	GetByID(ctx context.Context, id uint64) (model.Property, error)
	List(ctx context.Context) ([]model.Property, error)
	Create(ctx context.Context, p *model.Property) error
}

// EventPublisher is implemented by RabbitPublisher and NopPublisher.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// RateSource resolves the fee rates of a property.  config.FeeSchedule
// implements it.
type RateSource interface {
	For(propertyID uint64) finance.Rates
}
