package e2e

import (
	"github.com/light-bringer/apartment-registry/internal/app/apartment/domain"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/usecases/create_apartment"
)

// ApartmentBuilder helps create apartments for tests with a fluent interface.
type ApartmentBuilder struct {
	ownerID string
	fields  domain.ApartmentFields
}

// NewApartmentBuilder creates a builder with only the required fields set.
func NewApartmentBuilder(ownerID string) *ApartmentBuilder {
	return &ApartmentBuilder{
		ownerID: ownerID,
		fields: domain.ApartmentFields{
			Address:      "1 Main St",
			City:         "Springfield",
			CurrentPrice: 1000,
		},
	}
}

func (b *ApartmentBuilder) WithCity(city string) *ApartmentBuilder {
	b.fields.City = city
	return b
}

func (b *ApartmentBuilder) WithPrice(price float64) *ApartmentBuilder {
	b.fields.CurrentPrice = price
	return b
}

func (b *ApartmentBuilder) WithRooms(rooms int64) *ApartmentBuilder {
	b.fields.Rooms = &rooms
	return b
}

func (b *ApartmentBuilder) WithArea(sqm float64) *ApartmentBuilder {
	b.fields.AreaSqm = &sqm
	return b
}

func (b *ApartmentBuilder) WithDescription(description string) *ApartmentBuilder {
	b.fields.Description = &description
	return b
}

// Build creates the create_apartment.Request.
func (b *ApartmentBuilder) Build() *create_apartment.Request {
	return &create_apartment.Request{
		OwnerID: b.ownerID,
		Fields:  b.fields,
	}
}
