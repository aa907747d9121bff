package contracts

import (
	"context"
	"time"
)

// ApartmentDTO is a data transfer object for apartment queries.
type ApartmentDTO struct {
	ApartmentID  string
	OwnerID      string
	Address      string
	City         string
	AreaSqm      *float64
	Rooms        *int64
	Floor        *int64
	BuildingYear *int64
	CurrentPrice float64
	Description  *string
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ListFilter defines filtering options for listing apartments.
// An empty OwnerID lists every apartment.
type ListFilter struct {
	OwnerID string
	City    string
	Limit   int
	Offset  int
}

// ListResult contains one page of apartments and the total match count.
type ListResult struct {
	Apartments []*ApartmentDTO
	TotalCount int64
}

// ReadModel defines the interface for apartment queries.
// Read models bypass the domain layer.
type ReadModel interface {
	// GetApartmentByID retrieves an apartment DTO by ID
	GetApartmentByID(ctx context.Context, apartmentID string) (*ApartmentDTO, error)

	// ListApartments retrieves one page of apartments matching filter
	ListApartments(ctx context.Context, filter *ListFilter) (*ListResult, error)
}
