package m_apartment

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the apartments table.
type Data struct {
	ApartmentID  string              `spanner:"apartment_id"`
	OwnerID      string              `spanner:"owner_id"`
	Address      string              `spanner:"address"`
	City         string              `spanner:"city"`
	AreaSqm      spanner.NullFloat64 `spanner:"area_sqm"`
	Rooms        spanner.NullInt64   `spanner:"rooms"`
	Floor        spanner.NullInt64   `spanner:"floor"`
	BuildingYear spanner.NullInt64   `spanner:"building_year"`
	CurrentPrice float64             `spanner:"current_price"`
	Description  spanner.NullString  `spanner:"description"`
	Version      int64               `spanner:"version"`
	CreatedAt    time.Time           `spanner:"created_at"`
	UpdatedAt    time.Time           `spanner:"updated_at"`
}
