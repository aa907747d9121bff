package m_apartment

// Field name constants for the apartments table.
const (
	TableName = "apartments"

	ApartmentID  = "apartment_id"
	OwnerID      = "owner_id"
	Address      = "address"
	City         = "city"
	AreaSqm      = "area_sqm"
	Rooms        = "rooms"
	Floor        = "floor"
	BuildingYear = "building_year"
	CurrentPrice = "current_price"
	Description  = "description"
	Version      = "version"
	CreatedAt    = "created_at"
	UpdatedAt    = "updated_at"
)

// OwnerIndex is the secondary index used to list an owner's apartments.
const OwnerIndex = "apartments_by_owner"
