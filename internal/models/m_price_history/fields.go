package m_price_history

// Table name constant
const TableName = "price_history"

// Field name constants for type-safe database access
const (
	ApartmentID = "apartment_id"
	HistoryID   = "history_id"
	OldPrice    = "old_price"
	NewPrice    = "new_price"
	ChangedAt   = "changed_at"
	ChangedByID = "changed_by_id"
)
