package m_change_history

const TableName = "change_history"

const (
	ApartmentID = "apartment_id"
	HistoryID   = "history_id"
	FieldName   = "field_name"
	OldValue    = "old_value"
	NewValue    = "new_value"
	ChangedAt   = "changed_at"
	ChangedByID = "changed_by_id"
)
