package domain

// ChangeTracker records which columns of an aggregate must be written back.
// Fields are reported in the order they were first marked.
type ChangeTracker struct {
	order []string
	dirty map[string]struct{}
}

// NewChangeTracker creates an empty ChangeTracker.
func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{dirty: make(map[string]struct{})}
}

// MarkDirty marks field as modified.
func (ct *ChangeTracker) MarkDirty(field string) {
	if _, ok := ct.dirty[field]; ok {
		return
	}
	ct.dirty[field] = struct{}{}
	ct.order = append(ct.order, field)
}

// Dirty reports whether field was modified.
func (ct *ChangeTracker) Dirty(field string) bool {
	_, ok := ct.dirty[field]
	return ok
}

// Clear forgets every marked field.
func (ct *ChangeTracker) Clear() {
	ct.order = nil
	ct.dirty = make(map[string]struct{})
}

// HasChanges returns true if any field has been modified.
func (ct *ChangeTracker) HasChanges() bool {
	return len(ct.order) > 0
}

// DirtyFields returns the modified fields in marking order.
func (ct *ChangeTracker) DirtyFields() []string {
	out := make([]string, len(ct.order))
	copy(out, ct.order)
	return out
}
