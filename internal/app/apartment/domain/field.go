package domain

// Field is one slot of a partial update. It tells apart three states:
// omitted (zero value), set to a value, and explicitly set to null.
type Field[T comparable] struct {
	set   bool
	null  bool
	value T
}

// Value returns a Field set to v.
func Value[T comparable](v T) Field[T] {
	return Field[T]{set: true, value: v}
}

// Null returns a Field explicitly set to null.
func Null[T comparable]() Field[T] {
	return Field[T]{set: true, null: true}
}

// FromPtr maps nil to Null and anything else to Value.
func FromPtr[T comparable](p *T) Field[T] {
	if p == nil {
		return Null[T]()
	}
	return Value(*p)
}

// IsSet reports whether the caller included this field in the update.
func (f Field[T]) IsSet() bool { return f.set }

// IsNull reports whether the field was explicitly set to null.
func (f Field[T]) IsNull() bool { return f.set && f.null }

// Get returns the value and true when the field carries a non-null value.
func (f Field[T]) Get() (T, bool) {
	if !f.set || f.null {
		var zero T
		return zero, false
	}
	return f.value, true
}

// Ptr returns a pointer to the value, or nil when omitted or null.
func (f Field[T]) Ptr() *T {
	if !f.set || f.null {
		return nil
	}
	v := f.value
	return &v
}
