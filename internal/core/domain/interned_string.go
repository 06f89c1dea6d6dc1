package domain

import "unique"

// InternedString wraps a unique.Handle[string].
// Node filenames are interned because the same header path is linked from many nodes.
type InternedString struct {
	h unique.Handle[string]
}

// NewInternedString interns s.
func NewInternedString(s string) InternedString {
	return InternedString{
		h: unique.Make(s),
	}
}

// String returns the underlying string value, or "" for the zero value.
func (is InternedString) String() string {
	var zero unique.Handle[string]
	if is.h == zero {
		return ""
	}
	return is.h.Value()
}

// Len returns the length of the underlying string in bytes.
func (is InternedString) Len() int {
	return len(is.String())
}
