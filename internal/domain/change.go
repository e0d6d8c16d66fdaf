package domain

// Change is one entry of a sparse update: the stored attribute name and its
// new value.
type Change struct {
	Field string
	Value any
}
