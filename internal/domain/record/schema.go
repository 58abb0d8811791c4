// Package record describes entities declaratively so that one resolver and
// one batch runner can serve every table: natural key, required and mutable
// fields, insert defaults, the update policy and the joins used on read.
package record

import "slices"

// Kind is the scalar type of a field.
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindNumber
	KindDate
	KindDateTime
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindDateTime:
		return "datetime"
	default:
		return "string"
	}
}

// Policy decides what happens when an incoming record matches a stored row.
type Policy string

const (
	// PolicyUpdate overwrites the matched row's mutable fields.
	PolicyUpdate Policy = "update"
	// PolicyNoOp leaves the matched row untouched and reports a skip.
	PolicyNoOp Policy = "noop"
)

// Field declares one column of an entity.
type Field struct {
	Name string
	Kind Kind
	// Default is written on insert when the field is absent. nil means none.
	Default any
	// Enum restricts string values; input is upper-cased before the check.
	Enum []string
}

// Join pulls display columns from a reference table on read.
type Join struct {
	Table         string
	Alias         string
	LocalColumn   string
	ForeignColumn string
	Columns       []string
}

// ExactFilter maps a query parameter to an equality predicate.
type ExactFilter struct {
	Param  string
	Column string
	// AllowAll treats a case-insensitive "all" as no constraint.
	AllowAll bool
}

// RangeFilter maps a pair of query parameters to an inclusive range.
type RangeFilter struct {
	FromParam string
	ToParam   string
	Column    string
}

// FilterSpec lists the criteria a read endpoint accepts.
type FilterSpec struct {
	Exact  []ExactFilter
	Ranges []RangeFilter
}

// Schema is the declarative description of one entity table.
type Schema struct {
	Name     string
	Table    string
	IDColumn string
	Fields   []Field
	Key      []string
	Required []string
	Mutable  []string
	Policy   Policy
	// FreshRead re-fetches the written row instead of echoing the input.
	FreshRead bool
	Joins     []Join
	// CreatedColumn, when set, is stamped with the insert time.
	CreatedColumn string
	OrderBy       string
	Filters       FilterSpec
}

// Field looks up a declared field by name.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// IsKey reports whether name is part of the natural key.
func (s *Schema) IsKey(name string) bool {
	return slices.Contains(s.Key, name)
}

// IsMutable reports whether name may be overwritten on update.
func (s *Schema) IsMutable(name string) bool {
	return slices.Contains(s.Mutable, name) && !s.IsKey(name)
}

// Joined reports whether reads of this entity join reference tables.
func (s *Schema) Joined() bool {
	return len(s.Joins) > 0
}
