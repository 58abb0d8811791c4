package record

import (
	"fmt"
	"time"

	"github.com/Klabsprojects/rcs-dashboard-api/internal/domain/shared"
)

// Record is one incoming entity: field name to scalar value.
type Record map[string]any

// Row is one stored entity as read back from the store.
type Row map[string]any

// present reports whether the field carries a value. JSON null counts as absent,
// while zero and empty string are values.
func (r Record) present(name string) bool {
	v, ok := r[name]
	return ok && v != nil
}

// MissingRequired lists the required fields absent from r, in schema order.
func (s *Schema) MissingRequired(r Record) []string {
	var missing []string
	for _, name := range s.Required {
		if !r.present(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Normalize validates r and returns a copy holding only declared fields,
// each coerced to its kind. Undeclared input such as a caller-supplied row
// id is dropped. No store access happens here.
func (s *Schema) Normalize(r Record) (Record, error) {
	if missing := s.MissingRequired(r); len(missing) > 0 {
		return nil, shared.NewMissingFieldsError(missing)
	}

	out := make(Record, len(s.Fields))
	for _, f := range s.Fields {
		if !r.present(f.Name) {
			continue
		}
		v, err := Coerce(f, r[f.Name])
		if err != nil {
			return nil, err
		}
		out[f.Name] = v
	}
	return out, nil
}

// KeyOf extracts the natural-key values present in r. It is used to label
// batch results, so it tolerates records that fail validation.
func (s *Schema) KeyOf(r Record) map[string]any {
	key := make(map[string]any, len(s.Key))
	for _, name := range s.Key {
		if v, ok := r[name]; ok {
			key[name] = v
		}
	}
	return key
}

// KeyValues returns the natural-key values of a normalized record.
func (s *Schema) KeyValues(r Record) map[string]any {
	key := make(map[string]any, len(s.Key))
	for _, name := range s.Key {
		key[name] = r[name]
	}
	return key
}

// InsertValues builds the column set for a new row: key fields, supplied
// mutable fields, and defaults for the absent ones.
func (s *Schema) InsertValues(r Record, now time.Time) map[string]any {
	values := s.KeyValues(r)
	for _, name := range s.Mutable {
		if v, ok := r[name]; ok {
			values[name] = v
			continue
		}
		if f, ok := s.Field(name); ok && f.Default != nil {
			values[name] = f.Default
		}
	}
	if s.CreatedColumn != "" {
		values[s.CreatedColumn] = now.Format(DateTimeLayout)
	}
	return values
}

// UpdateValues builds the column set for an update: only mutable fields the
// record actually supplies. Key columns never appear.
func (s *Schema) UpdateValues(r Record) map[string]any {
	values := make(map[string]any)
	for _, name := range s.Mutable {
		if s.IsKey(name) {
			continue
		}
		if v, ok := r[name]; ok {
			values[name] = v
		}
	}
	return values
}

// Echo is the representation returned when the schema does not re-read.
func (s *Schema) Echo(r Record, id any) Row {
	row := make(Row, len(r)+1)
	for k, v := range r {
		row[k] = v
	}
	row[s.IDColumn] = id
	return row
}

// Validate checks that a schema is internally consistent.
func (s *Schema) Validate() error {
	if s.Name == "" || s.Table == "" || s.IDColumn == "" {
		return fmt.Errorf("schema %q: name, table and id column are required", s.Name)
	}
	if len(s.Key) == 0 {
		return fmt.Errorf("schema %q: natural key is empty", s.Name)
	}
	for _, group := range [][]string{s.Key, s.Required, s.Mutable} {
		for _, name := range group {
			if _, ok := s.Field(name); !ok {
				return fmt.Errorf("schema %q: field %q is not declared", s.Name, name)
			}
		}
	}
	for _, name := range s.Mutable {
		if s.IsKey(name) {
			return fmt.Errorf("schema %q: key field %q cannot be mutable", s.Name, name)
		}
	}
	if s.Policy != PolicyUpdate && s.Policy != PolicyNoOp {
		return fmt.Errorf("schema %q: unknown policy %q", s.Name, s.Policy)
	}
	return nil
}
