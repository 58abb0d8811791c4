package persistence

import (
	"strings"

	"gorm.io/gorm"

	"github.com/Klabsprojects/rcs-dashboard-api/internal/domain/record"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/domain/shared"
)

// tableAlias qualifies the primary table in every read so joined columns
// never shadow filter columns.
const tableAlias = "t"

// Filter is a conjunction of parameterized predicates. Clauses only ever
// contain schema-declared column names and placeholders; values live in Args.
type Filter struct {
	Clauses []string
	Args    []any
}

func (f *Filter) add(clause string, arg any) {
	f.Clauses = append(f.Clauses, clause)
	f.Args = append(f.Args, arg)
}

// Empty reports whether the filter imposes no constraint.
func (f Filter) Empty() bool {
	return len(f.Clauses) == 0
}

// Where renders the filter as a single predicate joined with AND.
func (f Filter) Where() (string, []any) {
	return strings.Join(f.Clauses, " AND "), f.Args
}

// Apply adds every predicate to q.
func (f Filter) Apply(q *gorm.DB) *gorm.DB {
	for i, c := range f.Clauses {
		q = q.Where(c, f.Args[i])
	}
	return q
}

// BuildFilter turns request criteria into predicates according to the
// schema's FilterSpec. Empty criteria and the "all" sentinel contribute
// nothing; bare-date bounds on date-time columns cover the whole day.
func BuildFilter(s *record.Schema, criteria record.Criteria) (Filter, error) {
	var f Filter

	for _, ef := range s.Filters.Exact {
		raw := strings.TrimSpace(criteria[ef.Param])
		if raw == "" {
			continue
		}
		if ef.AllowAll && strings.EqualFold(raw, "all") {
			continue
		}
		var value any = raw
		if field, ok := s.Field(ef.Column); ok {
			v, err := record.Coerce(field, raw)
			if err != nil {
				return Filter{}, err
			}
			value = v
		}
		f.add(qualify(ef.Column)+" = ?", value)
	}

	for _, rf := range s.Filters.Ranges {
		field, ok := s.Field(rf.Column)
		if !ok {
			field = record.Field{Name: rf.Column, Kind: record.KindString}
		}
		if raw := strings.TrimSpace(criteria[rf.FromParam]); raw != "" {
			v, err := rangeBound(field, rf.FromParam, raw, false)
			if err != nil {
				return Filter{}, err
			}
			f.add(qualify(rf.Column)+" >= ?", v)
		}
		if raw := strings.TrimSpace(criteria[rf.ToParam]); raw != "" {
			v, err := rangeBound(field, rf.ToParam, raw, true)
			if err != nil {
				return Filter{}, err
			}
			f.add(qualify(rf.Column)+" <= ?", v)
		}
	}

	return f, nil
}

func rangeBound(field record.Field, param, raw string, upper bool) (any, error) {
	switch field.Kind {
	case record.KindDateTime:
		v, err := record.DayBounds(raw, upper)
		if err != nil {
			return nil, shared.NewValidationError("Invalid %s format. Use YYYY-MM-DD.", param)
		}
		return v, nil
	case record.KindDate:
		v, err := record.Coerce(field, raw)
		if err != nil {
			return nil, shared.NewValidationError("Invalid %s format. Use YYYY-MM-DD.", param)
		}
		return v, nil
	}
	return record.Coerce(field, raw)
}

func qualify(column string) string {
	return tableAlias + "." + column
}
