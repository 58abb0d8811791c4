package persistence

import (
	"strings"

	"github.com/Klabsprojects/rcs-dashboard-api/internal/domain/record"
)

// SortFields returns the columns of s that may appear in ORDER BY: the id
// column, the creation timestamp and every declared field.
func SortFields(s *record.Schema) map[string]bool {
	allowed := make(map[string]bool, len(s.Fields)+2)
	allowed[s.IDColumn] = true
	if s.CreatedColumn != "" {
		allowed[s.CreatedColumn] = true
	}
	for _, f := range s.Fields {
		allowed[f.Name] = true
	}
	return allowed
}

// ValidateSortField returns sortField when it is whitelisted, otherwise
// defaultField.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// sortColumn picks the ORDER BY column for a read of s: the requested
// column if the schema declares it, then the schema default, then the id.
func sortColumn(s *record.Schema, requested string) string {
	def := s.OrderBy
	if def == "" {
		def = s.IDColumn
	}
	return ValidateSortField(requested, SortFields(s), def)
}
