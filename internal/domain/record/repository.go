package record

import "context"

// Criteria holds raw filter values keyed by query parameter name.
type Criteria map[string]string

// Query describes a filtered read.
type Query struct {
	Criteria Criteria
	OrderBy  string
	Desc     bool
}

// Page is a filtered read together with the row count of the same predicate.
type Page struct {
	Rows  []Row
	Total int64
}

// Repository is the store port used by the upsert engine and the read
// endpoints. Every method issues its statements under ctx and none of them
// opens a transaction.
type Repository interface {
	// FindIDByKey performs the equality point lookup on the natural key.
	FindIDByKey(ctx context.Context, s *Schema, key map[string]any) (id any, found bool, err error)
	// InsertIfAbsent inserts values unless a row with the same natural key
	// exists; inserted is false when a concurrent writer got there first.
	InsertIfAbsent(ctx context.Context, s *Schema, values map[string]any) (inserted bool, err error)
	// UpdateByID overwrites the given columns of one row.
	UpdateByID(ctx context.Context, s *Schema, id any, values map[string]any) error
	// FindByID reads one row, joined with reference tables when declared.
	FindByID(ctx context.Context, s *Schema, id any) (row Row, found bool, err error)
	// Search counts rows matching q and fetches them only when the count is
	// non-zero.
	Search(ctx context.Context, s *Schema, q Query) (Page, error)
	// Last returns the row with the highest id.
	Last(ctx context.Context, s *Schema) (row Row, found bool, err error)
}
