package persistence

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Klabsprojects/rcs-dashboard-api/internal/domain/record"
)

// GormRecordRepository implements record.Repository over schema-described
// tables using GORM's map based API.
type GormRecordRepository struct {
	db *gorm.DB
}

// NewGormRecordRepository creates a new GormRecordRepository
func NewGormRecordRepository(db *gorm.DB) *GormRecordRepository {
	return &GormRecordRepository{db: db}
}

var _ record.Repository = (*GormRecordRepository)(nil)

// FindIDByKey looks up the row id by natural-key equality.
func (r *GormRecordRepository) FindIDByKey(ctx context.Context, s *record.Schema, key map[string]any) (any, bool, error) {
	q := r.db.WithContext(ctx).Table(s.Table).Select(s.IDColumn)
	for _, col := range s.Key {
		q = q.Where(clause.Eq{Column: clause.Column{Name: col}, Value: key[col]})
	}

	var rows []map[string]any
	if err := q.Limit(1).Find(&rows).Error; err != nil {
		return nil, false, fmt.Errorf("lookup %s by natural key: %w", s.Table, err)
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return rows[0][s.IDColumn], true, nil
}

// InsertIfAbsent issues INSERT ... ON CONFLICT (natural key) DO NOTHING, or
// the MySQL equivalent.
func (r *GormRecordRepository) InsertIfAbsent(ctx context.Context, s *record.Schema, values map[string]any) (bool, error) {
	result := r.db.WithContext(ctx).
		Table(s.Table).
		Clauses(r.onConflict(s)).
		Create(values)
	if result.Error != nil {
		return false, fmt.Errorf("insert into %s: %w", s.Table, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// onConflict builds the conflict clause for a map insert. MySQL has no DO
// NOTHING and gorm derives its fallback from a model schema that map writes
// lack, so the no-op assignment id = id is spelled out. An unchanged row
// reports zero rows affected there as well.
func (r *GormRecordRepository) onConflict(s *record.Schema) clause.OnConflict {
	if r.db.Dialector.Name() == "mysql" {
		id := clause.Column{Name: s.IDColumn}
		return clause.OnConflict{DoUpdates: clause.Set{{Column: id, Value: id}}}
	}

	cols := make([]clause.Column, len(s.Key))
	for i, k := range s.Key {
		cols[i] = clause.Column{Name: k}
	}
	return clause.OnConflict{Columns: cols, DoNothing: true}
}

// UpdateByID overwrites values on the row identified by id.
func (r *GormRecordRepository) UpdateByID(ctx context.Context, s *record.Schema, id any, values map[string]any) error {
	if len(values) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).
		Table(s.Table).
		Where(clause.Eq{Column: clause.Column{Name: s.IDColumn}, Value: id}).
		Updates(values)
	if result.Error != nil {
		return fmt.Errorf("update %s %v: %w", s.Table, id, result.Error)
	}
	return nil
}

// FindByID reads one row, joined when the schema declares joins.
func (r *GormRecordRepository) FindByID(ctx context.Context, s *record.Schema, id any) (record.Row, bool, error) {
	var rows []map[string]any
	err := r.selectQuery(ctx, s).
		Where(clause.Eq{Column: clause.Column{Table: tableAlias, Name: s.IDColumn}, Value: id}).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, false, fmt.Errorf("read %s %v: %w", s.Table, id, err)
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return record.Row(rows[0]), true, nil
}

// Search runs count-then-fetch with one predicate. A zero count returns an
// empty page without issuing the fetch.
func (r *GormRecordRepository) Search(ctx context.Context, s *record.Schema, q record.Query) (record.Page, error) {
	filter, err := BuildFilter(s, q.Criteria)
	if err != nil {
		return record.Page{}, err
	}

	var total int64
	countQ := filter.Apply(r.db.WithContext(ctx).Table(s.Table + " AS " + tableAlias))
	if err := countQ.Count(&total).Error; err != nil {
		return record.Page{}, fmt.Errorf("count %s: %w", s.Table, err)
	}
	if total == 0 {
		return record.Page{Rows: []record.Row{}, Total: 0}, nil
	}

	orderBy := sortColumn(s, q.OrderBy)

	var rows []map[string]any
	err = filter.Apply(r.selectQuery(ctx, s)).
		Order(clause.OrderByColumn{Column: clause.Column{Table: tableAlias, Name: orderBy}, Desc: q.Desc}).
		Find(&rows).Error
	if err != nil {
		return record.Page{}, fmt.Errorf("fetch %s: %w", s.Table, err)
	}

	return record.Page{Rows: toRows(rows), Total: total}, nil
}

// Last returns the most recently inserted row.
func (r *GormRecordRepository) Last(ctx context.Context, s *record.Schema) (record.Row, bool, error) {
	var rows []map[string]any
	err := r.selectQuery(ctx, s).
		Order(clause.OrderByColumn{Column: clause.Column{Table: tableAlias, Name: s.IDColumn}, Desc: true}).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, false, fmt.Errorf("read last %s: %w", s.Table, err)
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return record.Row(rows[0]), true, nil
}

// selectQuery starts a read of s aliased as t, with reference-table columns
// added through LEFT JOINs.
func (r *GormRecordRepository) selectQuery(ctx context.Context, s *record.Schema) *gorm.DB {
	q := r.db.WithContext(ctx).Table(s.Table + " AS " + tableAlias)
	if !s.Joined() {
		return q.Select(tableAlias + ".*")
	}

	selects := []string{tableAlias + ".*"}
	for _, j := range s.Joins {
		for _, c := range j.Columns {
			selects = append(selects, j.Alias+"."+c)
		}
		q = q.Joins(fmt.Sprintf("LEFT JOIN %s %s ON %s.%s = %s.%s",
			j.Table, j.Alias, j.Alias, j.ForeignColumn, tableAlias, j.LocalColumn))
	}
	return q.Select(strings.Join(selects, ", "))
}

func toRows(in []map[string]any) []record.Row {
	out := make([]record.Row, len(in))
	for i, m := range in {
		out[i] = record.Row(m)
	}
	return out
}
