// Package upsert reconciles incoming records with stored rows by natural key.
package upsert

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Klabsprojects/rcs-dashboard-api/internal/domain/record"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/domain/shared"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/infrastructure/logger"
)

// Action is the outcome of one upsert.
type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionSkip   Action = "skip"
	ActionError  Action = "error"
)

// Outcome describes what Resolve did and the row as it now stands. Key holds
// the natural key as stored.
type Outcome struct {
	Action Action
	ID     any
	Key    map[string]any
	Row    record.Row
}

// Observer is notified of every resolved record. action is one of the
// Action values.
type Observer interface {
	ObserveUpsert(entity, action string)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithObserver registers an observer for upsert outcomes.
func WithObserver(o Observer) Option {
	return func(r *Resolver) {
		r.observer = o
	}
}

// WithClock overrides the clock used for insert timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}

// Resolver performs insert-or-update of a single record keyed on the
// schema's natural key.
type Resolver struct {
	repo     record.Repository
	now      func() time.Time
	observer Observer
}

// NewResolver creates a new Resolver
func NewResolver(repo record.Repository, opts ...Option) *Resolver {
	r := &Resolver{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve validates rec, looks the natural key up and inserts, updates or
// skips according to the schema's policy. The insert is conditional on the
// key being absent, so a concurrent writer that wins the race turns this
// call into a match instead of a duplicate row.
func (r *Resolver) Resolve(ctx context.Context, s *record.Schema, rec record.Record) (out Outcome, err error) {
	defer func() {
		if r.observer == nil {
			return
		}
		if err != nil {
			r.observer.ObserveUpsert(s.Name, string(ActionError))
			return
		}
		r.observer.ObserveUpsert(s.Name, string(out.Action))
	}()

	normalized, err := s.Normalize(rec)
	if err != nil {
		return Outcome{}, err
	}
	key := s.KeyValues(normalized)

	id, found, err := r.repo.FindIDByKey(ctx, s, key)
	if err != nil {
		return Outcome{}, shared.NewInfrastructureError("lookup "+s.Table, err)
	}

	action := ActionUpdate
	if !found {
		inserted, err := r.repo.InsertIfAbsent(ctx, s, s.InsertValues(normalized, r.now()))
		if err != nil {
			return Outcome{}, shared.NewInfrastructureError("insert "+s.Table, err)
		}
		if inserted {
			action = ActionInsert
		} else {
			logger.L(ctx).Info("natural key inserted concurrently, applying match policy",
				zap.String("entity", s.Name),
				zap.Any("key", key),
			)
		}

		id, found, err = r.repo.FindIDByKey(ctx, s, key)
		if err != nil {
			return Outcome{}, shared.NewInfrastructureError("lookup "+s.Table, err)
		}
		if !found {
			return Outcome{}, shared.NewNotFoundPostWriteError(s.Table, fmt.Sprint(key))
		}
	}

	if action != ActionInsert {
		if s.Policy == record.PolicyNoOp {
			action = ActionSkip
		} else if err := r.repo.UpdateByID(ctx, s, id, s.UpdateValues(normalized)); err != nil {
			return Outcome{}, shared.NewInfrastructureError("update "+s.Table, err)
		}
	}

	if !s.FreshRead {
		return Outcome{Action: action, ID: id, Key: key, Row: s.Echo(normalized, id)}, nil
	}

	row, found, err := r.repo.FindByID(ctx, s, id)
	if err != nil {
		return Outcome{}, shared.NewInfrastructureError("read "+s.Table, err)
	}
	if !found {
		return Outcome{}, shared.NewNotFoundPostWriteError(s.Table, id)
	}
	return Outcome{Action: action, ID: id, Key: key, Row: row}, nil
}
