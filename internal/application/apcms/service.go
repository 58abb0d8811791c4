// Package apcms exposes the cooperative-society operations: single and batch
// upserts, filtered reads, the last-record lookup and the loan ledger report.
package apcms

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Klabsprojects/rcs-dashboard-api/internal/application/upsert"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/domain/apcms"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/domain/record"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/domain/shared"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/infrastructure/telemetry"
)

const spanService = "apcms"

// Service handles APCMS business operations
type Service struct {
	repo     record.Repository
	resolver upsert.RecordResolver
	batch    *upsert.BatchProcessor
}

// NewService creates a new Service
func NewService(repo record.Repository, resolver upsert.RecordResolver) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		batch:    upsert.NewBatchProcessor(resolver),
	}
}

func schemaFor(entity string) (*record.Schema, error) {
	s, ok := apcms.Lookup(entity)
	if !ok {
		return nil, shared.NewValidationError("Invalid record type: %s", entity)
	}
	return s, nil
}

// asDomain keeps domain errors and classifies everything else as an
// infrastructure failure.
func asDomain(op string, err error) error {
	if err == nil || shared.CodeOf(err) != "" {
		return err
	}
	return shared.NewInfrastructureError(op, err)
}

// Upsert resolves a single record of entity.
func (s *Service) Upsert(ctx context.Context, entity string, rec record.Record) (upsert.Outcome, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "upsert", attribute.String("entity", entity))
	defer span.End()

	schema, err := schemaFor(entity)
	if err != nil {
		return upsert.Outcome{}, err
	}
	out, err := s.resolver.Resolve(ctx, schema, rec)
	if err != nil {
		err = asDomain("upsert "+entity, err)
		telemetry.RecordError(span, err)
		return out, err
	}
	span.SetAttributes(attribute.String("action", string(out.Action)))
	return out, nil
}

// UpsertBatch resolves every element of payload independently.
func (s *Service) UpsertBatch(ctx context.Context, entity string, payload any) (upsert.BatchResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "upsert_batch", attribute.String("entity", entity))
	defer span.End()

	schema, err := schemaFor(entity)
	if err != nil {
		return upsert.BatchResult{}, err
	}
	res, err := s.batch.Process(ctx, schema, payload)
	if err != nil {
		telemetry.RecordError(span, err)
		return res, err
	}
	span.SetAttributes(
		attribute.Int("batch.total", res.Summary.Total),
		attribute.Int("batch.failed", res.Summary.Failed),
	)
	return res, nil
}

// List returns the rows of entity matching criteria, in the entity's
// default order. No match is an empty page, not an error.
func (s *Service) List(ctx context.Context, entity string, criteria record.Criteria) (record.Page, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "list", attribute.String("entity", entity))
	defer span.End()

	schema, err := schemaFor(entity)
	if err != nil {
		return record.Page{}, err
	}
	page, err := s.repo.Search(ctx, schema, record.Query{Criteria: criteria})
	if err != nil {
		err = asDomain("list "+entity, err)
		telemetry.RecordError(span, err)
		return page, err
	}
	span.SetAttributes(attribute.Int64("rows", page.Total))
	return page, nil
}

// Last returns the most recently inserted row of entity.
func (s *Service) Last(ctx context.Context, entity string) (record.Row, error) {
	schema, err := schemaFor(entity)
	if err != nil {
		return nil, err
	}
	row, found, err := s.repo.Last(ctx, schema)
	if err != nil {
		return nil, asDomain("last "+entity, err)
	}
	if !found {
		return nil, shared.NewNotFoundError("No %s records found in the database table (%s).", entity, schema.Table)
	}
	return row, nil
}

// LoanReport returns member loan/deposit ledger rows ordered by entry date.
func (s *Service) LoanReport(ctx context.Context, q LoanReportQuery) (record.Page, error) {
	accType := q.Type
	if accType == "" {
		accType = "LOAN"
	}
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "loan_report")
	defer span.End()

	schema := apcms.MustLookup(apcms.MemberLoanDeposit)
	page, err := s.repo.Search(ctx, schema, record.Query{
		Criteria: record.Criteria{
			"type":       accType,
			"society_id": q.SocietyID,
			"item_id":    q.ItemID,
			"startdate":  q.FromPeriod,
			"enddate":    q.ToPeriod,
		},
		OrderBy: "entry_date",
	})
	if err != nil {
		err = asDomain("loan report", err)
		telemetry.RecordError(span, err)
	}
	return page, err
}
