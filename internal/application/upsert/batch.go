package upsert

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Klabsprojects/rcs-dashboard-api/internal/domain/record"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/domain/shared"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/infrastructure/logger"
)

// RecordResolver resolves one record. *Resolver is the production
// implementation.
type RecordResolver interface {
	Resolve(ctx context.Context, s *record.Schema, rec record.Record) (Outcome, error)
}

// ItemResult is the outcome of one element of a batch.
type ItemResult struct {
	Key     map[string]any `json:"key"`
	Action  Action         `json:"action"`
	ID      any            `json:"id,omitempty"`
	Message string         `json:"message"`
}

// Summary aggregates a batch.
type Summary struct {
	Total    int `json:"total"`
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// BatchResult holds per-record outcomes in input order.
type BatchResult struct {
	Success bool         `json:"success"`
	Summary Summary      `json:"summary"`
	Results []ItemResult `json:"results"`
}

// Message is the human readable summary line.
func (b BatchResult) Message() string {
	return fmt.Sprintf("Batch process complete. Inserted %d, updated %d, skipped %d, failed %d.",
		b.Summary.Inserted, b.Summary.Updated, b.Summary.Skipped, b.Summary.Failed)
}

// BatchProcessor applies a resolver to each element of a batch in order.
// There is no batch-level atomicity: a failing record never undoes or
// prevents the writes of the others.
type BatchProcessor struct {
	resolver RecordResolver
}

// NewBatchProcessor creates a new BatchProcessor
func NewBatchProcessor(resolver RecordResolver) *BatchProcessor {
	return &BatchProcessor{resolver: resolver}
}

// Process runs the batch. payload is the decoded request body; anything but
// a non-empty array is rejected as a whole. Elements that are not objects
// become per-record errors.
func (p *BatchProcessor) Process(ctx context.Context, s *record.Schema, payload any) (BatchResult, error) {
	items, ok := payload.([]any)
	if !ok || len(items) == 0 {
		return BatchResult{}, shared.NewValidationError("Request body must be a non-empty array of records")
	}

	result := BatchResult{
		Results: make([]ItemResult, 0, len(items)),
		Summary: Summary{Total: len(items)},
	}
	log := logger.L(ctx).With(zap.String("entity", s.Name))

	for i, item := range items {
		rec, isObject := item.(map[string]any)

		var res ItemResult
		switch {
		case ctx.Err() != nil:
			res = ItemResult{Key: keyOf(s, rec), Action: ActionError, Message: ctx.Err().Error()}
		case !isObject:
			res = ItemResult{Key: map[string]any{}, Action: ActionError, Message: "Record must be a JSON object"}
		default:
			res = p.resolveOne(ctx, s, rec)
		}

		switch res.Action {
		case ActionInsert:
			result.Summary.Inserted++
		case ActionUpdate:
			result.Summary.Updated++
		case ActionSkip:
			result.Summary.Skipped++
		default:
			result.Summary.Failed++
			log.Warn("batch record failed",
				zap.Int("index", i),
				zap.Any("key", res.Key),
				zap.String("error", res.Message),
			)
		}
		result.Results = append(result.Results, res)
	}

	result.Success = result.Summary.Failed == 0
	return result, nil
}

// resolveOne labels a resolved record with its normalized key. Records that
// fail before normalization keep the key as submitted.
func (p *BatchProcessor) resolveOne(ctx context.Context, s *record.Schema, rec record.Record) ItemResult {
	out, err := p.resolver.Resolve(ctx, s, rec)
	if err != nil {
		return ItemResult{Key: s.KeyOf(rec), Action: ActionError, Message: err.Error()}
	}
	key := out.Key
	if key == nil {
		key = s.KeyOf(rec)
	}
	return ItemResult{Key: key, Action: out.Action, ID: out.ID, Message: ActionMessage(out.Action)}
}

func keyOf(s *record.Schema, rec record.Record) map[string]any {
	if rec == nil {
		return map[string]any{}
	}
	return s.KeyOf(rec)
}

// ActionMessage is the per-record message for a successful action.
func ActionMessage(a Action) string {
	switch a {
	case ActionInsert:
		return "Inserted new record."
	case ActionUpdate:
		return "Updated existing record."
	case ActionSkip:
		return "Record already exists. No action taken."
	}
	return ""
}
