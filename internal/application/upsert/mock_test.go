package upsert

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Klabsprojects/rcs-dashboard-api/internal/domain/record"
)

// MockRepository is a mock implementation of record.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindIDByKey(ctx context.Context, s *record.Schema, key map[string]any) (any, bool, error) {
	args := m.Called(ctx, s, key)
	return args.Get(0), args.Bool(1), args.Error(2)
}

func (m *MockRepository) InsertIfAbsent(ctx context.Context, s *record.Schema, values map[string]any) (bool, error) {
	args := m.Called(ctx, s, values)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) UpdateByID(ctx context.Context, s *record.Schema, id any, values map[string]any) error {
	args := m.Called(ctx, s, id, values)
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, s *record.Schema, id any) (record.Row, bool, error) {
	args := m.Called(ctx, s, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(record.Row), args.Bool(1), args.Error(2)
}

func (m *MockRepository) Search(ctx context.Context, s *record.Schema, q record.Query) (record.Page, error) {
	args := m.Called(ctx, s, q)
	return args.Get(0).(record.Page), args.Error(1)
}

func (m *MockRepository) Last(ctx context.Context, s *record.Schema) (record.Row, bool, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(record.Row), args.Bool(1), args.Error(2)
}

// recordingObserver collects observed actions.
type recordingObserver struct {
	actions []string
}

func (o *recordingObserver) ObserveUpsert(_, action string) {
	o.actions = append(o.actions, action)
}
