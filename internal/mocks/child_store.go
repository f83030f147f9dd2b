package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/daycare-server/internal/model"
)

// ChildStore is a mock type for the model.ChildStore interface.
type ChildStore struct {
	mock.Mock
}

var _ model.ChildStore = (*ChildStore)(nil)

func (m *ChildStore) children(args mock.Arguments) ([]model.Child, error) {
	c, _ := args.Get(0).([]model.Child)
	return c, args.Error(1)
}

func (m *ChildStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Child, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*model.Child)
	return c, args.Error(1)
}

func (m *ChildStore) FindByParent(ctx context.Context, parentID uuid.UUID) ([]model.Child, error) {
	return m.children(m.Called(ctx, parentID))
}

func (m *ChildStore) FindByClassroom(ctx context.Context, classroom string) ([]model.Child, error) {
	return m.children(m.Called(ctx, classroom))
}

func (m *ChildStore) FindByStatus(ctx context.Context, status model.ChildStatus) ([]model.Child, error) {
	return m.children(m.Called(ctx, status))
}

func (m *ChildStore) FindByAgeGroup(ctx context.Context, minMonths, maxMonths int) ([]model.Child, error) {
	return m.children(m.Called(ctx, minMonths, maxMonths))
}

func (m *ChildStore) FindManyPaginated(ctx context.Context, page, pageSize int, opts model.QueryOptions) (model.Page[model.Child], error) {
	args := m.Called(ctx, page, pageSize, opts)
	return args.Get(0).(model.Page[model.Child]), args.Error(1)
}

func (m *ChildStore) SearchChildren(ctx context.Context, term string) ([]model.Child, error) {
	return m.children(m.Called(ctx, term))
}

func (m *ChildStore) Create(ctx context.Context, child model.ChildInsert) (model.Child, error) {
	args := m.Called(ctx, child)
	return args.Get(0).(model.Child), args.Error(1)
}

func (m *ChildStore) UpdateClassroom(ctx context.Context, id uuid.UUID, classroom *string) (model.Child, error) {
	args := m.Called(ctx, id, classroom)
	return args.Get(0).(model.Child), args.Error(1)
}

func (m *ChildStore) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ChildStatus) (model.Child, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(model.Child), args.Error(1)
}

func (m *ChildStore) GetChildrenWithAllergies(ctx context.Context) ([]model.Child, error) {
	return m.children(m.Called(ctx))
}

func (m *ChildStore) GetClassroomStatistics(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(map[string]int)
	return stats, args.Error(1)
}

func (m *ChildStore) RefreshAgeMonths(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
