package servicemocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/daycare-server/internal/model"
	"github.com/dtroode/daycare-server/internal/service"
)

// ChildService is a mock type for the handler.ChildService interface.
type ChildService struct {
	mock.Mock
}

func (m *ChildService) list(args mock.Arguments) ([]model.Child, error) {
	c, _ := args.Get(0).([]model.Child)
	return c, args.Error(1)
}

func (m *ChildService) EnrollChild(ctx context.Context, params service.EnrollChildParams) (model.Child, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.Child), args.Error(1)
}

func (m *ChildService) GetChild(ctx context.Context, id uuid.UUID) (model.Child, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Child), args.Error(1)
}

func (m *ChildService) ListChildren(ctx context.Context, page, pageSize int) (model.Page[model.Child], error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).(model.Page[model.Child]), args.Error(1)
}

func (m *ChildService) ChildrenOfParent(ctx context.Context, parentID uuid.UUID) ([]model.Child, error) {
	return m.list(m.Called(ctx, parentID))
}

func (m *ChildService) ChildrenInClassroom(ctx context.Context, classroom string) ([]model.Child, error) {
	return m.list(m.Called(ctx, classroom))
}

func (m *ChildService) ChildrenByStatus(ctx context.Context, status model.ChildStatus) ([]model.Child, error) {
	return m.list(m.Called(ctx, status))
}

func (m *ChildService) ChildrenInAgeBand(ctx context.Context, minMonths, maxMonths int) ([]model.Child, error) {
	return m.list(m.Called(ctx, minMonths, maxMonths))
}

func (m *ChildService) SearchChildren(ctx context.Context, term string) ([]model.Child, error) {
	return m.list(m.Called(ctx, term))
}

func (m *ChildService) AssignClassroom(ctx context.Context, id uuid.UUID, classroom *string) (model.Child, error) {
	args := m.Called(ctx, id, classroom)
	return args.Get(0).(model.Child), args.Error(1)
}

func (m *ChildService) ChangeStatus(ctx context.Context, id uuid.UUID, status model.ChildStatus) (model.Child, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(model.Child), args.Error(1)
}

func (m *ChildService) AllergiesReport(ctx context.Context) ([]service.AllergyGroup, error) {
	args := m.Called(ctx)
	groups, _ := args.Get(0).([]service.AllergyGroup)
	return groups, args.Error(1)
}

func (m *ChildService) ClassroomStatistics(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(map[string]int)
	return stats, args.Error(1)
}
