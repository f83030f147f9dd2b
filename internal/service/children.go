package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/daycare-server/internal/logger"
	"github.com/dtroode/daycare-server/internal/model"
)

// EnrollChildParams holds the input for Children.EnrollChild.
type EnrollChildParams struct {
	ParentID       uuid.UUID
	FirstName      string
	LastName       string
	DateOfBirth    time.Time
	Classroom      *string
	Allergies      []string
	Status         model.ChildStatus
	EnrollmentDate *time.Time
}

// AllergyGroup lists the children with allergies in one classroom.
// Classroom is empty for unassigned children.
type AllergyGroup struct {
	Classroom string        `json:"classroom"`
	Children  []model.Child `json:"children"`
}

type Children struct {
	childStore model.ChildStore
	userStore  model.UserStore
	logger     *logger.Logger
	now        func() time.Time
}

func NewChildren(childStore model.ChildStore, userStore model.UserStore, logger *logger.Logger) *Children {
	return &Children{
		childStore: childStore,
		userStore:  userStore,
		logger:     logger,
		now:        time.Now,
	}
}

// EnrollChild registers a child under an existing parent. Active children
// without an enrollment date are enrolled today.
func (s *Children) EnrollChild(ctx context.Context, params EnrollChildParams) (model.Child, error) {
	parent, err := s.userStore.FindByID(ctx, params.ParentID)
	if err != nil {
		return model.Child{}, fmt.Errorf("failed to get parent by id: %w", err)
	}
	if parent == nil {
		return model.Child{}, fmt.Errorf("parent %s: %w", params.ParentID, model.ErrNotFound)
	}
	if parent.Role != model.RoleParent {
		s.logger.Info("Children service: enrollment under non-parent rejected",
			"user_id", parent.ID,
			"role", parent.Role)
		return model.Child{}, fmt.Errorf("%w: %s has role %s", ErrNotParent, parent.ID, parent.Role)
	}

	in := model.ChildInsert{
		ParentID:       params.ParentID,
		FirstName:      strings.TrimSpace(params.FirstName),
		LastName:       strings.TrimSpace(params.LastName),
		DateOfBirth:    params.DateOfBirth,
		Classroom:      trimClassroom(params.Classroom),
		Allergies:      params.Allergies,
		EnrollmentDate: params.EnrollmentDate,
	}
	if params.Status != "" {
		if !params.Status.Valid() {
			return model.Child{}, fmt.Errorf("%w: %q", ErrInvalidStatus, params.Status)
		}
		in.Status = &params.Status
	}
	if params.Status == model.ChildStatusActive && in.EnrollmentDate == nil {
		today := s.today()
		in.EnrollmentDate = &today
	}

	child, err := s.childStore.Create(ctx, in)
	if err != nil {
		s.logger.Error("Children service: failed to enroll child",
			"parent_id", params.ParentID,
			"error", err.Error())
		return model.Child{}, fmt.Errorf("failed to create child: %w", err)
	}

	s.logger.Info("Children service: child enrolled",
		"child_id", child.ID,
		"parent_id", child.ParentID,
		"status", child.Status)

	return child, nil
}

// GetChild returns the child or an error wrapping model.ErrNotFound.
func (s *Children) GetChild(ctx context.Context, id uuid.UUID) (model.Child, error) {
	child, err := s.childStore.FindByID(ctx, id)
	if err != nil {
		return model.Child{}, fmt.Errorf("failed to get child by id: %w", err)
	}
	if child == nil {
		return model.Child{}, fmt.Errorf("child %s: %w", id, model.ErrNotFound)
	}

	return *child, nil
}

func (s *Children) ListChildren(ctx context.Context, page, pageSize int) (model.Page[model.Child], error) {
	result, err := s.childStore.FindManyPaginated(ctx, page, pageSize, model.QueryOptions{
		OrderBy:   "last_name",
		Direction: model.SortAsc,
	})
	if err != nil {
		return model.Page[model.Child]{}, fmt.Errorf("failed to list children: %w", err)
	}

	return result, nil
}

func (s *Children) ChildrenOfParent(ctx context.Context, parentID uuid.UUID) ([]model.Child, error) {
	children, err := s.childStore.FindByParent(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get children by parent: %w", err)
	}

	return children, nil
}

func (s *Children) ChildrenInClassroom(ctx context.Context, classroom string) ([]model.Child, error) {
	children, err := s.childStore.FindByClassroom(ctx, classroom)
	if err != nil {
		return nil, fmt.Errorf("failed to get children by classroom: %w", err)
	}

	return children, nil
}

func (s *Children) ChildrenByStatus(ctx context.Context, status model.ChildStatus) ([]model.Child, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	children, err := s.childStore.FindByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get children by status: %w", err)
	}

	return children, nil
}

// ChildrenInAgeBand returns active children aged minMonths to maxMonths.
func (s *Children) ChildrenInAgeBand(ctx context.Context, minMonths, maxMonths int) ([]model.Child, error) {
	if minMonths < 0 || maxMonths < minMonths {
		return nil, fmt.Errorf("%w: %d..%d", ErrInvalidAgeRange, minMonths, maxMonths)
	}

	children, err := s.childStore.FindByAgeGroup(ctx, minMonths, maxMonths)
	if err != nil {
		return nil, fmt.Errorf("failed to get children by age group: %w", err)
	}

	return children, nil
}

func (s *Children) SearchChildren(ctx context.Context, term string) ([]model.Child, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrEmptyQuery
	}

	children, err := s.childStore.SearchChildren(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search children: %w", err)
	}

	return children, nil
}

// AssignClassroom moves a child to classroom, or unassigns it when nil.
func (s *Children) AssignClassroom(ctx context.Context, id uuid.UUID, classroom *string) (model.Child, error) {
	child, err := s.childStore.UpdateClassroom(ctx, id, trimClassroom(classroom))
	if err != nil {
		s.logger.Error("Children service: failed to assign classroom",
			"child_id", id,
			"error", err.Error())
		return model.Child{}, fmt.Errorf("failed to update classroom: %w", err)
	}

	return child, nil
}

func (s *Children) ChangeStatus(ctx context.Context, id uuid.UUID, status model.ChildStatus) (model.Child, error) {
	if !status.Valid() {
		return model.Child{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	child, err := s.childStore.UpdateStatus(ctx, id, status)
	if err != nil {
		s.logger.Error("Children service: failed to change status",
			"child_id", id,
			"status", status,
			"error", err.Error())
		return model.Child{}, fmt.Errorf("failed to update status: %w", err)
	}

	s.logger.Info("Children service: status changed",
		"child_id", id,
		"status", status)

	return child, nil
}

// AllergiesReport groups active children with allergies by classroom,
// keeping the store's classroom order.
func (s *Children) AllergiesReport(ctx context.Context) ([]AllergyGroup, error) {
	children, err := s.childStore.GetChildrenWithAllergies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get children with allergies: %w", err)
	}

	groups := make([]AllergyGroup, 0)
	for _, c := range children {
		var room string
		if c.Classroom != nil {
			room = *c.Classroom
		}
		if n := len(groups); n > 0 && groups[n-1].Classroom == room {
			groups[n-1].Children = append(groups[n-1].Children, c)
			continue
		}
		groups = append(groups, AllergyGroup{Classroom: room, Children: []model.Child{c}})
	}

	return groups, nil
}

func (s *Children) ClassroomStatistics(ctx context.Context) (map[string]int, error) {
	stats, err := s.childStore.GetClassroomStatistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get classroom statistics: %w", err)
	}

	return stats, nil
}

// RefreshAges brings the stored age of every child up to date.
func (s *Children) RefreshAges(ctx context.Context) (int64, error) {
	n, err := s.childStore.RefreshAgeMonths(ctx)
	if err != nil {
		s.logger.Error("Children service: failed to refresh ages", "error", err.Error())
		return 0, fmt.Errorf("failed to refresh ages: %w", err)
	}
	if n > 0 {
		s.logger.Info("Children service: ages refreshed", "updated", n)
	}
	return n, nil
}

// RunAgeRefresh calls RefreshAges immediately and then every interval until
// ctx is done. Failures are logged and retried on the next tick.
func (s *Children) RunAgeRefresh(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		_, _ = s.RefreshAges(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// trimClassroom trims the name; a blank name means unassigned.
func trimClassroom(classroom *string) *string {
	if classroom == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*classroom)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (s *Children) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
