package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dtroode/daycare-server/internal/model"
)

var _ model.ChildStore = (*ChildRepository)(nil)

const childrenTable = "children"

// ageMonthsExpr matches the computation of the children_set_age_months trigger.
const ageMonthsExpr = "(EXTRACT(YEAR FROM age(CURRENT_DATE, date_of_birth)) * 12" +
	" + EXTRACT(MONTH FROM age(CURRENT_DATE, date_of_birth)))::INTEGER"

var childColumns = []string{
	"id", "parent_id", "first_name", "last_name", "date_of_birth", "age_months",
	"classroom", "allergies", "status", "enrollment_date", "created_at", "updated_at",
}

type ChildRepository struct {
	*Table[model.Child, model.ChildInsert, model.ChildUpdate]
}

func NewChildRepository(db DBTX) *ChildRepository {
	return &ChildRepository{
		Table: NewTable[model.Child, model.ChildInsert, model.ChildUpdate](db, childrenTable, childColumns),
	}
}

// FindByParent returns the children of a parent, oldest first.
func (r *ChildRepository) FindByParent(ctx context.Context, parentID uuid.UUID) ([]model.Child, error) {
	return r.selectWhere(ctx, "parent_id = $1 ORDER BY date_of_birth ASC", parentID)
}

// FindByClassroom returns the active children of a classroom by first name.
func (r *ChildRepository) FindByClassroom(ctx context.Context, classroom string) ([]model.Child, error) {
	return r.selectWhere(ctx,
		"classroom = $1 AND status = $2 ORDER BY first_name ASC",
		classroom, string(model.ChildStatusActive),
	)
}

// FindByStatus returns children with the status, most recently enrolled
// first. Children without an enrollment date come last.
func (r *ChildRepository) FindByStatus(ctx context.Context, status model.ChildStatus) ([]model.Child, error) {
	return r.selectWhere(ctx,
		"status = $1 ORDER BY enrollment_date DESC NULLS LAST",
		string(status),
	)
}

// FindByAgeGroup returns active children aged between minMonths and
// maxMonths inclusive.
func (r *ChildRepository) FindByAgeGroup(ctx context.Context, minMonths, maxMonths int) ([]model.Child, error) {
	return r.selectWhere(ctx,
		"age_months >= $1 AND age_months <= $2 AND status = $3 ORDER BY date_of_birth ASC",
		minMonths, maxMonths, string(model.ChildStatusActive),
	)
}

func (r *ChildRepository) GetActiveChildren(ctx context.Context) ([]model.Child, error) {
	return r.FindByStatus(ctx, model.ChildStatusActive)
}

func (r *ChildRepository) GetWaitlistedChildren(ctx context.Context) ([]model.Child, error) {
	return r.FindByStatus(ctx, model.ChildStatusWaitlist)
}

// SearchChildren matches term case-insensitively against first or last name.
func (r *ChildRepository) SearchChildren(ctx context.Context, term string) ([]model.Child, error) {
	return r.selectWhere(ctx,
		"(first_name ILIKE $1 OR last_name ILIKE $1) ORDER BY first_name ASC, last_name ASC LIMIT $2",
		containsPattern(term), searchLimit,
	)
}

// UpdateClassroom assigns a classroom, or clears it when classroom is nil.
func (r *ChildRepository) UpdateClassroom(ctx context.Context, id uuid.UUID, classroom *string) (model.Child, error) {
	var value sql.Null[string]
	if classroom != nil {
		value = sql.Null[string]{V: *classroom, Valid: true}
	}
	return r.updateColumns(ctx, id, []model.Column{{Name: "classroom", Value: value}})
}

// UpdateStatus sets the status. Any transition is allowed.
func (r *ChildRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ChildStatus) (model.Child, error) {
	return r.updateColumns(ctx, id, []model.Column{{Name: "status", Value: string(status)}})
}

// RefreshAgeMonths recomputes age_months for rows whose stored age is out of
// date and returns how many rows changed. updated_at is left untouched.
func (r *ChildRepository) RefreshAgeMonths(ctx context.Context) (int64, error) {
	query := "UPDATE " + childrenTable + " SET age_months = " + ageMonthsExpr +
		" WHERE age_months <> " + ageMonthsExpr
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, normalize(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, normalize(err)
	}
	return n, nil
}

// GetChildrenWithAllergies returns active children with recorded allergies,
// ordered by classroom.
func (r *ChildRepository) GetChildrenWithAllergies(ctx context.Context) ([]model.Child, error) {
	return r.selectWhere(ctx,
		"allergies IS NOT NULL AND status = $1 ORDER BY classroom ASC NULLS LAST",
		string(model.ChildStatusActive),
	)
}

// GetClassroomStatistics counts active children per classroom. Unassigned
// children are not counted. The tally is done in memory over all matching rows.
func (r *ChildRepository) GetClassroomStatistics(ctx context.Context) (map[string]int, error) {
	var classrooms []string
	query := "SELECT classroom FROM " + childrenTable + " WHERE status = $1 AND classroom IS NOT NULL"
	if err := r.db.SelectContext(ctx, &classrooms, query, string(model.ChildStatusActive)); err != nil {
		return nil, normalize(err)
	}

	stats := make(map[string]int)
	for _, c := range classrooms {
		stats[c]++
	}
	return stats, nil
}
