package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dtroode/daycare-server/internal/model"
	"github.com/dtroode/daycare-server/internal/service"
)

const dateLayout = time.DateOnly

type enrollChildRequest struct {
	ParentID       string   `json:"parent_id" validate:"required,uuid"`
	FirstName      string   `json:"first_name" validate:"required,max=100"`
	LastName       string   `json:"last_name" validate:"required,max=100"`
	DateOfBirth    string   `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Classroom      *string  `json:"classroom" validate:"omitempty,max=100"`
	Allergies      []string `json:"allergies" validate:"omitempty,dive,required,max=100"`
	Status         string   `json:"status" validate:"omitempty,oneof=active inactive waitlist"`
	EnrollmentDate *string  `json:"enrollment_date" validate:"omitempty,datetime=2006-01-02"`
}

// classroomRequest assigns a classroom; a null or missing classroom unassigns.
type classroomRequest struct {
	Classroom *string `json:"classroom" validate:"omitempty,max=100"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive waitlist"`
}

// EnrollChild handles POST /api/children.
func (h *Handler) EnrollChild(w http.ResponseWriter, r *http.Request) {
	var req enrollChildRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondValidationError(w, err)
		return
	}

	// Formats were checked by the validator.
	dob, _ := time.Parse(dateLayout, req.DateOfBirth)
	params := service.EnrollChildParams{
		ParentID:    uuid.MustParse(req.ParentID),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: dob,
		Classroom:   req.Classroom,
		Allergies:   req.Allergies,
		Status:      model.ChildStatus(req.Status),
	}
	if req.EnrollmentDate != nil {
		d, _ := time.Parse(dateLayout, *req.EnrollmentDate)
		params.EnrollmentDate = &d
	}

	child, err := h.children.EnrollChild(r.Context(), params)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, child)
}

// GetChild handles GET /api/children/{id}.
func (h *Handler) GetChild(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	child, err := h.children.GetChild(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, child)
}

// ListChildren handles GET /api/children. The first filter present wins, in
// the order q, parent_id, classroom, status, min_age/max_age. Without
// filters the children are paginated.
func (h *Handler) ListChildren(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx := r.Context()

	var (
		children []model.Child
		err      error
	)
	switch {
	case q.Get("q") != "":
		children, err = h.children.SearchChildren(ctx, q.Get("q"))
	case q.Get("parent_id") != "":
		parentID, ok := parseID(w, q.Get("parent_id"))
		if !ok {
			return
		}
		children, err = h.children.ChildrenOfParent(ctx, parentID)
	case q.Get("classroom") != "":
		children, err = h.children.ChildrenInClassroom(ctx, q.Get("classroom"))
	case q.Get("status") != "":
		children, err = h.children.ChildrenByStatus(ctx, model.ChildStatus(q.Get("status")))
	case q.Get("min_age") != "" || q.Get("max_age") != "":
		minAge, minErr := intParam(q.Get("min_age"), 0)
		maxAge, maxErr := intParam(q.Get("max_age"), 1<<31-1)
		if minErr != nil || maxErr != nil {
			respondError(w, http.StatusBadRequest, "min_age and max_age must be non-negative integers")
			return
		}
		children, err = h.children.ChildrenInAgeBand(ctx, minAge, maxAge)
	default:
		h.listChildrenPage(w, r)
		return
	}

	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondList(w, children)
}

func (h *Handler) listChildrenPage(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := pageParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.children.ListChildren(r.Context(), page, pageSize)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// AssignClassroom handles PUT /api/children/{id}/classroom.
func (h *Handler) AssignClassroom(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req classroomRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondValidationError(w, err)
		return
	}

	child, err := h.children.AssignClassroom(r.Context(), id, req.Classroom)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, child)
}

// ChangeStatus handles PUT /api/children/{id}/status.
func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req statusRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondValidationError(w, err)
		return
	}

	child, err := h.children.ChangeStatus(r.Context(), id, model.ChildStatus(req.Status))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, child)
}

// AllergiesReport handles GET /api/children/allergies.
func (h *Handler) AllergiesReport(w http.ResponseWriter, r *http.Request) {
	groups, err := h.children.AllergiesReport(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	respondList(w, groups)
}

// ClassroomStatistics handles GET /api/classrooms/stats.
func (h *Handler) ClassroomStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.children.ClassroomStatistics(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	if stats == nil {
		stats = map[string]int{}
	}
	total := 0
	for _, n := range stats {
		total += n
	}
	respondJSON(w, http.StatusOK, struct {
		Classrooms map[string]int `json:"classrooms"`
		Total      int            `json:"total"`
	}{Classrooms: stats, Total: total})
}
