package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/daycare-server/internal/mocks/servicemocks"
	"github.com/dtroode/daycare-server/internal/model"
	"github.com/dtroode/daycare-server/internal/service"
)

func TestHandler_EnrollChild(t *testing.T) {
	parentID := uuid.New()

	t.Run("enrolled", func(t *testing.T) {
		h, _, cs := newTestHandler()
		cs.On("EnrollChild", mock.Anything, mock.MatchedBy(func(p service.EnrollChildParams) bool {
			return p.ParentID == parentID &&
				p.FirstName == "Emma" &&
				p.DateOfBirth.Equal(time.Date(2022, 3, 15, 0, 0, 0, 0, time.UTC)) &&
				p.EnrollmentDate != nil && p.EnrollmentDate.Equal(time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)) &&
				*p.Classroom == "Sunflowers" &&
				len(p.Allergies) == 1 &&
				p.Status == model.ChildStatusActive
		})).Return(model.Child{ID: uuid.New(), ParentID: parentID, FirstName: "Emma"}, nil)

		body := `{"parent_id":"` + parentID.String() + `","first_name":"Emma","last_name":"Johnson",` +
			`"date_of_birth":"2022-03-15","enrollment_date":"2024-09-01","classroom":"Sunflowers",` +
			`"allergies":["peanuts"],"status":"active"}`
		rec := serve(h.EnrollChild, http.MethodPost, "/api/children", "/api/children", body)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"first_name":"Emma"`)
		cs.AssertExpectations(t)
	})

	t.Run("validation", func(t *testing.T) {
		h, _, _ := newTestHandler()

		body := `{"parent_id":"nope","first_name":"Emma","date_of_birth":"15/03/2022","status":"graduated"}`
		rec := serve(h.EnrollChild, http.MethodPost, "/api/children", "/api/children", body)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, map[string]string{
			"ParentID":    "must be a valid UUID",
			"LastName":    "is required",
			"DateOfBirth": "must be a date formatted as 2006-01-02",
			"Status":      "must be one of: active inactive waitlist",
		}, decodeError(t, rec).Details)
	})

	t.Run("parent is not a parent", func(t *testing.T) {
		h, _, cs := newTestHandler()
		cs.On("EnrollChild", mock.Anything, mock.Anything).Return(model.Child{}, service.ErrNotParent)

		body := `{"parent_id":"` + parentID.String() + `","first_name":"Emma","last_name":"Johnson","date_of_birth":"2022-03-15"}`
		rec := serve(h.EnrollChild, http.MethodPost, "/api/children", "/api/children", body)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestHandler_ListChildren(t *testing.T) {
	parentID := uuid.New()
	children := []model.Child{{FirstName: "Emma"}}

	tests := []struct {
		name      string
		query     string
		mockSetup func(*servicemocks.ChildService)
		status    int
	}{
		{
			name:  "search wins over other filters",
			query: "q=emma&classroom=Sunflowers",
			mockSetup: func(cs *servicemocks.ChildService) {
				cs.On("SearchChildren", mock.Anything, "emma").Return(children, nil)
			},
			status: http.StatusOK,
		},
		{
			name:  "by parent",
			query: "parent_id=" + parentID.String(),
			mockSetup: func(cs *servicemocks.ChildService) {
				cs.On("ChildrenOfParent", mock.Anything, parentID).Return(children, nil)
			},
			status: http.StatusOK,
		},
		{
			name:      "bad parent id",
			query:     "parent_id=7",
			mockSetup: func(*servicemocks.ChildService) {},
			status:    http.StatusBadRequest,
		},
		{
			name:  "by classroom",
			query: "classroom=Sunflowers",
			mockSetup: func(cs *servicemocks.ChildService) {
				cs.On("ChildrenInClassroom", mock.Anything, "Sunflowers").Return(children, nil)
			},
			status: http.StatusOK,
		},
		{
			name:  "by status",
			query: "status=waitlist",
			mockSetup: func(cs *servicemocks.ChildService) {
				cs.On("ChildrenByStatus", mock.Anything, model.ChildStatusWaitlist).Return(children, nil)
			},
			status: http.StatusOK,
		},
		{
			name:  "unknown status",
			query: "status=graduated",
			mockSetup: func(cs *servicemocks.ChildService) {
				cs.On("ChildrenByStatus", mock.Anything, model.ChildStatus("graduated")).Return(nil, service.ErrInvalidStatus)
			},
			status: http.StatusBadRequest,
		},
		{
			name:  "age band with open upper bound",
			query: "min_age=24",
			mockSetup: func(cs *servicemocks.ChildService) {
				cs.On("ChildrenInAgeBand", mock.Anything, 24, 1<<31-1).Return(children, nil)
			},
			status: http.StatusOK,
		},
		{
			name:      "bad age",
			query:     "min_age=young",
			mockSetup: func(*servicemocks.ChildService) {},
			status:    http.StatusBadRequest,
		},
		{
			name:  "paginated",
			query: "page=1&page_size=5",
			mockSetup: func(cs *servicemocks.ChildService) {
				cs.On("ListChildren", mock.Anything, 1, 5).Return(model.NewPage(children, 1, 5, 1), nil)
			},
			status: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, cs := newTestHandler()
			tt.mockSetup(cs)

			rec := serve(h.ListChildren, http.MethodGet, "/api/children", "/api/children?"+tt.query, "")

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Contains(t, rec.Body.String(), `"first_name":"Emma"`)
			}
			cs.AssertExpectations(t)
		})
	}
}

func TestHandler_AssignClassroom(t *testing.T) {
	id := uuid.New()
	target := "/api/children/" + id.String() + "/classroom"

	t.Run("assign", func(t *testing.T) {
		h, _, cs := newTestHandler()
		room := "Sunflowers"
		cs.On("AssignClassroom", mock.Anything, id, &room).Return(model.Child{ID: id, Classroom: &room}, nil)

		rec := serve(h.AssignClassroom, http.MethodPut, "/api/children/{id}/classroom", target, `{"classroom":"Sunflowers"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"classroom":"Sunflowers"`)
	})

	t.Run("clear", func(t *testing.T) {
		h, _, cs := newTestHandler()
		cs.On("AssignClassroom", mock.Anything, id, (*string)(nil)).Return(model.Child{ID: id}, nil)

		rec := serve(h.AssignClassroom, http.MethodPut, "/api/children/{id}/classroom", target, `{"classroom":null}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"classroom":null`)
		cs.AssertExpectations(t)
	})

	t.Run("unknown child", func(t *testing.T) {
		h, _, cs := newTestHandler()
		cs.On("AssignClassroom", mock.Anything, id, mock.Anything).
			Return(model.Child{}, model.NewStoreError(model.CodeNoRows, "no rows returned", model.ErrNotFound))

		rec := serve(h.AssignClassroom, http.MethodPut, "/api/children/{id}/classroom", target, `{"classroom":"Tulips"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "no rows returned", decodeError(t, rec).Error)
	})
}

func TestHandler_ChangeStatus(t *testing.T) {
	id := uuid.New()
	target := "/api/children/" + id.String() + "/status"

	t.Run("changed", func(t *testing.T) {
		h, _, cs := newTestHandler()
		cs.On("ChangeStatus", mock.Anything, id, model.ChildStatusInactive).
			Return(model.Child{ID: id, Status: model.ChildStatusInactive}, nil)

		rec := serve(h.ChangeStatus, http.MethodPut, "/api/children/{id}/status", target, `{"status":"inactive"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"inactive"`)
	})

	t.Run("missing status", func(t *testing.T) {
		h, _, _ := newTestHandler()

		rec := serve(h.ChangeStatus, http.MethodPut, "/api/children/{id}/status", target, `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, map[string]string{"Status": "is required"}, decodeError(t, rec).Details)
	})

	t.Run("store unavailable", func(t *testing.T) {
		h, _, cs := newTestHandler()
		cs.On("ChangeStatus", mock.Anything, id, model.ChildStatusActive).
			Return(model.Child{}, model.NewStoreError(model.CodeUnavailable, "database unavailable", nil))

		rec := serve(h.ChangeStatus, http.MethodPut, "/api/children/{id}/status", target, `{"status":"active"}`)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestHandler_AllergiesReport(t *testing.T) {
	h, _, cs := newTestHandler()
	cs.On("AllergiesReport", mock.Anything).Return([]service.AllergyGroup{
		{Classroom: "Sunflowers", Children: []model.Child{{FirstName: "Emma", Allergies: []string{"peanuts"}}}},
		{Classroom: "", Children: []model.Child{{FirstName: "Liam", Allergies: []string{"dairy"}}}},
	}, nil)

	rec := serve(h.AllergiesReport, http.MethodGet, "/api/children/allergies", "/api/children/allergies", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"classroom":"Sunflowers"`)
	assert.Contains(t, rec.Body.String(), `"allergies":["dairy"]`)
}

func TestHandler_ClassroomStatistics(t *testing.T) {
	t.Run("totals", func(t *testing.T) {
		h, _, cs := newTestHandler()
		cs.On("ClassroomStatistics", mock.Anything).Return(map[string]int{"Sunflowers": 3, "Tulips": 2}, nil)

		rec := serve(h.ClassroomStatistics, http.MethodGet, "/api/classrooms/stats", "/api/classrooms/stats", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"classrooms":{"Sunflowers":3,"Tulips":2},"total":5}`, rec.Body.String())
	})

	t.Run("empty", func(t *testing.T) {
		h, _, cs := newTestHandler()
		cs.On("ClassroomStatistics", mock.Anything).Return(nil, nil)

		rec := serve(h.ClassroomStatistics, http.MethodGet, "/api/classrooms/stats", "/api/classrooms/stats", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"classrooms":{},"total":0}`, rec.Body.String())
	})
}
