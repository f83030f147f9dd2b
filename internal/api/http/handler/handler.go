// Package handler contains the HTTP handlers of the admin API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dtroode/daycare-server/internal/logger"
	"github.com/dtroode/daycare-server/internal/model"
	"github.com/dtroode/daycare-server/internal/service"
)

const maxPageSize = 100

// UserService is the user use-case layer consumed by the handlers.
type UserService interface {
	CreateUser(ctx context.Context, params service.CreateUserParams) (model.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (model.User, error)
	ListUsers(ctx context.Context, page, pageSize int) (model.Page[model.User], error)
	SearchUsers(ctx context.Context, term string) ([]model.User, error)
	UsersByRole(ctx context.Context, role model.Role) ([]model.User, error)
	ReplaceMetadata(ctx context.Context, id uuid.UUID, metadata model.Metadata) (model.User, error)
	MergeMetadata(ctx context.Context, id uuid.UUID, patch model.Metadata) (model.User, error)
}

// ChildService is the child use-case layer consumed by the handlers.
type ChildService interface {
	EnrollChild(ctx context.Context, params service.EnrollChildParams) (model.Child, error)
	GetChild(ctx context.Context, id uuid.UUID) (model.Child, error)
	ListChildren(ctx context.Context, page, pageSize int) (model.Page[model.Child], error)
	ChildrenOfParent(ctx context.Context, parentID uuid.UUID) ([]model.Child, error)
	ChildrenInClassroom(ctx context.Context, classroom string) ([]model.Child, error)
	ChildrenByStatus(ctx context.Context, status model.ChildStatus) ([]model.Child, error)
	ChildrenInAgeBand(ctx context.Context, minMonths, maxMonths int) ([]model.Child, error)
	SearchChildren(ctx context.Context, term string) ([]model.Child, error)
	AssignClassroom(ctx context.Context, id uuid.UUID, classroom *string) (model.Child, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, status model.ChildStatus) (model.Child, error)
	AllergiesReport(ctx context.Context) ([]service.AllergyGroup, error)
	ClassroomStatistics(ctx context.Context) (map[string]int, error)
}

// Handler provides HTTP handlers for the admin API.
type Handler struct {
	users    UserService
	children ChildService
	validate *validator.Validate
	logger   *logger.Logger
}

// New creates a Handler over the given services.
func New(users UserService, children ChildService, logger *logger.Logger) *Handler {
	return &Handler{
		users:    users,
		children: children,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

type errorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type listResponse[T any] struct {
	Data []T `json:"data"`
}

func respondJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, errorResponse{Error: message})
}

func respondList[T any](w http.ResponseWriter, data []T) {
	if data == nil {
		data = []T{}
	}
	respondJSON(w, http.StatusOK, listResponse[T]{Data: data})
}

func (h *Handler) respondValidationError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make(map[string]string, len(validationErrs))
		for _, e := range validationErrs {
			details[e.Field()] = formatValidationError(e)
		}
		respondJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "validation failed",
			Details: details,
		})
		return
	}
	respondError(w, http.StatusBadRequest, "invalid request body")
}

// respondServiceError maps service and store errors to HTTP statuses.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code := model.ErrorCode(err)

	var status int
	switch {
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidAgeRange),
		errors.Is(err, service.ErrEmptyQuery):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotParent):
		status = http.StatusUnprocessableEntity
	case code == model.CodeUniqueViolation:
		status = http.StatusConflict
	case code == model.CodeForeignKeyViolation:
		status = http.StatusUnprocessableEntity
	case code == model.CodeInvalidColumn, code == model.CodeInvalidArgument, code == model.CodeCheckViolation, code == model.CodeInvalidText:
		status = http.StatusBadRequest
	case code == model.CodeUnavailable:
		status = http.StatusServiceUnavailable
	case code == model.CodeTimeout:
		status = http.StatusGatewayTimeout
	default:
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("HTTP handler: request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error())
		respondJSON(w, status, errorResponse{Error: http.StatusText(status), Code: code})
		return
	}

	message := err.Error()
	var se *model.StoreError
	if errors.As(err, &se) {
		message = se.Message
	}
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + e.Param()
	case "datetime":
		return "must be a date formatted as " + e.Param()
	default:
		return "is invalid"
	}
}

func (h *Handler) decodeAndValidate(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return h.validate.Struct(v)
}

// pageParams reads page and page_size. Missing values fall back to the
// store defaults.
func pageParams(r *http.Request) (page, pageSize int, err error) {
	q := r.URL.Query()
	if page, err = intParam(q.Get("page"), 0); err != nil {
		return 0, 0, errors.New("page must be a positive integer")
	}
	if pageSize, err = intParam(q.Get("page_size"), 0); err != nil {
		return 0, 0, errors.New("page_size must be a positive integer")
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize, nil
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("invalid integer")
	}
	return n, nil
}

func parseID(w http.ResponseWriter, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
