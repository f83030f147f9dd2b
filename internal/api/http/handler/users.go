package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dtroode/daycare-server/internal/model"
	"github.com/dtroode/daycare-server/internal/service"
)

type createUserRequest struct {
	Email    string         `json:"email" validate:"required,email,max=320"`
	Name     *string        `json:"name" validate:"omitempty,min=1,max=200"`
	Role     model.Role     `json:"role" validate:"omitempty,oneof=admin staff parent"`
	Metadata model.Metadata `json:"metadata"`
}

type metadataRequest struct {
	Metadata model.Metadata `json:"metadata" validate:"required"`
}

// CreateUser handles POST /api/users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondValidationError(w, err)
		return
	}

	user, err := h.users.CreateUser(r.Context(), service.CreateUserParams{
		Email:    req.Email,
		Name:     req.Name,
		Role:     req.Role,
		Metadata: req.Metadata,
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// GetUser handles GET /api/users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	user, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// ListUsers handles GET /api/users. A q parameter searches, a role parameter
// filters, and otherwise the users are paginated.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if term := q.Get("q"); term != "" {
		users, err := h.users.SearchUsers(r.Context(), term)
		if err != nil {
			h.respondServiceError(w, r, err)
			return
		}
		respondList(w, users)
		return
	}

	if role := q.Get("role"); role != "" {
		users, err := h.users.UsersByRole(r.Context(), model.Role(role))
		if err != nil {
			h.respondServiceError(w, r, err)
			return
		}
		respondList(w, users)
		return
	}

	page, pageSize, err := pageParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.users.ListUsers(r.Context(), page, pageSize)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ReplaceMetadata handles PUT /api/users/{id}/metadata.
func (h *Handler) ReplaceMetadata(w http.ResponseWriter, r *http.Request) {
	h.updateMetadata(w, r, h.users.ReplaceMetadata)
}

// MergeMetadata handles PATCH /api/users/{id}/metadata.
func (h *Handler) MergeMetadata(w http.ResponseWriter, r *http.Request) {
	h.updateMetadata(w, r, h.users.MergeMetadata)
}

func (h *Handler) updateMetadata(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, id uuid.UUID, metadata model.Metadata) (model.User, error),
) {
	id, ok := parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req metadataRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondValidationError(w, err)
		return
	}

	user, err := apply(r.Context(), id, req.Metadata)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}
