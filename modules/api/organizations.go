package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gymgo/gymgo/svc/organization"
	"github.com/gymgo/gymgo/svc/quota"
)

type organizationPayload struct {
	Slug         string                 `json:"slug"`
	Name         string                 `json:"name"`
	Tier         string                 `json:"tier"`
	MaxMembers   *int64                 `json:"max_members,omitempty"`
	MaxUsers     *int64                 `json:"max_users,omitempty"`
	MaxTrainers  *int64                 `json:"max_trainers,omitempty"`
	MaxLocations *int64                 `json:"max_locations,omitempty"`
	Features     map[quota.Feature]bool `json:"features,omitempty"`
}

type organizationResponse struct {
	ID           uuid.UUID              `json:"id"`
	Slug         string                 `json:"slug"`
	Name         string                 `json:"name"`
	Tier         quota.Tier             `json:"tier"`
	MaxMembers   *int64                 `json:"max_members,omitempty"`
	MaxUsers     *int64                 `json:"max_users,omitempty"`
	MaxTrainers  *int64                 `json:"max_trainers,omitempty"`
	MaxLocations *int64                 `json:"max_locations,omitempty"`
	Features     map[quota.Feature]bool `json:"features,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

func toOrganizationResponse(org *organization.Organization) organizationResponse {
	return organizationResponse{
		ID:           org.ID,
		Slug:         org.Slug,
		Name:         org.Name,
		Tier:         org.Tier,
		MaxMembers:   org.MaxMembers,
		MaxUsers:     org.MaxUsers,
		MaxTrainers:  org.MaxTrainers,
		MaxLocations: org.MaxLocations,
		Features:     org.Features,
		CreatedAt:    org.CreatedAt,
		UpdatedAt:    org.UpdatedAt,
	}
}

func (h *handlers) createOrganization(w http.ResponseWriter, r *http.Request) {
	var in organizationPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, r, h.deps.Log, badRequest("malformed json body"))
		return
	}

	slug := strings.TrimSpace(strings.ToLower(in.Slug))
	name := strings.TrimSpace(in.Name)
	if slug == "" || name == "" {
		respondError(w, r, h.deps.Log, badRequest("slug and name are required"))
		return
	}
	tier := quota.Tier(in.Tier)
	if !tier.Valid() {
		respondError(w, r, h.deps.Log, organization.ErrInvalidTier)
		return
	}

	org := &organization.Organization{
		ID:           uuid.New(),
		Slug:         slug,
		Name:         name,
		Tier:         tier,
		MaxMembers:   in.MaxMembers,
		MaxUsers:     in.MaxUsers,
		MaxTrainers:  in.MaxTrainers,
		MaxLocations: in.MaxLocations,
		Features:     in.Features,
	}
	if err := h.deps.Orgs.Create(r.Context(), org); err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	respond(w, http.StatusCreated, toOrganizationResponse(org))
}

func (h *handlers) getOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	org, err := h.deps.Orgs.GetByID(r.Context(), orgID)
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	respond(w, http.StatusOK, toOrganizationResponse(org))
}

func (h *handlers) getOrganizationBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	org, err := h.deps.Orgs.GetBySlug(r.Context(), slug)
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	respond(w, http.StatusOK, toOrganizationResponse(org))
}

// updateOrganization applies a partial update: only fields present in the
// body change. Override and feature maps replace wholesale when present,
// matching how plan changes arrive from billing.
func (h *handlers) updateOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}

	var in struct {
		Name         *string                `json:"name"`
		Tier         *string                `json:"tier"`
		MaxMembers   *int64                 `json:"max_members"`
		MaxUsers     *int64                 `json:"max_users"`
		MaxTrainers  *int64                 `json:"max_trainers"`
		MaxLocations *int64                 `json:"max_locations"`
		Features     map[quota.Feature]bool `json:"features"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, r, h.deps.Log, badRequest("malformed json body"))
		return
	}

	org, err := h.deps.Orgs.GetByID(r.Context(), orgID)
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			respondError(w, r, h.deps.Log, badRequest("name cannot be empty"))
			return
		}
		org.Name = name
	}
	if in.Tier != nil {
		tier := quota.Tier(*in.Tier)
		if !tier.Valid() {
			respondError(w, r, h.deps.Log, organization.ErrInvalidTier)
			return
		}
		org.Tier = tier
	}
	if in.MaxMembers != nil {
		org.MaxMembers = in.MaxMembers
	}
	if in.MaxUsers != nil {
		org.MaxUsers = in.MaxUsers
	}
	if in.MaxTrainers != nil {
		org.MaxTrainers = in.MaxTrainers
	}
	if in.MaxLocations != nil {
		org.MaxLocations = in.MaxLocations
	}
	if in.Features != nil {
		org.Features = in.Features
	}

	if err := h.deps.Orgs.Update(r.Context(), org); err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	respond(w, http.StatusOK, toOrganizationResponse(org))
}

// deleteOrganization purges the organization's media from the storage backend
// before removing the record, so the object store does not accumulate
// orphaned files.
func (h *handlers) deleteOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	if _, err := h.deps.Orgs.GetByID(r.Context(), orgID); err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	if err := h.deps.Media.PurgeOrganization(r.Context(), orgID); err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	if err := h.deps.Orgs.Delete(r.Context(), orgID); err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func orgIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "orgID"))
	if err != nil {
		return uuid.Nil, badRequest("invalid organization id")
	}
	return id, nil
}

func idParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, badRequest("invalid " + name)
	}
	return id, nil
}
