package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gymgo/gymgo/svc/member"
	"github.com/gymgo/gymgo/svc/quota"
)

type memberResponse struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	JoinedAt       time.Time `json:"joined_at"`
	CreatedAt      time.Time `json:"created_at"`
}

type staffResponse struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	FullName       string     `json:"full_name"`
	Email          string     `json:"email"`
	Role           quota.Role `json:"role"`
	CreatedAt      time.Time  `json:"created_at"`
}

func toMemberResponse(m *member.Member) memberResponse {
	return memberResponse{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		FullName:       m.FullName,
		Email:          m.Email,
		Phone:          m.Phone,
		JoinedAt:       m.JoinedAt,
		CreatedAt:      m.CreatedAt,
	}
}

func toStaffResponse(s *member.Staff) staffResponse {
	return staffResponse{
		ID:             s.ID,
		OrganizationID: s.OrganizationID,
		FullName:       s.FullName,
		Email:          s.Email,
		Role:           s.Role,
		CreatedAt:      s.CreatedAt,
	}
}

func (h *handlers) addMember(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}

	var in struct {
		FullName string    `json:"full_name"`
		Email    string    `json:"email"`
		Phone    string    `json:"phone"`
		JoinedAt time.Time `json:"joined_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, r, h.deps.Log, badRequest("malformed json body"))
		return
	}

	m, err := h.deps.Members.AddMember(r.Context(), orgID, member.AddMemberInput{
		FullName: in.FullName,
		Email:    in.Email,
		Phone:    in.Phone,
		JoinedAt: in.JoinedAt,
	})
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	respond(w, http.StatusCreated, toMemberResponse(m))
}

func (h *handlers) listMembers(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	members, err := h.deps.Members.ListMembers(r.Context(), orgID)
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	out := make([]memberResponse, len(members))
	for i := range members {
		out[i] = toMemberResponse(&members[i])
	}
	respond(w, http.StatusOK, out)
}

func (h *handlers) removeMember(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	memberID, err := idParam(r, "memberID")
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	if err := h.deps.Members.RemoveMember(r.Context(), orgID, memberID); err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *handlers) addStaff(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}

	var in struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, r, h.deps.Log, badRequest("malformed json body"))
		return
	}

	st, err := h.deps.Members.AddStaff(r.Context(), orgID, member.AddStaffInput{
		FullName: in.FullName,
		Email:    in.Email,
		Role:     quota.Role(in.Role),
	})
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	respond(w, http.StatusCreated, toStaffResponse(st))
}

func (h *handlers) listStaff(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	staff, err := h.deps.Members.ListStaff(r.Context(), orgID)
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	out := make([]staffResponse, len(staff))
	for i := range staff {
		out[i] = toStaffResponse(&staff[i])
	}
	respond(w, http.StatusOK, out)
}

func (h *handlers) removeStaff(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	staffID, err := idParam(r, "staffID")
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	if err := h.deps.Members.RemoveStaff(r.Context(), orgID, staffID); err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}
