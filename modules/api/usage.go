package api

import (
	"net/http"

	"github.com/gymgo/gymgo/svc/quota"
)

// usageSummary returns current usage against the resolved ceiling for every
// metered resource of the organization.
func (h *handlers) usageSummary(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	summary, err := h.deps.Quota.UsageSummary(r.Context(), orgID)
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	respond(w, http.StatusOK, summary)
}

type limitsResponse struct {
	Tier     quota.Tier               `json:"tier"`
	Limits   map[quota.Resource]int64 `json:"limits"`
	Features map[quota.Feature]bool   `json:"features"`
}

// organizationLimits returns the effective plan: tier defaults with the
// organization's explicit overrides applied.
func (h *handlers) organizationLimits(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	lims, err := h.deps.Quota.OrganizationLimits(r.Context(), orgID)
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	respond(w, http.StatusOK, limitsResponse{
		Tier:     lims.Tier,
		Limits:   lims.Limits,
		Features: lims.Features,
	})
}
