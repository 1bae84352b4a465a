package api

import (
	"encoding/json"
	"net/http"

	"github.com/gymgo/gymgo/pkg/email"
	"github.com/gymgo/gymgo/svc/notification"
)

// sendEmail sends a transactional email on behalf of the organization. The
// monthly email ceiling is checked and consumed by the notification service.
func (h *handlers) sendEmail(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}

	var in struct {
		SendTo   string `json:"send_to"`
		Subject  string `json:"subject"`
		BodyHTML string `json:"body_html"`
		Tag      string `json:"tag"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, r, h.deps.Log, badRequest("malformed json body"))
		return
	}

	err = h.deps.Notifications.SendEmail(r.Context(), orgID, email.SendEmailParams{
		SendTo:   in.SendTo,
		Subject:  in.Subject,
		BodyHTML: in.BodyHTML,
		Tag:      in.Tag,
	})
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	respond(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

// sendWhatsApp sends a WhatsApp message. The feature gate and the monthly
// message ceiling are both enforced by the notification service.
func (h *handlers) sendWhatsApp(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}

	var in struct {
		To   string `json:"to"`
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, r, h.deps.Log, badRequest("malformed json body"))
		return
	}

	err = h.deps.Notifications.SendWhatsApp(r.Context(), orgID, notification.WhatsAppMessage{
		To:   in.To,
		Body: in.Body,
	})
	if err != nil {
		respondError(w, r, h.deps.Log, err)
		return
	}
	respond(w, http.StatusAccepted, map[string]string{"status": "sent"})
}
