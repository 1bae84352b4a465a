package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gymgo/gymgo/svc/media"
	"github.com/gymgo/gymgo/svc/member"
	"github.com/gymgo/gymgo/svc/notification"
	"github.com/gymgo/gymgo/svc/organization"
	"github.com/gymgo/gymgo/svc/quota"
)

// Deps holds the services the router exposes. All fields are required except
// Log, which defaults to slog.Default.
type Deps struct {
	Orgs          organization.Store
	Members       *member.Service
	Media         *media.Service
	Notifications *notification.Service
	Quota         *quota.Engine
	Log           *slog.Logger
}

// Router assembles the HTTP surface of the module. Every route is scoped to
// an organization except organization management itself.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Mount("/api/v1", api.Router(api.Deps{
//	    Orgs:          orgStore,
//	    Members:       memberSvc,
//	    Media:         mediaSvc,
//	    Notifications: notifSvc,
//	    Quota:         engine,
//	}))
func Router(deps Deps) chi.Router {
	if deps.Orgs == nil || deps.Members == nil || deps.Media == nil ||
		deps.Notifications == nil || deps.Quota == nil {
		panic("api: all service dependencies are required")
	}
	if deps.Log == nil {
		deps.Log = slog.Default()
	}

	h := &handlers{deps: deps}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/organizations", func(r chi.Router) {
		r.Post("/", h.createOrganization)
		r.Get("/slug/{slug}", h.getOrganizationBySlug)

		r.Route("/{orgID}", func(r chi.Router) {
			r.Get("/", h.getOrganization)
			r.Patch("/", h.updateOrganization)
			r.Delete("/", h.deleteOrganization)

			r.Get("/usage", h.usageSummary)
			r.Get("/limits", h.organizationLimits)

			r.Route("/members", func(r chi.Router) {
				r.Post("/", h.addMember)
				r.Get("/", h.listMembers)
				r.Delete("/{memberID}", h.removeMember)
			})

			r.Route("/staff", func(r chi.Router) {
				r.Post("/", h.addStaff)
				r.Get("/", h.listStaff)
				r.Delete("/{staffID}", h.removeStaff)
			})

			r.Route("/media", func(r chi.Router) {
				r.Post("/", h.uploadMedia)
				r.Get("/", h.listMedia)
				r.Delete("/{fileID}", h.deleteMedia)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Post("/email", h.sendEmail)
				r.Post("/whatsapp", h.sendWhatsApp)
			})
		})
	})

	return r
}

type handlers struct {
	deps Deps
}
