package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bookora/be-booking-access/internal/access"
	"github.com/bookora/be-booking-access/internal/handler"
	"github.com/bookora/be-booking-access/internal/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth          *handler.AuthHandler
	Me            *handler.MeHandler
	Assignments   *handler.AssignmentHandler
	WorkingPoints *handler.WorkingPointHandler
	Bookings      *handler.BookingHandler
	Catalog       *handler.CatalogHandler
}

// New builds the HTTP routing tree. Everything except login and refresh
// sits behind token authentication.
func New(h Handlers, auth *middleware.Authenticator, allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/login", h.Auth.Login)
		ar.Post("/refresh", h.Auth.Refresh)
		ar.With(auth.Authenticate).Post("/change_password", h.Auth.ChangePassword)
		ar.With(auth.Authenticate).Post("/logout", h.Auth.Logout)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.Authenticate)

		pr.Get("/me/capabilities", h.Me.Capabilities)

		pr.Route("/operators/{operatorID}", func(or chi.Router) {
			or.Route("/service_points", func(sr chi.Router) {
				sr.Get("/", h.Assignments.List)
				sr.Post("/", h.Assignments.Assign)
				sr.Post("/bulk_assign", h.Assignments.BulkAssign)
			})

			or.Route("/working_point", func(wr chi.Router) {
				wr.Get("/", h.WorkingPoints.Get)
				wr.Put("/", h.WorkingPoints.Put)
				wr.Delete("/", h.WorkingPoints.Delete)
			})
		})

		pr.Route("/operator_service_points/{assignmentID}", func(ar chi.Router) {
			ar.Use(middleware.Require(func(caps access.CapabilitySet) bool {
				return caps.CanManageOperators
			}))
			ar.Patch("/", h.Assignments.Update)
			ar.Delete("/", h.Assignments.Delete)
		})

		pr.Get("/partners", h.Catalog.ListPartners)
		pr.Get("/service_points", h.Catalog.ListServicePoints)
		pr.Get("/operators", h.Catalog.ListOperators)

		pr.Route("/bookings", func(br chi.Router) {
			br.Get("/", h.Bookings.List)
			br.Get("/{bookingID}", h.Bookings.Get)
		})
	})

	return r
}
