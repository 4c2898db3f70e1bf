package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RouterDeps carries the wired handlers. Assist and RateLimit are optional:
// without an API key the proxy endpoint is simply not mounted.
type RouterDeps struct {
	Booking   *BookingHandler
	Sweep     *SweepHandler
	Assist    *AssistHandler
	RateLimit *RedisRateLimiter
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/appointments", deps.Booking.CreateAppointment)
		r.Post("/appointments/{id}/cancel", deps.Booking.CancelAppointment)
		r.Get("/schedules/open", deps.Booking.ListOpenSchedules)
		r.Get("/staff/{id}/appointments", deps.Booking.ListStaffAppointments)
		r.Get("/users/{id}/bookings", deps.Booking.ListUserBookings)

		r.Post("/sweep", deps.Sweep.Run)

		if deps.Assist != nil {
			if deps.RateLimit != nil {
				r.With(deps.RateLimit.Middleware).Post("/ai-response", deps.Assist.Respond)
			} else {
				r.Post("/ai-response", deps.Assist.Respond)
			}
		}
	})

	return r
}
