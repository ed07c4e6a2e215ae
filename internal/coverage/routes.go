package coverage

import (
	"net/http"

	"github.com/CommunityWatchNC/CW-Backend/internal/auth"
	"github.com/CommunityWatchNC/CW-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := auth.SessionInfo{}

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Get("/schedule", ScheduleHandler)
		r.Get("/zones", ZonesHandler)
		r.Get("/counties", CountiesHandler)
	})

	return r
}
