package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/triage/pkg/usecase"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

func New(uc *usecase.UseCases) *Server {
	s := &Server{
		router: chi.NewRouter(),
		uc:     uc,
	}

	s.router.Use(panicRecoveryMiddleware)
	s.router.Use(withRequestID)
	s.router.Use(accessLogMiddleware)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", s.listAlerts)
			r.Post("/filters", s.addFilterValue)
			r.Delete("/filters/{field}", s.removeFilter)
			r.Delete("/filters", s.clearFilters)

			r.Route("/bulk", func(r chi.Router) {
				r.Post("/follow", s.bulkFollow(true))
				r.Post("/unfollow", s.bulkFollow(false))
				r.Post("/read", s.bulkMarkAsRead(true))
				r.Post("/unread", s.bulkMarkAsRead(false))
				r.Post("/delete", s.bulkDelete)
				r.Post("/merge", s.bulkMerge)
			})
		})

		r.Route("/cases", func(r chi.Router) {
			r.Get("/", s.searchCases)
			r.Post("/", s.createCase)
			r.Get("/templates", s.listTemplates)
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
