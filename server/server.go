// Package server exposes the bot's HTTP surface: a health check, an admin API
// for channel wiring and profile management, and the public birthday endpoint.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"

	"github.com/robonexus/communitybot/internal/config"
	"github.com/robonexus/communitybot/onboarding"
	"github.com/robonexus/communitybot/profiles"
	"github.com/robonexus/communitybot/settings"
)

type Server struct {
	env      string
	router   chi.Router
	config   config.Config
	flow     *onboarding.Service
	profiles profiles.Repo
	settings settings.Repo
}

func New(cfg config.Config, flow *onboarding.Service, profileRepo profiles.Repo, settingsRepo settings.Repo) (*Server, error) {
	if flow == nil {
		return nil, errors.New("[Server New] onboarding service is required")
	}
	if profileRepo == nil || settingsRepo == nil {
		return nil, errors.New("[Server New] repos are required")
	}

	s := &Server{
		env:      cfg.GetEnv(),
		config:   cfg,
		flow:     flow,
		profiles: profileRepo,
		settings: settingsRepo,
	}
	s.initRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) initRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.env))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.HealthHandler())
	r.Post("/birthdays", s.RegisterBirthdayHandler())

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireAdminToken)
		r.Get("/config", s.ConfigHandler())
		r.Put("/channels/welcome", s.SetChannelHandler(s.settings.SetWelcomeChannelID))
		r.Put("/channels/verification", s.SetChannelHandler(s.settings.SetVerificationChannelID))
		r.Get("/pending", s.PendingSessionsHandler())
		r.Get("/profiles/export", s.ExportProfilesHandler())
		r.Get("/profiles/{memberID}", s.GetProfileHandler())
		r.Put("/profiles/{memberID}", s.UpdateProfileHandler())
		r.Post("/profiles/{memberID}/verify", s.ManualVerifyHandler())
	})

	s.router = r
}
