package server

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robonexus/communitybot/dateparse"
	"github.com/robonexus/communitybot/internal/utils"
	"github.com/robonexus/communitybot/onboarding"
	"github.com/robonexus/communitybot/profiles"
)

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "app": s.config.GetAppName()})
	}
}

type channelConfigResponse struct {
	WelcomeChannelID      string `json:"welcome_channel_id"`
	VerificationChannelID string `json:"verification_channel_id"`
}

func (s *Server) ConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		welcome, err := s.settings.WelcomeChannelID(r.Context())
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to read settings")
			return
		}
		verification, err := s.settings.VerificationChannelID(r.Context())
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to read settings")
			return
		}
		respondJSON(w, http.StatusOK, channelConfigResponse{
			WelcomeChannelID:      welcome,
			VerificationChannelID: verification,
		})
	}
}

type setChannelRequest struct {
	ChannelID string `json:"channel_id"`
}

// SetChannelHandler updates one of the configured channels. The setter decides
// which one, so the welcome and verification routes share this handler.
func (s *Server) SetChannelHandler(set func(ctx context.Context, channelID string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setChannelRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.ChannelID = strings.TrimSpace(req.ChannelID)
		if req.ChannelID == "" {
			respondError(w, http.StatusBadRequest, "channel_id is required")
			return
		}
		if err := set(r.Context(), req.ChannelID); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to store channel")
			return
		}
		respondJSON(w, http.StatusOK, setChannelRequest{ChannelID: req.ChannelID})
	}
}

type pendingSessionResponse struct {
	MemberID string    `json:"member_id"`
	Stage    string    `json:"stage"`
	Name     string    `json:"name,omitempty"`
	Class    string    `json:"class,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
}

func (s *Server) PendingSessionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pending, err := s.flow.PendingSessions()
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to list sessions")
			return
		}

		response := make([]pendingSessionResponse, 0, len(pending))
		for _, session := range pending {
			response = append(response, pendingSessionResponse{
				MemberID: session.MemberID,
				Stage:    session.Stage.String(),
				Name:     session.Profile.Name,
				Class:    session.Profile.Class,
				JoinedAt: session.JoinedAt,
			})
		}
		respondJSON(w, http.StatusOK, response)
	}
}

func (s *Server) GetProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		memberID := chi.URLParam(r, "memberID")
		profile, err := s.profiles.Get(r.Context(), memberID)
		if errors.Is(err, profiles.ErrNotFound) {
			respondError(w, http.StatusNotFound, "profile not found")
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to load profile")
			return
		}
		respondJSON(w, http.StatusOK, profile)
	}
}

func (s *Server) UpdateProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		memberID := chi.URLParam(r, "memberID")

		var profile profiles.Profile
		if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		profile.MemberID = memberID
		if profile.Status == "" {
			profile.Status = profiles.StatusPending
		}

		if err := s.profiles.Upsert(r.Context(), &profile); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to store profile")
			return
		}
		respondJSON(w, http.StatusOK, &profile)
	}
}

type manualVerifyRequest struct {
	Name  string `json:"name"`
	Class string `json:"class"`
}

func (s *Server) ManualVerifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		memberID := chi.URLParam(r, "memberID")

		var req manualVerifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		err := s.flow.ManualVerify(r.Context(), memberID, req.Name, req.Class)
		switch {
		case errors.Is(err, onboarding.ErrNameRequired):
			respondError(w, http.StatusBadRequest, "name is required")
		case errors.Is(err, onboarding.ErrInvalidClass):
			respondError(w, http.StatusBadRequest, "class must be one of 6-12")
		case err != nil:
			log.Error().Err(err).Str("member", memberID).Msg("manual verification failed")
			respondError(w, http.StatusInternalServerError, "verification failed")
		default:
			respondJSON(w, http.StatusOK, map[string]string{
				"member_id": memberID,
				"status":    string(profiles.StatusVerified),
			})
		}
	}
}

var exportHeader = []string{"member_id", "display_name", "class", "birthday", "email", "phone", "links", "status"}

// ExportProfilesHandler streams every profile as CSV for offline admin use.
func (s *Server) ExportProfilesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := s.profiles.List(r.Context())
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to list profiles")
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="profiles.csv"`)

		writer := csv.NewWriter(w)
		_ = writer.Write(exportHeader)
		for _, profile := range all {
			links := make([]string, 0, len(profile.SocialLinks))
			for platform, url := range profile.SocialLinks {
				links = append(links, platform+"="+url)
			}
			_ = writer.Write([]string{
				profile.MemberID,
				profile.DisplayName,
				profile.Class,
				profile.Birthday,
				utils.Value(profile.Email),
				utils.Value(profile.Phone),
				strings.Join(links, " "),
				string(profile.Status),
			})
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			log.Error().Err(err).Msg("csv export failed")
		}
	}
}

type registerBirthdayRequest struct {
	MemberID string `json:"member_id"`
	Date     string `json:"date"`
}

type registerBirthdayResponse struct {
	MemberID string `json:"member_id"`
	Birthday string `json:"birthday"`
	Display  string `json:"display"`
}

func (s *Server) RegisterBirthdayHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerBirthdayRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.MemberID) == "" {
			respondError(w, http.StatusBadRequest, "member_id is required")
			return
		}

		birthday, err := s.flow.RegisterBirthday(r.Context(), req.MemberID, req.Date)
		if errors.Is(err, onboarding.ErrInvalidBirthday) {
			respondError(w, http.StatusBadRequest, "unsupported date, use formats: "+strings.Join(dateparse.SupportedFormats(), ", "))
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to store birthday")
			return
		}

		respondJSON(w, http.StatusOK, registerBirthdayResponse{
			MemberID: req.MemberID,
			Birthday: birthday.String(),
			Display:  birthday.Display(),
		})
	}
}
