package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robonexus/communitybot/internal/config"
	"github.com/robonexus/communitybot/internal/utils"
	"github.com/robonexus/communitybot/messaging/messagingfakes"
	"github.com/robonexus/communitybot/onboarding"
	"github.com/robonexus/communitybot/onboarding/sessions"
	"github.com/robonexus/communitybot/profiles"
	"github.com/robonexus/communitybot/roles/rolefakes"
	"github.com/robonexus/communitybot/server"
	"github.com/robonexus/communitybot/settings"

	birthdaystore "github.com/robonexus/communitybot/birthdays"
)

const adminToken = "test-admin-token"

type fixture struct {
	server   *server.Server
	profiles *profiles.InMemoryRepo
	settings *settings.InMemoryRepo
	sessions *sessions.InMemoryRepo
	granter  *rolefakes.FakeGranter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	t.Setenv("ADMIN_TOKEN", adminToken)

	sessionRepo := sessions.NewInMemoryRepo()
	profileRepo := profiles.NewInMemoryRepo()
	settingsRepo := settings.NewInMemoryRepo("welcome-chan", "verify-chan")
	granter := rolefakes.NewFakeGranter()

	flow, err := onboarding.NewService(onboarding.Collaborators{
		Sessions:  sessionRepo,
		Profiles:  profileRepo,
		Birthdays: birthdaystore.NewInMemoryRepo(),
		Roles:     granter,
		Messenger: messagingfakes.NewFakeMessenger(),
		Settings:  settingsRepo,
	})
	require.NoError(t, err)

	srv, err := server.New(config.New(), flow, profileRepo, settingsRepo)
	require.NoError(t, err)

	return &fixture{
		server:   srv,
		profiles: profileRepo,
		settings: settingsRepo,
		sessions: sessionRepo,
		granter:  granter,
	}
}

func (f *fixture) request(t *testing.T, method, path string, body any, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if admin {
		req.Header.Set("Authorization", "Bearer "+adminToken)
	}
	recorder := httptest.NewRecorder()
	f.server.ServeHTTP(recorder, req)
	return recorder
}

func TestHealthHandler(t *testing.T) {
	f := newFixture(t)

	response := f.request(t, http.MethodGet, "/healthz", nil, false)
	require.Equal(t, http.StatusOK, response.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &payload))
	require.Equal(t, "ok", payload["status"])
}

func TestAdminAuth(t *testing.T) {
	f := newFixture(t)

	t.Run("rejects missing token", func(t *testing.T) {
		response := f.request(t, http.MethodGet, "/admin/config", nil, false)
		require.Equal(t, http.StatusUnauthorized, response.Code)
	})

	t.Run("rejects wrong token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/config", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		recorder := httptest.NewRecorder()
		f.server.ServeHTTP(recorder, req)
		require.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("accepts configured token", func(t *testing.T) {
		response := f.request(t, http.MethodGet, "/admin/config", nil, true)
		require.Equal(t, http.StatusOK, response.Code)
	})
}

func TestConfigAndChannelUpdates(t *testing.T) {
	f := newFixture(t)

	response := f.request(t, http.MethodGet, "/admin/config", nil, true)
	require.Equal(t, http.StatusOK, response.Code)

	var cfg map[string]string
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &cfg))
	require.Equal(t, "welcome-chan", cfg["welcome_channel_id"])
	require.Equal(t, "verify-chan", cfg["verification_channel_id"])

	t.Run("updates welcome channel", func(t *testing.T) {
		response := f.request(t, http.MethodPut, "/admin/channels/welcome", map[string]string{"channel_id": "new-welcome"}, true)
		require.Equal(t, http.StatusOK, response.Code)

		stored, err := f.settings.WelcomeChannelID(context.Background())
		require.NoError(t, err)
		require.Equal(t, "new-welcome", stored)
	})

	t.Run("updates verification channel", func(t *testing.T) {
		response := f.request(t, http.MethodPut, "/admin/channels/verification", map[string]string{"channel_id": "new-verify"}, true)
		require.Equal(t, http.StatusOK, response.Code)

		stored, err := f.settings.VerificationChannelID(context.Background())
		require.NoError(t, err)
		require.Equal(t, "new-verify", stored)
	})

	t.Run("rejects empty channel id", func(t *testing.T) {
		response := f.request(t, http.MethodPut, "/admin/channels/welcome", map[string]string{"channel_id": "  "}, true)
		require.Equal(t, http.StatusBadRequest, response.Code)
	})
}

func TestPendingSessionsHandler(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.sessions.Create(sessions.New("member-1", time.Now()))
	require.NoError(t, err)
	_, err = f.sessions.Update("member-1", func(s *sessions.Session) error {
		s.Stage = sessions.StageBirthday
		s.Profile.Name = "Priya Rao"
		s.Profile.Class = "9"
		return nil
	})
	require.NoError(t, err)

	response := f.request(t, http.MethodGet, "/admin/pending", nil, true)
	require.Equal(t, http.StatusOK, response.Code)

	var pending []map[string]any
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &pending))
	require.Len(t, pending, 1)
	require.Equal(t, "member-1", pending[0]["member_id"])
	require.Equal(t, "birthday", pending[0]["stage"])
	require.Equal(t, "Priya Rao", pending[0]["name"])
}

func TestProfileHandlers(t *testing.T) {
	f := newFixture(t)

	t.Run("get missing profile returns 404", func(t *testing.T) {
		response := f.request(t, http.MethodGet, "/admin/profiles/nobody", nil, true)
		require.Equal(t, http.StatusNotFound, response.Code)
	})

	t.Run("put then get round-trips", func(t *testing.T) {
		profile := profiles.Profile{
			DisplayName: "John Smith",
			Class:       "10",
			Email:       utils.Ptr("john.smith@gmail.com"),
			SocialLinks: map[string]string{"github": "https://github.com/johnsmith"},
		}
		response := f.request(t, http.MethodPut, "/admin/profiles/member-1", profile, true)
		require.Equal(t, http.StatusOK, response.Code)

		response = f.request(t, http.MethodGet, "/admin/profiles/member-1", nil, true)
		require.Equal(t, http.StatusOK, response.Code)

		var stored profiles.Profile
		require.NoError(t, json.Unmarshal(response.Body.Bytes(), &stored))
		require.Equal(t, "member-1", stored.MemberID)
		require.Equal(t, "John Smith", stored.DisplayName)
		require.Equal(t, profiles.StatusPending, stored.Status)
		require.Equal(t, "https://github.com/johnsmith", stored.SocialLinks["github"])
	})
}

func TestManualVerifyHandler(t *testing.T) {
	f := newFixture(t)

	t.Run("verifies and grants role", func(t *testing.T) {
		response := f.request(t, http.MethodPost, "/admin/profiles/member-9/verify", map[string]string{"name": "Sarah Lee", "class": "8"}, true)
		require.Equal(t, http.StatusOK, response.Code)

		profile, err := f.profiles.Get(context.Background(), "member-9")
		require.NoError(t, err)
		require.Equal(t, profiles.StatusVerified, profile.Status)
		class, ok := f.granter.Granted("member-9")
		require.True(t, ok)
		require.Equal(t, "8", class)
	})

	t.Run("rejects invalid class", func(t *testing.T) {
		response := f.request(t, http.MethodPost, "/admin/profiles/member-9/verify", map[string]string{"name": "Sarah Lee", "class": "13"}, true)
		require.Equal(t, http.StatusBadRequest, response.Code)
	})

	t.Run("rejects missing name", func(t *testing.T) {
		response := f.request(t, http.MethodPost, "/admin/profiles/member-9/verify", map[string]string{"class": "8"}, true)
		require.Equal(t, http.StatusBadRequest, response.Code)
	})
}

func TestExportProfilesHandler(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.profiles.Upsert(context.Background(), &profiles.Profile{
		MemberID:    "member-1",
		DisplayName: "John Smith",
		Class:       "10",
		Birthday:    "03-15",
		Email:       utils.Ptr("john.smith@gmail.com"),
		Status:      profiles.StatusVerified,
	}))

	response := f.request(t, http.MethodGet, "/admin/profiles/export", nil, true)
	require.Equal(t, http.StatusOK, response.Code)
	require.Contains(t, response.Header().Get("Content-Type"), "text/csv")

	lines := strings.Split(strings.TrimSpace(response.Body.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "member_id")
	require.Contains(t, lines[1], "John Smith")
	require.Contains(t, lines[1], "03-15")
}

func TestRegisterBirthdayHandler(t *testing.T) {
	f := newFixture(t)

	t.Run("stores valid date", func(t *testing.T) {
		response := f.request(t, http.MethodPost, "/birthdays", map[string]string{"member_id": "member-1", "date": "12/25"}, false)
		require.Equal(t, http.StatusOK, response.Code)

		var payload map[string]string
		require.NoError(t, json.Unmarshal(response.Body.Bytes(), &payload))
		require.Equal(t, "12-25", payload["birthday"])
		require.Equal(t, "December 25", payload["display"])
	})

	t.Run("rejects invalid date", func(t *testing.T) {
		response := f.request(t, http.MethodPost, "/birthdays", map[string]string{"member_id": "member-1", "date": "not a date"}, false)
		require.Equal(t, http.StatusBadRequest, response.Code)
	})

	t.Run("rejects missing member id", func(t *testing.T) {
		response := f.request(t, http.MethodPost, "/birthdays", map[string]string{"date": "12/25"}, false)
		require.Equal(t, http.StatusBadRequest, response.Code)
	})
}
