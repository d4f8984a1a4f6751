// Package onboarding drives the multi-stage verification flow each new member
// walks through before receiving full access.
package onboarding

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/robonexus/communitybot/birthdays"
	"github.com/robonexus/communitybot/dateparse"
	"github.com/robonexus/communitybot/messaging"
	"github.com/robonexus/communitybot/onboarding/sessions"
	"github.com/robonexus/communitybot/parser"
	"github.com/robonexus/communitybot/profiles"
	"github.com/robonexus/communitybot/roles"
	"github.com/robonexus/communitybot/settings"
)

// Collaborators holds every external dependency of the flow.
type Collaborators struct {
	Sessions  sessions.Repo
	Profiles  profiles.Repo
	Birthdays birthdays.Repo
	Roles     roles.Granter
	Messenger messaging.Messenger
	Settings  settings.Repo
}

// Service routes join and message events through the stage handlers and
// finalises completed sessions. One service instance owns the session
// registry for its process lifetime.
type Service struct {
	c       Collaborators
	nowTime func() time.Time
}

// ServiceOption modifies a Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// NewService validates the collaborators and builds the flow service.
func NewService(c Collaborators, options ...ServiceOption) (*Service, error) {
	if c.Sessions == nil {
		return nil, errors.New("[NewService] Sessions repo is required")
	}
	if c.Profiles == nil {
		return nil, errors.New("[NewService] Profiles repo is required")
	}
	if c.Birthdays == nil {
		return nil, errors.New("[NewService] Birthdays repo is required")
	}
	if c.Roles == nil {
		return nil, errors.New("[NewService] Roles granter is required")
	}
	if c.Messenger == nil {
		return nil, errors.New("[NewService] Messenger is required")
	}
	if c.Settings == nil {
		return nil, errors.New("[NewService] Settings repo is required")
	}

	service := &Service{c: c, nowTime: time.Now}
	for _, opt := range options {
		opt(service)
	}
	return service, nil
}

// InboundMessage is a text message observed on the chat platform.
type InboundMessage struct {
	MemberID      string
	ChannelID     string
	Content       string
	DirectMessage bool
}

// HandleMemberJoin starts a session for a new member and sends the first
// prompt. A duplicate join event for a member already onboarding is a no-op.
func (s *Service) HandleMemberJoin(ctx context.Context, memberID string) error {
	_, created, err := s.c.Sessions.Create(sessions.New(memberID, s.nowTime().UTC()))
	if err != nil {
		return errors.Wrap(err, "[HandleMemberJoin] creating session")
	}
	if !created {
		log.Debug().Str("member", memberID).Msg("duplicate join event ignored")
		return nil
	}

	log.Info().Str("member", memberID).Msg("member joined, starting verification")

	if err := s.c.Messenger.SendPrompt(ctx, memberID, messaging.Prompt{Kind: messaging.PromptWelcome}); err != nil {
		log.Error().Err(err).Str("member", memberID).Msg("failed to send welcome prompt")
	}

	if channelID, err := s.c.Settings.WelcomeChannelID(ctx); err == nil && channelID != "" {
		if err := s.c.Messenger.AnnounceJoin(ctx, channelID, memberID); err != nil {
			log.Error().Err(err).Str("member", memberID).Msg("failed to announce join")
		}
	}
	return nil
}

// HandleMessage routes a text message to the sender's current stage handler.
// Messages from members with no session, or arriving outside the approved
// surfaces (DM or the configured verification channel), are ignored.
func (s *Service) HandleMessage(ctx context.Context, msg InboundMessage) error {
	if !msg.DirectMessage {
		channelID, err := s.c.Settings.VerificationChannelID(ctx)
		if err != nil {
			return errors.Wrap(err, "[HandleMessage] reading verification channel")
		}
		if channelID == "" || channelID != msg.ChannelID {
			return nil
		}
	}

	var completed bool
	snapshot, err := s.c.Sessions.Update(msg.MemberID, func(session *sessions.Session) error {
		done, stageErr := s.advance(ctx, session, strings.TrimSpace(msg.Content))
		completed = done
		return stageErr
	})
	if stderrors.Is(err, sessions.ErrNotFound) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "[HandleMessage] advancing member %s", msg.MemberID)
	}

	if completed {
		return s.finalize(ctx, snapshot)
	}
	return nil
}

// advance runs the handler for the session's current stage. It reports
// completed=true only for the invocation that performed the Links → Complete
// transition, which is what guards against double finalisation.
func (s *Service) advance(ctx context.Context, session *sessions.Session, input string) (completed bool, err error) {
	switch session.Stage {
	case sessions.StageNameClass:
		return false, s.handleNameClass(ctx, session, input)
	case sessions.StageBirthday:
		return false, s.handleBirthday(ctx, session, input)
	case sessions.StageEmail:
		return false, s.handleEmail(ctx, session, input)
	case sessions.StagePhone:
		return false, s.handlePhone(ctx, session, input)
	case sessions.StageLinks:
		return true, s.handleLinks(ctx, session, input)
	case sessions.StageComplete:
		// Finalisation is already in flight; a late message changes nothing.
		return false, nil
	}
	return false, nil
}

func (s *Service) handleNameClass(ctx context.Context, session *sessions.Session, input string) error {
	name, class, err := parser.ClassAndName(input)
	if err != nil {
		return s.reprompt(ctx, session, messaging.Prompt{Kind: messaging.PromptNameClassRetry})
	}

	session.Profile.Name = name
	session.Profile.Class = class
	session.Stage = sessions.StageBirthday

	log.Info().Str("member", session.MemberID).Str("class", class).Msg("name and class collected")
	return s.prompt(ctx, session, messaging.Prompt{
		Kind:  messaging.PromptBirthday,
		Name:  name,
		Class: class,
	})
}

func (s *Service) handleBirthday(ctx context.Context, session *sessions.Session, input string) error {
	birthday, err := dateparse.Parse(input)
	if err != nil {
		return s.reprompt(ctx, session, messaging.Prompt{Kind: messaging.PromptBirthdayRetry})
	}

	session.Profile.Birthday = &birthday
	session.Stage = sessions.StageEmail

	// Birthdays are written immediately so the celebration scheduler sees
	// them even when the member never finishes the flow. The profile commit
	// at finalisation writes the same value again; that duplication is
	// intentional.
	if err := s.c.Birthdays.Upsert(ctx, session.MemberID, birthday); err != nil {
		log.Error().Err(err).Str("member", session.MemberID).Msg("failed to store birthday mid-flow")
	} else {
		if err := s.prompt(ctx, session, messaging.Prompt{
			Kind:     messaging.PromptBirthdayConfirmed,
			Birthday: birthday.Display(),
		}); err != nil {
			return err
		}
	}

	return s.prompt(ctx, session, messaging.Prompt{
		Kind:  messaging.PromptEmail,
		Name:  session.Profile.Name,
		Class: session.Profile.Class,
	})
}

func (s *Service) handleEmail(ctx context.Context, session *sessions.Session, input string) error {
	if parser.IsSkip(input) {
		session.Stage = sessions.StagePhone
		return s.prompt(ctx, session, messaging.Prompt{Kind: messaging.PromptPhone})
	}

	email, err := parser.Email(input)
	if err != nil {
		return s.reprompt(ctx, session, messaging.Prompt{Kind: messaging.PromptEmailRetry})
	}

	session.Profile.Email = &email
	session.Stage = sessions.StagePhone
	return s.prompt(ctx, session, messaging.Prompt{Kind: messaging.PromptPhone})
}

func (s *Service) handlePhone(ctx context.Context, session *sessions.Session, input string) error {
	if parser.IsSkip(input) {
		session.Stage = sessions.StageLinks
		return s.prompt(ctx, session, messaging.Prompt{Kind: messaging.PromptLinks})
	}

	phone, err := parser.Phone(input)
	if err != nil {
		return s.reprompt(ctx, session, messaging.Prompt{Kind: messaging.PromptPhoneRetry})
	}

	session.Profile.Phone = &phone
	session.Stage = sessions.StageLinks
	return s.prompt(ctx, session, messaging.Prompt{Kind: messaging.PromptLinks})
}

// handleLinks always succeeds: an empty or skipped reply is a valid empty set.
func (s *Service) handleLinks(_ context.Context, session *sessions.Session, input string) error {
	session.Profile.Links = parser.Links(input)
	session.Stage = sessions.StageComplete
	return nil
}

func (s *Service) prompt(ctx context.Context, session *sessions.Session, prompt messaging.Prompt) error {
	if err := s.c.Messenger.SendPrompt(ctx, session.MemberID, prompt); err != nil {
		log.Error().Err(err).Str("member", session.MemberID).Str("prompt", string(prompt.Kind)).Msg("failed to send prompt")
	}
	return nil
}

// reprompt never propagates an error: a failed parse is a conversational
// outcome, not a fault, and must leave the stage and collected fields alone.
func (s *Service) reprompt(ctx context.Context, session *sessions.Session, prompt messaging.Prompt) error {
	log.Debug().Str("member", session.MemberID).Str("stage", session.Stage.String()).Msg("parse failed, re-prompting")
	return s.prompt(ctx, session, prompt)
}

// finalize commits the completed profile, grants the class role, and tears
// the session down. The session is removed even when persistence fails so a
// member can never end up permanently stuck; the completion message then
// carries a warning instead of claiming success.
func (s *Service) finalize(ctx context.Context, session sessions.Session) error {
	draft := session.Profile

	roleErr := s.c.Roles.EnsureRoleAndAssign(ctx, session.MemberID, draft.Class)
	if roleErr != nil {
		log.Error().Err(roleErr).Str("member", session.MemberID).Str("class", draft.Class).Msg("role grant failed")
	}

	profile := &profiles.Profile{
		MemberID:    session.MemberID,
		DisplayName: draft.Name,
		Class:       draft.Class,
		Email:       draft.Email,
		Phone:       draft.Phone,
		SocialLinks: draft.Links,
		Status:      profiles.StatusVerified,
	}
	if draft.Birthday != nil {
		profile.Birthday = draft.Birthday.String()
	}

	saveErr := s.c.Profiles.Upsert(ctx, profile)
	if saveErr != nil {
		log.Error().Err(saveErr).Str("member", session.MemberID).Msg("failed to persist profile")
	}

	if err := s.c.Sessions.Delete(session.MemberID); err != nil {
		log.Error().Err(err).Str("member", session.MemberID).Msg("failed to delete session")
	}

	completion := messaging.Completion{
		Name:         draft.Name,
		Class:        draft.Class,
		Email:        draft.Email,
		Phone:        draft.Phone,
		SocialLinks:  draft.Links,
		ProfileSaved: saveErr == nil && roleErr == nil,
	}
	if err := s.c.Messenger.SendCompletion(ctx, session.MemberID, completion); err != nil {
		log.Error().Err(err).Str("member", session.MemberID).Msg("failed to send completion message")
	}

	if completion.ProfileSaved {
		if channelID, err := s.c.Settings.WelcomeChannelID(ctx); err == nil && channelID != "" {
			if err := s.c.Messenger.AnnounceVerified(ctx, channelID, completion); err != nil {
				log.Error().Err(err).Str("member", session.MemberID).Msg("failed to announce verification")
			}
		}
	}

	log.Info().
		Str("member", session.MemberID).
		Str("class", draft.Class).
		Bool("profile_saved", saveErr == nil).
		Msg("verification complete")
	return nil
}

// ManualVerify lets an admin create a verified profile directly, bypassing
// the conversational flow. Any pending session for the member is discarded.
func (s *Service) ManualVerify(ctx context.Context, memberID, name, class string) error {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return ErrNameRequired
	}
	if !parser.ValidClass(class) {
		return ErrInvalidClass
	}

	if err := s.c.Roles.EnsureRoleAndAssign(ctx, memberID, class); err != nil {
		return errors.Wrap(err, "[ManualVerify] granting role")
	}

	profile := &profiles.Profile{
		MemberID:    memberID,
		DisplayName: name,
		Class:       class,
		Status:      profiles.StatusVerified,
	}
	if err := s.c.Profiles.Upsert(ctx, profile); err != nil {
		return errors.Wrap(err, "[ManualVerify] persisting profile")
	}

	if err := s.c.Sessions.Delete(memberID); err != nil && !stderrors.Is(err, sessions.ErrNotFound) {
		log.Error().Err(err).Str("member", memberID).Msg("failed to discard pending session")
	}

	log.Info().Str("member", memberID).Str("class", class).Msg("manually verified")
	return nil
}

// RegisterBirthday backs the standalone birthday registration endpoint. It
// shares the flow's date parser and also patches the member's profile when
// one already exists.
func (s *Service) RegisterBirthday(ctx context.Context, memberID, date string) (dateparse.MonthDay, error) {
	birthday, err := dateparse.Parse(date)
	if err != nil {
		return dateparse.MonthDay{}, ErrInvalidBirthday
	}

	if err := s.c.Birthdays.Upsert(ctx, memberID, birthday); err != nil {
		return dateparse.MonthDay{}, errors.Wrap(err, "[RegisterBirthday] storing birthday")
	}

	if profile, err := s.c.Profiles.Get(ctx, memberID); err == nil {
		profile.Birthday = birthday.String()
		if err := s.c.Profiles.Upsert(ctx, profile); err != nil {
			log.Error().Err(err).Str("member", memberID).Msg("failed to patch profile birthday")
		}
	}

	log.Info().Str("member", memberID).Str("birthday", birthday.String()).Msg("birthday registered")
	return birthday, nil
}

// PendingSessions snapshots the members currently in verification.
func (s *Service) PendingSessions() ([]sessions.Session, error) {
	return s.c.Sessions.List()
}
