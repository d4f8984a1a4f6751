// Package sessions tracks the transient per-member state of the onboarding
// flow. Sessions live in memory only: a process restart legitimately resets
// any verification that was in progress.
package sessions

import (
	"time"

	"github.com/robonexus/communitybot/dateparse"
)

// Stage is one step of the onboarding state machine. Stages only ever move
// forward; a failed parse re-prompts the same stage.
type Stage int

const (
	StageNameClass Stage = iota
	StageBirthday
	StageEmail
	StagePhone
	StageLinks
	StageComplete
)

func (s Stage) String() string {
	switch s {
	case StageNameClass:
		return "name_class"
	case StageBirthday:
		return "birthday"
	case StageEmail:
		return "email"
	case StagePhone:
		return "phone"
	case StageLinks:
		return "links"
	case StageComplete:
		return "complete"
	}
	return "unknown"
}

// ProfileDraft accumulates fields as stages pass. The pointer fields are nil
// both before their stage runs and when the member skipped them; the session
// stage disambiguates the two.
type ProfileDraft struct {
	Name     string
	Class    string
	Birthday *dateparse.MonthDay
	Email    *string
	Phone    *string
	Links    map[string]string
}

// Session is the per-member flow state. JoinedAt is informational only;
// nothing evicts idle sessions.
type Session struct {
	MemberID string
	Stage    Stage
	JoinedAt time.Time
	Profile  ProfileDraft
}

// New starts a session at the first stage.
func New(memberID string, joinedAt time.Time) Session {
	return Session{
		MemberID: memberID,
		Stage:    StageNameClass,
		JoinedAt: joinedAt,
	}
}
