// Package profiles holds the member profile record produced by onboarding and
// the storage interface it is persisted through.
package profiles

import "time"

// Status tracks where a member is in the verification lifecycle.
type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
)

// Profile is the completed member record. Email and Phone are pointers so a
// member who explicitly skipped a field is distinguishable from a zero value.
type Profile struct {
	MemberID    string            `json:"member_id"`
	DisplayName string            `json:"display_name"`
	Class       string            `json:"class"`
	Birthday    string            `json:"birthday,omitempty"` // MM-DD
	Email       *string           `json:"email,omitempty"`
	Phone       *string           `json:"phone,omitempty"`
	SocialLinks map[string]string `json:"social_links,omitempty"`
	Status      Status            `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
