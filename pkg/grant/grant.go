// Package grant contains the domain types for access grants: the canonical
// share record, the token-addressed invite record, and the helpers that keep
// their derived data (store keys, normalized emails) in one place.
package grant

import (
	"strings"
	"time"
	"unicode"
)

// InviteTTL is the fixed lifetime of an invite. ExpiresAt is always
// CreatedAt + InviteTTL and is never extended.
const InviteTTL = 7 * 24 * time.Hour

// MaxMessageLength caps the optional free-text message attached to a grant.
const MaxMessageLength = 500

// Role is the access level granted to a caregiver.
type Role string

const (
	RoleViewer Role = "viewer"
)

// IsValid reports whether the role is a known value.
func (r Role) IsValid() bool {
	return r == RoleViewer
}

// Status is the lifecycle status of a share or invite.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRevoked  Status = "revoked"

	// StatusExpired only applies to invites. It is detected lazily on read,
	// never by a background sweep.
	StatusExpired Status = "expired"
)

// Terminal reports whether no further transition is allowed out of the status.
func (s Status) Terminal() bool {
	return s == StatusRevoked || s == StatusExpired
}

// Share is the canonical access relationship between an owner and a caregiver.
// Its store key is derived from (OwnerID, CaregiverID); see ShareKey.
type Share struct {
	ID             string // ULID, stable across key migrations of the same acceptance
	OwnerID        string
	OwnerName      string
	OwnerEmail     string
	CaregiverID    string // empty until the grantee account is resolved
	CaregiverEmail string // normalized lowercase
	Role           Role
	Status         Status
	Message        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	AcceptedAt     *time.Time
}

// Key returns the derived store key for the share. It is only valid once
// CaregiverID is set.
func (s *Share) Key() string {
	return ShareKey(s.OwnerID, s.CaregiverID)
}

// Clone returns a deep copy of the share.
func (s *Share) Clone() *Share {
	c := *s
	if s.AcceptedAt != nil {
		t := *s.AcceptedAt
		c.AcceptedAt = &t
	}
	return &c
}

// ShareKey builds the composite store key for a share. The key is derived
// data over (ownerID, caregiverID); no other code may concatenate the parts.
func ShareKey(ownerID, caregiverID string) string {
	return ownerID + "_" + caregiverID
}

// Invite is a token-addressed, time-limited offer to create a Share. The
// token is the document id and must not be guessable.
type Invite struct {
	Token          string
	ID             string // ULID
	OwnerID        string
	OwnerName      string
	OwnerEmail     string
	CaregiverEmail string
	LegacyEmail    string // legacy invitee_email field on older records
	CaregiverID    string // set on acceptance
	Role           Role
	Status         Status
	Message        string
	CreatedAt      time.Time
	ExpiresAt      time.Time
	AcceptedAt     *time.Time
}

// RecipientEmail returns the invited caregiver's email, falling back to the
// legacy field for records written before the rename. All reads of the
// invite email must go through here.
func (i *Invite) RecipientEmail() string {
	if i.CaregiverEmail != "" {
		return i.CaregiverEmail
	}
	return i.LegacyEmail
}

// Expired reports whether the invite's deadline has passed at the given time.
func (i *Invite) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// Clone returns a deep copy of the invite.
func (i *Invite) Clone() *Invite {
	c := *i
	if i.AcceptedAt != nil {
		t := *i.AcceptedAt
		c.AcceptedAt = &t
	}
	return &c
}

// NormalizeEmail lowercases and trims an email address for comparison and
// storage. Matching is always done on normalized values.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SameEmail reports whether two addresses are equal after normalization.
func SameEmail(a, b string) bool {
	return NormalizeEmail(a) == NormalizeEmail(b) && NormalizeEmail(a) != ""
}

// SanitizeMessage reduces a user-supplied message to plain text: control
// characters are dropped, runs of whitespace collapse to a single space, and
// the result is capped at MaxMessageLength runes.
func SanitizeMessage(message string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range message {
		if unicode.IsControl(r) {
			continue
		}
		if unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteRune(' ')
			}
			lastSpace = true
			continue
		}
		lastSpace = false
		b.WriteRune(r)
	}

	out := strings.TrimSpace(b.String())
	runes := []rune(out)
	if len(runes) > MaxMessageLength {
		out = string(runes[:MaxMessageLength])
	}
	return out
}
