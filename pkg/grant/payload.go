package grant

import "time"

// SharePayload is the caller-facing shape of a Share. Timestamps cross the
// API boundary as RFC 3339 strings; internal time types are never exposed.
type SharePayload struct {
	ID             string `json:"id"`
	Key            string `json:"key"`
	OwnerID        string `json:"owner_id"`
	OwnerName      string `json:"owner_name,omitempty"`
	OwnerEmail     string `json:"owner_email"`
	CaregiverID    string `json:"caregiver_id,omitempty"`
	CaregiverEmail string `json:"caregiver_email"`
	Role           string `json:"role"`
	Status         string `json:"status"`
	Message        string `json:"message,omitempty"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
	AcceptedAt     string `json:"accepted_at,omitempty"`
}

// InvitePayload is the caller-facing shape of an Invite. The token is
// included: callers already addressed the record by it.
type InvitePayload struct {
	Token          string `json:"token"`
	ID             string `json:"id"`
	OwnerID        string `json:"owner_id"`
	OwnerName      string `json:"owner_name,omitempty"`
	OwnerEmail     string `json:"owner_email"`
	CaregiverEmail string `json:"caregiver_email"`
	CaregiverID    string `json:"caregiver_id,omitempty"`
	Role           string `json:"role"`
	Status         string `json:"status"`
	Message        string `json:"message,omitempty"`
	CreatedAt      string `json:"created_at"`
	ExpiresAt      string `json:"expires_at"`
	AcceptedAt     string `json:"accepted_at,omitempty"`
}

// AsPayload converts the share for the API boundary.
func (s *Share) AsPayload() *SharePayload {
	return &SharePayload{
		ID:             s.ID,
		Key:            s.Key(),
		OwnerID:        s.OwnerID,
		OwnerName:      s.OwnerName,
		OwnerEmail:     s.OwnerEmail,
		CaregiverID:    s.CaregiverID,
		CaregiverEmail: s.CaregiverEmail,
		Role:           string(s.Role),
		Status:         string(s.Status),
		Message:        s.Message,
		CreatedAt:      formatTime(s.CreatedAt),
		UpdatedAt:      formatTime(s.UpdatedAt),
		AcceptedAt:     formatTimePtr(s.AcceptedAt),
	}
}

// AsPayload converts the invite for the API boundary. The legacy email alias
// is folded into the canonical field.
func (i *Invite) AsPayload() *InvitePayload {
	return &InvitePayload{
		Token:          i.Token,
		ID:             i.ID,
		OwnerID:        i.OwnerID,
		OwnerName:      i.OwnerName,
		OwnerEmail:     i.OwnerEmail,
		CaregiverEmail: i.RecipientEmail(),
		CaregiverID:    i.CaregiverID,
		Role:           string(i.Role),
		Status:         string(i.Status),
		Message:        i.Message,
		CreatedAt:      formatTime(i.CreatedAt),
		ExpiresAt:      formatTime(i.ExpiresAt),
		AcceptedAt:     formatTimePtr(i.AcceptedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}
