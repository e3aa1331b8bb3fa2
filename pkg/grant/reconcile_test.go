package grant

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name           string
		caregiverID    string
		caregiverEmail string
		actingUserID   string
		actingEmail    string
		want           Decision
	}{
		{
			name:           "id_match_allows_without_migration",
			caregiverID:    "c9",
			caregiverEmail: "case@ex.com",
			actingUserID:   "c9",
			actingEmail:    "other@ex.com",
			want:           Decision{Allow: true},
		},
		{
			name:           "email_match_allows_with_migration",
			caregiverID:    "c9",
			caregiverEmail: "case@ex.com",
			actingUserID:   "c5",
			actingEmail:    "Case@Ex.com",
			want:           Decision{Allow: true, Migrate: true},
		},
		{
			name:           "no_match_denied",
			caregiverID:    "c9",
			caregiverEmail: "case@ex.com",
			actingUserID:   "c5",
			actingEmail:    "stranger@ex.com",
			want:           Decision{},
		},
		{
			name:           "empty_actor_denied",
			caregiverID:    "c9",
			caregiverEmail: "case@ex.com",
			actingUserID:   "",
			actingEmail:    "case@ex.com",
			want:           Decision{},
		},
		{
			name:         "empty_emails_never_match",
			caregiverID:  "c9",
			actingUserID: "c5",
			want:         Decision{},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			share := &Share{
				OwnerID:        "p1",
				CaregiverID:    test.caregiverID,
				CaregiverEmail: test.caregiverEmail,
			}
			require.Equal(t, test.want, Reconcile(share, test.actingUserID, test.actingEmail))
		})
	}
}
