package grant

// Decision is the outcome of reconciling an acting identity against the
// identity recorded on a share.
type Decision struct {
	// Allow is true when the actor may take the grant.
	Allow bool

	// Migrate is true when taking the grant requires relocating the record
	// to a new key because the actor's user id differs from the recorded one.
	Migrate bool
}

// Reconcile decides whether actingUserID may take ownership of a share that
// may have been addressed to a different user id. A direct id match allows
// without migration. An id mismatch with a matching (normalized) email is the
// recovery path for recreated accounts and re-sent invites, and requires a
// key migration. Anything else is denied.
func Reconcile(share *Share, actingUserID, actingEmail string) Decision {
	if actingUserID == "" {
		return Decision{}
	}

	if share.CaregiverID == actingUserID {
		return Decision{Allow: true}
	}

	if SameEmail(actingEmail, share.CaregiverEmail) {
		return Decision{Allow: true, Migrate: true}
	}

	return Decision{}
}
