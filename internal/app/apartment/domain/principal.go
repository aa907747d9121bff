package domain

// Principal is the authenticated caller. UserID is recorded as the actor of every mutation.
type Principal struct {
	UserID      string
	IsSuperuser bool
}

// CanAccess reports whether the principal owns the apartment or is a superuser.
func (p Principal) CanAccess(a *Apartment) bool {
	return p.CanAccessOwner(a.OwnerID())
}

// CanAccessOwner is CanAccess for callers that only hold the owner id.
func (p Principal) CanAccessOwner(ownerID string) bool {
	return p.IsSuperuser || (p.UserID != "" && p.UserID == ownerID)
}

// Authorize returns ErrNotEnoughPermissions unless CanAccess holds.
func (p Principal) Authorize(a *Apartment) error {
	return p.AuthorizeOwner(a.OwnerID())
}

// AuthorizeOwner returns ErrNotEnoughPermissions unless CanAccessOwner holds.
func (p Principal) AuthorizeOwner(ownerID string) error {
	if !p.CanAccessOwner(ownerID) {
		return ErrNotEnoughPermissions
	}
	return nil
}
