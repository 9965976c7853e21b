package cart

import (
	"github.com/google/uuid"

	pkgerrors "github.com/brightcart/storefront-backend/pkg/errors"
)

// Owner identifies whose cart an operation targets. Exactly one of UserID and
// SessionID is set: authenticated requests carry the user id, guest requests
// carry the session id from the X-Session-Id header.
type Owner struct {
	UserID    *uuid.UUID
	SessionID *uuid.UUID
}

// UserOwner builds an Owner for an authenticated customer.
func UserOwner(userID uuid.UUID) Owner {
	return Owner{UserID: &userID}
}

// GuestOwner builds an Owner for a guest session.
func GuestOwner(sessionID uuid.UUID) Owner {
	return Owner{SessionID: &sessionID}
}

// Validate rejects owners that set both or neither identity.
func (o Owner) Validate() error {
	if (o.UserID == nil) == (o.SessionID == nil) {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart owner must be a user or a guest session")
	}
	return nil
}

// IsGuest reports whether the owner is a guest session.
func (o Owner) IsGuest() bool {
	return o.SessionID != nil
}
