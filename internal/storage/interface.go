package storage

import (
	"context"

	"github.com/mcoot/rustdonate/internal/model"
)

// IdentityRecordKey is the fixed namespaced key the durable identity record lives under
const IdentityRecordKey = "rust_donate_user"

// Storage defines durable, device-local persistence for the session identity.
// There is at most one record; Save fully replaces it.
type Storage interface {
	// SaveIdentity writes the identity record, replacing any previous one
	SaveIdentity(ctx context.Context, identity *model.Identity) error
	// GetIdentity returns model.ErrIdentityNotFound when no record exists and
	// model.ErrCorruptIdentityRecord when the stored value cannot be decoded
	GetIdentity(ctx context.Context) (*model.Identity, error)
	// DeleteIdentity removes the record; deleting a missing record is not an error
	DeleteIdentity(ctx context.Context) error
}
