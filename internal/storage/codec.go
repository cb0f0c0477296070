package storage

import (
	"encoding/json"
	"fmt"

	"github.com/mcoot/rustdonate/internal/model"
)

// identityRecord is the serialized form of an Identity
type identityRecord struct {
	SteamID  string `json:"steamId"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// EncodeIdentity serializes an identity for the durable record
func EncodeIdentity(identity *model.Identity) ([]byte, error) {
	return json.Marshal(identityRecord{
		SteamID:  identity.ExternalID,
		Username: identity.DisplayName,
		Avatar:   identity.AvatarURL,
	})
}

// DecodeIdentity parses a durable record. A record without an external ID is malformed.
func DecodeIdentity(data []byte) (*model.Identity, error) {
	var rec identityRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrCorruptIdentityRecord, err)
	}
	if rec.SteamID == "" {
		return nil, fmt.Errorf("%w: missing steamId", model.ErrCorruptIdentityRecord)
	}
	return &model.Identity{
		ExternalID:  rec.SteamID,
		DisplayName: rec.Username,
		AvatarURL:   rec.Avatar,
	}, nil
}
