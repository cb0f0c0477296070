package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/rustdonate/internal/model"
)

func TestEncodeDecodeIdentity(t *testing.T) {
	identity := &model.Identity{
		ExternalID:  "STEAM_0:1:123456789",
		DisplayName: "RustWarrior2024",
		AvatarURL:   "https://example.com/avatar.jpg",
	}

	data, err := EncodeIdentity(identity)
	require.NoError(t, err)
	assert.JSONEq(t, `{"steamId":"STEAM_0:1:123456789","username":"RustWarrior2024","avatar":"https://example.com/avatar.jpg"}`, string(data))

	decoded, err := DecodeIdentity(data)
	require.NoError(t, err)
	assert.Equal(t, identity, decoded)
}

func TestDecodeIdentityMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "not json"},
		{"empty", ""},
		{"wrong shape", `["a","b"]`},
		{"missing steam id", `{"username":"x","avatar":"y"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeIdentity([]byte(tt.data))
			assert.ErrorIs(t, err, model.ErrCorruptIdentityRecord)
		})
	}
}
