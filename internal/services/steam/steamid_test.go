package steam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSteam64(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"steam64 passthrough", "76561198007179169", "76561198007179169", false},
		{"steam64 with whitespace", "  76561198007179169 ", "76561198007179169", false},
		{"legacy id", "STEAM_0:1:123456789", "76561198207179307", false},
		{"legacy id universe 1", "STEAM_1:0:11101", "76561197960287930", false},
		{"steam3 id", "[U:1:22202]", "76561197960287930", false},
		{"legacy id missing part", "STEAM_0:1", "", true},
		{"legacy id non-numeric", "STEAM_0:a:1", "", true},
		{"legacy id bad universe", "STEAM_x:0:1", "", true},
		{"steam3 non-numeric", "[U:1:abc]", "", true},
		{"short numeric", "7656119800717916", "", true},
		{"empty", "", "", true},
		{"garbage", "hello", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToSteam64(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSteamID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
