package steam

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidSteamID is returned for identifiers in none of the supported formats
var ErrInvalidSteamID = errors.New("invalid steam id format")

// steam64Base is the SteamID64 of account 0 in the public universe
const steam64Base uint64 = 76561197960265728

// ToSteam64 converts a SteamID64, a legacy STEAM_X:Y:Z id or a [U:1:Z] id
// to its SteamID64 string form.
func ToSteam64(id string) (string, error) {
	id = strings.TrimSpace(id)

	if len(id) == 17 && isDigits(id) {
		return id, nil
	}

	if rest, ok := strings.CutPrefix(id, "STEAM_"); ok {
		parts := strings.Split(rest, ":")
		if len(parts) != 3 {
			return "", ErrInvalidSteamID
		}
		if _, err := strconv.ParseUint(parts[0], 10, 8); err != nil {
			return "", ErrInvalidSteamID
		}
		y, err := strconv.ParseUint(parts[1], 10, 32)
		if err != nil {
			return "", ErrInvalidSteamID
		}
		z, err := strconv.ParseUint(parts[2], 10, 32)
		if err != nil {
			return "", ErrInvalidSteamID
		}
		return strconv.FormatUint(steam64Base+z*2+y, 10), nil
	}

	if strings.HasPrefix(id, "[U:1:") && strings.HasSuffix(id, "]") {
		accountID, err := strconv.ParseUint(id[len("[U:1:"):len(id)-1], 10, 32)
		if err != nil {
			return "", ErrInvalidSteamID
		}
		return strconv.FormatUint(steam64Base+accountID, 10), nil
	}

	return "", ErrInvalidSteamID
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
