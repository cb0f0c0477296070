package request

// LoginRequest is the request body for logging in with a Steam ID
type LoginRequest struct {
	SteamID string `json:"steam_id"`
}

// SubmitOrderRequest is the request body for buying an item.
// A missing item_id means no item was selected.
type SubmitOrderRequest struct {
	ItemID  *int   `json:"item_id"`
	SteamID string `json:"steam_id"`
}
