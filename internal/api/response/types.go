package response

import (
	"time"

	"github.com/mcoot/rustdonate/internal/model"
)

// Identity represents the logged in player in API responses
type Identity struct {
	SteamID     string `json:"steam_id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// IdentityFromModel converts a model.Identity
func IdentityFromModel(i *model.Identity) *Identity {
	if i == nil {
		return nil
	}
	return &Identity{
		SteamID:     i.ExternalID,
		DisplayName: i.DisplayName,
		AvatarURL:   i.AvatarURL,
	}
}

// Session represents the session state
type Session struct {
	Status        string    `json:"status"`
	Authenticated bool      `json:"authenticated"`
	Identity      *Identity `json:"identity"`
}

// SessionFromModel converts a model.SessionState
func SessionFromModel(s model.SessionState) Session {
	return Session{
		Status:        string(s.Status),
		Authenticated: s.IsAuthenticated(),
		Identity:      IdentityFromModel(s.Identity),
	}
}

// CatalogItem represents a purchasable item
type CatalogItem struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Icon        string `json:"icon"`
}

// CatalogItemFromModel converts a model.CatalogItem
func CatalogItemFromModel(item model.CatalogItem) CatalogItem {
	return CatalogItem{
		ID:          int(item.ID),
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		Image:       item.Image,
		Category:    string(item.Category),
		Icon:        item.Icon,
	}
}

// Catalog is the response for the catalog listing
type Catalog struct {
	Items      []CatalogItem `json:"items"`
	Categories []string      `json:"categories"`
}

// Order represents an order in API responses
type Order struct {
	ID            int64      `json:"id"`
	Item          OrderItem  `json:"item"`
	SteamID       string     `json:"steam_id"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
}

// OrderItem is the item snapshot embedded in an order
type OrderItem struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// OrderFromModel converts a model.Order
func OrderFromModel(o model.Order) Order {
	order := Order{
		ID: int64(o.ID),
		Item: OrderItem{
			ID:    int(o.Item.ID),
			Name:  o.Item.Name,
			Price: o.Item.Price,
		},
		SteamID:       o.DeliveryTarget,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
		FailureReason: o.FailureReason,
	}
	if !o.ResolvedAt.IsZero() {
		resolved := o.ResolvedAt
		order.ResolvedAt = &resolved
	}
	return order
}

// OrdersFromModel converts a list of orders
func OrdersFromModel(orders []model.Order) []Order {
	result := make([]Order, len(orders))
	for i, o := range orders {
		result[i] = OrderFromModel(o)
	}
	return result
}

// OrderList is the response for listing orders
type OrderList struct {
	Orders []Order `json:"orders"`
}

// OrderSummary aggregates the ledger
type OrderSummary struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Delivered  int `json:"delivered"`
	Failed     int `json:"failed"`
	TotalSpent int `json:"total_spent"`
}

// OrderSummaryFromModel converts a model.OrderSummary
func OrderSummaryFromModel(s model.OrderSummary) OrderSummary {
	return OrderSummary(s)
}

// Profile is the response for the profile page
type Profile struct {
	Identity Identity     `json:"identity"`
	Summary  OrderSummary `json:"summary"`
	Orders   []Order      `json:"orders"`
}

// Health is the response for the health check
type Health struct {
	Status  string `json:"status"`
	Session string `json:"session"`
	Orders  int    `json:"orders"`
}
