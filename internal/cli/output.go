package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		o.println(string(data))
	} else {
		o.println(msg)
	}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) println(s string) {
	_, _ = fmt.Fprintln(o.w, s)
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Catalog:
		o.printCatalog(v)
	case CatalogItem:
		o.printCatalogItem(v)
	case Session:
		o.printSession(v)
	case Profile:
		o.printProfile(v)
	case Order:
		o.printOrder(v)
	case OrderList:
		o.printOrderList(v)
	case SteamProfile:
		o.printSteamProfile(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// CatalogItem response type (matches API)
type CatalogItem struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Icon        string `json:"icon"`
}

// Catalog response type
type Catalog struct {
	Items      []CatalogItem `json:"items"`
	Categories []string      `json:"categories"`
}

// Identity response type
type Identity struct {
	SteamID     string `json:"steam_id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// Session response type
type Session struct {
	Status        string    `json:"status"`
	Authenticated bool      `json:"authenticated"`
	Identity      *Identity `json:"identity"`
}

// OrderItem response type
type OrderItem struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// Order response type
type Order struct {
	ID            int64      `json:"id"`
	Item          OrderItem  `json:"item"`
	SteamID       string     `json:"steam_id"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
}

// OrderList response type
type OrderList struct {
	Orders []Order `json:"orders"`
}

// OrderSummary response type
type OrderSummary struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Delivered  int `json:"delivered"`
	Failed     int `json:"failed"`
	TotalSpent int `json:"total_spent"`
}

// Profile response type
type Profile struct {
	Identity Identity     `json:"identity"`
	Summary  OrderSummary `json:"summary"`
	Orders   []Order      `json:"orders"`
}

// SteamProfile response type
type SteamProfile struct {
	SteamID    string `json:"steamId"`
	SteamID64  string `json:"steamId64"`
	Username   string `json:"username"`
	Avatar     string `json:"avatar"`
	ProfileURL string `json:"profileUrl"`
	RealName   string `json:"realName"`
}

// HealthResult response type
type HealthResult struct {
	Status  string `json:"status"`
	Session string `json:"session"`
	Orders  int    `json:"orders"`
}

// formatPrice renders a price in the store's currency
func formatPrice(price int) string {
	return fmt.Sprintf("%d ₽", price)
}

func (o *Output) printCatalog(c Catalog) {
	if len(c.Items) == 0 {
		o.println("No items")
		return
	}
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE")
	for _, item := range c.Items {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", item.ID, item.Name, item.Category, formatPrice(item.Price))
	}
	_ = tw.Flush()
}

func (o *Output) printCatalogItem(item CatalogItem) {
	o.printf("Item: %s (%d)\n", item.Name, item.ID)
	o.printf("Category: %s\n", item.Category)
	o.printf("Price: %s\n", formatPrice(item.Price))
	o.printf("Description: %s\n", item.Description)
}

func (o *Output) printSession(s Session) {
	o.printf("Status: %s\n", s.Status)
	if s.Identity != nil {
		o.printf("Player: %s (%s)\n", s.Identity.DisplayName, s.Identity.SteamID)
	}
}

func (o *Output) printProfile(p Profile) {
	o.printf("Player: %s (%s)\n", p.Identity.DisplayName, p.Identity.SteamID)
	o.printf("Orders: %d total, %d pending, %d delivered, %d failed\n",
		p.Summary.Total, p.Summary.Pending, p.Summary.Delivered, p.Summary.Failed)
	o.printf("Total spent: %s\n", formatPrice(p.Summary.TotalSpent))
	if len(p.Orders) > 0 {
		o.println("\nRecent orders:")
		o.printOrderTable(p.Orders)
	}
}

func (o *Output) printOrder(order Order) {
	o.printf("Order: %d\n", order.ID)
	o.printf("Item: %s (%s)\n", order.Item.Name, formatPrice(order.Item.Price))
	o.printf("Steam ID: %s\n", order.SteamID)
	o.printf("Status: %s\n", order.Status)
	if order.FailureReason != "" {
		o.printf("Reason: %s\n", order.FailureReason)
	}
}

func (o *Output) printOrderList(l OrderList) {
	if len(l.Orders) == 0 {
		o.println("No orders")
		return
	}
	o.printOrderTable(l.Orders)
}

func (o *Output) printOrderTable(orders []Order) {
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tITEM\tPRICE\tSTEAM ID\tSTATUS")
	for _, order := range orders {
		status := order.Status
		if order.FailureReason != "" {
			status += ": " + order.FailureReason
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			order.ID, order.Item.Name, formatPrice(order.Item.Price), order.SteamID, status)
	}
	_ = tw.Flush()
}

func (o *Output) printSteamProfile(p SteamProfile) {
	o.printf("Username: %s\n", p.Username)
	o.printf("Steam ID: %s\n", p.SteamID)
	o.printf("Steam ID64: %s\n", p.SteamID64)
	if p.RealName != "" {
		o.printf("Real name: %s\n", p.RealName)
	}
	if p.ProfileURL != "" {
		o.printf("Profile: %s\n", p.ProfileURL)
	}
	if p.Avatar != "" {
		o.printf("Avatar: %s\n", p.Avatar)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	o.printf("Status: %s\n", h.Status)
	if h.Session != "" {
		o.printf("Session: %s\n", h.Session)
	}
	o.printf("Orders: %d\n", h.Orders)
}
