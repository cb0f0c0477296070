package model

// ItemID identifies a catalog item
type ItemID int

// Category groups catalog items for browsing
type Category string

const (
	CategoryWeapons   Category = "weapons"
	CategoryResources Category = "resources"
	CategoryVIP       Category = "vip"
)

// Valid returns true if the category is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CategoryWeapons, CategoryResources, CategoryVIP:
		return true
	}
	return false
}

// CatalogItem is an immutable purchasable product
type CatalogItem struct {
	ID          ItemID
	Name        string
	Description string
	Price       int // smallest currency unit, always positive
	Image       string
	Category    Category
	Icon        string
}
