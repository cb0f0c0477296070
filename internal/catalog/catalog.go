// Package catalog holds the static, immutable list of purchasable items.
package catalog

import (
	"github.com/mcoot/rustdonate/internal/model"
)

const imageBase = "https://cdn.poehali.dev/projects/cb3e8f6c-1b8e-4556-97a9-bb095068a3e1/files/"

var (
	weaponsImage   = imageBase + "abfdffaa-9ce7-4358-b301-f60d3fc611b1.jpg"
	resourcesImage = imageBase + "51190b65-e7a8-48a6-b971-1b269930824e.jpg"
	vipImage       = imageBase + "d658e3d1-2986-4b35-a763-f492a0c9f018.jpg"
)

var defaultItems = []model.CatalogItem{
	{ID: 1, Name: "AK-47", Description: "Kalashnikov assault rifle. A reliable weapon for survival.", Price: 250, Image: weaponsImage, Category: model.CategoryWeapons, Icon: "Swords"},
	{ID: 2, Name: "M4A1", Description: "High precision assault rifle.", Price: 300, Image: weaponsImage, Category: model.CategoryWeapons, Icon: "Swords"},
	{ID: 3, Name: "Resource pack (5000)", Description: "5000 units of wood, stone and metal.", Price: 150, Image: resourcesImage, Category: model.CategoryResources, Icon: "Package"},
	{ID: 4, Name: "Resource pack (10000)", Description: "10000 units of wood, stone and metal.", Price: 280, Image: resourcesImage, Category: model.CategoryResources, Icon: "Package"},
	{ID: 5, Name: "VIP Bronze (30 days)", Description: "Basic perks: +10% resource gathering.", Price: 199, Image: vipImage, Category: model.CategoryVIP, Icon: "Award"},
	{ID: 6, Name: "VIP Silver (30 days)", Description: "Extended perks: +25% gathering, weapon kit.", Price: 399, Image: vipImage, Category: model.CategoryVIP, Icon: "Award"},
	{ID: 7, Name: "VIP Gold (30 days)", Description: "Maximum perks: +50% gathering, exclusive skins.", Price: 799, Image: vipImage, Category: model.CategoryVIP, Icon: "Award"},
}

// Catalog is an ordered, read-only set of items.
// It is safe for concurrent use because it is never mutated after construction.
type Catalog struct {
	items []model.CatalogItem
	byID  map[model.ItemID]int
}

// New creates a catalog from the given items. The slice is copied.
func New(items []model.CatalogItem) *Catalog {
	c := &Catalog{
		items: make([]model.CatalogItem, len(items)),
		byID:  make(map[model.ItemID]int, len(items)),
	}
	copy(c.items, items)
	for i, item := range c.items {
		c.byID[item.ID] = i
	}
	return c
}

// Default returns the storefront's built-in catalog
func Default() *Catalog {
	return New(defaultItems)
}

// All returns every item in display order
func (c *Catalog) All() []model.CatalogItem {
	result := make([]model.CatalogItem, len(c.items))
	copy(result, c.items)
	return result
}

// ByCategory returns the items of one category in display order
func (c *Catalog) ByCategory(category model.Category) []model.CatalogItem {
	var result []model.CatalogItem
	for _, item := range c.items {
		if item.Category == category {
			result = append(result, item)
		}
	}
	return result
}

// Get returns a copy of the item with the given ID
func (c *Catalog) Get(id model.ItemID) (model.CatalogItem, error) {
	i, ok := c.byID[id]
	if !ok {
		return model.CatalogItem{}, model.ErrItemNotFound
	}
	return c.items[i], nil
}

// Categories returns the categories present in the catalog, in first-seen order
func (c *Catalog) Categories() []model.Category {
	seen := make(map[model.Category]bool)
	var result []model.Category
	for _, item := range c.items {
		if !seen[item.Category] {
			seen[item.Category] = true
			result = append(result, item.Category)
		}
	}
	return result
}
