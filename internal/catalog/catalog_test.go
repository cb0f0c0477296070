package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/rustdonate/internal/model"
)

func TestDefaultCatalogHasSevenItems(t *testing.T) {
	items := Default().All()
	require.Len(t, items, 7)
	assert.Equal(t, "AK-47", items[0].Name)
	assert.Equal(t, 250, items[0].Price)
	for _, item := range items {
		assert.Positive(t, item.Price, item.Name)
		assert.True(t, item.Category.Valid(), item.Name)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	c := Default()
	items := c.All()
	items[0].Name = "changed"

	item, err := c.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "AK-47", item.Name)
}

func TestByCategory(t *testing.T) {
	c := Default()

	weapons := c.ByCategory(model.CategoryWeapons)
	require.Len(t, weapons, 2)
	assert.Equal(t, "M4A1", weapons[1].Name)

	assert.Len(t, c.ByCategory(model.CategoryResources), 2)
	assert.Len(t, c.ByCategory(model.CategoryVIP), 3)
	assert.Empty(t, c.ByCategory("armor"))
}

func TestGetUnknownItem(t *testing.T) {
	_, err := Default().Get(99)
	assert.ErrorIs(t, err, model.ErrItemNotFound)
}

func TestCategories(t *testing.T) {
	assert.Equal(t,
		[]model.Category{model.CategoryWeapons, model.CategoryResources, model.CategoryVIP},
		Default().Categories())
}

func TestNewCopiesInput(t *testing.T) {
	items := []model.CatalogItem{{ID: 10, Name: "Test", Price: 5, Category: model.CategoryVIP}}
	c := New(items)
	items[0].Name = "mutated"

	item, err := c.Get(10)
	require.NoError(t, err)
	assert.Equal(t, "Test", item.Name)
}
