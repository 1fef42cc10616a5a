package services_test

import (
	"testing"

	"permata/internal/models"
	"permata/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestCartService_AddSameProductAndSizeIncrementsQuantity(t *testing.T) {
	cart := services.NewCartService()

	item := models.CartItem{ProductID: "ring-1", Name: "Gold Ring", Price: 100, Size: "7"}
	cart.Add("user-1", item)
	cart.Add("user-1", item)

	items := cart.Items("user-1")
	assert.Len(t, items, 1)
	assert.Equal(t, "ring-1-7", items[0].Key)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCartService_SameProductDifferentSizesAreSeparateLines(t *testing.T) {
	cart := services.NewCartService()

	cart.Add("user-1", models.CartItem{ProductID: "ring-1", Price: 100, Size: "6"})
	cart.Add("user-1", models.CartItem{ProductID: "ring-1", Price: 100, Size: "8"})
	cart.Add("user-1", models.CartItem{ProductID: "chain-2", Price: 50})

	items := cart.Items("user-1")
	assert.Len(t, items, 3)
	assert.Equal(t, 3, cart.Count("user-1"))
}

func TestCartService_AddWithExplicitQuantity(t *testing.T) {
	cart := services.NewCartService()

	cart.Add("user-1", models.CartItem{ProductID: "ring-1", Price: 100, Quantity: 3})
	cart.Add("user-1", models.CartItem{ProductID: "ring-1", Price: 100, Quantity: 2})

	items := cart.Items("user-1")
	assert.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestCartService_UpdateQuantityZeroRemovesItem(t *testing.T) {
	cart := services.NewCartService()

	cart.Add("user-1", models.CartItem{ProductID: "ring-1", Price: 100})
	cart.UpdateQuantity("user-1", "ring-1", 0)

	assert.Empty(t, cart.Items("user-1"))

	// Same outcome as an explicit remove.
	cart.Add("user-1", models.CartItem{ProductID: "ring-1", Price: 100})
	cart.Remove("user-1", "ring-1")
	assert.Empty(t, cart.Items("user-1"))
}

func TestCartService_UpdateQuantitySetsExactValue(t *testing.T) {
	cart := services.NewCartService()

	cart.Add("user-1", models.CartItem{ProductID: "ring-1", Price: 100, Quantity: 2})
	cart.UpdateQuantity("user-1", "ring-1", 7)

	item, ok := cart.Get("user-1", "ring-1")
	assert.True(t, ok)
	assert.Equal(t, 7, item.Quantity)
}

func TestCartService_RemoveAbsentKeyIsNoop(t *testing.T) {
	cart := services.NewCartService()

	cart.Add("user-1", models.CartItem{ProductID: "ring-1", Price: 100})
	cart.Remove("user-1", "does-not-exist")

	assert.Len(t, cart.Items("user-1"), 1)
}

func TestCartService_SubsetTotal(t *testing.T) {
	cart := services.NewCartService()

	cart.Add("user-1", models.CartItem{ProductID: "a", Price: 100, Quantity: 2})
	cart.Add("user-1", models.CartItem{ProductID: "b", Price: 50, Quantity: 1})

	// Selecting only "a" totals 200, not 250.
	assert.Equal(t, 200.0, cart.Total("user-1", []string{"a"}))
	assert.Equal(t, 250.0, cart.Total("user-1", nil))
	assert.Equal(t, 0.0, cart.Total("user-1", []string{}))

	// Keys not present in the cart are ignored.
	assert.Equal(t, 50.0, cart.Total("user-1", []string{"b", "missing"}))
}

func TestCartService_ClearEmptiesCart(t *testing.T) {
	cart := services.NewCartService()

	cart.Add("user-1", models.CartItem{ProductID: "a", Price: 100})
	cart.Add("user-1", models.CartItem{ProductID: "b", Price: 50})
	cart.Clear("user-1")

	assert.Empty(t, cart.Items("user-1"))
	assert.Equal(t, 0, cart.Count("user-1"))
}

func TestCartService_SessionsAreIsolated(t *testing.T) {
	cart := services.NewCartService()

	cart.Add("user-1", models.CartItem{ProductID: "a", Price: 100})
	cart.Add("user-2", models.CartItem{ProductID: "b", Price: 50})

	assert.Len(t, cart.Items("user-1"), 1)
	assert.Len(t, cart.Items("user-2"), 1)
	assert.Equal(t, "a", cart.Items("user-1")[0].ProductID)
}
