package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unnastore/unna-api/apperrors"
	"github.com/unnastore/unna-api/models"
)

func newCartServiceFixture() (*CartService, *fakeCartRepo, *fakeProductRepo) {
	carts := newFakeCartRepo()
	products := newFakeProductRepo()
	return NewCartService(carts, products), carts, products
}

func seedCartCatalog(products *fakeProductRepo) {
	shirt := models.Product{Name: "Camiseta", Slug: "camiseta", Price: decimal.NewFromFloat(49.90)}
	shirt.ID = 1
	variant := models.ProductVariant{
		ProductID: 1, Size: "M", Color: "Preto", Stock: 3,
		Price: decimalPtr(decimal.NewFromFloat(59.90)),
	}
	variant.ID = 11
	products.addProduct(shirt, variant)
}

func TestGetCartCreatesActiveCartOnDemand(t *testing.T) {
	service, carts, _ := newCartServiceFixture()

	view, err := service.GetCart(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, models.CartActive, view.Cart.Status)
	assert.Empty(t, view.Items)

	again, err := service.GetCart(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, view.Cart.ID, again.Cart.ID, "repeat calls reuse the same active cart")
	assert.Len(t, carts.carts, 1)
}

func TestAddItemUsesVariantPriceOverride(t *testing.T) {
	service, _, products := newCartServiceFixture()
	seedCartCatalog(products)

	variantID := uint(11)
	item, err := service.AddItem(context.Background(), 7, &AddCartItemInput{
		ProductID:        1,
		ProductVariantID: &variantID,
		Quantity:         2,
	})
	require.NoError(t, err)
	assert.True(t, item.UnitPrice.Equal(decimal.NewFromFloat(59.90)))
	assert.Equal(t, 2, item.Quantity)
}

func TestAddItemWithoutVariantUsesProductPrice(t *testing.T) {
	service, _, products := newCartServiceFixture()
	seedCartCatalog(products)

	item, err := service.AddItem(context.Background(), 7, &AddCartItemInput{
		ProductID: 1,
		Quantity:  1,
	})
	require.NoError(t, err)
	assert.True(t, item.UnitPrice.Equal(decimal.NewFromFloat(49.90)))
}

func TestAddItemRejectsInsufficientStock(t *testing.T) {
	service, _, products := newCartServiceFixture()
	seedCartCatalog(products)

	variantID := uint(11)
	_, err := service.AddItem(context.Background(), 7, &AddCartItemInput{
		ProductID:        1,
		ProductVariantID: &variantID,
		Quantity:         4,
	})
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestAddItemUnknownProduct(t *testing.T) {
	service, _, _ := newCartServiceFixture()

	_, err := service.AddItem(context.Background(), 7, &AddCartItemInput{ProductID: 99, Quantity: 1})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestAddItemUnknownVariant(t *testing.T) {
	service, _, products := newCartServiceFixture()
	seedCartCatalog(products)

	variantID := uint(404)
	_, err := service.AddItem(context.Background(), 7, &AddCartItemInput{
		ProductID:        1,
		ProductVariantID: &variantID,
		Quantity:         1,
	})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestUpdateItemRechecksStock(t *testing.T) {
	service, _, products := newCartServiceFixture()
	seedCartCatalog(products)

	variantID := uint(11)
	item, err := service.AddItem(context.Background(), 7, &AddCartItemInput{
		ProductID:        1,
		ProductVariantID: &variantID,
		Quantity:         1,
	})
	require.NoError(t, err)

	err = service.UpdateItem(context.Background(), 7, item.ID, &UpdateCartItemInput{Quantity: 10})
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	require.NoError(t, service.UpdateItem(context.Background(), 7, item.ID, &UpdateCartItemInput{Quantity: 3}))

	view, err := service.GetCart(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)
}

func TestUpdateItemNotInOwnCart(t *testing.T) {
	service, _, products := newCartServiceFixture()
	seedCartCatalog(products)

	item, err := service.AddItem(context.Background(), 7, &AddCartItemInput{ProductID: 1, Quantity: 1})
	require.NoError(t, err)

	// Another user cannot touch it.
	err = service.UpdateItem(context.Background(), 8, item.ID, &UpdateCartItemInput{Quantity: 2})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestRemoveItem(t *testing.T) {
	service, _, products := newCartServiceFixture()
	seedCartCatalog(products)

	item, err := service.AddItem(context.Background(), 7, &AddCartItemInput{ProductID: 1, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, service.RemoveItem(context.Background(), 7, item.ID))

	view, err := service.GetCart(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	err = service.RemoveItem(context.Background(), 7, item.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
