package services

import (
	"context"
	"fmt"

	"github.com/unnastore/unna-api/apperrors"
	"github.com/unnastore/unna-api/models"
	"github.com/unnastore/unna-api/repositories"
)

type AddCartItemInput struct {
	ProductID        uint  `json:"productId" binding:"required"`
	ProductVariantID *uint `json:"productVariantId"`
	Quantity         int   `json:"quantity" binding:"required"`
}

type UpdateCartItemInput struct {
	Quantity int `json:"quantity" binding:"required"`
}

type CartView struct {
	Cart  models.Cart       `json:"cart"`
	Items []models.CartItem `json:"items"`
}

// CartService manages the per-user ACTIVE cart, the staging area an order is
// later created from.
type CartService struct {
	carts    repositories.CartRepository
	products repositories.ProductRepository
}

func NewCartService(carts repositories.CartRepository, products repositories.ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

func (s *CartService) getOrCreate(ctx context.Context, userID uint) (*models.Cart, error) {
	cart, err := s.carts.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to load cart", err)
	}
	if cart != nil {
		return cart, nil
	}
	cart, err = s.carts.Create(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to create cart", err)
	}
	return cart, nil
}

func (s *CartService) GetCart(ctx context.Context, userID uint) (*CartView, error) {
	cart, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.carts.FindItems(ctx, cart.ID)
	if err != nil {
		return nil, apperrors.Internal("failed to load cart items", err)
	}
	return &CartView{Cart: *cart, Items: items}, nil
}

// AddItem stages a product (or one of its variants) in the active cart. The
// variant's stock is checked here as a courtesy to the shopper; the
// authoritative decrement happens only at confirmed payment.
func (s *CartService) AddItem(ctx context.Context, userID uint, input *AddCartItemInput) (*models.CartItem, error) {
	if input.Quantity < 1 {
		return nil, apperrors.Validation("quantity must be at least 1", nil)
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, apperrors.Internal("failed to load product", err)
	}
	if product == nil {
		return nil, apperrors.NotFound("product not found")
	}

	price := product.Price
	if input.ProductVariantID != nil {
		variants, err := s.products.FindVariants(ctx, product.ID)
		if err != nil {
			return nil, apperrors.Internal("failed to load product variants", err)
		}
		var variant *models.ProductVariant
		for i := range variants {
			if variants[i].ID == *input.ProductVariantID {
				variant = &variants[i]
				break
			}
		}
		if variant == nil {
			return nil, apperrors.NotFound("product variant not found")
		}
		if variant.Stock < input.Quantity {
			return nil, apperrors.Conflict(
				fmt.Sprintf("insufficient stock: only %d items available", variant.Stock))
		}
		if variant.Price != nil {
			price = *variant.Price
		}
	}

	cart, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := &models.CartItem{
		CartID:           cart.ID,
		ProductID:        input.ProductID,
		ProductVariantID: input.ProductVariantID,
		Quantity:         input.Quantity,
		UnitPrice:        price,
	}
	if err := s.carts.AddItem(ctx, item); err != nil {
		return nil, apperrors.Internal("failed to add cart item", err)
	}
	return item, nil
}

func (s *CartService) UpdateItem(ctx context.Context, userID, itemID uint, input *UpdateCartItemInput) error {
	if input.Quantity < 1 {
		return apperrors.Validation("quantity must be at least 1", nil)
	}

	target, err := s.findOwnedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}

	if target.ProductVariantID != nil {
		variants, err := s.products.FindVariants(ctx, target.ProductID)
		if err != nil {
			return apperrors.Internal("failed to load product variants", err)
		}
		for i := range variants {
			if variants[i].ID == *target.ProductVariantID && variants[i].Stock < input.Quantity {
				return apperrors.Conflict(
					fmt.Sprintf("insufficient stock: only %d items available", variants[i].Stock))
			}
		}
	}

	if err := s.carts.UpdateItemQuantity(ctx, itemID, input.Quantity); err != nil {
		return apperrors.Internal("failed to update cart item", err)
	}
	return nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uint) error {
	if _, err := s.findOwnedItem(ctx, userID, itemID); err != nil {
		return err
	}
	if err := s.carts.RemoveItem(ctx, itemID); err != nil {
		return apperrors.Internal("failed to remove cart item", err)
	}
	return nil
}

func (s *CartService) findOwnedItem(ctx context.Context, userID, itemID uint) (*models.CartItem, error) {
	cart, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.carts.FindItems(ctx, cart.ID)
	if err != nil {
		return nil, apperrors.Internal("failed to load cart items", err)
	}
	for i := range items {
		if items[i].ID == itemID {
			return &items[i], nil
		}
	}
	return nil, apperrors.NotFound("cart item not found")
}
