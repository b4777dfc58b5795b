package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/unnastore/unna-api/models"
)

type CartRepository interface {
	FindActiveByUser(ctx context.Context, userID uint) (*models.Cart, error)
	Create(ctx context.Context, userID uint) (*models.Cart, error)
	FindItems(ctx context.Context, cartID uint) ([]models.CartItem, error)
	AddItem(ctx context.Context, item *models.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) error
	RemoveItem(ctx context.Context, itemID uint) error
	MarkConverted(ctx context.Context, cartID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) FindActiveByUser(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.CartActive).
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) Create(ctx context.Context, userID uint) (*models.Cart, error) {
	cart := models.Cart{UserID: userID, Status: models.CartActive}
	if err := r.db.WithContext(ctx).Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) FindItems(ctx context.Context, cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *cartRepository) AddItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *cartRepository) UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

func (r *cartRepository) RemoveItem(ctx context.Context, itemID uint) error {
	return r.db.WithContext(ctx).Delete(&models.CartItem{}, itemID).Error
}

func (r *cartRepository) MarkConverted(ctx context.Context, cartID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		Update("status", models.CartConverted).Error
}
