package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/unnastore/unna-api/models"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategoryID *uint
	Featured   *bool
	Search     string
	Page       int
	Limit      int
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)

	FindVariants(ctx context.Context, productID uint) ([]models.ProductVariant, error)
	CreateVariant(ctx context.Context, variant *models.ProductVariant) error

	// DecrementStock subtracts qty from the variant's stock in one UPDATE.
	// Stock may go negative: oversell between order creation and payment
	// confirmation is an accepted gap of the current policy.
	DecrementStock(ctx context.Context, variantID uint, qty int) error

	AddImage(ctx context.Context, image *models.ProductImage) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, id).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Preload("Images").Preload("Variants").First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images").Preload("Variants").
		Where("slug = ?", slug).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("status = ?", models.ProductActive)

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Featured != nil {
		query = query.Where("is_featured = ?", *filter.Featured)
	}
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 12
	}

	var products []models.Product
	err := query.Preload("Images").
		Limit(limit).
		Offset((page - 1) * limit).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

func (r *productRepository) FindVariants(ctx context.Context, productID uint) ([]models.ProductVariant, error) {
	var variants []models.ProductVariant
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Find(&variants).Error
	if err != nil {
		return nil, err
	}
	return variants, nil
}

func (r *productRepository) CreateVariant(ctx context.Context, variant *models.ProductVariant) error {
	return r.db.WithContext(ctx).Create(variant).Error
}

func (r *productRepository) DecrementStock(ctx context.Context, variantID uint, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Where("id = ?", variantID).
		Update("stock", gorm.Expr("stock - ?", qty)).Error
}

func (r *productRepository) AddImage(ctx context.Context, image *models.ProductImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}
