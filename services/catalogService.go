package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/unnastore/unna-api/apperrors"
	"github.com/unnastore/unna-api/models"
	"github.com/unnastore/unna-api/repositories"
	"github.com/unnastore/unna-api/utils"
)

type CategoryInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive"`
	SortOrder   int    `json:"sortOrder"`
}

type CategoryService struct {
	categories repositories.CategoryRepository
}

func NewCategoryService(categories repositories.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) Create(ctx context.Context, input *CategoryInput) (*models.Category, error) {
	slug := utils.Slugify(input.Name)
	existing, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		return nil, apperrors.Internal("failed to check category slug", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("a category with this name already exists")
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	category := &models.Category{
		Slug:        slug,
		Name:        input.Name,
		Description: input.Description,
		IsActive:    active,
		SortOrder:   input.SortOrder,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.Internal("failed to create category", err)
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, input *CategoryInput) (*models.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("failed to load category", err)
	}
	if category == nil {
		return nil, apperrors.NotFound("category not found")
	}

	category.Name = input.Name
	category.Slug = utils.Slugify(input.Name)
	category.Description = input.Description
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	category.SortOrder = input.SortOrder

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, apperrors.Internal("failed to update category", err)
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return apperrors.Internal("failed to load category", err)
	}
	if category == nil {
		return apperrors.NotFound("category not found")
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return apperrors.Internal("failed to delete category", err)
	}
	return nil
}

func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		return nil, apperrors.Internal("failed to load category", err)
	}
	if category == nil {
		return nil, apperrors.NotFound("category not found")
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	categories, err := s.categories.List(ctx, activeOnly)
	if err != nil {
		return nil, apperrors.Internal("failed to list categories", err)
	}
	return categories, nil
}

type ProductInput struct {
	CategoryID  uint             `json:"categoryId" binding:"required"`
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price" binding:"required"`
	OldPrice    *decimal.Decimal `json:"oldPrice"`
	SKU         string           `json:"sku"`
	IsFeatured  bool             `json:"isFeatured"`
}

type VariantInput struct {
	Size  string           `json:"size" binding:"required"`
	Color string           `json:"color" binding:"required"`
	SKU   string           `json:"sku"`
	Stock int              `json:"stock"`
	Price *decimal.Decimal `json:"price"`
}

type ProductService struct {
	products   repositories.ProductRepository
	categories repositories.CategoryRepository
}

func NewProductService(products repositories.ProductRepository, categories repositories.CategoryRepository) *ProductService {
	return &ProductService{products: products, categories: categories}
}

func (s *ProductService) Create(ctx context.Context, input *ProductInput) (*models.Product, error) {
	if input.Price.IsNegative() || input.Price.IsZero() {
		return nil, apperrors.Validation("price must be positive", nil)
	}

	category, err := s.categories.FindByID(ctx, input.CategoryID)
	if err != nil {
		return nil, apperrors.Internal("failed to load category", err)
	}
	if category == nil {
		return nil, apperrors.NotFound("category not found")
	}

	slug := utils.Slugify(input.Name)
	existing, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		return nil, apperrors.Internal("failed to check product slug", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("a product with this name already exists")
	}

	product := &models.Product{
		CategoryID:  input.CategoryID,
		Slug:        slug,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		OldPrice:    input.OldPrice,
		SKU:         input.SKU,
		Status:      models.ProductActive,
		IsFeatured:  input.IsFeatured,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, apperrors.Internal("failed to create product", err)
	}
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id uint, input *ProductInput) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("failed to load product", err)
	}
	if product == nil {
		return nil, apperrors.NotFound("product not found")
	}

	product.CategoryID = input.CategoryID
	product.Name = input.Name
	product.Slug = utils.Slugify(input.Name)
	product.Description = input.Description
	product.Price = input.Price
	product.OldPrice = input.OldPrice
	product.SKU = input.SKU
	product.IsFeatured = input.IsFeatured

	if err := s.products.Update(ctx, product); err != nil {
		return nil, apperrors.Internal("failed to update product", err)
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id uint) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return apperrors.Internal("failed to load product", err)
	}
	if product == nil {
		return apperrors.NotFound("product not found")
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return apperrors.Internal("failed to delete product", err)
	}
	return nil
}

func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	product, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		return nil, apperrors.Internal("failed to load product", err)
	}
	if product == nil {
		return nil, apperrors.NotFound("product not found")
	}
	return product, nil
}

func (s *ProductService) List(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, int64, error) {
	products, count, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list products", err)
	}
	return products, count, nil
}

func (s *ProductService) ListVariants(ctx context.Context, productID uint) ([]models.ProductVariant, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, apperrors.Internal("failed to load product", err)
	}
	if product == nil {
		return nil, apperrors.NotFound("product not found")
	}
	variants, err := s.products.FindVariants(ctx, productID)
	if err != nil {
		return nil, apperrors.Internal("failed to load product variants", err)
	}
	return variants, nil
}

func (s *ProductService) AddVariant(ctx context.Context, productID uint, input *VariantInput) (*models.ProductVariant, error) {
	if input.Stock < 0 {
		return nil, apperrors.Validation("stock must not be negative", nil)
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, apperrors.Internal("failed to load product", err)
	}
	if product == nil {
		return nil, apperrors.NotFound("product not found")
	}

	variant := &models.ProductVariant{
		ProductID: productID,
		Size:      input.Size,
		Color:     input.Color,
		SKU:       input.SKU,
		Stock:     input.Stock,
		Price:     input.Price,
	}
	if err := s.products.CreateVariant(ctx, variant); err != nil {
		return nil, apperrors.Internal("failed to create product variant", err)
	}
	return variant, nil
}

func (s *ProductService) AddImage(ctx context.Context, productID uint, url string, isMain bool) (*models.ProductImage, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, apperrors.Internal("failed to load product", err)
	}
	if product == nil {
		return nil, apperrors.NotFound("product not found")
	}

	image := &models.ProductImage{ProductID: productID, ImageURL: url, IsMain: isMain}
	if err := s.products.AddImage(ctx, image); err != nil {
		return nil, apperrors.Internal("failed to save product image", err)
	}
	return image, nil
}

type StoreInput struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	Phone        string `json:"phone"`
	Street       string `json:"street" binding:"required"`
	Number       string `json:"number" binding:"required"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood" binding:"required"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state" binding:"required"`
	ZipCode      string `json:"zipCode" binding:"required"`
	Country      string `json:"country"`
	IsActive     *bool  `json:"isActive"`
}

type StoreService struct {
	stores repositories.StoreRepository
}

func NewStoreService(stores repositories.StoreRepository) *StoreService {
	return &StoreService{stores: stores}
}

func (s *StoreService) Create(ctx context.Context, input *StoreInput) (*models.Store, error) {
	slug := utils.Slugify(input.Name)
	existing, err := s.stores.FindBySlug(ctx, slug)
	if err != nil {
		return nil, apperrors.Internal("failed to check store slug", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("a store with this name already exists")
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	country := input.Country
	if country == "" {
		country = "Brasil"
	}
	store := &models.Store{
		Name:         input.Name,
		Slug:         slug,
		Description:  input.Description,
		Phone:        input.Phone,
		Street:       input.Street,
		Number:       input.Number,
		Complement:   input.Complement,
		Neighborhood: input.Neighborhood,
		City:         input.City,
		State:        input.State,
		ZipCode:      input.ZipCode,
		Country:      country,
		IsActive:     active,
	}
	if err := s.stores.Create(ctx, store); err != nil {
		return nil, apperrors.Internal("failed to create store", err)
	}
	return store, nil
}

func (s *StoreService) Update(ctx context.Context, id uint, input *StoreInput) (*models.Store, error) {
	store, err := s.stores.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("failed to load store", err)
	}
	if store == nil {
		return nil, apperrors.NotFound("store not found")
	}

	store.Name = input.Name
	store.Slug = utils.Slugify(input.Name)
	store.Description = input.Description
	store.Phone = input.Phone
	store.Street = input.Street
	store.Number = input.Number
	store.Complement = input.Complement
	store.Neighborhood = input.Neighborhood
	store.City = input.City
	store.State = input.State
	store.ZipCode = input.ZipCode
	if input.Country != "" {
		store.Country = input.Country
	}
	if input.IsActive != nil {
		store.IsActive = *input.IsActive
	}

	if err := s.stores.Update(ctx, store); err != nil {
		return nil, apperrors.Internal("failed to update store", err)
	}
	return store, nil
}

func (s *StoreService) Delete(ctx context.Context, id uint) error {
	store, err := s.stores.FindByID(ctx, id)
	if err != nil {
		return apperrors.Internal("failed to load store", err)
	}
	if store == nil {
		return apperrors.NotFound("store not found")
	}
	if err := s.stores.Delete(ctx, id); err != nil {
		return apperrors.Internal("failed to delete store", err)
	}
	return nil
}

func (s *StoreService) GetBySlug(ctx context.Context, slug string) (*models.Store, error) {
	store, err := s.stores.FindBySlug(ctx, slug)
	if err != nil {
		return nil, apperrors.Internal("failed to load store", err)
	}
	if store == nil {
		return nil, apperrors.NotFound("store not found")
	}
	return store, nil
}

func (s *StoreService) List(ctx context.Context, activeOnly bool) ([]models.Store, error) {
	stores, err := s.stores.List(ctx, activeOnly)
	if err != nil {
		return nil, apperrors.Internal("failed to list stores", err)
	}
	return stores, nil
}
