package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/unnastore/unna-api/gateway/mercadopago"
	"github.com/unnastore/unna-api/models"
	"github.com/unnastore/unna-api/repositories"
)

// In-memory repository fakes. They mirror the gorm implementations' contracts:
// (nil, nil) for not found, conditional updates report whether a row changed.

type fakeOrderRepo struct {
	mu       sync.Mutex
	nextID   uint
	orders   map[uint]*models.Order
	items    map[uint][]models.OrderItem
	shipping map[uint]*models.OrderShipping
	payments map[uint][]models.OrderPayment

	createErr     error
	transitionErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:   map[uint]*models.Order{},
		items:    map[uint][]models.OrderItem{},
		shipping: map[uint]*models.OrderShipping{},
		payments: map[uint][]models.OrderPayment{},
	}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *models.Order, items []models.OrderItem, shipping *models.OrderShipping, payment *models.OrderPayment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	order.ID = r.nextID
	copied := *order
	r.orders[order.ID] = &copied
	for i := range items {
		items[i].OrderID = order.ID
	}
	r.items[order.ID] = append([]models.OrderItem(nil), items...)
	if shipping != nil {
		shipping.OrderID = order.ID
		s := *shipping
		r.shipping[order.ID] = &s
	}
	if payment != nil {
		payment.OrderID = order.ID
		r.payments[order.ID] = append(r.payments[order.ID], *payment)
	}
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uint) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) FindByOrderNumber(_ context.Context, orderNumber string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range r.orders {
		if order.OrderNumber == orderNumber {
			copied := *order
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) FindByPaymentID(_ context.Context, paymentID string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range r.orders {
		if order.MercadoPagoPaymentID == paymentID {
			copied := *order
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) FindFullByNumber(ctx context.Context, orderNumber string) (*repositories.FullOrder, error) {
	order, err := r.FindByOrderNumber(ctx, orderNumber)
	if err != nil || order == nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	full := &repositories.FullOrder{Order: *order}
	full.Items = append([]models.OrderItem(nil), r.items[order.ID]...)
	if s, ok := r.shipping[order.ID]; ok {
		copied := *s
		full.Shipping = &copied
	}
	full.Payments = append([]models.OrderPayment(nil), r.payments[order.ID]...)
	return full, nil
}

func (r *fakeOrderRepo) ListAll(_ context.Context, status *models.OrderStatus) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, order := range r.orders {
		if status == nil || order.Status == *status {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListByUser(_ context.Context, userID uint) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, orderID uint, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return fmt.Errorf("order %d not found", orderID)
	}
	order.Status = status
	return nil
}

func (r *fakeOrderRepo) SetPreferenceID(_ context.Context, orderID uint, preferenceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return fmt.Errorf("order %d not found", orderID)
	}
	order.MercadoPagoPreferenceID = preferenceID
	return nil
}

func (r *fakeOrderRepo) TransitionPayment(_ context.Context, orderID uint, t repositories.PaymentTransition) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.transitionErr != nil {
		return false, r.transitionErr
	}
	order, ok := r.orders[orderID]
	if !ok {
		return false, nil
	}
	matched := false
	for _, from := range t.From {
		if order.PaymentStatus == from {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}
	order.PaymentStatus = t.PaymentStatus
	if t.Status != nil {
		order.Status = *t.Status
	}
	if t.PaymentID != "" {
		order.MercadoPagoPaymentID = t.PaymentID
	}
	return true, nil
}

func (r *fakeOrderRepo) AppendPayment(_ context.Context, payment *models.OrderPayment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments[payment.OrderID] = append(r.payments[payment.OrderID], *payment)
	return nil
}

func (r *fakeOrderRepo) order(id uint) models.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.orders[id]
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uint]*models.Product
	variants map[uint][]models.ProductVariant

	decrements map[uint]int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products:   map[uint]*models.Product{},
		variants:   map[uint][]models.ProductVariant{},
		decrements: map[uint]int{},
	}
}

func (r *fakeProductRepo) addProduct(p models.Product, variants ...models.ProductVariant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = &p
	r.variants[p.ID] = variants
}

func (r *fakeProductRepo) Create(_ context.Context, product *models.Product) error {
	r.addProduct(*product)
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *models.Product) error {
	r.addProduct(*product)
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uint) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	copied := *product
	return &copied, nil
}

func (r *fakeProductRepo) FindBySlug(_ context.Context, slug string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, product := range r.products {
		if product.Slug == slug {
			copied := *product
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) List(_ context.Context, _ repositories.ProductFilter) ([]models.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Product
	for _, product := range r.products {
		out = append(out, *product)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) FindVariants(_ context.Context, productID uint) ([]models.ProductVariant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.ProductVariant(nil), r.variants[productID]...), nil
}

func (r *fakeProductRepo) CreateVariant(_ context.Context, variant *models.ProductVariant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variants[variant.ProductID] = append(r.variants[variant.ProductID], *variant)
	return nil
}

func (r *fakeProductRepo) DecrementStock(_ context.Context, variantID uint, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decrements[variantID] += qty
	return nil
}

func (r *fakeProductRepo) AddImage(_ context.Context, _ *models.ProductImage) error {
	return nil
}

type fakeCartRepo struct {
	mu        sync.Mutex
	nextID    uint
	carts     map[uint]*models.Cart
	items     map[uint][]models.CartItem
	converted []uint
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[uint]*models.Cart{}, items: map[uint][]models.CartItem{}}
}

func (r *fakeCartRepo) addActiveCart(userID uint) *models.Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	cart := &models.Cart{UserID: userID, Status: models.CartActive}
	cart.ID = r.nextID
	r.carts[cart.ID] = cart
	return cart
}

func (r *fakeCartRepo) FindActiveByUser(_ context.Context, userID uint) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cart := range r.carts {
		if cart.UserID == userID && cart.Status == models.CartActive {
			copied := *cart
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeCartRepo) Create(_ context.Context, userID uint) (*models.Cart, error) {
	return r.addActiveCart(userID), nil
}

func (r *fakeCartRepo) FindItems(_ context.Context, cartID uint) ([]models.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.CartItem(nil), r.items[cartID]...), nil
}

func (r *fakeCartRepo) AddItem(_ context.Context, item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	item.ID = r.nextID
	r.items[item.CartID] = append(r.items[item.CartID], *item)
	return nil
}

func (r *fakeCartRepo) UpdateItemQuantity(_ context.Context, itemID uint, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for cartID := range r.items {
		for i := range r.items[cartID] {
			if r.items[cartID][i].ID == itemID {
				r.items[cartID][i].Quantity = quantity
				return nil
			}
		}
	}
	return fmt.Errorf("cart item %d not found", itemID)
}

func (r *fakeCartRepo) RemoveItem(_ context.Context, itemID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for cartID := range r.items {
		for i := range r.items[cartID] {
			if r.items[cartID][i].ID == itemID {
				r.items[cartID] = append(r.items[cartID][:i], r.items[cartID][i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (r *fakeCartRepo) MarkConverted(_ context.Context, cartID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cart, ok := r.carts[cartID]; ok {
		cart.Status = models.CartConverted
	}
	r.converted = append(r.converted, cartID)
	return nil
}

type fakeStoreRepo struct {
	stores map[uint]*models.Store
}

func newFakeStoreRepo() *fakeStoreRepo {
	return &fakeStoreRepo{stores: map[uint]*models.Store{}}
}

func (r *fakeStoreRepo) Create(_ context.Context, store *models.Store) error {
	r.stores[store.ID] = store
	return nil
}

func (r *fakeStoreRepo) Update(_ context.Context, store *models.Store) error {
	r.stores[store.ID] = store
	return nil
}

func (r *fakeStoreRepo) Delete(_ context.Context, id uint) error {
	delete(r.stores, id)
	return nil
}

func (r *fakeStoreRepo) FindByID(_ context.Context, id uint) (*models.Store, error) {
	store, ok := r.stores[id]
	if !ok {
		return nil, nil
	}
	copied := *store
	return &copied, nil
}

func (r *fakeStoreRepo) FindBySlug(_ context.Context, slug string) (*models.Store, error) {
	for _, store := range r.stores {
		if store.Slug == slug {
			copied := *store
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeStoreRepo) List(_ context.Context, _ bool) ([]models.Store, error) {
	var out []models.Store
	for _, store := range r.stores {
		out = append(out, *store)
	}
	return out, nil
}

type fakeUserRepo struct {
	nextID uint
	users  map[uint]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*models.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if user.ID == 0 {
		r.nextID++
		user.ID = r.nextID
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

type fakeGateway struct {
	mu sync.Mutex

	preference    *mercadopago.Preference
	preferenceErr error
	createCalls   int

	payments map[string]*mercadopago.Payment
	fetches  int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		preference: &mercadopago.Preference{ID: "pref-1", InitPoint: "https://mp.test/init/pref-1"},
		payments:   map[string]*mercadopago.Payment{},
	}
}

func (g *fakeGateway) CreatePreference(_ context.Context, _ *models.Order, _ []models.OrderItem, _ mercadopago.Payer) (*mercadopago.Preference, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createCalls++
	if g.preferenceErr != nil {
		return nil, g.preferenceErr
	}
	return g.preference, nil
}

func (g *fakeGateway) GetPayment(_ context.Context, paymentID string) (*mercadopago.Payment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fetches++
	payment, ok := g.payments[paymentID]
	if !ok {
		return nil, fmt.Errorf("payment %s not found in fake gateway", paymentID)
	}
	return payment, nil
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
