package usecase

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/josamcode/last-backend-ecommerce/internal/domain"
)

// In-memory fakes over the domain repository interfaces. They reproduce the
// sentinel errors the Postgres implementations return so error mapping can be
// tested without a database.

type fakeProductRepo struct {
	products map[int64]*domain.Product
}

func newFakeProductRepo(products ...*domain.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: make(map[int64]*domain.Product)}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return repo
}

func (r *fakeProductRepo) Create(p *domain.Product) (*domain.Product, error) {
	p.ID = int64(len(r.products) + 1)
	r.products[p.ID] = p
	return p, nil
}

func (r *fakeProductRepo) GetByID(id int64) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) List(filter domain.ProductFilter) (*domain.ProductPage, error) {
	page := &domain.ProductPage{Page: filter.Page, Limit: filter.Limit}
	for _, p := range r.products {
		page.Products = append(page.Products, *p)
	}
	page.Total = len(page.Products)
	return page, nil
}

func (r *fakeProductRepo) Update(p *domain.Product) (*domain.Product, error) {
	if _, ok := r.products[p.ID]; !ok {
		return nil, domain.ErrProductNotFound
	}
	r.products[p.ID] = p
	return p, nil
}

func (r *fakeProductRepo) Delete(id int64) error {
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

type fakeOrderRepo struct {
	nextID int64
	orders map[int64]*domain.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[int64]*domain.Order)}
}

func (r *fakeOrderRepo) Create(order *domain.Order) (*domain.Order, error) {
	r.nextID++
	stored := *order
	stored.ID = r.nextID
	r.orders[stored.ID] = &stored
	return &stored, nil
}

func (r *fakeOrderRepo) GetByID(id int64) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) ListByUser(userID int64) ([]domain.Order, error) {
	var out []domain.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateState(id int64, state domain.OrderState) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	order.State = state
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) UpdateShipping(id int64, addr domain.ShippingAddress) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	order.ShippingAddress = addr
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) ClearCoupon(id int64, newTotal decimal.Decimal) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	order.CouponCode = ""
	order.Total = newTotal
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) Delete(id int64) error {
	if _, ok := r.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.orders, id)
	return nil
}

type couponUsage struct {
	couponID int64
	userID   int64
}

type fakeCouponRepo struct {
	coupons map[string]*domain.Coupon
	usages  map[couponUsage]bool
}

func newFakeCouponRepo(coupons ...*domain.Coupon) *fakeCouponRepo {
	repo := &fakeCouponRepo{
		coupons: make(map[string]*domain.Coupon),
		usages:  make(map[couponUsage]bool),
	}
	for i, c := range coupons {
		if c.ID == 0 {
			c.ID = int64(i + 1)
		}
		repo.coupons[c.Code] = c
	}
	return repo
}

func (r *fakeCouponRepo) Create(c *domain.Coupon) (*domain.Coupon, error) {
	c.ID = int64(len(r.coupons) + 1)
	r.coupons[c.Code] = c
	return c, nil
}

func (r *fakeCouponRepo) GetByCode(code string) (*domain.Coupon, error) {
	c, ok := r.coupons[code]
	if !ok {
		return nil, domain.ErrCouponNotFound
	}
	return c, nil
}

func (r *fakeCouponRepo) List() ([]domain.Coupon, error) {
	var out []domain.Coupon
	for _, c := range r.coupons {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCouponRepo) Delete(id int64) error {
	for code, c := range r.coupons {
		if c.ID == id {
			delete(r.coupons, code)
			return nil
		}
	}
	return domain.ErrCouponNotFound
}

func (r *fakeCouponRepo) HasUsed(couponID, userID int64) (bool, error) {
	return r.usages[couponUsage{couponID, userID}], nil
}

func (r *fakeCouponRepo) MarkUsed(couponID, userID int64) error {
	key := couponUsage{couponID, userID}
	if r.usages[key] {
		return domain.ErrCouponAlreadyUsed
	}
	r.usages[key] = true
	return nil
}

func (r *fakeCouponRepo) UnmarkUsed(couponID, userID int64) error {
	delete(r.usages, couponUsage{couponID, userID})
	return nil
}

type fakeUserRepo struct {
	mu       sync.Mutex
	nextID   int64
	users    map[int64]*domain.User
	attached map[int64][]int64
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{
		users:    make(map[int64]*domain.User),
		attached: make(map[int64][]int64),
	}
	for _, u := range users {
		repo.users[u.ID] = u
		if u.ID > repo.nextID {
			repo.nextID = u.ID
		}
	}
	return repo
}

func (r *fakeUserRepo) Create(u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Phone == u.Phone || (u.Email != "" && existing.Email == u.Email) {
			return nil, fmt.Errorf("%w: phone or email already registered", domain.ErrAlreadyExists)
		}
	}
	r.nextID++
	u.ID = r.nextID
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) GetByID(id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByPhone(phone string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Phone == phone {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByVerificationToken(token string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if token != "" && u.VerificationToken == token {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) Update(u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List() ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) AttachOrder(userID, orderID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.attached[userID] {
		if existing == orderID {
			return nil
		}
	}
	r.attached[userID] = append(r.attached[userID], orderID)
	return nil
}

func (r *fakeUserRepo) DetachOrder(userID, orderID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.attached[userID][:0]
	for _, existing := range r.attached[userID] {
		if existing != orderID {
			kept = append(kept, existing)
		}
	}
	r.attached[userID] = kept
	return nil
}

func (r *fakeUserRepo) attachedOrders(userID int64) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.attached[userID]...)
}

// fakeCarts stands in for the cart use case at checkout. It records pruning
// calls and serves a fixed preview total.
type fakeCarts struct {
	total         decimal.Decimal
	totalErr      error
	prunedKeys    []domain.LineKey
	removeOrdered int
	removeErr     error
}

func (f *fakeCarts) GetCart(userID int64) (*domain.Cart, error) { return nil, domain.ErrCartNotFound }
func (f *fakeCarts) AddItem(userID, productID int64, quantity int, color, size string) (*domain.Cart, error) {
	return nil, nil
}
func (f *fakeCarts) UpdateItemQuantity(userID int64, key domain.LineKey, quantity int) (*domain.Cart, error) {
	return nil, nil
}
func (f *fakeCarts) RemoveItem(userID int64, key domain.LineKey) (*domain.Cart, error) {
	return nil, nil
}
func (f *fakeCarts) ClearCart(userID int64) error { return nil }
func (f *fakeCarts) RecomputeTotal(userID int64) (decimal.Decimal, error) {
	return f.total, nil
}
func (f *fakeCarts) CurrentTotal(userID int64) (decimal.Decimal, error) {
	if f.totalErr != nil {
		return decimal.Zero, f.totalErr
	}
	return f.total, nil
}
func (f *fakeCarts) RemoveOrdered(userID int64, items []domain.OrderItem) error {
	f.removeOrdered++
	if f.removeErr != nil {
		return f.removeErr
	}
	for _, item := range items {
		f.prunedKeys = append(f.prunedKeys, item.Key())
	}
	return nil
}

// recordingSender captures outbound mail; safe for the fire-and-forget
// notification goroutines.
type recordingSender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (s *recordingSender) Send(to, subject, htmlBody string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, to+": "+subject)
	return nil
}
