package command

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/purchase/domain"
)

// fakePurchaseRepo is an in-memory PurchaseRepository with the same stock
// guard as the real one: adjustments that would drive a product negative fail
// instead of clamping.
type fakePurchaseRepo struct {
	mu        sync.Mutex
	nextID    uint
	purchases map[uint]*domain.Purchase
	stock     map[uint]int

	// afterFind, when set, runs after every FindByID, for racing a
	// concurrent writer between the handler's read and its update
	afterFind func()
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{
		purchases: make(map[uint]*domain.Purchase),
		stock:     make(map[uint]int),
	}
}

func copyPurchase(p *domain.Purchase) *domain.Purchase {
	cp := *p
	return &cp
}

func (f *fakePurchaseRepo) Create(purchase *domain.Purchase) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	purchase.ID = f.nextID
	f.purchases[purchase.ID] = copyPurchase(purchase)
	return nil
}

func (f *fakePurchaseRepo) FindByID(id uint) (*domain.Purchase, error) {
	f.mu.Lock()
	p, ok := f.purchases[id]
	var cp *domain.Purchase
	if ok && !p.DeletedAt.Valid {
		cp = copyPurchase(p)
	}
	f.mu.Unlock()

	if cp == nil {
		return nil, gorm.ErrRecordNotFound
	}
	if f.afterFind != nil {
		f.afterFind()
	}
	return cp, nil
}

func (f *fakePurchaseRepo) FindAll(limit, offset int) ([]domain.Purchase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Purchase
	for _, p := range f.purchases {
		if !p.DeletedAt.Valid {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePurchaseRepo) FindByStatus(status string, limit, offset int) ([]domain.Purchase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Purchase
	for _, p := range f.purchases {
		if !p.DeletedAt.Valid && p.Status == status {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePurchaseRepo) FindByProductID(productID uint, limit, offset int) ([]domain.Purchase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Purchase
	for _, p := range f.purchases {
		if !p.DeletedAt.Valid && p.ProductID == productID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePurchaseRepo) Update(purchase *domain.Purchase, expectedVersion int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.purchases[purchase.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != expectedVersion {
		return apperrors.NewConflictError(
			"purchase %d was modified concurrently (expected version %d)", purchase.ID, expectedVersion)
	}
	purchase.Version = expectedVersion + 1
	f.purchases[purchase.ID] = copyPurchase(purchase)
	return nil
}

func (f *fakePurchaseRepo) SoftDelete(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.purchases[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	return nil
}

func (f *fakePurchaseRepo) Count() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.purchases {
		if !p.DeletedAt.Valid {
			n++
		}
	}
	return n, nil
}

func (f *fakePurchaseRepo) ProductExists(productID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.stock[productID]
	return ok, nil
}

func (f *fakePurchaseRepo) AdjustProductStock(productID uint, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.stock[productID]
	if !ok {
		return apperrors.NewNotFoundError("product %d not found", productID)
	}
	if current+delta < 0 {
		return apperrors.NewInvariantViolation(
			fmt.Sprintf("stock adjustment of %d on product %d would go negative", delta, productID), nil)
	}
	f.stock[productID] = current + delta
	return nil
}

func (f *fakePurchaseRepo) Transaction(fn func(domain.PurchaseRepository) error) error {
	return fn(f)
}

func (f *fakePurchaseRepo) productStock(id uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stock[id]
}

func uintPtr(v uint) *uint        { return &v }
func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

// Tests

func TestCreatePurchasePending(t *testing.T) {
	repo := newFakePurchaseRepo()
	repo.stock[1] = 0
	h := NewCreatePurchaseHandler(repo)

	p, err := h.Handle(CreatePurchaseCommand{
		Quantity:  3,
		CostPrice: 19.99,
		ProductID: 1,
		UserID:    1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Status != domain.StatusPending {
		t.Errorf("status = %q, want pending default", p.Status)
	}
	if p.Currency != domain.CurrencyUSD {
		t.Errorf("currency = %q, want USD default", p.Currency)
	}
	if p.TotalAmount != 59.97 {
		t.Errorf("total = %v, want 59.97", p.TotalAmount)
	}
	if got := repo.productStock(1); got != 0 {
		t.Errorf("pending purchase must not move stock, got %d", got)
	}
}

func TestCreatePurchaseCompleted(t *testing.T) {
	repo := newFakePurchaseRepo()
	repo.stock[1] = 2

	_, err := NewCreatePurchaseHandler(repo).Handle(CreatePurchaseCommand{
		Quantity:  5,
		CostPrice: 10,
		Status:    domain.StatusCompleted,
		ProductID: 1,
		UserID:    1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := repo.productStock(1); got != 7 {
		t.Errorf("stock = %d, want 7", got)
	}
}

func TestCreatePurchaseValidation(t *testing.T) {
	repo := newFakePurchaseRepo()
	repo.stock[1] = 0
	h := NewCreatePurchaseHandler(repo)

	tests := []struct {
		name string
		cmd  CreatePurchaseCommand
	}{
		{"missing product", CreatePurchaseCommand{Quantity: 1, UserID: 1}},
		{"missing user", CreatePurchaseCommand{Quantity: 1, ProductID: 1}},
		{"zero quantity", CreatePurchaseCommand{Quantity: 0, ProductID: 1, UserID: 1}},
		{"quantity over cap", CreatePurchaseCommand{Quantity: domain.MaxQuantity + 1, ProductID: 1, UserID: 1}},
		{"negative cost", CreatePurchaseCommand{Quantity: 1, CostPrice: -1, ProductID: 1, UserID: 1}},
		{"bad currency", CreatePurchaseCommand{Quantity: 1, Currency: "EUR", ProductID: 1, UserID: 1}},
		{"bad status", CreatePurchaseCommand{Quantity: 1, Status: "shipped", ProductID: 1, UserID: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := h.Handle(tt.cmd); err == nil {
				t.Fatal("expected error")
			} else if _, ok := apperrors.IsValidationError(err); !ok {
				t.Errorf("expected ValidationError, got %T", err)
			}
		})
	}
}

func TestCreatePurchaseUnknownProduct(t *testing.T) {
	repo := newFakePurchaseRepo()

	_, err := NewCreatePurchaseHandler(repo).Handle(CreatePurchaseCommand{
		Quantity: 1, ProductID: 42, UserID: 1,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := apperrors.IsNotFoundError(err); !ok {
		t.Errorf("expected NotFoundError, got %T", err)
	}
}

func TestUpdatePurchaseCompletion(t *testing.T) {
	repo := newFakePurchaseRepo()
	repo.stock[1] = 0
	created, err := NewCreatePurchaseHandler(repo).Handle(CreatePurchaseCommand{
		Quantity: 10, CostPrice: 5, ProductID: 1, UserID: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h := NewUpdatePurchaseHandler(repo)

	// pending -> completed adds the quantity
	if _, err := h.Handle(UpdatePurchaseCommand{ID: created.ID, Status: strPtr(domain.StatusCompleted)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := repo.productStock(1); got != 10 {
		t.Errorf("stock = %d, want 10", got)
	}

	// completed -> completed with a quantity change applies the net delta
	if _, err := h.Handle(UpdatePurchaseCommand{ID: created.ID, Quantity: intPtr(15)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := repo.productStock(1); got != 15 {
		t.Errorf("stock = %d, want 15", got)
	}

	// completed -> cancelled takes the current quantity back out
	if _, err := h.Handle(UpdatePurchaseCommand{ID: created.ID, Status: strPtr(domain.StatusCancelled)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := repo.productStock(1); got != 0 {
		t.Errorf("stock = %d, want 0", got)
	}
}

func TestUpdatePurchaseConcurrentCompletion(t *testing.T) {
	repo := newFakePurchaseRepo()
	repo.stock[1] = 0
	created, err := NewCreatePurchaseHandler(repo).Handle(CreatePurchaseCommand{
		Quantity: 10, CostPrice: 5, ProductID: 1, UserID: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A competing update completes the purchase after this handler read it
	// but before it writes. The stale write must lose on the version guard,
	// otherwise both completions would add their quantity to stock.
	repo.afterFind = func() {
		repo.mu.Lock()
		stored := repo.purchases[created.ID]
		stored.Status = domain.StatusCompleted
		stored.Version++
		repo.stock[stored.ProductID] += stored.Quantity
		repo.mu.Unlock()
		repo.afterFind = nil
	}

	_, err = NewUpdatePurchaseHandler(repo).Handle(UpdatePurchaseCommand{
		ID:     created.ID,
		Status: strPtr(domain.StatusCompleted),
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := apperrors.IsConflictError(err); !ok {
		t.Errorf("expected ConflictError, got %T", err)
	}
	if got := repo.productStock(1); got != 10 {
		t.Errorf("stock = %d, want the single completed quantity 10", got)
	}
}

func TestUpdatePurchaseProductMove(t *testing.T) {
	repo := newFakePurchaseRepo()
	repo.stock[1] = 0
	repo.stock[2] = 0
	created, _ := NewCreatePurchaseHandler(repo).Handle(CreatePurchaseCommand{
		Quantity: 8, CostPrice: 5, Status: domain.StatusCompleted, ProductID: 1, UserID: 1,
	})

	_, err := NewUpdatePurchaseHandler(repo).Handle(UpdatePurchaseCommand{
		ID:        created.ID,
		ProductID: uintPtr(2),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := repo.productStock(1); got != 0 {
		t.Errorf("old product stock = %d, want 0", got)
	}
	if got := repo.productStock(2); got != 8 {
		t.Errorf("new product stock = %d, want 8", got)
	}
}

func TestUpdatePurchaseTotalRecomputed(t *testing.T) {
	repo := newFakePurchaseRepo()
	repo.stock[1] = 0
	created, _ := NewCreatePurchaseHandler(repo).Handle(CreatePurchaseCommand{
		Quantity: 4, CostPrice: 10, ProductID: 1, UserID: 1,
	})

	updated, err := NewUpdatePurchaseHandler(repo).Handle(UpdatePurchaseCommand{
		ID:        created.ID,
		CostPrice: floatPtr(12.25),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.TotalAmount != 49 {
		t.Errorf("total = %v, want 49", updated.TotalAmount)
	}
}

func TestUpdatePurchaseInsufficientStock(t *testing.T) {
	repo := newFakePurchaseRepo()
	repo.stock[1] = 0
	created, _ := NewCreatePurchaseHandler(repo).Handle(CreatePurchaseCommand{
		Quantity: 10, CostPrice: 5, Status: domain.StatusCompleted, ProductID: 1, UserID: 1,
	})

	// The completed contribution was already consumed downstream; reversing
	// it would drive stock negative
	if err := repo.AdjustProductStock(1, -6); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := NewUpdatePurchaseHandler(repo).Handle(UpdatePurchaseCommand{
		ID:     created.ID,
		Status: strPtr(domain.StatusCancelled),
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := apperrors.IsInvariantViolation(err); !ok {
		t.Errorf("expected InvariantViolation, got %T", err)
	}
}

func TestDeletePurchase(t *testing.T) {
	repo := newFakePurchaseRepo()
	repo.stock[1] = 0
	completed, _ := NewCreatePurchaseHandler(repo).Handle(CreatePurchaseCommand{
		Quantity: 6, CostPrice: 5, Status: domain.StatusCompleted, ProductID: 1, UserID: 1,
	})
	pending, _ := NewCreatePurchaseHandler(repo).Handle(CreatePurchaseCommand{
		Quantity: 3, CostPrice: 5, ProductID: 1, UserID: 1,
	})
	h := NewDeletePurchaseHandler(repo)

	if err := h.Handle(DeletePurchaseCommand{ID: completed.ID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := repo.productStock(1); got != 0 {
		t.Errorf("deleting a completed purchase must reverse its stock, got %d", got)
	}

	if err := h.Handle(DeletePurchaseCommand{ID: pending.ID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := repo.productStock(1); got != 0 {
		t.Errorf("deleting a pending purchase must not move stock, got %d", got)
	}

	err := h.Handle(DeletePurchaseCommand{ID: completed.ID})
	if _, ok := apperrors.IsNotFoundError(err); !ok {
		t.Errorf("expected NotFoundError for already deleted purchase, got %T", err)
	}
}
