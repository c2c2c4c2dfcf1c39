package command

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/product/domain"
)

// fakeProductRepo is an in-memory ProductRepository mirroring the conditional
// write semantics of the real one: guarded version updates, non-negative
// stock, counter adjustments that fail on missing parents.
type fakeProductRepo struct {
	mu             sync.Mutex
	nextID         uint
	products       map[uint]*domain.Product
	counters       map[string]int
	missingParents map[string]bool

	// afterFind, when set, runs after every FindByID, for racing a
	// concurrent writer between the handler's read and its update
	afterFind func()

	// createErr, when set, fails the next Create with it
	createErr error
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products:       make(map[uint]*domain.Product),
		counters:       make(map[string]int),
		missingParents: make(map[string]bool),
	}
}

func parentKey(kind domain.ParentKind, id uint) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

func copyProduct(p *domain.Product) *domain.Product {
	cp := *p
	return &cp
}

func (f *fakeProductRepo) Create(product *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		err := f.createErr
		f.createErr = nil
		return err
	}
	f.nextID++
	product.ID = f.nextID
	f.products[product.ID] = copyProduct(product)
	return nil
}

func (f *fakeProductRepo) FindByID(id uint) (*domain.Product, error) {
	f.mu.Lock()
	p, ok := f.products[id]
	var cp *domain.Product
	if ok && !p.DeletedAt.Valid {
		cp = copyProduct(p)
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

func (f *fakeProductRepo) FindByIDUnscoped(id uint) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return copyProduct(p), nil
}

func (f *fakeProductRepo) FindBySKU(sku string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.SKU == sku {
			return copyProduct(p), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductRepo) FindAll(limit, offset int) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Product
	for _, p := range f.products {
		if !p.DeletedAt.Valid {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) FindByStatus(status string, limit, offset int) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Product
	for _, p := range f.products {
		if !p.DeletedAt.Valid && p.Status == status {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Update(product *domain.Product, expectedVersion int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.products[product.ID]
	if !ok || stored.DeletedAt.Valid || stored.Version != expectedVersion {
		return apperrors.NewConflictError("product %d was modified concurrently (expected version %d)", product.ID, expectedVersion)
	}
	product.Version = expectedVersion + 1
	f.products[product.ID] = copyProduct(product)
	return nil
}

func (f *fakeProductRepo) SoftDelete(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	return nil
}

func (f *fakeProductRepo) Restore(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.DeletedAt = gorm.DeletedAt{}
	return nil
}

func (f *fakeProductRepo) Count() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.products {
		if !p.DeletedAt.Valid {
			n++
		}
	}
	return n, nil
}

func (f *fakeProductRepo) AdjustStock(id uint, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok || p.DeletedAt.Valid {
		return apperrors.NewNotFoundError("product %d not found", id)
	}
	if p.InStock+delta < 0 {
		return apperrors.NewInvariantViolation(
			fmt.Sprintf("stock adjustment of %d on product %d would go negative", delta, id), nil)
	}
	p.InStock += delta
	p.Version++
	return nil
}

func (f *fakeProductRepo) AdjustParentCount(kind domain.ParentKind, ids []uint, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		if f.missingParents[parentKey(kind, id)] {
			return apperrors.NewInvariantViolation(
				fmt.Sprintf("counter adjustment touched 0 of 1 %s rows", kind), nil)
		}
	}
	for _, id := range ids {
		f.counters[parentKey(kind, id)] += delta
	}
	return nil
}

func (f *fakeProductRepo) Transaction(fn func(domain.ProductRepository) error) error {
	return fn(f)
}

func (f *fakeProductRepo) counter(kind domain.ParentKind, id uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counters[parentKey(kind, id)]
}

func uintPtr(v uint) *uint        { return &v }
func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

// Tests

func TestCreateProduct(t *testing.T) {
	repo := newFakeProductRepo()
	h := NewCreateProductHandler(repo)

	p, err := h.Handle(CreateProductCommand{
		SKU:        "BP-100",
		Name:       "Brake Pad",
		InStock:    10,
		CatalogID:  uintPtr(3),
		WebsiteIDs: []int64{10, 20, 10},
		UserID:     1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.ID == 0 {
		t.Error("expected id to be assigned")
	}
	if p.Version != 1 {
		t.Errorf("version = %d, want 1", p.Version)
	}
	if p.Status != domain.StatusDraft {
		t.Errorf("status = %q, want draft default", p.Status)
	}
	if p.Slug == "" {
		t.Error("expected slug to be derived")
	}
	if len(p.WebsiteIDs) != 2 {
		t.Errorf("expected duplicate website ids to be dropped, got %v", p.WebsiteIDs)
	}

	if got := repo.counter(domain.ParentCatalog, 3); got != 1 {
		t.Errorf("catalog counter = %d, want 1", got)
	}
	if got := repo.counter(domain.ParentWebsite, 10); got != 1 {
		t.Errorf("website 10 counter = %d, want 1", got)
	}
	if got := repo.counter(domain.ParentWebsite, 20); got != 1 {
		t.Errorf("website 20 counter = %d, want 1", got)
	}
}

func TestCreateProductValidation(t *testing.T) {
	repo := newFakeProductRepo()
	h := NewCreateProductHandler(repo)

	tests := []struct {
		name string
		cmd  CreateProductCommand
	}{
		{"missing name", CreateProductCommand{SKU: "X", UserID: 1}},
		{"missing sku", CreateProductCommand{Name: "X", UserID: 1}},
		{"missing user", CreateProductCommand{Name: "X", SKU: "X"}},
		{"negative stock", CreateProductCommand{Name: "X", SKU: "X", UserID: 1, InStock: -1}},
		{"negative price", CreateProductCommand{Name: "X", SKU: "X", UserID: 1, Price: -0.01}},
		{"bad status", CreateProductCommand{Name: "X", SKU: "X", UserID: 1, Status: "archived"}},
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

func TestCreateProductDuplicateSKU(t *testing.T) {
	repo := newFakeProductRepo()
	h := NewCreateProductHandler(repo)

	if _, err := h.Handle(CreateProductCommand{SKU: "BP-100", Name: "First", UserID: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The sku stays taken even after a soft delete
	if err := NewDeleteProductHandler(repo).Handle(DeleteProductCommand{ID: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := h.Handle(CreateProductCommand{SKU: "BP-100", Name: "Second", UserID: 1})
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := apperrors.IsConflictError(err); !ok {
		t.Errorf("expected ConflictError, got %T", err)
	}
}

func TestCreateProductDuplicateSKURace(t *testing.T) {
	repo := newFakeProductRepo()
	h := NewCreateProductHandler(repo)

	// A concurrent create lands between the duplicate lookup and the insert;
	// the unique index rejects the insert and the handler must surface a
	// conflict, not an internal error
	repo.createErr = gorm.ErrDuplicatedKey

	_, err := h.Handle(CreateProductCommand{SKU: "BP-100", Name: "Second", UserID: 1})
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := apperrors.IsConflictError(err); !ok {
		t.Errorf("expected ConflictError, got %T", err)
	}
}

func TestCreateProductMissingParent(t *testing.T) {
	repo := newFakeProductRepo()
	repo.missingParents[parentKey(domain.ParentBrand, 9)] = true
	h := NewCreateProductHandler(repo)

	_, err := h.Handle(CreateProductCommand{SKU: "X", Name: "X", UserID: 1, BrandID: uintPtr(9)})
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := apperrors.IsInvariantViolation(err); !ok {
		t.Errorf("expected InvariantViolation, got %T", err)
	}
}

func TestUpdateProductReparent(t *testing.T) {
	repo := newFakeProductRepo()
	created, err := NewCreateProductHandler(repo).Handle(CreateProductCommand{
		SKU: "BP-100", Name: "Brake Pad", UserID: 1, CatalogID: uintPtr(3),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := NewUpdateProductHandler(repo).Handle(UpdateProductCommand{
		ID:           created.ID,
		Associations: &AssociationPatch{CatalogID: uintPtr(4)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.CatalogID == nil || *updated.CatalogID != 4 {
		t.Errorf("catalog id = %v, want 4", updated.CatalogID)
	}
	if got := repo.counter(domain.ParentCatalog, 3); got != 0 {
		t.Errorf("old catalog counter = %d, want 0", got)
	}
	if got := repo.counter(domain.ParentCatalog, 4); got != 1 {
		t.Errorf("new catalog counter = %d, want 1", got)
	}
	if updated.Version != created.Version+1 {
		t.Errorf("version = %d, want %d", updated.Version, created.Version+1)
	}
}

func TestUpdateProductFields(t *testing.T) {
	repo := newFakeProductRepo()
	created, _ := NewCreateProductHandler(repo).Handle(CreateProductCommand{
		SKU: "BP-100", Name: "Brake Pad", UserID: 1, Price: 10,
	})

	updated, err := NewUpdateProductHandler(repo).Handle(UpdateProductCommand{
		ID:          created.ID,
		Name:        "Brake Pad Pro",
		Description: strPtr("ceramic compound"),
		Status:      domain.StatusActive,
		Price:       floatPtr(12.5),
		SaleStock:   intPtr(4),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Name != "Brake Pad Pro" || updated.Description != "ceramic compound" {
		t.Errorf("fields not applied: %+v", updated)
	}
	if updated.Status != domain.StatusActive || updated.Price != 12.5 || updated.SaleStock != 4 {
		t.Errorf("fields not applied: %+v", updated)
	}
	if updated.Slug == created.Slug {
		t.Error("rename should re-derive the slug")
	}
	if updated.Version != created.Version+1 {
		t.Errorf("version = %d, want %d", updated.Version, created.Version+1)
	}

	if _, err := NewUpdateProductHandler(repo).Handle(UpdateProductCommand{
		ID:    created.ID,
		Price: floatPtr(-1),
	}); err == nil {
		t.Error("expected negative price to be rejected")
	}
}

func TestUpdateProductClearAssociation(t *testing.T) {
	repo := newFakeProductRepo()
	created, _ := NewCreateProductHandler(repo).Handle(CreateProductCommand{
		SKU: "BP-100", Name: "Brake Pad", UserID: 1, BrandID: uintPtr(7),
	})

	updated, err := NewUpdateProductHandler(repo).Handle(UpdateProductCommand{
		ID:           created.ID,
		Associations: &AssociationPatch{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.BrandID != nil {
		t.Errorf("brand id = %v, want nil", updated.BrandID)
	}
	if got := repo.counter(domain.ParentBrand, 7); got != 0 {
		t.Errorf("brand counter = %d, want 0", got)
	}
}

func TestUpdateProductWebsiteDiff(t *testing.T) {
	repo := newFakeProductRepo()
	created, _ := NewCreateProductHandler(repo).Handle(CreateProductCommand{
		SKU: "BP-100", Name: "Brake Pad", UserID: 1, WebsiteIDs: []int64{1, 2, 3},
	})

	updated, err := NewUpdateProductHandler(repo).Handle(UpdateProductCommand{
		ID:           created.ID,
		Associations: &AssociationPatch{WebsiteIDs: []int64{2, 3, 4}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(updated.WebsiteIDs) != 3 {
		t.Errorf("website ids = %v", updated.WebsiteIDs)
	}
	want := map[uint]int{1: 0, 2: 1, 3: 1, 4: 1}
	for id, n := range want {
		if got := repo.counter(domain.ParentWebsite, id); got != n {
			t.Errorf("website %d counter = %d, want %d", id, got, n)
		}
	}
}

func TestUpdateProductVersionConflict(t *testing.T) {
	repo := newFakeProductRepo()
	created, _ := NewCreateProductHandler(repo).Handle(CreateProductCommand{
		SKU: "BP-100", Name: "Brake Pad", UserID: 1,
	})

	// A concurrent writer moves the row on between the handler's read and
	// its guarded update
	repo.afterFind = func() {
		repo.mu.Lock()
		repo.products[created.ID].Version++
		repo.mu.Unlock()
		repo.afterFind = nil
	}

	_, err := NewUpdateProductHandler(repo).Handle(UpdateProductCommand{
		ID:   created.ID,
		Name: "Renamed",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := apperrors.IsConflictError(err); !ok {
		t.Errorf("expected ConflictError, got %T", err)
	}
}

func TestUpdateProductNoChange(t *testing.T) {
	repo := newFakeProductRepo()
	created, _ := NewCreateProductHandler(repo).Handle(CreateProductCommand{
		SKU: "BP-100", Name: "Brake Pad", UserID: 1,
	})

	updated, err := NewUpdateProductHandler(repo).Handle(UpdateProductCommand{ID: created.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Version != created.Version {
		t.Errorf("no-op update must not bump version: %d -> %d", created.Version, updated.Version)
	}
}

func TestDeleteRestoreCounterNeutral(t *testing.T) {
	repo := newFakeProductRepo()
	created, _ := NewCreateProductHandler(repo).Handle(CreateProductCommand{
		SKU: "BP-100", Name: "Brake Pad", UserID: 1,
		CatalogID: uintPtr(3), WebsiteIDs: []int64{10},
	})

	if err := NewDeleteProductHandler(repo).Handle(DeleteProductCommand{ID: created.ID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := repo.counter(domain.ParentCatalog, 3); got != 0 {
		t.Errorf("catalog counter after delete = %d, want 0", got)
	}
	if got := repo.counter(domain.ParentWebsite, 10); got != 0 {
		t.Errorf("website counter after delete = %d, want 0", got)
	}

	restored, err := NewRestoreProductHandler(repo).Handle(RestoreProductCommand{ID: created.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !restored.IsLive() {
		t.Error("restored product should be live")
	}
	if got := repo.counter(domain.ParentCatalog, 3); got != 1 {
		t.Errorf("catalog counter after restore = %d, want 1", got)
	}
	if got := repo.counter(domain.ParentWebsite, 10); got != 1 {
		t.Errorf("website counter after restore = %d, want 1", got)
	}
}

func TestRestoreLiveProduct(t *testing.T) {
	repo := newFakeProductRepo()
	created, _ := NewCreateProductHandler(repo).Handle(CreateProductCommand{
		SKU: "BP-100", Name: "Brake Pad", UserID: 1,
	})

	_, err := NewRestoreProductHandler(repo).Handle(RestoreProductCommand{ID: created.ID})
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := apperrors.IsConflictError(err); !ok {
		t.Errorf("expected ConflictError, got %T", err)
	}
}

func TestAdjustStock(t *testing.T) {
	repo := newFakeProductRepo()
	created, _ := NewCreateProductHandler(repo).Handle(CreateProductCommand{
		SKU: "BP-100", Name: "Brake Pad", UserID: 1, InStock: 5,
	})
	h := NewAdjustStockHandler(repo)

	if err := h.Handle(AdjustStockCommand{ProductID: created.ID, Delta: -3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, _ := repo.FindByID(created.ID)
	if p.InStock != 2 {
		t.Errorf("in_stock = %d, want 2", p.InStock)
	}

	if err := h.Handle(AdjustStockCommand{ProductID: created.ID, Delta: 0}); err == nil {
		t.Error("expected zero delta to be rejected")
	}

	err := h.Handle(AdjustStockCommand{ProductID: created.ID, Delta: -3})
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := apperrors.IsInvariantViolation(err); !ok {
		t.Errorf("expected InvariantViolation, got %T", err)
	}
	p, _ = repo.FindByID(created.ID)
	if p.InStock != 2 {
		t.Errorf("failed adjustment must not change stock: %d", p.InStock)
	}

	err = h.Handle(AdjustStockCommand{ProductID: 999, Delta: 1})
	if _, ok := apperrors.IsNotFoundError(err); !ok {
		t.Errorf("expected NotFoundError, got %T", err)
	}
}

func TestAdjustStockConcurrent(t *testing.T) {
	repo := newFakeProductRepo()
	created, _ := NewCreateProductHandler(repo).Handle(CreateProductCommand{
		SKU: "BP-100", Name: "Brake Pad", UserID: 1,
	})
	h := NewAdjustStockHandler(repo)

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := h.Handle(AdjustStockCommand{ProductID: created.ID, Delta: 1}); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	p, _ := repo.FindByID(created.ID)
	if p.InStock != workers {
		t.Errorf("in_stock = %d, want %d", p.InStock, workers)
	}
}
