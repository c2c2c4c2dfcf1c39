package command

import (
	"testing"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/taxonomy/domain"
)

// fakeNodeRepo is an in-memory NodeRepository keeping one table per kind
type fakeNodeRepo struct {
	nextID   uint
	tables   map[domain.Kind]map[uint]*domain.Node
	detached []uint
}

func newFakeNodeRepo() *fakeNodeRepo {
	tables := make(map[domain.Kind]map[uint]*domain.Node)
	for _, kind := range domain.Kinds {
		tables[kind] = make(map[uint]*domain.Node)
	}
	return &fakeNodeRepo{tables: tables}
}

func copyNode(n *domain.Node) *domain.Node {
	cp := *n
	return &cp
}

func (f *fakeNodeRepo) Create(kind domain.Kind, node *domain.Node) error {
	f.nextID++
	node.ID = f.nextID
	f.tables[kind][node.ID] = copyNode(node)
	return nil
}

func (f *fakeNodeRepo) FindByID(kind domain.Kind, id uint) (*domain.Node, error) {
	n, ok := f.tables[kind][id]
	if !ok || n.DeletedAt.Valid {
		return nil, gorm.ErrRecordNotFound
	}
	return copyNode(n), nil
}

func (f *fakeNodeRepo) FindByNaturalKeyUnscoped(kind domain.Kind, key string) (*domain.Node, error) {
	for _, n := range f.tables[kind] {
		if n.NaturalKey == key {
			return copyNode(n), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeNodeRepo) FindAll(kind domain.Kind, limit, offset int) ([]domain.Node, error) {
	var out []domain.Node
	for _, n := range f.tables[kind] {
		if !n.DeletedAt.Valid {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNodeRepo) Update(kind domain.Kind, node *domain.Node) error {
	stored, ok := f.tables[kind][node.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	// Preserve the immutable natural key the way the column update does
	cp := copyNode(node)
	cp.NaturalKey = stored.NaturalKey
	f.tables[kind][node.ID] = cp
	return nil
}

func (f *fakeNodeRepo) SoftDelete(kind domain.Kind, id uint) error {
	n, ok := f.tables[kind][id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	n.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	return nil
}

func (f *fakeNodeRepo) Restore(kind domain.Kind, id uint) error {
	n, ok := f.tables[kind][id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	n.DeletedAt = gorm.DeletedAt{}
	return nil
}

func (f *fakeNodeRepo) Count(kind domain.Kind) (int64, error) {
	var n int64
	for _, node := range f.tables[kind] {
		if !node.DeletedAt.Valid {
			n++
		}
	}
	return n, nil
}

func (f *fakeNodeRepo) DetachProducts(kind domain.Kind, id uint) error {
	f.detached = append(f.detached, id)
	return nil
}

func (f *fakeNodeRepo) Transaction(fn func(domain.NodeRepository) error) error {
	return fn(f)
}

// Tests

func TestCreateNode(t *testing.T) {
	repo := newFakeNodeRepo()
	h := NewCreateNodeHandler(repo)

	n, err := h.Handle(CreateNodeCommand{Kind: domain.KindCategory, Name: "Brake Systems"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n.ID == 0 {
		t.Error("expected id to be assigned")
	}
	if n.NaturalKey != "brake_systems" {
		t.Errorf("natural key = %q", n.NaturalKey)
	}
	if n.Slug == "" || n.Slug == n.NaturalKey {
		t.Errorf("slug should carry a random suffix, got %q", n.Slug)
	}
	if n.ProductCount != 0 {
		t.Errorf("product count = %d, want 0", n.ProductCount)
	}
}

func TestCreateNodeValidation(t *testing.T) {
	repo := newFakeNodeRepo()
	h := NewCreateNodeHandler(repo)

	tests := []struct {
		name string
		cmd  CreateNodeCommand
	}{
		{"unknown kind", CreateNodeCommand{Kind: "warehouse", Name: "X"}},
		{"missing name", CreateNodeCommand{Kind: domain.KindBrand}},
		{"website without url", CreateNodeCommand{Kind: domain.KindWebsite, Name: "Shop"}},
		{"vendor without email", CreateNodeCommand{Kind: domain.KindVendor, Name: "Acme"}},
		{"name with no usable runes", CreateNodeCommand{Kind: domain.KindBrand, Name: "???"}},
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

func TestCreateNodeDuplicate(t *testing.T) {
	repo := newFakeNodeRepo()
	h := NewCreateNodeHandler(repo)

	if _, err := h.Handle(CreateNodeCommand{Kind: domain.KindBrand, Name: "Bosch"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Same natural key despite different casing and spacing
	_, err := h.Handle(CreateNodeCommand{Kind: domain.KindBrand, Name: "  BOSCH "})
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := apperrors.IsConflictError(err); !ok {
		t.Errorf("expected ConflictError, got %T", err)
	}

	// The same name under a different kind is a different namespace
	if _, err := h.Handle(CreateNodeCommand{Kind: domain.KindCatalog, Name: "Bosch"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCreateNodeRevivesDeleted(t *testing.T) {
	repo := newFakeNodeRepo()
	create := NewCreateNodeHandler(repo)

	first, err := create.Handle(CreateNodeCommand{Kind: domain.KindBrand, Name: "Bosch", Description: "old"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := NewDeleteNodeHandler(repo).Handle(DeleteNodeCommand{Kind: domain.KindBrand, ID: first.ID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	revived, err := create.Handle(CreateNodeCommand{Kind: domain.KindBrand, Name: "Bosch", Description: "new"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if revived.ID != first.ID {
		t.Errorf("revival must keep the row identity: %d != %d", revived.ID, first.ID)
	}
	if revived.Description != "new" {
		t.Errorf("description = %q, want new payload", revived.Description)
	}
	if revived.ProductCount != 0 {
		t.Errorf("revived product count = %d, want 0", revived.ProductCount)
	}
	if revived.DeletedAt.Valid {
		t.Error("revived node should be live")
	}
}

func TestCreateNodeVendorKeysOnEmail(t *testing.T) {
	repo := newFakeNodeRepo()
	h := NewCreateNodeHandler(repo)

	if _, err := h.Handle(CreateNodeCommand{Kind: domain.KindVendor, Name: "Acme", Email: "sales@acme.io"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Different display name, same email: same vendor
	_, err := h.Handle(CreateNodeCommand{Kind: domain.KindVendor, Name: "Acme GmbH", Email: "SALES@acme.io"})
	if _, ok := apperrors.IsConflictError(err); !ok {
		t.Errorf("expected ConflictError, got %T", err)
	}

	// Same name, different email: different vendor
	if _, err := h.Handle(CreateNodeCommand{Kind: domain.KindVendor, Name: "Acme", Email: "support@acme.io"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUpdateNode(t *testing.T) {
	repo := newFakeNodeRepo()
	created, _ := NewCreateNodeHandler(repo).Handle(CreateNodeCommand{Kind: domain.KindCategory, Name: "Brakes"})
	h := NewUpdateNodeHandler(repo)

	desc := "friction parts"
	updated, err := h.Handle(UpdateNodeCommand{
		Kind:        domain.KindCategory,
		ID:          created.ID,
		Name:        "Brake Systems",
		Description: &desc,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Name != "Brake Systems" || updated.Description != "friction parts" {
		t.Errorf("fields not applied: %+v", updated)
	}
	if updated.Slug == created.Slug {
		t.Error("rename should re-derive the slug")
	}

	// The natural key survives renames
	stored, _ := repo.FindByID(domain.KindCategory, created.ID)
	if stored.NaturalKey != "brakes" {
		t.Errorf("natural key = %q, want original", stored.NaturalKey)
	}

	if _, err := h.Handle(UpdateNodeCommand{Kind: domain.KindCategory, ID: 999, Name: "X"}); err == nil {
		t.Error("expected error for missing node")
	}
}

func TestDeleteNodeDetachesProducts(t *testing.T) {
	repo := newFakeNodeRepo()
	created, _ := NewCreateNodeHandler(repo).Handle(CreateNodeCommand{Kind: domain.KindCatalog, Name: "Winter"})
	h := NewDeleteNodeHandler(repo)

	if err := h.Handle(DeleteNodeCommand{Kind: domain.KindCatalog, ID: created.ID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.detached) != 1 || repo.detached[0] != created.ID {
		t.Errorf("expected product detach for node %d, got %v", created.ID, repo.detached)
	}
	if _, err := repo.FindByID(domain.KindCatalog, created.ID); err == nil {
		t.Error("deleted node should not be findable")
	}

	err := h.Handle(DeleteNodeCommand{Kind: domain.KindCatalog, ID: created.ID})
	if _, ok := apperrors.IsNotFoundError(err); !ok {
		t.Errorf("expected NotFoundError for already deleted node, got %T", err)
	}
}
