package command

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/gorm"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/user/domain"
	"github.com/tair/catalog-admin/pkg/auth"
)

func init() {
	auth.Init("test-secret", 1)
}

// fakeUserRepo is an in-memory UserRepository
type fakeUserRepo struct {
	nextID uint
	users  map[uint]*domain.User
	perms  map[string]bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users: make(map[uint]*domain.User),
		perms: make(map[string]bool),
	}
}

func permKey(role, module, action string) string {
	return fmt.Sprintf("%s/%s/%s", role, module, action)
}

func copyUser(u *domain.User) *domain.User {
	cp := *u
	return &cp
}

func (f *fakeUserRepo) Create(user *domain.User) error {
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = copyUser(user)
	return nil
}

func (f *fakeUserRepo) FindByID(id uint) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return copyUser(u), nil
}

func (f *fakeUserRepo) FindByUsername(username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByEmail(email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == strings.ToLower(email) {
			return copyUser(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindAll(limit, offset int) ([]domain.User, error) {
	var out []domain.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) Update(user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.users[user.ID] = copyUser(user)
	return nil
}

func (f *fakeUserRepo) Delete(id uint) error {
	if _, ok := f.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) Count() (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeUserRepo) HasPermission(role, module, action string) (bool, error) {
	if role == domain.RoleAdmin {
		return true, nil
	}
	return f.perms[permKey(role, module, action)], nil
}

func (f *fakeUserRepo) GrantPermission(perm *domain.Permission) error {
	f.perms[permKey(perm.Role, perm.Module, perm.Action)] = true
	return nil
}

func (f *fakeUserRepo) RevokePermission(role, module, action string) error {
	key := permKey(role, module, action)
	if !f.perms[key] {
		return apperrors.NewNotFoundError("permission %s not found", key)
	}
	delete(f.perms, key)
	return nil
}

func (f *fakeUserRepo) ListPermissions(role string) ([]domain.Permission, error) {
	var out []domain.Permission
	for key := range f.perms {
		parts := strings.SplitN(key, "/", 3)
		if parts[0] == role {
			out = append(out, domain.Permission{Role: parts[0], Module: parts[1], Action: parts[2]})
		}
	}
	return out, nil
}

// Tests

func TestRegisterUser(t *testing.T) {
	repo := newFakeUserRepo()
	h := NewRegisterUserHandler(repo)

	u, err := h.Handle(RegisterUserCommand{
		Username: "alice",
		Email:    "Alice@Example.COM",
		Password: "hunter22",
		FullName: "Alice Smith",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if u.Role != domain.RoleUser {
		t.Errorf("role = %q, want user default", u.Role)
	}
	if !u.IsActive {
		t.Error("new user should be active")
	}
	if u.Email != "alice@example.com" {
		t.Errorf("email should be lowercased, got %q", u.Email)
	}
	if u.Password == "hunter22" {
		t.Error("password must be stored hashed")
	}
	if !auth.CheckPassword(u.Password, "hunter22") {
		t.Error("stored hash should verify against the original password")
	}
}

func TestRegisterUserValidation(t *testing.T) {
	repo := newFakeUserRepo()
	h := NewRegisterUserHandler(repo)

	tests := []struct {
		name string
		cmd  RegisterUserCommand
	}{
		{"missing username", RegisterUserCommand{Email: "a@b.c", Password: "secret1"}},
		{"missing email", RegisterUserCommand{Username: "a", Password: "secret1"}},
		{"short password", RegisterUserCommand{Username: "a", Email: "a@b.c", Password: "short"}},
		{"bad role", RegisterUserCommand{Username: "a", Email: "a@b.c", Password: "secret1", Role: "owner"}},
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

func TestRegisterUserDuplicates(t *testing.T) {
	repo := newFakeUserRepo()
	h := NewRegisterUserHandler(repo)

	if _, err := h.Handle(RegisterUserCommand{Username: "alice", Email: "alice@example.com", Password: "hunter22"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := h.Handle(RegisterUserCommand{Username: "alice", Email: "other@example.com", Password: "hunter22"})
	if _, ok := apperrors.IsConflictError(err); !ok {
		t.Errorf("expected ConflictError for duplicate username, got %T", err)
	}

	_, err = h.Handle(RegisterUserCommand{Username: "bob", Email: "alice@example.com", Password: "hunter22"})
	if _, ok := apperrors.IsConflictError(err); !ok {
		t.Errorf("expected ConflictError for duplicate email, got %T", err)
	}
}

func TestLoginUser(t *testing.T) {
	repo := newFakeUserRepo()
	if _, err := NewRegisterUserHandler(repo).Handle(RegisterUserCommand{
		Username: "alice", Email: "alice@example.com", Password: "hunter22",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h := NewLoginUserHandler(repo)

	resp, err := h.Handle(LoginUserCommand{Username: "alice", Password: "hunter22"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}

	claims, err := auth.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("issued token should validate: %v", err)
	}
	if claims.Username != "alice" || claims.Role != domain.RoleUser {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestLoginUserFailures(t *testing.T) {
	repo := newFakeUserRepo()
	registered, err := NewRegisterUserHandler(repo).Handle(RegisterUserCommand{
		Username: "alice", Email: "alice@example.com", Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h := NewLoginUserHandler(repo)

	// Wrong password and unknown user both yield the same opaque failure
	if _, err := h.Handle(LoginUserCommand{Username: "alice", Password: "wrong"}); err == nil {
		t.Error("expected error for wrong password")
	} else if err.Error() != "invalid credentials" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if _, err := h.Handle(LoginUserCommand{Username: "nobody", Password: "hunter22"}); err == nil {
		t.Error("expected error for unknown user")
	} else if err.Error() != "invalid credentials" {
		t.Errorf("unexpected message: %q", err.Error())
	}

	if _, err := NewToggleActiveHandler(repo).Handle(ToggleActiveCommand{UserID: registered.ID, IsActive: false}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := h.Handle(LoginUserCommand{Username: "alice", Password: "hunter22"}); err == nil {
		t.Error("expected error for deactivated account")
	}
}

func TestChangeRole(t *testing.T) {
	repo := newFakeUserRepo()
	registered, _ := NewRegisterUserHandler(repo).Handle(RegisterUserCommand{
		Username: "alice", Email: "alice@example.com", Password: "hunter22",
	})
	h := NewChangeRoleHandler(repo)

	u, err := h.Handle(ChangeRoleCommand{UserID: registered.ID, Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Role != domain.RoleAdmin {
		t.Errorf("role = %q, want admin", u.Role)
	}

	if _, err := h.Handle(ChangeRoleCommand{UserID: registered.ID, Role: "owner"}); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestGrantAndRevokePermission(t *testing.T) {
	repo := newFakeUserRepo()
	grant := NewGrantPermissionHandler(repo)
	revoke := NewRevokePermissionHandler(repo)

	perm, err := grant.Handle(GrantPermissionCommand{
		Role: domain.RoleUser, Module: domain.ModuleProducts, Action: domain.ActionCreate,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if perm.Role != domain.RoleUser {
		t.Errorf("unexpected permission: %+v", perm)
	}

	ok, err := repo.HasPermission(domain.RoleUser, domain.ModuleProducts, domain.ActionCreate)
	if err != nil || !ok {
		t.Errorf("expected permission to be granted, ok=%v err=%v", ok, err)
	}

	_, err = grant.Handle(GrantPermissionCommand{
		Role: domain.RoleUser, Module: domain.ModuleProducts, Action: domain.ActionCreate,
	})
	if _, isConflict := apperrors.IsConflictError(err); !isConflict {
		t.Errorf("expected ConflictError for duplicate grant, got %T", err)
	}

	if err := revoke.Handle(RevokePermissionCommand{
		Role: domain.RoleUser, Module: domain.ModuleProducts, Action: domain.ActionCreate,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = revoke.Handle(RevokePermissionCommand{
		Role: domain.RoleUser, Module: domain.ModuleProducts, Action: domain.ActionCreate,
	})
	if _, isNotFound := apperrors.IsNotFoundError(err); !isNotFound {
		t.Errorf("expected NotFoundError for revoking absent permission, got %T", err)
	}
}

func TestGrantPermissionAdminRejected(t *testing.T) {
	repo := newFakeUserRepo()

	_, err := NewGrantPermissionHandler(repo).Handle(GrantPermissionCommand{
		Role: domain.RoleAdmin, Module: domain.ModuleProducts, Action: domain.ActionCreate,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := apperrors.IsValidationError(err); !ok {
		t.Errorf("expected ValidationError, got %T", err)
	}
}
