package domain

import (
	"time"

	"gorm.io/gorm"
)

// Role types
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRole reports whether r is a known role
func ValidRole(r string) bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents an authenticated operator of the admin API
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Username  string         `json:"username" gorm:"uniqueIndex;not null"`
	Email     string         `json:"email" gorm:"uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"not null"`
	FullName  string         `json:"full_name" gorm:"not null"`
	Role      string         `json:"role" gorm:"not null;default:'user'"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// IsAdmin checks if user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Permission grants a role one action on one module. Admins bypass the
// table entirely.
type Permission struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Role      string    `json:"role" gorm:"not null;uniqueIndex:idx_role_module_action"`
	Module    string    `json:"module" gorm:"not null;uniqueIndex:idx_role_module_action"`
	Action    string    `json:"action" gorm:"not null;uniqueIndex:idx_role_module_action"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (Permission) TableName() string {
	return "permissions"
}

// Known permission modules
const (
	ModuleProducts  = "products"
	ModulePurchases = "purchases"
	ModuleTaxonomy  = "taxonomy"
	ModuleUsers     = "users"
)

// Known permission actions
const (
	ActionCreate  = "create"
	ActionRead    = "read"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionRestore = "restore"
)

// UserRepository defines the contract for user and permission data access
type UserRepository interface {
	Create(user *User) error
	FindByID(id uint) (*User, error)
	FindByUsername(username string) (*User, error)
	FindByEmail(email string) (*User, error)
	FindAll(limit, offset int) ([]User, error)
	Update(user *User) error
	Delete(id uint) error
	Count() (int64, error)

	HasPermission(role, module, action string) (bool, error)
	GrantPermission(perm *Permission) error
	RevokePermission(role, module, action string) error
	ListPermissions(role string) ([]Permission, error)
}
