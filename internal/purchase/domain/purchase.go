package domain

import (
	"math"
	"time"

	"gorm.io/gorm"
)

// Purchase statuses. Transitions are free-form; the stock effect depends only
// on whether a state is or was completed.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// ValidStatus reports whether s is a member of the purchase status enum
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Supported currencies
const (
	CurrencyUSD = "USD"
	CurrencyAED = "AED"
	CurrencyGBP = "GBP"
)

// ValidCurrency reports whether c is a supported currency
func ValidCurrency(c string) bool {
	switch c {
	case CurrencyUSD, CurrencyAED, CurrencyGBP:
		return true
	}
	return false
}

// Quantity bounds
const (
	MinQuantity = 1
	MaxQuantity = 999999
)

// Purchase represents an inbound stock purchase. TotalAmount is always the
// product of quantity and cost price; it is recomputed before every persist
// and a stored mismatch is rejected. Version guards updates the same way the
// product's does: the stock effect of a transition is computed from the state
// the caller read, so the row write must fail if that state has moved on.
type Purchase struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Currency    string         `json:"currency" gorm:"not null;default:'USD'"`
	Quantity    int            `json:"quantity" gorm:"not null"`
	CostPrice   float64        `json:"cost_price" gorm:"not null"`
	TotalAmount float64        `json:"total_amount" gorm:"not null"`
	Status      string         `json:"status" gorm:"not null;default:'pending'"`
	Version     int            `json:"version" gorm:"not null;default:1"`
	VendorID    *uint          `json:"vendor_id" gorm:"index"`
	ProductID   uint           `json:"product_id" gorm:"not null;index"`
	UserID      uint           `json:"user_id" gorm:"not null;index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Purchase) TableName() string {
	return "purchases"
}

// IsCompleted reports whether the purchase currently contributes stock
func (p *Purchase) IsCompleted() bool {
	return p.Status == StatusCompleted
}

// ComputeTotal derives totalAmount from quantity and cost price, rounded to
// two decimal places
func ComputeTotal(quantity int, costPrice float64) float64 {
	return math.Round(float64(quantity)*costPrice*100) / 100
}

// PurchaseRepository defines the contract for purchase data access. Update
// carries the caller's expected version; the implementation must reject the
// write when the row has moved on. The product collaboration methods exist so
// purchase lifecycle transactions can move product stock without crossing
// repository boundaries mid-transaction; AdjustProductStock must be a single
// atomic conditional statement.
type PurchaseRepository interface {
	Create(purchase *Purchase) error
	FindByID(id uint) (*Purchase, error)
	FindAll(limit, offset int) ([]Purchase, error)
	FindByStatus(status string, limit, offset int) ([]Purchase, error)
	FindByProductID(productID uint, limit, offset int) ([]Purchase, error)
	Update(purchase *Purchase, expectedVersion int) error
	SoftDelete(id uint) error
	Count() (int64, error)

	ProductExists(productID uint) (bool, error)
	AdjustProductStock(productID uint, delta int) error

	// Transaction runs fn against a transaction-bound repository; any error
	// rolls the whole unit back.
	Transaction(fn func(PurchaseRepository) error) error
}
