package kafka

import "time"

// ProductEvent represents a product lifecycle event
type ProductEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	ProductID uint      `json:"product_id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	UserID    uint      `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// StockAdjustedEvent represents a stock level change on a product
type StockAdjustedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	ProductID uint      `json:"product_id"`
	Delta     int       `json:"delta"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeProductCreated = "product.created"
	EventTypeProductDeleted = "product.deleted"
	EventTypeStockAdjusted  = "stock.adjusted"
)

// Kafka topics
const (
	TopicProductLifecycle = "product-lifecycle"
	TopicStockAdjusted    = "stock-adjusted"
)
