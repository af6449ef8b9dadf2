package dataset

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is one row of the customer table.
type Customer struct {
	CustomerID   int64  `json:"customer_id" yaml:"customer_id"`
	Name         string `json:"name" yaml:"name"`
	Region       string `json:"region" yaml:"region"`
	CustomerType string `json:"customer_type" yaml:"customer_type"`
}

// Order is one row of the order table. A row IS the order: every order
// carries exactly one product and quantity (single-line-item model).
type Order struct {
	OrderID    int64     `json:"order_id" yaml:"order_id"`
	CustomerID int64     `json:"customer_id" yaml:"customer_id"`
	ProductID  string    `json:"product_id" yaml:"product_id"`
	Quantity   int64     `json:"quantity" yaml:"quantity"`
	OrderDate  time.Time `json:"order_date" yaml:"order_date"`
}

// StageEvent is one stage transition in an order's fulfillment lifecycle.
// EndTime is never before StartTime in well-formed source data; the engine
// does not deduplicate repeated stage labels.
type StageEvent struct {
	OrderID   int64     `json:"order_id" yaml:"order_id"`
	Stage     string    `json:"stage" yaml:"stage"`
	StartTime time.Time `json:"start_time" yaml:"start_time"`
	EndTime   time.Time `json:"end_time" yaml:"end_time"`
}

// Product is one row of the product catalog.
type Product struct {
	ProductID string          `json:"product_id" yaml:"product_id"`
	Name      string          `json:"name" yaml:"name"`
	Category  string          `json:"category" yaml:"category"`
	Price     decimal.Decimal `json:"price" yaml:"price"`
}

// OrderLine is the derived row-per-order-line view produced by the join
// utility. LineTotal is quantity × price; it is null (Valid=false) when the
// order references a product absent from the catalog, so one bad row does
// not abort an aggregate report.
type OrderLine struct {
	OrderID    int64               `json:"order_id"`
	CustomerID int64               `json:"customer_id"`
	ProductID  string              `json:"product_id"`
	Quantity   int64               `json:"quantity"`
	OrderDate  time.Time           `json:"order_date"`
	Product    *Product            `json:"product,omitempty"`
	LineTotal  decimal.NullDecimal `json:"line_total"`
}

// Tables bundles the four source tables loaded by a storage repository.
// Instances are immutable after construction; components hold read-only
// views and a changed dataset means loading a fresh snapshot.
type Tables struct {
	SnapshotID string
	LoadedAt   time.Time

	Customers []Customer
	Orders    []Order
	Events    []StageEvent
	Products  []Product
}

// NewTables stamps a loaded dataset with a snapshot identity.
func NewTables(customers []Customer, orders []Order, events []StageEvent, products []Product) *Tables {
	return &Tables{
		SnapshotID: uuid.New().String(),
		LoadedAt:   time.Now().UTC(),
		Customers:  customers,
		Orders:     orders,
		Events:     events,
		Products:   products,
	}
}
