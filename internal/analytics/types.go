package analytics

import (
	"time"

	"github.com/orderlens-lab/orderlens/internal/core/cohort"
	"github.com/orderlens-lab/orderlens/internal/core/customer"
	"github.com/orderlens-lab/orderlens/internal/core/dataset"
	"github.com/shopspring/decimal"
)

// StageTiming is one stage's share of an order's lifecycle. Percent is
// omitted when the order's total duration is zero and the ratio is
// undefined.
type StageTiming struct {
	Stage           string   `json:"stage"`
	DurationSeconds float64  `json:"duration_seconds"`
	Percent         *float64 `json:"percent,omitempty"`
}

// LifecycleResponse is the full stage-timing breakdown of one order.
type LifecycleResponse struct {
	SnapshotID           string        `json:"snapshot_id"`
	OrderID              int64         `json:"order_id"`
	TotalDurationSeconds float64       `json:"total_duration_seconds"`
	Stages               []StageTiming `json:"stages"`
}

// TimeBetweenResponse reports the gap between two named stages: the start
// of the first occurrence of "from" minus the end of the first occurrence
// of "to". Negative values are expected when "to" ends after "from" starts.
type TimeBetweenResponse struct {
	SnapshotID string  `json:"snapshot_id"`
	OrderID    int64   `json:"order_id"`
	FromStage  string  `json:"from_stage"`
	ToStage    string  `json:"to_stage"`
	Seconds    float64 `json:"seconds"`
}

// CustomerSummaryResponse is one customer's order-value profile. The
// average/max/min fields are omitted for a customer with no orders, where
// those statistics are undefined.
type CustomerSummaryResponse struct {
	SnapshotID    string               `json:"snapshot_id"`
	CustomerID    int64                `json:"customer_id"`
	Name          string               `json:"name"`
	Region        string               `json:"region"`
	CustomerType  string               `json:"customer_type"`
	OrderCount    int                  `json:"order_count"`
	TotalSpend    decimal.Decimal      `json:"total_spend"`
	AvgOrderValue *decimal.Decimal     `json:"avg_order_value,omitempty"`
	MaxOrder      *customer.OrderValue `json:"max_order,omitempty"`
	MinOrder      *customer.OrderValue `json:"min_order,omitempty"`
}

// OrderTotalResponse is one order's summed line total for a customer.
type OrderTotalResponse struct {
	SnapshotID string          `json:"snapshot_id"`
	CustomerID int64           `json:"customer_id"`
	OrderID    int64           `json:"order_id"`
	Total      decimal.Decimal `json:"total"`
}

// FrequentProductsResponse lists the products a customer orders most.
type FrequentProductsResponse struct {
	SnapshotID string                      `json:"snapshot_id"`
	CustomerID int64                       `json:"customer_id"`
	Products   []customer.ProductFrequency `json:"products"`
}

// RegionCustomersResponse lists the customers in one region.
type RegionCustomersResponse struct {
	SnapshotID string             `json:"snapshot_id"`
	Region     string             `json:"region"`
	Customers  []dataset.Customer `json:"customers"`
}

// CohortWindow echoes the filter a ranking or average was computed under.
type CohortWindow struct {
	Region string     `json:"region,omitempty"`
	Start  *time.Time `json:"start,omitempty"`
	End    *time.Time `json:"end,omitempty"`
}

// TopCustomersResponse ranks customers by spend inside a cohort.
type TopCustomersResponse struct {
	SnapshotID string                 `json:"snapshot_id"`
	Window     CohortWindow           `json:"window"`
	Customers  []cohort.CustomerSpend `json:"customers"`
}

// TopProductsResponse ranks products by spend inside a cohort.
type TopProductsResponse struct {
	SnapshotID string                `json:"snapshot_id"`
	Window     CohortWindow          `json:"window"`
	Products   []cohort.ProductSpend `json:"products"`
}

// AverageResponse carries one cohort-level average. A zero value with no
// error means "no activity", which is a defined answer for spend-style
// aggregates.
type AverageResponse struct {
	SnapshotID string          `json:"snapshot_id"`
	Window     CohortWindow    `json:"window"`
	Value      decimal.Decimal `json:"value"`
}
