// Package customer analyzes a single customer's order history: order
// counts, per-order and total spend, order-value statistics, and the
// products the customer orders most.
package customer

import (
	"fmt"
	"sort"

	"github.com/orderlens-lab/orderlens/internal/core/dataset"
	"github.com/shopspring/decimal"
)

// NoOrdersError is returned by order-value statistics when the customer has
// no orders at all. An average over zero orders is undefined, not zero.
type NoOrdersError struct {
	CustomerID int64
}

func (e *NoOrdersError) Error() string {
	return fmt.Sprintf("customer %d has no orders", e.CustomerID)
}

// OrderValue is one order's summed line total.
type OrderValue struct {
	OrderID int64           `json:"order_id"`
	Total   decimal.Decimal `json:"total"`
}

// ProductFrequency is how often a customer ordered one product, by total
// quantity across all of their orders.
type ProductFrequency struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name,omitempty"`
	Quantity  int64  `json:"quantity"`
}

// mostFrequentLimit caps MostFrequent at the customer's top products.
const mostFrequentLimit = 10

// Analyzer wraps one customer's orders and events plus the product catalog.
// The order↔product merge runs once at construction and is shared by every
// query; the views are immutable after construction.
type Analyzer struct {
	customerID int64
	orders     []dataset.Order
	events     []dataset.StageEvent
	lines      []dataset.OrderLine
}

// New filters orders to customerID, then events to that customer's order
// IDs, and precomputes the merged order lines.
func New(customerID int64, orders []dataset.Order, events []dataset.StageEvent, products []dataset.Product) *Analyzer {
	var own []dataset.Order
	ownIDs := make(map[int64]bool)
	for _, o := range orders {
		if o.CustomerID == customerID {
			own = append(own, o)
			ownIDs[o.OrderID] = true
		}
	}

	var ownEvents []dataset.StageEvent
	for _, e := range events {
		if ownIDs[e.OrderID] {
			ownEvents = append(ownEvents, e)
		}
	}

	return &Analyzer{
		customerID: customerID,
		orders:     own,
		events:     ownEvents,
		lines:      dataset.MergeOrderLines(own, products),
	}
}

// CustomerID returns the customer this analyzer is scoped to.
func (a *Analyzer) CustomerID() int64 { return a.customerID }

// Events returns the customer's lifecycle events. Callers must treat the
// slice as read-only.
func (a *Analyzer) Events() []dataset.StageEvent { return a.events }

// OrderCount returns the number of distinct orders the customer has placed.
func (a *Analyzer) OrderCount() int {
	ids := make(map[int64]bool, len(a.orders))
	for _, o := range a.orders {
		ids[o.OrderID] = true
	}
	return len(ids)
}

// TotalSpend sums the customer's line totals across all orders, rounded to
// 2 decimals. A customer with no matching lines spends a defined zero.
func (a *Analyzer) TotalSpend() decimal.Decimal {
	return dataset.SumLineTotals(a.lines).Round(2)
}

// OrderTotal sums the line totals of one order, rounded to 2 decimals.
// An order with no matching lines totals zero; zero spend is a valid
// business answer (unlike an order with zero lifecycle events).
func (a *Analyzer) OrderTotal(orderID int64) decimal.Decimal {
	var scoped []dataset.OrderLine
	for _, l := range a.lines {
		if l.OrderID == orderID {
			scoped = append(scoped, l)
		}
	}
	return dataset.SumLineTotals(scoped).Round(2)
}

// AvgOrderValue is the mean of per-order totals, rounded to 2 decimals.
func (a *Analyzer) AvgOrderValue() (decimal.Decimal, error) {
	totals := a.rankedOrderValues()
	if len(totals) == 0 {
		return decimal.Zero, &NoOrdersError{CustomerID: a.customerID}
	}

	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t.Total)
	}
	return sum.Div(decimal.NewFromInt(int64(len(totals)))).Round(2), nil
}

// MaxOrder returns the customer's highest-valued order.
func (a *Analyzer) MaxOrder() (OrderValue, error) {
	totals := a.rankedOrderValues()
	if len(totals) == 0 {
		return OrderValue{}, &NoOrdersError{CustomerID: a.customerID}
	}
	return totals[0], nil
}

// MinOrder returns the customer's lowest-valued order.
func (a *Analyzer) MinOrder() (OrderValue, error) {
	totals := a.rankedOrderValues()
	if len(totals) == 0 {
		return OrderValue{}, &NoOrdersError{CustomerID: a.customerID}
	}
	return totals[len(totals)-1], nil
}

// MostFrequent returns the top 10 products by total quantity ordered by
// this customer, descending. Ties break by ascending product ID.
func (a *Analyzer) MostFrequent() []ProductFrequency {
	byProduct := make(map[string]*ProductFrequency)
	for _, l := range a.lines {
		freq, ok := byProduct[l.ProductID]
		if !ok {
			freq = &ProductFrequency{ProductID: l.ProductID}
			if l.Product != nil {
				freq.Name = l.Product.Name
			}
			byProduct[l.ProductID] = freq
		}
		freq.Quantity += l.Quantity
	}

	ranked := make([]ProductFrequency, 0, len(byProduct))
	for _, f := range byProduct {
		ranked = append(ranked, *f)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Quantity != ranked[j].Quantity {
			return ranked[i].Quantity > ranked[j].Quantity
		}
		return ranked[i].ProductID < ranked[j].ProductID
	})

	if len(ranked) > mostFrequentLimit {
		ranked = ranked[:mostFrequentLimit]
	}
	return ranked
}

// rankedOrderValues groups line totals per order and ranks them descending
// by value, ties broken by ascending order ID.
func (a *Analyzer) rankedOrderValues() []OrderValue {
	byOrder := make(map[int64]decimal.Decimal)
	for _, l := range a.lines {
		if !l.LineTotal.Valid {
			continue
		}
		byOrder[l.OrderID] = byOrder[l.OrderID].Add(l.LineTotal.Decimal)
	}
	// Orders whose every line was unmatched still count as zero-value orders.
	for _, o := range a.orders {
		if _, ok := byOrder[o.OrderID]; !ok {
			byOrder[o.OrderID] = decimal.Zero
		}
	}

	ranked := make([]OrderValue, 0, len(byOrder))
	for id, total := range byOrder {
		ranked = append(ranked, OrderValue{OrderID: id, Total: total.Round(2)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if !ranked[i].Total.Equal(ranked[j].Total) {
			return ranked[i].Total.GreaterThan(ranked[j].Total)
		}
		return ranked[i].OrderID < ranked[j].OrderID
	})
	return ranked
}
