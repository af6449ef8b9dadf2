// Package cohort answers group-level questions over the full dataset:
// region-scoped customer lookup, top customers and products by spend, and
// average spend per customer or per order, each optionally restricted to a
// region and/or an inclusive order-date window.
package cohort

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/orderlens-lab/orderlens/internal/core/dataset"
	"github.com/shopspring/decimal"
)

// RegionNotFoundError is returned when a region value never appears in the
// customer table. The check is against the table's known region set, not
// the filtered result: a valid region with zero orders is not an error.
type RegionNotFoundError struct {
	Region       string
	ValidRegions []string
}

func (e *RegionNotFoundError) Error() string {
	return fmt.Sprintf("region %q not found (valid regions: %s)",
		e.Region, strings.Join(e.ValidRegions, ", "))
}

// Filter restricts group queries to a cohort. An empty Region and nil
// bounds leave that dimension unrestricted; bounds are inclusive.
type Filter struct {
	Region string
	Start  *time.Time
	End    *time.Time
}

// CustomerSpend is one customer's summed line totals joined back to the
// customer's attributes.
type CustomerSpend struct {
	CustomerID   int64           `json:"customer_id"`
	Name         string          `json:"name"`
	Region       string          `json:"region"`
	CustomerType string          `json:"customer_type"`
	Spend        decimal.Decimal `json:"spend"`
}

// ProductSpend is one product's summed line totals joined back to the
// catalog attributes.
type ProductSpend struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Spend     decimal.Decimal `json:"spend"`
}

// Group wraps the full four tables. The group-wide order↔product join runs
// exactly once at construction and is shared by every query operation; the
// views are immutable after construction.
type Group struct {
	customers     []dataset.Customer
	customersByID map[int64]dataset.Customer
	lines         []dataset.OrderLine
	regions       map[string]bool
}

// New precomputes the group-wide join and index structures from a dataset
// snapshot.
func New(tables *dataset.Tables) *Group {
	byID := make(map[int64]dataset.Customer, len(tables.Customers))
	regions := make(map[string]bool)
	for _, c := range tables.Customers {
		byID[c.CustomerID] = c
		regions[c.Region] = true
	}

	return &Group{
		customers:     tables.Customers,
		customersByID: byID,
		lines:         dataset.MergeOrderLines(tables.Orders, tables.Products),
		regions:       regions,
	}
}

// CustomersInRegion returns the customers whose region equals region.
func (g *Group) CustomersInRegion(region string) ([]dataset.Customer, error) {
	if err := g.validateRegion(region); err != nil {
		return nil, err
	}

	var out []dataset.Customer
	for _, c := range g.customers {
		if c.Region == region {
			out = append(out, c)
		}
	}
	return out, nil
}

// TopCustomers ranks customers by summed line totals after applying the
// filter, descending, and returns the top n joined to customer attributes.
// Ties break by ascending customer ID. Customers with no matching order
// lines do not rank.
func (g *Group) TopCustomers(n int, f Filter) ([]CustomerSpend, error) {
	lines, err := g.filteredLines(f)
	if err != nil {
		return nil, err
	}

	byCustomer := make(map[int64]decimal.Decimal)
	for _, l := range lines {
		if !l.LineTotal.Valid {
			continue
		}
		byCustomer[l.CustomerID] = byCustomer[l.CustomerID].Add(l.LineTotal.Decimal)
	}

	ranked := make([]CustomerSpend, 0, len(byCustomer))
	for id, spend := range byCustomer {
		row := CustomerSpend{CustomerID: id, Spend: spend.Round(2)}
		if c, ok := g.customersByID[id]; ok {
			row.Name = c.Name
			row.Region = c.Region
			row.CustomerType = c.CustomerType
		}
		ranked = append(ranked, row)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if !ranked[i].Spend.Equal(ranked[j].Spend) {
			return ranked[i].Spend.GreaterThan(ranked[j].Spend)
		}
		return ranked[i].CustomerID < ranked[j].CustomerID
	})

	return truncate(ranked, n), nil
}

// TopProducts ranks products by summed line totals after applying the
// filter, descending, top n. The region restriction is scoped through the
// customers geographically associated with each order, not an attribute of
// the product itself. Ties break by ascending product ID.
func (g *Group) TopProducts(n int, f Filter) ([]ProductSpend, error) {
	lines, err := g.filteredLines(f)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[string]*ProductSpend)
	for _, l := range lines {
		if !l.LineTotal.Valid {
			continue
		}
		row, ok := byProduct[l.ProductID]
		if !ok {
			row = &ProductSpend{ProductID: l.ProductID}
			if l.Product != nil {
				row.Name = l.Product.Name
				row.Category = l.Product.Category
			}
			byProduct[l.ProductID] = row
		}
		row.Spend = row.Spend.Add(l.LineTotal.Decimal)
	}

	ranked := make([]ProductSpend, 0, len(byProduct))
	for _, row := range byProduct {
		row.Spend = row.Spend.Round(2)
		ranked = append(ranked, *row)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if !ranked[i].Spend.Equal(ranked[j].Spend) {
			return ranked[i].Spend.GreaterThan(ranked[j].Spend)
		}
		return ranked[i].ProductID < ranked[j].ProductID
	})

	return truncate(ranked, n), nil
}

// AvgCustomerSpend is the mean of per-customer summed line totals after
// applying the filter, rounded to 2 decimals. No matching rows yields a
// defined zero, so "no activity" is distinguishable from a computation
// error only by the absence of an error.
func (g *Group) AvgCustomerSpend(f Filter) (decimal.Decimal, error) {
	lines, err := g.filteredLines(f)
	if err != nil {
		return decimal.Zero, err
	}

	byCustomer := make(map[int64]decimal.Decimal)
	for _, l := range lines {
		if !l.LineTotal.Valid {
			continue
		}
		byCustomer[l.CustomerID] = byCustomer[l.CustomerID].Add(l.LineTotal.Decimal)
	}
	if len(byCustomer) == 0 {
		return decimal.Zero, nil
	}

	sum := decimal.Zero
	for _, spend := range byCustomer {
		sum = sum.Add(spend)
	}
	return sum.Div(decimal.NewFromInt(int64(len(byCustomer)))).Round(2), nil
}

// AvgOrderValue is the mean of per-order summed line totals inside the
// inclusive date window, rounded to 2 decimals. No matching orders yields a
// defined zero.
func (g *Group) AvgOrderValue(start, end *time.Time) decimal.Decimal {
	lines := dataset.FilterLinesByDate(g.lines, start, end)

	byOrder := make(map[int64]decimal.Decimal)
	for _, l := range lines {
		if !l.LineTotal.Valid {
			continue
		}
		byOrder[l.OrderID] = byOrder[l.OrderID].Add(l.LineTotal.Decimal)
	}
	if len(byOrder) == 0 {
		return decimal.Zero
	}

	sum := decimal.Zero
	for _, total := range byOrder {
		sum = sum.Add(total)
	}
	return sum.Div(decimal.NewFromInt(int64(len(byOrder)))).Round(2)
}

// Regions returns the known region set, sorted.
func (g *Group) Regions() []string {
	regions := make([]string, 0, len(g.regions))
	for r := range g.regions {
		regions = append(regions, r)
	}
	sort.Strings(regions)
	return regions
}

func (g *Group) validateRegion(region string) error {
	if !g.regions[region] {
		return &RegionNotFoundError{Region: region, ValidRegions: g.Regions()}
	}
	return nil
}

// filteredLines applies the region restriction (through customer
// membership) and then the date window to the precomputed join.
func (g *Group) filteredLines(f Filter) ([]dataset.OrderLine, error) {
	lines := g.lines

	if f.Region != "" {
		if err := g.validateRegion(f.Region); err != nil {
			return nil, err
		}
		inRegion := make(map[int64]bool)
		for _, c := range g.customers {
			if c.Region == f.Region {
				inRegion[c.CustomerID] = true
			}
		}
		scoped := make([]dataset.OrderLine, 0, len(lines))
		for _, l := range lines {
			if inRegion[l.CustomerID] {
				scoped = append(scoped, l)
			}
		}
		lines = scoped
	}

	return dataset.FilterLinesByDate(lines, f.Start, f.End), nil
}

func truncate[T any](s []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}
