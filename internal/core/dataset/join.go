package dataset

import "github.com/shopspring/decimal"

// MergeOrderLines joins order rows to product rows on product_id and
// computes LineTotal = quantity × price per row.
//
// The join is a left join: every order row is kept. An order whose product
// is missing from the catalog gets a nil Product and a null LineTotal; it
// stays in the result so downstream aggregates degrade gracefully instead
// of failing the whole computation.
func MergeOrderLines(orders []Order, products []Product) []OrderLine {
	byID := make(map[string]*Product, len(products))
	for i := range products {
		byID[products[i].ProductID] = &products[i]
	}

	lines := make([]OrderLine, 0, len(orders))
	for _, o := range orders {
		line := OrderLine{
			OrderID:    o.OrderID,
			CustomerID: o.CustomerID,
			ProductID:  o.ProductID,
			Quantity:   o.Quantity,
			OrderDate:  o.OrderDate,
		}
		if p, ok := byID[o.ProductID]; ok {
			line.Product = p
			line.LineTotal = decimal.NullDecimal{
				Decimal: p.Price.Mul(decimal.NewFromInt(o.Quantity)),
				Valid:   true,
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// SumLineTotals adds up the valid line totals in a slice of order lines.
// Null totals (unmatched products) are excluded from the sum, mirroring how
// missing values drop out of a grouped sum. An empty slice sums to zero;
// zero spend is a legitimate business answer, not an error.
func SumLineTotals(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		if l.LineTotal.Valid {
			total = total.Add(l.LineTotal.Decimal)
		}
	}
	return total
}
