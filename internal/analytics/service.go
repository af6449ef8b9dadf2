// Package analytics is the query layer over one dataset snapshot. It wires
// the lifecycle, customer, and cohort engines behind a stable API surface
// and classifies their failures for transport.
package analytics

import (
	"errors"
	"fmt"
	"time"

	"github.com/orderlens-lab/orderlens/internal/core/cohort"
	"github.com/orderlens-lab/orderlens/internal/core/customer"
	"github.com/orderlens-lab/orderlens/internal/core/dataset"
	"github.com/orderlens-lab/orderlens/internal/core/lifecycle"
)

// ErrInvalidQuery marks request validation errors that should map to HTTP 400.
var ErrInvalidQuery = errors.New("invalid analytics query")

// NotFoundError wraps the core's unknown-key and anomalous-data failures
// (unknown customer, unknown stage or region, order without events) so the
// transport layer can map them to HTTP 404 uniformly.
type NotFoundError struct {
	Err error
}

func (e *NotFoundError) Error() string { return e.Err.Error() }
func (e *NotFoundError) Unwrap() error { return e.Err }

// Service answers analytics queries against one immutable dataset
// snapshot. The group-wide join is computed once here and shared by every
// cohort query; per-customer and per-order views are built on demand.
type Service struct {
	tables *dataset.Tables
	group  *cohort.Group
}

// NewService precomputes the cohort group for a loaded snapshot.
func NewService(tables *dataset.Tables) *Service {
	return &Service{
		tables: tables,
		group:  cohort.New(tables),
	}
}

// SnapshotID identifies the dataset snapshot this service answers from.
func (s *Service) SnapshotID() string { return s.tables.SnapshotID }

// Lifecycle returns the full stage-timing breakdown for one order.
func (s *Service) Lifecycle(orderID int64) (*LifecycleResponse, error) {
	lc := lifecycle.New(orderID, s.tables.Events)

	total, err := lc.TotalDuration()
	if err != nil {
		return nil, classify(err)
	}

	stages := lc.Stages()
	timings := make([]StageTiming, 0, len(stages))
	for _, stage := range stages {
		dur, err := lc.StageDuration(stage)
		if err != nil {
			return nil, classify(err)
		}
		timing := StageTiming{Stage: stage, DurationSeconds: dur.Seconds()}
		if total > 0 {
			pct, err := lc.StagePercent(stage)
			if err != nil {
				return nil, classify(err)
			}
			timing.Percent = &pct
		}
		timings = append(timings, timing)
	}

	return &LifecycleResponse{
		SnapshotID:           s.tables.SnapshotID,
		OrderID:              orderID,
		TotalDurationSeconds: total.Seconds(),
		Stages:               timings,
	}, nil
}

// TimeBetween measures the gap between two named stages of one order.
func (s *Service) TimeBetween(orderID int64, from, to string) (*TimeBetweenResponse, error) {
	if from == "" || to == "" {
		return nil, invalidQueryf("both from and to stages are required")
	}

	lc := lifecycle.New(orderID, s.tables.Events)
	gap, err := lc.TimeBetween(from, to)
	if err != nil {
		return nil, classify(err)
	}

	return &TimeBetweenResponse{
		SnapshotID: s.tables.SnapshotID,
		OrderID:    orderID,
		FromStage:  from,
		ToStage:    to,
		Seconds:    gap.Seconds(),
	}, nil
}

// CustomerSummary profiles one customer's order values. For a known
// customer with no orders the statistics fields stay unset; an unknown
// customer is a not-found failure.
func (s *Service) CustomerSummary(customerID int64) (*CustomerSummaryResponse, error) {
	row, err := s.findCustomer(customerID)
	if err != nil {
		return nil, err
	}

	a := customer.New(customerID, s.tables.Orders, s.tables.Events, s.tables.Products)
	resp := &CustomerSummaryResponse{
		SnapshotID:   s.tables.SnapshotID,
		CustomerID:   customerID,
		Name:         row.Name,
		Region:       row.Region,
		CustomerType: row.CustomerType,
		OrderCount:   a.OrderCount(),
		TotalSpend:   a.TotalSpend(),
	}

	if resp.OrderCount > 0 {
		avg, err := a.AvgOrderValue()
		if err != nil {
			return nil, classify(err)
		}
		maxOrder, err := a.MaxOrder()
		if err != nil {
			return nil, classify(err)
		}
		minOrder, err := a.MinOrder()
		if err != nil {
			return nil, classify(err)
		}
		resp.AvgOrderValue = &avg
		resp.MaxOrder = &maxOrder
		resp.MinOrder = &minOrder
	}

	return resp, nil
}

// OrderTotal sums one order's line totals for a customer. An order with no
// matching lines totals a defined zero.
func (s *Service) OrderTotal(customerID, orderID int64) (*OrderTotalResponse, error) {
	if _, err := s.findCustomer(customerID); err != nil {
		return nil, err
	}

	a := customer.New(customerID, s.tables.Orders, s.tables.Events, s.tables.Products)
	return &OrderTotalResponse{
		SnapshotID: s.tables.SnapshotID,
		CustomerID: customerID,
		OrderID:    orderID,
		Total:      a.OrderTotal(orderID),
	}, nil
}

// FrequentProducts lists the products one customer orders most.
func (s *Service) FrequentProducts(customerID int64) (*FrequentProductsResponse, error) {
	if _, err := s.findCustomer(customerID); err != nil {
		return nil, err
	}

	a := customer.New(customerID, s.tables.Orders, s.tables.Events, s.tables.Products)
	return &FrequentProductsResponse{
		SnapshotID: s.tables.SnapshotID,
		CustomerID: customerID,
		Products:   a.MostFrequent(),
	}, nil
}

// CustomersInRegion lists the customers in one region.
func (s *Service) CustomersInRegion(region string) (*RegionCustomersResponse, error) {
	customers, err := s.group.CustomersInRegion(region)
	if err != nil {
		return nil, classify(err)
	}
	return &RegionCustomersResponse{
		SnapshotID: s.tables.SnapshotID,
		Region:     region,
		Customers:  customers,
	}, nil
}

// TopCustomers ranks customers by spend inside a cohort.
func (s *Service) TopCustomers(n int, f cohort.Filter) (*TopCustomersResponse, error) {
	if n <= 0 {
		return nil, invalidQueryf("n must be > 0, got %d", n)
	}
	ranked, err := s.group.TopCustomers(n, f)
	if err != nil {
		return nil, classify(err)
	}
	return &TopCustomersResponse{
		SnapshotID: s.tables.SnapshotID,
		Window:     window(f),
		Customers:  ranked,
	}, nil
}

// TopProducts ranks products by spend inside a cohort.
func (s *Service) TopProducts(n int, f cohort.Filter) (*TopProductsResponse, error) {
	if n <= 0 {
		return nil, invalidQueryf("n must be > 0, got %d", n)
	}
	ranked, err := s.group.TopProducts(n, f)
	if err != nil {
		return nil, classify(err)
	}
	return &TopProductsResponse{
		SnapshotID: s.tables.SnapshotID,
		Window:     window(f),
		Products:   ranked,
	}, nil
}

// AvgCustomerSpend is the cohort's mean per-customer spend; zero when the
// cohort has no activity.
func (s *Service) AvgCustomerSpend(f cohort.Filter) (*AverageResponse, error) {
	avg, err := s.group.AvgCustomerSpend(f)
	if err != nil {
		return nil, classify(err)
	}
	return &AverageResponse{
		SnapshotID: s.tables.SnapshotID,
		Window:     window(f),
		Value:      avg,
	}, nil
}

// AvgOrderValue is the mean per-order total inside a date window; zero
// when no orders match.
func (s *Service) AvgOrderValue(start, end *time.Time) (*AverageResponse, error) {
	return &AverageResponse{
		SnapshotID: s.tables.SnapshotID,
		Window:     CohortWindow{Start: start, End: end},
		Value:      s.group.AvgOrderValue(start, end),
	}, nil
}

func (s *Service) findCustomer(customerID int64) (dataset.Customer, error) {
	for _, c := range s.tables.Customers {
		if c.CustomerID == customerID {
			return c, nil
		}
	}
	return dataset.Customer{}, &NotFoundError{Err: fmt.Errorf("customer %d not found", customerID)}
}

// classify sorts core failures into the transport taxonomy: unknown keys
// and anomalous data are not-found, everything else passes through.
func classify(err error) error {
	var (
		stageErr  *lifecycle.StageNotFoundError
		noEvents  *lifecycle.NoEventsError
		zeroDur   *lifecycle.ZeroDurationError
		regionErr *cohort.RegionNotFoundError
		noOrders  *customer.NoOrdersError
	)
	switch {
	case errors.As(err, &stageErr),
		errors.As(err, &noEvents),
		errors.As(err, &regionErr),
		errors.As(err, &noOrders):
		return &NotFoundError{Err: err}
	case errors.As(err, &zeroDur):
		return fmt.Errorf("%w: %s", ErrInvalidQuery, err.Error())
	default:
		return err
	}
}

func window(f cohort.Filter) CohortWindow {
	return CohortWindow{Region: f.Region, Start: f.Start, End: f.End}
}

func invalidQueryf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}
