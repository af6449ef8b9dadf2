package lifecycle

import (
	"fmt"
	"strings"
)

// NoEventsError is returned when an order has no lifecycle events at all.
// That is a data-integrity anomaly, not a legitimate zero duration, so it
// surfaces as an explicit failure rather than a neutral value.
type NoEventsError struct {
	OrderID int64
}

func (e *NoEventsError) Error() string {
	return fmt.Sprintf("order %d has no lifecycle events", e.OrderID)
}

// StageNotFoundError is returned when a stage label does not appear in the
// order's observed stage set. It carries the valid set so callers can
// surface actionable detail.
type StageNotFoundError struct {
	OrderID     int64
	Stage       string
	ValidStages []string
}

func (e *StageNotFoundError) Error() string {
	return fmt.Sprintf("stage %q not found for order %d (valid stages: %s)",
		e.Stage, e.OrderID, strings.Join(e.ValidStages, ", "))
}

// ZeroDurationError is returned when a stage percentage is requested for an
// order whose total duration is zero. The ratio is undefined; returning it
// as an error keeps NaN/Inf out of results.
type ZeroDurationError struct {
	OrderID int64
}

func (e *ZeroDurationError) Error() string {
	return fmt.Sprintf("order %d has zero total duration; stage percentage is undefined", e.OrderID)
}
