// Package lifecycle reconstructs the ordered stage-transition sequence for a
// single order and derives durations, inter-stage gaps, and stage-time
// percentages from it.
package lifecycle

import (
	"sort"
	"time"

	"github.com/orderlens-lab/orderlens/internal/core/dataset"
	"github.com/shopspring/decimal"
)

// Lifecycle is the stage-transition view of one order: the order's events
// filtered from the full event table and sorted by start time ascending.
// That sorted view is the component's sole state and is immutable after
// construction.
type Lifecycle struct {
	orderID int64
	events  []dataset.StageEvent
}

// New builds the lifecycle view for orderID from the full event table.
// The sort is stable so events sharing a start time keep their source order.
func New(orderID int64, events []dataset.StageEvent) *Lifecycle {
	var own []dataset.StageEvent
	for _, e := range events {
		if e.OrderID == orderID {
			own = append(own, e)
		}
	}
	sort.SliceStable(own, func(i, j int) bool {
		return own[i].StartTime.Before(own[j].StartTime)
	})
	return &Lifecycle{orderID: orderID, events: own}
}

// OrderID returns the order this lifecycle describes.
func (l *Lifecycle) OrderID() int64 { return l.orderID }

// Events returns the sorted event view. Callers must treat it as read-only.
func (l *Lifecycle) Events() []dataset.StageEvent { return l.events }

// Stages returns the distinct stage labels observed for this order, in
// first-occurrence order.
func (l *Lifecycle) Stages() []string {
	seen := make(map[string]bool, len(l.events))
	var stages []string
	for _, e := range l.events {
		if !seen[e.Stage] {
			seen[e.Stage] = true
			stages = append(stages, e.Stage)
		}
	}
	return stages
}

// TotalDuration is the end time of the last sorted event minus the start
// time of the first. An order with no events yields a NoEventsError.
func (l *Lifecycle) TotalDuration() (time.Duration, error) {
	if len(l.events) == 0 {
		return 0, &NoEventsError{OrderID: l.orderID}
	}
	first := l.events[0]
	last := l.events[len(l.events)-1]
	return last.EndTime.Sub(first.StartTime), nil
}

// TimeBetween returns the start time of the first occurrence of stage1
// minus the end time of the first occurrence of stage2, in that order. The
// result is negative when stage2 ends after stage1 starts; that is
// intentional and not guarded. Both labels must appear in this order's
// observed stage set.
func (l *Lifecycle) TimeBetween(stage1, stage2 string) (time.Duration, error) {
	first1, err := l.firstOccurrence(stage1)
	if err != nil {
		return 0, err
	}
	first2, err := l.firstOccurrence(stage2)
	if err != nil {
		return 0, err
	}
	return first1.StartTime.Sub(first2.EndTime), nil
}

// StageDuration is the end time of the last occurrence of stage minus the
// start time of its first occurrence. A stage spanning multiple
// non-contiguous rows gets the full enclosing span, not a sum of individual
// spans. That handles re-entrant stage rows deterministically without
// assuming one row per stage.
func (l *Lifecycle) StageDuration(stage string) (time.Duration, error) {
	first, err := l.firstOccurrence(stage)
	if err != nil {
		return 0, err
	}
	last := first
	for _, e := range l.events {
		if e.Stage == stage {
			last = e
		}
	}
	return last.EndTime.Sub(first.StartTime), nil
}

// StagePercent is 100 × StageDuration/TotalDuration, rounded to 2 decimal
// places. A zero total duration makes the ratio undefined and yields a
// ZeroDurationError rather than a NaN or Inf.
func (l *Lifecycle) StagePercent(stage string) (float64, error) {
	stageDur, err := l.StageDuration(stage)
	if err != nil {
		return 0, err
	}
	totalDur, err := l.TotalDuration()
	if err != nil {
		return 0, err
	}
	if totalDur == 0 {
		return 0, &ZeroDurationError{OrderID: l.orderID}
	}

	pct := decimal.NewFromFloat(stageDur.Seconds()).
		Div(decimal.NewFromFloat(totalDur.Seconds())).
		Mul(decimal.NewFromInt(100)).
		Round(2)
	return pct.InexactFloat64(), nil
}

func (l *Lifecycle) firstOccurrence(stage string) (dataset.StageEvent, error) {
	for _, e := range l.events {
		if e.Stage == stage {
			return e, nil
		}
	}
	return dataset.StageEvent{}, &StageNotFoundError{
		OrderID:     l.orderID,
		Stage:       stage,
		ValidStages: l.Stages(),
	}
}
