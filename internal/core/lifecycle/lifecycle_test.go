package lifecycle

import (
	"testing"
	"time"

	"github.com/orderlens-lab/orderlens/internal/core/dataset"
	"github.com/stretchr/testify/require"
)

func ts(hour, min, sec int) time.Time {
	return time.Date(2024, 7, 1, hour, min, sec, 0, time.UTC)
}

// Order 1's fulfillment trace: placed at 10:00:00, shipped by 10:48:01.
func order1Events() []dataset.StageEvent {
	return []dataset.StageEvent{
		{OrderID: 1, Stage: "placed", StartTime: ts(10, 0, 0), EndTime: ts(10, 1, 3)},
		{OrderID: 1, Stage: "inventory_checked", StartTime: ts(10, 1, 3), EndTime: ts(10, 3, 40)},
		{OrderID: 1, Stage: "processing_started", StartTime: ts(10, 3, 40), EndTime: ts(10, 10, 55)},
		{OrderID: 1, Stage: "packed", StartTime: ts(10, 10, 55), EndTime: ts(10, 22, 1)},
		{OrderID: 1, Stage: "shipped", StartTime: ts(10, 22, 1), EndTime: ts(10, 48, 1)},

		// A second order interleaved in the shared event table.
		{OrderID: 2, Stage: "placed", StartTime: ts(10, 5, 0), EndTime: ts(10, 6, 0)},
		{OrderID: 2, Stage: "shipped", StartTime: ts(11, 0, 0), EndTime: ts(11, 15, 0)},
	}
}

func TestNew_FiltersAndSorts(t *testing.T) {
	// Feed the events out of order; construction must sort by start time.
	events := order1Events()
	events[0], events[4] = events[4], events[0]

	lc := New(1, events)
	require.Equal(t, int64(1), lc.OrderID())
	require.Len(t, lc.Events(), 5)
	require.Equal(t,
		[]string{"placed", "inventory_checked", "processing_started", "packed", "shipped"},
		lc.Stages(),
	)
}

func TestTotalDuration(t *testing.T) {
	lc := New(1, order1Events())
	d, err := lc.TotalDuration()
	require.NoError(t, err)
	require.Equal(t, 48*time.Minute+time.Second, d)
}

func TestTotalDuration_NoEvents(t *testing.T) {
	lc := New(99, order1Events())
	_, err := lc.TotalDuration()

	var noEvents *NoEventsError
	require.ErrorAs(t, err, &noEvents)
	require.Equal(t, int64(99), noEvents.OrderID)
}

func TestStageDuration(t *testing.T) {
	lc := New(1, order1Events())

	d, err := lc.StageDuration("packed")
	require.NoError(t, err)
	require.Equal(t, 11*time.Minute+6*time.Second, d)

	total, err := lc.TotalDuration()
	require.NoError(t, err)
	require.LessOrEqual(t, d, total)
}

func TestStageDuration_ReentrantStageTakesEnclosingSpan(t *testing.T) {
	events := []dataset.StageEvent{
		{OrderID: 7, Stage: "processing", StartTime: ts(9, 0, 0), EndTime: ts(9, 5, 0)},
		{OrderID: 7, Stage: "on_hold", StartTime: ts(9, 5, 0), EndTime: ts(9, 20, 0)},
		{OrderID: 7, Stage: "processing", StartTime: ts(9, 20, 0), EndTime: ts(9, 30, 0)},
	}

	lc := New(7, events)
	d, err := lc.StageDuration("processing")
	require.NoError(t, err)
	// First start (9:00) to last end (9:30), not 5m + 10m.
	require.Equal(t, 30*time.Minute, d)
}

func TestStageDuration_UnknownStage(t *testing.T) {
	lc := New(1, order1Events())
	_, err := lc.StageDuration("delivered")

	var notFound *StageNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "delivered", notFound.Stage)
	require.Contains(t, notFound.ValidStages, "packed")
	require.Contains(t, err.Error(), "delivered")
	require.Contains(t, err.Error(), "packed")
}

func TestTimeBetween(t *testing.T) {
	lc := New(1, order1Events())

	// start(shipped) − end(placed): 10:22:01 − 10:01:03.
	d, err := lc.TimeBetween("shipped", "placed")
	require.NoError(t, err)
	require.Equal(t, 20*time.Minute+58*time.Second, d)

	// Reversed arguments go negative; that is the documented contract.
	d, err = lc.TimeBetween("placed", "shipped")
	require.NoError(t, err)
	require.Equal(t, -(48*time.Minute + time.Second), d)
}

func TestTimeBetween_SameStageIsNegativeSpan(t *testing.T) {
	lc := New(1, order1Events())

	d, err := lc.TimeBetween("packed", "packed")
	require.NoError(t, err)

	span, err := lc.StageDuration("packed")
	require.NoError(t, err)
	require.Equal(t, -span, d)
}

func TestTimeBetween_UnknownStage(t *testing.T) {
	lc := New(1, order1Events())

	_, err := lc.TimeBetween("placed", "delivered")
	var notFound *StageNotFoundError
	require.ErrorAs(t, err, &notFound)

	_, err = lc.TimeBetween("delivered", "placed")
	require.ErrorAs(t, err, &notFound)
}

func TestStagePercent(t *testing.T) {
	lc := New(1, order1Events())

	// 666s of 2881s total.
	pct, err := lc.StagePercent("packed")
	require.NoError(t, err)
	require.InDelta(t, 23.12, pct, 0.001)
}

func TestStagePercent_ZeroTotalDuration(t *testing.T) {
	events := []dataset.StageEvent{
		{OrderID: 5, Stage: "placed", StartTime: ts(10, 0, 0), EndTime: ts(10, 0, 0)},
	}

	lc := New(5, events)
	_, err := lc.StagePercent("placed")

	var zero *ZeroDurationError
	require.ErrorAs(t, err, &zero)
	require.Equal(t, int64(5), zero.OrderID)
}
