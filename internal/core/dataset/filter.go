package dataset

import "time"

// FilterLinesByDate restricts order lines to an inclusive order-date window.
// Either bound may be nil to leave that side open; with both nil the input
// is returned unchanged.
func FilterLinesByDate(lines []OrderLine, start, end *time.Time) []OrderLine {
	if start == nil && end == nil {
		return lines
	}

	out := make([]OrderLine, 0, len(lines))
	for _, l := range lines {
		if start != nil && l.OrderDate.Before(*start) {
			continue
		}
		if end != nil && l.OrderDate.After(*end) {
			continue
		}
		out = append(out, l)
	}
	return out
}
