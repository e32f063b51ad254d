package dashboard

import (
	"errors"
	"time"
)

// Known period tags.
const (
	PeriodCurrent = "current"
	PeriodLast    = "last"
	PeriodLast3   = "last3"
	PeriodLast6   = "last6"
	PeriodYear    = "year"
	PeriodCustom  = "custom"
)

var ErrCustomRange = errors.New("custom period requires both startDate and endDate")

// DateRange is a half-open reporting window [From, To). A nil To means
// open-ended through "now".
type DateRange struct {
	From time.Time
	To   *time.Time
}

// ResolvePeriod translates a period tag into a concrete date range.
// Unknown tags fall back to the current-month window rather than an
// unfiltered all-time range.
func ResolvePeriod(tag string, start, end *time.Time, now time.Time) (DateRange, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	switch tag {
	case PeriodLast:
		to := monthStart
		return DateRange{From: monthStart.AddDate(0, -1, 0), To: &to}, nil
	case PeriodLast3:
		return DateRange{From: monthStart.AddDate(0, -3, 0)}, nil
	case PeriodLast6:
		return DateRange{From: monthStart.AddDate(0, -6, 0)}, nil
	case PeriodYear:
		return DateRange{From: time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())}, nil
	case PeriodCustom:
		if start == nil || end == nil {
			return DateRange{}, ErrCustomRange
		}
		// The caller supplies an inclusive end date.
		to := end.AddDate(0, 0, 1)
		return DateRange{From: *start, To: &to}, nil
	default:
		return DateRange{From: monthStart}, nil
	}
}
