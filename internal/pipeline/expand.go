// =============================================================================
// PET Form Processor - Month Expander
// =============================================================================
//
// A grouped line item spans a date range but is booked per calendar month.
// This module emits one row per covered month, carrying a share of the
// aggregate quantity.
//
// The distribution policy is the legacy one, preserved exactly:
//   q = 1        -> one unit in EVERY month (duplicates rather than splits;
//                   known quirk, kept pending product clarification)
//   q = 2, 3     -> fixed small-integer splits; with more months than units,
//                   the first q months get one unit each in month order
//   q = 4, 5     -> one unit per month when months suffice, otherwise
//                   round-robin over months sorted by overlap days
//   otherwise    -> day-weighted proportional split, last month takes the
//                   exact remainder so the total is conserved
//
// =============================================================================

package pipeline

import (
	"math"
	"sort"
	"time"

	"github.com/spgmops/petform/internal/dates"
	"github.com/spgmops/petform/internal/types"
)

// MonthSpan is one calendar month touched by a date range, with the number
// of days of the range falling inside it.
type MonthSpan struct {
	Month string // YYYYMM
	Days  int
}

// MonthSpans enumerates the months covered by [start, end], both canonical
// YYYYMMDD strings. Malformed input or start after end yields nil.
func MonthSpans(start, end string) []MonthSpan {
	if len(start) != 8 || len(end) != 8 {
		return nil
	}
	startDt, err := dates.Parse(start)
	if err != nil {
		return nil
	}
	endDt, err := dates.Parse(end)
	if err != nil {
		return nil
	}
	if startDt.After(endDt) {
		return nil
	}

	var spans []MonthSpan
	current := time.Date(startDt.Year(), startDt.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !current.After(endDt) {
		firstDay := current
		lastDay := current.AddDate(0, 1, -1)

		rangeStart := maxTime(startDt, firstDay)
		rangeEnd := minTime(endDt, lastDay)
		days := int(rangeEnd.Sub(rangeStart).Hours()/24) + 1
		if days > 0 {
			spans = append(spans, MonthSpan{Month: current.Format("200601"), Days: days})
		}

		current = current.AddDate(0, 1, 0)
	}
	return spans
}

// Distribute splits a quantity across the given month spans under the legacy
// policy. The returned slice always has len(spans) entries.
func Distribute(qty int64, spans []MonthSpan) []int64 {
	m := len(spans)
	dist := make([]int64, m)

	switch {
	case qty == 1:
		// Legacy behavior: every covered month gets the unit. The total is
		// m, not 1. Do not "fix" without product sign-off.
		for i := range dist {
			dist[i] = 1
		}

	case qty == 2 || qty == 3:
		switch {
		case m == 1:
			dist[0] = qty
		case m == 2:
			if qty == 2 {
				dist[0], dist[1] = 1, 1
			} else {
				dist[0], dist[1] = 2, 1
			}
		default:
			// More months than units: first q months, in month order, one
			// unit each. Deliberately not day-weighted.
			for i := int64(0); i < qty && int(i) < m; i++ {
				dist[i] = 1
			}
		}

	case qty == 4 || qty == 5:
		if int64(m) >= qty {
			for i := int64(0); i < qty; i++ {
				dist[i] = 1
			}
		} else {
			// Round-robin starting from the months with the most overlap.
			order := make([]int, m)
			for i := range order {
				order[i] = i
			}
			sort.SliceStable(order, func(a, b int) bool {
				return spans[order[a]].Days > spans[order[b]].Days
			})
			for i := int64(0); i < qty; i++ {
				dist[order[int(i)%m]]++
			}
		}

	default:
		// General case, including qty == 0: day-weighted rounding for all
		// months but the last, which takes the exact remainder (floored at
		// zero) so the total is conserved.
		totalDays := 0
		for _, s := range spans {
			totalDays += s.Days
		}
		remaining := qty
		for i := 0; i < m-1; i++ {
			part := int64(math.Round(float64(qty) * float64(spans[i].Days) / float64(totalDays)))
			dist[i] = part
			remaining -= part
		}
		if remaining < 0 {
			remaining = 0
		}
		dist[m-1] = remaining
	}

	return dist
}

// Expand emits one record per covered month with its quantity share. When
// month enumeration fails the record is preserved (not dropped) with an
// unresolved apply month and an error annotation.
func Expand(rec *types.PromoRecord) []*types.PromoRecord {
	spans := MonthSpans(rec.StartDate, rec.EndDate)
	if len(spans) == 0 {
		failed := *rec
		failed.ApplyMonth = types.Unresolved
		failed.AddError("Could not calculate apply months")
		return []*types.PromoRecord{&failed}
	}

	dist := Distribute(rec.ExpectedSellOut, spans)
	out := make([]*types.PromoRecord, 0, len(spans))
	for i, span := range spans {
		expanded := *rec
		expanded.ApplyMonth = span.Month
		expanded.ExpectedSellOut = dist[i]
		out = append(out, &expanded)
	}
	return out
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
