// =============================================================================
// PET Form Processor - Date Resolver
// =============================================================================
//
// Source dates arrive in mixed day-first / month-first / ISO / named-month
// formats with no reliable locale signal. This module picks the single most
// plausible reading for each value, using only two pieces of context: whether
// the field is a start or end date, and, for end dates, the already-resolved
// start date.
//
// PRIORITY ORDER:
//   1. Placeholder input -> unresolved immediately
//   2. Day + textual month + year (unambiguous, accepted immediately)
//   3. Strict 8-digit YYYYMMDD after stripping non-digits
//   4. Delimiter-based patterns, with candidate construction for the
//      ambiguous numeric MM/DD vs DD/MM case
//   5. General-purpose parsing, once day-first and once month-first
//   6. Candidate selection by temporal proximity (start: nearest future;
//      end: within 120 days of the start reference)
//   7. Backdated start dates are clamped forward to today
//
// =============================================================================

package dates

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/spgmops/petform/internal/types"
)

// endDateWindow is the longest plausible promotion length when choosing
// between end-date candidates relative to the start date.
const endDateWindow = 120 * 24 * time.Hour

const (
	minYear = 1900
	maxYear = 2100
)

// Resolver turns free-form date strings into canonical YYYYMMDD values.
// The clock is injectable so tests can pin "today".
type Resolver struct {
	now func() time.Time
}

// NewResolver returns a resolver running against the wall clock.
func NewResolver() *Resolver {
	return &Resolver{now: time.Now}
}

// NewResolverAt returns a resolver with a fixed clock, for tests.
func NewResolverAt(now func() time.Time) *Resolver {
	return &Resolver{now: now}
}

var (
	reTextualMonth = regexp.MustCompile(`^(?i)(\d{1,2})[/\-\s]+([A-Za-z]+)[/\-\s]+(\d{4})$`)
	reDaySlash     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	reDayDash      = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)
	reDayDot       = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})$`)
	reISO          = regexp.MustCompile(`^(\d{4})[/-](\d{1,2})[/-](\d{1,2})$`)
	reISODot       = regexp.MustCompile(`^(\d{4})\.(\d{1,2})\.(\d{1,2})$`)
	reAmbiguous    = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)
	reDayMonYear   = regexp.MustCompile(`^(?i)(\d{1,2})\s+([A-Za-z]{3,})\s+(\d{4})$`)
	reMonDayYear   = regexp.MustCompile(`^(?i)([A-Za-z]{3,})\s+(\d{1,2}),?\s+(\d{4})$`)
	reNonDigit     = regexp.MustCompile(`\D`)
)

var monthNames = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Resolve parses a free-form date string into YYYYMMDD, or the unresolved
// sentinel when no viable reading exists. For end dates, startReference is
// the already-resolved start date (YYYYMMDD) or the sentinel.
func (r *Resolver) Resolve(val string, isStart bool, startReference string) string {
	v := strings.TrimSpace(val)
	if v == "" || strings.HasPrefix(strings.ToUpper(v), types.Unresolved) {
		return types.Unresolved
	}

	today := r.today()

	// Textual months remove the day/month ambiguity entirely, so a valid
	// "5 March 2025" style value is accepted as-is, before the clamp.
	if m := reTextualMonth.FindStringSubmatch(v); m != nil {
		if month, ok := lookupMonth(m[2]); ok {
			if d, ok := makeDate(atoi(m[3]), month, atoi(m[1])); ok {
				return format(d)
			}
		}
	}

	candidates := r.collectCandidates(v, isStart, today)
	if len(candidates) == 0 {
		return types.Unresolved
	}

	parsed := r.selectCandidate(candidates, isStart, startReference, today)

	// Promotions cannot be backdated.
	if isStart && parsed.Before(today) {
		parsed = today
	}
	return format(parsed)
}

// collectCandidates runs the strict format, the delimiter pattern battery and
// the general-purpose fallback, gathering every plausible reading.
func (r *Resolver) collectCandidates(v string, isStart bool, today time.Time) []time.Time {
	var candidates []time.Time
	add := func(d time.Time) {
		for _, c := range candidates {
			if c.Equal(d) {
				return
			}
		}
		candidates = append(candidates, d)
	}

	// Strict YYYYMMDD once every non-digit is stripped.
	if digits := reNonDigit.ReplaceAllString(v, ""); len(digits) == 8 {
		if d, ok := makeDate(atoi(digits[:4]), time.Month(atoi(digits[4:6])), atoi(digits[6:])); ok {
			add(d)
		}
	}

	// Day-first delimiter forms.
	for _, re := range []*regexp.Regexp{reDaySlash, reDayDash, reDayDot} {
		if m := re.FindStringSubmatch(v); m != nil {
			if d, ok := makeDate(atoi(m[3]), time.Month(atoi(m[2])), atoi(m[1])); ok {
				add(d)
			}
		}
	}

	// Year-first forms.
	for _, re := range []*regexp.Regexp{reISO, reISODot} {
		if m := re.FindStringSubmatch(v); m != nil {
			if d, ok := makeDate(atoi(m[1]), time.Month(atoi(m[2])), atoi(m[3])); ok {
				add(d)
			}
		}
	}

	// Abbreviated month-name forms.
	if m := reDayMonYear.FindStringSubmatch(v); m != nil {
		if month, ok := lookupMonth(m[2]); ok {
			if d, ok := makeDate(atoi(m[3]), month, atoi(m[1])); ok {
				add(d)
			}
		}
	}
	if m := reMonDayYear.FindStringSubmatch(v); m != nil {
		if month, ok := lookupMonth(m[1]); ok {
			if d, ok := makeDate(atoi(m[3]), month, atoi(m[2])); ok {
				add(d)
			}
		}
	}

	// Ambiguous numeric MM-DD vs DD-MM: build both readings and keep the
	// disambiguated winner.
	if m := reAmbiguous.FindStringSubmatch(v); m != nil {
		a, b, year := atoi(m[1]), atoi(m[2]), atoi(m[3])
		dayFirst, dfOK := makeDate(year, time.Month(b), a)
		monthFirst, mfOK := makeDate(year, time.Month(a), b)
		switch {
		case dfOK && mfOK && !dayFirst.Equal(monthFirst):
			add(disambiguate(dayFirst, monthFirst, isStart, today))
		case dfOK:
			add(dayFirst)
		case mfOK:
			add(monthFirst)
		}
	}

	if len(candidates) > 0 {
		return candidates
	}

	// Nothing matched: general-purpose parse, once per day/month preference.
	for _, monthFirst := range []bool{false, true} {
		parsed, err := dateparse.ParseAny(v, dateparse.PreferMonthFirst(monthFirst))
		if err != nil {
			continue
		}
		if d, ok := makeDate(parsed.Year(), parsed.Month(), parsed.Day()); ok {
			add(d)
		}
	}
	return candidates
}

// disambiguate picks between the two readings of an ambiguous numeric date.
// A future reading wins for start dates; otherwise temporal proximity decides
// when the readings are more than 30 days apart, and day-first wins the tie.
func disambiguate(dayFirst, monthFirst time.Time, isStart bool, today time.Time) time.Time {
	if isStart {
		dfFuture := !dayFirst.Before(today)
		mfFuture := !monthFirst.Before(today)
		if dfFuture != mfFuture {
			if dfFuture {
				return dayFirst
			}
			return monthFirst
		}
	}
	dfDiff := absDays(dayFirst, today)
	mfDiff := absDays(monthFirst, today)
	gap := dfDiff - mfDiff
	if gap < 0 {
		gap = -gap
	}
	if gap > 30 {
		if dfDiff < mfDiff {
			return dayFirst
		}
		return monthFirst
	}
	return dayFirst
}

// selectCandidate applies the start/end proximity heuristics to a non-empty
// candidate set.
func (r *Resolver) selectCandidate(candidates []time.Time, isStart bool, startReference string, today time.Time) time.Time {
	if len(candidates) == 1 {
		return candidates[0]
	}

	if isStart {
		// Prefer the future candidate closest to today; failing that, the
		// latest past candidate.
		if best, ok := closestAtOrAfter(candidates, today); ok {
			return best
		}
		return latest(candidates)
	}

	startDt, err := Parse(startReference)
	if err != nil {
		// Without a usable start reference, take the latest reading.
		return latest(candidates)
	}

	var after []time.Time
	for _, c := range candidates {
		if !c.Before(startDt) {
			after = append(after, c)
		}
	}
	if len(after) > 0 {
		// Prefer an end date within the plausible promotion window.
		var inWindow []time.Time
		for _, c := range after {
			if c.Sub(startDt) <= endDateWindow {
				inWindow = append(inWindow, c)
			}
		}
		if len(inWindow) > 0 {
			best, _ := closestAtOrAfter(inWindow, startDt)
			return best
		}
		best, _ := closestAtOrAfter(after, startDt)
		return best
	}

	// No candidate at or after the start: closest in absolute distance.
	best := candidates[0]
	for _, c := range candidates[1:] {
		if absDays(c, startDt) < absDays(best, startDt) {
			best = c
		}
	}
	return best
}

// =============================================================================
// HELPERS
// =============================================================================

// Parse converts a canonical YYYYMMDD string back into a time.Time.
func Parse(s string) (time.Time, error) {
	return time.ParseInLocation("20060102", s, time.UTC)
}

// Format renders a time as the canonical YYYYMMDD string.
func Format(t time.Time) string {
	return format(t)
}

func format(t time.Time) string {
	return t.Format("20060102")
}

func (r *Resolver) today() time.Time {
	n := r.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// makeDate validates the component ranges (including day-of-month and the
// 1900-2100 year bound) and builds a UTC midnight time.
func makeDate(year int, month time.Month, day int) (time.Time, bool) {
	if year < minYear || year > maxYear || month < time.January || month > time.December || day < 1 {
		return time.Time{}, false
	}
	if day > daysInMonth(year, month) {
		return time.Time{}, false
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func lookupMonth(name string) (time.Month, bool) {
	key := strings.ToLower(name)
	if len(key) > 3 {
		key = key[:3]
	}
	m, ok := monthNames[key]
	return m, ok
}

func closestAtOrAfter(candidates []time.Time, ref time.Time) (time.Time, bool) {
	var best time.Time
	found := false
	for _, c := range candidates {
		if c.Before(ref) {
			continue
		}
		if !found || absDays(c, ref) < absDays(best, ref) {
			best = c
			found = true
		}
	}
	return best, found
}

func latest(candidates []time.Time) time.Time {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.After(best) {
			best = c
		}
	}
	return best
}

func absDays(a, b time.Time) int {
	d := int(a.Sub(b).Hours() / 24)
	if d < 0 {
		return -d
	}
	return d
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return -1
		}
		n = n*10 + int(c-'0')
	}
	if s == "" {
		return -1
	}
	return n
}
