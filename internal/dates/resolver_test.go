package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fixedResolver pins today to 2025-06-15 so proximity heuristics are stable.
func fixedResolver() *Resolver {
	return NewResolverAt(func() time.Time {
		return time.Date(2025, time.June, 15, 10, 30, 0, 0, time.UTC)
	})
}

func TestResolvePlaceholders(t *testing.T) {
	r := fixedResolver()

	assert.Equal(t, "NA", r.Resolve("", true, ""))
	assert.Equal(t, "NA", r.Resolve("   ", true, ""))
	assert.Equal(t, "NA", r.Resolve("NA", true, ""))
	assert.Equal(t, "NA", r.Resolve("na", false, "20250101"))
}

func TestResolveTextualMonthAcceptedBeforeClamp(t *testing.T) {
	r := fixedResolver()

	// Unambiguous textual month, even in the past, is taken at face value.
	assert.Equal(t, "20240305", r.Resolve("5 March 2024", true, ""))
	assert.Equal(t, "20251101", r.Resolve("1/November/2025", true, ""))
}

func TestResolveStrictEightDigit(t *testing.T) {
	r := fixedResolver()

	assert.Equal(t, "20250701", r.Resolve("20250701", true, ""))
	assert.Equal(t, "20250701", r.Resolve("2025.07.01", true, ""))
	assert.Equal(t, "20250701", r.Resolve("2025-07-01", true, ""))
}

func TestResolveClampsBackdatedStart(t *testing.T) {
	r := fixedResolver()

	assert.Equal(t, "20250615", r.Resolve("20240110", true, ""))
	// End dates are never clamped.
	assert.Equal(t, "20240110", r.Resolve("20240110", false, "20240101"))
}

func TestResolveDayFirstDelimiters(t *testing.T) {
	r := fixedResolver()

	assert.Equal(t, "20251225", r.Resolve("25/12/2025", true, ""))
	assert.Equal(t, "20251225", r.Resolve("25-12-2025", true, ""))
	assert.Equal(t, "20251225", r.Resolve("25.12.2025", true, ""))
}

func TestResolveAmbiguousStartPrefersFuture(t *testing.T) {
	r := fixedResolver()

	// 07/03/2025 reads as 7 March (past) or 3 July (future); the future
	// reading wins for a start date.
	assert.Equal(t, "20250703", r.Resolve("07/03/2025", true, ""))
}

func TestResolveAmbiguousDayFirstTieBreak(t *testing.T) {
	r := fixedResolver()

	// Both readings of 12/01/2025 sit within 30 days of each other in
	// distance from today, so day-first wins.
	assert.Equal(t, "20250112", r.Resolve("12/01/2025", false, "20250101"))
}

func TestResolveEndDatePrefersWindowAfterStart(t *testing.T) {
	r := fixedResolver()

	// 07/03/2025 reads as 7 March or 3 July; with a June start only July
	// lands at or after it, inside the plausible window.
	assert.Equal(t, "20250703", r.Resolve("07/03/2025", false, "20250601"))
}

func TestResolveEndDateNoCandidateAfterStart(t *testing.T) {
	r := fixedResolver()

	// Neither reading of 10/01/2025 reaches a December start; the closest
	// one in absolute distance is taken.
	assert.Equal(t, "20251001", r.Resolve("10/01/2025", false, "20251201"))
}

func TestResolveTextualNameForms(t *testing.T) {
	r := fixedResolver()

	assert.Equal(t, "20250703", r.Resolve("3 Jul 2025", true, ""))
	assert.Equal(t, "20250703", r.Resolve("July 3, 2025", true, ""))
}

func TestResolveGeneralFallback(t *testing.T) {
	r := fixedResolver()

	// No pattern matches a timestamped value; the general-purpose parser
	// still recovers the date.
	assert.Equal(t, "20250703", r.Resolve("2025-07-03T10:00:00Z", true, ""))
}

func TestResolveGarbage(t *testing.T) {
	r := fixedResolver()

	assert.Equal(t, "NA", r.Resolve("next tuesday-ish", true, ""))
	assert.Equal(t, "NA", r.Resolve("????", false, "20250101"))
}

func TestResolveRejectsOutOfRangeYears(t *testing.T) {
	r := fixedResolver()

	assert.Equal(t, "NA", r.Resolve("18990101", true, ""))
	assert.Equal(t, "NA", r.Resolve("21010101", true, ""))
}

func TestResolveIdempotent(t *testing.T) {
	r := fixedResolver()

	for _, input := range []string{"20250701", "07/03/2025", "5 March 2024", "20240110"} {
		first := r.Resolve(input, true, "")
		second := r.Resolve(first, true, "")
		assert.Equal(t, first, second, "input %q", input)
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	d, err := Parse("20250131")
	assert.NoError(t, err)
	assert.Equal(t, "20250131", Format(d))

	_, err = Parse("NA")
	assert.Error(t, err)
}
