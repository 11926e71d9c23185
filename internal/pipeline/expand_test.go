package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spgmops/petform/internal/types"
)

func TestMonthSpans(t *testing.T) {
	spans := MonthSpans("20250115", "20250310")
	require.Len(t, spans, 3)

	assert.Equal(t, MonthSpan{Month: "202501", Days: 17}, spans[0])
	assert.Equal(t, MonthSpan{Month: "202502", Days: 28}, spans[1])
	assert.Equal(t, MonthSpan{Month: "202503", Days: 10}, spans[2])
}

func TestMonthSpansSingleDay(t *testing.T) {
	spans := MonthSpans("20250701", "20250701")
	require.Len(t, spans, 1)
	assert.Equal(t, MonthSpan{Month: "202507", Days: 1}, spans[0])
}

func TestMonthSpansInvalid(t *testing.T) {
	assert.Nil(t, MonthSpans("NA", "20250310"))
	assert.Nil(t, MonthSpans("20250115", "NA"))
	assert.Nil(t, MonthSpans("20250310", "20250115"))
}

func TestDistributeSingleUnitDuplicatesAcrossMonths(t *testing.T) {
	spans := MonthSpans("20250115", "20250310")

	// One unit lands in every month; the total is the month count, not 1.
	dist := Distribute(1, spans)
	assert.Equal(t, []int64{1, 1, 1}, dist)
}

func TestDistributeSmallQuantities(t *testing.T) {
	oneMonth := MonthSpans("20250101", "20250131")
	twoMonths := MonthSpans("20250115", "20250215")
	fiveMonths := MonthSpans("20250101", "20250531")

	assert.Equal(t, []int64{2}, Distribute(2, oneMonth))
	assert.Equal(t, []int64{3}, Distribute(3, oneMonth))
	assert.Equal(t, []int64{1, 1}, Distribute(2, twoMonths))
	assert.Equal(t, []int64{2, 1}, Distribute(3, twoMonths))

	// More months than units: first q months get one unit each.
	assert.Equal(t, []int64{1, 1, 0, 0, 0}, Distribute(2, fiveMonths))
	assert.Equal(t, []int64{1, 1, 1, 0, 0}, Distribute(3, fiveMonths))
}

func TestDistributeRoundRobinByOverlap(t *testing.T) {
	// Spans of 17, 28 and 10 days; five units round-robin starting from the
	// month with the most overlap.
	spans := MonthSpans("20250115", "20250310")

	dist := Distribute(5, spans)
	assert.Equal(t, []int64{2, 2, 1}, dist)
}

func TestDistributeFiveAcrossFiveMonths(t *testing.T) {
	spans := MonthSpans("20250101", "20250531")
	assert.Equal(t, []int64{1, 1, 1, 1, 1}, Distribute(5, spans))
}

func TestDistributeDayWeighted(t *testing.T) {
	// 17 + 28 + 10 days; 100 units split proportionally with the last month
	// taking the exact remainder.
	spans := MonthSpans("20250115", "20250310")

	dist := Distribute(100, spans)
	assert.Equal(t, []int64{31, 51, 18}, dist)

	var total int64
	for _, d := range dist {
		total += d
	}
	assert.Equal(t, int64(100), total)
}

func TestDistributeZeroQuantity(t *testing.T) {
	spans := MonthSpans("20250115", "20250310")
	assert.Equal(t, []int64{0, 0, 0}, Distribute(0, spans))
}

func TestDistributeConservesTotal(t *testing.T) {
	spans := MonthSpans("20241220", "20250405")
	for _, qty := range []int64{0, 7, 55, 999, 100000} {
		dist := Distribute(qty, spans)
		var total int64
		for _, d := range dist {
			total += d
		}
		assert.Equal(t, qty, total, "qty %d", qty)
	}
}

func TestExpandEmitsOneRecordPerMonth(t *testing.T) {
	rec := &types.PromoRecord{
		ModelCode:       "OLED55.AEK",
		StartDate:       "20250115",
		EndDate:         "20250310",
		ExpectedSellOut: 100,
	}

	out := Expand(rec)
	require.Len(t, out, 3)

	assert.Equal(t, "202501", out[0].ApplyMonth)
	assert.Equal(t, "202502", out[1].ApplyMonth)
	assert.Equal(t, "202503", out[2].ApplyMonth)
	assert.Equal(t, int64(31), out[0].ExpectedSellOut)
	assert.Equal(t, int64(51), out[1].ExpectedSellOut)
	assert.Equal(t, int64(18), out[2].ExpectedSellOut)

	// The input record is untouched.
	assert.Equal(t, int64(100), rec.ExpectedSellOut)
}

func TestExpandPreservesFailedRecords(t *testing.T) {
	rec := &types.PromoRecord{
		StartDate:       "NA",
		EndDate:         "20250310",
		ExpectedSellOut: 42,
	}

	out := Expand(rec)
	require.Len(t, out, 1)

	assert.Equal(t, "NA", out[0].ApplyMonth)
	assert.Equal(t, int64(42), out[0].ExpectedSellOut)
	assert.Contains(t, out[0].Errors, "Could not calculate apply months")
}
