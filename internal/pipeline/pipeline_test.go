package pipeline

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spgmops/petform/internal/custmap"
	"github.com/spgmops/petform/internal/rules"
	"github.com/spgmops/petform/internal/types"
)

func testCustomers() map[string]custmap.Attributes {
	return map[string]custmap.Attributes{
		"GB123": {CustomerType: "Direct", Requestor: "Jane Doe", Currency: "GBP"},
	}
}

func TestFinalizeEnrichesRecord(t *testing.T) {
	f := NewFinalizer(rules.Defaults(), testCustomers())

	rec := &types.PromoRecord{
		CustomerCode:    "GB123",
		CustomerName:    "Acme Ltd",
		ModelCode:       "OLED55.AEK",
		TypeOfSupport:   "SOA",
		AdditionalSOA:   decimal.RequireFromString("2.50"),
		ExpectedSellOut: 4,
		StartDate:       "20250701",
		EndDate:         "20250731",
		ApplyMonth:      "202507",
		NameOfPromotion: "Summer Promo",
	}
	f.Finalize([]*types.PromoRecord{rec})

	assert.Equal(t, "Direct", rec.CustomerType)
	assert.Equal(t, "Jane Doe", rec.Requestor)
	assert.Equal(t, "GBP", rec.Currency)

	assert.Equal(t, "GLT", rec.BudgetAllocation)
	assert.Equal(t, "TM_Z02", rec.MappedReasonCode)
	assert.Equal(t, "Lumpsum", rec.ProgramType)
	assert.Equal(t, "TV", rec.Segment)

	assert.Equal(t, "10.00", rec.ExpectedCost.StringFixed(2))
	assert.Equal(t, "ACME LTD (TV) SUMMER PROMO PET SOA 20250701 TO 20250731", rec.PromotionName)
	assert.Empty(t, rec.Errors)
}

func TestFinalizeUnknownCustomerAnnotated(t *testing.T) {
	f := NewFinalizer(rules.Defaults(), testCustomers())

	rec := &types.PromoRecord{
		CustomerCode:    "XX999",
		CustomerName:    "Unknown Ltd",
		ModelCode:       "DB1234",
		TypeOfSupport:   "SOA",
		StartDate:       "20250701",
		EndDate:         "20250731",
		ApplyMonth:      "202507",
		NameOfPromotion: "Promo",
	}
	f.Finalize([]*types.PromoRecord{rec})

	assert.Equal(t, "NA", rec.CustomerType)
	assert.Equal(t, "NA", rec.Requestor)
	assert.Equal(t, "NA", rec.Currency)
	assert.Contains(t, rec.Errors, "Missing Customer Type")
	assert.Contains(t, rec.Errors, "Missing Requestor")
	assert.Contains(t, rec.Errors, "Missing Currency")
}

func TestFinalizeNilCustomerMapping(t *testing.T) {
	f := NewFinalizer(rules.Defaults(), nil)

	rec := &types.PromoRecord{
		CustomerCode:  "GB123",
		ModelCode:     "DB1234",
		TypeOfSupport: "SOA",
		StartDate:     "20250701",
		EndDate:       "20250731",
	}
	f.Finalize([]*types.PromoRecord{rec})

	assert.Equal(t, "NA", rec.CustomerType)
}

func TestFinalizeFixesBlankSupportType(t *testing.T) {
	f := NewFinalizer(rules.Defaults(), testCustomers())

	recs := []*types.PromoRecord{
		{CustomerCode: "GB123", ModelCode: "M", TypeOfSupport: "", StartDate: "20250701", EndDate: "20250731"},
		{CustomerCode: "GB123", ModelCode: "M", TypeOfSupport: "NA", StartDate: "20250701", EndDate: "20250731"},
		{CustomerCode: "GB123", ModelCode: "M", TypeOfSupport: "Price Protection", StartDate: "20250701", EndDate: "20250731"},
	}
	f.Finalize(recs)

	assert.Equal(t, "A SOA", recs[0].TypeOfSupport)
	assert.Equal(t, "A SOA", recs[1].TypeOfSupport)
	assert.Equal(t, "Price Protection", recs[2].TypeOfSupport)
}

func TestFinalizeCostFollowsExpandedQuantity(t *testing.T) {
	f := NewFinalizer(rules.Defaults(), testCustomers())

	base := &types.PromoRecord{
		CustomerCode:    "GB123",
		ModelCode:       "DB1234",
		TypeOfSupport:   "SOA",
		AdditionalSOA:   decimal.RequireFromString("1.25"),
		StartDate:       "20250115",
		EndDate:         "20250310",
		ExpectedSellOut: 100,
	}
	expanded := Expand(base)
	require.Len(t, expanded, 3)

	f.Finalize(expanded)

	assert.Equal(t, "38.75", expanded[0].ExpectedCost.StringFixed(2))
	assert.Equal(t, "63.75", expanded[1].ExpectedCost.StringFixed(2))
	assert.Equal(t, "22.50", expanded[2].ExpectedCost.StringFixed(2))
}
