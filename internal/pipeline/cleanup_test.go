package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spgmops/petform/internal/header"
	"github.com/spgmops/petform/internal/rules"
)

func sampleTable(rows [][]string) *header.Table {
	return &header.Table{
		Columns: []string{
			"Customer Code", "Customer Name", "Model Code", "Type of Support",
			"Additional SOA", "Expected Sell-Out", "Start Date", "End Date",
			"Name of Promotion", "WBW Model List",
		},
		Rows: rows,
	}
}

func TestBuildRecordsBasicRow(t *testing.T) {
	c := NewCleaner(rules.Defaults())
	table := sampleTable([][]string{
		{"GB123", "ACME LTD", "OLED55.AEK", "SOA", "12.345", "10.4", "01/07/2025", "31/07/2025", "Summer Promo", ""},
	})

	records := c.BuildRecords(table, "forms/acme.xlsx")
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "GB123", rec.CustomerCode)
	assert.Equal(t, "ACME LTD", rec.CustomerName)
	assert.Equal(t, "OLED55.AEK", rec.ModelCode)
	assert.Equal(t, "SOA", rec.TypeOfSupport)
	assert.Equal(t, "12.35", rec.AdditionalSOA.StringFixed(2))
	assert.Equal(t, int64(10), rec.ExpectedSellOut)
	assert.Equal(t, "01/07/2025", rec.StartDate)
	assert.Equal(t, "forms/acme.xlsx", rec.SourceFile)
	assert.False(t, rec.IsWBW)
	assert.Equal(t, "NO TV MODEL", rec.WBWModel)
	assert.Empty(t, rec.Errors)
}

func TestBuildRecordsSkipsEmptyRows(t *testing.T) {
	c := NewCleaner(rules.Defaults())
	table := sampleTable([][]string{
		{"", "", "", "", "", "", "", "", "", ""},
		{"GB123", "ACME LTD", "DB1234", "SOA", "1.00", "2", "20250701", "20250731", "Promo", ""},
		{"  ", "", "", "", "", "", "", "", "", ""},
	})

	records := c.BuildRecords(table, "f.xlsx")
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].OriginalRowIndex)
}

func TestSupportTypeCleanup(t *testing.T) {
	c := NewCleaner(rules.Defaults())
	table := sampleTable([][]string{
		{"GB1", "A", "M1", "", "1", "1", "20250701", "20250731", "P", ""},
		{"GB2", "B", "M2", "N/A", "1", "1", "20250701", "20250731", "P", ""},
		{"GB3", "C", "M3", "123.5", "1", "1", "20250701", "20250731", "P", ""},
		{"GB4", "D", "M4", "Price Protection", "1", "1", "20250701", "20250731", "P", ""},
	})

	records := c.BuildRecords(table, "f.xlsx")
	require.Len(t, records, 4)

	assert.Equal(t, "A SOA", records[0].TypeOfSupport)
	assert.Equal(t, "A SOA", records[1].TypeOfSupport)
	assert.Equal(t, "A SOA", records[2].TypeOfSupport)
	assert.Equal(t, "Price Protection", records[3].TypeOfSupport)
}

func TestMissingSOAIsAnnotated(t *testing.T) {
	c := NewCleaner(rules.Defaults())
	table := sampleTable([][]string{
		{"GB1", "A", "M1", "SOA", "", "5", "20250701", "20250731", "P", ""},
		{"GB2", "B", "M2", "SOA", "abc", "5", "20250701", "20250731", "P", ""},
		{"GB3", "C", "M3", "SOA", "1,250.005", "5", "20250701", "20250731", "P", ""},
	})

	records := c.BuildRecords(table, "f.xlsx")
	require.Len(t, records, 3)

	assert.Contains(t, records[0].Errors, "Missing Additional SOA")
	assert.True(t, records[0].AdditionalSOA.IsZero())
	assert.Contains(t, records[1].Errors, "Missing Additional SOA")
	assert.Equal(t, "1250.01", records[2].AdditionalSOA.StringFixed(2))
	assert.Empty(t, records[2].Errors)
}

func TestCustomerSwapCorrection(t *testing.T) {
	c := NewCleaner(rules.Defaults())
	table := sampleTable([][]string{
		// Name and code columns filled the wrong way round.
		{"ACME LTD", "GB456", "M1", "SOA", "1", "1", "20250701", "20250731", "P", ""},
		// Already correct: no swap.
		{"GB789", "ACME LTD", "M2", "SOA", "1", "1", "20250701", "20250731", "P", ""},
	})

	records := c.BuildRecords(table, "f.xlsx")
	require.Len(t, records, 2)

	assert.Equal(t, "GB456", records[0].CustomerCode)
	assert.Equal(t, "ACME LTD", records[0].CustomerName)
	assert.Equal(t, "GB789", records[1].CustomerCode)
	assert.Equal(t, "ACME LTD", records[1].CustomerName)
}

func TestCustomerCodeAliases(t *testing.T) {
	c := NewCleaner(rules.Defaults())
	table := sampleTable([][]string{
		{"Obsidian", "X", "M1", "SOA", "1", "1", "20250701", "20250731", "P", ""},
		{"he key indy", "Y", "M2", "SOA", "1", "1", "20250701", "20250731", "P", ""},
		{"gb123", "Z", "M3", "SOA", "1", "1", "20250701", "20250731", "P", ""},
	})

	records := c.BuildRecords(table, "f.xlsx")
	require.Len(t, records, 3)

	assert.Equal(t, "OBSIDIAN", records[0].CustomerCode)
	assert.Equal(t, "HEKEYINDY", records[1].CustomerCode)
	assert.Equal(t, "GB123", records[2].CustomerCode)
}

func TestWBWDetection(t *testing.T) {
	c := NewCleaner(rules.Defaults())
	table := sampleTable([][]string{
		{"GB1", "A", "OLED55.AEK", "SOA", "1", "1", "20250701", "20250731", "Summer Promo", "OLED55A1"},
		{"GB2", "B", "M2", "SOA", "1", "1", "20250701", "20250731", "P", "no tv model"},
		{"GB3", "C", "M3", "SOA", "1", "1", "20250701", "20250731", "P", "AB"},
	})

	records := c.BuildRecords(table, "f.xlsx")
	require.Len(t, records, 3)

	assert.True(t, records[0].IsWBW)
	assert.Equal(t, "OLED55A1", records[0].WBWModel)
	// WBW rows carry the model code in the promotion name, pre-grouping.
	assert.Equal(t, "Summer Promo OLED55.AEK", records[0].NameOfPromotion)

	assert.False(t, records[1].IsWBW)
	assert.Equal(t, "NO TV MODEL", records[1].WBWModel)

	// Too short to be a real designation.
	assert.False(t, records[2].IsWBW)
}

func TestMissingColumnsGetDefaults(t *testing.T) {
	c := NewCleaner(rules.Defaults())
	table := &header.Table{
		Columns: []string{"Customer Name", "Expected Sell-Out"},
		Rows: [][]string{
			{"ACME LTD", "5"},
		},
	}

	records := c.BuildRecords(table, "f.xlsx")
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "NA", rec.CustomerCode)
	assert.Equal(t, "NA", rec.ModelCode)
	assert.Equal(t, "19000101", rec.StartDate)
	assert.Equal(t, "19000101", rec.EndDate)
	assert.Equal(t, "A SOA", rec.TypeOfSupport)
	assert.Contains(t, rec.Errors, "Missing Additional SOA")
}
