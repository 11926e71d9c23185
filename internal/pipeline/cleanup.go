// =============================================================================
// PET Form Processor - Row Cleanup
// =============================================================================
//
// This module turns a header-resolved table into typed PromoRecords and
// applies the per-row field cleanup: placeholder defaults for missing
// columns, support-type normalization, customer code standardization and
// swapped name/code correction, and numeric rounding.
//
// =============================================================================

package pipeline

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spgmops/petform/internal/header"
	"github.com/spgmops/petform/internal/rules"
	"github.com/spgmops/petform/internal/types"
)

// supportPlaceholders are the values submitters put in the support-type
// column when they mean "none".
var supportPlaceholders = map[string]struct{}{
	"NA": {}, "N/A": {}, "NONE": {}, "-": {}, "NULL": {},
}

// wbwPlaceholders normalize to NoWBWModel before the WBW flag is decided.
var wbwPlaceholders = map[string]struct{}{
	"NA": {}, "NA1": {}, "NA2": {}, "NA3": {}, "NO TV MODEL": {},
	"": {}, "NONE": {}, "N/A": {}, "NO": {}, "NULL": {},
}

// Cleaner builds and normalizes records against an injected rule-table set.
type Cleaner struct {
	tables rules.Tables
}

// NewCleaner returns a cleaner using the given tables.
func NewCleaner(t rules.Tables) *Cleaner {
	return &Cleaner{tables: t}
}

// BuildRecords converts every non-empty data row of a resolved table into a
// PromoRecord. Start/End dates are carried raw; the caller resolves them.
func (c *Cleaner) BuildRecords(table *header.Table, sourceFile string) []*types.PromoRecord {
	hasCol := func(name string) bool { return table.Index(name) >= 0 }
	wbwCol := findWBWColumn(table)

	var records []*types.PromoRecord
	for i, row := range table.Rows {
		if rowEmpty(row) {
			continue
		}

		rec := &types.PromoRecord{
			SourceFile:       sourceFile,
			OriginalRowIndex: i,
		}

		rec.CustomerCode = stringField(table, i, "Customer Code", hasCol)
		rec.CustomerName = stringField(table, i, "Customer Name", hasCol)
		rec.ModelCode = stringField(table, i, "Model Code", hasCol)
		rec.NameOfPromotion = stringField(table, i, "Name of Promotion", hasCol)
		rec.TypeOfSupport = c.cleanSupportType(table.Value(i, "Type of Support"))

		rec.StartDate = dateField(table, i, "Start Date", hasCol)
		rec.EndDate = dateField(table, i, "End Date", hasCol)

		rec.AdditionalSOA = c.parseSOA(table.Value(i, "Additional SOA"), rec)
		rec.ExpectedSellOut = parseQuantity(table.Value(i, "Expected Sell-Out"))

		c.standardizeCustomer(rec)
		c.applyWBW(rec, table, i, wbwCol)

		records = append(records, rec)
	}
	return records
}

// stringField reads a text column, substituting the unresolved sentinel when
// the column is missing or the cell is blank.
func stringField(table *header.Table, row int, col string, hasCol func(string) bool) string {
	if !hasCol(col) {
		return types.Unresolved
	}
	v := strings.TrimSpace(table.Value(row, col))
	if v == "" {
		return types.Unresolved
	}
	return v
}

// dateField reads a date column raw. A missing column defaults to the epoch
// placeholder so the resolver clamps it rather than dropping the row.
func dateField(table *header.Table, row int, col string, hasCol func(string) bool) string {
	if !hasCol(col) {
		return types.DefaultDate
	}
	return strings.TrimSpace(table.Value(row, col))
}

// cleanSupportType enforces the never-empty invariant: blank, placeholder or
// purely numeric values become the generic sell-out support default.
func (c *Cleaner) cleanSupportType(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return types.DefaultSupportType
	}
	upper := strings.ToUpper(v)
	if _, ok := supportPlaceholders[upper]; ok {
		return types.DefaultSupportType
	}
	if isNumericLike(v) {
		return types.DefaultSupportType
	}
	return v
}

// parseSOA parses and rounds the per-unit amount to 2 decimals. An
// unparsable cell yields zero and a row annotation, since a missing amount
// makes the cost column meaningless.
func (c *Cleaner) parseSOA(v string, rec *types.PromoRecord) decimal.Decimal {
	v = strings.ReplaceAll(strings.TrimSpace(v), ",", "")
	if v == "" {
		rec.AddError("Missing Additional SOA")
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		rec.AddError("Missing Additional SOA")
		return decimal.Zero
	}
	return d.Round(2)
}

// parseQuantity parses the expected sell-out as whole units, rounding
// half-up. Unparsable input defaults to 0 (not an error).
func parseQuantity(v string) int64 {
	v = strings.ReplaceAll(strings.TrimSpace(v), ",", "")
	if v == "" {
		return 0
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return 0
	}
	return d.Round(0).IntPart()
}

// =============================================================================
// CUSTOMER CODE HANDLING
// =============================================================================

// standardizeCustomer normalizes the code column and corrects swapped
// name/code cells. The correction is idempotent: once the code column holds
// a code-like value the swap mask can never match again.
func (c *Cleaner) standardizeCustomer(rec *types.PromoRecord) {
	rec.CustomerCode = c.standardizeCustomerCode(rec.CustomerCode)

	if c.isLikelyCustomerCode(rec.CustomerName) && !c.isLikelyCustomerCode(rec.CustomerCode) {
		rec.CustomerCode, rec.CustomerName = c.standardizeCustomerCode(rec.CustomerName), rec.CustomerCode
	}
}

// standardizeCustomerCode maps known alias spellings to their canonical code
// and upper-cases everything else.
func (c *Cleaner) standardizeCustomerCode(v string) string {
	if canonical, ok := c.tables.CustomerCodeAliases[strings.ToLower(v)]; ok {
		return canonical
	}
	return strings.ToUpper(v)
}

// isLikelyCustomerCode reports whether a value matches the customer code
// patterns (known prefixes or the exception list).
func (c *Cleaner) isLikelyCustomerCode(v string) bool {
	upper := strings.ToUpper(v)
	for _, exc := range c.tables.CustomerCodeExceptions {
		if upper == exc {
			return true
		}
	}
	for _, prefix := range c.tables.CustomerCodePrefixes {
		if strings.HasPrefix(upper, prefix) {
			return true
		}
	}
	return false
}

// =============================================================================
// WBW HANDLING
// =============================================================================

// findWBWColumn locates the week-by-week model column: any header containing
// both WBW and MODEL. First hit wins.
func findWBWColumn(table *header.Table) int {
	for i, col := range table.Columns {
		upper := strings.ToUpper(col)
		if strings.Contains(upper, "WBW") && strings.Contains(upper, "MODEL") {
			return i
		}
	}
	return -1
}

// applyWBW normalizes the WBW cell, sets the flag, and augments the
// promotion name with the model code for WBW rows (before grouping, so the
// augmented name participates in the identity key).
func (c *Cleaner) applyWBW(rec *types.PromoRecord, table *header.Table, row, wbwCol int) {
	rec.WBWModel = types.NoWBWModel
	if wbwCol >= 0 && wbwCol < len(table.Rows[row]) {
		v := strings.ToUpper(strings.TrimSpace(table.Rows[row][wbwCol]))
		if _, placeholder := wbwPlaceholders[v]; !placeholder {
			rec.WBWModel = v
		}
	}

	rec.IsWBW = rec.WBWModel != types.NoWBWModel && len(rec.WBWModel) > 3
	if rec.IsWBW {
		name := strings.TrimSpace(rec.NameOfPromotion)
		model := strings.TrimSpace(rec.ModelCode)
		rec.NameOfPromotion = strings.TrimSpace(name + " " + model)
	}
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func isNumericLike(v string) bool {
	dots := 0
	for _, r := range v {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' && dots == 0:
			dots++
		default:
			return false
		}
	}
	return true
}
