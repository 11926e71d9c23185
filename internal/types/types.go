// =============================================================================
// PET Form Processor - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - pipeline
//   - validation
//   - output
//
// =============================================================================

package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Unresolved is the sentinel written into any field the pipeline could not
// resolve. Downstream writers highlight rows whose cells carry it, so the
// value must survive grouping, expansion and formatting untouched.
const Unresolved = "NA"

// DefaultSupportType is substituted when a submission leaves the support type
// blank or fills it with a placeholder.
const DefaultSupportType = "A SOA"

// DefaultDate is the stand-in start/end value for submissions that omit the
// date columns entirely.
const DefaultDate = "19000101"

// NoWBWModel marks rows whose week-by-week model column was absent or held a
// placeholder.
const NoWBWModel = "NO TV MODEL"

// IsUnresolved reports whether a cell value counts as unresolved for
// highlighting purposes. The original review sheets flag anything whose
// trimmed upper-case form starts with "NA", which also catches "NA1", "N/A"
// style placeholders that slipped through.
func IsUnresolved(s string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(s)), Unresolved)
}

// =============================================================================
// PROMO RECORD
// =============================================================================

// PromoRecord is the unit flowing through the pipeline: one promotional
// support line item, created per spreadsheet data row. It is enriched in
// place as it moves through cleanup, grouping, month expansion, metadata
// mapping and naming.
type PromoRecord struct {
	// Canonical input fields, populated by the header resolver + cleanup.

	// CustomerCode and CustomerName are mutually exclusive roles: after swap
	// correction at most one of them holds a recognizable code pattern.
	CustomerCode string
	CustomerName string

	// ModelCode drives both the metadata mapper and, indirectly, quantity
	// distribution.
	ModelCode string

	// TypeOfSupport is normalized to a closed vocabulary or a free-form
	// reason string; never empty after cleanup (defaults to "A SOA").
	TypeOfSupport string

	// AdditionalSOA is the per-unit support amount, rounded to 2 decimals.
	AdditionalSOA decimal.Decimal

	// ExpectedSellOut is a whole-unit quantity. Unparsable input defaults
	// to 0.
	ExpectedSellOut int64

	// StartDate and EndDate are 8-digit YYYYMMDD strings, or Unresolved.
	StartDate string
	EndDate   string

	// NameOfPromotion is free text; WBW rows get the model code appended
	// before grouping.
	NameOfPromotion string

	// WBWModel holds the week-by-week model designation, or NoWBWModel.
	WBWModel string
	IsWBW    bool

	// Provenance. OriginalRowIndex restores input order after grouping and
	// expansion scramble it.
	SourceFile       string
	OriginalRowIndex int

	// Customer mapping attributes, merged in post-expansion.
	CustomerType string
	Requestor    string
	Currency     string

	// Derived fields, written only by the metadata mapper.
	BudgetAllocation string
	ProductType      string
	MappedReasonCode string
	ProgramType      string
	Segment          string

	// ApplyMonth is written only by the month expander: YYYYMM per expanded
	// row, or Unresolved when expansion failed.
	ApplyMonth string

	// ExpectedCost = AdditionalSOA * ExpectedSellOut, per expanded row.
	ExpectedCost decimal.Decimal

	// PromotionName is the canonical display string built by the namer.
	PromotionName string

	// Errors carries comma-joined row-level annotations for the combined
	// extract. Never fatal.
	Errors string
}

// WBWFlag renders the IsWBW flag the way the extract sheets expect it.
func (r *PromoRecord) WBWFlag() string {
	if r.IsWBW {
		return "YES"
	}
	return "NO"
}

// AddError appends an annotation to the record's error column.
func (r *PromoRecord) AddError(msg string) {
	if msg == "" {
		return
	}
	if r.Errors == "" {
		r.Errors = msg
		return
	}
	r.Errors += ", " + msg
}

// =============================================================================
// PER-FILE RESULT
// =============================================================================

// Result is the outcome of processing a single input workbook. Files are
// processed independently; a failed file never aborts the batch.
type Result struct {
	// FilePath is the input file this result belongs to.
	FilePath string

	// Records are the expanded rows produced from the file, already sorted
	// by OriginalRowIndex.
	Records []*PromoRecord

	// RowsLoaded / RowsGrouped / UnitsLoaded give the before/after grouping
	// stats reported in the run summary.
	RowsLoaded  int
	RowsGrouped int
	UnitsLoaded int64

	// Skipped is true when the file was passed over (no matching sheet, no
	// recognizable header). Err carries the reason.
	Skipped bool
	Err     error
}
