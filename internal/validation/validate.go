// =============================================================================
// PET Form Processor - Row Validation
// =============================================================================
//
// Row-level defect detection for the combined extract. Defects never abort
// the batch; they are rendered as a comma-joined annotation column and the
// row is highlighted by the writers.
//
// =============================================================================

package validation

import (
	"strings"

	"github.com/spgmops/petform/internal/types"
)

// DetectErrors inspects a finalized record and returns a comma-joined list of
// defects, or "" when the row is clean.
func DetectErrors(rec *types.PromoRecord) string {
	var errs []string

	if rec.CustomerType == "" || rec.CustomerType == types.Unresolved {
		errs = append(errs, "Missing Customer Type")
	}
	if rec.Requestor == "" || rec.Requestor == types.Unresolved {
		errs = append(errs, "Missing Requestor")
	}
	if rec.Currency == "" || rec.Currency == types.Unresolved {
		errs = append(errs, "Missing Currency")
	}
	if types.IsUnresolved(rec.StartDate) {
		errs = append(errs, "Invalid Start Date")
	}
	if types.IsUnresolved(rec.EndDate) {
		errs = append(errs, "Invalid End Date")
	}
	if types.IsUnresolved(rec.ModelCode) {
		errs = append(errs, "Missing Model Code")
	}

	return strings.Join(errs, ", ")
}
