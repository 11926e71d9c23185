// =============================================================================
// PET Form Processor - Row Grouper
// =============================================================================

package pipeline

import (
	"github.com/spgmops/petform/internal/types"
)

// groupKey is the identity tuple for deduplication. Everything except the
// quantity participates; records sharing the key are the same line item
// submitted more than once.
type groupKey struct {
	CustomerName    string
	CustomerCode    string
	ModelCode       string
	StartDate       string
	EndDate         string
	AdditionalSOA   string
	SourceFile      string
	NameOfPromotion string
	IsWBW           bool
}

func keyOf(r *types.PromoRecord) groupKey {
	return groupKey{
		CustomerName:    r.CustomerName,
		CustomerCode:    r.CustomerCode,
		ModelCode:       r.ModelCode,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		AdditionalSOA:   r.AdditionalSOA.String(),
		SourceFile:      r.SourceFile,
		NameOfPromotion: r.NameOfPromotion,
		IsWBW:           r.IsWBW,
	}
}

// Group merges records sharing the identity key. The quantity is summed
// across the partition; every other field takes the first occurrence's
// value, in input order. Output order follows first occurrences; callers
// restore final ordering from OriginalRowIndex after expansion.
func Group(records []*types.PromoRecord) []*types.PromoRecord {
	merged := make(map[groupKey]*types.PromoRecord, len(records))
	var out []*types.PromoRecord

	for _, rec := range records {
		key := keyOf(rec)
		if existing, ok := merged[key]; ok {
			existing.ExpectedSellOut += rec.ExpectedSellOut
			continue
		}
		clone := *rec
		merged[key] = &clone
		out = append(out, &clone)
	}
	return out
}
