// =============================================================================
// PET Form Processor - Pipeline Orchestrator
// =============================================================================
//
// Processor runs the per-file stages: sheet read, header resolution, row
// cleanup, date resolution, grouping, month expansion. Finalizer runs the
// batch-wide stages over the combined records: support-type re-check,
// customer mapping merge, metadata mapping, segmentation, cost calculation,
// naming, validation annotations.
//
// Files are independent; a file whose sheet or header cannot be found is
// skipped with a reason, never fatal to the batch.
//
// =============================================================================

package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spgmops/petform/internal/custmap"
	"github.com/spgmops/petform/internal/dates"
	"github.com/spgmops/petform/internal/header"
	"github.com/spgmops/petform/internal/naming"
	"github.com/spgmops/petform/internal/rules"
	"github.com/spgmops/petform/internal/sheet"
	"github.com/spgmops/petform/internal/types"
	"github.com/spgmops/petform/internal/validation"
)

// Processor owns the per-file stages. It is safe for concurrent use: every
// stage is a pure function of its inputs plus the immutable rule tables.
type Processor struct {
	headers *header.Resolver
	dates   *dates.Resolver
	cleaner *Cleaner
}

// NewProcessor wires the per-file stages from the rule tables and resolver
// tuning knobs.
func NewProcessor(tables rules.Tables, fuzzyThreshold, maxScanRows int) *Processor {
	return &Processor{
		headers: header.NewResolver(header.DefaultColumnRules(), nil, fuzzyThreshold, maxScanRows),
		dates:   dates.NewResolver(),
		cleaner: NewCleaner(tables),
	}
}

// ProcessFile runs one workbook through the per-file stages and returns its
// result. Sheet/header misses are reported as skips.
func (p *Processor) ProcessFile(path string) *types.Result {
	res := &types.Result{FilePath: path}

	grid, _, err := sheet.ReadPromoGrid(path)
	if err != nil {
		res.Skipped = errors.Is(err, sheet.ErrSheetNotFound)
		res.Err = err
		return res
	}

	table, err := p.headers.Resolve(grid)
	if err != nil {
		res.Skipped = errors.Is(err, header.ErrHeaderNotFound)
		res.Err = fmt.Errorf("%s: %w", path, err)
		return res
	}

	records := p.cleaner.BuildRecords(table, path)
	for _, rec := range records {
		rec.StartDate = p.dates.Resolve(rec.StartDate, true, "")
		rec.EndDate = p.dates.Resolve(rec.EndDate, false, rec.StartDate)
		res.UnitsLoaded += rec.ExpectedSellOut
	}
	res.RowsLoaded = len(records)

	grouped := Group(records)
	res.RowsGrouped = len(grouped)

	var expanded []*types.PromoRecord
	for _, rec := range grouped {
		expanded = append(expanded, Expand(rec)...)
	}
	sort.SliceStable(expanded, func(a, b int) bool {
		return expanded[a].OriginalRowIndex < expanded[b].OriginalRowIndex
	})

	res.Records = expanded
	return res
}

// =============================================================================
// FINALIZER
// =============================================================================

// Finalizer runs the batch-wide enrichment over the combined record set.
type Finalizer struct {
	mapper    *rules.Mapper
	namer     *naming.Namer
	customers map[string]custmap.Attributes
}

// NewFinalizer builds a finalizer. A nil customer mapping is allowed; every
// record then carries unresolved customer attributes and the corresponding
// annotations.
func NewFinalizer(tables rules.Tables, customers map[string]custmap.Attributes) *Finalizer {
	return &Finalizer{
		mapper:    rules.NewMapper(tables),
		namer:     naming.NewNamer(tables),
		customers: customers,
	}
}

// Finalize enriches every record in place: support-type re-check, customer
// attribute merge, metadata mapping, segment, expected cost, promotion name,
// and validation annotations.
func (f *Finalizer) Finalize(records []*types.PromoRecord) {
	for _, rec := range records {
		f.fixSupportType(rec)
		f.mergeCustomer(rec)

		meta := f.mapper.MapMetadata(rec.ModelCode, rec.TypeOfSupport)
		rec.BudgetAllocation = meta.BudgetAllocation
		rec.ProductType = meta.ProductType
		rec.MappedReasonCode = meta.ReasonCode
		rec.ProgramType = meta.ProgramType
		rec.Segment = f.mapper.ClassifyModelCode(rec.ModelCode)

		rec.ExpectedCost = rec.AdditionalSOA.Mul(decimal.NewFromInt(rec.ExpectedSellOut)).Round(2)
		rec.PromotionName = f.namer.Build(rec)

		rec.AddError(validation.DetectErrors(rec))
	}
}

// fixSupportType repeats the support-type cleanup after grouping and
// expansion, in case a blank slipped through a missing column.
func (f *Finalizer) fixSupportType(rec *types.PromoRecord) {
	v := strings.TrimSpace(rec.TypeOfSupport)
	if v == "" || types.IsUnresolved(v) && len(v) <= 3 {
		rec.TypeOfSupport = types.DefaultSupportType
		return
	}
	rec.TypeOfSupport = v
}

// mergeCustomer copies mapped customer attributes onto the record; unknown
// codes get the unresolved sentinel so validation flags them.
func (f *Finalizer) mergeCustomer(rec *types.PromoRecord) {
	attrs, ok := f.customers[strings.ToUpper(strings.TrimSpace(rec.CustomerCode))]
	if !ok {
		rec.CustomerType = types.Unresolved
		rec.Requestor = types.Unresolved
		rec.Currency = types.Unresolved
		return
	}
	rec.CustomerType = orUnresolved(attrs.CustomerType)
	rec.Requestor = orUnresolved(attrs.Requestor)
	rec.Currency = orUnresolved(attrs.Currency)
}

func orUnresolved(v string) string {
	if strings.TrimSpace(v) == "" {
		return types.Unresolved
	}
	return v
}
