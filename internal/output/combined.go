// =============================================================================
// PET Form Processor - Combined Extract Writer
// =============================================================================
//
// Writes CombinedExtractedColumns.xlsx: one row per expanded record with
// every pipeline field, for reviewer triage. Rows containing any unresolved
// cell are highlighted yellow so reviewers can filter straight to them.
//
// =============================================================================

package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/spgmops/petform/internal/types"
)

// highlightColor is the fill applied to rows carrying unresolved cells.
const highlightColor = "FFFF00"

// combinedColumns is the extract layout, in order.
var combinedColumns = []string{
	"Customer Code",
	"Customer Name",
	"Customer Type",
	"Requestor",
	"Currency",
	"Model Code",
	"Type of Support",
	"Additional SOA",
	"Expected Sell-Out",
	"Start Date",
	"End Date",
	"Apply Month",
	"Name of Promotion",
	"Promotion Name",
	"Budget Allocation",
	"Product Type",
	"Mapped Reason Code",
	"Program Type",
	"Segment",
	"Expected Cost",
	"WBW",
	"WBW Model",
	"Source File",
	"Errors",
}

// combinedRow renders a record into the extract layout.
func combinedRow(rec *types.PromoRecord) []string {
	return []string{
		rec.CustomerCode,
		rec.CustomerName,
		rec.CustomerType,
		rec.Requestor,
		rec.Currency,
		rec.ModelCode,
		rec.TypeOfSupport,
		rec.AdditionalSOA.StringFixed(2),
		fmt.Sprintf("%d", rec.ExpectedSellOut),
		rec.StartDate,
		rec.EndDate,
		rec.ApplyMonth,
		rec.NameOfPromotion,
		rec.PromotionName,
		rec.BudgetAllocation,
		rec.ProductType,
		rec.MappedReasonCode,
		rec.ProgramType,
		rec.Segment,
		rec.ExpectedCost.StringFixed(2),
		rec.WBWFlag(),
		rec.WBWModel,
		rec.SourceFile,
		rec.Errors,
	}
}

// WriteCombined regenerates the combined extract at path. The file is always
// written from scratch; callers remove a previous copy beforehand.
func WriteCombined(path string, records []*types.PromoRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Combined"
	f.SetSheetName(f.GetSheetName(0), sheetName)

	headerCell, _ := excelize.CoordinatesToCellName(1, 1)
	if err := f.SetSheetRow(sheetName, headerCell, &combinedColumns); err != nil {
		return fmt.Errorf("writing combined header: %w", err)
	}

	highlight, err := highlightStyle(f)
	if err != nil {
		return err
	}

	for i, rec := range records {
		row := combinedRow(rec)
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("writing combined row %d: %w", i+2, err)
		}
		if rowNeedsHighlight(row) {
			first, _ := excelize.CoordinatesToCellName(1, i+2)
			last, _ := excelize.CoordinatesToCellName(len(combinedColumns), i+2)
			if err := f.SetCellStyle(sheetName, first, last, highlight); err != nil {
				return fmt.Errorf("highlighting combined row %d: %w", i+2, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving combined extract: %w", err)
	}
	return nil
}

// rowNeedsHighlight reports whether any rendered cell is unresolved.
func rowNeedsHighlight(row []string) bool {
	for _, cell := range row {
		if types.IsUnresolved(cell) {
			return true
		}
	}
	return false
}

// highlightStyle builds the yellow pattern fill once per workbook.
func highlightStyle(f *excelize.File) (int, error) {
	style, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{highlightColor}},
	})
	if err != nil {
		return 0, fmt.Errorf("creating highlight style: %w", err)
	}
	return style, nil
}
