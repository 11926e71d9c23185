// =============================================================================
// PET Form Processor - Mass Upload Writer
// =============================================================================
//
// Writes MassUpload.xlsx in the fixed positional A-U layout the upload
// portal ingests. The workbook is opened in place when it already exists (its
// header row is portal-managed); stale data rows are truncated before
// writing. Column O is intentionally left blank, column E carries the
// fiscal-period formula over the end date, and the promotion name is
// duplicated into columns A, H and U.
//
// =============================================================================

package output

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/spgmops/petform/internal/types"
)

// massUploadHeader seeds the header row when the workbook does not exist yet.
var massUploadHeader = []string{
	"Promotion Name", "Requestor", "Start Date", "End Date", "Apply Period",
	"Currency", "Order Type", "Description", "Reason Code", "Settlement",
	"Customer Type", "Customer Code", "Product Type", "Model Code", "",
	"Amount Type", "Additional SOA", "Expected Sell-Out", "Expected Cost",
	"Apply Month", "Promotion Name Copy",
}

const massUploadColumns = 21 // A through U

// WriteMassUpload regenerates the upload sheet at path from the finalized
// records. An existing workbook keeps its header row; everything below it is
// replaced.
func WriteMassUpload(path string, records []*types.PromoRecord) error {
	f, sheetName, err := openMassUpload(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := truncateDataRows(f, sheetName); err != nil {
		return err
	}

	highlight, err := highlightStyle(f)
	if err != nil {
		return err
	}

	for i, rec := range records {
		excelRow := i + 2
		if err := writeMassUploadRow(f, sheetName, excelRow, rec); err != nil {
			return err
		}
		if massUploadRowUnresolved(rec) {
			first, _ := excelize.CoordinatesToCellName(1, excelRow)
			last, _ := excelize.CoordinatesToCellName(massUploadColumns, excelRow)
			if err := f.SetCellStyle(sheetName, first, last, highlight); err != nil {
				return fmt.Errorf("highlighting upload row %d: %w", excelRow, err)
			}
		}
	}

	if err := autoSizeColumns(f, sheetName); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving mass upload: %w", err)
	}
	return nil
}

// openMassUpload opens the workbook in place, or creates a fresh one with the
// seed header when it does not exist.
func openMassUpload(path string) (*excelize.File, string, error) {
	if _, err := os.Stat(path); err == nil {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("opening mass upload %s: %w", path, err)
		}
		return f, f.GetSheetName(0), nil
	}

	f := excelize.NewFile()
	sheetName := f.GetSheetName(0)
	cell, _ := excelize.CoordinatesToCellName(1, 1)
	if err := f.SetSheetRow(sheetName, cell, &massUploadHeader); err != nil {
		f.Close()
		return nil, "", fmt.Errorf("seeding mass upload header: %w", err)
	}
	return f, sheetName, nil
}

// truncateDataRows removes every row below the header so a rerun never
// leaves stale records or fills behind.
func truncateDataRows(f *excelize.File, sheetName string) error {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return fmt.Errorf("scanning mass upload rows: %w", err)
	}
	for i := len(rows); i >= 2; i-- {
		if err := f.RemoveRow(sheetName, i); err != nil {
			return fmt.Errorf("truncating mass upload row %d: %w", i, err)
		}
	}
	return nil
}

// writeMassUploadRow fills one A-U row. Column O is skipped on purpose.
func writeMassUploadRow(f *excelize.File, sheetName string, row int, rec *types.PromoRecord) error {
	set := func(col string, value interface{}) error {
		return f.SetCellValue(sheetName, fmt.Sprintf("%s%d", col, row), value)
	}

	cells := []struct {
		col   string
		value interface{}
	}{
		{"A", rec.PromotionName},
		{"B", rec.Requestor},
		{"C", rec.StartDate},
		{"D", rec.EndDate},
		{"F", rec.Currency},
		{"G", "SAL"},
		{"H", rec.PromotionName},
		{"I", rec.MappedReasonCode},
		{"J", "LUMPSUM"},
		{"K", rec.CustomerType},
		{"L", rec.CustomerCode},
		{"M", rec.ProductType},
		{"N", rec.ModelCode},
		{"P", "AMT"},
		{"Q", rec.AdditionalSOA.StringFixed(2)},
		{"R", rec.ExpectedSellOut},
		{"S", rec.ExpectedCost.StringFixed(2)},
		{"T", rec.ApplyMonth},
		{"U", rec.PromotionName},
	}
	for _, c := range cells {
		if err := set(c.col, c.value); err != nil {
			return fmt.Errorf("writing upload row %d column %s: %w", row, c.col, err)
		}
	}

	// Fiscal period: end-date month shifted +3 into the fiscal calendar.
	formula := fmt.Sprintf(`TEXT(DATE(LEFT(D%d,4),MID(D%d,5,2)+3,1),"YYYYMM")`, row, row)
	if err := f.SetCellFormula(sheetName, fmt.Sprintf("E%d", row), formula); err != nil {
		return fmt.Errorf("writing upload row %d formula: %w", row, err)
	}
	return nil
}

// massUploadRowUnresolved mirrors the extract highlight rule over the fields
// rendered into columns A-U.
func massUploadRowUnresolved(rec *types.PromoRecord) bool {
	fields := []string{
		rec.PromotionName, rec.Requestor, rec.StartDate, rec.EndDate,
		rec.Currency, rec.MappedReasonCode, rec.CustomerType, rec.CustomerCode,
		rec.ProductType, rec.ModelCode, rec.ApplyMonth,
	}
	for _, v := range fields {
		if types.IsUnresolved(v) {
			return true
		}
	}
	return false
}

// autoSizeColumns widens each column to its longest rendered value plus
// padding, matching the hand-maintained sheet's look.
func autoSizeColumns(f *excelize.File, sheetName string) error {
	cols, err := f.GetCols(sheetName)
	if err != nil {
		return fmt.Errorf("measuring upload columns: %w", err)
	}
	for i, col := range cols {
		maxLen := 0
		for _, cell := range col {
			if l := len(cell); l > maxLen {
				maxLen = l
			}
		}
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheetName, name, name, float64(maxLen+2)); err != nil {
			return fmt.Errorf("sizing upload column %s: %w", name, err)
		}
	}
	return nil
}
