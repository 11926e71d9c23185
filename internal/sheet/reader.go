// =============================================================================
// PET Form Processor - Workbook Reader
// =============================================================================
//
// This module opens a submitted workbook, locates the worksheet that carries
// the PET form (submitters name it inconsistently), and returns its contents
// as a raw grid of strings. Header detection happens later; at this stage the
// sheet is just unstructured cells.
//
// =============================================================================

package sheet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound is returned when no worksheet title matches the expected
// PET form keywords. The file is skipped, not fatal to the batch.
var ErrSheetNotFound = errors.New("no PET form sheet found")

// sheetKeywords are matched case-insensitively as substrings of worksheet
// titles. The first matching sheet wins.
var sheetKeywords = []string{"pet form", "spgm request", "av spgm"}

// Grid is a raw worksheet: rows of cell values with no header semantics.
// Rows may be ragged; trailing empty cells are not padded.
type Grid [][]string

// ReadPromoGrid opens the workbook at path and returns the raw grid of the
// first sheet whose title looks like a PET form, along with the sheet name.
func ReadPromoGrid(path string) (Grid, string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	name := matchSheet(f.GetSheetList())
	if name == "" {
		return nil, "", ErrSheetNotFound
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, "", fmt.Errorf("reading sheet %q: %w", name, err)
	}
	return Grid(rows), name, nil
}

func matchSheet(names []string) string {
	for _, name := range names {
		lower := strings.ToLower(name)
		for _, kw := range sheetKeywords {
			if strings.Contains(lower, kw) {
				return name
			}
		}
	}
	return ""
}

// Cell returns the value at (row, col), or "" when the grid is ragged there.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return ""
	}
	return g[row][col]
}

// Width is the widest row of the grid.
func (g Grid) Width() int {
	w := 0
	for _, row := range g {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}
