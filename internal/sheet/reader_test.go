package sheet

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheets map[string][][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	path := filepath.Join(t.TempDir(), "form.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadPromoGridMatchesSheetByKeyword(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"PET Form 2025": {
			{"Customer Name", "Model Code"},
			{"ACME LTD", "DB1234"},
		},
	})

	grid, name, err := ReadPromoGrid(path)
	require.NoError(t, err)

	assert.Equal(t, "PET Form 2025", name)
	require.Len(t, grid, 2)
	assert.Equal(t, "ACME LTD", grid.Cell(1, 0))
}

func TestReadPromoGridNoMatchingSheet(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Notes": {{"just", "notes"}},
	})

	_, _, err := ReadPromoGrid(path)
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestReadPromoGridMissingFile(t *testing.T) {
	_, _, err := ReadPromoGrid(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}

func TestGridCellAndWidth(t *testing.T) {
	g := Grid{
		{"a", "b", "c"},
		{"d"},
	}

	assert.Equal(t, 3, g.Width())
	assert.Equal(t, "d", g.Cell(1, 0))
	// Ragged and out-of-range reads are empty, not panics.
	assert.Equal(t, "", g.Cell(1, 2))
	assert.Equal(t, "", g.Cell(5, 0))
	assert.Equal(t, "", g.Cell(0, -1))
}
