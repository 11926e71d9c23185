// =============================================================================
// PET Form Processor - Customer Mapping Loader
// =============================================================================
//
// Loads the customer mapping workbook: customer code -> customer type,
// requestor and currency. The mapping is maintained by hand in Excel, so the
// loader tolerates a floating header row and duplicate entries (first wins).
//
// =============================================================================

package custmap

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Attributes are the per-customer fields merged into every record.
type Attributes struct {
	CustomerType string
	Requestor    string
	Currency     string
}

// headerScanLimit bounds the search for the mapping sheet's header row.
const headerScanLimit = 10

// Load reads the customer mapping workbook and returns attributes keyed by
// upper-cased customer code. A missing file is the caller's decision to make;
// an unreadable file is an error.
func Load(path string) (map[string]Attributes, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening customer mapping %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("customer mapping %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading customer mapping %s: %w", path, err)
	}

	codeCol, typeCol, reqCol, curCol, headerRow := findColumns(rows)
	if codeCol < 0 {
		return nil, fmt.Errorf("customer mapping %s: no customer code column", path)
	}

	mapping := make(map[string]Attributes)
	for i := headerRow + 1; i < len(rows); i++ {
		code := strings.ToUpper(strings.TrimSpace(cell(rows[i], codeCol)))
		if code == "" {
			continue
		}
		if _, seen := mapping[code]; seen {
			continue
		}
		mapping[code] = Attributes{
			CustomerType: strings.TrimSpace(cell(rows[i], typeCol)),
			Requestor:    strings.TrimSpace(cell(rows[i], reqCol)),
			Currency:     strings.TrimSpace(cell(rows[i], curCol)),
		}
	}
	return mapping, nil
}

// findColumns locates the header row and the four columns of interest by
// substring match on normalized header cells.
func findColumns(rows [][]string) (codeCol, typeCol, reqCol, curCol, headerRow int) {
	codeCol, typeCol, reqCol, curCol, headerRow = -1, -1, -1, -1, 0

	limit := headerScanLimit
	if len(rows) < limit {
		limit = len(rows)
	}
	for i := 0; i < limit; i++ {
		for j, c := range rows[i] {
			name := strings.ToLower(strings.Join(strings.Fields(c), " "))
			switch {
			case strings.Contains(name, "customer code"):
				codeCol, headerRow = j, i
			case strings.Contains(name, "customer type"):
				typeCol = j
			case strings.Contains(name, "requestor"):
				reqCol = j
			case strings.Contains(name, "currency"):
				curCol = j
			}
		}
		if codeCol >= 0 {
			return codeCol, typeCol, reqCol, curCol, i
		}
	}
	return codeCol, typeCol, reqCol, curCol, headerRow
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
