// =============================================================================
// PET Form Processor - Header Resolver
// =============================================================================
//
// Submitted PET forms share no layout: the header row floats somewhere in the
// first dozen rows, labels are split across two rows, and column names drift
// ("Sell-out Estimated QTY", "Projected Sell", "QTY", ...). This module
// locates the header row by keyword scoring, merges the alternate row below
// it, and renames detected columns to canonical names via exact and fuzzy
// matching with per-column exclusion rules.
//
// Matching runs on normalized names: trimmed, whitespace-collapsed (newlines,
// carriage returns and non-breaking spaces become plain spaces), lower-cased.
// Fuzzy similarity is a Levenshtein ratio on a 0-100 scale against an 85%
// threshold, mirroring the scorer the submissions were originally triaged
// with.
//
// =============================================================================

package header

import (
	"errors"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/spgmops/petform/internal/sheet"
)

// ErrHeaderNotFound is returned when no row in the scan window scores a
// single keyword hit. The file is skipped, not fatal to the batch.
var ErrHeaderNotFound = errors.New("no recognizable header row found")

// DefaultThreshold is the fuzzy-similarity cutoff (percent).
const DefaultThreshold = 85

// DefaultMaxScanRows bounds the header search window.
const DefaultMaxScanRows = 13

// DefaultKeywords score candidate header rows: one point per keyword that
// appears as a substring of any cell in the row.
var DefaultKeywords = []string{"customer", "account", "model", "sell", "soa", "code", "date"}

// ColumnRule describes one canonical column: the standard name, the accepted
// spellings, and substrings that disqualify a candidate (e.g. "Total SOA"
// must never be taken for "Additional SOA").
type ColumnRule struct {
	Standard   string
	Variations []string
	Exclusions []string
}

// DefaultColumnRules is the canonical PET form schema.
func DefaultColumnRules() []ColumnRule {
	return []ColumnRule{
		{Standard: "Customer Code", Variations: []string{"Customer Code", "CustomerCode"}},
		{Standard: "Customer Name", Variations: []string{"Customer Name", "Account", "CustomerName"}},
		{Standard: "Model Code", Variations: []string{"Model Code", "Model.Suffix", "Model", "Product Code", "SKU", "Product"}},
		{
			Standard:   "Type of Support",
			Variations: []string{"Type Of Support"},
			Exclusions: []string{"SOA", "INVOICE BEFORE SOA", "① SOA"},
		},
		{
			Standard:   "Additional SOA",
			Variations: []string{"SOA/Unit", "SOA / unit", "Additional SOA", "DC/Unit", "DC"},
			Exclusions: []string{"Invoice before SOA", "Current SOA", "Total SOA", "① SOA"},
		},
		{
			Standard: "Expected Sell-Out",
			Variations: []string{
				"Expected Sell-Out", "Sell-out Estimated QTY", "Sell-Out Expected", "Sell Out",
				"Projected Sell", "QTY", "Quantity", "Expected",
			},
			Exclusions: []string{"Expected Sell-In", "Sell-In Quantity"},
		},
		{Standard: "Start Date", Variations: []string{"StartDate"}, Exclusions: []string{"Request Date"}},
		{Standard: "End Date", Variations: []string{"End Date"}, Exclusions: []string{"Request Date"}},
		{
			Standard:   "Expected Cost",
			Variations: []string{"Expected Cost", "Total Additional Support AMT"},
			Exclusions: []string{"Total SOA"},
		},
		{Standard: "Name of Promotion", Variations: []string{"Name of promotion", "Details", "Comments"}},
	}
}

// Table is the resolver's output: a grid reshaped into named columns and
// data rows.
type Table struct {
	Columns   []string
	Rows      [][]string
	HeaderRow int
}

// Index returns the position of a column by name, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Value returns the cell at (row, column-name), or "" when absent.
func (t *Table) Value(row int, name string) string {
	i := t.Index(name)
	if i < 0 || row < 0 || row >= len(t.Rows) || i >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][i]
}

// =============================================================================
// RESOLVER
// =============================================================================

// Resolver detects header rows and renames columns against an injected
// canonical schema.
type Resolver struct {
	rules       []ColumnRule
	keywords    []string
	threshold   int
	maxScanRows int

	// cleaned variations / exclusions, precomputed per rule
	variations [][]string
	exclusions [][]string
	allNames   []string
}

// NewResolver builds a resolver. Zero threshold/maxScanRows fall back to the
// defaults; nil keywords fall back to DefaultKeywords.
func NewResolver(rules []ColumnRule, keywords []string, threshold, maxScanRows int) *Resolver {
	if keywords == nil {
		keywords = DefaultKeywords
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if maxScanRows <= 0 {
		maxScanRows = DefaultMaxScanRows
	}
	r := &Resolver{
		rules:       rules,
		keywords:    keywords,
		threshold:   threshold,
		maxScanRows: maxScanRows,
	}
	for _, rule := range rules {
		vars := make([]string, len(rule.Variations))
		for i, v := range rule.Variations {
			vars[i] = CleanColumnName(v)
		}
		excl := make([]string, len(rule.Exclusions))
		for i, e := range rule.Exclusions {
			excl[i] = CleanColumnName(e)
		}
		r.variations = append(r.variations, vars)
		r.exclusions = append(r.exclusions, excl)
		r.allNames = append(r.allNames, vars...)
	}
	return r
}

// Resolve locates the header row in a raw grid and returns the table with
// columns renamed to canonical names where detected. Unmatched columns keep
// their raw (normalized) header value; they may simply go unmapped.
func (r *Resolver) Resolve(grid sheet.Grid) (*Table, error) {
	headerRow := r.findHeaderRow(grid)
	if headerRow < 0 {
		return nil, ErrHeaderNotFound
	}

	altRow := headerRow + 1
	if altRow >= len(grid) {
		altRow = -1
	}

	width := grid.Width()
	columns := make([]string, width)
	altUsed := 0
	for col := 0; col < width; col++ {
		main := CleanColumnName(grid.Cell(headerRow, col))
		alt := ""
		if altRow >= 0 {
			alt = CleanColumnName(grid.Cell(altRow, col))
		}
		switch {
		case r.matchesAnyColumn(main):
			columns[col] = main
		case alt != "" && r.matchesAnyColumn(alt):
			// Some forms split a label across two rows; take the lower half
			// when only it is recognizable.
			columns[col] = alt
			altUsed++
		default:
			columns[col] = main
		}
	}

	dataStart := headerRow + 1
	if altRow >= 0 && altUsed > 0 {
		dataStart = altRow + 1
	}

	rows := make([][]string, 0, len(grid)-dataStart)
	for i := dataStart; i < len(grid); i++ {
		row := make([]string, width)
		for col := 0; col < width; col++ {
			row[col] = grid.Cell(i, col)
		}
		rows = append(rows, row)
	}

	table := &Table{Columns: columns, Rows: rows, HeaderRow: headerRow}
	r.renameColumns(table)
	return table, nil
}

// findHeaderRow scores each of the first maxScanRows rows by counting how
// many keywords appear as a substring of any cell. Highest positive score
// wins; ties keep the first row found.
func (r *Resolver) findHeaderRow(grid sheet.Grid) int {
	limit := r.maxScanRows
	if len(grid) < limit {
		limit = len(grid)
	}
	best, bestScore := -1, 0
	for i := 0; i < limit; i++ {
		score := 0
		for _, kw := range r.keywords {
			for _, cell := range grid[i] {
				if strings.Contains(strings.ToLower(cell), kw) {
					score++
					break
				}
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// matchesAnyColumn tests a single header cell against every accepted
// variation of every canonical column: exact first, then fuzzy.
func (r *Resolver) matchesAnyColumn(value string) bool {
	cleaned := CleanColumnName(value)
	if cleaned == "" {
		return false
	}
	for _, vars := range r.variations {
		for _, v := range vars {
			if cleaned == v {
				return true
			}
		}
	}
	_, score := extractOne(cleaned, r.allNames)
	return score >= r.threshold
}

// renameColumns performs the second full-table pass: for each canonical
// column, an exact variation match in input order wins (skipping excluded
// names); otherwise the highest-scoring fuzzy candidate at or above the
// threshold, also honoring exclusions.
func (r *Resolver) renameColumns(t *Table) {
	current := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		current[i] = CleanColumnName(c)
	}

	for ri, rule := range r.rules {
		matchIdx := -1

		for i, c := range current {
			if containsAny(c, r.exclusions[ri]) {
				continue
			}
			if equalsAny(c, r.variations[ri]) {
				matchIdx = i
				break
			}
		}

		if matchIdx < 0 {
			bestScore := 0
			for _, variant := range r.variations[ri] {
				name, score := extractOne(variant, current)
				if score < r.threshold || containsAny(name, r.exclusions[ri]) {
					continue
				}
				if score > bestScore {
					bestScore = score
					matchIdx = indexOf(current, name)
				}
			}
		}

		if matchIdx >= 0 {
			t.Columns[matchIdx] = rule.Standard
			current[matchIdx] = CleanColumnName(rule.Standard)
		}
	}
}

// =============================================================================
// NORMALIZATION AND FUZZY MATCHING
// =============================================================================

var spaceReplacer = strings.NewReplacer("\n", " ", "\r", " ", "\u00A0", " ")

// CleanColumnName normalizes a header cell for comparison: newline, carriage
// return and non-breaking space become plain spaces, internal whitespace
// collapses, and the result is trimmed and lower-cased.
func CleanColumnName(name string) string {
	s := spaceReplacer.Replace(name)
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(s)
}

// Similarity is a Levenshtein ratio on a 0-100 scale.
func Similarity(a, b string) int {
	if a == b {
		return 100
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 100 - (100*dist+maxLen/2)/maxLen
}

// extractOne returns the best-scoring choice for a query, with its score.
func extractOne(query string, choices []string) (string, int) {
	best, bestScore := "", -1
	for _, c := range choices {
		if s := Similarity(query, c); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best, bestScore
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func equalsAny(s string, values []string) bool {
	for _, v := range values {
		if s == v {
			return true
		}
	}
	return false
}

func indexOf(values []string, v string) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	return -1
}
