// =============================================================================
// PET Form Processor - Metadata Mapper
// =============================================================================
//
// This module classifies a model code into budget allocation / product type,
// and a support-type string into a reason code / program type, using the
// suffix, prefix and exact-variation tables. All lookups are case-insensitive
// pure functions of their string inputs: bad input data yields the safe
// default tuple, never an error, so a malformed row can't abort the batch.
//
// =============================================================================

package rules

import "strings"

// Metadata is the mapper's output tuple. Unmatched fields carry the
// unresolved sentinel so downstream highlighting picks them up.
type Metadata struct {
	BudgetAllocation string
	ProductType      string
	ReasonCode       string
	ProgramType      string
}

// Mapper resolves promo metadata against an injected rule-table set.
type Mapper struct {
	tables Tables

	// soaSynonyms is the fixed sell-out-support shortcut checked before the
	// reason-rule walk.
	soaSynonyms map[string]struct{}
}

// NewMapper builds a mapper over the given tables.
func NewMapper(t Tables) *Mapper {
	return &Mapper{
		tables: t,
		soaSynonyms: map[string]struct{}{
			"SOA":   {},
			"A SOA": {},
			"A-SOA": {},
		},
	}
}

// MapMetadata resolves the full metadata tuple for a model code and support
// type. Resolution order for budget allocation: AV suffix, TV suffix, exact
// division code, division prefix walk, unresolved. Suffix rules always win
// over prefix rules.
func (m *Mapper) MapMetadata(modelCode, supportType string) Metadata {
	model := strings.ToUpper(strings.TrimSpace(modelCode))
	support := strings.ToUpper(strings.TrimSpace(supportType))

	out := Metadata{
		BudgetAllocation: m.budgetAllocation(model),
		ProductType:      m.productType(model),
		ReasonCode:       "NA",
		ProgramType:      "NA",
	}

	if _, ok := m.soaSynonyms[support]; ok {
		out.ReasonCode = "TM_Z02"
		out.ProgramType = "Lumpsum"
		return out
	}

	for _, rule := range m.tables.ReasonRules {
		for _, v := range rule.Variations {
			if support == strings.ToUpper(v) {
				out.ReasonCode = rule.ReasonCode
				out.ProgramType = rule.ProgramType
				return out
			}
		}
	}
	return out
}

func (m *Mapper) budgetAllocation(model string) string {
	if hasAnySuffix(model, m.tables.AVSuffixes) {
		return m.tables.AVDivision
	}
	if hasAnySuffix(model, m.tables.TVSuffixes) {
		return m.tables.TVDivision
	}
	for _, code := range m.tables.DivisionCodes {
		if model == code {
			return model
		}
	}
	for _, dp := range m.tables.DivisionPrefixMap {
		for _, prefix := range dp.Prefixes {
			if strings.HasPrefix(model, prefix) {
				return dp.Division
			}
		}
	}
	return "NA"
}

// productType is "Division" when the model code contains any valid division
// code anywhere, "Model" otherwise.
func (m *Mapper) productType(model string) string {
	for _, code := range m.tables.DivisionCodes {
		if strings.Contains(model, code) {
			return "Division"
		}
	}
	return "Model"
}

// ClassifyModelCode is the display-segmentation sibling of MapMetadata:
// suffix-based AV/TV classification only, no division logic.
func (m *Mapper) ClassifyModelCode(modelCode string) string {
	model := strings.ToUpper(strings.TrimSpace(modelCode))
	if hasAnySuffix(model, m.tables.AVSuffixes) {
		return "AV"
	}
	if hasAnySuffix(model, m.tables.TVSuffixes) {
		return "TV"
	}
	return "NA"
}

// IsHSDivision reports whether a budget allocation uses the head-office
// naming format.
func (m *Mapper) IsHSDivision(budgetAllocation string) bool {
	for _, code := range m.tables.HSCodes {
		if budgetAllocation == code {
			return true
		}
	}
	return false
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, sfx := range suffixes {
		if strings.HasSuffix(s, sfx) {
			return true
		}
	}
	return false
}
