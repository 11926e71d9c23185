// =============================================================================
// PET Form Processor - Promotion Namer
// =============================================================================
//
// Derives the canonical display name for each expanded row. Head-office
// divisions get the structured "HS - PET - ..." prefix format (or "HS - PRM"
// when the raw promotion text already references a PRM); everything else uses
// the compact customer/segment form. Output is whitespace-collapsed and
// upper-cased.
//
// =============================================================================

package naming

import (
	"fmt"
	"strings"

	"github.com/spgmops/petform/internal/rules"
	"github.com/spgmops/petform/internal/types"
)

// Namer formats promotion display names against an injected rule-table set.
type Namer struct {
	hsCodes       map[string]struct{}
	removeWords   map[string]struct{}
	abbreviations map[string]struct{}
}

// NewNamer builds a namer from the rule tables.
func NewNamer(t rules.Tables) *Namer {
	n := &Namer{
		hsCodes:       make(map[string]struct{}, len(t.HSCodes)),
		removeWords:   make(map[string]struct{}, len(t.RemoveWords)),
		abbreviations: make(map[string]struct{}, len(t.Abbreviations)),
	}
	for _, c := range t.HSCodes {
		n.hsCodes[c] = struct{}{}
	}
	for _, w := range t.RemoveWords {
		n.removeWords[strings.ToUpper(w)] = struct{}{}
	}
	for _, a := range t.Abbreviations {
		n.abbreviations[strings.ToUpper(a)] = struct{}{}
	}
	return n
}

// Build produces the display name for a record. Empty source fields render
// as the unresolved sentinel so the highlight rule still catches them.
func (n *Namer) Build(rec *types.PromoRecord) string {
	customer := safeValue(rec.CustomerName)
	segment := safeValue(rec.Segment)
	promo := safeValue(rec.NameOfPromotion)
	start := safeValue(rec.StartDate)
	end := safeValue(rec.EndDate)
	budget := safeValue(rec.BudgetAllocation)
	support := safeValue(rec.TypeOfSupport)

	promoClean := n.stripRemoveWords(promo)

	var full string
	if _, hs := n.hsCodes[budget]; hs {
		program := "PET"
		if strings.Contains(strings.ToUpper(promo), "PRM") {
			program = "PRM"
		}
		full = fmt.Sprintf("HS - %s - %s - %s - %s - %s - %s TO %s",
			program, budget, promoClean, support, customer, start, end)
	} else {
		full = fmt.Sprintf("%s (%s) %s PET %s %s TO %s",
			customer, segment, promoClean, support, start, end)
	}

	return strings.ToUpper(strings.Join(strings.Fields(full), " "))
}

// TitleCase formats free text for display: each word capitalized, known
// trade abbreviations kept fully upper-cased, blacklisted words dropped.
func (n *Namer) TitleCase(text string) string {
	var words []string
	for _, word := range strings.Fields(text) {
		upper := strings.ToUpper(word)
		if _, drop := n.removeWords[upper]; drop {
			continue
		}
		if _, abbr := n.abbreviations[upper]; abbr {
			words = append(words, upper)
			continue
		}
		words = append(words, capitalize(word))
	}
	return strings.Join(words, " ")
}

func capitalize(word string) string {
	runes := []rune(strings.ToLower(word))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
	return string(runes)
}

// stripRemoveWords drops blacklisted words from the promotion text.
func (n *Namer) stripRemoveWords(text string) string {
	var kept []string
	for _, word := range strings.Fields(text) {
		if _, drop := n.removeWords[strings.ToUpper(word)]; drop {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}

func safeValue(v string) string {
	if strings.TrimSpace(v) == "" {
		return types.Unresolved
	}
	return v
}
