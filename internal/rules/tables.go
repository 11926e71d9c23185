// =============================================================================
// PET Form Processor - Rule Tables
// =============================================================================
//
// This module holds the closed-vocabulary tables the metadata mapper, the
// cleanup step and the promotion namer run against: reason-code variations,
// division prefix lists, AV/TV suffix sets and customer-code patterns.
//
// The tables are immutable configuration data injected into each component at
// construction. Defaults() returns the production tables; tests substitute
// synthetic ones. A YAML file with the same shape can override the defaults
// via config.
//
// =============================================================================

package rules

// ReasonRule maps a sales-program reason code to the set of support-type
// spellings that should resolve to it. First matching rule wins.
type ReasonRule struct {
	ReasonCode  string   `yaml:"reason_code"`
	Variations  []string `yaml:"variations"`
	ProgramType string   `yaml:"pgm_type"`
	ProductType string   `yaml:"product_type"`
}

// DivisionPrefixes is one division's model-code prefix list. Order matters:
// divisions are checked in table order and the first division with a matching
// prefix wins.
type DivisionPrefixes struct {
	Division string   `yaml:"division"`
	Prefixes []string `yaml:"prefixes"`
}

// Tables bundles every closed vocabulary the pipeline consults.
type Tables struct {
	// ReasonRules resolve support-type strings to reason codes.
	ReasonRules []ReasonRule `yaml:"reason_rules"`

	// DivisionPrefixMap covers the divisions resolvable by model-code
	// prefix (all except the AV and TV divisions, which use suffixes).
	DivisionPrefixMap []DivisionPrefixes `yaml:"division_prefix_map"`

	// DivisionCodes is the closed set of valid budget-allocation divisions.
	DivisionCodes []string `yaml:"division_codes"`

	// AVSuffixes / TVSuffixes classify model codes by ending. Suffix rules
	// take precedence over prefix rules.
	AVSuffixes []string `yaml:"av_suffixes"`
	TVSuffixes []string `yaml:"tv_suffixes"`

	// AVDivision / TVDivision are the fixed divisions a suffix match
	// resolves to.
	AVDivision string `yaml:"av_division"`
	TVDivision string `yaml:"tv_division"`

	// HSCodes are the head-office-style divisions that switch the promotion
	// namer to its structured prefix format.
	HSCodes []string `yaml:"hs_codes"`

	// RemoveWords are stripped from promotion text before naming.
	RemoveWords []string `yaml:"remove_words"`

	// Abbreviations stay fully upper-cased in formatted text.
	Abbreviations []string `yaml:"abbreviations"`

	// CustomerCodePrefixes / CustomerCodeExceptions decide whether a value
	// looks like a customer code, which drives swapped-column correction.
	CustomerCodePrefixes   []string `yaml:"customer_code_prefixes"`
	CustomerCodeExceptions []string `yaml:"customer_code_exceptions"`

	// CustomerCodeAliases maps known misspellings to their canonical code.
	// Keys are compared lower-cased.
	CustomerCodeAliases map[string]string `yaml:"customer_code_aliases"`
}

// Defaults returns the production rule tables.
func Defaults() Tables {
	return Tables{
		ReasonRules: []ReasonRule{
			{ReasonCode: "TM_R03", Variations: []string{"TM_R03", "DISPLAY SUPPORT REBATE"}, ProgramType: "Lumpsum", ProductType: "Division"},
			{ReasonCode: "TM_R12", Variations: []string{"TM_R12", "NTSI", "ADDITIONAL SELL IN REBATE"}, ProgramType: "Lumpsum", ProductType: "Division"},
			{ReasonCode: "TM_C01", Variations: []string{"TM_C01", "CO-OP", "COOP", "CO-OP AD", "CO-OP AD.", "CO-OP ADVERTISING", "COP"}, ProgramType: "Lumpsum", ProductType: "Division"},
			{ReasonCode: "TM_P01", Variations: []string{"TM_P01", "PRICE PROTECTION"}, ProgramType: "Lumpsum", ProductType: "Model"},
			{ReasonCode: "TM_Z02", Variations: []string{"TM_Z02", "SOA", "SELL OUT SUPPORT REBATE", "A SOA"}, ProgramType: "Lumpsum", ProductType: "Model"},
		},

		// All divisions except GLT and PNT, which resolve by suffix.
		DivisionPrefixMap: []DivisionPrefixes{
			{Division: "CDT", Prefixes: []string{"DB", "DF"}},
			{Division: "CNT", Prefixes: []string{"GB", "GM", "GS"}},
			{Division: "DFT", Prefixes: []string{"F4", "FW", "FD", "F2", "FH", "LS", "WT", "S3", "W4"}},
		},

		DivisionCodes: []string{"GNT", "GJT", "GLT", "DFT", "CNT", "GTT", "PNT", "CDT", "PCT", "GKT"},

		AVSuffixes: []string{
			"PNT", "DGBRLLK", "CEUSCL2", ".ABEUBK", "AGBRLLK",
			".ABEUWH", ".ABSWBK", ".ABSWWH", "AGBRLLX", "BGBRLLK",
			"EGBRLLK", "BGBRJJK", "ABEUWHF", "CGBRLLK", "AGBRLLZ",
			"CGBRLBI", "CGBRLBK", "CEUSLLK", "AEUSLLA", "AEUSLLB",
		},
		TVSuffixes: []string{"GLT", ".AEK", "AEKQ", "AEKW", "AEKM", "AEKD"},

		AVDivision: "PNT",
		TVDivision: "GLT",

		HSCodes: []string{"CDT", "CNT", "DFT"},

		RemoveWords:   []string{"CIH", "EXRTIS"},
		Abbreviations: []string{"AV", "TV", "SOA", "UK", "EE", "QNED", "OLED", "HDR", "UHD", "AI", "LG", "FOC", "WBW"},

		CustomerCodePrefixes: []string{
			"IE", "GB", "50", "OB", "JE", "GG", "55", "11",
			"18", "SE", "HE", "RA", "74", "13", "10",
		},
		CustomerCodeExceptions: []string{
			"HETIER1", "HETIER2", "HEBNO", "SEVENOAKS_AWE", "HEKEYINDY",
			"RADIUS_CIH", "OBSIDIAN", "50380042-S",
		},
		CustomerCodeAliases: map[string]string{
			"obsidian":    "OBSIDIAN",
			"hekeyindy":   "HEKEYINDY",
			"he key indy": "HEKEYINDY",
			"he-key-indy": "HEKEYINDY",
		},
	}
}
