// Package taxonomy maps user-supplied arXiv category strings to the
// canonical set parameter used by the OAI-PMH endpoint.
//
// Several notations have accumulated historically and are all accepted:
//
//	cs                   bare archive code
//	cs.AI                dotted subcategory (canonical)
//	cs:AI                colon subcategory, normalized to cs.AI
//	physics:cond-mat     legacy physics-group prefix, normalized to cond-mat
//
// Normalization is a pure table lookup with no I/O.
package taxonomy

import (
	"sort"
	"strings"

	"github.com/scholarpipe/arxiv-harvester/domain"
)

// archives is the set of top-level archive codes.
var archives = map[string]bool{
	"astro-ph": true, "cond-mat": true, "cs": true, "econ": true,
	"eess": true, "gr-qc": true, "hep-ex": true, "hep-lat": true,
	"hep-ph": true, "hep-th": true, "math": true, "math-ph": true,
	"nlin": true, "nucl-ex": true, "nucl-th": true, "physics": true,
	"q-bio": true, "q-fin": true, "quant-ph": true, "stat": true,
}

// physicsGroup is the subset of archives addressable through the legacy
// "physics:" prefix (the OAI-PMH physics set group).
var physicsGroup = map[string]bool{
	"astro-ph": true, "cond-mat": true, "gr-qc": true, "hep-ex": true,
	"hep-lat": true, "hep-ph": true, "hep-th": true, "math-ph": true,
	"nlin": true, "nucl-ex": true, "nucl-th": true, "physics": true,
	"quant-ph": true,
}

// subcategories maps each archive to its dotted subcategory suffixes.
// Archives without subcategories map to an empty list.
var subcategories = map[string][]string{
	"astro-ph": {"CO", "EP", "GA", "HE", "IM", "SR"},
	"cond-mat": {
		"dis-nn", "mes-hall", "mtrl-sci", "other", "quant-gas",
		"soft", "stat-mech", "str-el", "supr-con",
	},
	"cs": {
		"AI", "AR", "CC", "CE", "CG", "CL", "CR", "CV", "CY", "DB",
		"DC", "DL", "DM", "DS", "ET", "FL", "GL", "GR", "GT", "HC",
		"IR", "IT", "LG", "LO", "MA", "MM", "MS", "NA", "NE", "NI",
		"OH", "OS", "PF", "PL", "RO", "SC", "SD", "SE", "SI", "SY",
	},
	"econ": {"EM", "GN", "TH"},
	"eess": {"AS", "IV", "SP", "SY"},
	"math": {
		"AC", "AG", "AP", "AT", "CA", "CO", "CT", "CV", "DG", "DS",
		"FA", "GM", "GN", "GR", "GT", "HO", "IT", "KT", "LO", "MG",
		"MP", "NA", "NT", "OA", "OC", "PR", "QA", "RA", "RT", "SG",
		"SP", "ST",
	},
	"nlin": {"AO", "CD", "CG", "PS", "SI"},
	"physics": {
		"acc-ph", "ao-ph", "app-ph", "atm-clus", "atom-ph", "bio-ph",
		"chem-ph", "class-ph", "comp-ph", "data-an", "ed-ph",
		"flu-dyn", "gen-ph", "geo-ph", "hist-ph", "ins-det", "med-ph",
		"optics", "plasm-ph", "pop-ph", "soc-ph", "space-ph",
	},
	"q-bio": {"BM", "CB", "GN", "MN", "NC", "OT", "PE", "QM", "SC", "TO"},
	"q-fin": {"CP", "EC", "GN", "MF", "PM", "PR", "RM", "ST", "TR"},
	"stat":  {"AP", "CO", "ME", "ML", "OT", "TH"},
}

// subcategorySet holds every valid dotted subcategory code, built once
// from the subcategories table.
var subcategorySet = buildSubcategorySet()

func buildSubcategorySet() map[string]bool {
	set := make(map[string]bool)
	for archive, suffixes := range subcategories {
		for _, suffix := range suffixes {
			set[archive+"."+suffix] = true
		}
	}
	return set
}

// Normalize maps a category string in any accepted notation to its
// canonical form. It returns a domain.InvalidCategoryError when the
// input matches none of the recognized forms.
func Normalize(category string) (string, error) {
	category = strings.TrimSpace(category)

	if archives[category] {
		return category, nil
	}

	if archive, suffix, ok := strings.Cut(category, ":"); ok {
		if archive == "physics" && physicsGroup[suffix] {
			return suffix, nil
		}
		dotted := archive + "." + suffix
		if subcategorySet[dotted] {
			return dotted, nil
		}
		return "", domain.NewInvalidCategoryError(category)
	}

	if subcategorySet[category] {
		return category, nil
	}

	return "", domain.NewInvalidCategoryError(category)
}

// Archives returns the sorted list of top-level archive codes, for help
// text and error messages.
func Archives() []string {
	out := make([]string, 0, len(archives))
	for archive := range archives {
		out = append(out, archive)
	}
	sort.Strings(out)
	return out
}
