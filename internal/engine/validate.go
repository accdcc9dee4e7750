package engine

import (
	"fmt"

	"purchasing_manager/internal/status"
	"purchasing_manager/internal/store"
)

// Validation is the outcome of checking one row against a target status's
// field requirements.
type Validation struct {
	OK       bool
	Warnings []string
	Blocking []string
}

// ValidateRow checks a row's values against the target status. Missing
// recommended columns warn; missing required columns block. Rows whose
// current status is not an allowed predecessor are never passed here; that
// filter happens in the caller.
func ValidateRow(rowValues []string, st *status.Status) Validation {
	v := Validation{OK: true}

	for _, column := range st.RecommendedColumns {
		if store.CellString(rowValues, column.Index-1) == "" {
			v.Warnings = append(v.Warnings,
				fmt.Sprintf("one or more items is missing a value for %q; will mark anyway with the default value", column.Name))
		}
	}

	for _, column := range st.RequiredColumns {
		if store.CellString(rowValues, column.Index-1) == "" {
			v.OK = false
			v.Blocking = append(v.Blocking,
				fmt.Sprintf("missing required value for %q", column.Name))
		}
	}

	return v
}

// validateCandidates runs the validation pre-pass over every candidate row
// before any mutation begins, so a late invalid row can never leave earlier
// rows half-written. Returns deduplicated warnings, or a ValidationError on
// the first blocking failure.
func validateCandidates(rangeRows [][][]string, statusIdx int, st *status.Status) ([]string, error) {
	var warnings []string
	seen := make(map[string]bool)

	for _, rows := range rangeRows {
		for _, row := range rows {
			if !st.IsAllowedFrom(store.CellString(row, statusIdx)) {
				continue
			}

			v := ValidateRow(row, st)
			if !v.OK {
				// Name the first missing required column; the whole batch
				// aborts with zero writes.
				for _, column := range st.RequiredColumns {
					if store.CellString(row, column.Index-1) == "" {
						return nil, &ValidationError{Column: column.Name}
					}
				}
			}
			for _, w := range v.Warnings {
				if !seen[w] {
					seen[w] = true
					warnings = append(warnings, w)
				}
			}
		}
	}

	return warnings, nil
}
