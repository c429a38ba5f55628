package pipeline

import (
	"github.com/lucen-labs/irreview/internal/model"
	"github.com/lucen-labs/irreview/internal/schema"
)

// minSeriesRows is the total row count below which a chart series in the
// base record is absent or header-only and may be replaced by fresher
// patch data.
const minSeriesRows = 2

// Merge folds an enrichment patch into the extracted base record and
// returns a new record. Neither input is mutated.
//
// The rules are deterministic and resolve every conflict without a model
// call:
//
//   - objects merge key by key; patch keys the report schema does not know
//     are dropped
//   - chart series (lists of rows) from the patch are adopted only when the
//     base series is absent or header-only; any real data row keeps the base
//   - plain lists keep whichever side is strictly longer, base on ties
//   - strings keep the longer non-empty side, base on ties
//   - numbers take the patch value only when the base is zero or absent
//
// Applying the same patch twice yields the same record, so reruns over
// partially processed batches are safe.
func Merge(base model.Record, patch model.Record) model.Record {
	if len(patch) == 0 {
		return base.Clone()
	}
	merged := mergeObjects(map[string]any(base.Clone()), map[string]any(patch), schema.Registry())
	return model.Record(merged)
}

func mergeObjects(base, patch, template map[string]any) map[string]any {
	if base == nil {
		base = map[string]any{}
	}
	for key, pv := range patch {
		if template != nil && !schema.KnownKey(template, key) {
			continue
		}
		var sub map[string]any
		if template != nil {
			sub, _ = template[key].(map[string]any)
		}
		base[key] = mergeValues(base[key], pv, sub)
	}
	return base
}

func mergeValues(bv, pv any, template map[string]any) any {
	switch p := pv.(type) {
	case map[string]any:
		b, ok := bv.(map[string]any)
		if !ok {
			b = nil
		}
		return mergeObjects(b, p, template)
	case []any:
		b, _ := bv.([]any)
		return mergeLists(b, p)
	case string:
		return mergeStrings(bv, p)
	case float64:
		return mergeNumbers(bv, p)
	case bool:
		if bv == nil {
			return p
		}
		return bv
	case nil:
		return bv
	default:
		if bv == nil {
			return pv
		}
		return bv
	}
}

func mergeLists(base, patch []any) any {
	if isSeries(base) || isSeries(patch) {
		if len(toTable(base)) < minSeriesRows && len(patch) > 0 {
			return patch
		}
		if base == nil {
			return patch
		}
		return base
	}
	if len(patch) > len(base) {
		return patch
	}
	if base == nil {
		return []any{}
	}
	return base
}

// isSeries reports whether a list is a chart series table, the row-of-cells
// shape the templates use for income statements and sales graphs.
func isSeries(list []any) bool {
	if len(list) == 0 {
		return false
	}
	for _, row := range list {
		if _, ok := row.([]any); !ok {
			return false
		}
	}
	return true
}

func toTable(list []any) [][]any {
	rows := make([][]any, 0, len(list))
	for _, row := range list {
		if cells, ok := row.([]any); ok {
			rows = append(rows, cells)
		}
	}
	return rows
}

func mergeStrings(bv any, p string) any {
	b, ok := bv.(string)
	if !ok {
		if bv == nil {
			return p
		}
		return bv
	}
	if len([]rune(p)) > len([]rune(b)) && p != "" {
		return p
	}
	return b
}

func mergeNumbers(bv any, p float64) any {
	b, ok := bv.(float64)
	if !ok {
		if bv == nil {
			return p
		}
		return bv
	}
	if b == 0 && p != 0 {
		return p
	}
	return b
}
