package model

import (
	"strconv"
	"strings"
)

// sentinel strings that normalize to zero.
var zeroSentinels = map[string]bool{
	"": true, "N/A": true, "-": true, "n/a": true, "null": true,
}

// unitSuffixes are currency/count markers stripped before numeric parsing.
// Korean IR decks mix 억원-scale figures with raw USD amounts.
var unitSuffixes = []string{",", "억", "원", "개", "만", "불", "$"}

// CleanNumeric coerces a cell value to a float64. Parenthesized values are
// treated as negatives, thousands separators and unit suffixes are stripped,
// and anything unparsable maps to zero. It never fails.
func CleanNumeric(val any) float64 {
	switch n := val.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case nil:
		return 0
	}

	s := strings.TrimSpace(toString(val))
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}
	for _, suffix := range unitSuffixes {
		s = strings.ReplaceAll(s, suffix, "")
	}
	s = strings.TrimSpace(s)
	if zeroSentinels[s] {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	// Anything else (bools, nested values) is not numeric.
	return "-"
}

// SeriesRows returns the data rows of a chart series table, skipping the
// header row and any row without both a label and a value cell.
func SeriesRows(table [][]any) (labels []string, values []float64) {
	if len(table) < 2 {
		return nil, nil
	}
	for _, row := range table[1:] {
		if len(row) < 2 {
			continue
		}
		label := strings.TrimSpace(strings.ReplaceAll(toLabel(row[0]), "년", ""))
		labels = append(labels, label)
		values = append(values, CleanNumeric(row[1]))
	}
	return labels, values
}

func toLabel(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

// SeriesAllZero reports whether every data row of the series normalizes to
// zero, the degenerate placeholder fill the gap detector treats as missing.
// A header-only or empty series is not "all zero", it is absent.
func SeriesAllZero(table [][]any) bool {
	_, values := SeriesRows(table)
	if len(values) == 0 {
		return false
	}
	for _, v := range values {
		if v != 0 {
			return false
		}
	}
	return true
}

// DetectUnit scans the value cells of a series for Korean scale markers and
// returns a chart caption unit label. Falls back to the given default.
func DetectUnit(table [][]any, fallback string) string {
	var b strings.Builder
	for _, row := range table {
		if len(row) > 1 {
			if s, ok := row[1].(string); ok {
				b.WriteString(s)
				b.WriteByte(' ')
			}
		}
	}
	flat := b.String()
	switch {
	case strings.Contains(flat, "억"):
		return "(단위: 억원)"
	case strings.Contains(flat, "조"):
		return "(단위: 조원)"
	case strings.Contains(flat, "천만"):
		return "(단위: 천만원)"
	case strings.Contains(flat, "백만"):
		return "(단위: 백만원)"
	case strings.Contains(flat, "$") || strings.Contains(flat, "달러"):
		return "(단위: USD)"
	case strings.Contains(flat, "개") || strings.Contains(flat, "건"):
		return "(단위: 건/개)"
	}
	return fallback
}
