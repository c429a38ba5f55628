// Package model defines the shared data types of the review pipeline: the
// Record produced by extraction, the evidence returned by retrieval, and the
// per-document run result.
package model

// WrappedKey is the sentinel key a non-object JSON value is stored under so
// that a Record is always an object at the top level.
const WrappedKey = "_value"

// Record is the structured result of one document's extraction/enrichment
// pipeline. It mirrors a JSON object: values are strings, float64s, bools,
// nil, []any, or nested map[string]any. The schema is descriptive rather
// than type-enforced, so accessors degrade to zero values instead of
// failing when a section is absent or has an unexpected shape.
type Record map[string]any

// Wrap returns v as a Record. Objects pass through; any other JSON value is
// stored under WrappedKey.
func Wrap(v any) Record {
	switch m := v.(type) {
	case map[string]any:
		return Record(m)
	case Record:
		return m
	default:
		return Record{WrappedKey: v}
	}
}

// Section returns the named sub-object, or an empty map when the key is
// absent or not an object.
func (r Record) Section(key string) map[string]any {
	if r == nil {
		return map[string]any{}
	}
	if m, ok := r[key].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// String returns the named field as a string, or "" when absent or not a
// string.
func (r Record) String(key string) string {
	if r == nil {
		return ""
	}
	s, _ := r[key].(string)
	return s
}

// List returns the named field as a slice, or nil when absent or not a
// slice.
func (r Record) List(key string) []any {
	if r == nil {
		return nil
	}
	l, _ := r[key].([]any)
	return l
}

// SectionString digs one level into a sub-object and returns a string field.
func (r Record) SectionString(section, key string) string {
	s, _ := r.Section(section)[key].(string)
	return s
}

// SectionList digs one level into a sub-object and returns a list field.
func (r Record) SectionList(section, key string) []any {
	l, _ := r.Section(section)[key].([]any)
	return l
}

// Table returns the named field as a series table (list of rows, each row a
// list of cells). Rows that are not lists are skipped.
func (r Record) Table(key string) [][]any {
	raw := r.List(key)
	if raw == nil {
		return nil
	}
	rows := make([][]any, 0, len(raw))
	for _, row := range raw {
		if cells, ok := row.([]any); ok {
			rows = append(rows, cells)
		}
	}
	return rows
}

// At walks nested objects by key and returns the value at the path, or nil
// when any step is missing or not an object.
func (r Record) At(path ...string) any {
	var cur any = map[string]any(r)
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[key]
	}
	return cur
}

// StringAt returns the string at a nested path, or "".
func (r Record) StringAt(path ...string) string {
	s, _ := r.At(path...).(string)
	return s
}

// ListAt returns the list at a nested path, or nil.
func (r Record) ListAt(path ...string) []any {
	l, _ := r.At(path...).([]any)
	return l
}

// TableAt returns the series table at a nested path. Rows that are not
// lists are skipped.
func (r Record) TableAt(path ...string) [][]any {
	raw := r.ListAt(path...)
	if raw == nil {
		return nil
	}
	rows := make([][]any, 0, len(raw))
	for _, row := range raw {
		if cells, ok := row.([]any); ok {
			rows = append(rows, cells)
		}
	}
	return rows
}

// SectionTable digs one level into a sub-object and returns a series table.
func (r Record) SectionTable(section, key string) [][]any {
	raw, _ := r.Section(section)[key].([]any)
	if raw == nil {
		return nil
	}
	rows := make([][]any, 0, len(raw))
	for _, row := range raw {
		if cells, ok := row.([]any); ok {
			rows = append(rows, cells)
		}
	}
	return rows
}

// CompanyName returns the identifying entity name from the report header.
func (r Record) CompanyName() string {
	return r.SectionString("Report_Header", "Company_Name")
}

// IndustryHint returns the industry classification from the report header,
// used to sharpen retrieval queries.
func (r Record) IndustryHint() string {
	return r.SectionString("Report_Header", "Industry_Classification")
}

// HasError reports whether the record is an error marker written by a
// previous failed run.
func (r Record) HasError() bool {
	if r == nil {
		return false
	}
	_, ok := r["error"]
	return ok
}

// ErrorRecord builds a Record-shaped error marker so downstream existence
// checks can tell failed runs from successful ones.
func ErrorRecord(tag, message string) Record {
	return Record{
		"error":   tag,
		"message": message,
	}
}

// Clone returns a deep copy of the record. Merge operates on the copy so
// callers keep an untouched draft.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return Record(cloneMap(map[string]any(r)))
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case Record:
		return cloneMap(map[string]any(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
