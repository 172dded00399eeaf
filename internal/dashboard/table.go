package dashboard

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
)

// Flatten expands one level of nested maps into parent.child columns,
// the way the results table renders rows. Deeper nesting stays as-is
// and renders as JSON.
func Flatten(rows []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		flat := make(map[string]any, len(row))
		for key, value := range row {
			if nested, ok := value.(map[string]any); ok {
				for subKey, subValue := range nested {
					flat[key+"."+subKey] = subValue
				}
				continue
			}
			flat[key] = value
		}
		out = append(out, flat)
	}
	return out
}

// Columns returns the column order for rendering: requested fields
// first, in request order, then any extra keys in first-appearance
// order across rows.
func Columns(rows []map[string]any, requested []string) []string {
	seen := make(map[string]bool, len(requested))
	out := make([]string, 0, len(requested))
	for _, f := range requested {
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	for _, row := range rows {
		// Extras come from Flatten and are few; sorting keeps the
		// output stable across runs.
		extras := make([]string, 0, len(row))
		for key := range row {
			if seen[key] {
				continue
			}
			seen[key] = true
			extras = append(extras, key)
		}
		sort.Strings(extras)
		out = append(out, extras...)
	}
	return out
}

// cell renders one value for tabular output: empty for null, bare text
// for strings, JSON for anything still structured.
func cell(v any) string {
	switch tv := v.(type) {
	case nil:
		return ""
	case string:
		return tv
	case map[string]any, []any:
		b, err := json.Marshal(tv)
		if err != nil {
			return fmt.Sprint(tv)
		}
		return string(b)
	default:
		return fmt.Sprint(tv)
	}
}

// WriteCSV renders rows in the given column order as CSV, header first.
func WriteCSV(w io.Writer, columns []string, rows []map[string]any) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = cell(row[col])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable renders rows as an aligned text table.
func WriteTable(w io.Writer, columns []string, rows []map[string]any) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, col := range columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, col)
	}
	fmt.Fprintln(tw)
	for _, row := range rows {
		for i, col := range columns {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell(row[col]))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
