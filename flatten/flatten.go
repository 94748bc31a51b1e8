// Package flatten turns nested JSON documents into flat tabular records.
//
// Nested objects expand into columns named <column>.<key>; arrays explode
// into one record per element. The transformation repeats until no record
// holds a nested value, which mirrors how the response bodies of the
// Withings data endpoints (lists of series holding lists of measures) are
// usually consumed.
package flatten

import (
	"sort"

	"github.com/gravitational/trace"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Table holds flattened records. Columns is the sorted union of the keys
// present in Rows.
type Table struct {
	Columns []string
	Rows    []map[string]interface{}
}

// Document parses a JSON document and flattens it into a Table.
func Document(payload []byte) (*Table, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, trace.Wrap(err, "cannot parse document")
	}
	return Rows([]map[string]interface{}{doc})
}

// Rows flattens the given records in place until none of them contains a
// nested object or array.
func Rows(rows []map[string]interface{}) (*Table, error) {
	for {
		column, kind := findNestedColumn(rows)
		if column == "" {
			break
		}

		var err error
		switch kind {
		case nestedObject:
			rows, err = expandObjects(rows, column)
		case nestedArray:
			rows, err = explodeArrays(rows, column)
		}
		if err != nil {
			return nil, trace.Wrap(err, "error processing column %q", column)
		}
	}

	return &Table{Columns: collectColumns(rows), Rows: rows}, nil
}

type nestedKind int

const (
	nestedNone nestedKind = iota
	nestedObject
	nestedArray
)

// findNestedColumn returns a column whose value is nested in every row it
// appears in. A column mixing objects and arrays across rows is rejected
// later by the expansion step.
func findNestedColumn(rows []map[string]interface{}) (string, nestedKind) {
	for _, row := range rows {
		keys := make([]string, 0, len(row))
		for key := range row {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			switch row[key].(type) {
			case map[string]interface{}:
				return key, nestedObject
			case []interface{}:
				return key, nestedArray
			}
		}
	}
	return "", nestedNone
}

// expandObjects replaces the column with one column per nested key, named
// <column>.<key>.
func expandObjects(rows []map[string]interface{}, column string) ([]map[string]interface{}, error) {
	out := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		value, ok := row[column]
		if !ok || value == nil {
			out = append(out, row)
			continue
		}
		nested, ok := value.(map[string]interface{})
		if !ok {
			return nil, trace.BadParameter("column %q holds both nested and scalar values", column)
		}

		expanded := make(map[string]interface{}, len(row)+len(nested))
		for key, val := range row {
			if key != column {
				expanded[key] = val
			}
		}
		for key, val := range nested {
			expanded[column+"."+key] = val
		}
		out = append(out, expanded)
	}
	return out, nil
}

// explodeArrays replaces each row by one row per array element. Rows with
// an empty array are dropped.
func explodeArrays(rows []map[string]interface{}, column string) ([]map[string]interface{}, error) {
	var out []map[string]interface{}
	for _, row := range rows {
		value, ok := row[column]
		if !ok || value == nil {
			out = append(out, row)
			continue
		}
		elems, ok := value.([]interface{})
		if !ok {
			return nil, trace.BadParameter("column %q holds both nested and scalar values", column)
		}

		for _, elem := range elems {
			exploded := make(map[string]interface{}, len(row))
			for key, val := range row {
				exploded[key] = val
			}
			exploded[column] = elem
			out = append(out, exploded)
		}
	}
	return out, nil
}

func collectColumns(rows []map[string]interface{}) []string {
	seen := make(map[string]struct{})
	var columns []string
	for _, row := range rows {
		for key := range row {
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				columns = append(columns, key)
			}
		}
	}
	sort.Strings(columns)
	return columns
}
