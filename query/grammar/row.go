package grammar

import (
	"fmt"
	"sort"
)

// Expression is raw SQL emitted verbatim in place of a placeholder or identifier.
type Expression string

// Raw wraps sql as an Expression.
func Raw(sql string) Expression {
	return Expression(sql)
}

// Pair is one column/value entry of a Row.
type Pair struct {
	Column string
	Value  interface{}
}

// Row is an ordered set of column values for one inserted record.
type Row []Pair

// NewRow builds a row from alternating column names and values:
//
//	NewRow("id", 1, "name", "bob")
func NewRow(kv ...interface{}) Row {
	if len(kv)%2 != 0 {
		panic("grammar: NewRow requires column/value pairs")
	}
	r := make(Row, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		col, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("grammar: column name must be a string, got %T", kv[i]))
		}
		r = r.Set(col, kv[i+1])
	}
	return r
}

// RowFromMap builds a row from m with columns sorted by name.
func RowFromMap(m map[string]interface{}) Row {
	cols := make([]string, 0, len(m))
	for c := range m {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	r := make(Row, 0, len(cols))
	for _, c := range cols {
		r = append(r, Pair{Column: c, Value: m[c]})
	}
	return r
}

// Set replaces the value of column in place, or appends it.
func (r Row) Set(column string, value interface{}) Row {
	for i := range r {
		if r[i].Column == column {
			r[i].Value = value
			return r
		}
	}
	return append(r, Pair{Column: column, Value: value})
}

// Columns returns the column names in row order.
func (r Row) Columns() []string {
	cols := make([]string, len(r))
	for i, p := range r {
		cols[i] = p.Column
	}
	return cols
}

// Values returns the values in row order.
func (r Row) Values() []interface{} {
	vals := make([]interface{}, len(r))
	for i, p := range r {
		vals[i] = p.Value
	}
	return vals
}

func (r Row) lookup(column string) (interface{}, bool) {
	for _, p := range r {
		if p.Column == column {
			return p.Value, true
		}
	}
	return nil, false
}

// alignRows takes the column list from the first row and returns every
// row's values in that order. The first row may not repeat a column.
func alignRows(rows []Row) ([]string, [][]interface{}, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, nil, ErrEmptyBatch
	}

	columns := rows[0].Columns()
	seen := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		if _, dup := seen[col]; dup {
			return nil, nil, fmt.Errorf("%w: column %q appears more than once", ErrInconsistentColumns, col)
		}
		seen[col] = struct{}{}
	}
	values := make([][]interface{}, len(rows))
	values[0] = rows[0].Values()

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) != len(columns) {
			return nil, nil, fmt.Errorf("%w: row %d has %d columns, expected %d", ErrInconsistentColumns, i, len(row), len(columns))
		}
		vals := make([]interface{}, len(columns))
		for j, col := range columns {
			v, ok := row.lookup(col)
			if !ok {
				return nil, nil, fmt.Errorf("%w: row %d is missing column %q", ErrInconsistentColumns, i, col)
			}
			vals[j] = v
		}
		values[i] = vals
	}

	return columns, values, nil
}

// Bindings returns the bound values of rows in placeholder order.
// Expressions are skipped because they are emitted inline.
func Bindings(rows []Row) ([]interface{}, error) {
	_, values, err := alignRows(rows)
	if err != nil {
		return nil, err
	}

	var args []interface{}
	for _, vals := range values {
		for _, v := range vals {
			if _, ok := v.(Expression); ok {
				continue
			}
			args = append(args, v)
		}
	}
	return args, nil
}
