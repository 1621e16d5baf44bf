// Package grammar compiles query descriptions into dialect specific SQL.
//
// A Grammar only emits text. Table names, columns and clause fragments are
// written verbatim and must already be trusted; values should reach the
// database as bindings for the "?" placeholders the grammar emits.
package grammar

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Grammar compiles statements for one SQL dialect.
type Grammar interface {
	Name() string
	Wrapper() Wrapper
	CompileSelect(q *Query) (string, error)
	CompileInsert(table string, rows []Row) (string, error)
	CompileTruncate(table string) Statements
	CompileLimit(q *Query, limit int) string
	CompileOffset(q *Query, offset int) string
	CompileLock(q *Query, lock Lock) string
}

// Statements maps each SQL statement to its bindings.
type Statements map[string][]interface{}

// SQL returns the statements in lexical order.
func (s Statements) SQL() []string {
	out := make([]string, 0, len(s))
	for sql := range s {
		out = append(out, sql)
	}
	sort.Strings(out)
	return out
}

// Option configures a grammar.
type Option func(*options)

type options struct {
	tablePrefix   string
	strictLocking bool
}

// WithTablePrefix prefixes every wrapped table name.
func WithTablePrefix(prefix string) Option {
	return func(o *options) {
		o.tablePrefix = prefix
	}
}

// WithStrictLocking rejects lock modes the dialect cannot express instead of
// emitting the compatibility clause.
func WithStrictLocking() Option {
	return func(o *options) {
		o.strictLocking = true
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New returns the grammar registered under name.
func New(name string, opts ...Option) (Grammar, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "oracle", "oci8":
		return NewOracle(opts...), nil
	case "", "standard", "ansi":
		return NewStandard(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDialect, name)
	}
}

// compileComponents renders the select components of q in relational order.
// Limit, offset and lock go through g so dialect overrides apply.
func compileComponents(g Grammar, q *Query) []string {
	w := g.Wrapper()

	var columns strings.Builder
	columns.WriteString("select ")
	if q.Distinct {
		columns.WriteString("distinct ")
	}
	columns.WriteString(w.Columnize(q.Columns))

	components := []string{
		columns.String(),
		"from " + w.WrapTable(q.Table),
		strings.Join(q.Joins, " "),
		compileConditions("where", q.Wheres),
	}

	if len(q.Groups) > 0 {
		components = append(components, "group by "+w.Columnize(q.Groups))
	}
	components = append(components, compileConditions("having", q.Havings))
	if len(q.Orders) > 0 {
		components = append(components, "order by "+strings.Join(q.Orders, ", "))
	}
	if q.Limit != nil {
		components = append(components, g.CompileLimit(q, *q.Limit))
	}
	if q.Offset != nil {
		components = append(components, g.CompileOffset(q, *q.Offset))
	}
	if q.Lock.Mode != LockNone {
		components = append(components, g.CompileLock(q, q.Lock))
	}

	return components
}

func compileConditions(keyword string, conds []Condition) string {
	if len(conds) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(keyword)
	for i, c := range conds {
		if i > 0 {
			boolean := strings.ToLower(strings.TrimSpace(c.Boolean))
			if boolean == "" {
				boolean = "and"
			}
			b.WriteString(" ")
			b.WriteString(boolean)
		}
		b.WriteString(" ")
		b.WriteString(c.SQL)
	}
	return b.String()
}

// concatenate joins the non-empty components with single spaces.
func concatenate(components []string) string {
	parts := make([]string, 0, len(components))
	for _, c := range components {
		if c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
