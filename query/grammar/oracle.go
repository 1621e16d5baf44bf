package grammar

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/oragrammar/internal/debug"
)

// Oracle compiles SQL for Oracle, which has no LIMIT/OFFSET, no multi-row
// VALUES list and its own locking keywords. Identifiers are not quoted.
type Oracle struct {
	Standard
	strictLocking bool
}

var _ Grammar = (*Oracle)(nil)

// NewOracle creates the Oracle grammar.
func NewOracle(opts ...Option) *Oracle {
	o := buildOptions(opts)
	return &Oracle{
		Standard:      Standard{wrapper: Wrapper{Format: "%s", TablePrefix: o.tablePrefix}},
		strictLocking: o.strictLocking,
	}
}

func (g *Oracle) Name() string {
	return "oracle"
}

// CompileSelect compiles q. A positive limit or offset wraps the statement
// in ROWNUM subqueries since Oracle cannot page inline.
func (g *Oracle) CompileSelect(q *Query) (string, error) {
	if err := q.validate(); err != nil {
		return "", err
	}
	if g.strictLocking && q.Lock.Mode == LockShared {
		return "", fmt.Errorf("%w: oracle has no shared row lock", ErrUnsupportedLock)
	}

	n := q.Normalize()
	components := compileComponents(g, &n)

	if n.limit() > 0 || n.offset() > 0 {
		return g.compileAnsiOffset(&n, components), nil
	}

	return strings.TrimSpace(concatenate(components)), nil
}

func (g *Oracle) compileAnsiOffset(q *Query, components []string) string {
	constraint := g.compileRowConstraint(q)
	sql := g.compileTableExpression(concatenate(components), constraint, q)

	debug.Debug("paginated select",
		"dialect", g.Name(),
		"table", q.Table,
		"limit", q.limit(),
		"offset", q.offset(),
		"constraint", constraint,
	)
	return sql
}

// compileRowConstraint returns the 1-based ROWNUM range for q.
func (g *Oracle) compileRowConstraint(q *Query) string {
	start := q.offset() + 1

	if q.limit() > 0 {
		finish := q.offset() + q.limit()
		return fmt.Sprintf("between %d and %d", start, finish)
	}

	return fmt.Sprintf(">= %d", start)
}

// compileTableExpression wraps sql so that rows can be filtered by number.
// With an upper bound ROWNUM has to be materialised as "rn" one level down
// before it can be compared.
func (g *Oracle) compileTableExpression(sql, constraint string, q *Query) string {
	if q.limit() > 0 {
		return fmt.Sprintf(`select t2.* from ( select rownum AS "rn", t1.* from (%s) t1 ) t2 where t2."rn" %s`, sql, constraint)
	}
	return fmt.Sprintf("select * from (%s) where rownum %s", sql, constraint)
}

// CompileLimit returns "": paging is done by CompileSelect.
func (g *Oracle) CompileLimit(q *Query, limit int) string {
	return ""
}

// CompileOffset returns "": paging is done by CompileSelect.
func (g *Oracle) CompileOffset(q *Query, offset int) string {
	return ""
}

// CompileLock renders lock. The shared form keeps the historical
// "lock in share mode" text; use WithStrictLocking to reject it instead.
func (g *Oracle) CompileLock(q *Query, lock Lock) string {
	switch lock.Mode {
	case LockLiteral:
		return lock.Clause
	case LockExclusive:
		return "for update"
	case LockShared:
		return "lock in share mode"
	default:
		return ""
	}
}

func (g *Oracle) CompileTruncate(table string) Statements {
	return Statements{"truncate table " + g.wrapper.WrapTable(table): {}}
}

// CompileInsert compiles an insert of one or more rows. Several rows are
// inserted with one "select ... from dual" per row joined by union all.
func (g *Oracle) CompileInsert(table string, rows []Row) (string, error) {
	columns, values, err := alignRows(rows)
	if err != nil {
		return "", err
	}

	head := "insert into " + g.wrapper.WrapTable(table) + " (" + g.wrapper.Columnize(columns) + ")"

	if len(values) == 1 {
		return head + " values (" + g.wrapper.Parameterize(values[0]) + ")", nil
	}

	selects := make([]string, len(values))
	for i, vals := range values {
		selects[i] = "select " + g.wrapper.Parameterize(vals) + " from dual"
	}

	return head + " " + strings.Join(selects, " union all "), nil
}
