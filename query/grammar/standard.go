package grammar

import (
	"strings"
)

// Standard is the default grammar. Dialects embed it and override what
// their database does differently.
type Standard struct {
	wrapper Wrapper
}

// NewStandard creates the default grammar with double quoted identifiers.
func NewStandard(opts ...Option) *Standard {
	o := buildOptions(opts)
	return &Standard{
		wrapper: Wrapper{Format: `"%s"`, TablePrefix: o.tablePrefix},
	}
}

func (g *Standard) Name() string {
	return "standard"
}

func (g *Standard) Wrapper() Wrapper {
	return g.wrapper
}

// CompileSelect compiles q with trailing limit/offset clauses.
func (g *Standard) CompileSelect(q *Query) (string, error) {
	if err := q.validate(); err != nil {
		return "", err
	}
	n := q.Normalize()
	return strings.TrimSpace(concatenate(compileComponents(g, &n))), nil
}

// CompileInsert compiles a single or multi-row VALUES insert.
func (g *Standard) CompileInsert(table string, rows []Row) (string, error) {
	columns, values, err := alignRows(rows)
	if err != nil {
		return "", err
	}

	groups := make([]string, len(values))
	for i, vals := range values {
		groups[i] = "(" + g.wrapper.Parameterize(vals) + ")"
	}

	return "insert into " + g.wrapper.WrapTable(table) +
		" (" + g.wrapper.Columnize(columns) + ") values " +
		strings.Join(groups, ", "), nil
}

func (g *Standard) CompileTruncate(table string) Statements {
	return Statements{"truncate " + g.wrapper.WrapTable(table): {}}
}

func (g *Standard) CompileLimit(q *Query, limit int) string {
	return "limit " + itoa(limit)
}

func (g *Standard) CompileOffset(q *Query, offset int) string {
	return "offset " + itoa(offset)
}

func (g *Standard) CompileLock(q *Query, lock Lock) string {
	switch lock.Mode {
	case LockLiteral:
		return lock.Clause
	case LockExclusive:
		return "for update"
	case LockShared:
		return "for share"
	default:
		return ""
	}
}
