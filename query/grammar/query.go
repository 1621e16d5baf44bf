package grammar

import (
	"fmt"
	"math"
	"strings"
)

// Condition is a pre-compiled where or having fragment joined to the
// previous one by Boolean ("and" or "or").
type Condition struct {
	Boolean string
	SQL     string
}

// LockMode selects the row locking clause of a select.
type LockMode int

const (
	LockNone LockMode = iota
	LockShared
	LockExclusive
	LockLiteral
)

// String returns the document spelling of the mode.
func (m LockMode) String() string {
	switch m {
	case LockShared:
		return "shared"
	case LockExclusive:
		return "exclusive"
	case LockLiteral:
		return "literal"
	default:
		return "none"
	}
}

// Lock is a lock mode plus, for LockLiteral, the clause to emit verbatim.
type Lock struct {
	Mode   LockMode
	Clause string
}

// ParseLock maps document text to a Lock. "true" and "false" follow the
// boolean form: exclusive and shared respectively. Unrecognised text is
// treated as a literal clause.
func ParseLock(text string) Lock {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "none":
		return Lock{Mode: LockNone}
	case "shared", "false":
		return Lock{Mode: LockShared}
	case "exclusive", "true":
		return Lock{Mode: LockExclusive}
	default:
		return Lock{Mode: LockLiteral, Clause: text}
	}
}

// Query describes a select statement. Clause fragments are already
// compiled for the target dialect and are emitted verbatim, so they must
// come from trusted input; values belong in bindings, not fragments.
type Query struct {
	Table    string
	Columns  []string
	Distinct bool
	Joins    []string
	Wheres   []Condition
	Groups   []string
	Havings  []Condition
	Orders   []string
	Limit    *int
	Offset   *int
	Lock     Lock
}

// NewQuery creates a query selecting from table.
func NewQuery(table string) *Query {
	return &Query{Table: table}
}

// Select sets the selected columns.
func (q *Query) Select(columns ...string) *Query {
	q.Columns = columns
	return q
}

// SelectDistinct sets the selected columns and marks the select distinct.
func (q *Query) SelectDistinct(columns ...string) *Query {
	q.Columns = columns
	q.Distinct = true
	return q
}

// Join appends a compiled join clause, e.g. "inner join posts on posts.user_id = users.id".
func (q *Query) Join(clause string) *Query {
	q.Joins = append(q.Joins, clause)
	return q
}

// Where appends a condition joined with "and".
func (q *Query) Where(sql string) *Query {
	q.Wheres = append(q.Wheres, Condition{Boolean: "and", SQL: sql})
	return q
}

// OrWhere appends a condition joined with "or".
func (q *Query) OrWhere(sql string) *Query {
	q.Wheres = append(q.Wheres, Condition{Boolean: "or", SQL: sql})
	return q
}

// GroupBy appends grouping columns.
func (q *Query) GroupBy(columns ...string) *Query {
	q.Groups = append(q.Groups, columns...)
	return q
}

// Having appends a having condition joined with "and".
func (q *Query) Having(sql string) *Query {
	q.Havings = append(q.Havings, Condition{Boolean: "and", SQL: sql})
	return q
}

// OrderBy appends a compiled ordering such as "id desc".
func (q *Query) OrderBy(order string) *Query {
	q.Orders = append(q.Orders, order)
	return q
}

// Take sets the maximum number of rows; overrides any existing limit.
func (q *Query) Take(limit int) *Query {
	q.Limit = &limit
	return q
}

// Skip sets the number of rows to skip; overrides any existing offset.
func (q *Query) Skip(offset int) *Query {
	q.Offset = &offset
	return q
}

// ForPage sets limit and offset for a 1-based page of perPage rows.
func (q *Query) ForPage(page, perPage int) *Query {
	if page < 1 {
		page = 1
	}
	return q.Skip((page - 1) * perPage).Take(perPage)
}

// LockForUpdate requests an exclusive row lock.
func (q *Query) LockForUpdate() *Query {
	q.Lock = Lock{Mode: LockExclusive}
	return q
}

// SharedLock requests a shared row lock.
func (q *Query) SharedLock() *Query {
	q.Lock = Lock{Mode: LockShared}
	return q
}

// LockWith sets a literal lock clause emitted as-is.
func (q *Query) LockWith(clause string) *Query {
	q.Lock = Lock{Mode: LockLiteral, Clause: clause}
	return q
}

// Normalize returns a copy of q with an empty column list replaced by "*".
// The receiver is never modified.
func (q *Query) Normalize() Query {
	n := *q
	if len(n.Columns) == 0 {
		n.Columns = []string{"*"}
	} else {
		n.Columns = append([]string(nil), q.Columns...)
	}
	return n
}

func (q *Query) limit() int {
	if q.Limit == nil {
		return 0
	}
	return *q.Limit
}

func (q *Query) offset() int {
	if q.Offset == nil {
		return 0
	}
	return *q.Offset
}

func (q *Query) validate() error {
	if q.Limit != nil && *q.Limit < 0 {
		return fmt.Errorf("%w: limit %d", ErrInvalidRange, *q.Limit)
	}
	if q.Offset != nil && *q.Offset < 0 {
		return fmt.Errorf("%w: offset %d", ErrInvalidRange, *q.Offset)
	}

	// the row window is offset+1 through offset+limit and must fit in an int
	limit, offset := q.limit(), q.offset()
	if offset == math.MaxInt || limit > math.MaxInt-offset {
		return fmt.Errorf("%w: offset %d and limit %d overflow the row window", ErrInvalidRange, offset, limit)
	}
	return nil
}
