package grammar

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/oragrammar/internal/debug"
)

func compileOracleSelect(t *testing.T, q *Query) string {
	t.Helper()
	sql, err := NewOracle().CompileSelect(q)
	require.NoError(t, err)
	return sql
}

func TestOracleSelectWithoutPagination(t *testing.T) {
	sql := compileOracleSelect(t, NewQuery("users"))
	assert.Equal(t, "select * from users", sql)

	sql = compileOracleSelect(t, NewQuery("users").Take(0).Skip(0))
	assert.Equal(t, "select * from users", sql)

	sql = compileOracleSelect(t, NewQuery("users").Skip(0))
	assert.Equal(t, "select * from users", sql)
}

func TestOracleSelectFullBaseStatement(t *testing.T) {
	q := NewQuery("users").
		SelectDistinct("users.id", "users.name as n").
		Join("inner join posts on posts.user_id = users.id").
		Where("users.active = ?").
		OrWhere("users.role = ?").
		GroupBy("users.id", "users.name").
		Having("count(posts.id) > ?").
		OrderBy("users.id desc")

	sql := compileOracleSelect(t, q)
	assert.Equal(t,
		"select distinct users.id, users.name as n from users "+
			"inner join posts on posts.user_id = users.id "+
			"where users.active = ? or users.role = ? "+
			"group by users.id, users.name "+
			"having count(posts.id) > ? "+
			"order by users.id desc",
		sql)
}

func TestOracleSelectLimitOnly(t *testing.T) {
	sql := compileOracleSelect(t, NewQuery("users").Take(10))
	assert.Equal(t,
		`select t2.* from ( select rownum AS "rn", t1.* from (select * from users) t1 ) t2 where t2."rn" between 1 and 10`,
		sql)
}

func TestOracleSelectLimitAndOffset(t *testing.T) {
	q := NewQuery("users").
		Select("id", "name").
		Where("active = ?").
		OrderBy("id desc").
		Take(5).
		Skip(10)

	sql := compileOracleSelect(t, q)
	assert.Equal(t,
		`select t2.* from ( select rownum AS "rn", t1.* from (select id, name from users where active = ? order by id desc) t1 ) t2 where t2."rn" between 11 and 15`,
		sql)
}

func TestOracleSelectOffsetOnly(t *testing.T) {
	sql := compileOracleSelect(t, NewQuery("users").Skip(20))
	assert.Equal(t, "select * from (select * from users) where rownum >= 21", sql)

	sql = compileOracleSelect(t, NewQuery("users").Take(0).Skip(3))
	assert.Equal(t, "select * from (select * from users) where rownum >= 4", sql)
}

func TestOracleRowConstraintBoundaries(t *testing.T) {
	g := NewOracle()

	tests := []struct {
		limit, offset int
		want          string
	}{
		{1, 0, "between 1 and 1"},
		{10, 0, "between 1 and 10"},
		{10, 1, "between 2 and 11"},
		{25, 50, "between 51 and 75"},
		{0, 1, ">= 2"},
		{0, 99, ">= 100"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("limit=%d,offset=%d", tt.limit, tt.offset), func(t *testing.T) {
			q := NewQuery("t").Take(tt.limit).Skip(tt.offset)
			assert.Equal(t, tt.want, g.compileRowConstraint(q))
		})
	}
}

func TestOracleForPage(t *testing.T) {
	sql := compileOracleSelect(t, NewQuery("users").ForPage(3, 15))
	assert.Contains(t, sql, `where t2."rn" between 31 and 45`)

	sql = compileOracleSelect(t, NewQuery("users").ForPage(0, 15))
	assert.Contains(t, sql, `where t2."rn" between 1 and 15`)
}

func TestOracleLimitAndOffsetAreEmpty(t *testing.T) {
	g := NewOracle()
	q := NewQuery("users")

	for _, n := range []int{-1, 0, 1, 1000} {
		assert.Empty(t, g.CompileLimit(q, n))
		assert.Empty(t, g.CompileOffset(q, n))
	}
}

func TestOracleCompileLock(t *testing.T) {
	g := NewOracle()
	q := NewQuery("users")

	assert.Equal(t, "for update", g.CompileLock(q, Lock{Mode: LockExclusive}))
	assert.Equal(t, "lock in share mode", g.CompileLock(q, Lock{Mode: LockShared}))
	assert.Equal(t, "custom", g.CompileLock(q, Lock{Mode: LockLiteral, Clause: "custom"}))
	assert.Equal(t, "for update nowait", g.CompileLock(q, ParseLock("for update nowait")))
	assert.Equal(t, "for update", g.CompileLock(q, ParseLock("true")))
	assert.Empty(t, g.CompileLock(q, Lock{}))
}

func TestOracleSelectWithLock(t *testing.T) {
	sql := compileOracleSelect(t, NewQuery("users").Where("id = ?").LockForUpdate())
	assert.Equal(t, "select * from users where id = ? for update", sql)

	sql = compileOracleSelect(t, NewQuery("users").LockWith("for update skip locked").Take(1))
	assert.Equal(t,
		`select t2.* from ( select rownum AS "rn", t1.* from (select * from users for update skip locked) t1 ) t2 where t2."rn" between 1 and 1`,
		sql)
}

func TestOracleStrictLocking(t *testing.T) {
	q := NewQuery("users").SharedLock()

	sql, err := NewOracle().CompileSelect(q)
	require.NoError(t, err)
	assert.Equal(t, "select * from users lock in share mode", sql)

	_, err = NewOracle(WithStrictLocking()).CompileSelect(q)
	require.ErrorIs(t, err, ErrUnsupportedLock)

	sql, err = NewOracle(WithStrictLocking()).CompileSelect(NewQuery("users").LockForUpdate())
	require.NoError(t, err)
	assert.Equal(t, "select * from users for update", sql)
}

func TestOracleSelectRejectsNegativeRange(t *testing.T) {
	_, err := NewOracle().CompileSelect(NewQuery("users").Take(-3))
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = NewOracle().CompileSelect(NewQuery("users").Skip(-1))
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestOracleSelectRejectsOverflowingRange(t *testing.T) {
	g := NewOracle()

	_, err := g.CompileSelect(NewQuery("users").Skip(math.MaxInt))
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = g.CompileSelect(NewQuery("users").Skip(10).Take(math.MaxInt))
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = g.CompileSelect(NewQuery("users").Skip(1).Take(math.MaxInt))
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestOracleSelectLargestRange(t *testing.T) {
	sql := compileOracleSelect(t, NewQuery("users").Skip(math.MaxInt-1))
	assert.Equal(t, fmt.Sprintf("select * from (select * from users) where rownum >= %d", math.MaxInt), sql)

	sql = compileOracleSelect(t, NewQuery("users").Skip(10).Take(math.MaxInt-10))
	assert.Contains(t, sql, fmt.Sprintf(`where t2."rn" between 11 and %d`, math.MaxInt))

	sql = compileOracleSelect(t, NewQuery("users").Take(math.MaxInt))
	assert.Contains(t, sql, fmt.Sprintf(`where t2."rn" between 1 and %d`, math.MaxInt))
}

func TestOracleSelectDoesNotMutateQuery(t *testing.T) {
	q := NewQuery("users").Take(5)
	_ = compileOracleSelect(t, q)
	assert.Nil(t, q.Columns)

	n := q.Normalize()
	assert.Equal(t, []string{"*"}, n.Columns)
	assert.Nil(t, q.Columns)
}

func TestOracleSelectIsIdempotent(t *testing.T) {
	q := NewQuery("users").Select("id").Where("id > ?").Take(3).Skip(6)

	first := compileOracleSelect(t, q)
	second := compileOracleSelect(t, q)
	assert.Equal(t, first, second)
}

func TestOracleSelectConcurrent(t *testing.T) {
	g := NewOracle()
	q := NewQuery("users").Take(10).Skip(10)
	want, err := g.CompileSelect(q)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = g.CompileSelect(q)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestOracleTablePrefix(t *testing.T) {
	g := NewOracle(WithTablePrefix("app_"))

	sql, err := g.CompileSelect(NewQuery("users").Select("users.id"))
	require.NoError(t, err)
	assert.Equal(t, "select app_users.id from app_users", sql)

	assert.Equal(t, Statements{"truncate table app_logs": {}}, g.CompileTruncate("logs"))
}

func TestOracleCompileTruncate(t *testing.T) {
	stmts := NewOracle().CompileTruncate("t")

	require.Len(t, stmts, 1)
	bindings, ok := stmts["truncate table t"]
	require.True(t, ok)
	assert.NotNil(t, bindings)
	assert.Empty(t, bindings)
}

func TestOracleInsertSingleRow(t *testing.T) {
	sql, err := NewOracle().CompileInsert("t", []Row{NewRow("a", Raw("1"), "b", Raw("2"))})
	require.NoError(t, err)
	assert.Equal(t, "insert into t (a, b) values (1, 2)", sql)

	sql, err = NewOracle().CompileInsert("t", []Row{NewRow("a", 1, "b", "x")})
	require.NoError(t, err)
	assert.Equal(t, "insert into t (a, b) values (?, ?)", sql)
}

func TestOracleInsertMultipleRows(t *testing.T) {
	rows := []Row{
		NewRow("a", Raw("1"), "b", Raw("2")),
		NewRow("a", Raw("3"), "b", Raw("4")),
	}

	sql, err := NewOracle().CompileInsert("t", rows)
	require.NoError(t, err)
	assert.Equal(t, "insert into t (a, b) select 1, 2 from dual union all select 3, 4 from dual", sql)
}

func TestOracleInsertMultipleRowsWithPlaceholders(t *testing.T) {
	rows := []Row{
		NewRow("id", 1, "created_at", Raw("sysdate()")),
		NewRow("id", 2, "created_at", Raw("sysdate()")),
		NewRow("id", 3, "created_at", Raw("sysdate()")),
	}

	sql, err := NewOracle().CompileInsert("events", rows)
	require.NoError(t, err)
	assert.Equal(t,
		"insert into events (id, created_at) select ?, sysdate() from dual union all select ?, sysdate() from dual union all select ?, sysdate() from dual",
		sql)

	args, err := Bindings(rows)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1, 2, 3}, args)
}

func TestOracleInsertAlignsColumnOrder(t *testing.T) {
	rows := []Row{
		NewRow("a", 1, "b", 2),
		NewRow("b", 4, "a", 3),
	}

	sql, err := NewOracle().CompileInsert("t", rows)
	require.NoError(t, err)
	assert.Equal(t, "insert into t (a, b) select ?, ? from dual union all select ?, ? from dual", sql)

	args, err := Bindings(rows)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1, 2, 3, 4}, args)
}

func TestOracleInsertErrors(t *testing.T) {
	g := NewOracle()

	_, err := g.CompileInsert("t", nil)
	require.ErrorIs(t, err, ErrEmptyBatch)

	_, err = g.CompileInsert("t", []Row{{}})
	require.ErrorIs(t, err, ErrEmptyBatch)

	_, err = g.CompileInsert("t", []Row{NewRow("a", 1, "b", 2), NewRow("a", 3)})
	require.ErrorIs(t, err, ErrInconsistentColumns)

	_, err = g.CompileInsert("t", []Row{NewRow("a", 1, "b", 2), NewRow("a", 3, "c", 4)})
	require.ErrorIs(t, err, ErrInconsistentColumns)

	dup := Row{{Column: "a", Value: 1}, {Column: "a", Value: 2}}
	_, err = g.CompileInsert("t", []Row{dup, NewRow("a", 3, "b", 4)})
	require.ErrorIs(t, err, ErrInconsistentColumns)

	_, err = g.CompileInsert("t", []Row{dup})
	require.ErrorIs(t, err, ErrInconsistentColumns)
}

func TestOracleLogsPagination(t *testing.T) {
	var buf bytes.Buffer
	debug.SetOutput(&buf)
	debug.Init(true)
	t.Cleanup(func() {
		debug.Init(false)
		debug.SetOutput(os.Stderr)
	})

	_ = compileOracleSelect(t, NewQuery("users").Take(2).Skip(4))

	out := buf.String()
	assert.Contains(t, out, "paginated select")
	assert.Contains(t, out, "table=users")
	assert.Contains(t, out, `constraint="between 5 and 6"`)
}
