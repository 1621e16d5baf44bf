// Package document loads statement descriptions from YAML, JSON or TOML
// files and compiles them with a grammar.
package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/oragrammar/query/grammar"
)

var (
	ErrUnknownStatement = errors.New("unknown statement")
	ErrMissingTable     = errors.New("document has no table")
	ErrRowLength        = errors.New("insert row length does not match columns")
)

// Statement kinds.
const (
	Select   = "select"
	Insert   = "insert"
	Truncate = "truncate"
)

// Document is one statement description as written on disk.
type Document struct {
	Statement string              `mapstructure:"statement"`
	Dialect   string              `mapstructure:"dialect"`
	Table     string              `mapstructure:"table"`
	Columns   []string            `mapstructure:"columns"`
	Distinct  bool                `mapstructure:"distinct"`
	Joins     []string            `mapstructure:"joins"`
	Wheres    []grammar.Condition `mapstructure:"wheres"`
	Groups    []string            `mapstructure:"groups"`
	Havings   []grammar.Condition `mapstructure:"havings"`
	Orders    []string            `mapstructure:"orders"`
	Limit     *int                `mapstructure:"limit"`
	Offset    *int                `mapstructure:"offset"`
	Lock      string              `mapstructure:"lock"`
	Insert    InsertSpec          `mapstructure:"insert"`
}

// InsertSpec holds the rows of an insert document. With Raw set, values are
// written into the SQL as-is instead of being bound.
type InsertSpec struct {
	Columns []string        `mapstructure:"columns"`
	Values  [][]interface{} `mapstructure:"values"`
	Raw     bool            `mapstructure:"raw"`
}

// Result is a compiled document.
type Result struct {
	Statement  string
	SQL        string
	Bindings   []interface{}
	Statements grammar.Statements
}

// Load reads the document at path from fs. The format is taken from the
// file extension and defaults to YAML.
func Load(fs afero.Fs, path string) (*Document, error) {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("yaml")
	}
	v.SetDefault("statement", Select)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}

	var doc Document
	hook := mapstructure.ComposeDecodeHookFunc(boolTextHook, conditionHook)
	if err := v.Unmarshal(&doc, viper.DecodeHook(hook)); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", path, err)
	}
	doc.Statement = strings.ToLower(strings.TrimSpace(doc.Statement))

	return &doc, nil
}

// boolTextHook decodes a boolean into a string field as "true" or "false".
func boolTextHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() == reflect.Bool && to.Kind() == reflect.String {
		return strconv.FormatBool(reflect.ValueOf(data).Bool()), nil
	}
	return data, nil
}

// conditionHook lets a condition be written as a bare string.
func conditionHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() == reflect.String && to == reflect.TypeOf(grammar.Condition{}) {
		return grammar.Condition{Boolean: "and", SQL: reflect.ValueOf(data).String()}, nil
	}
	return data, nil
}

// Query returns the select description of the document.
func (d *Document) Query() *grammar.Query {
	q := &grammar.Query{
		Table:    d.Table,
		Columns:  d.Columns,
		Distinct: d.Distinct,
		Joins:    d.Joins,
		Wheres:   d.Wheres,
		Groups:   d.Groups,
		Havings:  d.Havings,
		Orders:   d.Orders,
		Limit:    d.Limit,
		Offset:   d.Offset,
		Lock:     grammar.ParseLock(d.Lock),
	}
	return q
}

// Rows returns the insert rows of the document.
func (d *Document) Rows() ([]grammar.Row, error) {
	rows := make([]grammar.Row, 0, len(d.Insert.Values))
	for i, vals := range d.Insert.Values {
		if len(vals) != len(d.Insert.Columns) {
			return nil, fmt.Errorf("%w: row %d has %d values for %d columns", ErrRowLength, i, len(vals), len(d.Insert.Columns))
		}

		row := make(grammar.Row, len(vals))
		for j, v := range vals {
			if d.Insert.Raw {
				v = rawValue(v)
			}
			row[j] = grammar.Pair{Column: d.Insert.Columns[j], Value: v}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func rawValue(v interface{}) grammar.Expression {
	if v == nil {
		return grammar.Raw("null")
	}
	return grammar.Raw(fmt.Sprint(v))
}

// Compile compiles the document with g.
func Compile(g grammar.Grammar, d *Document) (*Result, error) {
	if strings.TrimSpace(d.Table) == "" {
		return nil, ErrMissingTable
	}

	res := &Result{Statement: d.Statement}

	switch d.Statement {
	case Select, "":
		res.Statement = Select
		sql, err := g.CompileSelect(d.Query())
		if err != nil {
			return nil, err
		}
		res.SQL = sql

	case Insert:
		rows, err := d.Rows()
		if err != nil {
			return nil, err
		}
		sql, err := g.CompileInsert(d.Table, rows)
		if err != nil {
			return nil, err
		}
		args, err := grammar.Bindings(rows)
		if err != nil {
			return nil, err
		}
		res.SQL = sql
		res.Bindings = args

	case Truncate:
		res.Statements = g.CompileTruncate(d.Table)
		res.SQL = strings.Join(res.Statements.SQL(), ";\n")

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatement, d.Statement)
	}

	return res, nil
}
