package grammar

import (
	"fmt"
	"strings"
)

// Wrapper quotes identifiers and renders placeholder lists for a dialect.
type Wrapper struct {
	// Format is a fmt verb string applied to each identifier segment.
	Format      string
	TablePrefix string
}

// Wrap quotes a column reference. "a.b" wraps both segments (the first is a
// table, so it receives the prefix) and "x as y" wraps both sides.
func (w Wrapper) Wrap(value string) string {
	if left, right, ok := splitAlias(value); ok {
		return w.Wrap(left) + " as " + w.wrapValue(right)
	}

	segments := strings.Split(value, ".")
	if len(segments) > 1 {
		segments[0] = w.TablePrefix + segments[0]
	}
	return w.wrapSegments(segments)
}

// WrapTable quotes a table name after applying the table prefix.
func (w Wrapper) WrapTable(table string) string {
	if left, right, ok := splitAlias(table); ok {
		return w.WrapTable(left) + " as " + w.wrapValue(right)
	}
	return w.wrapSegments(strings.Split(w.TablePrefix+table, "."))
}

func (w Wrapper) wrapSegments(segments []string) string {
	wrapped := make([]string, len(segments))
	for i, seg := range segments {
		wrapped[i] = w.wrapValue(seg)
	}
	return strings.Join(wrapped, ".")
}

func splitAlias(value string) (string, string, bool) {
	i := strings.Index(strings.ToLower(value), " as ")
	if i < 0 {
		return "", "", false
	}
	return strings.TrimSpace(value[:i]), strings.TrimSpace(value[i+4:]), true
}

func (w Wrapper) wrapValue(value string) string {
	if value == "*" {
		return value
	}
	format := w.Format
	if format == "" {
		format = "%s"
	}
	return fmt.Sprintf(format, value)
}

// Columnize wraps each column and joins them with ", ".
func (w Wrapper) Columnize(columns []string) string {
	wrapped := make([]string, len(columns))
	for i, c := range columns {
		wrapped[i] = w.Wrap(c)
	}
	return strings.Join(wrapped, ", ")
}

// Parameter returns the placeholder for value, or its text for an Expression.
func (w Wrapper) Parameter(value interface{}) string {
	if e, ok := value.(Expression); ok {
		return string(e)
	}
	return "?"
}

// Parameterize returns one placeholder per value joined with ", ".
func (w Wrapper) Parameterize(values []interface{}) string {
	params := make([]string, len(values))
	for i, v := range values {
		params[i] = w.Parameter(v)
	}
	return strings.Join(params, ", ")
}
