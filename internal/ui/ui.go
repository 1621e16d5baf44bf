// Package ui renders CLI output.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

var (
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	SecondaryColor = lipgloss.Color("#6C757D")

	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)
)

// Label prints a colored "name:" prefix used before compiled output.
var Label = color.New(color.FgCyan, color.Bold)

// PrintLabel writes "name:" in the label color.
func PrintLabel(w io.Writer, name string) {
	Label.Fprintf(w, "%s:\n", name)
}

func PrintSuccess(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

func PrintError(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

func PrintWarning(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, WarningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// PrintTitle prints a bold section title followed by a dim rule.
func PrintTitle(w io.Writer, title string) {
	fmt.Fprintln(w, TitleStyle.Render(title))
	fmt.Fprintln(w, SecondaryStyle.Render(strings.Repeat("─", lipgloss.Width(title))))
}

// RenderSQL renders sql as a highlighted markdown code block.
func RenderSQL(sql string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(0),
	)
	if err != nil {
		return "", err
	}
	return r.Render("```sql\n" + sql + "\n```\n")
}

// PrintSQL writes sql, highlighted when pretty is set.
func PrintSQL(w io.Writer, sql string, pretty bool) error {
	if !pretty {
		_, err := fmt.Fprintln(w, sql)
		return err
	}
	out, err := RenderSQL(sql)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, out)
	return err
}

// PrintTable writes a table with a header row.
func PrintTable(w io.Writer, headers []string, rows [][]string) error {
	data := pterm.TableData{headers}
	data = append(data, rows...)

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}
