package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/oragrammar/internal/config"
	"github.com/satishbabariya/oragrammar/internal/debug"
	"github.com/satishbabariya/oragrammar/internal/ui"
	"github.com/satishbabariya/oragrammar/internal/watch"
	"github.com/satishbabariya/oragrammar/query/document"
	"github.com/satishbabariya/oragrammar/query/grammar"
)

type compileOptions struct {
	dialect       string
	tablePrefix   string
	strictLocking bool
	pretty        bool
	explain       bool
	watch         bool
}

// compileSettings are the compile options merged with config.
type compileSettings struct {
	dialect       string // empty: document, then config
	fallback      string
	tablePrefix   string
	strictLocking bool
	pretty        bool
	explain       bool
}

func newCompileCommand(root *rootOptions) *cobra.Command {
	opts := &compileOptions{}

	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile a query document",
		Long:  "Compile a YAML, JSON or TOML query document and print the SQL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := compileSettings{
				fallback:      root.cfg.Dialect,
				tablePrefix:   root.cfg.TablePrefix,
				strictLocking: opts.strictLocking || root.cfg.StrictLocking,
				pretty:        opts.pretty || root.cfg.Pretty,
				explain:       opts.explain,
			}
			if cmd.Flags().Changed("dialect") {
				s.dialect = opts.dialect
			}
			if cmd.Flags().Changed("table-prefix") {
				s.tablePrefix = opts.tablePrefix
			}

			if !opts.watch {
				return compileFile(cmd.OutOrStdout(), s, args[0])
			}
			return watchFile(cmd, s, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.dialect, "dialect", "", "Dialect to compile for (oracle, standard)")
	cmd.Flags().StringVar(&opts.tablePrefix, "table-prefix", "", "Prefix applied to every table name")
	cmd.Flags().BoolVar(&opts.strictLocking, "strict-locking", false, "Reject lock modes the dialect cannot express")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Highlight the compiled SQL")
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "Print a summary of the compiled statement")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Recompile when the document changes")

	return cmd
}

func watchFile(cmd *cobra.Command, s compileSettings, path string) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	w, err := watch.NewWatcher(path, watch.DefaultDebounce, func(p string) error {
		ui.PrintLabel(out, p)
		if err := compileFile(out, s, p); err != nil {
			ui.PrintError(errOut, "%v", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	ui.PrintWarning(errOut, "watching %s, press Ctrl+C to stop", path)
	<-cmd.Context().Done()
	return nil
}

func compileFile(w io.Writer, s compileSettings, path string) error {
	doc, err := document.Load(config.AppFs, path)
	if err != nil {
		return err
	}

	dialect := s.fallback
	if doc.Dialect != "" {
		dialect = doc.Dialect
	}
	if s.dialect != "" {
		dialect = s.dialect
	}

	opts := []grammar.Option{grammar.WithTablePrefix(s.tablePrefix)}
	if s.strictLocking {
		opts = append(opts, grammar.WithStrictLocking())
	}
	g, err := grammar.New(dialect, opts...)
	if err != nil {
		return err
	}

	res, err := document.Compile(g, doc)
	if err != nil {
		return fmt.Errorf("failed to compile %s: %w", path, err)
	}
	debug.Debug("compiled document", "file", path, "dialect", g.Name(), "statement", res.Statement)

	if s.explain {
		ui.PrintTitle(w, "Explain")
		if err := ui.PrintTable(w, []string{"property", "value"}, explainRows(g, doc, res)); err != nil {
			return err
		}
	}

	return ui.PrintSQL(w, res.SQL, s.pretty)
}

func explainRows(g grammar.Grammar, doc *document.Document, res *document.Result) [][]string {
	rows := [][]string{
		{"dialect", g.Name()},
		{"statement", res.Statement},
		{"table", g.Wrapper().WrapTable(doc.Table)},
	}

	switch res.Statement {
	case document.Select:
		rows = append(rows, []string{"rows", rowWindow(doc.Limit, doc.Offset)})
		rows = append(rows, []string{"lock", grammar.ParseLock(doc.Lock).Mode.String()})
	case document.Insert:
		rows = append(rows, []string{"rows", fmt.Sprint(len(doc.Insert.Values))})
	}

	if len(res.Bindings) > 0 {
		args := make([]string, len(res.Bindings))
		for i, b := range res.Bindings {
			args[i] = fmt.Sprintf("%v", b)
		}
		rows = append(rows, []string{"bindings", strings.Join(args, ", ")})
	}
	return rows
}

// rowWindow describes the 1-based row range a select returns.
func rowWindow(limit, offset *int) string {
	var l, o int
	if limit != nil {
		l = *limit
	}
	if offset != nil {
		o = *offset
	}

	switch {
	case l > 0:
		return fmt.Sprintf("%d-%d", o+1, o+l)
	case o > 0:
		return fmt.Sprintf("%d-", o+1)
	default:
		return "all"
	}
}
