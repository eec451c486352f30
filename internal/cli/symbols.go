package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/gomathml/internal/ui/pretty"
	"github.com/yaklabco/gomathml/pkg/symbol"
)

const formatJSON = "json"

type symbolsFlags struct {
	kind   string
	format string
}

// symbolInfo represents a symbol in JSON output.
type symbolInfo struct {
	Name    string `json:"name"`
	Element string `json:"element"`
	Content string `json:"content"`
	Display bool   `json:"display,omitempty"`
	Upright bool   `json:"upright,omitempty"`
}

func newSymbolsCommand() *cobra.Command {
	flags := &symbolsFlags{}

	cmd := &cobra.Command{
		Use:   "symbols [filter]",
		Short: "List the built-in symbol commands",
		Long: `List the commands of the built-in symbol table with the MathML element
they produce and its content. Entity contents are shown as &name; and code
points as U+XXXX. A filter argument keeps the commands whose name contains it.`,
		Example: `  gomathml symbols
  gomathml symbols arrow
  gomathml symbols --kind mo --format json`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSymbols(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.kind, "kind", "", "only list symbols producing this element: mi, mo, mn")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")

	return cmd
}

func runSymbols(cmd *cobra.Command, args []string, flags *symbolsFlags) error {
	switch flags.kind {
	case "", symbol.KindIdentifier.String(), symbol.KindOperator.String(), symbol.KindNumber.String():
	default:
		return withExitCode(ExitInvalidUsage, fmt.Errorf("invalid kind %q: must be mi, mo or mn", flags.kind))
	}
	if flags.format != "text" && flags.format != formatJSON {
		return withExitCode(ExitInvalidUsage, fmt.Errorf("invalid format %q: must be text or json", flags.format))
	}

	var filter string
	if len(args) == 1 {
		filter = strings.TrimPrefix(args[0], `\`)
	}

	table := symbol.Default()
	var entries []symbol.Entry
	for _, name := range table.Names() {
		entry, _ := table.Lookup(name)
		if flags.kind != "" && entry.Kind.String() != flags.kind {
			continue
		}
		if filter != "" && !strings.Contains(name, filter) {
			continue
		}
		entries = append(entries, entry)
	}

	out := cmd.OutOrStdout()
	if flags.format == formatJSON {
		return outputSymbolsJSON(out, entries)
	}

	if len(entries) == 0 {
		_, err := fmt.Fprintln(out, "No matching symbols.")
		return err
	}

	rows := make([]pretty.SymbolRow, len(entries))
	for i, entry := range entries {
		rows[i] = pretty.SymbolRowFromEntry(entry)
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), out))
	formatter := pretty.NewTableFormatter(styles, terminalWidth(out))
	_, err := io.WriteString(out, formatter.FormatSymbols(rows))
	return err
}

func outputSymbolsJSON(w io.Writer, entries []symbol.Entry) error {
	infos := make([]symbolInfo, 0, len(entries))
	for _, entry := range entries {
		row := pretty.SymbolRowFromEntry(entry)
		infos = append(infos, symbolInfo{
			Name:    row.Name,
			Element: entry.Kind.String(),
			Content: row.Content,
			Display: entry.Display,
			Upright: entry.Upright,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(infos); err != nil {
		return fmt.Errorf("encode symbols: %w", err)
	}
	return nil
}

// terminalWidth returns the width of w when it is a terminal, or 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
