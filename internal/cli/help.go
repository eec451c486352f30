package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/gomathml/internal/ui/pretty"
)

// flagGroupAnnotation marks the help section a flag is listed under.
const flagGroupAnnotation = "gomathml_help_group"

// Help sections for command flags, printed in this order before the
// ungrouped flags.
const (
	groupLaTeX  = "LaTeX Options"
	groupInput  = "Input Options"
	groupOutput = "Output Options"
)

var flagGroups = []string{groupLaTeX, groupInput, groupOutput}

// setFlagGroup lists the named local flags of cmd under group in its help.
// It panics on an unknown flag name, like cobra's own flag markers.
func setFlagGroup(cmd *cobra.Command, group string, names ...string) {
	for _, name := range names {
		if err := cmd.Flags().SetAnnotation(name, flagGroupAnnotation, []string{group}); err != nil {
			panic(fmt.Sprintf("help group %q: %v", group, err))
		}
	}
}

// applyHelp installs the gomathml help and usage output on root. Subcommands
// inherit both from it.
func applyHelp(root *cobra.Command) {
	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		page := newHelpPage(cmd, cmd.OutOrStdout())
		if _, err := io.WriteString(cmd.OutOrStdout(), page.help()); err != nil {
			cmd.PrintErrln(err)
		}
	})
	root.SetUsageFunc(func(cmd *cobra.Command) error {
		page := newHelpPage(cmd, cmd.OutOrStderr())
		_, err := io.WriteString(cmd.OutOrStderr(), page.usage())
		return err
	})
}

// flagSection is one titled block of flags.
type flagSection struct {
	title string
	flags []*pflag.Flag
}

type helpPage struct {
	cmd    *cobra.Command
	styles *pretty.Styles
}

func newHelpPage(cmd *cobra.Command, w io.Writer) *helpPage {
	return &helpPage{
		cmd:    cmd,
		styles: pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), w)),
	}
}

func (p *helpPage) help() string {
	var b strings.Builder

	title := p.styles.Bold.Render(p.cmd.CommandPath())
	if p.cmd.Version != "" {
		title += " " + p.styles.Dim.Render(p.cmd.Version)
	}
	b.WriteString(title + "\n\n")

	desc := p.cmd.Long
	if desc == "" {
		desc = p.cmd.Short
	}
	if desc != "" {
		b.WriteString(trimTrailingSpace(desc) + "\n\n")
	}

	b.WriteString(p.usage())
	return b.String()
}

func (p *helpPage) usage() string {
	var b strings.Builder

	p.heading(&b, "Usage:")
	if p.cmd.Runnable() {
		b.WriteString("  " + p.cmd.UseLine() + "\n")
	}
	if p.cmd.HasAvailableSubCommands() {
		b.WriteString("  " + p.cmd.CommandPath() + " [command]\n")
	}

	if p.cmd.HasExample() {
		b.WriteString("\n")
		p.heading(&b, "Examples:")
		for _, line := range strings.Split(strings.TrimRight(p.cmd.Example, "\n"), "\n") {
			b.WriteString(p.example(line) + "\n")
		}
	}

	if p.cmd.HasAvailableSubCommands() {
		b.WriteString("\n")
		p.heading(&b, "Commands:")
		p.writeCommands(&b)
	}

	sections := p.flagSections()
	width := 0
	for _, section := range sections {
		for _, flag := range section.flags {
			width = max(width, len(flagSignature(flag)))
		}
	}
	for _, section := range sections {
		b.WriteString("\n")
		p.heading(&b, section.title+":")
		for _, flag := range section.flags {
			p.writeFlag(&b, flag, width)
		}
	}

	if !p.cmd.HasParent() {
		fmt.Fprintf(&b, "\nRun %q for more about a command.\n",
			p.cmd.CommandPath()+" [command] --help")
		fmt.Fprintf(&b, "Run %q to list the LaTeX commands gomathml knows.\n",
			p.cmd.CommandPath()+" symbols")
	}
	return b.String()
}

func (p *helpPage) heading(b *strings.Builder, title string) {
	b.WriteString(p.styles.SummaryTitle.Render(title) + "\n")
}

// example styles the command part of an example line, leaving any
// trailing "# comment" or description plain.
func (p *helpPage) example(line string) string {
	command, note, found := strings.Cut(line, "  #")
	if !found {
		return p.styles.Done.Render(line)
	}
	return p.styles.Done.Render(command) + p.styles.Dim.Render("  #"+note)
}

func (p *helpPage) writeCommands(b *strings.Builder) {
	var commands []*cobra.Command
	width := 0
	for _, sub := range p.cmd.Commands() {
		if !sub.IsAvailableCommand() && sub.Name() != "help" {
			continue
		}
		commands = append(commands, sub)
		width = max(width, len(sub.Name()))
	}
	for _, sub := range commands {
		name := p.styles.Identifier.Render(sub.Name())
		fmt.Fprintf(b, "  %s%s  %s\n", name, strings.Repeat(" ", width-len(sub.Name())), sub.Short)
	}
}

// flagSections splits the local flags by help group and appends the
// ungrouped and inherited flags. Empty sections are dropped.
func (p *helpPage) flagSections() []flagSection {
	grouped := make(map[string][]*pflag.Flag)
	var other []*pflag.Flag
	p.cmd.LocalFlags().VisitAll(func(flag *pflag.Flag) {
		if flag.Hidden {
			return
		}
		if group := flag.Annotations[flagGroupAnnotation]; len(group) > 0 {
			grouped[group[0]] = append(grouped[group[0]], flag)
			return
		}
		other = append(other, flag)
	})

	var inherited []*pflag.Flag
	p.cmd.InheritedFlags().VisitAll(func(flag *pflag.Flag) {
		if !flag.Hidden {
			inherited = append(inherited, flag)
		}
	})

	var sections []flagSection
	for _, title := range flagGroups {
		if flags := grouped[title]; len(flags) > 0 {
			sections = append(sections, flagSection{title: title, flags: flags})
		}
	}
	if len(other) > 0 {
		sections = append(sections, flagSection{title: "Flags", flags: other})
	}
	if len(inherited) > 0 {
		sections = append(sections, flagSection{title: "Global Flags", flags: inherited})
	}
	return sections
}

func (p *helpPage) writeFlag(b *strings.Builder, flag *pflag.Flag, width int) {
	signature := flagSignature(flag)
	_, usage := pflag.UnquoteUsage(flag)
	if def := flagDefault(flag); def != "" {
		usage += " " + p.styles.Dim.Render("(default "+def+")")
	}
	fmt.Fprintf(b, "  %s%s   %s\n",
		p.styles.Operator.Render(signature), strings.Repeat(" ", width-len(signature)), usage)
}

// flagSignature returns the "-d, --display" column of a flag, with the
// value placeholder for flags that take one.
func flagSignature(flag *pflag.Flag) string {
	signature := "    --" + flag.Name
	if flag.Shorthand != "" {
		signature = "-" + flag.Shorthand + ", --" + flag.Name
	}
	if name, _ := pflag.UnquoteUsage(flag); name != "" {
		signature += " " + name
	}
	return signature
}

// flagDefault returns the default worth printing, or "" for zero values.
func flagDefault(flag *pflag.Flag) string {
	switch flag.DefValue {
	case "", "false", "0", "[]":
		return ""
	}
	if flag.Value.Type() == "string" {
		return fmt.Sprintf("%q", flag.DefValue)
	}
	return flag.DefValue
}

func trimTrailingSpace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
