package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full documents every key and lists the symbols for \entity.
	// If false, generates a minimal template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string

	// Entities lists entity names to suggest in a full template.
	Entities []string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}
	if opts.Full {
		return generateFullTemplate(opts), nil
	}
	return generateMinimalTemplate(), nil
}

// generateMinimalTemplate creates a minimal commented template.
func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Symbol encoding: entity, character or utf8
encoding: entity

# Render block (display) math by default
# display: false

# Macro declarations available to every expression
# macros: |
#   \newcommand{\R}{\mathbb{R}}
#   \newcommand{\norm}[1]{\left\|#1\right\|}

# Files to render with "gomathml render"
# extensions: [".md", ".markdown", ".txt", ".tex"]

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"
#   - "node_modules/**"
`)

	return buf.Bytes()
}

// generateFullTemplate creates a template documenting every key.
func generateFullTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(` - Full Template
#
# Every key is shown with its default value.

# Symbol encoding: entity (&alpha;), character (&#x3b1;) or utf8
encoding: entity

# Render block (display) math by default. Display math places the
# limits of large operators above and below them.
display: false

# Allow \entity{name} for any name, not only those listed below
unsecure_entity: false

# Maximum element nesting before "Nesting too deep." (0 = 512)
max_depth: 0

# Macro declarations, parsed before any macro_files
macros: ""

# Files holding \newcommand and \newenvironment declarations
macro_files: []

# Files to render with "gomathml render"
extensions:
  - ".md"
  - ".markdown"
  - ".txt"
  - ".tex"

# File patterns to ignore (glob patterns)
ignore:
  - "vendor/**"
  - "node_modules/**"
  - ".git/**"

# Directory for rendered files (empty = next to the input)
output_dir: ""

markdown:
  # Fenced code blocks with these info strings become display math
  fenced_languages: ["math", "latex", "tex"]
  # Render unlabelled fenced blocks whose content looks like TeX
  detect_tex: false
`)

	buf.WriteString("\n# Names accepted by \\entity when unsecure_entity is false\n")
	if len(opts.Entities) == 0 {
		buf.WriteString("entities: []\n")
		return buf.Bytes()
	}

	buf.WriteString("# " + wrapComment("Known entities: "+strings.Join(opts.Entities, " "), commentWrapWidth) + "\n")
	buf.WriteString("entities:\n")
	for _, name := range opts.Entities {
		fmt.Fprintf(&buf, "  # - %s\n", name)
	}

	return buf.Bytes()
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n# ")
}

// templateToJSON renders the default configuration as JSON.
func templateToJSON() ([]byte, error) {
	cfg := NewConfig()
	out := map[string]any{
		"encoding":        cfg.Encoding,
		"display":         cfg.Display,
		"unsecure_entity": cfg.UnsecureEntity,
		"max_depth":       cfg.MaxDepth,
		"macros":          cfg.Macros,
		"macro_files":     []string{},
		"entities":        []string{},
		"extensions":      cfg.Extensions,
		"ignore":          []string{"vendor/**", "node_modules/**", ".git/**"},
		"output_dir":      cfg.OutputDir,
		"markdown": map[string]any{
			"fenced_languages": cfg.Markdown.FencedLanguages,
			"detect_tex":       cfg.Markdown.DetectTeX,
		},
	}

	jsonBytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}

	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# gomathml configuration
# See: https://github.com/yaklabco/gomathml`
}
