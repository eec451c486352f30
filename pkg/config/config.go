// Package config defines core configuration types for gomathml.
// These types are plain data structures; loading and layering live in
// internal/configloader.
package config

// OutputFormat specifies the output format for reports.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// Encoding names accepted by the encoding key.
const (
	EncodingEntity    = "entity"
	EncodingCharacter = "character"
	EncodingUTF8      = "utf8"
)

// MarkdownConfig controls how Markdown documents are rendered.
type MarkdownConfig struct {
	// FencedLanguages lists info strings whose fenced blocks are display math.
	FencedLanguages []string `mapstructure:"fenced_languages" yaml:"fenced_languages"`

	// DetectTeX renders unlabelled fenced blocks as math when their content
	// is classified as TeX.
	DetectTeX bool `mapstructure:"detect_tex" yaml:"detect_tex"`
}

// Config is the root configuration structure for gomathml.
type Config struct {
	// Encoding selects how symbols are written: entity, character or utf8.
	Encoding string `mapstructure:"encoding" yaml:"encoding"`

	// Display makes convert render block math unless overridden.
	Display bool `mapstructure:"display" yaml:"display"`

	// UnsecureEntity lets \entity emit names outside Entities.
	UnsecureEntity bool `mapstructure:"unsecure_entity" yaml:"unsecure_entity"`

	// Entities whitelists names accepted by \entity.
	Entities []string `mapstructure:"entities" yaml:"entities"`

	// Macros holds \newcommand and \newenvironment declarations.
	Macros string `mapstructure:"macros" yaml:"macros"`

	// MacroFiles lists files with further declarations, read in order
	// after Macros.
	MacroFiles []string `mapstructure:"macro_files" yaml:"macro_files"`

	// MaxDepth bounds element nesting. Zero selects the parser default.
	MaxDepth int `mapstructure:"max_depth" yaml:"max_depth"`

	// Extensions lists the file extensions picked up by render.
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`

	// OutputDir receives rendered files. Empty writes next to the input.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// Markdown configures the Markdown renderer.
	Markdown MarkdownConfig `mapstructure:"markdown" yaml:"markdown"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `mapstructure:"-" yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `mapstructure:"-" yaml:"-"`

	// Stdout writes rendered documents to standard output instead of files.
	Stdout bool `mapstructure:"-" yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Encoding:   EncodingEntity,
		Extensions: []string{".md", ".markdown", ".txt", ".tex"},
		Ignore:     nil,
		Markdown: MarkdownConfig{
			FencedLanguages: []string{"math", "latex", "tex"},
		},
		Format: FormatText,
		Jobs:   0, // 0 means use GOMAXPROCS
	}
}

// IsValid reports whether the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON:
		return true
	default:
		return false
	}
}
