package configloader

import "github.com/yaklabco/gomathml/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Slices: override replaces base entirely if override is non-nil
//   - Macros: declarations accumulate, base first
//   - Nil/unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Encoding != "" {
		result.Encoding = override.Encoding
	}
	if override.OutputDir != "" {
		result.OutputDir = override.OutputDir
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}

	// Booleans can only be switched on by a later layer since false is
	// indistinguishable from unset.
	if override.Display {
		result.Display = true
	}
	if override.UnsecureEntity {
		result.UnsecureEntity = true
	}
	if override.Stdout {
		result.Stdout = true
	}
	if override.Markdown.DetectTeX {
		result.Markdown.DetectTeX = true
	}

	// A project can add macros to the ones of a user config.
	switch {
	case base.Macros == "":
		result.Macros = override.Macros
	case override.Macros != "":
		result.Macros = base.Macros + "\n" + override.Macros
	}

	if override.Entities != nil {
		result.Entities = override.Entities
	}
	if override.MacroFiles != nil {
		result.MacroFiles = override.MacroFiles
	}
	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}
	if override.Markdown.FencedLanguages != nil {
		result.Markdown.FencedLanguages = override.Markdown.FencedLanguages
	}

	return &result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
