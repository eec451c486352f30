package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/yaklabco/gomathml/pkg/latex"
	"github.com/yaklabco/gomathml/pkg/latex/macro"
	"github.com/yaklabco/gomathml/pkg/symbol"
)

// ParserOptions converts the configuration into parser options and the
// macro script to declare. The script joins Macros with the contents of
// every MacroFiles entry.
func (c *Config) ParserOptions() (latex.Options, string, error) {
	enc, err := symbol.ParseEncoding(c.Encoding)
	if err != nil {
		return latex.Options{}, "", err
	}

	var script strings.Builder
	script.WriteString(c.Macros)
	for _, path := range c.MacroFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return latex.Options{}, "", fmt.Errorf("read macro file %s: %w", path, err)
		}
		script.WriteByte('\n')
		script.Write(data)
	}

	opts := latex.Options{
		Encoding:       enc,
		UnsecureEntity: c.UnsecureEntity,
		MaxDepth:       c.MaxDepth,
	}
	return opts, script.String(), nil
}

// NewParser builds a parser from the configuration with its macros
// declared and its entities registered. Each call returns an independent
// parser.
func (c *Config) NewParser() (*latex.Parser, error) {
	opts, script, err := c.ParserOptions()
	if err != nil {
		return nil, err
	}

	opts.Macros = macro.NewTable()
	if err := opts.Macros.Parse(script); err != nil {
		return nil, fmt.Errorf("declare macros: %w", err)
	}

	p := latex.NewParser(opts)
	p.AddEntity(c.Entities...)
	return p, nil
}
