package runner

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Format is the kind of document a file holds.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatText     Format = "text"
)

// outputSuffix marks rendered copies of HTML inputs.
const outputSuffix = ".mathml.html"

// DetectFormat classifies a file by its extension. Anything that is
// neither Markdown nor HTML is converted as plain text.
func DetectFormat(path string) Format {
	languages := enry.GetLanguagesByExtension(path, nil, nil)
	switch {
	case slices.Contains(languages, "Markdown"):
		return FormatMarkdown
	case slices.Contains(languages, "HTML"):
		return FormatHTML
	default:
		return FormatText
	}
}

// OutputPath returns where the rendering of path is written. HTML inputs
// get a .mathml.html suffix so that they are not overwritten; everything
// else swaps its extension for .html. With an output directory the
// location relative to workDir is mirrored under it.
func OutputPath(path, workDir, outputDir string) string {
	ext := filepath.Ext(path)
	name := strings.TrimSuffix(filepath.Base(path), ext)
	if DetectFormat(path) == FormatHTML {
		name += outputSuffix
	} else {
		name += ".html"
	}

	dir := filepath.Dir(path)
	if outputDir != "" {
		rel, err := filepath.Rel(workDir, dir)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			rel = ""
		}
		if !filepath.IsAbs(outputDir) {
			outputDir = filepath.Join(workDir, outputDir)
		}
		dir = filepath.Join(outputDir, rel)
	}
	return filepath.Join(dir, name)
}
