package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

const texLanguage = "TeX"

//nolint:gochecknoglobals // Compiled once, read-only.
var (
	texCommandRE = regexp.MustCompile(`\\[a-zA-Z]+|[_^]\{`)

	// classifierCandidates are the languages an unlabelled block is
	// usually written in.
	classifierCandidates = []string{
		texLanguage, "Go", "Python", "Shell", "JavaScript", "TypeScript",
		"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON", "YAML", "HTML",
	}
)

// IsTeX reports whether the content of an unlabelled code block is TeX.
func IsTeX(content []byte) bool {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return false
	}

	// A shebang names the language outright.
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return lang == texLanguage
	}

	if looksLikeCode(trimmed) {
		return false
	}
	if texCommandRE.Match(trimmed) {
		return true
	}

	lang, _ := enry.GetLanguageByClassifier(content, classifierCandidates)
	return lang == texLanguage
}

// looksLikeCode checks for patterns that are highly indicative of a
// programming or data language.
func looksLikeCode(trimmed []byte) bool {
	s := string(trimmed)
	lower := strings.ToLower(s)

	switch {
	case strings.HasPrefix(s, "package "):
		return true
	case strings.Contains(s, "def ") && strings.Contains(s, "):"):
		return true
	case strings.Contains(lower, "<html") || strings.Contains(lower, "<!doctype html"):
		return true
	case (strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")) && strings.Contains(s, `"`):
		return true
	case strings.HasPrefix(s, "#!"):
		return true
	case strings.Contains(s, "console.log") || strings.Contains(s, "=>") || strings.Contains(s, "fn main()"):
		return true
	}

	upper := strings.ToUpper(s)
	for _, kw := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
		if strings.HasPrefix(upper, kw) {
			return true
		}
	}
	return false
}
