// Package scanner tokenizes LaTeX math source for the parser.
//
// A Scanner wraps an immutable source string and a cursor. Every public
// matching method first skips whitespace and %-comments; when the match
// fails, the cursor is left where it was before the skip. Check* variants
// report what the matching Scan* method would consume without moving the
// cursor.
package scanner

import (
	"errors"
	"regexp"
	"unicode/utf8"
)

// Scanner errors. They are distinct from "nothing to match", which is
// reported through a false ok result.
var (
	ErrBlockNotClosed  = errors.New("block not closed")
	ErrOptionNotClosed = errors.New("option not closed")
)

//nolint:gochecknoglobals // Compiled once, read-only.
var (
	spaceRE       = regexp.MustCompile(`^(?:\s|%[^\n]*)+`)
	onlySpaceRE   = regexp.MustCompile(`^(?:\s|%[^\n]*)+$`)
	commandRE     = regexp.MustCompile(`^\\([a-zA-Z]+|[^a-zA-Z])`)
	optionCloseRE = regexp.MustCompile(`^(?:\s|%[^\n]*)*\]$`)
)

// Scanner is a cursor over LaTeX source.
type Scanner struct {
	src     string
	pos     int
	matched string
	groups  []string
}

// New returns a Scanner positioned at the start of src.
func New(src string) *Scanner {
	return &Scanner{src: src}
}

// String returns the whole source.
func (s *Scanner) String() string {
	return s.src
}

// Pos returns the cursor position in bytes.
func (s *Scanner) Pos() int {
	return s.pos
}

// SetPos moves the cursor. Positions outside the source are clamped.
func (s *Scanner) SetPos(pos int) {
	switch {
	case pos < 0:
		s.pos = 0
	case pos > len(s.src):
		s.pos = len(s.src)
	default:
		s.pos = pos
	}
}

// Reset rewinds to the start and forgets the last match.
func (s *Scanner) Reset() {
	s.pos = 0
	s.matched = ""
	s.groups = nil
}

// Done returns the consumed part of the source.
func (s *Scanner) Done() string {
	return s.src[:s.pos]
}

// Rest returns the unconsumed part of the source.
func (s *Scanner) Rest() string {
	return s.src[s.pos:]
}

// Matched returns the text of the last successful match.
func (s *Scanner) Matched() string {
	return s.matched
}

// Group returns capture group i of the last successful match. Group 0 is
// the whole match. Block and option matches expose their inner text as
// group 1, command matches expose the command name.
func (s *Scanner) Group(i int) string {
	if i == 0 {
		return s.matched
	}
	if i < 0 || i >= len(s.groups) {
		return ""
	}
	return s.groups[i]
}

// EOS reports whether only whitespace and comments remain.
func (s *Scanner) EOS() bool {
	rest := s.Rest()
	return rest == "" || onlySpaceRE.MatchString(rest)
}

func (s *Scanner) setMatch(groups ...string) {
	s.matched = groups[0]
	s.groups = groups
}

// match applies re at the cursor without skipping anything.
func (s *Scanner) match(re *regexp.Regexp) bool {
	rest := s.Rest()
	loc := re.FindStringSubmatchIndex(rest)
	if loc == nil || loc[0] != 0 {
		return false
	}
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if loc[2*i] >= 0 {
			groups[i] = rest[loc[2*i]:loc[2*i+1]]
		}
	}
	s.setMatch(groups...)
	s.pos += loc[1]
	return true
}

// skipSpaceAnd runs fn after skipping whitespace and comments. If fn does
// not match, the cursor goes back to where it started. When fn fails with
// an error the cursor is left where fn put it.
func (s *Scanner) skipSpaceAnd(fn func() (bool, error)) (bool, error) {
	start := s.pos
	s.match(spaceRE)
	ok, err := fn()
	if err != nil {
		return false, err
	}
	if !ok {
		s.pos = start
	}
	return ok, nil
}

func (s *Scanner) checkWith(fn func() (bool, error)) (bool, error) {
	start := s.pos
	ok, err := fn()
	s.pos = start
	return ok, err
}

// ScanSpace consumes whitespace and comments at the cursor.
func (s *Scanner) ScanSpace() (string, bool) {
	if s.match(spaceRE) {
		return s.matched, true
	}
	return "", false
}

// Scan skips whitespace and comments and then matches re at the cursor.
// Patterns should be anchored with ^.
func (s *Scanner) Scan(re *regexp.Regexp) (string, bool) {
	ok, _ := s.skipSpaceAnd(func() (bool, error) {
		return s.match(re), nil
	})
	if !ok {
		return "", false
	}
	return s.matched, true
}

// Check reports what Scan would match without moving the cursor.
func (s *Scanner) Check(re *regexp.Regexp) (string, bool) {
	ok, _ := s.checkWith(func() (bool, error) {
		_, ok := s.Scan(re)
		return ok, nil
	})
	if !ok {
		return "", false
	}
	return s.matched, true
}

// ScanRune consumes a single character after skipping whitespace.
func (s *Scanner) ScanRune() (string, bool) {
	ok, _ := s.skipSpaceAnd(func() (bool, error) {
		return s.scanRune(), nil
	})
	if !ok {
		return "", false
	}
	return s.matched, true
}

func (s *Scanner) scanRune() bool {
	if s.pos >= len(s.src) {
		return false
	}
	_, size := utf8.DecodeRuneInString(s.Rest())
	s.setMatch(s.src[s.pos : s.pos+size])
	s.pos += size
	return true
}

// ScanCommand matches \letters or a backslash followed by one
// non-letter. Group 1 holds the command name.
func (s *Scanner) ScanCommand() (string, bool) {
	ok, _ := s.skipSpaceAnd(func() (bool, error) {
		return s.match(commandRE), nil
	})
	if !ok {
		return "", false
	}
	return s.matched, true
}

// CheckCommand reports what ScanCommand would match.
func (s *Scanner) CheckCommand() (string, bool) {
	ok, _ := s.checkWith(func() (bool, error) {
		_, ok := s.ScanCommand()
		return ok, nil
	})
	if !ok {
		return "", false
	}
	return s.matched, true
}

// PeekCommand returns the name of the next command, or "" if the next
// token is not a command.
func (s *Scanner) PeekCommand() string {
	if _, ok := s.CheckCommand(); ok {
		return s.Group(1)
	}
	return ""
}

// ScanBlock matches a brace-delimited block, honouring nesting and
// backslash-escaped braces. Group 1 holds the inner text. If the block
// never closes, ErrBlockNotClosed is returned and the cursor is left on
// the opening brace.
func (s *Scanner) ScanBlock() (string, bool, error) {
	ok, err := s.skipSpaceAnd(s.scanBlock)
	if !ok {
		return "", false, err
	}
	return s.matched, true, nil
}

// CheckBlock reports what ScanBlock would match.
func (s *Scanner) CheckBlock() (string, bool, error) {
	ok, err := s.checkWith(func() (bool, error) {
		_, ok, err := s.ScanBlock()
		return ok, err
	})
	if !ok {
		return "", false, err
	}
	return s.matched, true, nil
}

func (s *Scanner) scanBlock() (bool, error) {
	if s.pos >= len(s.src) || s.src[s.pos] != '{' {
		return false, nil
	}
	start := s.pos
	depth := 0
	for i := start; i < len(s.src); i++ {
		switch s.src[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				s.pos = i + 1
				s.setMatch(s.src[start:s.pos], s.src[start+1:i])
				return true, nil
			}
		}
	}
	return false, ErrBlockNotClosed
}

// ScanOption matches a bracket-delimited option. It stops at the first
// ']' that is not inside a block or escaped as a command. Group 1 holds
// the inner text. If the input ends first, ErrOptionNotClosed is returned
// and the cursor is left on the opening bracket.
func (s *Scanner) ScanOption() (string, bool, error) {
	ok, err := s.skipSpaceAnd(s.scanOption)
	if !ok {
		return "", false, err
	}
	return s.matched, true, nil
}

// CheckOption reports what ScanOption would match.
func (s *Scanner) CheckOption() (string, bool, error) {
	ok, err := s.checkWith(func() (bool, error) {
		_, ok, err := s.ScanOption()
		return ok, err
	})
	if !ok {
		return "", false, err
	}
	return s.matched, true, nil
}

func (s *Scanner) scanOption() (bool, error) {
	if s.pos >= len(s.src) || s.src[s.pos] != '[' {
		return false, nil
	}
	start := s.pos
	s.pos++
	for {
		unit, _, err := s.ScanAny(true)
		if err != nil {
			return false, err
		}
		if optionCloseRE.MatchString(unit) {
			break
		}
		if s.EOS() {
			s.pos = start
			return false, ErrOptionNotClosed
		}
	}
	whole := s.src[start:s.pos]
	s.setMatch(whole, whole[1:len(whole)-1])
	return true, nil
}

// ScanAny consumes the next logical unit: a block, a command, or a single
// character. With includeSpace the skipped whitespace and comments are
// prepended to the returned text (Matched still holds only the unit), and
// the call succeeds even when nothing but whitespace remains.
func (s *Scanner) ScanAny(includeSpace bool) (string, bool, error) {
	start := s.pos
	s.match(spaceRE)
	lead := s.src[start:s.pos]

	ok, err := s.scanBlock()
	if err != nil {
		return "", false, err
	}
	if !ok {
		ok = s.match(commandRE)
	}
	if !ok {
		ok = s.scanRune()
	}

	if !ok {
		if !includeSpace {
			s.pos = start
			return "", false, nil
		}
		s.setMatch("")
	}
	if includeSpace {
		return lead + s.matched, true, nil
	}
	return s.matched, true, nil
}

// CheckAny reports what ScanAny would consume.
func (s *Scanner) CheckAny(includeSpace bool) (string, bool, error) {
	start := s.pos
	unit, ok, err := s.ScanAny(includeSpace)
	s.pos = start
	return unit, ok, err
}
