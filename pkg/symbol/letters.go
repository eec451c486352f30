package symbol

// Style is a letter style that MathML 2 has no mathvariant for in common
// renderers, so letters are written as styled look-alike characters.
type Style uint8

const (
	DoubleStruck Style = iota + 1
	Script
	Fraktur
)

type letterStyle struct {
	suffix     string
	upperBase  rune
	lowerBase  rune
	exceptions map[rune]rune
}

//nolint:gochecknoglobals // Read-only lookup table.
var letterStyles = map[Style]letterStyle{
	DoubleStruck: {
		suffix:    "opf",
		upperBase: 0x1d538,
		lowerBase: 0x1d552,
		exceptions: map[rune]rune{
			'C': 0x2102, 'H': 0x210d, 'N': 0x2115, 'P': 0x2119,
			'Q': 0x211a, 'R': 0x211d, 'Z': 0x2124,
		},
	},
	Script: {
		suffix:    "scr",
		upperBase: 0x1d49c,
		lowerBase: 0x1d4b6,
		exceptions: map[rune]rune{
			'B': 0x212c, 'E': 0x2130, 'F': 0x2131, 'H': 0x210b,
			'I': 0x2110, 'L': 0x2112, 'M': 0x2133, 'R': 0x211b,
			'e': 0x212f, 'g': 0x210a, 'o': 0x2134,
		},
	},
	Fraktur: {
		suffix:    "fr",
		upperBase: 0x1d504,
		lowerBase: 0x1d51e,
		exceptions: map[rune]rune{
			'C': 0x212d, 'H': 0x210c, 'I': 0x2111, 'R': 0x211c, 'Z': 0x2128,
		},
	},
}

// LetterEntity returns the entity name for an ASCII letter in a style,
// for example "aopf" or "Bscr".
func LetterEntity(style Style, letter rune) (string, bool) {
	ls, ok := letterStyles[style]
	if !ok || !isASCIILetter(letter) {
		return "", false
	}
	return string(letter) + ls.suffix, true
}

// Letter renders an ASCII letter in a style using the given encoding.
func (t *Table) Letter(style Style, letter rune, enc Encoding) (text string, raw bool, ok bool) {
	ls, found := letterStyles[style]
	if !found || !isASCIILetter(letter) {
		return "", false, false
	}
	if enc == EntityReference {
		return "&" + string(letter) + ls.suffix + ";", true, true
	}
	text, raw = codepoint(ls.codepoint(letter), enc)
	return text, raw, true
}

func (ls letterStyle) codepoint(letter rune) rune {
	if code, ok := ls.exceptions[letter]; ok {
		return code
	}
	if letter >= 'a' {
		return ls.lowerBase + letter - 'a'
	}
	return ls.upperBase + letter - 'A'
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
