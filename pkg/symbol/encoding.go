package symbol

import (
	"fmt"
	"strings"
)

// Encoding selects how symbol payloads are written.
type Encoding uint8

const (
	// EntityReference writes named references such as &alpha;.
	EntityReference Encoding = iota
	// CharacterReference writes numeric references such as &#x3b1;.
	CharacterReference
	// UTF8 writes the characters themselves.
	UTF8
)

// String returns the configuration name of the encoding.
func (e Encoding) String() string {
	switch e {
	case CharacterReference:
		return "character"
	case UTF8:
		return "utf8"
	default:
		return "entity"
	}
}

// ParseEncoding parses a configuration name. The empty string selects
// EntityReference.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(name) {
	case "", "entity":
		return EntityReference, nil
	case "character", "charref":
		return CharacterReference, nil
	case "utf8", "utf-8":
		return UTF8, nil
	default:
		return EntityReference, fmt.Errorf("unknown symbol encoding %q; valid encodings: entity, character, utf8", name)
	}
}
