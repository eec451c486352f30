package symbol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomathml/pkg/symbol"
)

func TestDefaultLoads(t *testing.T) {
	t.Parallel()

	table := symbol.Default()
	require.NotNil(t, table)
	assert.Same(t, table, symbol.Default())
	assert.NotEmpty(t, table.Names())
}

func TestLookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		command string
		kind    symbol.Kind
		display bool
		upright bool
		payload symbol.Payload
	}{
		{
			name: "greek letter", command: "alpha", kind: symbol.KindIdentifier,
			payload: symbol.Payload{Kind: symbol.PayloadEntity, Text: "alpha"},
		},
		{
			name: "upright capital", command: "Gamma", kind: symbol.KindIdentifier, upright: true,
			payload: symbol.Payload{Kind: symbol.PayloadEntity, Text: "Gamma"},
		},
		{
			name: "large operator", command: "sum", kind: symbol.KindOperator, display: true,
			payload: symbol.Payload{Kind: symbol.PayloadEntity, Text: "sum"},
		},
		{
			name: "function name", command: "sin", kind: symbol.KindIdentifier,
			payload: symbol.Payload{Kind: symbol.PayloadText, Text: "sin"},
		},
		{
			name: "code point", command: "precneqq", kind: symbol.KindOperator,
			payload: symbol.Payload{Kind: symbol.PayloadCodepoint, Code: 0x2ab5},
		},
		{
			name: "escaped brace", command: "{", kind: symbol.KindOperator,
			payload: symbol.Payload{Kind: symbol.PayloadText, Text: "{"},
		},
		{
			name: "backslash", command: "backslash", kind: symbol.KindOperator,
			payload: symbol.Payload{Kind: symbol.PayloadText, Text: `\`},
		},
		{name: "ignored", command: "displaystyle", kind: symbol.KindNone},
	}

	table := symbol.Default()
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			entry, ok := table.Lookup(testCase.command)
			require.True(t, ok)
			assert.Equal(t, testCase.command, entry.Name)
			assert.Equal(t, testCase.kind, entry.Kind)
			assert.Equal(t, testCase.display, entry.Display)
			assert.Equal(t, testCase.upright, entry.Upright)
			assert.Equal(t, testCase.payload, entry.Payload)
		})
	}

	_, ok := table.Lookup("nosuchcommand")
	assert.False(t, ok)
}

func TestRender(t *testing.T) {
	t.Parallel()

	table := symbol.Default()
	alpha := symbol.Payload{Kind: symbol.PayloadEntity, Text: "alpha"}
	precneqq := symbol.Payload{Kind: symbol.PayloadCodepoint, Code: 0x2ab5}
	literal := symbol.Payload{Kind: symbol.PayloadText, Text: "sin"}
	unknown := symbol.Payload{Kind: symbol.PayloadEntity, Text: "madeup"}

	tests := []struct {
		name    string
		payload symbol.Payload
		enc     symbol.Encoding
		text    string
		raw     bool
	}{
		{"entity as entity", alpha, symbol.EntityReference, "&alpha;", true},
		{"entity as charref", alpha, symbol.CharacterReference, "&#x3b1;", true},
		{"entity as utf8", alpha, symbol.UTF8, "α", false},
		{"codepoint as entity", precneqq, symbol.EntityReference, "&#x2ab5;", true},
		{"codepoint as charref", precneqq, symbol.CharacterReference, "&#x2ab5;", true},
		{"codepoint as utf8", precneqq, symbol.UTF8, "⪵", false},
		{"text", literal, symbol.UTF8, "sin", false},
		{"unknown entity as utf8", unknown, symbol.UTF8, "&madeup;", true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			text, raw := table.Render(testCase.payload, testCase.enc)
			assert.Equal(t, testCase.text, text)
			assert.Equal(t, testCase.raw, raw)
		})
	}
}

func TestLetter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		style  symbol.Style
		letter rune
		enc    symbol.Encoding
		text   string
	}{
		{"double-struck entity", symbol.DoubleStruck, 'b', symbol.EntityReference, "&bopf;"},
		{"double-struck lower", symbol.DoubleStruck, 'a', symbol.CharacterReference, "&#x1d552;"},
		{"double-struck upper", symbol.DoubleStruck, 'A', symbol.CharacterReference, "&#x1d538;"},
		{"double-struck exception", symbol.DoubleStruck, 'C', symbol.CharacterReference, "&#x2102;"},
		{"script lower", symbol.Script, 'a', symbol.CharacterReference, "&#x1d4b6;"},
		{"script upper", symbol.Script, 'A', symbol.CharacterReference, "&#x1d49c;"},
		{"script exception", symbol.Script, 'B', symbol.CharacterReference, "&#x212c;"},
		{"fraktur lower", symbol.Fraktur, 'a', symbol.CharacterReference, "&#x1d51e;"},
		{"fraktur upper", symbol.Fraktur, 'A', symbol.CharacterReference, "&#x1d504;"},
		{"fraktur exception", symbol.Fraktur, 'C', symbol.CharacterReference, "&#x212d;"},
		{"fraktur entity", symbol.Fraktur, 'C', symbol.EntityReference, "&Cfr;"},
	}

	table := symbol.Default()
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			text, raw, ok := table.Letter(testCase.style, testCase.letter, testCase.enc)
			require.True(t, ok)
			assert.True(t, raw)
			assert.Equal(t, testCase.text, text)
		})
	}

	text, raw, ok := table.Letter(symbol.DoubleStruck, 'R', symbol.UTF8)
	require.True(t, ok)
	assert.False(t, raw)
	assert.Equal(t, "ℝ", text)

	_, _, ok = table.Letter(symbol.Script, '1', symbol.EntityReference)
	assert.False(t, ok)
}

func TestDelimiters(t *testing.T) {
	t.Parallel()

	table := symbol.Default()
	for _, name := range []string{"{", "}", "|", "lfloor", "rfloor", "langle"} {
		assert.True(t, table.IsDelimiter(name), name)
	}
	assert.False(t, table.IsDelimiter("alpha"))
}

func TestParseEncoding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    symbol.Encoding
		wantErr bool
	}{
		{"", symbol.EntityReference, false},
		{"entity", symbol.EntityReference, false},
		{"character", symbol.CharacterReference, false},
		{"UTF8", symbol.UTF8, false},
		{"utf-8", symbol.UTF8, false},
		{"latin1", symbol.EntityReference, true},
	}

	for _, testCase := range tests {
		t.Run(testCase.input, func(t *testing.T) {
			t.Parallel()

			got, err := symbol.ParseEncoding(testCase.input)
			if testCase.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
			roundTrip, err := symbol.ParseEncoding(got.String())
			require.NoError(t, err)
			assert.Equal(t, got, roundTrip)
		})
	}
}

func TestLoadRejectsUnknownElement(t *testing.T) {
	t.Parallel()

	_, err := symbol.Load([]byte("symbols:\n  foo: {el: mx}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "foo")
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	entry, ok := symbol.Default().Lookup("sum")
	require.True(t, ok)
	assert.Equal(t, "mo &sum; (display)", entry.Describe())
}
