package macro_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomathml/pkg/latex/macro"
)

const declarations = `
\newcommand{\newcom}{test}
\newcommand{\paramcom}[2]{param2 #2, param1 #1.}
\newcommand\ALPHA\alpha
\newcommand\BETA[1]\beta
\newcommand{\nothing}{}
\newenvironment{newenv}{begin_newenv}{end_newenv}
\newenvironment{paramenv}[2]{begin 1:#1, 2:#2}{end 2:#2 1:#1}
\newenvironment{nothing}{}{}
\newenvironment{separated environment}{sep}{env}
\newenvironment ENV
`

func loaded(t *testing.T) *macro.Table {
	t.Helper()

	table := macro.Empty()
	require.NoError(t, table.Parse(declarations))
	return table
}

func requireMacroError(t *testing.T, err error, message, done, rest string) {
	t.Helper()

	var merr *macro.Error
	require.True(t, errors.As(err, &merr), "expected *macro.Error, got %v", err)
	assert.Equal(t, message, merr.Error())
	assert.Equal(t, done, merr.Done)
	assert.Equal(t, rest, merr.Rest)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src     string
		message string
		done    string
		rest    string
	}{
		{`\newcommand{notcommand}{}`, "Need newcommand.", `\newcommand{`, "notcommand}{}"},
		{`\newcommand{\separated command}{}`, "Syntax error.", `\newcommand{\separated`, " command}{}"},
		{`\newcommand{\nobody}`, "Need parameter.", `\newcommand{\nobody}`, ""},
		{`\newcommand{\noparam}{#1}`, "Parameter # too large.", `\newcommand{\noparam}{#`, "1}"},
		{`\newcommand{\overopt}[1]{#1#2}`, "Parameter # too large.", `\newcommand{\overopt}[1]{#1#`, "2}"},
		{`\newcommand{\strangeopt}[-1]`, "Need positive number.", `\newcommand{\strangeopt}[`, "-1]"},
		{`\newcommand{\strangeopt}[a]`, "Need positive number.", `\newcommand{\strangeopt}[`, "a]"},
		{`\newenvironment{\command}{}{}`, "Syntax error.", `\newenvironment{`, `\command}{}{}`},
		{`\newenvironment{nobegin}`, "Need begin block.", `\newenvironment{nobegin}`, ""},
		{`\newenvironment{noend}{}`, "Need end block.", `\newenvironment{noend}{}`, ""},
		{`\newenvironment{noparam}{#1}{}`, "Parameter # too large.", `\newenvironment{noparam}{#`, "1}{}"},
		{`\newenvironment{overparam}[1]{#1#2}{}`, "Parameter # too large.", `\newenvironment{overparam}[1]{#1#`, "2}{}"},
		{`\newenvironment{strangeparam}[-1]{}{}`, "Need positive number.", `\newenvironment{strangeparam}[`, "-1]{}{}"},
		{`\newenvironment{strangeparam}[a]{}{}`, "Need positive number.", `\newenvironment{strangeparam}[`, "a]{}{}"},
		{`\newcommand{\valid}{OK} \invalid{\test}{NG}`, "Syntax error.", `\newcommand{\valid}{OK} `, `\invalid{\test}{NG}`},
		{`\newcommand{\valid}{OK} invalid{\test}{NG}`, "Syntax error.", `\newcommand{\valid}{OK} `, `invalid{\test}{NG}`},
		{`\newcommand{\newcom}[test`, "Option not closed.", `\newcommand{\newcom}`, "[test"},
		{`\newcommand{\newcom}[1][test`, "Option not closed.", `\newcommand{\newcom}[1]`, "[test"},
		{`\newcommand{\newcom}[1][]{#1#2}`, "Parameter # too large.", `\newcommand{\newcom}[1][]{#1#`, "2}"},
		{`\newenvironment{newenv}[1][test`, "Option not closed.", `\newenvironment{newenv}[1]`, "[test"},
		{`\newcommand{\newcom`, "Block not closed.", `\newcommand`, `{\newcom`},
		{`\newcommand{\newcom}{test1{test2}{test3`, "Block not closed.", `\newcommand{\newcom}`, "{test1{test2}{test3"},
		{`\newenvironment{newenv}[1][]{#1 #2}`, "Parameter # too large.", `\newenvironment{newenv}[1][]{#1 #`, "2}"},
	}

	for _, testCase := range tests {
		t.Run(testCase.src, func(t *testing.T) {
			t.Parallel()

			err := macro.Empty().Parse(testCase.src)
			requireMacroError(t, err, testCase.message, testCase.done, testCase.rest)
			assert.Equal(t, testCase.src, testCase.done+testCase.rest)
		})
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	table := loaded(t)

	c, ok := table.Command("newcom")
	require.True(t, ok)
	assert.Equal(t, 0, c.Arity)

	c, ok = table.Command("paramcom")
	require.True(t, ok)
	assert.Equal(t, 2, c.Arity)

	_, ok = table.Command("no")
	assert.False(t, ok)

	e, ok := table.Environment("newenv")
	require.True(t, ok)
	assert.Equal(t, 0, e.Arity)

	e, ok = table.Environment("paramenv")
	require.True(t, ok)
	assert.Equal(t, 2, e.Arity)

	e, ok = table.Environment("separated environment")
	require.True(t, ok)
	assert.Equal(t, 0, e.Arity)

	_, ok = table.Environment("not_env")
	assert.False(t, ok)
}

func TestExpandCommand(t *testing.T) {
	t.Parallel()

	table := loaded(t)

	_, ok, err := table.ExpandCommand("not coommand", nil)
	require.NoError(t, err)
	assert.False(t, ok)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"newcom", nil, "test"},
		{"newcom", []string{"dummy_param"}, "test"},
		{"paramcom", []string{"1", "2"}, "param2 2, param1 1."},
		{"paramcom", []string{"12", "34"}, "param2 34, param1 12."},
		{"ALPHA", nil, `\alpha`},
		{"BETA", []string{"x"}, `\beta`},
		{"nothing", nil, ""},
	}
	for _, testCase := range tests {
		got, ok, err := table.ExpandCommand(testCase.name, testCase.args)
		require.NoError(t, err, testCase.name)
		assert.True(t, ok)
		assert.Equal(t, testCase.want, got, testCase.name)
	}

	for _, args := range [][]string{{"12"}, nil} {
		_, ok, err := table.ExpandCommand("paramcom", args)
		assert.True(t, ok)
		requireMacroError(t, err, "Need more parameter.", "", "")
	}
}

func TestExpandEnvironment(t *testing.T) {
	t.Parallel()

	table := loaded(t)

	_, ok, err := table.ExpandEnvironment("notregistered", "dummy", nil)
	require.NoError(t, err)
	assert.False(t, ok)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"newenv", nil, " begin_newenv body end_newenv "},
		{"paramenv", []string{"1", "2"}, " begin 1:1, 2:2 body end 2:2 1:1 "},
		{"paramenv", []string{"12", "34"}, " begin 1:12, 2:34 body end 2:34 1:12 "},
		{"nothing", nil, "  body  "},
		{"separated environment", nil, " sep body env "},
		{"E", nil, " N body V "},
	}
	for _, testCase := range tests {
		got, ok, err := table.ExpandEnvironment(testCase.name, "body", testCase.args)
		require.NoError(t, err, testCase.name)
		assert.True(t, ok)
		assert.Equal(t, testCase.want, got, testCase.name)
	}

	for _, args := range [][]string{{"1"}, nil} {
		_, _, err := table.ExpandEnvironment("paramenv", "body", args)
		requireMacroError(t, err, "Need more parameter.", "", "")
	}
}

func TestExpandWithOptions(t *testing.T) {
	t.Parallel()

	table := macro.Empty()
	require.NoError(t, table.Parse(`
\newcommand{\opt}[1][x]{#1}
\newcommand{\optparam}[2][]{#1#2}
\newenvironment{newenv}[1][x]{s:#1}{e:#1}
\newenvironment{optenv}[2][]{s:#1}{e:#2}
`))

	expand := func(got string, _ bool, err error) string {
		require.NoError(t, err)
		return got
	}

	assert.Equal(t, "x", expand(table.ExpandCommand("opt", nil)))
	assert.Equal(t, "1", expand(table.ExpandCommandWithOption("opt", nil, "1")))
	assert.Equal(t, "1", expand(table.ExpandCommand("optparam", []string{"1"})))
	assert.Equal(t, "21", expand(table.ExpandCommandWithOption("optparam", []string{"1"}, "2")))

	assert.Equal(t, " s:x test e:x ", expand(table.ExpandEnvironment("newenv", "test", nil)))
	assert.Equal(t, " s:1 test e:1 ", expand(table.ExpandEnvironmentWithOption("newenv", "test", nil, "1")))
	assert.Equal(t, " s: test e:1 ", expand(table.ExpandEnvironment("optenv", "test", []string{"1"})))
	assert.Equal(t, " s:2 test e:1 ", expand(table.ExpandEnvironmentWithOption("optenv", "test", []string{"1"}, "2")))

	c, ok := table.Command("optparam")
	require.True(t, ok)
	assert.Equal(t, 1, c.Positional())
}

func TestSubstitutionRoundTrip(t *testing.T) {
	t.Parallel()

	table := macro.Empty()
	require.NoError(t, table.Parse(`\newcommand{\X}[1]{#1#1}`))

	for _, arg := range []string{"z", `\alpha`, "{a_b}", ""} {
		got, ok, err := table.ExpandCommand("X", []string{arg})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, arg+arg, got)
	}
}

func TestBuiltinsAndClone(t *testing.T) {
	t.Parallel()

	table := macro.NewTable()
	for _, name := range []string{"smallmatrix", "pmatrix", "bmatrix", "Bmatrix", "vmatrix", "Vmatrix"} {
		_, ok := table.Environment(name)
		assert.True(t, ok, name)
	}

	got, _, err := table.ExpandEnvironment("pmatrix", "a", nil)
	require.NoError(t, err)
	assert.Equal(t, ` \left(\begin{matrix} a \end{matrix}\right) `, got)

	clone := table.Clone()
	require.NoError(t, clone.Parse(`\newcommand{\only}{x}`))
	_, ok := clone.Command("only")
	assert.True(t, ok)
	_, ok = table.Command("only")
	assert.False(t, ok)

	require.NoError(t, clone.Parse(`\newenvironment{pmatrix}{(}{)}`))
	e, _ := clone.Environment("pmatrix")
	assert.Equal(t, "(", e.Begin)
	e, _ = table.Environment("pmatrix")
	assert.Equal(t, `\left(\begin{matrix}`, e.Begin)
}

func TestDefineDirectly(t *testing.T) {
	t.Parallel()

	table := macro.Empty()
	require.NoError(t, table.DefineCommand(macro.Command{Name: "twice", Arity: 1, Body: "#1#1"}))
	got, _, err := table.ExpandCommand("twice", []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, "aa", got)

	err = table.DefineCommand(macro.Command{Name: "bad", Arity: 1, Body: "#2"})
	var merr *macro.Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, macro.KindParameterTooLarge, merr.Kind)

	err = table.DefineEnvironment(macro.Environment{Name: "bad", Begin: "", End: "#1"})
	require.ErrorAs(t, err, &merr)
	commands, environments := table.Len()
	assert.Equal(t, 1, commands)
	assert.Equal(t, 0, environments)
}
