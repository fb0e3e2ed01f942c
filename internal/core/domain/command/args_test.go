package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSingleArgument(t *testing.T) {
	parser := NewArgParser([]ArgSpec{
		{Name: "power", Type: "int", Arity: Arity{Kind: ArityExact, Count: 1}},
	})

	values, err := parser.Parse([]string{"42"})
	require.NoError(t, err)

	assert.Equal(t, 42, values["power"])
}

func TestParseExactCountTooFewTokens(t *testing.T) {
	parser := NewArgParser([]ArgSpec{
		{Name: "pair", Type: "int", Arity: Arity{Kind: ArityExact, Count: 2}},
	})

	_, err := parser.Parse([]string{"1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `argument "pair"`)
}

func TestParseCoercionFailure(t *testing.T) {
	parser := NewArgParser([]ArgSpec{
		{Name: "power", Type: "int", Arity: Arity{Kind: ArityExact, Count: 1}},
	})

	_, err := parser.Parse([]string{"loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid int value "loud"`)
}

func TestParseOneOrMore(t *testing.T) {
	parser := NewArgParser([]ArgSpec{
		{Name: "words", Arity: Arity{Kind: ArityOneOrMore}},
	})

	_, err := parser.Parse(nil)
	require.Error(t, err, "no tokens should fail a one-or-more argument")

	values, err := parser.Parse([]string{"hello"})
	require.NoError(t, err)
	assert.Equal(t, []any{"hello"}, values["words"])
}

func TestParseOptional(t *testing.T) {
	parser := NewArgParser([]ArgSpec{
		{Name: "target", Arity: Arity{Kind: ArityOptional}, Default: "chat", HasDefault: true},
	})

	values, err := parser.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, "chat", values["target"])

	values, err = parser.Parse([]string{"mods"})
	require.NoError(t, err)
	assert.Equal(t, "mods", values["target"])
}

func TestParseOptionalWithoutDefaultOmitsKey(t *testing.T) {
	parser := NewArgParser([]ArgSpec{
		{Name: "target", Arity: Arity{Kind: ArityOptional}},
	})

	values, err := parser.Parse(nil)
	require.NoError(t, err)

	_, ok := values["target"]
	assert.False(t, ok, "absent optional without a default leaves no entry")
}

func TestParseRemainderIsGreedy(t *testing.T) {
	parser := NewArgParser([]ArgSpec{
		{Name: "text", Arity: Arity{Kind: ArityRemainder}},
	})

	values, err := parser.Parse([]string{"is", "it", "--raining", "today"})
	require.NoError(t, err)

	assert.Equal(t, []any{"is", "it", "--raining", "today"}, values["text"])
}

func TestParseExtraTokensIgnored(t *testing.T) {
	parser := NewArgParser([]ArgSpec{
		{Name: "power", Type: "int", Arity: Arity{Kind: ArityExact, Count: 1}},
	})

	values, err := parser.Parse([]string{"42", "extra", "--flag"})
	require.NoError(t, err)

	assert.Equal(t, 42, values["power"])
	assert.Len(t, values, 1)
}

func TestParseVariableLeavesTokensForLaterSpecs(t *testing.T) {
	parser := NewArgParser([]ArgSpec{
		{Name: "words", Arity: Arity{Kind: ArityZeroOrMore}},
		{Name: "count", Type: "int", Arity: Arity{Kind: ArityExact, Count: 1}},
	})

	values, err := parser.Parse([]string{"a", "b", "3"})
	require.NoError(t, err)

	assert.Equal(t, []any{"a", "b"}, values["words"])
	assert.Equal(t, 3, values["count"])
}

func TestParseMixedTypes(t *testing.T) {
	parser := NewArgParser([]ArgSpec{
		{Name: "scale", Type: "float", Arity: Arity{Kind: ArityExact, Count: 1}},
		{Name: "loud", Type: "bool", Arity: Arity{Kind: ArityOptional}},
	})

	values, err := parser.Parse([]string{"2.5", "true"})
	require.NoError(t, err)

	assert.Equal(t, 2.5, values["scale"])
	assert.Equal(t, true, values["loud"])
}

func TestSupportedArgType(t *testing.T) {
	assert.True(t, SupportedArgType(""))
	assert.True(t, SupportedArgType("str"))
	assert.True(t, SupportedArgType("int"))
	assert.True(t, SupportedArgType("float"))
	assert.True(t, SupportedArgType("bool"))
	assert.False(t, SupportedArgType("complex"))
	assert.False(t, SupportedArgType("list"))
}
