package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soypat/gfxlang/lexer"
	"github.com/soypat/gfxlang/token"
)

func kinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	require.NoError(t, err)
	var out []token.Kind
	for _, tk := range toks {
		out = append(out, tk.Kind)
	}
	return out
}

// P1: lexing the same source twice yields identical token kind sequences.
func TestTokenizeIsDeterministic(t *testing.T) {
	const src = `func init(){ float x = 1.5; print(x ^ y % z); }`
	a := kinds(t, src)
	b := kinds(t, src)
	assert.Equal(t, a, b)
}

func TestOperatorsAndPunctuation(t *testing.T) {
	toks, err := lexer.Tokenize(`a <- b; a == b; a != b; a <= b; a >= b; a && b; a || b; |a|;`)
	require.NoError(t, err)
	var got []token.Kind
	for _, tk := range toks {
		if tk.Kind != token.Ident && tk.Kind != token.Semi {
			got = append(got, tk.Kind)
		}
	}
	assert.Equal(t, []token.Kind{
		token.Arrow, token.Eq, token.Neq, token.Le, token.Ge, token.And, token.Or,
		token.Pipe, token.Pipe, token.EOF,
	}, got)
}

func TestNumberLiterals(t *testing.T) {
	toks, err := lexer.Tokenize(`42 3.14`)
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, token.Int, toks[0].Kind)
	assert.Equal(t, "42", toks[0].Lit)
	assert.Equal(t, token.Float, toks[1].Kind)
	assert.Equal(t, "3.14", toks[1].Lit)
}

func TestUnterminatedStringErrors(t *testing.T) {
	_, err := lexer.Tokenize(`"unterminated`)
	assert.Error(t, err)
}

func TestUnknownCharacterErrors(t *testing.T) {
	_, err := lexer.Tokenize(`@`)
	assert.Error(t, err)
}
