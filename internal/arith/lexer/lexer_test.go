package lexer_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/moorts/bird/internal/arith/ast"
	"github.com/moorts/bird/internal/arith/exprerr"
	"github.com/moorts/bird/internal/arith/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer(t *testing.T) {
	t.Run("operators", func(t *testing.T) {
		values := map[string]ast.Operator{
			"+":   ast.OperatorAdd,
			"*":   ast.OperatorMul,
			"/":   ast.OperatorDiv,
			"%":   ast.OperatorMod,
			"AND": ast.OperatorAnd,
			"OR":  ast.OperatorOr,
			"XOR": ast.OperatorXor,
			"SHL": ast.OperatorShl,
			"SHR": ast.OperatorShr,
		}

		for value, op := range values {
			t.Run(value, func(t *testing.T) {
				expectedToken := &lexer.Token{
					Type:     lexer.TokenTypeOperator,
					Operator: op,
					RawValue: value,
					Position: position(0, len(value)),
				}

				tokens, err := lexer.Tokenize(value)
				require.NoError(t, err)

				require.Equal(t, 1, len(tokens), "incorrect number of tokens")

				assert.Equal(t, expectedToken, tokens[0])
			})
		}
	})

	t.Run("remaining", func(t *testing.T) {
		type testCase struct {
			name   string
			input  string
			tokens []*lexer.Token
		}

		testCases := []testCase{
			{
				name:  "number",
				input: "123",
				tokens: []*lexer.Token{
					number(123, "123", 0),
				},
			},
			{
				name:  "number / leading zeros",
				input: "007",
				tokens: []*lexer.Token{
					number(7, "007", 0),
				},
			},
			{
				name:  "number / max int64",
				input: "9223372036854775807",
				tokens: []*lexer.Token{
					number(9223372036854775807, "9223372036854775807", 0),
				},
			},
			{
				name:  "skips whitespace and unknown characters",
				input: " \t12 $ 3\n",
				tokens: []*lexer.Token{
					number(12, "12", 2),
					number(3, "3", 7),
				},
			},
			{
				name:  "minus / leading is unary",
				input: "-3",
				tokens: []*lexer.Token{
					unary(0),
					number(3, "3", 1),
				},
			},
			{
				name:  "minus / after number is subtraction",
				input: "3-4",
				tokens: []*lexer.Token{
					number(3, "3", 0),
					operator(ast.OperatorSub, "-", 1),
					number(4, "4", 2),
				},
			},
			{
				name:  "minus / after operator is unary",
				input: "3+-4",
				tokens: []*lexer.Token{
					number(3, "3", 0),
					operator(ast.OperatorAdd, "+", 1),
					unary(2),
					number(4, "4", 3),
				},
			},
			{
				name:  "minus / after opening parenthesis is unary",
				input: "(-4)",
				tokens: []*lexer.Token{
					parenthesis(lexer.ParenthesisOpen, 0),
					unary(1),
					number(4, "4", 2),
					parenthesis(lexer.ParenthesisClose, 3),
				},
			},
			{
				name:  "minus / after closing parenthesis is subtraction",
				input: "(1)-2",
				tokens: []*lexer.Token{
					parenthesis(lexer.ParenthesisOpen, 0),
					number(1, "1", 1),
					parenthesis(lexer.ParenthesisClose, 2),
					operator(ast.OperatorSub, "-", 3),
					number(2, "2", 4),
				},
			},
			{
				name:  "minus / double",
				input: "--1",
				tokens: []*lexer.Token{
					unary(0),
					unary(1),
					number(1, "1", 2),
				},
			},
			{
				name:  "keywords between numbers",
				input: "27 XOR 9",
				tokens: []*lexer.Token{
					number(27, "27", 0),
					operator(ast.OperatorXor, "XOR", 3),
					number(9, "9", 7),
				},
			},
			{
				name:  "keyword without spaces",
				input: "1SHL2",
				tokens: []*lexer.Token{
					number(1, "1", 0),
					operator(ast.OperatorShl, "SHL", 1),
					number(2, "2", 4),
				},
			},
			{
				name:  "power is skipped by default",
				input: "2^3",
				tokens: []*lexer.Token{
					number(2, "2", 0),
					number(3, "3", 2),
				},
			},
			{
				name:   "empty",
				input:  "",
				tokens: []*lexer.Token{},
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				tokens, err := lexer.Tokenize(tc.input)
				require.NoError(t, err)

				t.Logf("expression: %v", tc.input)

				require.Equal(t, len(tc.tokens), len(tokens), "incorrect number of tokens")

				for i := range len(tc.tokens) {
					assert.Equal(t, tc.tokens[i], tokens[i], "token index %d", i)
				}
			})
		}
	})

	t.Run("power operator", func(t *testing.T) {
		tokens, err := lexer.Tokenize("2^3", lexer.WithPowerOperator())
		require.NoError(t, err)

		require.Equal(t, 3, len(tokens))
		assert.Equal(t, operator(ast.OperatorPow, "^", 1), tokens[1])
	})

	t.Run("errors", func(t *testing.T) {
		type testCase struct {
			input          string
			expectedOffset int
		}

		testCases := []testCase{
			{input: "9223372036854775808", expectedOffset: 0},
			{input: "1 + 99999999999999999999", expectedOffset: 4},
			{input: "1 ANX 2", expectedOffset: 2},
			{input: "1 SH 2", expectedOffset: 2},
			{input: "1 O", expectedOffset: 2},
			{input: "X", expectedOffset: 0},
		}

		for index, tc := range testCases {
			t.Run(fmt.Sprintf("%d - %s", index, tc.input), func(t *testing.T) {
				_, err := lexer.Tokenize(tc.input)
				require.ErrorIs(t, err, exprerr.ErrLex)

				var exprErr *exprerr.Error
				require.ErrorAs(t, err, &exprErr)
				assert.Equal(t, tc.expectedOffset, exprErr.Offset)
			})
		}
	})
}

func number(value int64, raw string, start int) *lexer.Token {
	return &lexer.Token{
		Type:     lexer.TokenTypeNumber,
		Value:    value,
		RawValue: raw,
		Position: position(start, start+len(raw)),
	}
}

func operator(op ast.Operator, raw string, start int) *lexer.Token {
	return &lexer.Token{
		Type:     lexer.TokenTypeOperator,
		Operator: op,
		RawValue: raw,
		Position: position(start, start+len(raw)),
	}
}

func unary(start int) *lexer.Token {
	return &lexer.Token{
		Type:     lexer.TokenTypeUnary,
		RawValue: "-",
		Position: position(start, start+1),
	}
}

func parenthesis(p lexer.Parenthesis, start int) *lexer.Token {
	raw := "("
	if p == lexer.ParenthesisClose {
		raw = ")"
	}

	return &lexer.Token{
		Type:        lexer.TokenTypeParenthesis,
		Parenthesis: p,
		RawValue:    raw,
		Position:    position(start, start+1),
	}
}

func position(start, end int) lexer.Position {
	return lexer.Position{
		Start: start,
		End:   end,
	}
}

func TestToken_JSON(t *testing.T) {
	tokens, err := lexer.Tokenize("(-1)")
	require.NoError(t, err)

	data, err := json.Marshal(tokens)
	require.NoError(t, err)

	expected := `[
		{"type":"PARENTHESIS","value":0,"parenthesis":"open","raw":"(","position":{"start":0,"end":1}},
		{"type":"UNARY","value":0,"raw":"-","position":{"start":1,"end":2}},
		{"type":"NUMBER","value":1,"raw":"1","position":{"start":2,"end":3}},
		{"type":"PARENTHESIS","value":0,"parenthesis":"close","raw":")","position":{"start":3,"end":4}}
	]`

	assert.JSONEq(t, expected, string(data))
}
