package builder_test

import (
	"errors"
	"io"
	"testing"

	"github.com/kr/pretty"
	"github.com/moorts/bird/internal/arith/ast"
	"github.com/moorts/bird/internal/arith/builder"
	"github.com/moorts/bird/internal/arith/exprerr"
	"github.com/moorts/bird/internal/arith/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLexer struct {
	pos    int
	tokens []*lexer.Token
	err    error
}

func (l *fakeLexer) ReadToken() (*lexer.Token, error) {
	if l.pos >= len(l.tokens) {
		if l.err != nil {
			return nil, l.err
		}

		return nil, io.EOF
	}

	token := l.tokens[l.pos]
	l.pos += 1

	return token, nil
}

func TestBuilder(t *testing.T) {
	t.Run("trees", func(t *testing.T) {
		type testCase struct {
			name        string
			inputTokens []*lexer.Token
			outputTree  ast.Node
		}

		testCases := []testCase{
			{
				name:        "number", // 3
				inputTokens: []*lexer.Token{number(3)},
				outputTree:  leaf(3),
			},
			{
				name: "precedence", // 3 + 4 * 2
				inputTokens: []*lexer.Token{
					number(3), operator(ast.OperatorAdd), number(4), operator(ast.OperatorMul), number(2),
				},
				outputTree: binary(ast.OperatorAdd, leaf(3), binary(ast.OperatorMul, leaf(4), leaf(2))),
			},
			{
				name: "left associative", // 3 - 4 - 2
				inputTokens: []*lexer.Token{
					number(3), operator(ast.OperatorSub), number(4), operator(ast.OperatorSub), number(2),
				},
				outputTree: binary(ast.OperatorSub, binary(ast.OperatorSub, leaf(3), leaf(4)), leaf(2)),
			},
			{
				name: "parentheses", // 3 * (4 + 2)
				inputTokens: []*lexer.Token{
					number(3), operator(ast.OperatorMul), open(), number(4), operator(ast.OperatorAdd), number(2), closing(),
				},
				outputTree: binary(ast.OperatorMul, leaf(3), binary(ast.OperatorAdd, leaf(4), leaf(2))),
			},
			{
				name: "unary", // -3
				inputTokens: []*lexer.Token{
					unary(), number(3),
				},
				outputTree: ast.Negate(leaf(3)),
			},
			{
				name: "unary binds tighter than multiplication", // -3 * 2
				inputTokens: []*lexer.Token{
					unary(), number(3), operator(ast.OperatorMul), number(2),
				},
				outputTree: binary(ast.OperatorMul, ast.Negate(leaf(3)), leaf(2)),
			},
			{
				name: "unary of group", // 3 * -(4 + 2)
				inputTokens: []*lexer.Token{
					number(3), operator(ast.OperatorMul), unary(), open(), number(4), operator(ast.OperatorAdd), number(2), closing(),
				},
				outputTree: binary(ast.OperatorMul, leaf(3), ast.Negate(binary(ast.OperatorAdd, leaf(4), leaf(2)))),
			},
			{
				name: "keyword precedence", // 1 OR 2 AND 3 + 4
				inputTokens: []*lexer.Token{
					number(1), operator(ast.OperatorOr), number(2), operator(ast.OperatorAnd), number(3), operator(ast.OperatorAdd), number(4),
				},
				outputTree: binary(ast.OperatorOr, leaf(1), binary(ast.OperatorAnd, leaf(2), binary(ast.OperatorAdd, leaf(3), leaf(4)))),
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				lexer := &fakeLexer{
					tokens: tc.inputTokens,
				}

				b := builder.New(lexer)

				t.Log("input tokens:")
				t.Log(pretty.Sprint(tc.inputTokens))

				t.Log("expected tree:")
				t.Log(pretty.Sprint(tc.outputTree))

				tree, err := b.Build()
				require.NoError(t, err)

				t.Log("actual tree:")
				t.Log(pretty.Sprint(tree))

				assert.Equal(t, tc.outputTree, tree)
			})
		}
	})

	t.Run("structural errors", func(t *testing.T) {
		type testCase struct {
			name          string
			input         string
			expectedIndex int
		}

		testCases := []testCase{
			{name: "empty", input: "", expectedIndex: 0},
			{name: "whitespace only", input: "   ", expectedIndex: 0},
			{name: "unmatched close", input: "3 + 4)", expectedIndex: 3},
			{name: "unmatched close first", input: ")", expectedIndex: 0},
			{name: "unmatched open", input: "(3 + 4", expectedIndex: 0},
			{name: "unmatched nested open", input: "((3)", expectedIndex: 0},
			{name: "empty group", input: "()", expectedIndex: 1},
			{name: "trailing operator", input: "3 +", expectedIndex: 2},
			{name: "leading operator", input: "* 3", expectedIndex: 0},
			{name: "double operator", input: "3 * / 4", expectedIndex: 2},
			{name: "missing operator", input: "3 4", expectedIndex: 1},
			{name: "missing operator before group", input: "3 (4)", expectedIndex: 1},
			{name: "adjacent groups", input: "(3)(4)", expectedIndex: 3},
			{name: "dangling unary", input: "3 + -", expectedIndex: 3},
			{name: "unary without operand in group", input: "3 + (-) 4", expectedIndex: 4},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				tokens, err := lexer.Tokenize(tc.input)
				require.NoError(t, err)

				_, err = builder.Build(tokens)
				require.ErrorIs(t, err, exprerr.ErrStructural)

				var exprErr *exprerr.Error
				require.ErrorAs(t, err, &exprErr)
				assert.Equal(t, tc.expectedIndex, exprErr.Offset, "error: %v", err)
			})
		}
	})

	t.Run("unary token after operand", func(t *testing.T) {
		_, err := builder.Build([]*lexer.Token{number(3), unary(), number(4)})
		assert.ErrorIs(t, err, exprerr.ErrStructural)
	})

	t.Run("lexer error is returned", func(t *testing.T) {
		lexErr := exprerr.Lex(2, "malformed keyword")

		_, err := builder.New(&fakeLexer{tokens: []*lexer.Token{number(1)}, err: lexErr}).Build()
		require.Error(t, err)
		assert.True(t, errors.Is(err, exprerr.ErrLex))
	})
}

func TestBuilder_Shape(t *testing.T) {
	inputs := []string{
		"3",
		"3 + 4 * (4 + 2)",
		"-3",
		"3*-(4+2)",
		"--1 - -2",
		"(((3)))",
		"1 SHL 2 OR 3 AND 4 XOR 5 % 6",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			tokens, err := lexer.Tokenize(input)
			require.NoError(t, err)

			numbers, unaries, operators := 0, 0, 0
			for _, token := range tokens {
				switch token.Type {
				case lexer.TokenTypeNumber:
					numbers++
				case lexer.TokenTypeUnary:
					unaries++
				case lexer.TokenTypeOperator:
					operators++
				}
			}

			tree, err := builder.Build(tokens)
			require.NoError(t, err)

			// every unary minus becomes 0 - operand: one extra leaf and one internal node
			leaves, internal := ast.Count(tree)
			assert.Equal(t, numbers+unaries, leaves)
			assert.Equal(t, operators+unaries, internal)
		})
	}
}

func number(value int64) *lexer.Token {
	return &lexer.Token{Type: lexer.TokenTypeNumber, Value: value}
}

func operator(op ast.Operator) *lexer.Token {
	return &lexer.Token{Type: lexer.TokenTypeOperator, Operator: op}
}

func unary() *lexer.Token {
	return &lexer.Token{Type: lexer.TokenTypeUnary, RawValue: "-"}
}

func open() *lexer.Token {
	return &lexer.Token{Type: lexer.TokenTypeParenthesis, Parenthesis: lexer.ParenthesisOpen, RawValue: "("}
}

func closing() *lexer.Token {
	return &lexer.Token{Type: lexer.TokenTypeParenthesis, Parenthesis: lexer.ParenthesisClose, RawValue: ")"}
}

func leaf(value int64) *ast.Leaf {
	return &ast.Leaf{Value: value}
}

func binary(op ast.Operator, left, right ast.Node) *ast.Binary {
	return &ast.Binary{Operator: op, Left: left, Right: right}
}
