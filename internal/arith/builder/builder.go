package builder

import (
	"errors"
	"io"

	"github.com/moorts/bird/internal/arith/ast"
	"github.com/moorts/bird/internal/arith/exprerr"
	"github.com/moorts/bird/internal/arith/lexer"
	"github.com/moorts/bird/internal/util/stack"
)

type Lexer interface {
	ReadToken() (*lexer.Token, error)
}

// Builder turns a token stream into an expression tree using the
// shunting-yard algorithm, with a tree stack in place of postfix output.
type Builder struct {
	lexer Lexer
}

func New(lexer Lexer) *Builder {
	return &Builder{
		lexer: lexer,
	}
}

// Build builds the tree of an already tokenized expression.
func Build(tokens []*lexer.Token) (ast.Node, error) {
	return New(&sliceLexer{tokens: tokens}).Build()
}

// pending is an entry of the operator stack: an operator, a unary minus or an
// opening parenthesis.
type pending struct {
	token *lexer.Token
	index int
}

// expectation tracks whether the next token must start an operand or
// continue after one.
type expectation int

const (
	expectOperand expectation = iota
	expectOperator
)

type state struct {
	operators *stack.Stack[pending]
	operands  *stack.Stack[ast.Node]
}

func (b *Builder) Build() (ast.Node, error) {
	s := state{
		operators: stack.New[pending](8),
		operands:  stack.New[ast.Node](8),
	}

	expect := expectOperand

	index := 0
	for ; ; index++ {
		token, err := b.lexer.ReadToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch token.Type {
		case lexer.TokenTypeNumber:
			if expect != expectOperand {
				return nil, exprerr.Structural(index, "missing operator before %s", token.RawValue)
			}

			s.operands.Push(&ast.Leaf{Value: token.Value})
			expect = expectOperator

		case lexer.TokenTypeUnary:
			if expect != expectOperand {
				return nil, exprerr.Structural(index, "unexpected unary minus")
			}

			s.operators.Push(pending{token: token, index: index})

		case lexer.TokenTypeOperator:
			if expect != expectOperator {
				return nil, exprerr.Structural(index, "operator %s is missing its left operand", token.Operator)
			}

			if err := s.reduceOperators(token.Operator); err != nil {
				return nil, err
			}

			s.operators.Push(pending{token: token, index: index})
			expect = expectOperand

		case lexer.TokenTypeParenthesis:
			switch token.Parenthesis {
			case lexer.ParenthesisOpen:
				if expect != expectOperand {
					return nil, exprerr.Structural(index, "missing operator before '('")
				}

				s.operators.Push(pending{token: token, index: index})

			case lexer.ParenthesisClose:
				if expect != expectOperator {
					return nil, exprerr.Structural(index, "missing operand before ')'")
				}

				if err := s.reduceGroup(index); err != nil {
					return nil, err
				}

			default:
				return nil, exprerr.Structural(index, "invalid parenthesis token")
			}

		default:
			return nil, exprerr.Structural(index, "unsupported token type: %s", token.Type)
		}
	}

	if expect != expectOperator {
		if index == 0 {
			return nil, exprerr.Structural(index, "empty expression")
		}

		return nil, exprerr.Structural(index, "unexpected end of expression")
	}

	for {
		top, ok := s.operators.Pop()
		if !ok {
			break
		}

		if isOpenParenthesis(top) {
			return nil, exprerr.Structural(top.index, "unmatched '('")
		}

		if err := s.reduce(top); err != nil {
			return nil, err
		}
	}

	if s.operands.Len() != 1 {
		return nil, exprerr.Structural(index, "expected a single tree, got %d", s.operands.Len())
	}

	root, _ := s.operands.Pop()

	return root, nil
}

// reduceOperators applies pending unary minuses and operators that bind at
// least as tight as op. Equal precedence reduces, which makes every binary
// operator left-associative.
func (s *state) reduceOperators(op ast.Operator) error {
	for {
		top, ok := s.operators.Peek()
		if !ok || isOpenParenthesis(top) {
			return nil
		}

		if top.token.Type == lexer.TokenTypeOperator && top.token.Operator.Precedence() < op.Precedence() {
			return nil
		}

		_, _ = s.operators.Pop()

		if err := s.reduce(top); err != nil {
			return err
		}
	}
}

// reduceGroup reduces everything down to the matching '(' and discards it.
func (s *state) reduceGroup(index int) error {
	for {
		top, ok := s.operators.Pop()
		if !ok {
			return exprerr.Structural(index, "unmatched ')'")
		}

		if isOpenParenthesis(top) {
			return nil
		}

		if err := s.reduce(top); err != nil {
			return err
		}
	}
}

func (s *state) reduce(entry pending) error {
	switch entry.token.Type {
	case lexer.TokenTypeUnary:
		operand, ok := s.operands.Pop()
		if !ok {
			return exprerr.Structural(entry.index, "unary minus is missing its operand")
		}

		s.operands.Push(ast.Negate(operand))

		return nil

	case lexer.TokenTypeOperator:
		right, ok := s.operands.Pop()
		if !ok {
			return exprerr.Structural(entry.index, "operator %s is missing its right operand", entry.token.Operator)
		}

		left, ok := s.operands.Pop()
		if !ok {
			return exprerr.Structural(entry.index, "operator %s is missing its left operand", entry.token.Operator)
		}

		s.operands.Push(&ast.Binary{
			Operator: entry.token.Operator,
			Left:     left,
			Right:    right,
		})

		return nil

	default:
		return exprerr.Structural(entry.index, "cannot reduce %s token", entry.token.Type)
	}
}

func isOpenParenthesis(entry pending) bool {
	return entry.token.Type == lexer.TokenTypeParenthesis && entry.token.Parenthesis == lexer.ParenthesisOpen
}

type sliceLexer struct {
	tokens []*lexer.Token
	pos    int
}

func (l *sliceLexer) ReadToken() (*lexer.Token, error) {
	if l.pos >= len(l.tokens) {
		return nil, io.EOF
	}

	token := l.tokens[l.pos]
	l.pos++

	return token, nil
}
