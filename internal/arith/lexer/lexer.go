package lexer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/moorts/bird/internal/arith/ast"
	"github.com/moorts/bird/internal/arith/exprerr"
)

type TokenType string

const (
	TokenTypeNumber      TokenType = "NUMBER"
	TokenTypeOperator    TokenType = "OPERATOR"
	TokenTypeParenthesis TokenType = "PARENTHESIS"
	TokenTypeUnary       TokenType = "UNARY"
)

type Parenthesis int

const (
	ParenthesisUnset Parenthesis = iota
	ParenthesisOpen
	ParenthesisClose
)

func (p Parenthesis) MarshalText() ([]byte, error) {
	switch p {
	case ParenthesisOpen:
		return []byte("open"), nil

	case ParenthesisClose:
		return []byte("close"), nil

	default:
		return nil, fmt.Errorf("unknown parenthesis: %d", int(p))
	}
}

// Position is a half-open byte range of the input.
type Position struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Token is a single lexeme. Which of Value, Operator and Parenthesis is set
// depends on Type; a Unary token carries none of them.
type Token struct {
	Type        TokenType    `json:"type"`
	Value       int64        `json:"value"`
	Operator    ast.Operator `json:"operator,omitempty"`
	Parenthesis Parenthesis  `json:"parenthesis,omitempty"`
	RawValue    string       `json:"raw"`
	Position    Position     `json:"position"`
}

var singleCharOperators = map[byte]ast.Operator{
	'+': ast.OperatorAdd,
	'*': ast.OperatorMul,
	'/': ast.OperatorDiv,
	'%': ast.OperatorMod,
}

// keywords by first character; no keyword is a prefix of another
var keywords = map[byte][]keyword{
	'A': {{"AND", ast.OperatorAnd}},
	'O': {{"OR", ast.OperatorOr}},
	'X': {{"XOR", ast.OperatorXor}},
	'S': {{"SHL", ast.OperatorShl}, {"SHR", ast.OperatorShr}},
}

type keyword struct {
	text     string
	operator ast.Operator
}

type Lexer struct {
	input    string
	position int
	previous *Token
	power    bool
}

// WithPowerOperator makes the lexer emit ast.OperatorPow for '^'. Without
// it '^' is skipped like any other unknown character.
func WithPowerOperator() func(*Lexer) {
	return func(l *Lexer) {
		l.power = true
	}
}

func NewLexer(input string, options ...func(*Lexer)) *Lexer {
	lexer := Lexer{
		input:    input,
		position: 0,
	}

	for _, apply := range options {
		apply(&lexer)
	}

	return &lexer
}

// Tokenize reads all tokens of input.
func Tokenize(input string, options ...func(*Lexer)) ([]*Token, error) {
	lex := NewLexer(input, options...)

	tokens := make([]*Token, 0)
	for {
		token, err := lex.ReadToken()
		if errors.Is(err, io.EOF) {
			return tokens, nil
		}
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, token)
	}
}

// ReadToken returns the next token or io.EOF once the input is exhausted.
func (l *Lexer) ReadToken() (*Token, error) {
	token, err := l.readToken()
	if err != nil {
		return nil, err
	}

	l.previous = token

	return token, nil
}

func (l *Lexer) readToken() (*Token, error) {
	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}

		switch {
		case isDigit(c):
			return l.readNumber()

		case c == '-':
			return l.readMinus()

		case c == '(' || c == ')':
			return l.readParenthesis()

		case c == '^' && l.power:
			return l.readSingle(TokenTypeOperator, ast.OperatorPow)
		}

		if op, ok := singleCharOperators[c]; ok {
			return l.readSingle(TokenTypeOperator, op)
		}

		if candidates, ok := keywords[c]; ok {
			return l.readKeyword(candidates)
		}

		// whitespace and unknown characters produce no token
		_, _ = l.read()
	}
}

func (l *Lexer) readNumber() (*Token, error) {
	start := l.position

	for {
		c, err := l.peek()
		if err == io.EOF || !isDigit(c) {
			break
		}

		_, err = l.read()
		invariant(err != nil, "readNumber: unexpected read() error after peek()")
	}

	raw := l.input[start:l.position]

	value, err := strconv.ParseInt(raw, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return nil, exprerr.Lex(start, "integer literal %s overflows int64", raw)
	}
	invariant(err != nil, "readNumber: digits did not parse")

	token := Token{
		Type:     TokenTypeNumber,
		Value:    value,
		RawValue: raw,
		Position: Position{Start: start, End: l.position},
	}

	return &token, nil
}

// readMinus decides between subtraction and negation: '-' is binary only
// when it directly follows the end of an operand.
func (l *Lexer) readMinus() (*Token, error) {
	if l.previousEndsOperand() {
		return l.readSingle(TokenTypeOperator, ast.OperatorSub)
	}

	return l.readSingle(TokenTypeUnary, ast.OperatorUnset)
}

func (l *Lexer) previousEndsOperand() bool {
	if l.previous == nil {
		return false
	}

	switch l.previous.Type {
	case TokenTypeNumber:
		return true

	case TokenTypeParenthesis:
		return l.previous.Parenthesis == ParenthesisClose

	default:
		return false
	}
}

func (l *Lexer) readParenthesis() (*Token, error) {
	start := l.position

	c, err := l.read()
	invariant(err != nil, "readParenthesis: unexpected read() error when consuming first character")

	parenthesis := ParenthesisOpen
	if c == ')' {
		parenthesis = ParenthesisClose
	}

	token := Token{
		Type:        TokenTypeParenthesis,
		Parenthesis: parenthesis,
		RawValue:    string(c),
		Position:    Position{Start: start, End: l.position},
	}

	return &token, nil
}

func (l *Lexer) readKeyword(candidates []keyword) (*Token, error) {
	start := l.position
	rest := l.input[start:]

	for _, candidate := range candidates {
		if !strings.HasPrefix(rest, candidate.text) {
			continue
		}

		l.position += len(candidate.text)

		token := Token{
			Type:     TokenTypeOperator,
			Operator: candidate.operator,
			RawValue: candidate.text,
			Position: Position{Start: start, End: l.position},
		}

		return &token, nil
	}

	return nil, exprerr.Lex(start, "malformed keyword near %q", prefix(rest, 3))
}

func (l *Lexer) readSingle(tokenType TokenType, op ast.Operator) (*Token, error) {
	start := l.position

	c, err := l.read()
	invariant(err != nil, "readSingle: unexpected read() error when consuming first character")

	token := Token{
		Type:     tokenType,
		Operator: op,
		RawValue: string(c),
		Position: Position{Start: start, End: l.position},
	}

	return &token, nil
}

func (l *Lexer) peek() (byte, error) {
	if l.position >= len(l.input) {
		return 0, io.EOF
	}

	return l.input[l.position], nil
}

func (l *Lexer) read() (byte, error) {
	c, err := l.peek()
	if err != nil {
		return 0, err
	}

	l.position++

	return c, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func prefix(s string, n int) string {
	if len(s) < n {
		return s
	}

	return s[:n]
}

func invariant(assertion bool, message string) {
	if assertion {
		panic(message)
	}
}
