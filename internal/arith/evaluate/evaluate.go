package evaluate

import (
	"errors"
	"fmt"

	"github.com/moorts/bird/internal/arith/ast"
)

var ErrUnsupportedNode = errors.New("unsupported node")

type Evaluator struct {
	Tree ast.Node
}

func New(tree ast.Node) *Evaluator {
	return &Evaluator{
		Tree: tree,
	}
}

// Evaluate reduces tree to its value.
func Evaluate(tree ast.Node) (int64, error) {
	return New(tree).Evaluate()
}

func (e *Evaluator) Evaluate() (int64, error) {
	return e.evaluate(e.Tree)
}

func (e *Evaluator) evaluate(node ast.Node) (int64, error) {
	switch node := node.(type) {
	case *ast.Leaf:
		return node.Value, nil

	case *ast.Binary:
		return e.evaluateBinary(node)

	default:
		return 0, fmt.Errorf("%w: %T", ErrUnsupportedNode, node)
	}
}

func (e *Evaluator) evaluateBinary(node *ast.Binary) (int64, error) {
	left, err := e.evaluate(node.Left)
	if err != nil {
		return 0, err
	}

	right, err := e.evaluate(node.Right)
	if err != nil {
		return 0, err
	}

	value, err := node.Operator.Apply(left, right)
	if err != nil {
		return 0, fmt.Errorf("evaluate %d %s %d: %w", left, node.Operator, right, err)
	}

	return value, nil
}
