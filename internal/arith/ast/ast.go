package ast

var (
	_ Node = (*Binary)(nil)
	_ Node = (*Leaf)(nil)
)

// Node is an expression tree node, either a *Leaf or a *Binary.
type Node interface {
	isNode()
}

type (
	// Binary applies Operator to the values of Left and Right. Both children
	// are always set.
	Binary struct {
		Operator Operator `json:"operator"`
		Left     Node     `json:"left"`
		Right    Node     `json:"right"`
	}

	Leaf struct {
		Value int64 `json:"value"`
	}
)

func (n Binary) isNode() {}
func (n Leaf) isNode()   {}

// Negate is the tree form of unary minus: 0 - operand.
func Negate(operand Node) *Binary {
	return &Binary{
		Operator: OperatorSub,
		Left:     &Leaf{Value: 0},
		Right:    operand,
	}
}
