package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders the tree as fully parenthesised infix text.
func String(node Node) string {
	var sb strings.Builder
	write(&sb, node)

	return sb.String()
}

func write(sb *strings.Builder, node Node) {
	switch node := node.(type) {
	case *Leaf:
		sb.WriteString(strconv.FormatInt(node.Value, 10))

	case *Binary:
		sb.WriteByte('(')
		write(sb, node.Left)
		sb.WriteByte(' ')
		sb.WriteString(node.Operator.String())
		sb.WriteByte(' ')
		write(sb, node.Right)
		sb.WriteByte(')')

	default:
		sb.WriteString(fmt.Sprintf("<%T>", node))
	}
}

// Count returns the number of leaves and internal nodes in the tree.
func Count(node Node) (leaves int, internal int) {
	switch node := node.(type) {
	case *Leaf:
		return 1, 0

	case *Binary:
		leftLeaves, leftInternal := Count(node.Left)
		rightLeaves, rightInternal := Count(node.Right)

		return leftLeaves + rightLeaves, leftInternal + rightInternal + 1

	default:
		return 0, 0
	}
}
