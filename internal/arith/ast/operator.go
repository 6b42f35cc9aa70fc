package ast

import (
	"fmt"
	"math"

	"github.com/moorts/bird/internal/arith/exprerr"
)

type Operator int

const (
	OperatorUnset Operator = iota
	OperatorAdd
	OperatorSub
	OperatorMul
	OperatorDiv
	OperatorMod
	OperatorAnd
	OperatorOr
	OperatorXor
	OperatorShl
	OperatorShr
	OperatorPow
)

type Precedence int

const (
	PrecedenceUnset          Precedence = 0
	PrecedenceOr             Precedence = 1 // "OR" "XOR"
	PrecedenceAnd            Precedence = 2 // "AND"
	PrecedenceAdditive       Precedence = 3 // "+" "-"
	PrecedenceMultiplicative Precedence = 4 // "*" "/" "%" "SHL" "SHR"
	PrecedencePower          Precedence = 5 // "^"
)

var operatorSymbols = map[Operator]string{
	OperatorAdd: "+",
	OperatorSub: "-",
	OperatorMul: "*",
	OperatorDiv: "/",
	OperatorMod: "%",
	OperatorAnd: "AND",
	OperatorOr:  "OR",
	OperatorXor: "XOR",
	OperatorShl: "SHL",
	OperatorShr: "SHR",
	OperatorPow: "^",
}

func (o Operator) String() string {
	if symbol, ok := operatorSymbols[o]; ok {
		return symbol
	}

	return fmt.Sprintf("Operator(%d)", int(o))
}

func (o Operator) MarshalText() ([]byte, error) {
	if _, ok := operatorSymbols[o]; !ok {
		return nil, fmt.Errorf("unknown operator: %d", int(o))
	}

	return []byte(o.String()), nil
}

// Precedence returns the binding strength of the operator, higher binds tighter.
func (o Operator) Precedence() Precedence {
	switch o {
	case OperatorOr, OperatorXor:
		return PrecedenceOr

	case OperatorAnd:
		return PrecedenceAnd

	case OperatorAdd, OperatorSub:
		return PrecedenceAdditive

	case OperatorMul, OperatorDiv, OperatorMod, OperatorShl, OperatorShr:
		return PrecedenceMultiplicative

	case OperatorPow:
		return PrecedencePower

	default:
		return PrecedenceUnset
	}
}

// Apply computes lhs <op> rhs. Results that do not fit in an int64, division
// or modulo by zero and negative shift counts or exponents are reported as
// arithmetic errors.
func (o Operator) Apply(lhs, rhs int64) (int64, error) {
	switch o {
	case OperatorAdd:
		result := lhs + rhs
		if (lhs > 0 && rhs > 0 && result < 0) || (lhs < 0 && rhs < 0 && result >= 0) {
			return 0, exprerr.Arithmetic("overflow: %d + %d", lhs, rhs)
		}

		return result, nil

	case OperatorSub:
		result := lhs - rhs
		if (lhs >= 0 && rhs < 0 && result < 0) || (lhs < 0 && rhs > 0 && result >= 0) {
			return 0, exprerr.Arithmetic("overflow: %d - %d", lhs, rhs)
		}

		return result, nil

	case OperatorMul:
		return checkedMul(lhs, rhs)

	case OperatorDiv:
		if rhs == 0 {
			return 0, exprerr.Arithmetic("division by zero")
		}

		if lhs == math.MinInt64 && rhs == -1 {
			return 0, exprerr.Arithmetic("overflow: %d / %d", lhs, rhs)
		}

		return lhs / rhs, nil

	case OperatorMod:
		if rhs == 0 {
			return 0, exprerr.Arithmetic("modulo by zero")
		}

		return lhs % rhs, nil

	case OperatorAnd:
		return lhs & rhs, nil

	case OperatorOr:
		return lhs | rhs, nil

	case OperatorXor:
		return lhs ^ rhs, nil

	case OperatorShl:
		if rhs < 0 {
			return 0, exprerr.Arithmetic("negative shift count: %d", rhs)
		}

		if lhs == 0 {
			return 0, nil
		}

		if rhs >= 64 {
			return 0, exprerr.Arithmetic("overflow: %d SHL %d", lhs, rhs)
		}

		result := lhs << rhs
		if result>>rhs != lhs {
			return 0, exprerr.Arithmetic("overflow: %d SHL %d", lhs, rhs)
		}

		return result, nil

	case OperatorShr:
		if rhs < 0 {
			return 0, exprerr.Arithmetic("negative shift count: %d", rhs)
		}

		return lhs >> rhs, nil

	case OperatorPow:
		return checkedPow(lhs, rhs)

	default:
		return 0, fmt.Errorf("unsupported operator: %s", o)
	}
}

func checkedMul(lhs, rhs int64) (int64, error) {
	if lhs == 0 || rhs == 0 {
		return 0, nil
	}

	result := lhs * rhs
	if result/rhs != lhs || (lhs == -1 && rhs == math.MinInt64) || (rhs == -1 && lhs == math.MinInt64) {
		return 0, exprerr.Arithmetic("overflow: %d * %d", lhs, rhs)
	}

	return result, nil
}

func checkedPow(base, exp int64) (int64, error) {
	if exp < 0 {
		return 0, exprerr.Arithmetic("negative exponent: %d", exp)
	}

	switch {
	case exp == 0 || base == 1:
		return 1, nil

	case base == 0:
		return 0, nil

	case base == -1:
		if exp%2 == 0 {
			return 1, nil
		}

		return -1, nil
	}

	// |base| >= 2, so the loop overflows within 63 iterations
	result := int64(1)
	for range exp {
		next, err := checkedMul(result, base)
		if err != nil {
			return 0, exprerr.Arithmetic("overflow: %d ^ %d", base, exp)
		}

		result = next
	}

	return result, nil
}
