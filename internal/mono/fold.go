package mono

import (
	"github.com/funvibe/pyrite/internal/ast"
	"github.com/funvibe/pyrite/internal/token"
)

// foldBinary implements step 3's "fold constant integer/boolean
// expressions" over an already-substituted operand pair. Returns nil when
// left/right aren't both literals of a foldable kind, leaving the caller to
// keep the (possibly partially substituted) BinaryExpression as-is.
func foldBinary(_ token.Token, op string, left, right ast.Expression) ast.Expression {
	if li, ok := left.(*ast.IntegerLiteral); ok {
		if ri, ok := right.(*ast.IntegerLiteral); ok {
			if v, ok := foldIntOp(op, li.Value, ri.Value); ok {
				return &ast.IntegerLiteral{Token: li.Token, Value: v}
			}
		}
	}
	if lb, ok := left.(*ast.BoolLiteral); ok {
		if rb, ok := right.(*ast.BoolLiteral); ok {
			if v, ok := foldBoolOp(op, lb.Value, rb.Value); ok {
				return &ast.BoolLiteral{Token: lb.Token, Value: v}
			}
		}
	}
	return nil
}

func foldIntOp(op string, l, r int64) (int64, bool) {
	switch op {
	case "+":
		return l + r, true
	case "-":
		return l - r, true
	case "*":
		return l * r, true
	case "/":
		if r == 0 {
			return 0, false
		}
		return l / r, true
	case "%":
		if r == 0 {
			return 0, false
		}
		return l % r, true
	default:
		return 0, false
	}
}

func foldBoolOp(op string, l, r bool) (bool, bool) {
	switch op {
	case "&&":
		return l && r, true
	case "||":
		return l || r, true
	default:
		return false, false
	}
}
