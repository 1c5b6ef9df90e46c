// Package reverse implements component G: translating the scheduler's
// output AST back into this module's own instruction and expression trees.
// Grounded line-for-line on isl_to_noclock.c's isl_expr_to_noclock_expr,
// isl_for_to_noclock, isl_if_to_noclock, isl_block_to_noclock,
// isl_user_to_noclock, and isl_cond_to_expr.
package reverse

import (
	"noclock/internal/ast"
	"noclock/internal/diagnostics"
	"noclock/internal/expr"
	"noclock/internal/scheduler"
)

// Translate converts one scheduled node, and everything reachable from it,
// into an instruction list. A node of unrecognized kind is logged and
// dropped, matching isl_ast_to_noclock_ast's default case (fdebug and
// return null) rather than panicking on scheduler output this module
// doesn't understand.
func Translate(n *scheduler.Node) ast.InstructionList {
	if n == nil {
		return nil
	}

	switch n.Kind {
	case scheduler.NodeFor:
		return forToNoclock(n)
	case scheduler.NodeIf:
		return ifToNoclock(n)
	case scheduler.NodeBlock:
		return blockToNoclock(n)
	case scheduler.NodeUser:
		return userToNoclock(n)
	default:
		diagnostics.Debugf("reverse: unexpected node kind %q\n", n.Kind)
		return nil
	}
}

func forToNoclock(n *scheduler.Node) ast.InstructionList {
	left := TranslateExpr(n.Init)
	right := condToExpr(n.Cond)
	body := Translate(n.Body)

	loop := &ast.For{Iterator: n.Iterator, Left: left, Right: right, Body: body}
	return ast.InstructionList{loop}
}

func ifToNoclock(n *scheduler.Node) ast.InstructionList {
	then := Translate(n.Then)

	if n.HasElse {
		els := Translate(n.Else)
		return ast.InstructionList{&ast.IfElse{
			Condition: TranslateExpr(n.Cond),
			Then:      then,
			Else:      els,
		}}
	}

	return ast.InstructionList{&ast.If{
		Condition: TranslateExpr(n.Cond),
		Then:      then,
	}}
}

func blockToNoclock(n *scheduler.Node) ast.InstructionList {
	var out ast.InstructionList
	for _, child := range n.Children {
		out = ast.Concat(out, Translate(child))
	}
	return out
}

func userToNoclock(n *scheduler.Node) ast.InstructionList {
	args := make([]expr.Expr, 0, len(n.Args))
	for _, a := range n.Args {
		args = append(args, TranslateExpr(a))
	}
	return ast.InstructionList{&ast.Call{Name: n.Name, Args: args}}
}

// condToExpr extracts a for loop's upper bound from its raw condition node
// (isl_cond_to_expr): the bound is always the condition's right operand;
// when the condition is strictly-less-than, the target language's inclusive
// upper bound requires subtracting one.
func condToExpr(cond *scheduler.Expr) expr.Expr {
	if cond == nil {
		return nil
	}
	bound := TranslateExpr(cond.Right)
	if cond.Kind == scheduler.ExprLt {
		bound = expr.Sub(bound, expr.FromNumber(1))
	}
	return bound
}

// TranslateExpr converts one scheduled expression node into this module's
// expression algebra. Ternary (cond/select), member access, call, access,
// and address-of nodes have no counterpart in the target language and are
// rejected: isl_expr_to_noclock_expr returns null for exactly these kinds.
func TranslateExpr(e *scheduler.Expr) expr.Expr {
	if e == nil {
		return nil
	}

	switch e.Kind {
	case scheduler.ExprID:
		return expr.FromIdentifier(e.Name)
	case scheduler.ExprInt:
		return expr.FromNumber(e.Value)
	case scheduler.ExprNeg:
		return expr.Neg(TranslateExpr(e.Left))
	case scheduler.ExprAdd:
		return expr.Add(TranslateExpr(e.Left), TranslateExpr(e.Right))
	case scheduler.ExprSub:
		return expr.Sub(TranslateExpr(e.Left), TranslateExpr(e.Right))
	case scheduler.ExprMul:
		return expr.Mul(TranslateExpr(e.Left), TranslateExpr(e.Right))
	case scheduler.ExprDiv:
		return expr.Div(TranslateExpr(e.Left), TranslateExpr(e.Right))
	case scheduler.ExprMin:
		return expr.Min(TranslateExpr(e.Left), TranslateExpr(e.Right))
	case scheduler.ExprMax:
		return expr.Max(TranslateExpr(e.Left), TranslateExpr(e.Right))
	case scheduler.ExprEq:
		return expr.Eq(TranslateExpr(e.Left), TranslateExpr(e.Right))
	case scheduler.ExprLe:
		return expr.Le(TranslateExpr(e.Left), TranslateExpr(e.Right))
	case scheduler.ExprLt:
		return expr.Lt(TranslateExpr(e.Left), TranslateExpr(e.Right))
	case scheduler.ExprGe:
		return expr.Ge(TranslateExpr(e.Left), TranslateExpr(e.Right))
	case scheduler.ExprGt:
		return expr.Gt(TranslateExpr(e.Left), TranslateExpr(e.Right))
	case scheduler.ExprAnd:
		return expr.And(TranslateExpr(e.Left), TranslateExpr(e.Right))
	case scheduler.ExprOr:
		return expr.Or(TranslateExpr(e.Left), TranslateExpr(e.Right))
	default:
		diagnostics.Debugf("reverse: rejected expression kind %q\n", e.Kind)
		return nil
	}
}
