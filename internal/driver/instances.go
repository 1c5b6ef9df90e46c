package driver

import (
	"strconv"
	"strings"

	"noclock/internal/ast"
	"noclock/internal/errors"
	"noclock/internal/expr"
	"noclock/internal/scheduler"
	"noclock/internal/setbuilder"
)

// enumerateInstances concretely expands an annotated program into the
// instances StubScheduler needs, for use when no external scheduler is
// configured. This only works for programs with no free parameters and
// every For loop bound a compile-time constant: a real polyhedral
// scheduler is required for anything parametric, exactly the limitation
// spec.md §4.F documents for a from-scratch stand-in scheduler (Scenario
// 1's free parameter N, in particular, is out of this fallback's reach).
func enumerateInstances(list ast.InstructionList, table *setbuilder.StringTable) ([]scheduler.Instance, error) {
	var out []scheduler.Instance
	if err := walkInstances(list, nil, table, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func walkInstances(list ast.InstructionList, env map[string]int64, table *setbuilder.StringTable, out *[]scheduler.Instance) error {
	for _, instr := range list {
		switch x := instr.(type) {
		case *ast.Call:
			inst, err := buildInstance(x, env, table)
			if err != nil {
				return err
			}
			*out = append(*out, inst)

		case *ast.For:
			left, err := evalConst(x.Left, env)
			if err != nil {
				return errors.NewScheduler("for loop at %s has a non-constant lower bound: %v", x.Position, err)
			}
			right, err := evalConst(x.Right, env)
			if err != nil {
				return errors.NewScheduler("for loop at %s has a non-constant upper bound: %v", x.Position, err)
			}
			for i := left; i <= right; i++ {
				child := cloneEnv(env)
				child[x.Iterator] = i
				if err := walkInstances(x.Body, child, table, out); err != nil {
					return err
				}
			}

		case *ast.If:
			ok, err := evalBool(x.Condition, env)
			if err != nil {
				return errors.NewScheduler("if at %s has a non-constant condition: %v", x.Position, err)
			}
			if ok {
				if err := walkInstances(x.Then, env, table, out); err != nil {
					return err
				}
			}

		case *ast.IfElse:
			ok, err := evalBool(x.Condition, env)
			if err != nil {
				return errors.NewScheduler("if at %s has a non-constant condition: %v", x.Position, err)
			}
			branch := x.Else
			if ok {
				branch = x.Then
			}
			if err := walkInstances(branch, env, table, out); err != nil {
				return err
			}

		case *ast.Advance:
			// No instance of its own; already folded into every
			// sibling's date by internal/annotate.

		case *ast.Finish, *ast.Async, *ast.ClockedFinish, *ast.ClockedAsync:
			body, _ := ast.BodyOf(x)
			if err := walkInstances(body, env, table, out); err != nil {
				return err
			}
		}
	}
	return nil
}

func buildInstance(c *ast.Call, env map[string]int64, table *setbuilder.StringTable) (scheduler.Instance, error) {
	date, err := evalConst(c.Ann.Date, env)
	if err != nil {
		return scheduler.Instance{}, errors.NewScheduler("call %q at %s has a non-constant date: %v", c.Name, c.Position, err)
	}

	coords, err := levelPathToExprs(c.Ann.Level)
	if err != nil {
		return scheduler.Instance{}, errors.NewScheduler("call %q at %s: %v", c.Name, c.Position, err)
	}

	return scheduler.Instance{
		Date:   date,
		Coords: coords,
		Tag:    int64(table.IndexOf(c.Name)),
	}, nil
}

// levelPathToExprs turns a level path such as "0,f,0,i,2,d" into its
// coordinate vector (the "d" suffix dropped, exactly as internal/setbuilder
// drops it before building its own shifted tuple). Purely numeric tokens
// become ExprInt, everything else (iterator names, f/a markers) becomes
// ExprID: coordinate values only need to preserve their textual identity
// for internal/recover's marker walk, not their bound numeric value.
func levelPathToExprs(level string) ([]scheduler.Expr, error) {
	parts := strings.Split(level, ",")
	if len(parts) == 0 || parts[len(parts)-1] != "d" {
		return nil, errors.NewScheduler("malformed level path %q", level)
	}
	coords := parts[:len(parts)-1]

	out := make([]scheduler.Expr, 0, len(coords))
	for _, tok := range coords {
		if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
			out = append(out, scheduler.Expr{Kind: scheduler.ExprInt, Value: n})
		} else {
			out = append(out, scheduler.Expr{Kind: scheduler.ExprID, Name: tok})
		}
	}
	return out, nil
}

func cloneEnv(env map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(env)+1)
	for k, v := range env {
		out[k] = v
	}
	return out
}

// evalConst folds e to a concrete integer given env's bindings. Returns an
// error for any identifier env does not bind: a free program parameter, or
// a boolean sub-expression appearing where an integer is expected.
func evalConst(e expr.Expr, env map[string]int64) (int64, error) {
	switch x := e.(type) {
	case *expr.Number:
		return x.Value, nil
	case *expr.Ident:
		if v, ok := env[x.Name]; ok {
			return v, nil
		}
		return 0, &unboundIdentifier{x.Name}
	case *expr.Unary:
		v, err := evalConst(x.X, env)
		if err != nil {
			return 0, err
		}
		switch x.Op {
		case expr.UnaryNeg:
			return -v, nil
		default:
			return 0, &unsupportedExpr{e}
		}
	case *expr.Binary:
		left, err := evalConst(x.X, env)
		if err != nil {
			return 0, err
		}
		right, err := evalConst(x.Y, env)
		if err != nil {
			return 0, err
		}
		switch x.Op {
		case expr.OpAdd:
			return left + right, nil
		case expr.OpSub:
			return left - right, nil
		case expr.OpMul:
			return left * right, nil
		case expr.OpDiv:
			return left / right, nil
		case expr.OpMin:
			if left < right {
				return left, nil
			}
			return right, nil
		case expr.OpMax:
			if left > right {
				return left, nil
			}
			return right, nil
		default:
			return 0, &unsupportedExpr{e}
		}
	default:
		return 0, &unsupportedExpr{e}
	}
}

// evalBool folds a condition expression to a concrete boolean given env's
// bindings.
func evalBool(e expr.Expr, env map[string]int64) (bool, error) {
	switch x := e.(type) {
	case *expr.Bool:
		return x.Value, nil
	case *expr.Unary:
		if x.Op == expr.UnaryNot {
			v, err := evalBool(x.X, env)
			if err != nil {
				return false, err
			}
			return !v, nil
		}
		return false, &unsupportedExpr{e}
	case *expr.Binary:
		switch x.Op {
		case expr.OpAnd:
			left, err := evalBool(x.X, env)
			if err != nil {
				return false, err
			}
			right, err := evalBool(x.Y, env)
			if err != nil {
				return false, err
			}
			return left && right, nil
		case expr.OpOr:
			left, err := evalBool(x.X, env)
			if err != nil {
				return false, err
			}
			right, err := evalBool(x.Y, env)
			if err != nil {
				return false, err
			}
			return left || right, nil
		case expr.OpEq, expr.OpNe, expr.OpLt, expr.OpLe, expr.OpGt, expr.OpGe:
			left, err := evalConst(x.X, env)
			if err != nil {
				return false, err
			}
			right, err := evalConst(x.Y, env)
			if err != nil {
				return false, err
			}
			switch x.Op {
			case expr.OpEq:
				return left == right, nil
			case expr.OpNe:
				return left != right, nil
			case expr.OpLt:
				return left < right, nil
			case expr.OpLe:
				return left <= right, nil
			case expr.OpGt:
				return left > right, nil
			default:
				return left >= right, nil
			}
		default:
			return false, &unsupportedExpr{e}
		}
	default:
		return false, &unsupportedExpr{e}
	}
}

type unboundIdentifier struct{ name string }

func (e *unboundIdentifier) Error() string { return "unbound identifier " + e.name }

type unsupportedExpr struct{ e expr.Expr }

func (e *unsupportedExpr) Error() string { return "cannot fold expression " + expr.AsString(e.e) }
