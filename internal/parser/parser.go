// Package parser implements component K: lowering the grammar package's
// participle-produced concrete syntax tree into internal/ast's
// InstructionList. Grounded on the teacher's internal/ir.Builder.Build
// AST→IR lowering pass (one struct holding lowering state, one method per
// source node kind), reused here for grammar→AST instead of AST→IR, since
// internal/ast's Instruction/Annotation shape is richer than a bare parse
// tree and needs its own construction step.
package parser

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"

	"noclock/grammar"
	"noclock/internal/ast"
	"noclock/internal/errors"
	"noclock/internal/expr"
	"noclock/token"
)

// ParseFile reads and lowers a `.nc` file in one step.
func ParseFile(path string) (ast.InstructionList, error) {
	program, err := grammar.ParseFile(path)
	if err != nil {
		return nil, toParseError(path, err)
	}
	return Lower(program)
}

// ParseString parses and lowers source, attributing positions to filename.
func ParseString(filename, source string) (ast.InstructionList, error) {
	program, err := grammar.ParseString(filename, source)
	if err != nil {
		return nil, toParseError(filename, err)
	}
	return Lower(program)
}

func toParseError(filename string, err error) *errors.CompilerError {
	if line, col, ok := grammar.ParseErrorPosition(err); ok {
		pos := token.Position{Filename: filename, Line: line, Column: col}
		return errors.NewParse(pos, "%s", err.Error())
	}
	return errors.NewParse(token.Position{Filename: filename}, "%s", err.Error())
}

// Lower converts an already-parsed Program into an InstructionList.
func Lower(p *grammar.Program) (ast.InstructionList, error) {
	list, err := lowerInstructions(p.Instructions)
	if err != nil {
		if _, ok := err.(*errors.CompilerError); !ok {
			return nil, errors.NewParse(token.Position{}, "%s", err.Error())
		}
		return nil, err
	}
	return list, nil
}

func pos(p lexer.Position) token.Position {
	return token.Position{Filename: p.Filename, Offset: p.Offset, Line: p.Line, Column: p.Column}
}

func lowerInstructions(list []*grammar.Instruction) (ast.InstructionList, error) {
	out := make(ast.InstructionList, 0, len(list))
	for _, i := range list {
		instr, err := lowerInstruction(i)
		if err != nil {
			return nil, err
		}
		out = append(out, instr)
	}
	return out, nil
}

func lowerBlock(b *grammar.Block) (ast.InstructionList, error) {
	if b == nil {
		return nil, nil
	}
	return lowerInstructions(b.Instructions)
}

func lowerInstruction(i *grammar.Instruction) (ast.Instruction, error) {
	p := pos(i.Pos)

	switch {
	case i.For != nil:
		return lowerFor(p, i.For)
	case i.If != nil:
		return lowerIf(p, i.If)
	case i.ClockedFinish != nil:
		body, err := lowerBlock(i.ClockedFinish.Body)
		if err != nil {
			return nil, err
		}
		return &ast.ClockedFinish{Position: p, Body: body}, nil
	case i.ClockedAsync != nil:
		body, err := lowerBlock(i.ClockedAsync.Body)
		if err != nil {
			return nil, err
		}
		return &ast.ClockedAsync{Position: p, Body: body}, nil
	case i.Finish != nil:
		body, err := lowerBlock(i.Finish.Body)
		if err != nil {
			return nil, err
		}
		return &ast.Finish{Position: p, Body: body}, nil
	case i.Async != nil:
		body, err := lowerBlock(i.Async.Body)
		if err != nil {
			return nil, err
		}
		return &ast.Async{Position: p, Body: body}, nil
	case i.Advance != nil:
		return &ast.Advance{Position: p}, nil
	case i.Call != nil:
		return lowerCall(p, i.Call)
	default:
		return nil, errors.NewParse(p, "empty instruction")
	}
}

func lowerFor(p token.Position, f *grammar.ForStmt) (ast.Instruction, error) {
	left, err := lowerExpr(f.Left)
	if err != nil {
		return nil, err
	}
	right, err := lowerExpr(f.Right)
	if err != nil {
		return nil, err
	}
	body, err := lowerBlock(f.Body)
	if err != nil {
		return nil, err
	}
	return &ast.For{Position: p, Iterator: f.Iterator, Left: left, Right: right, Body: body}, nil
}

func lowerIf(p token.Position, i *grammar.IfStmt) (ast.Instruction, error) {
	cond, err := lowerExpr(i.Condition)
	if err != nil {
		return nil, err
	}
	then, err := lowerBlock(i.Then)
	if err != nil {
		return nil, err
	}
	if i.Else == nil {
		return &ast.If{Position: p, Condition: cond, Then: then}, nil
	}
	els, err := lowerBlock(i.Else)
	if err != nil {
		return nil, err
	}
	return &ast.IfElse{Position: p, Condition: cond, Then: then, Else: els}, nil
}

func lowerCall(p token.Position, c *grammar.CallStmt) (ast.Instruction, error) {
	args := make([]expr.Expr, 0, len(c.Args))
	for _, a := range c.Args {
		e, err := lowerExpr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, e)
	}
	return &ast.Call{Position: p, Name: c.Name, Args: args}, nil
}

////////////////////////////////////////////////////////////////////////////
// Expression lowering, one function per precedence level, mirroring the
// grammar's own layering.
////////////////////////////////////////////////////////////////////////////

func lowerExpr(e *grammar.Expr) (expr.Expr, error) {
	if e == nil {
		return nil, nil
	}
	left, err := lowerAnd(e.Left)
	if err != nil {
		return nil, err
	}
	for _, op := range e.Ops {
		right, err := lowerAnd(op.Right)
		if err != nil {
			return nil, err
		}
		left = expr.Or(left, right)
	}
	return left, nil
}

func lowerAnd(a *grammar.AndExpr) (expr.Expr, error) {
	left, err := lowerCmp(a.Left)
	if err != nil {
		return nil, err
	}
	for _, op := range a.Ops {
		right, err := lowerCmp(op.Right)
		if err != nil {
			return nil, err
		}
		left = expr.And(left, right)
	}
	return left, nil
}

func lowerCmp(c *grammar.CmpExpr) (expr.Expr, error) {
	left, err := lowerAdd(c.Left)
	if err != nil {
		return nil, err
	}
	if c.Operator == nil {
		return left, nil
	}
	right, err := lowerAdd(c.Right)
	if err != nil {
		return nil, err
	}
	switch *c.Operator {
	case "==":
		return expr.Eq(left, right), nil
	case "!=":
		return expr.Ne(left, right), nil
	case "<=":
		return expr.Le(left, right), nil
	case ">=":
		return expr.Ge(left, right), nil
	case "<":
		return expr.Lt(left, right), nil
	case ">":
		return expr.Gt(left, right), nil
	default:
		return nil, fmt.Errorf("parser: unknown comparison operator %q", *c.Operator)
	}
}

func lowerAdd(a *grammar.AddExpr) (expr.Expr, error) {
	left, err := lowerMul(a.Left)
	if err != nil {
		return nil, err
	}
	for _, op := range a.Ops {
		right, err := lowerMul(op.Right)
		if err != nil {
			return nil, err
		}
		switch op.Operator {
		case "+":
			left = expr.Add(left, right)
		case "-":
			left = expr.Sub(left, right)
		default:
			return nil, fmt.Errorf("parser: unknown additive operator %q", op.Operator)
		}
	}
	return left, nil
}

func lowerMul(m *grammar.MulExpr) (expr.Expr, error) {
	left, err := lowerUnary(m.Left)
	if err != nil {
		return nil, err
	}
	for _, op := range m.Ops {
		right, err := lowerUnary(op.Right)
		if err != nil {
			return nil, err
		}
		switch op.Operator {
		case "*":
			left = expr.Mul(left, right)
		case "/":
			left = expr.Div(left, right)
		default:
			return nil, fmt.Errorf("parser: unknown multiplicative operator %q", op.Operator)
		}
	}
	return left, nil
}

func lowerUnary(u *grammar.UnaryExpr) (expr.Expr, error) {
	value, err := lowerPrimary(u.Value)
	if err != nil {
		return nil, err
	}
	if u.Operator == nil {
		return value, nil
	}
	switch *u.Operator {
	case "-":
		return expr.Neg(value), nil
	case "!":
		return expr.Not(value), nil
	default:
		return nil, fmt.Errorf("parser: unknown unary operator %q", *u.Operator)
	}
}

func lowerPrimary(p *grammar.PrimaryExpr) (expr.Expr, error) {
	switch {
	case p.MinMax != nil:
		left, err := lowerExpr(p.MinMax.Left)
		if err != nil {
			return nil, err
		}
		right, err := lowerExpr(p.MinMax.Right)
		if err != nil {
			return nil, err
		}
		if p.MinMax.Operator == "min" {
			return expr.Min(left, right), nil
		}
		return expr.Max(left, right), nil
	case p.Number != nil:
		n, err := strconv.ParseInt(*p.Number, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parser: invalid integer literal %q: %w", *p.Number, err)
		}
		return expr.FromNumber(n), nil
	case p.Bool != nil:
		return expr.FromBoolean(*p.Bool == "true"), nil
	case p.Ident != nil:
		return expr.FromIdentifier(*p.Ident), nil
	case p.Parens != nil:
		return lowerExpr(p.Parens)
	default:
		return nil, fmt.Errorf("parser: empty primary expression")
	}
}
