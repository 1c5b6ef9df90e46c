// Package scheduler defines the bridge to the external polyhedral scheduler
// (component F): the wire types it exchanges, and two implementations of the
// Scheduler interface — one that shells out to a real scheduler binary, one
// in-process stub that orders instances by date for tests and for running
// the pipeline with no scheduler installed.
//
// Node/Expr mirror the discriminated unions isl_to_noclock.c consumes
// (isl_ast_node_type: for/if/block/user; isl_ast_expr_type/isl_ast_op_type
// for expressions), flattened into JSON-friendly Go structs since this
// module has no ISL binding to marshal natively.
package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"sort"
)

// ExprKind tags a scheduled expression node.
type ExprKind string

const (
	ExprID  ExprKind = "id"
	ExprInt ExprKind = "int"

	ExprNeg ExprKind = "neg"
	ExprAdd ExprKind = "add"
	ExprSub ExprKind = "sub"
	ExprMul ExprKind = "mul"
	ExprDiv ExprKind = "div"
	ExprMin ExprKind = "min"
	ExprMax ExprKind = "max"
	ExprEq  ExprKind = "eq"
	ExprLe  ExprKind = "le"
	ExprLt  ExprKind = "lt"
	ExprGe  ExprKind = "ge"
	ExprGt  ExprKind = "gt"
	ExprAnd ExprKind = "and"
	ExprOr  ExprKind = "or"

	// Rejected kinds: a conforming scheduler never emits these, but the
	// reverse translator must recognize and reject them explicitly rather
	// than panic on an unknown tag (isl_ast_op_member/cond/select/call/
	// access/address_of in isl_expr_to_noclock_expr all fall through to
	// "return null").
	ExprMember    ExprKind = "member"
	ExprCond      ExprKind = "cond"
	ExprSelect    ExprKind = "select"
	ExprCall      ExprKind = "call"
	ExprAccess    ExprKind = "access"
	ExprAddressOf ExprKind = "address_of"
)

// Expr is one node of the scheduler's expression sub-language.
type Expr struct {
	Kind  ExprKind `json:"kind"`
	Name  string   `json:"name,omitempty"`
	Value int64    `json:"value,omitempty"`
	Left  *Expr    `json:"left,omitempty"`
	Right *Expr    `json:"right,omitempty"`
}

// NodeKind tags a scheduled AST node.
type NodeKind string

const (
	NodeFor   NodeKind = "for"
	NodeIf    NodeKind = "if"
	NodeBlock NodeKind = "block"
	NodeUser  NodeKind = "user"
)

// Node is one node of the scheduler's output AST. Only the fields relevant
// to its Kind are populated.
type Node struct {
	Kind NodeKind `json:"kind"`

	// NodeFor
	Iterator string `json:"iterator,omitempty"`
	Init     *Expr  `json:"init,omitempty"`
	Cond     *Expr  `json:"cond,omitempty"`
	Body     *Node  `json:"body,omitempty"`

	// NodeIf
	HasElse bool  `json:"has_else,omitempty"`
	Then    *Node `json:"then,omitempty"`
	Else    *Node `json:"else,omitempty"`

	// NodeBlock
	Children []*Node `json:"children,omitempty"`

	// NodeUser: a statement instance, named by its synthetic tuple name
	// (always "S" in the original; kept generic here) with the full
	// shifted coordinate vector as its argument list.
	Name string  `json:"name,omitempty"`
	Args []*Expr `json:"args,omitempty"`
}

// Request is what the core hands the scheduler: the textual union of
// per-call instance sets (internal/setbuilder's output) and the program's
// free parameters.
type Request struct {
	SetText string   `json:"set_text"`
	Params  []string `json:"params"`
}

// Scheduler runs one request/response round trip against the external
// polyhedral scheduler.
type Scheduler interface {
	Schedule(ctx context.Context, req Request) (*Node, error)
}

// SubprocessScheduler shells out to an external scheduler binary, writing
// Request as JSON on stdin and reading a Node as JSON from stdout. Modeled
// on "spawn one process, do one request, read one response" rather than a
// long-lived server: there is exactly one round trip per compilation.
type SubprocessScheduler struct {
	Path string
	Args []string
}

// Schedule runs the configured binary once.
func (s *SubprocessScheduler) Schedule(ctx context.Context, req Request) (*Node, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("scheduler: encoding request: %w", err)
	}

	cmd := exec.CommandContext(ctx, s.Path, s.Args...)
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("scheduler: %w: %s", err, stderr.String())
	}

	var node Node
	if err := json.Unmarshal(stdout.Bytes(), &node); err != nil {
		return nil, fmt.Errorf("scheduler: decoding response: %w", err)
	}
	return &node, nil
}

// StubScheduler is an in-process fallback: no real polyhedral scheduling,
// just enough structure to drive the rest of the pipeline when no external
// scheduler is installed, or under test. It parses nothing: callers that
// need it to actually run the pipeline fill in its Instances directly
// (internal/driver does so) instead of going through the textual set union, since the
// stub has no Presburger-set parser (nor does this module have one at all —
// that parsing genuinely belongs to the external scheduler).
type StubScheduler struct {
	Instances []Instance
}

// Instance is one call, pre-digested into exactly the fields the stub
// scheduler needs to place it: no set-text parsing required. The
// pipeline's driver constructs these from the same annotated calls that
// feed internal/setbuilder, bypassing the textual round trip.
type Instance struct {
	Date   int64
	Coords []Expr
	Tag    int64
}

// Schedule ignores req.SetText (see StubScheduler's doc comment) and
// produces a single flat block: one user statement per instance, sorted by
// Date ascending — a naive linearization. Instances with no advance between
// them can carry equal dates; the stable sort keeps those in input order.
func (s *StubScheduler) Schedule(ctx context.Context, req Request) (*Node, error) {
	sorted := append([]Instance(nil), s.Instances...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	children := make([]*Node, 0, len(sorted))
	for _, inst := range sorted {
		args := make([]*Expr, 0, len(inst.Coords)+2)
		args = append(args, &Expr{Kind: ExprInt, Value: inst.Date})
		for _, c := range inst.Coords {
			cc := c
			args = append(args, &cc)
		}
		args = append(args, &Expr{Kind: ExprInt, Value: inst.Tag})
		children = append(children, &Node{Kind: NodeUser, Name: "S", Args: args})
	}

	return &Node{Kind: NodeBlock, Children: children}, nil
}
