// Package optimizer rewrites payoff trees into cheaper equivalent trees.
//
// Three rewrites run in a single bottom-up pass over each statement:
// constant subtrees are folded into CONST leaves, general arithmetic with a
// literal operand becomes its *CONST specialization, and variables assigned
// exactly once by a top-level ASSIGNCONST are read as CONSTVAR leaves by the
// statements that follow. Evaluating the rewritten script yields the same
// value, payments and variables as the original.
package optimizer

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/robbyt/go-payoffscript/internal/helpers"
	"github.com/robbyt/go-payoffscript/machines/payoff/node"
	"github.com/robbyt/go-payoffscript/machines/payoff/vm"
)

// Stats counts the rewrites applied by one Optimize call.
type Stats struct {
	Folded      int
	Specialized int
	Propagated  int
}

// Optimizer holds the fail-fast machine used to fold constant subtrees.
type Optimizer struct {
	folder *vm.Machine
	logger *slog.Logger
}

func New(handler slog.Handler) (*Optimizer, error) {
	handler, logger := helpers.SetupLogger(handler, "payoff", "Optimizer")
	folder, err := vm.New(vm.DefaultSettings(), handler)
	if err != nil {
		return nil, err
	}
	return &Optimizer{folder: folder, logger: logger}, nil
}

// Optimize returns rewritten copies of stmts. The inputs are not modified.
func (o *Optimizer) Optimize(stmts []*node.Node) ([]*node.Node, Stats, error) {
	for i, stmt := range stmts {
		if err := node.Validate(stmt); err != nil {
			return nil, Stats{}, fmt.Errorf("statement %d: %w", i, err)
		}
	}

	p := &pass{
		o:       o,
		assigns: countAssignments(stmts),
		consts:  make(map[string]float64),
	}
	out := make([]*node.Node, len(stmts))
	for i, stmt := range stmts {
		rewritten, err := p.rewrite(stmt)
		if err != nil {
			return nil, Stats{}, fmt.Errorf("statement %d: %w", i, err)
		}
		out[i] = rewritten
		if rewritten.Kind() == node.KindAssignConst && p.assigns[rewritten.Ident()] == 1 {
			p.consts[rewritten.Ident()] = rewritten.Const()
		}
	}

	o.logger.Debug("optimized script",
		"statements", len(out),
		"folded", p.stats.Folded,
		"specialized", p.stats.Specialized,
		"propagated", p.stats.Propagated,
	)
	return out, p.stats, nil
}

type pass struct {
	o       *Optimizer
	assigns map[string]int
	consts  map[string]float64
	stats   Stats
}

func countAssignments(stmts []*node.Node) map[string]int {
	counts := make(map[string]int)
	for _, stmt := range stmts {
		node.Walk(stmt, func(n *node.Node) bool {
			switch n.Kind() {
			case node.KindAssign, node.KindAssignConst:
				counts[n.Ident()]++
			}
			return true
		})
	}
	return counts
}

func (p *pass) rewrite(n *node.Node) (*node.Node, error) {
	if n.Kind() == node.KindVar {
		if c, ok := p.consts[n.Ident()]; ok {
			p.stats.Propagated++
			return node.ConstVar(c), nil
		}
		return n, nil
	}
	if n.Len() == 0 {
		return n, nil
	}

	kids := make([]*node.Node, n.Len())
	changed := false
	for i := range kids {
		c, err := p.rewrite(n.Child(i))
		if err != nil {
			return nil, err
		}
		kids[i] = c
		changed = changed || c != n.Child(i)
	}
	if changed {
		var err error
		if n, err = n.WithChildren(kids...); err != nil {
			return nil, err
		}
	}

	if folded, ok := p.fold(n); ok {
		p.stats.Folded++
		return folded, nil
	}
	if special, ok := specialize(n); ok {
		p.stats.Specialized++
		return special, nil
	}
	return n, nil
}

// literal returns the value of a leaf whose value is known before any run.
func literal(n *node.Node) (float64, bool) {
	switch n.Kind() {
	case node.KindConst, node.KindConstVar, node.KindTrue, node.KindFalse:
		return n.Const(), true
	}
	return 0, false
}

func allLiteral(n *node.Node) bool {
	for i := range n.Len() {
		if _, ok := literal(n.Child(i)); !ok {
			return false
		}
	}
	return true
}

func (p *pass) fold(n *node.Node) (*node.Node, bool) {
	switch k := n.Kind(); k {
	case node.KindIf:
		cond, ok := literal(n.Child(0))
		if !ok {
			return nil, false
		}
		if cond != 0 {
			return n.Child(1), true
		}
		return node.Const(0), true

	case node.KindIfElse:
		cond, ok := literal(n.Child(0))
		if !ok {
			return nil, false
		}
		if cond != 0 {
			return n.Child(1), true
		}
		return n.Child(2), true

	case node.KindAnd, node.KindOr, node.KindNot:
		if !allLiteral(n) {
			return nil, false
		}
		v, err := p.evalPure(n)
		if err != nil {
			return nil, false
		}
		return node.Bool(v != 0), true

	case node.KindAdd, node.KindSub, node.KindMult, node.KindDiv, node.KindPow,
		node.KindMax2, node.KindMin2,
		node.KindAddConst, node.KindSubConst, node.KindConstSub,
		node.KindMultConst, node.KindDivConst, node.KindConstDiv,
		node.KindPowConst, node.KindConstPow, node.KindMax2Const, node.KindMin2Const,
		node.KindSqrt, node.KindLog, node.KindUminus:
		if !allLiteral(n) {
			return nil, false
		}
		v, err := p.evalPure(n)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, false
		}
		return node.Const(v), true
	}
	return nil, false
}

// evalPure evaluates a side-effect free subtree with the fail-fast folder,
// so a fold never hides a domain error from the runtime policy.
func (p *pass) evalPure(n *node.Node) (float64, error) {
	env, err := vm.NewEnvironment(nil)
	if err != nil {
		return 0, err
	}
	return p.o.folder.Eval(n, env, nil)
}

func specialize(n *node.Node) (*node.Node, bool) {
	switch n.Kind() {
	case node.KindAdd, node.KindMult:
		fast := node.AddConst
		if n.Kind() == node.KindMult {
			fast = node.MultConst
		}
		if c, ok := literal(n.Child(1)); ok {
			return fast(n.Child(0), c), true
		}
		// Addition and multiplication commute exactly in IEEE 754.
		if c, ok := literal(n.Child(0)); ok {
			return fast(n.Child(1), c), true
		}

	case node.KindSub, node.KindDiv, node.KindPow:
		right, left := rightLeft(n.Kind())
		if c, ok := literal(n.Child(1)); ok {
			return right(n.Child(0), c), true
		}
		if c, ok := literal(n.Child(0)); ok {
			return left(c, n.Child(1)), true
		}

	case node.KindMax2, node.KindMin2:
		// Only the right operand: ties keep the left operand, so swapping
		// sides could change the sign of a zero result.
		if c, ok := literal(n.Child(1)); ok {
			if n.Kind() == node.KindMax2 {
				return node.Max2Const(n.Child(0), c), true
			}
			return node.Min2Const(n.Child(0), c), true
		}

	case node.KindAssign:
		if c, ok := literal(n.Child(0)); ok {
			return node.AssignConst(n.Ident(), c), true
		}

	case node.KindPays:
		if c, ok := literal(n.Child(0)); ok {
			return node.PaysConst(n.Ident(), c), true
		}
	}
	return nil, false
}

func rightLeft(k node.Kind) (
	right func(*node.Node, float64) *node.Node,
	left func(float64, *node.Node) *node.Node,
) {
	switch k {
	case node.KindSub:
		return node.SubConst, node.ConstSub
	case node.KindDiv:
		return node.DivConst, node.ConstDiv
	default:
		return node.PowConst, node.ConstPow
	}
}
