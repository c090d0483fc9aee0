package compiler

import (
	"fmt"
	"math/big"

	"go.starlark.net/syntax"

	"github.com/robbyt/go-payoffscript/machines/payoff/node"
	"github.com/robbyt/go-payoffscript/machines/payoff/vm"
)

// parse reads Starlark source and lowers it to payoff statements.
func parse(src []byte) ([]*node.Node, error) {
	opts := &syntax.FileOptions{
		TopLevelControl: true, // payoff scripts branch at top level
		GlobalReassign:  true,
	}
	f, err := opts.Parse("", src, 0)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	l := &lowerer{assigned: make(map[string]bool)}
	return l.block(f.Stmts)
}

// lowerer tracks which names have been assigned so far, in statement order.
// A bare name that was assigned earlier reads a variable; any other bare
// name reads the market.
type lowerer struct {
	assigned map[string]bool
	temps    int
}

func unsupported(n syntax.Node, format string, args ...any) error {
	start, _ := n.Span()
	return fmt.Errorf("%w at %d:%d: %s", ErrUnsupported, start.Line, start.Col, fmt.Sprintf(format, args...))
}

func (l *lowerer) block(stmts []syntax.Stmt) ([]*node.Node, error) {
	var out []*node.Node
	for _, stmt := range stmts {
		nodes, err := l.stmt(stmt)
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}
	return out, nil
}

func (l *lowerer) stmt(s syntax.Stmt) ([]*node.Node, error) {
	switch s := s.(type) {
	case *syntax.ExprStmt:
		n, err := l.expr(s.X)
		if err != nil {
			return nil, err
		}
		return []*node.Node{n}, nil

	case *syntax.AssignStmt:
		n, err := l.assign(s)
		if err != nil {
			return nil, err
		}
		return []*node.Node{n}, nil

	case *syntax.IfStmt:
		return l.ifStmt(s)

	case *syntax.BranchStmt:
		if s.Token == syntax.PASS {
			return nil, nil
		}
		return nil, unsupported(s, "%s statement", s.Token)
	}
	return nil, unsupported(s, "statement type %T", s)
}

var compoundOps = map[syntax.Token]func(l, r *node.Node) *node.Node{
	syntax.PLUS_EQ:  node.Add,
	syntax.MINUS_EQ: node.Sub,
	syntax.STAR_EQ:  node.Mult,
	syntax.SLASH_EQ: node.Div,
}

func (l *lowerer) assign(s *syntax.AssignStmt) (*node.Node, error) {
	id, ok := s.LHS.(*syntax.Ident)
	if !ok {
		return nil, unsupported(s.LHS, "assignment target must be a name")
	}
	rhs, err := l.expr(s.RHS)
	if err != nil {
		return nil, err
	}

	if s.Op == syntax.EQ {
		l.assigned[id.Name] = true
		return node.Assign(id.Name, rhs), nil
	}

	op, ok := compoundOps[s.Op]
	if !ok {
		return nil, unsupported(s, "assignment operator %s", s.Op)
	}
	if !l.assigned[id.Name] {
		return nil, unsupported(s, "%s %s before %s is assigned", id.Name, s.Op, id.Name)
	}
	return node.Assign(id.Name, op(node.Var(id.Name), rhs)), nil
}

// ifStmt lowers to IF or IFELSE when each branch is a single statement.
// Longer branches store the condition in a temporary and guard every
// statement with it, so assignments in the branch cannot change which
// statements run.
func (l *lowerer) ifStmt(s *syntax.IfStmt) ([]*node.Node, error) {
	cond, err := l.expr(s.Cond)
	if err != nil {
		return nil, err
	}
	then, err := l.block(s.True)
	if err != nil {
		return nil, err
	}
	otherwise, err := l.block(s.False)
	if err != nil {
		return nil, err
	}

	switch {
	case len(then) == 0 && len(otherwise) == 0:
		return []*node.Node{cond}, nil
	case len(then) == 1 && len(otherwise) == 0:
		return []*node.Node{node.If(cond, then[0])}, nil
	case len(then) == 0 && len(otherwise) == 1:
		return []*node.Node{node.If(node.Not(cond), otherwise[0])}, nil
	case len(then) == 1 && len(otherwise) == 1:
		return []*node.Node{node.IfElse(cond, then[0], otherwise[0])}, nil
	}

	tmp := fmt.Sprintf("%sif%d", vm.InternalPrefix, l.temps)
	l.temps++
	out := make([]*node.Node, 0, 1+len(then)+len(otherwise))
	out = append(out, node.Assign(tmp, cond))
	for _, n := range then {
		out = append(out, node.If(node.Var(tmp), n))
	}
	for _, n := range otherwise {
		out = append(out, node.If(node.Not(node.Var(tmp)), n))
	}
	return out, nil
}

func (l *lowerer) expr(e syntax.Expr) (*node.Node, error) {
	switch e := e.(type) {
	case *syntax.Literal:
		v, err := number(e)
		if err != nil {
			return nil, err
		}
		return node.Const(v), nil

	case *syntax.Ident:
		switch e.Name {
		case "True":
			return node.True(), nil
		case "False":
			return node.False(), nil
		case "None":
			return nil, unsupported(e, "None has no numeric value")
		}
		if l.assigned[e.Name] {
			return node.Var(e.Name), nil
		}
		return node.Spot(e.Name), nil

	case *syntax.ParenExpr:
		return l.expr(e.X)

	case *syntax.UnaryExpr:
		return l.unary(e)

	case *syntax.BinaryExpr:
		return l.binary(e)

	case *syntax.CondExpr:
		cond, err := l.expr(e.Cond)
		if err != nil {
			return nil, err
		}
		then, err := l.expr(e.True)
		if err != nil {
			return nil, err
		}
		otherwise, err := l.expr(e.False)
		if err != nil {
			return nil, err
		}
		return node.IfElse(cond, then, otherwise), nil

	case *syntax.CallExpr:
		return l.call(e)
	}
	return nil, unsupported(e, "expression type %T", e)
}

func number(lit *syntax.Literal) (float64, error) {
	switch v := lit.Value.(type) {
	case int64:
		return float64(v), nil
	case *big.Int:
		f, _ := new(big.Float).SetInt(v).Float64()
		return f, nil
	case float64:
		return v, nil
	}
	return 0, unsupported(lit, "%s literal %s", lit.Token, lit.Raw)
}

func (l *lowerer) unary(e *syntax.UnaryExpr) (*node.Node, error) {
	if e.X == nil {
		return nil, unsupported(e, "operator %s", e.Op)
	}
	x, err := l.expr(e.X)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case syntax.MINUS:
		if x.Kind() == node.KindConst {
			return node.Const(-x.Const()), nil
		}
		return node.Uminus(x), nil
	case syntax.PLUS:
		return x, nil
	case syntax.NOT:
		return node.Not(x), nil
	}
	return nil, unsupported(e, "operator %s", e.Op)
}

func (l *lowerer) binary(e *syntax.BinaryExpr) (*node.Node, error) {
	x, err := l.expr(e.X)
	if err != nil {
		return nil, err
	}
	y, err := l.expr(e.Y)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case syntax.PLUS:
		return node.Add(x, y), nil
	case syntax.MINUS:
		return node.Sub(x, y), nil
	case syntax.STAR:
		return node.Mult(x, y), nil
	case syntax.SLASH:
		return node.Div(x, y), nil
	case syntax.EQL:
		return node.Equal(x, y), nil
	case syntax.NEQ:
		return node.Not(node.Equal(x, y)), nil
	case syntax.GT:
		return node.Sup(x, y), nil
	case syntax.GE:
		return node.SupEqual(x, y), nil
	// x < y is -x > -y, which keeps x evaluated before y.
	case syntax.LT:
		return node.Sup(node.Uminus(x), node.Uminus(y)), nil
	case syntax.LE:
		return node.SupEqual(node.Uminus(x), node.Uminus(y)), nil
	case syntax.AND:
		return node.And(x, y), nil
	case syntax.OR:
		return node.Or(x, y), nil
	}
	return nil, unsupported(e, "operator %s", e.Op)
}

func (l *lowerer) call(e *syntax.CallExpr) (*node.Node, error) {
	fn, ok := e.Fn.(*syntax.Ident)
	if !ok {
		return nil, unsupported(e.Fn, "callee must be a builtin name")
	}
	for _, arg := range e.Args {
		if b, ok := arg.(*syntax.BinaryExpr); ok && b.Op == syntax.EQ {
			return nil, unsupported(arg, "keyword argument in call to %s", fn.Name)
		}
	}

	arity := func(lo, hi int) error {
		if n := len(e.Args); n < lo || n > hi {
			if lo == hi {
				return unsupported(e, "%s takes %d arguments, got %d", fn.Name, lo, n)
			}
			return unsupported(e, "%s takes %d to %d arguments, got %d", fn.Name, lo, hi, n)
		}
		return nil
	}

	switch fn.Name {
	case "spot":
		if err := arity(1, 1); err != nil {
			return nil, err
		}
		name, err := stringArg(e.Args[0])
		if err != nil {
			return nil, err
		}
		return node.Spot(name), nil

	case "pays":
		if err := arity(1, 2); err != nil {
			return nil, err
		}
		name := ""
		if len(e.Args) == 2 {
			var err error
			if name, err = stringArg(e.Args[1]); err != nil {
				return nil, err
			}
		}
		x, err := l.expr(e.Args[0])
		if err != nil {
			return nil, err
		}
		return node.Pays(name, x), nil
	}

	args, err := l.args(e.Args)
	if err != nil {
		return nil, err
	}

	switch fn.Name {
	case "max", "min":
		if len(args) < 2 {
			return nil, unsupported(e, "%s takes at least 2 arguments, got %d", fn.Name, len(args))
		}
		fold := node.Max2
		if fn.Name == "min" {
			fold = node.Min2
		}
		acc := args[0]
		for _, a := range args[1:] {
			acc = fold(acc, a)
		}
		return acc, nil
	case "pow":
		if err := arity(2, 2); err != nil {
			return nil, err
		}
		return node.Pow(args[0], args[1]), nil
	case "sqrt":
		if err := arity(1, 1); err != nil {
			return nil, err
		}
		return node.Sqrt(args[0]), nil
	case "log":
		if err := arity(1, 1); err != nil {
			return nil, err
		}
		return node.Log(args[0]), nil
	case "smooth":
		if err := arity(2, 4); err != nil {
			return nil, err
		}
		return node.Smooth(args...), nil
	}
	return nil, unsupported(e, "unknown builtin %s", fn.Name)
}

func (l *lowerer) args(exprs []syntax.Expr) ([]*node.Node, error) {
	out := make([]*node.Node, len(exprs))
	for i, a := range exprs {
		n, err := l.expr(a)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func stringArg(e syntax.Expr) (string, error) {
	lit, ok := e.(*syntax.Literal)
	if !ok || lit.Token != syntax.STRING {
		return "", unsupported(e, "expected a string literal")
	}
	s, _ := lit.Value.(string)
	if s == "" {
		return "", unsupported(e, "name must not be empty")
	}
	return s, nil
}
