package vm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robbyt/go-payoffscript/internal/helpers"
	"github.com/robbyt/go-payoffscript/machines/payoff/node"
)

// Machine evaluates payoff trees under a fixed numeric policy. It holds no
// per-run state and is safe for concurrent use.
type Machine struct {
	settings Settings
	kernel   kernelFunc
	logger   *slog.Logger
}

// New builds a Machine. Unset enum fields and the depth bound take their
// defaults, but a zero Tolerance or Bandwidth is kept as given and means
// exact comparisons and exact steps. Start from DefaultSettings to get the
// default tolerance and bandwidth.
func New(settings Settings, handler slog.Handler) (*Machine, error) {
	settings = settings.WithDefaults()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	_, logger := helpers.SetupLogger(handler, "payoff", "Machine")
	return &Machine{
		settings: settings,
		kernel:   kernelFor(settings.Kernel),
		logger:   logger,
	}, nil
}

// Settings returns the policy the Machine was built with.
func (m *Machine) Settings() Settings {
	return m.settings
}

// run is the state of a single evaluation.
type run struct {
	m             *Machine
	env           *Environment
	payments      *PaymentLog
	depth         int
	substitutions int
}

// Eval evaluates the tree rooted at n. Assignments mutate env. Payments are
// appended to log only when the evaluation succeeds, so a failed Eval leaves
// log as it was. A nil log discards payments.
func (m *Machine) Eval(n *node.Node, env *Environment, log *PaymentLog) (float64, error) {
	if env == nil {
		return 0, ErrNilEnvironment
	}
	r := &run{m: m, env: env, payments: NewPaymentLog()}
	v, err := r.eval(n)
	if err != nil {
		return 0, err
	}
	if log != nil {
		log.entries = append(log.entries, r.payments.entries...)
	}
	return v, nil
}

func (r *run) eval(n *node.Node) (float64, error) {
	if err := n.Check(); err != nil {
		return 0, err
	}
	r.depth++
	if r.depth > r.m.settings.MaxDepth {
		r.depth--
		return 0, &MalformedNodeError{
			Node:   n,
			Kind:   n.Kind(),
			Reason: fmt.Sprintf("tree is deeper than %d", r.m.settings.MaxDepth),
		}
	}
	v, err := r.dispatch(n)
	r.depth--
	if err != nil {
		return 0, err
	}
	return v, nil
}

func (r *run) dispatch(n *node.Node) (float64, error) {
	switch k := n.Kind(); k {
	case node.KindAdd, node.KindSub, node.KindMult, node.KindDiv,
		node.KindPow, node.KindMax2, node.KindMin2:
		a, b, err := r.pair(n)
		if err != nil {
			return 0, err
		}
		return r.arith(n, k, a, b)

	case node.KindAddConst, node.KindSubConst, node.KindMultConst, node.KindDivConst,
		node.KindPowConst, node.KindMax2Const, node.KindMin2Const:
		x, err := r.eval(n.Child(0))
		if err != nil {
			return 0, err
		}
		return r.arith(n, baseKind(k), x, n.Const())

	case node.KindConstSub, node.KindConstDiv, node.KindConstPow:
		x, err := r.eval(n.Child(0))
		if err != nil {
			return 0, err
		}
		return r.arith(n, baseKind(k), n.Const(), x)

	case node.KindConst, node.KindConstVar, node.KindTrue, node.KindFalse:
		return n.Const(), nil

	case node.KindSpot:
		v, ok := r.env.Spot(n.Ident())
		if !ok {
			return 0, &UnboundIdentifierError{Node: n, Name: n.Ident(), Market: true}
		}
		return v, nil

	case node.KindVar:
		v, ok := r.env.Lookup(n.Ident())
		if !ok {
			return 0, &UnboundIdentifierError{Node: n, Name: n.Ident()}
		}
		return v, nil

	case node.KindAssign:
		v, err := r.eval(n.Child(0))
		if err != nil {
			return 0, err
		}
		r.env.Bind(n.Ident(), v)
		return v, nil

	case node.KindAssignConst:
		r.env.Bind(n.Ident(), n.Const())
		return n.Const(), nil

	case node.KindPays:
		v, err := r.eval(n.Child(0))
		if err != nil {
			return 0, err
		}
		r.payments.Record(n.Ident(), v)
		return v, nil

	case node.KindPaysConst:
		r.payments.Record(n.Ident(), n.Const())
		return n.Const(), nil

	case node.KindIf:
		cond, err := r.eval(n.Child(0))
		if err != nil {
			return 0, err
		}
		if !truthy(cond) {
			return 0, nil
		}
		return r.eval(n.Child(1))

	case node.KindIfElse:
		cond, err := r.eval(n.Child(0))
		if err != nil {
			return 0, err
		}
		if truthy(cond) {
			return r.eval(n.Child(1))
		}
		return r.eval(n.Child(2))

	case node.KindEqual, node.KindSup, node.KindSupEqual:
		a, b, err := r.pair(n)
		if err != nil {
			return 0, err
		}
		return r.compare(k, a, b), nil

	case node.KindAnd, node.KindOr:
		// Both sides always run so their assignments and payments fire.
		a, b, err := r.pair(n)
		if err != nil {
			return 0, err
		}
		if k == node.KindAnd {
			return boolf(truthy(a) && truthy(b)), nil
		}
		return boolf(truthy(a) || truthy(b)), nil

	case node.KindNot:
		x, err := r.eval(n.Child(0))
		if err != nil {
			return 0, err
		}
		return boolf(!truthy(x)), nil

	case node.KindSmooth:
		return r.smooth(n)

	case node.KindSqrt, node.KindLog, node.KindUminus:
		x, err := r.eval(n.Child(0))
		if err != nil {
			return 0, err
		}
		switch k {
		case node.KindSqrt:
			return r.sqrt(n, x)
		case node.KindLog:
			return r.log(n, x)
		}
		return -x, nil
	}
	return 0, &MalformedNodeError{Node: n, Kind: n.Kind(), Reason: "kind has no evaluation rule"}
}

// pair evaluates the two children of a binary node, left first.
func (r *run) pair(n *node.Node) (float64, float64, error) {
	a, err := r.eval(n.Child(0))
	if err != nil {
		return 0, 0, err
	}
	b, err := r.eval(n.Child(1))
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func (r *run) compare(k node.Kind, a, b float64) float64 {
	tol := r.m.settings.Tolerance
	d := a - b
	switch k {
	case node.KindEqual:
		return boolf(d <= tol && -d <= tol)
	case node.KindSup:
		return boolf(d > tol)
	default:
		return boolf(d >= -tol)
	}
}

func (r *run) smooth(n *node.Node) (float64, error) {
	var args [4]float64
	for i := range n.Len() {
		v, err := r.eval(n.Child(i))
		if err != nil {
			return 0, err
		}
		args[i] = v
	}
	switch n.Len() {
	case 2:
		return r.m.indicator(args[0], args[1], r.m.settings.Bandwidth), nil
	case 3:
		return r.m.indicator(args[0], args[1], args[2]), nil
	default:
		above, below := args[1], args[2]
		return r.finiteResult(n, below+(above-below)*r.m.indicator(args[0], 0, args[3]), args[:]...)
	}
}

// domain applies the domain policy to an out-of-domain operation.
func (r *run) domain(n *node.Node, reason string, operands ...float64) (float64, error) {
	if r.m.settings.DomainPolicy == PolicySentinel {
		r.substitutions++
		if r.m.logger.Enabled(context.Background(), slog.LevelDebug) {
			r.m.logger.Debug("domain substitution",
				"kind", n.Kind().String(),
				"reason", reason,
				"operands", operands,
				"sentinel", r.m.settings.Sentinel,
			)
		}
		return r.m.settings.Sentinel, nil
	}
	return 0, &DomainError{Node: n, Kind: n.Kind(), Operands: operands, Reason: reason}
}
