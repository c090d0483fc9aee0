package vm

import (
	"math"

	"github.com/robbyt/go-payoffscript/machines/payoff/node"
)

// kernelFunc returns the smoothed indicator of x > t for bandwidth h > 0.
type kernelFunc func(x, t, h float64) float64

func linearKernel(x, t, h float64) float64 {
	lo := t - 0.5*h
	switch {
	case x <= lo:
		return 0
	case x >= t+0.5*h:
		return 1
	default:
		return (x - lo) / h
	}
}

func logisticKernel(x, t, h float64) float64 {
	return 1 / (1 + math.Exp(-4*(x-t)/h))
}

func kernelFor(k Kernel) kernelFunc {
	if k == KernelLogistic {
		return logisticKernel
	}
	return linearKernel
}

// indicator applies the kernel, falling back to an exact step for h <= 0.
func (m *Machine) indicator(x, t, h float64) float64 {
	if h <= 0 || math.IsNaN(h) {
		return boolf(x > t)
	}
	return m.kernel(x, t, h)
}

func boolf(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func truthy(v float64) bool {
	return v != 0
}

// baseKind maps a constant fast-path kind to the general kind it shares its
// arithmetic with.
func baseKind(k node.Kind) node.Kind {
	switch k {
	case node.KindAddConst:
		return node.KindAdd
	case node.KindSubConst, node.KindConstSub:
		return node.KindSub
	case node.KindMultConst:
		return node.KindMult
	case node.KindDivConst, node.KindConstDiv:
		return node.KindDiv
	case node.KindPowConst, node.KindConstPow:
		return node.KindPow
	case node.KindMax2Const:
		return node.KindMax2
	case node.KindMin2Const:
		return node.KindMin2
	}
	return k
}

// arith computes a op b for the general binary kinds. Every constant
// specialization routes through here so both forms share one float path.
// A non-finite result from finite operands is a domain error for every
// arithmetic kind.
func (r *run) arith(n *node.Node, op node.Kind, a, b float64) (float64, error) {
	switch op {
	case node.KindAdd:
		return r.finiteResult(n, a+b, a, b)
	case node.KindSub:
		return r.finiteResult(n, a-b, a, b)
	case node.KindMult:
		return r.finiteResult(n, a*b, a, b)
	case node.KindDiv:
		if b == 0 {
			return r.domain(n, "division by zero", a, b)
		}
		return r.finiteResult(n, a/b, a, b)
	case node.KindPow:
		return r.pow(n, a, b)
	case node.KindMax2:
		if b > a {
			return b, nil
		}
		return a, nil
	case node.KindMin2:
		if b < a {
			return b, nil
		}
		return a, nil
	}
	return 0, &MalformedNodeError{Node: n, Kind: n.Kind(), Reason: "not an arithmetic kind"}
}

func (r *run) pow(n *node.Node, base, exp float64) (float64, error) {
	switch {
	case base < 0 && exp != math.Trunc(exp):
		return r.domain(n, "negative base with non-integer exponent", base, exp)
	case base == 0 && exp < 0:
		return r.domain(n, "zero base with negative exponent", base, exp)
	}
	return r.finiteResult(n, math.Pow(base, exp), base, exp)
}

// finiteResult passes v through unless it overflowed from finite operands.
func (r *run) finiteResult(n *node.Node, v float64, operands ...float64) (float64, error) {
	if finite(v) {
		return v, nil
	}
	for _, o := range operands {
		if !finite(o) {
			return v, nil
		}
	}
	return r.domain(n, "result overflows", operands...)
}

// sqrt and log reject NaN along with out-of-range arguments.
func (r *run) sqrt(n *node.Node, x float64) (float64, error) {
	if !(x >= 0) {
		return r.domain(n, "square root of a negative number", x)
	}
	return math.Sqrt(x), nil
}

func (r *run) log(n *node.Node, x float64) (float64, error) {
	if !(x > 0) {
		return r.domain(n, "logarithm of a non-positive number", x)
	}
	return math.Log(x), nil
}
