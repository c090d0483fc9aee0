package node

// The helpers below build nodes without checking them, so that trees can be
// written as nested calls. A nil child or an empty required identifier yields
// a node that fails Validate, and the evaluator reports it as malformed.

func binary(k Kind, l, r *Node) *Node { return build(k, "", 0, []*Node{l, r}) }
func withConst(k Kind, x *Node, c float64) *Node { return build(k, "", c, []*Node{x}) }
func unary(k Kind, x *Node) *Node { return build(k, "", 0, []*Node{x}) }

func Add(l, r *Node) *Node { return binary(KindAdd, l, r) }
func Sub(l, r *Node) *Node { return binary(KindSub, l, r) }
func Mult(l, r *Node) *Node { return binary(KindMult, l, r) }
func Div(l, r *Node) *Node { return binary(KindDiv, l, r) }
func Pow(l, r *Node) *Node { return binary(KindPow, l, r) }
func Max2(l, r *Node) *Node { return binary(KindMax2, l, r) }
func Min2(l, r *Node) *Node { return binary(KindMin2, l, r) }

// AddConst is x + c.
func AddConst(x *Node, c float64) *Node { return withConst(KindAddConst, x, c) }

// SubConst is x - c.
func SubConst(x *Node, c float64) *Node { return withConst(KindSubConst, x, c) }

// ConstSub is c - x.
func ConstSub(c float64, x *Node) *Node { return withConst(KindConstSub, x, c) }

// MultConst is x * c.
func MultConst(x *Node, c float64) *Node { return withConst(KindMultConst, x, c) }

// DivConst is x / c.
func DivConst(x *Node, c float64) *Node { return withConst(KindDivConst, x, c) }

// ConstDiv is c / x.
func ConstDiv(c float64, x *Node) *Node { return withConst(KindConstDiv, x, c) }

// PowConst is x ^ c.
func PowConst(x *Node, c float64) *Node { return withConst(KindPowConst, x, c) }

// ConstPow is c ^ x.
func ConstPow(c float64, x *Node) *Node { return withConst(KindConstPow, x, c) }

func Max2Const(x *Node, c float64) *Node { return withConst(KindMax2Const, x, c) }
func Min2Const(x *Node, c float64) *Node { return withConst(KindMin2Const, x, c) }

func Spot(name string) *Node { return build(KindSpot, name, 0, nil) }
func Var(name string) *Node { return build(KindVar, name, 0, nil) }
func Const(c float64) *Node { return build(KindConst, "", c, nil) }
func ConstVar(c float64) *Node { return build(KindConstVar, "", c, nil) }
func True() *Node { return build(KindTrue, "", 1, nil) }
func False() *Node { return build(KindFalse, "", 0, nil) }
func Bool(b bool) *Node {
	if b {
		return True()
	}
	return False()
}

func Assign(name string, x *Node) *Node { return build(KindAssign, name, 0, []*Node{x}) }
func AssignConst(name string, c float64) *Node { return build(KindAssignConst, name, c, nil) }

// Pays records x under name. An empty name records an anonymous payment.
func Pays(name string, x *Node) *Node { return build(KindPays, name, 0, []*Node{x}) }
func PaysConst(name string, c float64) *Node { return build(KindPaysConst, name, c, nil) }

func If(cond, then *Node) *Node { return binary(KindIf, cond, then) }
func IfElse(cond, then, otherwise *Node) *Node { return build(KindIfElse, "", 0, []*Node{cond, then, otherwise}) }

func Equal(l, r *Node) *Node { return binary(KindEqual, l, r) }
func Sup(l, r *Node) *Node { return binary(KindSup, l, r) }
func SupEqual(l, r *Node) *Node { return binary(KindSupEqual, l, r) }
func And(l, r *Node) *Node { return binary(KindAnd, l, r) }
func Or(l, r *Node) *Node { return binary(KindOr, l, r) }
func Not(x *Node) *Node { return unary(KindNot, x) }

// Smooth builds a SMOOTH node from 2 to 4 arguments.
func Smooth(args ...*Node) *Node { return build(KindSmooth, "", 0, args) }

func Sqrt(x *Node) *Node { return unary(KindSqrt, x) }
func Log(x *Node) *Node { return unary(KindLog, x) }
func Uminus(x *Node) *Node { return unary(KindUminus, x) }
