package node

import (
	"math"
)

// Node is one operation or leaf of a payoff tree. Nodes are immutable once
// built, so a tree may be shared by any number of concurrent evaluations.
type Node struct {
	kind     Kind
	children []*Node
	constant float64
	ident    string
}

// New builds a node of the given kind and checks it against the kind's arity
// table. The constant is ignored for TRUE and FALSE, which always carry 1 and 0.
func New(kind Kind, ident string, constant float64, children ...*Node) (*Node, error) {
	switch kind {
	case KindTrue:
		constant = 1
	case KindFalse:
		constant = 0
	}
	n := build(kind, ident, constant, children)
	if err := n.check(); err != nil {
		return nil, err
	}
	return n, nil
}

// Must is like New but panics when the node is malformed. It is intended for
// trees written out in Go source, such as tests and fixtures.
func Must(kind Kind, ident string, constant float64, children ...*Node) *Node {
	n, err := New(kind, ident, constant, children...)
	if err != nil {
		panic(err)
	}
	return n
}

func build(kind Kind, ident string, constant float64, children []*Node) *Node {
	var kids []*Node
	if len(children) > 0 {
		kids = make([]*Node, len(children))
		copy(kids, children)
	}
	return &Node{kind: kind, ident: ident, constant: constant, children: kids}
}

// Kind returns the node's kind.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindInvalid
	}
	return n.kind
}

// Len returns the number of children.
func (n *Node) Len() int {
	return len(n.children)
}

// Child returns the i-th child. It panics when i is out of range.
func (n *Node) Child(i int) *Node {
	return n.children[i]
}

// Children returns a copy of the child slice.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Const returns the embedded constant. It is zero for kinds without one.
func (n *Node) Const() float64 {
	return n.constant
}

// Ident returns the identifier, or "" for kinds without one and for PAYS
// nodes that carry no name.
func (n *Node) Ident() string {
	return n.ident
}

// IsConst reports whether the node is a literal leaf (CONST or CONSTVAR).
func (n *Node) IsConst() bool {
	k := n.Kind()
	return k == KindConst || k == KindConstVar
}

// check validates this node only, assuming its children were validated when
// they were built.
func (n *Node) check() error {
	if n == nil {
		return malformed(nil, KindInvalid, "nil node")
	}
	k := n.kind
	if !k.Valid() {
		return malformed(n, k, "kind is not constructible")
	}
	s := shapes[k]
	if c := len(n.children); c < s.minChildren || c > s.maxChildren {
		if s.minChildren == s.maxChildren {
			return malformed(n, k, "expected %d children, got %d", s.minChildren, c)
		}
		return malformed(n, k, "expected %d to %d children, got %d", s.minChildren, s.maxChildren, c)
	}
	for i, c := range n.children {
		if c == nil {
			return malformed(n, k, "child %d is nil", i)
		}
	}
	switch s.ident {
	case identNone:
		if n.ident != "" {
			return malformed(n, k, "unexpected identifier %q", n.ident)
		}
	case identRequired:
		if n.ident == "" {
			return malformed(n, k, "identifier is required")
		}
	}
	if s.constant {
		if math.IsNaN(n.constant) || math.IsInf(n.constant, 0) {
			return malformed(n, k, "constant %v is not finite", n.constant)
		}
		if (k == KindTrue && n.constant != 1) || (k == KindFalse && n.constant != 0) {
			return malformed(n, k, "boolean literal carries %v", n.constant)
		}
	} else if n.constant != 0 {
		return malformed(n, k, "unexpected constant %v", n.constant)
	}
	return nil
}

// Check validates this node's own shape without descending into children.
func (n *Node) Check() error {
	return n.check()
}

// Validate checks every node of the tree rooted at n.
func Validate(n *Node) error {
	if n == nil {
		return malformed(nil, KindInvalid, "nil node")
	}
	var err error
	Walk(n, func(c *Node) bool {
		if e := c.check(); e != nil {
			err = e
			return false
		}
		return true
	})
	return err
}

// Walk visits the tree rooted at n in pre-order. Returning false from fn
// stops the walk.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	stack := []*Node{n}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(top) {
			return
		}
		if top == nil {
			continue
		}
		for i := len(top.children) - 1; i >= 0; i-- {
			stack = append(stack, top.children[i])
		}
	}
}

// Depth returns the number of nodes on the longest root-to-leaf path.
func Depth(n *Node) int {
	if n == nil {
		return 0
	}
	type frame struct {
		n     *Node
		depth int
	}
	deepest := 0
	stack := []frame{{n, 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.depth > deepest {
			deepest = f.depth
		}
		for _, c := range f.n.children {
			if c != nil {
				stack = append(stack, frame{c, f.depth + 1})
			}
		}
	}
	return deepest
}

// Count returns the number of nodes in the tree.
func Count(n *Node) int {
	total := 0
	Walk(n, func(c *Node) bool {
		if c != nil {
			total++
		}
		return true
	})
	return total
}

// DeepEqual reports whether two trees have the same shape, kinds, identifiers
// and constants.
func DeepEqual(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.kind != b.kind || a.ident != b.ident || a.constant != b.constant ||
		len(a.children) != len(b.children) {
		return false
	}
	for i := range a.children {
		if !DeepEqual(a.children[i], b.children[i]) {
			return false
		}
	}
	return true
}

// WithChildren returns a copy of n with its children replaced. The result is
// checked like New.
func (n *Node) WithChildren(children ...*Node) (*Node, error) {
	return New(n.kind, n.ident, n.constant, children...)
}
