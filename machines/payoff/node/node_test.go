package node

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	s := Spot("S")

	tests := []struct {
		name     string
		kind     Kind
		ident    string
		constant float64
		children []*Node
		wantErr  string
	}{
		{name: "add", kind: KindAdd, children: []*Node{s, Const(1)}},
		{name: "add missing child", kind: KindAdd, children: []*Node{s}, wantErr: "expected 2 children, got 1"},
		{name: "nil child", kind: KindSqrt, children: []*Node{nil}, wantErr: "child 0 is nil"},
		{name: "spot needs name", kind: KindSpot, wantErr: "identifier is required"},
		{name: "var with name", kind: KindVar, ident: "x"},
		{name: "anonymous pays", kind: KindPays, children: []*Node{s}},
		{name: "named pays const", kind: KindPaysConst, ident: "cpn", constant: 2.5},
		{name: "identifier on add", kind: KindAdd, ident: "x", children: []*Node{s, s}, wantErr: "unexpected identifier"},
		{name: "constant on sqrt", kind: KindSqrt, constant: 1, children: []*Node{s}, wantErr: "unexpected constant"},
		{name: "nan constant", kind: KindConst, constant: math.NaN(), wantErr: "not finite"},
		{name: "inf constant", kind: KindAddConst, constant: math.Inf(1), children: []*Node{s}, wantErr: "not finite"},
		{name: "smooth two", kind: KindSmooth, children: []*Node{s, Const(100)}},
		{name: "smooth four", kind: KindSmooth, children: []*Node{s, Const(1), Const(0), Const(2)}},
		{name: "smooth one", kind: KindSmooth, children: []*Node{s}, wantErr: "expected 2 to 4 children, got 1"},
		{name: "ifelse two", kind: KindIfElse, children: []*Node{s, s}, wantErr: "expected 3 children"},
		{name: "invalid kind", kind: KindInvalid, wantErr: "not constructible"},
		{name: "sentinel kind", kind: kindSentinel, wantErr: "not constructible"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			n, err := New(tt.kind, tt.ident, tt.constant, tt.children...)
			if tt.wantErr == "" {
				require.NoError(t, err)
				require.NotNil(t, n)
				assert.Equal(t, tt.kind, n.Kind())
				assert.Equal(t, tt.ident, n.Ident())
				assert.Equal(t, len(tt.children), n.Len())
				return
			}
			require.Error(t, err)
			assert.Nil(t, n)
			assert.Contains(t, err.Error(), tt.wantErr)
			require.ErrorIs(t, err, ErrMalformed)

			var me *MalformedError
			require.True(t, errors.As(err, &me))
			assert.Equal(t, tt.kind, me.Kind)
		})
	}
}

func TestNewBooleanLiterals(t *testing.T) {
	t.Parallel()

	tr, err := New(KindTrue, "", 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, tr.Const())

	fa, err := New(KindFalse, "", 7)
	require.NoError(t, err)
	assert.Equal(t, 0.0, fa.Const())

	bad := &Node{kind: KindTrue, constant: 3}
	require.ErrorIs(t, bad.Check(), ErrMalformed)
}

func TestMust(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() { Must(KindConst, "", 1) })
	assert.Panics(t, func() { Must(KindAdd, "", 0) })
}

func TestNodeIsImmutable(t *testing.T) {
	t.Parallel()

	a, b := Const(1), Const(2)
	kids := []*Node{a, b}
	n, err := New(KindAdd, "", 0, kids...)
	require.NoError(t, err)

	kids[0] = Const(99)
	assert.Same(t, a, n.Child(0))

	got := n.Children()
	got[1] = nil
	assert.Same(t, b, n.Child(1))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("well formed", func(t *testing.T) {
		t.Parallel()
		tree := Pays("", IfElse(Sup(Spot("S"), Const(100)), SubConst(Spot("S"), 100), Const(0)))
		require.NoError(t, Validate(tree))
	})

	t.Run("deep error", func(t *testing.T) {
		t.Parallel()
		bad := Spot("")
		tree := Add(Const(1), Mult(Const(2), bad))
		err := Validate(tree)
		require.ErrorIs(t, err, ErrMalformed)

		var me *MalformedError
		require.ErrorAs(t, err, &me)
		assert.Same(t, bad, me.Node)
	})

	t.Run("nil child", func(t *testing.T) {
		t.Parallel()
		require.ErrorIs(t, Validate(Add(Const(1), nil)), ErrMalformed)
	})

	t.Run("nil root", func(t *testing.T) {
		t.Parallel()
		require.ErrorIs(t, Validate(nil), ErrMalformed)
	})

	t.Run("zero value", func(t *testing.T) {
		t.Parallel()
		require.ErrorIs(t, Validate(&Node{}), ErrMalformed)
	})
}

func TestWalkDepthCount(t *testing.T) {
	t.Parallel()

	tree := Add(Mult(Spot("S"), Const(2)), Sqrt(Var("v")))

	var seen []Kind
	Walk(tree, func(n *Node) bool {
		seen = append(seen, n.Kind())
		return true
	})
	assert.Equal(t, []Kind{KindAdd, KindMult, KindSpot, KindConst, KindSqrt, KindVar}, seen)
	assert.Equal(t, 3, Depth(tree))
	assert.Equal(t, 6, Count(tree))
	assert.Equal(t, 0, Depth(nil))

	var first []Kind
	Walk(tree, func(n *Node) bool {
		first = append(first, n.Kind())
		return len(first) < 2
	})
	assert.Len(t, first, 2)
}

func TestDepthOfLongChain(t *testing.T) {
	t.Parallel()

	n := Const(0)
	for range 50_000 {
		n = AddConst(n, 1)
	}
	assert.Equal(t, 50_001, Depth(n))
	require.NoError(t, Validate(n))
}

func TestDeepEqual(t *testing.T) {
	t.Parallel()

	a := Add(Spot("S"), Const(1))
	b := Add(Spot("S"), Const(1))
	assert.True(t, DeepEqual(a, b))
	assert.False(t, DeepEqual(a, Add(Spot("S"), Const(2))))
	assert.False(t, DeepEqual(a, Add(Spot("T"), Const(1))))
	assert.False(t, DeepEqual(a, nil))
	assert.True(t, DeepEqual(nil, nil))
}

func TestWithChildren(t *testing.T) {
	t.Parallel()

	n := AddConst(Spot("S"), 5)
	m, err := n.WithChildren(Var("x"))
	require.NoError(t, err)
	assert.Equal(t, KindAddConst, m.Kind())
	assert.Equal(t, 5.0, m.Const())
	assert.Equal(t, "x", m.Child(0).Ident())

	_, err = n.WithChildren()
	require.ErrorIs(t, err, ErrMalformed)
}
