package node

import "fmt"

// Kind identifies the operation a Node performs.
type Kind uint8

const (
	// KindInvalid is the zero value. It is never constructible.
	KindInvalid Kind = iota

	KindAdd
	KindAddConst
	KindSub
	KindSubConst
	KindConstSub
	KindMult
	KindMultConst
	KindDiv
	KindDivConst
	KindConstDiv
	KindPow
	KindPowConst
	KindConstPow
	KindMax2
	KindMax2Const
	KindMin2
	KindMin2Const
	KindSpot
	KindVar
	KindConst
	KindAssign
	KindAssignConst
	KindPays
	KindPaysConst
	KindIf
	KindIfElse
	KindEqual
	KindSup
	KindSupEqual
	KindAnd
	KindOr
	KindSmooth
	KindSqrt
	KindLog
	KindNot
	KindUminus
	KindTrue
	KindFalse
	KindConstVar

	// kindSentinel marks the end of the vocabulary and sizes per-kind tables.
	kindSentinel
)

// NumKinds is the number of operative kinds.
const NumKinds = int(kindSentinel) - 1

var kindNames = [kindSentinel]string{
	KindInvalid:     "INVALID",
	KindAdd:         "ADD",
	KindAddConst:    "ADDCONST",
	KindSub:         "SUB",
	KindSubConst:    "SUBCONST",
	KindConstSub:    "CONSTSUB",
	KindMult:        "MULT",
	KindMultConst:   "MULTCONST",
	KindDiv:         "DIV",
	KindDivConst:    "DIVCONST",
	KindConstDiv:    "CONSTDIV",
	KindPow:         "POW",
	KindPowConst:    "POWCONST",
	KindConstPow:    "CONSTPOW",
	KindMax2:        "MAX2",
	KindMax2Const:   "MAX2CONST",
	KindMin2:        "MIN2",
	KindMin2Const:   "MIN2CONST",
	KindSpot:        "SPOT",
	KindVar:         "VAR",
	KindConst:       "CONST",
	KindAssign:      "ASSIGN",
	KindAssignConst: "ASSIGNCONST",
	KindPays:        "PAYS",
	KindPaysConst:   "PAYSCONST",
	KindIf:          "IF",
	KindIfElse:      "IFELSE",
	KindEqual:       "EQUAL",
	KindSup:         "SUP",
	KindSupEqual:    "SUPEQUAL",
	KindAnd:         "AND",
	KindOr:          "OR",
	KindSmooth:      "SMOOTH",
	KindSqrt:        "SQRT",
	KindLog:         "LOG",
	KindNot:         "NOT",
	KindUminus:      "UMINUS",
	KindTrue:        "TRUE",
	KindFalse:       "FALSE",
	KindConstVar:    "CONSTVAR",
}

// String returns the upper-case tag of the kind, e.g. "ADDCONST".
func (k Kind) String() string {
	if k >= kindSentinel {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// Valid reports whether k is one of the operative kinds.
func (k Kind) Valid() bool {
	return k > KindInvalid && k < kindSentinel
}

// ParseKind returns the kind named by tag, as produced by Kind.String.
func ParseKind(tag string) (Kind, error) {
	for k := KindAdd; k < kindSentinel; k++ {
		if kindNames[k] == tag {
			return k, nil
		}
	}
	return KindInvalid, fmt.Errorf("%w: %q", ErrUnknownKind, tag)
}

// Kinds returns every operative kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, NumKinds)
	for k := KindAdd; k < kindSentinel; k++ {
		out = append(out, k)
	}
	return out
}

type identRule uint8

const (
	identNone identRule = iota
	identRequired
	identOptional
)

// shape is the arity contract of a kind.
type shape struct {
	minChildren int
	maxChildren int
	constant    bool
	ident       identRule
}

var shapes = [kindSentinel]shape{
	KindAdd:         {2, 2, false, identNone},
	KindAddConst:    {1, 1, true, identNone},
	KindSub:         {2, 2, false, identNone},
	KindSubConst:    {1, 1, true, identNone},
	KindConstSub:    {1, 1, true, identNone},
	KindMult:        {2, 2, false, identNone},
	KindMultConst:   {1, 1, true, identNone},
	KindDiv:         {2, 2, false, identNone},
	KindDivConst:    {1, 1, true, identNone},
	KindConstDiv:    {1, 1, true, identNone},
	KindPow:         {2, 2, false, identNone},
	KindPowConst:    {1, 1, true, identNone},
	KindConstPow:    {1, 1, true, identNone},
	KindMax2:        {2, 2, false, identNone},
	KindMax2Const:   {1, 1, true, identNone},
	KindMin2:        {2, 2, false, identNone},
	KindMin2Const:   {1, 1, true, identNone},
	KindSpot:        {0, 0, false, identRequired},
	KindVar:         {0, 0, false, identRequired},
	KindConst:       {0, 0, true, identNone},
	KindAssign:      {1, 1, false, identRequired},
	KindAssignConst: {0, 0, true, identRequired},
	KindPays:        {1, 1, false, identOptional},
	KindPaysConst:   {0, 0, true, identOptional},
	KindIf:          {2, 2, false, identNone},
	KindIfElse:      {3, 3, false, identNone},
	KindEqual:       {2, 2, false, identNone},
	KindSup:         {2, 2, false, identNone},
	KindSupEqual:    {2, 2, false, identNone},
	KindAnd:         {2, 2, false, identNone},
	KindOr:          {2, 2, false, identNone},
	KindSmooth:      {2, 4, false, identNone},
	KindSqrt:        {1, 1, false, identNone},
	KindLog:         {1, 1, false, identNone},
	KindNot:         {1, 1, false, identNone},
	KindUminus:      {1, 1, false, identNone},
	KindTrue:        {0, 0, true, identNone},
	KindFalse:       {0, 0, true, identNone},
	KindConstVar:    {0, 0, true, identNone},
}

// Arity returns the minimum and maximum number of children of k.
func (k Kind) Arity() (minChildren, maxChildren int) {
	if !k.Valid() {
		return 0, 0
	}
	s := shapes[k]
	return s.minChildren, s.maxChildren
}

// HasConst reports whether nodes of kind k carry an embedded constant.
func (k Kind) HasConst() bool {
	return k.Valid() && shapes[k].constant
}

// HasIdent reports whether nodes of kind k may carry an identifier.
func (k Kind) HasIdent() bool {
	return k.Valid() && shapes[k].ident != identNone
}

// IsLeaf reports whether k never has children.
func (k Kind) IsLeaf() bool {
	return k.Valid() && shapes[k].maxChildren == 0
}

// IsPure reports whether evaluating k has no effect on variables or payments
// beyond those of its children.
func (k Kind) IsPure() bool {
	switch k {
	case KindAssign, KindAssignConst, KindPays, KindPaysConst:
		return false
	}
	return k.Valid()
}
