package node

import (
	"strconv"
	"strings"
)

// String prints the tree in functional form, e.g.
// PAYS(IFELSE(SUP(SPOT[S], CONST[100]), SUBCONST[100](SPOT[S]), CONST[0])).
// Bracketed parameters hold the identifier then the constant.
func (n *Node) String() string {
	var sb strings.Builder
	write(&sb, n)
	return sb.String()
}

func write(sb *strings.Builder, n *Node) {
	if n == nil {
		sb.WriteString("<nil>")
		return
	}
	sb.WriteString(n.kind.String())

	var params []string
	if n.ident != "" {
		params = append(params, n.ident)
	}
	if n.kind.HasConst() && n.kind != KindTrue && n.kind != KindFalse {
		params = append(params, formatConst(n.constant))
	}
	if len(params) > 0 {
		sb.WriteByte('[')
		sb.WriteString(strings.Join(params, ", "))
		sb.WriteByte(']')
	}

	if len(n.children) == 0 {
		return
	}
	sb.WriteByte('(')
	for i, c := range n.children {
		if i > 0 {
			sb.WriteString(", ")
		}
		write(sb, c)
	}
	sb.WriteByte(')')
}

func formatConst(c float64) string {
	return strconv.FormatFloat(c, 'g', -1, 64)
}
