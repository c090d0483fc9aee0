package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lowered(t *testing.T, src string) []string {
	t.Helper()
	stmts, err := parse([]byte(src))
	require.NoError(t, err)
	out := make([]string, len(stmts))
	for i, s := range stmts {
		out[i] = s.String()
	}
	return out
}

func TestParse_Expressions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"int literal", "42", "CONST[42]"},
		{"float literal", "1.5", "CONST[1.5]"},
		{"exponent literal", "1e3", "CONST[1000]"},
		{"negative literal", "-3", "CONST[-3]"},
		{"negated spot", "-S", "UMINUS(SPOT[S])"},
		{"unary plus", "+S", "SPOT[S]"},
		{"parens", "(S)", "SPOT[S]"},
		{"subtract", "S - 100", "SUB(SPOT[S], CONST[100])"},
		{"precedence", "S + K * 2", "ADD(SPOT[S], MULT(SPOT[K], CONST[2]))"},
		{"divide", "S / K", "DIV(SPOT[S], SPOT[K])"},
		{"booleans", "True and not False", "AND(TRUE, NOT(FALSE))"},
		{"or", "S > 1 or K > 1", "OR(SUP(SPOT[S], CONST[1]), SUP(SPOT[K], CONST[1]))"},
		{"equal", "S == K", "EQUAL(SPOT[S], SPOT[K])"},
		{"not equal", "S != K", "NOT(EQUAL(SPOT[S], SPOT[K]))"},
		{"greater", "S > K", "SUP(SPOT[S], SPOT[K])"},
		{"greater or equal", "S >= K", "SUPEQUAL(SPOT[S], SPOT[K])"},
		{"less", "S < K", "SUP(UMINUS(SPOT[S]), UMINUS(SPOT[K]))"},
		{"less or equal", "S <= K", "SUPEQUAL(UMINUS(SPOT[S]), UMINUS(SPOT[K]))"},
		{"conditional", "1 if S > 100 else 0", "IFELSE(SUP(SPOT[S], CONST[100]), CONST[1], CONST[0])"},
		{"quoted spot", `spot("EUR/USD")`, "SPOT[EUR/USD]"},
		{"max", "max(S, 0)", "MAX2(SPOT[S], CONST[0])"},
		{"n-ary min", "min(a, b, c)", "MIN2(MIN2(SPOT[a], SPOT[b]), SPOT[c])"},
		{"pow", "pow(S, 2)", "POW(SPOT[S], CONST[2])"},
		{"sqrt", "sqrt(S)", "SQRT(SPOT[S])"},
		{"log", "log(S)", "LOG(SPOT[S])"},
		{"smooth", "smooth(S - 100, 1, 0)", "SMOOTH(SUB(SPOT[S], CONST[100]), CONST[1], CONST[0])"},
		{"smooth with width", "smooth(S, 1, 0, 0.5)", "SMOOTH(SPOT[S], CONST[1], CONST[0], CONST[0.5])"},
		{"anonymous payment", "pays(S)", "PAYS(SPOT[S])"},
		{"named payment", `pays(S, "leg1")`, "PAYS[leg1](SPOT[S])"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, []string{tt.want}, lowered(t, tt.script))
		})
	}
}

func TestParse_Statements(t *testing.T) {
	t.Parallel()

	t.Run("assignment switches name to variable", func(t *testing.T) {
		got := lowered(t, "x = S * 2\npays(max(x - 100, 0))")
		assert.Equal(t, []string{
			"ASSIGN[x](MULT(SPOT[S], CONST[2]))",
			"PAYS(MAX2(SUB(VAR[x], CONST[100]), CONST[0]))",
		}, got)
	})

	t.Run("name read before assignment is a spot", func(t *testing.T) {
		got := lowered(t, "y = x\nx = 1\nx")
		assert.Equal(t, []string{
			"ASSIGN[y](SPOT[x])",
			"ASSIGN[x](CONST[1])",
			"VAR[x]",
		}, got)
	})

	t.Run("augmented assignment", func(t *testing.T) {
		got := lowered(t, "x = 1\nx += S\nx -= 1\nx *= 2\nx /= 4")
		assert.Equal(t, []string{
			"ASSIGN[x](CONST[1])",
			"ASSIGN[x](ADD(VAR[x], SPOT[S]))",
			"ASSIGN[x](SUB(VAR[x], CONST[1]))",
			"ASSIGN[x](MULT(VAR[x], CONST[2]))",
			"ASSIGN[x](DIV(VAR[x], CONST[4]))",
		}, got)
	})

	t.Run("single statement if", func(t *testing.T) {
		got := lowered(t, "if S > 100:\n    pays(S - 100)\n")
		assert.Equal(t, []string{"IF(SUP(SPOT[S], CONST[100]), PAYS(SUB(SPOT[S], CONST[100])))"}, got)
	})

	t.Run("single statement if else", func(t *testing.T) {
		got := lowered(t, "if S > 100:\n    pays(1)\nelse:\n    pays(0)\n")
		assert.Equal(t, []string{"IFELSE(SUP(SPOT[S], CONST[100]), PAYS(CONST[1]), PAYS(CONST[0]))"}, got)
	})

	t.Run("empty then branch", func(t *testing.T) {
		got := lowered(t, "if c:\n    pass\nelse:\n    pays(1)\n")
		assert.Equal(t, []string{"IF(NOT(SPOT[c]), PAYS(CONST[1]))"}, got)
	})

	t.Run("both branches empty keep the condition", func(t *testing.T) {
		got := lowered(t, "if S > 1:\n    pass\n")
		assert.Equal(t, []string{"SUP(SPOT[S], CONST[1])"}, got)
	})

	t.Run("block branches use a guard temporary", func(t *testing.T) {
		src := strings.Join([]string{
			"if S > 100:",
			"    a = 1",
			"    b = 2",
			"else:",
			"    a = 0",
			"",
		}, "\n")
		assert.Equal(t, []string{
			"ASSIGN[$if0](SUP(SPOT[S], CONST[100]))",
			"IF(VAR[$if0], ASSIGN[a](CONST[1]))",
			"IF(VAR[$if0], ASSIGN[b](CONST[2]))",
			"IF(NOT(VAR[$if0]), ASSIGN[a](CONST[0]))",
		}, lowered(t, src))
	})

	t.Run("elif chains nest", func(t *testing.T) {
		src := "if S > 2:\n    pays(2)\nelif S > 1:\n    pays(1)\n"
		assert.Equal(t, []string{
			"IFELSE(SUP(SPOT[S], CONST[2]), PAYS(CONST[2]), IF(SUP(SPOT[S], CONST[1]), PAYS(CONST[1])))",
		}, lowered(t, src))
	})

	t.Run("comments and blank lines", func(t *testing.T) {
		assert.Empty(t, lowered(t, "# nothing here\n\n"))
	})
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	unsupportedTests := []struct {
		name   string
		script string
	}{
		{"function definition", "def f():\n    pass\n"},
		{"for loop", "for i in [1, 2]:\n    pays(i)\n"},
		{"string expression", `"abc"`},
		{"unknown builtin", "foo(1)"},
		{"non-name callee", "x.y(1)"},
		{"max with one argument", "max(1)"},
		{"pow arity", "pow(1)"},
		{"smooth arity", "smooth(1)"},
		{"augmented before assignment", "x += 1"},
		{"modulo", "S % 2"},
		{"keyword argument", `pays(1, name="a")`},
		{"spot of a name", "spot(S)"},
		{"empty spot name", `spot("")`},
		{"none", "None"},
		{"tuple target", "x, y = 1, 2"},
		{"index target", "x[0] = 1"},
		{"list literal", "[1, 2]"},
		{"lambda", "lambda: 1"},
		{"break", "if True:\n    break\n"},
	}

	for _, tt := range unsupportedTests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := parse([]byte(tt.script))
			require.Error(t, err)
			require.ErrorIs(t, err, ErrUnsupported)
		})
	}

	t.Run("syntax error", func(t *testing.T) {
		t.Parallel()
		_, err := parse([]byte("S +"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnsupported)
		assert.Contains(t, err.Error(), "parse error")
	})

	t.Run("position is reported", func(t *testing.T) {
		t.Parallel()
		_, err := parse([]byte("x = 1\ny = foo(x)"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at 2:5")
	})
}
