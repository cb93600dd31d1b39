package goal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemanticEqual(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"same symbol", "?a", "?a", true},
		{"different symbols", "?a", "?b", false},
		{"different params", "(visited-place p1)", "(visited-place p2)", false},
		{"de morgan", "(not (and ?a ?b))", "(or (not ?a) (not ?b))", true},
		{"distribution", "(and ?a (or ?b ?c))", "(or (and ?a ?b) (and ?a ?c))", true},
		{"tautology", "(or ?a (not ?a))", "True", true},
		{"contradiction", "(and ?a (not ?a))", "False", true},
		{"constants", "True", "False", false},
		{"idempotence", "(or ?a ?a)", "?a", true},
		{"absorption", "(or ?a (and ?a ?b))", "?a", true},
		{"symbol vs fact", "?a", "(a)", false},
		{"negated clause", "(not (or ?a (not ?b)))", "(and (not ?a) ?b)", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a, b := mustParse(t, tt.a), mustParse(t, tt.b)

			got, err := SemanticEqual(a, b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			got, err = SemanticEqual(b, a)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "symmetry")
		})
	}
}

// Equal is sound but not complete; SemanticEqual catches what it misses.
func TestSemanticEqual_AgreesWithEqualWhenEqualHolds(t *testing.T) {
	t.Parallel()

	pairs := [][2]string{
		{"(not (not ?a))", "?a"},
		{"(and (or ?a (and ?b ?c)) (or ?d ?e))", "(or (and ?a ?d) (and ?a ?e) (and ?b ?c ?d) (and ?b ?c ?e))"},
		{"(and (visited-place p1) (visited-place p2))", "(and (visited-place p2) (visited-place p1))"},
	}
	for _, p := range pairs {
		a, b := mustParse(t, p[0]), mustParse(t, p[1])

		eq, err := Equal(a, b)
		require.NoError(t, err)
		require.True(t, eq, "%s vs %s", p[0], p[1])

		sem, err := SemanticEqual(a, b)
		require.NoError(t, err)
		assert.True(t, sem, "%s vs %s", p[0], p[1])
	}

	a, b := mustParse(t, "(or ?a ?a)"), mustParse(t, "?a")
	eq, err := Equal(a, b)
	require.NoError(t, err)
	assert.False(t, eq)
	sem, err := SemanticEqual(a, b)
	require.NoError(t, err)
	assert.True(t, sem)
}
