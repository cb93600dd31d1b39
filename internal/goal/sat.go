package goal

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// SemanticEqual decides logical equivalence of a and b with a SAT solver.
// Facts and symbols are independent propositional variables keyed by their
// rendering. The formulas are equivalent iff a XOR b is unsatisfiable.
//
// Unlike Equal it is complete: it also identifies formulas whose normal
// forms differ only by redundant disjuncts or repeated operands.
func SemanticEqual(a, b Node) (bool, error) {
	c := logic.NewC()
	vars := make(map[string]z.Lit)

	la, err := buildCircuit(c, vars, a)
	if err != nil {
		return false, err
	}
	lb, err := buildCircuit(c, vars, b)
	if err != nil {
		return false, err
	}

	diff := c.Xor(la, lb)
	switch diff {
	case c.F:
		return true, nil
	case c.T:
		return false, nil
	}

	g := gini.New()
	c.ToCnf(g)
	g.Assume(diff)
	return g.Solve() != 1, nil
}

func buildCircuit(c *logic.C, vars map[string]z.Lit, n Node) (z.Lit, error) {
	switch x := n.(type) {
	case Bool:
		if x.Value {
			return c.T, nil
		}
		return c.F, nil

	case Symbol, Fact:
		key := n.String()
		if lit, ok := vars[key]; ok {
			return lit, nil
		}
		lit := c.Lit()
		vars[key] = lit
		return lit, nil

	case NegatedAtomic:
		inner, err := buildCircuit(c, vars, x.Atomic)
		if err != nil {
			return z.LitNull, err
		}
		return inner.Not(), nil

	case NegatedClause:
		inner, err := buildCircuit(c, vars, x.Clause)
		if err != nil {
			return z.LitNull, err
		}
		return inner.Not(), nil

	case Conjunction:
		lits, err := buildOperands(c, vars, x.Clauses)
		if err != nil {
			return z.LitNull, err
		}
		return c.Ands(lits...), nil

	case Disjunction:
		lits, err := buildOperands(c, vars, x.Clauses)
		if err != nil {
			return z.LitNull, err
		}
		return c.Ors(lits...), nil
	}
	return z.LitNull, newShapeError(ShapeUnknownNode, "semantic_equal", n)
}

func buildOperands(c *logic.C, vars map[string]z.Lit, operands []Node) ([]z.Lit, error) {
	lits := make([]z.Lit, 0, len(operands))
	for _, o := range operands {
		lit, err := buildCircuit(c, vars, o)
		if err != nil {
			return nil, err
		}
		lits = append(lits, lit)
	}
	return lits, nil
}
