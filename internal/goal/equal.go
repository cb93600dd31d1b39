package goal

// LiteralEqual reports strict structural equality: same variants, same
// operand order, same fact parameters.
func LiteralEqual(a, b Node) bool {
	switch x := a.(type) {
	case Bool:
		y, ok := b.(Bool)
		return ok && x.Value == y.Value
	case Symbol:
		y, ok := b.(Symbol)
		return ok && x.Name == y.Name
	case Fact:
		y, ok := b.(Fact)
		if !ok || x.Head != y.Head || len(x.Params) != len(y.Params) {
			return false
		}
		for i := range x.Params {
			if x.Params[i] != y.Params[i] {
				return false
			}
		}
		return true
	case NegatedAtomic:
		y, ok := b.(NegatedAtomic)
		return ok && LiteralEqual(x.Atomic, y.Atomic)
	case NegatedClause:
		y, ok := b.(NegatedClause)
		return ok && LiteralEqual(x.Clause, y.Clause)
	case Conjunction:
		y, ok := b.(Conjunction)
		return ok && operandsEqual(x.Clauses, y.Clauses)
	case Disjunction:
		y, ok := b.(Disjunction)
		return ok && operandsEqual(x.Clauses, y.Clauses)
	}
	return false
}

func operandsEqual(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !LiteralEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// ClauseEqual is LiteralEqual relaxed to ignore operand order: conjunctions
// and disjunctions of the same kind are equal when each operand of one has a
// ClauseEqual operand in the other.
func ClauseEqual(a, b Node) bool {
	switch x := a.(type) {
	case Conjunction:
		y, ok := b.(Conjunction)
		return ok && mutuallyContained(x.Clauses, y.Clauses)
	case Disjunction:
		y, ok := b.(Disjunction)
		return ok && mutuallyContained(x.Clauses, y.Clauses)
	case NegatedClause:
		y, ok := b.(NegatedClause)
		return ok && ClauseEqual(x.Clause, y.Clause)
	}
	return LiteralEqual(a, b)
}

func mutuallyContained(a, b []Node) bool {
	return containedIn(a, b) && containedIn(b, a)
}

// containedIn reports whether every element of sub has a ClauseEqual match
// in super.
func containedIn(sub, super []Node) bool {
	for _, s := range sub {
		found := false
		for _, t := range super {
			if ClauseEqual(s, t) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ClauseSubset reports whether every disjunct of a has a ClauseEqual match
// among the disjuncts of b. A formula that is not a disjunction is its own
// single disjunct. Both formulas are expected to be in DNF already.
func ClauseSubset(a, b Node) bool {
	return containedIn(disjuncts(a), disjuncts(b))
}

func disjuncts(n Node) []Node {
	if d, ok := n.(Disjunction); ok {
		return d.Clauses
	}
	return []Node{n}
}

// Equal decides whether a and b are equivalent goals: both are converted
// to DNF, simplified once more and compared with ClauseEqual.
// The only errors are ShapeErrors from the rewrite engine.
func (nz *Normalizer) Equal(a, b Node) (bool, error) {
	na, err := nz.canonical(a)
	if err != nil {
		return false, err
	}
	nb, err := nz.canonical(b)
	if err != nil {
		return false, err
	}
	return ClauseEqual(na, nb), nil
}

// Subset reports whether the DNF disjuncts of a all appear in the DNF of b.
func (nz *Normalizer) Subset(a, b Node) (bool, error) {
	na, err := nz.canonical(a)
	if err != nil {
		return false, err
	}
	nb, err := nz.canonical(b)
	if err != nil {
		return false, err
	}
	return ClauseSubset(na, nb), nil
}

func (nz *Normalizer) canonical(n Node) (Node, error) {
	dnf, err := nz.ConvertToDNF(n)
	if err != nil {
		return nil, err
	}
	return nz.Simplify(dnf)
}

// Equal compares a and b with DefaultOptions.
func Equal(a, b Node) (bool, error) {
	return defaultNormalizer.Equal(a, b)
}

// Subset checks DNF containment with DefaultOptions.
func Subset(a, b Node) (bool, error) {
	return defaultNormalizer.Subset(a, b)
}
