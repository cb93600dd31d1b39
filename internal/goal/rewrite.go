package goal

// Step is a single rewrite rule. It returns the rewritten node and true when
// the rule applies, or the input node and false when it does not.
type Step func(Node) (Node, bool)

// Negate pushes a negation one level into n without touching grandchildren.
func Negate(n Node) Node {
	switch x := n.(type) {
	case Bool:
		return Bool{Value: !x.Value}
	case NegatedAtomic:
		return x.Atomic
	case Atomic:
		return NegatedAtomic{Atomic: x}
	default:
		return NegatedClause{Clause: n}
	}
}

// DeMorgan rewrites (not (or a b)) to (and (not a) (not b)) and
// (not (and a b)) to (or (not a) (not b)).
func DeMorgan(n Node) (Node, bool) {
	neg, ok := n.(NegatedClause)
	if !ok {
		return n, false
	}

	switch inner := neg.Clause.(type) {
	case Disjunction:
		return Conjunction{Clauses: mapNegate(inner.Clauses)}, true
	case Conjunction:
		return Disjunction{Clauses: mapNegate(inner.Clauses)}, true
	default:
		return n, false
	}
}

func mapNegate(operands []Node) []Node {
	out := make([]Node, len(operands))
	for i, o := range operands {
		out[i] = Negate(o)
	}
	return out
}

// FlattenConjunction hoists the operands of conjunctions nested directly
// inside a conjunction into the parent. Only one level is hoisted per call.
func FlattenConjunction(n Node) (Node, bool) {
	c, ok := n.(Conjunction)
	if !ok {
		return n, false
	}

	out := make([]Node, 0, len(c.Clauses))
	changed := false
	for _, o := range c.Clauses {
		if inner, ok := o.(Conjunction); ok {
			out = append(out, inner.Clauses...)
			changed = true
			continue
		}
		out = append(out, o)
	}
	if !changed {
		return n, false
	}
	return Conjunction{Clauses: out}, true
}

// FlattenDisjunction is FlattenConjunction for disjunctions.
func FlattenDisjunction(n Node) (Node, bool) {
	d, ok := n.(Disjunction)
	if !ok {
		return n, false
	}

	out := make([]Node, 0, len(d.Clauses))
	changed := false
	for _, o := range d.Clauses {
		if inner, ok := o.(Disjunction); ok {
			out = append(out, inner.Clauses...)
			changed = true
			continue
		}
		out = append(out, o)
	}
	if !changed {
		return n, false
	}
	return Disjunction{Clauses: out}, true
}

// RemoveDoubleNegative strips a pair of directly nested negations.
func RemoveDoubleNegative(n Node) (Node, bool) {
	switch x := n.(type) {
	case NegatedClause:
		switch inner := x.Clause.(type) {
		case NegatedClause:
			return inner.Clause, true
		case NegatedAtomic:
			return inner.Atomic, true
		}
	case NegatedAtomic:
		if inner, ok := x.Atomic.(NegatedAtomic); ok {
			return inner.Atomic, true
		}
	}
	return n, false
}

// SimplifySingletonClause collapses a one-operand conjunction or disjunction
// to its operand.
func SimplifySingletonClause(n Node) (Node, bool) {
	switch x := n.(type) {
	case Conjunction:
		if len(x.Clauses) == 1 {
			return x.Clauses[0], true
		}
	case Disjunction:
		if len(x.Clauses) == 1 {
			return x.Clauses[0], true
		}
	}
	return n, false
}

// SimplifyContradiction reduces a conjunction holding an atomic and its
// negation to False.
func SimplifyContradiction(n Node) (Node, bool) {
	c, ok := n.(Conjunction)
	if !ok || !hasComplementaryPair(c.Clauses) {
		return n, false
	}
	return False, true
}

// SimplifyTautology reduces a disjunction holding an atomic and its
// negation to True.
func SimplifyTautology(n Node) (Node, bool) {
	d, ok := n.(Disjunction)
	if !ok || !hasComplementaryPair(d.Clauses) {
		return n, false
	}
	return True, true
}

func hasComplementaryPair(operands []Node) bool {
	atoms := make([]Atomic, 0, len(operands))
	for _, o := range operands {
		if a, ok := o.(Atomic); ok {
			atoms = append(atoms, a)
		}
	}
	for i := range atoms {
		for j := i + 1; j < len(atoms); j++ {
			if LiteralEqual(atoms[i], Negate(atoms[j])) {
				return true
			}
		}
	}
	return false
}

// Evaluate folds boolean constants. A negated constant becomes the opposite
// constant. Inside a conjunction False absorbs and True is dropped; inside a
// disjunction True absorbs and False is dropped. A clause left with no
// operands becomes its identity element.
func Evaluate(n Node) (Node, bool) {
	switch x := n.(type) {
	case NegatedAtomic:
		if b, ok := x.Atomic.(Bool); ok {
			return Bool{Value: !b.Value}, true
		}
	case NegatedClause:
		if b, ok := x.Clause.(Bool); ok {
			return Bool{Value: !b.Value}, true
		}
	case Conjunction:
		rest, absorbed, changed := foldConstants(x.Clauses, false)
		switch {
		case absorbed:
			return False, true
		case len(rest) == 0:
			return True, true
		case changed:
			return Conjunction{Clauses: rest}, true
		}
	case Disjunction:
		rest, absorbed, changed := foldConstants(x.Clauses, true)
		switch {
		case absorbed:
			return True, true
		case len(rest) == 0:
			return False, true
		case changed:
			return Disjunction{Clauses: rest}, true
		}
	}
	return n, false
}

// foldConstants drops identity constants from operands. absorbed reports
// whether the absorbing constant was found.
func foldConstants(operands []Node, absorbing bool) (rest []Node, absorbed, changed bool) {
	rest = make([]Node, 0, len(operands))
	for _, o := range operands {
		b, ok := o.(Bool)
		if !ok {
			rest = append(rest, o)
			continue
		}
		if b.Value == absorbing {
			return nil, true, true
		}
		changed = true
	}
	return rest, false, changed
}

// DistributeConjunction distributes a conjunction over its first disjunction
// operand, one disjunct at a time:
//
//	(and R... (or d1 d2...)) -> (or (and R... d1) (and R... (or d2...)))
//
// Repeated application yields a disjunction of conjunctions.
func DistributeConjunction(n Node) (Node, bool) {
	c, ok := n.(Conjunction)
	if !ok {
		return n, false
	}

	idx := -1
	for i, o := range c.Clauses {
		if d, ok := o.(Disjunction); ok && len(d.Clauses) > 0 {
			idx = i
			break
		}
	}
	if idx < 0 {
		return n, false
	}

	d := c.Clauses[idx].(Disjunction)
	rest := make([]Node, 0, len(c.Clauses)-1)
	rest = append(rest, c.Clauses[:idx]...)
	rest = append(rest, c.Clauses[idx+1:]...)

	if len(d.Clauses) == 1 {
		return Conjunction{Clauses: appendNode(rest, d.Clauses[0])}, true
	}

	var tail Node = Disjunction{Clauses: d.Clauses[1:]}
	if len(d.Clauses) == 2 {
		tail = d.Clauses[1]
	}
	return Disjunction{Clauses: []Node{
		Conjunction{Clauses: appendNode(rest, d.Clauses[0])},
		Conjunction{Clauses: appendNode(rest, tail)},
	}}, true
}

// DistributeDisjunction would distribute a disjunction over a conjunction
// operand, the step needed for conjunctive normal form. It has no
// implementation: when the rule applies it returns a ShapeError.
func DistributeDisjunction(n Node) (Node, bool, error) {
	d, ok := n.(Disjunction)
	if !ok {
		return n, false, nil
	}
	for _, o := range d.Clauses {
		if _, ok := o.(Conjunction); ok {
			return n, false, newShapeError(ShapeUnsupportedRule, "distribute_disjunction", n)
		}
	}
	return n, false, nil
}

// appendNode returns a fresh slice holding operands followed by n.
func appendNode(operands []Node, n Node) []Node {
	out := make([]Node, 0, len(operands)+1)
	out = append(out, operands...)
	return append(out, n)
}

// FMap applies fn to each direct child of a compound node and rebuilds it.
// Atomic nodes have no children and are returned unchanged. A negated clause
// whose child became atomic is rebuilt as a NegatedAtomic.
func FMap(fn func(Node) (Node, error), n Node) (Node, error) {
	switch x := n.(type) {
	case Conjunction:
		out, err := mapOperands(fn, x.Clauses)
		if err != nil {
			return nil, err
		}
		return Conjunction{Clauses: out}, nil
	case Disjunction:
		out, err := mapOperands(fn, x.Clauses)
		if err != nil {
			return nil, err
		}
		return Disjunction{Clauses: out}, nil
	case NegatedClause:
		inner, err := fn(x.Clause)
		if err != nil {
			return nil, err
		}
		return Not(inner), nil
	case Atomic:
		return n, nil
	default:
		return nil, newShapeError(ShapeUnknownNode, "fmap", n)
	}
}

func mapOperands(fn func(Node) (Node, error), operands []Node) ([]Node, error) {
	out := make([]Node, len(operands))
	for i, o := range operands {
		r, err := fn(o)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}
