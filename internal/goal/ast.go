package goal

import "strings"

// Node is a goal formula. Every node is either an Atomic or a Clause.
type Node interface {
	isNode()
	String() string
}

// Atomic is a leaf formula: a constant, a symbol, a fact, or the negation
// of one of those.
type Atomic interface {
	Node
	isAtomic()
}

// Clause is a compound formula: a conjunction, a disjunction, or the
// negation of a formula that is not a plain atomic.
type Clause interface {
	Node
	isClause()
}

var (
	_ Atomic = Bool{}
	_ Atomic = Symbol{}
	_ Atomic = Fact{}
	_ Atomic = NegatedAtomic{}
	_ Clause = NegatedClause{}
	_ Clause = Conjunction{}
	_ Clause = Disjunction{}
)

// Bool is a boolean constant.
type Bool struct {
	Value bool
}

var (
	True  = Bool{Value: true}
	False = Bool{Value: false}
)

func (Bool) isNode()   {}
func (Bool) isAtomic() {}
func (b Bool) String() string {
	if b.Value {
		return "True"
	}
	return "False"
}

// Symbol is a free propositional variable written ?name.
type Symbol struct {
	Name string
}

func (Symbol) isNode()          {}
func (Symbol) isAtomic()        {}
func (s Symbol) String() string { return "?" + s.Name }

// Fact is a predicate applied to ordered parameters, e.g. (visited-place p1).
type Fact struct {
	Head   string
	Params []string
}

func (Fact) isNode()   {}
func (Fact) isAtomic() {}
func (f Fact) String() string {
	if len(f.Params) == 0 {
		return "(" + f.Head + ")"
	}
	return "(" + f.Head + " " + strings.Join(f.Params, " ") + ")"
}

// NegatedAtomic is the negation of an atomic formula.
type NegatedAtomic struct {
	Atomic Atomic
}

func (NegatedAtomic) isNode()   {}
func (NegatedAtomic) isAtomic() {}
func (n NegatedAtomic) String() string {
	return "(not " + n.Atomic.String() + ")"
}

// NegatedClause is the negation of a compound formula.
type NegatedClause struct {
	Clause Node
}

func (NegatedClause) isNode()   {}
func (NegatedClause) isClause() {}
func (n NegatedClause) String() string {
	return "(not " + n.Clause.String() + ")"
}

// Conjunction holds when all of its operands hold. It is True when empty.
type Conjunction struct {
	Clauses []Node
}

func (Conjunction) isNode()   {}
func (Conjunction) isClause() {}
func (c Conjunction) String() string {
	return compoundString("and", c.Clauses)
}

// Disjunction holds when any of its operands holds. It is False when empty.
type Disjunction struct {
	Clauses []Node
}

func (Disjunction) isNode()   {}
func (Disjunction) isClause() {}
func (d Disjunction) String() string {
	return compoundString("or", d.Clauses)
}

func compoundString(op string, operands []Node) string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(op)
	for _, o := range operands {
		sb.WriteString(" ")
		sb.WriteString(o.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// And builds a Conjunction of operands.
func And(operands ...Node) Conjunction {
	return Conjunction{Clauses: operands}
}

// Or builds a Disjunction of operands.
func Or(operands ...Node) Disjunction {
	return Disjunction{Clauses: operands}
}

// Not wraps n in the matching negation node without simplifying it.
func Not(n Node) Node {
	if a, ok := n.(Atomic); ok {
		return NegatedAtomic{Atomic: a}
	}
	return NegatedClause{Clause: n}
}
