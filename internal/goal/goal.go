// Package goal parses and compares propositional goal formulas written as
// s-expressions:
//
//	True  False  ?a  (visited-place p1)
//	(not g)  (and g...)  (or g...)
//
// Formulas are compared by rewriting both sides to disjunctive normal form
// and matching the disjuncts regardless of order. SemanticEqual offers an
// independent check through a SAT solver.
package goal

// Parse parses text as a single goal formula.
func Parse(text string) (Node, error) {
	tokens := NewLexer(text).Tokenize()
	return NewParser(tokens).Parse()
}

// EqualText parses both texts and compares them with Equal. It returns
// false and no error if either side fails to parse; rewrite engine errors
// are returned.
func EqualText(a, b string) (bool, error) {
	x, err := Parse(a)
	if err != nil {
		return false, nil
	}
	y, err := Parse(b)
	if err != nil {
		return false, nil
	}
	return Equal(x, y)
}
