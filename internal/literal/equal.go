package literal

import (
	"math"
	"strings"
)

// Tolerance is the absolute difference below which two numbers are equal.
const Tolerance = 0.01

// Equal reports whether a and b denote the same value.
//
// Numbers and point coordinates compare within Tolerance, strings compare
// trimmed and case-folded, lists compare in order, and sets and dicts
// compare by mutual containment. Values of different variants are never
// equal. The tolerance makes the relation non-transitive, so set and dict
// comparison can disagree with a strict equivalence on chained values.
func Equal(a, b Literal) bool {
	switch x := a.(type) {
	case Number:
		y, ok := b.(Number)
		return ok && numbersEqual(x.Value, y.Value)

	case Str:
		y, ok := b.(Str)
		return ok && normalizeString(x.Value) == normalizeString(y.Value)

	case Point:
		y, ok := b.(Point)
		if !ok {
			return false
		}
		return numbersEqual(x.X, y.X) && numbersEqual(x.Y, y.Y) && numbersEqual(x.Z, y.Z)

	case List:
		y, ok := b.(List)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true

	case Set:
		y, ok := b.(Set)
		return ok && setContains(x, y) && setContains(y, x)

	case Dict:
		y, ok := b.(Dict)
		return ok && dictContains(x, y) && dictContains(y, x)
	}
	return false
}

// Contains reports whether some element of set is Equal to e.
func Contains(set Set, e Literal) bool {
	for _, elem := range set.Elems {
		if Equal(elem, e) {
			return true
		}
	}
	return false
}

// Lookup returns the value of the first pair whose key is Equal to key.
func Lookup(d Dict, key Literal) (Literal, bool) {
	for _, p := range d.Pairs {
		if Equal(p.Key, key) {
			return p.Value, true
		}
	}
	return nil, false
}

// setContains reports whether every element of sub is contained in super.
func setContains(sub, super Set) bool {
	for _, e := range sub.Elems {
		if !Contains(super, e) {
			return false
		}
	}
	return true
}

// dictContains reports whether every pair of sub has an equal key in super
// mapped to an equal value.
func dictContains(sub, super Dict) bool {
	for _, p := range sub.Pairs {
		v, ok := Lookup(super, p.Key)
		if !ok || !Equal(p.Value, v) {
			return false
		}
	}
	return true
}

func numbersEqual(a, b float64) bool {
	return math.Abs(a-b) < Tolerance
}

func normalizeString(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
