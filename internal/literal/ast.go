package literal

import (
	"strconv"
	"strings"
)

// Tag names the variant of a literal.
type Tag string

const (
	TagNumber Tag = "number"
	TagString Tag = "string"
	TagPoint  Tag = "point"
	TagList   Tag = "list"
	TagSet    Tag = "set"
	TagDict   Tag = "dict"
)

// Literal is a node of the literal language AST.
// The set of implementations is closed; see the variants below.
type Literal interface {
	isLiteral()
	Tag() Tag
	String() string
}

var (
	_ Literal = Number{}
	_ Literal = Str{}
	_ Literal = Point{}
	_ Literal = List{}
	_ Literal = Set{}
	_ Literal = Dict{}
)

// Number is a numeric literal.
type Number struct {
	Value float64
}

func (Number) isLiteral() {}
func (Number) Tag() Tag    { return TagNumber }
func (n Number) String() string {
	return formatFloat(n.Value)
}

// Str is a bareword. It carries no quotes in the surface syntax.
type Str struct {
	Value string
}

func (Str) isLiteral()       {}
func (Str) Tag() Tag         { return TagString }
func (s Str) String() string { return s.Value }

// Point is a 3-D point written as POINT(x y z).
type Point struct {
	X, Y, Z float64
}

func (Point) isLiteral() {}
func (Point) Tag() Tag    { return TagPoint }
func (p Point) String() string {
	return "POINT(" + formatFloat(p.X) + " " + formatFloat(p.Y) + " " + formatFloat(p.Z) + ")"
}

// Coords returns the coordinates in x, y, z order.
func (p Point) Coords() []float64 {
	return []float64{p.X, p.Y, p.Z}
}

// List is an ordered sequence.
type List struct {
	Elems []Literal
}

func (List) isLiteral() {}
func (List) Tag() Tag    { return TagList }
func (l List) String() string {
	return "[" + joinLiterals(l.Elems) + "]"
}

// Set is an unordered collection. Duplicates are kept as written.
type Set struct {
	Elems []Literal
}

func (Set) isLiteral() {}
func (Set) Tag() Tag    { return TagSet }
func (s Set) String() string {
	return "<" + joinLiterals(s.Elems) + ">"
}

// Pair is a single dict entry.
type Pair struct {
	Key   Literal
	Value Literal
}

// Dict is an unordered collection of key/value pairs.
type Dict struct {
	Pairs []Pair
}

func (Dict) isLiteral() {}
func (Dict) Tag() Tag    { return TagDict }
func (d Dict) String() string {
	parts := make([]string, len(d.Pairs))
	for i, p := range d.Pairs {
		parts[i] = p.Key.String() + ": " + p.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func joinLiterals(elems []Literal) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
