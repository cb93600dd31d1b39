// Package literal parses and compares the literal answer language:
// numbers, barewords, 3-D points, lists, sets and dicts.
//
//	[1, 2, 3]          list, order matters
//	<tree, rock>       set
//	{k1: v1, k2: v2}   dict
//	POINT(1.0 2.0 3.0) point
package literal

// Parse parses text as a single literal.
func Parse(text string) (Literal, error) {
	tokens := NewLexer(text).Tokenize()
	return NewParser(tokens).Parse()
}

// TypeOf parses text and returns the tag of the resulting literal.
func TypeOf(text string) (Tag, error) {
	lit, err := Parse(text)
	if err != nil {
		return "", err
	}
	return lit.Tag(), nil
}

// EqualText parses both texts and compares them with Equal.
// It returns false if either side fails to parse.
func EqualText(a, b string) bool {
	x, err := Parse(a)
	if err != nil {
		return false
	}
	y, err := Parse(b)
	if err != nil {
		return false
	}
	return Equal(x, y)
}
