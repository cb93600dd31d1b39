package goal

// DefaultMaxIterations bounds every fixpoint loop of the rewrite engine.
const DefaultMaxIterations = 64

// Options configures a Normalizer.
type Options struct {
	// MaxIterations caps the passes of Simplify. ConvertToDNF and
	// ConvertToCNF allow MaxIterations plus the node count of their input,
	// since distribution peels one disjunct per iteration.
	// Values below 1 use DefaultMaxIterations.
	MaxIterations int
}

// DefaultOptions returns the options used by the package-level functions.
func DefaultOptions() Options {
	return Options{MaxIterations: DefaultMaxIterations}
}

// simplifySteps run in order on every node during a Simplify pass.
var simplifySteps = []Step{
	RemoveDoubleNegative,
	SimplifySingletonClause,
	FlattenConjunction,
	FlattenDisjunction,
	Evaluate,
	SimplifyContradiction,
	SimplifyTautology,
}

// Normalizer rewrites goal formulas toward normal forms.
// It holds no state besides its options and is safe for concurrent use.
type Normalizer struct {
	opts Options
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(opts Options) *Normalizer {
	if opts.MaxIterations < 1 {
		opts.MaxIterations = DefaultMaxIterations
	}
	return &Normalizer{opts: opts}
}

// Options returns the options the normalizer was built with.
func (nz *Normalizer) Options() Options {
	return nz.opts
}

// Simplify repeats a bottom-up simplification pass until the formula stops
// changing structurally.
func (nz *Normalizer) Simplify(n Node) (Node, error) {
	cur := n
	for i := 0; i < nz.opts.MaxIterations; i++ {
		next, err := simplifyPass(cur)
		if err != nil {
			return nil, err
		}
		if LiteralEqual(next, cur) {
			return next, nil
		}
		cur = next
	}
	return nil, newShapeError(ShapeNoFixpoint, "simplify", n)
}

// simplifyPass rewrites children first, then applies every simplify step
// to the node itself.
func simplifyPass(n Node) (Node, error) {
	n, err := FMap(simplifyPass, n)
	if err != nil {
		return nil, err
	}
	for _, step := range simplifySteps {
		n, _ = step(n)
	}
	return n, nil
}

// MakeDNFInner performs one bottom-up DNF step: children first, then
// Simplify, DeMorgan and DistributeConjunction on the node itself.
func (nz *Normalizer) MakeDNFInner(n Node) (Node, error) {
	n, err := FMap(nz.MakeDNFInner, n)
	if err != nil {
		return nil, err
	}
	n, err = nz.Simplify(n)
	if err != nil {
		return nil, err
	}
	n, _ = DeMorgan(n)
	n, _ = DistributeConjunction(n)
	return n, nil
}

// ConvertToDNF rewrites n into disjunctive normal form by repeating
// MakeDNFInner until the result stops changing.
func (nz *Normalizer) ConvertToDNF(n Node) (Node, error) {
	return nz.fixpoint("convert_to_dnf", n, nz.MakeDNFInner)
}

// ConvertToCNF rewrites n toward conjunctive normal form. Distribution of a
// disjunction over a conjunction is not supported, so any formula that
// needs it fails with a ShapeError.
func (nz *Normalizer) ConvertToCNF(n Node) (Node, error) {
	return nz.fixpoint("convert_to_cnf", n, nz.makeCNFInner)
}

func (nz *Normalizer) makeCNFInner(n Node) (Node, error) {
	n, err := FMap(nz.makeCNFInner, n)
	if err != nil {
		return nil, err
	}
	n, err = nz.Simplify(n)
	if err != nil {
		return nil, err
	}
	n, _ = DeMorgan(n)
	n, _, err = DistributeDisjunction(n)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (nz *Normalizer) fixpoint(rule string, n Node, step func(Node) (Node, error)) (Node, error) {
	limit := nz.opts.MaxIterations + size(n)
	cur := n
	for i := 0; i < limit; i++ {
		next, err := step(cur)
		if err != nil {
			return nil, err
		}
		if LiteralEqual(next, cur) {
			return next, nil
		}
		cur = next
	}
	return nil, newShapeError(ShapeNoFixpoint, rule, n)
}

// size counts the nodes of n.
func size(n Node) int {
	count := 1
	_, _ = FMap(func(c Node) (Node, error) {
		count += size(c)
		return c, nil
	}, n)
	return count
}

var defaultNormalizer = NewNormalizer(DefaultOptions())

// Simplify simplifies n with DefaultOptions.
func Simplify(n Node) (Node, error) {
	return defaultNormalizer.Simplify(n)
}

// MakeDNFInner performs one DNF step with DefaultOptions.
func MakeDNFInner(n Node) (Node, error) {
	return defaultNormalizer.MakeDNFInner(n)
}

// ConvertToDNF converts n to disjunctive normal form with DefaultOptions.
func ConvertToDNF(n Node) (Node, error) {
	return defaultNormalizer.ConvertToDNF(n)
}

// ConvertToCNF converts n to conjunctive normal form with DefaultOptions.
func ConvertToCNF(n Node) (Node, error) {
	return defaultNormalizer.ConvertToCNF(n)
}
