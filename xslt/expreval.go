package xslt

// ============================================================================
// EXTERNAL XPATH EVALUATOR
// ============================================================================
//
// XPath expression compilation/evaluation is out of core scope (section
// 6's external ExprEval); the core only ever calls through this
// interface at select-expression and pattern-match sites. Grounded on
// the same facade shape as SchemaValidator in schema.go: a narrow
// interface the core depends on, implemented elsewhere.

// CompiledExpr is an opaque, pre-compiled XPath expression.
type CompiledExpr interface {
	// Evaluate runs the expression with ctx as the dynamic context and
	// returns its result as a Value (a possibly-empty sequence).
	Evaluate(ctx *TransformContext) (Value, error)

	// Source returns the original expression text.
	Source() string
}

// CompiledPattern is an opaque, pre-compiled XSLT match pattern.
type CompiledPattern interface {
	// Matches reports whether node satisfies the pattern, given ctx for
	// any pattern predicates that reference the dynamic context.
	Matches(node *Node, ctx *TransformContext) (bool, error)

	// MatchesAtomic reports whether an atomic item satisfies the
	// pattern, for find_match_for_atomic_value (spec.md section 4.3).
	MatchesAtomic(v Atomic, ctx *TransformContext) (bool, error)

	Source() string
}

// ExprEval is the external compiler/evaluator the core depends on for
// every XPath expression and match pattern appearing in a compiled
// stylesheet. The compiler that builds a CompiledStylesheet is expected
// to have already produced CompiledExpr/CompiledPattern values for every
// select/match/test attribute; the core's job stops at calling them.
type ExprEval interface {
	// Compile parses and compiles an XPath 2.0/3.0 expression string.
	Compile(source string) (CompiledExpr, error)

	// CompilePattern parses and compiles an XSLT match pattern string.
	CompilePattern(source string) (CompiledPattern, error)
}
