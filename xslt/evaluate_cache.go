package xslt

import "sync"

// ============================================================================
// DYNAMIC EVALUATE CACHE
// ============================================================================
//
// spec.md section 9: "cache compiled expressions keyed on the source
// string (single-slot LRU is sufficient for tight loops)". xsl:evaluate
// inside a loop body typically evaluates the same source string on
// every iteration (the string itself is usually a literal or a
// loop-invariant variable), so a single remembered (source, compiled)
// pair avoids recompiling on every pass without the bookkeeping a full
// LRU would need.

// evaluateCache remembers the most recently compiled dynamic expression.
// Safe for concurrent use since fork branches may each own one.
type evaluateCache struct {
	mu      sync.Mutex
	source  string
	compiled CompiledExpr
}

func newEvaluateCache() *evaluateCache {
	return &evaluateCache{}
}

// compile returns a CompiledExpr for source, reusing the cached entry
// when source matches the last request and otherwise compiling afresh
// via eval and replacing the cached slot.
func (c *evaluateCache) compile(eval ExprEval, source string) (CompiledExpr, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.compiled != nil && c.source == source {
		return c.compiled, nil
	}
	expr, err := eval.Compile(source)
	if err != nil {
		return nil, err
	}
	c.source = source
	c.compiled = expr
	return expr, nil
}
