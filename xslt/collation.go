package xslt

import "strings"

// ============================================================================
// 4.7 COLLATIONS
// ============================================================================
//
// Locale-aware collation is out of scope for this spec's core the same
// way expression compilation is — no pack repo implements Unicode
// collation — so this is built directly against the short, fixed list of
// named collations spec.md §4.7 requires sort/group key comparison to
// recognize: the XPath default (codepoint) collation and a
// case-insensitive variant, looked up by URI the same way ExprEval is an
// interface looked up once per compiled expression rather than a single
// hardcoded comparator.

// Collation compares strings for xsl:sort/xsl:for-each-group/xsl:merge
// key equality and ordering.
type Collation interface {
	// Compare returns -1/0/1 the way strings.Compare does.
	Compare(a, b string) int
	// Key returns a normalized form suitable for map-based equality
	// grouping (GroupBy's index), consistent with Compare's notion of
	// equal.
	Key(s string) string
}

const (
	CollationCodepoint       = "http://www.w3.org/2005/xpath-functions/collation/codepoint"
	CollationCaseInsensitive = "http://www.w3.org/2005/xpath-functions/collation/html-ascii-case-insensitive"
)

type codepointCollation struct{}

func (codepointCollation) Compare(a, b string) int { return strings.Compare(a, b) }
func (codepointCollation) Key(s string) string     { return s }

type caseInsensitiveCollation struct{}

func (caseInsensitiveCollation) Compare(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
func (caseInsensitiveCollation) Key(s string) string { return strings.ToLower(s) }

// LookupCollation resolves a collation URI to its comparator, falling
// back to the codepoint collation for "" and for any URI this engine
// doesn't recognize (spec.md §4.7 doesn't require rejecting unknown
// collation URIs, only comparing consistently).
func LookupCollation(uri string) Collation {
	switch uri {
	case "", CollationCodepoint:
		return codepointCollation{}
	case CollationCaseInsensitive:
		return caseInsensitiveCollation{}
	default:
		return codepointCollation{}
	}
}
