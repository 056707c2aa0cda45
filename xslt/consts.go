package xslt

// Namespace and magic-variable constants shared across the package.
// Grounded on the teacher's habit of centralizing protocol constants near
// the top of a concern file (see xml/xml.go's banner-comment sections);
// here they get their own small file since many other files reference them.
const (
	XSLTNamespace = "http://www.w3.org/1999/XSL/Transform"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema"
	XMLNamespace  = "http://www.w3.org/XML/1998/namespace"
	XMLNSNamespace = "http://www.w3.org/2000/xmlns/"
)

// Magic variable names exposed to the external XPath evaluator (spec.md
// section 6). The engine binds these into the current variable scope; it
// never interprets them itself — current-group() and friends are provided
// by ExprEval.
const (
	MagicCurrentGroup        = "__current_group__"
	MagicCurrentGroupingKey  = "__current_grouping_key__"
	MagicCurrentMergeGroup   = "__current_merge_group__"
	MagicCurrentMergeKeyName = "__current_merge_key__"

	// MagicErrorCode/MagicErrorDescription expose the caught error inside
	// an xsl:catch body (spec.md §12's supplemented try/catch).
	MagicErrorCode        = "__error_code__"
	MagicErrorDescription = "__error_description__"
)

func magicMergeGroupName(source string) string {
	return "__current_merge_group_" + source + "__"
}

// NoMatchMode selects the built-in template behavior for a mode when no
// user-authored rule matches a node (spec.md section 4.3).
type NoMatchMode uint8

const (
	NoMatchElementOrRoot NoMatchMode = iota
	NoMatchTextOrAttribute
	NoMatchTextOnlyCopy
	NoMatchShallowCopy
	NoMatchDeepCopy
	NoMatchShallowSkip
	NoMatchFail
	NoMatchEmpty
)

// MultiMatchMode selects behavior when two rules tie at the top rank.
type MultiMatchMode uint8

const (
	MultiMatchLast MultiMatchMode = iota
	MultiMatchFail
)
