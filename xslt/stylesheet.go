package xslt

import (
	"fmt"
	"sort"
)

// ============================================================================
// 4.3 COMPILED STYLESHEET / TEMPLATE MATCHER
// ============================================================================
//
// Close structural port of other_examples/9b6c24cd_midbel-codecs__
// xslt-stylesheet.go.go's Mode/Template/AttributeSet/Output types —
// called out in DESIGN.md as the one place the grounding is closer to a
// direct port, because that reference's matchTemplate/noMatch/Mode
// shape already matches spec.md section 4.3's contract almost exactly.
// Generalized for this spec's needs: import precedence (absent from the
// reference, which only models single-sheet priority/position) becomes
// a first-class ranking key, and noMatch is re-expressed against this
// package's NoMatchMode (consts.go), which keeps the reference's deep
// copy, shallow copy, shallow skip and text-only-copy kinds (it has no
// deep skip) and adds ElementOrRoot, TextOrAttribute, Fail and Empty.

// TemplateRule is a compiled xsl:template (spec.md section 3).
type TemplateRule struct {
	Name    QName // zero value if unnamed (match-only rule)
	Pattern CompiledPattern
	Match   string // original pattern source, for diagnostics

	Priority      float64
	HasPriority   bool
	Precedence    int // import precedence: higher overrides lower
	Declaration   int // declaration order within its precedence, for tie-break
	Modes         []QName
	AllModes      bool // matches #all

	Params []*ParamDecl
	Body   Instruction

	ReturnType string // declared `as`, optional
	BuiltIn    bool
}

func (t *TemplateRule) matchesMode(mode QName) bool {
	if t.AllModes {
		return true
	}
	for _, m := range t.Modes {
		if m == mode {
			return true
		}
	}
	return false
}

// ParamDecl is a compiled xsl:param, shared by template and function
// parameter lists (spec.md section 4.5).
type ParamDecl struct {
	Name           QName
	Tunnel         bool
	Required       bool
	AsType         string
	SelectExpr     CompiledExpr
	DefaultContent Instruction
}

// Mode partitions templates into a disjoint group, with its own
// no-match/multi-match policy (spec.md GLOSSARY "Mode").
type Mode struct {
	Name QName

	NoMatch    NoMatchMode
	MultiMatch MultiMatchMode

	Rules []*TemplateRule

	index map[matchKey][]*TemplateRule
}

type matchKey struct {
	kind  NodeKind
	local string
	uri   string
}

// NewMode builds an empty mode with the given no-match/multi-match
// policy.
func NewMode(name QName, noMatch NoMatchMode, multiMatch MultiMatchMode) *Mode {
	return &Mode{Name: name, NoMatch: noMatch, MultiMatch: multiMatch}
}

// DefaultMode builds the unnamed mode with XSLT's standard built-in
// template behavior: recurse into elements/the document root, copy
// text/attribute string-values (NoMatchTextOrAttribute covers both —
// element-or-root alone would recurse into a text node's nonexistent
// children and silently drop it), and fail the multi-match tie rather
// than silently pick one (spec.md section 4.3: "ranked ... on tie ...
// choose last in declaration order" is the *recoverable* behavior, not
// the configured default).
func DefaultMode() *Mode {
	return NewMode(QName{}, NoMatchTextOrAttribute, MultiMatchFail)
}

// AddRule indexes a compiled rule by (mode is already `m`; kind, local
// name, namespace) per spec.md section 4.3's compile-time indexing.
func (m *Mode) AddRule(r *TemplateRule, kind NodeKind, local, uri string) {
	m.Rules = append(m.Rules, r)
	if m.index == nil {
		m.index = make(map[matchKey][]*TemplateRule)
	}
	key := matchKey{kind: kind, local: local, uri: uri}
	m.index[key] = append(m.index[key], r)
}

// candidates returns every rule whose indexed key could possibly match
// node, falling back to the wildcard key (empty local/uri) bucket which
// holds rules indexed by kind alone (e.g. `match="*"`, `match="node()"`).
func (m *Mode) candidates(n *Node) []*TemplateRule {
	var out []*TemplateRule
	keys := []matchKey{
		{kind: n.Kind, local: n.Local, uri: n.Space},
		{kind: n.Kind},
	}
	seen := make(map[*TemplateRule]bool)
	for _, k := range keys {
		for _, r := range m.index[k] {
			if !seen[r] {
				seen[r] = true
				out = append(out, r)
			}
		}
	}
	return out
}

type rankedMatch struct {
	rule *TemplateRule
}

// rank orders matches by (import precedence desc, priority desc,
// declaration order desc) per spec.md section 4.3.
func rank(matches []*TemplateRule) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Precedence != b.Precedence {
			return a.Precedence > b.Precedence
		}
		if a.effectivePriority() != b.effectivePriority() {
			return a.effectivePriority() > b.effectivePriority()
		}
		return a.Declaration > b.Declaration
	})
}

func (t *TemplateRule) effectivePriority() float64 {
	if t.HasPriority {
		return t.Priority
	}
	return 0.5 // every rule without HasPriority ranks at 0.5; Priority is
	// read only when HasPriority is set, so a pattern-shape default
	// (0, -0.5 etc.) takes effect only if the compiler sets HasPriority.
}

// FindMatch implements find_match(node, mode, ctx): spec.md section 4.3.
func (m *Mode) FindMatch(node *Node, ctx *TransformContext) (*TemplateRule, NoMatchMode, error) {
	var matches []*TemplateRule
	for _, r := range m.candidates(node) {
		if !r.matchesMode(m.Name) {
			continue
		}
		ok, err := r.Pattern.Matches(node, ctx)
		if err != nil {
			return nil, 0, err
		}
		if ok {
			matches = append(matches, r)
		}
	}
	if len(matches) == 0 {
		return nil, m.NoMatch, nil
	}
	rank(matches)
	if len(matches) > 1 && matches[0].Precedence == matches[1].Precedence &&
		matches[0].effectivePriority() == matches[1].effectivePriority() &&
		m.MultiMatch == MultiMatchFail {
		return nil, 0, NewError(XTTE0505, "%s: ambiguous template match", node.QualifiedName())
	}
	return matches[0], 0, nil
}

// FindImportMatch implements find_import_match: restricted to rules with
// strictly lower import precedence than current.
func (m *Mode) FindImportMatch(node *Node, current *TemplateRule, ctx *TransformContext) (*TemplateRule, NoMatchMode, error) {
	var matches []*TemplateRule
	for _, r := range m.candidates(node) {
		if !r.matchesMode(m.Name) || r.Precedence >= current.Precedence {
			continue
		}
		ok, err := r.Pattern.Matches(node, ctx)
		if err != nil {
			return nil, 0, err
		}
		if ok {
			matches = append(matches, r)
		}
	}
	if len(matches) == 0 {
		return nil, m.NoMatch, nil
	}
	rank(matches)
	return matches[0], 0, nil
}

// FindNextMatch implements find_next_match: the next rule after current
// in the same precedence/priority ordering.
func (m *Mode) FindNextMatch(node *Node, current *TemplateRule, ctx *TransformContext) (*TemplateRule, NoMatchMode, error) {
	var matches []*TemplateRule
	for _, r := range m.candidates(node) {
		if !r.matchesMode(m.Name) {
			continue
		}
		ok, err := r.Pattern.Matches(node, ctx)
		if err != nil {
			return nil, 0, err
		}
		if ok {
			matches = append(matches, r)
		}
	}
	rank(matches)
	found := false
	for _, r := range matches {
		if found {
			return r, 0, nil
		}
		if r == current {
			found = true
		}
	}
	if !found {
		return nil, 0, NewError(XTDE0560, "next-match: current rule not in candidate set")
	}
	return nil, m.NoMatch, nil
}

// FindMatchForAtomicValue implements find_match_for_atomic_value: a rule
// whose pattern is schema-type-based or `.[...]`, applicable to an
// atomic item.
func (m *Mode) FindMatchForAtomicValue(v Atomic, ctx *TransformContext) (*TemplateRule, error) {
	var matches []*TemplateRule
	for _, r := range m.Rules {
		if !r.matchesMode(m.Name) {
			continue
		}
		ok, err := r.Pattern.MatchesAtomic(v, ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, r)
		}
	}
	if len(matches) == 0 {
		return nil, nil
	}
	rank(matches)
	return matches[0], nil
}

// AttributeSet is a compiled xsl:attribute-set: a named, ordered list of
// xsl:attribute-shaped instructions applied wherever the set is
// referenced by use-attribute-sets.
type AttributeSet struct {
	Name  QName
	Attrs []Instruction
}

// NamespaceAlias maps a stylesheet namespace URI to a result namespace
// URI/prefix pair (spec.md section 4.4, literal result element).
type NamespaceAlias struct {
	StylesheetURI string
	ResultURI     string
	ResultPrefix  string
}

// KeyDef is a compiled xsl:key.
type KeyDef struct {
	Name    QName
	Match   CompiledPattern
	Use     CompiledExpr
	Collation string
}

// OutputProperties is a compiled xsl:output.
type OutputProperties struct {
	Name       string
	Method     string
	Encoding   string
	Version    string
	Indent     bool
	OmitProlog bool
	Standalone string
	MediaType  string
	CDATASectionElements []QName
}

// DefaultOutputProperties mirrors the reference's defaultOutput(): plain
// XML serialization, no indentation, prolog emitted.
func DefaultOutputProperties() *OutputProperties {
	return &OutputProperties{Method: "xml", Version: "1.0", Encoding: "UTF-8"}
}

// StripSpaceRule governs whitespace-only text node stripping
// (xsl:strip-space / xsl:preserve-space).
type StripSpaceRule struct {
	Pattern CompiledPattern
	Strip   bool
	Precedence int
}

// CompiledStylesheet is the immutable, shared result of compilation
// (spec.md section 3). Built once by the external compiler; the core
// only ever reads it.
type CompiledStylesheet struct {
	BaseURI          string
	DefaultCollation string

	Modes map[QName]*Mode

	NamedTemplates map[QName]*TemplateRule
	AttributeSets  map[QName]*AttributeSet
	Keys           map[QName][]*KeyDef
	Outputs        map[string]*OutputProperties
	Aliases        []NamespaceAlias
	StripRules     []StripSpaceRule
	Accumulators   []*AccumulatorDef
	GlobalParams   []*ParamDecl
	GlobalVars     map[QName]Instruction

	DefaultValidation ValidationMode
	Validator         SchemaValidator
	Eval              ExprEval
}

// NewCompiledStylesheet builds an otherwise-empty stylesheet with an
// unnamed default mode and default output, ready for a compiler to
// populate.
func NewCompiledStylesheet() *CompiledStylesheet {
	s := &CompiledStylesheet{
		Modes:          map[QName]*Mode{{}: DefaultMode()},
		NamedTemplates: make(map[QName]*TemplateRule),
		AttributeSets:  make(map[QName]*AttributeSet),
		Keys:           make(map[QName][]*KeyDef),
		Outputs:        map[string]*OutputProperties{"": DefaultOutputProperties()},
		GlobalVars:     make(map[QName]Instruction),
		Validator:      NoopValidator{},
	}
	return s
}

// ModeFor returns the named mode, creating it with the unnamed mode's
// policy (see DefaultMode) if it has not been declared via xsl:mode.
func (s *CompiledStylesheet) ModeFor(name QName) *Mode {
	if m, ok := s.Modes[name]; ok {
		return m
	}
	m := NewMode(name, NoMatchTextOrAttribute, MultiMatchFail)
	s.Modes[name] = m
	return m
}

// GetOutput returns the named xsl:output, or the unnamed default.
func (s *CompiledStylesheet) GetOutput(name string) *OutputProperties {
	if o, ok := s.Outputs[name]; ok {
		return o
	}
	return s.Outputs[""]
}

// ResolveAlias applies the first matching namespace alias to uri,
// returning (resultURI, resultPrefix, true) or ("", "", false) if none
// apply.
func (s *CompiledStylesheet) ResolveAlias(uri string) (string, string, bool) {
	for _, a := range s.Aliases {
		if a.StylesheetURI == uri {
			return a.ResultURI, a.ResultPrefix, true
		}
	}
	return "", "", false
}

// LookupNamedTemplate finds a call-template target by name (spec.md
// section 4.4's call-template: "looks up by name (respecting import
// precedence)" — NamedTemplates already holds only the
// highest-precedence definition per name, resolved at compile time).
func (s *CompiledStylesheet) LookupNamedTemplate(name QName) (*TemplateRule, error) {
	t, ok := s.NamedTemplates[name]
	if !ok {
		return nil, NewError(XTDE0560, "call-template: %s not found", fmt.Sprint(name))
	}
	return t, nil
}
