package xslt

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// ============================================================================
// VALUE MODEL (TypedValue)
// ============================================================================
//
// Grounded on the teacher's OrderedMap (xml/map.go): a hybrid structure
// that keeps insertion order alongside O(1) lookup. Value generalizes that
// "ordered + fast-lookup" shape into the XDM variant spec.md section 3
// calls for (atomic / node / node-set / sequence / RTF / map / array /
// empty) — a raw map[string]any (the teacher's own substrate) can't carry
// the "a node-set is flat, deduplicated, document-ordered" invariant, so
// this is a proper tagged union instead of reusing OrderedMap directly.

// QName is an expanded qualified name: namespace URI ("" if none) + local
// name. Variable, parameter, and attribute-set lookups are always keyed on
// QName, never on a prefixed string — prefixes are lexical only.
type QName struct {
	URI   string
	Local string
}

func (q QName) String() string {
	if q.URI == "" {
		return q.Local
	}
	return "{" + q.URI + "}" + q.Local
}

// Kind discriminates the variant a Value currently holds.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindAtomic
	KindNode
	KindNodeSet
	KindSequence
	KindRTF
	KindMap
	KindArray
)

// AtomicKind discriminates the XDM atomic types this engine models.
type AtomicKind uint8

const (
	AtomicString AtomicKind = iota
	AtomicUntypedAtomic
	AtomicBoolean
	AtomicDecimal
	AtomicInteger
	AtomicDouble
	AtomicFloat
	AtomicDate
	AtomicDateTime
	AtomicTime
	AtomicDuration
	AtomicDayTimeDuration
	AtomicYearMonthDuration
)

// Atomic is a single atomic item.
type Atomic struct {
	Kind AtomicKind
	Str  string
	Num  float64
	Bool bool
	Time time.Time
	Dur  time.Duration
}

// String renders the atomic's string-value, per XDM casting rules.
func (a Atomic) String() string {
	switch a.Kind {
	case AtomicBoolean:
		if a.Bool {
			return "true"
		}
		return "false"
	case AtomicInteger:
		return strconv.FormatInt(int64(a.Num), 10)
	case AtomicDecimal, AtomicDouble, AtomicFloat:
		return formatXPathNumber(a.Num)
	case AtomicDate:
		return a.Time.Format("2006-01-02")
	case AtomicDateTime:
		return a.Time.Format(time.RFC3339)
	case AtomicTime:
		return a.Time.Format("15:04:05")
	case AtomicDuration, AtomicDayTimeDuration, AtomicYearMonthDuration:
		return a.Dur.String()
	default:
		return a.Str
	}
}

func formatXPathNumber(f float64) string {
	if f != f {
		return "NaN"
	}
	if f > 1.797e308 {
		return "INF"
	}
	if f < -1.797e308 {
		return "-INF"
	}
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// StringAtomic builds an untyped-or-typed string atomic.
func StringAtomic(s string) Atomic { return Atomic{Kind: AtomicString, Str: s} }

// UntypedAtomicValue builds an untypedAtomic value (the default result of
// atomizing an unvalidated node).
func UntypedAtomicValue(s string) Atomic { return Atomic{Kind: AtomicUntypedAtomic, Str: s} }

// NumberAtomic builds a numeric (xs:double) atomic.
func NumberAtomic(f float64) Atomic { return Atomic{Kind: AtomicDouble, Num: f} }

// BooleanAtomic builds a boolean atomic.
func BooleanAtomic(b bool) Atomic { return Atomic{Kind: AtomicBoolean, Bool: b} }

// ValueMap is an XDM map: string keys (by their string-value) to Values,
// insertion order preserved for deterministic iteration.
type ValueMap struct {
	keys   []string
	values map[string]Value
}

// NewValueMap creates an empty map.
func NewValueMap() *ValueMap {
	return &ValueMap{values: make(map[string]Value)}
}

// Put inserts or overwrites an entry.
func (m *ValueMap) Put(key string, v Value) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get looks up an entry.
func (m *ValueMap) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns keys in insertion order.
func (m *ValueMap) Keys() []string { return append([]string(nil), m.keys...) }

// Len reports the entry count.
func (m *ValueMap) Len() int { return len(m.keys) }

// Merge overlays other's entries on top of m, later keys overwriting
// earlier ones — used by xsl:map's "later keys overwrite earlier" rule.
func (m *ValueMap) Merge(other *ValueMap) {
	for _, k := range other.keys {
		m.Put(k, other.values[k])
	}
}

// Value is the tagged-union XPath/XDM value.
type Value struct {
	kind    Kind
	atomic  Atomic
	node    *Node
	nodeSet []*Node
	seq     []Value
	rtf     *ResultTreeFragment
	m       *ValueMap
	arr     []Value
}

// Empty is the empty sequence.
var Empty = Value{kind: KindEmpty}

// Kind reports the value's variant.
func (v Value) Kind() Kind { return v.kind }

// FromAtomic wraps a single atomic item.
func FromAtomic(a Atomic) Value { return Value{kind: KindAtomic, atomic: a} }

// FromString is shorthand for FromAtomic(StringAtomic(s)).
func FromString(s string) Value { return FromAtomic(StringAtomic(s)) }

// FromBool is shorthand for FromAtomic(BooleanAtomic(b)).
func FromBool(b bool) Value { return FromAtomic(BooleanAtomic(b)) }

// FromNode wraps a single node reference.
func FromNode(n *Node) Value { return Value{kind: KindNode, node: n} }

// FromNodeSet builds a deduplicated, document-ordered node-set. This is
// the one constructor responsible for the "a node set is flat" and
// "document order is stable" invariants (spec.md section 3) — callers
// never build a KindNodeSet Value by hand.
func FromNodeSet(nodes []*Node) Value {
	seen := make(map[*Node]bool, len(nodes))
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].docID != out[j].docID {
			return out[i].docID < out[j].docID
		}
		return out[i].order < out[j].order
	})
	return Value{kind: KindNodeSet, nodeSet: out}
}

// FromSequence builds a heterogeneous sequence, flattening any nested
// sequences (XDM sequences are never nested).
func FromSequence(items []Value) Value {
	var flat []Value
	var flatten func(v Value)
	flatten = func(v Value) {
		switch v.kind {
		case KindEmpty:
			return
		case KindSequence:
			for _, it := range v.seq {
				flatten(it)
			}
		case KindNodeSet:
			for _, n := range v.nodeSet {
				flat = append(flat, FromNode(n))
			}
		default:
			flat = append(flat, v)
		}
	}
	for _, v := range items {
		flatten(v)
	}
	if len(flat) == 0 {
		return Empty
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return Value{kind: KindSequence, seq: flat}
}

// FromRTF wraps a result tree fragment.
func FromRTF(r *ResultTreeFragment) Value { return Value{kind: KindRTF, rtf: r} }

// FromMap wraps an XDM map.
func FromMap(m *ValueMap) Value { return Value{kind: KindMap, m: m} }

// FromArray wraps an XDM array (an ordered sequence of member values).
func FromArray(members []Value) Value { return Value{kind: KindArray, arr: members} }

// Items returns the flattened top-level items of a sequence-shaped value
// (sequence, node-set, or a single item wrapped as a 1-element slice).
func (v Value) Items() []Value {
	switch v.kind {
	case KindEmpty:
		return nil
	case KindSequence:
		return v.seq
	case KindNodeSet:
		out := make([]Value, len(v.nodeSet))
		for i, n := range v.nodeSet {
			out[i] = FromNode(n)
		}
		return out
	default:
		return []Value{v}
	}
}

// Len reports the item count (0 for Empty).
func (v Value) Len() int {
	switch v.kind {
	case KindEmpty:
		return 0
	case KindSequence:
		return len(v.seq)
	case KindNodeSet:
		return len(v.nodeSet)
	default:
		return 1
	}
}

// Node returns the wrapped node if Kind() == KindNode, else nil.
func (v Value) Node() *Node {
	if v.kind == KindNode {
		return v.node
	}
	return nil
}

// NodeSet returns the wrapped node slice if Kind() == KindNodeSet.
func (v Value) NodeSet() []*Node {
	if v.kind == KindNodeSet {
		return v.nodeSet
	}
	return nil
}

// AtomicValue returns the wrapped atomic if Kind() == KindAtomic.
func (v Value) AtomicValue() (Atomic, bool) {
	if v.kind == KindAtomic {
		return v.atomic, true
	}
	return Atomic{}, false
}

// Map returns the wrapped map if Kind() == KindMap.
func (v Value) Map() *ValueMap {
	if v.kind == KindMap {
		return v.m
	}
	return nil
}

// Array returns the wrapped array members if Kind() == KindArray.
func (v Value) Array() []Value {
	if v.kind == KindArray {
		return v.arr
	}
	return nil
}

// RTF returns the wrapped result tree fragment if Kind() == KindRTF.
func (v Value) RTF() *ResultTreeFragment {
	if v.kind == KindRTF {
		return v.rtf
	}
	return nil
}

// StringValue renders the XDM string-value of a single item (spec.md
// section 3's "atomization is a total function"); for non-singleton
// values callers should atomize instead.
func (v Value) StringValue() string {
	switch v.kind {
	case KindEmpty:
		return ""
	case KindAtomic:
		return v.atomic.String()
	case KindNode:
		return v.node.StringValue()
	case KindRTF:
		return v.rtf.StringValue()
	default:
		var items []Value
		if v.kind == KindSequence {
			items = v.seq
		} else {
			items = []Value{v}
		}
		if len(items) == 0 {
			return ""
		}
		return items[0].StringValue()
	}
}

// Atomize implements the total atomization function: nodes yield their
// typed/untyped atomic string-value, sequences and node-sets atomize each
// member in order, RTFs atomize as their combined string-value, maps and
// arrays are returned as single opaque items (higher-order values are not
// atomizable per XDM, but this engine treats that as a caller error only
// where it matters — e.g. xsl:value-of — rather than failing universally).
func Atomize(v Value) []Atomic {
	switch v.kind {
	case KindEmpty:
		return nil
	case KindAtomic:
		return []Atomic{v.atomic}
	case KindNode:
		return []Atomic{atomizeNode(v.node)}
	case KindNodeSet:
		out := make([]Atomic, len(v.nodeSet))
		for i, n := range v.nodeSet {
			out[i] = atomizeNode(n)
		}
		return out
	case KindSequence:
		var out []Atomic
		for _, it := range v.seq {
			out = append(out, Atomize(it)...)
		}
		return out
	case KindRTF:
		return []Atomic{UntypedAtomicValue(v.rtf.StringValue())}
	default:
		return []Atomic{StringAtomic(fmt.Sprintf("%v", v))}
	}
}

func atomizeNode(n *Node) Atomic {
	sv := n.StringValue()
	if n.Type != nil && n.Type != UntypedAnnotation && n.Type != UntypedAtomicAnnotation {
		return Atomic{Kind: AtomicString, Str: sv}
	}
	return UntypedAtomicValue(sv)
}

// True implements the XPath effective-boolean-value rule this engine
// needs for xsl:if/xsl:choose tests when the expression evaluator hands
// back a raw Value instead of a resolved bool (e.g. a node-set test).
func (v Value) True() bool {
	switch v.kind {
	case KindEmpty:
		return false
	case KindAtomic:
		switch v.atomic.Kind {
		case AtomicBoolean:
			return v.atomic.Bool
		case AtomicString, AtomicUntypedAtomic:
			return v.atomic.Str != ""
		default:
			return v.atomic.Num != 0 && v.atomic.Num == v.atomic.Num
		}
	case KindNodeSet:
		return len(v.nodeSet) > 0
	case KindSequence:
		return len(v.seq) > 0
	default:
		return true
	}
}
