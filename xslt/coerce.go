package xslt

import (
	"strconv"
	"time"
)

// ============================================================================
// ATOMIC TYPE COERCION
// ============================================================================
//
// spec.md section 4.4 (with-param) / 4.5: "supplied values are coerced
// for atomic single types (string->number/boolean/date/etc.) and
// validated; non-matching values fail with XTTE0590". This engine only
// needs the built-in XSD simple types enumerated in section 6, so
// coercion is a small switch rather than a general schema-driven cast.

func coerceAtomicType(v Value, asType string) (Value, error) {
	if v.Kind() != KindAtomic {
		if v.Kind() == KindEmpty {
			return v, nil
		}
		// Node/sequence values are coerced via their string-value, the
		// same rule XPath's atomization uses for casting.
		v = FromString(v.StringValue())
	}
	a, _ := v.AtomicValue()
	s := a.String()

	switch asType {
	case "", "xs:anyAtomicType", "xs:string", "string":
		return FromAtomic(Atomic{Kind: AtomicString, Str: s}), nil
	case "xs:untypedAtomic", "untypedAtomic":
		return FromAtomic(UntypedAtomicValue(s)), nil
	case "xs:boolean", "boolean":
		switch s {
		case "true", "1":
			return FromAtomic(Atomic{Kind: AtomicBoolean, Bool: true}), nil
		case "false", "0":
			return FromAtomic(Atomic{Kind: AtomicBoolean, Bool: false}), nil
		}
		return Value{}, NewError(XTTE0590, "%q is not a valid xs:boolean", s)
	case "xs:integer", "integer":
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Value{}, NewError(XTTE0590, "%q is not a valid xs:integer", s)
		}
		return FromAtomic(Atomic{Kind: AtomicInteger, Num: float64(n)}), nil
	case "xs:decimal", "decimal", "xs:double", "double", "xs:float", "float":
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, NewError(XTTE0590, "%q is not a valid number", s)
		}
		kind := AtomicDecimal
		if asType == "xs:double" || asType == "double" {
			kind = AtomicDouble
		} else if asType == "xs:float" || asType == "float" {
			kind = AtomicFloat
		}
		return FromAtomic(Atomic{Kind: kind, Num: f}), nil
	case "xs:date", "date":
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return Value{}, NewError(XTTE0590, "%q is not a valid xs:date", s)
		}
		return FromAtomic(Atomic{Kind: AtomicDate, Time: t}), nil
	case "xs:dateTime", "dateTime":
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return Value{}, NewError(XTTE0590, "%q is not a valid xs:dateTime", s)
		}
		return FromAtomic(Atomic{Kind: AtomicDateTime, Time: t}), nil
	case "xs:time", "time":
		t, err := time.Parse("15:04:05", s)
		if err != nil {
			return Value{}, NewError(XTTE0590, "%q is not a valid xs:time", s)
		}
		return FromAtomic(Atomic{Kind: AtomicTime, Time: t}), nil
	case "xs:duration", "duration", "xs:dayTimeDuration", "dayTimeDuration", "xs:yearMonthDuration", "yearMonthDuration":
		d, err := time.ParseDuration(s)
		if err != nil {
			return Value{}, NewError(XTTE0590, "%q is not a valid duration", s)
		}
		return FromAtomic(Atomic{Kind: AtomicDuration, Dur: d}), nil
	default:
		// Unknown/complex type name: leave the value as-is rather than
		// fail, consistent with the schema non-goal (schema.go's
		// NoopValidator takes the same "accept, annotate loosely"
		// stance).
		return v, nil
	}
}
