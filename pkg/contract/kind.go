package contract

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind is the closed set of value categories a contract can reason about.
// Every Go value handed to a check is classified into exactly one Kind by
// KindOf; values outside the set are KindInvalid and never satisfy a type
// constraint.
type Kind int

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
	KindStr
	KindList
	KindMap
)

var kindNames = map[Kind]string{
	KindInvalid: "invalid",
	KindNull:    "null",
	KindBool:    "bool",
	KindInt:     "int",
	KindFloat:   "float",
	KindStr:     "str",
	KindList:    "list",
	KindMap:     "map",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// KindSet is a set of kinds, used for the allowed types of a variable binder
// and for type contracts.
type KindSet uint16

// AllKinds accepts every valid kind.
const AllKinds = KindSet(1<<KindNull | 1<<KindBool | 1<<KindInt | 1<<KindFloat | 1<<KindStr | 1<<KindList | 1<<KindMap)

// NewKindSet returns the set holding the given kinds. KindInvalid is ignored.
func NewKindSet(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		if k <= KindInvalid || k > KindMap {
			continue
		}
		s |= 1 << k
	}
	return s
}

// Has reports whether k is a member of the set.
func (s KindSet) Has(k Kind) bool {
	if k <= KindInvalid || k > KindMap {
		return false
	}
	return s&(1<<k) != 0
}

func (s KindSet) Empty() bool { return s&AllKinds == 0 }

// Kinds returns the members in declaration order.
func (s KindSet) Kinds() []Kind {
	var out []Kind
	for k := KindNull; k <= KindMap; k++ {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

func (s KindSet) String() string {
	if s&AllKinds == AllKinds {
		return "Any"
	}
	kinds := s.Kinds()
	switch len(kinds) {
	case 0:
		return "()"
	case 1:
		return kinds[0].String()
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	sort.Strings(names)
	return "(" + strings.Join(names, "|") + ")"
}

// KindOf classifies v. Signed and unsigned integers of every width are
// KindInt, slices and arrays are KindList and maps keyed by strings are
// KindMap. bool is never an int.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInt
	case float32, float64:
		return KindFloat
	case string:
		return KindStr
	case []any:
		return KindList
	case map[string]any:
		return KindMap
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return KindList
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return KindMap
		}
	}
	return KindInvalid
}

// typeName is the name used in messages for the runtime type of v.
func typeName(v any) string {
	if k := KindOf(v); k != KindInvalid {
		return k.String()
	}
	return fmt.Sprintf("%T", v)
}

// Elements returns the items of a list-kinded value in order.
func Elements(v any) ([]any, bool) {
	if xs, ok := v.([]any); ok {
		return xs, true
	}
	if KindOf(v) != KindList {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// entries returns the items of a map-kinded value.
func entries(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	if KindOf(v) != KindMap {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// number is a numeric value normalised for comparison and arithmetic.
// Integers that fit in int64 set isInt; unsigned values above MaxInt64 set
// big and keep their exact value in u; everything else is a float.
type number struct {
	i     int64
	u     uint64
	f     float64
	isInt bool
	big   bool
}

func toNumber(v any) (number, bool) {
	switch x := v.(type) {
	case int:
		return number{i: int64(x), isInt: true}, true
	case int8:
		return number{i: int64(x), isInt: true}, true
	case int16:
		return number{i: int64(x), isInt: true}, true
	case int32:
		return number{i: int64(x), isInt: true}, true
	case int64:
		return number{i: x, isInt: true}, true
	case uint:
		return fromUint(uint64(x)), true
	case uint8:
		return number{i: int64(x), isInt: true}, true
	case uint16:
		return number{i: int64(x), isInt: true}, true
	case uint32:
		return number{i: int64(x), isInt: true}, true
	case uint64:
		return fromUint(x), true
	case float32:
		return number{f: float64(x)}, true
	case float64:
		return number{f: x}, true
	}
	return number{}, false
}

func fromUint(u uint64) number {
	if u > math.MaxInt64 {
		return number{u: u, big: true}
	}
	return number{i: int64(u), isInt: true}
}

func (n number) isFloat() bool { return !n.isInt && !n.big }

func (n number) float() float64 {
	switch {
	case n.isInt:
		return float64(n.i)
	case n.big:
		return float64(n.u)
	}
	return n.f
}

// cmpNumbers returns -1, 0 or 1 comparing the exact values of a and b.
// ordered is false when either side is NaN.
func cmpNumbers(a, b number) (sign int, ordered bool) {
	if (a.isFloat() && math.IsNaN(a.f)) || (b.isFloat() && math.IsNaN(b.f)) {
		return 0, false
	}
	switch {
	case a.isFloat() && b.isFloat():
		return cmp.Compare(a.f, b.f), true
	case b.isFloat():
		return cmpIntFloat(a, b.f), true
	case a.isFloat():
		return -cmpIntFloat(b, a.f), true
	}
	return cmpIntegers(a, b), true
}

func cmpIntegers(a, b number) int {
	switch {
	case a.isInt && b.isInt:
		return cmp.Compare(a.i, b.i)
	case a.big && b.big:
		return cmp.Compare(a.u, b.u)
	case a.big:
		return 1
	}
	return -1
}

// cmpIntFloat compares the integer n with f without rounding n to a float.
func cmpIntFloat(n number, f float64) int {
	switch {
	case f >= 0x1p64:
		return -1
	case f < -0x1p63:
		return 1
	}
	t := math.Trunc(f)
	var whole number
	if t < 0x1p63 {
		whole = number{i: int64(t), isInt: true}
	} else {
		whole = number{u: uint64(t), big: true}
	}
	if c := cmpIntegers(n, whole); c != 0 {
		return c
	}
	// n equals the integral part, so the fraction decides
	return cmp.Compare(t, f)
}

// Equal is value equality over the kind set: ints and floats compare
// numerically across kinds, lists element-wise and maps key-wise.
func Equal(a, b any) bool {
	if na, ok := toNumber(a); ok {
		nb, ok := toNumber(b)
		if !ok {
			return false
		}
		// NaN is never equal to anything, itself included.
		sign, ordered := cmpNumbers(na, nb)
		return ordered && sign == 0
	}
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb {
		return false
	}
	switch ka {
	case KindNull:
		return true
	case KindBool:
		return a.(bool) == b.(bool)
	case KindStr:
		return a.(string) == b.(string)
	case KindList:
		xs, _ := Elements(a)
		ys, _ := Elements(b)
		if len(xs) != len(ys) {
			return false
		}
		for i := range xs {
			if !Equal(xs[i], ys[i]) {
				return false
			}
		}
		return true
	case KindMap:
		xm, _ := entries(a)
		ym, _ := entries(b)
		if len(xm) != len(ym) {
			return false
		}
		for k, xv := range xm {
			yv, ok := ym[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

const maxReprLen = 80

// Repr renders v compactly for diagnostics. Long renderings are truncated.
func Repr(v any) string {
	var b strings.Builder
	writeRepr(&b, v)
	s := b.String()
	if len(s) > maxReprLen {
		cut := maxReprLen - 3
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		return s[:cut] + "..."
	}
	return s
}

// Describe renders v prefixed with its kind, e.g. `int 5`.
func Describe(v any) string {
	return typeName(v) + " " + Repr(v)
}

func writeRepr(b *strings.Builder, v any) {
	switch KindOf(v) {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		b.WriteString(strconv.FormatBool(v.(bool)))
	case KindInt, KindFloat:
		n, _ := toNumber(v)
		b.WriteString(formatNumber(n))
	case KindStr:
		b.WriteString(strconv.Quote(v.(string)))
	case KindList:
		xs, _ := Elements(v)
		b.WriteByte('[')
		for i, x := range xs {
			if i > 0 {
				b.WriteString(", ")
			}
			writeRepr(b, x)
			if b.Len() > maxReprLen {
				break
			}
		}
		b.WriteByte(']')
	case KindMap:
		m, _ := entries(v)
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(k))
			b.WriteString(": ")
			writeRepr(b, m[k])
			if b.Len() > maxReprLen {
				break
			}
		}
		b.WriteByte('}')
	default:
		fmt.Fprintf(b, "%v", v)
	}
}

// formatNumber renders floats so that they always read back as floats.
func formatNumber(n number) string {
	switch {
	case n.isInt:
		return strconv.FormatInt(n.i, 10)
	case n.big:
		return strconv.FormatUint(n.u, 10)
	}
	s := strconv.FormatFloat(n.f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
