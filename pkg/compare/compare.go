// Package compare implements the generic three-way value comparison used to order items by
// their properties.
//
// Values are first ordered by kind and only then by content:
//
//	undefined < nil < bool < number < string < time < list < other
//
// Undefined is the value of a property that does not exist on an item, nil is a property that
// exists but holds no value. Within a kind:
//   - bool: false < true.
//   - number: all Go integer and float kinds and json.Number, compared by numeric value.
//     Integers are compared exactly, also against floats, so the order stays transitive
//     beyond 2^53. NaN sorts before every other number and equals NaN.
//   - string: byte-wise order, see Collated for a locale-aware alternative.
//   - time: time.Time in chronological order. Times rank below lists and other values, which
//     departs from Ember's compare where dates sort after objects.
//   - list: slices and arrays, element-wise, a prefix sorts before the longer list.
//   - other: values of the same dynamic type implementing Comparable are compared by their
//     Compare method, anything else compares equal.
package compare

import (
	"cmp"
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Comparator is a three-way comparison: negative when a < b, zero when equal, positive when
// a > b. A Comparator must define a total order.
type Comparator func(a, b any) int

// Comparable can be implemented by item property values to define their own order.
type Comparable interface {
	Compare(other any) int
}

type undefined struct{}

func (undefined) String() string { return "<undefined>" }

// Undefined marks a property that is missing from an item.
var Undefined any = undefined{}

// IsUndefined reports whether v is the Undefined marker.
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// Compare is the default Comparator.
func Compare(a, b any) int {
	return compareWith(a, b, strings.Compare)
}

type kind int

const (
	kindUndefined kind = iota
	kindNil
	kindBool
	kindNumber
	kindString
	kindTime
	kindList
	kindOther
)

func compareWith(a, b any, strcmp func(a, b string) int) int {
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		return cmp.Compare(ka, kb)
	}

	switch ka {
	case kindUndefined, kindNil:
		return 0
	case kindBool:
		return compareBool(reflect.ValueOf(a).Bool(), reflect.ValueOf(b).Bool())
	case kindNumber:
		return compareNumber(a, b)
	case kindString:
		return strcmp(reflect.ValueOf(a).String(), reflect.ValueOf(b).String())
	case kindTime:
		return asTime(a).Compare(asTime(b))
	case kindList:
		return compareList(a, b, strcmp)
	default:
		if reflect.TypeOf(a) != reflect.TypeOf(b) {
			return 0
		}
		if c, ok := a.(Comparable); ok {
			return cmp.Compare(c.Compare(b), 0)
		}
		return 0
	}
}

func kindOf(v any) kind {
	if v == nil {
		return kindNil
	}
	if IsUndefined(v) {
		return kindUndefined
	}

	switch v.(type) {
	case json.Number:
		return kindNumber
	case time.Time, *time.Time:
		if t, ok := v.(*time.Time); ok && t == nil {
			return kindNil
		}
		return kindTime
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() { //nolint:exhaustive
	case reflect.Bool:
		return kindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return kindNumber
	case reflect.String:
		return kindString
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return kindNil
		}
		return kindList
	case reflect.Pointer, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return kindNil
		}
	}

	return kindOther
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

type numberForm int

const (
	formInt numberForm = iota
	formUint
	formFloat
)

const (
	two63 = float64(1 << 63)
	two64 = float64(1 << 64)
)

// number holds a numeric value exactly as an int64, as a uint64 above math.MaxInt64, or as a
// float.
type number struct {
	i    int64
	u    uint64
	f    float64
	form numberForm
}

func asNumber(v any) number {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return number{i: i}
		}
		if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
			return number{u: u, form: formUint}
		}
		f, err := n.Float64()
		if err != nil {
			return number{f: math.NaN(), form: formFloat}
		}
		return number{f: f, form: formFloat}
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() { //nolint:exhaustive
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{i: rv.Int()}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u <= math.MaxInt64 {
			return number{i: int64(u)}
		}
		return number{u: u, form: formUint}
	default:
		return number{f: rv.Float(), form: formFloat}
	}
}

// compareFloat compares an exact number with a float without rounding the number.
func (n number) compareFloat(f float64) int {
	// NaN sorts before every other number
	if math.IsNaN(f) {
		return 1
	}

	fl := math.Floor(f)
	var c int
	if n.form == formUint {
		switch {
		case fl < two63:
			return 1
		case fl >= two64:
			return -1
		}
		c = cmp.Compare(n.u, uint64(fl))
	} else {
		switch {
		case fl < -two63:
			return 1
		case fl >= two63:
			return -1
		}
		c = cmp.Compare(n.i, int64(fl))
	}

	if c != 0 {
		return c
	}
	if f > fl {
		return -1
	}
	return 0
}

func compareNumber(a, b any) int {
	na, nb := asNumber(a), asNumber(b)
	switch {
	case na.form == formFloat && nb.form == formFloat:
		// cmp.Compare orders NaN before any other float
		return cmp.Compare(na.f, nb.f)
	case na.form == formFloat:
		return -nb.compareFloat(na.f)
	case nb.form == formFloat:
		return na.compareFloat(nb.f)
	case na.form == formUint && nb.form == formUint:
		return cmp.Compare(na.u, nb.u)
	case na.form == formUint:
		return 1
	case nb.form == formUint:
		return -1
	default:
		return cmp.Compare(na.i, nb.i)
	}
}

func asTime(v any) time.Time {
	if t, ok := v.(*time.Time); ok {
		return *t
	}
	return v.(time.Time)
}

func compareList(a, b any, strcmp func(a, b string) int) int {
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	n := min(ra.Len(), rb.Len())
	for i := 0; i < n; i++ {
		if c := compareWith(ra.Index(i).Interface(), rb.Index(i).Interface(), strcmp); c != 0 {
			return c
		}
	}
	return cmp.Compare(ra.Len(), rb.Len())
}
