package core

import (
	"cmp"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Kind ranks used to order values of different types against each other.
const (
	rankNil = iota
	rankBool
	rankNumber
	rankString
	rankTime
	rankOther
)

// Compare defines the total order used by OrderBy.
//
// Values of different kinds order as nil < bool < number < string < time < other.
// Numbers of any Go numeric type (and json.Number) compare by value, strings
// byte-wise, times chronologically and anything else by its fmt.Sprint text.
func Compare(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}

	switch ra {
	case rankNil:
		return 0
	case rankBool:
		ab, bb := reflect.ValueOf(a).Bool(), reflect.ValueOf(b).Bool()
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		default:
			return 1
		}
	case rankNumber:
		return compareNumbers(a, b)
	case rankString:
		return strings.Compare(asString(a), asString(b))
	case rankTime:
		return a.(time.Time).Compare(b.(time.Time))
	default:
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
}

// Equal reports whether two field values are the same for filtering purposes.
// Numbers are equal by value across types (1 == 1.0); everything else uses
// reflect.DeepEqual.
func Equal(a, b any) bool {
	if rank(a) == rankNumber && rank(b) == rankNumber {
		return compareNumbers(a, b) == 0
	}
	if rank(a) == rankString && rank(b) == rankString {
		return asString(a) == asString(b)
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Equal(tb)
		}
	}
	return reflect.DeepEqual(a, b)
}

func rank(v any) int {
	switch v.(type) {
	case nil:
		return rankNil
	case bool:
		return rankBool
	case json.Number:
		return rankNumber
	case string:
		return rankString
	case time.Time:
		return rankTime
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return rankNumber
	case reflect.String:
		return rankString
	case reflect.Bool:
		return rankBool
	}
	return rankOther
}

// asString handles named string types as well as plain strings.
func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return reflect.ValueOf(v).String()
}

// number is the normalized form of a numeric value. Integers keep their exact
// value so large ids do not collide after float conversion.
type number struct {
	i    int64
	u    uint64
	f    float64
	kind int // 0 signed, 1 unsigned, 2 float
}

func toNumber(v any) number {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return number{i: i, f: float64(i)}
		}
		f, _ := n.Float64()
		return number{f: f, kind: 2}
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{i: rv.Int(), f: float64(rv.Int())}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return number{u: rv.Uint(), f: float64(rv.Uint()), kind: 1}
	default:
		return number{f: rv.Float(), kind: 2}
	}
}

func compareNumbers(a, b any) int {
	na, nb := toNumber(a), toNumber(b)
	switch {
	case na.kind == 0 && nb.kind == 0:
		return cmp.Compare(na.i, nb.i)
	case na.kind == 1 && nb.kind == 1:
		return cmp.Compare(na.u, nb.u)
	case na.kind == 0 && nb.kind == 1:
		if na.i < 0 {
			return -1
		}
		return cmp.Compare(uint64(na.i), nb.u)
	case na.kind == 1 && nb.kind == 0:
		if nb.i < 0 {
			return 1
		}
		return cmp.Compare(na.u, uint64(nb.i))
	}
	return cmp.Compare(na.f, nb.f)
}
