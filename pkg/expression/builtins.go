package expression

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/Shopify/go-lua"
	"github.com/Shopify/goluago/util"
)

// builtins are the functions callable from expressions, in addition to
// the internal helpers the translator emits.
var builtins = map[string]func(r *Runner) lua.Function{
	"iif":         func(*Runner) lua.Function { return iif },
	"empty":       func(*Runner) lua.Function { return isEmptyFn(true) },
	"notempty":    func(*Runner) lua.Function { return isEmptyFn(false) },
	"contains":    func(*Runner) lua.Function { return containsFn(true) },
	"notcontains": func(*Runner) lua.Function { return containsFn(false) },
	"anyof":       func(*Runner) lua.Function { return anyOf },
	"allof":       func(*Runner) lua.Function { return allOf },
	"sum":         func(*Runner) lua.Function { return aggregate(func(acc, v float64) float64 { return acc + v }, 0) },
	"min":         func(*Runner) lua.Function { return aggregate(math.Min, math.Inf(1)) },
	"max":         func(*Runner) lua.Function { return aggregate(math.Max, math.Inf(-1)) },
	"round":       func(*Runner) lua.Function { return round },
	"length":      func(*Runner) lua.Function { return length },
}

func isFunction(name string) bool {
	_, ok := builtins[strings.ToLower(name)]
	return ok
}

func (r *Runner) registerBuiltins(l *lua.State) {
	for name, fn := range builtins {
		l.Register(name, fn(r))
	}
	l.Register("__value", r.value)
	l.Register("__cmp", compare)
	l.Register("__add", add)
}

// value resolves {name} against the values of the current run: an exact
// key first, then a dotted path, each falling back to a case-insensitive
// key match.
func (r *Runner) value(l *lua.State) int {
	name := lua.CheckString(l, 1)
	v := lookup(r.values, name)
	if v == nil {
		l.PushNil()
		return 1
	}
	util.DeepPush(l, v)
	return 1
}

func lookup(values map[string]any, name string) any {
	if v, ok := findKey(values, name); ok {
		return v
	}
	var cur any = values
	for _, part := range strings.Split(name, ".") {
		switch m := cur.(type) {
		case map[string]any:
			v, ok := findKey(m, part)
			if !ok {
				return nil
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(m) {
				return nil
			}
			cur = m[i]
		default:
			return nil
		}
	}
	return cur
}

func findKey(m map[string]any, key string) (any, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// pull converts the Lua value at index to Go.
func pull(l *lua.State, index int) any {
	switch l.TypeOf(index) {
	case lua.TypeBoolean:
		return l.ToBoolean(index)
	case lua.TypeNumber:
		n, _ := l.ToNumber(index)
		return n
	case lua.TypeString:
		s, _ := l.ToString(index)
		return s
	case lua.TypeTable:
		v, err := util.PullTable(l, index)
		if err != nil {
			return nil
		}
		return v
	}
	return nil
}

// toNumber converts numbers and numeric strings.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// listItems returns the elements of a pulled table in order.
func listItems(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		items := make([]any, 0, len(keys))
		for _, k := range keys {
			items = append(items, t[k])
		}
		return items
	case nil:
		return nil
	}
	return []any{v}
}

func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

// equal compares numbers numerically when both sides convert, and
// strings case-insensitively.
func equal(a, b any) bool {
	if a == nil || b == nil {
		return isEmptyValue(a) && isEmptyValue(b)
	}
	if x, ok := toNumber(a); ok {
		if y, ok := toNumber(b); ok {
			return x == y
		}
	}
	if x, ok := a.(string); ok {
		if y, ok := b.(string); ok {
			return strings.EqualFold(strings.TrimSpace(x), strings.TrimSpace(y))
		}
	}
	if x, ok := a.([]any); ok {
		if y, ok := b.([]any); ok {
			return sameItems(x, y)
		}
	}
	return reflect.DeepEqual(a, b)
}

func sameItems(x, y []any) bool {
	if len(x) != len(y) {
		return false
	}
	for _, item := range x {
		if !containsItem(y, item) {
			return false
		}
	}
	return true
}

func containsItem(list []any, item any) bool {
	for _, v := range list {
		if equal(v, item) {
			return true
		}
	}
	return false
}

func compare(l *lua.State) int {
	op := lua.CheckString(l, 1)
	a, b := pull(l, 2), pull(l, 3)
	var res bool
	switch op {
	case "eq":
		res = equal(a, b)
	case "ne":
		res = !equal(a, b)
	default:
		res = order(op, a, b)
	}
	l.PushBoolean(res)
	return 1
}

func order(op string, a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	var c int
	x, okx := toNumber(a)
	y, oky := toNumber(b)
	switch {
	case okx && oky:
		c = cmpFloat(x, y)
	default:
		c = strings.Compare(strings.ToLower(fmt.Sprint(a)), strings.ToLower(fmt.Sprint(b)))
	}
	switch op {
	case "lt":
		return c < 0
	case "le":
		return c <= 0
	case "gt":
		return c > 0
	case "ge":
		return c >= 0
	}
	return false
}

func cmpFloat(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

// add sums numbers and concatenates anything else.
func add(l *lua.State) int {
	a, b := pull(l, 1), pull(l, 2)
	x, okx := toNumber(a)
	y, oky := toNumber(b)
	_, as := a.(string)
	_, bs := b.(string)
	if okx && oky && !as && !bs {
		l.PushNumber(x + y)
		return 1
	}
	l.PushString(stringify(a) + stringify(b))
	return 1
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func iif(l *lua.State) int {
	if l.ToBoolean(1) {
		l.PushValue(2)
	} else {
		l.PushValue(3)
	}
	return 1
}

func isEmptyFn(want bool) lua.Function {
	return func(l *lua.State) int {
		l.PushBoolean(isEmptyValue(pull(l, 1)) == want)
		return 1
	}
}

// containsFn tests whether the first argument, a list or a string,
// contains the second.
func containsFn(want bool) lua.Function {
	return func(l *lua.State) int {
		haystack, needle := pull(l, 1), pull(l, 2)
		var found bool
		if s, ok := haystack.(string); ok {
			found = strings.Contains(strings.ToLower(s), strings.ToLower(stringify(needle)))
		} else {
			items := listItems(haystack)
			found = len(items) > 0
			for _, n := range listItems(needle) {
				if !containsItem(items, n) {
					found = false
					break
				}
			}
		}
		l.PushBoolean(found == want)
		return 1
	}
}

func anyOf(l *lua.State) int {
	values, list := listItems(pull(l, 1)), listItems(pull(l, 2))
	for _, v := range values {
		if containsItem(list, v) {
			l.PushBoolean(true)
			return 1
		}
	}
	l.PushBoolean(false)
	return 1
}

func allOf(l *lua.State) int {
	values, list := listItems(pull(l, 1)), listItems(pull(l, 2))
	res := len(values) > 0
	for _, v := range list {
		if !containsItem(values, v) {
			res = false
			break
		}
	}
	l.PushBoolean(res)
	return 1
}

// aggregate folds every numeric argument, flattening lists.
func aggregate(fn func(acc, v float64) float64, start float64) lua.Function {
	return func(l *lua.State) int {
		acc := start
		seen := false
		for i := 1; i <= l.Top(); i++ {
			for _, item := range listItems(pull(l, i)) {
				if n, ok := toNumber(item); ok {
					acc = fn(acc, n)
					seen = true
				}
			}
		}
		if !seen {
			acc = 0
		}
		l.PushNumber(acc)
		return 1
	}
}

func round(l *lua.State) int {
	n, _ := toNumber(pull(l, 1))
	digits, _ := toNumber(pull(l, 2))
	scale := math.Pow(10, digits)
	l.PushNumber(math.Round(n*scale) / scale)
	return 1
}

func length(l *lua.State) int {
	switch v := pull(l, 1).(type) {
	case string:
		l.PushNumber(float64(len([]rune(v))))
	default:
		l.PushNumber(float64(len(listItems(v))))
	}
	return 1
}
