package object

import (
	"math"
	"strconv"
	"strings"
)

type ObjectType string

// Type names as reported by `get type of`.
const (
	INTEGER_OBJ  ObjectType = "int"
	FLOAT_OBJ    ObjectType = "float"
	TEXT_OBJ     ObjectType = "str"
	BOOLEAN_OBJ  ObjectType = "bool"
	NULL_OBJ     ObjectType = "null"
	LIST_OBJ     ObjectType = "list"
	DICT_OBJ     ObjectType = "dict"
	FUNCTION_OBJ ObjectType = "function"
)

type Object interface {
	Type() ObjectType
	Inspect() string
}

var (
	NULL  = &Null{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }

type Float struct {
	Value float64
}

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) Inspect() string  { return FormatFloat(f.Value) }

// FormatFloat renders the shortest round-trip form, keeping a trailing ".0" for integral
// values and switching to exponent form for very small or very large magnitudes.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if abs := math.Abs(f); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

type Text struct {
	Value string
}

func (t *Text) Type() ObjectType { return TEXT_OBJ }
func (t *Text) Inspect() string  { return t.Value }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }

type List struct {
	Elements []Object
}

func (l *List) Type() ObjectType { return LIST_OBJ }
func (l *List) Inspect() string {
	parts := make([]string, len(l.Elements))
	for i, el := range l.Elements {
		parts[i] = Repr(el)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Remove drops the first element equal to value and reports whether one was found.
func (l *List) Remove(value Object) bool {
	for i, el := range l.Elements {
		if Equal(el, value) {
			l.Elements = append(l.Elements[:i], l.Elements[i+1:]...)
			return true
		}
	}
	return false
}

// Dict keeps its keys in insertion order.
type Dict struct {
	keys   []string
	values map[string]Object
}

func NewDict() *Dict {
	return &Dict{values: make(map[string]Object)}
}

func (d *Dict) Type() ObjectType { return DICT_OBJ }
func (d *Dict) Inspect() string {
	parts := make([]string, len(d.keys))
	for i, k := range d.keys {
		parts[i] = strconv.Quote(k) + ": " + Repr(d.values[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (d *Dict) Get(key string) (Object, bool) {
	v, ok := d.values[key]
	return v, ok
}

func (d *Dict) Set(key string, value Object) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

func (d *Dict) Delete(key string) bool {
	if _, ok := d.values[key]; !ok {
		return false
	}
	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
	return true
}

func (d *Dict) Keys() []string {
	return append([]string(nil), d.keys...)
}

func (d *Dict) Len() int { return len(d.keys) }

// FunctionRef names a user function or builtin.
type FunctionRef struct {
	Name string
}

func (f *FunctionRef) Type() ObjectType { return FUNCTION_OBJ }
func (f *FunctionRef) Inspect() string  { return "<function " + f.Name + ">" }

// Repr renders a value as it appears inside a list or dict: text is quoted.
func Repr(o Object) string {
	if t, ok := o.(*Text); ok {
		return strconv.Quote(t.Value)
	}
	return o.Inspect()
}

func NativeBool(b bool) *Boolean {
	if b {
		return TRUE
	}
	return FALSE
}

// Truthy treats false, zero, the empty text and null as false.
func Truthy(o Object) bool {
	switch v := o.(type) {
	case nil, *Null:
		return false
	case *Boolean:
		return v.Value
	case *Integer:
		return v.Value != 0
	case *Float:
		return v.Value != 0
	case *Text:
		return v.Value != ""
	}
	return true
}

// ToFloat reports the numeric value of integers and floats.
func ToFloat(o Object) (float64, bool) {
	switch v := o.(type) {
	case *Integer:
		return float64(v.Value), true
	case *Float:
		return v.Value, true
	}
	return 0, false
}

func IsNumber(o Object) bool {
	_, ok := ToFloat(o)
	return ok
}

// Equal compares numbers by value across integer and float, and everything else
// structurally.
func Equal(a, b Object) bool {
	if fa, ok := ToFloat(a); ok {
		fb, ok := ToFloat(b)
		return ok && fa == fb
	}
	switch av := a.(type) {
	case *Text:
		bv, ok := b.(*Text)
		return ok && av.Value == bv.Value
	case *Boolean:
		bv, ok := b.(*Boolean)
		return ok && av.Value == bv.Value
	case *Null:
		_, ok := b.(*Null)
		return ok
	case *FunctionRef:
		bv, ok := b.(*FunctionRef)
		return ok && av.Name == bv.Name
	case *List:
		bv, ok := b.(*List)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Dict:
		bv, ok := b.(*Dict)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, k := range av.keys {
			other, ok := bv.values[k]
			if !ok || !Equal(av.values[k], other) {
				return false
			}
		}
		return true
	}
	return false
}

// Compare orders two numbers or two texts. ok is false for any other pairing.
func Compare(a, b Object) (result int, ok bool) {
	if fa, isNum := ToFloat(a); isNum {
		fb, isNum := ToFloat(b)
		if !isNum {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	}
	at, aok := a.(*Text)
	bt, bok := b.(*Text)
	if !aok || !bok {
		return 0, false
	}
	return strings.Compare(at.Value, bt.Value), true
}

// Copy returns a value that shares no mutable state with o.
func Copy(o Object) Object {
	switch v := o.(type) {
	case *List:
		out := &List{Elements: make([]Object, len(v.Elements))}
		for i, el := range v.Elements {
			out.Elements[i] = Copy(el)
		}
		return out
	case *Dict:
		out := NewDict()
		for _, k := range v.keys {
			out.Set(k, Copy(v.values[k]))
		}
		return out
	}
	return o
}
