package object

import (
	"fmt"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	dict := NewDict()
	dict.Set("name", &Text{Value: "Bob"})
	dict.Set("age", &Integer{Value: 30})

	tests := []struct {
		obj  Object
		want string
	}{
		{&Integer{Value: -7}, "-7"},
		{&Float{Value: 2}, "2.0"},
		{&Float{Value: 0.1 + 0.2}, "0.30000000000000004"},
		{&Float{Value: 1.5}, "1.5"},
		{&Float{Value: 1e16}, "1e+16"},
		{&Float{Value: 0.00001}, "1e-05"},
		{&Float{Value: 0.0001}, "0.0001"},
		{&Float{Value: math.Inf(-1)}, "-inf"},
		{&Text{Value: "plain"}, "plain"},
		{TRUE, "true"},
		{NULL, "null"},
		{&List{Elements: []Object{&Integer{Value: 1}, &Text{Value: "a"}, &List{}}}, `[1, "a", []]`},
		{dict, `{"name": "Bob", "age": 30}`},
		{&FunctionRef{Name: "adder"}, "<function adder>"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.obj.Inspect())
		})
	}
}

func TestTruthy(t *testing.T) {
	falsy := []Object{FALSE, NULL, &Integer{}, &Float{}, &Text{}, nil}
	for _, o := range falsy {
		assert.False(t, Truthy(o), "%#v", o)
	}
	truthy := []Object{TRUE, &Integer{Value: -1}, &Float{Value: 0.5}, &Text{Value: "false"}, &List{}, NewDict()}
	for _, o := range truthy {
		assert.True(t, Truthy(o), "%#v", o)
	}
}

func TestEqualAndCompare(t *testing.T) {
	assert.True(t, Equal(&Integer{Value: 2}, &Float{Value: 2}))
	assert.False(t, Equal(&Integer{Value: 2}, &Text{Value: "2"}))
	assert.True(t, Equal(NULL, &Null{}))
	assert.True(t, Equal(
		&List{Elements: []Object{&Integer{Value: 1}, &Text{Value: "x"}}},
		&List{Elements: []Object{&Float{Value: 1}, &Text{Value: "x"}}},
	))

	c, ok := Compare(&Integer{Value: 1}, &Float{Value: 1.5})
	require.True(t, ok)
	assert.Equal(t, -1, c)

	c, ok = Compare(&Text{Value: "b"}, &Text{Value: "a"})
	require.True(t, ok)
	assert.Equal(t, 1, c)

	_, ok = Compare(&Text{Value: "b"}, &Integer{Value: 1})
	assert.False(t, ok)
}

func TestDictKeepsInsertionOrder(t *testing.T) {
	d := NewDict()
	d.Set("b", &Integer{Value: 1})
	d.Set("a", &Integer{Value: 2})
	d.Set("b", &Integer{Value: 3})
	assert.Equal(t, []string{"b", "a"}, d.Keys())

	assert.True(t, d.Delete("b"))
	assert.False(t, d.Delete("missing"))
	assert.Equal(t, []string{"a"}, d.Keys())
	assert.Equal(t, 1, d.Len())
}

func TestListRemove(t *testing.T) {
	l := &List{Elements: []Object{&Integer{Value: 1}, &Integer{Value: 2}, &Integer{Value: 1}}}
	assert.True(t, l.Remove(&Integer{Value: 1}))
	assert.Equal(t, "[2, 1]", l.Inspect())
	assert.False(t, l.Remove(&Text{Value: "1"}))
}

func TestCopyIsDeep(t *testing.T) {
	inner := &List{Elements: []Object{&Integer{Value: 1}}}
	outer := &List{Elements: []Object{inner}}
	cp := Copy(outer).(*List)
	inner.Elements = append(inner.Elements, &Integer{Value: 2})
	assert.Equal(t, "[[1]]", cp.Inspect())
}

func TestEnvironmentScopes(t *testing.T) {
	global := NewEnvironment()
	global.Set("x", &Integer{Value: 1})
	global.Set("y", &Integer{Value: 2})

	local := NewEnclosedEnvironment(global)
	local.Set("x", &Integer{Value: 10})

	v, ok := local.Get("x")
	require.True(t, ok)
	assert.Equal(t, "10", v.Inspect())

	v, ok = local.Get("y")
	require.True(t, ok)
	assert.Equal(t, "2", v.Inspect())

	v, _ = global.Get("x")
	assert.Equal(t, "1", v.Inspect())
	assert.Equal(t, 1, local.Depth())

	assert.True(t, local.Delete("x"))
	v, _ = local.Get("x")
	assert.Equal(t, "1", v.Inspect())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	obj := r.EnsureObject("Main")
	assert.Same(t, obj, r.EnsureObject("Main"))

	obj.AddButton("Ok")
	obj.AddButton("Ok")
	assert.Equal(t, []string{"Ok"}, obj.Buttons)

	r.Import("utils.caml", []string{"helpers"})
	names, ok := r.Module("utils.caml")
	require.True(t, ok)
	assert.Equal(t, []string{"helpers"}, names)

	r.Export("a", "b")
	assert.Equal(t, []string{"a", "b"}, r.Exports())
}

func TestRuntimeErrorMatching(t *testing.T) {
	err := &RuntimeError{Kind: DivisionByZero, Statement: "Update", Line: 2, Message: "division by zero"}
	wrapped := errors.Wrap(err, "run failed")

	assert.True(t, errors.Is(wrapped, &RuntimeError{Kind: DivisionByZero}))
	assert.False(t, errors.Is(wrapped, &RuntimeError{Kind: TypeMismatch}))
	assert.True(t, IsKind(wrapped, DivisionByZero))
	assert.False(t, IsKind(fmt.Errorf("plain"), DivisionByZero))
	assert.Equal(t, "DivisionByZero at line 2 (Update): division by zero", err.Error())
}
