package engine

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lprolog/golp/syntax"
)

func TestSprint(t *testing.T) {
	s := NewStore()

	t.Run("atoms and literals", func(t *testing.T) {
		assert.Equal(t, "foo", Sprint(global("foo"), s, nil, 0, nil))
		assert.Equal(t, "42", Sprint(Int(42), s, nil, 0, nil))
		assert.Equal(t, "1.5", Sprint(Float(1.5), s, nil, 0, nil))
		assert.Equal(t, `"hi"`, Sprint(String("hi"), s, nil, 0, nil))
	})

	t.Run("applications parenthesize only when nested", func(t *testing.T) {
		inner := &App{Head: global("g"), Args: []Term{global("b")}}
		outer := &App{Head: global("f"), Args: []Term{global("a"), inner}}
		assert.Equal(t, "f a (g b)", Sprint(outer, s, nil, 0, nil))
	})

	t.Run("abstractions invent binder names", func(t *testing.T) {
		lam := &Lam{Body: &App{Head: global("f"), Args: []Term{Const(0)}}}
		assert.Equal(t, `x0\ f x0`, Sprint(lam, s, nil, 0, nil))
	})

	t.Run("bound levels use the name stack", func(t *testing.T) {
		names := []syntax.Name{syntax.NewName("v")}
		assert.Equal(t, "v", Sprint(Const(0), s, names, 1, nil))
	})

	t.Run("unbound cells", func(t *testing.T) {
		r := s.NewCell()
		assert.Equal(t, "_0", Sprint(UVar{Ref: r}, s, nil, 0, nil))
	})

	t.Run("bound cells render their value", func(t *testing.T) {
		r := s.NewCell()
		s.Bind(r, global("a"))
		assert.Equal(t, "a", Sprint(UVar{Ref: r}, s, nil, 0, nil))
	})

	t.Run("clause slots", func(t *testing.T) {
		assert.Equal(t, "_A0", Sprint(Arg{Index: 0}, s, nil, 0, nil))
	})

	t.Run("native invocations", func(t *testing.T) {
		c := &Custom{Name: syntax.NewName("$print"), Args: []Term{global("a")}}
		assert.Equal(t, "$print a", Sprint(c, s, nil, 0, nil))
	})
}

func TestSprintInternal(t *testing.T) {
	s := NewStore()

	t.Run("globals show their id", func(t *testing.T) {
		out := Sprint(global("foo"), s, nil, 0, nil, WithInternal())
		assert.Contains(t, out, "foo/")
	})

	t.Run("cells show their ref", func(t *testing.T) {
		r := s.NewCell()
		out := Sprint(UVar{Ref: r}, s, nil, 0, nil, WithInternal())
		assert.Equal(t, "?"+strconv.Itoa(int(r)), out)
	})

	t.Run("slots keep their index", func(t *testing.T) {
		assert.Equal(t, "A1", Sprint(Arg{Index: 1}, s, nil, 0, nil, WithInternal()))
	})
}
