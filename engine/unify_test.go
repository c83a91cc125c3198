package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifyRigid(t *testing.T) {
	s := NewStore()

	cases := []struct {
		title string
		a, b  Term
		want  bool
	}{
		{"equal atoms", global("a"), global("a"), true},
		{"different atoms", global("a"), global("b"), false},
		{"equal integers", Int(42), Int(42), true},
		{"different integers", Int(42), Int(43), false},
		{"equal strings", String("x"), String("x"), true},
		{"atom against structure", global("a"), &App{Head: global("f"), Args: []Term{global("a")}}, false},
		{
			"matching structures",
			&App{Head: global("f"), Args: []Term{global("a"), global("b")}},
			&App{Head: global("f"), Args: []Term{global("a"), global("b")}},
			true,
		},
		{
			"arity mismatch",
			&App{Head: global("f"), Args: []Term{global("a")}},
			&App{Head: global("f"), Args: []Term{global("a"), global("b")}},
			false,
		},
		{
			"abstraction bodies unify under the binder",
			&Lam{Body: Const(0)},
			&Lam{Body: Const(0)},
			true,
		},
		{
			"abstraction against atom",
			&Lam{Body: Const(0)},
			global("a"),
			false,
		},
	}
	for _, c := range cases {
		t.Run(c.title, func(t *testing.T) {
			mark := s.Mark()
			ok, err := s.Unify(0, c.a, c.b, nil)
			require.NoError(t, err)
			assert.Equal(t, c.want, ok)
			s.Undo(mark)
		})
	}
}

func TestUnifyBinding(t *testing.T) {
	t.Run("heap variable takes the other side", func(t *testing.T) {
		s := NewStore()
		r := s.NewCell()
		ok, err := s.Unify(0, UVar{Ref: r}, global("a"), nil)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, global("a"), s.Value(r))
	})

	t.Run("same cell on both sides", func(t *testing.T) {
		s := NewStore()
		r := s.NewCell()
		ok, err := s.Unify(0, UVar{Ref: r}, UVar{Ref: r}, nil)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("self-reference fails instead of building an infinite term", func(t *testing.T) {
		s := NewStore()
		r := s.NewCell()
		ok, err := s.Unify(0, UVar{Ref: r}, &App{Head: global("f"), Args: []Term{UVar{Ref: r}}}, nil)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("clause slot is assigned without a cell", func(t *testing.T) {
		s := NewStore()
		env := make([]Term, 1)
		ok, err := s.Unify(0, global("a"), Arg{Index: 0}, env)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, global("a"), env[0])
	})

	t.Run("structure match assigns nested slots", func(t *testing.T) {
		s := NewStore()
		env := make([]Term, 2)
		goal := &App{Head: global("f"), Args: []Term{global("a"), global("b")}}
		head := &App{Head: global("f"), Args: []Term{Arg{Index: 0}, Arg{Index: 1}}}

		ok, err := s.Unify(0, goal, head, env)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, global("a"), env[0])
		assert.Equal(t, global("b"), env[1])
	})

	t.Run("failed match leaves bindings for the caller to undo", func(t *testing.T) {
		s := NewStore()
		r := s.NewCell()
		mark := s.Mark()
		goal := &App{Head: global("f"), Args: []Term{UVar{Ref: r}, global("a")}}
		head := &App{Head: global("f"), Args: []Term{global("b"), global("c")}}

		ok, err := s.Unify(0, goal, head, nil)
		require.NoError(t, err)
		require.False(t, ok)
		assert.Equal(t, global("b"), s.Value(r))

		s.Undo(mark)
		assert.Nil(t, s.Value(r))
	})

	t.Run("deeper term is restricted to the cell depth", func(t *testing.T) {
		s := NewStore()
		r := s.NewCell() // cell at depth 0
		// A reference to the binder at level 0 is not visible at depth 0's
		// cell horizon when the goal sits under one binder.
		ok, err := s.Unify(1, UVar{Ref: r, Depth: 0}, Const(0), nil)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestUnifySuspendsFlexApplied(t *testing.T) {
	s := NewStore()
	r := s.NewCell()
	a := AppUVar{Ref: r, Args: []Term{global("a")}}

	ok, err := s.Unify(0, a, global("b"), nil)
	require.NoError(t, err)
	require.True(t, ok, "a flex-applied equation suspends instead of failing")

	ids := s.StuckOn(r)
	require.Len(t, ids, 1)
	g := s.Goal(ids[0])
	assert.Equal(t, GoalConstraint, g.Kind)

	app, isApp := g.Goal.(*App)
	require.True(t, isApp)
	assert.Equal(t, global("="), app.Head)
}
