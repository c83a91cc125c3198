package golp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lprolog/golp/engine"
	"github.com/lprolog/golp/syntax"
)

func surface(t *testing.T, head syntax.Term, args ...syntax.Term) syntax.Term {
	t.Helper()
	out, err := syntax.Apply(head, args...)
	require.NoError(t, err)
	return out
}

func TestCompileClause(t *testing.T) {
	t.Run("fact", func(t *testing.T) {
		c, err := compileClause(surface(t, syntax.Atom("father"), syntax.Atom("tom"), syntax.Atom("bob")), nil)
		require.NoError(t, err)
		assert.Equal(t, syntax.NewName("father"), c.Key)
		assert.Nil(t, c.Body)
		assert.Zero(t, c.Vars)
	})

	t.Run("variables become frame slots", func(t *testing.T) {
		x := syntax.Atom("X")
		c, err := compileClause(surface(t, syntax.Atom("eq"), x, x), nil)
		require.NoError(t, err)
		assert.Equal(t, 1, c.Vars)

		head := c.Head.(*engine.App)
		assert.Equal(t, engine.Arg{Index: 0}, head.Args[0])
		assert.Equal(t, engine.Arg{Index: 0}, head.Args[1])
	})

	t.Run("rule splits on the neck", func(t *testing.T) {
		rule := surface(t, syntax.Atom(":-"),
			surface(t, syntax.Atom("mortal"), syntax.Atom("X")),
			surface(t, syntax.Atom("human"), syntax.Atom("X")),
		)
		c, err := compileClause(rule, nil)
		require.NoError(t, err)
		assert.Equal(t, syntax.NewName("mortal"), c.Key)
		require.NotNil(t, c.Body)
		assert.Equal(t, 1, c.Vars, "head and body share the slot")
	})

	t.Run("binders compile to levels", func(t *testing.T) {
		lam := &syntax.Lam{Param: syntax.NewName("x"), Body: syntax.Atom("x")}
		c, err := compileClause(surface(t, syntax.Atom("p"), lam), nil)
		require.NoError(t, err)

		head := c.Head.(*engine.App)
		assert.Equal(t, &engine.Lam{Body: engine.Const(0)}, head.Args[0])
		assert.Zero(t, c.Vars)
	})

	t.Run("flexible head is rejected", func(t *testing.T) {
		_, err := compileClause(surface(t, syntax.Atom("X"), syntax.Atom("a")), nil)
		assert.Error(t, err)
	})

	t.Run("native predicate head is rejected", func(t *testing.T) {
		head := syntax.Custom(syntax.NewName("$print"))
		_, err := compileClause(surface(t, head, syntax.Atom("a")), nil)
		assert.Error(t, err)
	})
}

func TestProgram(t *testing.T) {
	p := NewProgram()
	a, err := compileClause(surface(t, syntax.Atom("p"), syntax.Atom("a")), nil)
	require.NoError(t, err)
	b, err := compileClause(surface(t, syntax.Atom("p"), syntax.Atom("b")), nil)
	require.NoError(t, err)
	p.Add(a)
	p.Add(b)

	assert.Equal(t, []*Clause{a, b}, p.Lookup(syntax.NewName("p")), "source order is search order")
	assert.Empty(t, p.Lookup(syntax.NewName("q")))
}
