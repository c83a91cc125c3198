package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lprolog/golp/syntax"
)

func TestIsVariableName(t *testing.T) {
	assert.True(t, IsVariableName(syntax.NewName("X")))
	assert.True(t, IsVariableName(syntax.NewName("_foo")))
	assert.True(t, IsVariableName(syntax.NewName("_")))
	assert.False(t, IsVariableName(syntax.NewName("x")))
	assert.False(t, IsVariableName(syntax.NewName("::")))
}

func translate(t *testing.T, tr *Translator, src syntax.Term) Term {
	t.Helper()
	out, err := tr.Translate(src, 0)
	require.NoError(t, err)
	return out
}

func TestTranslate(t *testing.T) {
	t.Run("constants become globals", func(t *testing.T) {
		tr := NewTranslator(NewStore(), nil)
		assert.Equal(t, global("socrates"), translate(t, tr, syntax.Atom("socrates")))
	})

	t.Run("literals pass through", func(t *testing.T) {
		tr := NewTranslator(NewStore(), nil)
		assert.Equal(t, Int(42), translate(t, tr, syntax.Int(42)))
		assert.Equal(t, String("x"), translate(t, tr, syntax.String("x")))
		assert.Equal(t, Float(1.5), translate(t, tr, syntax.Float(1.5)))
	})

	t.Run("occurrences of one variable share a cell", func(t *testing.T) {
		tr := NewTranslator(NewStore(), nil)
		x := syntax.Atom("X")
		src, err := syntax.Apply(syntax.Atom("f"), x, x)
		require.NoError(t, err)

		out := translate(t, tr, src).(*App)
		assert.Equal(t, out.Args[0], out.Args[1])

		vars := tr.Vars()
		require.Len(t, vars, 1)
		assert.Equal(t, out.Args[0], vars[syntax.NewName("X")])
	})

	t.Run("binder occurrences become levels", func(t *testing.T) {
		tr := NewTranslator(NewStore(), nil)
		src := &syntax.Lam{
			Param: syntax.NewName("x"),
			Body:  syntax.Atom("x"),
		}
		assert.Equal(t, &Lam{Body: Const(0)}, translate(t, tr, src))
	})

	t.Run("inner binders shadow outer ones", func(t *testing.T) {
		tr := NewTranslator(NewStore(), nil)
		src := &syntax.Lam{
			Param: syntax.NewName("x"),
			Body: &syntax.Lam{
				Param: syntax.NewName("x"),
				Body:  syntax.Atom("x"),
			},
		}
		assert.Equal(t, &Lam{Body: &Lam{Body: Const(1)}}, translate(t, tr, src))
	})

	t.Run("binders shadow variables of the same spelling", func(t *testing.T) {
		tr := NewTranslator(NewStore(), nil)
		src := &syntax.Lam{
			Param: syntax.NewName("X"),
			Body:  syntax.Atom("X"),
		}
		assert.Equal(t, &Lam{Body: Const(0)}, translate(t, tr, src))
		assert.Empty(t, tr.Vars())
	})

	t.Run("registered names become native invocations", func(t *testing.T) {
		reg := &Registry{}
		reg.Register("halt", func(int, []Term, *Store, []Term) ([]Term, error) { return nil, nil })

		tr := NewTranslator(NewStore(), reg)
		assert.Equal(t, &Custom{Name: syntax.NewName("halt")}, translate(t, tr, syntax.Atom("halt")))
	})

	t.Run("marked atoms become native invocations", func(t *testing.T) {
		tr := NewTranslator(NewStore(), nil)
		src := syntax.Custom(syntax.NewName("$print"))
		assert.Equal(t, &Custom{Name: syntax.NewName("$print")}, translate(t, tr, src))
	})

	t.Run("literal redexes contract", func(t *testing.T) {
		tr := NewTranslator(NewStore(), nil)
		src := &syntax.App{
			Head: &syntax.Lam{Param: syntax.NewName("x"), Body: syntax.Atom("x")},
			Args: []syntax.Term{syntax.Atom("a")},
		}
		assert.Equal(t, global("a"), translate(t, tr, src))
	})
}

func TestRegistry(t *testing.T) {
	t.Run("last registration wins", func(t *testing.T) {
		var called string
		r := &Registry{}
		r.Register("p", func(int, []Term, *Store, []Term) ([]Term, error) {
			called = "first"
			return nil, nil
		})
		r.Register("p", func(int, []Term, *Store, []Term) ([]Term, error) {
			called = "second"
			return nil, nil
		})

		cb, ok := r.Lookup(syntax.NewName("p"))
		require.True(t, ok)
		_, err := cb(0, nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "second", called)
	})

	t.Run("lookup misses", func(t *testing.T) {
		r := &Registry{}
		_, ok := r.Lookup(syntax.NewName("missing"))
		assert.False(t, ok)
		assert.False(t, r.Has(syntax.NewName("missing")))
	})
}
