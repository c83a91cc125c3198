package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionDeclare(t *testing.T) {
	t.Run("ladder stays strictly descending", func(t *testing.T) {
		s := NewSession()
		require.NoError(t, s.Declare(FixityInfixl, NewName("+"), 150))
		require.NoError(t, s.Declare(FixityInfixr, NewName(";"), 100))
		require.NoError(t, s.Declare(FixityInfixl, NewName("*"), 160))
		require.NoError(t, s.Declare(FixityInfix, NewName("="), 130))
		assert.Equal(t, []int{160, 150, 130, 100}, s.Ladder())
	})

	t.Run("exact precedence reuses the level", func(t *testing.T) {
		s := NewSession()
		require.NoError(t, s.Declare(FixityInfixl, NewName("+"), 150))
		require.NoError(t, s.Declare(FixityInfixl, NewName("-"), 150))
		assert.Equal(t, []int{150}, s.Ladder())
	})

	t.Run("redeclaration overwrites", func(t *testing.T) {
		s := NewSession()
		require.NoError(t, s.Declare(FixityInfixl, NewName("&"), 150))
		require.NoError(t, s.Declare(FixityInfixr, NewName("&"), 90))
		op, ok := s.Operator(NewName("&"))
		require.True(t, ok)
		assert.Equal(t, FixityInfixr, op.Fix)
		assert.Equal(t, 90, op.Prec)
		// The old level survives; the ladder never shrinks.
		assert.Equal(t, []int{150, 90}, s.Ladder())
	})

	t.Run("precedence out of range", func(t *testing.T) {
		s := NewSession()
		var prec *PrecedenceError
		assert.ErrorAs(t, s.Declare(FixityInfix, NewName("?"), 257), &prec)
		assert.ErrorAs(t, s.Declare(FixityInfix, NewName("?"), -1), &prec)
	})

	t.Run("declared consults the operator set", func(t *testing.T) {
		s := NewSession()
		assert.False(t, s.Declared("+"))
		require.NoError(t, s.Declare(FixityInfixl, NewName("+"), 150))
		assert.True(t, s.Declared("+"))
	})
}

func TestSessionFreshName(t *testing.T) {
	s := NewSession()
	a, b, c := s.FreshName(), s.FreshName(), s.FreshName()
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, b, c)
	assert.NotEqual(t, a, c)
}
