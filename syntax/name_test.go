package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewName(t *testing.T) {
	t.Run("equal texts intern to the same name", func(t *testing.T) {
		assert.Equal(t, NewName("socrates"), NewName("socrates"))
	})

	t.Run("different texts intern to different names", func(t *testing.T) {
		assert.NotEqual(t, NewName("socrates"), NewName("plato"))
	})

	t.Run("round trip", func(t *testing.T) {
		assert.Equal(t, "socrates", NewName("socrates").String())
	})
}
