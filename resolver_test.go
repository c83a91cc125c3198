package golp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lprolog/golp/syntax"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolverCycles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.elpi", "accumulate b.\nfact_a.\n")
	writeFile(t, dir, "b.elpi", "accumulate a.\nfact_b.\n")

	i := New()
	require.NoError(t, i.ParseFiles(a))

	t.Run("both files load", func(t *testing.T) {
		_, err := i.Solve(`fact_a`)
		assert.NoError(t, err)
		_, err = i.Solve(`fact_b`)
		assert.NoError(t, err)
	})

	t.Run("each file loads exactly once", func(t *testing.T) {
		assert.Len(t, i.program.Lookup(syntax.NewName("fact_a")), 1)
		assert.Len(t, i.program.Lookup(syntax.NewName("fact_b")), 1)
	})
}

func TestResolverDiamond(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "root.elpi", "accumulate left, right.\n")
	writeFile(t, dir, "left.elpi", "accumulate shared.\nfact_left.\n")
	writeFile(t, dir, "right.elpi", "accumulate shared.\nfact_right.\n")
	writeFile(t, dir, "shared.elpi", "fact_shared.\n")

	i := New()
	require.NoError(t, i.ParseFiles(root))

	t.Run("both branches of the accumulate list load", func(t *testing.T) {
		_, err := i.Solve(`fact_left`)
		assert.NoError(t, err)
		_, err = i.Solve(`fact_right`)
		assert.NoError(t, err)
	})

	t.Run("the shared file loads once", func(t *testing.T) {
		assert.Len(t, i.program.Lookup(syntax.NewName("fact_shared")), 1)
	})
}

func TestResolverExtensionFallback(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.elpi", "accumulate legacy.\n")
	writeFile(t, dir, "legacy.mod", "fact_legacy.\n")

	i := New()
	require.NoError(t, i.ParseFiles(main))
	_, err := i.Solve(`fact_legacy`)
	assert.NoError(t, err)
}

func TestResolverSignatureFiles(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "ops.elpi", "rel (a ## b).\n")
	writeFile(t, dir, "ops.sig", "sig ops.\ninfixl ## 145.\n")

	i := New()
	require.NoError(t, i.ParseFiles(main))

	b, err := i.Solve(`rel X`)
	require.NoError(t, err)
	assert.Equal(t, Bindings{"X": "## a b"}, b)
}

func TestResolverMissingFile(t *testing.T) {
	i := New()
	assert.Error(t, i.ParseFiles(filepath.Join(t.TempDir(), "missing.elpi")))
}
