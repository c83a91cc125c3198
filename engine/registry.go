package engine

import (
	"errors"

	"github.com/lprolog/golp/syntax"
)

// ErrNoClause is the universal control-flow failure: a predicate or goal
// has no (more) solutions. It is cheap to propagate and must never be
// confused with a defect; malformed term shapes fed to a callback are
// reported as distinct errors.
var ErrNoClause = errors.New("no applicable clause")

// Builtin is a native predicate. It receives the current binder depth,
// the enclosing clause's argument frame, the store and its argument
// terms, and either fails with ErrNoClause or returns goals to be solved
// in order. Argument terms must be dereferenced before being retained
// beyond the call; cells may be rebound or rolled back afterwards.
type Builtin func(depth int, env []Term, s *Store, args []Term) ([]Term, error)

// Registry maps predicate names to native callbacks. It is the sole
// extension point for adding built-ins without modifying the engine.
// Entries are added at startup or extension time and never removed.
type Registry struct {
	builtins map[syntax.Name]Builtin
}

// Register installs a native predicate under name. Re-registering a name
// overwrites the previous callback; the last write wins.
func (r *Registry) Register(name string, b Builtin) {
	if r.builtins == nil {
		r.builtins = map[syntax.Name]Builtin{}
	}
	r.builtins[syntax.NewName(name)] = b
}

// Lookup finds the callback for a name. Lookup is by interned-name
// identity, never by text comparison.
func (r *Registry) Lookup(n syntax.Name) (Builtin, bool) {
	b, ok := r.builtins[n]
	return b, ok
}

// Has reports whether a native predicate is registered under n.
func (r *Registry) Has(n syntax.Name) bool {
	_, ok := r.builtins[n]
	return ok
}
