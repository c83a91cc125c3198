// Package engine is the term and unification runtime: the dual term
// encoding (clause-local positional references vs. mutable heap cells),
// the attributed-cell constraint store, the custom-predicate registry and
// the binder-depth machinery. The clause-selection search loop lives
// outside this package and drives it through these types.
package engine

import (
	"github.com/lprolog/golp/syntax"
)

// Term is a runtime term.
type Term interface {
	term()
}

// Const is a constant: a de Bruijn level of an enclosing binder if
// nonnegative, a global constant otherwise.
type Const int

func (c Const) term() {}

// Global encodes an interned name as a global constant.
func Global(n syntax.Name) Const {
	return Const(-1 - int(n))
}

// GlobalName reports the interned name of a global constant.
func (c Const) GlobalName() (syntax.Name, bool) {
	if c >= 0 {
		return 0, false
	}
	return syntax.Name(-1 - int(c)), true
}

// Lam is a lambda abstraction. Its bound variable is the level equal to
// the binder depth of the body.
type Lam struct {
	Body Term
}

func (l *Lam) term() {}

// App is an application of a constant head to one or more arguments.
// Nested applications are flattened at construction.
type App struct {
	Head Const
	Args []Term
}

func (a *App) term() {}

// Arg is a positional reference to a clause-local variable: an index into
// the clause's argument frame. Arg only makes sense inside a clause body
// that has not been instantiated yet; it never appears in heap terms.
type Arg struct {
	Index int
	Arity int
}

func (a Arg) term() {}

// AppArg is a clause-local variable applied to arguments.
type AppArg struct {
	Index int
	Args  []Term
}

func (a AppArg) term() {}

// Ref addresses an attributed cell in a Store.
type Ref int

// NoRef is the absent cell, used as the "avoid" argument of Deref.
const NoRef Ref = -1

// UVar is an open unification variable: a heap cell observed at a binder
// depth. UVar never appears inside an uninstantiated clause body.
type UVar struct {
	Ref   Ref
	Depth int
	Arity int
}

func (v UVar) term() {}

// AppUVar is an open unification variable applied to arguments.
type AppUVar struct {
	Ref   Ref
	Depth int
	Args  []Term
}

func (v AppUVar) term() {}

// Custom is an invocation of a native predicate.
type Custom struct {
	Name syntax.Name
	Args []Term
}

func (c *Custom) term() {}

// String is a string literal.
type String string

func (s String) term() {}

// Int is an integer literal.
type Int int64

func (i Int) term() {}

// Float is a floating-point literal.
type Float float64

func (f Float) term() {}

// MkApp applies head to args, flattening if head is already an
// application, so an App never has an App as its head.
func MkApp(head Term, args []Term) Term {
	if len(args) == 0 {
		return head
	}
	switch head := head.(type) {
	case Const:
		return &App{Head: head, Args: args}
	case *App:
		merged := make([]Term, 0, len(head.Args)+len(args))
		merged = append(merged, head.Args...)
		merged = append(merged, args...)
		return &App{Head: head.Head, Args: merged}
	case UVar:
		return AppUVar{Ref: head.Ref, Depth: head.Depth, Args: args}
	case AppUVar:
		merged := make([]Term, 0, len(head.Args)+len(args))
		merged = append(merged, head.Args...)
		merged = append(merged, args...)
		return AppUVar{Ref: head.Ref, Depth: head.Depth, Args: merged}
	case Arg:
		return AppArg{Index: head.Index, Args: args}
	case AppArg:
		merged := make([]Term, 0, len(head.Args)+len(args))
		merged = append(merged, head.Args...)
		merged = append(merged, args...)
		return AppArg{Index: head.Index, Args: merged}
	case *Custom:
		merged := make([]Term, 0, len(head.Args)+len(args))
		merged = append(merged, head.Args...)
		merged = append(merged, args...)
		return &Custom{Name: head.Name, Args: merged}
	default:
		return head
	}
}
