package syntax

import (
	"fmt"
	"strconv"
	"strings"
)

// Term is a surface term as produced by the parser.
type Term interface {
	fmt.Stringer
	term()
}

// Const is an atom. Whether it is a constant or an implicitly quantified
// variable is decided later, by its spelling, when a clause or goal is
// compiled.
type Const Name

func (c Const) term() {}

func (c Const) String() string { return Name(c).String() }

// Custom is an atom naming a native predicate.
type Custom Name

func (c Custom) term() {}

func (c Custom) String() string { return Name(c).String() }

// App is an application of a head to one or more arguments.
// The head is never itself an App: Apply flattens.
type App struct {
	Head Term
	Args []Term
}

func (a *App) term() {}

func (a *App) String() string {
	var b strings.Builder
	_, _ = b.WriteString("(")
	_, _ = b.WriteString(a.Head.String())
	for _, arg := range a.Args {
		_, _ = b.WriteString(" ")
		_, _ = b.WriteString(arg.String())
	}
	_, _ = b.WriteString(")")
	return b.String()
}

// Lam is a lambda abstraction `param\ body`.
type Lam struct {
	Param Name
	Body  Term
}

func (l *Lam) term() {}

func (l *Lam) String() string {
	return l.Param.String() + `\ ` + l.Body.String()
}

// String is a string literal.
type String string

func (s String) term() {}

func (s String) String() string { return strconv.Quote(string(s)) }

// Int is an integer literal.
type Int int64

func (i Int) term() {}

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// Float is a floating-point literal.
type Float float64

func (f Float) term() {}

func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }

// InvalidHeadError is returned by Apply when the head is neither an atom
// nor an application.
type InvalidHeadError struct {
	Head Term
}

func (e *InvalidHeadError) Error() string {
	return fmt.Sprintf("not a valid program term: %s applied to arguments", e.Head)
}

// Apply builds an application of head to args. Applying an existing
// application appends to its argument list instead of nesting, so an App
// never appears as a bare head.
func Apply(head Term, args ...Term) (Term, error) {
	if len(args) == 0 {
		return head, nil
	}
	switch head := head.(type) {
	case Const, Custom:
		return &App{Head: head, Args: args}, nil
	case *App:
		merged := make([]Term, 0, len(head.Args)+len(args))
		merged = append(merged, head.Args...)
		merged = append(merged, args...)
		return &App{Head: head.Head, Args: merged}, nil
	default:
		return nil, &InvalidHeadError{Head: head}
	}
}

// Atom returns a Const for the given text.
func Atom(text string) Term {
	return Const(NewName(text))
}
