package engine

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/lprolog/golp/syntax"
)

// IsVariableName reports whether a surface name spells an implicitly
// quantified variable: the leading rune is uppercase or an underscore.
func IsVariableName(n syntax.Name) bool {
	r, _ := utf8.DecodeRuneInString(n.String())
	return r == '_' || unicode.IsUpper(r)
}

// Translator turns surface terms into runtime terms for use as goals.
// Occurrences of the same variable name within one translator share one
// heap cell; binder occurrences become de Bruijn levels.
type Translator struct {
	Store    *Store
	Registry *Registry

	vars  map[syntax.Name]UVar
	names []syntax.Name
}

// NewTranslator creates a translator allocating cells in s. reg marks
// registered names as native-predicate invocations and may be nil.
func NewTranslator(s *Store, reg *Registry) *Translator {
	return &Translator{
		Store:    s,
		Registry: reg,
		vars:     map[syntax.Name]UVar{},
	}
}

// Vars returns the heap cell of every free variable seen so far, by
// surface name.
func (tr *Translator) Vars() map[syntax.Name]UVar {
	out := make(map[syntax.Name]UVar, len(tr.vars))
	for n, v := range tr.vars {
		out[n] = v
	}
	return out
}

// Translate converts a surface term into a runtime term at the given
// binder depth. tr.names must hold the names of the depth enclosing
// binders, innermost last.
func (tr *Translator) Translate(t syntax.Term, depth int) (Term, error) {
	switch t := t.(type) {
	case syntax.Const:
		return tr.constant(syntax.Name(t), depth), nil
	case syntax.Custom:
		return &Custom{Name: syntax.Name(t)}, nil
	case *syntax.Lam:
		tr.names = append(tr.names, t.Param)
		body, err := tr.Translate(t.Body, depth+1)
		tr.names = tr.names[:len(tr.names)-1]
		if err != nil {
			return nil, err
		}
		return &Lam{Body: body}, nil
	case *syntax.App:
		head, err := tr.Translate(t.Head, depth)
		if err != nil {
			return nil, err
		}
		args := make([]Term, len(t.Args))
		for i, a := range t.Args {
			if args[i], err = tr.Translate(a, depth); err != nil {
				return nil, err
			}
		}
		// A literal redex like (x\ x) a contracts immediately.
		for len(args) > 0 {
			lam, ok := head.(*Lam)
			if !ok {
				break
			}
			head, err = subst(lam.Body, depth, args[0])
			if err != nil {
				return nil, err
			}
			args = args[1:]
		}
		return MkApp(head, args), nil
	case syntax.String:
		return String(t), nil
	case syntax.Int:
		return Int(t), nil
	case syntax.Float:
		return Float(t), nil
	default:
		return nil, fmt.Errorf("cannot translate %s", t)
	}
}

func (tr *Translator) constant(n syntax.Name, depth int) Term {
	// The innermost binder shadows outer ones and free variables alike.
	base := depth - len(tr.names)
	for i := len(tr.names) - 1; i >= 0; i-- {
		if tr.names[i] == n {
			return Const(base + i)
		}
	}

	if IsVariableName(n) {
		v, ok := tr.vars[n]
		if !ok {
			v = UVar{Ref: tr.Store.NewCell(), Depth: base}
			tr.vars[n] = v
		}
		return v
	}

	if tr.Registry != nil && tr.Registry.Has(n) {
		return &Custom{Name: n}
	}
	return Global(n)
}
