package engine

import "errors"

// errRestrict reports that a term cannot be moved to a shallower binder
// depth because it mentions a binder that is not visible there, or that a
// binding would be self-referential. Both surface as unification failure.
var errRestrict = errors.New("term not visible at target depth")

// Deref normalizes t for observation at binder depth to, given that it
// was formed at depth from: it transitively follows bound cells, resolves
// assigned clause-local references through env, beta-reduces redexes that
// substitution uncovers and re-indexes bound-variable references across
// the depth difference. Levels below both depths are the shared context
// and stay put; the term's own binders, at levels from and above, are
// renumbered to sit above to. An unbound cell equal to avoid means the
// walk re-entered the cell being bound; that surfaces as errRestrict.
func (s *Store) Deref(t Term, avoid Ref, from, to int, env []Term) (Term, error) {
	return s.deref(t, avoid, from, to, 0, env)
}

// crossed counts the binders entered inside t, so the absolute depth of
// the current position in the result is to+crossed.
func (s *Store) deref(t Term, avoid Ref, from, to, crossed int, env []Term) (Term, error) {
	switch t := t.(type) {
	case Const:
		return shiftConst(t, from, to)
	case Int, Float, String:
		return t, nil
	case *Lam:
		body, err := s.deref(t.Body, avoid, from, to, crossed+1, env)
		if err != nil {
			return nil, err
		}
		return &Lam{Body: body}, nil
	case *App:
		head, err := shiftConst(t.Head, from, to)
		if err != nil {
			return nil, err
		}
		args, err := s.derefArgs(t.Args, avoid, from, to, crossed, env)
		if err != nil {
			return nil, err
		}
		return &App{Head: head.(Const), Args: args}, nil
	case *Custom:
		args, err := s.derefArgs(t.Args, avoid, from, to, crossed, env)
		if err != nil {
			return nil, err
		}
		return &Custom{Name: t.Name, Args: args}, nil
	case UVar:
		return s.derefUVar(t, avoid, to, crossed)
	case AppUVar:
		return s.derefAppUVar(t, avoid, from, to, crossed, env)
	case Arg:
		if env != nil && env[t.Index] != nil {
			return s.deref(env[t.Index], avoid, from, to, crossed, nil)
		}
		return t, nil
	case AppArg:
		args, err := s.derefArgs(t.Args, avoid, from, to, crossed, env)
		if err != nil {
			return nil, err
		}
		if env != nil && env[t.Index] != nil {
			head, err := s.deref(env[t.Index], avoid, from, to, crossed, nil)
			if err != nil {
				return nil, err
			}
			return s.beta(head, args, avoid, to+crossed)
		}
		return AppArg{Index: t.Index, Args: args}, nil
	default:
		return t, nil
	}
}

// DerefUVar is the entry point for singleton unification variables.
// An unbound cell short-circuits: the variable is returned as-is.
func (s *Store) DerefUVar(v UVar, avoid Ref, to int) (Term, error) {
	return s.derefUVar(v, avoid, to, 0)
}

func (s *Store) derefUVar(v UVar, avoid Ref, to, crossed int) (Term, error) {
	if b := s.cells[v.Ref].binding; b != nil {
		return s.deref(b, avoid, v.Depth, to+crossed, 0, nil)
	}
	if v.Ref == avoid {
		return nil, errRestrict
	}
	return v, nil
}

// DerefAppUVar is the entry point for unification variables applied to
// argument lists. If the cell is bound, the binding is applied to the
// dereferenced arguments and beta-reduced.
func (s *Store) DerefAppUVar(v AppUVar, avoid Ref, from, to int, env []Term) (Term, error) {
	return s.derefAppUVar(v, avoid, from, to, 0, env)
}

func (s *Store) derefAppUVar(v AppUVar, avoid Ref, from, to, crossed int, env []Term) (Term, error) {
	args, err := s.derefArgs(v.Args, avoid, from, to, crossed, env)
	if err != nil {
		return nil, err
	}
	if b := s.cells[v.Ref].binding; b != nil {
		head, err := s.deref(b, avoid, v.Depth, to+crossed, 0, nil)
		if err != nil {
			return nil, err
		}
		return s.beta(head, args, avoid, to+crossed)
	}
	if v.Ref == avoid {
		return nil, errRestrict
	}
	return AppUVar{Ref: v.Ref, Depth: v.Depth, Args: args}, nil
}

func (s *Store) derefArgs(args []Term, avoid Ref, from, to, crossed int, env []Term) ([]Term, error) {
	out := make([]Term, len(args))
	for i, a := range args {
		var err error
		out[i], err = s.deref(a, avoid, from, to, crossed, env)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// shiftConst re-indexes a bound-variable reference across a depth
// difference. Levels below both depths belong to the shared context and
// are untouched, as are global constants; a level visible at from but not
// at to cannot be moved.
func shiftConst(c Const, from, to int) (Term, error) {
	switch {
	case c < 0:
		return c, nil
	case int(c) >= from:
		return Const(int(c) + to - from), nil
	case int(c) < to:
		return c, nil
	default:
		return nil, errRestrict
	}
}

// beta applies head to args, contracting lambda redexes. head and args
// are valid at the absolute depth at.
func (s *Store) beta(head Term, args []Term, avoid Ref, at int) (Term, error) {
	for len(args) > 0 {
		lam, ok := head.(*Lam)
		if !ok {
			break
		}
		body, err := subst(lam.Body, at, args[0])
		if err != nil {
			return nil, err
		}
		head, err = s.deref(body, avoid, at, at, 0, nil)
		if err != nil {
			return nil, err
		}
		args = args[1:]
	}
	return MkApp(head, args), nil
}

// subst replaces the binder at absolute level lvl with repl and shifts
// the levels above it down by one. Levels are absolute, so no adjustment
// happens under nested binders.
func subst(t Term, lvl int, repl Term) (Term, error) {
	switch t := t.(type) {
	case Const:
		switch {
		case int(t) == lvl:
			return repl, nil
		case int(t) > lvl:
			return Const(int(t) - 1), nil
		default:
			return t, nil
		}
	case *Lam:
		body, err := subst(t.Body, lvl, repl)
		if err != nil {
			return nil, err
		}
		return &Lam{Body: body}, nil
	case *App:
		head, err := subst(t.Head, lvl, repl)
		if err != nil {
			return nil, err
		}
		args, err := substArgs(t.Args, lvl, repl)
		if err != nil {
			return nil, err
		}
		return MkApp(head, args), nil
	case *Custom:
		args, err := substArgs(t.Args, lvl, repl)
		if err != nil {
			return nil, err
		}
		return &Custom{Name: t.Name, Args: args}, nil
	case AppUVar:
		args, err := substArgs(t.Args, lvl, repl)
		if err != nil {
			return nil, err
		}
		return AppUVar{Ref: t.Ref, Depth: t.Depth, Args: args}, nil
	case AppArg:
		args, err := substArgs(t.Args, lvl, repl)
		if err != nil {
			return nil, err
		}
		return AppArg{Index: t.Index, Args: args}, nil
	default:
		return t, nil
	}
}

func substArgs(args []Term, lvl int, repl Term) ([]Term, error) {
	out := make([]Term, len(args))
	for i, a := range args {
		var err error
		out[i], err = subst(a, lvl, repl)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// IsFlex reports whether t dereferences to an unbound cell or an
// unassigned clause-local variable. A flexible term can be bound; a rigid
// one must be structurally matched.
func (s *Store) IsFlex(t Term, env []Term) bool {
	switch t := t.(type) {
	case UVar:
		if b := s.cells[t.Ref].binding; b != nil {
			return s.IsFlex(b, nil)
		}
		return true
	case AppUVar:
		return s.cells[t.Ref].binding == nil
	case Arg:
		if env != nil && env[t.Index] != nil {
			return s.IsFlex(env[t.Index], nil)
		}
		return true
	case AppArg:
		if env != nil && env[t.Index] != nil {
			return false
		}
		return true
	default:
		return false
	}
}

// FlexRef returns the cell a flexible term is stuck on, allocating cells
// for clause-local variables that have none yet.
func (s *Store) FlexRef(t Term, env []Term, depth int) (Ref, bool) {
	switch t := t.(type) {
	case UVar:
		if s.cells[t.Ref].binding != nil {
			return NoRef, false
		}
		return t.Ref, true
	case AppUVar:
		if s.cells[t.Ref].binding != nil {
			return NoRef, false
		}
		return t.Ref, true
	case Arg:
		if env == nil {
			return NoRef, false
		}
		if env[t.Index] == nil {
			env[t.Index] = UVar{Ref: s.NewCell(), Depth: depth, Arity: t.Arity}
		}
		return s.FlexRef(env[t.Index], nil, depth)
	case AppArg:
		if env == nil {
			return NoRef, false
		}
		if env[t.Index] == nil {
			env[t.Index] = UVar{Ref: s.NewCell(), Depth: depth}
		}
		return s.FlexRef(env[t.Index], nil, depth)
	default:
		return NoRef, false
	}
}
