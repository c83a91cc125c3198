package engine

// Lift moves a clause-local term onto the heap: every Arg or AppArg whose
// frame slot is still empty gets a fresh cell at the given depth, and
// slots already assigned are substituted in. Clause bodies keep
// positional references until the clause is actually selected, so cells
// are only ever allocated for variables that escape the clause.
func (s *Store) Lift(t Term, env []Term, depth int) (Term, error) {
	return s.lift(t, env, depth, depth)
}

// base is the depth the clause frame lives at; depth tracks the binders
// crossed inside t. Cells are always allocated at base, since an Arg slot
// is shared by occurrences under different binders.
func (s *Store) lift(t Term, env []Term, base, depth int) (Term, error) {
	switch t := t.(type) {
	case Arg:
		if env[t.Index] == nil {
			env[t.Index] = UVar{Ref: s.NewCell(), Depth: base, Arity: t.Arity}
		}
		return env[t.Index], nil
	case AppArg:
		args, err := s.liftArgs(t.Args, env, base, depth)
		if err != nil {
			return nil, err
		}
		if env[t.Index] == nil {
			env[t.Index] = UVar{Ref: s.NewCell(), Depth: base}
		}
		head, err := s.Deref(env[t.Index], NoRef, depth, depth, nil)
		if err != nil {
			return nil, err
		}
		return s.beta(head, args, NoRef, depth)
	case *Lam:
		body, err := s.lift(t.Body, env, base, depth+1)
		if err != nil {
			return nil, err
		}
		return &Lam{Body: body}, nil
	case *App:
		args, err := s.liftArgs(t.Args, env, base, depth)
		if err != nil {
			return nil, err
		}
		return &App{Head: t.Head, Args: args}, nil
	case *Custom:
		args, err := s.liftArgs(t.Args, env, base, depth)
		if err != nil {
			return nil, err
		}
		return &Custom{Name: t.Name, Args: args}, nil
	default:
		return t, nil
	}
}

func (s *Store) liftArgs(args []Term, env []Term, base, depth int) ([]Term, error) {
	out := make([]Term, len(args))
	for i, a := range args {
		var err error
		out[i], err = s.lift(a, env, base, depth)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
