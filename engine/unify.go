package engine

import (
	"errors"

	"github.com/lprolog/golp/syntax"
)

var nameEq = syntax.NewName("=")

// Unify unifies a, a heap term at the given depth, with b, a term that
// may still contain clause-local references into env. Simple flexible
// occurrences are bound (or assigned into env without allocating a cell);
// flexible terms applied to arguments suspend the equation on their cell
// instead of committing to a higher-order unifier. Unify reports false on
// a clash; bindings it made stay on the trail for the caller to undo.
func (s *Store) Unify(depth int, a, b Term, env []Term) (bool, error) {
	a, err := s.Deref(a, NoRef, depth, depth, nil)
	if err != nil {
		return false, nil
	}
	b, err = s.Deref(b, NoRef, depth, depth, env)
	if err != nil {
		return false, nil
	}

	// A clause-local variable takes the goal side without a cell.
	if arg, ok := b.(Arg); ok {
		env[arg.Index] = a
		return true, nil
	}

	av, aFlex := a.(UVar)
	bv, bFlex := b.(UVar)
	switch {
	case aFlex && bFlex && av.Ref == bv.Ref:
		return true, nil
	case aFlex:
		return s.bind(av, b, env, depth)
	case bFlex:
		return s.bind(bv, a, nil, depth)
	}

	// A flexible head applied to arguments: suspend the equation.
	if s.IsFlex(a, nil) || s.IsFlex(b, env) {
		return s.suspendEq(depth, a, b, env)
	}

	switch a := a.(type) {
	case Const:
		b, ok := b.(Const)
		return ok && a == b, nil
	case Int:
		b, ok := b.(Int)
		return ok && a == b, nil
	case Float:
		b, ok := b.(Float)
		return ok && a == b, nil
	case String:
		b, ok := b.(String)
		return ok && a == b, nil
	case *Lam:
		b, ok := b.(*Lam)
		if !ok {
			return false, nil
		}
		return s.Unify(depth+1, a.Body, b.Body, env)
	case *App:
		b, ok := b.(*App)
		if !ok || a.Head != b.Head || len(a.Args) != len(b.Args) {
			return false, nil
		}
		for i := range a.Args {
			ok, err := s.Unify(depth, a.Args[i], b.Args[i], env)
			if err != nil || !ok {
				return ok, err
			}
		}
		return true, nil
	case *Custom:
		b, ok := b.(*Custom)
		if !ok || a.Name != b.Name || len(a.Args) != len(b.Args) {
			return false, nil
		}
		for i := range a.Args {
			ok, err := s.Unify(depth, a.Args[i], b.Args[i], env)
			if err != nil || !ok {
				return ok, err
			}
		}
		return true, nil
	default:
		return false, nil
	}
}

// bind assigns t to the unbound cell v, restricting t to the cell's depth
// and refusing self-referential bindings. A clause-side t is lifted onto
// the heap first; a heap cell must never hold an Arg.
func (s *Store) bind(v UVar, t Term, env []Term, depth int) (bool, error) {
	var err error
	if env != nil {
		t, err = s.Lift(t, env, depth)
		if err != nil {
			return false, nil
		}
	}
	t, err = s.Deref(t, v.Ref, depth, v.Depth, nil)
	if err != nil {
		if errors.Is(err, errRestrict) {
			return false, nil
		}
		return false, err
	}
	s.Bind(v.Ref, t)
	return true, nil
}

// suspendEq suspends `a = b` on the flexible cells of both sides.
func (s *Store) suspendEq(depth int, a, b Term, env []Term) (bool, error) {
	if env != nil {
		var err error
		b, err = s.Lift(b, env, depth)
		if err != nil {
			return false, nil
		}
	}

	var blockers []Ref
	if r, ok := s.FlexRef(a, nil, depth); ok {
		blockers = append(blockers, r)
	}
	if r, ok := s.FlexRef(b, nil, depth); ok {
		blockers = append(blockers, r)
	}
	if len(blockers) == 0 {
		return false, nil
	}

	s.Suspend(StuckGoal{
		Kind:     GoalConstraint,
		Goal:     &App{Head: Global(nameEq), Args: []Term{a, b}},
		Blockers: blockers,
		Depth:    depth,
	})
	return true, nil
}
