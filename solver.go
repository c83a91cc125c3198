package golp

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/lprolog/golp/engine"
	"github.com/lprolog/golp/syntax"
)

// ErrStepLimit reports that a query exceeded the interpreter's step bound.
var ErrStepLimit = errors.New("step limit exceeded")

var (
	nameNeck   = syntax.NewName(":-")
	nameSemi   = syntax.NewName(";")
	nameIfte   = syntax.NewName("->")
	nameImply  = syntax.NewName("=>")
	nameEq     = syntax.NewName("=")
	nameIs     = syntax.NewName("is")
	nameLess   = syntax.NewName("<")
	nameLessEq = syntax.NewName("=<")
	nameGrt    = syntax.NewName(">")
	nameGrtEq  = syntax.NewName(">=")
	nameAdd    = syntax.NewName("+")
	nameSub    = syntax.NewName("-")
	nameMul    = syntax.NewName("*")
	nameDiv    = syntax.NewName("/")
	nameMod    = syntax.NewName("mod")
)

type cont func() (bool, error)

// solver is the depth-first resolution loop. It consumes the runtime
// through the store, the registry and the compiled program: clause
// selection backtracks by trail rollback, implication pushes assumptions,
// and goals with a flexible head suspend on their cell instead of
// enumerating bindings.
type solver struct {
	store    *engine.Store
	registry *engine.Registry
	program  *Program
	assumed  []*Clause

	steps int64
	limit int64
	trace bool
}

// solve proves goal, a heap term at the given depth, and calls k on
// success. It reports whether k ultimately succeeded; on false, every
// binding made along the way has been undone by the failing branch's
// choice point.
func (s *solver) solve(depth int, goal engine.Term, k cont) (bool, error) {
	if s.limit > 0 {
		if s.steps++; s.steps > s.limit {
			return false, ErrStepLimit
		}
	}

	g, err := s.store.Deref(goal, engine.NoRef, depth, depth, nil)
	if err != nil {
		return false, nil
	}
	if s.trace {
		logrus.WithField("depth", depth).Debug("solve ", engine.Sprint(g, s.store, nil, depth, nil))
	}

	switch g := g.(type) {
	case engine.Const:
		n, ok := g.GlobalName()
		if !ok {
			return false, fmt.Errorf("cannot call bound variable %s", engine.Sprint(g, s.store, nil, depth, nil))
		}
		if n == syntax.NameTrue {
			return k()
		}
		return s.call(depth, n, g, k)

	case *engine.App:
		n, ok := g.Head.GlobalName()
		if !ok {
			return false, fmt.Errorf("cannot call bound variable %s", engine.Sprint(g.Head, s.store, nil, depth, nil))
		}
		if len(g.Args) == 2 {
			switch n {
			case syntax.NameComma:
				a, b := g.Args[0], g.Args[1]
				return s.solve(depth, a, func() (bool, error) {
					return s.solve(depth, b, k)
				})
			case nameSemi:
				return s.disjunction(depth, g.Args[0], g.Args[1], k)
			case nameIfte:
				return s.ifThenElse(depth, g.Args[0], g.Args[1], nil, k)
			case nameImply:
				return s.implication(depth, g.Args[0], g.Args[1], k)
			case nameEq:
				return s.equate(depth, g.Args[0], g.Args[1], k)
			case nameIs:
				return s.evalIs(depth, g.Args[0], g.Args[1], k)
			case nameLess, nameLessEq, nameGrt, nameGrtEq:
				return s.compare(depth, n, g.Args[0], g.Args[1], k)
			}
		}
		return s.call(depth, n, g, k)

	case *engine.Custom:
		return s.native(depth, g, k)

	case engine.UVar:
		return s.delay(depth, g, g.Ref, k)
	case engine.AppUVar:
		return s.delay(depth, g, g.Ref, k)

	case *engine.Lam:
		return false, fmt.Errorf("cannot call an abstraction")
	default:
		return false, fmt.Errorf("cannot call %s", engine.Sprint(g, s.store, nil, depth, nil))
	}
}

// call selects clauses for the goal's functor, assumptions first (newest
// outward), then program clauses in source order.
func (s *solver) call(depth int, n syntax.Name, goal engine.Term, k cont) (bool, error) {
	clauses := s.clausesFor(n)
	if len(clauses) == 0 {
		logrus.WithField("predicate", n.String()).Warn("unknown predicate")
		return false, nil
	}

	for _, c := range clauses {
		mark := s.store.Mark()
		env := make([]engine.Term, c.Vars)

		head := c.Head
		body := c.Body
		if c.Depth != depth {
			var err error
			if head, err = s.store.Deref(head, engine.NoRef, c.Depth, depth, nil); err != nil {
				continue
			}
			if body != nil {
				if body, err = s.store.Deref(body, engine.NoRef, c.Depth, depth, nil); err != nil {
					continue
				}
			}
		}

		ok, err := s.store.Unify(depth, goal, head, env)
		if err != nil {
			return false, err
		}
		if ok {
			ok, err := s.proveBody(depth, body, env, k)
			if err != nil || ok {
				return ok, err
			}
		}
		s.undo(mark)
	}
	return false, nil
}

func (s *solver) proveBody(depth int, body engine.Term, env []engine.Term, k cont) (bool, error) {
	if body == nil {
		return s.wake(depth, k)
	}
	lifted, err := s.store.Lift(body, env, depth)
	if err != nil {
		return false, nil
	}
	return s.wake(depth, func() (bool, error) {
		return s.solve(depth, lifted, k)
	})
}

func (s *solver) clausesFor(n syntax.Name) []*Clause {
	var out []*Clause
	for i := len(s.assumed) - 1; i >= 0; i-- {
		if s.assumed[i].Key == n {
			out = append(out, s.assumed[i])
		}
	}
	return append(out, s.program.Lookup(n)...)
}

func (s *solver) disjunction(depth int, a, b engine.Term, k cont) (bool, error) {
	if c, t, ok := splitIfte(a); ok {
		return s.ifThenElse(depth, c, t, b, k)
	}
	mark := s.store.Mark()
	ok, err := s.solve(depth, a, k)
	if err != nil || ok {
		return ok, err
	}
	s.undo(mark)
	return s.solve(depth, b, k)
}

func splitIfte(t engine.Term) (cond, then engine.Term, ok bool) {
	app, isApp := t.(*engine.App)
	if !isApp || len(app.Args) != 2 {
		return nil, nil, false
	}
	if n, isGlobal := app.Head.GlobalName(); !isGlobal || n != nameIfte {
		return nil, nil, false
	}
	return app.Args[0], app.Args[1], true
}

// ifThenElse commits to the first solution of cond. els may be nil.
func (s *solver) ifThenElse(depth int, cond, then, els engine.Term, k cont) (bool, error) {
	mark := s.store.Mark()
	ok, err := s.solve(depth, cond, func() (bool, error) { return true, nil })
	if err != nil {
		return false, err
	}
	if ok {
		ok, err := s.solve(depth, then, k)
		if err != nil || ok {
			return ok, err
		}
		s.undo(mark)
		return false, nil
	}
	s.undo(mark)
	if els == nil {
		return false, nil
	}
	return s.solve(depth, els, k)
}

// implication makes hyp selectable while goal is being proved.
func (s *solver) implication(depth int, hyp, goal engine.Term, k cont) (bool, error) {
	c, err := assumedClause(hyp, depth)
	if err != nil {
		return false, err
	}
	s.assumed = append(s.assumed, c)
	ok, err := s.solve(depth, goal, k)
	s.assumed = s.assumed[:len(s.assumed)-1]
	return ok, err
}

func (s *solver) equate(depth int, a, b engine.Term, k cont) (bool, error) {
	mark := s.store.Mark()
	ok, err := s.store.Unify(depth, a, b, nil)
	if err != nil {
		return false, err
	}
	if ok {
		ok, err := s.wake(depth, k)
		if err != nil || ok {
			return ok, err
		}
	}
	s.undo(mark)
	return false, nil
}

// native dispatches a registered predicate and proves the goals it
// returns in order. ErrNoClause from the callback is failure, anything
// else is a defect and aborts the query.
func (s *solver) native(depth int, g *engine.Custom, k cont) (bool, error) {
	cb, ok := s.registry.Lookup(g.Name)
	if !ok {
		return false, fmt.Errorf("unknown native predicate %s", g.Name)
	}
	mark := s.store.Mark()
	goals, err := cb(depth, nil, s.store, g.Args)
	switch {
	case errors.Is(err, engine.ErrNoClause):
		s.undo(mark)
		return false, nil
	case err != nil:
		return false, err
	}
	ok, err = s.wake(depth, func() (bool, error) {
		return s.solveAll(depth, goals, k)
	})
	if err != nil || ok {
		return ok, err
	}
	s.undo(mark)
	return false, nil
}

func (s *solver) solveAll(depth int, goals []engine.Term, k cont) (bool, error) {
	if len(goals) == 0 {
		return k()
	}
	return s.solve(depth, goals[0], func() (bool, error) {
		return s.solveAll(depth, goals[1:], k)
	})
}

// delay suspends a goal whose head is still flexible and proceeds; it
// runs when the cell is bound.
func (s *solver) delay(depth int, g engine.Term, r engine.Ref, k cont) (bool, error) {
	s.store.Suspend(engine.StuckGoal{
		Kind:     engine.GoalDelayed,
		Goal:     g,
		Blockers: []engine.Ref{r},
		Depth:    depth,
	})
	if s.trace {
		logrus.WithField("cell", int(r)).Debug("goal delayed on flexible head")
	}
	return k()
}

// wake detaches and proves the goals whose blockers were just bound,
// oldest first, before continuing with k.
func (s *solver) wake(depth int, k cont) (bool, error) {
	ids := s.store.Woken()
	if len(ids) == 0 {
		return k()
	}
	for _, id := range ids {
		s.store.Detach(id)
	}
	var run func(i int) (bool, error)
	run = func(i int) (bool, error) {
		if i == len(ids) {
			return k()
		}
		g := s.store.Goal(ids[i])
		if s.trace {
			logrus.Debug("waking ", engine.Sprint(g.Goal, s.store, nil, g.Depth, g.Env))
		}
		return s.solve(g.Depth, g.Goal, func() (bool, error) {
			return run(i + 1)
		})
	}
	return run(0)
}

// undo rolls bindings back and drops the pending wake-ups those bindings
// caused; the goals stay attached to their blocker cells.
func (s *solver) undo(mark int) {
	s.store.Undo(mark)
	s.store.Woken()
}

func (s *solver) evalIs(depth int, out, expr engine.Term, k cont) (bool, error) {
	v, err := s.eval(depth, expr)
	if err != nil {
		return false, err
	}
	return s.equate(depth, out, v, k)
}

// eval computes a ground arithmetic expression to an Int or a Float.
func (s *solver) eval(depth int, t engine.Term) (engine.Term, error) {
	t, err := s.store.Deref(t, engine.NoRef, depth, depth, nil)
	if err != nil {
		return nil, err
	}
	switch t := t.(type) {
	case engine.Int, engine.Float:
		return t, nil
	case *engine.App:
		n, ok := t.Head.GlobalName()
		if !ok {
			return nil, fmt.Errorf("not an arithmetic expression: %s", engine.Sprint(t, s.store, nil, depth, nil))
		}
		if len(t.Args) == 1 && n == nameSub {
			v, err := s.eval(depth, t.Args[0])
			if err != nil {
				return nil, err
			}
			switch v := v.(type) {
			case engine.Int:
				return -v, nil
			case engine.Float:
				return -v, nil
			}
		}
		if len(t.Args) != 2 {
			return nil, fmt.Errorf("unknown arithmetic operation %s/%d", n, len(t.Args))
		}
		a, err := s.eval(depth, t.Args[0])
		if err != nil {
			return nil, err
		}
		b, err := s.eval(depth, t.Args[1])
		if err != nil {
			return nil, err
		}
		return apply2(n, a, b)
	default:
		return nil, fmt.Errorf("not evaluable: %s", engine.Sprint(t, s.store, nil, depth, nil))
	}
}

func apply2(n syntax.Name, a, b engine.Term) (engine.Term, error) {
	if ai, ok := a.(engine.Int); ok {
		if bi, ok := b.(engine.Int); ok {
			switch n {
			case nameAdd:
				return ai + bi, nil
			case nameSub:
				return ai - bi, nil
			case nameMul:
				return ai * bi, nil
			case nameDiv:
				if bi == 0 {
					return nil, fmt.Errorf("division by zero")
				}
				return ai / bi, nil
			case nameMod:
				if bi == 0 {
					return nil, fmt.Errorf("division by zero")
				}
				return ai % bi, nil
			}
			return nil, fmt.Errorf("unknown arithmetic operation %s", n)
		}
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if !aok || !bok {
		return nil, fmt.Errorf("not a number")
	}
	switch n {
	case nameAdd:
		return engine.Float(af + bf), nil
	case nameSub:
		return engine.Float(af - bf), nil
	case nameMul:
		return engine.Float(af * bf), nil
	case nameDiv:
		return engine.Float(af / bf), nil
	default:
		return nil, fmt.Errorf("unknown arithmetic operation %s", n)
	}
}

func asFloat(t engine.Term) (float64, bool) {
	switch t := t.(type) {
	case engine.Int:
		return float64(t), true
	case engine.Float:
		return float64(t), true
	default:
		return 0, false
	}
}

func (s *solver) compare(depth int, n syntax.Name, a, b engine.Term, k cont) (bool, error) {
	av, err := s.eval(depth, a)
	if err != nil {
		return false, err
	}
	bv, err := s.eval(depth, b)
	if err != nil {
		return false, err
	}
	af, _ := asFloat(av)
	bf, _ := asFloat(bv)
	var holds bool
	switch n {
	case nameLess:
		holds = af < bf
	case nameLessEq:
		holds = af <= bf
	case nameGrt:
		holds = af > bf
	case nameGrtEq:
		holds = af >= bf
	}
	if !holds {
		return false, nil
	}
	return k()
}
