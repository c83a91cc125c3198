// Package golp is an embedded higher-order logic-programming language, a
// Prolog dialect with lambda abstraction and explicit binders. The
// Interpreter ties together the extensible parser (package syntax), the
// term and unification runtime (package engine), the file resolver and
// the depth-first resolution loop.
package golp

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lprolog/golp/engine"
	"github.com/lprolog/golp/syntax"
)

// Interpreter is a parser session, a cell store, a native-predicate
// registry and a compiled program behind one facade. It is not safe for
// concurrent use; independent programs need separate interpreters.
type Interpreter struct {
	// Out receives the output of $print. Defaults to os.Stdout.
	Out io.Writer

	// StepLimit bounds the number of resolution steps per query;
	// 0 means unbounded.
	StepLimit int64

	// Trace enables debug logging of the resolution loop.
	Trace bool

	session  *syntax.Session
	store    *engine.Store
	registry *engine.Registry
	program  *Program
}

// Bindings maps a query's free variable names to the rendered terms they
// were bound to in a solution.
type Bindings map[string]string

// New creates an interpreter with the pervasive operators and library
// loaded and the default native predicates registered.
func New() *Interpreter {
	i := &Interpreter{
		Out:      os.Stdout,
		session:  syntax.NewSession(),
		store:    engine.NewStore(),
		registry: &engine.Registry{},
		program:  NewProgram(),
	}
	i.Register("$print", i.builtinPrint)
	i.Register("$delay", i.builtinDelay)
	i.Register("$constraint", i.builtinConstraint)
	if err := i.ParseString(pervasives); err != nil {
		panic(fmt.Sprintf("golp: pervasive program: %v", err))
	}
	return i
}

// Register installs a native predicate; see engine.Registry.
func (i *Interpreter) Register(name string, b engine.Builtin) {
	i.registry.Register(name, b)
}

// ParseFiles loads the named source files, resolving accumulates
// relative to each file, and adds their clauses to the program in
// argument order.
func (i *Interpreter) ParseFiles(names ...string) error {
	r := newFileResolver(i.session, ".")
	i.session.Resolver = r
	defer func() { i.session.Resolver = nil }()

	clauses, err := r.Resolve(names)
	if err != nil {
		return err
	}
	return i.add(clauses)
}

// ParseString parses source text and adds its clauses to the program.
// Accumulate directives resolve relative to the working directory.
func (i *Interpreter) ParseString(src string) error {
	r := newFileResolver(i.session, ".")
	i.session.Resolver = r
	defer func() { i.session.Resolver = nil }()

	p := syntax.NewParser(i.session, strings.NewReader(src))
	clauses, err := p.Program()
	if err != nil {
		return err
	}
	return i.add(clauses)
}

func (i *Interpreter) add(clauses []syntax.Term) error {
	for _, t := range clauses {
		c, err := compileClause(t, i.registry)
		if err != nil {
			return err
		}
		i.program.Add(c)
	}
	return nil
}

// ParseGoal parses a single goal into a runtime term, allocating a cell
// for each free variable. The returned map names those cells.
func (i *Interpreter) ParseGoal(src string) (engine.Term, map[syntax.Name]engine.UVar, error) {
	p := syntax.NewParser(i.session, strings.NewReader(src))
	t, err := p.Goal()
	if err != nil {
		return nil, nil, err
	}
	tr := engine.NewTranslator(i.store, i.registry)
	g, err := tr.Translate(t, 0)
	if err != nil {
		return nil, nil, err
	}
	return g, tr.Vars(), nil
}

// Solve proves the goal and returns the bindings of its named free
// variables for the first solution found. A goal with no solution fails
// with engine.ErrNoClause; bindings made by a failed query are undone.
func (i *Interpreter) Solve(goal string) (Bindings, error) {
	g, vars, err := i.ParseGoal(goal)
	if err != nil {
		return nil, err
	}

	sv := &solver{
		store:    i.store,
		registry: i.registry,
		program:  i.program,
		limit:    i.StepLimit,
		trace:    i.Trace,
	}
	mark := i.store.Mark()
	ok, err := sv.solve(0, g, func() (bool, error) { return true, nil })
	if err != nil {
		return nil, err
	}
	if !ok {
		sv.undo(mark)
		return nil, engine.ErrNoClause
	}

	b := Bindings{}
	for n, v := range vars {
		if strings.HasPrefix(n.String(), "_") {
			continue
		}
		b[n.String()] = engine.Sprint(v, i.store, nil, 0, nil)
	}
	return b, nil
}

// builtinPrint renders its arguments and writes them as one line.
func (i *Interpreter) builtinPrint(depth int, env []engine.Term, s *engine.Store, args []engine.Term) ([]engine.Term, error) {
	parts := make([]string, len(args))
	for j, a := range args {
		parts[j] = engine.Sprint(a, s, nil, depth, env)
	}
	_, err := fmt.Fprintln(i.Out, strings.Join(parts, " "))
	return nil, err
}

// builtinDelay postpones a goal until a variable is bound:
// $delay Goal Var. A bound second argument runs the goal immediately.
func (i *Interpreter) builtinDelay(depth int, env []engine.Term, s *engine.Store, args []engine.Term) ([]engine.Term, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("$delay: expected 2 arguments, got %d", len(args))
	}
	return suspend(engine.GoalDelayed, depth, env, s, args[0], args[1:])
}

// builtinConstraint declares a constraint suspended on one or more
// variables: $constraint Goal V1 ... Vn. With every blocker already
// bound, the goal runs immediately.
func (i *Interpreter) builtinConstraint(depth int, env []engine.Term, s *engine.Store, args []engine.Term) ([]engine.Term, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("$constraint: expected at least 2 arguments, got %d", len(args))
	}
	return suspend(engine.GoalConstraint, depth, env, s, args[0], args[1:])
}

func suspend(kind engine.GoalKind, depth int, env []engine.Term, s *engine.Store, goal engine.Term, on []engine.Term) ([]engine.Term, error) {
	goal, err := s.Deref(goal, engine.NoRef, depth, depth, env)
	if err != nil {
		return nil, err
	}

	var blockers []engine.Ref
	for _, t := range on {
		t, err := s.Deref(t, engine.NoRef, depth, depth, env)
		if err != nil {
			return nil, err
		}
		if r, ok := s.FlexRef(t, env, depth); ok {
			blockers = append(blockers, r)
		}
	}
	if len(blockers) == 0 {
		return []engine.Term{goal}, nil
	}

	s.Suspend(engine.StuckGoal{
		Kind:     kind,
		Goal:     goal,
		Blockers: blockers,
		Depth:    depth,
	})
	return nil, nil
}
