package golp

import (
	"fmt"

	"github.com/lprolog/golp/engine"
	"github.com/lprolog/golp/syntax"
)

// Clause is a compiled program clause. Head and Body reference the
// clause's own variables positionally, as frame indices into an
// environment of Vars slots; cells are only allocated when the clause is
// selected. Depth is the binder depth the clause was formed at, 0 for
// clauses compiled from source.
type Clause struct {
	Key   syntax.Name
	Head  engine.Term
	Body  engine.Term
	Vars  int
	Depth int
}

// compileClause turns a surface clause into its positional form. reg
// marks registered names as native-predicate invocations and may be nil.
func compileClause(t syntax.Term, reg *engine.Registry) (*Clause, error) {
	head, body := t, syntax.Term(nil)
	if app, ok := t.(*syntax.App); ok {
		if h, ok := app.Head.(syntax.Const); ok && syntax.Name(h) == nameNeck && len(app.Args) == 2 {
			head, body = app.Args[0], app.Args[1]
		}
	}

	cc := clauseCompiler{reg: reg, slots: map[syntax.Name]int{}}
	h, err := cc.compile(head, 0)
	if err != nil {
		return nil, err
	}
	var b engine.Term
	if body != nil {
		if b, err = cc.compile(body, 0); err != nil {
			return nil, err
		}
	}

	key, err := clauseKey(h)
	if err != nil {
		return nil, err
	}
	return &Clause{Key: key, Head: h, Body: b, Vars: len(cc.slots)}, nil
}

// clauseKey is the head functor a clause is indexed under.
func clauseKey(head engine.Term) (syntax.Name, error) {
	switch head := head.(type) {
	case engine.Const:
		if n, ok := head.GlobalName(); ok {
			return n, nil
		}
		return 0, fmt.Errorf("clause head is a bound variable")
	case *engine.App:
		if n, ok := head.Head.GlobalName(); ok {
			return n, nil
		}
		return 0, fmt.Errorf("clause head is a bound variable")
	case *engine.Custom:
		return 0, fmt.Errorf("cannot redefine native predicate %s", head.Name)
	default:
		return 0, fmt.Errorf("flexible clause head")
	}
}

type clauseCompiler struct {
	reg   *engine.Registry
	slots map[syntax.Name]int
	names []syntax.Name
}

func (c *clauseCompiler) slot(n syntax.Name) int {
	i, ok := c.slots[n]
	if !ok {
		i = len(c.slots)
		c.slots[n] = i
	}
	return i
}

func (c *clauseCompiler) compile(t syntax.Term, depth int) (engine.Term, error) {
	switch t := t.(type) {
	case syntax.Const:
		return c.constant(syntax.Name(t), depth), nil
	case syntax.Custom:
		return &engine.Custom{Name: syntax.Name(t)}, nil
	case *syntax.Lam:
		c.names = append(c.names, t.Param)
		body, err := c.compile(t.Body, depth+1)
		c.names = c.names[:len(c.names)-1]
		if err != nil {
			return nil, err
		}
		return &engine.Lam{Body: body}, nil
	case *syntax.App:
		head, err := c.compile(t.Head, depth)
		if err != nil {
			return nil, err
		}
		args := make([]engine.Term, len(t.Args))
		for i, a := range t.Args {
			if args[i], err = c.compile(a, depth); err != nil {
				return nil, err
			}
		}
		return engine.MkApp(head, args), nil
	case syntax.String:
		return engine.String(t), nil
	case syntax.Int:
		return engine.Int(t), nil
	case syntax.Float:
		return engine.Float(t), nil
	default:
		return nil, fmt.Errorf("cannot compile %s", t)
	}
}

func (c *clauseCompiler) constant(n syntax.Name, depth int) engine.Term {
	base := depth - len(c.names)
	for i := len(c.names) - 1; i >= 0; i-- {
		if c.names[i] == n {
			return engine.Const(base + i)
		}
	}
	if engine.IsVariableName(n) {
		return engine.Arg{Index: c.slot(n)}
	}
	if c.reg != nil && c.reg.Has(n) {
		return &engine.Custom{Name: n}
	}
	return engine.Global(n)
}

// assumedClause turns a heap term, typically the hypothesis of an
// implication goal, into a clause selectable for the rest of the subgoal.
// Its variables are already cells, so the frame is empty.
func assumedClause(t engine.Term, depth int) (*Clause, error) {
	head, body := t, engine.Term(nil)
	if app, ok := t.(*engine.App); ok {
		if n, ok := app.Head.GlobalName(); ok && n == nameNeck && len(app.Args) == 2 {
			head, body = app.Args[0], app.Args[1]
		}
	}
	key, err := clauseKey(head)
	if err != nil {
		return nil, err
	}
	return &Clause{Key: key, Head: head, Body: body, Depth: depth}, nil
}

// Program is an ordered clause store indexed by head functor. Within a
// functor, source order is search order.
type Program struct {
	clauses map[syntax.Name][]*Clause
}

// NewProgram creates an empty program.
func NewProgram() *Program {
	return &Program{clauses: map[syntax.Name][]*Clause{}}
}

// Add appends a clause under its head functor.
func (p *Program) Add(c *Clause) {
	p.clauses[c.Key] = append(p.clauses[c.Key], c)
}

// Lookup returns the clauses for a functor in source order.
func (p *Program) Lookup(n syntax.Name) []*Clause {
	return p.clauses[n]
}
