package engine

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lprolog/golp/syntax"
)

// WriteOption configures term rendering.
type WriteOption func(*writeOptions)

type writeOptions struct {
	internal bool
}

// WithInternal renders the internal numbering of constants, cells and
// frame slots instead of surface names. Used for tracing.
func WithInternal() WriteOption {
	return func(o *writeOptions) { o.internal = true }
}

// Write renders a runtime term. names is the binder-name stack for the
// depth enclosing binders, innermost last; env is the clause frame for
// positional references, or nil.
func Write(w io.Writer, t Term, s *Store, names []syntax.Name, depth int, env []Term, opts ...WriteOption) error {
	var o writeOptions
	for _, opt := range opts {
		opt(&o)
	}
	p := printer{w: w, s: s, names: names, env: env, opts: o}
	return p.term(t, depth, false)
}

// Sprint renders a runtime term to a string, for diagnostics.
func Sprint(t Term, s *Store, names []syntax.Name, depth int, env []Term, opts ...WriteOption) string {
	var b strings.Builder
	_ = Write(&b, t, s, names, depth, env, opts...)
	return b.String()
}

type printer struct {
	w     io.Writer
	s     *Store
	names []syntax.Name
	env   []Term
	opts  writeOptions
}

func (p *printer) print(args ...interface{}) error {
	_, err := fmt.Fprint(p.w, args...)
	return err
}

func (p *printer) term(t Term, depth int, nested bool) error {
	if p.s != nil {
		if d, err := p.s.Deref(t, NoRef, depth, depth, p.env); err == nil {
			t = d
		}
	}
	switch t := t.(type) {
	case Const:
		return p.constant(t)
	case Int:
		return p.print(strconv.FormatInt(int64(t), 10))
	case Float:
		return p.print(strconv.FormatFloat(float64(t), 'g', -1, 64))
	case String:
		return p.print(strconv.Quote(string(t)))
	case *Lam:
		if nested {
			if err := p.print("("); err != nil {
				return err
			}
		}
		name := p.bind(depth)
		if err := p.print(name.String(), `\ `); err != nil {
			return err
		}
		err := p.term(t.Body, depth+1, false)
		p.names = p.names[:len(p.names)-1]
		if err != nil {
			return err
		}
		if nested {
			return p.print(")")
		}
		return nil
	case *App:
		return p.app(t.Head, t.Args, depth, nested)
	case *Custom:
		return p.app(nil, append([]Term{Global(t.Name)}, t.Args...), depth, nested)
	case UVar:
		return p.uvar(t.Ref)
	case AppUVar:
		head := p.uvarText(t.Ref)
		return p.headArgs(head, t.Args, depth, nested)
	case Arg:
		return p.print(p.argText(t.Index))
	case AppArg:
		return p.headArgs(p.argText(t.Index), t.Args, depth, nested)
	default:
		return p.print("?")
	}
}

func (p *printer) constant(c Const) error {
	if n, ok := c.GlobalName(); ok {
		if p.opts.internal {
			return p.print(n.String(), "/", int(c))
		}
		return p.print(n.String())
	}
	if p.opts.internal {
		return p.print("#", int(c))
	}
	if int(c) < len(p.names) {
		return p.print(p.names[c].String())
	}
	return p.print("x", int(c))
}

// bind invents a display name for a binder introduced at depth.
func (p *printer) bind(depth int) syntax.Name {
	n := syntax.NewName("x" + strconv.Itoa(depth))
	p.names = append(p.names, n)
	return n
}

func (p *printer) uvar(r Ref) error {
	return p.print(p.uvarText(r))
}

func (p *printer) uvarText(r Ref) string {
	if p.opts.internal {
		return "?" + strconv.Itoa(int(r))
	}
	return "_" + strconv.Itoa(int(r))
}

func (p *printer) argText(i int) string {
	if p.opts.internal {
		return "A" + strconv.Itoa(i)
	}
	return "_A" + strconv.Itoa(i)
}

func (p *printer) app(head Term, args []Term, depth int, nested bool) error {
	if head != nil {
		args = append([]Term{head}, args...)
	}
	if nested {
		if err := p.print("("); err != nil {
			return err
		}
	}
	for i, a := range args {
		if i > 0 {
			if err := p.print(" "); err != nil {
				return err
			}
		}
		if err := p.term(a, depth, true); err != nil {
			return err
		}
	}
	if nested {
		return p.print(")")
	}
	return nil
}

func (p *printer) headArgs(head string, args []Term, depth int, nested bool) error {
	if nested {
		if err := p.print("("); err != nil {
			return err
		}
	}
	if err := p.print(head); err != nil {
		return err
	}
	for _, a := range args {
		if err := p.print(" "); err != nil {
			return err
		}
		if err := p.term(a, depth, true); err != nil {
			return err
		}
	}
	if nested {
		return p.print(")")
	}
	return nil
}
