package syntax

import (
	"io"
	"strconv"
)

// Parser turns a token stream into clauses or a single goal.
//
// The grammar is an operator-precedence grammar over the session's
// ladder: every declared precedence is a level, and below the loosest
// user level sit the two built-in levels, application (juxtaposition,
// left-flattening) and atomic terms. Parsing a fixity declaration mutates
// the session, so the declared symbols parse as operators for the rest of
// this parse and all later parses sharing the session.
type Parser struct {
	session *Session
	lexer   *Lexer
	buf     []Token
}

// NewParser creates a parser over r using the session's grammar.
func NewParser(s *Session, r io.RuneReader) *Parser {
	p := &Parser{session: s}
	p.lexer = NewLexer(r, s.Declared)
	return p
}

func (p *Parser) next() (Token, error) {
	if n := len(p.buf); n > 0 {
		t := p.buf[n-1]
		p.buf = p.buf[:n-1]
		return t, nil
	}
	return p.lexer.Next()
}

func (p *Parser) backup(t Token) {
	p.buf = append(p.buf, t)
}

func (p *Parser) unexpected(t Token) error {
	return Error{Pos: t.Pos, Msg: "unexpected token " + t.String()}
}

func (p *Parser) expect(k TokenKind) (Token, error) {
	t, err := p.next()
	if err != nil {
		return Token{}, err
	}
	if t.Kind != k {
		p.backup(t)
		return Token{}, p.unexpected(t)
	}
	return t, nil
}

// Program parses a whole source unit and returns its clauses in source
// order. Directives (module, sig, accumulate, import, local, kind, type,
// fixity declarations) contribute no clauses of their own; accumulate and
// import splice in the clauses of the resolved files.
func (p *Parser) Program() ([]Term, error) {
	var clauses []Term
	for {
		t, err := p.next()
		if err != nil {
			return nil, err
		}
		switch t.Kind {
		case TokenEOS:
			return clauses, nil
		case TokenModule, TokenSig:
			if _, err := p.expect(TokenIdent); err != nil {
				return nil, err
			}
			if _, err := p.expect(TokenFullStop); err != nil {
				return nil, err
			}
		case TokenAccumulate, TokenImport:
			names, err := p.nameList()
			if err != nil {
				return nil, err
			}
			if p.session.Resolver == nil {
				return nil, Error{Pos: t.Pos, Msg: "no resolver for " + t.Val}
			}
			cs, err := p.session.Resolver.Resolve(names)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, cs...)
		case TokenLocal, TokenKindDecl, TokenTypeDecl:
			// Type and kind annotations are recognized and discarded.
			if err := p.skipToFullStop(t.Pos); err != nil {
				return nil, err
			}
		case TokenFixity:
			if err := p.fixityDecl(t); err != nil {
				return nil, err
			}
		default:
			p.backup(t)
			clause, err := p.term(p.loosest())
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokenFullStop); err != nil {
				return nil, err
			}
			clauses = append(clauses, clause)
		}
	}
}

// Goal parses a single term, optionally followed by a full stop.
func (p *Parser) Goal() (Term, error) {
	g, err := p.term(p.loosest())
	if err != nil {
		return nil, err
	}
	t, err := p.next()
	if err != nil {
		return nil, err
	}
	if t.Kind == TokenFullStop {
		t, err = p.next()
		if err != nil {
			return nil, err
		}
	}
	if t.Kind != TokenEOS {
		p.backup(t)
		return nil, p.unexpected(t)
	}
	return g, nil
}

func (p *Parser) nameList() ([]string, error) {
	var names []string
	for {
		t, err := p.next()
		if err != nil {
			return nil, err
		}
		switch t.Kind {
		case TokenIdent, TokenString:
			names = append(names, t.Val)
		default:
			p.backup(t)
			return nil, p.unexpected(t)
		}
		t, err = p.next()
		if err != nil {
			return nil, err
		}
		switch {
		case t.Kind == TokenComma || (t.Kind == TokenSymbol && t.Val == ","):
			continue
		case t.Kind == TokenFullStop:
			return names, nil
		default:
			p.backup(t)
			return nil, p.unexpected(t)
		}
	}
}

func (p *Parser) skipToFullStop(start Position) error {
	for {
		t, err := p.next()
		if err != nil {
			return err
		}
		switch t.Kind {
		case TokenFullStop:
			return nil
		case TokenEOS:
			return Error{Pos: start, Msg: "declaration not terminated by a full stop"}
		}
	}
}

// fixityDecl handles `<fixity> <symbols> <precedence>.`. Symbols are
// installed one by one, so a failure on a later symbol does not retract
// the ones already installed in the same statement.
func (p *Parser) fixityDecl(kw Token) error {
	var fix Fixity
	switch kw.Val {
	case "infixl":
		fix = FixityInfixl
	case "infixr":
		fix = FixityInfixr
	case "infix":
		fix = FixityInfix
	case "prefix":
		fix = FixityPrefix
	case "postfix":
		fix = FixityPostfix
	}

	var symbols []Name
	for {
		t, err := p.next()
		if err != nil {
			return err
		}
		switch t.Kind {
		case TokenIdent, TokenGraphic, TokenSymbol, TokenComma, TokenBind:
			symbols = append(symbols, NewName(t.Val))
		case TokenInteger:
			if len(symbols) == 0 {
				p.backup(t)
				return p.unexpected(t)
			}
			prec, err := strconv.Atoi(t.Val)
			if err != nil {
				return Error{Pos: t.Pos, Msg: "invalid precedence " + t.Val}
			}
			if _, err := p.expect(TokenFullStop); err != nil {
				return err
			}
			for _, sym := range symbols {
				if err := p.session.Declare(fix, sym, prec); err != nil {
					return err
				}
			}
			return nil
		default:
			p.backup(t)
			return p.unexpected(t)
		}
	}
}

// loosest is the ladder index to start term parsing at.
func (p *Parser) loosest() int {
	return len(p.session.ladder) - 1
}

// opAt consumes the next token if it is an operator declared at the given
// precedence; otherwise it leaves the stream untouched.
func (p *Parser) opAt(prec int) (Operator, Token, bool, error) {
	t, err := p.next()
	if err != nil {
		return Operator{}, Token{}, false, err
	}
	if t.Kind != TokenSymbol {
		p.backup(t)
		return Operator{}, Token{}, false, nil
	}
	op, ok := p.session.Operator(NewName(t.Val))
	if !ok || op.Prec != prec {
		p.backup(t)
		return Operator{}, Token{}, false, nil
	}
	return op, t, true, nil
}

// term parses a term at ladder level i; i == -1 is the application level.
func (p *Parser) term(i int) (Term, error) {
	if i < 0 {
		return p.app()
	}
	prec := p.session.ladder[i]

	var lhs Term
	op, tok, ok, err := p.opAt(prec)
	switch {
	case err != nil:
		return nil, err
	case ok && op.Fix == FixityPrefix:
		operand, err := p.term(i)
		if err != nil {
			return nil, err
		}
		lhs, err = Apply(Const(op.Name), operand)
		if err != nil {
			return nil, err
		}
	case ok:
		// An infix or postfix operator with no left operand. The atom
		// reading is reserved for the parenthesized form.
		p.backup(tok)
		return nil, p.unexpected(tok)
	default:
		lhs, err = p.term(i - 1)
		if err != nil {
			return nil, err
		}
	}

	for {
		op, tok, ok, err := p.opAt(prec)
		if err != nil {
			return nil, err
		}
		if !ok {
			return lhs, nil
		}
		switch op.Fix {
		case FixityInfixl:
			rhs, err := p.term(i - 1)
			if err != nil {
				return nil, err
			}
			lhs, err = Apply(Const(op.Name), lhs, rhs)
			if err != nil {
				return nil, err
			}
		case FixityInfixr:
			rhs, err := p.term(i)
			if err != nil {
				return nil, err
			}
			return Apply(Const(op.Name), lhs, rhs)
		case FixityInfix:
			rhs, err := p.term(i - 1)
			if err != nil {
				return nil, err
			}
			return Apply(Const(op.Name), lhs, rhs)
		case FixityPostfix:
			lhs, err = Apply(Const(op.Name), lhs)
			if err != nil {
				return nil, err
			}
		case FixityPrefix:
			// A prefix operator directly after a complete term ends it.
			p.backup(tok)
			return lhs, nil
		}
	}
}

func startsAtomic(k TokenKind) bool {
	switch k {
	case TokenIdent, TokenBuiltin, TokenInteger, TokenFloat, TokenString, TokenParenL, TokenBracketL:
		return true
	default:
		return false
	}
}

// app parses one or more atomic terms; juxtaposition is application and
// applications flatten to the left.
func (p *Parser) app() (Term, error) {
	t, err := p.atomic()
	if err != nil {
		return nil, err
	}
	for {
		next, err := p.next()
		if err != nil {
			return nil, err
		}
		p.backup(next)
		if !startsAtomic(next.Kind) {
			return t, nil
		}
		arg, err := p.atomic()
		if err != nil {
			return nil, err
		}
		t, err = Apply(t, arg)
		if err != nil {
			return nil, err
		}
	}
}

func (p *Parser) atomic() (Term, error) {
	t, err := p.next()
	if err != nil {
		return nil, err
	}
	switch t.Kind {
	case TokenIdent:
		name := NewName(t.Val)
		if t.Val == "_" {
			return Const(p.session.FreshName()), nil
		}
		bind, err := p.next()
		if err != nil {
			return nil, err
		}
		if bind.Kind == TokenBind {
			body, err := p.term(p.loosest())
			if err != nil {
				return nil, err
			}
			return &Lam{Param: name, Body: body}, nil
		}
		p.backup(bind)
		return Const(name), nil
	case TokenBuiltin:
		return Custom(NewName(t.Val)), nil
	case TokenInteger:
		return integerTerm(t)
	case TokenFloat:
		f, err := strconv.ParseFloat(t.Val, 64)
		if err != nil {
			return nil, Error{Pos: t.Pos, Msg: "invalid float " + t.Val}
		}
		return Float(f), nil
	case TokenString:
		return String(t.Val), nil
	case TokenParenL:
		return p.parenthesized()
	case TokenBracketL:
		return p.list(t)
	default:
		p.backup(t)
		return nil, p.unexpected(t)
	}
}

func (p *Parser) parenthesized() (Term, error) {
	// An operator symbol alone in parentheses is a plain atom.
	t, err := p.next()
	if err != nil {
		return nil, err
	}
	if t.Kind == TokenSymbol {
		closing, err := p.next()
		if err != nil {
			return nil, err
		}
		if closing.Kind == TokenParenR {
			return Const(NewName(t.Val)), nil
		}
		p.backup(closing)
	}
	p.backup(t)

	inner, err := p.term(p.loosest())
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenParenR); err != nil {
		return nil, err
	}
	return inner, nil
}

// list parses `[e1, ..., en | tail]` into right-nested '::' applications
// ending in tail, nil by default. Elements are parsed tighter than ','.
func (p *Parser) list(open Token) (Term, error) {
	t, err := p.next()
	if err != nil {
		return nil, err
	}
	switch t.Kind {
	case TokenBracketR:
		return Const(NameNil), nil
	case TokenBar:
		p.backup(t)
		return nil, Error{Pos: open.Pos, Msg: "an empty list cannot have a tail"}
	}
	p.backup(t)

	lev := p.elementLevel()
	var elems []Term
	tail := Term(Const(NameNil))
	for {
		e, err := p.term(lev)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)

		t, err := p.next()
		if err != nil {
			return nil, err
		}
		switch {
		case t.Kind == TokenComma || (t.Kind == TokenSymbol && t.Val == ","):
			continue
		case t.Kind == TokenBar:
			tail, err = p.term(lev)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokenBracketR); err != nil {
				return nil, err
			}
			return consChain(elems, tail)
		case t.Kind == TokenBracketR:
			return consChain(elems, tail)
		default:
			p.backup(t)
			return nil, p.unexpected(t)
		}
	}
}

// elementLevel is the level just tighter than ',', so commas separate
// elements instead of building conjunctions.
func (p *Parser) elementLevel() int {
	op, ok := p.session.Operator(NameComma)
	if !ok {
		return -1
	}
	return p.session.levelIndex(op.Prec) - 1
}

func consChain(elems []Term, tail Term) (Term, error) {
	t := tail
	for i := len(elems) - 1; i >= 0; i-- {
		var err error
		t, err = Apply(Const(NameCons), elems[i], t)
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}
